package handler_test

import (
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/suite"

	"todolist/internal/core/model/response"
)

type TaskHandlerSuite struct {
	suite.Suite
	server *testServer
	token  string
}

func (s *TaskHandlerSuite) SetupTest() {
	s.server = newTestServer(s.T())
	s.token = s.server.register("alice")
}

func TestTaskHandlerSuite(t *testing.T) {
	RegisterTestingT(t)
	suite.Run(t, new(TaskHandlerSuite))
}

func (s *TaskHandlerSuite) TestRoutesRequireAuth() {
	for _, route := range [][2]string{
		{http.MethodGet, "/api/tasks"},
		{http.MethodPost, "/api/tasks"},
		{http.MethodPut, "/api/tasks/1"},
		{http.MethodDelete, "/api/tasks/1"},
		{http.MethodDelete, "/api/tasks/completed"},
	} {
		rr := s.server.do(route[0], route[1], "", "")

		Expect(rr.Code).To(Equal(http.StatusUnauthorized), route[0]+" "+route[1])
		Expect(decodeError(rr).Code).To(Equal("UNAUTHORIZED"))
	}
}

func (s *TaskHandlerSuite) TestCreateTask() {
	rr := s.server.do(http.MethodPost, "/api/tasks",
		`{"text": "  Buy milk  ", "category": "home", "due_date": "2025-02-01"}`, s.token)

	Expect(rr.Code).To(Equal(http.StatusCreated))

	data := decode[response.TaskCreatedResponse](rr)
	Expect(data.Message).To(Equal("Task created successfully"))
	Expect(data.Task.ID).To(BeNumerically(">", 0))
	Expect(data.Task.Text).To(Equal("Buy milk"))
	Expect(data.Task.Completed).To(BeFalse())
	Expect(*data.Task.Category).To(Equal("home"))
	Expect(*data.Task.DueDate).To(Equal("2025-02-01"))
	Expect(data.Task.CreatedAt.Equal(s.server.Clock.Now())).To(BeTrue())
	Expect(data.Task.UpdatedAt.Equal(s.server.Clock.Now())).To(BeTrue())
}

func (s *TaskHandlerSuite) TestCreateTaskWithoutCategory() {
	rr := s.server.do(http.MethodPost, "/api/tasks", `{"text": "Read", "due_date": "2025-02-01"}`, s.token)

	Expect(rr.Code).To(Equal(http.StatusCreated))
	Expect(decode[response.TaskCreatedResponse](rr).Task.Category).To(BeNil())
}

func (s *TaskHandlerSuite) TestCreateTaskValidation() {
	cases := map[string]string{
		`{"text": "", "due_date": "2025-02-01"}`:                        "Task text is required",
		`{"text": "   ", "due_date": "2025-02-01"}`:                     "Task text is required",
		`{"text": "", "due_date": ""}`:                                  "Task text is required",
		`{"text": "Read"}`:                                              "Due date is required. Please select a date from the calendar.",
		`{"text": "Read", "due_date": ""}`:                              "Due date is required. Please select a date from the calendar.",
		`{"text": "Read", "due_date": "2025-02-01", "category": "fun"}`: "Invalid category: fun",
	}

	for body, message := range cases {
		rr := s.server.do(http.MethodPost, "/api/tasks", body, s.token)

		Expect(rr.Code).To(Equal(http.StatusBadRequest), body)
		Expect(decodeError(rr).Message).To(Equal(message), body)
	}

	Expect(s.server.listTasks(s.token)).To(BeEmpty())
}

func (s *TaskHandlerSuite) TestCreateTaskTextLength() {
	limit := strings.Repeat("a", 500)

	rr := s.server.do(http.MethodPost, "/api/tasks", fmt.Sprintf(`{"text": %q, "due_date": "2025-02-01"}`, limit), s.token)
	Expect(rr.Code).To(Equal(http.StatusCreated))

	rr = s.server.do(http.MethodPost, "/api/tasks", fmt.Sprintf(`{"text": %q, "due_date": "2025-02-01"}`, limit+"a"), s.token)
	Expect(rr.Code).To(Equal(http.StatusBadRequest))
	Expect(decodeError(rr).Message).To(Equal("Task text must be at most 500 characters"))
}

func (s *TaskHandlerSuite) TestListTasksNewestFirst() {
	first := s.server.createTask(s.token, `{"text": "first", "due_date": "2025-02-01"}`)
	s.server.Clock.Advance(time.Minute)
	second := s.server.createTask(s.token, `{"text": "second", "due_date": "2025-02-01"}`)

	tasks := s.server.listTasks(s.token)

	Expect(tasks).To(HaveLen(2))
	Expect(tasks[0].ID).To(Equal(second))
	Expect(tasks[1].ID).To(Equal(first))
}

func (s *TaskHandlerSuite) TestTasksAreIsolatedPerUser() {
	s.server.createTask(s.token, `{"text": "mine", "due_date": "2025-02-01"}`)

	other := s.server.register("bob")

	Expect(s.server.listTasks(other)).To(BeEmpty())
	Expect(s.server.listTasks(s.token)).To(HaveLen(1))
}

func (s *TaskHandlerSuite) TestUpdateTask() {
	id := s.server.createTask(s.token, `{"text": "Read", "category": "study", "due_date": "2025-02-01"}`)
	s.server.Clock.Advance(time.Hour)

	rr := s.server.do(http.MethodPut, fmt.Sprintf("/api/tasks/%d", id),
		`{"completed": true, "text": " Read a book ", "category": null, "due_date": "2025-03-01"}`, s.token)

	Expect(rr.Code).To(Equal(http.StatusOK))
	Expect(decode[response.MessageResponse](rr).Message).To(Equal("Task updated successfully"))

	task := s.server.listTasks(s.token)[0]
	Expect(task.Completed).To(BeTrue())
	Expect(task.Text).To(Equal("Read a book"))
	Expect(task.Category).To(BeNil())
	Expect(*task.DueDate).To(Equal("2025-03-01"))
	Expect(task.UpdatedAt.Equal(s.server.Clock.Now())).To(BeTrue())
	Expect(task.CreatedAt.Before(task.UpdatedAt)).To(BeTrue())
}

func (s *TaskHandlerSuite) TestUpdateLeavesAbsentFields() {
	id := s.server.createTask(s.token, `{"text": "Read", "category": "study", "due_date": "2025-02-01"}`)

	rr := s.server.do(http.MethodPut, fmt.Sprintf("/api/tasks/%d", id), `{"completed": true}`, s.token)
	Expect(rr.Code).To(Equal(http.StatusOK))

	task := s.server.listTasks(s.token)[0]
	Expect(task.Text).To(Equal("Read"))
	Expect(*task.Category).To(Equal("study"))
	Expect(*task.DueDate).To(Equal("2025-02-01"))
}

func (s *TaskHandlerSuite) TestUpdateEmptyBodyRefreshesTimestamp() {
	id := s.server.createTask(s.token, `{"text": "Read", "due_date": "2025-02-01"}`)
	s.server.Clock.Advance(time.Hour)

	rr := s.server.do(http.MethodPut, fmt.Sprintf("/api/tasks/%d", id), `{}`, s.token)
	Expect(rr.Code).To(Equal(http.StatusOK))

	Expect(s.server.listTasks(s.token)[0].UpdatedAt.Equal(s.server.Clock.Now())).To(BeTrue())
}

func (s *TaskHandlerSuite) TestUpdateRejectsEmptyText() {
	id := s.server.createTask(s.token, `{"text": "Read", "due_date": "2025-02-01"}`)

	rr := s.server.do(http.MethodPut, fmt.Sprintf("/api/tasks/%d", id), `{"text": "   "}`, s.token)

	Expect(rr.Code).To(Equal(http.StatusBadRequest))
	Expect(s.server.listTasks(s.token)[0].Text).To(Equal("Read"))
}

func (s *TaskHandlerSuite) TestUpdateNotFound() {
	rr := s.server.do(http.MethodPut, "/api/tasks/999", `{"completed": true}`, s.token)

	Expect(rr.Code).To(Equal(http.StatusNotFound))
	Expect(decodeError(rr).Message).To(Equal("Task not found"))
}

func (s *TaskHandlerSuite) TestUpdateOtherUsersTask() {
	id := s.server.createTask(s.token, `{"text": "mine", "due_date": "2025-02-01"}`)
	other := s.server.register("bob")

	rr := s.server.do(http.MethodPut, fmt.Sprintf("/api/tasks/%d", id), `{"completed": true}`, other)

	Expect(rr.Code).To(Equal(http.StatusNotFound))
	Expect(s.server.listTasks(s.token)[0].Completed).To(BeFalse())
}

func (s *TaskHandlerSuite) TestInvalidTaskID() {
	for _, method := range []string{http.MethodPut, http.MethodDelete} {
		rr := s.server.do(method, "/api/tasks/abc", `{}`, s.token)

		Expect(rr.Code).To(Equal(http.StatusBadRequest), method)
		Expect(decodeError(rr).Message).To(Equal("Invalid task ID"))
	}
}

func (s *TaskHandlerSuite) TestDeleteTaskMovesToTrash() {
	id := s.server.createTask(s.token, `{"text": "Read", "category": "study", "due_date": "2025-02-01"}`)

	rr := s.server.do(http.MethodDelete, fmt.Sprintf("/api/tasks/%d", id), "", s.token)

	Expect(rr.Code).To(Equal(http.StatusOK))
	Expect(decode[response.MessageResponse](rr).Message).To(Equal("Task deleted successfully"))
	Expect(s.server.listTasks(s.token)).To(BeEmpty())

	trash := s.server.listTrash(s.token)
	Expect(trash).To(HaveLen(1))
	Expect(trash[0].OriginalTaskID).To(Equal(id))
	Expect(trash[0].Text).To(Equal("Read"))
	Expect(trash[0].ExpiresAt.Sub(trash[0].DeletedAt)).To(Equal(15 * 24 * time.Hour))

	again := s.server.do(http.MethodDelete, fmt.Sprintf("/api/tasks/%d", id), "", s.token)
	Expect(again.Code).To(Equal(http.StatusNotFound))
}

func (s *TaskHandlerSuite) TestDeleteOtherUsersTask() {
	id := s.server.createTask(s.token, `{"text": "mine", "due_date": "2025-02-01"}`)
	other := s.server.register("bob")

	rr := s.server.do(http.MethodDelete, fmt.Sprintf("/api/tasks/%d", id), "", other)

	Expect(rr.Code).To(Equal(http.StatusNotFound))
	Expect(s.server.listTasks(s.token)).To(HaveLen(1))
	Expect(s.server.listTrash(other)).To(BeEmpty())
}

func (s *TaskHandlerSuite) TestDeleteCompleted() {
	done := s.server.createTask(s.token, `{"text": "done", "due_date": "2025-02-01"}`)
	s.server.createTask(s.token, `{"text": "open", "due_date": "2025-02-01"}`)

	rr := s.server.do(http.MethodPut, fmt.Sprintf("/api/tasks/%d", done), `{"completed": true}`, s.token)
	Expect(rr.Code).To(Equal(http.StatusOK))

	rr = s.server.do(http.MethodDelete, "/api/tasks/completed", "", s.token)

	Expect(rr.Code).To(Equal(http.StatusOK))

	data := decode[response.CountResponse](rr)
	Expect(data.Message).To(Equal("All completed tasks deleted successfully"))
	Expect(data.DeletedCount).To(Equal(1))

	tasks := s.server.listTasks(s.token)
	Expect(tasks).To(HaveLen(1))
	Expect(tasks[0].Text).To(Equal("open"))
	Expect(s.server.listTrash(s.token)).To(HaveLen(1))

	rr = s.server.do(http.MethodDelete, "/api/tasks/completed", "", s.token)
	Expect(decode[response.CountResponse](rr).DeletedCount).To(Equal(0))
}
