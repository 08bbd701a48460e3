package request

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"todolist/internal/core/domain"

	. "github.com/onsi/gomega"
)

func TestUpdateTaskRequest_AbsentFieldsStayUntouched(t *testing.T) {
	RegisterTestingT(t)

	var req UpdateTaskRequest
	Expect(json.Unmarshal([]byte(`{"completed": true}`), &req)).To(Succeed())

	patch, err := req.ToPatch()

	Expect(err).To(BeNil())
	Expect(*patch.Completed).To(BeTrue())
	Expect(patch.Text).To(BeNil())
	Expect(patch.Category).To(BeNil())
	Expect(patch.DueDate).To(BeNil())
}

func TestUpdateTaskRequest_NullClearsField(t *testing.T) {
	RegisterTestingT(t)

	var req UpdateTaskRequest
	Expect(json.Unmarshal([]byte(`{"category": null, "due_date": null}`), &req)).To(Succeed())

	patch, err := req.ToPatch()

	Expect(err).To(BeNil())
	Expect(*patch.Category).To(Equal(domain.CategoryNone))
	Expect(patch.DueDate).ToNot(BeNil())
	Expect(*patch.DueDate).To(BeNil())
}

func TestUpdateTaskRequest_ParsesValues(t *testing.T) {
	RegisterTestingT(t)

	var req UpdateTaskRequest
	Expect(json.Unmarshal([]byte(`{"category": "work", "due_date": "2025-06-30"}`), &req)).To(Succeed())

	patch, err := req.ToPatch()

	Expect(err).To(BeNil())
	Expect(*patch.Category).To(Equal(domain.CategoryWork))
	Expect(**patch.DueDate).To(Equal(time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)))
}

func TestUpdateTaskRequest_RejectsUnknownCategory(t *testing.T) {
	RegisterTestingT(t)

	var req UpdateTaskRequest
	Expect(json.Unmarshal([]byte(`{"category": "shopping"}`), &req)).To(Succeed())

	_, err := req.ToPatch()

	Expect(errors.Is(err, domain.ErrValidation)).To(BeTrue())
}

func TestCreateTaskRequest_RequiresDueDate(t *testing.T) {
	RegisterTestingT(t)

	_, err := CreateTaskRequest{Text: "Buy milk"}.ParseDueDate()

	Expect(err).ToNot(BeNil())
	Expect(err.Error()).To(Equal("Due date is required. Please select a date from the calendar."))
}
