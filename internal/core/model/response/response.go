package response

import (
	"time"

	"todolist/internal/core/domain"
)

type UserResponse struct {
	ID        int64      `json:"id"`
	Username  string     `json:"username"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
	LastLogin *time.Time `json:"last_login,omitempty"`
}

type TaskResponse struct {
	ID        int64     `json:"id"`
	Text      string    `json:"text"`
	Completed bool      `json:"completed"`
	Category  *string   `json:"category"`
	DueDate   *string   `json:"due_date"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type DeletedTaskResponse struct {
	ID             int64     `json:"id"`
	OriginalTaskID int64     `json:"original_task_id"`
	Text           string    `json:"text"`
	Completed      bool      `json:"completed"`
	Category       *string   `json:"category"`
	DueDate        *string   `json:"due_date"`
	CreatedAt      time.Time `json:"created_at"`
	DeletedAt      time.Time `json:"deleted_at"`
	ExpiresAt      time.Time `json:"expires_at"`
}

type AuthResponse struct {
	Message string       `json:"message"`
	User    UserResponse `json:"user"`
	Token   string       `json:"token"`
}

type CurrentUserResponse struct {
	User UserResponse `json:"user"`
}

type SessionResponse struct {
	Authenticated bool          `json:"authenticated"`
	User          *UserResponse `json:"user,omitempty"`
}

type TaskListResponse struct {
	Tasks []TaskResponse `json:"tasks"`
}

type TaskCreatedResponse struct {
	Message string       `json:"message"`
	Task    TaskResponse `json:"task"`
}

type TrashListResponse struct {
	Tasks []DeletedTaskResponse `json:"tasks"`
}

type RestoreResponse struct {
	Message string `json:"message"`
	TaskID  int64  `json:"taskId"`
}

type CountResponse struct {
	Message      string `json:"message"`
	DeletedCount int    `json:"deletedCount"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ResponseError struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
	Details any               `json:"details,omitempty"`
}

type ErrorResponse struct {
	Error ResponseError `json:"error"`
}

func NewUserResponse(user domain.User, withTimestamps bool) UserResponse {
	response := UserResponse{
		ID:       user.ID,
		Username: user.Username,
	}

	if withTimestamps {
		createdAt := user.CreatedAt
		response.CreatedAt = &createdAt
		response.LastLogin = user.LastLogin
	}

	return response
}

func NewTaskResponse(task domain.Task) TaskResponse {
	return TaskResponse{
		ID:        task.ID,
		Text:      task.Text,
		Completed: task.Completed,
		Category:  categoryPointer(task.Category),
		DueDate:   domain.FormatDueDate(task.DueDate),
		CreatedAt: task.CreatedAt,
		UpdatedAt: task.UpdatedAt,
	}
}

func NewTaskListResponse(tasks []domain.Task) TaskListResponse {
	list := TaskListResponse{Tasks: make([]TaskResponse, 0, len(tasks))}

	for _, task := range tasks {
		list.Tasks = append(list.Tasks, NewTaskResponse(task))
	}

	return list
}

func NewDeletedTaskResponse(entry domain.DeletedTask) DeletedTaskResponse {
	return DeletedTaskResponse{
		ID:             entry.ID,
		OriginalTaskID: entry.OriginalTaskID,
		Text:           entry.Text,
		Completed:      entry.Completed,
		Category:       categoryPointer(entry.Category),
		DueDate:        domain.FormatDueDate(entry.DueDate),
		CreatedAt:      entry.CreatedAt,
		DeletedAt:      entry.DeletedAt,
		ExpiresAt:      entry.ExpiresAt,
	}
}

func NewTrashListResponse(entries []domain.DeletedTask) TrashListResponse {
	list := TrashListResponse{Tasks: make([]DeletedTaskResponse, 0, len(entries))}

	for _, entry := range entries {
		list.Tasks = append(list.Tasks, NewDeletedTaskResponse(entry))
	}

	return list
}

func categoryPointer(category domain.Category) *string {
	if category == domain.CategoryNone {
		return nil
	}

	value := category.String()
	return &value
}
