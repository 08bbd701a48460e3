package request

import (
	"time"

	"todolist/internal/core/domain"
)

type SignUpRequest struct {
	Username string `json:"username" validate:"required,min=3,max=30,username"`
	Password string `json:"password" validate:"required,min=6,max=100"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (r LoginRequest) IsComplete() bool {
	return r.Username != "" && r.Password != ""
}

type CreateTaskRequest struct {
	Text     string  `json:"text"`
	Category *string `json:"category"`
	DueDate  *string `json:"due_date"`
}

func (r CreateTaskRequest) ParseCategory() (domain.Category, error) {
	if r.Category == nil {
		return domain.CategoryNone, nil
	}

	return domain.ParseCategory(*r.Category)
}

func (r CreateTaskRequest) ParseDueDate() (*time.Time, error) {
	if r.DueDate == nil || *r.DueDate == "" {
		return nil, domain.NewValidationError("due_date", "Due date is required. Please select a date from the calendar.")
	}

	date, err := domain.ParseDueDate(*r.DueDate)

	if err != nil {
		return nil, err
	}

	return &date, nil
}

// UpdateTaskRequest distinguishes an absent field from an explicit null,
// so that only the supplied fields are written.
type UpdateTaskRequest struct {
	Text      *string          `json:"text"`
	Completed *bool            `json:"completed"`
	Category  Nullable[string] `json:"category"`
	DueDate   Nullable[string] `json:"due_date"`
}

func (r UpdateTaskRequest) ToPatch() (domain.TaskPatch, error) {
	patch := domain.TaskPatch{
		Text:      r.Text,
		Completed: r.Completed,
	}

	if r.Category.Set {
		category := domain.CategoryNone

		if r.Category.Valid && r.Category.Value != "" {
			parsed, err := domain.ParseCategory(r.Category.Value)

			if err != nil {
				return domain.TaskPatch{}, err
			}

			category = parsed
		}

		patch.Category = &category
	}

	if r.DueDate.Set {
		var dueDate *time.Time

		if r.DueDate.Valid && r.DueDate.Value != "" {
			parsed, err := domain.ParseDueDate(r.DueDate.Value)

			if err != nil {
				return domain.TaskPatch{}, err
			}

			dueDate = &parsed
		}

		patch.DueDate = &dueDate
	}

	return patch, nil
}
