package domain

import (
	"fmt"
	"strings"
	"time"
)

const (
	MaxTaskTextLength = 500
	DateLayout        = "2006-01-02"
)

type Category string

const (
	CategoryNone        Category = ""
	CategoryWork        Category = "work"
	CategoryStudy       Category = "study"
	CategoryHealth      Category = "health"
	CategoryHome        Category = "home"
	CategoryDevelopment Category = "development"
	CategoryFinance     Category = "finance"
)

var Categories = []Category{
	CategoryWork,
	CategoryStudy,
	CategoryHealth,
	CategoryHome,
	CategoryDevelopment,
	CategoryFinance,
}

func (c Category) String() string {
	return string(c)
}

func (c Category) IsValid() bool {
	if c == CategoryNone {
		return true
	}

	for _, category := range Categories {
		if c == category {
			return true
		}
	}

	return false
}

func ParseCategory(value string) (Category, error) {
	category := Category(strings.TrimSpace(value))

	if !category.IsValid() {
		return CategoryNone, NewValidationError("category", fmt.Sprintf("Invalid category: %s", value))
	}

	return category, nil
}

type Task struct {
	ID        int64
	UserID    int64
	Text      string   `validate:"required,max=500"`
	Completed bool
	Category  Category `validate:"category"`
	DueDate   *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (t *Task) BelongsToUser(userID int64) bool {
	return t.UserID == userID
}

// MoveToTrash captures the task as a trash entry deleted at the given instant.
func (t *Task) MoveToTrash(deletedAt time.Time) DeletedTask {
	return DeletedTask{
		UserID:         t.UserID,
		OriginalTaskID: t.ID,
		Text:           t.Text,
		Completed:      t.Completed,
		Category:       t.Category,
		DueDate:        t.DueDate,
		CreatedAt:      t.CreatedAt,
		DeletedAt:      deletedAt,
		ExpiresAt:      ExpiryFor(deletedAt),
	}
}

// TaskPatch carries a partial update. A nil field is left untouched.
// Category pointing at CategoryNone clears the category, and DueDate
// pointing at a nil date clears the due date.
type TaskPatch struct {
	Text      *string
	Completed *bool
	Category  *Category
	DueDate   **time.Time
}

func (p TaskPatch) IsEmpty() bool {
	return p.Text == nil && p.Completed == nil && p.Category == nil && p.DueDate == nil
}

func ParseDueDate(value string) (time.Time, error) {
	date, err := time.ParseInLocation(DateLayout, strings.TrimSpace(value), time.UTC)

	if err != nil {
		return time.Time{}, NewValidationError("due_date", "Due date must be a valid date (YYYY-MM-DD)")
	}

	return date, nil
}

func FormatDueDate(date *time.Time) *string {
	if date == nil {
		return nil
	}

	formatted := date.UTC().Format(DateLayout)
	return &formatted
}
