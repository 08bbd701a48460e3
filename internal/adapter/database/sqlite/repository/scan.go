package repository

import (
	"database/sql"
	"time"

	"todolist/internal/core/domain"
)

type rowScanner interface {
	Scan(dest ...any) error
}

func nullString(value string) sql.NullString {
	return sql.NullString{String: value, Valid: value != ""}
}

// due dates are stored as calendar dates in TEXT columns
func dueDateValue(date *time.Time) sql.NullString {
	formatted := domain.FormatDueDate(date)

	if formatted == nil {
		return sql.NullString{}
	}

	return sql.NullString{String: *formatted, Valid: true}
}

func parseDueDate(value sql.NullString) (*time.Time, error) {
	if !value.Valid || value.String == "" {
		return nil, nil
	}

	date, err := domain.ParseDueDate(value.String)

	if err != nil {
		return nil, err
	}

	return &date, nil
}

var taskColumns = []string{"id", "user_id", "text", "completed", "category", "due_date", "created_at", "updated_at"}

func scanTask(row rowScanner) (domain.Task, error) {
	var (
		task     domain.Task
		category sql.NullString
		dueDate  sql.NullString
	)

	err := row.Scan(&task.ID, &task.UserID, &task.Text, &task.Completed, &category, &dueDate, &task.CreatedAt, &task.UpdatedAt)

	if err != nil {
		return domain.Task{}, err
	}

	task.Category = domain.Category(category.String)
	task.CreatedAt = task.CreatedAt.UTC()
	task.UpdatedAt = task.UpdatedAt.UTC()

	if task.DueDate, err = parseDueDate(dueDate); err != nil {
		return domain.Task{}, err
	}

	return task, nil
}

var deletedTaskColumns = []string{"id", "user_id", "original_task_id", "text", "completed", "category", "due_date", "created_at", "deleted_at", "expires_at"}

func scanDeletedTask(row rowScanner) (domain.DeletedTask, error) {
	var (
		entry    domain.DeletedTask
		category sql.NullString
		dueDate  sql.NullString
	)

	err := row.Scan(&entry.ID, &entry.UserID, &entry.OriginalTaskID, &entry.Text, &entry.Completed,
		&category, &dueDate, &entry.CreatedAt, &entry.DeletedAt, &entry.ExpiresAt)

	if err != nil {
		return domain.DeletedTask{}, err
	}

	entry.Category = domain.Category(category.String)
	entry.CreatedAt = entry.CreatedAt.UTC()
	entry.DeletedAt = entry.DeletedAt.UTC()
	entry.ExpiresAt = entry.ExpiresAt.UTC()

	if entry.DueDate, err = parseDueDate(dueDate); err != nil {
		return domain.DeletedTask{}, err
	}

	return entry, nil
}
