package repository

import (
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"todolist/internal/core/domain"
)

type rowScanner interface {
	Scan(dest ...any) error
}

func categoryValue(category domain.Category) pgtype.Text {
	return pgtype.Text{String: category.String(), Valid: category != domain.CategoryNone}
}

func dueDateValue(date *time.Time) pgtype.Date {
	if date == nil {
		return pgtype.Date{}
	}

	return pgtype.Date{Time: date.UTC(), Valid: true}
}

func fromDate(date pgtype.Date) *time.Time {
	if !date.Valid {
		return nil
	}

	value := time.Date(date.Time.Year(), date.Time.Month(), date.Time.Day(), 0, 0, 0, 0, time.UTC)
	return &value
}

const taskColumns = "id, user_id, text, completed, category, due_date, created_at, updated_at"

func scanTask(row rowScanner) (domain.Task, error) {
	var (
		task     domain.Task
		category pgtype.Text
		dueDate  pgtype.Date
	)

	if err := row.Scan(&task.ID, &task.UserID, &task.Text, &task.Completed, &category, &dueDate, &task.CreatedAt, &task.UpdatedAt); err != nil {
		return domain.Task{}, err
	}

	task.Category = domain.Category(category.String)
	task.DueDate = fromDate(dueDate)
	task.CreatedAt = task.CreatedAt.UTC()
	task.UpdatedAt = task.UpdatedAt.UTC()

	return task, nil
}

const deletedTaskColumns = "id, user_id, original_task_id, text, completed, category, due_date, created_at, deleted_at, expires_at"

func scanDeletedTask(row rowScanner) (domain.DeletedTask, error) {
	var (
		entry    domain.DeletedTask
		category pgtype.Text
		dueDate  pgtype.Date
	)

	err := row.Scan(&entry.ID, &entry.UserID, &entry.OriginalTaskID, &entry.Text, &entry.Completed,
		&category, &dueDate, &entry.CreatedAt, &entry.DeletedAt, &entry.ExpiresAt)

	if err != nil {
		return domain.DeletedTask{}, err
	}

	entry.Category = domain.Category(category.String)
	entry.DueDate = fromDate(dueDate)
	entry.CreatedAt = entry.CreatedAt.UTC()
	entry.DeletedAt = entry.DeletedAt.UTC()
	entry.ExpiresAt = entry.ExpiresAt.UTC()

	return entry, nil
}
