package repository

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"

	"todolist/internal/adapter/database"
	"todolist/internal/adapter/database/postgres"
	"todolist/internal/core/domain"
	"todolist/internal/core/port"
	tel "todolist/internal/core/telemetry"
)

// The delete and the insert run as one statement, so a concurrent mover
// of the same row sees it gone and inserts nothing.
const (
	moveTaskQuery = `
WITH moved AS (
	DELETE FROM tasks WHERE id = $1 AND user_id = $2
	RETURNING user_id, id, text, completed, category, due_date, created_at
)
INSERT INTO deleted_tasks (user_id, original_task_id, text, completed, category, due_date, created_at, deleted_at, expires_at)
SELECT user_id, id, text, completed, category, due_date, created_at, $3::timestamptz, $4::timestamptz FROM moved`

	moveCompletedQuery = `
WITH moved AS (
	DELETE FROM tasks WHERE user_id = $1 AND completed = TRUE
	RETURNING user_id, id, text, completed, category, due_date, created_at
)
INSERT INTO deleted_tasks (user_id, original_task_id, text, completed, category, due_date, created_at, deleted_at, expires_at)
SELECT user_id, id, text, completed, category, due_date, created_at, $2::timestamptz, $3::timestamptz FROM moved`
)

type TaskRepository struct {
	db        *postgres.DB
	telemetry port.Telemetry
}

func NewTaskRepository(db *postgres.DB, telemetry port.Telemetry) port.TaskRepository {
	if telemetry == nil {
		telemetry = tel.NewNoOpProbe()
	}

	return &TaskRepository{db: db, telemetry: telemetry}
}

func (tr *TaskRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Task, error) {
	ctx, op := database.StartOperation(ctx, tr.telemetry, "postgresql", "ListByUser", "task", map[string]any{
		"db.table":     "tasks",
		"db.operation": "SELECT",
		"user.id":      userID,
	})

	query, args, err := tr.db.QueryBuilder.Select(taskColumns).
		From("tasks").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("created_at DESC", "id DESC").
		ToSql()

	if err != nil {
		return nil, op.Fail(err)
	}

	op.Query(query, args)

	rows, err := tr.db.Query(ctx, query, args...)

	if err != nil {
		return nil, op.Fail(err)
	}

	defer rows.Close()

	tasks := []domain.Task{}

	for rows.Next() {
		task, err := scanTask(rows)

		if err != nil {
			return nil, op.Fail(err)
		}

		tasks = append(tasks, task)
	}

	if err := rows.Err(); err != nil {
		return nil, op.Fail(err)
	}

	op.Done(map[string]any{"db.rows_returned": len(tasks)})

	return tasks, nil
}

func (tr *TaskRepository) Create(ctx context.Context, task domain.Task) (domain.Task, error) {
	ctx, op := database.StartOperation(ctx, tr.telemetry, "postgresql", "Create", "task", map[string]any{
		"db.table":     "tasks",
		"db.operation": "INSERT",
		"user.id":      task.UserID,
	})

	query, args, err := tr.db.QueryBuilder.Insert("tasks").
		Columns("user_id", "text", "completed", "category", "due_date", "created_at", "updated_at").
		Values(task.UserID, task.Text, task.Completed, categoryValue(task.Category), dueDateValue(task.DueDate), task.CreatedAt, task.UpdatedAt).
		Suffix("RETURNING id").
		ToSql()

	if err != nil {
		return domain.Task{}, op.Fail(err)
	}

	op.Query(query, args)

	if err := tr.db.QueryRow(ctx, query, args...).Scan(&task.ID); err != nil {
		return domain.Task{}, op.Fail(err)
	}

	op.Done(map[string]any{"task.id": task.ID})

	return task, nil
}

func (tr *TaskRepository) Update(ctx context.Context, userID int64, taskID int64, patch domain.TaskPatch, updatedAt time.Time) (bool, error) {
	ctx, op := database.StartOperation(ctx, tr.telemetry, "postgresql", "Update", "task", map[string]any{
		"db.table":     "tasks",
		"db.operation": "UPDATE",
		"user.id":      userID,
		"task.id":      taskID,
	})

	builder := tr.db.QueryBuilder.Update("tasks").
		Set("updated_at", updatedAt).
		Where(sq.Eq{"id": taskID, "user_id": userID})

	if patch.Text != nil {
		builder = builder.Set("text", *patch.Text)
	}

	if patch.Completed != nil {
		builder = builder.Set("completed", *patch.Completed)
	}

	if patch.Category != nil {
		builder = builder.Set("category", categoryValue(*patch.Category))
	}

	if patch.DueDate != nil {
		builder = builder.Set("due_date", dueDateValue(*patch.DueDate))
	}

	query, args, err := builder.ToSql()

	if err != nil {
		return false, op.Fail(err)
	}

	op.Query(query, args)

	tag, err := tr.db.Exec(ctx, query, args...)

	if err != nil {
		return false, op.Fail(err)
	}

	op.Done(map[string]any{"db.rows_affected": tag.RowsAffected()})

	return tag.RowsAffected() > 0, nil
}

func (tr *TaskRepository) MoveToTrash(ctx context.Context, userID int64, taskID int64, deletedAt time.Time) (bool, error) {
	ctx, op := database.StartOperation(ctx, tr.telemetry, "postgresql", "MoveToTrash", "task", map[string]any{
		"db.table":     "tasks",
		"db.operation": "MOVE",
		"user.id":      userID,
		"task.id":      taskID,
	})

	args := []any{taskID, userID, deletedAt, domain.ExpiryFor(deletedAt)}
	op.Query(moveTaskQuery, args)

	tag, err := tr.db.Exec(ctx, moveTaskQuery, args...)

	if err != nil {
		return false, op.Fail(err)
	}

	op.Done(map[string]any{"db.rows_affected": tag.RowsAffected()})

	return tag.RowsAffected() > 0, nil
}

func (tr *TaskRepository) MoveCompletedToTrash(ctx context.Context, userID int64, deletedAt time.Time) (int, error) {
	ctx, op := database.StartOperation(ctx, tr.telemetry, "postgresql", "MoveCompletedToTrash", "task", map[string]any{
		"db.table":     "tasks",
		"db.operation": "MOVE",
		"user.id":      userID,
	})

	args := []any{userID, deletedAt, domain.ExpiryFor(deletedAt)}
	op.Query(moveCompletedQuery, args)

	tag, err := tr.db.Exec(ctx, moveCompletedQuery, args...)

	if err != nil {
		return 0, op.Fail(err)
	}

	op.Done(map[string]any{"db.rows_affected": tag.RowsAffected()})

	return int(tag.RowsAffected()), nil
}
