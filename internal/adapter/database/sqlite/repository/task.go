package repository

import (
	"context"
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"

	"todolist/internal/adapter/database"
	"todolist/internal/adapter/database/sqlite"
	"todolist/internal/core/domain"
	"todolist/internal/core/port"
	tel "todolist/internal/core/telemetry"
)

type TaskRepository struct {
	db        *sqlite.DB
	telemetry port.Telemetry
}

func NewTaskRepository(db *sqlite.DB, telemetry port.Telemetry) port.TaskRepository {
	if telemetry == nil {
		telemetry = tel.NewNoOpProbe()
	}

	return &TaskRepository{
		db:        db,
		telemetry: telemetry,
	}
}

func (tr *TaskRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Task, error) {
	ctx, op := database.StartOperation(ctx, tr.telemetry, "sqlite", "ListByUser", "task", map[string]any{
		"db.table":     "tasks",
		"db.operation": "SELECT",
		"user.id":      userID,
	})

	query, args, err := tr.db.QueryBuilder.Select(taskColumns...).
		From("tasks").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("created_at DESC", "id DESC").
		ToSql()

	if err != nil {
		return nil, op.Fail(err)
	}

	op.Query(query, args)

	rows, err := tr.db.QueryContext(ctx, query, args...)

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
	ctx, op := database.StartOperation(ctx, tr.telemetry, "sqlite", "Create", "task", map[string]any{
		"db.table":     "tasks",
		"db.operation": "INSERT",
		"user.id":      task.UserID,
	})

	query, args, err := tr.db.QueryBuilder.Insert("tasks").
		Columns("user_id", "text", "completed", "category", "due_date", "created_at", "updated_at").
		Values(task.UserID, task.Text, task.Completed, nullString(task.Category.String()), dueDateValue(task.DueDate), task.CreatedAt, task.UpdatedAt).
		ToSql()

	if err != nil {
		return domain.Task{}, op.Fail(err)
	}

	op.Query(query, args)

	result, err := tr.db.ExecContext(ctx, query, args...)

	if err != nil {
		return domain.Task{}, op.Fail(err)
	}

	if task.ID, err = result.LastInsertId(); err != nil {
		return domain.Task{}, op.Fail(err)
	}

	op.Done(map[string]any{"task.id": task.ID})

	return task, nil
}

func (tr *TaskRepository) Update(ctx context.Context, userID int64, taskID int64, patch domain.TaskPatch, updatedAt time.Time) (bool, error) {
	ctx, op := database.StartOperation(ctx, tr.telemetry, "sqlite", "Update", "task", map[string]any{
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
		builder = builder.Set("category", nullString(patch.Category.String()))
	}

	if patch.DueDate != nil {
		builder = builder.Set("due_date", dueDateValue(*patch.DueDate))
	}

	query, args, err := builder.ToSql()

	if err != nil {
		return false, op.Fail(err)
	}

	op.Query(query, args)

	result, err := tr.db.ExecContext(ctx, query, args...)

	if err != nil {
		return false, op.Fail(err)
	}

	affected, err := result.RowsAffected()

	if err != nil {
		return false, op.Fail(err)
	}

	op.Done(map[string]any{"db.rows_affected": affected})

	return affected > 0, nil
}

// trashSelect copies matching tasks into the shape of a deleted_tasks row.
func (tr *TaskRepository) trashSelect(deletedAt time.Time, where sq.Eq) sq.SelectBuilder {
	return sq.Select("user_id", "id", "text", "completed", "category", "due_date", "created_at").
		Column(sq.Expr("?", deletedAt)).
		Column(sq.Expr("?", domain.ExpiryFor(deletedAt))).
		From("tasks").
		Where(where)
}

// moveToTrash copies then deletes the matching tasks in one transaction and
// returns how many were moved.
func (tr *TaskRepository) moveToTrash(ctx context.Context, op *database.Operation, deletedAt time.Time, where sq.Eq) (int, error) {
	insertQuery, insertArgs, err := tr.db.QueryBuilder.Insert("deleted_tasks").
		Columns("user_id", "original_task_id", "text", "completed", "category", "due_date", "created_at", "deleted_at", "expires_at").
		Select(tr.trashSelect(deletedAt, where)).
		ToSql()

	if err != nil {
		return 0, err
	}

	deleteQuery, deleteArgs, err := tr.db.QueryBuilder.Delete("tasks").Where(where).ToSql()

	if err != nil {
		return 0, err
	}

	op.Query(insertQuery, insertArgs)
	op.Query(deleteQuery, deleteArgs)

	var moved int64

	err = tr.db.WithTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, insertQuery, insertArgs...); err != nil {
			return err
		}

		result, err := tx.ExecContext(ctx, deleteQuery, deleteArgs...)

		if err != nil {
			return err
		}

		moved, err = result.RowsAffected()

		return err
	})

	return int(moved), err
}

func (tr *TaskRepository) MoveToTrash(ctx context.Context, userID int64, taskID int64, deletedAt time.Time) (bool, error) {
	ctx, op := database.StartOperation(ctx, tr.telemetry, "sqlite", "MoveToTrash", "task", map[string]any{
		"db.table":     "tasks",
		"db.operation": "MOVE",
		"user.id":      userID,
		"task.id":      taskID,
	})

	moved, err := tr.moveToTrash(ctx, op, deletedAt, sq.Eq{"id": taskID, "user_id": userID})

	if err != nil {
		return false, op.Fail(err)
	}

	op.Done(map[string]any{"db.rows_affected": moved})

	return moved > 0, nil
}

func (tr *TaskRepository) MoveCompletedToTrash(ctx context.Context, userID int64, deletedAt time.Time) (int, error) {
	ctx, op := database.StartOperation(ctx, tr.telemetry, "sqlite", "MoveCompletedToTrash", "task", map[string]any{
		"db.table":     "tasks",
		"db.operation": "MOVE",
		"user.id":      userID,
	})

	moved, err := tr.moveToTrash(ctx, op, deletedAt, sq.Eq{"user_id": userID, "completed": true})

	if err != nil {
		return 0, op.Fail(err)
	}

	op.Done(map[string]any{"db.rows_affected": moved})

	return moved, nil
}
