package repository

import (
	"context"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"todolist/internal/adapter/database"
	"todolist/internal/adapter/database/postgres"
	"todolist/internal/core/domain"
	"todolist/internal/core/port"
	tel "todolist/internal/core/telemetry"
)

const restoreQuery = `
WITH restored AS (
	DELETE FROM deleted_tasks WHERE id = $1 AND user_id = $2 AND expires_at > $3
	RETURNING user_id, text, completed, category, due_date, created_at
)
INSERT INTO tasks (user_id, text, completed, category, due_date, created_at, updated_at)
SELECT user_id, text, completed, category, due_date, created_at, $3::timestamptz FROM restored
RETURNING id`

type TrashRepository struct {
	db        *postgres.DB
	telemetry port.Telemetry
}

func NewTrashRepository(db *postgres.DB, telemetry port.Telemetry) port.TrashRepository {
	if telemetry == nil {
		telemetry = tel.NewNoOpProbe()
	}

	return &TrashRepository{db: db, telemetry: telemetry}
}

func (r *TrashRepository) ListActive(ctx context.Context, userID int64, now time.Time) ([]domain.DeletedTask, error) {
	ctx, op := database.StartOperation(ctx, r.telemetry, "postgresql", "ListActive", "trash", map[string]any{
		"db.table":     "deleted_tasks",
		"db.operation": "SELECT",
		"user.id":      userID,
	})

	query, args, err := r.db.QueryBuilder.Select(deletedTaskColumns).
		From("deleted_tasks").
		Where(sq.Eq{"user_id": userID}).
		Where(sq.Gt{"expires_at": now}).
		OrderBy("deleted_at DESC", "id DESC").
		ToSql()

	if err != nil {
		return nil, op.Fail(err)
	}

	op.Query(query, args)

	rows, err := r.db.Query(ctx, query, args...)

	if err != nil {
		return nil, op.Fail(err)
	}

	defer rows.Close()

	entries := []domain.DeletedTask{}

	for rows.Next() {
		entry, err := scanDeletedTask(rows)

		if err != nil {
			return nil, op.Fail(err)
		}

		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, op.Fail(err)
	}

	op.Done(map[string]any{"db.rows_returned": len(entries)})

	return entries, nil
}

func (r *TrashRepository) Restore(ctx context.Context, userID int64, deletedTaskID int64, now time.Time) (int64, bool, error) {
	ctx, op := database.StartOperation(ctx, r.telemetry, "postgresql", "Restore", "trash", map[string]any{
		"db.table":     "deleted_tasks",
		"db.operation": "MOVE",
		"user.id":      userID,
		"trash.id":     deletedTaskID,
	})

	args := []any{deletedTaskID, userID, now}
	op.Query(restoreQuery, args)

	var taskID int64

	err := r.db.QueryRow(ctx, restoreQuery, args...).Scan(&taskID)

	if errors.Is(err, pgx.ErrNoRows) {
		op.Done(map[string]any{"db.rows_affected": 0})
		return 0, false, nil
	}

	if err != nil {
		return 0, false, op.Fail(err)
	}

	op.Done(map[string]any{"task.id": taskID})

	return taskID, true, nil
}

func (r *TrashRepository) Delete(ctx context.Context, userID int64, deletedTaskID int64) (bool, error) {
	ctx, op := database.StartOperation(ctx, r.telemetry, "postgresql", "Delete", "trash", map[string]any{
		"db.table":     "deleted_tasks",
		"db.operation": "DELETE",
		"user.id":      userID,
		"trash.id":     deletedTaskID,
	})

	affected, err := r.delete(ctx, op, sq.Eq{"id": deletedTaskID, "user_id": userID})

	if err != nil {
		return false, op.Fail(err)
	}

	op.Done(map[string]any{"db.rows_affected": affected})

	return affected > 0, nil
}

func (r *TrashRepository) DeleteAll(ctx context.Context, userID int64) (int, error) {
	ctx, op := database.StartOperation(ctx, r.telemetry, "postgresql", "DeleteAll", "trash", map[string]any{
		"db.table":     "deleted_tasks",
		"db.operation": "DELETE",
		"user.id":      userID,
	})

	affected, err := r.delete(ctx, op, sq.Eq{"user_id": userID})

	if err != nil {
		return 0, op.Fail(err)
	}

	op.Done(map[string]any{"db.rows_affected": affected})

	return int(affected), nil
}

func (r *TrashRepository) PurgeExpired(ctx context.Context, now time.Time) (int, error) {
	ctx, op := database.StartOperation(ctx, r.telemetry, "postgresql", "PurgeExpired", "trash", map[string]any{
		"db.table":     "deleted_tasks",
		"db.operation": "DELETE",
	})

	affected, err := r.delete(ctx, op, sq.LtOrEq{"expires_at": now})

	if err != nil {
		return 0, op.Fail(err)
	}

	op.Done(map[string]any{"db.rows_affected": affected})

	return int(affected), nil
}

func (r *TrashRepository) delete(ctx context.Context, op *database.Operation, where sq.Sqlizer) (int64, error) {
	query, args, err := r.db.QueryBuilder.Delete("deleted_tasks").Where(where).ToSql()

	if err != nil {
		return 0, err
	}

	op.Query(query, args)

	tag, err := r.db.Exec(ctx, query, args...)

	if err != nil {
		return 0, err
	}

	return tag.RowsAffected(), nil
}
