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

type TrashRepository struct {
	db        *sqlite.DB
	telemetry port.Telemetry
}

func NewTrashRepository(db *sqlite.DB, telemetry port.Telemetry) port.TrashRepository {
	if telemetry == nil {
		telemetry = tel.NewNoOpProbe()
	}

	return &TrashRepository{
		db:        db,
		telemetry: telemetry,
	}
}

func (r *TrashRepository) ListActive(ctx context.Context, userID int64, now time.Time) ([]domain.DeletedTask, error) {
	ctx, op := database.StartOperation(ctx, r.telemetry, "sqlite", "ListActive", "trash", map[string]any{
		"db.table":     "deleted_tasks",
		"db.operation": "SELECT",
		"user.id":      userID,
	})

	query, args, err := r.db.QueryBuilder.Select(deletedTaskColumns...).
		From("deleted_tasks").
		Where(sq.Eq{"user_id": userID}).
		Where(sq.Gt{"expires_at": now}).
		OrderBy("deleted_at DESC", "id DESC").
		ToSql()

	if err != nil {
		return nil, op.Fail(err)
	}

	op.Query(query, args)

	rows, err := r.db.QueryContext(ctx, query, args...)

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

// Restore recreates the live task under a new id and drops the entry.
// Expired entries are treated as missing.
func (r *TrashRepository) Restore(ctx context.Context, userID int64, deletedTaskID int64, now time.Time) (int64, bool, error) {
	ctx, op := database.StartOperation(ctx, r.telemetry, "sqlite", "Restore", "trash", map[string]any{
		"db.table":     "deleted_tasks",
		"db.operation": "MOVE",
		"user.id":      userID,
		"trash.id":     deletedTaskID,
	})

	entry := sq.And{
		sq.Eq{"id": deletedTaskID, "user_id": userID},
		sq.Gt{"expires_at": now},
	}

	insertQuery, insertArgs, err := r.db.QueryBuilder.Insert("tasks").
		Columns("user_id", "text", "completed", "category", "due_date", "created_at", "updated_at").
		Select(sq.Select("user_id", "text", "completed", "category", "due_date", "created_at").
			Column(sq.Expr("?", now)).
			From("deleted_tasks").
			Where(entry)).
		ToSql()

	if err != nil {
		return 0, false, op.Fail(err)
	}

	deleteQuery, deleteArgs, err := r.db.QueryBuilder.Delete("deleted_tasks").
		Where(sq.Eq{"id": deletedTaskID, "user_id": userID}).
		ToSql()

	if err != nil {
		return 0, false, op.Fail(err)
	}

	op.Query(insertQuery, insertArgs)
	op.Query(deleteQuery, deleteArgs)

	var taskID int64

	err = r.db.WithTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, insertQuery, insertArgs...)

		if err != nil {
			return err
		}

		inserted, err := result.RowsAffected()

		if err != nil || inserted == 0 {
			return err
		}

		if taskID, err = result.LastInsertId(); err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, deleteQuery, deleteArgs...)

		return err
	})

	if err != nil {
		return 0, false, op.Fail(err)
	}

	op.Done(map[string]any{"task.id": taskID})

	return taskID, taskID != 0, nil
}

func (r *TrashRepository) Delete(ctx context.Context, userID int64, deletedTaskID int64) (bool, error) {
	ctx, op := database.StartOperation(ctx, r.telemetry, "sqlite", "Delete", "trash", map[string]any{
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
	ctx, op := database.StartOperation(ctx, r.telemetry, "sqlite", "DeleteAll", "trash", map[string]any{
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
	ctx, op := database.StartOperation(ctx, r.telemetry, "sqlite", "PurgeExpired", "trash", map[string]any{
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

	result, err := r.db.ExecContext(ctx, query, args...)

	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}
