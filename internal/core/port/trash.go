package port

import (
	"context"
	"time"

	"todolist/internal/core/domain"
)

type TrashRepository interface {
	ListActive(ctx context.Context, userID int64, now time.Time) ([]domain.DeletedTask, error)
	Restore(ctx context.Context, userID int64, deletedTaskID int64, now time.Time) (int64, bool, error)
	Delete(ctx context.Context, userID int64, deletedTaskID int64) (bool, error)
	DeleteAll(ctx context.Context, userID int64) (int, error)
	PurgeExpired(ctx context.Context, now time.Time) (int, error)
}

type TrashService interface {
	ListTrash(ctx context.Context, userID int64) ([]domain.DeletedTask, error)
	Restore(ctx context.Context, userID int64, deletedTaskID int64) (int64, bool, error)
	PermanentlyDelete(ctx context.Context, userID int64, deletedTaskID int64) (bool, error)
	EmptyTrash(ctx context.Context, userID int64) (int, error)
	PurgeExpired(ctx context.Context) (int, error)
}
