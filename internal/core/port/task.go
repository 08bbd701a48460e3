package port

import (
	"context"
	"time"

	"todolist/internal/core/domain"
)

// TaskRepository persists live tasks. Every call is scoped by the owner id;
// a false result means no row matched the (task, owner) pair.
type TaskRepository interface {
	ListByUser(ctx context.Context, userID int64) ([]domain.Task, error)
	Create(ctx context.Context, task domain.Task) (domain.Task, error)
	Update(ctx context.Context, userID int64, taskID int64, patch domain.TaskPatch, updatedAt time.Time) (bool, error)
	MoveToTrash(ctx context.Context, userID int64, taskID int64, deletedAt time.Time) (bool, error)
	MoveCompletedToTrash(ctx context.Context, userID int64, deletedAt time.Time) (int, error)
}

type TaskService interface {
	ListTasks(ctx context.Context, userID int64) ([]domain.Task, error)
	CreateTask(ctx context.Context, userID int64, text string, category domain.Category, dueDate *time.Time) (domain.Task, error)
	UpdateTask(ctx context.Context, userID int64, taskID int64, patch domain.TaskPatch) (bool, error)
	DeleteTask(ctx context.Context, userID int64, taskID int64) (bool, error)
	DeleteCompleted(ctx context.Context, userID int64) (int, error)
}
