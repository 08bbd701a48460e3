package port

import (
	"context"
	"time"

	"todolist/internal/core/domain"
)

type UserRepository interface {
	// Create fails with domain.ErrUsernameTaken when the username exists.
	Create(ctx context.Context, user domain.User) (domain.User, error)
	GetByID(ctx context.Context, id int64) (domain.User, error)
	GetByUsername(ctx context.Context, username string) (domain.User, error)
	TouchLastLogin(ctx context.Context, id int64, at time.Time) error
}
