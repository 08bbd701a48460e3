package port

import (
	"context"
	"time"

	"todolist/internal/core/domain"
)

type AuthService interface {
	Register(ctx context.Context, credentials domain.Credentials) (domain.User, error)
	Authenticate(ctx context.Context, credentials domain.Credentials) (domain.User, error)
	TouchLastLogin(ctx context.Context, userID int64)
	CurrentUser(ctx context.Context, userID int64) (domain.User, error)
}

type TokenManager interface {
	CreateToken(userID int64) (string, error)
	VerifyToken(token string) (domain.TokenClaims, error)
	TTL() time.Duration
}

// TokenDenylist remembers revoked token ids until they would have expired.
type TokenDenylist interface {
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
