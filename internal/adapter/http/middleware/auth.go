package middleware

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"todolist/internal/adapter/http/helper"
	"todolist/internal/core/domain"
	"todolist/internal/core/port"
	ct "todolist/pkg/context"
	"todolist/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	TokenCookie = "token"

	currentUserKey   = "current_user"
	currentClaimsKey = "current_claims"

	MessageNoToken      = "Access denied. No token provided."
	MessageExpiredToken = "Token expired"
	MessageInvalidToken = "Invalid token"
)

// Authenticator resolves the bearer of a request to a stored user.
type Authenticator struct {
	tokens   port.TokenManager
	users    port.AuthService
	denylist port.TokenDenylist
	logger   *otelzap.Logger
}

func NewAuthenticator(tokens port.TokenManager, users port.AuthService, denylist port.TokenDenylist, logger *otelzap.Logger) *Authenticator {
	return &Authenticator{
		tokens:   tokens,
		users:    users,
		denylist: denylist,
		logger:   logger,
	}
}

// RequireAuth rejects the request with 401 unless it carries a valid token
// for an existing user.
func (a *Authenticator) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, claims, err := a.resolve(c)

		if err != nil {
			a.reject(c, err)
			return
		}

		setIdentity(c, user, claims)

		c.Next()
	}
}

// OptionalAuth attaches the user when the token resolves and lets the request
// through anonymously otherwise.
func (a *Authenticator) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, claims, err := a.resolve(c)

		if err == nil {
			setIdentity(c, user, claims)
		} else if !domain.IsAuthError(err) {
			a.logger.Ctx(c.Request.Context()).Warn("Optional authentication failed", zap.Error(err))
		}

		c.Next()
	}
}

func (a *Authenticator) resolve(c *gin.Context) (domain.User, domain.TokenClaims, error) {
	token := ExtractToken(c)

	if token == "" {
		return domain.User{}, domain.TokenClaims{}, domain.ErrMissingToken
	}

	var (
		user   domain.User
		claims domain.TokenClaims
	)

	err := tracing.SpanWrapper(c.Request.Context(), "auth.resolve_token", nil, func(ctx context.Context) error {
		var err error

		claims, err = a.tokens.VerifyToken(token)

		if err != nil {
			return err
		}

		revoked, err := a.denylist.IsRevoked(ctx, claims.TokenID)

		if err != nil {
			return fmt.Errorf("check token denylist: %w", err)
		}

		if revoked {
			return domain.ErrTokenRevoked
		}

		user, err = a.users.CurrentUser(ctx, claims.UserID)

		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrUserNotFound
		}

		return err
	})

	return user, claims, err
}

func (a *Authenticator) reject(c *gin.Context, err error) {
	logger := a.logger.Ctx(c.Request.Context())

	switch {
	case errors.Is(err, domain.ErrMissingToken):
		helper.SendUnauthorizedError(c, MessageNoToken)
	case errors.Is(err, domain.ErrExpiredToken):
		helper.SendUnauthorizedError(c, MessageExpiredToken)
	case domain.IsAuthError(err):
		logger.Info("Rejected token", zap.String("reason", err.Error()))
		helper.SendUnauthorizedError(c, MessageInvalidToken)
	default:
		logger.Error("Authentication failed", zap.Error(err))
		helper.SendInternalError(c)
	}
}

func setIdentity(c *gin.Context, user domain.User, claims domain.TokenClaims) {
	c.Set(currentUserKey, user)
	c.Set(currentClaimsKey, claims)

	current := GetCurrent(c)
	current.Set(ct.KeyUserID, user.ID)
	current.Set(ct.KeyUsername, user.Username)
	current.Set(ct.KeyTokenID, claims.TokenID)

	tracing.AddUserAttributes(trace.SpanFromContext(c.Request.Context()), user.ID, user.Username)
}

// ExtractToken reads the Authorization bearer header first and falls back to
// the token cookie.
func ExtractToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")

	if scheme, token, found := strings.Cut(header, " "); found && strings.EqualFold(scheme, "Bearer") {
		if token = strings.TrimSpace(token); token != "" {
			return token
		}
	}

	if cookie, err := c.Cookie(TokenCookie); err == nil {
		return cookie
	}

	return ""
}

func CurrentUser(c *gin.Context) (domain.User, bool) {
	value, exists := c.Get(currentUserKey)

	if !exists {
		return domain.User{}, false
	}

	user, ok := value.(domain.User)
	return user, ok
}

// MustCurrentUser is for handlers mounted behind RequireAuth.
func MustCurrentUser(c *gin.Context) domain.User {
	user, ok := CurrentUser(c)

	if !ok {
		panic("middleware: no authenticated user on context")
	}

	return user
}

func CurrentClaims(c *gin.Context) (domain.TokenClaims, bool) {
	value, exists := c.Get(currentClaimsKey)

	if !exists {
		return domain.TokenClaims{}, false
	}

	claims, ok := value.(domain.TokenClaims)
	return claims, ok
}
