package handler

import (
	"net/http"

	"todolist/internal/adapter/http/helper"
	"todolist/internal/adapter/http/middleware"
	"todolist/internal/core/domain"
	"todolist/internal/core/model/request"
	"todolist/internal/core/model/response"
	"todolist/internal/core/port"
	"todolist/internal/core/telemetry"
	"todolist/internal/core/util"
	"todolist/internal/core/validation"

	"github.com/gin-gonic/gin"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

type AuthHandler struct {
	svc      port.AuthService
	tokens   port.TokenManager
	denylist port.TokenDenylist
	logger   *otelzap.Logger
	metrics  *telemetry.AppMetrics

	secureCookie bool
}

func NewAuthHandler(svc port.AuthService, tokens port.TokenManager, denylist port.TokenDenylist, logger *otelzap.Logger, metrics *telemetry.AppMetrics, secureCookie bool) *AuthHandler {
	return &AuthHandler{
		svc:          svc,
		tokens:       tokens,
		denylist:     denylist,
		logger:       logger,
		metrics:      metrics,
		secureCookie: secureCookie,
	}
}

func (a *AuthHandler) Register(c *gin.Context) {
	ctx := c.Request.Context()

	params, err := util.ParamsToMap[request.SignUpRequest](c)

	if err != nil {
		helper.SendBindError(c, err)
		return
	}

	if err := validation.Validate(params); err != nil {
		helper.SendValidationError(c, err)
		return
	}

	user, err := a.svc.Register(ctx, domain.Credentials{
		Username: params.Username,
		Password: params.Password,
	})

	if err != nil {
		fail(c, a.logger, "Registration failed", err)
		return
	}

	token, err := a.tokens.CreateToken(user.ID)

	if err != nil {
		fail(c, a.logger, "Failed to issue token", err, zap.Int64("user_id", user.ID))
		return
	}

	a.setTokenCookie(c, token)
	a.metrics.RecordAuthOperation(ctx, "register")

	helper.SendSuccess(c, http.StatusCreated, response.AuthResponse{
		Message: "User registered successfully",
		User:    response.NewUserResponse(user, false),
		Token:   token,
	})
}

func (a *AuthHandler) Login(c *gin.Context) {
	ctx := c.Request.Context()

	params, err := util.ParamsToMap[request.LoginRequest](c)

	if err != nil {
		helper.SendBindError(c, err)
		return
	}

	if !params.IsComplete() {
		helper.SendValidationError(c, domain.NewValidationError("credentials", "Username and password required"))
		return
	}

	user, err := a.svc.Authenticate(ctx, domain.Credentials{
		Username: params.Username,
		Password: params.Password,
	})

	if err != nil {
		a.metrics.RecordAuthOperation(ctx, "login_failed")
		fail(c, a.logger, "Login failed", err)
		return
	}

	a.svc.TouchLastLogin(ctx, user.ID)

	token, err := a.tokens.CreateToken(user.ID)

	if err != nil {
		fail(c, a.logger, "Failed to issue token", err, zap.Int64("user_id", user.ID))
		return
	}

	a.setTokenCookie(c, token)
	a.metrics.RecordAuthOperation(ctx, "login")

	helper.SendSuccess(c, http.StatusOK, response.AuthResponse{
		Message: "Login successful",
		User:    response.NewUserResponse(user, false),
		Token:   token,
	})
}

// Logout always succeeds. A token that still verifies is revoked until it
// would have expired.
func (a *AuthHandler) Logout(c *gin.Context) {
	ctx := c.Request.Context()

	if token := middleware.ExtractToken(c); token != "" {
		if claims, err := a.tokens.VerifyToken(token); err == nil {
			if err := a.denylist.Revoke(ctx, claims.TokenID, claims.ExpiresAt); err != nil {
				a.logger.Ctx(ctx).Warn("Failed to revoke token",
					zap.Int64("user_id", claims.UserID),
					zap.Error(err))
			}
		}
	}

	a.clearTokenCookie(c)
	a.metrics.RecordAuthOperation(ctx, "logout")

	helper.SendMessage(c, "Logged out successfully")
}

func (a *AuthHandler) Me(c *gin.Context) {
	user := middleware.MustCurrentUser(c)

	helper.SendSuccess(c, http.StatusOK, response.CurrentUserResponse{
		User: response.NewUserResponse(user, true),
	})
}

// Session lets a client probe for a signed-in user without getting a 401.
func (a *AuthHandler) Session(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)

	if !ok {
		helper.SendSuccess(c, http.StatusOK, response.SessionResponse{Authenticated: false})
		return
	}

	userResponse := response.NewUserResponse(user, false)

	helper.SendSuccess(c, http.StatusOK, response.SessionResponse{
		Authenticated: true,
		User:          &userResponse,
	})
}

func (a *AuthHandler) setTokenCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(middleware.TokenCookie, token, int(a.tokens.TTL().Seconds()), "/", "", a.secureCookie, true)
}

func (a *AuthHandler) clearTokenCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(middleware.TokenCookie, "", -1, "/", "", a.secureCookie, true)
}
