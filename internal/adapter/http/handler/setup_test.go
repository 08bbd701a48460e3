package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/gomega"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"todolist/internal/adapter/cache/memory"
	"todolist/internal/adapter/database/sqlite"
	api "todolist/internal/adapter/http"
	"todolist/internal/adapter/http/routes"
	"todolist/internal/core/model/response"
	"todolist/pkg/auth"
	"todolist/pkg/config"
	. "todolist/pkg/test"
)

const testSecret = "test-secret"

type testServer struct {
	Router    *gin.Engine
	DB        *sqlite.DB
	Clock     *FixedClock
	Tokens    *auth.JWT
	Container *api.Container
}

func newTestServer(t *testing.T, configure ...func(*config.AppConfig)) *testServer {
	gin.SetMode(gin.TestMode)

	db := InitTestDB()
	t.Cleanup(func() { db.Close() })

	clock := NewFixedClock(time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC))

	// tokens run on wall time so that revocation TTLs stay positive
	tokens := auth.NewJWT(testSecret, 7*24*time.Hour)

	appConfig := config.GetDefaultConfig()
	appConfig.RateLimitEnabled = false
	appConfig.ThrottleRPS = 0

	for _, fn := range configure {
		fn(appConfig)
	}

	logger := otelzap.New(zap.NewNop())

	container := api.NewContainer(api.Dependencies{
		Repositories: api.NewSQLiteRepositories(db, nil),
		Tokens:       tokens,
		Denylist:     memory.NewTokenDenylist(),
		Logger:       logger,
		Config:       appConfig,
		PasswordCost: bcrypt.MinCost,
		Clock:        clock.Now,
	})

	return &testServer{
		Router:    routes.SetupRouterWithConfig(container.Handlers(), nil, logger, appConfig),
		DB:        db,
		Clock:     clock,
		Tokens:    tokens,
		Container: container,
	}
}

func (s *testServer) do(method, path, body, token string) *httptest.ResponseRecorder {
	var req *http.Request

	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	s.Router.ServeHTTP(rr, req)

	return rr
}

// register signs a user up and returns its token.
func (s *testServer) register(username string) string {
	rr := s.do(http.MethodPost, "/api/auth/register",
		`{"username": "`+username+`", "password": "password123"}`, "")

	Expect(rr.Code).To(Equal(http.StatusCreated), rr.Body.String())

	return decode[response.AuthResponse](rr).Token
}

// createTask posts a task and returns its id.
func (s *testServer) createTask(token, body string) int64 {
	rr := s.do(http.MethodPost, "/api/tasks", body, token)

	Expect(rr.Code).To(Equal(http.StatusCreated), rr.Body.String())

	return decode[response.TaskCreatedResponse](rr).Task.ID
}

func (s *testServer) listTasks(token string) []response.TaskResponse {
	rr := s.do(http.MethodGet, "/api/tasks", "", token)

	Expect(rr.Code).To(Equal(http.StatusOK))

	return decode[response.TaskListResponse](rr).Tasks
}

func (s *testServer) listTrash(token string) []response.DeletedTaskResponse {
	rr := s.do(http.MethodGet, "/api/trash", "", token)

	Expect(rr.Code).To(Equal(http.StatusOK))

	return decode[response.TrashListResponse](rr).Tasks
}

func decode[T any](rr *httptest.ResponseRecorder) T {
	var data T

	Expect(json.Unmarshal(rr.Body.Bytes(), &data)).To(Succeed(), rr.Body.String())

	return data
}

func decodeError(rr *httptest.ResponseRecorder) response.ResponseError {
	return decode[response.ErrorResponse](rr).Error
}

func findCookie(rr *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, cookie := range rr.Result().Cookies() {
		if cookie.Name == name {
			return cookie
		}
	}

	return nil
}
