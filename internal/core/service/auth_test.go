package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"todolist/internal/adapter/database/sqlite/repository"
	"todolist/internal/core/domain"
	"todolist/internal/core/port"
	"todolist/internal/core/service"
	. "todolist/pkg/test"
)

type AuthServiceTestSuite struct {
	suite.Suite
	Service *service.AuthService
	repo    port.UserRepository
	clock   *FixedClock
}

func (s *AuthServiceTestSuite) SetupTest() {
	db := InitTestDB()
	s.T().Cleanup(func() { db.Close() })

	s.repo = repository.NewUserRepository(db, nil)
	s.clock = NewFixedClock(time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC))
	s.Service = service.NewAuthService(s.repo,
		service.WithPasswordCost(bcrypt.MinCost),
		service.WithClock(s.clock.Now),
	)
}

func TestAuthServiceTestSuite(t *testing.T) {
	RegisterTestingT(t)
	suite.Run(t, new(AuthServiceTestSuite))
}

func (s *AuthServiceTestSuite) TestService_Register_Success() {
	user, err := s.Service.Register(context.Background(), domain.Credentials{
		Username: "alice",
		Password: "secret1",
	})

	assert.NoError(s.T(), err)
	assert.NotZero(s.T(), user.ID)
	assert.Equal(s.T(), "alice", user.Username)
	assert.NotEqual(s.T(), "secret1", user.PasswordHash)
	assert.Equal(s.T(), user.PasswordHash[7:29], user.Salt)
	assert.True(s.T(), user.CreatedAt.Equal(s.clock.Now()))
}

func (s *AuthServiceTestSuite) TestService_Register_UsernameTaken() {
	credentials := domain.Credentials{Username: "alice", Password: "secret1"}

	_, err := s.Service.Register(context.Background(), credentials)
	assert.NoError(s.T(), err)

	_, err = s.Service.Register(context.Background(), credentials)
	assert.ErrorIs(s.T(), err, domain.ErrUsernameTaken)
}

func (s *AuthServiceTestSuite) TestService_Register_Validation() {
	cases := map[string]domain.Credentials{
		"short username":   {Username: "al", Password: "secret1"},
		"invalid username": {Username: "al ice", Password: "secret1"},
		"long username":    {Username: "abcdefghijklmnopqrstuvwxyz12345", Password: "secret1"},
		"short password":   {Username: "alice", Password: "12345"},
		"missing password": {Username: "alice"},
	}

	for name, credentials := range cases {
		_, err := s.Service.Register(context.Background(), credentials)

		Expect(errors.Is(err, domain.ErrValidation)).To(BeTrue(), name)
	}

	_, err := s.repo.GetByUsername(context.Background(), "alice")
	Expect(err).To(MatchError(domain.ErrNotFound))
}

func (s *AuthServiceTestSuite) TestService_Authenticate_Success() {
	created, err := s.Service.Register(context.Background(), domain.Credentials{Username: "alice", Password: "secret1"})
	assert.NoError(s.T(), err)

	user, err := s.Service.Authenticate(context.Background(), domain.Credentials{Username: "alice", Password: "secret1"})

	assert.NoError(s.T(), err)
	assert.Equal(s.T(), created.ID, user.ID)
}

func (s *AuthServiceTestSuite) TestService_Authenticate_SameErrorForBothFailures() {
	_, err := s.Service.Register(context.Background(), domain.Credentials{Username: "alice", Password: "secret1"})
	assert.NoError(s.T(), err)

	_, wrongPassword := s.Service.Authenticate(context.Background(), domain.Credentials{Username: "alice", Password: "wrong-password"})
	_, unknownUser := s.Service.Authenticate(context.Background(), domain.Credentials{Username: "nobody", Password: "secret1"})

	Expect(wrongPassword).To(MatchError(domain.ErrInvalidCredentials))
	Expect(unknownUser).To(MatchError(domain.ErrInvalidCredentials))
	Expect(wrongPassword.Error()).To(Equal(unknownUser.Error()))
}

func (s *AuthServiceTestSuite) TestService_Authenticate_MissingFields() {
	_, err := s.Service.Authenticate(context.Background(), domain.Credentials{Username: "alice"})

	var validationErr *domain.ValidationError

	Expect(errors.As(err, &validationErr)).To(BeTrue())
	Expect(validationErr.Message).To(Equal("Username and password required"))
}

func (s *AuthServiceTestSuite) TestService_TouchLastLogin() {
	user, _ := s.Service.Register(context.Background(), domain.Credentials{Username: "alice", Password: "secret1"})
	Expect(user.LastLogin).To(BeNil())

	s.clock.Advance(time.Hour)
	s.Service.TouchLastLogin(context.Background(), user.ID)

	current, err := s.Service.CurrentUser(context.Background(), user.ID)

	Expect(err).To(BeNil())
	Expect(current.LastLogin).NotTo(BeNil())
	Expect(current.LastLogin.Equal(s.clock.Now())).To(BeTrue())
}

func (s *AuthServiceTestSuite) TestService_CurrentUser_NotFound() {
	_, err := s.Service.CurrentUser(context.Background(), 999)

	Expect(err).To(MatchError(domain.ErrNotFound))
}
