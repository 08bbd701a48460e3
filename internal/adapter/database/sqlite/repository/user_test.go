package repository_test

import (
	"context"
	"testing"
	"time"

	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"todolist/internal/adapter/database/sqlite/repository"
	"todolist/internal/core/domain"
	"todolist/internal/core/port"
	. "todolist/pkg/test"
	"todolist/pkg/test/factory"
)

type UserRepositoryTestSuite struct {
	suite.Suite
	UserRepo port.UserRepository
}

func (s *UserRepositoryTestSuite) SetupTest() {
	db := InitTestDB()
	s.T().Cleanup(func() { db.Close() })

	s.UserRepo = repository.NewUserRepository(db, nil)
}

func TestUserRepositoryTestSuite(t *testing.T) {
	RegisterTestingT(t)
	suite.Run(t, new(UserRepositoryTestSuite))
}

func (s *UserRepositoryTestSuite) TestRepository_Create_Success() {
	user, err := s.UserRepo.Create(context.Background(), factory.NewUser[domain.User](map[string]any{
		"Username":  "alice",
		"CreatedAt": time.Now().UTC(),
	}))

	Expect(err).To(BeNil())
	Expect(user.ID).To(BeNumerically(">", 0))
	Expect(user.Username).To(Equal("alice"))
}

func (s *UserRepositoryTestSuite) TestRepository_Create_DuplicateUsername() {
	data := map[string]any{"Username": "alice", "CreatedAt": time.Now().UTC()}

	_, err := s.UserRepo.Create(context.Background(), factory.NewUser[domain.User](data))
	assert.NoError(s.T(), err)

	_, err = s.UserRepo.Create(context.Background(), factory.NewUser[domain.User](data))
	assert.ErrorIs(s.T(), err, domain.ErrUsernameTaken)
}

func (s *UserRepositoryTestSuite) TestRepository_GetByUsername() {
	created, _ := s.UserRepo.Create(context.Background(), factory.NewUser[domain.User](map[string]any{
		"Username":  "bob",
		"CreatedAt": time.Now().UTC(),
	}))

	user, err := s.UserRepo.GetByUsername(context.Background(), "bob")

	Expect(err).To(BeNil())
	Expect(user.ID).To(Equal(created.ID))
	Expect(user.PasswordHash).To(Equal(created.PasswordHash))
	Expect(user.LastLogin).To(BeNil())

	_, err = s.UserRepo.GetByUsername(context.Background(), "nobody")
	Expect(err).To(MatchError(domain.ErrNotFound))
}

func (s *UserRepositoryTestSuite) TestRepository_TouchLastLogin() {
	created, _ := s.UserRepo.Create(context.Background(), factory.NewUser[domain.User](map[string]any{
		"Username":  "carol",
		"CreatedAt": time.Now().UTC(),
	}))

	at := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	err := s.UserRepo.TouchLastLogin(context.Background(), created.ID, at)
	Expect(err).To(BeNil())

	user, err := s.UserRepo.GetByID(context.Background(), created.ID)

	Expect(err).To(BeNil())
	Expect(user.LastLogin).NotTo(BeNil())
	Expect(user.LastLogin.Equal(at)).To(BeTrue())
}
