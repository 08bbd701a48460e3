package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"todolist/internal/core/domain"
	"todolist/internal/core/port"
	"todolist/internal/core/util"
)

type AuthService struct {
	repo      port.UserRepository
	validator port.Validator
	telemetry port.Telemetry
	clock     Clock

	passwordCost int
	dummyHash    string
}

func NewAuthService(repo port.UserRepository, opts ...Option) *AuthService {
	o := buildOptions(opts)

	// compared against when the username is unknown, so both failure paths pay for one bcrypt run
	dummyHash, _ := util.GenerateEncrypt("not-a-real-password", o.passwordCost)

	return &AuthService{
		repo:         repo,
		validator:    o.validator,
		telemetry:    o.telemetry,
		clock:        o.clock,
		passwordCost: o.passwordCost,
		dummyHash:    dummyHash,
	}
}

func (s *AuthService) Register(ctx context.Context, credentials domain.Credentials) (domain.User, error) {
	ctx, span := s.telemetry.StartServiceSpan(ctx, "auth", "Register", 0, map[string]any{
		"user.username": credentials.Username,
	})
	defer span.End()

	startTime := time.Now()

	if err := s.validator.ValidateStruct(credentials); err != nil {
		s.telemetry.RecordServiceOperation(ctx, "auth", "Register", 0, time.Since(startTime), err)
		return domain.User{}, err
	}

	encrypted, err := util.GenerateEncrypt(credentials.Password, s.passwordCost)

	if err != nil {
		err = fmt.Errorf("hash password: %w", err)
		s.telemetry.RecordServiceOperation(ctx, "auth", "Register", 0, time.Since(startTime), err)
		return domain.User{}, err
	}

	user, err := s.repo.Create(ctx, domain.User{
		Username:     credentials.Username,
		PasswordHash: encrypted,
		Salt:         util.SaltFromHash(encrypted),
		CreatedAt:    s.clock(),
	})

	if err != nil {
		s.telemetry.RecordServiceOperation(ctx, "auth", "Register", 0, time.Since(startTime), err)
		return domain.User{}, err
	}

	s.telemetry.RecordServiceOperation(ctx, "auth", "Register", user.ID, time.Since(startTime), nil)
	s.telemetry.RecordBusinessEvent(ctx, "registered", "user", strconv.FormatInt(user.ID, 10), user.ID, nil)

	return user, nil
}

// Authenticate returns domain.ErrInvalidCredentials for an unknown username and
// for a wrong password alike.
func (s *AuthService) Authenticate(ctx context.Context, credentials domain.Credentials) (domain.User, error) {
	ctx, span := s.telemetry.StartServiceSpan(ctx, "auth", "Authenticate", 0, nil)
	defer span.End()

	startTime := time.Now()

	if credentials.Username == "" || credentials.Password == "" {
		err := domain.NewValidationError("credentials", "Username and password required")
		s.telemetry.RecordServiceOperation(ctx, "auth", "Authenticate", 0, time.Since(startTime), err)
		return domain.User{}, err
	}

	user, err := s.repo.GetByUsername(ctx, credentials.Username)

	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.telemetry.RecordServiceOperation(ctx, "auth", "Authenticate", 0, time.Since(startTime), err)
			return domain.User{}, err
		}

		_ = util.ComparePassword(credentials.Password, s.dummyHash)

		s.telemetry.RecordServiceOperation(ctx, "auth", "Authenticate", 0, time.Since(startTime), domain.ErrInvalidCredentials)
		return domain.User{}, domain.ErrInvalidCredentials
	}

	if err := util.ComparePassword(credentials.Password, user.PasswordHash); err != nil {
		s.telemetry.RecordServiceOperation(ctx, "auth", "Authenticate", user.ID, time.Since(startTime), domain.ErrInvalidCredentials)
		return domain.User{}, domain.ErrInvalidCredentials
	}

	s.telemetry.RecordServiceOperation(ctx, "auth", "Authenticate", user.ID, time.Since(startTime), nil)
	s.telemetry.RecordBusinessEvent(ctx, "logged_in", "user", strconv.FormatInt(user.ID, 10), user.ID, nil)

	return user, nil
}

// TouchLastLogin is best-effort; a failure is recorded and otherwise ignored.
func (s *AuthService) TouchLastLogin(ctx context.Context, userID int64) {
	if err := s.repo.TouchLastLogin(ctx, userID, s.clock()); err != nil {
		s.telemetry.RecordError(ctx, "TouchLastLogin", err, map[string]any{"user_id": userID})
	}
}

func (s *AuthService) CurrentUser(ctx context.Context, userID int64) (domain.User, error) {
	return s.repo.GetByID(ctx, userID)
}
