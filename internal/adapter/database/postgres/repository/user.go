package repository

import (
	"context"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"todolist/internal/adapter/database"
	"todolist/internal/adapter/database/postgres"
	"todolist/internal/core/domain"
	"todolist/internal/core/port"
	tel "todolist/internal/core/telemetry"
)

type UserRepository struct {
	db        *postgres.DB
	telemetry port.Telemetry
}

func NewUserRepository(db *postgres.DB, telemetry port.Telemetry) port.UserRepository {
	if telemetry == nil {
		telemetry = tel.NewNoOpProbe()
	}

	return &UserRepository{db: db, telemetry: telemetry}
}

func (ur *UserRepository) Create(ctx context.Context, user domain.User) (domain.User, error) {
	ctx, op := database.StartOperation(ctx, ur.telemetry, "postgresql", "Create", "user", map[string]any{
		"db.table":      "users",
		"db.operation":  "INSERT",
		"user.username": user.Username,
	})

	query, args, err := ur.db.QueryBuilder.Insert("users").
		Columns("username", "password_hash", "salt", "created_at").
		Values(user.Username, user.PasswordHash, user.Salt, user.CreatedAt).
		Suffix("RETURNING id").
		ToSql()

	if err != nil {
		return domain.User{}, op.Fail(err)
	}

	op.Query(query, args)

	if err := ur.db.QueryRow(ctx, query, args...).Scan(&user.ID); err != nil {
		if postgres.IsUniqueViolation(err) {
			return domain.User{}, op.Fail(domain.ErrUsernameTaken)
		}

		return domain.User{}, op.Fail(err)
	}

	op.Done(map[string]any{"user.id": user.ID})

	return user, nil
}

func (ur *UserRepository) GetByID(ctx context.Context, id int64) (domain.User, error) {
	return ur.getBy(ctx, "GetByID", sq.Eq{"id": id})
}

func (ur *UserRepository) GetByUsername(ctx context.Context, username string) (domain.User, error) {
	return ur.getBy(ctx, "GetByUsername", sq.Eq{"username": username})
}

func (ur *UserRepository) getBy(ctx context.Context, operation string, where sq.Eq) (domain.User, error) {
	ctx, op := database.StartOperation(ctx, ur.telemetry, "postgresql", operation, "user", map[string]any{
		"db.table":     "users",
		"db.operation": "SELECT",
	})

	query, args, err := ur.db.QueryBuilder.
		Select("id", "username", "password_hash", "salt", "created_at", "last_login").
		From("users").
		Where(where).
		Limit(1).
		ToSql()

	if err != nil {
		return domain.User{}, op.Fail(err)
	}

	op.Query(query, args)

	var user domain.User

	err = ur.db.QueryRow(ctx, query, args...).
		Scan(&user.ID, &user.Username, &user.PasswordHash, &user.Salt, &user.CreatedAt, &user.LastLogin)

	if errors.Is(err, pgx.ErrNoRows) {
		op.Done(map[string]any{"db.rows_returned": 0})
		return domain.User{}, domain.ErrNotFound
	}

	if err != nil {
		return domain.User{}, op.Fail(err)
	}

	user.CreatedAt = user.CreatedAt.UTC()

	if user.LastLogin != nil {
		at := user.LastLogin.UTC()
		user.LastLogin = &at
	}

	op.Done(map[string]any{"db.rows_returned": 1, "user.id": user.ID})

	return user, nil
}

func (ur *UserRepository) TouchLastLogin(ctx context.Context, id int64, at time.Time) error {
	ctx, op := database.StartOperation(ctx, ur.telemetry, "postgresql", "TouchLastLogin", "user", map[string]any{
		"db.table":     "users",
		"db.operation": "UPDATE",
		"user.id":      id,
	})

	query, args, err := ur.db.QueryBuilder.Update("users").
		Set("last_login", at).
		Where(sq.Eq{"id": id}).
		ToSql()

	if err != nil {
		return op.Fail(err)
	}

	op.Query(query, args)

	if _, err := ur.db.Exec(ctx, query, args...); err != nil {
		return op.Fail(err)
	}

	op.Done(nil)

	return nil
}
