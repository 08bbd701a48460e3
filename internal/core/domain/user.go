package domain

import (
	"time"
)

type User struct {
	ID           int64
	Username     string `validate:"required,min=3,max=30,username"`
	PasswordHash string
	Salt         string
	CreatedAt    time.Time
	LastLogin    *time.Time
}

func (u *User) HasLoggedIn() bool {
	return u.LastLogin != nil
}

// Credentials is the raw username/password pair supplied at registration or login.
type Credentials struct {
	Username string `validate:"required,min=3,max=30,username"`
	Password string `validate:"required,min=6,max=100"`
}
