package factory

import (
	fab "github.com/Goldziher/fabricator"
	"golang.org/x/crypto/bcrypt"
)

const DefaultPassword = "password123"

// NewUser builds a fabricated user. A PasswordHash for DefaultPassword is
// filled in unless one is given.
func NewUser[T any](customData ...map[string]any) T {
	instance := fab.New(*new(T))

	hasPasswordHash := false

	for _, data := range customData {
		if _, exists := data["PasswordHash"]; exists {
			hasPasswordHash = true
			break
		}
	}

	if !hasPasswordHash {
		passwordHash, _ := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.MinCost)

		customData = append(customData, map[string]any{
			"PasswordHash": string(passwordHash),
			"Salt":         string(passwordHash)[7:29],
		})
	}

	return instance.Build(customData...)
}
