package domain

import "time"

// TokenClaims is the verified content of an identity token.
type TokenClaims struct {
	UserID    int64
	TokenID   string
	ExpiresAt time.Time
}
