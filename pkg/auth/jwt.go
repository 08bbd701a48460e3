package auth

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"todolist/internal/core/domain"
)

const (
	DefaultTTL    = 7 * 24 * time.Hour
	DefaultIssuer = "todolist"
)

type Claims struct {
	UserID int64 `json:"userId"`
	jwt.RegisteredClaims
}

type JWT struct {
	Secret string
	Issuer string
	Expiry time.Duration
	Now    func() time.Time
}

func NewJWT(secret string, ttl time.Duration) *JWT {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &JWT{
		Secret: secret,
		Issuer: DefaultIssuer,
		Expiry: ttl,
		Now:    time.Now,
	}
}

func (j *JWT) TTL() time.Duration {
	return j.Expiry
}

func (j *JWT) CreateToken(userID int64) (string, error) {
	now := j.Now()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    j.Issuer,
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.Expiry)),
		},
	})

	return token.SignedString([]byte(j.Secret))
}

// VerifyToken returns domain.ErrExpiredToken for a well formed token past its
// expiry and domain.ErrMalformedToken for anything else that fails.
func (j *JWT) VerifyToken(tokenString string) (domain.TokenClaims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return []byte(j.Secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(j.Issuer),
		jwt.WithTimeFunc(j.Now),
		jwt.WithExpirationRequired(),
	)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return domain.TokenClaims{}, domain.ErrExpiredToken
		}

		return domain.TokenClaims{}, fmt.Errorf("%w: %v", domain.ErrMalformedToken, err)
	}

	if !token.Valid || claims.UserID <= 0 {
		return domain.TokenClaims{}, domain.ErrMalformedToken
	}

	return domain.TokenClaims{
		UserID:    claims.UserID,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// ParseTTL accepts Go durations plus a day suffix such as "7d".
func ParseTTL(value string) (time.Duration, error) {
	value = strings.TrimSpace(value)

	if value == "" {
		return DefaultTTL, nil
	}

	if days, found := strings.CutSuffix(value, "d"); found {
		n, err := strconv.Atoi(days)

		if err != nil || n <= 0 {
			return 0, fmt.Errorf("invalid token ttl %q", value)
		}

		return time.Duration(n) * 24 * time.Hour, nil
	}

	ttl, err := time.ParseDuration(value)

	if err != nil || ttl <= 0 {
		return 0, fmt.Errorf("invalid token ttl %q", value)
	}

	return ttl, nil
}
