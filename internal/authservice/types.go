package authservice

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const DefaultTokenTTL = time.Hour

// Identity is the caller resolved from a verified token. It lives for a
// single request and is never stored.
type Identity struct {
	UserID   int64  `json:"id"`
	Username string `json:"username"`
}

// TokenConfig is fixed at construction time.
type TokenConfig struct {
	Secret []byte
	TTL    time.Duration
}

type TokenService struct {
	cfg TokenConfig
	now func() time.Time
}

type claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// UserResolver looks up the identity for a user id taken from a token. A
// missing user is reported as (nil, nil).
type UserResolver interface {
	ResolveIdentity(ctx context.Context, userID int64) (*Identity, error)
}

// Authenticator runs the verify stage of the pipeline.
type Authenticator struct {
	tokens   *TokenService
	resolver UserResolver
}
