package authservice

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/sushihentaime/bloglist/internal/common"
)

const bearerPrefix = "Bearer "

var (
	ErrInvalidToken   = common.NewError(common.KindInvalidToken, "invalid token")
	ErrMissingSecret  = errors.New("token secret must be provided")
	ErrInvalidSubject = errors.New("token subject is not a user id")
)

func NewTokenService(cfg TokenConfig) (*TokenService, error) {
	if len(cfg.Secret) == 0 {
		return nil, ErrMissingSecret
	}

	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTokenTTL
	}

	// copy so later changes to the caller's slice cannot affect signing
	secret := make([]byte, len(cfg.Secret))
	copy(secret, cfg.Secret)
	cfg.Secret = secret

	return &TokenService{cfg: cfg, now: time.Now}, nil
}

// Issue signs a token for id that expires after the configured TTL.
func (s *TokenService) Issue(id Identity) (string, error) {
	now := s.now()

	c := claims{
		Username: id.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(id.UserID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.TTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	return token.SignedString(s.cfg.Secret)
}

// Verify checks the signature and expiry of token and returns the identity it
// carries. Every failure is reported as ErrInvalidToken.
func (s *TokenService) Verify(token string) (*Identity, error) {
	id, err := s.parse(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	return id, nil
}

func (s *TokenService) parse(token string) (*Identity, error) {
	c := &claims{}

	parsed, err := jwt.ParseWithClaims(token, c, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.cfg.Secret, nil
	}, jwt.WithExpirationRequired(), jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, err
	}

	if !parsed.Valid {
		return nil, errors.New("token is not valid")
	}

	userID, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return nil, ErrInvalidSubject
	}

	return &Identity{UserID: userID, Username: c.Username}, nil
}

// ExtractToken returns the token of an Authorization header value using the
// case-sensitive "Bearer " scheme. Any other value yields ok == false.
func ExtractToken(header string) (token string, ok bool) {
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", false
	}

	token = strings.TrimPrefix(header, bearerPrefix)
	if token == "" {
		return "", false
	}

	return token, true
}
