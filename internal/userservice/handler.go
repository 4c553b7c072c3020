package userservice

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/sushihentaime/bloglist/internal/authservice"
	"github.com/sushihentaime/bloglist/internal/common"
)

var (
	ErrAuthenticationFailure = common.NewError(common.KindUnauthenticated, "invalid username or password")
	ErrPasswordTooShort      = common.NewError(common.KindValidation, "password must be 3 characters long")
)

func NewUserService(db *sql.DB, mb common.MessageProducer, c *common.Cache, tokens *authservice.TokenService, logger *slog.Logger) *UserService {
	return &UserService{
		m:      newUserModel(db),
		mb:     mb,
		c:      c,
		tokens: tokens,
		logger: logger,
	}
}

// CreateUser checks the password policy, hashes the password, stores the user
// and publishes a user.created event. The password policy is checked before
// any other field so its error wins.
func (s *UserService) CreateUser(ctx context.Context, username, name, password string) (*User, error) {
	if !ValidPassword(password) {
		return nil, ErrPasswordTooShort
	}

	u := User{
		Username: username,
		Name:     name,
		Blogs:    []BlogRef{},
	}

	err := u.Password.set(password)
	if err != nil {
		return nil, err
	}

	err = s.m.insertUser(ctx, &u)
	if err != nil {
		return nil, err
	}

	// the user is already stored; a broker outage must not fail the request
	event := common.UserCreatedEvent{ID: u.ID, Username: u.Username, Name: u.Name}
	if err := common.PublishJSON(ctx, s.mb, event, common.UserCreatedKey, common.UserExchange); err != nil {
		s.logger.Error("could not publish user created event", slog.Int64("user_id", u.ID), slog.String("error", err.Error()))
	}

	return &u, nil
}

// GetUsers returns all users with their blogs expanded.
func (s *UserService) GetUsers(ctx context.Context) ([]User, error) {
	return s.m.getUsers(ctx)
}

// LoginUser checks the credentials and issues a signed token.
func (s *UserService) LoginUser(ctx context.Context, username, password string) (*LoginResult, error) {
	user, err := s.m.getUserByUsername(ctx, username)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return nil, ErrAuthenticationFailure
		default:
			return nil, err
		}
	}

	ok, err := user.Password.compare(password)
	if err != nil {
		return nil, err
	}

	if !ok {
		return nil, ErrAuthenticationFailure
	}

	token, err := s.tokens.Issue(authservice.Identity{UserID: user.ID, Username: user.Username})
	if err != nil {
		return nil, err
	}

	return &LoginResult{Token: token, Username: user.Username, Name: user.Name}, nil
}

// ResolveIdentity implements authservice.UserResolver. Unknown users resolve
// to a nil identity.
func (s *UserService) ResolveIdentity(ctx context.Context, userID int64) (*authservice.Identity, error) {
	key := common.CacheKeyIdentity(userID)
	if cached, ok := s.c.Get(key); ok {
		if id, ok := cached.(authservice.Identity); ok {
			return &id, nil
		}
	}

	u, err := s.m.getUserByID(ctx, userID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return nil, nil
		default:
			return nil, err
		}
	}

	id := authservice.Identity{UserID: u.ID, Username: u.Username}
	s.c.Set(key, id)

	return &id, nil
}

// ForgetIdentity drops the cached identity of userID, e.g. once the store has
// reported the user missing.
func (s *UserService) ForgetIdentity(userID int64) {
	s.c.Delete(common.CacheKeyIdentity(userID))
}
