package userservice

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/sushihentaime/bloglist/internal/authservice"
	"github.com/sushihentaime/bloglist/internal/common"
)

func setupTestEnvironment(t *testing.T) (*UserService, *sql.DB, *common.MockMessageProducer, func() error) {
	db := common.TestDB("file://../../migrations", t)

	mb := new(common.MockMessageProducer)
	mb.On("Publish", mock.Anything, mock.Anything, common.UserCreatedKey, common.UserExchange).Return(nil)

	tokens, err := authservice.NewTokenService(authservice.TokenConfig{Secret: []byte("test-secret"), TTL: time.Hour})
	assert.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	c := common.NewCache(time.Minute, time.Minute)

	cleanup := func() error {
		c.Flush()
		_, err := db.Exec("DELETE FROM users")
		return err
	}

	return NewUserService(db, mb, c, tokens, logger), db, mb, cleanup
}

func TestCreateUser(t *testing.T) {
	s, db, mb, cleanup := setupTestEnvironment(t)

	testCases := []struct {
		name        string
		username    string
		userName    string
		password    string
		setup       func() error
		wantErr     error
		wantMessage string
	}{
		{
			name:     "valid user",
			username: "test_name",
			userName: "test",
			password: "qwerty",
		},
		{
			name:     "password longer than bcrypt accepts",
			username: "long_password",
			userName: "test",
			password: strings.Repeat("p", 80),
		},
		{
			name:     "too short password",
			username: "test name",
			userName: "test",
			password: "qw",
			wantErr:  ErrPasswordTooShort,
		},
		{
			name:     "missing password",
			username: "test name",
			userName: "test",
			wantErr:  ErrPasswordTooShort,
		},
		{
			name:     "password policy wins over store validation",
			password: "q",
			wantErr:  ErrPasswordTooShort,
		},
		{
			name:        "missing username",
			userName:    "jea",
			password:    "hiwdjwd8898e",
			wantMessage: "user validation failed: username: must be provided",
		},
		{
			name:        "short username",
			username:    "ab",
			password:    "hiwdjwd8898e",
			wantMessage: "user validation failed: username: must be between 3 and 50 characters long",
		},
		{
			name:     "duplicate username",
			username: "root",
			password: "sekret",
			setup: func() error {
				_, err := s.CreateUser(context.Background(), "root", "Superuser", "salainen")
				return err
			},
			wantMessage: "user validation failed: username: must be unique",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.setup != nil {
				assert.NoError(t, tc.setup())
			}

			var before int
			assert.NoError(t, db.QueryRow("SELECT COUNT(*) FROM users").Scan(&before))

			u, err := s.CreateUser(context.Background(), tc.username, tc.userName, tc.password)

			var after int
			assert.NoError(t, db.QueryRow("SELECT COUNT(*) FROM users").Scan(&after))

			switch {
			case tc.wantErr != nil:
				assert.ErrorIs(t, err, tc.wantErr)
				assert.Equal(t, before, after)
			case tc.wantMessage != "":
				assert.EqualError(t, err, tc.wantMessage)
				assert.Equal(t, common.KindValidation, common.KindOf(err))
				assert.Equal(t, before, after)
			default:
				assert.NoError(t, err)
				assert.NotZero(t, u.ID)
				assert.Equal(t, tc.username, u.Username)
				assert.Equal(t, []BlogRef{}, u.Blogs)
				assert.Equal(t, before+1, after)

				body, err := json.Marshal(u)
				assert.NoError(t, err)
				assert.NotContains(t, string(body), "password")
				assert.NotContains(t, string(body), tc.password)
			}

			t.Cleanup(func() {
				assert.NoError(t, cleanup())
			})
		})
	}

	mb.AssertCalled(t, "Publish", mock.Anything, mock.Anything, common.UserCreatedKey, common.UserExchange)
}

func TestCreateUser_PublishFailureIsNotFatal(t *testing.T) {
	s, _, _, cleanup := setupTestEnvironment(t)
	t.Cleanup(func() { assert.NoError(t, cleanup()) })

	failing := new(common.MockMessageProducer)
	failing.On("Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("broker down"))
	s.mb = failing

	u, err := s.CreateUser(context.Background(), "hellas", "Arto Hellas", "sekret")
	assert.NoError(t, err)
	assert.NotZero(t, u.ID)
	failing.AssertExpectations(t)
}

func TestLoginUser(t *testing.T) {
	s, _, _, cleanup := setupTestEnvironment(t)
	t.Cleanup(func() { assert.NoError(t, cleanup()) })

	u, err := s.CreateUser(context.Background(), "mluukkai", "Matti Luukkainen", "salainen")
	assert.NoError(t, err)

	testCases := []struct {
		name     string
		username string
		password string
		wantErr  error
	}{
		{name: "valid credentials", username: "mluukkai", password: "salainen"},
		{name: "wrong password", username: "mluukkai", password: "wrong", wantErr: ErrAuthenticationFailure},
		{name: "unknown user", username: "nobody", password: "salainen", wantErr: ErrAuthenticationFailure},
		{name: "empty credentials", wantErr: ErrAuthenticationFailure},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := s.LoginUser(context.Background(), tc.username, tc.password)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				assert.Nil(t, res)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, "mluukkai", res.Username)
			assert.Equal(t, "Matti Luukkainen", res.Name)

			id, err := s.tokens.Verify(res.Token)
			assert.NoError(t, err)
			assert.Equal(t, u.ID, id.UserID)
			assert.Equal(t, "mluukkai", id.Username)
		})
	}
}

func TestResolveIdentity(t *testing.T) {
	s, db, _, cleanup := setupTestEnvironment(t)
	t.Cleanup(func() { assert.NoError(t, cleanup()) })

	u, err := s.CreateUser(context.Background(), "mluukkai", "Matti Luukkainen", "salainen")
	assert.NoError(t, err)

	id, err := s.ResolveIdentity(context.Background(), u.ID)
	assert.NoError(t, err)
	assert.Equal(t, &authservice.Identity{UserID: u.ID, Username: "mluukkai"}, id)

	_, ok := s.c.Get(common.CacheKeyIdentity(u.ID))
	assert.True(t, ok)

	id, err = s.ResolveIdentity(context.Background(), u.ID+1000)
	assert.NoError(t, err)
	assert.Nil(t, id)

	// served from the cache even after the row is gone
	_, err = db.Exec("DELETE FROM users WHERE id = $1", u.ID)
	assert.NoError(t, err)

	id, err = s.ResolveIdentity(context.Background(), u.ID)
	assert.NoError(t, err)
	assert.NotNil(t, id)

	s.ForgetIdentity(u.ID)

	_, ok = s.c.Get(common.CacheKeyIdentity(u.ID))
	assert.False(t, ok)

	id, err = s.ResolveIdentity(context.Background(), u.ID)
	assert.NoError(t, err)
	assert.Nil(t, id)
}

func TestGetUsers(t *testing.T) {
	s, db, _, cleanup := setupTestEnvironment(t)
	t.Cleanup(func() { assert.NoError(t, cleanup()) })

	u, err := s.CreateUser(context.Background(), "mluukkai", "Matti Luukkainen", "salainen")
	assert.NoError(t, err)

	_, err = s.CreateUser(context.Background(), "hellas", "Arto Hellas", "sekret")
	assert.NoError(t, err)

	var first, second int64
	err = db.QueryRow("INSERT INTO blogs (title, author, url, user_id) VALUES ('Second', 'B', 'http://b', $1) RETURNING id", u.ID).Scan(&second)
	assert.NoError(t, err)
	err = db.QueryRow("INSERT INTO blogs (title, author, url, user_id) VALUES ('First', 'A', 'http://a', $1) RETURNING id", u.ID).Scan(&first)
	assert.NoError(t, err)

	// back-reference order, not blog id order
	_, err = db.Exec("INSERT INTO user_blogs (user_id, blog_id) VALUES ($1, $2), ($1, $3)", u.ID, first, second)
	assert.NoError(t, err)

	users, err := s.GetUsers(context.Background())
	assert.NoError(t, err)
	assert.Len(t, users, 2)

	assert.Equal(t, "mluukkai", users[0].Username)
	assert.Equal(t, []BlogRef{
		{ID: first, Title: "First", URL: "http://a", Author: "A"},
		{ID: second, Title: "Second", URL: "http://b", Author: "B"},
	}, users[0].Blogs)

	assert.Equal(t, "hellas", users[1].Username)
	assert.Equal(t, []BlogRef{}, users[1].Blogs)

	_, err = db.Exec("DELETE FROM blogs")
	assert.NoError(t, err)
}
