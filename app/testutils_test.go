package main

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/sushihentaime/bloglist/internal/authservice"
	"github.com/sushihentaime/bloglist/internal/blogservice"
	"github.com/sushihentaime/bloglist/internal/common"
	"github.com/sushihentaime/bloglist/internal/userservice"
)

const testSecret = "test-secret"

type testServer struct {
	*httptest.Server
}

func newTestServer(t *testing.T, h http.Handler) *testServer {
	ts := httptest.NewServer(h)

	t.Cleanup(ts.Close)

	return &testServer{ts}
}

func testContext(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestTokens(t *testing.T) *authservice.TokenService {
	tokens, err := authservice.NewTokenService(authservice.TokenConfig{Secret: []byte(testSecret), TTL: time.Hour})
	if err != nil {
		t.Fatal(err)
	}
	return tokens
}

// newBareApplication has no storage behind it; it serves routes that never
// reach a service.
func newBareApplication(t *testing.T) *application {
	return &application{
		config: &Config{Environment: "testing", Version: "1.0.0"},
		logger: newTestLogger(),
		auth:   authservice.NewAuthenticator(newTestTokens(t), nil),
	}
}

// newTestApplication wires the services against a migrated postgres
// container. Events go to a mock producer instead of RabbitMQ.
func newTestApplication(t *testing.T) (*application, *sql.DB) {
	db := common.TestDB("file://../migrations", t)
	logger := newTestLogger()

	mb := new(common.MockMessageProducer)
	mb.On("Publish", mock.Anything, mock.Anything, common.UserCreatedKey, common.UserExchange).Return(nil)

	tokens := newTestTokens(t)
	cache := common.NewCache(time.Minute, time.Minute)
	userService := userservice.NewUserService(db, mb, cache, tokens, logger)

	app := &application{
		config:      &Config{Environment: "testing", Version: "1.0.0"},
		logger:      logger,
		auth:        authservice.NewAuthenticator(tokens, userService),
		userService: userService,
		blogService: blogservice.NewBlogService(db),
	}

	return app, db
}

func (ts *testServer) do(t *testing.T, method, path, token string, payload any) (int, http.Header, []byte) {
	t.Helper()

	var body io.Reader
	switch p := payload.(type) {
	case nil:
	case string:
		body = bytes.NewBufferString(p)
	default:
		js, err := json.Marshal(p)
		if err != nil {
			t.Fatal(err)
		}
		body = bytes.NewReader(js)
	}

	req, err := http.NewRequest(method, ts.URL+path, body)
	if err != nil {
		t.Fatal(err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := ts.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer res.Body.Close()

	responseBody, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatal(err)
	}

	return res.StatusCode, res.Header, responseBody
}

func decode[T any](t *testing.T, body []byte) T {
	t.Helper()

	var v T
	if err := json.Unmarshal(body, &v); err != nil {
		t.Fatalf("could not decode %q: %v", body, err)
	}
	return v
}

func errorMessage(t *testing.T, body []byte) string {
	return decode[map[string]string](t, body)["error"]
}

// createUser stores a user and returns a token issued by logging in.
func createUser(t *testing.T, app *application, username, name, password string) (*userservice.User, string) {
	t.Helper()

	ctx := testContext(t)

	u, err := app.userService.CreateUser(ctx, username, name, password)
	if err != nil {
		t.Fatal(err)
	}

	res, err := app.userService.LoginUser(ctx, username, password)
	if err != nil {
		t.Fatal(err)
	}

	return u, res.Token
}

func createBlog(t *testing.T, app *application, token string, in blogservice.BlogInput) *blogservice.Blog {
	t.Helper()

	claimed, err := newTestTokens(t).Verify(token)
	if err != nil {
		t.Fatal(err)
	}

	b, err := app.blogService.CreateBlog(testContext(t), claimed, in)
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func countRows(t *testing.T, db *sql.DB, table string) int {
	t.Helper()

	var n int
	if err := db.QueryRow("SELECT count(*) FROM " + table).Scan(&n); err != nil {
		t.Fatal(err)
	}
	return n
}
