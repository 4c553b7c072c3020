package userservice

import (
	"database/sql"
	"log/slog"

	"github.com/sushihentaime/bloglist/internal/authservice"
	"github.com/sushihentaime/bloglist/internal/common"
)

type UserService struct {
	m      *DBModel
	mb     common.MessageProducer
	c      *common.Cache
	tokens *authservice.TokenService
	logger *slog.Logger
}

type DBModel struct {
	db *sql.DB
}

type User struct {
	ID       int64     `json:"id"`
	Username string    `json:"username"`
	Name     string    `json:"name"`
	Password Password  `json:"-"`
	Blogs    []BlogRef `json:"blogs"`
}

// BlogRef is the expanded form of a blog in a user's back-reference list.
type BlogRef struct {
	ID     int64  `json:"id"`
	Title  string `json:"title"`
	URL    string `json:"url"`
	Author string `json:"author"`
}

type Password struct {
	Plain string `json:"-"`
	hash  []byte `json:"-"`
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Name     string `json:"name"`
}
