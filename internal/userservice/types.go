package userservice

import (
	"database/sql"
	"time"

	"github.com/sushihentaime/bloglist/internal/common"
)

const (
	// passwordCost is the bcrypt work factor used for every stored hash.
	passwordCost = 10

	DefaultTokenTTL time.Duration = time.Hour
)

var (
	AnonymousUser = User{}
)

type UserService struct {
	m        *UserModel
	c        *common.Cache
	secret   []byte
	tokenTTL time.Duration
}

type UserModel struct {
	db *sql.DB
}

type User struct {
	ID       string    `json:"id"`
	Username string    `json:"username"`
	Name     string    `json:"name"`
	Password Password  `json:"-"`
	Blogs    []BlogRef `json:"blogs"`
}

// BlogRef is the projection of a blog embedded in a user representation.
type BlogRef struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`
	URL    string `json:"url"`
}

type Password struct {
	Plain string `json:"-"`
	hash  []byte
}

type LoginResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Name     string `json:"name"`
}
