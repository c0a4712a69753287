package userservice

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/sushihentaime/bloglist/internal/common"
)

var (
	ErrInvalidCredentials = common.NewAuthError("Invalid username or password")
)

func NewUserService(db *sql.DB, c *common.Cache, secret []byte, tokenTTL time.Duration) *UserService {
	if tokenTTL <= 0 {
		tokenTTL = DefaultTokenTTL
	}

	return &UserService{
		m:        newUserModel(db),
		c:        c,
		secret:   secret,
		tokenTTL: tokenTTL,
	}
}

// CreateUser registers a new user. The password is checked before anything
// else and only its bcrypt hash is stored.
func (s *UserService) CreateUser(ctx context.Context, username, name, password string) (*User, error) {
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	v := common.NewValidator()
	validateUsername(v, username)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	u := User{
		ID:       common.NewID(),
		Username: username,
		Name:     name,
		Blogs:    []BlogRef{},
	}

	err := u.Password.set(password)
	if err != nil {
		return nil, err
	}

	err = s.m.insert(ctx, &u)
	if err != nil {
		return nil, err
	}

	return &u, nil
}

// GetUsers returns every user with its blogs populated.
func (s *UserService) GetUsers(ctx context.Context) ([]User, error) {
	users, err := s.m.getAll(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(users))
	for i := range users {
		ids[i] = users[i].ID
	}

	refs, err := s.m.getBlogRefs(ctx, ids)
	if err != nil {
		return nil, err
	}

	for i := range users {
		users[i].Blogs = blogRefsOrEmpty(refs[users[i].ID])
	}

	return users, nil
}

// GetUserByID returns a single user with its blogs populated.
func (s *UserService) GetUserByID(ctx context.Context, id string) (*User, error) {
	id, err := common.ParseID(id)
	if err != nil {
		return nil, err
	}

	u, err := s.m.getByID(ctx, id)
	if err != nil {
		return nil, err
	}

	refs, err := s.m.getBlogRefs(ctx, []string{u.ID})
	if err != nil {
		return nil, err
	}
	u.Blogs = blogRefsOrEmpty(refs[u.ID])

	return u, nil
}

// LoginUser checks the credentials and issues a bearer token. An unknown
// username and a wrong password fail with the same error.
func (s *UserService) LoginUser(ctx context.Context, username, password string) (*LoginResponse, error) {
	user, err := s.m.getByUsername(ctx, username)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrRecordNotFound):
			unknown := Password{hash: dummyHash()}
			if _, err := unknown.compare(password); err != nil {
				return nil, err
			}
			return nil, ErrInvalidCredentials
		default:
			return nil, err
		}
	}

	ok, err := user.Password.compare(password)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	token, err := newToken(user, s.secret, s.tokenTTL)
	if err != nil {
		return nil, err
	}

	return &LoginResponse{
		Token:    token,
		Username: user.Username,
		Name:     user.Name,
	}, nil
}

// GetUserByToken verifies a bearer token and resolves it to a live user.
// The returned user carries identity fields only.
func (s *UserService) GetUserByToken(ctx context.Context, token string) (*User, error) {
	claims, err := parseToken(token, s.secret)
	if err != nil {
		return nil, err
	}

	key := common.CacheKeyUserByID(claims.UserID)
	if s.c != nil {
		if cached, ok := s.c.Get(key); ok {
			u := cached.(User)
			return &u, nil
		}
	}

	u, err := s.m.getByID(ctx, claims.UserID)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrRecordNotFound):
			return nil, common.ErrInvalidToken
		default:
			return nil, err
		}
	}

	if s.c != nil {
		s.c.Set(key, *u)
	}

	return u, nil
}

func (u *User) IsAnonymous() bool {
	return u == &AnonymousUser
}

func blogRefsOrEmpty(refs []BlogRef) []BlogRef {
	if refs == nil {
		return []BlogRef{}
	}
	return refs
}
