package userservice

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
	"github.com/sushihentaime/bloglist/internal/common"
)

func newUserModel(db *sql.DB) *UserModel {
	return &UserModel{db: db}
}

// uniqueViolation reports whether err is a unique constraint violation on the named constraint.
func uniqueViolation(err error, name string) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505" && pqErr.Constraint == name
	}
	return false
}

func (m *UserModel) insert(ctx context.Context, u *User) error {
	query := `
		INSERT INTO users (id, username, name, password_hash)
		VALUES ($1, $2, $3, $4)`

	args := []any{
		u.ID,
		u.Username,
		u.Name,
		u.Password.hash,
	}

	_, err := m.db.ExecContext(ctx, query, args...)
	if err != nil {
		switch {
		case uniqueViolation(err, "users_username_key"):
			return ErrDuplicateUsername
		default:
			return err
		}
	}

	return nil
}

// getByUsername returns the user with its password hash, for credential checks.
func (m *UserModel) getByUsername(ctx context.Context, username string) (*User, error) {
	query := `
		SELECT id, username, name, password_hash
		FROM users
		WHERE username = $1`

	var u User

	err := m.db.QueryRowContext(ctx, query, username).Scan(&u.ID, &u.Username, &u.Name, &u.Password.hash)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, common.ErrRecordNotFound
		default:
			return nil, err
		}
	}

	return &u, nil
}

func (m *UserModel) getByID(ctx context.Context, id string) (*User, error) {
	query := `
		SELECT id, username, name
		FROM users
		WHERE id = $1`

	var u User

	err := m.db.QueryRowContext(ctx, query, id).Scan(&u.ID, &u.Username, &u.Name)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, common.ErrRecordNotFound
		default:
			return nil, err
		}
	}

	return &u, nil
}

func (m *UserModel) getAll(ctx context.Context) ([]User, error) {
	query := `
		SELECT id, username, name
		FROM users
		ORDER BY created_at, id`

	rows, err := m.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []User{}
	for rows.Next() {
		var u User
		err := rows.Scan(&u.ID, &u.Username, &u.Name)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return users, nil
}

// getBlogRefs returns the blog projections of the given users, keyed by user
// id and kept in the order of each user's blog list.
func (m *UserModel) getBlogRefs(ctx context.Context, userIDs []string) (map[string][]BlogRef, error) {
	query := `
		SELECT u.id, b.id, b.title, b.author, b.url
		FROM users u
		CROSS JOIN LATERAL unnest(u.blog_ids) WITH ORDINALITY AS ref(blog_id, ord)
		JOIN blogs b ON b.id = ref.blog_id
		WHERE u.id = ANY($1)
		ORDER BY u.id, ref.ord`

	rows, err := m.db.QueryContext(ctx, query, pq.Array(userIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	refs := make(map[string][]BlogRef)
	for rows.Next() {
		var userID string
		var ref BlogRef
		err := rows.Scan(&userID, &ref.ID, &ref.Title, &ref.Author, &ref.URL)
		if err != nil {
			return nil, err
		}
		refs[userID] = append(refs[userID], ref)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return refs, nil
}
