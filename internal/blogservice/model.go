package blogservice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/sushihentaime/bloglist/internal/common"
)

func newBlogModel(db *sql.DB) *BlogModel {
	return &BlogModel{db: db}
}

// ForeignKeyError is a helper function to check if the error is a foreign key constraint error.
func ForeignKeyError(err error, name string) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		if pqErr.Code == "23503" && pqErr.Constraint == name {
			return true
		}
	}

	return false
}

const selectBlog = `
		SELECT b.id, b.title, b.author, b.url, b.likes, b.comment_ids, u.id, u.username, u.name
		FROM blogs b
		LEFT JOIN users u ON b.user_id = u.id`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBlog(row rowScanner) (*Blog, error) {
	var (
		blog                         Blog
		comments                     []string
		ownerID, ownerName, username sql.NullString
	)

	err := row.Scan(&blog.ID, &blog.Title, &blog.Author, &blog.URL, &blog.Likes, pq.Array(&comments), &ownerID, &username, &ownerName)
	if err != nil {
		return nil, err
	}

	if ownerID.Valid {
		blog.User = &Owner{ID: ownerID.String, Username: username.String, Name: ownerName.String}
	}

	blog.Comments = comments
	if blog.Comments == nil {
		blog.Comments = []string{}
	}

	return &blog, nil
}

func (m *BlogModel) insert(ctx context.Context, tx common.DBTX, b *Blog, userID string) error {
	query := `
		INSERT INTO blogs (id, title, author, url, likes, user_id)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := tx.ExecContext(ctx, query, b.ID, b.Title, b.Author, b.URL, b.Likes, userID)
	if err != nil {
		switch {
		case ForeignKeyError(err, "blogs_user_id_fkey"):
			return common.ErrInvalidToken
		default:
			return err
		}
	}

	return nil
}

// appendToOwner records blogID at the end of the owner's blog list.
func (m *BlogModel) appendToOwner(ctx context.Context, tx common.DBTX, userID, blogID string) error {
	query := `
		UPDATE users
		SET blog_ids = array_append(blog_ids, $1)
		WHERE id = $2`

	return expectOneRow(tx.ExecContext(ctx, query, blogID, userID))
}

func (m *BlogModel) removeFromOwner(ctx context.Context, tx common.DBTX, userID, blogID string) error {
	query := `
		UPDATE users
		SET blog_ids = array_remove(blog_ids, $1)
		WHERE id = $2`

	return expectOneRow(tx.ExecContext(ctx, query, blogID, userID))
}

// getBlogById is a method to get a blog by its ID joining the users table to get the owner.
func (m *BlogModel) getBlogById(ctx context.Context, id string) (*Blog, error) {
	query := selectBlog + `
		WHERE b.id = $1`

	blog, err := scanBlog(m.db.QueryRowContext(ctx, query, id))
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, common.ErrRecordNotFound
		default:
			return nil, err
		}
	}

	return blog, nil
}

// getBlogs returns every blog in creation order.
func (m *BlogModel) getBlogs(ctx context.Context) ([]Blog, error) {
	query := selectBlog + `
		ORDER BY b.created_at, b.id`

	rows, err := m.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	blogs := []Blog{}
	for rows.Next() {
		blog, err := scanBlog(rows)
		if err != nil {
			return nil, err
		}
		blogs = append(blogs, *blog)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return blogs, nil
}

// lockBlog reads the editable fields and owner of a blog and locks its row until tx ends.
func (m *BlogModel) lockBlog(ctx context.Context, tx common.DBTX, id string) (*Blog, sql.NullString, error) {
	query := `
		SELECT id, title, author, url, likes, user_id
		FROM blogs
		WHERE id = $1
		FOR UPDATE`

	var (
		blog   Blog
		userID sql.NullString
	)

	err := tx.QueryRowContext(ctx, query, id).Scan(&blog.ID, &blog.Title, &blog.Author, &blog.URL, &blog.Likes, &userID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, userID, common.ErrRecordNotFound
		default:
			return nil, userID, err
		}
	}

	return &blog, userID, nil
}

func (m *BlogModel) updateBlog(ctx context.Context, tx common.DBTX, blog *Blog) error {
	query := `
		UPDATE blogs
		SET title = $1, author = $2, url = $3, likes = $4
		WHERE id = $5`

	return expectOneRow(tx.ExecContext(ctx, query, blog.Title, blog.Author, blog.URL, blog.Likes, blog.ID))
}

func (m *BlogModel) deleteBlog(ctx context.Context, tx common.DBTX, id string) error {
	query := `
		DELETE FROM blogs
		WHERE id = $1`

	return expectOneRow(tx.ExecContext(ctx, query, id))
}

func expectOneRow(res sql.Result, err error) error {
	if err != nil {
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if rows != 1 {
		switch {
		case rows == 0:
			return common.ErrRecordNotFound
		default:
			return fmt.Errorf("expected 1 row to be affected, got %d", rows)
		}
	}

	return nil
}
