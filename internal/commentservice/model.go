package commentservice

import (
	"context"
	"database/sql"
	"errors"

	"github.com/sushihentaime/bloglist/internal/common"
)

func newCommentModel(db *sql.DB) *CommentModel {
	return &CommentModel{db: db}
}

// lockBlog locks the parent blog row until tx ends and returns its title.
func (m *CommentModel) lockBlog(ctx context.Context, tx common.DBTX, blogID string) (string, error) {
	query := `
		SELECT title
		FROM blogs
		WHERE id = $1
		FOR UPDATE`

	var title string
	err := tx.QueryRowContext(ctx, query, blogID).Scan(&title)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return "", common.NewNotFoundError("blog not found")
		default:
			return "", err
		}
	}

	return title, nil
}

func (m *CommentModel) insert(ctx context.Context, tx common.DBTX, c *Comment) error {
	query := `
		INSERT INTO comments (id, content, blog_id)
		VALUES ($1, $2, $3)`

	_, err := tx.ExecContext(ctx, query, c.ID, c.Content, c.BlogID)
	return err
}

func (m *CommentModel) appendToBlog(ctx context.Context, tx common.DBTX, blogID, commentID string) error {
	query := `
		UPDATE blogs
		SET comment_ids = array_append(comment_ids, $1)
		WHERE id = $2`

	_, err := tx.ExecContext(ctx, query, commentID, blogID)
	return err
}

// getByBlog returns the comments of a blog in creation order.
func (m *CommentModel) getByBlog(ctx context.Context, blogID string) ([]Comment, error) {
	query := `
		SELECT id, content, blog_id
		FROM comments
		WHERE blog_id = $1
		ORDER BY created_at, id`

	rows, err := m.db.QueryContext(ctx, query, blogID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := []Comment{}
	for rows.Next() {
		var c Comment
		if err := rows.Scan(&c.ID, &c.Content, &c.BlogID); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return comments, nil
}
