package commentservice

import (
	"database/sql"
	"log/slog"

	"github.com/sushihentaime/bloglist/internal/common"
)

type Comment struct {
	ID      string `json:"id"`
	Content string `json:"content"`
	BlogID  string `json:"blog"`
}

type CreateCommentRequest struct {
	Content string `json:"content"`
}

// CommentCreatedEvent is published on the blog exchange after a comment is stored.
type CommentCreatedEvent struct {
	CommentID string `json:"comment_id"`
	BlogID    string `json:"blog_id"`
	BlogTitle string `json:"blog_title"`
	Content   string `json:"content"`
}

type CommentModel struct {
	db *sql.DB
}

type CommentService struct {
	m      *CommentModel
	mb     common.MessageProducer
	logger *slog.Logger
}
