package commentservice

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/sushihentaime/bloglist/internal/common"
)

var (
	ErrContentMissing = common.NewValidationError("content is missing")
)

const publishTimeout = 5 * time.Second

func NewCommentService(db *sql.DB, mb common.MessageProducer, logger *slog.Logger) *CommentService {
	return &CommentService{
		m:      newCommentModel(db),
		mb:     mb,
		logger: logger,
	}
}

// GetCommentsByBlog returns the comments attached to a blog. An unknown blog has no comments.
func (s *CommentService) GetCommentsByBlog(ctx context.Context, blogID string) ([]Comment, error) {
	blogID, err := common.ParseID(blogID)
	if err != nil {
		return nil, err
	}

	return s.m.getByBlog(ctx, blogID)
}

// CreateComment stores a comment and appends it to the parent blog's comment list.
// A comment.created event is published once the comment is committed.
func (s *CommentService) CreateComment(ctx context.Context, blogID string, req *CreateCommentRequest) (*Comment, error) {
	blogID, err := common.ParseID(blogID)
	if err != nil {
		return nil, err
	}

	content := sanitizeContent(req.Content)
	if strings.TrimSpace(content) == "" {
		return nil, ErrContentMissing
	}

	c := Comment{
		ID:      common.NewID(),
		Content: content,
		BlogID:  blogID,
	}

	var title string
	err = common.WithTx(ctx, s.m.db, func(tx *sql.Tx) error {
		t, err := s.m.lockBlog(ctx, tx, blogID)
		if err != nil {
			return err
		}
		title = t

		if err := s.m.insert(ctx, tx, &c); err != nil {
			return err
		}

		return s.m.appendToBlog(ctx, tx, blogID, c.ID)
	})
	if err != nil {
		return nil, err
	}

	s.publishCreated(&c, title)

	return &c, nil
}

func (s *CommentService) publishCreated(c *Comment, title string) {
	if s.mb == nil {
		return
	}

	msg, err := json.Marshal(CommentCreatedEvent{
		CommentID: c.ID,
		BlogID:    c.BlogID,
		BlogTitle: title,
		Content:   c.Content,
	})
	if err != nil {
		s.logger.Error("failed to encode comment event", "comment_id", c.ID, "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	if err := s.mb.Publish(ctx, msg, common.CommentCreatedKey, common.BlogExchange); err != nil {
		s.logger.Error("failed to publish comment event", "comment_id", c.ID, "error", err)
	}
}
