package blogservice

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/sushihentaime/bloglist/internal/common"
)

var (
	ErrUnauthorizedDelete = common.NewAuthError("unauthorize to delete the blog")
)

func NewBlogService(db *sql.DB, c *common.Cache) *BlogService {
	return &BlogService{m: newBlogModel(db), c: c}
}

// GetBlogs returns every blog with its owner populated.
func (s *BlogService) GetBlogs(ctx context.Context) ([]Blog, error) {
	return s.m.getBlogs(ctx)
}

// GetBlogByID returns a blog post by its ID.
func (s *BlogService) GetBlogByID(ctx context.Context, id string) (*Blog, error) {
	id, err := common.ParseID(id)
	if err != nil {
		return nil, err
	}

	return s.m.getBlogById(ctx, id)
}

// CreateBlog creates a blog owned by userID and appends it to the owner's blog list.
func (s *BlogService) CreateBlog(ctx context.Context, userID string, req *CreateBlogRequest) (*Blog, error) {
	if userID == "" {
		return nil, common.ErrInvalidToken
	}

	if strings.TrimSpace(req.Title) == "" && strings.TrimSpace(req.URL) == "" {
		return nil, ErrTitleAndURLMissing
	}

	blog := Blog{
		ID:       common.NewID(),
		Title:    req.Title,
		Author:   req.Author,
		URL:      req.URL,
		Comments: []string{},
	}
	if req.Likes != nil {
		blog.Likes = *req.Likes
	}

	v := common.NewValidator()
	validateBlog(v, &blog)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	err := common.WithTx(ctx, s.m.db, func(tx *sql.Tx) error {
		if err := s.m.insert(ctx, tx, &blog, userID); err != nil {
			return err
		}

		err := s.m.appendToOwner(ctx, tx, userID, blog.ID)
		if errors.Is(err, common.ErrRecordNotFound) {
			return common.ErrInvalidToken
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	s.invalidateStats()

	return s.m.getBlogById(ctx, blog.ID)
}

// UpdateBlog applies a partial update to a blog. Fields left nil in req keep their value.
func (s *BlogService) UpdateBlog(ctx context.Context, id string, req *UpdateBlogRequest) (*Blog, error) {
	id, err := common.ParseID(id)
	if err != nil {
		return nil, err
	}

	err = common.WithTx(ctx, s.m.db, func(tx *sql.Tx) error {
		blog, _, err := s.m.lockBlog(ctx, tx, id)
		if err != nil {
			return err
		}

		if req.Title != nil {
			blog.Title = *req.Title
		}
		if req.Author != nil {
			blog.Author = *req.Author
		}
		if req.URL != nil {
			blog.URL = *req.URL
		}
		if req.Likes != nil {
			blog.Likes = *req.Likes
		}

		v := common.NewValidator()
		validateBlog(v, blog)
		if !v.Valid() {
			return v.ValidationError()
		}

		return s.m.updateBlog(ctx, tx, blog)
	})
	if err != nil {
		return nil, err
	}

	s.invalidateStats()

	return s.m.getBlogById(ctx, id)
}

// DeleteBlog deletes a blog post. Only the user who created the blog post can delete it.
func (s *BlogService) DeleteBlog(ctx context.Context, userID, id string) error {
	if userID == "" {
		return common.ErrInvalidToken
	}

	id, err := common.ParseID(id)
	if err != nil {
		return err
	}

	err = common.WithTx(ctx, s.m.db, func(tx *sql.Tx) error {
		_, owner, err := s.m.lockBlog(ctx, tx, id)
		if err != nil {
			return err
		}

		if !owner.Valid || owner.String != userID {
			return ErrUnauthorizedDelete
		}

		if err := s.m.deleteBlog(ctx, tx, id); err != nil {
			return err
		}

		return s.m.removeFromOwner(ctx, tx, userID, id)
	})
	if err != nil {
		return err
	}

	s.invalidateStats()

	return nil
}

// GetStats returns the aggregate statistics over all blogs. The result is
// cached until the next blog write.
func (s *BlogService) GetStats(ctx context.Context) (*Stats, error) {
	if s.c != nil {
		if cached, ok := s.c.Get(common.CacheKeyBlogStats); ok {
			return cached.(*Stats), nil
		}
	}

	blogs, err := s.m.getBlogs(ctx)
	if err != nil {
		return nil, err
	}

	stats := computeStats(blogs)

	if s.c != nil {
		s.c.Set(common.CacheKeyBlogStats, stats)
	}

	return stats, nil
}

func (s *BlogService) invalidateStats() {
	if s.c != nil {
		s.c.Delete(common.CacheKeyBlogStats)
	}
}
