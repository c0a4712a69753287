package blogservice

import (
	"database/sql"

	"github.com/sushihentaime/bloglist/internal/common"
)

type Blog struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`
	URL    string `json:"url"`
	Likes  int    `json:"likes"`
	// User is nil for blogs without an owner.
	User     *Owner   `json:"user"`
	Comments []string `json:"comments"`
}

// Owner is the projection of a user embedded in a blog representation.
type Owner struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
}

type CreateBlogRequest struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	URL    string `json:"url"`
	Likes  *int   `json:"likes"`
}

// UpdateBlogRequest holds a partial update: nil fields are left unchanged.
type UpdateBlogRequest struct {
	Title  *string `json:"title"`
	Author *string `json:"author"`
	URL    *string `json:"url"`
	Likes  *int    `json:"likes"`
}

type AuthorBlogs struct {
	Author string `json:"author"`
	Blogs  int    `json:"blogs"`
}

type AuthorLikes struct {
	Author string `json:"author"`
	Likes  int    `json:"likes"`
}

type Stats struct {
	TotalLikes   int          `json:"total_likes"`
	FavoriteBlog *Blog        `json:"favorite_blog"`
	MostBlogs    *AuthorBlogs `json:"most_blogs"`
	MostLikes    *AuthorLikes `json:"most_likes"`
}

type BlogModel struct {
	db *sql.DB
}

type BlogService struct {
	m *BlogModel
	c *common.Cache
}
