package blogservice

import (
	"strings"

	"github.com/sushihentaime/bloglist/internal/common"
)

var (
	ErrTitleAndURLMissing = common.NewValidationError("title and url is missing")
)

func validateBlog(v *common.Validator, b *Blog) {
	v.Check(strings.TrimSpace(b.Title) != "", "title", "must be provided")
	v.Check(strings.TrimSpace(b.URL) != "", "url", "must be provided")
	v.Check(b.Likes >= 0, "likes", "must not be negative")
}
