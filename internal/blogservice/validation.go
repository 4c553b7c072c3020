package blogservice

import (
	"strings"

	"github.com/sushihentaime/bloglist/internal/common"
)

// validateBlog holds the field rules shared by create and update.
func validateBlog(v *common.Validator, b *Blog) {
	v.Check(strings.TrimSpace(b.Title) != "", "title", "must be provided")
	v.Check(strings.TrimSpace(b.URL) != "", "url", "must be provided")
	v.Check(b.Likes >= 0, "likes", "must not be negative")
}

func validateID(v *common.Validator, id int64, name string) {
	v.Check(id > 0, name, "must be greater than zero")
}
