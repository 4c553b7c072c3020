package blogservice

import (
	"context"
	"database/sql"
	"errors"

	"github.com/sushihentaime/bloglist/internal/authservice"
	"github.com/sushihentaime/bloglist/internal/common"
)

var ErrNoRights = common.NewError(common.KindForbidden, "No rights to delete this blog")

func NewBlogService(db *sql.DB) *BlogService {
	return &BlogService{m: newBlogModel(db)}
}

// newBlog builds a blog from client input. Absent likes default to zero.
func newBlog(in BlogInput) Blog {
	b := Blog{
		Title:  sanitizeText(in.Title),
		Author: sanitizeText(in.Author),
		URL:    in.URL,
	}

	if in.Likes != nil {
		b.Likes = *in.Likes
	}

	return b
}

// CreateBlog stores a blog owned by the caller and returns it with the owner
// expanded.
func (s *BlogService) CreateBlog(ctx context.Context, id *authservice.Identity, in BlogInput) (*Blog, error) {
	if id == nil {
		return nil, authservice.ErrAuthenticationRequired
	}

	b := newBlog(in)
	b.UserID = &id.UserID

	v := common.NewValidator("blog")
	validateBlog(v, &b)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	if err := s.m.insertBlog(ctx, &b); err != nil {
		return nil, err
	}

	return s.m.getBlogByID(ctx, b.ID)
}

// GetBlogs returns every blog with its owner expanded.
func (s *BlogService) GetBlogs(ctx context.Context) ([]Blog, error) {
	return s.m.getBlogs(ctx)
}

// UpdateBlog replaces title, author, url and likes of a blog. It is not a
// partial update: absent fields are validated and stored as empty values.
func (s *BlogService) UpdateBlog(ctx context.Context, blogID int64, in BlogInput) (*Blog, error) {
	b := newBlog(in)
	b.ID = blogID

	v := common.NewValidator("blog")
	validateBlog(v, &b)
	// callers other than the HTTP layer pass ids unchecked
	validateID(v, blogID, "id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	if err := s.m.updateBlog(ctx, &b); err != nil {
		return nil, err
	}

	return s.m.getBlogByID(ctx, blogID)
}

// DeleteBlog deletes a blog owned by the caller. A blog that does not exist
// counts as deleted whoever the caller is.
func (s *BlogService) DeleteBlog(ctx context.Context, blogID int64, id *authservice.Identity) error {
	b, err := s.m.getBlogByID(ctx, blogID)
	if err != nil {
		switch {
		case errors.Is(err, ErrRecordNotFound):
			return nil
		default:
			return err
		}
	}

	if !authservice.Owns(id, b.UserID) {
		return ErrNoRights
	}

	return s.m.deleteBlog(ctx, blogID)
}

// GetStats computes the aggregates over all stored blogs.
func (s *BlogService) GetStats(ctx context.Context) (*Stats, error) {
	blogs, err := s.m.getBlogs(ctx)
	if err != nil {
		return nil, err
	}

	return ComputeStats(blogs), nil
}
