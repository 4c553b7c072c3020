package blogservice

import (
	"context"
	"database/sql"
	"errors"

	"github.com/sushihentaime/bloglist/internal/common"
)

var (
	ErrRecordNotFound = common.NewError(common.KindNotFound, "blog not found")
	ErrUserForeignKey = common.NewError(common.KindUnauthenticated, "token missing or invalid")
)

const blogColumns = `b.id, b.title, b.author, b.url, b.likes, b.user_id, u.id, u.username, u.name`

func newBlogModel(db *sql.DB) *BlogModel {
	return &BlogModel{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanBlog reads a row selected with blogColumns. The owner columns are NULL
// for legacy blogs.
func scanBlog(row rowScanner) (*Blog, error) {
	var (
		b        Blog
		userID   sql.NullInt64
		ownerID  sql.NullInt64
		username sql.NullString
		name     sql.NullString
	)

	err := row.Scan(&b.ID, &b.Title, &b.Author, &b.URL, &b.Likes, &userID, &ownerID, &username, &name)
	if err != nil {
		return nil, err
	}

	if userID.Valid {
		b.UserID = &userID.Int64
	}

	if ownerID.Valid {
		b.User = &Owner{ID: ownerID.Int64, Username: username.String, Name: name.String}
	}

	return &b, nil
}

// insertBlog stores b and appends it to its owner's back-reference list in
// one transaction.
func (m *BlogModel) insertBlog(ctx context.Context, b *Blog) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO blogs (title, author, url, likes, user_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	err = tx.QueryRowContext(ctx, query, b.Title, b.Author, b.URL, b.Likes, b.UserID).Scan(&b.ID)
	if err != nil {
		_ = tx.Rollback()
		switch {
		case common.ForeignKeyViolation(err, "blogs_user_id_fkey"):
			return ErrUserForeignKey
		default:
			return err
		}
	}

	if b.UserID != nil {
		_, err = tx.ExecContext(ctx, `INSERT INTO user_blogs (user_id, blog_id) VALUES ($1, $2)`, *b.UserID, b.ID)
		if err != nil {
			_ = tx.Rollback()
			return err
		}
	}

	return tx.Commit()
}

func (m *BlogModel) getBlogByID(ctx context.Context, id int64) (*Blog, error) {
	query := `
		SELECT ` + blogColumns + `
		FROM blogs b
		LEFT JOIN users u ON b.user_id = u.id
		WHERE b.id = $1`

	b, err := scanBlog(m.db.QueryRowContext(ctx, query, id))
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}

	return b, nil
}

func (m *BlogModel) getBlogs(ctx context.Context) ([]Blog, error) {
	query := `
		SELECT ` + blogColumns + `
		FROM blogs b
		LEFT JOIN users u ON b.user_id = u.id
		ORDER BY b.id`

	rows, err := m.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	blogs := []Blog{}
	for rows.Next() {
		b, err := scanBlog(rows)
		if err != nil {
			return nil, err
		}
		blogs = append(blogs, *b)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return blogs, nil
}

// updateBlog replaces the client editable fields of the blog with b.ID.
func (m *BlogModel) updateBlog(ctx context.Context, b *Blog) error {
	query := `
		UPDATE blogs
		SET title = $1, author = $2, url = $3, likes = $4
		WHERE id = $5`

	res, err := m.db.ExecContext(ctx, query, b.Title, b.Author, b.URL, b.Likes, b.ID)
	if err != nil {
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrRecordNotFound
	}

	return nil
}

// deleteBlog removes the blog; deleting a missing blog is not an error.
func (m *BlogModel) deleteBlog(ctx context.Context, id int64) error {
	_, err := m.db.ExecContext(ctx, `DELETE FROM blogs WHERE id = $1`, id)
	return err
}
