package userservice

import (
	"context"
)

// getUsers returns every user with its blogs expanded in the order they were
// added to the user's back-reference list.
func (m *DBModel) getUsers(ctx context.Context) ([]User, error) {
	users, err := m.listUsers(ctx)
	if err != nil {
		return nil, err
	}

	refs, err := m.listBlogRefs(ctx)
	if err != nil {
		return nil, err
	}

	for i := range users {
		users[i].Blogs = refs[users[i].ID]
		if users[i].Blogs == nil {
			users[i].Blogs = []BlogRef{}
		}
	}

	return users, nil
}

func (m *DBModel) listUsers(ctx context.Context) ([]User, error) {
	query := `
		SELECT id, username, name
		FROM users
		ORDER BY id`

	rows, err := m.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []User{}
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Username, &u.Name); err != nil {
			return nil, err
		}
		users = append(users, u)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return users, nil
}

func (m *DBModel) listBlogRefs(ctx context.Context) (map[int64][]BlogRef, error) {
	query := `
		SELECT ub.user_id, b.id, b.title, b.url, b.author
		FROM user_blogs ub
		JOIN blogs b ON b.id = ub.blog_id
		ORDER BY ub.user_id, ub.position`

	rows, err := m.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	refs := make(map[int64][]BlogRef)
	for rows.Next() {
		var (
			userID int64
			ref    BlogRef
		)
		if err := rows.Scan(&userID, &ref.ID, &ref.Title, &ref.URL, &ref.Author); err != nil {
			return nil, err
		}
		refs[userID] = append(refs[userID], ref)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return refs, nil
}
