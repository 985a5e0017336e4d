package sqlite

import (
	"context"

	"github.com/shandysiswandi/coursebell/internal/notification/entity"
)

func (s *Store) GetContent(ctx context.Context, id int64) (_ *entity.Content, err error) {
	ctx, span := s.startSpan(ctx, "GetContent")
	defer func() { s.endSpan(span, err) }()

	var (
		c    entity.Content
		kind string
	)
	err = s.db.QueryRowContext(ctx, `SELECT id, kind, title, author_id, parent_id FROM lms_contents WHERE id = ?`, id).
		Scan(&c.ID, &kind, &c.Title, &c.AuthorID, &c.ParentID)
	if err != nil {
		return nil, s.mapError(err)
	}
	c.Kind = entity.ContentKind(kind)

	return &c, nil
}

func (s *Store) GetUser(ctx context.Context, id int64) (_ *entity.User, err error) {
	ctx, span := s.startSpan(ctx, "GetUser")
	defer func() { s.endSpan(span, err) }()

	var u entity.User
	err = s.db.QueryRowContext(ctx, `SELECT id, email, display_name FROM lms_users WHERE id = ?`, id).
		Scan(&u.ID, &u.Email, &u.DisplayName)
	if err != nil {
		return nil, s.mapError(err)
	}

	return &u, nil
}

// PutContent mirrors a course or lesson from the LMS.
func (s *Store) PutContent(ctx context.Context, c entity.Content) (err error) {
	ctx, span := s.startSpan(ctx, "PutContent")
	defer func() { s.endSpan(span, err) }()

	_, err = s.db.ExecContext(ctx, `INSERT INTO lms_contents (id, kind, title, author_id, parent_id) VALUES (?, ?, ?, ?, ?)
ON CONFLICT (id) DO UPDATE SET kind = excluded.kind, title = excluded.title, author_id = excluded.author_id, parent_id = excluded.parent_id`,
		c.ID, c.Kind.String(), c.Title, c.AuthorID, c.ParentID)
	return s.mapError(err)
}

// PutUser mirrors a user from the LMS.
func (s *Store) PutUser(ctx context.Context, u entity.User) (err error) {
	ctx, span := s.startSpan(ctx, "PutUser")
	defer func() { s.endSpan(span, err) }()

	_, err = s.db.ExecContext(ctx, `INSERT INTO lms_users (id, email, display_name) VALUES (?, ?, ?)
ON CONFLICT (id) DO UPDATE SET email = excluded.email, display_name = excluded.display_name`,
		u.ID, u.Email, u.DisplayName)
	return s.mapError(err)
}
