// source: notification.sql

package sqlc

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createNotificationRecord = `-- name: CreateNotificationRecord :exec
INSERT INTO notification_records (id, trigger_id, subscriber, type, post_id, user_id, status, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
`

type CreateNotificationRecordParams struct {
	ID         int64              `json:"id"`
	TriggerID  string             `json:"trigger_id"`
	Subscriber string             `json:"subscriber"`
	Type       string             `json:"type"`
	PostID     int64              `json:"post_id"`
	UserID     int64              `json:"user_id"`
	Status     string             `json:"status"`
	CreatedAt  pgtype.Timestamptz `json:"created_at"`
	UpdatedAt  pgtype.Timestamptz `json:"updated_at"`
}

func (q *Queries) CreateNotificationRecord(ctx context.Context, arg CreateNotificationRecordParams) error {
	_, err := q.db.Exec(ctx, createNotificationRecord,
		arg.ID,
		arg.TriggerID,
		arg.Subscriber,
		arg.Type,
		arg.PostID,
		arg.UserID,
		arg.Status,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return err
}

const existsNotificationRecord = `-- name: ExistsNotificationRecord :one
SELECT EXISTS (
    SELECT 1 FROM notification_records
    WHERE trigger_id = $1
      AND type = $2
      AND subscriber = $3
      AND ($4::BIGINT = 0 OR post_id = $4::BIGINT)
      AND ($5::BIGINT = 0 OR user_id = $5::BIGINT)
      AND status <> 'failed'
)
`

type ExistsNotificationRecordParams struct {
	TriggerID  string `json:"trigger_id"`
	Type       string `json:"type"`
	Subscriber string `json:"subscriber"`
	PostID     int64  `json:"post_id"`
	UserID     int64  `json:"user_id"`
}

func (q *Queries) ExistsNotificationRecord(ctx context.Context, arg ExistsNotificationRecordParams) (bool, error) {
	row := q.db.QueryRow(ctx, existsNotificationRecord,
		arg.TriggerID,
		arg.Type,
		arg.Subscriber,
		arg.PostID,
		arg.UserID,
	)
	var exists bool
	err := row.Scan(&exists)
	return exists, err
}

const getLMSContentByID = `-- name: GetLMSContentByID :one
SELECT id, kind, title, author_id, parent_id FROM lms_contents WHERE id = $1
`

func (q *Queries) GetLMSContentByID(ctx context.Context, id int64) (LmsContent, error) {
	row := q.db.QueryRow(ctx, getLMSContentByID, id)
	var i LmsContent
	err := row.Scan(
		&i.ID,
		&i.Kind,
		&i.Title,
		&i.AuthorID,
		&i.ParentID,
	)
	return i, err
}

const getLMSUserByID = `-- name: GetLMSUserByID :one
SELECT id, email, display_name FROM lms_users WHERE id = $1
`

func (q *Queries) GetLMSUserByID(ctx context.Context, id int64) (LmsUser, error) {
	row := q.db.QueryRow(ctx, getLMSUserByID, id)
	var i LmsUser
	err := row.Scan(&i.ID, &i.Email, &i.DisplayName)
	return i, err
}

const getNotificationOption = `-- name: GetNotificationOption :one
SELECT value FROM notification_options WHERE name = $1
`

func (q *Queries) GetNotificationOption(ctx context.Context, name string) (string, error) {
	row := q.db.QueryRow(ctx, getNotificationOption, name)
	var value string
	err := row.Scan(&value)
	return value, err
}

const getNotificationRecordByID = `-- name: GetNotificationRecordByID :one
SELECT id, trigger_id, subscriber, type, post_id, user_id, status, created_at, updated_at
FROM notification_records
WHERE id = $1
`

func (q *Queries) GetNotificationRecordByID(ctx context.Context, id int64) (NotificationRecord, error) {
	row := q.db.QueryRow(ctx, getNotificationRecordByID, id)
	var i NotificationRecord
	err := row.Scan(
		&i.ID,
		&i.TriggerID,
		&i.Subscriber,
		&i.Type,
		&i.PostID,
		&i.UserID,
		&i.Status,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const getNotificationTemplate = `-- name: GetNotificationTemplate :one
SELECT trigger_id, type, subject, body
FROM notification_templates
WHERE trigger_id = $1 AND type = $2
`

type GetNotificationTemplateParams struct {
	TriggerID string `json:"trigger_id"`
	Type      string `json:"type"`
}

func (q *Queries) GetNotificationTemplate(ctx context.Context, arg GetNotificationTemplateParams) (NotificationTemplate, error) {
	row := q.db.QueryRow(ctx, getNotificationTemplate, arg.TriggerID, arg.Type)
	var i NotificationTemplate
	err := row.Scan(
		&i.TriggerID,
		&i.Type,
		&i.Subject,
		&i.Body,
	)
	return i, err
}

const listNotificationRecordsBySubscriber = `-- name: ListNotificationRecordsBySubscriber :many
SELECT id, trigger_id, subscriber, type, post_id, user_id, status, created_at, updated_at
FROM notification_records
WHERE subscriber = $1 AND ($2::TEXT = '' OR type = $2::TEXT)
ORDER BY id DESC
LIMIT $3
`

type ListNotificationRecordsBySubscriberParams struct {
	Subscriber string `json:"subscriber"`
	Type       string `json:"type"`
	Limit      int32  `json:"limit"`
}

func (q *Queries) ListNotificationRecordsBySubscriber(ctx context.Context, arg ListNotificationRecordsBySubscriberParams) ([]NotificationRecord, error) {
	rows, err := q.db.Query(ctx, listNotificationRecordsBySubscriber, arg.Subscriber, arg.Type, arg.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []NotificationRecord{}
	for rows.Next() {
		var i NotificationRecord
		if err := rows.Scan(
			&i.ID,
			&i.TriggerID,
			&i.Subscriber,
			&i.Type,
			&i.PostID,
			&i.UserID,
			&i.Status,
			&i.CreatedAt,
			&i.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const updateNotificationRecordStatus = `-- name: UpdateNotificationRecordStatus :execrows
UPDATE notification_records SET status = $2, updated_at = $3 WHERE id = $1
`

type UpdateNotificationRecordStatusParams struct {
	ID        int64              `json:"id"`
	Status    string             `json:"status"`
	UpdatedAt pgtype.Timestamptz `json:"updated_at"`
}

func (q *Queries) UpdateNotificationRecordStatus(ctx context.Context, arg UpdateNotificationRecordStatusParams) (int64, error) {
	result, err := q.db.Exec(ctx, updateNotificationRecordStatus, arg.ID, arg.Status, arg.UpdatedAt)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const upsertNotificationOption = `-- name: UpsertNotificationOption :exec
INSERT INTO notification_options (name, value, updated_at)
VALUES ($1, $2, $3)
ON CONFLICT (name) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
`

type UpsertNotificationOptionParams struct {
	Name      string             `json:"name"`
	Value     string             `json:"value"`
	UpdatedAt pgtype.Timestamptz `json:"updated_at"`
}

func (q *Queries) UpsertNotificationOption(ctx context.Context, arg UpsertNotificationOptionParams) error {
	_, err := q.db.Exec(ctx, upsertNotificationOption, arg.Name, arg.Value, arg.UpdatedAt)
	return err
}
