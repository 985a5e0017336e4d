// source: certificate.sql

package sqlc

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const copyLMSCertificateMeta = `-- name: CopyLMSCertificateMeta :execrows
INSERT INTO lms_certificate_meta (certificate_id, meta_key, meta_value)
SELECT $1::BIGINT, meta_key, meta_value
FROM lms_certificate_meta
WHERE certificate_id = $2::BIGINT
  AND meta_key NOT IN ('_wp_old_slug', '_llms_certificate_title', '_llms_certificate_image')
`

type CopyLMSCertificateMetaParams struct {
	ToID   int64 `json:"to_id"`
	FromID int64 `json:"from_id"`
}

func (q *Queries) CopyLMSCertificateMeta(ctx context.Context, arg CopyLMSCertificateMetaParams) (int64, error) {
	result, err := q.db.Exec(ctx, copyLMSCertificateMeta, arg.ToID, arg.FromID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const countLMSCertificateLegacyMeta = `-- name: CountLMSCertificateLegacyMeta :one
SELECT COUNT(*) FROM lms_certificate_meta
WHERE certificate_id = $1
  AND meta_key IN ('_llms_certificate_title', '_llms_certificate_image')
`

func (q *Queries) CountLMSCertificateLegacyMeta(ctx context.Context, certificateID int64) (int64, error) {
	row := q.db.QueryRow(ctx, countLMSCertificateLegacyMeta, certificateID)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const createLMSCertificate = `-- name: CreateLMSCertificate :exec
INSERT INTO lms_certificates (id, title, content, status, parent_id, author_id, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
`

type CreateLMSCertificateParams struct {
	ID        int64              `json:"id"`
	Title     string             `json:"title"`
	Content   string             `json:"content"`
	Status    string             `json:"status"`
	ParentID  int64              `json:"parent_id"`
	AuthorID  int64              `json:"author_id"`
	CreatedAt pgtype.Timestamptz `json:"created_at"`
	UpdatedAt pgtype.Timestamptz `json:"updated_at"`
}

func (q *Queries) CreateLMSCertificate(ctx context.Context, arg CreateLMSCertificateParams) error {
	_, err := q.db.Exec(ctx, createLMSCertificate,
		arg.ID,
		arg.Title,
		arg.Content,
		arg.Status,
		arg.ParentID,
		arg.AuthorID,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return err
}

const deleteLMSCertificate = `-- name: DeleteLMSCertificate :execrows
DELETE FROM lms_certificates WHERE id = $1
`

func (q *Queries) DeleteLMSCertificate(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.Exec(ctx, deleteLMSCertificate, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const deleteLMSCertificateMeta = `-- name: DeleteLMSCertificateMeta :exec
DELETE FROM lms_certificate_meta WHERE certificate_id = $1
`

func (q *Queries) DeleteLMSCertificateMeta(ctx context.Context, certificateID int64) error {
	_, err := q.db.Exec(ctx, deleteLMSCertificateMeta, certificateID)
	return err
}

const getLMSCertificateByID = `-- name: GetLMSCertificateByID :one
SELECT id, title, content, status, parent_id, author_id, created_at, updated_at
FROM lms_certificates
WHERE id = $1
`

func (q *Queries) GetLMSCertificateByID(ctx context.Context, id int64) (LmsCertificate, error) {
	row := q.db.QueryRow(ctx, getLMSCertificateByID, id)
	var i LmsCertificate
	err := row.Scan(
		&i.ID,
		&i.Title,
		&i.Content,
		&i.Status,
		&i.ParentID,
		&i.AuthorID,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const getLMSCertificateLegacyChild = `-- name: GetLMSCertificateLegacyChild :one
SELECT id, title, content, status, parent_id, author_id, created_at, updated_at
FROM lms_certificates
WHERE parent_id = $1 AND status = 'llms-legacy'
ORDER BY id
LIMIT 1
`

func (q *Queries) GetLMSCertificateLegacyChild(ctx context.Context, parentID int64) (LmsCertificate, error) {
	row := q.db.QueryRow(ctx, getLMSCertificateLegacyChild, parentID)
	var i LmsCertificate
	err := row.Scan(
		&i.ID,
		&i.Title,
		&i.Content,
		&i.Status,
		&i.ParentID,
		&i.AuthorID,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const listLMSCertificateLegacyIDs = `-- name: ListLMSCertificateLegacyIDs :many
SELECT DISTINCT c.id
FROM lms_certificates c
JOIN lms_certificate_meta m ON m.certificate_id = c.id
WHERE c.parent_id = 0
  AND c.status <> 'llms-legacy'
  AND m.meta_key IN ('_llms_certificate_title', '_llms_certificate_image')
ORDER BY c.id
`

func (q *Queries) ListLMSCertificateLegacyIDs(ctx context.Context) ([]int64, error) {
	return q.listIDs(ctx, listLMSCertificateLegacyIDs)
}

const listLMSCertificateMigratedIDs = `-- name: ListLMSCertificateMigratedIDs :many
SELECT DISTINCT parent_id
FROM lms_certificates
WHERE parent_id > 0 AND status = 'llms-legacy'
ORDER BY parent_id
`

func (q *Queries) ListLMSCertificateMigratedIDs(ctx context.Context) ([]int64, error) {
	return q.listIDs(ctx, listLMSCertificateMigratedIDs)
}

func (q *Queries) listIDs(ctx context.Context, query string) ([]int64, error) {
	rows, err := q.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		items = append(items, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const swapLMSEngagementCertificate = `-- name: SwapLMSEngagementCertificate :execrows
UPDATE lms_engagements SET certificate_id = $1::BIGINT WHERE certificate_id = $2::BIGINT
`

type SwapLMSEngagementCertificateParams struct {
	ToID   int64 `json:"to_id"`
	FromID int64 `json:"from_id"`
}

func (q *Queries) SwapLMSEngagementCertificate(ctx context.Context, arg SwapLMSEngagementCertificateParams) (int64, error) {
	result, err := q.db.Exec(ctx, swapLMSEngagementCertificate, arg.ToID, arg.FromID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const updateLMSCertificateStatusParent = `-- name: UpdateLMSCertificateStatusParent :execrows
UPDATE lms_certificates SET status = $2, parent_id = $3, updated_at = $4 WHERE id = $1
`

type UpdateLMSCertificateStatusParentParams struct {
	ID        int64              `json:"id"`
	Status    string             `json:"status"`
	ParentID  int64              `json:"parent_id"`
	UpdatedAt pgtype.Timestamptz `json:"updated_at"`
}

func (q *Queries) UpdateLMSCertificateStatusParent(ctx context.Context, arg UpdateLMSCertificateStatusParentParams) (int64, error) {
	result, err := q.db.Exec(ctx, updateLMSCertificateStatusParent, arg.ID, arg.Status, arg.ParentID, arg.UpdatedAt)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
