package sqlc

import (
	"github.com/jackc/pgx/v5/pgtype"
)

type LmsCertificate struct {
	ID        int64              `json:"id"`
	Title     string             `json:"title"`
	Content   string             `json:"content"`
	Status    string             `json:"status"`
	ParentID  int64              `json:"parent_id"`
	AuthorID  int64              `json:"author_id"`
	CreatedAt pgtype.Timestamptz `json:"created_at"`
	UpdatedAt pgtype.Timestamptz `json:"updated_at"`
}

type LmsCertificateMetum struct {
	CertificateID int64  `json:"certificate_id"`
	MetaKey       string `json:"meta_key"`
	MetaValue     string `json:"meta_value"`
}

type LmsContent struct {
	ID       int64  `json:"id"`
	Kind     string `json:"kind"`
	Title    string `json:"title"`
	AuthorID int64  `json:"author_id"`
	ParentID int64  `json:"parent_id"`
}

type LmsEngagement struct {
	ID            int64 `json:"id"`
	CertificateID int64 `json:"certificate_id"`
}

type LmsUser struct {
	ID          int64  `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
}

type NotificationOption struct {
	Name      string             `json:"name"`
	Value     string             `json:"value"`
	UpdatedAt pgtype.Timestamptz `json:"updated_at"`
}

type NotificationRecord struct {
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

type NotificationTemplate struct {
	TriggerID string `json:"trigger_id"`
	Type      string `json:"type"`
	Subject   string `json:"subject"`
	Body      string `json:"body"`
}
