package entity

import "time"

const (
	// StatusLegacy marks the kept legacy copy of a migrated certificate.
	StatusLegacy  = "llms-legacy"
	StatusPublish = "publish"
	StatusDraft   = "draft"
)

// Meta keys present only on legacy certificates. They are not copied to the
// migrated certificate.
const (
	MetaLegacyTitle = "_llms_certificate_title"
	MetaLegacyImage = "_llms_certificate_image"
	MetaOldSlug     = "_wp_old_slug"
)

// Certificate is an LMS certificate template.
type Certificate struct {
	ID        int64
	Title     string
	Content   string
	Status    string
	ParentID  int64
	AuthorID  int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsLegacied reports whether c is the legacy copy of another certificate.
func (c Certificate) IsLegacied() bool {
	return c.ParentID > 0 || c.Status == StatusLegacy
}

// Migration describes one migrate transaction: Modern is the new row, the
// source row becomes its legacy child.
type Migration struct {
	Source Certificate
	Modern Certificate
}

// Restore describes one rollback transaction.
type Restore struct {
	ModernID int64
	LegacyID int64
	// Status is the modern certificate's status, given to the legacy.
	Status    string
	UpdatedAt time.Time
}

// ToolsReport counts the certificates the bulk tools would touch.
type ToolsReport struct {
	Legacy   []int64
	Migrated []int64
}

// BulkResult is the outcome of a bulk migrate or rollback.
type BulkResult struct {
	// Done maps a processed certificate id to the resulting id.
	Done   map[int64]int64
	Errors map[int64]string
}
