package sqlite

import (
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/shandysiswandi/coursebell/internal/certificate/entity"
	"github.com/shandysiswandi/coursebell/internal/pkg/goerror"
	"github.com/shandysiswandi/coursebell/internal/pkg/instrument"
	"github.com/shandysiswandi/coursebell/internal/pkg/sqlitedb"
)

var now = time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)

func newStore(t *testing.T) *Store {
	t.Helper()

	conn, err := sqlitedb.Open(":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	if err := sqlitedb.Migrate(t.Context(), conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	seed := []string{
		`INSERT INTO lms_certificates (id, title, content, status, parent_id, author_id, created_at, updated_at)
		 VALUES (10, 'Completion', 'legacy', 'publish', 0, 3, 0, 0), (20, 'Modern', 'new', 'draft', 0, 3, 0, 0)`,
		`INSERT INTO lms_certificate_meta (certificate_id, meta_key, meta_value) VALUES
		 (10, '_llms_certificate_title', 'Old'), (10, '_llms_certificate_image', '1'),
		 (10, '_wp_old_slug', 'x'), (10, '_llms_sequential_id', '4')`,
		`INSERT INTO lms_engagements (id, certificate_id) VALUES (1, 10), (2, 10), (3, 20)`,
	}
	for _, q := range seed {
		if _, err := conn.ExecContext(t.Context(), q); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	return New(conn, instrument.NewNoop())
}

func (s *Store) engagementsOf(t *testing.T, id int64) int {
	t.Helper()
	var n int
	if err := s.db.QueryRowContext(t.Context(), `SELECT COUNT(*) FROM lms_engagements WHERE certificate_id = ?`, id).Scan(&n); err != nil {
		t.Fatalf("count engagements: %v", err)
	}
	return n
}

func (s *Store) metaKeys(t *testing.T, id int64) []string {
	t.Helper()
	rows, err := s.db.QueryContext(t.Context(), `SELECT meta_key FROM lms_certificate_meta WHERE certificate_id = ? ORDER BY meta_key`, id)
	if err != nil {
		t.Fatalf("meta: %v", err)
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var k string
		_ = rows.Scan(&k)
		out = append(out, k)
	}
	return out
}

func migrate(t *testing.T, s *Store) {
	t.Helper()
	src, err := s.GetCertificate(t.Context(), 10)
	if err != nil {
		t.Fatalf("GetCertificate() error = %v", err)
	}
	modern := *src
	modern.ID, modern.CreatedAt, modern.UpdatedAt = 11, now, now
	if err := s.Migrate(t.Context(), entity.Migration{Source: *src, Modern: modern}); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
}

func TestStore_Lookups(t *testing.T) {
	t.Run("missing certificate", func(t *testing.T) {
		// Arrange
		s := newStore(t)

		// Act
		_, err := s.GetCertificate(t.Context(), 999)

		// Assert
		if !errors.Is(err, goerror.ErrNotFound) {
			t.Fatalf("error = %v, want ErrNotFound", err)
		}
	})

	t.Run("legacy meta and lists", func(t *testing.T) {
		// Arrange
		s := newStore(t)

		// Act
		n10, err10 := s.CountLegacyMeta(t.Context(), 10)
		n20, err20 := s.CountLegacyMeta(t.Context(), 20)
		legacy, errL := s.ListLegacyIDs(t.Context())
		migrated, errM := s.ListMigratedIDs(t.Context())

		// Assert
		if err10 != nil || err20 != nil || errL != nil || errM != nil {
			t.Fatalf("errors: %v %v %v %v", err10, err20, errL, errM)
		}
		if n10 != 2 || n20 != 0 {
			t.Fatalf("counts = %d, %d", n10, n20)
		}
		if !slices.Equal(legacy, []int64{10}) || len(migrated) != 0 {
			t.Fatalf("legacy = %v migrated = %v", legacy, migrated)
		}
	})

	t.Run("no legacy child", func(t *testing.T) {
		// Arrange
		s := newStore(t)

		// Act
		_, err := s.GetLegacyChild(t.Context(), 10)

		// Assert
		if !errors.Is(err, goerror.ErrNotFound) {
			t.Fatalf("error = %v, want ErrNotFound", err)
		}
	})
}

func TestStore_Migrate(t *testing.T) {
	// Arrange
	s := newStore(t)

	// Act
	migrate(t, s)

	// Assert
	src, _ := s.GetCertificate(t.Context(), 10)
	if src.Status != entity.StatusLegacy || src.ParentID != 11 || !src.UpdatedAt.Equal(now) {
		t.Fatalf("source = %+v", src)
	}
	modern, err := s.GetCertificate(t.Context(), 11)
	if err != nil || modern.Title != "Completion" || modern.Status != "publish" || !modern.CreatedAt.Equal(now) {
		t.Fatalf("modern = %+v, %v", modern, err)
	}
	if got := s.metaKeys(t, 11); !slices.Equal(got, []string{"_llms_sequential_id"}) {
		t.Fatalf("modern meta = %v", got)
	}
	if got := s.metaKeys(t, 10); len(got) != 4 {
		t.Fatalf("legacy meta = %v", got)
	}
	if s.engagementsOf(t, 11) != 2 || s.engagementsOf(t, 10) != 0 || s.engagementsOf(t, 20) != 1 {
		t.Fatal("engagements not swapped")
	}
	child, err := s.GetLegacyChild(t.Context(), 11)
	if err != nil || child.ID != 10 {
		t.Fatalf("legacy child = %+v, %v", child, err)
	}
	legacy, _ := s.ListLegacyIDs(t.Context())
	migrated, _ := s.ListMigratedIDs(t.Context())
	if len(legacy) != 0 || !slices.Equal(migrated, []int64{11}) {
		t.Fatalf("legacy = %v migrated = %v", legacy, migrated)
	}
}

func TestStore_Rollback(t *testing.T) {
	t.Run("restores the legacy copy", func(t *testing.T) {
		// Arrange
		s := newStore(t)
		migrate(t, s)

		// Act
		err := s.Rollback(t.Context(), entity.Restore{ModernID: 11, LegacyID: 10, Status: "draft", UpdatedAt: now})

		// Assert
		if err != nil {
			t.Fatalf("Rollback() error = %v", err)
		}
		legacy, _ := s.GetCertificate(t.Context(), 10)
		if legacy.Status != "draft" || legacy.ParentID != 0 {
			t.Fatalf("legacy = %+v", legacy)
		}
		if _, err := s.GetCertificate(t.Context(), 11); err != nil {
			t.Fatalf("modern removed: %v", err)
		}
		if s.engagementsOf(t, 10) != 2 || s.engagementsOf(t, 11) != 0 {
			t.Fatal("engagements not swapped back")
		}
	})

	t.Run("missing legacy row", func(t *testing.T) {
		// Arrange
		s := newStore(t)

		// Act
		err := s.Rollback(t.Context(), entity.Restore{ModernID: 20, LegacyID: 999, Status: "draft", UpdatedAt: now})

		// Assert
		if !errors.Is(err, goerror.ErrNotFound) {
			t.Fatalf("error = %v, want ErrNotFound", err)
		}
		if s.engagementsOf(t, 20) != 1 {
			t.Fatal("transaction not rolled back")
		}
	})
}

func TestStore_DeleteCertificate(t *testing.T) {
	t.Run("deletes row and meta", func(t *testing.T) {
		// Arrange
		s := newStore(t)

		// Act
		err := s.DeleteCertificate(t.Context(), 10)

		// Assert
		if err != nil {
			t.Fatalf("DeleteCertificate() error = %v", err)
		}
		if _, err := s.GetCertificate(t.Context(), 10); !errors.Is(err, goerror.ErrNotFound) {
			t.Fatalf("still present: %v", err)
		}
		if got := s.metaKeys(t, 10); len(got) != 0 {
			t.Fatalf("meta left = %v", got)
		}
	})

	t.Run("missing", func(t *testing.T) {
		// Arrange
		s := newStore(t)

		// Act
		err := s.DeleteCertificate(t.Context(), 999)

		// Assert
		if !errors.Is(err, goerror.ErrNotFound) {
			t.Fatalf("error = %v, want ErrNotFound", err)
		}
	})
}
