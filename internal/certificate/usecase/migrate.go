package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shandysiswandi/coursebell/internal/certificate/entity"
	"github.com/shandysiswandi/coursebell/internal/pkg/goerror"
)

var (
	errNotFound      = goerror.NewBusiness("Certificate not found", goerror.CodeNotFound)
	errIsLegacy      = goerror.NewBusiness("This is already a legacied version", goerror.CodeConflict)
	errHasLegacy     = goerror.NewBusiness("A legacied version already exists, delete it before migrating again", goerror.CodeConflict)
	errMissingLegacy = goerror.NewBusiness("No legacied certificate found", goerror.CodeNotFound)
)

func (s *Usecase) certificate(ctx context.Context, id int64) (*entity.Certificate, error) {
	cert, err := s.repoDB.GetCertificate(ctx, id)
	if errors.Is(err, goerror.ErrNotFound) {
		return nil, errNotFound
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get certificate", "certificate_id", id, "error", err)
		return nil, goerror.NewServer(err)
	}
	return cert, nil
}

// legacyChild returns nil without error when id has no legacy copy.
func (s *Usecase) legacyChild(ctx context.Context, id int64) (*entity.Certificate, error) {
	legacy, err := s.repoDB.GetLegacyChild(ctx, id)
	if errors.Is(err, goerror.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get legacy certificate", "certificate_id", id, "error", err)
		return nil, goerror.NewServer(err)
	}
	return legacy, nil
}

// Migrate copies a legacy certificate into a new modern one and keeps the
// original as its legacy child. It returns the new certificate id.
func (s *Usecase) Migrate(ctx context.Context, in CertificateInput) (int64, error) {
	ctx, span := s.startSpan(ctx, "Migrate")
	defer span.End()

	if err := s.authorize(ctx, actMigrate); err != nil {
		return 0, err
	}
	if err := s.validate(in); err != nil {
		return 0, err
	}

	return s.migrate(ctx, in.ID)
}

func (s *Usecase) migrate(ctx context.Context, id int64) (int64, error) {
	cert, err := s.certificate(ctx, id)
	if err != nil {
		return 0, err
	}

	if cert.IsLegacied() {
		return 0, errIsLegacy
	}

	legacy, err := s.legacyChild(ctx, id)
	if err != nil {
		return 0, err
	}
	if legacy != nil {
		return 0, errHasLegacy
	}

	now := s.clock.Now()
	modern := *cert
	modern.ID = s.uid.Generate()
	modern.CreatedAt = now
	modern.UpdatedAt = now

	if err := s.repoDB.Migrate(ctx, entity.Migration{Source: *cert, Modern: modern}); err != nil {
		slog.ErrorContext(ctx, "failed to repo migrate certificate", "certificate_id", id, "error", err)
		return 0, goerror.NewServer(err)
	}

	slog.InfoContext(ctx, "certificate migrated", "certificate_id", id, "modern_id", modern.ID)
	return modern.ID, nil
}

// Rollback points the engagements of a migrated certificate back to its
// legacy copy and restores that copy. The modern certificate is left as is.
// It returns the legacy certificate id.
func (s *Usecase) Rollback(ctx context.Context, in CertificateInput) (int64, error) {
	ctx, span := s.startSpan(ctx, "Rollback")
	defer span.End()

	if err := s.authorize(ctx, actMigrate); err != nil {
		return 0, err
	}
	if err := s.validate(in); err != nil {
		return 0, err
	}

	return s.rollback(ctx, in.ID)
}

func (s *Usecase) rollback(ctx context.Context, id int64) (int64, error) {
	cert, err := s.certificate(ctx, id)
	if err != nil {
		return 0, err
	}

	legacy, err := s.legacyChild(ctx, id)
	if err != nil {
		return 0, err
	}
	if legacy == nil {
		return 0, errMissingLegacy
	}

	if err := s.repoDB.Rollback(ctx, entity.Restore{
		ModernID:  cert.ID,
		LegacyID:  legacy.ID,
		Status:    cert.Status,
		UpdatedAt: s.clock.Now(),
	}); err != nil {
		slog.ErrorContext(ctx, "failed to repo rollback certificate", "certificate_id", id, "legacy_id", legacy.ID, "error", err)
		return 0, goerror.NewServer(err)
	}

	slog.InfoContext(ctx, "certificate rolled back", "certificate_id", id, "legacy_id", legacy.ID)
	return legacy.ID, nil
}

// DeleteLegacy removes the legacy copy of a migrated certificate and
// returns its id.
func (s *Usecase) DeleteLegacy(ctx context.Context, in CertificateInput) (int64, error) {
	ctx, span := s.startSpan(ctx, "DeleteLegacy")
	defer span.End()

	if err := s.authorize(ctx, actMigrate); err != nil {
		return 0, err
	}
	if err := s.validate(in); err != nil {
		return 0, err
	}

	legacy, err := s.legacyChild(ctx, in.ID)
	if err != nil {
		return 0, err
	}
	if legacy == nil {
		return 0, errMissingLegacy
	}

	if err := s.repoDB.DeleteCertificate(ctx, legacy.ID); err != nil && !errors.Is(err, goerror.ErrNotFound) {
		slog.ErrorContext(ctx, "failed to repo delete certificate", "certificate_id", legacy.ID, "error", err)
		return 0, goerror.NewServer(err)
	}

	return legacy.ID, nil
}
