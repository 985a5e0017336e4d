package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shandysiswandi/coursebell/internal/pkg/goerror"
)

// IsLegacy reports whether the certificate still carries legacy-only meta.
func (s *Usecase) IsLegacy(ctx context.Context, in CertificateInput) (bool, error) {
	ctx, span := s.startSpan(ctx, "IsLegacy")
	defer span.End()

	if err := s.authorize(ctx, actRead); err != nil {
		return false, err
	}
	if err := s.validate(in); err != nil {
		return false, err
	}

	n, err := s.repoDB.CountLegacyMeta(ctx, in.ID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo count legacy meta", "certificate_id", in.ID, "error", err)
		return false, goerror.NewServer(err)
	}

	return n > 0, nil
}

// LegacyOfModern returns the id of the modern certificate the given one is a
// legacy copy of, or 0 when it is not a legacy copy.
func (s *Usecase) LegacyOfModern(ctx context.Context, in CertificateInput) (int64, error) {
	ctx, span := s.startSpan(ctx, "LegacyOfModern")
	defer span.End()

	if err := s.authorize(ctx, actRead); err != nil {
		return 0, err
	}
	if err := s.validate(in); err != nil {
		return 0, err
	}

	cert, err := s.certificate(ctx, in.ID)
	if err != nil {
		return 0, err
	}
	if cert.ParentID == 0 {
		return 0, nil
	}

	modern, err := s.repoDB.GetCertificate(ctx, cert.ParentID)
	if errors.Is(err, goerror.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get certificate", "certificate_id", cert.ParentID, "error", err)
		return 0, goerror.NewServer(err)
	}

	return modern.ID, nil
}
