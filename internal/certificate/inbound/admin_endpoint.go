package inbound

import (
	"context"

	"github.com/shandysiswandi/coursebell/internal/certificate/entity"
	"github.com/shandysiswandi/coursebell/internal/certificate/usecase"
	"github.com/shandysiswandi/coursebell/internal/pkg/router"
)

type AdminEndpoint struct {
	uc uc
}

func decodeID(r *router.Request) (usecase.CertificateInput, error) {
	var req CertificateRequest
	if err := r.DecodePayload(&req); err != nil {
		return usecase.CertificateInput{}, err
	}
	return usecase.CertificateInput{ID: req.ID}, nil
}

func (h *AdminEndpoint) Tools(r *router.Request) (any, error) {
	rep, err := h.uc.Tools(r.Context())
	if err != nil {
		return nil, err
	}

	return ToolsResponse{
		LegacyCount:   len(rep.Legacy),
		MigratedCount: len(rep.Migrated),
		Legacy:        rep.Legacy,
		Migrated:      rep.Migrated,
	}, nil
}

func (h *AdminEndpoint) IsLegacy(r *router.Request) (any, error) {
	in, err := decodeID(r)
	if err != nil {
		return nil, err
	}

	legacy, err := h.uc.IsLegacy(r.Context(), in)
	if err != nil {
		return nil, err
	}

	return IsLegacyResponse{ID: in.ID, Legacy: legacy}, nil
}

func (h *AdminEndpoint) LegacyOfModern(r *router.Request) (any, error) {
	in, err := decodeID(r)
	if err != nil {
		return nil, err
	}

	modern, err := h.uc.LegacyOfModern(r.Context(), in)
	if err != nil {
		return nil, err
	}

	return LegacyOfModernResponse{ID: in.ID, ModernID: modern}, nil
}

// Migrate responds with the id of the new modern certificate.
func (h *AdminEndpoint) Migrate(r *router.Request) (any, error) {
	return h.single(r, h.uc.Migrate)
}

// Rollback responds with the id of the restored legacy certificate.
func (h *AdminEndpoint) Rollback(r *router.Request) (any, error) {
	return h.single(r, h.uc.Rollback)
}

// DeleteLegacy responds with the id of the deleted legacy certificate.
func (h *AdminEndpoint) DeleteLegacy(r *router.Request) (any, error) {
	return h.single(r, h.uc.DeleteLegacy)
}

func (h *AdminEndpoint) single(r *router.Request, fn func(ctx context.Context, in usecase.CertificateInput) (int64, error)) (any, error) {
	in, err := decodeID(r)
	if err != nil {
		return nil, err
	}

	id, err := fn(r.Context(), in)
	if err != nil {
		return nil, err
	}

	return CertificateResponse{ID: id}, nil
}

func (h *AdminEndpoint) BulkMigrate(r *router.Request) (any, error) {
	res, err := h.uc.BulkMigrate(r.Context())
	return bulkResponse(res, err)
}

func (h *AdminEndpoint) BulkRollback(r *router.Request) (any, error) {
	res, err := h.uc.BulkRollback(r.Context())
	return bulkResponse(res, err)
}

func bulkResponse(res *entity.BulkResult, err error) (any, error) {
	if err != nil {
		return nil, err
	}
	return BulkResponse{Done: res.Done, Errors: res.Errors}, nil
}
