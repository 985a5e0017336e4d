package inbound

import (
	"github.com/samber/lo"
	"github.com/shandysiswandi/coursebell/internal/notification/entity"
	"github.com/shandysiswandi/coursebell/internal/notification/usecase"
	"github.com/shandysiswandi/coursebell/internal/pkg/router"
)

type AdminEndpoint struct {
	uc ucAdmin
}

func typeStrings(types []entity.Type) []string {
	return lo.Map(types, func(t entity.Type, _ int) string { return t.String() })
}

// ListTriggers describes every registered trigger.
func (h *AdminEndpoint) ListTriggers(r *router.Request) (any, error) {
	items, err := h.uc.ListTriggers(r.Context())
	if err != nil {
		return nil, err
	}

	resp := make([]TriggerResponse, 0, len(items))
	for _, item := range items {
		resp = append(resp, TriggerResponse{
			ID:             item.ID,
			Title:          item.Title,
			Events:         item.Events,
			SupportedTypes: typeStrings(item.SupportedTypes),
			TestableTypes:  typeStrings(item.TestableTypes),
			AutoDedup:      item.AutoDedup,
		})
	}

	return TriggersResponse{Triggers: resp}, nil
}

// SendTest sends a forced notification of one type to the acting admin.
func (h *AdminEndpoint) SendTest(r *router.Request) (any, error) {
	var req SendTestRequest
	if err := r.DecodePayload(&req); err != nil {
		return nil, err
	}

	out, err := h.uc.SendTest(r.Context(), usecase.SendTestInput{
		TriggerID: req.TriggerID,
		Type:      req.Type,
		Data:      req.Data,
	})
	if err != nil {
		return nil, err
	}

	return SendTestResponse{RecordID: out.RecordID, Queued: out.Queued}, nil
}

func (h *AdminEndpoint) Preview(r *router.Request) (any, error) {
	var req PreviewRequest
	if err := r.DecodePayload(&req); err != nil {
		return nil, err
	}

	view, err := h.uc.Preview(r.Context(), usecase.PreviewInput{
		TriggerID:  req.TriggerID,
		Type:       req.Type,
		Subscriber: req.Subscriber,
		UserID:     req.UserID,
		PostID:     req.PostID,
	})
	if err != nil {
		return nil, err
	}

	return ViewResponse{Subject: view.Subject, Body: view.Body}, nil
}

func (h *AdminEndpoint) TestSettings(r *router.Request) (any, error) {
	var req TriggerTypeRequest
	if err := r.DecodePayload(&req); err != nil {
		return nil, err
	}

	items, err := h.uc.TestSettings(r.Context(), usecase.TriggerTypeInput{TriggerID: req.TriggerID, Type: req.Type})
	if err != nil {
		return nil, err
	}

	resp := make([]TestSettingResponse, 0, len(items))
	for _, item := range items {
		resp = append(resp, TestSettingResponse{
			ID:          item.ID,
			Title:       item.Title,
			Description: item.Description,
			ContentKind: item.ContentKind.String(),
		})
	}

	return TestSettingsResponse{Settings: resp}, nil
}

func (h *AdminEndpoint) GetSubscriberSettings(r *router.Request) (any, error) {
	var req TriggerTypeRequest
	if err := r.DecodePayload(&req); err != nil {
		return nil, err
	}

	out, err := h.uc.GetSubscriberSettings(r.Context(), usecase.TriggerTypeInput{TriggerID: req.TriggerID, Type: req.Type})
	if err != nil {
		return nil, err
	}

	resp := SubscriberSettingsResponse{
		Type:   out.Settings.Type.String(),
		Roles:  make(map[string]bool, len(out.Settings.Roles)),
		Custom: out.Settings.Custom,
	}
	for _, opt := range out.Options {
		resp.Options = append(resp.Options, RoleOptionResponse{
			ID:          opt.ID,
			Title:       opt.Title,
			Description: opt.Description,
			Default:     opt.Enabled,
		})
	}
	for _, rs := range out.Settings.Roles {
		resp.Roles[rs.Role] = rs.Enabled
	}

	return resp, nil
}

func (h *AdminEndpoint) UpdateSubscriberSettings(r *router.Request) (any, error) {
	var req UpdateSubscriberSettingsRequest
	if err := r.DecodePayload(&req); err != nil {
		return nil, err
	}

	return nil, h.uc.UpdateSubscriberSettings(r.Context(), usecase.UpdateSubscriberSettingsInput{
		TriggerID: req.TriggerID,
		Type:      req.Type,
		Roles:     req.Roles,
		Custom:    req.Custom,
	})
}

// ListRecords lists the newest notification records of a subscriber.
func (h *AdminEndpoint) ListRecords(r *router.Request) (any, error) {
	var req ListRecordsRequest
	if err := r.DecodePayload(&req); err != nil {
		return nil, err
	}

	items, err := h.uc.ListRecords(r.Context(), usecase.ListRecordsInput{
		Subscriber: req.Subscriber,
		Type:       req.Type,
		Limit:      req.Limit,
	})
	if err != nil {
		return nil, err
	}

	resp := make([]RecordResponse, 0, len(items))
	for _, item := range items {
		resp = append(resp, RecordResponse{
			ID:         item.ID,
			TriggerID:  item.TriggerID,
			Subscriber: item.Subscriber,
			Type:       item.Type.String(),
			PostID:     item.PostID,
			UserID:     item.UserID,
			Status:     item.Status.String(),
			CreatedAt:  item.CreatedAt,
			UpdatedAt:  item.UpdatedAt,
		})
	}

	return RecordsResponse{Records: resp}, nil
}

func (h *AdminEndpoint) MarkRead(r *router.Request) (any, error) {
	var req MarkReadRequest
	if err := r.DecodePayload(&req); err != nil {
		return nil, err
	}

	return nil, h.uc.MarkRead(r.Context(), req.ID)
}
