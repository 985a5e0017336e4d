package usecase

import (
	"context"

	"github.com/samber/lo"
	"github.com/shandysiswandi/coursebell/internal/notification/controller"
	"github.com/shandysiswandi/coursebell/internal/notification/entity"
	"github.com/shandysiswandi/coursebell/internal/pkg/goerror"
	"github.com/shandysiswandi/coursebell/internal/pkg/valueobject"
)

func (s *Usecase) lookup(triggerID string) (*controller.Controller, error) {
	c, ok := s.registry.Get(triggerID)
	if !ok {
		return nil, goerror.NewBusiness("Notification trigger "+triggerID+" not found", goerror.CodeNotFound)
	}
	return c, nil
}

func parseType(raw string) (entity.Type, error) {
	t, ok := entity.TypeFromString(raw)
	if !ok {
		return "", goerror.NewInvalidInput(nil, "type", "unknown notification type "+raw)
	}
	return t, nil
}

func (s *Usecase) ListTriggers(ctx context.Context) ([]entity.TriggerInfo, error) {
	ctx, span := s.startSpan(ctx, "ListTriggers")
	defer span.End()

	if _, err := s.authenticatedAndAuthorized(ctx, objNotification, actRead); err != nil {
		return nil, err
	}

	ctrls := s.registry.Controllers()
	out := make([]entity.TriggerInfo, 0, len(ctrls))
	for _, c := range ctrls {
		out = append(out, c.Info())
	}

	return out, nil
}

type SendTestInput struct {
	TriggerID string `validate:"required"`
	Type      string `validate:"required,notification_type"`
	Data      valueobject.JSONMap
}

type SendTestOutput struct {
	RecordID int64
	Queued   bool
}

// SendTest sends a forced test notification to the acting admin.
func (s *Usecase) SendTest(ctx context.Context, in SendTestInput) (*SendTestOutput, error) {
	ctx, span := s.startSpan(ctx, "SendTest")
	defer span.End()

	if _, err := s.authenticatedAndAuthorized(ctx, objNotification, actTest); err != nil {
		return nil, err
	}

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	t, err := parseType(in.Type)
	if err != nil {
		return nil, err
	}

	c, err := s.lookup(in.TriggerID)
	if err != nil {
		return nil, err
	}

	if in.Data == nil {
		in.Data = valueobject.JSONMap{}
	}

	res, err := c.SendTest(ctx, t, in.Data)
	if err != nil {
		return nil, err
	}

	return &SendTestOutput{RecordID: res.RecordID, Queued: res.Queued}, nil
}

type PreviewInput struct {
	TriggerID  string `validate:"required"`
	Type       string `validate:"required,notification_type"`
	Subscriber string `validate:"omitempty,max=191"`
	UserID     int64  `validate:"gte=0"`
	PostID     int64  `validate:"gte=0"`
}

// Preview renders a notification without persisting it.
func (s *Usecase) Preview(ctx context.Context, in PreviewInput) (*entity.View, error) {
	ctx, span := s.startSpan(ctx, "Preview")
	defer span.End()

	if _, err := s.authenticatedAndAuthorized(ctx, objNotification, actRead); err != nil {
		return nil, err
	}

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	t, err := parseType(in.Type)
	if err != nil {
		return nil, err
	}

	c, err := s.lookup(in.TriggerID)
	if err != nil {
		return nil, err
	}

	view, err := c.MockView(ctx, t, in.Subscriber, in.UserID, in.PostID)
	if err != nil {
		if _, ok := goerror.As(err); ok {
			return nil, err
		}
		return nil, goerror.NewServer(err)
	}

	return &view, nil
}

type TriggerTypeInput struct {
	TriggerID string `validate:"required"`
	Type      string `validate:"required,notification_type"`
}

func (s *Usecase) TestSettings(ctx context.Context, in TriggerTypeInput) ([]entity.TestSetting, error) {
	ctx, span := s.startSpan(ctx, "TestSettings")
	defer span.End()

	if _, err := s.authenticatedAndAuthorized(ctx, objNotification, actRead); err != nil {
		return nil, err
	}

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	t, err := parseType(in.Type)
	if err != nil {
		return nil, err
	}

	c, err := s.lookup(in.TriggerID)
	if err != nil {
		return nil, err
	}

	if !c.IsTestable(t) {
		return nil, goerror.NewBusiness("Notification type "+t.String()+" cannot be tested for "+c.ID(), goerror.CodeInvalidInput)
	}

	return c.TestSettings(t), nil
}

type SubscriberSettingsOutput struct {
	Options  []entity.RoleOption
	Settings controller.SubscriberSettings
}

func (s *Usecase) GetSubscriberSettings(ctx context.Context, in TriggerTypeInput) (*SubscriberSettingsOutput, error) {
	ctx, span := s.startSpan(ctx, "GetSubscriberSettings")
	defer span.End()

	if _, err := s.authenticatedAndAuthorized(ctx, objNotification, actRead); err != nil {
		return nil, err
	}

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	t, err := parseType(in.Type)
	if err != nil {
		return nil, err
	}

	c, err := s.lookup(in.TriggerID)
	if err != nil {
		return nil, err
	}

	if !c.Supports(t) {
		return nil, goerror.NewBusiness("Notification type "+t.String()+" is not supported by "+c.ID(), goerror.CodeInvalidInput)
	}

	settings, err := c.SubscriberSettings(ctx, t)
	if err != nil {
		return nil, goerror.NewServer(err)
	}

	return &SubscriberSettingsOutput{Options: c.SubscriberOptions(t), Settings: settings}, nil
}

type UpdateSubscriberSettingsInput struct {
	TriggerID string `validate:"required"`
	Type      string `validate:"required,notification_type"`
	// Roles maps a role id to its switch.
	Roles map[string]bool
	// Custom replaces the additional recipients when set.
	Custom *string
}

func (s *Usecase) UpdateSubscriberSettings(ctx context.Context, in UpdateSubscriberSettingsInput) error {
	ctx, span := s.startSpan(ctx, "UpdateSubscriberSettings")
	defer span.End()

	if _, err := s.authenticatedAndAuthorized(ctx, objNotification, actWrite); err != nil {
		return err
	}

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	t, err := parseType(in.Type)
	if err != nil {
		return err
	}

	c, err := s.lookup(in.TriggerID)
	if err != nil {
		return err
	}

	current, err := c.SubscriberSettings(ctx, t)
	if err != nil {
		return goerror.NewServer(err)
	}

	offered := c.SubscriberOptions(t)
	for role := range in.Roles {
		if !lo.ContainsBy(offered, func(o entity.RoleOption) bool { return o.ID == role }) {
			return goerror.NewInvalidInput(nil, "roles", "role "+role+" is not offered by this trigger")
		}
	}

	roles := make([]controller.RoleSetting, 0, len(offered))
	for _, opt := range offered {
		enabled, ok := in.Roles[opt.ID]
		if !ok {
			enabled = current.Enabled(opt.ID)
		}
		roles = append(roles, controller.RoleSetting{Role: opt.ID, Enabled: enabled})
	}

	custom := current.Custom
	if in.Custom != nil {
		custom = *in.Custom
	}

	return c.SetSubscriberSettings(ctx, controller.SubscriberSettings{Type: t, Roles: roles, Custom: custom})
}
