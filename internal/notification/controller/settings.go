package controller

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/samber/lo"
	"github.com/shandysiswandi/coursebell/internal/notification/entity"
	"github.com/shandysiswandi/coursebell/internal/pkg/goerror"
)

// RoleSetting says whether one subscriber role receives a type.
type RoleSetting struct {
	Role    string `validate:"required,slug"`
	Enabled bool
}

// SubscriberSettings is the effective subscriber configuration of one type.
type SubscriberSettings struct {
	Type entity.Type `validate:"required,notification_type"`
	// Roles follow the trigger's option order; stored roles the trigger no
	// longer offers come last, sorted.
	Roles  []RoleSetting `validate:"dive"`
	Custom string        `validate:"omitempty,recipient_list"`
}

// Enabled reports whether role is switched on.
func (s SubscriberSettings) Enabled(role string) bool {
	rs, ok := lo.Find(s.Roles, func(rs RoleSetting) bool { return rs.Role == role })
	return ok && rs.Enabled
}

// EnabledRoles returns the switched-on roles in order.
func (s SubscriberSettings) EnabledRoles() []string {
	return lo.FilterMap(s.Roles, func(rs RoleSetting, _ int) (string, bool) {
		return rs.Role, rs.Enabled
	})
}

func subscribersOption(triggerID string, t entity.Type) string {
	return fmt.Sprintf("notification_%s_%s_subscribers", triggerID, t)
}

func customSubscribersOption(triggerID string, t entity.Type) string {
	return fmt.Sprintf("notification_%s_%s_custom_subscribers", triggerID, t)
}

// SubscriberSettings merges stored role switches over the trigger defaults.
// On a store failure it returns the defaults together with the error.
func (c *Controller) SubscriberSettings(ctx context.Context, t entity.Type) (SubscriberSettings, error) {
	options := c.SubscriberOptions(t)
	settings := SubscriberSettings{Type: t, Roles: make([]RoleSetting, 0, len(options))}
	for _, opt := range options {
		settings.Roles = append(settings.Roles, RoleSetting{Role: opt.ID, Enabled: opt.Enabled == entity.Enabled})
	}

	var errs error

	raw, err := c.options.GetOption(ctx, subscribersOption(c.trigger.ID(), t))
	switch {
	case errors.Is(err, goerror.ErrNotFound):
	case err != nil:
		errs = errors.Join(errs, err)
	default:
		stored := map[string]string{}
		if err := json.Unmarshal([]byte(raw), &stored); err != nil {
			errs = errors.Join(errs, fmt.Errorf("decode %s: %w", subscribersOption(c.trigger.ID(), t), err))
			break
		}
		settings.Roles = mergeRoles(settings.Roles, stored)
	}

	custom, err := c.options.GetOption(ctx, customSubscribersOption(c.trigger.ID(), t))
	switch {
	case errors.Is(err, goerror.ErrNotFound):
	case err != nil:
		errs = errors.Join(errs, err)
	default:
		settings.Custom = custom
	}

	return settings, errs
}

func mergeRoles(roles []RoleSetting, stored map[string]string) []RoleSetting {
	out := make([]RoleSetting, 0, len(roles)+len(stored))
	for _, rs := range roles {
		if v, ok := stored[rs.Role]; ok {
			rs.Enabled = v == entity.Enabled
		}
		out = append(out, rs)
	}

	extra := lo.Filter(lo.Keys(stored), func(role string, _ int) bool {
		return !lo.ContainsBy(roles, func(rs RoleSetting) bool { return rs.Role == role })
	})
	slices.Sort(extra)
	for _, role := range extra {
		out = append(out, RoleSetting{Role: role, Enabled: stored[role] == entity.Enabled})
	}

	return out
}

// SetSubscriberSettings stores role switches and custom recipients for t.
// Roles must be offered by the trigger for t.
func (c *Controller) SetSubscriberSettings(ctx context.Context, settings SubscriberSettings) error {
	if err := c.validator.Validate(settings); err != nil {
		return goerror.NewInvalidInput(err)
	}
	if !c.Supports(settings.Type) {
		return goerror.NewBusiness("notification type is not supported by this trigger", goerror.CodeInvalidInput)
	}

	offered := lo.Map(c.SubscriberOptions(settings.Type), func(o entity.RoleOption, _ int) string { return o.ID })
	stored := make(map[string]string, len(settings.Roles))
	for _, rs := range settings.Roles {
		if !slices.Contains(offered, rs.Role) {
			return goerror.NewInvalidInput(nil, "roles", "role "+rs.Role+" is not offered by this trigger")
		}
		stored[rs.Role] = lo.Ternary(rs.Enabled, entity.Enabled, entity.Disabled)
	}

	raw, err := json.Marshal(stored)
	if err != nil {
		return goerror.NewServer(err)
	}

	if err := c.options.SetOption(ctx, subscribersOption(c.trigger.ID(), settings.Type), string(raw)); err != nil {
		return goerror.NewServer(err)
	}
	if err := c.options.SetOption(ctx, customSubscribersOption(c.trigger.ID(), settings.Type), settings.Custom); err != nil {
		return goerror.NewServer(err)
	}

	return nil
}
