package controller

import (
	"context"
	"errors"
	"log/slog"
	"runtime/debug"
	"slices"
	"strconv"

	"github.com/samber/lo"
	"github.com/shandysiswandi/coursebell/internal/notification/entity"
	"github.com/shandysiswandi/coursebell/internal/pkg/clock"
	"github.com/shandysiswandi/coursebell/internal/pkg/goerror"
	"github.com/shandysiswandi/coursebell/internal/pkg/instrument"
	"github.com/shandysiswandi/coursebell/internal/pkg/jwt"
	"github.com/shandysiswandi/coursebell/internal/pkg/stacktrace"
	"github.com/shandysiswandi/coursebell/internal/pkg/uid"
	"github.com/shandysiswandi/coursebell/internal/pkg/validator"
	"github.com/shandysiswandi/coursebell/internal/pkg/valueobject"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/atomic"
)

// DefaultPriority is the event priority used when Config.Priority is zero.
const DefaultPriority = 15

// ErrAlreadyBound is returned by Bind after the first successful call.
var ErrAlreadyBound = errors.New("controller: already bound to an event source")

// Config is the static behaviour of one controller.
type Config struct {
	// AutoDedup skips subscribers that already received the notification
	// for the same event, unless the send is forced.
	AutoDedup bool
	Priority  int `validate:"gte=0"`
	// Testable lists the types that accept test sends.
	Testable map[entity.Type]bool
}

// Hooks are ordered strategies applied on top of the trigger's own answers.
type Hooks struct {
	SupportedTypes    []func(types []entity.Type) []entity.Type
	SubscriberOptions []func(t entity.Type, opts []entity.RoleOption) []entity.RoleOption
	Resolvers         []ResolveFunc
}

type Dependency struct {
	Trigger Trigger `validate:"required"`
	Config  Config

	Hooks      Hooks                      `validate:"-"`
	Store      RecordStore                `validate:"required"`
	Options    OptionStore                `validate:"required"`
	Sinks      map[entity.Type]AsyncSink  `validate:"-"`
	Views      ViewRenderer               `validate:"required"`
	UID        uid.NumberID               `validate:"required"`
	Clock      clock.Clocker              `validate:"required"`
	Validator  validator.Validator        `validate:"required"`
	Instrument instrument.Instrumentation `validate:"required"`
}

// Controller sends the notifications of one trigger.
type Controller struct {
	trigger    Trigger
	cfg        Config
	hooks      Hooks
	options    OptionStore
	views      ViewRenderer
	clock      clock.Clocker
	validator  validator.Validator
	ins        instrument.Instrumentation
	resolver   *Resolver
	dispatcher *Dispatcher
	bound      *atomic.Bool
}

func New(dep Dependency) (*Controller, error) {
	if dep.Validator == nil {
		return nil, errors.New("controller: validator is required")
	}
	if err := dep.Validator.Validate(dep); err != nil {
		return nil, err
	}

	cfg := dep.Config
	if cfg.Priority == 0 {
		cfg.Priority = DefaultPriority
	}

	return &Controller{
		trigger:   dep.Trigger,
		cfg:       cfg,
		hooks:     dep.Hooks,
		options:   dep.Options,
		views:     dep.Views,
		clock:     dep.Clock,
		validator: dep.Validator,
		ins:       dep.Instrument,
		resolver:  NewResolver(dep.Trigger, dep.Hooks.Resolvers...),
		dispatcher: &Dispatcher{
			triggerID: dep.Trigger.ID(),
			autoDedup: cfg.AutoDedup,
			guard:     NewDedupGuard(dep.Trigger.ID(), dep.Store),
			store:     dep.Store,
			sinks:     dep.Sinks,
			uid:       dep.UID,
			clock:     dep.Clock,
			metrics:   newMetrics(dep.Instrument),
		},
		bound: atomic.NewBool(false),
	}, nil
}

func (c *Controller) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return c.ins.Tracer("notification.controller").Start(ctx, name,
		trace.WithAttributes(attribute.String("trigger_id", c.trigger.ID())))
}

func (c *Controller) ID() string { return c.trigger.ID() }

func (c *Controller) Title() string { return c.trigger.Title() }

func (c *Controller) Trigger() Trigger { return c.trigger }

func (c *Controller) AutoDedup() bool { return c.cfg.AutoDedup }

// Bind subscribes Handle to every trigger event. It succeeds once.
func (c *Controller) Bind(source EventSource) error {
	if !c.bound.CompareAndSwap(false, true) {
		return ErrAlreadyBound
	}

	for _, event := range c.trigger.Events() {
		source.On(event, c.cfg.Priority, c.trigger.AcceptedArgs(), c.Handle)
	}
	return nil
}

// Handle is the event callback. Args beyond the accepted count are
// dropped and missing ones are nil. A panic in the trigger or a hook is
// logged and swallowed so later callbacks for the event still run.
func (c *Controller) Handle(ctx context.Context, args ...any) {
	defer func() {
		rvr := recover()
		if rvr == nil {
			return
		}

		stack := debug.Stack()
		if paths := stacktrace.InternalPaths(stack); len(paths) > 0 {
			slog.ErrorContext(ctx, "panic occurred in notification controller",
				"trigger_id", c.trigger.ID(), "panic", rvr, "stack", paths)
			return
		}
		slog.ErrorContext(ctx, "panic occurred in notification controller",
			"trigger_id", c.trigger.ID(), "panic", rvr, "stack", string(stack))
	}()

	n := c.trigger.AcceptedArgs()
	normalized := make([]any, n)
	copy(normalized, args)

	ev, err := c.trigger.Capture(ctx, normalized)
	if err != nil {
		slog.WarnContext(ctx, "failed to capture notification event", "trigger_id", c.trigger.ID(), "error", err)
		return
	}

	c.Send(ctx, ev, false)
}

// Send subscribes every enabled role of every supported type and sends one
// notification per (subscriber, type) pair in subscribe order.
func (c *Controller) Send(ctx context.Context, ev Event, force bool) []Result {
	ctx, span := c.startSpan(ctx, "Send")
	defer span.End()

	subs := NewSubscriptions(c.Supports)
	defer subs.Reset()

	c.collect(ctx, ev, subs)

	results := make([]Result, 0, subs.Len())
	for _, sub := range subs.All() {
		for _, t := range sub.Types {
			results = append(results, c.dispatcher.SendOne(ctx, ev, t, sub.Subscriber, force))
		}
	}

	span.SetAttributes(attribute.Int("notification.pairs", len(results)))
	return results
}

func (c *Controller) collect(ctx context.Context, ev Event, subs *Subscriptions) {
	for _, t := range c.SupportedTypes() {
		settings, err := c.SubscriberSettings(ctx, t)
		if err != nil {
			slog.WarnContext(ctx, "failed to load subscriber settings, using defaults",
				"trigger_id", c.trigger.ID(), "type", t, "error", err)
		}

		for _, role := range settings.EnabledRoles() {
			if role == entity.RoleCustom {
				for _, recipient := range ParseCustomRecipients(settings.Custom) {
					if _, err := strconv.ParseInt(recipient, 10, 64); err == nil {
						slog.WarnContext(ctx, "numeric custom recipient skipped",
							"trigger_id", c.trigger.ID(), "type", t, "recipient", recipient)
						continue
					}
					subs.Subscribe(recipient, t)
				}
			}
			subs.Subscribe(c.resolver.Resolve(ctx, ev, role), t)
		}
	}
}

// SendOne delivers to a single subscriber.
func (c *Controller) SendOne(ctx context.Context, ev Event, t entity.Type, subscriber string, force bool) Result {
	return c.dispatcher.SendOne(ctx, ev, t, subscriber, force)
}

// SendTest force-sends t to the authenticated actor using test data.
func (c *Controller) SendTest(ctx context.Context, t entity.Type, data valueobject.JSONMap) (Result, error) {
	ctx, span := c.startSpan(ctx, "SendTest")
	defer span.End()

	clm := jwt.GetAuth(ctx)
	if clm == nil || clm.UserID <= 0 {
		return Result{}, goerror.NewBusiness("Authentication required", goerror.CodeUnauthorized)
	}

	if !c.IsTestable(t) {
		return Result{}, goerror.NewBusiness("Notification type "+t.String()+" cannot be tested for "+c.trigger.ID(), goerror.CodeInvalidInput)
	}

	tester, _ := c.trigger.(Tester)
	ev, err := tester.TestEvent(ctx, t, clm.UserID, data)
	if err != nil {
		slog.WarnContext(ctx, "invalid notification test data", "trigger_id", c.trigger.ID(), "error", err)
		return Result{}, goerror.NewBusiness("Invalid test data: "+err.Error(), goerror.CodeInvalidInput)
	}

	res := c.dispatcher.SendOne(ctx, ev, t, UserSubscriber(clm.UserID), true)
	if res.Outcome == OutcomeFailed {
		return res, goerror.NewServer(res.Err)
	}

	return res, nil
}

func (c *Controller) IsTestable(t entity.Type) bool {
	if !c.Supports(t) || !c.cfg.Testable[t] {
		return false
	}
	_, ok := c.trigger.(Tester)
	return ok
}

// TestSettings lists the inputs of a test send, nil when t is not testable.
func (c *Controller) TestSettings(t entity.Type) []entity.TestSetting {
	if !c.IsTestable(t) {
		return nil
	}
	return c.trigger.(Tester).TestSettings(t)
}

func (c *Controller) TestableTypes() []entity.Type {
	return lo.Filter(c.SupportedTypes(), func(t entity.Type, _ int) bool { return c.IsTestable(t) })
}

func (c *Controller) Supports(t entity.Type) bool {
	return slices.Contains(c.SupportedTypes(), t)
}

// SupportedTypes returns the trigger's types after the hooks, without duplicates.
func (c *Controller) SupportedTypes() []entity.Type {
	types := slices.Clone(c.trigger.SupportedTypes())
	for _, hook := range c.hooks.SupportedTypes {
		types = hook(types)
	}
	return lo.Uniq(types)
}

// SubscriberOptions returns the role choices of t, nil when t is unsupported.
func (c *Controller) SubscriberOptions(t entity.Type) []entity.RoleOption {
	if !c.Supports(t) {
		return nil
	}

	opts := slices.Clone(c.trigger.SubscriberOptions(t))
	for _, hook := range c.hooks.SubscriberOptions {
		opts = hook(t, opts)
	}
	return opts
}

// MockView renders a notification that is never persisted. Subscriber and
// user default to the authenticated actor.
func (c *Controller) MockView(ctx context.Context, t entity.Type, subscriber string, userID, postID int64) (entity.View, error) {
	ctx, span := c.startSpan(ctx, "MockView")
	defer span.End()

	if !c.Supports(t) {
		return entity.View{}, goerror.NewBusiness("Notification type "+t.String()+" is not supported by "+c.trigger.ID(), goerror.CodeInvalidInput)
	}

	if clm := jwt.GetAuth(ctx); clm != nil {
		if subscriber == "" {
			subscriber = UserSubscriber(clm.UserID)
		}
		if userID == 0 {
			userID = clm.UserID
		}
	}

	now := c.clock.Now()
	return c.views.Render(ctx, entity.Record{
		TriggerID:  c.trigger.ID(),
		Subscriber: subscriber,
		Type:       t,
		PostID:     postID,
		UserID:     userID,
		Status:     entity.StatusNew,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
}

// Info summarises the controller for admin listings.
func (c *Controller) Info() entity.TriggerInfo {
	return entity.TriggerInfo{
		ID:             c.trigger.ID(),
		Title:          c.trigger.Title(),
		Events:         slices.Clone(c.trigger.Events()),
		SupportedTypes: c.SupportedTypes(),
		TestableTypes:  c.TestableTypes(),
		AutoDedup:      c.cfg.AutoDedup,
	}
}
