package controller

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sort"
	"sync"

	"github.com/samber/lo"
)

// ErrAlreadyRegistered is returned when a trigger id is registered twice.
var ErrAlreadyRegistered = errors.New("controller: trigger already registered")

type binding struct {
	priority int
	accepted int
	seq      int
	cb       Callback
}

// Registry holds the application's controllers by trigger id and doubles
// as their EventSource. Callbacks of one event run in ascending priority,
// then in bind order.
type Registry struct {
	mu          sync.RWMutex
	controllers map[string]*Controller
	order       []string
	bindings    map[string][]binding
	seq         int
}

func NewRegistry() *Registry {
	return &Registry{
		controllers: map[string]*Controller{},
		bindings:    map[string][]binding{},
	}
}

// Register adds c and binds it to its trigger events.
func (r *Registry) Register(c *Controller) error {
	r.mu.Lock()
	if _, ok := r.controllers[c.ID()]; ok {
		r.mu.Unlock()
		return ErrAlreadyRegistered
	}
	r.controllers[c.ID()] = c
	r.order = append(r.order, c.ID())
	r.mu.Unlock()

	return c.Bind(r)
}

func (r *Registry) On(event string, priority, acceptedArgs int, cb Callback) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	r.bindings[event] = append(r.bindings[event], binding{
		priority: priority,
		accepted: acceptedArgs,
		seq:      r.seq,
		cb:       cb,
	})
}

// Fire runs every callback bound to event and reports how many ran. Each
// callback sees at most its accepted number of args.
func (r *Registry) Fire(ctx context.Context, event string, args ...any) int {
	r.mu.RLock()
	bs := slices.Clone(r.bindings[event])
	r.mu.RUnlock()

	if len(bs) == 0 {
		slog.DebugContext(ctx, "no controller bound to event", "event", event)
		return 0
	}

	sort.SliceStable(bs, func(i, j int) bool {
		if bs[i].priority != bs[j].priority {
			return bs[i].priority < bs[j].priority
		}
		return bs[i].seq < bs[j].seq
	})

	for _, b := range bs {
		b.cb(ctx, args[:min(len(args), b.accepted)]...)
	}
	return len(bs)
}

func (r *Registry) Get(triggerID string) (*Controller, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.controllers[triggerID]
	return c, ok
}

// Controllers returns controllers in registration order.
func (r *Registry) Controllers() []*Controller {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return lo.Map(r.order, func(id string, _ int) *Controller { return r.controllers[id] })
}

// Events returns the bound event names, sorted.
func (r *Registry) Events() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	events := lo.Keys(r.bindings)
	slices.Sort(events)
	return events
}
