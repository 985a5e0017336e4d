// Package router dispatches admin commands received over the broker (or
// from the CLI) to registered action handlers through a middleware chain,
// and encodes the outcome as a Reply.
package router

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"slices"
	"time"

	"github.com/samber/lo"
	"github.com/shandysiswandi/coursebell/internal/pkg/config"
	"github.com/shandysiswandi/coursebell/internal/pkg/goerror"
	"github.com/shandysiswandi/coursebell/internal/pkg/idempotency"
	"github.com/shandysiswandi/coursebell/internal/pkg/instrument"
	"github.com/shandysiswandi/coursebell/internal/pkg/jwt"
	"github.com/shandysiswandi/coursebell/internal/pkg/messaging"
	"github.com/shandysiswandi/coursebell/internal/pkg/uid"
	"github.com/shandysiswandi/coursebell/internal/pkg/validator"
)

// Message headers understood by the router.
const (
	HeaderCorrelationID = "cID"
	HeaderAuthorization = "Authorization"
	// HeaderReplyTo names the topic the Reply is published to.
	HeaderReplyTo = "Reply-To"
)

// Command is an admin action. Token is read when the transport drops the
// Authorization header.
type Command struct {
	Action  string          `json:"action"`
	Token   string          `json:"token,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Reply is the outcome of one Command.
type Reply struct {
	Action string            `json:"action"`
	OK     bool              `json:"ok"`
	Code   string            `json:"code,omitempty"`
	Error  string            `json:"error,omitempty"`
	Fields map[string]string `json:"fields,omitempty"`
	Data   any               `json:"data,omitempty"`
}

// Err rebuilds the error carried by a failed Reply.
func (r Reply) Err() error {
	if r.OK {
		return nil
	}

	code := goerror.ParseCode(r.Code)
	if code == goerror.CodeInternal {
		return goerror.NewServer(errors.New(r.Error))
	}
	return goerror.NewBusiness(r.Error, code)
}

// Meta is the transport metadata of a Command.
type Meta struct {
	CorrelationID string
	Authorization string
}

// Handler is the application-style handler used by this router.
//
// It returns a response payload (that will be JSON encoded) or an error.
type Handler func(r *Request) (any, error)

// Middleware wraps a Handler.
type Middleware func(next Handler) Handler

// Chain applies mws so the first one runs outermost.
func Chain(h Handler, mws ...Middleware) Handler {
	for _, mw := range slices.Backward(mws) {
		h = mw(h)
	}
	return h
}

// Config holds dependencies required to build a Router.
type Config struct {
	// Name prefixes spans and metrics, e.g. "notification.admin".
	Name string
	// Config provides runtime configuration values.
	Config config.Config
	// UUID generates correlation IDs.
	UUID uid.StringID
	// JWT validates and parses authentication tokens.
	JWT jwt.JWT
	// Instrument provides tracing and metrics helpers.
	Instrument instrument.Instrumentation
	// PublicActions run without a token.
	PublicActions []string
	// Dedup, when set, drops broker messages whose id was already
	// dispatched within DedupTTL.
	Dedup    idempotency.Idempotency
	DedupTTL time.Duration
}

// Router maps action names to handlers.
type Router struct {
	name     string
	routes   map[string]Handler
	mws      []Middleware
	dedup    idempotency.Idempotency
	dedupTTL time.Duration
}

// NewRouter builds a router with the standard middleware.
func NewRouter(cfg Config) *Router {
	return &Router{
		name:     cfg.Name,
		routes:   map[string]Handler{},
		dedup:    cfg.Dedup,
		dedupTTL: cfg.DedupTTL,
		mws: []Middleware{
			middlewareRecoverer,
			middlewareObservability(cfg.Name, cfg.Instrument),
			middlewareMaintenance(cfg.Config),
			middlewareAuthentication(cfg.JWT, cfg.PublicActions),
		},
	}
}

// Handle registers h under action.
func (r *Router) Handle(action string, h Handler, mws ...Middleware) {
	r.routes[action] = Chain(h, append(slices.Clone(r.mws), mws...)...)
}

// Actions lists registered actions in name order.
func (r *Router) Actions() []string {
	actions := lo.Keys(r.routes)
	slices.Sort(actions)
	return actions
}

// Dispatch runs the handler of cmd.Action and encodes its outcome.
func (r *Router) Dispatch(ctx context.Context, meta Meta, cmd Command) Reply {
	ctx = withCorrelationID(ctx, meta.CorrelationID)

	h, ok := r.routes[cmd.Action]
	if !ok {
		slog.WarnContext(ctx, "unknown admin action", "router", r.name, "action", cmd.Action)
		return encodeError(cmd.Action, goerror.NewBusiness("Unknown action "+cmd.Action, goerror.CodeNotFound))
	}

	token := jwt.BearerToken(meta.Authorization)
	if token == "" {
		token = cmd.Token
	}

	resp, err := h(&Request{ctx: ctx, Action: cmd.Action, Payload: cmd.Payload, Token: token})
	if err != nil {
		return encodeError(cmd.Action, err)
	}

	return Reply{Action: cmd.Action, OK: true, Data: resp}
}

// Consumer adapts the router to a broker handler. The Reply is published
// to the Reply-To topic when the message names one. Handler errors are
// carried in the Reply, so commands are never redelivered.
func (r *Router) Consumer(publisher messaging.Publisher, uuid uid.StringID) messaging.Handler {
	return func(ctx context.Context, msg messaging.Message) error {
		meta := Meta{
			CorrelationID: normalizeCID(messaging.HeaderValue(msg, HeaderCorrelationID)),
			Authorization: messaging.HeaderValue(msg, HeaderAuthorization),
		}
		if meta.CorrelationID == "" && uuid != nil {
			meta.CorrelationID = uuid.Generate()
		}
		ctx = withCorrelationID(ctx, meta.CorrelationID)

		var reply Reply
		dispatch := func(ctx context.Context) error {
			var cmd Command
			if err := json.Unmarshal(msg.Body(), &cmd); err != nil {
				slog.ErrorContext(ctx, "failed to parse admin command", "router", r.name, "error", err)
				reply = encodeError("", goerror.NewInvalidFormat("Invalid command body"))
				return nil
			}
			reply = r.Dispatch(ctx, meta, cmd)
			return nil
		}

		if r.dedup == nil || msg.ID() == "" {
			_ = dispatch(ctx)
		} else {
			err := r.dedup.Exec(ctx, r.name+":"+msg.ID(), dispatch,
				idempotency.WithLockDuration(r.dedupTTL),
				idempotency.WithStateTTL(r.dedupTTL),
			)
			if idempotency.Duplicate(err) {
				slog.InfoContext(ctx, "skip redelivered admin command", "router", r.name, "message_id", msg.ID())
				return nil
			}
			if err != nil {
				slog.WarnContext(ctx, "admin command dedup unavailable", "router", r.name, "message_id", msg.ID(), "error", err)
			}
		}

		replyTo := messaging.HeaderValue(msg, HeaderReplyTo)
		if replyTo == "" {
			return nil
		}

		body, err := json.Marshal(reply)
		if err != nil {
			slog.ErrorContext(ctx, "failed to encode admin reply", "router", r.name, "action", reply.Action, "error", err)
			return nil
		}

		if _, err := publisher.Publish(ctx, replyTo, messaging.OutgoingMessage{
			Body:    body,
			Headers: []messaging.Header{{Key: HeaderCorrelationID, Value: []byte(meta.CorrelationID)}},
		}); err != nil {
			slog.ErrorContext(ctx, "failed to publish admin reply", "router", r.name, "reply_to", replyTo, "error", err)
		}

		return nil
	}
}

func encodeError(action string, err error) Reply {
	reply := Reply{Action: action, Code: goerror.CodeInternal.String(), Error: "Internal server error"}

	gerr, ok := goerror.As(err)
	if !ok {
		return reply
	}

	reply.Code = gerr.Code().String()
	reply.Error = gerr.Msg()
	if reply.Error == "" {
		reply.Error = gerr.Error()
	}

	var errValidate validator.V10ValidationError
	if errors.As(err, &errValidate) {
		reply.Fields = errValidate.Values()
	} else if len(gerr.Fields()) > 0 {
		reply.Fields = gerr.Fields()
	}

	return reply
}
