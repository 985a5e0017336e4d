package router

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"strings"

	"github.com/samber/lo"
	"github.com/shandysiswandi/coursebell/internal/pkg/config"
	"github.com/shandysiswandi/coursebell/internal/pkg/goerror"
	"github.com/shandysiswandi/coursebell/internal/pkg/instrument"
	"github.com/shandysiswandi/coursebell/internal/pkg/jwt"
	"github.com/shandysiswandi/coursebell/internal/pkg/stacktrace"
)

const maxCorrelationIDLen = 128

// normalizeCID drops header values that could forge log lines.
func normalizeCID(v string) string {
	if strings.ContainsAny(v, "\r\n") {
		return ""
	}
	v = strings.TrimSpace(v)
	if len(v) > maxCorrelationIDLen {
		v = v[:maxCorrelationIDLen]
	}
	return v
}

func withCorrelationID(ctx context.Context, cid string) context.Context {
	if cid = normalizeCID(cid); cid != "" {
		return instrument.SetCorrelationID(ctx, cid)
	}
	return ctx
}

// middlewareRecoverer turns a handler panic into an internal error Reply.
func middlewareRecoverer(next Handler) Handler {
	return func(r *Request) (resp any, err error) {
		defer func() {
			rvr := recover()
			if rvr == nil {
				return
			}

			raw := debug.Stack()
			var stack any = string(raw)
			if paths := stacktrace.InternalPaths(raw); len(paths) > 0 {
				stack = paths
			}
			slog.ErrorContext(r.Context(), "admin action panicked", "action", r.Action, "panic", rvr, "stack", stack)

			resp, err = nil, goerror.NewServer(fmt.Errorf("panic in %s: %v", r.Action, rvr))
		}()

		return next(r)
	}
}

// middlewareMaintenance rejects the actions listed in app.maintenance.actions
// with a retry-later code. "*" blocks every action.
func middlewareMaintenance(cfg config.Config) Middleware {
	var blocked map[string]struct{}
	if cfg != nil {
		names := lo.Compact(lo.Map(cfg.GetArray("app.maintenance.actions"), func(a string, _ int) string {
			return strings.TrimSpace(a)
		}))
		blocked = lo.SliceToMap(names, func(a string) (string, struct{}) { return a, struct{}{} })
	}
	_, all := blocked["*"]

	return func(next Handler) Handler {
		return func(r *Request) (any, error) {
			if _, ok := blocked[r.Action]; ok || all {
				return nil, goerror.NewBusiness("Action "+r.Action+" is under maintenance", goerror.CodeTooManyRequest)
			}
			return next(r)
		}
	}
}

// middlewareAuthentication verifies the bearer token and stores its claims
// in the request context. Public actions skip it.
func middlewareAuthentication(verifier jwt.JWT, publicActions []string) Middleware {
	return func(next Handler) Handler {
		return func(r *Request) (any, error) {
			if lo.Contains(publicActions, r.Action) {
				return next(r)
			}
			if r.Token == "" || verifier == nil {
				return nil, goerror.NewBusiness("Authentication required", goerror.CodeUnauthorized)
			}

			claims, err := verifier.Verify(r.Token)
			if err != nil {
				if !errors.Is(err, jwt.ErrTokenExpired) {
					slog.WarnContext(r.Context(), "rejected admin token", "action", r.Action, "error", err)
				}
				return nil, goerror.NewBusiness("Invalid or expired token", goerror.CodeUnauthorized)
			}

			return next(r.WithContext(jwt.SetAuth(r.Context(), claims)))
		}
	}
}
