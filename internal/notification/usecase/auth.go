package usecase

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/coursebell/internal/pkg/goerror"
	"github.com/shandysiswandi/coursebell/internal/pkg/jwt"
)

const (
	objNotification = "notification"

	actRead  = "read"
	actWrite = "write"
	actTest  = "test"
)

func (s *Usecase) requireAuth(ctx context.Context) (*jwt.Claims, error) {
	clm := jwt.GetAuth(ctx)
	if clm == nil {
		return nil, goerror.NewBusiness("Authentication required", goerror.CodeUnauthorized)
	}

	return clm, nil
}

// authenticatedAndAuthorized checks the actor's subject first, then its role.
func (s *Usecase) authenticatedAndAuthorized(ctx context.Context, obj, act string) (*jwt.Claims, error) {
	clm, err := s.requireAuth(ctx)
	if err != nil {
		return nil, err
	}

	for _, sub := range []string{clm.Subject, clm.Role} {
		if sub == "" {
			continue
		}

		ok, err := s.enforcer.Enforce(sub, obj, act)
		if err != nil {
			slog.ErrorContext(ctx, "failed to check authorization", "subject", sub, "error", err)
			return nil, goerror.NewServer(err)
		}
		if ok {
			return clm, nil
		}
	}

	slog.WarnContext(ctx, "account not allowed", "subject", clm.Subject, "role", clm.Role, "object", obj, "action", act)
	return nil, goerror.NewBusiness("Account not allowed", goerror.CodeForbidden)
}
