package inbound

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/shandysiswandi/coursebell/internal/certificate/entity"
	"github.com/shandysiswandi/coursebell/internal/certificate/usecase"
	"github.com/shandysiswandi/coursebell/internal/pkg/goerror"
	"github.com/shandysiswandi/coursebell/internal/pkg/instrument"
	"github.com/shandysiswandi/coursebell/internal/pkg/jwt"
	"github.com/shandysiswandi/coursebell/internal/pkg/router"
)

type fakeUC struct {
	calls []string
	ids   []int64
}

func (f *fakeUC) record(name string, in usecase.CertificateInput) {
	f.calls = append(f.calls, name)
	f.ids = append(f.ids, in.ID)
}

func (f *fakeUC) Migrate(_ context.Context, in usecase.CertificateInput) (int64, error) {
	f.record("migrate", in)
	return in.ID + 1, nil
}

func (f *fakeUC) Rollback(_ context.Context, in usecase.CertificateInput) (int64, error) {
	f.record("rollback", in)
	if in.ID == 404 {
		return 0, goerror.NewBusiness("No legacied certificate found", goerror.CodeNotFound)
	}
	return in.ID - 1, nil
}

func (f *fakeUC) DeleteLegacy(_ context.Context, in usecase.CertificateInput) (int64, error) {
	f.record("delete_legacy", in)
	return in.ID - 1, nil
}

func (f *fakeUC) IsLegacy(_ context.Context, in usecase.CertificateInput) (bool, error) {
	f.record("is_legacy", in)
	return in.ID == 10, nil
}

func (f *fakeUC) LegacyOfModern(_ context.Context, in usecase.CertificateInput) (int64, error) {
	f.record("legacy_of_modern", in)
	return 20, nil
}

func (f *fakeUC) Tools(context.Context) (*entity.ToolsReport, error) {
	return &entity.ToolsReport{Legacy: []int64{10, 30}, Migrated: []int64{20}}, nil
}

func (f *fakeUC) BulkMigrate(context.Context) (*entity.BulkResult, error) {
	return &entity.BulkResult{Done: map[int64]int64{10: 101}, Errors: map[int64]string{30: "boom"}}, nil
}

func (f *fakeUC) BulkRollback(context.Context) (*entity.BulkResult, error) {
	return nil, goerror.NewBusiness("Account not allowed", goerror.CodeForbidden)
}

type verifier struct{}

func (verifier) Generate(int64, string, string) (string, error) { return "", nil }

func (verifier) Verify(string) (jwt.Claims, error) {
	return jwt.Claims{UserID: 5, Role: "admin"}, nil
}

func newAdmin(uc *fakeUC) *router.Router {
	r := router.NewRouter(router.Config{Name: "certificate.admin", JWT: verifier{}, Instrument: instrument.NewNoop()})
	RegisterAdminEndpoint(r, uc)
	return r
}

func dispatch(t *testing.T, r *router.Router, action, payload string) router.Reply {
	t.Helper()

	reply := r.Dispatch(t.Context(), router.Meta{Authorization: "Bearer tok"}, router.Command{
		Action:  action,
		Payload: json.RawMessage(payload),
	})

	b, err := json.Marshal(reply)
	if err != nil {
		t.Fatalf("encode reply: %v", err)
	}
	var out router.Reply
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("decode reply: %v", err)
	}
	return out
}

func TestAdminEndpoint(t *testing.T) {
	t.Run("actions", func(t *testing.T) {
		// Act
		got := newAdmin(&fakeUC{}).Actions()

		// Assert
		if len(got) != 8 {
			t.Fatalf("actions = %v", got)
		}
	})

	t.Run("single certificate actions", func(t *testing.T) {
		tests := []struct {
			action string
			want   string
		}{
			{action: ActionMigrate, want: "11"},
			{action: ActionRollback, want: "9"},
			{action: ActionDeleteLegacy, want: "9"},
		}
		for _, tt := range tests {
			// Arrange
			uc := &fakeUC{}

			// Act
			reply := dispatch(t, newAdmin(uc), tt.action, `{"id":"10"}`)

			// Assert
			if !reply.OK || reply.Data.(map[string]any)["id"] != tt.want {
				t.Fatalf("%s: unexpected reply %+v", tt.action, reply)
			}
			if len(uc.calls) != 1 || uc.calls[0] != tt.action || uc.ids[0] != 10 {
				t.Fatalf("%s: calls = %v %v", tt.action, uc.calls, uc.ids)
			}
		}
	})

	t.Run("IsLegacy", func(t *testing.T) {
		// Act
		reply := dispatch(t, newAdmin(&fakeUC{}), ActionIsLegacy, `{"id":"10"}`)

		// Assert
		if !reply.OK || reply.Data.(map[string]any)["legacy"] != true {
			t.Fatalf("unexpected reply %+v", reply)
		}
	})

	t.Run("LegacyOfModern", func(t *testing.T) {
		// Act
		reply := dispatch(t, newAdmin(&fakeUC{}), ActionLegacyOfModern, `{"id":"40"}`)

		// Assert
		if !reply.OK || reply.Data.(map[string]any)["modern_id"] != "20" {
			t.Fatalf("unexpected reply %+v", reply)
		}
	})

	t.Run("Tools", func(t *testing.T) {
		// Act
		reply := dispatch(t, newAdmin(&fakeUC{}), ActionTools, "")

		// Assert
		data := reply.Data.(map[string]any)
		if !reply.OK || data["legacy_count"] != float64(2) || data["migrated_count"] != float64(1) {
			t.Fatalf("unexpected reply %+v", reply)
		}
	})

	t.Run("BulkMigrate", func(t *testing.T) {
		// Act
		reply := dispatch(t, newAdmin(&fakeUC{}), ActionBulkMigrate, "")

		// Assert
		data := reply.Data.(map[string]any)
		done := data["done"].(map[string]any)
		errs := data["errors"].(map[string]any)
		if !reply.OK || done["10"] != float64(101) || errs["30"] != "boom" {
			t.Fatalf("unexpected reply %+v", reply)
		}
	})

	t.Run("usecase errors", func(t *testing.T) {
		// Act
		notFound := dispatch(t, newAdmin(&fakeUC{}), ActionRollback, `{"id":"404"}`)
		forbidden := dispatch(t, newAdmin(&fakeUC{}), ActionBulkRollback, "")

		// Assert
		if notFound.OK || notFound.Code != goerror.CodeNotFound.String() {
			t.Fatalf("unexpected reply %+v", notFound)
		}
		if forbidden.OK || forbidden.Code != goerror.CodeForbidden.String() {
			t.Fatalf("unexpected reply %+v", forbidden)
		}
	})

	t.Run("bad payload", func(t *testing.T) {
		// Arrange
		uc := &fakeUC{}

		// Act
		reply := dispatch(t, newAdmin(uc), ActionMigrate, `{"id":"ten"}`)

		// Assert
		if reply.OK || reply.Code != goerror.CodeInvalidFormat.String() || len(uc.calls) != 0 {
			t.Fatalf("unexpected reply %+v", reply)
		}
	})
}
