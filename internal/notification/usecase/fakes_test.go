package usecase

import (
	"context"
	"errors"
	"slices"
	"strconv"
	"sync"
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/shandysiswandi/coursebell/internal/notification/controller"
	"github.com/shandysiswandi/coursebell/internal/notification/entity"
	"github.com/shandysiswandi/coursebell/internal/notification/trigger"
	"github.com/shandysiswandi/coursebell/internal/pkg/authz"
	"github.com/shandysiswandi/coursebell/internal/pkg/clock"
	"github.com/shandysiswandi/coursebell/internal/pkg/config"
	"github.com/shandysiswandi/coursebell/internal/pkg/goerror"
	"github.com/shandysiswandi/coursebell/internal/pkg/instrument"
	"github.com/shandysiswandi/coursebell/internal/pkg/jwt"
	"github.com/shandysiswandi/coursebell/internal/pkg/mail"
	"github.com/shandysiswandi/coursebell/internal/pkg/validator"
)

type contents map[int64]*entity.Content

func (c contents) GetContent(_ context.Context, id int64) (*entity.Content, error) {
	if v, ok := c[id]; ok {
		return v, nil
	}
	return nil, goerror.ErrNotFound
}

type store struct {
	mu      sync.Mutex
	records map[int64]*entity.Record
	order   []int64
	users   map[int64]*entity.User
	options map[string]string
	// getFailures fails that many GetRecord calls with a transient error.
	getFailures int
}

func newStore() *store {
	return &store{
		records: map[int64]*entity.Record{},
		users: map[int64]*entity.User{
			5:  {ID: 5, Email: "admin@x.com", DisplayName: "Admin"},
			42: {ID: 42, Email: "jane@x.com", DisplayName: "Jane"},
			43: {ID: 43, DisplayName: "No Mail"},
		},
		options: map[string]string{},
	}
}

func (s *store) CreateRecord(_ context.Context, in entity.CreateRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[in.ID] = &entity.Record{
		ID:         in.ID,
		TriggerID:  in.TriggerID,
		Subscriber: in.Subscriber,
		Type:       in.Type,
		PostID:     in.PostID,
		UserID:     in.UserID,
		Status:     in.Status,
		CreatedAt:  in.CreatedAt,
		UpdatedAt:  in.CreatedAt,
	}
	s.order = append(s.order, in.ID)
	return nil
}

func (s *store) HasRecord(_ context.Context, f entity.RecordFilter) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.records {
		if r.Status != entity.StatusFailed && r.TriggerID == f.TriggerID && r.Type == f.Type && r.Subscriber == f.Subscriber &&
			(f.PostID == 0 || r.PostID == f.PostID) && (f.UserID == 0 || r.UserID == f.UserID) {
			return true, nil
		}
	}
	return false, nil
}

func (s *store) GetRecord(_ context.Context, id int64) (*entity.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getFailures > 0 {
		s.getFailures--
		return nil, errors.New("read tcp: connection reset by peer")
	}
	r, ok := s.records[id]
	if !ok {
		return nil, goerror.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (s *store) ListRecords(_ context.Context, subscriber string, t entity.Type, limit int32) ([]entity.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []entity.Record
	for _, id := range slices.Backward(s.order) {
		r := s.records[id]
		if r.Subscriber == subscriber && (t == "" || r.Type == t) && int32(len(out)) < limit {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (s *store) UpdateRecordStatus(_ context.Context, id int64, status entity.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.records[id]
	if !ok {
		return goerror.ErrNotFound
	}
	r.Status = status
	return nil
}

func (s *store) GetUser(_ context.Context, id int64) (*entity.User, error) {
	if u, ok := s.users[id]; ok {
		return u, nil
	}
	return nil, goerror.ErrNotFound
}

func (s *store) GetOption(_ context.Context, name string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v, ok := s.options[name]; ok {
		return v, nil
	}
	return "", goerror.ErrNotFound
}

func (s *store) SetOption(_ context.Context, name, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.options[name] = value
	return nil
}

func (s *store) status(id int64) entity.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.records[id]; ok {
		return r.Status
	}
	return ""
}

type queue struct {
	ids       []int64
	scheduled int
	unlocked  int
}

func (q *queue) Enqueue(_ context.Context, _ entity.Type, id int64) error {
	q.ids = append(q.ids, id)
	return nil
}

func (q *queue) Pop(_ context.Context, _ entity.Type, n int) ([]int64, error) {
	n = min(n, len(q.ids))
	out := q.ids[:n]
	q.ids = q.ids[n:]
	return out, nil
}

func (q *queue) Pending(context.Context, entity.Type) (int64, error) { return int64(len(q.ids)), nil }

func (q *queue) ScheduleRun(context.Context, entity.Type) error {
	q.scheduled++
	return nil
}

func (q *queue) Unlock(context.Context, entity.Type) error {
	q.unlocked++
	return nil
}

type emailSink struct{ q *queue }

func (s emailSink) Enqueue(ctx context.Context, id int64) error {
	return s.q.Enqueue(ctx, entity.TypeEmail, id)
}

func (s emailSink) ScheduleRun(ctx context.Context) error {
	return s.q.ScheduleRun(ctx, entity.TypeEmail)
}

type mailer struct {
	sent     []mail.Message
	failures int
}

func (m *mailer) SendNotification(_ context.Context, to string, rec entity.Record, view entity.View) error {
	if m.failures > 0 {
		m.failures--
		return errors.New("smtp: 421 try later")
	}
	m.sent = append(m.sent, mail.Message{
		To:        []string{to},
		Subject:   view.Subject,
		HTMLBody:  view.Body,
		MessageID: strconv.FormatInt(rec.ID, 10),
	})
	return nil
}

type views struct{}

func (views) Render(_ context.Context, rec entity.Record) (entity.View, error) {
	return entity.View{Subject: rec.TriggerID, Body: "post " + strconv.FormatInt(rec.PostID, 10)}, nil
}

type ids struct{ n int64 }

func (i *ids) Generate() int64 {
	i.n++
	return i.n
}

type fixture struct {
	uc     *Usecase
	store  *store
	queue  *queue
	mailer *mailer
}

const testConfig = `
modules:
  notification:
    processor:
      batch_size: 2
      max_retries: 2
      retry_backoff: 1
`

func newFixture(t *testing.T) *fixture {
	t.Helper()

	v, err := validator.NewV10Validator()
	if err != nil {
		t.Fatalf("validator: %v", err)
	}
	cfg, err := config.NewViperFromBytes("yaml", []byte(testConfig))
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	enf, err := authz.New(
		[]authz.Policy{
			{Subject: "admin", Object: "*", Action: "*"},
			{Subject: "instructor", Object: "notification", Action: "read"},
		},
		[]authz.Grant{{Member: "5", Role: "admin"}},
	)
	if err != nil {
		t.Fatalf("authz: %v", err)
	}

	f := &fixture{store: newStore(), queue: &queue{}, mailer: &mailer{}}
	catalog := contents{7: {ID: 7, Kind: entity.ContentKindCourse, Title: "Go 101", AuthorID: 9}}
	clk := clock.Fixed(time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC))
	ins := instrument.NewNoop()
	uid := &ids{}

	reg := controller.NewRegistry()
	for _, def := range trigger.Definitions(catalog) {
		c, err := controller.New(controller.Dependency{
			Trigger:    def.Trigger,
			Config:     def.Config,
			Store:      f.store,
			Options:    f.store,
			Sinks:      map[entity.Type]controller.AsyncSink{entity.TypeEmail: emailSink{f.queue}},
			Views:      views{},
			UID:        uid,
			Clock:      clk,
			Validator:  v,
			Instrument: ins,
		})
		if err != nil {
			t.Fatalf("controller %s: %v", def.Trigger.ID(), err)
		}
		if err := reg.Register(c); err != nil {
			t.Fatalf("register %s: %v", def.Trigger.ID(), err)
		}
	}

	f.uc = NewNotification(Dependency{
		Registry:   reg,
		RepoDB:     f.store,
		RepoQueue:  f.queue,
		RepoMail:   f.mailer,
		Views:      views{},
		Config:     cfg,
		Clock:      clk,
		Validator:  v,
		Enforcer:   enf,
		Instrument: ins,
	})
	return f
}

func asAdmin(ctx context.Context) context.Context {
	return jwt.SetAuth(ctx, jwt.Claims{RegisteredClaims: jwtlib.RegisteredClaims{Subject: "5"}, UserID: 5})
}

func asUser(ctx context.Context, id int64, role string) context.Context {
	return jwt.SetAuth(ctx, jwt.Claims{
		RegisteredClaims: jwtlib.RegisteredClaims{Subject: strconv.FormatInt(id, 10)},
		UserID:           id,
		Role:             role,
	})
}

func errCode(t *testing.T, err error) goerror.Code {
	t.Helper()
	ge, ok := goerror.As(err)
	if !ok {
		t.Fatalf("error %v is not a goerror", err)
	}
	return ge.Code()
}
