// Package view renders notification records into subject and body using
// stored templates, falling back to built-in text when none is stored.
package view

import (
	"bytes"
	"context"
	"errors"
	"html/template"
	"log/slog"
	"strconv"
	textTemplate "text/template"

	"github.com/shandysiswandi/coursebell/internal/notification/entity"
	"github.com/shandysiswandi/coursebell/internal/pkg/goerror"
	"github.com/shandysiswandi/coursebell/internal/pkg/instrument"
	"go.opentelemetry.io/otel/trace"
)

type TemplateStore interface {
	GetTemplate(ctx context.Context, triggerID string, t entity.Type) (*entity.Template, error)
}

type UserDirectory interface {
	GetUser(ctx context.Context, id int64) (*entity.User, error)
}

type ContentReader interface {
	GetContent(ctx context.Context, id int64) (*entity.Content, error)
}

type Dependency struct {
	Templates  TemplateStore
	Users      UserDirectory
	Contents   ContentReader
	SiteName   string
	Instrument instrument.Instrumentation
}

// Renderer implements the controller's view renderer.
type Renderer struct {
	templates TemplateStore
	users     UserDirectory
	contents  ContentReader
	siteName  string
	ins       instrument.Instrumentation
}

func New(dep Dependency) *Renderer {
	return &Renderer{
		templates: dep.Templates,
		users:     dep.Users,
		contents:  dep.Contents,
		siteName:  dep.SiteName,
		ins:       dep.Instrument,
	}
}

func (r *Renderer) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return r.ins.Tracer("notification.view").Start(ctx, name)
}

// Render fills the (trigger, type) template with the record's user, post
// and subscriber. Lookup failures leave the related fields empty.
func (r *Renderer) Render(ctx context.Context, rec entity.Record) (entity.View, error) {
	ctx, span := r.startSpan(ctx, "Render")
	defer span.End()

	tpl := r.template(ctx, rec.TriggerID, rec.Type)
	data := r.data(ctx, rec)

	subject, err := renderText("subject", tpl.Subject, data)
	if err != nil {
		return entity.View{}, err
	}

	body, err := renderHTML("body", tpl.Body, data)
	if err != nil {
		return entity.View{}, err
	}

	return entity.View{Subject: subject, Body: body}, nil
}

func (r *Renderer) template(ctx context.Context, triggerID string, t entity.Type) entity.Template {
	tpl, err := r.templates.GetTemplate(ctx, triggerID, t)
	if err == nil {
		return *tpl
	}
	if !errors.Is(err, goerror.ErrNotFound) {
		slog.ErrorContext(ctx, "failed to repo get notification template", "trigger_id", triggerID, "type", t, "error", err)
	}

	return fallback(triggerID, t)
}

func (r *Renderer) data(ctx context.Context, rec entity.Record) map[string]any {
	data := map[string]any{
		"site_name":  r.siteName,
		"trigger_id": rec.TriggerID,
		"type":       rec.Type.String(),
		"subscriber": rec.Subscriber,
		"user_id":    rec.UserID,
		"post_id":    rec.PostID,
		"date":       rec.CreatedAt.Format("January 2, 2006"),
		"user_name":  "",
		"user_email": "",
		"post_title": "",
		"post_kind":  "",
		"recipient":  rec.Subscriber,
	}

	if rec.UserID > 0 {
		u, err := r.users.GetUser(ctx, rec.UserID)
		if err != nil {
			slog.WarnContext(ctx, "failed to load notification user", "user_id", rec.UserID, "error", err)
		} else {
			data["user_name"] = u.DisplayName
			data["user_email"] = u.Email
		}
	}

	if rec.PostID > 0 {
		c, err := r.contents.GetContent(ctx, rec.PostID)
		if err != nil {
			slog.WarnContext(ctx, "failed to load notification content", "post_id", rec.PostID, "error", err)
		} else {
			data["post_title"] = c.Title
			data["post_kind"] = c.Kind.String()
		}
	}

	if id, err := strconv.ParseInt(rec.Subscriber, 10, 64); err == nil && id > 0 {
		if id == rec.UserID {
			data["recipient"] = data["user_name"]
		} else if u, err := r.users.GetUser(ctx, id); err == nil {
			data["recipient"] = u.DisplayName
		}
	}

	return data
}

func renderHTML(name, tpl string, data map[string]any) (string, error) {
	t, err := template.New(name).Option("missingkey=zero").Parse(tpl)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}

func renderText(name, tpl string, data map[string]any) (string, error) {
	t, err := textTemplate.New(name).Option("missingkey=zero").Parse(tpl)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}
