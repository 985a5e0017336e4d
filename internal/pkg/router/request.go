package router

import (
	"bytes"
	"context"
	"encoding/json"
	"io"

	"github.com/shandysiswandi/coursebell/internal/pkg/goerror"
)

// Request is one admin command on its way through the middleware chain.
type Request struct {
	ctx     context.Context
	Action  string
	Payload json.RawMessage
	// Token is the raw bearer token, empty when none was sent.
	Token string
}

// NewRequest builds a Request outside of Dispatch, mostly for tests.
func NewRequest(ctx context.Context, action string, payload json.RawMessage) *Request {
	return &Request{ctx: ctx, Action: action, Payload: payload}
}

func (r *Request) Context() context.Context {
	if r.ctx == nil {
		return context.Background()
	}
	return r.ctx
}

// WithContext returns a shallow copy of r carrying ctx.
func (r *Request) WithContext(ctx context.Context) *Request {
	r2 := *r
	r2.ctx = ctx
	return &r2
}

// DecodePayload decodes the JSON payload into dst. An empty payload
// decodes as an empty object.
func (r *Request) DecodePayload(dst any) error {
	payload := bytes.TrimSpace(r.Payload)
	if len(payload) == 0 || bytes.Equal(payload, []byte("null")) {
		payload = []byte("{}")
	}

	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		return goerror.NewInvalidFormat("Invalid command payload")
	}

	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return goerror.NewInvalidFormat("Invalid command payload")
	}

	return nil
}
