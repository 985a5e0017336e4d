package instrument

import (
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/samber/lo"
)

const (
	maskedValue  = "***"
	maskedBearer = "Bearer ***"
)

// masker is the lower-cased set of attribute and JSON keys whose values are
// replaced with "***". Bearer tokens are masked under any key.
type masker map[string]struct{}

func newMasker(fields []string) masker {
	keys := lo.Compact(lo.Map(fields, func(f string, _ int) string {
		return strings.ToLower(strings.TrimSpace(f))
	}))
	return lo.SliceToMap(keys, func(k string) (string, struct{}) { return k, struct{}{} })
}

func (m masker) secret(key string) bool {
	_, ok := m[strings.ToLower(key)]
	return ok
}

func (m masker) attr(a slog.Attr) slog.Attr {
	if m.secret(a.Key) {
		return slog.String(a.Key, maskedValue)
	}

	switch a.Value.Kind() {
	case slog.KindGroup:
		group := a.Value.Group()
		masked := make([]slog.Attr, len(group))
		for i, ga := range group {
			masked[i] = m.attr(ga)
		}
		a.Value = slog.GroupValue(masked...)
	case slog.KindString:
		if s, ok := m.text(a.Value.String()); ok {
			a.Value = slog.StringValue(s)
		}
	case slog.KindAny:
		switch v := a.Value.Any().(type) {
		case map[string]any, []any:
			a.Value = slog.AnyValue(m.data(v))
		case map[string]string:
			a.Value = slog.AnyValue(m.data(lo.MapValues(v, func(s string, _ string) any { return s })))
		case []byte:
			if s, ok := m.json(v); ok {
				a.Value = slog.StringValue(s)
			}
		}
	}
	return a
}

// text masks a bearer token or the secrets of a JSON payload such as the
// body of an admin command.
func (m masker) text(s string) (string, bool) {
	if hasBearerPrefix(s) {
		return maskedBearer, true
	}
	return m.json([]byte(s))
}

func (m masker) json(payload []byte) (string, bool) {
	if len(payload) == 0 || (payload[0] != '{' && payload[0] != '[') {
		return "", false
	}
	var body any
	if err := json.Unmarshal(payload, &body); err != nil {
		return "", false
	}
	out, err := json.Marshal(m.data(body))
	if err != nil {
		return "", false
	}
	return string(out), true
}

func (m masker) data(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			switch s, isStr := item.(string); {
			case m.secret(k):
				out[k] = maskedValue
			case isStr && hasBearerPrefix(s):
				out[k] = maskedBearer
			default:
				out[k] = m.data(item)
			}
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = m.data(item)
		}
		return out
	default:
		return v
	}
}

func hasBearerPrefix(s string) bool {
	return len(s) > 7 && strings.EqualFold(s[:7], "bearer ")
}
