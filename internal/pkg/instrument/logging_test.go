package instrument

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestNewHandler(t *testing.T) {
	t.Run("MasksSecretsAndAddsContext", func(t *testing.T) {
		// Arrange
		var buf bytes.Buffer
		logger := slog.New(newHandler(&Config{ServiceName: "coursebell", MaskFields: []string{" Token "}}, nil, &buf))
		ctx := SetCorrelationID(t.Context(), "cid-1")

		// Act
		logger.InfoContext(ctx, "consume: admin command",
			"token", "abc",
			"msg_body", `{"action":"migrate","token":"xyz"}`,
			"authorization", "Bearer abc.def",
			"certificate_id", 10,
		)

		// Assert
		var line map[string]any
		if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
			t.Fatalf("decode log line %q: %v", buf.String(), err)
		}
		if line["token"] != "***" {
			t.Fatalf("token = %v", line["token"])
		}
		if line["msg_body"] != `{"action":"migrate","token":"***"}` {
			t.Fatalf("msg_body = %v", line["msg_body"])
		}
		if line["authorization"] != "Bearer ***" {
			t.Fatalf("authorization = %v", line["authorization"])
		}
		if line["certificate_id"] != float64(10) {
			t.Fatalf("certificate_id = %v", line["certificate_id"])
		}
		if line["_cID"] != "cid-1" || line["service"] != "coursebell" || line["severity"] != "INFO" {
			t.Fatalf("unexpected context attrs %v", line)
		}
		if file, _ := line["file"].(string); !strings.HasPrefix(file, "internal/pkg/instrument/") {
			t.Fatalf("file = %v", line["file"])
		}
	})

	t.Run("TextFormatAndLevel", func(t *testing.T) {
		// Arrange
		var buf bytes.Buffer
		logger := slog.New(newHandler(&Config{LogLevel: "warn", LogFormat: "text"}, nil, &buf))

		// Act
		logger.Info("dropped")
		logger.Warn("kept", "type", "email")

		// Assert
		out := buf.String()
		if strings.Contains(out, "dropped") {
			t.Fatalf("info line written at warn level: %q", out)
		}
		if !strings.Contains(out, "msg=kept") || !strings.Contains(out, "type=email") {
			t.Fatalf("unexpected text output %q", out)
		}
	})
}

func TestGetCorrelationID(t *testing.T) {
	// Act
	empty := GetCorrelationID(t.Context())
	set := GetCorrelationID(SetCorrelationID(t.Context(), "abc"))

	// Assert
	if empty != "" || set != "abc" {
		t.Fatalf("empty=%q set=%q", empty, set)
	}
}

func TestMasker(t *testing.T) {
	m := newMasker([]string{"Token", " ", "password"})

	t.Run("Values", func(t *testing.T) {
		// Act
		headers := m.attr(slog.Any("headers", map[string]string{"Authorization": "bearer abc", "cID": "c-1"}))
		raw := m.attr(slog.Any("body", []byte(`[{"password":"p"}]`)))
		plain := m.attr(slog.String("action", "bulk_migrate"))

		// Assert
		got, _ := headers.Value.Any().(map[string]any)
		if got["Authorization"] != "Bearer ***" || got["cID"] != "c-1" {
			t.Fatalf("headers = %v", got)
		}
		if raw.Value.String() != `[{"password":"***"}]` {
			t.Fatalf("body = %v", raw.Value)
		}
		if plain.Value.String() != "bulk_migrate" {
			t.Fatalf("action = %v", plain.Value)
		}
	})

	t.Run("BoundAttrs", func(t *testing.T) {
		// Arrange
		var buf bytes.Buffer
		logger := slog.New(newHandler(&Config{MaskFields: []string{"token"}}, nil, &buf)).With("token", "abc")

		// Act
		logger.Info("bound")

		// Assert
		if strings.Contains(buf.String(), "abc") {
			t.Fatalf("bound token leaked: %s", buf.String())
		}
	})
}
