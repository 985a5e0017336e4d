package config

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"
)

const sample = `
app:
  node_id: 3
  maintenance:
    actions: [bulk_migrate, " ", status]
modules:
  notification:
    consumer_names: "notification_lms_events, notification_admin_worker,"
    processor:
      retry_backoff: 500
      schedule_lock_ttl: 300
authz:
  grants:
    "1": admin
  inline: "7:instructor, 9 : admin"
jwt:
  secret: %s
`

func newSample(t *testing.T) *Viper {
	t.Helper()
	secret := base64.StdEncoding.EncodeToString([]byte("s3cr3t"))
	cfg, err := NewViperFromBytes("yaml", []byte(fmt.Sprintf(sample, secret)))
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	return cfg
}

func TestViper(t *testing.T) {
	cfg := newSample(t)

	t.Run("Array", func(t *testing.T) {
		// Act
		list := cfg.GetArray("app.maintenance.actions")
		csv := cfg.GetArray("modules.notification.consumer_names")
		missing := cfg.GetArray("app.nope")

		// Assert
		if len(list) != 2 || list[0] != "bulk_migrate" || list[1] != "status" {
			t.Fatalf("list = %q", list)
		}
		if len(csv) != 2 || csv[1] != "notification_admin_worker" {
			t.Fatalf("csv = %q", csv)
		}
		if missing != nil {
			t.Fatalf("missing = %q", missing)
		}
	})

	t.Run("Map", func(t *testing.T) {
		// Act
		native := cfg.GetMap("authz.grants")
		inline := cfg.GetMap("authz.inline")

		// Assert
		if native["1"] != "admin" {
			t.Fatalf("native = %v", native)
		}
		if inline["7"] != "instructor" || inline["9"] != "admin" {
			t.Fatalf("inline = %v", inline)
		}
	})

	t.Run("Durations", func(t *testing.T) {
		// Act
		backoff := cfg.GetMillisecond("modules.notification.processor.retry_backoff")
		lock := cfg.GetSecond("modules.notification.processor.schedule_lock_ttl")

		// Assert
		if backoff != 500*time.Millisecond || lock != 5*time.Minute {
			t.Fatalf("backoff=%v lock=%v", backoff, lock)
		}
	})

	t.Run("Binary", func(t *testing.T) {
		// Act
		got := cfg.GetBinary("jwt.secret")
		bad := cfg.GetBinary("authz.inline")

		// Assert
		if string(got) != "s3cr3t" || bad != nil {
			t.Fatalf("got=%q bad=%q", got, bad)
		}
	})
}

func TestViper_EnvOverride(t *testing.T) {
	// Arrange
	t.Setenv(EnvPrefix+"_APP_NODE_ID", "9")
	cfg := newSample(t)

	// Act
	got := cfg.GetInt64("app.node_id")

	// Assert
	if got != 9 {
		t.Fatalf("node_id = %d", got)
	}
}

func TestNewViper(t *testing.T) {
	t.Run("FromFile", func(t *testing.T) {
		// Arrange
		file := filepath.Join(t.TempDir(), "config.yaml")
		if err := os.WriteFile(file, []byte("database:\n  driver: sqlite\n"), 0o600); err != nil {
			t.Fatalf("write: %v", err)
		}

		// Act
		cfg, err := NewViper(file)

		// Assert
		if err != nil || cfg.GetString("database.driver") != "sqlite" || !cfg.IsSet("database.driver") {
			t.Fatalf("err=%v cfg=%v", err, cfg)
		}
	})

	t.Run("MissingType", func(t *testing.T) {
		// Act
		_, err := NewViperFromBytes(" ", nil)

		// Assert
		if err == nil {
			t.Fatalf("expected error")
		}
	})
}
