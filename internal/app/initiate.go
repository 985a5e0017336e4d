package app

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	"github.com/shandysiswandi/coursebell/internal/notification/outbound/queue"
	"github.com/shandysiswandi/coursebell/internal/pkg/authz"
	"github.com/shandysiswandi/coursebell/internal/pkg/clock"
	"github.com/shandysiswandi/coursebell/internal/pkg/config"
	"github.com/shandysiswandi/coursebell/internal/pkg/goroutine"
	"github.com/shandysiswandi/coursebell/internal/pkg/idempotency"
	"github.com/shandysiswandi/coursebell/internal/pkg/instrument"
	"github.com/shandysiswandi/coursebell/internal/pkg/jwt"
	"github.com/shandysiswandi/coursebell/internal/pkg/mail"
	"github.com/shandysiswandi/coursebell/internal/pkg/messaging"
	"github.com/shandysiswandi/coursebell/internal/pkg/sqlitedb"
	"github.com/shandysiswandi/coursebell/internal/pkg/uid"
	"github.com/shandysiswandi/coursebell/internal/pkg/validator"
	"google.golang.org/api/option"
)

const (
	databaseDriverPostgres = "postgres"
	databaseDriverSQLite   = "sqlite"

	mailDriverSMTP = "smtp"
	mailDriverLog  = "log"
)

func (a *App) initConfig() {
	path := a.opts.ConfigPath
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path == "" {
		path = "/config/config.yaml"
		if os.Getenv("LOCAL") == "true" {
			path = "./config/config.yaml"
		}
	}

	cfg, err := config.NewViper(path)
	if err != nil {
		slog.Error("failed to init config", "path", path, "error", err)
		os.Exit(1)
	}

	if tz := cfg.GetString("app.tz"); tz != "" {
		//nolint:errcheck,gosec // ignore error
		os.Setenv("TZ", tz)
	}

	a.config = cfg
}

// initInstrument installs logging and tracing. Only serve logs JSON to
// stdout; CLI commands log text to stderr next to their output.
func (a *App) initInstrument() {
	var (
		logOutput io.Writer = os.Stdout
		logFormat           = a.config.GetString("instrument.log_format")
	)
	if !a.opts.Consumers {
		logOutput = os.Stderr
		logFormat = "text"
	}

	ins, err := instrument.New(context.Background(), &instrument.Config{
		Enabled:          a.config.GetBool("instrument.enabled"),
		ServiceName:      a.config.GetString("instrument.service_name"),
		ServiceVersion:   a.config.GetString("instrument.service_version"),
		Environment:      a.config.GetString("instrument.env"),
		OTLPEndpoint:     a.config.GetString("instrument.otlp_endpoint"),
		OTLPSecure:       a.config.GetBool("instrument.otlp_secure"),
		TraceSampleRatio: a.config.GetFloat64("instrument.trace_sample_ratio"),
		MetricsInterval:  a.config.GetSecond("instrument.metric_interval_seconds"),
		MaskFields:       a.config.GetArray("instrument.log_mask_fields"),
		LogLevel:         a.config.GetString("instrument.log_level"),
		LogFormat:        logFormat,
		LogOutput:        logOutput,
		InstanceID:       "node-" + a.config.GetString("app.node_id"),
	})
	if err != nil {
		slog.Error("failed to init instrumentation", "error", err)
		os.Exit(1)
	}
	a.ins = ins
}

func (a *App) initLibraries() {
	a.clock = clock.New()
	a.uuid = uid.NewUUID()
	a.goroutine = goroutine.NewManager(a.config.GetInt("app.max_goroutine"))

	validator, err := validator.NewV10Validator()
	if err != nil {
		slog.Error("failed to init validation v10 validator", "error", err)
		os.Exit(1)
	}
	a.validator = validator

	var snow *uid.Snowflake
	if a.config.IsSet("app.node_id") {
		snow, err = uid.NewSnowflakeNode(a.config.GetInt64("app.node_id"))
	} else {
		snow, err = uid.NewSnowflake()
	}
	if err != nil {
		slog.Error("failed to init uid number snowflake", "error", err)
		os.Exit(1)
	}
	a.uid = snow
}

func (a *App) initJWT() {
	defaultJWT, err := jwt.NewHS512(jwt.Config{
		Secret:    []byte(a.config.GetString("jwt.secret")),
		Issuer:    a.config.GetString("jwt.issuer"),
		Audiences: a.config.GetArray("jwt.audiences"),
		TTL:       a.config.GetMinute("jwt.ttl_minutes"),
		Clock:     a.clock,
		UUID:      a.uuid,
	})
	if err != nil {
		slog.Error("failed to init jwt token", "error", err)
		os.Exit(1)
	}
	a.jwt = defaultJWT
}

func (a *App) initDatabase() {
	switch driver := strings.TrimSpace(a.config.GetString("database.driver")); driver {
	case databaseDriverSQLite:
		a.initSQLite()
	case databaseDriverPostgres, "":
		a.initPostgres()
	default:
		slog.Error("failed to init database, unknown driver", "driver", driver)
		os.Exit(1)
	}
}

func (a *App) initPostgres() {
	config, err := pgxpool.ParseConfig(a.config.GetString("database.url"))
	if err != nil {
		slog.Error("failed to parse DB connection string.", "error", err)
		os.Exit(1)
	}

	config.MaxConns = a.config.GetInt32("database.pool.max_conns")
	config.MinConns = a.config.GetInt32("database.pool.min_conns")
	config.MaxConnLifetime = a.config.GetSecond("database.pool.max_conn_lifetime_seconds")
	config.MaxConnIdleTime = a.config.GetSecond("database.pool.max_conn_idle_seconds")
	config.HealthCheckPeriod = a.config.GetSecond("database.pool.health_check_period_seconds")

	pool, err := pgxpool.NewWithConfig(a.ctx, config)
	if err != nil {
		slog.Error("failed to create DB connection pool", "error", err)
		os.Exit(1)
	}

	pingCtx, cancel := context.WithTimeout(a.ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		slog.Error("failed to ping DB", "error", err)
		os.Exit(1)
	}

	a.dbConn = pool
}

func (a *App) initSQLite() {
	conn, err := sqlitedb.Open(a.config.GetString("database.sqlite.dsn"))
	if err != nil {
		slog.Error("failed to open sqlite database", "error", err)
		os.Exit(1)
	}

	// the embedded store has no separate migration step
	if err := sqlitedb.Migrate(a.ctx, conn); err != nil {
		slog.Error("failed to migrate sqlite database", "error", err)
		os.Exit(1)
	}

	a.sqliteConn = conn
}

// initCache connects redis when configured. Without it the schedule lock
// and the processor queues live in process memory.
func (a *App) initCache() {
	url := strings.TrimSpace(a.config.GetString("redis.url"))
	if url == "" {
		slog.Warn("redis is not configured, using in-memory processor queues")
		a.idemp = idempotency.NewMemory(a.clock)
		a.lists = queue.NewMemoryLists()
		return
	}

	opt, err := redis.ParseURL(url)
	if err != nil {
		slog.Error("failed to parse redis url", "error", err)
		os.Exit(1)
	}

	rdb := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(a.ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		slog.Error("failed to init redis", "error", err)
		os.Exit(1)
	}

	a.cacheConn = rdb
	a.idemp = idempotency.New(a.cacheConn)
	a.lists = queue.NewRedisLists(a.cacheConn)
}

func (a *App) initMail() {
	switch driver := strings.TrimSpace(a.config.GetString("mail.driver")); driver {
	case mailDriverLog:
		a.mail = mail.NewLog()
	case mailDriverSMTP, "":
		m, err := mail.NewSMTP(mail.SMTPConfig{
			Host:     a.config.GetString("mail.host"),
			Port:     a.config.GetInt("mail.port"),
			Username: a.config.GetString("mail.username"),
			Password: a.config.GetString("mail.password"),
			From:     a.config.GetString("mail.from"),
		})
		if err != nil {
			slog.Error("failed to init mail", "error", err)
			os.Exit(1)
		}
		a.mail = m
	default:
		slog.Error("failed to init mail, unknown driver", "driver", driver)
		os.Exit(1)
	}
}

func (a *App) initMessaging() {
	driver := a.config.GetString("messaging.driver")
	client, err := messaging.NewFromDriver(a.ctx, driver, messaging.FactoryOptions{
		NSQ: messaging.NSQConfig{
			ProducerAddr:         a.config.GetString("messaging.nsq.producer_addr"),
			ConsumerNSQDAddrs:    a.config.GetArray("messaging.nsq.consumer_nsqd_addrs"),
			ConsumerLookupdAddrs: a.config.GetArray("messaging.nsq.consumer_lookupd_addrs"),
		},
		Kafka: messaging.KafkaConfig{
			Brokers: a.config.GetArray("messaging.kafka.brokers"),
			Dialer: &kafka.Dialer{
				ClientID:  a.config.GetString("messaging.kafka.client_id"),
				Timeout:   a.config.GetSecond("messaging.kafka.dial_timeout_seconds"),
				DualStack: true,
			},
		},
		NATS: messaging.NATSConfig{
			URL: a.config.GetString("messaging.nats.url"),
			Options: []nats.Option{
				nats.Name(a.config.GetString("messaging.nats.name")),
				nats.MaxReconnects(a.config.GetInt("messaging.nats.max_reconnects")),
				nats.Timeout(a.config.GetSecond("messaging.nats.timeout_seconds")),
				nats.ReconnectWait(a.config.GetSecond("messaging.nats.reconnect_wait_seconds")),
				nats.PingInterval(a.config.GetSecond("messaging.nats.ping_interval_seconds")),
				nats.MaxPingsOutstanding(a.config.GetInt("messaging.nats.max_pings_outstanding")),
				nats.RetryOnFailedConnect(a.config.GetBool("messaging.nats.retry_on_failed_connect")),
			},
		},
		PubSub: messaging.PubSubConfig{
			ProjectID:     a.config.GetString("messaging.pubsub.project_id"),
			ClientOptions: pubsubOptions(a.config.GetString("messaging.pubsub.credentials_file")),
		},
	})
	if err != nil {
		slog.Error("failed to init messaging", "error", err, "driver", driver)
		os.Exit(1)
	}

	a.messaging = client
}

func pubsubOptions(credentialsFile string) []option.ClientOption {
	if credentialsFile == "" {
		return nil
	}
	return []option.ClientOption{option.WithCredentialsFile(credentialsFile)}
}

// initCasbin seeds the admin policies from configuration.
func (a *App) initCasbin() {
	policies, err := authz.ParsePolicies(a.config.GetArray("authz.policies"))
	if err != nil {
		slog.Error("failed to parse casbin policies", "error", err)
		os.Exit(1)
	}

	var grants []authz.Grant
	for member, role := range a.config.GetMap("authz.grants") {
		grants = append(grants, authz.Grant{Member: member, Role: role})
	}

	e, err := authz.New(policies, grants)
	if err != nil {
		slog.Error("failed to init casbin", "error", err)
		os.Exit(1)
	}

	a.casbin = e
}

func (a *App) initClosers() {
	a.closers = []struct {
		name string
		fn   func(context.Context) error
	}{
		{
			name: "Instrument",
			fn: func(ctx context.Context) error {
				return a.ins.Shutdown(ctx)
			},
		},
		{
			name: "Messaging",
			fn: func(context.Context) error {
				return a.messaging.Close()
			},
		},
		{
			name: "Redis",
			fn: func(context.Context) error {
				if a.cacheConn == nil {
					return nil
				}
				return a.cacheConn.Close()
			},
		},
		{
			name: "Database",
			fn: func(context.Context) error {
				if a.dbConn != nil {
					a.dbConn.Close()
				}
				if a.sqliteConn != nil {
					return a.sqliteConn.Close()
				}

				return nil
			},
		},
		{
			name: "Config",
			fn: func(context.Context) error {
				return a.config.Close()
			},
		},
	}
}
