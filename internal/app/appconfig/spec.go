package appconfig

import (
	"time"

	"github.com/xbg/ifood-admin/internal/app/appcontext"
)

type ConfigSpec struct {
	// ServiceAddress is the listen address the service listener binds to. A port of 0 asks
	// the OS for a free port, which is mostly useful in tests.
	ServiceAddress string `required:"true" split_words:"true" default:"localhost:9010" validate:"listen_address"`

	// TrustedProxies is a list of proxies that are trusted to report a real IP via the X-Forwarded-For header.
	TrustedProxies []string `split_words:"true" default:"::1,127.0.0.1,10.0.0.0/8"`

	// DevMode to indicate development mode. When true, pprof endpoints are mounted and
	// the logger is configured to the trace level.
	DevMode bool `split_words:"true"`

	// LogLevel is the minimum level of the global logger. Ignored in DevMode.
	LogLevel string `split_words:"true" default:"debug" validate:"oneof=trace debug info warn error"`

	// LogJsonStdout is whether to log JSON logs (instead of pretty-print logs) to stdout for the ease of log collection.
	LogJsonStdout bool `split_words:"true" default:"false"`

	// LogFile is the path of the rotated log file. Leaving this empty disables file logging.
	LogFile string `split_words:"true" default:"logs/app.log"`

	// StartTimeout bounds the whole startup sequence, connection checks included.
	StartTimeout time.Duration `split_words:"true" default:"15s" validate:"gt=0"`

	// ShutdownTimeout is the grace period given to the listener and the connections to be released.
	ShutdownTimeout time.Duration `split_words:"true" default:"30s" validate:"gt=0"`

	// infrastructure components connection instructions

	// DatabaseDSN is the data source name of the database the mapper layer is bound to.
	// postgres:// and postgresql:// DSNs are served by bun's pgdriver (see
	// https://bun.uptrace.dev/postgres/#pgdriver), while sqlite: and file: DSNs open an
	// SQLite database through modernc.org/sqlite.
	DatabaseDSN string `split_words:"true" validate:"required,database_dsn"`

	DatabaseMaxOpenConns    int           `split_words:"true" default:"10" validate:"gte=1"`
	DatabaseMaxIdleConns    int           `split_words:"true" default:"2" validate:"gte=0"`
	DatabaseConnMaxLifeTime time.Duration `split_words:"true" default:"5m"`
	DatabaseConnMaxIdleTime time.Duration `split_words:"true" default:"5m"`

	// DatabaseConnectTimeout bounds the reachability check performed before the listener binds.
	DatabaseConnectTimeout time.Duration `split_words:"true" default:"5s" validate:"gt=0"`

	// DatabaseAutoMigrate runs pending schema migrations at startup, after the database
	// is reached and before the listener binds.
	DatabaseAutoMigrate bool `split_words:"true"`

	BunDebugVerbose bool `split_words:"true"`

	// RedisURL is the URL of the Redis server. Leaving this empty disables Redis and the
	// distributed locks built on top of it. See https://pkg.go.dev/github.com/redis/go-redis/v9#ParseURL
	// for more information on how to construct a Redis URL.
	RedisURL string `split_words:"true" validate:"omitempty,redis_url"`

	// NatsURL is the URL of the NATS server lifecycle events are published to. Leaving this
	// empty disables publishing. See https://pkg.go.dev/github.com/nats-io/nats.go#Connect.
	NatsURL string `split_words:"true"`

	// SentryDSN is the DSN of the Sentry server. See https://pkg.go.dev/github.com/getsentry/sentry-go#ClientOptions
	SentryDSN string `split_words:"true"`

	// TracingEnabled to indicate whether to enable OpenTelemetry tracing.
	TracingEnabled bool `split_words:"true"`

	// TracingExporters to indicate which exporters to use for tracing.
	// Valid values are: otlp, stdout (for debug).
	TracingExporters []string `split_words:"true" default:"otlp" validate:"dive,oneof=otlp stdout"`

	// TracingSampleRate to indicate the sampling rate for tracing.
	// Valid values are: 0.0 (disabled), 1.0 (all traces), or a value between 0.0 and 1.0 (sampling rate).
	TracingSampleRate float64 `split_words:"true" default:"1.0" validate:"gte=0,lte=1"`
}

type Config struct {
	// ConfigSpec is the configuration specification injected to the config.
	ConfigSpec

	// AppContext is the application context
	AppContext appcontext.Ctx
}
