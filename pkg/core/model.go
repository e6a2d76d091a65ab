package core

import (
	"log/slog"
	"time"
)

type Config struct {
	Environment string        `env:"ENVIRONMENT"`
	LogLevel    slog.Level    `env:"LOG_LEVEL"`
	Otel        OtelConfig    `envPrefix:"OTEL_"`
	Redis       RedisConfig   `envPrefix:"REDIS_"`
	Backend     BackendConfig `envPrefix:"BACKEND_"`
	Breaker     BreakerConfig `envPrefix:"BREAKER_"`
	Session     SessionConfig `envPrefix:"SESSION_"`
	Flow        FlowConfig    `envPrefix:"FLOW_"`
	Stub        StubConfig    `envPrefix:"STUB_"`
}

type OtlpConfig struct {
	Endpoint string `env:"ENDPOINT"`
	Insecure bool   `env:"INSECURE"`
}

type OtelConfig struct {
	OtlpExporter OtlpConfig `envPrefix:"OTLP_EXPORTER_"`
	Disable      bool       `env:"DISABLE"`
}

type RedisConfig struct {
	Addr     string `env:"ADDR"`
	Password string `env:"PASSWORD"`
	DB       int    `env:"DB"`
}

// LoginEncoding selects how the passcode is sent to the login endpoint.
type LoginEncoding string

const (
	LoginEncodingJSON      LoginEncoding = "json"
	LoginEncodingMultipart LoginEncoding = "multipart"
)

type BackendConfig struct {
	BaseURL       string        `env:"BASE_URL"`
	LoginPath     string        `env:"LOGIN_PATH"`
	SubmitPath    string        `env:"SUBMIT_PATH"`
	LoginEncoding LoginEncoding `env:"LOGIN_ENCODING"`
	// Zero disables the per-call deadline.
	Timeout time.Duration `env:"TIMEOUT"`
}

func (b BackendConfig) LoginURL() string {
	return joinURL(b.BaseURL, b.LoginPath)
}

func (b BackendConfig) SubmitURL() string {
	return joinURL(b.BaseURL, b.SubmitPath)
}

type BreakerConfig struct {
	Enable           bool          `env:"ENABLE"`
	FailureThreshold int           `env:"FAILURE_THRESHOLD"`
	FailWindow       time.Duration `env:"FAIL_WINDOW"`
	OpenCoolDown     time.Duration `env:"OPEN_COOLDOWN"`
}

// SessionBackend names where the session identity is persisted.
type SessionBackend string

const (
	SessionBackendMemory SessionBackend = "memory"
	SessionBackendRedis  SessionBackend = "redis"
)

type SessionConfig struct {
	Backend SessionBackend `env:"BACKEND"`
	// Empty means a fresh session per process.
	ID        string        `env:"ID"`
	TTL       time.Duration `env:"TTL"`
	KeyPrefix string        `env:"KEY_PREFIX"`
}

type FlowConfig struct {
	RedirectDelay time.Duration `env:"REDIRECT_DELAY"`
}

type StubConfig struct {
	Addr      string `env:"ADDR"`
	UsersFile string `env:"USERS_FILE"`
	// Redis adds a redis ping, behind a breaker, to /status.
	Redis bool `env:"REDIS"`
}
