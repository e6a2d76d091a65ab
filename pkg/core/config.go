package core

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	defaultConfigEnvironment = "development"
	defaultLogLevel          = slog.LevelInfo

	defaultOtelDisable          = true
	defaultOTLPExporterEndpoint = "localhost:4317"
	defaultOTLPInsecure         = false

	defaultRedisAddr     = "localhost:6379"
	defaultRedisPassword = ""
	defaultRedisDB       = 0

	defaultBackendBaseURL       = "https://saint-valentin-backend-tyqw.onrender.com"
	defaultBackendLoginPath     = "/login"
	defaultBackendSubmitPath    = "/submit-answers"
	defaultBackendLoginEncoding = LoginEncodingJSON
	defaultBackendTimeout       = 30 * time.Second

	defaultBreakerEnable           = false
	defaultBreakerFailureThreshold = 5
	defaultBreakerFailWindow       = 10 * time.Second
	defaultBreakerOpenCoolDown     = 30 * time.Second

	defaultSessionBackend   = SessionBackendMemory
	defaultSessionTTL       = 12 * time.Hour
	defaultSessionKeyPrefix = "session:"

	defaultFlowRedirectDelay = 2 * time.Second

	defaultStubAddr = ":8000"
)

func DefaultConfig() Config {
	return Config{
		Environment: defaultConfigEnvironment,
		LogLevel:    defaultLogLevel,
		Otel: OtelConfig{
			Disable: defaultOtelDisable,
			OtlpExporter: OtlpConfig{
				Endpoint: defaultOTLPExporterEndpoint,
				Insecure: defaultOTLPInsecure,
			},
		},
		Redis: RedisConfig{
			Addr:     defaultRedisAddr,
			Password: defaultRedisPassword,
			DB:       defaultRedisDB,
		},
		Backend: BackendConfig{
			BaseURL:       defaultBackendBaseURL,
			LoginPath:     defaultBackendLoginPath,
			SubmitPath:    defaultBackendSubmitPath,
			LoginEncoding: defaultBackendLoginEncoding,
			Timeout:       defaultBackendTimeout,
		},
		Breaker: BreakerConfig{
			Enable:           defaultBreakerEnable,
			FailureThreshold: defaultBreakerFailureThreshold,
			FailWindow:       defaultBreakerFailWindow,
			OpenCoolDown:     defaultBreakerOpenCoolDown,
		},
		Session: SessionConfig{
			Backend:   defaultSessionBackend,
			TTL:       defaultSessionTTL,
			KeyPrefix: defaultSessionKeyPrefix,
		},
		Flow: FlowConfig{
			RedirectDelay: defaultFlowRedirectDelay,
		},
		Stub: StubConfig{
			Addr: defaultStubAddr,
		},
	}
}

func NewConfig(options ...func(*Config)) Config {
	config := DefaultConfig()
	for _, opt := range options {
		opt(&config)
	}
	return config
}

// NewConfigFromEnv overlays the process environment on DefaultConfig. Unset
// variables keep their defaults.
func NewConfigFromEnv(options ...func(*Config)) (Config, error) {
	config := DefaultConfig()

	err := env.Parse(&config)
	if err != nil {
		err = fmt.Errorf("error parsing env: %w", err)
	}
	err = errors.Join(err, config.validate())

	for _, opt := range options {
		opt(&config)
	}

	return config, err
}

func (c *Config) validate() error {
	var errs error

	switch c.Backend.LoginEncoding {
	case LoginEncodingJSON, LoginEncodingMultipart:
	default:
		errs = errors.Join(errs, fmt.Errorf("unknown BACKEND_LOGIN_ENCODING %q", c.Backend.LoginEncoding))
	}

	switch c.Session.Backend {
	case SessionBackendMemory, SessionBackendRedis:
	default:
		errs = errors.Join(errs, fmt.Errorf("unknown SESSION_BACKEND %q", c.Session.Backend))
	}

	if c.Backend.Timeout < 0 {
		errs = errors.Join(errs, errors.New("BACKEND_TIMEOUT must not be negative"))
	}

	return errs
}

func LoadEnv(environment ...string) error {
	filenames := []string{
		".env.local",
		".env",
	}

	env := getEnv("ENVIRONMENT", DefaultConfig().Environment)
	if len(environment) > 0 {
		env = environment[0]
	}

	if env != "" {
		file := ".env." + env + ".local"
		filenames = append([]string{file}, filenames...)
	}

	var errs error

	for _, filename := range filenames {
		err := loadEnvFile(filename)
		if err != nil {
			errs = errors.Join(
				errs,
				fmt.Errorf("error loading %s: %w", filename, err),
			)
		}
	}

	return errs
}
