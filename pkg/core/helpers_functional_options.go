package core

import (
	"log/slog"
	"time"
)

func WithEnvironment(environment string) func(*Config) {
	return func(c *Config) {
		c.Environment = environment
	}
}

func WithLogLevel(level slog.Level) func(*Config) {
	return func(c *Config) {
		c.LogLevel = level
	}
}

func WithRedisAddr(addr string) func(*Config) {
	return func(c *Config) {
		c.Redis.Addr = addr
	}
}

func WithRedisPassword(pw string) func(*Config) {
	return func(c *Config) {
		c.Redis.Password = pw
	}
}

func WithRedisDB(db int) func(*Config) {
	return func(c *Config) {
		c.Redis.DB = db
	}
}

func WithOtlpEndpoint(endpoint string) func(*Config) {
	return func(c *Config) {
		c.Otel.OtlpExporter.Endpoint = endpoint
	}
}

func WithOtlpInsecure(insecure bool) func(*Config) {
	return func(c *Config) {
		c.Otel.OtlpExporter.Insecure = insecure
	}
}

func WithOtelDisable(value ...bool) func(*Config) {
	val := true
	if len(value) > 0 {
		val = value[0]
	}

	return func(c *Config) {
		c.Otel.Disable = val
	}
}

func WithBackendURL(baseURL string) func(*Config) {
	return func(c *Config) {
		c.Backend.BaseURL = baseURL
	}
}

func WithLoginEncoding(encoding LoginEncoding) func(*Config) {
	return func(c *Config) {
		c.Backend.LoginEncoding = encoding
	}
}

func WithBackendTimeout(timeout time.Duration) func(*Config) {
	return func(c *Config) {
		c.Backend.Timeout = timeout
	}
}

func WithBreaker(value ...bool) func(*Config) {
	val := true
	if len(value) > 0 {
		val = value[0]
	}

	return func(c *Config) {
		c.Breaker.Enable = val
	}
}

func WithSessionBackend(backend SessionBackend) func(*Config) {
	return func(c *Config) {
		c.Session.Backend = backend
	}
}

func WithSessionID(id string) func(*Config) {
	return func(c *Config) {
		c.Session.ID = id
	}
}

func WithRedirectDelay(delay time.Duration) func(*Config) {
	return func(c *Config) {
		c.Flow.RedirectDelay = delay
	}
}

func WithStubUsersFile(path string) func(*Config) {
	return func(c *Config) {
		c.Stub.UsersFile = path
	}
}
