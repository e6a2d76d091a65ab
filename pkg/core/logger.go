package core

import (
	"io"
	"log/slog"

	slogmulti "github.com/samber/slog-multi"
	"go.opentelemetry.io/contrib/bridges/otelslog"
)

const instrumentationName = "survey-session-client"

func newStdoutHandler(cfg Config, out io.Writer) slog.Handler {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}
	if cfg.IsProd() {
		return slog.NewJSONHandler(out, opts)
	}
	return slog.NewTextHandler(out, opts)
}

// NewLogger writes to out. The terminal client passes stderr so log lines
// never interleave with what the user is reading on stdout.
func NewLogger(cfg Config, out io.Writer) *slog.Logger {
	stdoutHandler := newStdoutHandler(cfg, out)
	return slog.New(stdoutHandler)
}

func NewLoggerWithOtel(cfg Config, out io.Writer, otel OtelService) *slog.Logger {
	stdoutHandler := newStdoutHandler(cfg, out)
	otelHandler := otelslog.NewHandler(
		instrumentationName,
		otelslog.WithLoggerProvider(otel.LoggerProvider()),
	)

	return slog.New(
		slogmulti.Fanout(
			stdoutHandler,
			otelHandler,
		),
	)
}
