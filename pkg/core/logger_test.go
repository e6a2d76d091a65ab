package core

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/log"
	"go.opentelemetry.io/otel/log/noop"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

type fakeOtel struct{}

func (fakeOtel) SpanFromContext(c context.Context) trace.Span {
	return trace.SpanFromContext(c)
}

func (fakeOtel) TracerProvider() trace.TracerProvider {
	return tracenoop.NewTracerProvider()
}

func (fakeOtel) MeterProvider() metric.MeterProvider {
	return metricnoop.NewMeterProvider()
}

func (fakeOtel) LoggerProvider() log.LoggerProvider {
	return noop.NewLoggerProvider()
}

func (fakeOtel) Shutdown(context.Context, *slog.Logger) {}

func TestNewLogger_NonProd_EmitsText(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(NewConfig(), &buf)

	logger.Info("hello")

	out := strings.TrimSpace(buf.String())
	require.NotEmpty(t, out)
	assert.False(t, strings.HasPrefix(out, "{"), out)
}

func TestNewLogger_Prod_EmitsJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(NewConfig(WithEnvironment("production")), &buf)

	logger.Info("hello")

	out := strings.TrimSpace(buf.String())
	require.NotEmpty(t, out)
	assert.True(t, strings.HasPrefix(out, "{"), out)
}

func TestNewLogger_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(NewConfig(WithLogLevel(slog.LevelWarn)), &buf)

	logger.Info("quiet")
	assert.Empty(t, buf.String())

	logger.Warn("loud")
	assert.Contains(t, buf.String(), "loud")
}

func TestNewLoggerWithOtel_StillWritesLocally(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithOtel(NewConfig(), &buf, fakeOtel{})

	logger.Info("fanned out")

	assert.Contains(t, buf.String(), "fanned out")
}
