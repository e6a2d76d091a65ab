package remote

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/DSACMS/survey-session-client/pkg/circuitbreaker"
	"github.com/DSACMS/survey-session-client/pkg/core"
	"github.com/DSACMS/survey-session-client/pkg/identity"
	"github.com/DSACMS/survey-session-client/pkg/survey"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const scopeName = "github.com/DSACMS/survey-session-client/pkg/remote"

// DefaultSubmissionMessage is shown when the backend confirms a submission
// without a message of its own.
const DefaultSubmissionMessage = "Answers saved successfully!"

// Client performs the two backend calls the flows need. Every error it
// returns is a *Error.
type Client interface {
	Login(ctx context.Context, password string) (identity.Identity, error)
	SubmitAnswers(ctx context.Context, payload survey.SubmissionPayload) (SubmissionResult, error)
}

type SubmissionResult struct {
	Message string
}

type HTTPTransport interface {
	Do(req *http.Request) (*http.Response, error)
}

type Options struct {
	// Override for testing the HTTP client
	HTTPClient HTTPTransport
	// Structured logger using slog package
	Logger *slog.Logger
	// Per-call deadline, applied when the caller's context has none
	Timeout time.Duration
	// Optional; nil sends every request
	Breaker circuitbreaker.Breaker
	// Defaults to the global providers
	TracerProvider trace.TracerProvider
	MeterProvider  metric.MeterProvider
}

type service struct {
	cfg      core.BackendConfig
	client   HTTPTransport
	logger   *slog.Logger
	opts     Options
	tracer   trace.Tracer
	requests metric.Int64Counter
}

func New(cfg core.BackendConfig, opts Options) Client {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	logger = logger.With(
		slog.String("component", "remote"),
	)

	tp := opts.TracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}

	mp := opts.MeterProvider
	if mp == nil {
		mp = otel.GetMeterProvider()
	}

	client := opts.HTTPClient
	if client == nil {
		client = instrumentedHTTPClient(tp, mp)
	}

	requests, err := mp.Meter(scopeName).Int64Counter(
		"remote.requests",
		metric.WithDescription("Backend calls by operation and outcome"),
	)
	if err != nil {
		logger.Warn("remote request counter unavailable", slog.Any("error", err))
	}

	return &service{
		cfg:      cfg,
		client:   client,
		logger:   logger,
		opts:     opts,
		tracer:   tp.Tracer(scopeName),
		requests: requests,
	}
}

func instrumentedHTTPClient(tp trace.TracerProvider, mp metric.MeterProvider) *http.Client {
	return &http.Client{
		Transport: otelhttp.NewTransport(
			http.DefaultTransport,
			otelhttp.WithTracerProvider(tp),
			otelhttp.WithMeterProvider(mp),
		),
	}
}
