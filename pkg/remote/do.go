package remote

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const (
	maxResponseBytes = 1 << 20
	snippetLimit     = 800

	msgBreakerOpen = "service temporarily unavailable"
)

const (
	outcomeSuccess     = "success"
	outcomeHTTPError   = "http_error"
	outcomeTransport   = "transport_error"
	outcomeBadResponse = "bad_response"
	outcomeRejected    = "rejected"
)

type request struct {
	op          string
	spanName    string
	url         string
	contentType string
	body        []byte
	// decode consumes a 2xx body.
	decode func(body []byte) error
}

// do sends one request and builds every *Error the client returns.
func (s *service) do(ctx context.Context, r request) (err error) {
	if s.opts.Timeout > 0 {
		if _, hasDeadline := ctx.Deadline(); !hasDeadline {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, s.opts.Timeout)
			defer cancel()
		}
	}

	ctx, span := s.tracer.Start(ctx, r.spanName,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("remote.op", r.op)),
	)
	defer span.End()

	log := s.logger.With(
		slog.String("op", r.op),
		slog.String("url", r.url),
	)

	outcome := outcomeSuccess
	defer func() {
		if s.requests != nil {
			s.requests.Add(ctx, 1, metric.WithAttributes(
				attribute.String("op", r.op),
				attribute.String("outcome", outcome),
			))
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, outcome)
		}
	}()

	if s.opts.Breaker != nil {
		if berr := s.opts.Breaker.Allow(ctx); berr != nil {
			outcome = outcomeRejected
			log.Warn("remote call blocked by circuit breaker", slog.Any("error", berr))
			return &Error{Op: r.op, Message: msgBreakerOpen, Err: berr}
		}
	}

	req, rerr := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(r.body))
	if rerr != nil {
		outcome = outcomeTransport
		log.Error("remote create request failed", slog.Any("error", rerr))
		return &Error{Op: r.op, Message: rerr.Error(), Err: rerr}
	}

	req.Header.Set("Content-Type", r.contentType)
	req.Header.Set("Accept", "application/json")

	log.Debug("remote request prepared",
		slog.String("method", req.Method),
		slog.String("host", req.URL.Host),
		slog.String("path", req.URL.Path),
	)

	start := time.Now()
	resp, derr := s.client.Do(req)
	latency := time.Since(start)

	if derr != nil {
		outcome = outcomeTransport
		s.reportFailure(ctx)
		log.Error("remote request failed",
			slog.Any("error", derr),
			slog.Duration("latency", latency),
		)
		return &Error{Op: r.op, Message: transportMessage(derr), Err: derr}
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	respBytes, berr := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if berr != nil {
		outcome = outcomeTransport
		s.reportFailure(ctx)
		log.Error("remote read body failed",
			slog.Int("status", resp.StatusCode),
			slog.Any("error", berr),
		)
		return &Error{Op: r.op, Message: transportMessage(berr), Err: berr}
	}

	log.Info("remote response received",
		slog.Int("status", resp.StatusCode),
		slog.String("content_type", resp.Header.Get("Content-Type")),
		slog.Duration("latency", latency),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		outcome = outcomeHTTPError
		if resp.StatusCode >= http.StatusInternalServerError {
			s.reportFailure(ctx)
		} else {
			s.reportSuccess(ctx)
		}

		message := strings.TrimSpace(string(respBytes))

		snippet := message
		if len(snippet) > snippetLimit {
			snippet = snippet[:snippetLimit] + "..."
		}
		log.Warn("remote non-2xx",
			slog.Int("status", resp.StatusCode),
			slog.String("body_snippet", snippet),
		)

		if message == "" {
			message = fmt.Sprintf("Erreur %d", resp.StatusCode)
		}
		return &Error{Op: r.op, Status: resp.StatusCode, Message: message}
	}

	s.reportSuccess(ctx)

	if r.decode == nil {
		return nil
	}
	if derr := r.decode(respBytes); derr != nil {
		outcome = outcomeBadResponse
		log.Error("remote decode failed", slog.Any("error", derr))
		return &Error{
			Op:      r.op,
			Status:  resp.StatusCode,
			Message: fmt.Sprintf("unexpected %s response", r.op),
			Err:     derr,
		}
	}

	log.Debug("remote response decoded successfully")
	return nil
}

func (s *service) reportSuccess(ctx context.Context) {
	if s.opts.Breaker != nil {
		s.opts.Breaker.OnSuccess(ctx)
	}
}

func (s *service) reportFailure(ctx context.Context) {
	if s.opts.Breaker != nil {
		s.opts.Breaker.OnFailure(ctx)
	}
}

// transportMessage drops the method and URL net/http prefixes onto
// transport errors.
func transportMessage(err error) string {
	var uerr *url.Error
	if errors.As(err, &uerr) && uerr.Err != nil {
		return uerr.Err.Error()
	}
	return err.Error()
}
