// Package client holds HTTP clients for calling sibling services.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/spec-kit/org-services/internal/api/dto"
	"github.com/spec-kit/org-services/internal/config"
	"github.com/spec-kit/org-services/internal/observability"
)

const dependencyName = "department-service"

// maxBodyBytes caps how much of a department response is decoded.
const maxBodyBytes = 1 << 20

var (
	// ErrDepartmentNotFound means the department service answered 404.
	ErrDepartmentNotFound = errors.New("department not found")
	// ErrDepartmentUnavailable covers timeouts, transport failures, 5xx
	// answers, undecodable bodies and an open circuit.
	ErrDepartmentUnavailable = errors.New("department service unavailable")
)

var tracer = otel.Tracer("github.com/spec-kit/org-services/internal/client")

// DepartmentClient looks departments up by code over HTTP.
type DepartmentClient struct {
	baseURL string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker
	logger  *zap.Logger
	metrics *observability.Metrics
}

// NewDepartmentClient builds a client from configuration. metrics may be nil.
func NewDepartmentClient(cfg config.DepartmentClientConfig, logger *zap.Logger, metrics *observability.Metrics) *DepartmentClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &DepartmentClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: cfg.Timeout()},
		logger:  logger,
		metrics: metrics,
	}
	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        dependencyName,
		MaxRequests: cfg.BreakerMaxRequests,
		Interval:    time.Duration(cfg.BreakerIntervalSeconds) * time.Second,
		Timeout:     time.Duration(cfg.BreakerTimeoutSeconds) * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.BreakerMinRequests {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return ratio >= cfg.BreakerFailureRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
		// A 404 is a valid answer from a healthy service.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrDepartmentNotFound)
		},
	})
	return c
}

// GetByCode fetches the department with the given code. Errors wrap either
// ErrDepartmentNotFound or ErrDepartmentUnavailable.
func (c *DepartmentClient) GetByCode(ctx context.Context, code string) (*dto.DepartmentDTO, error) {
	ctx, span := tracer.Start(ctx, "DepartmentClient.GetByCode",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("department.code", code)),
	)
	defer span.End()

	if strings.TrimSpace(code) == "" {
		return nil, ErrDepartmentNotFound
	}

	start := time.Now()
	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.fetch(ctx, code)
	})
	elapsed := time.Since(start)

	switch {
	case err == nil:
		c.metrics.RecordDependency(dependencyName, "ok", elapsed)
		return result.(*dto.DepartmentDTO), nil
	case errors.Is(err, ErrDepartmentNotFound):
		c.metrics.RecordDependency(dependencyName, "not_found", elapsed)
		return nil, err
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		c.metrics.RecordDependency(dependencyName, "rejected", elapsed)
		err = fmt.Errorf("%w: %w", ErrDepartmentUnavailable, err)
	default:
		c.metrics.RecordDependency(dependencyName, "error", elapsed)
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, "department lookup failed")
	return nil, err
}

func (c *DepartmentClient) fetch(ctx context.Context, code string) (*dto.DepartmentDTO, error) {
	endpoint := c.baseURL + "/api/departments/code/" + url.PathEscape(code)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %w", ErrDepartmentUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")
	if id := observability.RequestIDFromContext(ctx); id != "" {
		req.Header.Set(observability.RequestIDHeader, id)
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDepartmentUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return nil, fmt.Errorf("%w: code %s", ErrDepartmentNotFound, code)
	case resp.StatusCode != http.StatusOK:
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return nil, fmt.Errorf("%w: unexpected status %d", ErrDepartmentUnavailable, resp.StatusCode)
	}

	var envelope struct {
		Data *dto.DepartmentDTO `json:"data"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("%w: decode body: %w", ErrDepartmentUnavailable, err)
	}
	if envelope.Data == nil {
		return nil, fmt.Errorf("%w: empty body", ErrDepartmentUnavailable)
	}
	return envelope.Data, nil
}
