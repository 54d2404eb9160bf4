package client

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/intelluxe-ai/svclink/audit"
	"github.com/intelluxe-ai/svclink/auth"
	"github.com/intelluxe-ai/svclink/breaker"
	"github.com/intelluxe-ai/svclink/policy"
)

// Client is the resilient inter-service client. One Client serves calls to
// every service in its policy store, sharing a breaker registry across all
// concurrent callers.
type Client struct {
	policies  *policy.Store
	breakers  *breaker.Registry
	transport Transport
	sink      audit.Sink
	tokens    auth.TokenSource
	tracer    trace.Tracer

	// sleep is overridable by tests to avoid real backoff waits.
	sleep func(ctx context.Context, d time.Duration) error
}

// Option configures a Client.
type Option func(*Client)

// WithTransport overrides the default HTTP transport.
func WithTransport(t Transport) Option {
	return func(c *Client) {
		c.transport = t
	}
}

// WithAuditSink sets the sink receiving one record per attempt.
func WithAuditSink(s audit.Sink) Option {
	return func(c *Client) {
		c.sink = s
	}
}

// WithBreakerRegistry injects a shared or pre-configured breaker registry.
func WithBreakerRegistry(r *breaker.Registry) Option {
	return func(c *Client) {
		c.breakers = r
	}
}

// WithTokenSource attaches a service-identity bearer token to every attempt.
func WithTokenSource(src auth.TokenSource) Option {
	return func(c *Client) {
		c.tokens = src
	}
}

// WithTracer records one span per logical call.
func WithTracer(t trace.Tracer) Option {
	return func(c *Client) {
		c.tracer = t
	}
}

// New creates a client over the given policy store.
func New(policies *policy.Store, opts ...Option) *Client {
	c := &Client{
		policies:  policies,
		breakers:  breaker.NewRegistry(),
		transport: NewHTTPTransport(),
		sink:      audit.NopSink{},
		sleep:     sleepCtx,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Breakers returns the client's breaker registry, e.g. for health rollups.
func (c *Client) Breakers() *breaker.Registry {
	return c.breakers
}

// Call performs one logical call against the named service: it looks up the
// policy, gates each attempt on the circuit breaker, bounds each attempt by
// the per-attempt timeout, retries transient failures with backoff, and
// emits one audit record per attempt.
//
// Failures come back as a *CallError value; the only panics out of Call are
// programming errors. The caller's ctx caps the whole call including
// backoff waits: when it expires mid-retry the call returns
// KindExhaustedRetries instead of starting another attempt.
func (c *Client) Call(ctx context.Context, service string, req Request) (*Response, error) {
	if c.tracer == nil {
		return c.call(ctx, service, req)
	}

	ctx, span := c.tracer.Start(ctx, "svclink.call",
		trace.WithAttributes(attribute.String("svclink.service", service)))
	defer span.End()

	resp, err := c.call(ctx, service, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		var ce *CallError
		if errors.As(err, &ce) {
			span.SetAttributes(
				attribute.String("svclink.kind", ce.Kind.String()),
				attribute.Int("svclink.attempts", ce.Attempts),
			)
		}
		return nil, err
	}
	span.SetStatus(codes.Ok, "")
	return resp, nil
}

func (c *Client) call(ctx context.Context, service string, req Request) (*Response, error) {
	pol, err := c.policies.Get(service)
	if err != nil {
		return nil, &CallError{Service: service, Kind: KindUnknownService, Err: err}
	}

	br := c.breakers.Get(service, breaker.Config{
		FailureThreshold: pol.FailureThreshold,
		RecoveryTimeout:  pol.RecoveryTimeout,
	})
	retry := retryPolicyFor(pol)

	var token string
	if c.tokens != nil {
		token, err = c.tokens.Token(ctx)
		if err != nil {
			return nil, &CallError{Service: service, Kind: KindConnection, Err: err}
		}
	}

	attempts := 0
	for attempt := 0; ; attempt++ {
		started := time.Now()

		if err := br.Allow(); err != nil {
			c.emit(ctx, audit.Record{
				Service:      service,
				Attempt:      attempt,
				Outcome:      OutcomeCircuitOpen.String(),
				BreakerState: br.State().String(),
				Timestamp:    started,
				Err:          err.Error(),
			})
			return nil, &CallError{Service: service, Kind: KindCircuitOpen, Attempts: attempts, Err: err}
		}

		resp, tErr := c.roundTrip(ctx, pol, req, token)
		attempts++
		duration := time.Since(started)
		outcome := classify(ctx, resp, tErr)

		switch outcome {
		case OutcomeSuccess:
			br.RecordSuccess()
		case OutcomePermanent:
			br.RecordPermanent()
		case OutcomeCanceled:
			br.RecordCanceled()
		default:
			br.RecordFailure()
		}

		rec := audit.Record{
			Service:      service,
			Attempt:      attempt,
			Outcome:      outcome.String(),
			BreakerState: br.State().String(),
			Duration:     duration,
			Timestamp:    started,
		}
		if resp != nil {
			rec.StatusCode = resp.StatusCode
		}
		if tErr != nil {
			rec.Err = tErr.Error()
		}
		c.emit(ctx, rec)

		switch outcome {
		case OutcomeSuccess:
			return resp, nil

		case OutcomePermanent:
			return nil, &CallError{
				Service:    service,
				Kind:       KindUpstream,
				StatusCode: resp.StatusCode,
				Attempts:   attempts,
			}

		case OutcomeCanceled:
			return nil, &CallError{
				Service:  service,
				Kind:     KindExhaustedRetries,
				Cause:    causeForContext(ctx),
				Attempts: attempts,
				Err:      ctx.Err(),
			}
		}

		lastStatus := 0
		if resp != nil {
			lastStatus = resp.StatusCode
		}

		retryNum := attempt + 1
		if !retry.ShouldRetry(retryNum, outcome) {
			return nil, &CallError{
				Service:    service,
				Kind:       KindExhaustedRetries,
				Cause:      causeForOutcome(outcome, tErr),
				StatusCode: lastStatus,
				Attempts:   attempts,
				Err:        tErr,
			}
		}

		if sErr := c.sleep(ctx, retry.DelayFor(retryNum)); sErr != nil {
			// Overall deadline or cancellation hit mid-backoff.
			return nil, &CallError{
				Service:    service,
				Kind:       KindExhaustedRetries,
				Cause:      causeForOutcome(outcome, tErr),
				StatusCode: lastStatus,
				Attempts:   attempts,
				Err:        sErr,
			}
		}
	}
}

// roundTrip runs one attempt under the per-attempt timeout, attaching the
// service-identity token when configured.
func (c *Client) roundTrip(ctx context.Context, pol policy.ServicePolicy, req Request, token string) (*Response, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, pol.Timeout)
	defer cancel()

	if token != "" {
		header := make(http.Header, len(req.Header)+1)
		for k, v := range req.Header {
			header[k] = v
		}
		header.Set("Authorization", "Bearer "+token)
		req.Header = header
	}

	return c.transport.RoundTrip(attemptCtx, pol.BaseURL, req)
}

// emit forwards the record to the audit sink. Sinks are fire-and-forget: a
// panicking sink must not fail the caller's result.
func (c *Client) emit(ctx context.Context, rec audit.Record) {
	defer func() {
		_ = recover()
	}()
	c.sink.Emit(ctx, rec)
}

// causeForOutcome maps the last transient outcome to its diagnostic kind.
func causeForOutcome(outcome Outcome, err error) Kind {
	if outcome == OutcomeTimeout {
		return KindTimeout
	}
	if err != nil {
		return KindConnection
	}
	// Transient without a transport error means a 5xx response.
	return KindUpstream
}

// causeForContext maps a dead caller context to a diagnostic kind.
func causeForContext(ctx context.Context) Kind {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return KindTimeout
	}
	return KindConnection
}

// sleepCtx waits for d or until ctx is done, whichever comes first.
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
