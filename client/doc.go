// Package client implements the resilient inter-service HTTP client used by
// the platform's business services to call their downstream dependencies
// (insurance verification, billing, compliance, personalization).
//
// One logical Call composes, per attempt:
//
//  1. Policy lookup (unknown service is a configuration error, not retried).
//  2. Circuit breaker gate (open circuits fail fast, no transport call).
//  3. Per-attempt timeout from the service policy.
//  4. Outcome classification: 2xx succeeds; 4xx is permanent and never
//     retried (and never counts against the breaker); 5xx, network errors
//     and timeouts are transient and retried with exponential backoff and
//     jitter.
//  5. One audit record per attempt, including breaker rejections.
//
// Failures are returned as *CallError values. A KindCircuitOpen or
// KindExhaustedRetries result means the dependency is temporarily
// unavailable: degrade gracefully, do not crash.
//
//	store, _ := policy.LoadFile("services.yaml")
//	c := client.New(store,
//	    client.WithAuditSink(audit.NewLoggerSink(logger)),
//	)
//
//	resp, err := c.Call(ctx, "insurance-verification", client.Request{
//	    Method: http.MethodPost,
//	    Path:   "/v1/verify",
//	    Body:   payload,
//	})
package client
