// Package observe instruments authentication with OpenTelemetry traces,
// metrics and structured logs.
//
// An Observer owns the tracer and meter providers; a Middleware built
// from it wraps each authentication attempt in a span, records attempt
// counters and latency, and emits one log line per attempt.
package observe
