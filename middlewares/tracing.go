package middlewares

import (
	"net/http"

	"github.com/strada-dev/strada"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// tracerName identifies spans created by the Tracing middleware.
const tracerName = "github.com/strada-dev/strada/middlewares"

// TracingConfig configures the Tracing middleware behaviour.
type TracingConfig struct {
	// TracerProvider supplies the tracer. Defaults to the global
	// provider when nil.
	TracerProvider trace.TracerProvider

	// Propagators extract the incoming trace context. Defaults to the
	// global propagator when nil.
	Propagators propagation.TextMapPropagator

	// SkipPaths lists request paths that are never traced.
	SkipPaths []string
}

// Tracing returns a middleware that opens an OpenTelemetry server span
// around the rest of the chain. Spans are named "METHOD pattern" once
// the route is known; the trace context from the incoming headers is
// attached to the request so downstream clients continue the trace.
func Tracing(cfg TracingConfig) strada.HandlerFunc {
	provider := cfg.TracerProvider
	if provider == nil {
		provider = otel.GetTracerProvider()
	}
	propagators := cfg.Propagators
	if propagators == nil {
		propagators = otel.GetTextMapPropagator()
	}

	tracer := provider.Tracer(tracerName)

	skip := make(map[string]bool, len(cfg.SkipPaths))
	for _, p := range cfg.SkipPaths {
		skip[p] = true
	}

	return func(c *strada.Context) error {
		if skip[c.Path()] {
			return c.Next()
		}

		req := c.Request()
		ctx := propagators.Extract(req.Context(), propagation.HeaderCarrier(req.Header))

		ctx, span := tracer.Start(ctx, c.Method()+" "+c.Path(),
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.method", c.Method()),
				attribute.String("http.target", c.Path()),
				attribute.String("http.host", req.Host),
				attribute.String("http.user_agent", req.UserAgent()),
			),
		)
		defer span.End()

		c.SetRequest(req.WithContext(ctx))

		err := c.Next()

		if pattern := c.MatchedPattern(); pattern != "" {
			span.SetName(c.Method() + " " + pattern)
			span.SetAttributes(attribute.String("http.route", pattern))
		}
		if resp := c.Response(); resp != nil {
			span.SetAttributes(attribute.Int("http.status_code", resp.Status()))
			if resp.Status() >= http.StatusInternalServerError {
				span.SetStatus(codes.Error, http.StatusText(resp.Status()))
			}
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		return err
	}
}
