package telemetry

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

const (
	tracerName = "coachbook-api"

	TraceIDHeader = "X-Trace-ID"

	AttrCategory   = attribute.Key("coachbook.category")
	AttrResourceID = attribute.Key("coachbook.resource_id")
)

// SpanEnricher returns extra attributes for the server span. It runs after
// the handler chain, so route params and locals are populated.
type SpanEnricher func(c *fiber.Ctx) []attribute.KeyValue

// FiberMiddleware starts a server span per request, continues any incoming
// trace and names the span after the matched route.
func FiberMiddleware(enrichers ...SpanEnricher) fiber.Handler {
	tracer := otel.Tracer(tracerName)
	propagator := otel.GetTextMapPropagator()

	return func(c *fiber.Ctx) error {
		ctx := propagator.Extract(c.Context(), propagation.HeaderCarrier(c.GetReqHeaders()))

		ctx, span := tracer.Start(ctx, c.Method()+" "+c.Path(),
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				semconv.HTTPRequestMethodKey.String(c.Method()),
				semconv.URLPath(c.Path()),
				semconv.ServerAddress(c.Hostname()),
				semconv.ClientAddress(c.IP()),
				semconv.UserAgentOriginal(c.Get(fiber.HeaderUserAgent)),
			),
		)
		defer span.End()

		c.SetUserContext(ctx)
		if sc := span.SpanContext(); sc.HasTraceID() {
			c.Set(TraceIDHeader, sc.TraceID().String())
		}

		err := c.Next()

		// the matched route is only known once the handler chain ran
		route := c.Route().Path
		span.SetName(c.Method() + " " + route)

		status := c.Response().StatusCode()
		span.SetAttributes(
			semconv.HTTPRoute(route),
			semconv.HTTPResponseStatusCode(status),
			semconv.HTTPResponseBodySize(len(c.Response().Body())),
		)
		span.SetAttributes(domainAttributes(c)...)
		for _, enrich := range enrichers {
			span.SetAttributes(enrich(c)...)
		}

		switch {
		case err != nil:
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		case status >= fiber.StatusInternalServerError:
			span.SetStatus(codes.Error, fmt.Sprintf("HTTP %d", status))
		}
		return err
	}
}

// domainAttributes tags the span with the training category being queried
// and the exercise or training id being addressed.
func domainAttributes(c *fiber.Ctx) []attribute.KeyValue {
	var attrs []attribute.KeyValue
	if category := c.Query("category"); category != "" {
		attrs = append(attrs, AttrCategory.String(category))
	}
	if id := c.Params("id"); id != "" {
		attrs = append(attrs, AttrResourceID.String(id))
	}
	return attrs
}
