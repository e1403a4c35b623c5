package block

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/dangdungcntt/go-block"

func defaultTracer() trace.Tracer {
	return otel.Tracer(tracerName)
}

func (s *Session) startSpan(ctx context.Context, op, view string) (context.Context, trace.Span) {
	return s.engine.tracer.Start(ctx, "block."+op,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("block.view", view),
			attribute.Int("block.depth", len(s.frames)),
		),
	)
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
