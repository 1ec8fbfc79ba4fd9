package usecase

import (
	"context"

	"github.com/riskibarqy/fantasy-roster/internal/domain/roster"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var usecaseTracer = otel.Tracer("fantasy-roster/internal/usecase")

// startUsecaseSpan opens a child span only when the caller is already traced.
// Untraced callers such as the CLI get back the invalid span from ctx, whose
// End is a no-op.
func startUsecaseSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	parent := trace.SpanFromContext(ctx)
	if !parent.SpanContext().IsValid() {
		return ctx, parent
	}
	return usecaseTracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func leagueAttr(leagueID string) attribute.KeyValue {
	return attribute.String("roster.league_id", leagueID)
}

func memberAttr(ref roster.Ref) attribute.KeyValue {
	return attribute.String("roster.member_id", ref.ID)
}
