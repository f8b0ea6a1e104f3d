package transition

import (
	"context"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/amp-labs/lockstate/keyguard"
)

// startTransitionSpan creates the span covering one transition instance,
// from Started through its terminal step. Uses the global tracer installed
// by github.com/amp-labs/lockstate/telemetry. The repository ends the span
// when the transition finishes or is canceled.
//
//nolint:spancheck // Span lifecycle managed by the repository (factory pattern)
func startTransitionSpan(
	ctx context.Context,
	info keyguard.TransitionInfo,
	id uuid.UUID,
) (context.Context, trace.Span) {
	tracer := otel.Tracer("lockstate/transition")

	ctx, span := tracer.Start(ctx, "transition."+string(info.From)+"_to_"+string(info.To))
	span.SetAttributes(
		attribute.String("transition_id", id.String()),
		attribute.String("from", string(info.From)),
		attribute.String("to", string(info.To)),
		attribute.String("owner", info.Owner),
		attribute.Int64("duration_ms", info.Mode.Duration.Milliseconds()),
	)

	return ctx, span
}
