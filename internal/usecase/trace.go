package usecase

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

func startUsecaseSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	tracer := otel.Tracer("fantasy-hockey/internal/usecase")
	return tracer.Start(ctx, name)
}
