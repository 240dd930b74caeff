package infrastructure

import (
	"context"

	"github.com/google/uuid"
)

// GenerateTraceID creates a new unique trace ID using UUID v4
func GenerateTraceID() string {
	return uuid.New().String()
}

// EnsureTraceID ensures the context has a trace ID, generating one if needed
func EnsureTraceID(ctx context.Context) context.Context {
	if GetTraceID(ctx) == "" {
		return WithTraceID(ctx, GenerateTraceID())
	}
	return ctx
}

// NewRunContext tags ctx with a fresh run ID and returns it with the ID
func NewRunContext(ctx context.Context) (context.Context, string) {
	runID := uuid.New().String()
	return WithRunID(ctx, runID), runID
}
