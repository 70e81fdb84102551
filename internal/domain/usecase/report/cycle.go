package report

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type cycleKey struct{}

// WithCycle tags ctx with a new refresh cycle id
func WithCycle(ctx context.Context) context.Context {
	return context.WithValue(ctx, cycleKey{}, uuid.NewString())
}

func CycleID(ctx context.Context) string {
	id, _ := ctx.Value(cycleKey{}).(string)
	return id
}

// CycleField is the log field carrying the cycle id of ctx
func CycleField(ctx context.Context) zap.Field {
	if id := CycleID(ctx); id != "" {
		return zap.String("cycle_id", id)
	}
	return zap.Skip()
}
