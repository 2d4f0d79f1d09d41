package factory

import (
	"context"
	"slices"
)

type stackKey struct{}

// inProgress returns the memo keys currently being built in this call stack,
// outermost first.
func inProgress(ctx context.Context) []string {
	stack, _ := ctx.Value(stackKey{}).([]string)
	return stack
}

func push(ctx context.Context, key string) context.Context {
	stack := inProgress(ctx)
	next := make([]string, len(stack), len(stack)+1)
	copy(next, stack)
	return context.WithValue(ctx, stackKey{}, append(next, key))
}

func building(ctx context.Context, key string) bool {
	return slices.Contains(inProgress(ctx), key)
}
