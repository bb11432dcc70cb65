package host

import "context"

type activeContext struct {
	context.Context
	context.CancelFunc
}

func newActiveContext(ctx context.Context, cancel context.CancelFunc) *activeContext {
	return &activeContext{Context: ctx, CancelFunc: cancel}
}
