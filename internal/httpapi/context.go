package httpapi

import "context"

// withBase derives a context from ctx that is also canceled once base is done,
// so server shutdown stops in-flight runs. A nil base only adds a cancel func.
func withBase(base, ctx context.Context) (context.Context, context.CancelFunc) {
	joined, cancel := context.WithCancel(ctx)
	if base == nil {
		return joined, cancel
	}
	stop := context.AfterFunc(base, cancel)
	return joined, func() {
		stop()
		cancel()
	}
}
