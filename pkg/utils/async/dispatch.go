package async

import (
	"context"
	"runtime/debug"

	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/streakmon/pkg/utils/errutil"
)

// Dispatch runs handler in a new goroutine. The handler context keeps the logger and
// Sentry hub of ctx but is not cancelled with it, so a run outlives the request that
// triggered it. Errors and panics are logged and reported through errutil.
func Dispatch(ctx context.Context, handler func(ctx context.Context) error) {
	newCtx := newBackgroundContext(ctx)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				errutil.Handle(newCtx, "panic in background run", goerr.New("panic",
					goerr.V("recover", r),
					goerr.V("stack", string(debug.Stack())),
				))
			}
		}()

		if err := handler(newCtx); err != nil {
			errutil.Handle(newCtx, "background run failed", err)
		}
	}()
}

func newBackgroundContext(ctx context.Context) context.Context {
	newCtx := context.Background()
	newCtx = ctxlog.With(newCtx, ctxlog.From(ctx))
	if hub := sentry.GetHubFromContext(ctx); hub != nil {
		newCtx = sentry.SetHubOnContext(newCtx, hub)
	}
	return newCtx
}
