package errutil

import (
	"context"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/streakmon/pkg/domain/types"
)

// Handle logs err and reports it to Sentry when a client is configured
func Handle(ctx context.Context, msg string, err error) {
	if err == nil {
		return
	}

	category := types.Category(err)
	ctxlog.From(ctx).Error(msg,
		"error", err,
		"category", category,
	)

	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		hub = sentry.CurrentHub()
	}
	if hub.Client() == nil {
		return
	}

	hub = hub.Clone()
	hub.ConfigureScope(func(scope *sentry.Scope) {
		scope.SetTag("category", category)
		scope.SetTag("message", msg)
		if values := goerr.Values(err); len(values) > 0 {
			scope.SetContext("goerr", sentry.Context(values))
		}
	})

	if evID := hub.CaptureException(err); evID != nil {
		ctxlog.From(ctx).Info("Error reported to Sentry", "event_id", *evID)
	}
}

// Flush waits for buffered Sentry events; call before a short-lived process exits
func Flush() {
	sentry.Flush(2 * time.Second)
}
