package interfaces

import (
	"context"
	"time"

	"github.com/m-mizutani/streakmon/pkg/domain/model"
)

// ActivitySource defines operations for fetching push activity
type ActivitySource interface {
	// ListPushEvents returns pushes performed by username, newest first, stopping once
	// events older than since are reached
	ListPushEvents(ctx context.Context, username string, since time.Time) ([]model.PushEvent, error)
}
