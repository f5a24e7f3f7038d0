package interfaces

import (
	"context"

	"github.com/m-mizutani/streakmon/pkg/domain/model"
)

// Notifier delivers a composed message
type Notifier interface {
	Send(ctx context.Context, msg *model.Message) error
}
