package interfaces

import (
	"context"

	"github.com/m-mizutani/streakmon/pkg/domain/model"
)

// StreakCheckUseCase defines the daily check operations
type StreakCheckUseCase interface {
	// Check queries activity and evaluates the window without sending mail
	Check(ctx context.Context) (*model.CheckResult, error)

	// Run performs Check and delivers the status mail according to the notify policy
	Run(ctx context.Context) (*model.CheckResult, error)
}
