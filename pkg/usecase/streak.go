package usecase

import (
	"context"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/streakmon/pkg/domain/interfaces"
	"github.com/m-mizutani/streakmon/pkg/domain/model"
	"github.com/m-mizutani/streakmon/pkg/domain/types"
)

// Settings holds the immutable per-process parameters of the daily check
type Settings struct {
	Username string
	Window   model.CheckWindow
	From     string
	To       string
	Policy   model.NotifyPolicy
	Clock    func() time.Time
}

type streakCheck struct {
	activity interfaces.ActivitySource
	notifier interfaces.Notifier
	composer *Composer
	settings Settings
}

// NewStreakCheck creates the daily check use case
func NewStreakCheck(activity interfaces.ActivitySource, notifier interfaces.Notifier, settings Settings) (interfaces.StreakCheckUseCase, error) {
	if settings.Username == "" {
		return nil, goerr.New("GitHub username is required", goerr.T(types.ErrTagConfig))
	}
	if settings.Window.Location == nil {
		return nil, goerr.New("check window is not configured", goerr.T(types.ErrTagConfig))
	}
	if settings.Policy == "" {
		settings.Policy = model.NotifyAlways
	}
	if settings.Clock == nil {
		settings.Clock = time.Now
	}

	composer, err := NewComposer(settings.From, settings.To, settings.Window)
	if err != nil {
		return nil, err
	}

	return &streakCheck{
		activity: activity,
		notifier: notifier,
		composer: composer,
		settings: settings,
	}, nil
}

// Check queries push activity and evaluates today's window
func (uc *streakCheck) Check(ctx context.Context) (*model.CheckResult, error) {
	logger := ctxlog.From(ctx)

	now := uc.settings.Clock()
	window := uc.settings.Window
	start, end := window.Bounds(now)

	logger.Info("Checking pushes",
		"username", uc.settings.Username,
		"date", window.Date(now),
		"window", window.String(),
		"window_start_utc", start.UTC().Format(time.RFC3339),
		"window_end_utc", end.UTC().Format(time.RFC3339),
	)

	events, err := uc.activity.ListPushEvents(ctx, uc.settings.Username, start)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query push activity",
			goerr.V("username", uc.settings.Username),
			goerr.T(types.ErrTagActivitySource),
		)
	}

	result := window.Evaluate(now, uc.settings.Username, events)

	for _, p := range result.Pushes {
		logger.Info("Push in window",
			"repo", p.Repo,
			"local_time", p.CreatedAt.In(window.Location).Format(time.DateTime),
		)
	}
	for _, p := range result.Skipped {
		logger.Debug("Push outside window",
			"repo", p.Repo,
			"local_time", p.CreatedAt.In(window.Location).Format(time.DateTime),
			"after_window", !p.CreatedAt.Before(end),
		)
	}

	logger.Info("Window evaluated",
		"had_commit", result.HadCommitInWindow,
		"pushes_in_window", len(result.Pushes),
		"pushes_outside_window", len(result.Skipped),
	)

	return result, nil
}

// Run performs Check and sends the status mail. An activity failure never produces a
// "no commits" mail.
func (uc *streakCheck) Run(ctx context.Context) (*model.CheckResult, error) {
	logger := ctxlog.From(ctx)

	result, err := uc.Check(ctx)
	if err != nil {
		return nil, err
	}

	if !uc.settings.Policy.ShouldNotify(result) {
		logger.Info("Notification skipped by policy",
			"policy", uc.settings.Policy,
			"variant", result.Variant(),
		)
		return result, nil
	}

	msg, err := uc.composer.Compose(result)
	if err != nil {
		return result, goerr.Wrap(err, "failed to compose status message")
	}

	logger.Info("Sending status mail",
		"variant", result.Variant(),
		"to", msg.To,
		"subject", msg.Subject,
	)

	if err := uc.notifier.Send(ctx, msg); err != nil {
		return result, goerr.Wrap(err, "failed to deliver status mail",
			goerr.V("to", msg.To),
			goerr.V("had_commit", result.HadCommitInWindow),
			goerr.T(types.ErrTagNotification),
		)
	}

	result.Notified = true
	return result, nil
}
