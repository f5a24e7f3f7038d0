package cli

import (
	"context"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/streakmon/pkg/cli/config"
	"github.com/m-mizutani/streakmon/pkg/domain/interfaces"
	"github.com/m-mizutani/streakmon/pkg/domain/model"
	"github.com/m-mizutani/streakmon/pkg/usecase"
	"github.com/urfave/cli/v3"
)

// streakConfig gathers the settings of the daily check shared by all commands
type streakConfig struct {
	github config.GitHub
	smtp   config.SMTP
	mail   config.Mail
	window config.Window

	// dryRun skips mail and SMTP settings; the use case must not be Run
	dryRun bool
}

func (x *streakConfig) flags() []cli.Flag {
	var flags []cli.Flag
	flags = append(flags, x.github.Flags()...)
	flags = append(flags, x.window.Flags()...)
	if !x.dryRun {
		flags = append(flags, x.mail.Flags()...)
		flags = append(flags, x.smtp.Flags()...)
	}
	return flags
}

// loadFile applies the --config file of the root command to cmd
func (x *streakConfig) loadFile(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	path := cmd.String("config")
	if path == "" {
		return ctx, nil
	}

	f, err := config.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := f.Apply(cmd); err != nil {
		return nil, err
	}

	ctxlog.From(ctx).Debug("Config file applied", "path", path)
	return ctx, nil
}

// build validates every setting and wires the use case. Nothing touches the network
// before all settings are valid. The validated window is returned for display.
func (x *streakConfig) build(ctx context.Context) (interfaces.StreakCheckUseCase, model.CheckWindow, error) {
	window, policy, err := x.window.Build()
	if err != nil {
		return nil, model.CheckWindow{}, err
	}

	if !x.dryRun {
		if err := x.mail.Validate(); err != nil {
			return nil, model.CheckWindow{}, err
		}
	}

	activity, err := x.github.NewClient()
	if err != nil {
		return nil, model.CheckWindow{}, err
	}

	var notifier interfaces.Notifier
	if !x.dryRun {
		notifier, err = x.smtp.NewClient(x.mail.From)
		if err != nil {
			return nil, model.CheckWindow{}, err
		}
	}

	ctxlog.From(ctx).Debug("Configuration loaded",
		"github", x.github,
		"smtp", x.smtp,
		"mail", x.mail,
		"window", window.String(),
		"policy", policy,
	)

	uc, err := usecase.NewStreakCheck(activity, notifier, usecase.Settings{
		Username: x.github.Username,
		Window:   window,
		From:     x.mail.From,
		To:       x.mail.To,
		Policy:   policy,
	})
	if err != nil {
		return nil, model.CheckWindow{}, err
	}
	return uc, window, nil
}
