package cli

import (
	"context"

	"github.com/google/uuid"
	"github.com/m-mizutani/ctxlog"
	"github.com/urfave/cli/v3"
)

func cmdRun() *cli.Command {
	var streakCfg streakConfig

	return &cli.Command{
		Name:   "run",
		Usage:  "Check today's pushes and send the status mail once",
		Flags:  streakCfg.flags(),
		Before: streakCfg.loadFile,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx).With("run_id", uuid.NewString())
			ctx = ctxlog.With(ctx, logger)

			uc, _, err := streakCfg.build(ctx)
			if err != nil {
				return err
			}

			result, err := uc.Run(ctx)
			if err != nil {
				return err
			}

			logger.Info("Run completed",
				"date", result.Date,
				"had_commit", result.HadCommitInWindow,
				"notified", result.Notified,
			)
			return nil
		},
	}
}
