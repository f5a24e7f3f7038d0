package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/streakmon/pkg/domain/model"
	"github.com/urfave/cli/v3"
)

func cmdCheck() *cli.Command {
	streakCfg := streakConfig{dryRun: true}

	return &cli.Command{
		Name:   "check",
		Usage:  "Evaluate today's window and print the result without sending mail",
		Flags:  streakCfg.flags(),
		Before: streakCfg.loadFile,
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx = ctxlog.With(ctx, ctxlog.From(ctx).With("run_id", uuid.NewString()))

			uc, window, err := streakCfg.build(ctx)
			if err != nil {
				return err
			}

			result, err := uc.Check(ctx)
			if err != nil {
				return err
			}

			printResult(c.Root().Writer, result, window)
			return nil
		},
	}
}

func printResult(w io.Writer, result *model.CheckResult, window model.CheckWindow) {
	bold := color.New(color.Bold)
	good := color.New(color.FgGreen, color.Bold)
	bad := color.New(color.FgRed, color.Bold)
	dim := color.New(color.Faint)

	_, _ = bold.Fprintf(w, "%s  %s\n", result.Date, window.String())
	if result.HadCommitInWindow {
		_, _ = good.Fprintf(w, "FIRE  %d push(es) in window\n", len(result.Pushes))
	} else {
		_, _ = bad.Fprintln(w, "ALERT  no push in window")
	}

	for _, p := range result.Pushes {
		_, _ = fmt.Fprintf(w, "  %s  %s\n", p.CreatedAt.In(window.Location).Format("15:04:05 MST"), p.Repo)
	}
	for _, p := range result.Skipped {
		_, _ = dim.Fprintf(w, "  %s  %s (outside window)\n", p.CreatedAt.In(window.Location).Format("2006-01-02 15:04:05 MST"), p.Repo)
	}
}
