package cli

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/streakmon/pkg/cli/config"
	"github.com/m-mizutani/streakmon/pkg/domain/types"
	"github.com/m-mizutani/streakmon/pkg/utils/errutil"
	"github.com/urfave/cli/v3"
)

// Run runs the CLI application
func Run(ctx context.Context, args []string) error {
	var (
		loggerCfg config.Logger
		sentryCfg config.Sentry
		envFile   string
		logger    *slog.Logger
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "env-file",
			Usage:       "Load environment variables from a dotenv file before reading command settings",
			Destination: &envFile,
			Sources:     cli.EnvVars("STREAKMON_ENV_FILE"),
		},
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "TOML config file; fills settings not given by flag or environment",
			Sources: cli.EnvVars("STREAKMON_CONFIG"),
		},
	}
	flags = append(flags, loggerCfg.Flags()...)
	flags = append(flags, sentryCfg.Flags()...)

	app := &cli.Command{
		Name:    types.ServiceName,
		Usage:   "Daily GitHub contribution streak monitor",
		Version: types.Version,
		Flags:   flags,
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			var err error
			logger, err = loggerCfg.Configure()
			if err != nil {
				return nil, err
			}

			slog.SetDefault(logger)
			ctx = ctxlog.With(ctx, logger)

			if envFile != "" {
				logger.Debug("Env file loaded", "path", envFile)
			}

			if err := sentryCfg.Configure(); err != nil {
				return nil, err
			}

			return ctx, nil
		},
		Commands: []*cli.Command{
			cmdRun(),
			cmdCheck(),
			cmdServe(),
			cmdLambda(),
		},
	}

	// Subcommand flags resolve their environment sources while parsing, so the
	// dotenv file must be in the environment before the app runs
	if err := loadEnvFile(args); err != nil {
		errutil.Handle(ctx, "CLI execution failed", err)
		return err
	}

	if err := app.Run(ctx, args); err != nil {
		if logger == nil {
			logger = slog.Default()
		}
		errutil.Handle(ctxlog.With(ctx, logger), "CLI execution failed", err)
		if sentryCfg.Enabled() {
			errutil.Flush()
		}
		return err
	}

	return nil
}

// loadEnvFile loads the file named by --env-file or STREAKMON_ENV_FILE. Variables
// already present in the environment are not overwritten.
func loadEnvFile(args []string) error {
	path := os.Getenv("STREAKMON_ENV_FILE")

	for i := 1; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			break
		}
		name, value, hasValue := strings.Cut(strings.TrimLeft(arg, "-"), "=")
		if !strings.HasPrefix(arg, "-") || name != "env-file" {
			continue
		}
		if hasValue {
			path = value
		} else if i+1 < len(args) {
			path = args[i+1]
			i++
		}
	}

	if path == "" {
		return nil
	}

	if err := godotenv.Load(path); err != nil {
		return goerr.Wrap(err, "failed to load env file",
			goerr.V("path", path),
			goerr.T(types.ErrTagConfig),
		)
	}
	return nil
}
