package cli

import (
	"context"

	awslambda "github.com/aws/aws-lambda-go/lambda"
	"github.com/m-mizutani/ctxlog"
	controller "github.com/m-mizutani/streakmon/pkg/controller/lambda"
	"github.com/urfave/cli/v3"
)

func cmdLambda() *cli.Command {
	var streakCfg streakConfig

	return &cli.Command{
		Name:   "lambda",
		Usage:  "Serve scheduled invocations in the AWS Lambda runtime",
		Flags:  streakCfg.flags(),
		Before: streakCfg.loadFile,
		Action: func(ctx context.Context, c *cli.Command) error {
			uc, _, err := streakCfg.build(ctx)
			if err != nil {
				return err
			}

			ctxlog.From(ctx).Info("Starting Lambda handler")
			handler := controller.NewHandler(uc)

			// Blocks for the life of the execution environment
			awslambda.StartWithOptions(handler.Handle, awslambda.WithContext(ctx))
			return nil
		},
	}
}
