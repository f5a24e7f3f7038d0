package main

import (
	"context"
	"os"
	_ "time/tzdata"

	"github.com/m-mizutani/streakmon/pkg/cli"
)

func main() {
	args := os.Args
	// Lambda runtimes start the bootstrap binary without arguments
	if len(args) == 1 && os.Getenv("AWS_LAMBDA_RUNTIME_API") != "" {
		args = append(args, "lambda")
	}

	if err := cli.Run(context.Background(), args); err != nil {
		os.Exit(1)
	}
}
