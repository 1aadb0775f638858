package main

import (
	"context"
	"os"

	"github.com/contentai/aws-remediator/cmd/aws-remediator/commands"
	"github.com/contentai/aws-remediator/internal/di"
	"github.com/urfave/cli/v2"
)

func main() {
	logger := di.ProvideLogger()
	ctx := logger.WithContext(context.Background())

	app := &cli.App{
		Name:  "aws-remediator",
		Usage: "Remediation toolkit for the content-ai-agent ECS deployment",
		Description: `A CLI tool for fixing a content-ai-agent deployment whose API keys
went stale or whose execution role lost access to them.

This tool provides commands for:
  - Running the full remediation sequence (secrets, IAM policy, redeploy, verify)
  - Verifying that the execution role can read each secret
  - Forcing a fresh deployment and waiting for it to stabilize
  - Fetching recent service logs`,
		Commands: []*cli.Command{
			commands.RunCommand(&logger),
			commands.VerifyCommand(&logger),
			commands.RedeployCommand(&logger),
			commands.LogsCommand(&logger),
		},
	}

	if err := app.RunContext(ctx, os.Args); err != nil {
		logger.Error().Err(err).Msg("Application error")
		os.Exit(1)
	}
}
