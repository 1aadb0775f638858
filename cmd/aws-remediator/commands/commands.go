package commands

import (
	"fmt"

	"github.com/contentai/aws-remediator/internal/di"
	"github.com/urfave/cli/v2"
)

// targetFlags are shared by every command that talks to the deployment.
func targetFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "env",
			Aliases: []string{"e"},
			Usage:   "Deployment environment name",
			Value:   "prod",
			EnvVars: []string{"REMEDIATOR_ENV"},
		},
		&cli.StringFlag{
			Name:    "env-file",
			Aliases: []string{"f"},
			Usage:   "Local key-value file supplying the API key values",
			Value:   ".env",
			EnvVars: []string{"REMEDIATOR_ENV_FILE"},
		},
		&cli.StringFlag{
			Name:    "settings",
			Aliases: []string{"s"},
			Usage:   "YAML settings file overriding the built-in deployment defaults",
			EnvVars: []string{"REMEDIATOR_SETTINGS"},
		},
		&cli.StringFlag{
			Name:    "ssm-prefix",
			Usage:   "SSM Parameter Store prefix for setting overrides (disabled when empty)",
			EnvVars: []string{"REMEDIATOR_SSM_PREFIX"},
		},
	}
}

func newContainer(c *cli.Context) (di.Container, error) {
	container, err := di.New(c.String("env"),
		di.WithContext(c.Context),
		di.WithEnvFile(c.String("env-file")),
		di.WithSettingsPath(c.String("settings")),
		di.WithSSMPrefix(c.String("ssm-prefix")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build dependencies: %w", err)
	}
	return container, nil
}
