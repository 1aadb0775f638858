package commands

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"github.com/contentai/aws-remediator/internal/config"
	apperrors "github.com/contentai/aws-remediator/internal/errors"
	"github.com/contentai/aws-remediator/internal/services"
)

// RedeployCommand returns the redeploy command forcing a fresh deployment
func RedeployCommand(logger *zerolog.Logger) *cli.Command {
	return &cli.Command{
		Name:  "redeploy",
		Usage: "Force a new deployment of the service and wait for it to stabilize",
		Description: `Forces ECS to replace the running tasks with fresh ones using the
current task definition. A failed trigger is fatal; a stabilization
timeout is only a warning, matching the full remediation run.`,
		Flags: append(targetFlags(),
			&cli.BoolFlag{
				Name:  "no-wait",
				Usage: "Trigger the deployment without waiting for stabilization",
			},
		),
		Action: redeployAction,
	}
}

func redeployAction(c *cli.Context) error {
	logger := zerolog.Ctx(c.Context)

	container, err := newContainer(c)
	if err != nil {
		return err
	}

	var (
		settings config.Settings
		deployer *services.ECSService
	)
	if err := container.Invoke(func(e *services.ECSService, s config.Settings) {
		deployer = e
		settings = s
	}); err != nil {
		return err
	}

	logger.Info().
		Str("cluster", settings.Cluster).
		Str("service", settings.Service).
		Msg("Forcing new deployment")

	if err := deployer.ForceRedeploy(c.Context, settings.Cluster, settings.Service); err != nil {
		return err
	}
	fmt.Printf("✓ New deployment triggered for %s/%s\n", settings.Cluster, settings.Service)

	if c.Bool("no-wait") {
		return nil
	}

	logger.Info().Dur("timeout", settings.StabilizeTimeout).Msg("Waiting for service to stabilize")
	if err := deployer.WaitStable(c.Context, settings.Cluster, settings.Service, settings.StabilizeTimeout); err != nil {
		if errors.Is(err, apperrors.ErrWaiterTimeout) {
			logger.Warn().Err(err).Msg("Service did not stabilize in time")
			fmt.Printf("⚠ %v\n", err)
			return nil
		}
		return err
	}

	fmt.Printf("✓ Service %s/%s is stable\n", settings.Cluster, settings.Service)
	return nil
}
