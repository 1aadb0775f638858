package commands

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"github.com/contentai/aws-remediator/internal/config"
	"github.com/contentai/aws-remediator/internal/runner"
)

// RunCommand returns the run command executing the full remediation sequence
func RunCommand(logger *zerolog.Logger) *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Run the full remediation sequence against the deployment",
		Description: `Push the API key values from the local env file into Secrets Manager,
grant the ECS execution role read access to them, force a new deployment,
wait for the service to stabilize, then verify each secret is readable and
fetch recent service logs.

Step failure policy:
  fatal    - load configuration, update secrets, force redeploy
  warn     - grant secrets read, wait for stabilization
  observe  - verify and observe (per-secret report)

The exit code reflects only the fatal steps. Secrets updated before a later
fatal failure are NOT rolled back.

Examples:
  # Remediate production with values from ./.env
  aws-remediator run

  # Use a different env file and a staging settings file
  aws-remediator run --env-file staging.env --settings staging.yaml`,
		Flags:  targetFlags(),
		Action: runAction,
	}
}

func runAction(c *cli.Context) error {
	container, err := newContainer(c)
	if err != nil {
		return err
	}

	var (
		settings config.Settings
		report   *runner.Report
		runErr   error
	)
	err = container.Invoke(func(r *runner.Runner, s config.Settings) {
		settings = s
		report, runErr = r.Run(c.Context)
	})
	if err != nil {
		return err
	}

	printReport(report)
	printNextSteps(settings)

	if runErr != nil {
		return fmt.Errorf("remediation failed: %w", runErr)
	}
	return nil
}

func printReport(report *runner.Report) {
	fmt.Printf("\nRun %s\n", report.RunID)
	for _, step := range report.Steps {
		switch step.Status {
		case runner.StatusOK:
			fmt.Printf("✓ %s\n", step.Name)
		case runner.StatusWarned:
			fmt.Printf("⚠ %s: %v\n", step.Name, step.Err)
		case runner.StatusFailed:
			fmt.Printf("✗ %s: %v\n", step.Name, step.Err)
		case runner.StatusSkipped:
			fmt.Printf("- %s (skipped)\n", step.Name)
		}
	}

	if len(report.SecretChecks) > 0 {
		fmt.Printf("\nSecret accessibility:\n")
		for _, check := range report.SecretChecks {
			if check.Accessible {
				fmt.Printf("  ✓ %s\n", check.SecretID)
			} else {
				fmt.Printf("  ✗ %s: %v\n", check.SecretID, check.Err)
			}
		}
	}

	if len(report.LogEvents) > 0 {
		fmt.Printf("\nRecent service logs:\n")
		for _, event := range report.LogEvents {
			fmt.Printf("  %s %s\n", event.Timestamp.Format("15:04:05"), event.Message)
		}
	}
}

// printNextSteps runs regardless of outcome so the operator always knows
// how to confirm the service recovered.
func printNextSteps(settings config.Settings) {
	fmt.Printf("\nNext steps:\n")
	fmt.Printf("  1. Give the service a minute to pick up the new tasks\n")
	fmt.Printf("  2. Hit the health endpoints:\n")
	for _, url := range settings.HealthCheckURLs {
		fmt.Printf("       curl %s\n", url)
	}
	fmt.Printf("  3. Watch the logs: aws-remediator logs\n")
}
