package commands

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"github.com/contentai/aws-remediator/internal/config"
	"github.com/contentai/aws-remediator/internal/services"
)

// LogsCommand returns the logs command fetching recent service logs
func LogsCommand(logger *zerolog.Logger) *cli.Command {
	return &cli.Command{
		Name:  "logs",
		Usage: "Fetch recent log lines from the service's log group",
		Flags: append(targetFlags(),
			&cli.IntFlag{
				Name:    "lines",
				Aliases: []string{"n"},
				Usage:   "Maximum number of log lines to fetch",
				Value:   50,
			},
		),
		Action: logsAction,
	}
}

func logsAction(c *cli.Context) error {
	container, err := newContainer(c)
	if err != nil {
		return err
	}

	var (
		settings config.Settings
		logs     *services.LogsService
	)
	if err := container.Invoke(func(l *services.LogsService, s config.Settings) {
		logs = l
		settings = s
	}); err != nil {
		return err
	}

	events, err := logs.RecentEvents(c.Context, settings.LogGroup, int32(c.Int("lines")))
	if err != nil {
		return err
	}

	if len(events) == 0 {
		fmt.Printf("No recent events in %s\n", settings.LogGroup)
		return nil
	}

	for _, event := range events {
		fmt.Printf("%s %s\n", event.Timestamp.Format("2006-01-02 15:04:05"), event.Message)
	}
	return nil
}
