package di

import (
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	"github.com/aws/aws-sdk-go-v2/service/ecs"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/sts"

	"github.com/contentai/aws-remediator/internal/config"
	"github.com/contentai/aws-remediator/internal/runner"
	"github.com/contentai/aws-remediator/internal/services"
)

func ProvideSecretsService(client *secretsmanager.Client) *services.SecretsService {
	return services.NewSecretsService(client)
}

func ProvideIAMService(client *iam.Client, stsClient *sts.Client) *services.IAMService {
	return services.NewIAMService(client, stsClient)
}

func ProvideECSService(client *ecs.Client) *services.ECSService {
	return services.NewECSService(client)
}

func ProvideLogsService(client *cloudwatchlogs.Client) *services.LogsService {
	return services.NewLogsService(client)
}

func ProvideRunner(
	settings config.Settings,
	envFile EnvFilePath,
	secrets *services.SecretsService,
	iamService *services.IAMService,
	ecsService *services.ECSService,
	logsService *services.LogsService,
) *runner.Runner {
	source := config.EnvFileSource{
		Path:     string(envFile),
		Bindings: settings.Secrets,
	}
	return runner.New(settings, source, secrets, iamService, ecsService, logsService)
}
