package di

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	"github.com/aws/aws-sdk-go-v2/service/ecs"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

func ProvideAWSConfig(ctx context.Context, base BaseSettings) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(base.Region))
}

// ProvideSSMClient provides an SSM client for Parameter Store access.
// Returns nil when no SSM prefix is configured.
func ProvideSSMClient(config aws.Config, prefix SSMPrefix) *ssm.Client {
	if prefix == "" {
		return nil
	}
	return ssm.NewFromConfig(config)
}

func ProvideSecretsManagerClient(config aws.Config) *secretsmanager.Client {
	return secretsmanager.NewFromConfig(config)
}

func ProvideIAMClient(config aws.Config) *iam.Client {
	return iam.NewFromConfig(config)
}

func ProvideSTSClient(config aws.Config) *sts.Client {
	return sts.NewFromConfig(config)
}

func ProvideECSClient(config aws.Config) *ecs.Client {
	return ecs.NewFromConfig(config)
}

func ProvideLogsClient(config aws.Config) *cloudwatchlogs.Client {
	return cloudwatchlogs.NewFromConfig(config)
}
