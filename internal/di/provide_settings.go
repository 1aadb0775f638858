package di

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/rs/zerolog"

	"github.com/contentai/aws-remediator/internal/config"
	"github.com/contentai/aws-remediator/internal/services"
)

// BaseSettings are the settings before Parameter Store overrides: defaults
// overlaid with the YAML settings file. The AWS config needs the region
// from here, so this stage cannot depend on any AWS client.
type BaseSettings config.Settings

func ProvideBaseSettings(path SettingsPath) (BaseSettings, error) {
	settings, err := config.LoadSettings(string(path))
	if err != nil {
		return BaseSettings{}, err
	}
	return BaseSettings(settings), nil
}

// ProvideParameterStore provides the Parameter Store settings source, or
// nil when SSM overrides are not configured.
func ProvideParameterStore(ssmClient *ssm.Client, prefix SSMPrefix) *services.ParameterStore {
	if ssmClient == nil {
		return nil
	}
	return services.NewParameterStore(ssmClient, string(prefix))
}

// ProvideSettings finalizes the run settings, applying Parameter Store
// overrides when configured.
func ProvideSettings(ctx context.Context, base BaseSettings, store *services.ParameterStore) (config.Settings, error) {
	logger := zerolog.Ctx(ctx)
	settings := config.Settings(base)

	if store == nil {
		logger.Info().Msg("Using local configuration (SSM overrides disabled)")
		return settings, nil
	}

	logger.Info().Msg("Applying AWS Systems Manager Parameter Store overrides")
	if err := store.ApplyOverrides(ctx, &settings); err != nil {
		return config.Settings{}, fmt.Errorf("failed to load configuration overrides: %w", err)
	}

	logger.Info().
		Str("cluster", settings.Cluster).
		Str("service", settings.Service).
		Str("execution_role", settings.ExecutionRole).
		Int("secrets", len(settings.Secrets)).
		Msg("Configuration loaded successfully")

	return settings, nil
}
