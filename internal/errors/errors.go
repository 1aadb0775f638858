package errors

import "errors"

var (
	ErrEnvFileMissing      = errors.New("environment file not found")
	ErrMissingSecretValue  = errors.New("required secret value is missing or empty")
	ErrSettingsFileInvalid = errors.New("settings file could not be parsed")
	ErrNoSecretsConfigured = errors.New("no secrets configured for remediation")
	ErrWaiterTimeout       = errors.New("service did not stabilize before the timeout")
)
