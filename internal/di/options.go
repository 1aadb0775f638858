package di

import "context"

type EnvFilePath string
type SettingsPath string
type SSMPrefix string

// Option is a function that configures the dependency injection container.
type Option func(*options)

// WithContext supplies the context registered in the container, typically
// the CLI context carrying the application logger.
func WithContext(ctx context.Context) Option {
	return func(opts *options) {
		opts.ctx = ctx
	}
}

// WithEnvFile sets the path of the local env file supplying secret values.
func WithEnvFile(path string) Option {
	return func(opts *options) {
		opts.envFile = EnvFilePath(path)
	}
}

// WithSettingsPath sets the path of the YAML settings file.
func WithSettingsPath(path string) Option {
	return func(opts *options) {
		opts.settingsPath = SettingsPath(path)
	}
}

// WithSSMPrefix enables Parameter Store setting overrides under the prefix.
func WithSSMPrefix(prefix string) Option {
	return func(opts *options) {
		opts.ssmPrefix = SSMPrefix(prefix)
	}
}

// WithProviders adds constructor functions to the dependency injection container.
// Each provider should be a constructor function that returns one or more values.
// Providers can declare dependencies as function parameters, which will be
// automatically resolved by the container.
//
// Example:
//
//	WithProviders(
//	    func() *Database { return &Database{} },
//	    func(db *Database) *Service { return &Service{DB: db} },
//	)
func WithProviders(providers ...any) Option {
	return func(opts *options) {
		opts.providers = append(opts.providers, providers...)
	}
}

type options struct {
	ctx          context.Context
	envFile      EnvFilePath
	settingsPath SettingsPath
	ssmPrefix    SSMPrefix
	providers    []any
}
