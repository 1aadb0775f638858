package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	ssmtypes "github.com/aws/aws-sdk-go-v2/service/ssm/types"

	"github.com/contentai/aws-remediator/internal/config"
)

// SSMAPI abstracts Parameter Store access.
type SSMAPI interface {
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

// ParameterStore loads per-environment setting overrides from AWS Systems
// Manager Parameter Store. Parameters live under a prefix, one per setting,
// e.g. {prefix}/cluster. Parameters that don't exist leave the default in
// place.
type ParameterStore struct {
	client SSMAPI
	prefix string
	mu     sync.RWMutex
	cache  map[string]string
}

func NewParameterStore(client SSMAPI, prefix string) *ParameterStore {
	return &ParameterStore{
		client: client,
		prefix: strings.TrimSuffix(prefix, "/"),
		cache:  make(map[string]string),
	}
}

// GetParameter retrieves a single parameter under the store's prefix.
// Results are cached for the lifetime of the store.
func (s *ParameterStore) GetParameter(ctx context.Context, name string) (string, error) {
	fullName := s.prefix + "/" + name

	s.mu.RLock()
	if value, ok := s.cache[fullName]; ok {
		s.mu.RUnlock()
		return value, nil
	}
	s.mu.RUnlock()

	result, err := s.client.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(fullName),
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		return "", fmt.Errorf("failed to get parameter %s: %w", fullName, err)
	}

	if result.Parameter == nil || result.Parameter.Value == nil {
		return "", fmt.Errorf("parameter %s not found", fullName)
	}

	value := *result.Parameter.Value

	s.mu.Lock()
	s.cache[fullName] = value
	s.mu.Unlock()

	return value, nil
}

// ApplyOverrides overlays Parameter Store values onto the settings. Only
// parameters that exist override; ParameterNotFound keeps the default.
func (s *ParameterStore) ApplyOverrides(ctx context.Context, settings *config.Settings) error {
	overrides := []struct {
		name  string
		apply func(value string) error
	}{
		{"region", func(v string) error { settings.Region = v; return nil }},
		{"account-id", func(v string) error { settings.AccountID = v; return nil }},
		{"execution-role", func(v string) error { settings.ExecutionRole = v; return nil }},
		{"policy-name", func(v string) error { settings.PolicyName = v; return nil }},
		{"cluster", func(v string) error { settings.Cluster = v; return nil }},
		{"service", func(v string) error { settings.Service = v; return nil }},
		{"log-group", func(v string) error { settings.LogGroup = v; return nil }},
		{"stabilize-timeout", func(v string) error {
			timeout, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("invalid stabilize-timeout %q: %w", v, err)
			}
			settings.StabilizeTimeout = timeout
			return nil
		}},
	}

	for _, override := range overrides {
		value, err := s.GetParameter(ctx, override.name)
		if err != nil {
			var notFound *ssmtypes.ParameterNotFound
			if errors.As(err, &notFound) {
				continue
			}
			return err
		}
		if err := override.apply(value); err != nil {
			return err
		}
	}

	return nil
}
