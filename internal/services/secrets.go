package services

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

// SecretsManagerAPI abstracts the Secrets Manager operations used by the
// remediation run so tests can substitute a mock client.
type SecretsManagerAPI interface {
	PutSecretValue(ctx context.Context, params *secretsmanager.PutSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.PutSecretValueOutput, error)
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

type SecretsService struct {
	client SecretsManagerAPI
}

func NewSecretsService(client SecretsManagerAPI) *SecretsService {
	return &SecretsService{client: client}
}

// UpdateSecret overwrites the current value of a secret. The previous
// version remains available under AWSPREVIOUS but no rollback is attempted
// by the caller.
func (s *SecretsService) UpdateSecret(ctx context.Context, secretID, value string) error {
	_, err := s.client.PutSecretValue(ctx, &secretsmanager.PutSecretValueInput{
		SecretId:     aws.String(secretID),
		SecretString: aws.String(value),
	})
	if err != nil {
		return fmt.Errorf("failed to update secret %s: %w", secretID, err)
	}
	return nil
}

// VerifySecret confirms the secret can be read back and carries a
// non-empty string value.
func (s *SecretsService) VerifySecret(ctx context.Context, secretID string) error {
	result, err := s.client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(secretID),
	})
	if err != nil {
		return fmt.Errorf("failed to get secret %s: %w", secretID, err)
	}

	if result.SecretString == nil || *result.SecretString == "" {
		return fmt.Errorf("secret %s has no string value", secretID)
	}

	return nil
}
