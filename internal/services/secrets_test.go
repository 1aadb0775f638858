package services

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockSecretsManagerClient struct {
	putSecretValueFunc func(ctx context.Context, params *secretsmanager.PutSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.PutSecretValueOutput, error)
	getSecretValueFunc func(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

func (m *mockSecretsManagerClient) PutSecretValue(ctx context.Context, params *secretsmanager.PutSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.PutSecretValueOutput, error) {
	if m.putSecretValueFunc != nil {
		return m.putSecretValueFunc(ctx, params, optFns...)
	}
	return &secretsmanager.PutSecretValueOutput{}, nil
}

func (m *mockSecretsManagerClient) GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error) {
	if m.getSecretValueFunc != nil {
		return m.getSecretValueFunc(ctx, params, optFns...)
	}
	return &secretsmanager.GetSecretValueOutput{SecretString: aws.String("value")}, nil
}

func TestUpdateSecret(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		var got *secretsmanager.PutSecretValueInput
		client := &mockSecretsManagerClient{
			putSecretValueFunc: func(ctx context.Context, params *secretsmanager.PutSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.PutSecretValueOutput, error) {
				got = params
				return &secretsmanager.PutSecretValueOutput{}, nil
			},
		}

		s := NewSecretsService(client)
		err := s.UpdateSecret(context.Background(), "content-ai-agent/rapidapi-key", "rapid-123")

		require.NoError(t, err)
		assert.Equal(t, "content-ai-agent/rapidapi-key", aws.ToString(got.SecretId))
		assert.Equal(t, "rapid-123", aws.ToString(got.SecretString))
	})

	t.Run("api error is wrapped with the secret id", func(t *testing.T) {
		client := &mockSecretsManagerClient{
			putSecretValueFunc: func(ctx context.Context, params *secretsmanager.PutSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.PutSecretValueOutput, error) {
				return nil, errors.New("ResourceNotFoundException")
			},
		}

		s := NewSecretsService(client)
		err := s.UpdateSecret(context.Background(), "content-ai-agent/serp-api-key", "serp-456")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "content-ai-agent/serp-api-key")
	})
}

func TestVerifySecret(t *testing.T) {
	t.Run("accessible", func(t *testing.T) {
		s := NewSecretsService(&mockSecretsManagerClient{})
		assert.NoError(t, s.VerifySecret(context.Background(), "content-ai-agent/rapidapi-key"))
	})

	t.Run("read denied", func(t *testing.T) {
		client := &mockSecretsManagerClient{
			getSecretValueFunc: func(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error) {
				return nil, errors.New("AccessDeniedException")
			},
		}
		s := NewSecretsService(client)
		assert.Error(t, s.VerifySecret(context.Background(), "content-ai-agent/rapidapi-key"))
	})

	t.Run("nil string value", func(t *testing.T) {
		client := &mockSecretsManagerClient{
			getSecretValueFunc: func(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error) {
				return &secretsmanager.GetSecretValueOutput{}, nil
			},
		}
		s := NewSecretsService(client)
		err := s.VerifySecret(context.Background(), "content-ai-agent/rapidapi-key")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no string value")
	})
}
