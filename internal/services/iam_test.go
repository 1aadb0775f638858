package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockIAMClient struct {
	putRolePolicyFunc func(ctx context.Context, params *iam.PutRolePolicyInput, optFns ...func(*iam.Options)) (*iam.PutRolePolicyOutput, error)
}

func (m *mockIAMClient) PutRolePolicy(ctx context.Context, params *iam.PutRolePolicyInput, optFns ...func(*iam.Options)) (*iam.PutRolePolicyOutput, error) {
	if m.putRolePolicyFunc != nil {
		return m.putRolePolicyFunc(ctx, params, optFns...)
	}
	return &iam.PutRolePolicyOutput{}, nil
}

type mockSTSClient struct {
	account string
	err     error
	calls   int
}

func (m *mockSTSClient) GetCallerIdentity(ctx context.Context, params *sts.GetCallerIdentityInput, optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return &sts.GetCallerIdentityOutput{Account: aws.String(m.account)}, nil
}

func TestSecretsReadPolicyDocument(t *testing.T) {
	doc := SecretsReadPolicyDocument("us-east-1", "123456789012", []string{
		"content-ai-agent/rapidapi-key",
		"content-ai-agent/serp-api-key",
	})

	// Must be valid JSON
	var parsed struct {
		Version   string `json:"Version"`
		Statement []struct {
			Effect   string   `json:"Effect"`
			Action   []string `json:"Action"`
			Resource []string `json:"Resource"`
		} `json:"Statement"`
	}
	require.NoError(t, json.Unmarshal([]byte(doc), &parsed))

	assert.Equal(t, "2012-10-17", parsed.Version)
	require.Len(t, parsed.Statement, 1)
	assert.Equal(t, "Allow", parsed.Statement[0].Effect)
	assert.Equal(t, []string{"secretsmanager:GetSecretValue"}, parsed.Statement[0].Action)

	// ARNs carry the wildcard for Secrets Manager's random name suffix.
	assert.Equal(t, []string{
		"arn:aws:secretsmanager:us-east-1:123456789012:secret:content-ai-agent/rapidapi-key-??????",
		"arn:aws:secretsmanager:us-east-1:123456789012:secret:content-ai-agent/serp-api-key-??????",
	}, parsed.Statement[0].Resource)
}

func TestGrantSecretsRead(t *testing.T) {
	t.Run("with configured account id", func(t *testing.T) {
		var got *iam.PutRolePolicyInput
		iamClient := &mockIAMClient{
			putRolePolicyFunc: func(ctx context.Context, params *iam.PutRolePolicyInput, optFns ...func(*iam.Options)) (*iam.PutRolePolicyOutput, error) {
				got = params
				return &iam.PutRolePolicyOutput{}, nil
			},
		}
		stsClient := &mockSTSClient{account: "999999999999"}

		s := NewIAMService(iamClient, stsClient)
		err := s.GrantSecretsRead(context.Background(),
			"content-ai-agent-execution-role",
			"content-ai-agent-secrets-read",
			"us-east-1",
			"123456789012",
			[]string{"content-ai-agent/rapidapi-key"},
		)

		require.NoError(t, err)
		assert.Equal(t, 0, stsClient.calls, "no STS lookup when account id is configured")
		require.NotNil(t, got)
		assert.Equal(t, "content-ai-agent-execution-role", aws.ToString(got.RoleName))
		assert.Equal(t, "content-ai-agent-secrets-read", aws.ToString(got.PolicyName))
		assert.Contains(t, aws.ToString(got.PolicyDocument), "123456789012")
	})

	t.Run("discovers account id when empty", func(t *testing.T) {
		var got *iam.PutRolePolicyInput
		iamClient := &mockIAMClient{
			putRolePolicyFunc: func(ctx context.Context, params *iam.PutRolePolicyInput, optFns ...func(*iam.Options)) (*iam.PutRolePolicyOutput, error) {
				got = params
				return &iam.PutRolePolicyOutput{}, nil
			},
		}
		stsClient := &mockSTSClient{account: "999999999999"}

		s := NewIAMService(iamClient, stsClient)
		err := s.GrantSecretsRead(context.Background(), "role", "policy", "us-east-1", "", []string{"a"})

		require.NoError(t, err)
		assert.Equal(t, 1, stsClient.calls)
		assert.Contains(t, aws.ToString(got.PolicyDocument), "999999999999")
	})

	t.Run("sts failure", func(t *testing.T) {
		s := NewIAMService(&mockIAMClient{}, &mockSTSClient{err: errors.New("ExpiredToken")})
		err := s.GrantSecretsRead(context.Background(), "role", "policy", "us-east-1", "", []string{"a"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to discover account ID")
	})

	t.Run("put role policy failure", func(t *testing.T) {
		iamClient := &mockIAMClient{
			putRolePolicyFunc: func(ctx context.Context, params *iam.PutRolePolicyInput, optFns ...func(*iam.Options)) (*iam.PutRolePolicyOutput, error) {
				return nil, errors.New("NoSuchEntity")
			},
		}
		s := NewIAMService(iamClient, &mockSTSClient{account: "123456789012"})
		err := s.GrantSecretsRead(context.Background(), "role", "policy", "us-east-1", "123456789012", []string{"a"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to attach policy")
	})
}

func TestErrorCode(t *testing.T) {
	apiErr := &smithy.GenericAPIError{Code: "AccessDeniedException", Message: "nope"}

	assert.Equal(t, "AccessDeniedException", ErrorCode(apiErr))
	assert.Equal(t, "AccessDeniedException", ErrorCode(errors.Join(errors.New("wrapped"), apiErr)))
	assert.Equal(t, "", ErrorCode(errors.New("plain")))
	assert.Equal(t, "", ErrorCode(nil))
}
