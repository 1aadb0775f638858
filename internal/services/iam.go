package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/aws/smithy-go"
)

// IAMAPI abstracts the IAM operations used by the remediation run.
type IAMAPI interface {
	PutRolePolicy(ctx context.Context, params *iam.PutRolePolicyInput, optFns ...func(*iam.Options)) (*iam.PutRolePolicyOutput, error)
}

// STSAPI abstracts caller-identity lookup for account-id discovery.
type STSAPI interface {
	GetCallerIdentity(ctx context.Context, params *sts.GetCallerIdentityInput, optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error)
}

type IAMService struct {
	client    IAMAPI
	stsClient STSAPI
}

func NewIAMService(client IAMAPI, stsClient STSAPI) *IAMService {
	return &IAMService{
		client:    client,
		stsClient: stsClient,
	}
}

// AccountID retrieves the AWS account ID of the current credentials.
func (s *IAMService) AccountID(ctx context.Context) (string, error) {
	result, err := s.stsClient.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return "", fmt.Errorf("failed to get caller identity: %w", err)
	}

	if result.Account == nil {
		return "", fmt.Errorf("account ID is nil")
	}

	return *result.Account, nil
}

// SecretsReadPolicyDocument renders an inline policy granting GetSecretValue
// on the given secrets. Each ARN is suffixed with -?????? to match the
// random 6-character suffix Secrets Manager appends to secret names.
func SecretsReadPolicyDocument(region, accountID string, secretIDs []string) string {
	arns := make([]string, 0, len(secretIDs))
	for _, id := range secretIDs {
		arns = append(arns, fmt.Sprintf(`"arn:aws:secretsmanager:%s:%s:secret:%s-??????"`, region, accountID, id))
	}

	return fmt.Sprintf(`{
  "Version": "2012-10-17",
  "Statement": [
    {
      "Effect": "Allow",
      "Action": [
        "secretsmanager:GetSecretValue"
      ],
      "Resource": [
        %s
      ]
    }
  ]
}`, strings.Join(arns, ",\n        "))
}

// GrantSecretsRead attaches (or replaces, PutRolePolicy is idempotent) an
// inline policy on the execution role granting read access to the given
// secrets. When accountID is empty it is discovered via STS.
func (s *IAMService) GrantSecretsRead(ctx context.Context, roleName, policyName, region, accountID string, secretIDs []string) error {
	if accountID == "" {
		discovered, err := s.AccountID(ctx)
		if err != nil {
			return fmt.Errorf("failed to discover account ID: %w", err)
		}
		accountID = discovered
	}

	policyDocument := SecretsReadPolicyDocument(region, accountID, secretIDs)

	_, err := s.client.PutRolePolicy(ctx, &iam.PutRolePolicyInput{
		RoleName:       aws.String(roleName),
		PolicyName:     aws.String(policyName),
		PolicyDocument: aws.String(policyDocument),
	})
	if err != nil {
		return fmt.Errorf("failed to attach policy %s to role %s: %w", policyName, roleName, err)
	}

	return nil
}

// ErrorCode extracts the AWS error code from an error chain, or "" when the
// error did not come from the AWS API.
func ErrorCode(err error) string {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode()
	}
	return ""
}
