package services

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ecs"

	apperrors "github.com/contentai/aws-remediator/internal/errors"
)

// ECSAPI abstracts the ECS operations used by the remediation run. It
// embeds the SDK's DescribeServices interface so the stable waiter can be
// driven by the same mock in tests.
type ECSAPI interface {
	ecs.DescribeServicesAPIClient
	UpdateService(ctx context.Context, params *ecs.UpdateServiceInput, optFns ...func(*ecs.Options)) (*ecs.UpdateServiceOutput, error)
}

type ECSService struct {
	client ECSAPI
}

func NewECSService(client ECSAPI) *ECSService {
	return &ECSService{client: client}
}

// ForceRedeploy replaces the running tasks of a service with fresh ones
// using the current task definition, without changing the service itself.
func (s *ECSService) ForceRedeploy(ctx context.Context, cluster, service string) error {
	_, err := s.client.UpdateService(ctx, &ecs.UpdateServiceInput{
		Cluster:            aws.String(cluster),
		Service:            aws.String(service),
		ForceNewDeployment: true,
	})
	if err != nil {
		return fmt.Errorf("failed to force new deployment of %s/%s: %w", cluster, service, err)
	}
	return nil
}

// WaitStable blocks until the service's running count and health match its
// desired state, or the timeout elapses.
func (s *ECSService) WaitStable(ctx context.Context, cluster, service string, timeout time.Duration) error {
	waiter := ecs.NewServicesStableWaiter(s.client)

	err := waiter.Wait(ctx, &ecs.DescribeServicesInput{
		Cluster:  aws.String(cluster),
		Services: []string{service},
	}, timeout)
	if err != nil {
		return fmt.Errorf("%w: %s/%s: %v", apperrors.ErrWaiterTimeout, cluster, service, err)
	}

	return nil
}
