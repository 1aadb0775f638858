// Package runner executes the remediation sequence for a broken
// content-ai-agent deployment: push API keys into Secrets Manager, grant
// the execution role read access, force a new ECS deployment, wait for it
// to stabilize, then verify and tail logs.
//
// Each step declares a failure policy. The dispatcher applies the policy
// instead of the steps deciding control flow themselves: fatal steps abort
// the run, warn steps log and continue, observe steps only record per-item
// outcomes.
package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/ksuid"

	"github.com/contentai/aws-remediator/internal/config"
	"github.com/contentai/aws-remediator/internal/services"
)

// Policy declares how the dispatcher treats a step failure.
type Policy int

const (
	// Fatal aborts the run; remaining steps are skipped.
	Fatal Policy = iota
	// Warn logs a warning and continues.
	Warn
	// Observe records per-item outcomes and never aborts.
	Observe
)

func (p Policy) String() string {
	switch p {
	case Fatal:
		return "fatal"
	case Warn:
		return "warn"
	case Observe:
		return "observe"
	default:
		return "unknown"
	}
}

// Status is the outcome of a single step.
type Status string

const (
	StatusOK      Status = "ok"
	StatusWarned  Status = "warned"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
)

// StepResult records how one step of the run went.
type StepResult struct {
	Name   string
	Policy Policy
	Status Status
	Err    error
}

// SecretCheck is the per-secret outcome of the verification step.
type SecretCheck struct {
	SecretID   string
	Accessible bool
	Err        error
}

// Report collects everything a run produced. The exit code is driven only
// by fatal-step outcomes; warnings and verification results are
// informational.
type Report struct {
	RunID        string
	Steps        []StepResult
	SecretChecks []SecretCheck
	LogEvents    []services.LogEvent
	LogFetchErr  error
}

// SecretSource supplies the secret values to push, typically from the
// local env file.
type SecretSource interface {
	Load() ([]config.SecretValue, error)
}

// SecretStore covers the Secrets Manager operations the run needs.
type SecretStore interface {
	UpdateSecret(ctx context.Context, secretID, value string) error
	VerifySecret(ctx context.Context, secretID string) error
}

// PolicyGranter attaches the secrets-read policy to the execution role.
type PolicyGranter interface {
	GrantSecretsRead(ctx context.Context, roleName, policyName, region, accountID string, secretIDs []string) error
}

// Deployer forces a new deployment and waits for it to settle.
type Deployer interface {
	ForceRedeploy(ctx context.Context, cluster, service string) error
	WaitStable(ctx context.Context, cluster, service string, timeout time.Duration) error
}

// LogReader fetches recent service logs.
type LogReader interface {
	RecentEvents(ctx context.Context, logGroup string, limit int32) ([]services.LogEvent, error)
}

type Runner struct {
	settings config.Settings
	source   SecretSource
	secrets  SecretStore
	iam      PolicyGranter
	deployer Deployer
	logs     LogReader
}

func New(settings config.Settings, source SecretSource, secrets SecretStore, iam PolicyGranter, deployer Deployer, logs LogReader) *Runner {
	return &Runner{
		settings: settings,
		source:   source,
		secrets:  secrets,
		iam:      iam,
		deployer: deployer,
		logs:     logs,
	}
}

type step struct {
	name   string
	policy Policy
	run    func(ctx context.Context) error
}

// Run executes the remediation sequence. The returned error is non-nil
// only when a fatal step failed; the report is always returned, with
// unreached steps marked skipped.
//
// Secret updates that succeeded before a later fatal failure are not
// rolled back.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	report := &Report{RunID: ksuid.New().String()}

	logger := zerolog.Ctx(ctx).With().Str("run_id", report.RunID).Logger()
	ctx = logger.WithContext(ctx)

	var values []config.SecretValue

	steps := []step{
		{
			name:   "load configuration",
			policy: Fatal,
			run: func(ctx context.Context) error {
				loaded, err := r.source.Load()
				if err != nil {
					return err
				}
				values = loaded
				return nil
			},
		},
		{
			name:   "update secrets",
			policy: Fatal,
			run: func(ctx context.Context) error {
				for _, value := range values {
					if err := r.secrets.UpdateSecret(ctx, value.SecretID, value.Value); err != nil {
						return err
					}
					logger.Info().Str("secret_id", value.SecretID).Msg("Secret updated")
				}
				return nil
			},
		},
		{
			name:   "grant secrets read",
			policy: Warn,
			run: func(ctx context.Context) error {
				return r.iam.GrantSecretsRead(ctx,
					r.settings.ExecutionRole,
					r.settings.PolicyName,
					r.settings.Region,
					r.settings.AccountID,
					secretIDs(values),
				)
			},
		},
		{
			name:   "force redeploy",
			policy: Fatal,
			run: func(ctx context.Context) error {
				return r.deployer.ForceRedeploy(ctx, r.settings.Cluster, r.settings.Service)
			},
		},
		{
			name:   "wait for stabilization",
			policy: Warn,
			run: func(ctx context.Context) error {
				return r.deployer.WaitStable(ctx, r.settings.Cluster, r.settings.Service, r.settings.StabilizeTimeout)
			},
		},
		{
			name:   "verify and observe",
			policy: Observe,
			run: func(ctx context.Context) error {
				return r.verify(ctx, values, report)
			},
		},
	}

	for i, s := range steps {
		err := s.run(ctx)
		result := StepResult{Name: s.name, Policy: s.policy}

		switch {
		case err == nil:
			result.Status = StatusOK
			logger.Info().Str("step", s.name).Msg("Step completed")
		case s.policy == Fatal:
			result.Status = StatusFailed
			result.Err = err
			report.Steps = append(report.Steps, result)
			for _, skipped := range steps[i+1:] {
				report.Steps = append(report.Steps, StepResult{
					Name:   skipped.name,
					Policy: skipped.policy,
					Status: StatusSkipped,
				})
			}
			logger.Error().Err(err).Str("step", s.name).Msg("Fatal step failed, aborting run")
			return report, fmt.Errorf("step %q failed: %w", s.name, err)
		default:
			result.Status = StatusWarned
			result.Err = err
			event := logger.Warn().Err(err).Str("step", s.name)
			if code := services.ErrorCode(err); code != "" {
				event = event.Str("aws_error_code", code)
			}
			event.Msg("Step failed, continuing")
		}

		report.Steps = append(report.Steps, result)
	}

	return report, nil
}

// verify reads back each secret and fetches recent service logs. Failures
// are recorded per item; the step itself only warns when anything failed.
func (r *Runner) verify(ctx context.Context, values []config.SecretValue, report *Report) error {
	logger := zerolog.Ctx(ctx)

	failures := 0
	for _, value := range values {
		check := SecretCheck{SecretID: value.SecretID, Accessible: true}
		if err := r.secrets.VerifySecret(ctx, value.SecretID); err != nil {
			check.Accessible = false
			check.Err = err
			failures++
			logger.Warn().Err(err).Str("secret_id", value.SecretID).Msg("Secret not accessible")
		} else {
			logger.Info().Str("secret_id", value.SecretID).Msg("Secret accessible")
		}
		report.SecretChecks = append(report.SecretChecks, check)
	}

	events, err := r.logs.RecentEvents(ctx, r.settings.LogGroup, r.settings.LogLines)
	if err != nil {
		report.LogFetchErr = err
		failures++
		logger.Warn().Err(err).Str("log_group", r.settings.LogGroup).Msg("Failed to fetch recent logs")
	} else {
		report.LogEvents = events
	}

	if failures > 0 {
		return fmt.Errorf("%d verification item(s) failed", failures)
	}
	return nil
}

// FatalFailure reports whether any fatal step failed. Only this outcome
// drives the process exit code.
func (r *Report) FatalFailure() bool {
	for _, s := range r.Steps {
		if s.Policy == Fatal && s.Status == StatusFailed {
			return true
		}
	}
	return false
}

func secretIDs(values []config.SecretValue) []string {
	ids := make([]string, 0, len(values))
	for _, v := range values {
		ids = append(ids, v.SecretID)
	}
	return ids
}
