package services

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
)

// lookback bounds how far back the post-deployment log fetch reaches.
const lookback = 15 * time.Minute

// CloudWatchLogsAPI abstracts the log operations used by the remediation run.
type CloudWatchLogsAPI interface {
	FilterLogEvents(ctx context.Context, params *cloudwatchlogs.FilterLogEventsInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.FilterLogEventsOutput, error)
}

// LogEvent is a single log line with its event timestamp.
type LogEvent struct {
	Timestamp time.Time
	Message   string
}

type LogsService struct {
	client CloudWatchLogsAPI
}

func NewLogsService(client CloudWatchLogsAPI) *LogsService {
	return &LogsService{client: client}
}

// RecentEvents returns up to limit recent events from the log group,
// across all of its streams.
func (s *LogsService) RecentEvents(ctx context.Context, logGroup string, limit int32) ([]LogEvent, error) {
	startTime := time.Now().Add(-lookback).UnixMilli()

	result, err := s.client.FilterLogEvents(ctx, &cloudwatchlogs.FilterLogEventsInput{
		LogGroupName: aws.String(logGroup),
		StartTime:    aws.Int64(startTime),
		Limit:        aws.Int32(limit),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch log events from %s: %w", logGroup, err)
	}

	events := make([]LogEvent, 0, len(result.Events))
	for _, event := range result.Events {
		events = append(events, LogEvent{
			Timestamp: time.UnixMilli(aws.ToInt64(event.Timestamp)),
			Message:   aws.ToString(event.Message),
		})
	}

	return events, nil
}
