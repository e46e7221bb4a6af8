package sns

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/kanzleiworks/fristen-api/internal/config"
)

// EventPublisher emits sweep lifecycle events for the shell's ops tooling.
// Publishing is best-effort; a failed publish never fails a sweep.
type EventPublisher interface {
	PublishSweepCompleted(ctx context.Context, event SweepCompletedEvent) error
}

// SweepCompletedEvent is the payload published after every sweep.
type SweepCompletedEvent struct {
	SweepDate            string   `json:"sweep_date"`
	ExpiredSubstitutions int      `json:"expired_substitutions"`
	RemindersSent        int      `json:"reminders_sent"`
	EscalationsSent      int      `json:"escalations_sent"`
	FailedDeadlines      []string `json:"failed_deadlines,omitempty"`
	DurationMillis       int64    `json:"duration_ms"`
}

type publisher struct {
	client   *sns.Client
	topicARN string
}

func NewPublisher(cfg *config.Config) (EventPublisher, error) {
	if cfg.SNSTopicARN == "" {
		return nil, fmt.Errorf("SNS_TOPIC_ARN not set")
	}
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.AWSRegion),
	}
	if cfg.AWSAccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AWSAccessKeyID, cfg.AWSSecretKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, err
	}
	clientOpts := []func(*sns.Options){}
	if cfg.AWSEndpointURL != "" {
		clientOpts = append(clientOpts, func(o *sns.Options) {
			o.BaseEndpoint = aws.String(cfg.AWSEndpointURL)
		})
	}
	return &publisher{client: sns.NewFromConfig(awsCfg, clientOpts...), topicARN: cfg.SNSTopicARN}, nil
}

func (p *publisher) PublishSweepCompleted(ctx context.Context, event SweepCompletedEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal sweep event: %w", err)
	}
	subject := "deadline-sweep-completed"
	message := string(body)
	_, err = p.client.Publish(ctx, &sns.PublishInput{
		TopicArn: &p.topicARN,
		Subject:  &subject,
		Message:  &message,
	})
	return err
}
