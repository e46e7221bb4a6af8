package config

import (
	"os"
	"strings"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort     string
	AppEnv      string
	AppTimezone string // IANA zone the calendar-day arithmetic runs in

	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string
	DynamoTables   DynamoTables

	SweepReportBucket string // S3 bucket for sweep report archives; empty disables archiving
	SNSTopicARN       string // sweep-completed event topic; empty disables publishing

	SMTPHost     string
	SMTPPort     string
	SMTPFrom     string
	SMTPUsername string
	SMTPPassword string

	SchedulerToken string // shared secret the cron scheduler presents; empty disables the check
	AllowedOrigins []string
}

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	Deadlines     string
	Users         string
	Notifications string
	Holidays      string
	Settings      string
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppPort:     getEnv("APP_PORT", "3000"),
		AppEnv:      getEnv("APP_ENV", "development"),
		AppTimezone: getEnv("APP_TIMEZONE", "Europe/Berlin"),

		AWSRegion:      getEnv("AWS_REGION", "eu-central-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),
		DynamoTables: DynamoTables{
			Deadlines:     getEnv("DYNAMO_TABLE_DEADLINES", "deadlines"),
			Users:         getEnv("DYNAMO_TABLE_USERS", "users"),
			Notifications: getEnv("DYNAMO_TABLE_NOTIFICATIONS", "notifications"),
			Holidays:      getEnv("DYNAMO_TABLE_HOLIDAYS", "holidays"),
			Settings:      getEnv("DYNAMO_TABLE_SETTINGS", "settings"),
		},

		SweepReportBucket: getEnv("SWEEP_REPORT_BUCKET", ""),
		SNSTopicARN:       getEnv("SNS_TOPIC_ARN", ""),

		SMTPHost:     getEnv("SMTP_HOST", ""),
		SMTPPort:     getEnv("SMTP_PORT", "587"),
		SMTPFrom:     getEnv("SMTP_FROM", "fristen@kanzlei.example"),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),

		SchedulerToken: getEnv("SCHEDULER_TOKEN", ""),
		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
