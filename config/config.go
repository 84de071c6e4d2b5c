package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type AWSConfig struct {
	Region string
	// Endpoint overrides the AWS endpoint, used for localstack in dev/test.
	Endpoint string
}

type S3Config struct {
	Bucket string
}

type SQSConfig struct {
	// EventsQueueURL receives the bucket's object-finalize notifications.
	// Empty disables the notifier receiver.
	EventsQueueURL string
}

type MailConfig struct {
	SendGridAPIKey string
	To             string
	From           string
}

type RedisConfig struct {
	// Host empty disables Redis; the duplicate-delivery guard degrades to a
	// no-op.
	Host string
}

type ServiceConfig struct {
	HTTPAddr     string
	SignedURLTTL time.Duration
	LogFile      string
}

type Config struct {
	Env         string
	Tracing     bool
	TracingAddr string

	AWSConfig     *AWSConfig
	S3Config      *S3Config
	SQSConfig     *SQSConfig
	MailConfig    *MailConfig
	RedisConfig   *RedisConfig
	ServiceConfig *ServiceConfig
}

// LoadConfig reads configuration from a .env file (when present) and the
// environment.
func LoadConfig() Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	return Config{
		Env:         getEnv("ENV", "development"),
		Tracing:     getEnvBool("TRACING", false),
		TracingAddr: getEnv("TRACING_ADDR", "localhost:4318"),

		AWSConfig: &AWSConfig{
			Region:   getEnv("AWS_REGION", "ap-southeast-2"),
			Endpoint: getEnv("AWS_ENDPOINT", ""),
		},
		S3Config: &S3Config{
			Bucket: getEnv("S3_BUCKET", "readytoruncq-field-uploads"),
		},
		SQSConfig: &SQSConfig{
			EventsQueueURL: getEnv("STORAGE_EVENTS_QUEUE_URL", ""),
		},
		MailConfig: &MailConfig{
			SendGridAPIKey: getEnv("SENDGRID_API_KEY", ""),
			To:             getEnv("MAIL_TO", "jed@readytoruncq.com.au"),
			From:           getEnv("MAIL_FROM", "noreply@readytoruncq.com.au"),
		},
		RedisConfig: &RedisConfig{
			Host: getEnv("REDIS_HOST", ""),
		},
		ServiceConfig: &ServiceConfig{
			HTTPAddr:     getEnv("HTTP_ADDR", ":8080"),
			SignedURLTTL: getEnvDuration("SIGNED_URL_TTL", 24*time.Hour),
			LogFile:      getEnv("LOG_FILE", ""),
		},
	}
}

func (c *Config) Validate() error {
	if c.AWSConfig.Region == "" {
		return errors.New("aws region is required")
	}
	if c.S3Config.Bucket == "" {
		return errors.New("s3 bucket is required")
	}
	if c.MailConfig.To == "" || c.MailConfig.From == "" {
		return errors.New("mail to/from addresses are required")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			log.Printf("invalid bool for %s: %q, using default", key, v)
			return fallback
		}
		return b
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v, ok := os.LookupEnv(key); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			log.Printf("invalid duration for %s: %q, using default", key, v)
			return fallback
		}
		return d
	}
	return fallback
}
