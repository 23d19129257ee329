package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Service holds HTTP API settings, including the extension-facing API key
// and the allowed extension origins for CORS.
type Service struct {
	Environment    string   `envconfig:"SERVICE_ENVIRONMENT" default:"development"`
	APIPort        string   `envconfig:"SERVICE_API_PORT" default:"8080"`
	Host           string   `envconfig:"SERVICE_HOST" default:"localhost:8080"`
	APIKey         string   `envconfig:"SEARCHSIFT_API_KEY"`
	AllowedOrigins []string `envconfig:"ALLOWED_ORIGINS" default:"chrome-extension://*,moz-extension://*"`
}

// ClickHouse holds connection settings for the record store.
type ClickHouse struct {
	Host            string `envconfig:"CLICKHOUSE_HOST" required:"true"`
	Port            string `envconfig:"CLICKHOUSE_PORT" required:"true"`
	Database        string `envconfig:"CLICKHOUSE_DB" required:"true"`
	User            string `envconfig:"CLICKHOUSE_USER" default:""`
	Password        string `envconfig:"CLICKHOUSE_PASSWORD" default:""`
	UseTLS          bool   `envconfig:"CLICKHOUSE_USE_TLS" default:"false"`
	MaxOpenConns    int    `envconfig:"CLICKHOUSE_MAX_OPEN_CONNS" default:"5"`
	MaxIdleConns    int    `envconfig:"CLICKHOUSE_MAX_IDLE_CONNS" default:"2"`
	ConnMaxLifetime int    `envconfig:"CLICKHOUSE_CONN_MAX_LIFETIME_SEC" default:"3600"`
}

// SQS holds queue settings for the async ingestion path. Endpoint is only
// set for local development against ElasticMQ.
type SQS struct {
	Endpoint string `envconfig:"SQS_ENDPOINT"`
	QueueURL string `envconfig:"SQS_QUEUE_URL" required:"true"`
	Region   string `envconfig:"SQS_REGION" required:"true"`
}

// Ingest holds the pipeline's rejection windows.
type Ingest struct {
	MaxEventAgeSec  int `envconfig:"MAX_EVENT_AGE_SECONDS" default:"10"`
	DedupeWindowSec int `envconfig:"DEDUPE_WINDOW_SECONDS" default:"5"`
}

// MaxEventAge returns the staleness window as a duration.
func (i Ingest) MaxEventAge() time.Duration {
	return time.Duration(i.MaxEventAgeSec) * time.Second
}

// DedupeWindow returns the dedup window as a duration.
func (i Ingest) DedupeWindow() time.Duration {
	return time.Duration(i.DedupeWindowSec) * time.Second
}

// Categorizer selects the fallback classifier variant.
type Categorizer struct {
	EnableStatisticalFallback bool `envconfig:"ENABLE_STATISTICAL_FALLBACK" default:"false"`
}

// Consumer holds queue-consumer batching settings.
type Consumer struct {
	BatchSizeMax    int    `envconfig:"CONSUMER_BATCH_SIZE_MAX" default:"2000"`
	BatchTimeoutSec int    `envconfig:"CONSUMER_BATCH_TIMEOUT_SEC" default:"10"`
	HealthCheckPort string `envconfig:"CONSUMER_HEALTH_CHECK_PORT" default:"8081"`
}

// Reports holds report file output settings.
type Reports struct {
	Dir string `envconfig:"REPORTS_DIR" default:"reports"`
}

// Config is the full process configuration, loaded from the environment.
type Config struct {
	Service     Service
	ClickHouse  ClickHouse
	SQS         SQS
	Ingest      Ingest
	Categorizer Categorizer
	Consumer    Consumer
	Reports     Reports
}

// Load reads the configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}
