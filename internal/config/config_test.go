package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConfig_Load_Defaults(t *testing.T) {
	t.Setenv("CLICKHOUSE_HOST", "localhost")
	t.Setenv("CLICKHOUSE_PORT", "9000")
	t.Setenv("CLICKHOUSE_DB", "searchsift")
	t.Setenv("SQS_QUEUE_URL", "https://sqs.test/queue")
	t.Setenv("SQS_REGION", "eu-central-1")

	cfg, err := Load()

	assert.NoError(t, err)
	assert.Equal(t, "development", cfg.Service.Environment)
	assert.Equal(t, "8080", cfg.Service.APIPort)
	assert.Equal(t, []string{"chrome-extension://*", "moz-extension://*"}, cfg.Service.AllowedOrigins)
	assert.Equal(t, 10, cfg.Ingest.MaxEventAgeSec)
	assert.Equal(t, 5, cfg.Ingest.DedupeWindowSec)
	assert.Equal(t, 2000, cfg.Consumer.BatchSizeMax)
	assert.Equal(t, "reports", cfg.Reports.Dir)
	assert.False(t, cfg.Categorizer.EnableStatisticalFallback)
}

func TestConfig_Load_MissingRequired(t *testing.T) {
	t.Setenv("CLICKHOUSE_HOST", "")

	_, err := Load()

	assert.Error(t, err)
}

func TestIngest_DurationMethods(t *testing.T) {
	i := Ingest{MaxEventAgeSec: 10, DedupeWindowSec: 5}

	assert.Equal(t, 10*time.Second, i.MaxEventAge())
	assert.Equal(t, 5*time.Second, i.DedupeWindow())
}
