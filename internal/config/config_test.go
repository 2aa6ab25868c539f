package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// TestLoadDefaults - valores padrão sem variáveis de ambiente
func TestLoadDefaults(t *testing.T) {
	t.Setenv("STORE_DRIVER", "")
	t.Setenv("SIM_LATENCY_MIN", "")
	t.Setenv("SIM_LATENCY_MAX", "")

	cfg := Load()
	assert.Equal(t, "sqlite", cfg.StoreDriver)
	assert.Equal(t, "seller_console", cfg.StateNamespace)
	assert.Equal(t, 500*time.Millisecond, cfg.SimLatencyMin)
	assert.Equal(t, 1500*time.Millisecond, cfg.SimLatencyMax)
	assert.Equal(t, 20, cfg.ItemsPerPage)
	assert.Equal(t, 5*time.Second, cfg.NotificationDuration)
	assert.NoError(t, cfg.Validate())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("SIM_LATENCY_MIN", "10")
	t.Setenv("SIM_LATENCY_MAX", "2s")
	t.Setenv("SIM_FAILURE_RATE", "0.25")
	t.Setenv("SEED_SAMPLE_DATA", "false")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, http://b.test,")
	t.Setenv("CRM_WEBHOOK_URL", "http://crm.test/hook")
	t.Setenv("CRM_TIMEOUT", "2500")

	cfg := Load()
	assert.Equal(t, "memory", cfg.StoreDriver)
	assert.Equal(t, 10*time.Millisecond, cfg.SimLatencyMin)
	assert.Equal(t, 2*time.Second, cfg.SimLatencyMax)
	assert.Equal(t, 0.25, cfg.SimFailureRate)
	assert.False(t, cfg.SeedSampleData)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, "http://crm.test/hook", cfg.CRMWebhookURL)
	assert.Equal(t, 2500*time.Millisecond, cfg.CRMTimeout)
}

func TestValidate(t *testing.T) {
	cfg := &Config{StoreDriver: "postgres", SimLatencyMax: time.Second}
	assert.Error(t, cfg.Validate())

	cfg = &Config{StoreDriver: "mongo"}
	assert.Error(t, cfg.Validate())

	cfg = &Config{StoreDriver: "memory", SimLatencyMin: 2 * time.Second, SimLatencyMax: time.Second}
	assert.Error(t, cfg.Validate())

	cfg = &Config{StoreDriver: "memory", SimFailureRate: 1.5}
	assert.Error(t, cfg.Validate())

	cfg = &Config{StoreDriver: "memory", ExportStorage: "s3"}
	assert.Error(t, cfg.Validate())

	cfg = &Config{StoreDriver: "redis", ExportStorage: "local"}
	assert.NoError(t, cfg.Validate())
}
