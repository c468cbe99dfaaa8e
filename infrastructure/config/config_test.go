package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.ServerAddress)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "memory", cfg.StoreDriver)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.True(t, cfg.EnableMetrics)
	assert.True(t, cfg.EnableCORS)
	assert.Equal(t, 250.0, cfg.Layout.HorizontalSpacing)
	assert.Equal(t, 280.0, cfg.Layout.CircularRadius)
	assert.Equal(t, int64(1), cfg.Layout.ForceSeed)
	assert.Equal(t, 5, cfg.SnapshotRetention)
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("SERVER_ADDRESS", ":9090")
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("STORE_DRIVER", "dynamodb")
	t.Setenv("TABLE_NAME", "canvas-prod")
	t.Setenv("ENABLE_CORS", "false")
	t.Setenv("LAYOUT_FORCE_SEED", "42")
	t.Setenv("SNAPSHOT_RETENTION", "10")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.ServerAddress)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "dynamodb", cfg.StoreDriver)
	assert.Equal(t, "canvas-prod", cfg.DynamoDBTable)
	assert.False(t, cfg.EnableCORS)
	assert.Equal(t, int64(42), cfg.Layout.ForceSeed)
	assert.Equal(t, 10, cfg.SnapshotRetention)
}

func TestLoadConfig_MalformedNumbersFallBack(t *testing.T) {
	t.Setenv("LAYOUT_HORIZONTAL_SPACING", "wide")
	t.Setenv("SNAPSHOT_RETENTION", "many")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 250.0, cfg.Layout.HorizontalSpacing)
	assert.Equal(t, 5, cfg.SnapshotRetention)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid memory", func(c *Config) {}, false},
		{"unknown driver", func(c *Config) { c.StoreDriver = "postgres" }, true},
		{"dynamodb without table", func(c *Config) {
			c.StoreDriver = "dynamodb"
			c.DynamoDBTable = ""
		}, true},
		{"inverted iteration bounds", func(c *Config) {
			c.Layout.ForceMinIterations = 600
			c.Layout.ForceMaxIterations = 500
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				StoreDriver:   "memory",
				DynamoDBTable: "canvas",
				Layout: LayoutConfig{
					ForceMinIterations: 300,
					ForceMaxIterations: 500,
				},
			}
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
