package config

import (
	"fmt"
	"os"
	"strconv"
)

// LayoutConfig holds the spacing and simulation tuning for the planner
type LayoutConfig struct {
	// HorizontalSpacing is the gap kept between a source and a new node
	HorizontalSpacing float64
	// VerticalSpacing is the buffer kept between stacked nodes
	VerticalSpacing float64
	// CircularRadius is the default radius for sibling circles
	CircularRadius float64
	// ForceSeed drives the force simulation RNG
	ForceSeed int64
	// ForceMinIterations and ForceMaxIterations bound the simulation length
	ForceMinIterations int
	ForceMaxIterations int
}

// Config holds all application configuration
type Config struct {
	// Server configuration
	ServerAddress string
	Environment   string

	// Persistence: "memory" for local development, "dynamodb" otherwise
	StoreDriver   string
	AWSRegion     string
	DynamoDBTable string

	// Logging
	LogLevel string

	// Feature flags
	EnableMetrics bool
	EnableCORS    bool

	// Layout tuning
	Layout LayoutConfig

	// SnapshotRetention is the maximum retained snapshot count per canvas
	SnapshotRetention int
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		ServerAddress: getEnv("SERVER_ADDRESS", ":8080"),
		Environment:   getEnv("ENVIRONMENT", "development"),

		StoreDriver:   getEnv("STORE_DRIVER", "memory"),
		AWSRegion:     getEnv("AWS_REGION", "us-west-2"),
		DynamoDBTable: getEnv("TABLE_NAME", getEnv("DYNAMODB_TABLE", "canvas")),

		LogLevel:      getEnv("LOG_LEVEL", "info"),
		EnableMetrics: getEnvBool("ENABLE_METRICS", true),
		EnableCORS:    getEnvBool("ENABLE_CORS", true),

		Layout: LayoutConfig{
			HorizontalSpacing:  getEnvFloat("LAYOUT_HORIZONTAL_SPACING", 250),
			VerticalSpacing:    getEnvFloat("LAYOUT_VERTICAL_SPACING", 120),
			CircularRadius:     getEnvFloat("LAYOUT_CIRCULAR_RADIUS", 280),
			ForceSeed:          int64(getEnvInt("LAYOUT_FORCE_SEED", 1)),
			ForceMinIterations: getEnvInt("LAYOUT_FORCE_MIN_ITERATIONS", 300),
			ForceMaxIterations: getEnvInt("LAYOUT_FORCE_MAX_ITERATIONS", 500),
		},

		SnapshotRetention: getEnvInt("SNAPSHOT_RETENTION", 5),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if all required configuration is present
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case "memory", "dynamodb":
	default:
		return fmt.Errorf("STORE_DRIVER must be \"memory\" or \"dynamodb\", got %q", c.StoreDriver)
	}

	if c.StoreDriver == "dynamodb" && c.DynamoDBTable == "" {
		return fmt.Errorf("DYNAMODB_TABLE is required with the dynamodb store driver")
	}

	if c.Layout.ForceMinIterations > c.Layout.ForceMaxIterations {
		return fmt.Errorf("LAYOUT_FORCE_MIN_ITERATIONS must not exceed LAYOUT_FORCE_MAX_ITERATIONS")
	}

	return nil
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

// getEnvInt gets an integer environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvFloat gets a float environment variable with a default value
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}
