package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds all engine configuration.
type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Execution  ExecutionConfig  `mapstructure:"execution"`
	Catalog    CatalogConfig    `mapstructure:"catalog"`
	Monitoring MonitoringConfig `mapstructure:"monitoring"`
}

// AppConfig contains application-level settings.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"` // development, staging, production
	LogLevel    string `mapstructure:"log_level"`
	LogFormat   string `mapstructure:"log_format"` // "console" or "json"
}

// ExecutionConfig controls how the orchestrator schedules and runs transforms.
type ExecutionConfig struct {
	// MaxConcurrentAssets bounds the fan-out of ApplyDefaultTransform and the
	// per-asset input-gathering phase of ApplyCrossSectionTransform. Zero
	// means unbounded, matching the unbounded-concurrency design the graph
	// scheduler assumes.
	MaxConcurrentAssets int `mapstructure:"max_concurrent_assets"`
	// AllowNullInputs is copied onto the execution Context. The per-asset
	// null-drop decision reads only each transform's own
	// Metadata().AllowNullInputs, so this setting does not change which rows
	// are dropped.
	AllowNullInputs bool `mapstructure:"allow_null_inputs"`
}

// CatalogConfig bounds which TransformManager catalog versions this engine
// build will accept at Orchestrator construction time.
type CatalogConfig struct {
	VersionConstraint string `mapstructure:"version_constraint"` // semver constraint, e.g. ">= 1.0.0, < 2.0.0"
}

// MonitoringConfig contains monitoring settings.
type MonitoringConfig struct {
	PrometheusPort int  `mapstructure:"prometheus_port"`
	EnableMetrics  bool `mapstructure:"enable_metrics"`
}

// Load loads configuration from file and environment variables.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	v.AutomaticEnv()
	v.SetEnvPrefix("EPOCHFLOW")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found; using defaults and environment variables.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "epochflow")
	v.SetDefault("app.version", "0.1.0")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.log_format", "console")

	v.SetDefault("execution.max_concurrent_assets", 0)
	v.SetDefault("execution.allow_null_inputs", false)

	v.SetDefault("catalog.version_constraint", ">= 1.0.0, < 2.0.0")

	v.SetDefault("monitoring.prometheus_port", 9100)
	v.SetDefault("monitoring.enable_metrics", true)
}
