package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration. Credentials are read once
// here and injected into client constructors; nothing reads the environment
// inside request-scoped code.
type Config struct {
	Serper     SerperConfig     `yaml:"serper" mapstructure:"serper"`
	Anthropic  AnthropicConfig  `yaml:"anthropic" mapstructure:"anthropic"`
	Apollo     ApolloConfig     `yaml:"apollo" mapstructure:"apollo"`
	Store      StoreConfig      `yaml:"store" mapstructure:"store"`
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Enrich     EnrichConfig     `yaml:"enrich" mapstructure:"enrich"`
	Categorize CategorizeConfig `yaml:"categorize" mapstructure:"categorize"`
	Generate   GenerateConfig   `yaml:"generate" mapstructure:"generate"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
}

// SerperConfig holds Serper search API settings.
type SerperConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	Results int    `yaml:"results" mapstructure:"results"`
}

// AnthropicConfig holds Anthropic API settings.
type AnthropicConfig struct {
	Key               string `yaml:"key" mapstructure:"key"`
	Model             string `yaml:"model" mapstructure:"model"`
	AnalysisMaxTokens int64  `yaml:"analysis_max_tokens" mapstructure:"analysis_max_tokens"`
	GenerateMaxTokens int64  `yaml:"generate_max_tokens" mapstructure:"generate_max_tokens"`
	MagnetMaxTokens   int64  `yaml:"magnet_max_tokens" mapstructure:"magnet_max_tokens"`
}

// ApolloConfig holds Apollo people-enrichment API settings.
type ApolloConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// EnrichConfig configures the enrichment pipeline.
type EnrichConfig struct {
	RatePerSec  float64 `yaml:"rate_per_sec" mapstructure:"rate_per_sec"`
	Burst       int     `yaml:"burst" mapstructure:"burst"`
	PhoneRegion string  `yaml:"phone_region" mapstructure:"phone_region"`
}

// CategorizeConfig configures batch categorization.
type CategorizeConfig struct {
	BatchSize     int     `yaml:"batch_size" mapstructure:"batch_size"`
	RatePerSec    float64 `yaml:"rate_per_sec" mapstructure:"rate_per_sec"`
	RetryAttempts int     `yaml:"retry_attempts" mapstructure:"retry_attempts"`
}

// GenerateConfig configures content generation.
type GenerateConfig struct {
	RatePerSec float64 `yaml:"rate_per_sec" mapstructure:"rate_per_sec"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("LEADFORGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults. Credential keys get explicit empty defaults so viper binds
	// their environment variables during Unmarshal.
	v.SetDefault("serper.key", "")
	v.SetDefault("anthropic.key", "")
	v.SetDefault("apollo.key", "")
	v.SetDefault("serper.base_url", "https://google.serper.dev")
	v.SetDefault("serper.results", 5)
	v.SetDefault("anthropic.model", "claude-haiku-4-5-20251001")
	v.SetDefault("anthropic.analysis_max_tokens", 1200)
	v.SetDefault("anthropic.generate_max_tokens", 2500)
	v.SetDefault("anthropic.magnet_max_tokens", 4000)
	v.SetDefault("apollo.base_url", "https://api.apollo.io/v1")
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "leadforge.db")
	v.SetDefault("server.port", 8080)
	v.SetDefault("enrich.rate_per_sec", 1.0)
	v.SetDefault("enrich.burst", 1)
	v.SetDefault("enrich.phone_region", "US")
	v.SetDefault("categorize.batch_size", 5)
	v.SetDefault("categorize.rate_per_sec", 1.0)
	v.SetDefault("categorize.retry_attempts", 2)
	v.SetDefault("generate.rate_per_sec", 1.0)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
