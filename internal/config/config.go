package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Competitive CompetitiveConfig `yaml:"competitive" mapstructure:"competitive"`
	Recommend   RecommendConfig   `yaml:"recommend" mapstructure:"recommend"`
	Industry    IndustryConfig    `yaml:"industry" mapstructure:"industry"`
	Session     SessionConfig     `yaml:"session" mapstructure:"session"`
	Batch       BatchConfig       `yaml:"batch" mapstructure:"batch"`
	Server      ServerConfig      `yaml:"server" mapstructure:"server"`
	Log         LogConfig         `yaml:"log" mapstructure:"log"`
}

// CompetitiveConfig tunes the competitive intelligence engine.
type CompetitiveConfig struct {
	// FallbackDomain stands in for the primary company when the keyword
	// data carries no domain columns.
	FallbackDomain string `yaml:"fallback_domain" mapstructure:"fallback_domain"`
	// GapVolumeMultiplier estimates gap potential per keyword when the
	// report has no Search Volume column.
	GapVolumeMultiplier float64 `yaml:"gap_volume_multiplier" mapstructure:"gap_volume_multiplier"`
	TopCompetitors      int     `yaml:"top_competitors" mapstructure:"top_competitors"`
	GapsPerCompetitor   int     `yaml:"gaps_per_competitor" mapstructure:"gaps_per_competitor"`
	MaxGapOpportunities int     `yaml:"max_gap_opportunities" mapstructure:"max_gap_opportunities"`
	MaxTactics          int     `yaml:"max_tactics" mapstructure:"max_tactics"`
}

// RecommendConfig tunes the recommendation engine.
type RecommendConfig struct {
	// Goals are the business objectives recommendations align to when
	// the caller does not supply any.
	Goals              []string `yaml:"goals" mapstructure:"goals"`
	MaxRecommendations int      `yaml:"max_recommendations" mapstructure:"max_recommendations"`
}

// IndustryConfig points at an optional industry-context override file.
type IndustryConfig struct {
	ContextPath string `yaml:"context_path" mapstructure:"context_path"`
}

// SessionConfig configures the in-memory analysis session registry.
type SessionConfig struct {
	TTLMinutes   int `yaml:"ttl_minutes" mapstructure:"ttl_minutes"`
	SweepMinutes int `yaml:"sweep_minutes" mapstructure:"sweep_minutes"`
}

// BatchConfig configures batch workbook processing.
type BatchConfig struct {
	MaxConcurrentFiles int `yaml:"max_concurrent_files" mapstructure:"max_concurrent_files"`
}

// ServerConfig configures the analysis HTTP server.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	MaxUploadMB    int      `yaml:"max_upload_mb" mapstructure:"max_upload_mb"`
	RatePerSecond  float64  `yaml:"rate_per_second" mapstructure:"rate_per_second"`
	RateBurst      int      `yaml:"rate_burst" mapstructure:"rate_burst"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
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
	v.SetEnvPrefix("INSIGHTS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.max_upload_mb", 32)
	v.SetDefault("server.rate_per_second", 5)
	v.SetDefault("server.rate_burst", 10)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("session.ttl_minutes", 60)
	v.SetDefault("session.sweep_minutes", 10)
	v.SetDefault("batch.max_concurrent_files", 4)
	v.SetDefault("competitive.fallback_domain", "dossier.co")
	v.SetDefault("competitive.gap_volume_multiplier", 1000)
	v.SetDefault("competitive.top_competitors", 5)
	v.SetDefault("competitive.gaps_per_competitor", 10)
	v.SetDefault("competitive.max_gap_opportunities", 20)
	v.SetDefault("competitive.max_tactics", 5)
	v.SetDefault("recommend.goals", []string{"acquisition", "conversion"})
	v.SetDefault("recommend.max_recommendations", 10)

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

// Validate checks that the configuration is usable for the given run
// mode: "analyze", "batch" or "serve".
func (c *Config) Validate(mode string) error {
	var errs []string

	switch mode {
	case "analyze":
		// Engine checks below are enough.
	case "batch":
		if c.Batch.MaxConcurrentFiles < 1 || c.Batch.MaxConcurrentFiles > 32 {
			errs = append(errs, "batch.max_concurrent_files must be between 1 and 32")
		}
	case "serve":
		if c.Server.Port <= 0 {
			errs = append(errs, "server.port must be > 0")
		}
		if c.Server.MaxUploadMB < 1 {
			errs = append(errs, "server.max_upload_mb must be >= 1")
		}
		if c.Server.RatePerSecond <= 0 {
			errs = append(errs, "server.rate_per_second must be > 0")
		}
		if c.Server.RateBurst < 1 {
			errs = append(errs, "server.rate_burst must be >= 1")
		}
		if c.Session.TTLMinutes < 1 {
			errs = append(errs, "session.ttl_minutes must be >= 1")
		}
		if c.Session.SweepMinutes < 1 {
			errs = append(errs, "session.sweep_minutes must be >= 1")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	// Engine settings matter in every mode.
	if c.Competitive.FallbackDomain == "" {
		errs = append(errs, "competitive.fallback_domain is required")
	}
	if c.Recommend.MaxRecommendations < 1 {
		errs = append(errs, "recommend.max_recommendations must be >= 1")
	}

	if len(errs) > 0 {
		return eris.Errorf("config: validation failed for mode %s: %s", mode, strings.Join(errs, "; "))
	}
	return nil
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
