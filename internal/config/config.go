// Package config loads clustermapctl's runtime configuration from a file,
// environment variables, and flags, layered in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Sentinel validation errors.
var (
	ErrInvalidDepth      = errors.New("tree depth out of range")
	ErrInvalidDistance   = errors.New("cluster distance must be non-negative")
	ErrInvalidServerPort = errors.New("invalid server port")
)

const (
	minTreeDepth = 2
	maxTreeDepth = 20
	maxPort      = 65535

	defaultPort            = 8088
	defaultHost            = "0.0.0.0"
	defaultTreeDepth       = 14
	defaultClusterDistance = 40
	defaultClustering      = false
	defaultLogLevel        = "info"
	defaultLogFormat       = "json"
	defaultMetricsPath     = "/metrics"
)

// Config holds all configuration for clustermapctl.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Clustering ClusteringConfig `mapstructure:"clustering"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
}

// ServerConfig holds the HTTP API host configuration.
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// ClusteringConfig holds the engine's initial tuning parameters.
// MarkerImage names an image for the renderer to draw at each point; the
// engine itself never looks at it.
type ClusteringConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	TreeDepth   int     `mapstructure:"tree_depth"`
	DistancePx  float64 `mapstructure:"cluster_distance_px"`
	MarkerImage string  `mapstructure:"marker_image"`
}

// LoggingConfig holds diagnostics sink configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// MetricsConfig holds Prometheus exposition configuration.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// Load reads configuration from configPath (if non-empty), the
// CLUSTERMAP_-prefixed environment, and flags, in that order of increasing
// precedence, and validates the result.
func Load(configPath string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("clustermap")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/clustermap")
	}

	v.SetEnvPrefix("CLUSTERMAP")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("bind flags: %w", err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", defaultHost)
	v.SetDefault("server.port", defaultPort)

	v.SetDefault("clustering.enabled", defaultClustering)
	v.SetDefault("clustering.tree_depth", defaultTreeDepth)
	v.SetDefault("clustering.cluster_distance_px", defaultClusterDistance)

	v.SetDefault("logging.level", defaultLogLevel)
	v.SetDefault("logging.format", defaultLogFormat)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", defaultMetricsPath)
}

func validate(cfg *Config) error {
	if cfg.Clustering.TreeDepth < minTreeDepth || cfg.Clustering.TreeDepth > maxTreeDepth {
		return fmt.Errorf("%w: %d", ErrInvalidDepth, cfg.Clustering.TreeDepth)
	}
	if cfg.Clustering.DistancePx < 0 {
		return fmt.Errorf("%w: %f", ErrInvalidDistance, cfg.Clustering.DistancePx)
	}
	if cfg.Server.Port <= 0 || cfg.Server.Port > maxPort {
		return fmt.Errorf("%w: %d", ErrInvalidServerPort, cfg.Server.Port)
	}
	return nil
}
