package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

var (
	ErrConfigFileNotFound    = errors.New("could not find config file in any config path")
	ErrConfigVersionMissing  = errors.New("config file is missing version field")
	ErrConfigVersionMismatch = errors.New("config file version mismatch")
)

// Current version of the config files.
const (
	CurrentCommonVersion = 1
	CurrentWorkerVersion = 1
)

// Config represents the entire application configuration.
type Config struct {
	Common CommonConfig
	Worker WorkerConfig
}

// CommonConfig contains configuration shared between the API server and worker.
type CommonConfig struct {
	// Version of the common config.
	Version    int        `koanf:"version"`
	Debug      Debug      `koanf:"debug"`
	PostgreSQL PostgreSQL `koanf:"postgresql"`
	Redis      Redis      `koanf:"redis"`
	API        APIConfig  `koanf:"api"`
}

// WorkerConfig contains worker specific configuration.
type WorkerConfig struct {
	// Version of the worker config.
	Version int `koanf:"version"`
	// Trending recompute job configuration.
	Trending Trending `koanf:"trending"`
}

// Trending configures the trending score recompute job.
type Trending struct {
	// Interval between recompute runs in minutes.
	IntervalMinutes int `koanf:"interval_minutes"`
	// Only ideas created within this many hours are recomputed.
	LookbackHours int `koanf:"lookback_hours"`
	// Maximum number of ideas refreshed per run.
	BatchSize int `koanf:"batch_size"`
}

// Debug contains debug-related configuration.
type Debug struct {
	// Log level (debug, info, warn, error).
	LogLevel string `koanf:"log_level"`
	// Maximum number of log files to keep.
	MaxLogsToKeep int `koanf:"max_logs_to_keep"`
}

// APIConfig contains REST API server configuration.
type APIConfig struct {
	Server    ServerConfig `koanf:"server"`
	Auth      Auth         `koanf:"auth"`
	RateLimit RateLimit    `koanf:"rate_limit"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	// Host to listen on.
	Host string `koanf:"host"`
	// Port to listen on.
	Port int `koanf:"port"`
}

// Auth contains session token verification settings.
type Auth struct {
	// HMAC secret used to verify session tokens.
	SessionSecret string `koanf:"session_secret"`
	// Expected token issuer.
	Issuer string `koanf:"issuer"`
}

// RateLimit contains rate limiting configuration.
type RateLimit struct {
	// Sustained requests per second per client.
	RequestsPerSecond float64 `koanf:"requests_per_second"`
	// Burst size per client.
	BurstSize int `koanf:"burst_size"`
	// Strikes before a client is blocked.
	StrikeLimit int `koanf:"strike_limit"`
	// Block duration in seconds after exceeding the strike limit.
	BlockDuration int `koanf:"block_duration"`
}

// PostgreSQL contains database connection configuration.
type PostgreSQL struct {
	// Database hostname.
	Host string `koanf:"host"`
	// Database port.
	Port int `koanf:"port"`
	// Database username.
	User string `koanf:"user"`
	// Database password.
	Password string `koanf:"password"`
	// Database name.
	DBName string `koanf:"db_name"`
	// Maximum open connections.
	MaxOpenConns int `koanf:"max_open_conns"`
	// Maximum idle connections.
	MaxIdleConns int `koanf:"max_idle_conns"`
	// Connection lifetime in minutes.
	MaxLifetime int `koanf:"max_lifetime"`
	// Idle timeout in minutes.
	MaxIdleTime int `koanf:"max_idle_time"`
}

// Redis contains Redis connection configuration.
type Redis struct {
	// Redis hostname.
	Host string `koanf:"host"`
	// Redis port.
	Port int `koanf:"port"`
	// Redis username.
	Username string `koanf:"username"`
	// Redis password.
	Password string `koanf:"password"`
}

// LoadConfig loads the configuration from the first config path that contains
// the required TOML files and returns the config along with the used path.
func LoadConfig() (*Config, string, error) {
	k := koanf.New(".")

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, "", fmt.Errorf("failed to get home directory: %w", err)
	}

	configPaths := []string{
		".ifyoumind",
		homeDir + "/.ifyoumind/config",
		"/etc/ifyoumind/config",
		"/app/config",
		"config",
		".",
	}

	var usedConfigPath string

	configFiles := []string{"common", "worker"}
	for _, configName := range configFiles {
		configLoaded := false

		for _, path := range configPaths {
			configPath := fmt.Sprintf("%s/%s.toml", path, configName)
			if err := k.Load(file.Provider(configPath), toml.Parser()); err == nil {
				configLoaded = true

				if usedConfigPath == "" {
					usedConfigPath = path
				}

				break
			}
		}

		if !configLoaded {
			return nil, "", fmt.Errorf("%w: %s.toml", ErrConfigFileNotFound, configName)
		}
	}

	var config Config
	if err := k.Unmarshal("", &config); err != nil {
		return nil, "", fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := checkConfigVersion("common", config.Common.Version, CurrentCommonVersion); err != nil {
		return nil, "", err
	}

	if err := checkConfigVersion("worker", config.Worker.Version, CurrentWorkerVersion); err != nil {
		return nil, "", err
	}

	return &config, usedConfigPath, nil
}

// checkConfigVersion validates a config file's version field.
func checkConfigVersion(name string, got, want int) error {
	if got == 0 {
		return fmt.Errorf("%w: %s.toml", ErrConfigVersionMissing, name)
	}

	if got != want {
		return fmt.Errorf("%w: %s.toml has version %d, expected %d",
			ErrConfigVersionMismatch, name, got, want)
	}

	return nil
}
