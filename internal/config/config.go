package config

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type (
	// Config represents an application configuration.
	Config struct {
		// The data source name (DSN) for connecting to the database.
		DSN string `yaml:"dsn" env:"DATABASE_URI"`
		// Subconfigs.
		HTTPServer HTTPServer `yaml:"http_server"`
		OrderAPI   OrderAPI   `yaml:"order_api"`
		JWT        JWT        `yaml:"jwt"`
		Logger     Logger     `yaml:"logger"`
		Notice     Notice     `yaml:"notice"`
		// Cost of the password to hash. Must be grater than 3.
		PasswordHashCost int `yaml:"password_hash_cost" env:"PASSWORD_HASH_COST" env-default:"14"`
	}
	// Config for HTTP server.
	HTTPServer struct {
		// The server startup address.
		Address string `yaml:"run_address" env:"RUN_ADDRESS" env-default:"127.0.0.1:8080"`
		// Read header timeout.
		Timeout time.Duration `yaml:"timeout" env-default:"5s"`
		// Idle timeout.
		IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
		// Shutdown timeout.
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT" env-default:"30s"`
	}
	// Config for the remote order API client.
	OrderAPI struct {
		// Base address of the order API, e.g. http://127.0.0.1:8080.
		Address string `yaml:"address" env:"ORDER_API_ADDRESS" env-default:"http://127.0.0.1:8080"`
		// Upper bound for a single request, status updates included.
		Timeout time.Duration `yaml:"timeout" env:"ORDER_API_TIMEOUT" env-default:"10s"`
		// One request is allowed every RateInterval with bursts of RateBurst.
		RateInterval time.Duration `yaml:"rate_interval" env-default:"100ms"`
		RateBurst    int           `yaml:"rate_burst" env-default:"10"`
		Breaker      Breaker       `yaml:"breaker"`
	}
	// Config for the order API circuit breaker.
	Breaker struct {
		// Consecutive failures that open the breaker. Zero disables it.
		MaxFailures uint32 `yaml:"max_failures" env-default:"5"`
		// How long the breaker stays open.
		OpenTimeout time.Duration `yaml:"open_timeout" env-default:"30s"`
	}
	// Config for application's logger.
	Logger struct {
		// Path to store log files.
		Path string `yaml:"path" env:"LOG_PATH"`
		// Application logging level.
		Level string `yaml:"level" env:"LOG_LEVEL"`
		// Log files details.
		MaxSizeMB  int `yaml:"max_size_mb"`
		MaxBackups int `yaml:"max_backups"`
		MaxAgeDays int `yaml:"max_age_days"`
	}
	// Config for JWT.
	JWT struct {
		// JWT signing key.
		SigningKey string `yaml:"signing_key" env:"JWT_SIGNING_KEY"`
		// JWT expiration.
		Expiration time.Duration `yaml:"expiration" env:"JWT_EXPIRATION" env-default:"24h"`
	}
	// Config for user facing notices.
	Notice struct {
		// BCP 47 language tag of notice copy.
		Language string `yaml:"language" env:"NOTICE_LANGUAGE" env-default:"vi"`
	}
)

// Load returns a configuration populated from the yaml file at path
// (when it exists) and environment variables.
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err = cleanenv.ReadConfig(path, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file %s: %w", path, err)
			}
			return &cfg, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("stat config file %s: %w", path, err)
		}
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read environment variables: %w", err)
	}

	return &cfg, nil
}

// MustLoad returns an application configuration which is populated
// from the given configuration file, environment variables and flags.
func MustLoad() *Config {
	// Configuration yaml file path.
	configPath := flag.String("config", "./config/local.yml", "path to the config file")
	address := flag.String("a", "", "server startup address")
	dsn := flag.String("d", "", "server data source name")
	flag.Parse()

	// Check if file exists.
	if _, err := os.Stat(*configPath); os.IsNotExist(err) {
		log.Fatalf("config file does not exist: %s", *configPath)
	}

	// Load from YAML cfg file and environment variables.
	cfg, err := Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}

	// Explicit flags win.
	if *address != "" {
		cfg.HTTPServer.Address = *address
	}
	if *dsn != "" {
		cfg.DSN = *dsn
	}

	return cfg
}
