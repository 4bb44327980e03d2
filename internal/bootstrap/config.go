package bootstrap

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/target/mmk-sso/config"
)

// DefaultEnvFile is the dotenv file read at startup when present.
const DefaultEnvFile = ".env"

// InitLogger initializes the structured logger.
func InitLogger() *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)
	return logger
}

// LoadConfig loads configuration from environment variables.
func LoadConfig() (config.AppConfig, error) {
	// Load .env file if it exists (development)
	if err := godotenv.Load(DefaultEnvFile); err != nil {
		var pathErr *os.PathError
		if !errors.As(err, &pathErr) {
			return config.AppConfig{}, fmt.Errorf("load .env file: %w", err)
		}
	}
	return ParseConfig(os.Environ())
}

// ParseConfig builds the configuration from environ. Keys that environ leaves
// unset are looked up in the dotenv file named by SECRETS_FILE, if any.
func ParseConfig(environ []string) (config.AppConfig, error) {
	fallback, err := readSecretsFile(lookupEnv(environ, "SECRETS_FILE"))
	if err != nil {
		return config.AppConfig{}, err
	}

	var cfg config.AppConfig
	opts := env.Options{Environment: config.MergeEnvironment(fallback, environ)}
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	cfg.Sanitize()
	return cfg, nil
}

// readSecretsFile returns the key/value pairs of a dotenv file. A file that
// does not exist yields no values.
func readSecretsFile(path string) (map[string]string, error) {
	if strings.TrimSpace(path) == "" {
		return nil, nil
	}
	values, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			slog.Warn("secrets file not found", "path", path)
			return nil, nil
		}
		return nil, fmt.Errorf("read secrets file: %w", err)
	}
	return values, nil
}

func lookupEnv(environ []string, key string) string {
	for _, kv := range environ {
		if k, v, ok := strings.Cut(kv, "="); ok && k == key {
			return v
		}
	}
	return ""
}
