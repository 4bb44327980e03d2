package bootstrap

import (
	"log/slog"

	"github.com/target/mmk-sso/config"
	"github.com/target/mmk-sso/internal/observability/statsd"
)

// BuildMetrics returns the StatsD client, or nil when metrics are disabled or
// the agent cannot be reached.
func BuildMetrics(cfg config.ObservabilityMetricsConfig, logger *slog.Logger) *statsd.Client {
	if !cfg.IsEnabled() {
		return nil
	}
	if logger == nil {
		logger = slog.Default()
	}
	client, err := statsd.NewClient(statsd.Config{
		Enabled: true,
		Address: cfg.StatsdAddress,
		Prefix:  cfg.Prefix,
		Logger:  logger,
	})
	if err != nil {
		logger.Error("failed to initialise statsd client", "error", err)
		return nil
	}
	return client
}
