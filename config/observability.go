package config

import "strings"

// MetricsConfig controls emission of metrics to a StatsD sink.
type MetricsConfig struct {
	Enabled       bool   `env:"METRICS_ENABLED"     envDefault:"false"`
	StatsdAddress string `env:"METRICS_STATSD_ADDR" envDefault:"127.0.0.1:8125"`
	Prefix        string `env:"METRICS_PREFIX"      envDefault:"salon_admin"`
}

// Sanitize normalises derived fields and enforces safe defaults.
func (c *MetricsConfig) Sanitize() {
	c.StatsdAddress = strings.TrimSpace(c.StatsdAddress)
	if c.StatsdAddress == "" {
		c.Enabled = false
	}
}

// IsEnabled returns true when metrics emission is active after sanitisation.
func (c *MetricsConfig) IsEnabled() bool {
	return c.Enabled && c.StatsdAddress != ""
}
