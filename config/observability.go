package config

// ObservabilityConfig contains metrics emission configuration.
type ObservabilityConfig struct {
	// MetricsEnabled turns on StatsD metric emission.
	MetricsEnabled bool `env:"METRICS_ENABLED" envDefault:"false"`

	// StatsdAddress is the UDP host:port of the StatsD endpoint.
	StatsdAddress string `env:"STATSD_ADDRESS" envDefault:""`
}

// IsEnabled reports whether metrics should actually be emitted.
func (o ObservabilityConfig) IsEnabled() bool {
	return o.MetricsEnabled && o.StatsdAddress != ""
}
