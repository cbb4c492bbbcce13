package config

// MetricsConfig controls the Prometheus endpoint. An empty Addr disables it.
type MetricsConfig struct {
	Addr string `json:"addr" yaml:"addr"`
	Path string `json:"path" yaml:"path"`
}

func DefaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Addr: ":9090",
		Path: "/metrics",
	}
}

func (c *MetricsConfig) Merge(source *MetricsConfig) {
	if source.Addr != "" {
		c.Addr = source.Addr
	}

	if source.Path != "" {
		c.Path = source.Path
	}
}
