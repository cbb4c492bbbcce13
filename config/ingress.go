package config

import "time"

// IngressConfig defines the Connect endpoint that feeds the network.
type IngressConfig struct {
	Addr string `json:"addr" yaml:"addr"`

	// Component and input port that receive delivered envelopes
	Target string `json:"target" yaml:"target"`
	Input  string `json:"input" yaml:"input"`

	// Output port whose envelopes answer deliveries
	Output string `json:"output" yaml:"output"`

	// How long Deliver waits for the correlated output
	RequestTimeout Duration `json:"request_timeout" yaml:"request_timeout"`

	// Token bucket; RateLimit <= 0 disables limiting
	RateLimit float64 `json:"rate_limit" yaml:"rate_limit"`
	Burst     int     `json:"burst" yaml:"burst"`
}

// DefaultIngressConfig returns an IngressConfig targeting the default bucket.
func DefaultIngressConfig() IngressConfig {
	return IngressConfig{
		Addr:           ":8080",
		Target:         "bucket",
		Input:          "operation",
		Output:         "output",
		RequestTimeout: Duration(10 * time.Second),
		RateLimit:      0,
		Burst:          1,
	}
}

func (c *IngressConfig) Merge(source *IngressConfig) {
	if source.Addr != "" {
		c.Addr = source.Addr
	}

	if source.Target != "" {
		c.Target = source.Target
	}

	if source.Input != "" {
		c.Input = source.Input
	}

	if source.Output != "" {
		c.Output = source.Output
	}

	if source.RequestTimeout > 0 {
		c.RequestTimeout = source.RequestTimeout
	}

	if source.RateLimit > 0 {
		c.RateLimit = source.RateLimit
	}

	if source.Burst > 0 {
		c.Burst = source.Burst
	}
}
