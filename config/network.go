package config

import (
	"log/slog"
	"time"
)

// NetworkConfig defines configuration for a Network instance.
type NetworkConfig struct {
	// Network identity
	Name string `json:"name" yaml:"name"`

	// Buffer of runtime-owned ports created by Tap
	ChannelBufferSize int `json:"channel_buffer_size" yaml:"channel_buffer_size"`

	// Upper bound for Shutdown
	ShutdownTimeout Duration `json:"shutdown_timeout" yaml:"shutdown_timeout"`

	// Observers resolved by name from the observability registry
	Observers []string `json:"observers,omitempty" yaml:"observers,omitempty"`

	Logger *slog.Logger `json:"-" yaml:"-"`
}

// DefaultNetworkConfig returns a NetworkConfig with sensible defaults.
func DefaultNetworkConfig() NetworkConfig {
	return NetworkConfig{
		Name:              "default",
		ChannelBufferSize: 100,
		ShutdownTimeout:   Duration(5 * time.Second),
		Observers:         []string{"noop"},
		Logger:            slog.Default(),
	}
}

func (c *NetworkConfig) Merge(source *NetworkConfig) {
	if source.Name != "" {
		c.Name = source.Name
	}

	if source.ChannelBufferSize > 0 {
		c.ChannelBufferSize = source.ChannelBufferSize
	}

	if source.ShutdownTimeout > 0 {
		c.ShutdownTimeout = source.ShutdownTimeout
	}

	if len(source.Observers) > 0 {
		c.Observers = source.Observers
	}

	if source.Logger != nil {
		c.Logger = source.Logger
	}
}
