package config

import "log/slog"

// BucketConfig defines configuration for a bucket component.
type BucketConfig struct {
	// Component identity within the network
	Name string `json:"name" yaml:"name"`

	// Buffer of the "operation" input port
	ChannelBufferSize int `json:"channel_buffer_size" yaml:"channel_buffer_size"`

	// Observers resolved by name from the observability registry
	Observers []string `json:"observers,omitempty" yaml:"observers,omitempty"`

	Logger *slog.Logger `json:"-" yaml:"-"`
}

// DefaultBucketConfig returns a BucketConfig with sensible defaults.
func DefaultBucketConfig() BucketConfig {
	return BucketConfig{
		Name:              "bucket",
		ChannelBufferSize: 100,
		Observers:         []string{"noop"},
		Logger:            slog.Default(),
	}
}

func (c *BucketConfig) Merge(source *BucketConfig) {
	if source.Name != "" {
		c.Name = source.Name
	}

	if source.ChannelBufferSize > 0 {
		c.ChannelBufferSize = source.ChannelBufferSize
	}

	if len(source.Observers) > 0 {
		c.Observers = source.Observers
	}

	if source.Logger != nil {
		c.Logger = source.Logger
	}
}
