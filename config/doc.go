// Package config holds the initialization parameters for every part of the
// bucket runtime.
//
// Configuration is used only during initialization and then transformed into
// domain objects. Each section has a DefaultXConfig constructor and a Merge
// method that applies non-zero values from a loaded file on top of the
// defaults:
//
//	cfg, err := config.Load("bucket.yaml")
//	net := network.New(ctx, cfg.Network)
//	b, err := bucket.New(cfg.Bucket)
//
// Files may be JSON (.json) or YAML (.yaml, .yml). Durations are written as
// Go duration strings ("5s", "250ms") in both formats.
package config
