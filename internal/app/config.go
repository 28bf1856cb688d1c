package app

import "errors"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	// LeafArgs are the raw leaf arguments: files, directories, or globs.
	LeafArgs []string
	// RootDir anchors root-relative resolution; discovered when empty.
	RootDir string

	Format      string // 'json' or 'hcl'
	Generate    bool
	LogFormat   string
	LogLevel    string
	WorkerCount int
}

func NewConfig(cfg Config) (*Config, error) {
	if len(cfg.LeafArgs) == 0 {
		return nil, errors.New("at least one leaf path is required")
	}
	if cfg.WorkerCount < 1 {
		return nil, errors.New("workers must be at least 1")
	}
	return &cfg, nil
}
