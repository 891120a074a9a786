package main

import (
	"errors"
	"fmt"
	"log/slog"

	"leadradar/internal/config"
	"leadradar/internal/daemon"
	"leadradar/internal/leads"
	"leadradar/internal/store"
)

// bootstrap opens the store and assembles the daemon. The caller owns the
// returned daemon and must Close it.
func bootstrap(cfg *config.Config, logger *slog.Logger) (*daemon.Daemon, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	st, err := store.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	svc, err := leads.NewFromConfig(cfg, st, logger)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("build service: %w", err)
	}
	d, err := daemon.New(cfg, st, svc, logger)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("create daemon: %w", err)
	}
	return d, nil
}
