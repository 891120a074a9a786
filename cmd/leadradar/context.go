package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"leadradar/internal/config"
	"leadradar/internal/leads"
	"leadradar/internal/logging"
	"leadradar/internal/store"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configPath string
	configSeen bool
	configErr  error

	store   *store.Store
	service *leads.Service
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, exists, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolved
		c.configSeen = exists
	})
	return c.config, c.configErr
}

// cliLogger writes to stderr so stdout stays clean for tables and JSON.
func (c *commandContext) cliLogger(w io.Writer) *slog.Logger {
	cfg, err := c.ensureConfig()
	if err != nil {
		return logging.NewNop()
	}
	logger, err := logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Writer: w,
	})
	if err != nil {
		return logging.NewNop()
	}
	return logger
}

// ensureService opens the store and builds the leads service once per
// invocation.
func (c *commandContext) ensureService(cmd *cobra.Command) (*leads.Service, *store.Store, error) {
	if c.service != nil {
		return c.service, c.store, nil
	}
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, nil, err
	}
	st, err := store.Open(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}
	svc, err := leads.NewFromConfig(cfg, st, c.cliLogger(cmd.ErrOrStderr()))
	if err != nil {
		st.Close()
		return nil, nil, err
	}
	c.store = st
	c.service = svc
	return svc, st, nil
}

// withService runs fn against a freshly opened service and closes the store
// afterwards.
func (c *commandContext) withService(cmd *cobra.Command, fn func(*leads.Service, *store.Store) error) error {
	svc, st, err := c.ensureService(cmd)
	if err != nil {
		return err
	}
	defer c.close()
	return fn(svc, st)
}

func (c *commandContext) close() {
	if c.store != nil {
		_ = c.store.Close()
		c.store = nil
		c.service = nil
	}
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
