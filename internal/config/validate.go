package config

import (
	"errors"
	"fmt"
	"net"
	"strings"

	"golang.org/x/text/language"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateLLM(); err != nil {
		return err
	}
	if err := c.validateCognitive(); err != nil {
		return err
	}
	if err := c.validateScan(); err != nil {
		return err
	}
	if err := c.validateAuth(); err != nil {
		return err
	}
	if err := c.validateNotifications(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		return errors.New("paths.data_dir must be set")
	}
	if _, _, err := net.SplitHostPort(c.Paths.APIBind); err != nil {
		return fmt.Errorf("paths.api_bind must be host:port: %w", err)
	}
	return nil
}

func (c *Config) validateLLM() error {
	if c.LLM.TimeoutSeconds <= 0 {
		return errors.New("llm.timeout_seconds must be positive")
	}
	if c.LLM.RequestsPerSecond < 0 {
		return errors.New("llm.requests_per_second must be >= 0")
	}
	return nil
}

func (c *Config) validateCognitive() error {
	if c.Cognitive.MinConfidence < 0 || c.Cognitive.MinConfidence > 1 {
		return errors.New("cognitive.min_confidence must be between 0 and 1")
	}
	switch c.Cognitive.RelevanceFailure {
	case RelevanceAccept, RelevanceReject:
	default:
		return fmt.Errorf("cognitive.relevance_failure must be %q or %q, got %q", RelevanceAccept, RelevanceReject, c.Cognitive.RelevanceFailure)
	}
	if _, err := language.Parse(c.Cognitive.Locale); err != nil {
		return fmt.Errorf("cognitive.locale %q is not a valid language tag: %w", c.Cognitive.Locale, err)
	}
	return nil
}

func (c *Config) validateScan() error {
	if c.Scan.Concurrency <= 0 || c.Scan.Concurrency > maxScanConcurrency {
		return fmt.Errorf("scan.concurrency must be between 1 and %d", maxScanConcurrency)
	}
	return nil
}

func (c *Config) validateAuth() error {
	if c.Auth.TokenTTLHours <= 0 {
		return errors.New("auth.token_ttl_hours must be positive")
	}
	if c.Auth.AdminEmail != "" && c.Auth.AdminPassword == "" {
		return errors.New("auth.admin_password must be set when auth.admin_email is set (or set LEADRADAR_ADMIN_PASSWORD)")
	}
	if c.Auth.AdminPassword != "" && len(c.Auth.AdminPassword) < 8 {
		return errors.New("auth.admin_password must be at least 8 characters")
	}
	return nil
}

func (c *Config) validateNotifications() error {
	topic := c.Notifications.NtfyTopic
	if topic != "" && !strings.HasPrefix(topic, "http://") && !strings.HasPrefix(topic, "https://") {
		return fmt.Errorf("notifications.ntfy_topic must be a full http(s) URL, got %q", topic)
	}
	return nil
}
