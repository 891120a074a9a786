package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeLLM()
	c.normalizeCognitive()
	c.normalizeScan()
	c.normalizeAuth()
	c.normalizeNotifications()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	c.Paths.APIBind = strings.TrimSpace(c.Paths.APIBind)
	if c.Paths.APIBind == "" {
		c.Paths.APIBind = defaultAPIBind
	}
	return nil
}

func (c *Config) normalizeLLM() {
	c.LLM.BaseURL = strings.TrimSpace(c.LLM.BaseURL)
	if c.LLM.BaseURL == "" {
		c.LLM.BaseURL = defaultLLMBaseURL
	}
	c.LLM.Model = strings.TrimSpace(c.LLM.Model)
	if c.LLM.Model == "" {
		c.LLM.Model = defaultLLMModel
	}
	c.LLM.Referer = strings.TrimSpace(c.LLM.Referer)
	if c.LLM.Referer == "" {
		c.LLM.Referer = defaultLLMReferer
	}
	c.LLM.Title = strings.TrimSpace(c.LLM.Title)
	if c.LLM.Title == "" {
		c.LLM.Title = defaultLLMTitle
	}
	if c.LLM.TimeoutSeconds <= 0 {
		c.LLM.TimeoutSeconds = defaultLLMTimeoutSeconds
	}
	if c.LLM.RequestsPerSecond < 0 {
		c.LLM.RequestsPerSecond = 0
	}
	c.LLM.APIKey = strings.TrimSpace(c.LLM.APIKey)
	if c.LLM.APIKey == "" {
		c.LLM.APIKey = firstEnv("LEADRADAR_LLM_API_KEY", "OPENROUTER_API_KEY", "OPENAI_API_KEY")
	}
}

func (c *Config) normalizeCognitive() {
	c.Cognitive.RelevanceFailure = strings.ToLower(strings.TrimSpace(c.Cognitive.RelevanceFailure))
	switch c.Cognitive.RelevanceFailure {
	case "", "open", RelevanceAccept:
		c.Cognitive.RelevanceFailure = RelevanceAccept
	case "closed":
		c.Cognitive.RelevanceFailure = RelevanceReject
	}
	c.Cognitive.Language = strings.TrimSpace(c.Cognitive.Language)
	if c.Cognitive.Language == "" {
		c.Cognitive.Language = defaultLanguage
	}
	c.Cognitive.Locale = strings.TrimSpace(c.Cognitive.Locale)
	if c.Cognitive.Locale == "" {
		c.Cognitive.Locale = defaultLocale
	}
}

func (c *Config) normalizeScan() {
	if c.Scan.Concurrency <= 0 {
		c.Scan.Concurrency = defaultScanConcurrency
	}
}

func (c *Config) normalizeAuth() {
	c.Auth.TokenSecret = strings.TrimSpace(c.Auth.TokenSecret)
	if c.Auth.TokenSecret == "" {
		c.Auth.TokenSecret = firstEnv("LEADRADAR_TOKEN_SECRET")
	}
	if c.Auth.TokenTTLHours <= 0 {
		c.Auth.TokenTTLHours = defaultTokenTTLHours
	}
	c.Auth.AdminEmail = strings.ToLower(strings.TrimSpace(c.Auth.AdminEmail))
	if c.Auth.AdminEmail == "" {
		c.Auth.AdminEmail = strings.ToLower(firstEnv("LEADRADAR_ADMIN_EMAIL"))
	}
	if c.Auth.AdminPassword == "" {
		if value, ok := os.LookupEnv("LEADRADAR_ADMIN_PASSWORD"); ok {
			c.Auth.AdminPassword = value
		}
	}
	c.Auth.CronSecret = strings.TrimSpace(c.Auth.CronSecret)
	if c.Auth.CronSecret == "" {
		c.Auth.CronSecret = firstEnv("CRON_SECRET")
	}
}

func (c *Config) normalizeNotifications() {
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.NtfyTopic == "" {
		c.Notifications.NtfyTopic = firstEnv("LEADRADAR_NTFY_TOPIC")
	}
	if c.Notifications.RequestTimeout <= 0 {
		c.Notifications.RequestTimeout = defaultNtfyTimeoutSeconds
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func firstEnv(keys ...string) string {
	for _, key := range keys {
		if value, ok := os.LookupEnv(key); ok {
			if trimmed := strings.TrimSpace(value); trimmed != "" {
				return trimmed
			}
		}
	}
	return ""
}
