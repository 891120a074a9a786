package testsupport

import (
	"path/filepath"
	"testing"

	"leadradar/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.APIBind = "127.0.0.1:0"
	cfgVal.LLM.APIKey = "test"
	cfgVal.LLM.TimeoutSeconds = 5
	cfgVal.Auth.TokenSecret = "test-token-secret"
	cfgVal.Auth.CronSecret = "test-cron-secret"

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithLLMBaseURL points the LLM client at a test server.
func WithLLMBaseURL(url string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.LLM.BaseURL = url
	}
}

// WithAPIKey sets the LLM API key on the test config.
func WithAPIKey(key string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.LLM.APIKey = key
	}
}

// WithRequireToken toggles bearer-token enforcement on the API.
func WithRequireToken(require bool) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Auth.RequireToken = require
	}
}

// WithAdmin configures the bootstrap admin account.
func WithAdmin(email, password string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Auth.AdminEmail = email
		b.cfg.Auth.AdminPassword = password
	}
}

// WithScanConcurrency sets the scan fan-out.
func WithScanConcurrency(n int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Scan.Concurrency = n
	}
}

// WithRelevanceFailure sets the relevance failure policy.
func WithRelevanceFailure(policy string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Cognitive.RelevanceFailure = policy
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.DataDir)
}
