package config

const (
	defaultDataDir            = "~/.local/share/leadradar"
	defaultLogDir             = "~/.local/share/leadradar/logs"
	defaultAPIBind            = "127.0.0.1:7489"
	defaultLLMBaseURL         = "https://openrouter.ai/api/v1/chat/completions"
	defaultLLMModel           = "openai/gpt-4o-mini"
	defaultLLMReferer         = "https://github.com/leadradar/leadradar"
	defaultLLMTitle           = "leadradar"
	defaultLLMTimeoutSeconds  = 30
	defaultMinConfidence      = 0.5
	defaultLanguage           = "Spanish"
	defaultLocale             = "es-ES"
	defaultScanConcurrency    = 1
	defaultTokenTTLHours      = 24
	defaultNtfyTimeoutSeconds = 10
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
	maxScanConcurrency        = 16
	RelevanceAccept           = "accept"
	RelevanceReject           = "reject"
	defaultRelevanceOnFailure = RelevanceAccept
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
			APIBind: defaultAPIBind,
		},
		LLM: LLM{
			BaseURL:        defaultLLMBaseURL,
			Model:          defaultLLMModel,
			Referer:        defaultLLMReferer,
			Title:          defaultLLMTitle,
			TimeoutSeconds: defaultLLMTimeoutSeconds,
		},
		Cognitive: Cognitive{
			MinConfidence:    defaultMinConfidence,
			RelevanceFailure: defaultRelevanceOnFailure,
			Language:         defaultLanguage,
			Locale:           defaultLocale,
		},
		Scan: Scan{
			Concurrency: defaultScanConcurrency,
		},
		Auth: Auth{
			TokenTTLHours: defaultTokenTTLHours,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNtfyTimeoutSeconds,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
