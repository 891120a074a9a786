package cognitive

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"net/http"
	"strings"
	"time"

	"leadradar/internal/config"
	"leadradar/internal/logging"
	"leadradar/internal/services"
	"leadradar/internal/services/llm"
	"leadradar/internal/signals"
)

// Placeholder texts stored when the model cannot produce a usable answer.
const (
	IntentPending      = "Intent to be determined; analysis pending."
	IntentMissing      = "Intent to be determined."
	IntentError        = "Error analyzing the signal."
	EmotionUnknown     = "Undetermined."
	DraftRetry         = "Error generating the message. Try again."
	DraftKeyProblem    = "Error generating the message. Check the LLM API key."
	RegenerateRetry    = "Error regenerating the message."
	RegenerateKeyIssue = "Error regenerating the message. Check the LLM API key."
)

const (
	defaultMinConfidence = 0.5
	defaultLanguage      = "Spanish"
)

// Completer issues one chat completion. *llm.Client satisfies it.
type Completer interface {
	Complete(ctx context.Context, req llm.Request) (string, error)
}

// Options tunes the analyst.
type Options struct {
	// MinConfidence is the relevance confidence a signal needs to be kept.
	MinConfidence float64
	// RejectOnFailure drops signals whose relevance call fails.
	RejectOnFailure bool
	Language        string
	Locale          string
	// Timeout bounds each individual LLM call. Zero disables the bound.
	Timeout           time.Duration
	RequestsPerSecond float64
	Now               func() time.Time
	Logger            *slog.Logger
}

// Analyst runs the relevance, analysis and drafting steps for signals.
// It is safe for concurrent use.
type Analyst struct {
	completer       Completer
	minConfidence   float64
	rejectOnFailure bool
	language        string
	locale          string
	timeout         time.Duration
	throttle        *throttle
	now             func() time.Time
	logger          *slog.Logger
}

// NewAnalyst wires an analyst around completer.
func NewAnalyst(completer Completer, opts Options) *Analyst {
	minConfidence := opts.MinConfidence
	if minConfidence <= 0 || minConfidence > 1 {
		minConfidence = defaultMinConfidence
	}
	language := strings.TrimSpace(opts.Language)
	if language == "" {
		language = defaultLanguage
	}
	locale := strings.TrimSpace(opts.Locale)
	if locale == "" {
		locale = signals.DefaultLocale
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Analyst{
		completer:       completer,
		minConfidence:   minConfidence,
		rejectOnFailure: opts.RejectOnFailure,
		language:        language,
		locale:          locale,
		timeout:         opts.Timeout,
		throttle:        newThrottle(opts.RequestsPerSecond),
		now:             now,
		logger:          logging.NewComponentLogger(logger, "cognitive"),
	}
}

// NewFromConfig builds an analyst backed by the configured chat-completions endpoint.
func NewFromConfig(cfg *config.Config, logger *slog.Logger) *Analyst {
	llmCfg := cfg.GetLLM()
	client := llm.NewClient(llm.Config{
		APIKey:         llmCfg.APIKey,
		BaseURL:        llmCfg.BaseURL,
		Model:          llmCfg.Model,
		Referer:        llmCfg.Referer,
		Title:          llmCfg.Title,
		TimeoutSeconds: llmCfg.TimeoutSeconds,
	})
	return NewAnalyst(client, Options{
		MinConfidence:     cfg.Cognitive.MinConfidence,
		RejectOnFailure:   cfg.RejectOnRelevanceFailure(),
		Language:          cfg.Cognitive.Language,
		Locale:            cfg.Cognitive.Locale,
		Timeout:           time.Duration(llmCfg.TimeoutSeconds) * time.Second,
		RequestsPerSecond: llmCfg.RequestsPerSecond,
		Logger:            logger,
	})
}

// Verdict is the outcome of the relevance step.
type Verdict struct {
	IsReal     bool    `json:"isReal"`
	Confidence float64 `json:"confidence"`
	Reason     string  `json:"reason"`
	// Accepted is the final keep/drop decision after threshold and policy.
	Accepted bool `json:"-"`
	// Fallback marks a verdict decided by the failure policy.
	Fallback bool `json:"-"`
}

// Assessment is the outcome of the analysis step.
type Assessment struct {
	Analysis    signals.Analysis
	Temperature signals.Temperature
	Fallback    bool
}

// Reanalysis carries the fields a re-analysis replaces on a stored signal.
type Reanalysis struct {
	Assessment
	DraftMessage string
}

// Relevance asks whether raw describes a real business transition.
func (a *Analyst) Relevance(ctx context.Context, raw signals.RawSignal) Verdict {
	ctx = withSignalContext(ctx, "", raw.Source)
	content, err := a.complete(ctx, llm.Request{
		User:        relevancePrompt(subjectFromRaw(raw)),
		Temperature: relevanceTemperature,
		MaxTokens:   relevanceMaxTokens,
	})
	if err != nil {
		return a.relevanceFallback(ctx, raw, "relevance call failed", err)
	}
	var verdict Verdict
	if err := llm.DecodeLLMJSON(content, &verdict); err != nil {
		return a.relevanceFallback(ctx, raw, "relevance response unparseable", err)
	}
	verdict.Confidence = clampUnit(verdict.Confidence)
	verdict.Reason = strings.TrimSpace(verdict.Reason)
	verdict.Accepted = verdict.IsReal && verdict.Confidence >= a.minConfidence
	logging.WithContext(ctx, a.logger).Debug("relevance verdict",
		logging.String("name", raw.Name),
		logging.Bool("is_real", verdict.IsReal),
		logging.Float64("confidence", verdict.Confidence),
		logging.Bool("accepted", verdict.Accepted),
	)
	return verdict
}

func (a *Analyst) relevanceFallback(ctx context.Context, raw signals.RawSignal, msg string, err error) Verdict {
	impact := "signal kept without relevance check"
	if a.rejectOnFailure {
		impact = "signal dropped without relevance check"
	}
	logging.WarnWithContext(logging.WithContext(ctx, a.logger), msg, "relevance_failed",
		logging.String("name", raw.Name),
		logging.Error(err),
		logging.String(logging.FieldErrorHint, "check llm.api_key and provider status"),
		logging.String(logging.FieldImpact, impact),
	)
	return Verdict{Accepted: !a.rejectOnFailure, Fallback: true}
}

// Analyze extracts intent, emotion and temperature. It never fails: problems
// produce placeholder text with Medium temperature.
func (a *Analyst) Analyze(ctx context.Context, raw signals.RawSignal) Assessment {
	ctx = withSignalContext(ctx, "", raw.Source)
	return a.analyze(ctx, subjectFromRaw(raw))
}

func (a *Analyst) analyze(ctx context.Context, s subject) Assessment {
	content, err := a.complete(ctx, llm.Request{
		User:        analysisPrompt(s, a.language),
		Temperature: analysisTemperature,
		MaxTokens:   analysisMaxTokens,
	})
	if err != nil {
		logging.WarnWithContext(logging.WithContext(ctx, a.logger), "analysis call failed", "analysis_failed",
			logging.String("name", s.Name),
			logging.Error(err),
			logging.String(logging.FieldImpact, "signal stored with placeholder analysis"),
		)
		return Assessment{
			Analysis:    signals.Analysis{Intent: IntentError, Emotion: EmotionUnknown},
			Temperature: signals.TemperatureMedium,
			Fallback:    true,
		}
	}
	var parsed struct {
		Intent      string `json:"intent"`
		Emotion     string `json:"emotion"`
		Temperature string `json:"temperature"`
	}
	if err := llm.DecodeLLMJSON(content, &parsed); err != nil {
		logging.WarnWithContext(logging.WithContext(ctx, a.logger), "analysis response unparseable", "analysis_unparseable",
			logging.String("name", s.Name),
			logging.Error(err),
			logging.String(logging.FieldImpact, "signal stored with placeholder analysis"),
		)
		return Assessment{
			Analysis:    signals.Analysis{Intent: IntentPending, Emotion: EmotionUnknown},
			Temperature: signals.TemperatureMedium,
			Fallback:    true,
		}
	}
	result := Assessment{
		Analysis: signals.Analysis{
			Intent:  strings.TrimSpace(parsed.Intent),
			Emotion: strings.TrimSpace(parsed.Emotion),
		},
	}
	if result.Analysis.Intent == "" {
		result.Analysis.Intent = IntentMissing
	}
	if result.Analysis.Emotion == "" {
		result.Analysis.Emotion = EmotionUnknown
	}
	temperature, ok := signals.ParseTemperature(parsed.Temperature)
	if !ok {
		a.logger.Debug("unknown temperature label", logging.String("label", parsed.Temperature))
	}
	result.Temperature = temperature
	return result
}

// Draft writes the first outreach message for raw.
func (a *Analyst) Draft(ctx context.Context, raw signals.RawSignal, analysis signals.Analysis) string {
	ctx = withSignalContext(ctx, "", raw.Source)
	return a.draft(ctx, subjectFromRaw(raw), analysis)
}

func (a *Analyst) draft(ctx context.Context, s subject, analysis signals.Analysis) string {
	content, err := a.complete(ctx, llm.Request{
		System:      draftSystemPrompt(a.language),
		User:        draftUserPrompt(s, analysis),
		Temperature: draftTemperature,
		MaxTokens:   draftMaxTokens,
	})
	if err == nil {
		return content
	}
	logging.WarnWithContext(logging.WithContext(ctx, a.logger), "draft call failed", "draft_failed",
		logging.String("name", s.Name),
		logging.Error(err),
		logging.String(logging.FieldImpact, "signal stored with placeholder draft"),
	)
	if isEmpty(err) {
		return DraftRetry
	}
	return DraftKeyProblem
}

// Process runs relevance, analysis and drafting in order. A rejected signal
// returns (nil, false, nil). The error is non-nil only when ctx ends mid-way,
// so callers never persist a record built from canceled calls.
func (a *Analyst) Process(ctx context.Context, raw signals.RawSignal) (*signals.Signal, bool, error) {
	verdict := a.Relevance(ctx, raw)
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	if !verdict.Accepted {
		return nil, false, nil
	}
	assessment := a.Analyze(ctx, raw)
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	draft := a.Draft(ctx, raw, assessment.Analysis)
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	now := a.now()
	return &signals.Signal{
		ID:           signals.NewID(now),
		Source:       raw.Source,
		Name:         raw.Name,
		RoleCompany:  raw.RoleCompany,
		Location:     raw.Location,
		Trigger:      raw.Trigger,
		Temperature:  assessment.Temperature,
		Excerpt:      raw.Excerpt,
		FullSource:   raw.FullSource,
		SourceURL:    raw.SourceURL,
		AIAnalysis:   assessment.Analysis,
		DraftMessage: draft,
		Date:         signals.RelativeDate(now, now, a.locale),
		Status:       signals.StatusNew,
		CreatedAt:    now,
	}, true, nil
}

// Regenerate writes a new draft for sig that avoids its current approach.
// An empty angle flips the style of the previous message.
func (a *Analyst) Regenerate(ctx context.Context, sig signals.Signal, angle string) string {
	ctx = withSignalContext(ctx, sig.ID, sig.Source)
	content, err := a.complete(ctx, llm.Request{
		System:      regenerateSystemPrompt(a.language),
		User:        regenerateUserPrompt(subjectFromSignal(sig), sig.AIAnalysis, sig.DraftMessage, angle),
		Temperature: regenerateTemperature,
		MaxTokens:   regenerateMaxTokens,
	})
	if err == nil {
		return content
	}
	logging.WarnWithContext(logging.WithContext(ctx, a.logger), "regenerate call failed", "regenerate_failed",
		logging.Error(err),
		logging.String(logging.FieldImpact, "draft replaced with error text"),
	)
	if isEmpty(err) {
		return RegenerateRetry
	}
	return RegenerateKeyIssue
}

// Reanalyze re-runs analysis and drafting from a stored signal.
func (a *Analyst) Reanalyze(ctx context.Context, sig signals.Signal) Reanalysis {
	ctx = withSignalContext(ctx, sig.ID, sig.Source)
	s := subjectFromSignal(sig)
	assessment := a.analyze(ctx, s)
	return Reanalysis{
		Assessment:   assessment,
		DraftMessage: a.draft(ctx, s, assessment.Analysis),
	}
}

// complete issues one throttled, time-bounded call. No retries.
func (a *Analyst) complete(ctx context.Context, req llm.Request) (string, error) {
	if a.completer == nil {
		return "", llm.ErrNoAPIKey
	}
	if err := a.throttle.Wait(ctx); err != nil {
		return "", err
	}
	callCtx := ctx
	if a.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}
	content, err := a.completer.Complete(callCtx, req)
	if err != nil {
		if llm.StatusCode(err) == http.StatusTooManyRequests {
			a.throttle.RecordRateLimit(0)
		}
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			return "", services.Wrap(services.ErrTransient, "cognitive", "complete", "llm call timed out", err)
		}
		return "", err
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return "", emptyCompletion{}
	}
	return content, nil
}

// emptyCompletion covers completers that return blank text without an error.
type emptyCompletion struct{}

func (emptyCompletion) Error() string { return "llm returned empty content" }

func isEmpty(err error) bool {
	var blank emptyCompletion
	return llm.IsEmptyContent(err) || errors.As(err, &blank)
}

func withSignalContext(ctx context.Context, id string, source signals.Source) context.Context {
	ctx = services.WithSignalID(ctx, id)
	return services.WithSource(ctx, string(source))
}

func clampUnit(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
