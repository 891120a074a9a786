package leads

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"leadradar/internal/auth"
	"leadradar/internal/cognitive"
	"leadradar/internal/config"
	"leadradar/internal/logging"
	"leadradar/internal/notifications"
	"leadradar/internal/radar"
	"leadradar/internal/services"
	"leadradar/internal/signals"
	"leadradar/internal/store"
)

// Store is the persistence the service needs. *store.Store satisfies it.
type Store interface {
	InsertSignals(ctx context.Context, items ...signals.Signal) error
	ListSignals(ctx context.Context, filter store.Filter) ([]signals.Signal, error)
	ListArchived(ctx context.Context) ([]signals.Signal, error)
	GetSignal(ctx context.Context, id string) (*signals.Signal, error)
	UpdateSignal(ctx context.Context, id string, patch store.Patch) (*signals.Signal, error)
	ArchiveSignal(ctx context.Context, id string) (*signals.Signal, error)
	SearchSignals(ctx context.Context, query string) ([]signals.Signal, error)
	Settings(ctx context.Context) (signals.RadarSettings, error)
	MergeSettings(ctx context.Context, patch signals.RadarSettings) (signals.RadarSettings, error)
	Stats(ctx context.Context, now time.Time) (signals.DashboardStats, error)
	CreateUser(ctx context.Context, email, passwordHash string) (*store.User, error)
	UserByEmail(ctx context.Context, email string) (*store.User, error)
	IncrementScrapes(ctx context.Context, day time.Time, n int) error
	ResetScrapes(ctx context.Context, day time.Time) error
}

// Collectors resolves radars by source. *radar.Registry satisfies it.
type Collectors interface {
	Get(source signals.Source) (radar.Collector, bool)
	Sources() []signals.Source
}

// Analyst qualifies signals. *cognitive.Analyst satisfies it.
type Analyst interface {
	Process(ctx context.Context, raw signals.RawSignal) (*signals.Signal, bool, error)
	Regenerate(ctx context.Context, sig signals.Signal, angle string) string
	Reanalyze(ctx context.Context, sig signals.Signal) cognitive.Reanalysis
}

// Options tunes the service.
type Options struct {
	// Concurrency bounds how many signals are processed at once during a scan.
	Concurrency int
	Tokens      *auth.Issuer
	CronSecret  string
	// Notifier receives hot-lead and scan alerts. Nil disables them.
	Notifier    notifications.Service
	Now         func() time.Time
	Logger      *slog.Logger
}

// Service is the application layer behind the HTTP API and the CLI.
type Service struct {
	store       Store
	collectors  Collectors
	analyst     Analyst
	tokens      *auth.Issuer
	cronSecret  string
	notifier    notifications.Service
	concurrency int
	now         func() time.Time
	logger      *slog.Logger
}

// NewService wires the service. A nil token issuer gets an ephemeral one.
func NewService(st Store, collectors Collectors, analyst Analyst, opts Options) *Service {
	concurrency := opts.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	notifier := opts.Notifier
	if notifier == nil {
		notifier = notifications.NewService(nil)
	}
	tokens := opts.Tokens
	if tokens == nil {
		tokens, _ = auth.NewIssuer("", 24*time.Hour)
	}
	return &Service{
		store:       st,
		collectors:  collectors,
		analyst:     analyst,
		tokens:      tokens,
		cronSecret:  opts.CronSecret,
		notifier:    notifier,
		concurrency: concurrency,
		now:         now,
		logger:      logging.NewComponentLogger(logger, "leads"),
	}
}

// NewFromConfig builds the production service: sample collectors, the
// LLM-backed analyst, a token issuer from the auth section and the ntfy
// notifier.
func NewFromConfig(cfg *config.Config, st Store, logger *slog.Logger) (*Service, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	tokens, err := auth.NewIssuer(cfg.Auth.TokenSecret, time.Duration(cfg.Auth.TokenTTLHours)*time.Hour)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "leads", "token issuer", "", err)
	}
	if tokens.Ephemeral() {
		logging.WarnWithContext(logger, "auth.token_secret not set; using a random per-process secret", "token_secret_missing",
			logging.String(logging.FieldErrorHint, "set auth.token_secret or LEADRADAR_TOKEN_SECRET"),
			logging.String(logging.FieldImpact, "session tokens stop working after a restart"),
		)
	}
	return NewService(st, radar.NewSampleRegistry(time.Now), cognitive.NewFromConfig(cfg, logger), Options{
		Concurrency: cfg.Scan.Concurrency,
		Tokens:      tokens,
		CronSecret:  cfg.Auth.CronSecret,
		Notifier:    notifications.NewService(cfg),
		Logger:      logger,
	}), nil
}

var errSignalNotFound = fmt.Errorf("%w: Signal not found", services.ErrNotFound)
