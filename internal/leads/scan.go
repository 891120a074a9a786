package leads

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"leadradar/internal/logging"
	"leadradar/internal/services"
	"leadradar/internal/signals"
)

// ScanRequest selects radars and keywords for a scan. A nil Keywords slice
// means "use each radar's configured keywords"; an empty non-nil slice means
// no keyword filter.
type ScanRequest struct {
	Radars      []string `json:"radars"`
	Keywords    []string `json:"keywords"`
	TargetCount int      `json:"targetCount"`
}

// ScanResult reports a scan. Signals holds the accepted records in
// collection order.
type ScanResult struct {
	Success          bool             `json:"success"`
	SignalsFound     int              `json:"signalsFound"`
	SignalsProcessed int              `json:"signalsProcessed"`
	Signals          []signals.Signal `json:"signals"`
	Canceled         bool             `json:"canceled,omitempty"`
}

// Scan collects raw signals from the selected radars, qualifies them and
// stores every accepted one as soon as it is ready. TargetCount is a budget
// shared by all radars in order. Cancellation stops new work; records already
// stored stay and the result reports Canceled.
func (s *Service) Scan(ctx context.Context, req ScanRequest) (ScanResult, error) {
	result := ScanResult{Signals: []signals.Signal{}}
	started := s.now()
	settings, err := s.store.Settings(ctx)
	if err != nil {
		return result, services.Wrap(services.ErrTransient, "leads", "scan", "load settings", err)
	}
	logger := logging.WithContext(ctx, s.logger)

	sources := s.selectRadars(ctx, req.Radars, settings)
	raws := s.collect(ctx, sources, req, settings)
	result.SignalsFound = len(raws)
	logger.Info("scan collected signals",
		logging.Int("radars", len(sources)),
		logging.Int("signals_found", len(raws)),
	)

	processed := make([]*signals.Signal, len(raws))
	var accepted atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, raw := range raws {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			sig, ok, err := s.analyst.Process(gctx, raw)
			if err != nil || !ok {
				return nil
			}
			if err := s.store.InsertSignals(context.WithoutCancel(gctx), *sig); err != nil {
				return services.Wrap(services.ErrTransient, "leads", "scan", "store signal", err)
			}
			processed[i] = sig
			accepted.Add(1)
			return nil
		})
	}
	waitErr := g.Wait()

	for _, sig := range processed {
		if sig != nil {
			result.Signals = append(result.Signals, *sig)
		}
	}
	result.SignalsProcessed = int(accepted.Load())

	if result.SignalsProcessed > 0 {
		if err := s.store.IncrementScrapes(context.WithoutCancel(ctx), s.now(), result.SignalsProcessed); err != nil {
			logging.WarnWithContext(logger, "scrape counter not updated", "usage_increment_failed",
				logging.Error(err),
				logging.String(logging.FieldImpact, "dashboard undercounts today's scrapes"),
			)
		}
	}

	hot := s.alertHotLeads(ctx, result.Signals)

	if ctx.Err() != nil {
		result.Canceled = true
		logging.WarnWithContext(logger, "scan canceled", "scan_canceled",
			logging.Int("signals_processed", result.SignalsProcessed),
			logging.String(logging.FieldErrorHint, "rerun the scan to process the remaining signals"),
			logging.String(logging.FieldImpact, "scan stopped early; stored signals are kept"),
		)
		return result, nil
	}
	if waitErr != nil {
		s.alert(ctx, "scan", s.notifier.NotifyError(context.WithoutCancel(ctx), waitErr, "scan"))
		return result, waitErr
	}
	result.Success = true
	logger.Info("scan completed",
		logging.Int("signals_found", result.SignalsFound),
		logging.Int("signals_processed", result.SignalsProcessed),
		logging.Int("hot_leads", hot),
	)
	s.alert(ctx, "scan summary", s.notifier.NotifyScanCompleted(ctx, result.SignalsFound, result.SignalsProcessed, hot, s.now().Sub(started)))
	return result, nil
}

// alertHotLeads pushes one alert per high-temperature signal and returns how
// many there were. Alerts go out even when the scan was canceled.
func (s *Service) alertHotLeads(ctx context.Context, stored []signals.Signal) int {
	hot := 0
	alertCtx := context.WithoutCancel(ctx)
	for _, sig := range stored {
		if sig.Temperature != signals.TemperatureHigh {
			continue
		}
		hot++
		s.alert(ctx, "hot lead", s.notifier.NotifyHotLead(alertCtx, sig))
	}
	return hot
}

func (s *Service) alert(ctx context.Context, what string, err error) {
	if err == nil {
		return
	}
	logging.WarnWithContext(logging.WithContext(ctx, s.logger), "notification failed", "notification_failed",
		logging.String("notification", what),
		logging.Error(err),
		logging.String(logging.FieldErrorHint, "check notifications.ntfy_topic"),
		logging.String(logging.FieldImpact, "alert not delivered"),
	)
}

// selectRadars returns requested radars that are known and enabled, in request
// order, or every enabled radar when none are requested.
func (s *Service) selectRadars(ctx context.Context, requested []string, settings signals.RadarSettings) []signals.Source {
	enabled := func(source signals.Source) bool {
		entry, ok := settings[source]
		return !ok || entry.Enabled
	}
	if len(requested) == 0 {
		out := make([]signals.Source, 0, 4)
		for _, source := range s.collectors.Sources() {
			if enabled(source) {
				out = append(out, source)
			}
		}
		return out
	}
	logger := logging.WithContext(ctx, s.logger)
	seen := make(map[signals.Source]bool, len(requested))
	out := make([]signals.Source, 0, len(requested))
	for _, name := range requested {
		source, ok := signals.ParseSource(name)
		if !ok {
			logging.WarnWithContext(logger, "unknown radar skipped", "unknown_radar",
				logging.String("radar", name),
				logging.String(logging.FieldErrorHint, "valid radars: borme, traspasos, inmobiliario, linkedin"),
				logging.String(logging.FieldImpact, "radar not scanned"),
			)
			continue
		}
		if seen[source] {
			continue
		}
		seen[source] = true
		if !enabled(source) {
			logger.Info("disabled radar skipped", logging.String(logging.FieldSource, string(source)))
			continue
		}
		out = append(out, source)
	}
	return out
}

func (s *Service) collect(ctx context.Context, sources []signals.Source, req ScanRequest, settings signals.RadarSettings) []signals.RawSignal {
	logger := logging.WithContext(ctx, s.logger)
	raws := []signals.RawSignal{}
	remaining := req.TargetCount
	for _, source := range sources {
		if ctx.Err() != nil {
			break
		}
		if req.TargetCount > 0 && remaining <= 0 {
			break
		}
		collector, ok := s.collectors.Get(source)
		if !ok {
			logging.WarnWithContext(logger, "radar has no collector", "collector_missing",
				logging.String(logging.FieldSource, string(source)),
				logging.String(logging.FieldImpact, "radar not scanned"),
			)
			continue
		}
		keywords := req.Keywords
		if keywords == nil {
			keywords = settings[source].Keywords
		}
		limit := 0
		if req.TargetCount > 0 {
			limit = remaining
		}
		items, err := collector.Scan(ctx, keywords, limit)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			logging.WarnWithContext(logger, "collector failed", "collector_failed",
				logging.String(logging.FieldSource, string(source)),
				logging.Error(err),
				logging.String(logging.FieldImpact, "radar skipped for this scan"),
			)
			continue
		}
		logger.Debug("collector returned signals",
			logging.String(logging.FieldSource, string(source)),
			logging.Int("count", len(items)),
		)
		raws = append(raws, items...)
		remaining -= len(items)
	}
	return raws
}
