package leads

import (
	"context"
	"errors"
	"strings"

	"leadradar/internal/services"
	"leadradar/internal/signals"
	"leadradar/internal/store"
)

// ListFilter is the string form of store.Filter as it arrives from callers.
type ListFilter struct {
	Source      string
	Temperature string
	Status      string
}

// List returns active signals matching filter, newest first. A filter value
// that names no known source, temperature or status matches nothing.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]signals.Signal, error) {
	parsed, ok := parseFilter(filter)
	if !ok {
		return []signals.Signal{}, nil
	}
	items, err := s.store.ListSignals(ctx, parsed)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "leads", "list", "", err)
	}
	return items, nil
}

func parseFilter(filter ListFilter) (store.Filter, bool) {
	var out store.Filter
	if value := strings.TrimSpace(filter.Source); value != "" {
		source, ok := signals.ParseSource(value)
		if !ok {
			return out, false
		}
		out.Source = source
	}
	if value := strings.TrimSpace(filter.Temperature); value != "" {
		temperature, ok := signals.ParseTemperature(value)
		if !ok {
			return out, false
		}
		out.Temperature = temperature
	}
	if value := strings.TrimSpace(filter.Status); value != "" {
		status, ok := signals.ParseStatus(value)
		if !ok {
			return out, false
		}
		out.Status = status
	}
	return out, true
}

// Archived returns archived signals, most recently archived first.
func (s *Service) Archived(ctx context.Context) ([]signals.Signal, error) {
	items, err := s.store.ListArchived(ctx)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "leads", "archived", "", err)
	}
	return items, nil
}

// Get returns one signal by id.
func (s *Service) Get(ctx context.Context, id string) (*signals.Signal, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, services.Validation("signalId is required")
	}
	sig, err := s.store.GetSignal(ctx, id)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "leads", "get", "", err)
	}
	if sig == nil {
		return nil, errSignalNotFound
	}
	return sig, nil
}

// Search finds signals containing query and records the search.
func (s *Service) Search(ctx context.Context, query string) ([]signals.Signal, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, services.Validation("Query is required")
	}
	items, err := s.store.SearchSignals(ctx, query)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "leads", "search", "", err)
	}
	return items, nil
}

// Analyze re-runs analysis and drafting for a stored signal and saves the
// new intent, emotion, temperature and draft.
func (s *Service) Analyze(ctx context.Context, id string) (*signals.Signal, error) {
	sig, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	ctx = services.WithSignalID(ctx, sig.ID)
	result := s.analyst.Reanalyze(ctx, *sig)
	analysis := result.Analysis
	temperature := result.Temperature
	draft := result.DraftMessage
	updated, err := s.store.UpdateSignal(ctx, sig.ID, store.Patch{
		Analysis:     &analysis,
		Temperature:  &temperature,
		DraftMessage: &draft,
	})
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "leads", "analyze", "save analysis", err)
	}
	if updated == nil {
		return nil, errSignalNotFound
	}
	return updated, nil
}

// Regenerate replaces the draft of a stored signal. Only the draft changes.
func (s *Service) Regenerate(ctx context.Context, id, angle string) (string, *signals.Signal, error) {
	sig, err := s.Get(ctx, id)
	if err != nil {
		return "", nil, err
	}
	ctx = services.WithSignalID(ctx, sig.ID)
	draft := s.analyst.Regenerate(ctx, *sig, angle)
	updated, err := s.store.UpdateSignal(ctx, sig.ID, store.Patch{DraftMessage: &draft})
	if err != nil {
		return "", nil, services.Wrap(services.ErrTransient, "leads", "regenerate", "save draft", err)
	}
	if updated == nil {
		return "", nil, errSignalNotFound
	}
	return draft, updated, nil
}

// Archive moves a signal out of the active view.
func (s *Service) Archive(ctx context.Context, id string) (*signals.Signal, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, services.Validation("signalId is required")
	}
	sig, err := s.store.ArchiveSignal(ctx, id)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "leads", "archive", "", err)
	}
	if sig == nil {
		return nil, errSignalNotFound
	}
	s.logger.Info("signal archived", "signal_id", sig.ID)
	return sig, nil
}

// Settings returns the radar configuration.
func (s *Service) Settings(ctx context.Context) (signals.RadarSettings, error) {
	settings, err := s.store.Settings(ctx)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "leads", "settings", "", err)
	}
	return settings, nil
}

// UpdateSettings replaces the radar entries named in patch.
func (s *Service) UpdateSettings(ctx context.Context, patch signals.RadarSettings) (signals.RadarSettings, error) {
	cleaned := make(signals.RadarSettings, len(patch))
	for source, entry := range patch {
		keywords := make([]string, 0, len(entry.Keywords))
		for _, keyword := range entry.Keywords {
			if trimmed := strings.TrimSpace(keyword); trimmed != "" {
				keywords = append(keywords, trimmed)
			}
		}
		cleaned[signals.Source(strings.ToLower(strings.TrimSpace(string(source))))] = signals.RadarConfig{
			Enabled:  entry.Enabled,
			Keywords: keywords,
		}
	}
	merged, err := s.store.MergeSettings(ctx, cleaned)
	if err != nil {
		if errors.Is(err, services.ErrValidation) {
			return nil, err
		}
		return nil, services.Wrap(services.ErrTransient, "leads", "update settings", "", err)
	}
	return merged, nil
}

// Stats returns the dashboard projection.
func (s *Service) Stats(ctx context.Context) (signals.DashboardStats, error) {
	stats, err := s.store.Stats(ctx, s.now())
	if err != nil {
		return stats, services.Wrap(services.ErrTransient, "leads", "stats", "", err)
	}
	return stats, nil
}
