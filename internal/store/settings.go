package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"leadradar/internal/services"
	"leadradar/internal/signals"
)

const radarSettingsKey = "radar_config"

// Settings returns the radar configuration. Collectors missing from the
// stored blob fall back to their defaults.
func (s *Store) Settings(ctx context.Context) (signals.RadarSettings, error) {
	return s.readSettings(ensureContext(ctx), s.db)
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *Store) readSettings(ctx context.Context, q queryRower) (signals.RadarSettings, error) {
	settings := signals.DefaultSettings()
	var raw string
	err := q.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, radarSettingsKey).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return settings, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}
	var stored signals.RadarSettings
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		return nil, fmt.Errorf("decode settings: %w", err)
	}
	for source, entry := range stored {
		if _, ok := signals.ParseSource(string(source)); !ok {
			continue
		}
		if entry.Keywords == nil {
			entry.Keywords = []string{}
		}
		settings[source] = entry
	}
	return settings, nil
}

// MergeSettings replaces the entries named in patch, keeps the rest, and
// returns the merged configuration. Unknown collectors are a validation error.
func (s *Store) MergeSettings(ctx context.Context, patch signals.RadarSettings) (signals.RadarSettings, error) {
	var unknown []string
	for source := range patch {
		if _, ok := signals.ParseSource(string(source)); !ok {
			unknown = append(unknown, string(source))
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, services.Validation("unknown radar: " + strings.Join(unknown, ", "))
	}

	ctx = ensureContext(ctx)
	var merged signals.RadarSettings
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		current, err := s.readSettings(ctx, tx)
		if err != nil {
			return err
		}
		for source, entry := range patch.Clone() {
			current[source] = entry
		}
		encoded, err := json.Marshal(current)
		if err != nil {
			return fmt.Errorf("encode settings: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)
             ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
			radarSettingsKey, string(encoded), formatTime(s.now()),
		); err != nil {
			return fmt.Errorf("write settings: %w", err)
		}
		merged = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return merged, nil
}
