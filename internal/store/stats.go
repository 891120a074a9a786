package store

import (
	"context"
	"fmt"
	"time"

	"leadradar/internal/signals"
)

const recentSearchLimit = 5

// Stats projects dashboard counters over active signals. newToday counts
// signals created since local midnight of now.
func (s *Store) Stats(ctx context.Context, now time.Time) (signals.DashboardStats, error) {
	ctx = ensureContext(ctx)
	stats := signals.NewDashboardStats()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	rows, err := s.db.QueryContext(ctx,
		`SELECT source, temperature, COUNT(1), SUM(CASE WHEN created_at >= ? THEN 1 ELSE 0 END)
         FROM signals WHERE status != ? GROUP BY source, temperature`,
		formatTime(midnight), string(signals.StatusArchived),
	)
	if err != nil {
		return stats, fmt.Errorf("signal stats: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			source      string
			temperature string
			count       int
			today       int
		)
		if err := rows.Scan(&source, &temperature, &count, &today); err != nil {
			return stats, fmt.Errorf("scan stats: %w", err)
		}
		stats.TotalLeads += count
		stats.NewToday += today
		stats.BySource[signals.Source(source)] += count
		stats.ByTemperature[signals.Temperature(temperature)] += count
	}
	if err := rows.Err(); err != nil {
		return stats, fmt.Errorf("iterate stats: %w", err)
	}
	stats.HighTicket = stats.ByTemperature[signals.TemperatureHigh]

	if stats.ScrapesToday, err = s.ScrapesOn(ctx, now); err != nil {
		return stats, err
	}
	if stats.RecentSearches, err = s.RecentSearches(ctx, recentSearchLimit); err != nil {
		return stats, err
	}
	return stats, nil
}

// RecentSearches returns the latest search history entries, newest first.
func (s *Store) RecentSearches(ctx context.Context, limit int) ([]signals.SearchEntry, error) {
	if limit <= 0 {
		limit = recentSearchLimit
	}
	rows, err := s.db.QueryContext(ensureContext(ctx),
		`SELECT query, results_count, created_at FROM search_history ORDER BY created_at DESC, id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("recent searches: %w", err)
	}
	defer rows.Close()
	out := []signals.SearchEntry{}
	for rows.Next() {
		var (
			entry      signals.SearchEntry
			createdRaw string
		)
		if err := rows.Scan(&entry.Query, &entry.Results, &createdRaw); err != nil {
			return nil, fmt.Errorf("scan search: %w", err)
		}
		if created, err := parseTimeString(createdRaw); err == nil {
			entry.Date = created
		}
		out = append(out, entry)
	}
	return out, rows.Err()
}
