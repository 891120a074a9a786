package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// IncrementScrapes adds n to the scrape counter of day's calendar date.
func (s *Store) IncrementScrapes(ctx context.Context, day time.Time, n int) error {
	if n <= 0 {
		return nil
	}
	if _, err := s.execWithRetry(ctx,
		`INSERT INTO scrape_usage (day, count, updated_at) VALUES (?, ?, ?)
         ON CONFLICT(day) DO UPDATE SET count = count + excluded.count, updated_at = excluded.updated_at`,
		dayKey(day), n, formatTime(s.now()),
	); err != nil {
		return fmt.Errorf("increment scrapes: %w", err)
	}
	return nil
}

// ResetScrapes sets the counter of day's calendar date to zero.
func (s *Store) ResetScrapes(ctx context.Context, day time.Time) error {
	if _, err := s.execWithRetry(ctx,
		`INSERT INTO scrape_usage (day, count, updated_at) VALUES (?, 0, ?)
         ON CONFLICT(day) DO UPDATE SET count = 0, updated_at = excluded.updated_at`,
		dayKey(day), formatTime(s.now()),
	); err != nil {
		return fmt.Errorf("reset scrapes: %w", err)
	}
	return nil
}

// ScrapesOn returns the scrape counter of day's calendar date.
func (s *Store) ScrapesOn(ctx context.Context, day time.Time) (int, error) {
	var count int
	err := s.db.QueryRowContext(ensureContext(ctx),
		`SELECT count FROM scrape_usage WHERE day = ?`, dayKey(day),
	).Scan(&count)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("scrapes on: %w", err)
	}
	return count, nil
}
