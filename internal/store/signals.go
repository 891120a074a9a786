package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"leadradar/internal/signals"
)

// Filter narrows ListSignals. Empty fields match everything.
type Filter struct {
	Source      signals.Source
	Temperature signals.Temperature
	Status      signals.Status
}

// Patch is a partial update. Nil fields are left untouched.
type Patch struct {
	DraftMessage *string
	Analysis     *signals.Analysis
	Temperature  *signals.Temperature
	Status       *signals.Status
	ArchivedAt   *time.Time
}

func (p Patch) empty() bool {
	return p.DraftMessage == nil && p.Analysis == nil && p.Temperature == nil && p.Status == nil && p.ArchivedAt == nil
}

// InsertSignals stores new signals. Existing ids are left as they are, so
// repeating an insert never changes a stored record.
func (s *Store) InsertSignals(ctx context.Context, items ...signals.Signal) error {
	if len(items) == 0 {
		return nil
	}
	return s.withTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `INSERT INTO signals (`+signalColumns+`)
            VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
            ON CONFLICT(id) DO NOTHING`)
		if err != nil {
			return fmt.Errorf("prepare insert: %w", err)
		}
		defer stmt.Close()
		for _, sig := range items {
			if strings.TrimSpace(sig.ID) == "" {
				return errors.New("insert signal: id required")
			}
			status := sig.Status
			if status == "" {
				status = signals.StatusNew
			}
			temperature := sig.Temperature
			if temperature == "" {
				temperature = signals.TemperatureMedium
			}
			created := sig.CreatedAt
			if created.IsZero() {
				created = s.now()
			}
			if _, err := stmt.ExecContext(ctx,
				sig.ID,
				string(sig.Source),
				sig.Name,
				sig.RoleCompany,
				sig.Location,
				sig.Trigger,
				string(temperature),
				sig.Excerpt,
				sig.FullSource,
				nullableString(sig.SourceURL),
				sig.AIAnalysis.Intent,
				sig.AIAnalysis.Emotion,
				sig.DraftMessage,
				sig.Date,
				string(status),
				formatTime(created),
				nullableTime(sig.ArchivedAt),
			); err != nil {
				return fmt.Errorf("insert signal %s: %w", sig.ID, err)
			}
		}
		return nil
	})
}

// ListSignals returns active (non-archived) signals, newest first.
func (s *Store) ListSignals(ctx context.Context, filter Filter) ([]signals.Signal, error) {
	clauses := []string{"status != ?"}
	args := []any{string(signals.StatusArchived)}
	if filter.Source != "" {
		clauses = append(clauses, "source = ?")
		args = append(args, string(filter.Source))
	}
	if filter.Temperature != "" {
		clauses = append(clauses, "temperature = ?")
		args = append(args, string(filter.Temperature))
	}
	if filter.Status != "" {
		clauses = append(clauses, "status = ?")
		args = append(args, string(filter.Status))
	}
	query := `SELECT ` + signalColumns + ` FROM signals WHERE ` + strings.Join(clauses, " AND ") +
		` ORDER BY created_at DESC, rowid DESC`
	rows, err := s.db.QueryContext(ensureContext(ctx), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list signals: %w", err)
	}
	return collectSignals(rows)
}

// ListArchived returns archived signals, most recently archived first.
func (s *Store) ListArchived(ctx context.Context) ([]signals.Signal, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx),
		`SELECT `+signalColumns+` FROM signals WHERE status = ? ORDER BY archived_at DESC, rowid DESC`,
		string(signals.StatusArchived),
	)
	if err != nil {
		return nil, fmt.Errorf("list archived: %w", err)
	}
	return collectSignals(rows)
}

// GetSignal fetches one signal. A missing id returns nil, nil.
func (s *Store) GetSignal(ctx context.Context, id string) (*signals.Signal, error) {
	row := s.db.QueryRowContext(ensureContext(ctx), `SELECT `+signalColumns+` FROM signals WHERE id = ?`, id)
	sig, err := scanSignal(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get signal: %w", err)
	}
	return sig, nil
}

// UpdateSignal applies patch and returns the updated record, or nil when the
// id is unknown. id, source and created_at are never written.
func (s *Store) UpdateSignal(ctx context.Context, id string, patch Patch) (*signals.Signal, error) {
	if patch.empty() {
		return s.GetSignal(ctx, id)
	}
	sets := make([]string, 0, 6)
	args := make([]any, 0, 8)
	if patch.DraftMessage != nil {
		sets = append(sets, "draft_message = ?")
		args = append(args, *patch.DraftMessage)
	}
	if patch.Analysis != nil {
		sets = append(sets, "ai_intent = ?", "ai_emotion = ?")
		args = append(args, patch.Analysis.Intent, patch.Analysis.Emotion)
	}
	if patch.Temperature != nil {
		sets = append(sets, "temperature = ?")
		args = append(args, string(*patch.Temperature))
	}
	switch {
	case patch.ArchivedAt != nil:
		sets = append(sets, "archived_at = ?")
		args = append(args, formatTime(*patch.ArchivedAt))
	case patch.Status != nil && *patch.Status == signals.StatusArchived:
		sets = append(sets, "archived_at = COALESCE(archived_at, ?)")
		args = append(args, formatTime(s.now()))
	case patch.Status != nil:
		sets = append(sets, "archived_at = NULL")
	}
	if patch.Status != nil {
		sets = append(sets, "status = ?")
		args = append(args, string(*patch.Status))
	}
	args = append(args, id)
	if _, err := s.execWithRetry(ctx, `UPDATE signals SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...); err != nil {
		return nil, fmt.Errorf("update signal: %w", err)
	}
	return s.GetSignal(ctx, id)
}

// ArchiveSignal moves a signal out of the active view. Status and archive
// time change in one statement. An unknown id returns nil and changes nothing.
func (s *Store) ArchiveSignal(ctx context.Context, id string) (*signals.Signal, error) {
	res, err := s.execWithRetry(ctx,
		`UPDATE signals SET status = ?, archived_at = ? WHERE id = ?`,
		string(signals.StatusArchived), formatTime(s.now()), id,
	)
	if err != nil {
		return nil, fmt.Errorf("archive signal: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, nil
	}
	return s.GetSignal(ctx, id)
}

var searchColumns = []string{
	"name", "role_company", "trigger_type", "location", "excerpt", "full_source", "ai_intent", "source",
}

// SearchSignals returns signals with query as a case-insensitive substring of
// any searchable column, newest first, and records the search in the history.
func (s *Store) SearchSignals(ctx context.Context, query string) ([]signals.Signal, error) {
	ctx = ensureContext(ctx)
	pattern := likePattern(query)
	clauses := make([]string, 0, len(searchColumns))
	args := make([]any, 0, len(searchColumns))
	for _, column := range searchColumns {
		clauses = append(clauses, fmt.Sprintf(`fold(COALESCE(%s, '')) LIKE ? ESCAPE '\'`, column))
		args = append(args, pattern)
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+signalColumns+` FROM signals WHERE `+strings.Join(clauses, " OR ")+` ORDER BY created_at DESC, rowid DESC`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("search signals: %w", err)
	}
	results, err := collectSignals(rows)
	if err != nil {
		return nil, fmt.Errorf("search signals: %w", err)
	}
	if _, err := s.execWithRetry(ctx,
		`INSERT INTO search_history (query, results_count, created_at) VALUES (?, ?, ?)`,
		query, len(results), formatTime(s.now()),
	); err != nil {
		return nil, fmt.Errorf("record search: %w", err)
	}
	return results, nil
}
