package store_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"leadradar/internal/services"
	"leadradar/internal/signals"
	"leadradar/internal/store"
	"leadradar/internal/testsupport"
)

var base = time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

// tickingClock returns base, base+1s, base+2s, ... on successive calls.
func tickingClock() func() time.Time {
	var (
		mu sync.Mutex
		n  int
	)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		n++
		return base.Add(time.Duration(n) * time.Second)
	}
}

func openStore(t *testing.T) *store.Store {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	return testsupport.MustOpenStore(t, cfg, store.WithClock(tickingClock()))
}

func TestOpenCreatesSchemaAndRejectsMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "leadradar.db")
	st, err := store.OpenPath(path)
	if err != nil {
		t.Fatalf("OpenPath: %v", err)
	}
	health, err := st.CheckHealth(context.Background())
	if err != nil {
		t.Fatalf("CheckHealth: %v", err)
	}
	if !health.Healthy() {
		t.Fatalf("expected healthy database, got %+v", health)
	}
	st.Close()

	reopened, err := store.OpenPath(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	reopened.Close()

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("sql.Open: %v", err)
	}
	if _, err := db.Exec("UPDATE schema_version SET version = 99"); err != nil {
		t.Fatalf("bump version: %v", err)
	}
	db.Close()

	if _, err := store.OpenPath(path); !errors.Is(err, store.ErrSchemaMismatch) {
		t.Fatalf("expected ErrSchemaMismatch, got %v", err)
	}
}

func TestInsertSignalsIsWriteOnce(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()

	original := testsupport.NewSignal(1, signals.SourceBORME, base)
	testsupport.InsertSignals(t, st, original)

	changed := original
	changed.Name = "Someone Else"
	changed.Source = signals.SourceLinkedIn
	testsupport.InsertSignals(t, st, changed)

	all, err := st.ListSignals(ctx, store.Filter{})
	if err != nil {
		t.Fatalf("ListSignals: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected one stored signal, got %d", len(all))
	}
	got := all[0]
	if got.Name != original.Name || got.Source != signals.SourceBORME || !got.CreatedAt.Equal(base) {
		t.Fatalf("second insert changed the record: %+v", got)
	}
	if got.AIAnalysis != original.AIAnalysis || got.DraftMessage != original.DraftMessage || got.Date != "just now" {
		t.Fatalf("round trip lost fields: %+v", got)
	}
}

func TestListSignalsFiltersAndOrdersNewestFirst(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()

	hot := testsupport.NewSignal(1, signals.SourceLinkedIn, base.Add(-3*time.Hour))
	hot.Temperature = signals.TemperatureHigh
	reviewed := testsupport.NewSignal(2, signals.SourceBORME, base.Add(-2*time.Hour))
	reviewed.Status = signals.StatusReviewed
	newest := testsupport.NewSignal(3, signals.SourceLinkedIn, base.Add(-time.Hour))
	testsupport.InsertSignals(t, st, hot, reviewed, newest)

	all, err := st.ListSignals(ctx, store.Filter{})
	if err != nil {
		t.Fatalf("ListSignals: %v", err)
	}
	if len(all) != 3 || all[0].ID != newest.ID || all[2].ID != hot.ID {
		t.Fatalf("unexpected order: %v", ids(all))
	}

	tests := []struct {
		name   string
		filter store.Filter
		want   []string
	}{
		{"by source", store.Filter{Source: signals.SourceLinkedIn}, []string{newest.ID, hot.ID}},
		{"by temperature", store.Filter{Temperature: signals.TemperatureHigh}, []string{hot.ID}},
		{"by status", store.Filter{Status: signals.StatusReviewed}, []string{reviewed.ID}},
		{"combined", store.Filter{Source: signals.SourceBORME, Temperature: signals.TemperatureHigh}, nil},
		{"archived status never listed", store.Filter{Status: signals.StatusArchived}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := st.ListSignals(ctx, tt.filter)
			if err != nil {
				t.Fatalf("ListSignals: %v", err)
			}
			if fmt.Sprint(ids(got)) != fmt.Sprint(tt.want) && !(len(got) == 0 && len(tt.want) == 0) {
				t.Fatalf("got %v, want %v", ids(got), tt.want)
			}
		})
	}
}

func TestArchiveSignal(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()

	first := testsupport.NewSignal(1, signals.SourceTraspasos, base.Add(-time.Hour))
	second := testsupport.NewSignal(2, signals.SourceTraspasos, base.Add(-2*time.Hour))
	testsupport.InsertSignals(t, st, first, second)

	archived, err := st.ArchiveSignal(ctx, second.ID)
	if err != nil {
		t.Fatalf("ArchiveSignal: %v", err)
	}
	if archived == nil || archived.Status != signals.StatusArchived || archived.ArchivedAt == nil {
		t.Fatalf("unexpected archived record: %+v", archived)
	}
	if archived.ArchivedAt.Before(archived.CreatedAt) {
		t.Fatalf("archive time %v precedes creation %v", archived.ArchivedAt, archived.CreatedAt)
	}
	if _, err := st.ArchiveSignal(ctx, first.ID); err != nil {
		t.Fatalf("ArchiveSignal: %v", err)
	}

	active, err := st.ListSignals(ctx, store.Filter{})
	if err != nil {
		t.Fatalf("ListSignals: %v", err)
	}
	if len(active) != 0 {
		t.Fatalf("archived signals still listed: %v", ids(active))
	}
	gone, err := st.ListArchived(ctx)
	if err != nil {
		t.Fatalf("ListArchived: %v", err)
	}
	if len(gone) != 2 || gone[0].ID != first.ID {
		t.Fatalf("expected most recently archived first, got %v", ids(gone))
	}

	missing, err := st.ArchiveSignal(ctx, "sig_unknown")
	if err != nil || missing != nil {
		t.Fatalf("unknown id: got (%v, %v)", missing, err)
	}
}

func TestUpdateSignalAppliesOnlyPatchedFields(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()

	sig := testsupport.NewSignal(1, signals.SourceInmobiliario, base)
	testsupport.InsertSignals(t, st, sig)

	draft := "Nuevo borrador"
	updated, err := st.UpdateSignal(ctx, sig.ID, store.Patch{DraftMessage: &draft})
	if err != nil {
		t.Fatalf("UpdateSignal: %v", err)
	}
	if updated.DraftMessage != draft {
		t.Fatalf("draft not updated: %q", updated.DraftMessage)
	}
	if updated.AIAnalysis != sig.AIAnalysis || updated.Temperature != sig.Temperature || updated.Status != sig.Status {
		t.Fatalf("unpatched fields changed: %+v", updated)
	}
	if updated.ID != sig.ID || updated.Source != sig.Source || !updated.CreatedAt.Equal(sig.CreatedAt) {
		t.Fatalf("immutable fields changed: %+v", updated)
	}

	analysis := signals.Analysis{Intent: "Vender nave", Emotion: "Urgente"}
	hot := signals.TemperatureHigh
	contacted := signals.StatusContacted
	updated, err = st.UpdateSignal(ctx, sig.ID, store.Patch{Analysis: &analysis, Temperature: &hot, Status: &contacted})
	if err != nil {
		t.Fatalf("UpdateSignal: %v", err)
	}
	if updated.AIAnalysis != analysis || updated.Temperature != hot || updated.Status != contacted || updated.DraftMessage != draft {
		t.Fatalf("unexpected record: %+v", updated)
	}

	archivedStatus := signals.StatusArchived
	updated, err = st.UpdateSignal(ctx, sig.ID, store.Patch{Status: &archivedStatus})
	if err != nil {
		t.Fatalf("UpdateSignal: %v", err)
	}
	if updated.ArchivedAt == nil {
		t.Fatal("archiving through a patch must stamp archived_at")
	}

	missing, err := st.UpdateSignal(ctx, "sig_unknown", store.Patch{DraftMessage: &draft})
	if err != nil || missing != nil {
		t.Fatalf("unknown id: got (%v, %v)", missing, err)
	}
}

func TestSearchSignalsRecordsHistory(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()

	zaragoza := testsupport.NewSignal(1, signals.SourceBORME, base.Add(-time.Hour))
	zaragoza.Location = "Zaragoza"
	malaga := testsupport.NewSignal(2, signals.SourceLinkedIn, base.Add(-2*time.Hour))
	malaga.Location = "Málaga"
	testsupport.InsertSignals(t, st, zaragoza, malaga)

	results, err := st.SearchSignals(ctx, "zarag")
	if err != nil {
		t.Fatalf("SearchSignals: %v", err)
	}
	if len(results) != 1 || results[0].ID != zaragoza.ID {
		t.Fatalf("unexpected results: %v", ids(results))
	}

	folded, err := st.SearchSignals(ctx, "MÁLAGA")
	if err != nil {
		t.Fatalf("SearchSignals: %v", err)
	}
	if len(folded) != 1 || folded[0].ID != malaga.ID {
		t.Fatalf("expected case-folded match, got %v", ids(folded))
	}

	bySource, err := st.SearchSignals(ctx, "linkedin")
	if err != nil {
		t.Fatalf("SearchSignals: %v", err)
	}
	if len(bySource) != 1 {
		t.Fatalf("expected source column to be searchable, got %v", ids(bySource))
	}

	wildcard, err := st.SearchSignals(ctx, "%")
	if err != nil {
		t.Fatalf("SearchSignals: %v", err)
	}
	if len(wildcard) != 0 {
		t.Fatalf("LIKE wildcards must be literal, got %v", ids(wildcard))
	}

	if _, err := st.ArchiveSignal(ctx, zaragoza.ID); err != nil {
		t.Fatalf("ArchiveSignal: %v", err)
	}
	archived, err := st.SearchSignals(ctx, "Zaragoza")
	if err != nil {
		t.Fatalf("SearchSignals: %v", err)
	}
	if len(archived) != 1 {
		t.Fatalf("archived signals stay searchable, got %v", ids(archived))
	}

	history, err := st.RecentSearches(ctx, 10)
	if err != nil {
		t.Fatalf("RecentSearches: %v", err)
	}
	if len(history) != 5 {
		t.Fatalf("expected five history rows, got %d", len(history))
	}
	if history[4].Query != "zarag" || history[4].Results != 1 {
		t.Fatalf("unexpected oldest history entry: %+v", history[4])
	}
	if history[0].Query != "Zaragoza" || history[1].Results != 0 {
		t.Fatalf("unexpected newest history entries: %+v", history[:2])
	}
}

func TestSettingsMergeIsShallowPerCollector(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()

	initial, err := st.Settings(ctx)
	if err != nil {
		t.Fatalf("Settings: %v", err)
	}
	defaults := signals.DefaultSettings()
	if len(initial) != 4 || !initial[signals.SourceBORME].Enabled || len(initial[signals.SourceBORME].Keywords) != len(defaults[signals.SourceBORME].Keywords) {
		t.Fatalf("expected defaults, got %+v", initial)
	}

	patch := signals.RadarSettings{signals.SourceBORME: {Enabled: false, Keywords: []string{"quiebra"}}}
	merged, err := st.MergeSettings(ctx, patch)
	if err != nil {
		t.Fatalf("MergeSettings: %v", err)
	}
	if merged[signals.SourceBORME].Enabled || len(merged[signals.SourceBORME].Keywords) != 1 {
		t.Fatalf("patched entry not replaced: %+v", merged[signals.SourceBORME])
	}
	for _, source := range []signals.Source{signals.SourceTraspasos, signals.SourceInmobiliario, signals.SourceLinkedIn} {
		if fmt.Sprint(merged[source]) != fmt.Sprint(defaults[source]) {
			t.Fatalf("%s changed by unrelated patch: %+v", source, merged[source])
		}
	}

	patch[signals.SourceBORME] = signals.RadarConfig{Enabled: true}
	reread, err := st.Settings(ctx)
	if err != nil {
		t.Fatalf("Settings: %v", err)
	}
	if reread[signals.SourceBORME].Enabled {
		t.Fatal("mutating the patch after merge must not affect stored settings")
	}

	_, err = st.MergeSettings(ctx, signals.RadarSettings{"twitter": {Enabled: true}})
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error for unknown radar, got %v", err)
	}
}

func TestStatsProjection(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()
	now := base

	today := testsupport.NewSignal(1, signals.SourceLinkedIn, now.Add(-time.Hour))
	today.Temperature = signals.TemperatureHigh
	yesterday := testsupport.NewSignal(2, signals.SourceBORME, now.Add(-20*time.Hour))
	yesterday.Temperature = signals.TemperatureLow
	archived := testsupport.NewSignal(3, signals.SourceBORME, now.Add(-30*time.Minute))
	archived.Temperature = signals.TemperatureHigh
	testsupport.InsertSignals(t, st, today, yesterday, archived)
	if _, err := st.ArchiveSignal(ctx, archived.ID); err != nil {
		t.Fatalf("ArchiveSignal: %v", err)
	}
	if err := st.IncrementScrapes(ctx, now, 4); err != nil {
		t.Fatalf("IncrementScrapes: %v", err)
	}
	for i := 0; i < 7; i++ {
		if _, err := st.SearchSignals(ctx, fmt.Sprintf("q%d", i)); err != nil {
			t.Fatalf("SearchSignals: %v", err)
		}
	}

	stats, err := st.Stats(ctx, now)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.TotalLeads != 2 || stats.HighTicket != 1 || stats.NewToday != 1 || stats.ScrapesToday != 4 {
		t.Fatalf("unexpected counters: %+v", stats)
	}
	if stats.BySource[signals.SourceLinkedIn] != 1 || stats.BySource[signals.SourceBORME] != 1 || stats.BySource[signals.SourceTraspasos] != 0 {
		t.Fatalf("unexpected bySource: %v", stats.BySource)
	}
	if stats.ByTemperature[signals.TemperatureLow] != 1 || stats.ByTemperature[signals.TemperatureMedium] != 0 {
		t.Fatalf("unexpected byTemperature: %v", stats.ByTemperature)
	}
	if len(stats.RecentSearches) != 5 || stats.RecentSearches[0].Query != "q6" {
		t.Fatalf("unexpected recent searches: %+v", stats.RecentSearches)
	}
}

func TestUsers(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()

	user, err := st.CreateUser(ctx, " Admin@Example.com ", "hash-1")
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if user.Email != "admin@example.com" || user.ID == "" {
		t.Fatalf("unexpected user: %+v", user)
	}
	found, err := st.UserByEmail(ctx, "ADMIN@example.com")
	if err != nil || found == nil || found.ID != user.ID {
		t.Fatalf("case-insensitive lookup failed: (%v, %v)", found, err)
	}

	replaced, err := st.CreateUser(ctx, "admin@example.com", "hash-2")
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if replaced.ID != user.ID || replaced.PasswordHash != "hash-2" {
		t.Fatalf("expected hash replacement on same user, got %+v", replaced)
	}
	if n, err := st.CountUsers(ctx); err != nil || n != 1 {
		t.Fatalf("CountUsers = (%d, %v)", n, err)
	}

	missing, err := st.UserByEmail(ctx, "nobody@example.com")
	if err != nil || missing != nil {
		t.Fatalf("missing user: got (%v, %v)", missing, err)
	}
	if _, err := st.CreateUser(ctx, "", "hash"); err == nil {
		t.Fatal("expected error for blank email")
	}
}

func TestScrapeUsageCounter(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()

	if n, err := st.ScrapesOn(ctx, base); err != nil || n != 0 {
		t.Fatalf("initial ScrapesOn = (%d, %v)", n, err)
	}
	if err := st.IncrementScrapes(ctx, base, 3); err != nil {
		t.Fatalf("IncrementScrapes: %v", err)
	}
	if err := st.IncrementScrapes(ctx, base.Add(time.Hour), 2); err != nil {
		t.Fatalf("IncrementScrapes: %v", err)
	}
	if err := st.IncrementScrapes(ctx, base.Add(24*time.Hour), 9); err != nil {
		t.Fatalf("IncrementScrapes: %v", err)
	}
	if n, _ := st.ScrapesOn(ctx, base); n != 5 {
		t.Fatalf("expected 5 scrapes today, got %d", n)
	}
	if err := st.ResetScrapes(ctx, base); err != nil {
		t.Fatalf("ResetScrapes: %v", err)
	}
	if n, _ := st.ScrapesOn(ctx, base); n != 0 {
		t.Fatalf("expected reset counter, got %d", n)
	}
	if n, _ := st.ScrapesOn(ctx, base.Add(24*time.Hour)); n != 9 {
		t.Fatalf("reset must only touch its own day, got %d", n)
	}
}

func ids(items []signals.Signal) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.ID)
	}
	return out
}
