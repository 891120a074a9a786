package testsupport

import (
	"context"
	"fmt"
	"testing"
	"time"

	"leadradar/internal/config"
	"leadradar/internal/signals"
	"leadradar/internal/store"
)

// MustOpenStore opens a store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config, opts ...store.Option) *store.Store {
	t.Helper()

	st, err := store.Open(cfg, opts...)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		st.Close()
	})
	return st
}

// NewSignal builds a processed signal with deterministic content. The index
// keeps ids and names distinct across calls in one test.
func NewSignal(index int, source signals.Source, createdAt time.Time) signals.Signal {
	return signals.Signal{
		ID:           fmt.Sprintf("sig_%d_test%05d", createdAt.UnixMilli(), index),
		Source:       source,
		Name:         fmt.Sprintf("Prospect %d", index),
		RoleCompany:  fmt.Sprintf("Founder, Company %d S.L.", index),
		Location:     "Madrid",
		Trigger:      "Jubilación",
		Temperature:  signals.TemperatureMedium,
		Excerpt:      "Pensando en el relevo.",
		FullSource:   "Pensando en el relevo de la empresa familiar.",
		AIAnalysis:   signals.Analysis{Intent: "Sucesión", Emotion: "Tranquilo"},
		DraftMessage: "Hola, enhorabuena por la trayectoria.",
		Date:         "just now",
		Status:       signals.StatusNew,
		CreatedAt:    createdAt,
	}
}

// InsertSignals stores signals and fails the test on error.
func InsertSignals(t testing.TB, st *store.Store, items ...signals.Signal) {
	t.Helper()
	if err := st.InsertSignals(context.Background(), items...); err != nil {
		t.Fatalf("InsertSignals: %v", err)
	}
}
