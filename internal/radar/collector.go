package radar

import (
	"context"
	"strings"
	"time"

	"golang.org/x/text/cases"

	"leadradar/internal/signals"
)

// Collector produces raw signals for one source. A network-backed
// implementation can replace the sample pools without touching the pipeline.
type Collector interface {
	Name() signals.Source
	// Scan returns captures matching any keyword (all when keywords holds no
	// non-blank entry), capped at targetCount when it is positive. No match is
	// an empty slice, not an error.
	Scan(ctx context.Context, keywords []string, targetCount int) ([]signals.RawSignal, error)
}

// Clock returns the capture timestamp.
type Clock func() time.Time

// poolCollector serves a fixed in-memory sample pool.
type poolCollector struct {
	source signals.Source
	pool   []signals.RawSignal
	now    Clock
}

func newPoolCollector(source signals.Source, pool []signals.RawSignal, now Clock) *poolCollector {
	if now == nil {
		now = time.Now
	}
	return &poolCollector{source: source, pool: pool, now: now}
}

func (c *poolCollector) Name() signals.Source {
	return c.source
}

func (c *poolCollector) Scan(ctx context.Context, keywords []string, targetCount int) ([]signals.RawSignal, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	matcher := newKeywordMatcher(keywords)
	capturedAt := c.now()

	results := make([]signals.RawSignal, 0, len(c.pool))
	for _, item := range c.pool {
		if !matcher.matches(item) {
			continue
		}
		item.Source = c.source
		item.ScrapedAt = capturedAt
		results = append(results, item)
		if targetCount > 0 && len(results) >= targetCount {
			break
		}
	}
	return results, nil
}

type keywordMatcher struct {
	folded []string
	caser  cases.Caser
}

func newKeywordMatcher(keywords []string) keywordMatcher {
	m := keywordMatcher{caser: cases.Fold()}
	for _, kw := range keywords {
		kw = strings.TrimSpace(kw)
		if kw == "" {
			continue
		}
		m.folded = append(m.folded, m.caser.String(kw))
	}
	return m
}

func (m keywordMatcher) matches(item signals.RawSignal) bool {
	if len(m.folded) == 0 {
		return true
	}
	fields := []string{
		m.caser.String(item.Trigger),
		m.caser.String(item.FullSource),
		m.caser.String(item.Excerpt),
	}
	for _, kw := range m.folded {
		for _, field := range fields {
			if strings.Contains(field, kw) {
				return true
			}
		}
	}
	return false
}
