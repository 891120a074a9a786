package radar

import (
	"leadradar/internal/signals"
)

// Registry resolves collectors by source and iterates them in scan order.
type Registry struct {
	order      []signals.Source
	collectors map[signals.Source]Collector
}

// NewRegistry registers collectors in the given order. A later collector for
// the same source replaces the earlier one but keeps its position.
func NewRegistry(collectors ...Collector) *Registry {
	r := &Registry{collectors: make(map[signals.Source]Collector, len(collectors))}
	for _, c := range collectors {
		if c == nil {
			continue
		}
		name := c.Name()
		if _, exists := r.collectors[name]; !exists {
			r.order = append(r.order, name)
		}
		r.collectors[name] = c
	}
	return r
}

// NewSampleRegistry returns the four built-in sample-pool collectors in the
// order borme, traspasos, inmobiliario, linkedin.
func NewSampleRegistry(now Clock) *Registry {
	return NewRegistry(
		NewBORME(now),
		NewTraspasos(now),
		NewInmobiliario(now),
		NewLinkedIn(now),
	)
}

// Get returns the collector for source.
func (r *Registry) Get(source signals.Source) (Collector, bool) {
	if r == nil {
		return nil, false
	}
	c, ok := r.collectors[source]
	return c, ok
}

// Sources lists registered sources in scan order.
func (r *Registry) Sources() []signals.Source {
	if r == nil {
		return nil
	}
	cp := make([]signals.Source, len(r.order))
	copy(cp, r.order)
	return cp
}
