package signals

import (
	"strings"
	"time"
)

// Source identifies the radar that produced a signal.
type Source string

const (
	SourceBORME        Source = "borme"
	SourceTraspasos    Source = "traspasos"
	SourceInmobiliario Source = "inmobiliario"
	SourceLinkedIn     Source = "linkedin"
)

var allSources = []Source{SourceBORME, SourceTraspasos, SourceInmobiliario, SourceLinkedIn}

// AllSources returns the radars in their fixed scan order.
func AllSources() []Source {
	cp := make([]Source, len(allSources))
	copy(cp, allSources)
	return cp
}

// ParseSource converts a string into a known Source.
func ParseSource(value string) (Source, bool) {
	normalized := Source(strings.ToLower(strings.TrimSpace(value)))
	for _, s := range allSources {
		if s == normalized {
			return s, true
		}
	}
	return "", false
}

// Temperature is the urgency tier assigned by the analyst.
type Temperature string

const (
	TemperatureHigh   Temperature = "High"
	TemperatureMedium Temperature = "Medium"
	TemperatureLow    Temperature = "Low"
)

var allTemperatures = []Temperature{TemperatureHigh, TemperatureMedium, TemperatureLow}

// AllTemperatures returns the tiers ordered from most to least urgent.
func AllTemperatures() []Temperature {
	cp := make([]Temperature, len(allTemperatures))
	copy(cp, allTemperatures)
	return cp
}

// ParseTemperature maps model output onto a tier. Spanish labels are accepted
// because prompts default to Spanish. Unknown values map to Medium and ok=false.
func ParseTemperature(value string) (Temperature, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "high", "alto", "alta":
		return TemperatureHigh, true
	case "medium", "medio", "media":
		return TemperatureMedium, true
	case "low", "bajo", "baja":
		return TemperatureLow, true
	default:
		return TemperatureMedium, false
	}
}

// Rank orders tiers for sorting; higher is more urgent.
func (t Temperature) Rank() int {
	switch t {
	case TemperatureHigh:
		return 3
	case TemperatureMedium:
		return 2
	case TemperatureLow:
		return 1
	default:
		return 0
	}
}

// Status is the lifecycle state of a stored signal.
type Status string

const (
	StatusNew       Status = "new"
	StatusReviewed  Status = "reviewed"
	StatusContacted Status = "contacted"
	StatusArchived  Status = "archived"
)

var allStatuses = []Status{StatusNew, StatusReviewed, StatusContacted, StatusArchived}

// ParseStatus converts a string into a known Status.
func ParseStatus(value string) (Status, bool) {
	normalized := Status(strings.ToLower(strings.TrimSpace(value)))
	for _, s := range allStatuses {
		if s == normalized {
			return s, true
		}
	}
	return "", false
}

// RawSignal is a collector capture before analysis. It is never persisted.
type RawSignal struct {
	Source      Source    `json:"source"`
	Name        string    `json:"name"`
	RoleCompany string    `json:"roleCompany"`
	Location    string    `json:"location"`
	Trigger     string    `json:"trigger"`
	Excerpt     string    `json:"excerpt"`
	FullSource  string    `json:"fullSource"`
	SourceURL   string    `json:"sourceUrl,omitempty"`
	ScrapedAt   time.Time `json:"scrapedAt"`
}

// Analysis is the intent/emotion pair extracted by the analyst.
type Analysis struct {
	Intent  string `json:"intent"`
	Emotion string `json:"emotion"`
}

// Signal is a processed, persisted lead. ID, Source and CreatedAt never change
// after insert.
type Signal struct {
	ID           string      `json:"id"`
	Source       Source      `json:"source"`
	Name         string      `json:"name"`
	RoleCompany  string      `json:"roleCompany"`
	Location     string      `json:"location"`
	Trigger      string      `json:"trigger"`
	Temperature  Temperature `json:"temperature"`
	Excerpt      string      `json:"excerpt"`
	FullSource   string      `json:"fullSource"`
	SourceURL    string      `json:"sourceUrl,omitempty"`
	AIAnalysis   Analysis    `json:"aiAnalysis"`
	DraftMessage string      `json:"draftMessage"`
	// Date is a relative label fixed at creation and never recomputed.
	Date       string     `json:"date"`
	Status     Status     `json:"status"`
	CreatedAt  time.Time  `json:"createdAt"`
	ArchivedAt *time.Time `json:"archivedAt,omitempty"`
}

// IsArchived reports whether the signal left the active view.
func (s Signal) IsArchived() bool {
	return s.Status == StatusArchived
}

// RadarConfig is the per-collector entry of RadarSettings.
type RadarConfig struct {
	Enabled  bool     `json:"enabled"`
	Keywords []string `json:"keywords"`
}

// RadarSettings maps each collector to its configuration.
type RadarSettings map[Source]RadarConfig

// Clone returns a deep copy.
func (s RadarSettings) Clone() RadarSettings {
	out := make(RadarSettings, len(s))
	for k, v := range s {
		kw := make([]string, len(v.Keywords))
		copy(kw, v.Keywords)
		out[k] = RadarConfig{Enabled: v.Enabled, Keywords: kw}
	}
	return out
}

// DefaultSettings returns the built-in radar configuration.
func DefaultSettings() RadarSettings {
	return RadarSettings{
		SourceBORME: {Enabled: true, Keywords: []string{
			"disolución", "concurso de acreedores", "liquidación", "cese de actividad", "quiebra",
		}},
		SourceTraspasos: {Enabled: true, Keywords: []string{
			"traspaso por jubilación", "venta de negocio", "cierre por jubilación", "venta de lote industrial", "traspaso urgente",
		}},
		SourceInmobiliario: {Enabled: true, Keywords: []string{
			"nave industrial en venta", "polígono industrial", "venta urgente nave", "liquidación industrial", "subasta nave",
			"subasta judicial", "reestructuración",
		}},
		SourceLinkedIn: {Enabled: true, Keywords: []string{
			"relevo generacional", "cierre de etapa", "conflicto societario", "venta empresa", "jubilación empresario", "sucesión empresarial",
			"jubilación", "venta de empresa",
		}},
	}
}

// SearchEntry is one row of the recent search history.
type SearchEntry struct {
	Query   string    `json:"query"`
	Date    time.Time `json:"date"`
	Results int       `json:"results"`
}

// DashboardStats is a projection over active signals, recomputed per request.
type DashboardStats struct {
	TotalLeads     int                 `json:"totalLeads"`
	HighTicket     int                 `json:"highTicket"`
	NewToday       int                 `json:"newToday"`
	ScrapesToday   int                 `json:"scrapesToday"`
	BySource       map[Source]int      `json:"bySource"`
	ByTemperature  map[Temperature]int `json:"byTemperature"`
	RecentSearches []SearchEntry       `json:"recentSearches"`
}

// NewDashboardStats returns stats with every source and tier present at zero.
func NewDashboardStats() DashboardStats {
	stats := DashboardStats{
		BySource:       make(map[Source]int, len(allSources)),
		ByTemperature:  make(map[Temperature]int, len(allTemperatures)),
		RecentSearches: []SearchEntry{},
	}
	for _, s := range allSources {
		stats.BySource[s] = 0
	}
	for _, t := range allTemperatures {
		stats.ByTemperature[t] = 0
	}
	return stats
}
