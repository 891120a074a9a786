package store

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"strings"
	"sync"
	"time"

	"golang.org/x/text/cases"
	sqlite "modernc.org/sqlite"

	"leadradar/internal/signals"
)

const signalColumns = "id, source, name, role_company, location, trigger_type, temperature, excerpt, full_source, source_url, ai_intent, ai_emotion, draft_message, date_label, status, created_at, archived_at"

// timeLayout is fixed-width so lexical order in SQLite matches time order.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

var (
	registerOnce sync.Once
	registerErr  error
)

// registerFunctions installs fold(text), a Unicode case fold used by search so
// "MÁLAGA" matches "Málaga". SQLite's own lower() only folds ASCII.
func registerFunctions() error {
	registerOnce.Do(func() {
		registerErr = sqlite.RegisterDeterministicScalarFunction("fold", 1, func(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
			switch v := args[0].(type) {
			case nil:
				return nil, nil
			case string:
				return foldText(v), nil
			case []byte:
				return foldText(string(v)), nil
			default:
				return v, nil
			}
		})
	})
	return registerErr
}

func foldText(value string) string {
	return cases.Fold().String(value)
}

func likePattern(query string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + replacer.Replace(foldText(query)) + "%"
}

func scanSignal(scanner interface{ Scan(dest ...any) error }) (*signals.Signal, error) {
	var (
		id          string
		source      string
		name        string
		roleCompany string
		location    string
		trigger     string
		temperature string
		excerpt     string
		fullSource  string
		sourceURL   sql.NullString
		intent      sql.NullString
		emotion     sql.NullString
		draft       sql.NullString
		dateLabel   sql.NullString
		status      string
		createdRaw  string
		archivedRaw sql.NullString
	)
	if err := scanner.Scan(
		&id,
		&source,
		&name,
		&roleCompany,
		&location,
		&trigger,
		&temperature,
		&excerpt,
		&fullSource,
		&sourceURL,
		&intent,
		&emotion,
		&draft,
		&dateLabel,
		&status,
		&createdRaw,
		&archivedRaw,
	); err != nil {
		return nil, err
	}

	sig := &signals.Signal{
		ID:           id,
		Source:       signals.Source(source),
		Name:         name,
		RoleCompany:  roleCompany,
		Location:     location,
		Trigger:      trigger,
		Temperature:  signals.Temperature(temperature),
		Excerpt:      excerpt,
		FullSource:   fullSource,
		SourceURL:    sourceURL.String,
		AIAnalysis:   signals.Analysis{Intent: intent.String, Emotion: emotion.String},
		DraftMessage: draft.String,
		Date:         dateLabel.String,
		Status:       signals.Status(status),
	}
	if created, err := parseTimeString(createdRaw); err == nil {
		sig.CreatedAt = created
	}
	if archivedRaw.Valid {
		if archived, err := parseTimeString(archivedRaw.String); err == nil {
			sig.ArchivedAt = &archived
		}
	}
	return sig, nil
}

func collectSignals(rows *sql.Rows) ([]signals.Signal, error) {
	defer rows.Close()
	out := []signals.Signal{}
	for rows.Next() {
		sig, err := scanSignal(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *sig)
	}
	return out, rows.Err()
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func formatTime(value time.Time) string {
	return value.UTC().Format(timeLayout)
}

func nullableTime(value *time.Time) any {
	if value == nil {
		return nil
	}
	return formatTime(*value)
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}

// dayKey is the local calendar day used by the scrape counter.
func dayKey(t time.Time) string {
	return t.Format("2006-01-02")
}
