package signals

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/language"
)

// DefaultLocale is used when no locale is configured.
const DefaultLocale = "es-ES"

var (
	dateLocales = []language.Tag{
		language.Spanish,
		language.AmericanEnglish,
		language.BritishEnglish,
		language.German,
		language.French,
	}
	dateLayouts = []string{
		"2/1/2006",
		"1/2/2006",
		"02/01/2006",
		"2.1.2006",
		"02/01/2006",
	}
	dateMatcher = language.NewMatcher(dateLocales)
)

// RelativeDate renders the human label stored with a signal at creation.
func RelativeDate(t, now time.Time, locale string) string {
	diff := now.Sub(t)
	if diff < 0 {
		diff = 0
	}
	mins := int(diff / time.Minute)
	hours := int(diff / time.Hour)
	days := int(diff / (24 * time.Hour))

	switch {
	case mins < 1:
		return "just now"
	case mins < 60:
		return fmt.Sprintf("%d min ago", mins)
	case hours < 24:
		if hours == 1 {
			return "1 hour ago"
		}
		return fmt.Sprintf("%d hours ago", hours)
	case days == 1:
		return "yesterday"
	case days < 7:
		return fmt.Sprintf("%d days ago", days)
	default:
		return t.Format(dateLayout(locale))
	}
}

func dateLayout(locale string) string {
	locale = strings.TrimSpace(locale)
	if locale == "" {
		locale = DefaultLocale
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return dateLayouts[0]
	}
	_, index, confidence := dateMatcher.Match(tag)
	if confidence == language.No {
		return dateLayouts[0]
	}
	return dateLayouts[index]
}

// NewID returns a signal identifier of the form sig_<unix-millis>_<9 chars>.
func NewID(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")
	return fmt.Sprintf("sig_%d_%s", now.UnixMilli(), suffix[:9])
}
