package visits

import (
	"strings"
	"time"
)

// Weekday labels are indexed by time.Weekday, so index 0 is Sunday in every
// locale regardless of which day a locale starts its week on.
var weekdayNames = map[string][7]string{
	"es": {"Domingo", "Lunes", "Martes", "Miércoles", "Jueves", "Viernes", "Sábado"},
	"en": {"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"},
}

const defaultLocale = "es"

// WeekdayNames returns the Sunday-first labels for locale, falling back to Spanish.
func WeekdayNames(locale string) [7]string {
	if names, ok := weekdayNames[baseLocale(locale)]; ok {
		return names
	}
	return weekdayNames[defaultLocale]
}

// WeekdayName labels a single day.
func WeekdayName(locale string, day time.Weekday) string {
	return WeekdayNames(locale)[day]
}

// SupportedLocale reports whether locale has its own weekday labels.
func SupportedLocale(locale string) bool {
	_, ok := weekdayNames[baseLocale(locale)]
	return ok
}

func baseLocale(locale string) string {
	locale = strings.ToLower(strings.TrimSpace(locale))
	if i := strings.IndexAny(locale, "-_"); i > 0 {
		locale = locale[:i]
	}
	return locale
}
