package internal

import (
	"os"
	"strings"

	"golang.org/x/text/language"
)

// detectSystemLocale returns the locale used for number formatting.
// Priority is LC_NUMERIC (most specific), LC_ALL, LANG.
// Returns empty string if no valid locale is found.
func detectSystemLocale() string {
	for _, envVar := range []string{"LC_NUMERIC", "LC_ALL", "LANG"} {
		locale := os.Getenv(envVar)
		if locale != "" && locale != "C" && locale != "POSIX" {
			return locale
		}
	}
	return ""
}

// ParseLocale converts a POSIX locale string to a language tag.
// Examples: "sv_SE.UTF-8" -> sv-SE, "de_DE@euro" -> de-DE, "en-US" -> en-US
func ParseLocale(locale string) (language.Tag, error) {
	base := locale
	// Remove encoding suffix (everything after .)
	if idx := strings.Index(base, "."); idx != -1 {
		base = base[:idx]
	}
	// Remove modifier suffix (everything after @)
	if idx := strings.Index(base, "@"); idx != -1 {
		base = base[:idx]
	}
	return language.Parse(strings.ReplaceAll(base, "_", "-"))
}
