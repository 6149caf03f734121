package report

import (
	"os"
	"strings"

	"golang.org/x/text/language"
)

// Supported are the languages that have translations, the first one being the fallback.
var Supported = []language.Tag{language.English, language.Russian}

var matcher = language.NewMatcher(Supported)

// LanguageFromEnv picks the supported language that best matches the POSIX locale environment variables.
//
// LC_ALL takes precedence over LC_MESSAGES, which takes precedence over LANG.
func LanguageFromEnv() language.Tag {
	for _, key := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		if v := os.Getenv(key); v != "" {
			return ParseLocale(v)
		}
	}

	return Supported[0]
}

// ParseLocale picks the supported language that best matches a POSIX locale such as "ru_RU.UTF-8".
func ParseLocale(locale string) language.Tag {
	if i := strings.IndexAny(locale, ".@"); i >= 0 {
		locale = locale[:i]
	}

	switch locale {
	case "", "C", "POSIX":
		return Supported[0]
	}

	tag, err := language.Parse(strings.ReplaceAll(locale, "_", "-"))
	if err != nil {
		return Supported[0]
	}

	_, i, conf := matcher.Match(tag)
	if conf == language.No {
		return Supported[0]
	}

	return Supported[i]
}
