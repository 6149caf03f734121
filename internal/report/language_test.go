package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"
)

func TestParseLocale(t *testing.T) {
	tests := []struct {
		locale string
		want   language.Tag
	}{
		{locale: "", want: language.English},
		{locale: "C", want: language.English},
		{locale: "POSIX", want: language.English},
		{locale: "C.UTF-8", want: language.English},
		{locale: "en_US.UTF-8", want: language.English},
		{locale: "ru_RU.UTF-8", want: language.Russian},
		{locale: "ru_RU.CP1251", want: language.Russian},
		{locale: "ru", want: language.Russian},
		{locale: "not a locale!", want: language.English},
	}
	for _, tt := range tests {
		t.Run(tt.locale, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLocale(tt.locale))
		})
	}
}

func TestLanguageFromEnv(t *testing.T) {
	t.Setenv("LC_ALL", "")
	t.Setenv("LC_MESSAGES", "")
	t.Setenv("LANG", "ru_RU.UTF-8")
	assert.Equal(t, language.Russian, LanguageFromEnv())

	t.Setenv("LC_ALL", "en_GB.UTF-8")
	assert.Equal(t, language.English, LanguageFromEnv())
}
