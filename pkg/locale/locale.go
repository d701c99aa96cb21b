// Package locale resolves the display language of a request and renders
// dates in it.
package locale

import (
	"strconv"
	"time"

	"golang.org/x/text/language"
)

// Supported display languages. The first is the fallback.
var Supported = []language.Tag{language.English, language.MustParse("cy")}

var matcher = language.NewMatcher(Supported)

// Match returns the supported language code closest to lang, which may be a
// single code ("cy") or an Accept-Language header value. It falls back to "en".
func Match(lang string) string {
	tags, _, err := language.ParseAcceptLanguage(lang)
	if err != nil || len(tags) == 0 {
		return Supported[0].String()
	}
	_, idx, _ := matcher.Match(tags...)
	return Supported[idx].String()
}

var welshMonths = [...]string{
	"Ionawr", "Chwefror", "Mawrth", "Ebrill", "Mai", "Mehefin",
	"Gorffennaf", "Awst", "Medi", "Hydref", "Tachwedd", "Rhagfyr",
}

// FormatDate renders t as "1 May 2024" in the matched language.
func FormatDate(t time.Time, lang string) string {
	if Match(lang) == "cy" {
		return strconv.Itoa(t.Day()) + " " + welshMonths[t.Month()-1] + " " + strconv.Itoa(t.Year())
	}
	return t.Format("2 January 2006")
}
