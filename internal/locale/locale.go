// Package locale holds the user-facing message catalog.
//
// Message keys are the English texts; Spanish is the default language of the
// kiosk. Lookups go through golang.org/x/text/message so every screen and
// validation rule shares one catalog.
package locale

import (
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Default is the kiosk language when none is configured.
var Default = language.Spanish

var supported = []language.Tag{language.Spanish, language.English}

var matcher = language.NewMatcher(supported)

var cat = catalog.NewBuilder(catalog.Fallback(language.Spanish))

func init() {
	for key, es := range spanish {
		_ = cat.SetString(language.Spanish, key, es)
		_ = cat.SetString(language.English, key, key)
	}
}

// Match picks the closest supported language for tag.
func Match(tag language.Tag) language.Tag {
	_, idx, _ := matcher.Match(tag)
	return supported[idx]
}

// Parse resolves a language name such as "es", "en-US" or "es-CO".
// Unknown names resolve to Default.
func Parse(name string) language.Tag {
	tag, err := language.Parse(name)
	if err != nil {
		return Default
	}
	return Match(tag)
}

// Printer returns a printer bound to the catalog for tag.
func Printer(tag language.Tag) *message.Printer {
	return message.NewPrinter(Match(tag), message.Catalog(cat))
}

// FormatHours renders an hour amount without trailing zeros: 2, 0.5, 1.25.
func FormatHours(h float64) string {
	return strconv.FormatFloat(h, 'f', -1, 64)
}

// Hours renders "2 horas" / "2 hours".
func Hours(p *message.Printer, h float64) string {
	return p.Sprintf(MsgHours, FormatHours(h))
}
