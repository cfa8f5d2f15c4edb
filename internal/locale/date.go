package locale

import (
	"fmt"
	"time"

	"golang.org/x/text/language"
)

var spanishWeekdays = [...]string{
	"domingo", "lunes", "martes", "miércoles", "jueves", "viernes", "sábado",
}

var spanishMonths = [...]string{
	"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

// LongDate renders t as a long-form date:
// "lunes, 19 de octubre de 2026" or "Monday, October 19, 2026".
func LongDate(t time.Time, tag language.Tag) string {
	if Match(tag) == language.English {
		return t.Format("Monday, January 2, 2006")
	}
	return fmt.Sprintf("%s, %d de %s de %d",
		spanishWeekdays[t.Weekday()], t.Day(), spanishMonths[t.Month()-1], t.Year())
}

// ClockTime renders the time of day as HH:MM.
func ClockTime(t time.Time) string {
	return t.Format("15:04")
}
