package locale

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"
)

func TestPrinter_Spanish(t *testing.T) {
	p := Printer(language.Spanish)
	assert.Equal(t, "El semestre debe estar entre 1 y 10", p.Sprintf(MsgSemesterOutOfRange))
	assert.Equal(t, "2 horas", Hours(p, 2))
	assert.Equal(t, "0.5 horas", Hours(p, 0.5))
}

func TestPrinter_English(t *testing.T) {
	p := Printer(language.English)
	assert.Equal(t, MsgSemesterOutOfRange, p.Sprintf(MsgSemesterOutOfRange))
	assert.Equal(t, "24 hours", Hours(p, 24))
}

func TestCatalogIsComplete(t *testing.T) {
	keys := []string{
		MsgCedulaInvalid, MsgFirstNameRequired, MsgLastNameRequired, MsgEmailRequired,
		MsgEmailInvalid, MsgPhoneRequired, MsgPhoneInvalid, MsgCampusRequired,
		MsgProgramRequired, MsgSemesterRequired, MsgSemesterNotInteger,
		MsgSemesterOutOfRange, MsgAccessCodeRequired, MsgServiceTypeRequired,
		MsgServiceTypeInvalid, MsgCourseInvalid, MsgHoursRequired, MsgHoursInvalid,
		MsgCorrectFields, MsgLookupFailed, MsgRegistrationFailed, MsgAttendanceFailed,
	}
	for _, key := range keys {
		_, ok := spanish[key]
		assert.True(t, ok, "missing Spanish text for %q", key)
	}
}

func TestParse(t *testing.T) {
	assert.Equal(t, language.Spanish, Parse("es"))
	assert.Equal(t, language.Spanish, Parse("es-CO"))
	assert.Equal(t, language.English, Parse("en-US"))
	assert.Equal(t, Default, Parse("not a tag!"))
}

func TestLongDate(t *testing.T) {
	ts := time.Date(2026, time.October, 19, 9, 30, 0, 0, time.UTC)

	assert.Equal(t, "lunes, 19 de octubre de 2026", LongDate(ts, language.Spanish))
	assert.Equal(t, "Monday, October 19, 2026", LongDate(ts, language.English))
	assert.Equal(t, "09:30", ClockTime(ts))
}

func TestFormatHours(t *testing.T) {
	assert.Equal(t, "2", FormatHours(2))
	assert.Equal(t, "0.5", FormatHours(0.5))
	assert.Equal(t, "1.25", FormatHours(1.25))
}
