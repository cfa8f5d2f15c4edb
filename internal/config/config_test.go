package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/roach88/checkin/internal/api"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "http://localhost:3000", cfg.APIBaseURL)
	assert.Equal(t, language.Spanish, cfg.Language)
	assert.Zero(t, cfg.RequestTimeout)
	assert.Equal(t, "INV-2026", cfg.GuestAccessCode)
	assert.Equal(t, api.DefaultBreakerSettings, cfg.Breaker)
}

func TestLoad_File(t *testing.T) {
	cfg, err := Load(filepath.Join("testdata", "kiosk.cue"))
	require.NoError(t, err)

	assert.Equal(t, "https://asistencia.example.edu.co", cfg.APIBaseURL)
	assert.Equal(t, language.English, cfg.Language)
	assert.Equal(t, 15*time.Second, cfg.RequestTimeout)
	assert.Equal(t, uint32(5), cfg.Breaker.MaxFailures)
	assert.Equal(t, 30*time.Second, cfg.Breaker.OpenTimeout)
}

func TestLoad_SchemaViolations(t *testing.T) {
	tests := []string{
		"unknown_field.cue",
		"bad_url.cue",
		"empty_guest_code.cue",
	}

	for _, name := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(filepath.Join("testdata", name))
			require.Error(t, err)

			var cfgErr *Error
			assert.True(t, errors.As(err, &cfgErr), "want *Error, got %T", err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.cue"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv(EnvAPIBaseURL, "http://10.0.0.5:8080/")
	t.Setenv(EnvLang, "es-CO")
	t.Setenv(EnvRequestTimeout, "2s")
	t.Setenv(EnvGuestAccessCode, "INV-2027")

	cfg, err := Load(filepath.Join("testdata", "kiosk.cue"))
	require.NoError(t, err)

	assert.Equal(t, "http://10.0.0.5:8080", cfg.APIBaseURL)
	assert.Equal(t, language.Spanish, cfg.Language)
	assert.Equal(t, 2*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "INV-2027", cfg.GuestAccessCode)
}

func TestLoad_InvalidEnv(t *testing.T) {
	tests := []struct {
		env   string
		value string
	}{
		{EnvAPIBaseURL, "ftp://example.com"},
		{EnvLang, "fr"},
		{EnvRequestTimeout, "soon"},
		{EnvRequestTimeout, "-1s"},
	}

	for _, tt := range tests {
		t.Run(tt.env+"="+tt.value, func(t *testing.T) {
			t.Setenv(tt.env, tt.value)

			_, err := Load("")
			require.Error(t, err)

			var cfgErr *Error
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, tt.env, cfgErr.Field)
		})
	}
}

func TestParseLanguage(t *testing.T) {
	tag, err := ParseLanguage("en-GB")
	require.NoError(t, err)
	assert.Equal(t, language.English, tag)

	_, err = ParseLanguage("de")
	assert.Error(t, err)
}
