// Package config loads kiosk settings.
//
// Settings come from three layers, later layers winning:
//  1. the embedded CUE schema, which supplies defaults and constraints
//  2. an optional CUE file unified with the schema
//  3. CHECKIN_* environment variables
//
// Command-line flags are applied on top by the CLI.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"time"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
	"golang.org/x/text/language"

	"github.com/roach88/checkin/internal/api"
	"github.com/roach88/checkin/internal/locale"
)

//go:embed schema.cue
var schema []byte

// Environment variables read by Load.
const (
	EnvAPIBaseURL      = "CHECKIN_API_BASE_URL"
	EnvLang            = "CHECKIN_LANG"
	EnvRequestTimeout  = "CHECKIN_REQUEST_TIMEOUT"
	EnvGuestAccessCode = "CHECKIN_GUEST_ACCESS_CODE"
)

// Config is the resolved kiosk configuration.
type Config struct {
	APIBaseURL      string
	Language        language.Tag
	RequestTimeout  time.Duration // zero means no timeout
	GuestAccessCode string
	Breaker         api.BreakerSettings
}

// Error reports an invalid setting, with the CUE position when known.
type Error struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *Error) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// document mirrors #Config for decoding.
type document struct {
	API struct {
		BaseURL        string `json:"base_url"`
		RequestTimeout string `json:"request_timeout"`
		Breaker        struct {
			MaxFailures int    `json:"max_failures"`
			OpenTimeout string `json:"open_timeout"`
		} `json:"breaker"`
	} `json:"api"`
	Lang            string `json:"lang"`
	GuestAccessCode string `json:"guest_access_code"`
}

// Default returns the configuration with no file and no environment.
func Default() *Config {
	cfg, err := fromCUE(nil, "")
	if err != nil {
		panic(fmt.Sprintf("config: embedded schema is invalid: %v", err))
	}
	return cfg
}

// Load reads path (skipped when empty) and applies environment overrides.
func Load(path string) (*Config, error) {
	var src []byte
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		src = data
	}

	cfg, err := fromCUE(src, path)
	if err != nil {
		return nil, err
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return cfg, nil
}

// fromCUE unifies src with the schema and decodes the result.
func fromCUE(src []byte, filename string) (*Config, error) {
	ctx := cuecontext.New()

	root := ctx.CompileBytes(schema, cue.Filename("schema.cue"))
	if err := root.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	value := root.LookupPath(cue.ParsePath("#Config"))

	if len(src) > 0 {
		user := ctx.CompileBytes(src, cue.Filename(filename))
		if err := user.Err(); err != nil {
			return nil, formatCUEError(err)
		}
		value = value.Unify(user)
	}

	if err := value.Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError(err)
	}

	var doc document
	if err := value.Decode(&doc); err != nil {
		return nil, formatCUEError(err)
	}
	return doc.resolve()
}

func (d document) resolve() (*Config, error) {
	timeout, err := parseDuration("api.request_timeout", d.API.RequestTimeout)
	if err != nil {
		return nil, err
	}
	openTimeout, err := parseDuration("api.breaker.open_timeout", d.API.Breaker.OpenTimeout)
	if err != nil {
		return nil, err
	}

	return &Config{
		APIBaseURL:      strings.TrimRight(d.API.BaseURL, "/"),
		Language:        locale.Parse(d.Lang),
		RequestTimeout:  timeout,
		GuestAccessCode: d.GuestAccessCode,
		Breaker: api.BreakerSettings{
			MaxFailures: uint32(d.API.Breaker.MaxFailures),
			OpenTimeout: openTimeout,
		},
	}, nil
}

// applyEnv overrides settings from the environment.
func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvAPIBaseURL); ok && v != "" {
		if !strings.HasPrefix(v, "http://") && !strings.HasPrefix(v, "https://") {
			return &Error{Field: EnvAPIBaseURL, Message: fmt.Sprintf("not an http(s) URL: %q", v)}
		}
		c.APIBaseURL = strings.TrimRight(v, "/")
	}
	if v, ok := lookup(EnvLang); ok && v != "" {
		tag, err := ParseLanguage(v)
		if err != nil {
			return &Error{Field: EnvLang, Message: err.Error()}
		}
		c.Language = tag
	}
	if v, ok := lookup(EnvRequestTimeout); ok && v != "" {
		d, err := parseDuration(EnvRequestTimeout, v)
		if err != nil {
			return err
		}
		c.RequestTimeout = d
	}
	if v, ok := lookup(EnvGuestAccessCode); ok && v != "" {
		c.GuestAccessCode = v
	}
	return nil
}

// ParseLanguage accepts "es", "en" and regional variants of either.
func ParseLanguage(name string) (language.Tag, error) {
	tag, err := language.Parse(name)
	if err != nil {
		return language.Und, fmt.Errorf("unknown language %q", name)
	}
	base, _ := tag.Base()
	switch base.String() {
	case "es", "en":
		return locale.Match(tag), nil
	}
	return language.Und, fmt.Errorf("unsupported language %q (want es or en)", name)
}

func parseDuration(field, s string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, &Error{Field: field, Message: fmt.Sprintf("invalid duration %q", s)}
	}
	if d < 0 {
		return 0, &Error{Field: field, Message: fmt.Sprintf("negative duration %q", s)}
	}
	return d, nil
}

// formatCUEError keeps the first error and its position.
func formatCUEError(err error) error {
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return &Error{Field: "cue", Message: err.Error()}
	}

	first := errs[0]
	cfgErr := &Error{Field: "cue", Message: first.Error()}
	if positions := errors.Positions(first); len(positions) > 0 {
		cfgErr.Pos = positions[0]
	}
	if path := first.Path(); len(path) > 0 {
		cfgErr.Field = strings.Join(path, ".")
	}
	return cfgErr
}
