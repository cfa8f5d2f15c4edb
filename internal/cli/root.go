package cli

import (
	"fmt"
	"log/slog"
	"net/url"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/roach88/checkin/internal/api"
	"github.com/roach88/checkin/internal/config"
	"github.com/roach88/checkin/internal/locale"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigPath string // optional CUE file
	APIURL     string // overrides api.base_url
	Lang       string // overrides lang
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the checkin CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "checkin",
		Short: "Attendance check-in kiosk",
		Long: `Record attendance at tutoring and accompaniment sessions.

Participants identify themselves by national ID (cedula). Known users go
straight to session entry; unknown users register first.

Settings come from an optional CUE file (--config), then CHECKIN_*
environment variables, then the --api and --lang flags.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Validate format flag
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "path to a CUE configuration file")
	cmd.PersistentFlags().StringVar(&opts.APIURL, "api", "", "backend base URL")
	cmd.PersistentFlags().StringVar(&opts.Lang, "lang", "", "message language (es|en)")

	// Add subcommands
	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewLookupCommand(opts))
	cmd.AddCommand(NewCatalogCommand(opts))
	cmd.AddCommand(NewHistoryCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// session is what a backend-facing command works with.
type session struct {
	config  *config.Config
	logger  *slog.Logger
	client  *api.Client
	printer *message.Printer
	lang    language.Tag
}

// newLogger writes text logs to the command's stderr, at debug level when
// verbose.
func (o *RootOptions) newLogger(cmd *cobra.Command) *slog.Logger {
	logLevel := slog.LevelInfo
	if o.Verbose {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: logLevel,
	})
	return slog.New(handler)
}

// resolveConfig loads the configuration and applies the flag overrides.
func (o *RootOptions) resolveConfig() (*config.Config, error) {
	cfg, err := config.Load(o.ConfigPath)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "invalid configuration", err)
	}

	if o.APIURL != "" {
		u, err := url.Parse(o.APIURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return nil, NewExitError(ExitCommandError, fmt.Sprintf("invalid --api URL %q", o.APIURL))
		}
		cfg.APIBaseURL = o.APIURL
	}

	if o.Lang != "" {
		tag, err := config.ParseLanguage(o.Lang)
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "invalid --lang", err)
		}
		cfg.Language = tag
	}
	return cfg, nil
}

// connect resolves configuration and builds the backend client.
func (o *RootOptions) connect(cmd *cobra.Command) (*session, error) {
	cfg, err := o.resolveConfig()
	if err != nil {
		return nil, err
	}
	logger := o.newLogger(cmd)

	client := api.NewClient(cfg.APIBaseURL,
		api.WithLogger(logger),
		api.WithRequestTimeout(cfg.RequestTimeout),
		api.WithBreaker(api.NewBreaker("checkin-api", cfg.Breaker, logger)),
	)
	logger.Debug("backend configured",
		"base_url", cfg.APIBaseURL,
		"lang", cfg.Language,
		"request_timeout", cfg.RequestTimeout,
	)

	return &session{
		config:  cfg,
		logger:  logger,
		client:  client,
		printer: locale.Printer(cfg.Language),
		lang:    cfg.Language,
	}, nil
}

// formatter returns the output formatter for cmd.
func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   o.Verbose,
	}
}
