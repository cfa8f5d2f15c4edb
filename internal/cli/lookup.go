package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/checkin/internal/locale"
	"github.com/roach88/checkin/internal/validate"
)

// NewLookupCommand creates the lookup command.
func NewLookupCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lookup <cedula>",
		Short: "Show the profile registered for a national ID",
		Long: `Look up a participant by national ID.

Non-digit characters are ignored, so "1.234.567" and "1234567" are the
same identity.

Exit codes:
  0 - Profile found
  1 - No profile for this identity
  2 - Invalid identity or backend error

Example:
  checkin lookup 1234567
  checkin lookup 1234567 --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return lookupUser(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

// parseCedula strips formatting from input and checks the result.
func parseCedula(sess *session, f *OutputFormatter, input string) (string, error) {
	cedula := validate.Digits(input)
	if !validate.IsNationalID(cedula) {
		exitErr := NewExitError(ExitCommandError, fmt.Sprintf("invalid national ID %q", input))
		return "", f.Fail(exitErr, CodeInvalidInput, sess.printer.Sprintf(locale.MsgCedulaInvalid), input)
	}
	return cedula, nil
}

func lookupUser(opts *RootOptions, input string, cmd *cobra.Command) error {
	sess, err := opts.connect(cmd)
	if err != nil {
		return err
	}
	f := opts.formatter(cmd)

	cedula, err := parseCedula(sess, f, input)
	if err != nil {
		return err
	}

	f.VerboseLog("Looking up %s at %s", cedula, sess.config.APIBaseURL)
	user, found, err := sess.client.FindUserByIdentity(cmd.Context(), cedula)
	if err != nil {
		return f.Fail(WrapExitError(ExitCommandError, "lookup failed", err), CodeBackend, err.Error(), nil)
	}
	if !found {
		return f.Fail(NewExitError(ExitFailure, "user not found"),
			CodeNotFound, sess.printer.Sprintf(locale.MsgUserNotFound), cedula)
	}

	return f.Success(profileView{User: *user, printer: sess.printer})
}
