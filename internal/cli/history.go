package cli

import (
	"github.com/spf13/cobra"
)

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history <cedula>",
		Short: "List the sessions recorded for a national ID",
		Long: `List the attendance sessions recorded for a participant.

A backend failure is logged and reported as no sessions.

Example:
  checkin history 1234567
  checkin history 1234567 --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listHistory(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func listHistory(opts *RootOptions, input string, cmd *cobra.Command) error {
	sess, err := opts.connect(cmd)
	if err != nil {
		return err
	}
	f := opts.formatter(cmd)

	cedula, err := parseCedula(sess, f, input)
	if err != nil {
		return err
	}

	sessions := sess.client.SessionsByIdentity(cmd.Context(), cedula)
	return f.Success(historyView{
		Cedula:   cedula,
		Sessions: sessions,
		printer:  sess.printer,
		lang:     sess.lang,
	})
}
