package cli

import (
	"bufio"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/checkin/internal/domain"
	"github.com/roach88/checkin/internal/locale"
	"github.com/roach88/checkin/internal/validate"
	"github.com/roach88/checkin/internal/wizard"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions

	// WizardOptions are applied after the configured ones (for testing).
	WizardOptions []wizard.Option
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions, wizardOpts ...wizard.Option) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts, WizardOptions: wizardOpts}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start the interactive check-in wizard",
		Long: `Start the check-in wizard on the terminal.

The wizard asks for a national ID, loads or creates the participant's
profile, collects the session details and records the attendance. After
each confirmation it starts over for the next participant.

Type q at the ID prompt or press Ctrl-D to quit.

Example:
  checkin run --api http://localhost:3000
  checkin run --config ./kiosk.cue --lang en`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWizard(opts, cmd)
		},
	}

	return cmd
}

func runWizard(opts *RunOptions, cmd *cobra.Command) error {
	sess, err := opts.connect(cmd)
	if err != nil {
		return err
	}

	wizardOpts := []wizard.Option{
		wizard.WithLogger(sess.logger),
		wizard.WithLanguage(sess.lang),
		wizard.WithGuestAccessCode(sess.config.GuestAccessCode),
	}
	controller := wizard.New(sess.client, append(wizardOpts, opts.WizardOptions...)...)

	// Setup signal handling for graceful shutdown
	// Use command's context if available (for testing), otherwise create one
	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, cancel := context.WithCancel(parentCtx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case sig := <-sigChan:
			sess.logger.Info("received signal, shutting down", "signal", sig)
			controller.Abort()
			cancel()
		case <-ctx.Done():
		}
	}()

	k := &kiosk{
		c:      controller,
		r:      newScreenRenderer(cmd.OutOrStdout(), sess.lang),
		in:     bufio.NewScanner(cmd.InOrStdin()),
		logger: sess.logger,
	}
	sess.logger.Info("wizard started", "api", sess.config.APIBaseURL)

	if err := k.run(ctx); err != nil {
		return WrapExitError(ExitFailure, "wizard stopped", err)
	}
	sess.logger.Info("wizard stopped")
	return nil
}

// kiosk drives a controller from line-oriented terminal input.
type kiosk struct {
	c      *wizard.Controller
	r      *screenRenderer
	in     *bufio.Scanner
	logger *slog.Logger
}

// errQuit ends the loop without an error.
var errQuit = errors.New("quit")

func (k *kiosk) run(ctx context.Context) error {
	for {
		err := k.step(ctx)
		switch {
		case err == nil:
		case errors.Is(err, errQuit), errors.Is(err, io.EOF):
			return nil
		case ctx.Err() != nil:
			return nil
		default:
			return err
		}
		io.WriteString(k.r.w, "\n")
	}
}

// step renders the current screen, reads its input and performs one action.
func (k *kiosk) step(ctx context.Context) error {
	if alert, ok := k.c.Alert(); ok {
		k.r.alert(alert)
		if _, err := k.read(); err != nil {
			return err
		}
		k.c.DismissAlert()
		return nil
	}

	state := k.c.State()
	switch state.Step {
	case wizard.StepIDEntry:
		return k.idEntry(ctx)
	case wizard.StepProfileLoaded:
		k.r.profile(*state.User)
		if _, err := k.read(); err != nil {
			return err
		}
		return k.c.Continue(ctx)
	case wizard.StepRegistration:
		return k.registration(ctx, state)
	case wizard.StepSessionEntry:
		return k.sessionEntry(ctx, state)
	case wizard.StepConfirmation:
		k.r.confirmation(*state.Session)
		line, err := k.read()
		if err != nil {
			return err
		}
		if strings.EqualFold(line, "q") {
			return errQuit
		}
		return k.c.NewEntry()
	}
	return nil
}

func (k *kiosk) idEntry(ctx context.Context) error {
	k.r.idEntry(k.c.IDEntry())
	k.r.prompt(k.r.p.Sprintf(fieldLabels[domain.FieldCedula]), "", false)
	line, err := k.read()
	if err != nil {
		return err
	}
	if strings.EqualFold(line, "q") {
		return errQuit
	}
	k.r.loading()
	return k.c.Lookup(ctx, line)
}

func (k *kiosk) registration(ctx context.Context, state wizard.State) error {
	screen := k.c.Registration()
	if screen.Phase == wizard.PhaseRole {
		k.r.roleMenu(state.User.Cedula)
		for {
			k.r.prompt(k.r.p.Sprintf(locale.MsgChoosePrompt), "", false)
			line, err := k.read()
			if err != nil {
				return err
			}
			if role, ok := pickRole(line); ok {
				return k.c.SelectRole(role)
			}
		}
	}

	k.r.registration(screen)
	for _, field := range validate.RegistrationFields(screen.Role) {
		choices, isSelect := registrationFieldOptions(screen, field)
		k.r.field(field, screen.Form.Value(field), choices, isSelect, screen.Errors[field])
		line, err := k.read()
		if err != nil {
			return err
		}
		if line == "<" {
			return k.c.ChangeRole()
		}
		if line == "" {
			continue
		}
		if err := k.c.SetRegistrationField(field, line); err != nil {
			return err
		}
	}

	k.r.loading()
	return k.c.Register(ctx)
}

func (k *kiosk) sessionEntry(ctx context.Context, state wizard.State) error {
	screen := k.c.SessionEntry()
	k.r.sessionEntry(*state.User, screen)
	for _, field := range validate.SessionFields() {
		choices, isSelect := sessionFieldOptions(screen, field)
		errMsg := screen.Errors[field]
		for {
			k.r.field(field, sessionFieldValue(k.r.p, screen.Form, field), choices, isSelect, errMsg)
			line, err := k.read()
			if err != nil {
				return err
			}
			if line == "" {
				break
			}
			err = k.c.SetSessionField(field, line)
			var ae *wizard.ActionError
			if err == nil {
				break
			}
			if errors.As(err, &ae) {
				return err
			}
			// A value the form cannot hold, such as "maybe" for a yes/no field.
			errMsg = err.Error()
		}
	}

	k.r.loading()
	return k.c.SubmitSession(ctx)
}

// read returns the next input line, trimmed.
func (k *kiosk) read() (string, error) {
	if !k.in.Scan() {
		if err := k.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(k.in.Text()), nil
}

// pickRole accepts a menu number or a role label.
func pickRole(input string) (domain.Role, bool) {
	roles := domain.Roles()
	if n, err := strconv.Atoi(input); err == nil {
		if n >= 1 && n <= len(roles) {
			return roles[n-1], true
		}
		return "", false
	}
	role, err := domain.ParseRole(input)
	return role, err == nil
}
