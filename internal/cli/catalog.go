package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/checkin/internal/domain"
)

// catalogKinds maps command arguments to reference collections.
var catalogKinds = map[string]domain.RefKind{
	"campuses":      domain.RefCampuses,
	"programs":      domain.RefAcademicPrograms,
	"service-types": domain.RefServiceTypes,
	"courses":       domain.RefAccompanimentCourses,
}

// NewCatalogCommand creates the catalog command.
func NewCatalogCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog <campuses|programs|service-types|courses>",
		Short: "List reference data offered by the backend",
		Long: `List one of the option catalogs the wizard offers.

Example:
  checkin catalog campuses
  checkin catalog service-types --format json`,
		Args:          cobra.ExactArgs(1),
		ValidArgs:     []string{"campuses", "programs", "service-types", "courses"},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listCatalog(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func listCatalog(opts *RootOptions, name string, cmd *cobra.Command) error {
	kind, ok := catalogKinds[name]
	if !ok {
		return NewExitError(ExitCommandError, fmt.Sprintf("unknown catalog %q: must be one of campuses, programs, service-types, courses", name))
	}

	sess, err := opts.connect(cmd)
	if err != nil {
		return err
	}
	f := opts.formatter(cmd)

	items, err := sess.client.ListReference(cmd.Context(), kind)
	if err != nil {
		exitErr := WrapExitError(ExitCommandError, fmt.Sprintf("failed to list %s", kind), err)
		return f.Fail(exitErr, CodeBackend, err.Error(), nil)
	}
	f.VerboseLog("Loaded %d %s", len(items), kind)

	return f.Success(catalogView{Kind: kind, Items: items, printer: sess.printer})
}
