package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/atelier/internal/page"
)

// NewOptions holds options for the new command.
type NewOptions struct {
	Path string
}

// NewNewCommand creates the new command.
func NewNewCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &NewOptions{}

	cmd := &cobra.Command{
		Use:   "new <text>",
		Short: "Store text under a freshly assigned content id",
		Long: `Commit text through an edit session on an element that has no
content id yet, and print the id it was given.

The id comes from the --ids scheme. With --ids hash the id is derived from
--path, so the same path always lands on the same id.

Example:
  atelier --ids hash new "Hello" --path about/intro`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNew(rootOpts, opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Path, "path", "", "content path used as the id hint (section/name)")

	return cmd
}

func runNew(rootOpts *RootOptions, opts *NewOptions, text string, cmd *cobra.Command) error {
	f := newFormatter(rootOpts, cmd)
	ctx := commandContext(cmd)
	ws, err := openWorkspace(ctx, rootOpts, cmd)
	if err != nil {
		return failWorkspace(f, err)
	}
	defer ws.Close()

	draft := page.NewDraft(opts.Path, text)
	ctrl := ws.controller()
	if err := ctrl.Activate(ctx, draft, true); err != nil {
		return failEdit(f, err)
	}
	entry, err := ctrl.Commit(ctx, draft)
	if err != nil {
		return failEdit(f, err)
	}
	f.VerboseLog("assigned %s (scheme %s)", entry.ID, rootOpts.IDs)

	if f.Format == "json" {
		return f.Success(entry)
	}
	return f.Success(fmt.Sprintf("✓ %s created", entry.ID))
}
