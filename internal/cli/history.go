package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history [content|images]",
		Short: "Show the write log of a namespace",
		Long: `Show recent writes to a namespace, oldest first.

Each save rewrites the whole namespace, so every revision records the size
of the full payload. Removed marks a reset.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ns := "content"
			if len(args) == 1 {
				ns = args[0]
			}
			return runHistory(rootOpts, ns, limit, cmd)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of revisions to show (0 for all)")
	return cmd
}

func runHistory(opts *RootOptions, ns string, limit int, cmd *cobra.Command) error {
	f := newFormatter(opts, cmd)
	ctx := commandContext(cmd)
	ws, err := openWorkspace(ctx, opts, cmd)
	if err != nil {
		return failWorkspace(f, err)
	}
	defer ws.Close()

	s, ok := ws.namespace(ns)
	if !ok {
		return f.Fail(ExitCommandError, ErrCodeNotFound, fmt.Sprintf("unknown namespace %q", ns), nil)
	}

	revs, err := ws.st.History(ctx, string(s.Namespace()), limit)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeStore, "failed to read history", err)
	}

	if f.Format == "json" {
		return f.Success(revs)
	}
	if len(revs) == 0 {
		fmt.Fprintf(f.Writer, "No writes to %s.\n", s.Namespace())
		return nil
	}
	for _, r := range revs {
		if r.Removed {
			fmt.Fprintf(f.Writer, "%6d  removed\n", r.Seq)
			continue
		}
		fmt.Fprintf(f.Writer, "%6d  %d bytes\n", r.Seq, r.Size)
	}
	return nil
}
