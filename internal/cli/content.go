package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/atelier/internal/content"
)

// NewGetCommand creates the get command.
func NewGetCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get <content-id>",
		Short: "Print the stored text for a content id",
		Long: `Print the text override stored for a content id.

Exits with status 1 when the id has no override; the page then shows its
compiled-in default.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGet(rootOpts, args[0], cmd)
		},
	}
}

func runGet(opts *RootOptions, id string, cmd *cobra.Command) error {
	f := newFormatter(opts, cmd)
	ws, err := openWorkspace(commandContext(cmd), opts, cmd)
	if err != nil {
		return failWorkspace(f, err)
	}
	defer ws.Close()

	text, ok := ws.text.Get(id)
	if !ok {
		return f.Fail(ExitFailure, ErrCodeNotFound, fmt.Sprintf("no stored text for %q", id), nil)
	}
	if f.Format == "json" {
		return f.Success(content.Entry{ID: id, Text: text})
	}
	return f.Success(text)
}

// NewSetCommand creates the set command.
func NewSetCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "set <content-id> <text>",
		Short: "Store a text override directly",
		Long: `Store a text override for a content id without an edit session.

The id does not need to exist in any page manifest. Use "edit" to go
through a page and its edit controller instead.

Example:
  atelier set hero-title "Jane Doe"`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSet(rootOpts, args[0], args[1], cmd)
		},
	}
}

func runSet(opts *RootOptions, id, text string, cmd *cobra.Command) error {
	f := newFormatter(opts, cmd)
	ctx := commandContext(cmd)
	ws, err := openWorkspace(ctx, opts, cmd)
	if err != nil {
		return failWorkspace(f, err)
	}
	defer ws.Close()

	if err := ws.text.Set(ctx, id, text); err != nil {
		return failEdit(f, err)
	}
	f.VerboseLog("stored %d bytes for %s", len(text), id)

	if f.Format == "json" {
		return f.Success(content.Entry{ID: id, Text: text})
	}
	return f.Success(fmt.Sprintf("✓ %s updated", id))
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "list",
		Short:         "List stored text overrides",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(rootOpts, cmd, func(ws *workspace) *content.Store { return ws.text })
		},
	}
}

func runList(opts *RootOptions, cmd *cobra.Command, pick func(*workspace) *content.Store) error {
	f := newFormatter(opts, cmd)
	ws, err := openWorkspace(commandContext(cmd), opts, cmd)
	if err != nil {
		return failWorkspace(f, err)
	}
	defer ws.Close()

	all := pick(ws).All()
	if f.Format == "json" {
		return f.Success(all)
	}

	keys := make([]string, 0, len(all))
	for k := range all {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	if len(keys) == 0 {
		fmt.Fprintln(f.Writer, "No overrides stored.")
		return nil
	}
	for _, k := range keys {
		fmt.Fprintf(f.Writer, "%s\t%s\n", k, all[k])
	}
	return nil
}
