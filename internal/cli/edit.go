package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/atelier/internal/content"
)

// EditOptions holds flags for the edit command.
type EditOptions struct {
	*RootOptions
	Image bool // treat the value as an image url
}

// NewEditCommand creates the edit command.
func NewEditCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &EditOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "edit <element-id> <value>",
		Short: "Edit a page element through an edit session",
		Long: `Edit one element of the page given by --page.

The page is activated first, so stored overrides are applied. A text edit
then runs a full session on the element: select everything, type the new
value, commit. The result is stored under the element's content id.

Examples:
  atelier --page site.yaml edit hero-title "Jane Doe"
  atelier --page site.yaml edit --image about-portrait https://cdn.example.com/me.jpg`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEdit(opts, args[0], args[1], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Image, "image", false, "replace the image shown by an image element")
	return cmd
}

func runEdit(opts *EditOptions, id, value string, cmd *cobra.Command) error {
	f := newFormatter(opts.RootOptions, cmd)
	ctx := commandContext(cmd)
	ws, err := openWorkspace(ctx, opts.RootOptions, cmd)
	if err != nil {
		return failWorkspace(f, err)
	}
	defer ws.Close()

	p, _, err := ws.openPage(ctx, opts.Page)
	if err != nil {
		return failPage(f, err)
	}

	if opts.Image {
		if err := p.ReplaceImage(ctx, id, value, true); err != nil {
			return failEdit(f, err)
		}
		el, _ := p.Element(id)
		if f.Format == "json" {
			return f.Success(content.ImageEntry{Key: el.ImageKey(), URL: el.URL()})
		}
		return f.Success(fmt.Sprintf("✓ %s now shows %s", id, el.URL()))
	}

	entry, err := p.Edit(ctx, id, value, true)
	if err != nil {
		return failEdit(f, err)
	}
	f.VerboseLog("committed %s as %q", entry.ID, entry.Text)

	if f.Format == "json" {
		return f.Success(entry)
	}
	return f.Success(fmt.Sprintf("✓ %s updated", entry.ID))
}
