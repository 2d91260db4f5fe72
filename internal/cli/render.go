package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/atelier/internal/page"
)

// RenderResult is the JSON payload of the render command.
type RenderResult struct {
	Page   page.Snapshot `json:"page"`
	Missed []string      `json:"missed,omitempty"`
}

// NewRenderCommand creates the render command.
func NewRenderCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "render",
		Short: "Show the page with stored overrides applied",
		Long: `Activate the page given by --page and print what it displays.

Overridden elements are marked with '*'. Stored ids that no element uses
are listed with --verbose.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(rootOpts, cmd)
		},
	}
}

func runRender(opts *RootOptions, cmd *cobra.Command) error {
	f := newFormatter(opts, cmd)
	ctx := commandContext(cmd)
	ws, err := openWorkspace(ctx, opts, cmd)
	if err != nil {
		return failWorkspace(f, err)
	}
	defer ws.Close()

	p, report, err := ws.openPage(ctx, opts.Page)
	if err != nil {
		return failPage(f, err)
	}

	snap := p.Snapshot()
	missed := append(append([]string{}, report.Text.Missed...), report.Images.Missed...)

	if f.Format == "json" {
		return f.Success(RenderResult{Page: snap, Missed: missed})
	}

	w := f.Writer
	fmt.Fprintln(w, snap.Name)
	for _, s := range snap.Sections {
		fmt.Fprintln(w)
		if s.Title != "" {
			fmt.Fprintf(w, "[%s] %s\n", s.ID, s.Title)
		} else {
			fmt.Fprintf(w, "[%s]\n", s.ID)
		}
		for _, el := range s.Elements {
			mark := " "
			if el.Overridden {
				mark = "*"
			}
			value := el.Text
			if el.Kind == page.KindImage {
				value = el.URL
			}
			fmt.Fprintf(w, " %s %-20s %s\n", mark, el.ID, value)
		}
	}
	for _, id := range missed {
		f.VerboseLog("stored override %s matches no element", id)
	}
	return nil
}
