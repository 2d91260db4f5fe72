package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/atelier/internal/content"
	"github.com/roach88/atelier/internal/edit"
)

// Export is the document written by export and read by import.
type Export struct {
	Version int               `json:"version"`
	Content map[string]string `json:"content"`
	Images  map[string]string `json:"images"`
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write all overrides as one JSON document",
		Long: `Write both namespaces as a single canonical JSON document.

The output is stable: keys are sorted and strings NFC-normalized, so two
exports of the same state are byte-identical.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(rootOpts, output, cmd)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write to file instead of stdout")
	return cmd
}

func runExport(opts *RootOptions, output string, cmd *cobra.Command) error {
	f := newFormatter(opts, cmd)
	ws, err := openWorkspace(commandContext(cmd), opts, cmd)
	if err != nil {
		return failWorkspace(f, err)
	}
	defer ws.Close()

	data := marshalExport(ws.text.All(), ws.images.All())

	if output == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(output, data, 0644); err != nil {
		return f.Fail(ExitCommandError, ErrCodeWriteFailed, "failed to write export", err)
	}
	f.VerboseLog("wrote %d text and %d image overrides to %s", ws.text.Len(), ws.images.Len(), output)
	return nil
}

// marshalExport builds the export document from canonical fragments so
// entry ordering matches the persisted form.
func marshalExport(text, images map[string]string) []byte {
	var buf bytes.Buffer
	buf.WriteString(`{"content":`)
	buf.Write(content.MarshalCanonicalMap(text))
	buf.WriteString(`,"images":`)
	buf.Write(content.MarshalCanonicalMap(images))
	fmt.Fprintf(&buf, `,"version":%d}`, content.FormatVersion)
	buf.WriteByte('\n')
	return buf.Bytes()
}

// NewImportCommand creates the import command.
func NewImportCommand(rootOpts *RootOptions) *cobra.Command {
	var merge bool

	cmd := &cobra.Command{
		Use:   "import <file|->",
		Short: "Load overrides from an export document",
		Long: `Load overrides from a document written by export.

By default each namespace is replaced wholesale. With --merge, imported
entries are added on top of the stored ones.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(rootOpts, args[0], merge, cmd)
		},
	}

	cmd.Flags().BoolVar(&merge, "merge", false, "merge into stored overrides instead of replacing them")
	return cmd
}

// ImportResult summarizes an import.
type ImportResult struct {
	Content int  `json:"content"`
	Images  int  `json:"images"`
	Merged  bool `json:"merged"`
}

func runImport(opts *RootOptions, path string, merge bool, cmd *cobra.Command) error {
	f := newFormatter(opts, cmd)

	var r io.Reader = cmd.InOrStdin()
	if path != "-" {
		file, err := os.Open(path)
		if err != nil {
			return f.Fail(ExitCommandError, ErrCodeNotFound, "failed to open import file", err)
		}
		defer file.Close()
		r = file
	}

	doc, err := decodeExport(r)
	if err != nil {
		return f.Fail(ExitFailure, ErrCodeInvalidInput, "invalid import document", err)
	}

	ctx := commandContext(cmd)
	ws, err := openWorkspace(ctx, opts, cmd)
	if err != nil {
		return failWorkspace(f, err)
	}
	defer ws.Close()

	text, images := doc.Content, doc.Images
	prevText := ws.text.All()
	if merge {
		text = mergeInto(ws.text.All(), text)
		images = mergeInto(ws.images.All(), images)
	}
	if err := ws.text.Save(ctx, text); err != nil {
		return failEdit(f, err)
	}
	if err := ws.images.Save(ctx, images); err != nil {
		if rerr := ws.text.Save(ctx, prevText); rerr != nil {
			ws.logger.Error("text overrides not restored after failed import", "error", rerr)
		}
		return failEdit(f, err)
	}

	result := ImportResult{Content: ws.text.Len(), Images: ws.images.Len(), Merged: merge}
	if f.Format == "json" {
		return f.Success(result)
	}
	return f.Success(fmt.Sprintf("✓ imported %d text and %d image overrides", result.Content, result.Images))
}

func decodeExport(r io.Reader) (Export, error) {
	var doc Export
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return Export{}, err
	}
	if doc.Version != content.FormatVersion {
		return Export{}, fmt.Errorf("unsupported version %d", doc.Version)
	}
	if doc.Content == nil {
		doc.Content = map[string]string{}
	}
	if doc.Images == nil {
		doc.Images = map[string]string{}
	}
	if err := validateExport(doc); err != nil {
		return Export{}, err
	}
	return doc, nil
}

// validateExport applies the checks an interactive edit would, so an
// import is rejected as a whole before anything is written.
func validateExport(doc Export) error {
	if _, ok := doc.Content[""]; ok {
		return fmt.Errorf("content: %w", content.ErrEmptyID)
	}
	keys := make([]string, 0, len(doc.Images))
	for k := range doc.Images {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		if k == "" {
			return fmt.Errorf("images: %w", content.ErrEmptyID)
		}
		if err := edit.ValidateImageURL(doc.Images[k]); err != nil {
			return fmt.Errorf("images[%q]: %w", k, err)
		}
	}
	return nil
}

func mergeInto(dst, src map[string]string) map[string]string {
	maps.Copy(dst, src)
	return dst
}

// NewResetCommand creates the reset command.
func NewResetCommand(rootOpts *RootOptions) *cobra.Command {
	var images bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Clear stored overrides",
		Long: `Clear the text overrides, so every element shows its default again.

With --images the image overrides are cleared as well.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReset(rootOpts, images, cmd)
		},
	}

	cmd.Flags().BoolVar(&images, "images", false, "also clear image overrides")
	return cmd
}

func runReset(opts *RootOptions, images bool, cmd *cobra.Command) error {
	f := newFormatter(opts, cmd)
	ctx := commandContext(cmd)
	ws, err := openWorkspace(ctx, opts, cmd)
	if err != nil {
		return failWorkspace(f, err)
	}
	defer ws.Close()

	cleared := []string{string(content.NamespaceContent)}
	if err := ws.text.Reset(ctx); err != nil {
		return failEdit(f, err)
	}
	if images {
		if err := ws.images.Reset(ctx); err != nil {
			return failEdit(f, err)
		}
		cleared = append(cleared, string(content.NamespaceImages))
	}

	if f.Format == "json" {
		return f.Success(map[string]any{"cleared": cleared})
	}
	for _, ns := range cleared {
		fmt.Fprintf(f.Writer, "✓ %s cleared\n", ns)
	}
	return nil
}
