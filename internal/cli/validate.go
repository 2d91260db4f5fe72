package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/atelier/internal/page"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid    bool   `json:"valid"`
	Name     string `json:"name,omitempty"`
	Sections int    `json:"sections,omitempty"`
	Elements int    `json:"elements,omitempty"`
	Field    string `json:"field,omitempty"`
	Line     int    `json:"line,omitempty"`
	Message  string `json:"message,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [manifest]",
		Short: "Validate a page manifest",
		Long: `Validate a page manifest without touching the database.

Checks syntax, the manifest schema, unique element ids and image keys.
Without an argument the manifest given by --page is validated.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			path := rootOpts.Page
			if len(args) == 1 {
				path = args[0]
			}
			return runValidate(rootOpts, path, cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	f := newFormatter(opts, cmd)
	if path == "" {
		return f.Fail(ExitCommandError, ErrCodeGeneric, "a manifest path or --page is required", nil)
	}

	f.VerboseLog("Validating %s", path)
	m, err := page.Load(path)
	if err != nil {
		var me *page.ManifestError
		if !errors.As(err, &me) {
			return f.Fail(ExitCommandError, ErrCodeNotFound, "failed to read manifest", err)
		}
		return outputValidationError(f, me)
	}

	result := ValidationResult{Valid: true, Name: m.Name, Sections: len(m.Sections)}
	for _, s := range m.Sections {
		result.Elements += len(s.Elements)
	}

	if f.Format == "json" {
		return f.Success(result)
	}
	fmt.Fprintf(f.Writer, "✓ Manifest valid (%d sections, %d elements)\n", result.Sections, result.Elements)
	return nil
}

// outputValidationError reports a manifest error.
func outputValidationError(f *OutputFormatter, me *page.ManifestError) error {
	result := ValidationResult{Field: me.Field, Message: me.Message}
	if me.Pos.IsValid() {
		result.Line = me.Pos.Line()
	}

	if f.Format == "json" {
		if err := writeJSONResponse(f.Writer, CLIResponse{
			Status: "error",
			Data:   result,
			Error:  &CLIError{Code: ErrCodeManifest, Message: me.Message},
		}); err != nil {
			return err
		}
		// Validation failures = exit code 1
		return WrapExitError(ExitFailure, "manifest invalid", me)
	}

	fmt.Fprintln(f.Writer, "✗ Validation failed")
	fmt.Fprintln(f.Writer)
	if result.Line > 0 {
		fmt.Fprintf(f.Writer, "line %d\n", result.Line)
	}
	fmt.Fprintf(f.Writer, "  %s: %s: %s\n", ErrCodeManifest, me.Field, me.Message)

	return WrapExitError(ExitFailure, "manifest invalid", me)
}
