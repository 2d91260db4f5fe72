package cli

import (
	"fmt"
	"os"
	"slices"

	"github.com/spf13/cobra"
)

// EnvDatabase overrides the default database path.
const EnvDatabase = "ATELIER_DB"

// defaultDatabasePath is used when neither --db nor EnvDatabase is set.
const defaultDatabasePath = "atelier.db"

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose  bool
	Format   string // "json" | "text"
	Database string // SQLite path, ":memory:" allowed
	Page     string // page manifest (.yaml or .cue)
	IDs      string // id scheme for new content: "counter" | "hash" | "uuid7"
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// ValidIDSchemes defines the allowed --ids values.
var ValidIDSchemes = []string{"counter", "hash", "uuid7"}

// NewRootCommand creates the root command for the atelier CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "atelier",
		Short: "atelier - editable page content",
		Long: `Inspect and edit the content overrides of a page.

Text and image overrides live in a SQLite database, one namespace each,
and are applied on top of the defaults declared in a page manifest.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			if !slices.Contains(ValidIDSchemes, opts.IDs) {
				return fmt.Errorf("invalid id scheme %q: must be one of %v", opts.IDs, ValidIDSchemes)
			}
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Database, "db", defaultDatabase(), "path to SQLite database (env "+EnvDatabase+")")
	cmd.PersistentFlags().StringVar(&opts.Page, "page", "", "page manifest (.yaml, .yml or .cue)")
	cmd.PersistentFlags().StringVar(&opts.IDs, "ids", "counter", "id scheme for new content (counter|hash|uuid7)")

	cmd.AddCommand(NewGetCommand(opts))
	cmd.AddCommand(NewSetCommand(opts))
	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewNewCommand(opts))
	cmd.AddCommand(NewImageCommand(opts))
	cmd.AddCommand(NewExportCommand(opts))
	cmd.AddCommand(NewImportCommand(opts))
	cmd.AddCommand(NewResetCommand(opts))
	cmd.AddCommand(NewHistoryCommand(opts))
	cmd.AddCommand(NewEditCommand(opts))
	cmd.AddCommand(NewRenderCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))

	return cmd
}

func defaultDatabase() string {
	if v := os.Getenv(EnvDatabase); v != "" {
		return v
	}
	return defaultDatabasePath
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
