package cli

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/atelier/internal/content"
	"github.com/roach88/atelier/internal/edit"
	"github.com/roach88/atelier/internal/page"
	"github.com/roach88/atelier/internal/store"
)

// workspace is the database plus both content namespaces, loaded.
type workspace struct {
	st     *store.Store
	text   *content.Store
	images *content.Store
	ids    edit.IDGenerator // nil keeps the controller's counter
	logger *slog.Logger
}

// newLogger returns a text logger on w, at debug level when verbose.
func newLogger(opts *RootOptions, w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if opts.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func openWorkspace(ctx context.Context, opts *RootOptions, cmd *cobra.Command) (*workspace, error) {
	logger := newLogger(opts, cmd.ErrOrStderr())

	logger.Debug("opening database", "path", opts.Database)
	st, err := store.Open(opts.Database)
	if err != nil {
		return nil, err
	}

	ws := &workspace{
		st:     st,
		text:   content.NewStore(st, content.NamespaceContent, content.WithLogger(logger)),
		images: content.NewStore(st, content.NamespaceImages, content.WithLogger(logger)),
		ids:    idGenerator(opts.IDs),
		logger: logger,
	}
	ws.text.Load(ctx)
	ws.images.Load(ctx)
	return ws, nil
}

// idGenerator maps an --ids value to a generator.
func idGenerator(scheme string) edit.IDGenerator {
	switch scheme {
	case "hash":
		return edit.HashIDs{}
	case "uuid7":
		return edit.UUIDv7IDs{}
	}
	return nil
}

func (w *workspace) Close() {
	if err := w.st.Close(); err != nil {
		w.logger.Error("error closing database", "error", err)
	}
}

func (w *workspace) namespace(ns string) (*content.Store, bool) {
	switch ns {
	case "content", string(content.NamespaceContent):
		return w.text, true
	case "images", string(content.NamespaceImages):
		return w.images, true
	}
	return nil, false
}

// controller returns an edit controller over the workspace stores that
// reports notifications to the log.
func (w *workspace) controller() *edit.Controller {
	opts := []edit.Option{
		edit.WithNotifier(edit.LogNotifier{Logger: w.logger}),
		edit.WithLogger(w.logger),
	}
	if w.ids != nil {
		opts = append(opts, edit.WithIDGenerator(w.ids))
	}
	return edit.New(w.text, w.images, opts...)
}

// openPage builds the page named by --page over the workspace stores and
// activates it.
func (w *workspace) openPage(ctx context.Context, path string) (*page.Page, page.ActivationReport, error) {
	if path == "" {
		return nil, page.ActivationReport{}, errNoPage
	}
	m, err := page.Load(path)
	if err != nil {
		return nil, page.ActivationReport{}, err
	}
	opts := []page.Option{
		page.WithLogger(w.logger),
		page.WithNotifier(edit.LogNotifier{Logger: w.logger}),
	}
	if w.ids != nil {
		opts = append(opts, page.WithIDGenerator(w.ids))
	}
	p, err := page.New(m, w.text, w.images, opts...)
	if err != nil {
		return nil, page.ActivationReport{}, err
	}
	report := p.Activate(ctx)
	return p, report, nil
}

var errNoPage = errors.New("--page is required")

// failWorkspace maps an openWorkspace error to an exit error.
func failWorkspace(f *OutputFormatter, err error) error {
	return f.Fail(ExitCommandError, ErrCodeStore, "failed to open database", err)
}

// failPage maps an openPage error to an exit error.
func failPage(f *OutputFormatter, err error) error {
	var me *page.ManifestError
	switch {
	case errors.Is(err, errNoPage):
		return f.Fail(ExitCommandError, ErrCodeGeneric, err.Error(), nil)
	case errors.As(err, &me):
		return f.Fail(ExitFailure, ErrCodeManifest, "invalid page manifest", err)
	default:
		return f.Fail(ExitCommandError, ErrCodeNotFound, "failed to load page", err)
	}
}

// failEdit maps controller and page errors to exit errors.
func failEdit(f *OutputFormatter, err error) error {
	switch {
	case errors.Is(err, page.ErrUnknownElement), errors.Is(err, page.ErrWrongKind):
		return f.Fail(ExitFailure, ErrCodeUnknownID, err.Error(), nil)
	case edit.HasCode(err, edit.ErrCodeInvalidImage):
		return f.Fail(ExitFailure, ErrCodeInvalidImage, "invalid image", err)
	case edit.HasCode(err, edit.ErrCodeNotReady):
		return f.Fail(ExitFailure, ErrCodeNotReady, "page not activated", err)
	case content.IsPersistError(err), errors.Is(err, content.ErrEmptyID):
		return f.Fail(ExitFailure, ErrCodeWriteFailed, "content not persisted", err)
	default:
		return f.Fail(ExitFailure, ErrCodeGeneric, "edit failed", err)
	}
}

func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}
}
