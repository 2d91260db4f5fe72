package cli

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/atelier/internal/server"
)

// EnvAdminToken supplies the admin token when --token is not given.
const EnvAdminToken = "ATELIER_ADMIN_TOKEN"

// ServeOptions holds flags for the serve command.
type ServeOptions struct {
	*RootOptions
	Addr  string
	Token string
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the content API for a page",
		Long: `Activate the page given by --page and serve it over HTTP.

Reads are public. Writes require the admin token in the X-Admin-Token
header; without a token the API is read-only.

Routes:
  GET  /api/page            page with overrides applied
  GET  /api/content         text overrides
  GET  /api/images          image overrides
  PUT  /api/content/{id}    edit a text element   {"text": "..."}
  PUT  /api/images/{id}     replace an image      {"url": "..."}
  POST /api/sections        acknowledge a new section {"type": "..."}
  POST /api/flush           retry unsaved writes`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Addr, "addr", "127.0.0.1:8080", "listen address")
	cmd.Flags().StringVar(&opts.Token, "token", os.Getenv(EnvAdminToken), "admin token (env "+EnvAdminToken+")")
	return cmd
}

func runServe(opts *ServeOptions, cmd *cobra.Command) error {
	f := newFormatter(opts.RootOptions, cmd)

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ws, err := openWorkspace(ctx, opts.RootOptions, cmd)
	if err != nil {
		return failWorkspace(f, err)
	}
	defer ws.Close()

	p, _, err := ws.openPage(ctx, opts.Page)
	if err != nil {
		return failPage(f, err)
	}

	level := slog.LevelInfo
	if opts.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	if opts.Token == "" {
		logger.Warn("no admin token set, serving read-only")
	}

	srv, err := server.New(server.Config{
		Page:      p,
		Text:      ws.text,
		Images:    ws.images,
		Authorize: server.TokenAuthorizer(opts.Token),
		Logger:    logger,
	})
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeGeneric, "failed to start server", err)
	}

	if err := srv.ListenAndServe(ctx, opts.Addr); err != nil {
		return f.Fail(ExitCommandError, ErrCodeGeneric, "server stopped", err)
	}

	// Writes that failed while serving get one last attempt.
	if err := p.Controller().Flush(commandContext(cmd)); err != nil {
		return failEdit(f, err)
	}
	return nil
}
