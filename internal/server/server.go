package server

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/roach88/atelier/internal/content"
	"github.com/roach88/atelier/internal/page"
)

// AdminHeader carries the admin token checked by TokenAuthorizer.
const AdminHeader = "X-Admin-Token"

// PendingHeader is set to "true" on list responses while the namespace
// holds writes the backend has not accepted yet.
const PendingHeader = "X-Content-Pending"

// maxBodyBytes bounds write requests. Data URLs for replaced images are
// the largest legitimate payloads.
const maxBodyBytes = 8 << 20

// Authorizer reports whether a request may edit content.
type Authorizer func(r *http.Request) bool

// TokenAuthorizer accepts requests whose AdminHeader equals token.
// An empty token rejects everything.
func TokenAuthorizer(token string) Authorizer {
	return func(r *http.Request) bool {
		if token == "" {
			return false
		}
		got := r.Header.Get(AdminHeader)
		return subtle.ConstantTimeCompare([]byte(got), []byte(token)) == 1
	}
}

// Config holds what a Server needs.
type Config struct {
	Page      *page.Page
	Text      *content.Store
	Images    *content.Store
	Authorize Authorizer // nil = read-only
	Logger    *slog.Logger
}

// Server serves the content API.
type Server struct {
	page      *page.Page
	text      *content.Store
	images    *content.Store
	authorize Authorizer
	logger    *slog.Logger
	router    *chi.Mux
}

// New creates a Server. The page should be activated by the caller; until
// it is, snapshot and write routes answer 503.
func New(cfg Config) (*Server, error) {
	if cfg.Page == nil || cfg.Text == nil || cfg.Images == nil {
		return nil, errors.New("server: page and both stores are required")
	}
	s := &Server{
		page:      cfg.Page,
		text:      cfg.Text,
		images:    cfg.Images,
		authorize: cfg.Authorize,
		logger:    cfg.Logger,
	}
	if s.authorize == nil {
		s.authorize = func(*http.Request) bool { return false }
	}
	if s.logger == nil {
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/page", s.handlePage)
		r.Get("/content", s.handleListContent)
		r.Get("/images", s.handleListImages)

		r.Group(func(r chi.Router) {
			r.Use(s.requireAdmin)
			r.Put("/content/{id}", s.handlePutContent)
			r.Put("/images/{id}", s.handlePutImage)
			r.Post("/sections", s.handleAddSection)
			r.Post("/flush", s.handleFlush)
		})
	})
	return r
}

// Handler returns the HTTP handler for all routes.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("serving content api", "addr", addr, "page", s.page.Name())
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		s.logger.Info("content api stopped")
		return nil
	}
}

func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.authorize(r) {
			s.logger.Debug("write rejected without capability",
				"path", r.URL.Path, "request_id", middleware.GetReqID(r.Context()))
			jsonErr(w, "admin capability required", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}
