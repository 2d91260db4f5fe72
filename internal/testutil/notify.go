package testutil

import (
	"io"
	"log/slog"
	"sync"

	"github.com/roach88/atelier/internal/edit"
)

// RecordingNotifier keeps every notification it receives.
type RecordingNotifier struct {
	mu    sync.Mutex
	notes []edit.Notification
}

// Notify implements edit.Notifier.
func (r *RecordingNotifier) Notify(n edit.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes = append(r.notes, n)
}

// All returns a copy of the received notifications in order.
func (r *RecordingNotifier) All() []edit.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]edit.Notification(nil), r.notes...)
}

// Titles returns the titles of the received notifications in order.
func (r *RecordingNotifier) Titles() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	titles := make([]string, len(r.notes))
	for i, n := range r.notes {
		titles[i] = n.Title
	}
	return titles
}

// DiscardLogger returns a logger that drops everything.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
