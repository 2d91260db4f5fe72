package edit

import (
	"context"
	"log/slog"
	"time"
)

// Level is the severity of a Notification.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// DefaultNotificationDuration is how long a toast stays visible.
const DefaultNotificationDuration = 2 * time.Second

// Notification is a best-effort, user-facing message.
type Notification struct {
	Level       Level
	Title       string
	Description string
	Duration    time.Duration
}

// Notifier receives notifications. Implementations must not block.
type Notifier interface {
	Notify(Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notification)

// Notify implements Notifier.
func (f NotifierFunc) Notify(n Notification) { f(n) }

// LogNotifier writes notifications to a slog.Logger.
type LogNotifier struct {
	Logger *slog.Logger
}

// Notify implements Notifier.
func (l LogNotifier) Notify(n Notification) {
	logger := l.Logger
	if logger == nil {
		logger = slog.Default()
	}
	level := slog.LevelInfo
	if n.Level == LevelError {
		level = slog.LevelWarn
	}
	logger.Log(context.Background(), level, n.Title, "description", n.Description)
}

func textUpdated() Notification {
	return Notification{
		Level:       LevelSuccess,
		Title:       "Text Updated",
		Description: "Your changes have been saved.",
		Duration:    DefaultNotificationDuration,
	}
}

func imageUpdated() Notification {
	return Notification{
		Level:       LevelSuccess,
		Title:       "Image Updated",
		Description: "The image has been successfully changed.",
		Duration:    DefaultNotificationDuration,
	}
}

func saveFailed(err error) Notification {
	return Notification{
		Level:       LevelError,
		Title:       "Save Failed",
		Description: "Your change is kept and will be saved with the next edit: " + err.Error(),
		Duration:    DefaultNotificationDuration,
	}
}

// notSaved reports a commit that could not be stored at all.
func notSaved(err error) Notification {
	return Notification{
		Level:       LevelError,
		Title:       "Save Failed",
		Description: "Your change could not be saved: " + err.Error(),
		Duration:    DefaultNotificationDuration,
	}
}
