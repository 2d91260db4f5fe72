package edit

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"
	"sync"

	"github.com/roach88/atelier/internal/content"
)

// maxIDAttempts bounds how many generated ids may collide with existing
// store entries before Commit gives up.
const maxIDAttempts = 16

// Controller runs edit sessions against a text store and an image store.
//
// All methods are safe for concurrent use; sessions are serialized by an
// internal mutex. Notifier callbacks run while that mutex is held.
type Controller struct {
	mu       sync.Mutex
	text     *content.Store
	images   *content.Store
	imageReg *content.Registry
	ids      IDGenerator
	notifier Notifier
	logger   *slog.Logger
	gate     func() bool
	session  *Session
}

// Option configures a Controller.
type Option func(*Controller)

// WithNotifier sets the notification sink. Default: discard.
func WithNotifier(n Notifier) Option {
	return func(c *Controller) {
		if n != nil {
			c.notifier = n
		}
	}
}

// WithIDGenerator sets the id generator for targets without an id.
// Default: CounterIDs seeded from the text store's current keys.
func WithIDGenerator(g IDGenerator) Option {
	return func(c *Controller) {
		if g != nil {
			c.ids = g
		}
	}
}

// WithLogger sets the controller's logger. Default: discard.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithGate refuses activation while ready returns false.
func WithGate(ready func() bool) Option {
	return func(c *Controller) {
		c.gate = ready
	}
}

// WithImageRegistry re-renders image elements after SetImage.
func WithImageRegistry(r *content.Registry) Option {
	return func(c *Controller) {
		c.imageReg = r
	}
}

// New creates a Controller. images may be nil when the page has no
// replaceable images; SetImage then fails.
func New(text, images *content.Store, opts ...Option) *Controller {
	c := &Controller{
		text:     text,
		images:   images,
		notifier: NotifierFunc(func(Notification) {}),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.ids == nil {
		keys := make([]string, 0, text.Len())
		for k := range text.All() {
			keys = append(keys, k)
		}
		c.ids = NewCounterIDs(keys...)
	}
	return c
}

// Active returns the current session, if any.
func (c *Controller) Active() (Session, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return Session{}, false
	}
	return *c.session, true
}

// Activate starts a session on target.
//
// Without the edit capability the call is ignored and returns nil. Before
// the gate opens it returns a NOT_READY error. A different active session
// is force-committed first; activating the current target again is a
// no-op.
func (c *Controller) Activate(ctx context.Context, target Target, enabled bool) error {
	if target == nil {
		return ErrNilTarget
	}
	if !enabled {
		c.logger.Debug("edit ignored without capability", "id", target.ContentID())
		return nil
	}
	if c.gate != nil && !c.gate() {
		return newNotReadyError(target.ContentID())
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session != nil {
		if c.session.Target == target {
			return nil
		}
		prev := c.session.Target
		c.logger.Debug("force-committing previous session", "id", prev.ContentID())
		if _, err := c.commitLocked(ctx, prev); err != nil {
			// The value is retained in memory; keep going with the new session.
			c.logger.Warn("force-commit not persisted", "id", prev.ContentID(), "error", err)
		}
	}

	c.session = &Session{
		Target:    target,
		ContentID: target.ContentID(),
		Original:  target.Markup(),
	}
	target.SetEditable(true)
	target.Focus()
	target.SelectAll()

	c.logger.Debug("edit session started", "id", target.ContentID())
	return nil
}

// Commit ends the session on target and stores its plain text.
//
// A target without a content id is assigned one. A *content.PersistError
// is returned (after a failure notification) when the store could not
// write; the session is still over and the store keeps the value.
func (c *Controller) Commit(ctx context.Context, target Target) (content.Entry, error) {
	if target == nil {
		return content.Entry{}, ErrNilTarget
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session == nil || c.session.Target != target {
		return content.Entry{}, newNoSessionError(target.ContentID())
	}
	return c.commitLocked(ctx, target)
}

func (c *Controller) commitLocked(ctx context.Context, target Target) (content.Entry, error) {
	text := target.Text()
	target.SetText(text)
	target.SetEditable(false)
	c.session = nil

	id := target.ContentID()
	if id == "" {
		assigned, err := c.assignIDLocked(target, text)
		if err != nil {
			c.notifier.Notify(notSaved(err))
			c.logger.Warn("text commit dropped, no content id", "error", err)
			return content.Entry{Text: text}, err
		}
		id = assigned
		target.SetContentID(id)
	}

	entry := content.Entry{ID: id, Text: text}
	if err := c.text.Set(ctx, id, text); err != nil {
		c.notifier.Notify(saveFailed(err))
		c.logger.Warn("text commit not persisted", "id", id, "error", err)
		return entry, err
	}

	c.notifier.Notify(textUpdated())
	c.logger.Info("text committed", "id", id, "len", len(text))
	return entry, nil
}

func (c *Controller) assignIDLocked(target Target, text string) (string, error) {
	hint := text
	if p, ok := target.(ContentPather); ok && p.ContentPath() != "" {
		hint = p.ContentPath()
	}

	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		h := hint
		if attempt > 0 {
			h = fmt.Sprintf("%s#%d", hint, attempt)
		}
		id := c.ids.Generate(h)
		if id == "" {
			continue
		}
		if _, taken := c.text.Get(id); !taken {
			return id, nil
		}
	}
	return "", &Error{
		Code:    ErrCodeIDExhausted,
		Message: fmt.Sprintf("no free content id after %d attempts", maxIDAttempts),
	}
}

// Cancel ends the session on target, restores the markup captured at
// activation and writes nothing.
func (c *Controller) Cancel(target Target) error {
	if target == nil {
		return ErrNilTarget
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session == nil || c.session.Target != target {
		return newNoSessionError(target.ContentID())
	}
	target.SetMarkup(c.session.Original)
	target.SetEditable(false)
	c.session = nil

	c.logger.Debug("edit session cancelled", "id", target.ContentID())
	return nil
}

// Dispatch routes a UI event to the matching operation.
//
// Key and blur events for a target without a session are ignored, the
// same way a detached listener would never fire.
func (c *Controller) Dispatch(ctx context.Context, target Target, ev Event) error {
	switch ev.Kind {
	case EventDoubleActivate:
		return c.Activate(ctx, target, ev.Enabled)
	case EventBlur:
		if !c.isActive(target) {
			return nil
		}
		_, err := c.Commit(ctx, target)
		return err
	case EventKey:
		if !c.isActive(target) {
			return nil
		}
		switch {
		case ev.Key == KeyEnter && !ev.Shift:
			_, err := c.Commit(ctx, target)
			return err
		case ev.Key == KeyEscape:
			return c.Cancel(target)
		}
		return nil
	default:
		return fmt.Errorf("unknown event kind %q", ev.Kind)
	}
}

func (c *Controller) isActive(target Target) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session != nil && c.session.Target == target
}

// SetImage stores url as the override for an image key and re-renders the
// registered image element.
//
// key is the image's stable id, or its previous URL when it has none.
// url must be http(s) or a data:image URL.
func (c *Controller) SetImage(ctx context.Context, key, rawURL string) error {
	if c.images == nil {
		return newInvalidImageError(key, "no image store configured")
	}
	if key == "" {
		return newInvalidImageError(key, "image key is required")
	}
	if err := ValidateImageURL(rawURL); err != nil {
		return newInvalidImageError(key, err.Error())
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	err := c.images.Set(ctx, key, rawURL)
	if c.imageReg != nil {
		c.imageReg.Apply(key, rawURL)
	}
	if err != nil {
		c.notifier.Notify(saveFailed(err))
		c.logger.Warn("image override not persisted", "key", key, "error", err)
		return err
	}

	c.notifier.Notify(imageUpdated())
	c.logger.Info("image replaced", "key", key)
	return nil
}

// Flush retries pending writes on both stores.
func (c *Controller) Flush(ctx context.Context) error {
	var errs []error
	if err := c.text.Flush(ctx); err != nil {
		errs = append(errs, err)
	}
	if c.images != nil {
		if err := c.images.Flush(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// ValidateImageURL accepts absolute http(s) URLs and data:image URLs.
func ValidateImageURL(raw string) error {
	if raw == "" {
		return errors.New("image url is required")
	}
	if strings.HasPrefix(raw, "data:") {
		if !strings.HasPrefix(raw, "data:image/") {
			return errors.New("data url is not an image")
		}
		if !strings.Contains(raw, ",") {
			return errors.New("data url has no payload")
		}
		return nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("parse image url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported image url scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return errors.New("image url has no host")
	}
	return nil
}
