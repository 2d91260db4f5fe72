package page

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/roach88/atelier/internal/content"
	"github.com/roach88/atelier/internal/edit"
)

var (
	// ErrUnknownElement is returned for ids the manifest does not define.
	ErrUnknownElement = errors.New("unknown element")

	// ErrWrongKind is returned when a text operation targets an image
	// element or the other way round.
	ErrWrongKind = errors.New("wrong element kind")
)

// Page is a composed set of editable elements bound to the content stores.
type Page struct {
	manifest *Manifest
	elements []*Element
	byID     map[string]*Element

	text     *content.Store
	images   *content.Store
	textReg  *content.Registry
	imageReg *content.Registry
	ctrl     *edit.Controller

	notifier edit.Notifier
	logger   *slog.Logger

	// editMu serializes scripted sessions so concurrent callers do not
	// force-commit each other.
	editMu sync.Mutex

	once   sync.Once
	ready  atomic.Bool
	report ActivationReport
}

type options struct {
	logger   *slog.Logger
	notifier edit.Notifier
	ids      edit.IDGenerator
}

// Option configures a Page.
type Option func(*options)

// WithLogger sets the logger for the page and its controller.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithNotifier sets the notification sink for the page and its controller.
func WithNotifier(n edit.Notifier) Option {
	return func(o *options) { o.notifier = n }
}

// WithIDGenerator overrides the controller's id generator.
func WithIDGenerator(g edit.IDGenerator) Option {
	return func(o *options) { o.ids = g }
}

// ActivationReport describes what Activate applied.
type ActivationReport struct {
	Text   content.HydrateReport
	Images content.HydrateReport
}

// New builds the page's elements from m and registers them.
// The page is not editable until Activate has run.
func New(m *Manifest, text, images *content.Store, opts ...Option) (*Page, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}

	o := options{
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		notifier: edit.NotifierFunc(func(edit.Notification) {}),
	}
	for _, opt := range opts {
		opt(&o)
	}

	p := &Page{
		manifest: m,
		byID:     make(map[string]*Element),
		text:     text,
		images:   images,
		textReg:  content.NewRegistry(),
		imageReg: content.NewRegistry(),
		notifier: o.notifier,
		logger:   o.logger,
	}

	for _, s := range m.Sections {
		for _, spec := range s.Elements {
			el := newElement(s.ID, spec)
			if err := p.register(el); err != nil {
				return nil, err
			}
			p.elements = append(p.elements, el)
			p.byID[el.id] = el
		}
	}

	ctrlOpts := []edit.Option{
		edit.WithGate(p.Ready),
		edit.WithNotifier(o.notifier),
		edit.WithLogger(o.logger),
		edit.WithImageRegistry(p.imageReg),
	}
	if o.ids != nil {
		ctrlOpts = append(ctrlOpts, edit.WithIDGenerator(o.ids))
	}
	p.ctrl = edit.New(text, images, ctrlOpts...)

	return p, nil
}

func (p *Page) register(el *Element) error {
	switch el.kind {
	case KindImage:
		return p.imageReg.Register(el.imageKey, el.setURL)
	default:
		return p.textReg.Register(el.id, el.SetText)
	}
}

// Activate loads both namespaces and hydrates the page, then opens the
// edit gate. Only the first call does any work; later calls return the
// first report.
func (p *Page) Activate(ctx context.Context) ActivationReport {
	p.once.Do(func() {
		textMap := p.text.Load(ctx)
		imageMap := p.images.Load(ctx)

		p.report = ActivationReport{
			Text:   p.textReg.Hydrate(textMap),
			Images: p.imageReg.Hydrate(imageMap),
		}
		p.ready.Store(true)

		p.logger.Info("page activated",
			"page", p.manifest.Name,
			"text_applied", len(p.report.Text.Applied),
			"text_missed", len(p.report.Text.Missed),
			"images_applied", len(p.report.Images.Applied),
		)
		if len(p.report.Text.Missed) > 0 {
			p.logger.Debug("saved content without elements", "ids", p.report.Text.Missed)
		}
	})
	return p.report
}

// Ready reports whether Activate has completed.
func (p *Page) Ready() bool {
	return p.ready.Load()
}

// Name returns the manifest name.
func (p *Page) Name() string { return p.manifest.Name }

// Controller returns the page's edit controller.
func (p *Page) Controller() *edit.Controller { return p.ctrl }

// Element returns the element with the given id.
func (p *Page) Element(id string) (*Element, bool) {
	el, ok := p.byID[id]
	return el, ok
}

// Elements returns all elements in manifest order.
func (p *Page) Elements() []*Element {
	return append([]*Element(nil), p.elements...)
}

// Edit runs a complete session on a text element: activate, replace the
// whole content with text, commit.
func (p *Page) Edit(ctx context.Context, id, text string, enabled bool) (content.Entry, error) {
	el, err := p.textElement(id)
	if err != nil {
		return content.Entry{}, err
	}

	p.editMu.Lock()
	defer p.editMu.Unlock()
	if err := p.ctrl.Activate(ctx, el, enabled); err != nil {
		return content.Entry{}, err
	}
	if s, active := p.ctrl.Active(); !active || s.Target != el {
		// ignored without capability
		return content.Entry{ID: id, Text: el.Text()}, nil
	}
	el.Type(EscapeText(text))
	return p.ctrl.Commit(ctx, el)
}

// ReplaceImage overrides the image shown by element id.
func (p *Page) ReplaceImage(ctx context.Context, id, url string, enabled bool) error {
	el, ok := p.byID[id]
	if !ok {
		return fmt.Errorf("%w %q", ErrUnknownElement, id)
	}
	if el.kind != KindImage {
		return fmt.Errorf("%w: %q is not an image", ErrWrongKind, id)
	}
	if !enabled {
		return nil
	}
	if !p.Ready() {
		return &edit.Error{Code: edit.ErrCodeNotReady, Message: "content not hydrated yet", ContentID: id}
	}
	return p.ctrl.SetImage(ctx, el.imageKey, url)
}

func (p *Page) textElement(id string) (*Element, error) {
	el, ok := p.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownElement, id)
	}
	if el.kind != KindText {
		return nil, fmt.Errorf("%w: %q is not text", ErrWrongKind, id)
	}
	return el, nil
}

// AddSection reports a request to add a section of the given type.
// Sections are defined by the manifest; the request is only acknowledged.
func (p *Page) AddSection(sectionType string, enabled bool) {
	if !enabled {
		return
	}
	p.notifier.Notify(edit.Notification{
		Level:       edit.LevelSuccess,
		Title:       "Section Added",
		Description: fmt.Sprintf("New %s section has been added.", sectionType),
		Duration:    edit.DefaultNotificationDuration,
	})
}

// Snapshot is the rendered state of a page.
type Snapshot struct {
	Name     string            `json:"name"`
	Sections []SectionSnapshot `json:"sections"`
}

// SectionSnapshot is the rendered state of one section.
type SectionSnapshot struct {
	ID       string            `json:"id"`
	Title    string            `json:"title,omitempty"`
	Elements []ElementSnapshot `json:"elements"`
}

// ElementSnapshot is the rendered state of one element.
type ElementSnapshot struct {
	ID         string `json:"id"`
	Kind       Kind   `json:"kind"`
	Text       string `json:"text,omitempty"`
	URL        string `json:"url,omitempty"`
	Overridden bool   `json:"overridden"`
}

// Snapshot returns the displayed values of every element.
func (p *Page) Snapshot() Snapshot {
	snap := Snapshot{Name: p.manifest.Name}
	for _, s := range p.manifest.Sections {
		ss := SectionSnapshot{ID: s.ID, Title: s.Title, Elements: []ElementSnapshot{}}
		for _, spec := range s.Elements {
			el := p.byID[spec.ID]
			es := ElementSnapshot{ID: spec.ID, Kind: el.kind}
			if el.kind == KindImage {
				es.URL = el.URL()
				es.Overridden = es.URL != el.defaultURL
			} else {
				es.Text = el.Text()
				es.Overridden = es.Text != el.defaultText
			}
			ss.Elements = append(ss.Elements, es)
		}
		snap.Sections = append(snap.Sections, ss)
	}
	return snap
}
