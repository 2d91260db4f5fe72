package edit

import (
	"html"
	"regexp"
	"sync"

	"github.com/roach88/atelier/internal/content"
)

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// fakeTarget is a minimal in-memory Target.
type fakeTarget struct {
	id        string
	path      string
	markup    string
	editable  bool
	focused   bool
	selectAll bool
}

func newFakeTarget(id, text string) *fakeTarget {
	return &fakeTarget{id: id, markup: html.EscapeString(text)}
}

func (f *fakeTarget) ContentID() string         { return f.id }
func (f *fakeTarget) SetContentID(id string)    { f.id = id }
func (f *fakeTarget) Text() string              { return html.UnescapeString(tagPattern.ReplaceAllString(f.markup, "")) }
func (f *fakeTarget) SetText(text string)       { f.markup = html.EscapeString(text) }
func (f *fakeTarget) Markup() string            { return f.markup }
func (f *fakeTarget) SetMarkup(markup string)   { f.markup = markup }
func (f *fakeTarget) SetEditable(editable bool) { f.editable = editable }
func (f *fakeTarget) Focus()                    { f.focused = true }
func (f *fakeTarget) SelectAll()                { f.selectAll = true }

// typeText simulates typing over the current selection.
func (f *fakeTarget) typeText(markup string) {
	if f.selectAll {
		f.markup = markup
		f.selectAll = false
		return
	}
	f.markup += markup
}

type pathTarget struct {
	*fakeTarget
}

func (p pathTarget) ContentPath() string { return p.path }

type recorder struct {
	mu    sync.Mutex
	notes []Notification
}

func (r *recorder) Notify(n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes = append(r.notes, n)
}

func (r *recorder) titles() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.notes))
	for i, n := range r.notes {
		out[i] = n.Title
	}
	return out
}

type fixture struct {
	backend *content.MemoryBackend
	text    *content.Store
	images  *content.Store
	notes   *recorder
}

func newFixture() *fixture {
	b := content.NewMemoryBackend()
	return &fixture{
		backend: b,
		text:    content.NewStore(b, content.NamespaceContent),
		images:  content.NewStore(b, content.NamespaceImages),
		notes:   &recorder{},
	}
}

func (f *fixture) controller(opts ...Option) *Controller {
	opts = append([]Option{WithNotifier(f.notes)}, opts...)
	return New(f.text, f.images, opts...)
}
