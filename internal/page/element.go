package page

import "sync"

// Element is the in-memory stand-in for a rendered page element.
//
// Text elements implement edit.Target. Image elements only render a
// URL. Element is safe for concurrent use.
type Element struct {
	mu sync.Mutex

	id      string
	section string
	path    string
	kind    Kind

	markup      string
	defaultText string
	editable    bool
	focused     bool
	selectedAll bool

	url        string
	defaultURL string
	imageKey   string
}

func newElement(section string, spec ElementSpec) *Element {
	e := &Element{
		id:      spec.ID,
		section: section,
		kind:    spec.EffectiveKind(),
	}
	switch e.kind {
	case KindImage:
		e.url = spec.URL
		e.defaultURL = spec.URL
		e.imageKey = spec.EffectiveImageKey()
	default:
		e.markup = EscapeText(spec.Text)
		e.defaultText = spec.Text
	}
	return e
}

// NewDraft returns a detached text element with no content id. Committing
// it through a controller assigns one, using path as the generator hint
// when set.
func NewDraft(path, text string) *Element {
	return &Element{
		path:        path,
		kind:        KindText,
		markup:      EscapeText(text),
		defaultText: text,
	}
}

// ContentID returns the element's content id.
func (e *Element) ContentID() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.id
}

// SetContentID assigns the element's content id.
func (e *Element) SetContentID(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.id = id
}

// ContentPath returns the draft path if one was given, otherwise
// "<section>/<id>". Elements without an id have no path.
func (e *Element) ContentPath() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	switch {
	case e.path != "":
		return e.path
	case e.id == "":
		return ""
	}
	return e.section + "/" + e.id
}

// Kind returns the element kind.
func (e *Element) Kind() Kind { return e.kind }

// Text returns the plain text currently displayed.
func (e *Element) Text() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return PlainText(e.markup)
}

// SetText displays text, escaping any markup characters.
func (e *Element) SetText(text string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.markup = EscapeText(text)
}

// Markup returns the raw displayed markup.
func (e *Element) Markup() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.markup
}

// SetMarkup replaces the raw displayed markup.
func (e *Element) SetMarkup(markup string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.markup = markup
}

// SetEditable toggles direct editing. Leaving edit mode drops focus and
// selection.
func (e *Element) SetEditable(editable bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.editable = editable
	if !editable {
		e.focused = false
		e.selectedAll = false
	}
}

// Editable reports whether the element is in edit mode.
func (e *Element) Editable() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.editable
}

// Focus gives the element input focus.
func (e *Element) Focus() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.focused = true
}

// Focused reports whether the element has input focus.
func (e *Element) Focused() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.focused
}

// SelectAll selects the entire content.
func (e *Element) SelectAll() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.selectedAll = true
}

// SelectedAll reports whether the entire content is selected.
func (e *Element) SelectedAll() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.selectedAll
}

// Type inserts markup the way a keystroke sequence would: it replaces the
// selection when everything is selected and appends otherwise. Typing
// into an element that is not editable has no effect.
func (e *Element) Type(markup string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.editable {
		return
	}
	if e.selectedAll {
		e.markup = markup
		e.selectedAll = false
		return
	}
	e.markup += markup
}

// Backspace deletes the selection, or the last character when nothing
// is selected.
func (e *Element) Backspace() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.editable {
		return
	}
	if e.selectedAll {
		e.markup = ""
		e.selectedAll = false
		return
	}
	if e.markup == "" {
		return
	}
	runes := []rune(e.markup)
	e.markup = string(runes[:len(runes)-1])
}

// URL returns the displayed image URL.
func (e *Element) URL() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.url
}

func (e *Element) setURL(url string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.url = url
}

// DefaultURL returns the compiled-in image URL.
func (e *Element) DefaultURL() string { return e.defaultURL }

// ImageKey returns the image store key.
func (e *Element) ImageKey() string { return e.imageKey }
