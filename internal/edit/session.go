package edit

// Target is a text-bearing element that can be edited in place.
//
// Markup is what the element currently renders (it may contain tags typed
// during a session); Text is its plain-text form.
type Target interface {
	ContentID() string
	SetContentID(id string)

	Text() string
	SetText(text string)
	Markup() string
	SetMarkup(markup string)

	SetEditable(editable bool)
	Focus()
	// SelectAll selects the element's entire content so the next
	// keystroke replaces it.
	SelectAll()
}

// ContentPather is implemented by targets that know their position in
// the page, e.g. "about/paragraph/2". HashIDs derives ids from it.
type ContentPather interface {
	ContentPath() string
}

// Session is a snapshot of the active edit.
type Session struct {
	Target    Target
	ContentID string
	Original  string // markup captured at activation
}

// Key identifies a key press relevant to a session.
type Key string

const (
	KeyEnter  Key = "Enter"
	KeyEscape Key = "Escape"
)

// EventKind is the kind of UI event fed to Dispatch.
type EventKind string

const (
	// EventDoubleActivate starts a session (a double click on the element).
	EventDoubleActivate EventKind = "double_activate"
	// EventKey is a key press inside the element.
	EventKey EventKind = "key"
	// EventBlur is the element losing focus.
	EventBlur EventKind = "blur"
)

// Event is a discrete UI event addressed to a target.
type Event struct {
	Kind  EventKind
	Key   Key
	Shift bool
	// Enabled is the edit capability, read only by EventDoubleActivate.
	Enabled bool
}
