// Package harness replays scripted edit sessions against a page.
//
// A scenario names a page manifest, optional persisted seed data, a list
// of UI steps and assertions on the final state:
//
//	name: hero_title_edit
//	description: "Double click, retype, press Enter, reload"
//	page: ../pages/portfolio.yaml
//	seed:
//	  content: { hero-subtitle: "Illustrator" }
//	steps:
//	  - action: activate
//	    element: hero-title
//	  - action: type
//	    element: hero-title
//	    text: Jane Doe
//	  - action: key
//	    element: hero-title
//	    key: Enter
//	  - action: reload
//	assertions:
//	  - type: element_text
//	    element: hero-title
//	    equals: Jane Doe
//	  - type: stored
//	    namespace: content
//	    id: hero-title
//	    equals: Jane Doe
//
// # Steps
//
//   - activate: double activation of a text element
//   - type, backspace: keystrokes into the element
//   - key: a key press (Enter, Escape, ...), optionally with shift
//   - blur: the element loses focus
//   - set_image: replace an image element's URL
//   - add_section: request a new section of type text
//   - load: activate a page built with deferred: true
//   - reload: discard the page and activate a fresh one
//   - flush: retry pending writes
//   - fail_writes, restore_writes: toggle backend write failures
//
// Every step records a trace event with its outcome: "ok", "ignored", or
// an error code such as NOT_READY or PERSIST_FAILED. A step with an
// expect field must produce exactly that outcome; without one, error
// outcomes fail the scenario.
//
// # Determinism
//
// Each run uses a fresh in-memory SQLite store, a deterministic clock for
// trace sequence numbers and generated ids, and no wall-clock time, so
// the trace and persisted state are stable enough for golden files.
package harness
