// Package content provides the persisted key-value stores behind editable
// page content.
//
// Two independent namespaces exist:
//   - Content: content id -> plain text
//   - Images: image key (stable id or previous URL) -> image URL
//
// Each namespace is a Store over a Backend. A Backend is a flat string
// key-value storage (SQLite in production, MemoryBackend in tests). The
// whole mapping of a namespace is written as one value on every change.
//
// # Persisted Layout
//
// Values are canonical JSON envelopes:
//
//	{"entries":{"hero-title":"Jane Doe"},"version":1}
//
// Keys are sorted by UTF-16 code units, strings are NFC normalized and
// HTML characters are not escaped, so identical mappings always produce
// identical bytes. A bare legacy object ({"hero-title":"Jane Doe"}) is
// accepted by Load and rewritten as an envelope on the next save.
//
// # Failure Model
//
// Load never fails: missing, corrupt or unsupported payloads yield an empty
// mapping. Writes that the backend rejects leave the in-memory mapping
// intact and mark the store dirty; the next successful write persists the
// pending state.
//
// # Hydration
//
// Registry maps ids to render callbacks registered when page elements are
// constructed. Hydrate applies a mapping to the registry; ids without a
// registered callback are skipped.
package content
