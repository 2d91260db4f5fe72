package content

// Namespace is the backend key a Store persists its mapping under.
type Namespace string

const (
	// NamespaceContent holds text overrides keyed by content id.
	NamespaceContent Namespace = "portfolio.content"

	// NamespaceImages holds image URL overrides keyed by image key.
	NamespaceImages Namespace = "portfolio.images"
)

// FormatVersion is the envelope version written by Save.
// Version 0 is the legacy bare object layout, accepted on load only.
const FormatVersion = 1

// Entry is a single text override.
type Entry struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// ImageEntry is a single image override. Key is either a caller-assigned
// id or the URL of the image being replaced.
type ImageEntry struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// Envelope is the decoded form of a persisted namespace value.
type Envelope struct {
	Version int               `json:"version"`
	Entries map[string]string `json:"entries"`
}
