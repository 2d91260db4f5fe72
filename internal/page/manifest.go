package page

import (
	"fmt"

	"cuelang.org/go/cue/token"
)

// Kind is the kind of a page element.
type Kind string

const (
	KindText  Kind = "text"
	KindImage Kind = "image"
)

// Manifest describes a page's editable content.
type Manifest struct {
	Name     string    `yaml:"name" json:"name"`
	Sections []Section `yaml:"sections" json:"sections"`
}

// Section groups elements, e.g. "hero" or "about".
type Section struct {
	ID       string        `yaml:"id" json:"id"`
	Title    string        `yaml:"title,omitempty" json:"title,omitempty"`
	Elements []ElementSpec `yaml:"elements" json:"elements"`
}

// ElementSpec is one editable element with its compiled-in default.
type ElementSpec struct {
	ID   string `yaml:"id" json:"id"`
	Kind Kind   `yaml:"kind,omitempty" json:"kind,omitempty"`

	// Text is the default text of a text element.
	Text string `yaml:"text,omitempty" json:"text,omitempty"`

	// URL is the default source of an image element.
	URL string `yaml:"url,omitempty" json:"url,omitempty"`

	// ImageKey is the image store key. When empty the default URL is the
	// key, so two images sharing a default URL share their override.
	ImageKey string `yaml:"image_key,omitempty" json:"image_key,omitempty"`
}

// EffectiveKind returns the element kind, defaulting to text.
func (e ElementSpec) EffectiveKind() Kind {
	if e.Kind == "" {
		return KindText
	}
	return e.Kind
}

// EffectiveImageKey returns the image store key of an image element.
func (e ElementSpec) EffectiveImageKey() string {
	if e.ImageKey != "" {
		return e.ImageKey
	}
	return e.URL
}

// ManifestError reports an invalid manifest.
type ManifestError struct {
	Field   string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *ManifestError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks structural rules that hold for both YAML and CUE
// manifests: ids are present and unique per page, kinds are known, image
// elements have a source.
func (m *Manifest) Validate() error {
	if m.Name == "" {
		return &ManifestError{Field: "name", Message: "name is required"}
	}
	if len(m.Sections) == 0 {
		return &ManifestError{Field: "sections", Message: "at least one section is required"}
	}

	sections := make(map[string]bool)
	ids := make(map[string]string)
	imageKeys := make(map[string]string)

	for si, s := range m.Sections {
		field := fmt.Sprintf("sections[%d]", si)
		if s.ID == "" {
			return &ManifestError{Field: field + ".id", Message: "section id is required"}
		}
		if sections[s.ID] {
			return &ManifestError{Field: field + ".id", Message: fmt.Sprintf("duplicate section id %q", s.ID)}
		}
		sections[s.ID] = true

		for ei, e := range s.Elements {
			efield := fmt.Sprintf("%s.elements[%d]", field, ei)
			if e.ID == "" {
				return &ManifestError{Field: efield + ".id", Message: "element id is required"}
			}
			if prev, dup := ids[e.ID]; dup {
				return &ManifestError{Field: efield + ".id", Message: fmt.Sprintf("duplicate element id %q (first used in section %q)", e.ID, prev)}
			}
			ids[e.ID] = s.ID

			switch e.EffectiveKind() {
			case KindText:
				if e.URL != "" || e.ImageKey != "" {
					return &ManifestError{Field: efield, Message: "text elements cannot have url or image_key"}
				}
			case KindImage:
				if e.URL == "" {
					return &ManifestError{Field: efield + ".url", Message: "image elements need a default url"}
				}
				key := e.EffectiveImageKey()
				if prev, dup := imageKeys[key]; dup {
					return &ManifestError{Field: efield, Message: fmt.Sprintf("image key %q already used by %q; set image_key", key, prev)}
				}
				imageKeys[key] = e.ID
			default:
				return &ManifestError{Field: efield + ".kind", Message: fmt.Sprintf("unknown kind %q", e.Kind)}
			}
		}
	}
	return nil
}
