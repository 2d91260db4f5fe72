package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scenario is a scripted sequence of edit steps with expected results.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Page is the manifest path, relative to the scenario file.
	Page string `yaml:"page"`

	// Capability is the edit capability used by steps that do not set
	// enabled. Defaults to true.
	Capability *bool `yaml:"capability,omitempty"`

	// Deferred leaves the first page unactivated until a load step.
	Deferred bool `yaml:"deferred,omitempty"`

	// Seed is persisted before the page is built.
	Seed Seed `yaml:"seed,omitempty"`

	Steps      []Step      `yaml:"steps"`
	Assertions []Assertion `yaml:"assertions"`
}

// Seed is initial backend content.
type Seed struct {
	Content map[string]string `yaml:"content,omitempty"`
	Images  map[string]string `yaml:"images,omitempty"`

	// Raw writes payloads verbatim, keyed by namespace
	// ("content" or "images"). Used for legacy and corrupt data.
	Raw map[string]string `yaml:"raw,omitempty"`
}

// Step is one UI or environment action.
type Step struct {
	Action  string `yaml:"action"`
	Element string `yaml:"element,omitempty"`
	Text    string `yaml:"text,omitempty"`
	Key     string `yaml:"key,omitempty"`
	Shift   bool   `yaml:"shift,omitempty"`
	URL     string `yaml:"url,omitempty"`

	// Enabled overrides the scenario capability for this step.
	Enabled *bool `yaml:"enabled,omitempty"`

	// Expect is the required outcome ("ok", "ignored" or an error code).
	Expect string `yaml:"expect,omitempty"`
}

// Step actions.
const (
	StepActivate      = "activate"
	StepType          = "type"
	StepBackspace     = "backspace"
	StepKey           = "key"
	StepBlur          = "blur"
	StepSetImage      = "set_image"
	StepAddSection    = "add_section"
	StepLoad          = "load"
	StepReload        = "reload"
	StepFlush         = "flush"
	StepFailWrites    = "fail_writes"
	StepRestoreWrites = "restore_writes"
)

// Assertion validates the final state.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	Element   string `yaml:"element,omitempty"`
	Namespace string `yaml:"namespace,omitempty"`
	ID        string `yaml:"id,omitempty"`

	// Equals is the expected text or URL.
	Equals string `yaml:"equals,omitempty"`

	// Titles is the full expected notification sequence.
	Titles []string `yaml:"titles,omitempty"`

	// Action and Outcome filter trace_count; Count is the expected total.
	Action  string `yaml:"action,omitempty"`
	Outcome string `yaml:"outcome,omitempty"`
	Count   int    `yaml:"count,omitempty"`
}

// Assertion type constants.
const (
	AssertElementText   = "element_text"
	AssertElementURL    = "element_url"
	AssertStored        = "stored"
	AssertNotStored     = "not_stored"
	AssertNotifications = "notifications"
	AssertRevisions     = "revisions"
	AssertTraceCount    = "trace_count"
)

// Namespace names used in seeds and assertions.
const (
	NamespaceContent = "content"
	NamespaceImages  = "images"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
// The page path is resolved relative to the scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict fields catch typos like "assertion:" vs "assertions:".
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if scenario.Page != "" && !filepath.IsAbs(scenario.Page) {
		scenario.Page = filepath.Join(filepath.Dir(path), scenario.Page)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.Page == "" {
		return fmt.Errorf("page is required")
	}
	if _, err := os.Stat(s.Page); os.IsNotExist(err) {
		return fmt.Errorf("page manifest not found: %s", s.Page)
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}
	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for ns := range s.Seed.Raw {
		if !validNamespace(ns) {
			return fmt.Errorf("seed.raw: unknown namespace %q", ns)
		}
	}

	for i, step := range s.Steps {
		if err := validateStep(i, step); err != nil {
			return err
		}
	}
	for i, a := range s.Assertions {
		if err := validateAssertion(i, a); err != nil {
			return err
		}
	}
	return nil
}

func validateStep(index int, s Step) error {
	switch s.Action {
	case StepActivate, StepBackspace, StepBlur:
		if s.Element == "" {
			return fmt.Errorf("steps[%d]: element is required for %s", index, s.Action)
		}
	case StepType:
		if s.Element == "" {
			return fmt.Errorf("steps[%d]: element is required for type", index)
		}
	case StepKey:
		if s.Element == "" || s.Key == "" {
			return fmt.Errorf("steps[%d]: element and key are required for key", index)
		}
	case StepSetImage:
		if s.Element == "" {
			return fmt.Errorf("steps[%d]: element is required for set_image", index)
		}
	case StepAddSection:
		if s.Text == "" {
			return fmt.Errorf("steps[%d]: text (section type) is required for add_section", index)
		}
	case StepLoad, StepReload, StepFlush, StepFailWrites, StepRestoreWrites:
	case "":
		return fmt.Errorf("steps[%d]: action is required", index)
	default:
		return fmt.Errorf("steps[%d]: unknown action %q", index, s.Action)
	}
	return nil
}

func validateAssertion(index int, a Assertion) error {
	switch a.Type {
	case AssertElementText, AssertElementURL:
		if a.Element == "" {
			return fmt.Errorf("assertions[%d]: element is required for %s", index, a.Type)
		}
	case AssertStored, AssertNotStored:
		if !validNamespace(a.Namespace) {
			return fmt.Errorf("assertions[%d]: namespace must be content or images", index)
		}
		if a.ID == "" {
			return fmt.Errorf("assertions[%d]: id is required for %s", index, a.Type)
		}
	case AssertRevisions:
		if !validNamespace(a.Namespace) {
			return fmt.Errorf("assertions[%d]: namespace must be content or images", index)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative", index)
		}
	case AssertNotifications:
	case AssertTraceCount:
		if a.Action == "" {
			return fmt.Errorf("assertions[%d]: action is required for trace_count", index)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative", index)
		}
	case "":
		return fmt.Errorf("assertions[%d]: type is required", index)
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}

func validNamespace(ns string) bool {
	return ns == NamespaceContent || ns == NamespaceImages
}
