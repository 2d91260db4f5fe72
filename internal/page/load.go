package page

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"gopkg.in/yaml.v3"
)

//go:embed schema.cue
var schemaCUE string

// Load reads a manifest file, choosing the format by extension
// (.yaml, .yml or .cue), and validates it.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseYAML(data)
	case ".cue":
		return ParseCUE(data, filepath.Base(path))
	default:
		return nil, &ManifestError{Field: "file", Message: fmt.Sprintf("unsupported manifest extension %q", filepath.Ext(path))}
	}
}

// ParseYAML decodes and validates a YAML manifest.
// Unknown fields are rejected to catch typos such as "element:".
func ParseYAML(data []byte) (*Manifest, error) {
	var m Manifest
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&m); err != nil {
		return nil, &ManifestError{Field: "yaml", Message: err.Error()}
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// ParseCUE evaluates a CUE manifest against the embedded schema and
// decodes its "page" value. filename is used in error positions.
func ParseCUE(data []byte, filename string) (*Manifest, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("compile manifest schema: %w", err)
	}

	v := ctx.CompileBytes(data, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	unified := schema.Unify(v)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError(err)
	}

	pv := unified.LookupPath(cue.ParsePath("page"))
	if !pv.Exists() {
		return nil, &ManifestError{Field: "page", Message: "page is required", Pos: v.Pos()}
	}

	var m Manifest
	if err := pv.Decode(&m); err != nil {
		return nil, formatCUEError(err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return &ManifestError{Field: "cue", Message: err.Error()}
	}

	first := errs[0]
	me := &ManifestError{Field: "cue", Message: first.Error()}
	if positions := errors.Positions(first); len(positions) > 0 {
		me.Pos = positions[0]
	}
	return me
}
