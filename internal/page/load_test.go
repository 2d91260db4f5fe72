package page

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_YAMLAndCUEAgree(t *testing.T) {
	fromYAML, err := Load(filepath.Join("testdata", "portfolio.yaml"))
	require.NoError(t, err)
	fromCUE, err := Load(filepath.Join("testdata", "portfolio.cue"))
	require.NoError(t, err)

	assert.Equal(t, fromYAML, fromCUE)
	assert.Equal(t, "portfolio", fromYAML.Name)
	require.Len(t, fromYAML.Sections, 3)
	assert.Equal(t, "Arshma Batool", fromYAML.Sections[0].Elements[0].Text)
	assert.Equal(t, KindImage, fromYAML.Sections[1].Elements[1].Kind)
}

func TestLoad_UnknownYAMLField(t *testing.T) {
	_, err := Load(filepath.Join("testdata", "unknown_field.yaml"))
	require.Error(t, err)

	var me *ManifestError
	require.True(t, errors.As(err, &me))
	assert.Equal(t, "yaml", me.Field)
	assert.Contains(t, me.Message, "element")
}

func TestLoad_CUESchemaViolation(t *testing.T) {
	_, err := Load(filepath.Join("testdata", "bad_kind.cue"))
	require.Error(t, err)

	var me *ManifestError
	require.True(t, errors.As(err, &me))
	assert.Equal(t, "cue", me.Field)
}

func TestLoad_UnsupportedExtension(t *testing.T) {
	_, err := Load(filepath.Join("testdata", "portfolio.json"))
	require.Error(t, err)
}

func TestParseYAML_Validation(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "missing name",
			yaml:    "sections: [{id: hero, elements: []}]",
			wantErr: "name is required",
		},
		{
			name:    "no sections",
			yaml:    "name: p",
			wantErr: "at least one section",
		},
		{
			name:    "duplicate section",
			yaml:    "name: p\nsections: [{id: a, elements: []}, {id: a, elements: []}]",
			wantErr: `duplicate section id "a"`,
		},
		{
			name:    "duplicate element across sections",
			yaml:    "name: p\nsections: [{id: a, elements: [{id: x}]}, {id: b, elements: [{id: x}]}]",
			wantErr: `duplicate element id "x"`,
		},
		{
			name:    "image without url",
			yaml:    "name: p\nsections: [{id: a, elements: [{id: x, kind: image}]}]",
			wantErr: "need a default url",
		},
		{
			name:    "text with url",
			yaml:    "name: p\nsections: [{id: a, elements: [{id: x, url: 'https://a/b.png'}]}]",
			wantErr: "text elements cannot have url",
		},
		{
			name:    "shared image url without key",
			yaml:    "name: p\nsections: [{id: a, elements: [{id: x, kind: image, url: 'https://a/b.png'}, {id: y, kind: image, url: 'https://a/b.png'}]}]",
			wantErr: "already used by",
		},
		{
			name:    "unknown kind",
			yaml:    "name: p\nsections: [{id: a, elements: [{id: x, kind: video}]}]",
			wantErr: `unknown kind "video"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseYAML([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
