package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadScenario_ResolvesPageRelativeToFile(t *testing.T) {
	scenario, err := LoadScenario(scenarioPath("hero_title_edit"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("testdata", "pages", "portfolio.yaml"), scenario.Page)
	assert.Len(t, scenario.Steps, 4)
	assert.Equal(t, "Enter", scenario.Steps[2].Key)
}

func TestLoadScenario_NotFound(t *testing.T) {
	_, err := LoadScenario("testdata/scenarios/does_not_exist.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestLoadScenario_Invalid(t *testing.T) {
	page, err := filepath.Abs(filepath.Join("testdata", "pages", "portfolio.yaml"))
	require.NoError(t, err)

	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "unknown field",
			yaml:    "name: x\ndescription: d\npage: " + page + "\nstep: []\n",
			wantErr: "failed to parse YAML",
		},
		{
			name:    "missing name",
			yaml:    "description: d\npage: " + page + "\nsteps: [{action: load}]\nassertions: [{type: notifications}]\n",
			wantErr: "name is required",
		},
		{
			name:    "missing page file",
			yaml:    "name: x\ndescription: d\npage: nowhere.yaml\nsteps: [{action: load}]\nassertions: [{type: notifications}]\n",
			wantErr: "page manifest not found",
		},
		{
			name:    "no steps",
			yaml:    "name: x\ndescription: d\npage: " + page + "\nassertions: [{type: notifications}]\n",
			wantErr: "steps list is required",
		},
		{
			name:    "no assertions",
			yaml:    "name: x\ndescription: d\npage: " + page + "\nsteps: [{action: load}]\n",
			wantErr: "assertions list is required",
		},
		{
			name:    "unknown action",
			yaml:    "name: x\ndescription: d\npage: " + page + "\nsteps: [{action: dance}]\nassertions: [{type: notifications}]\n",
			wantErr: `unknown action "dance"`,
		},
		{
			name:    "key without key",
			yaml:    "name: x\ndescription: d\npage: " + page + "\nsteps: [{action: key, element: a}]\nassertions: [{type: notifications}]\n",
			wantErr: "element and key are required",
		},
		{
			name:    "bad namespace",
			yaml:    "name: x\ndescription: d\npage: " + page + "\nsteps: [{action: load}]\nassertions: [{type: stored, namespace: cookies, id: a}]\n",
			wantErr: "namespace must be content or images",
		},
		{
			name:    "bad raw seed namespace",
			yaml:    "name: x\ndescription: d\npage: " + page + "\nseed: {raw: {cookies: '{}'}}\nsteps: [{action: load}]\nassertions: [{type: notifications}]\n",
			wantErr: `unknown namespace "cookies"`,
		},
		{
			name:    "unknown assertion",
			yaml:    "name: x\ndescription: d\npage: " + page + "\nsteps: [{action: load}]\nassertions: [{type: vibes}]\n",
			wantErr: `unknown assertion type "vibes"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "scenario.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.yaml), 0644))

			_, err := LoadScenario(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
