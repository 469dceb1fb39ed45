package discovery_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/go-inject/framework/discovery"
)

const manifestYAML = `
constants:
  - name: port
    value: 8080
    tags: [net]
  - name: greeting
    value: hello
  - name: nothing
  - name: limits
    value:
      max: 3
aliases:
  - name: port
    alias: http.port
`

func TestParseManifest(t *testing.T) {
	t.Parallel()

	set, err := discovery.ParseManifest([]byte(manifestYAML), "m.yaml")
	require.NoError(t, err)
	require.Len(t, set.Definitions, 4)

	port := set.Definitions[0]
	assert.Equal(t, "port", port.Name)
	assert.Equal(t, 8080, port.Value)
	assert.Equal(t, []string{"net"}, port.Tags)
	assert.Equal(t, "m.yaml#1", port.Source)
	assert.False(t, port.IsFactory())

	assert.Equal(t, "hello", set.Definitions[1].Value)
	assert.Nil(t, set.Definitions[2].Value)
	assert.Equal(t, map[string]any{"max": 3}, set.Definitions[3].Value)

	require.Len(t, set.Aliases, 1)
	assert.Equal(t, "port", set.Aliases[0].Name)
	assert.Equal(t, "http.port", set.Aliases[0].Alias)
}

func TestParseManifest_MultipleDocuments(t *testing.T) {
	t.Parallel()

	body := `
constants:
  - name: host
    value: localhost
---
constants:
  - name: port
    value: 8080
aliases:
  - name: port
    alias: http.port
`
	set, err := discovery.ParseManifest([]byte(body), "m.yaml")
	require.NoError(t, err)
	require.Len(t, set.Definitions, 2)
	assert.Equal(t, "host", set.Definitions[0].Name)
	assert.Equal(t, "port", set.Definitions[1].Name)
	assert.Equal(t, "m.yaml#2", set.Definitions[1].Source)
	require.Len(t, set.Aliases, 1)
	assert.Equal(t, "http.port", set.Aliases[0].Alias)

	_, err = discovery.ParseManifest([]byte("constants: []\n---\nmodules: []\n"), "m.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "document 2")
}

func TestParseManifest_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
		want string
	}{
		{"empty", "  \n", "manifest is empty"},
		{"bad yaml", "constants: [", "decode manifest"},
		{"unknown key", "modules:\n  - name: x\n", "decode manifest"},
		{"missing name", "constants:\n  - value: 1\n", "The name field is required."},
		{"whitespace name", "constants:\n  - name: a b\n", "may not contain whitespace"},
		{"blank tag", "constants:\n  - name: a\n    tags: ['']\n", "The tag field is required."},
		{"self alias", "aliases:\n  - name: a\n    alias: a\n", "must be different"},
		{"alias missing target", "aliases:\n  - alias: a\n", "The name field is required."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := discovery.ParseManifest([]byte(tt.body), "m.yaml")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
			assert.Contains(t, err.Error(), "m.yaml")
		})
	}
}

func TestLoadManifest(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := write(t, dir, "m.yaml", manifestYAML)

	set, err := discovery.LoadManifest(path)
	require.NoError(t, err)
	assert.Len(t, set.Definitions, 4)

	_, err = discovery.LoadManifest(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
