package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const modulesManifest = `
constants:
  - name: port
    value: 8080
    tags: [net]
  - name: host
    value: localhost
`

const modulesGo = `package main

import "fmt"

func Definitions() []map[string]any {
	return []map[string]any{
		{"name": "addr", "factory": func(host string, port int) string {
			return fmt.Sprintf("%s:%d", host, port)
		}},
	}
}
`

func modulesDir(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	}
	return dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd(buildInfo{version: "1.2.3", commit: "abc", date: "today"})
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append(args, "--env-file", filepath.Join(t.TempDir(), "none.env"), "--log-level", "error"))
	err := root.Execute()
	return out.String(), err
}

func TestRun_PrintsResolvedValues(t *testing.T) {
	dir := modulesDir(t, map[string]string{"net.yaml": modulesManifest, "svc/addr.go": modulesGo})

	out, err := execute(t, "run", "--dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "NAME")
	assert.Regexp(t, `addr\s+factory\s+localhost:8080`, out)
	assert.Regexp(t, `port\s+constant\s+8080`, out)
}

func TestRun_JSON(t *testing.T) {
	dir := modulesDir(t, map[string]string{"net.yaml": modulesManifest})

	out, err := execute(t, "run", "--dir", dir, "--json")
	require.NoError(t, err)

	var views []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &views))
	byName := map[string]map[string]any{}
	for _, v := range views {
		byName[v["name"].(string)] = v
	}
	require.Contains(t, byName, "port")
	assert.Equal(t, float64(8080), byName["port"]["value"])
	assert.Equal(t, true, byName["port"]["resolved"])
}

func TestRun_ExcludeAndStrict(t *testing.T) {
	dir := modulesDir(t, map[string]string{
		"net.yaml":      modulesManifest,
		"broken/x.yaml": "constants: [",
		"needy.go": `package main
func Definitions() []map[string]any {
	return []map[string]any{{"name": "needy", "factory": func(ghost any) any { return ghost }}}
}
`,
	})

	_, err := execute(t, "run", "--dir", dir)
	require.Error(t, err, "broken manifest is discovered")

	out, err := execute(t, "run", "--dir", dir, "--exclude", "broken")
	require.NoError(t, err)
	assert.Regexp(t, `needy\s+factory\s+<nil>`, out)

	_, err = execute(t, "run", "--dir", dir, "--exclude", "broken", "--strict")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"ghost"`)
}

func TestList_DoesNotResolve(t *testing.T) {
	dir := modulesDir(t, map[string]string{"net.yaml": modulesManifest, "addr.go": modulesGo})

	out, err := execute(t, "list", "--dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "DEPENDS ON")
	assert.Regexp(t, `addr\s+factory\s+host,port\s+-`, out)
	assert.Regexp(t, `port\s+constant\s+-\s+net`, out)

	out, err = execute(t, "list", "--dir", dir, "--json")
	require.NoError(t, err)
	var views []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &views))
	for _, v := range views {
		assert.Equal(t, false, v["resolved"], v["name"])
	}
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "go-inject version 1.2.3 (commit: abc, built: today)\n", out)

	out, err = execute(t, "version", "--short")
	require.NoError(t, err)
	assert.Equal(t, "1.2.3\n", out)

	out, err = execute(t, "version", "--json")
	require.NoError(t, err)
	var info map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Equal(t, map[string]string{"version": "1.2.3", "commit": "abc", "date": "today"}, info)
}

func TestRoot_BadLogLevel(t *testing.T) {
	root := newRootCmd(buildInfo{})
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"list", "--dir", t.TempDir(), "--log-level", "loud"})
	assert.Error(t, root.Execute())
}
