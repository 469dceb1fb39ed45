package discovery_test

import (
	"go/parser"
	"go/token"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/go-inject/framework/discovery"
)

func TestParseParams(t *testing.T) {
	t.Parallel()

	tests := []struct {
		sig  string
		want []string
	}{
		{"func()", []string{}},
		{"func(a, b int)", []string{"a", "b"}},
		{"func (db *DB, log Logger) Svc", []string{"db", "log"}},
		{"func(port int) string { return \"\" }", []string{"port"}},
		{"func newDB(dsn string, pool int) *DB", []string{"dsn", "pool"}},
		{"func newDB(dsn string) *DB { return nil }", []string{"dsn"}},
		{"func(int, string)", []string{"", ""}},
		{"func(_ int, b string)", []string{"", "b"}},
		{"func(args ...any)", []string{"args"}},
	}
	for _, tt := range tests {
		t.Run(tt.sig, func(t *testing.T) {
			got, err := discovery.ParseParams(tt.sig)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseParams_Invalid(t *testing.T) {
	t.Parallel()
	for _, sig := range []string{"", "port", "func(", "var x int"} {
		_, err := discovery.ParseParams(sig)
		assert.Error(t, err, sig)
	}
}

const paramsSource = `package main

func newAddr(host string, port int) string { return "" }

func Definitions() ([]map[string]any, error) {
	return []map[string]any{
		{"name": "port", "value": 8080},
		{"name": "addr", "factory": newAddr},
		{
			"name": "url",
			"factory": func(scheme, addr string) string {
				return scheme + "://" + addr
			},
		},
		{"name": "clock", "factory": func() int { return 0 }},
	}, nil
}
`

func TestDeclaredParams(t *testing.T) {
	t.Parallel()
	file, err := parser.ParseFile(token.NewFileSet(), "defs.go", paramsSource, 0)
	require.NoError(t, err)

	got, ok := discovery.DeclaredParams(file, "addr")
	require.True(t, ok)
	assert.Equal(t, []string{"host", "port"}, got)

	got, ok = discovery.DeclaredParams(file, "url")
	require.True(t, ok)
	assert.Equal(t, []string{"scheme", "addr"}, got)

	got, ok = discovery.DeclaredParams(file, "clock")
	require.True(t, ok)
	assert.Empty(t, got)

	_, ok = discovery.DeclaredParams(file, "port")
	assert.False(t, ok, "constants have no factory")

	_, ok = discovery.DeclaredParams(file, "ghost")
	assert.False(t, ok)

	_, ok = discovery.DeclaredParams(nil, "addr")
	assert.False(t, ok)
}
