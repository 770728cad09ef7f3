package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoLineCounts(t *testing.T) {
	root := t.TempDir()
	write := func(rel, body string) {
		path := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	}
	write("internal/load/load.go", "package load\n\n  \nfunc Load() {}\n")
	write("internal/load/load_test.go", "package load\n\nfunc TestLoad() {}\n")
	write("cmd/csv2parquet/main.go", "package main\r\n\r\nfunc main() {}")
	write("internal/load/README.md", "not go\n")
	write("bin/gen.go", "package gen\n")
	write("samples/x.go", "package x\n")
	write(".git/hooks.go", "package hooks\n")

	counts, err := goLineCounts(root)
	require.NoError(t, err)

	rel := func(dir string) string { return filepath.ToSlash(filepath.Join(root, dir)) }
	assert.Equal(t, map[string]lineCount{
		rel("internal/load"):   {prod: 2, test: 2},
		rel("cmd/csv2parquet"): {prod: 2},
	}, counts)
}
