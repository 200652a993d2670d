package compdb

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `[
  {"directory": "/build", "file": "../src/a.c", "command": "cc -c ../src/a.c -DDEBUG"},
  {"directory": "/build", "file": "/src/b.c", "arguments": ["cc", "-c", "/src/b.c"]},
  {"directory": "/build", "file": "../src/a.c", "command": "cc -c ../src/a.c -DRELEASE"},
  {"directory": "/src", "file": "a.c", "command": "cc -c a.c"}
]`

func writeDB(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0o644))
	return dir
}

func TestLoad(t *testing.T) {
	dir := writeDB(t, sample)

	byFile, err := Load(filepath.Join(dir, FileName))
	require.NoError(t, err)
	require.Len(t, byFile, 4)
	assert.Equal(t, []string{"cc", "-c", "/src/b.c"}, byFile[1].Arguments)

	byDir, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, byFile, byDir, "a build directory resolves to its database")
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorContains(t, err, "compdb:")

	_, err = Load(writeDB(t, `{"not": "an array"}`))
	assert.ErrorContains(t, err, "compdb: parse")

	_, err = Load(writeDB(t, `[{"directory": "/x"}]`))
	assert.ErrorContains(t, err, "entry 0 has no file")
}

func TestEntry_Path(t *testing.T) {
	assert.Equal(t, "/src/a.c", Entry{Directory: "/build", File: "../src/a.c"}.Path())
	assert.Equal(t, "/src/b.c", Entry{Directory: "/build", File: "/src/./b.c"}.Path())
}

func TestUnique(t *testing.T) {
	entries, err := Load(writeDB(t, sample))
	require.NoError(t, err)

	u := Unique(entries)
	require.Len(t, u, 2)
	assert.Equal(t, "cc -c ../src/a.c -DDEBUG", u[0].Command, "first entry per file wins")
	assert.Equal(t, "/src/b.c", u[1].File)

	assert.Equal(t, []string{"/src/a.c", "/src/b.c"}, Files(entries))
	assert.Empty(t, Unique(nil))
}

func TestWrite_RoundTrip(t *testing.T) {
	entries, err := Load(writeDB(t, sample))
	require.NoError(t, err)

	out := filepath.Join(t.TempDir(), "uniq.json")
	require.NoError(t, Write(out, Unique(entries)))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n    {\n        \"directory\": \"/build\",")

	back, err := Load(out)
	require.NoError(t, err)
	assert.Equal(t, Unique(entries), back)
}

func TestWrite_Empty(t *testing.T) {
	out := filepath.Join(t.TempDir(), "empty.json")
	require.NoError(t, Write(out, nil))
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(data))
}
