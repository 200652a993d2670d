package graph

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Monotonic(t *testing.T) {
	reg := NewRegistry(0)
	handles := []*int{new(int), new(int), new(int)}

	var prev uint64
	for _, h := range handles {
		id := reg.Register(h)
		assert.Greater(t, id, prev)
		prev = id
	}
	assert.Equal(t, uint64(3), reg.Last())

	for i, h := range handles {
		id, ok := reg.Lookup(h)
		require.True(t, ok)
		assert.Equal(t, uint64(i+1), id)
	}
}

func TestRegistry_Seeded(t *testing.T) {
	reg := NewRegistry(41)
	assert.Equal(t, uint64(42), reg.Register("a"))
	assert.Equal(t, uint64(43), reg.Next())
	assert.Equal(t, uint64(43), reg.Last())
}

func TestRegistry_LookupMissing(t *testing.T) {
	reg := NewRegistry(0)
	_, ok := reg.Lookup("never")
	assert.False(t, ok)
	_, ok = reg.Lookup(nil)
	assert.False(t, ok)
}

func TestRegistry_ForgetKeepsCounter(t *testing.T) {
	reg := NewRegistry(0)
	reg.Register("a")
	reg.Forget()

	_, ok := reg.Lookup("a")
	assert.False(t, ok)
	assert.Equal(t, uint64(2), reg.Register("a"), "identities are never reused")
}

func TestCounter_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, persistCounter(dir, 1234))

	v, found, err := consumeCounter(dir)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, uint64(1234), v)

	_, err = os.Stat(filepath.Join(dir, CounterFile))
	assert.True(t, os.IsNotExist(err), "the side-car is deleted once consumed")

	_, found, err = consumeCounter(dir)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestCounter_Garbage(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, CounterFile), []byte("twelve"), 0o644))

	_, _, err := consumeCounter(dir)
	assert.ErrorIs(t, err, ErrCounterHandoff)
}

func TestCounter_Unreadable(t *testing.T) {
	dir := t.TempDir()
	// A directory in place of the side-car cannot be read as a file.
	require.NoError(t, os.Mkdir(filepath.Join(dir, CounterFile), 0o755))

	_, _, err := consumeCounter(dir)
	assert.ErrorIs(t, err, ErrCounterHandoff)
}
