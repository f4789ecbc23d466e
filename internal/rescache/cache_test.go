package rescache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/gradualtype/internal/modid"
)

func testKey(n byte) Key {
	var h modid.ContentHash
	h[0] = n
	return Key{Module: modid.ModuleId(n), Content: h}
}

func TestPutThenGetHitsMemory(t *testing.T) {
	c, err := New("", 100)
	require.NoError(t, err)

	key := testKey(1)
	entry := &Entry{Module: key.Module, Content: key.Content, SizeBytes: 10}
	require.NoError(t, c.Put(key, entry))

	got, ok := c.Get(key)
	require.True(t, ok)
	require.Equal(t, entry.Module, got.Module)
	require.Equal(t, int64(1), c.Stats().Hits)
}

func TestGetMissWhenAbsent(t *testing.T) {
	c, err := New("", 100)
	require.NoError(t, err)

	_, ok := c.Get(testKey(9))
	require.False(t, ok)
	require.Equal(t, int64(1), c.Stats().Misses)
}

func TestDiskTierRoundTripsAndPromotes(t *testing.T) {
	dir := t.TempDir()
	c, err := New(dir, 100)
	require.NoError(t, err)

	key := testKey(2)
	entry := &Entry{Module: key.Module, Content: key.Content, SizeBytes: 5,
		Types: []TypeBinding{{Name: "x", Type: "int"}}}
	require.NoError(t, c.Put(key, entry))

	// Simulate a cold process: a fresh cache with an empty memory tier
	// must still find the entry on disk and promote it.
	c2, err := New(dir, 100)
	require.NoError(t, err)
	got, ok := c2.Get(key)
	require.True(t, ok)
	require.Equal(t, "x", got.Types[0].Name)

	got2, ok := c2.mem.Get(key)
	require.True(t, ok)
	require.Equal(t, got2.Types[0].Type, "int")
}

func TestVersionSkewTreatedAsMissAndDeleted(t *testing.T) {
	dir := t.TempDir()
	c, err := New(dir, 100)
	require.NoError(t, err)

	key := testKey(3)
	entry := &Entry{Module: key.Module, Content: key.Content, SizeBytes: 1}
	require.NoError(t, c.Put(key, entry))

	path := filepath.Join(dir, key.Filename())
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	raw[0] = 0xFF
	require.NoError(t, os.WriteFile(path, raw, 0o644))

	c2, err := New(dir, 100)
	require.NoError(t, err)
	_, ok := c2.Get(key)
	require.False(t, ok)
	_, statErr := os.Stat(path)
	require.True(t, os.IsNotExist(statErr), "a skewed entry is deleted on read")
}

func TestByteCapEvictsLeastRecentlyUsed(t *testing.T) {
	c, err := New("", 1) // 1MB cap
	require.NoError(t, err)

	// Two entries fit under the cap, three do not, so the third insert
	// must evict exactly the least-recently-used key.
	big := int64(400 * 1024)
	k1, k2, k3 := testKey(1), testKey(2), testKey(3)
	require.NoError(t, c.Put(k1, &Entry{SizeBytes: big}))
	require.NoError(t, c.Put(k2, &Entry{SizeBytes: big}))
	require.NoError(t, c.Put(k3, &Entry{SizeBytes: big}))

	_, ok := c.Get(k1)
	require.False(t, ok, "k1 should have been evicted to stay under the byte cap")

	_, ok = c.Get(k2)
	require.True(t, ok)
	_, ok = c.Get(k3)
	require.True(t, ok)
	require.Equal(t, int64(1), c.Stats().Evictions)
}
