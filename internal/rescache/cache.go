package rescache

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// unboundedCapacity sizes the underlying LRU large enough that it never
// evicts by item count; eviction is driven entirely by the byte cap
// tracked in Cache.
const unboundedCapacity = 1 << 20

// Cache is the two-tier result cache.
type Cache struct {
	mem      *lru.Cache[Key, *Entry]
	disk     *diskTier
	maxBytes int64
	curBytes int64
	stats    statCounters
}

// New creates a Cache writing to dir (empty string disables the disk
// tier) with an LRU byte cap of maxMB megabytes.
func New(dir string, maxMB int) (*Cache, error) {
	mem, err := lru.New[Key, *Entry](unboundedCapacity)
	if err != nil {
		return nil, err
	}
	return &Cache{
		mem:      mem,
		disk:     newDiskTier(dir),
		maxBytes: int64(maxMB) * 1024 * 1024,
	}, nil
}

// Get probes memory, then disk, promoting a disk hit to the memory tier.
func (c *Cache) Get(key Key) (*Entry, bool) {
	if entry, ok := c.mem.Get(key); ok {
		c.stats.hits.Add(1)
		return entry, true
	}

	c.stats.diskReads.Add(1)
	entry, ok, err := c.disk.Read(key)
	if err != nil || !ok {
		c.stats.misses.Add(1)
		return nil, false
	}
	c.stats.hits.Add(1)
	c.promote(key, entry)
	return entry, true
}

// Put stores entry in both tiers, then evicts least-recently-used
// keys until curBytes <= maxBytes.
func (c *Cache) Put(key Key, entry *Entry) error {
	if entry.Timestamp == 0 {
		entry.Timestamp = time.Now().Unix()
	}
	c.promote(key, entry)

	c.stats.diskWrites.Add(1)
	if err := c.disk.Write(key, entry); err != nil {
		return err
	}
	c.evictToFit()
	return nil
}

func (c *Cache) promote(key Key, entry *Entry) {
	if _, existed := c.mem.Get(key); existed {
		c.mem.Remove(key)
	} else {
		c.curBytes += entry.SizeBytes
	}
	c.mem.Add(key, entry)
}

// evictToFit pops least-recently-used entries from both tiers until the
// cache is within its byte cap.
func (c *Cache) evictToFit() {
	if c.maxBytes <= 0 {
		return
	}
	for c.curBytes > c.maxBytes {
		key, entry, ok := c.mem.RemoveOldest()
		if !ok {
			return
		}
		c.curBytes -= entry.SizeBytes
		c.disk.Remove(key)
		c.stats.evictions.Add(1)
	}
}

// Stats returns a snapshot of the cache's hit/miss/eviction counters.
func (c *Cache) Stats() Stats {
	return c.stats.snapshot()
}
