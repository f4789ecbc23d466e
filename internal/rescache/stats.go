package rescache

import "sync/atomic"

// Stats is the cache statistics export.
type Stats struct {
	Hits       int64
	Misses     int64
	Evictions  int64
	DiskReads  int64
	DiskWrites int64
}

type statCounters struct {
	hits       atomic.Int64
	misses     atomic.Int64
	evictions  atomic.Int64
	diskReads  atomic.Int64
	diskWrites atomic.Int64
}

func (c *statCounters) snapshot() Stats {
	return Stats{
		Hits:       c.hits.Load(),
		Misses:     c.misses.Load(),
		Evictions:  c.evictions.Load(),
		DiskReads:  c.diskReads.Load(),
		DiskWrites: c.diskWrites.Load(),
	}
}
