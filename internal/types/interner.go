package types

import (
	"sync"
	"sync/atomic"
)

// Interner is a thread-safe bidirectional Type <-> id map. Ids are
// monotonic and never recycle. Reads are lock-free dominant: each shard
// holds its own RWMutex so intern() only contends with readers/writers
// hashing to the same shard, rather than on a single global lock.
type Interner struct {
	shards [internerShardCount]internerShard
	nextID atomic.Uint64
}

const internerShardCount = 16

type internerShard struct {
	mu        sync.RWMutex
	byID      map[uint64]Type
	byDisplay map[string]uint64
}

// NewInterner creates an interner pre-seeded with the eight primitives at
// well-known ids 0..7.
func NewInterner() *Interner {
	in := &Interner{}
	for i := range in.shards {
		in.shards[i].byID = make(map[uint64]Type)
		in.shards[i].byDisplay = make(map[string]uint64)
	}
	for _, p := range AllPrimitives {
		in.internAt(uint64(p.Kind), p)
	}
	in.nextID.Store(uint64(len(AllPrimitives)))
	return in
}

func (in *Interner) shardFor(key string) *internerShard {
	var h uint32
	for i := 0; i < len(key); i++ {
		h = h*31 + uint32(key[i])
	}
	return &in.shards[h%internerShardCount]
}

func (in *Interner) shardForID(id uint64) *internerShard {
	return &in.shards[id%internerShardCount]
}

func (in *Interner) internAt(id uint64, t Type) {
	disp := t.String()
	s := in.shardForID(id)
	s.mu.Lock()
	s.byID[id] = t
	s.mu.Unlock()
	ds := in.shardFor(disp)
	ds.mu.Lock()
	ds.byDisplay[disp] = id
	ds.mu.Unlock()
}

// Intern returns t's id, assigning a fresh one on first sight. Lookup
// keys on t's display string, which is a sound proxy for structural
// equality within a single process since String() is stable and total.
func (in *Interner) Intern(t Type) uint64 {
	disp := t.String()
	ds := in.shardFor(disp)
	ds.mu.RLock()
	if id, ok := ds.byDisplay[disp]; ok {
		ds.mu.RUnlock()
		return id
	}
	ds.mu.RUnlock()

	ds.mu.Lock()
	if id, ok := ds.byDisplay[disp]; ok {
		ds.mu.Unlock()
		return id
	}
	id := in.nextID.Add(1) - 1
	ds.byDisplay[disp] = id
	ds.mu.Unlock()

	idShard := in.shardForID(id)
	idShard.mu.Lock()
	idShard.byID[id] = t
	idShard.mu.Unlock()
	return id
}

// Type returns the interned type for id, if any.
func (in *Interner) Type(id uint64) (Type, bool) {
	s := in.shardForID(id)
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.byID[id]
	return t, ok
}

// Contains reports whether t has already been interned.
func (in *Interner) Contains(t Type) bool {
	disp := t.String()
	s := in.shardFor(disp)
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.byDisplay[disp]
	return ok
}

// Len returns the number of distinct interned types.
func (in *Interner) Len() int {
	total := 0
	for i := range in.shards {
		in.shards[i].mu.RLock()
		total += len(in.shards[i].byID)
		in.shards[i].mu.RUnlock()
	}
	return total
}
