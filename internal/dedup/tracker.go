// Package dedup decides which worker emits a set or card first.
//
// A Tracker is a concurrent set of keys whose only write operation is Claim:
// an atomic check-and-set that succeeds exactly once per key for the life of
// the Tracker. Keys are spread over mutex-guarded shards picked by an xxh3
// hash, so unrelated keys rarely contend.
package dedup

import (
	"sync"

	"github.com/zeebo/xxh3"
)

// shardCount must be a power of two.
const shardCount = 64

type shard struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

// Tracker records claimed keys. The zero value is not usable; call New.
type Tracker struct {
	shards [shardCount]shard
}

// New returns an empty Tracker.
func New() *Tracker {
	t := &Tracker{}
	for i := range t.shards {
		t.shards[i].seen = make(map[string]struct{})
	}
	return t
}

func (t *Tracker) shardFor(key string) *shard {
	return &t.shards[xxh3.HashString(key)&(shardCount-1)]
}

// Claim reports whether this call is the first to present key. Exactly one
// of any number of concurrent callers with the same key gets true.
func (t *Tracker) Claim(key string) bool {
	s := t.shardFor(key)
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.seen[key]; ok {
		return false
	}
	s.seen[key] = struct{}{}
	return true
}

// Claimed reports whether key has been claimed. It is informational only;
// deciding to emit must go through Claim.
func (t *Tracker) Claimed(key string) bool {
	s := t.shardFor(key)
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.seen[key]
	return ok
}

// Len returns the number of claimed keys.
func (t *Tracker) Len() int {
	n := 0
	for i := range t.shards {
		s := &t.shards[i]
		s.mu.Lock()
		n += len(s.seen)
		s.mu.Unlock()
	}
	return n
}
