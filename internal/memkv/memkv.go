// Package memkv is an in-memory, lexicographically-ordered key/value store
// implementing store.Backend. It exists for tests and for callers that do
// not need durability: a plain map keyed by string, extended with ordered
// prefix iteration and a batch/commit boundary so it exercises the same
// Backend contract the badger-backed adapter does.
package memkv

import (
	"sort"
	"sync"

	"github.com/panicfrog/dm-cache/store"
)

// Store is an in-memory store.Backend implementation.
type Store struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// New returns an empty Store.
func New() *Store {
	return &Store{data: make(map[string][]byte)}
}

func (s *Store) Get(key []byte) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[string(key)]
	if !ok {
		return nil, store.ErrKeyNotFound
	}
	return v, nil
}

// Iterate visits every key sharing prefix in ascending lexicographic order.
func (s *Store) Iterate(prefix []byte, fn func(key, value []byte) bool) error {
	s.mu.RLock()
	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		if len(k) >= len(prefix) && k[:len(prefix)] == string(prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	snapshot := make(map[string][]byte, len(keys))
	for _, k := range keys {
		snapshot[k] = s.data[k]
	}
	s.mu.RUnlock()

	for _, k := range keys {
		if !fn([]byte(k), snapshot[k]) {
			return nil
		}
	}
	return nil
}

func (s *Store) Batched() (store.Batch, error) {
	return &batch{parent: s, writes: make(map[string][]byte), deletes: make(map[string]struct{})}, nil
}

// batch buffers writes until Commit applies them to the parent store in one
// critical section, matching the all-or-nothing visibility the insertion
// controller relies on.
type batch struct {
	parent  *Store
	writes  map[string][]byte
	deletes map[string]struct{}
}

func (b *batch) Set(key, value []byte) error {
	k := string(key)
	delete(b.deletes, k)
	b.writes[k] = append([]byte(nil), value...)
	return nil
}

func (b *batch) Delete(key []byte) error {
	k := string(key)
	delete(b.writes, k)
	b.deletes[k] = struct{}{}
	return nil
}

func (b *batch) Commit() error {
	b.parent.mu.Lock()
	defer b.parent.mu.Unlock()
	for k := range b.deletes {
		delete(b.parent.data, k)
	}
	for k, v := range b.writes {
		b.parent.data[k] = v
	}
	return nil
}
