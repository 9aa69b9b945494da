package store

import (
	"errors"

	"github.com/iotaledger/hive.go/kvstore"
)

// HiveBackend adapts a hive.go kvstore.KVStore to the narrow Backend
// interface this package depends on.
type HiveBackend struct {
	kvs kvstore.KVStore
}

// NewHiveBackend wraps kvs as a Backend.
func NewHiveBackend(kvs kvstore.KVStore) *HiveBackend {
	return &HiveBackend{kvs: kvs}
}

func (b *HiveBackend) Get(key []byte) ([]byte, error) {
	v, err := b.kvs.Get(key)
	if errors.Is(err, kvstore.ErrKeyNotFound) {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (b *HiveBackend) Iterate(prefix []byte, fn func(key, value []byte) bool) error {
	return b.kvs.Iterate(prefix, func(key kvstore.Key, value kvstore.Value) bool {
		return fn(key, value)
	})
}

func (b *HiveBackend) Batched() (Batch, error) {
	bm, err := b.kvs.Batched()
	if err != nil {
		return nil, err
	}
	return &hiveBatch{kvs: b.kvs, bm: bm}, nil
}

// hiveBatch adapts kvstore.BatchedMutations to Batch, flushing the
// underlying store once the batch commits so writes are durable before this
// package swaps in the new in-memory metadata.
type hiveBatch struct {
	kvs kvstore.KVStore
	bm  kvstore.BatchedMutations
}

func (b *hiveBatch) Set(key, value []byte) error { return b.bm.Set(key, value) }
func (b *hiveBatch) Delete(key []byte) error      { return b.bm.Delete(key) }

func (b *hiveBatch) Commit() error {
	if err := b.bm.Commit(); err != nil {
		return err
	}
	return b.kvs.Flush()
}
