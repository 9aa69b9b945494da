// Package docdb exposes the process-wide document store handle: a path is
// configured once, the underlying badger-backed store opens lazily on first
// use, and Insert is the sole write operation. The "one store per process"
// pattern is re-expressed as an explicit handle value rather than a bare
// global so initialization-once semantics are visible at the call site
// instead of hidden in a package-level side effect.
package docdb

import (
	"sync"

	"github.com/iotaledger/hive.go/kvstore/badger"
	"github.com/rs/zerolog"
	"golang.org/x/xerrors"

	"github.com/panicfrog/dm-cache/internal/config"
	"github.com/panicfrog/dm-cache/store"
)

var (
	// ErrPathNotSet is returned by Open when SetPath was never called.
	ErrPathNotSet = xerrors.New("docdb: path not set")
	// ErrPathAlreadySet is returned by SetPath on a second call.
	ErrPathAlreadySet = xerrors.New("docdb: path already set")
	// ErrStoreInit wraps a failure to open the backing key/value engine.
	ErrStoreInit = xerrors.New("docdb: store init failed")
)

var (
	mu       sync.Mutex
	path     string
	pathSet  bool
	handle   *store.DB
	openOnce sync.Once
	openErr  error
)

// SetPath fixes the filesystem directory the store opens against. It may be
// called exactly once per process.
func SetPath(p string) error {
	mu.Lock()
	defer mu.Unlock()
	if pathSet {
		return ErrPathAlreadySet
	}
	path = p
	pathSet = true
	return nil
}

// Open returns the process-wide store handle, opening it on first call.
func Open() (*store.DB, error) {
	mu.Lock()
	p := path
	set := pathSet
	mu.Unlock()

	if !set {
		return nil, ErrPathNotSet
	}

	openOnce.Do(func() {
		cfg, err := config.Load()
		if err != nil {
			openErr = xerrors.Errorf("%w: %v", ErrStoreInit, err)
			return
		}
		if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
			zerolog.SetGlobalLevel(level)
		}

		db, err := badger.CreateDB(p)
		if err != nil {
			openErr = xerrors.Errorf("%w: %v", ErrStoreInit, err)
			return
		}
		kvs := badger.New(db)
		backend := store.NewHiveBackend(kvs)

		handle, err = store.Open(backend, cfg.MaxDocumentBytes)
		if err != nil {
			openErr = xerrors.Errorf("%w: %v", ErrStoreInit, err)
			return
		}
	})
	if openErr != nil {
		return nil, openErr
	}
	return handle, nil
}

// Insert opens the store handle if needed and inserts keyBytes/jsonBytes.
func Insert(keyBytes, jsonBytes []byte) error {
	db, err := Open()
	if err != nil {
		return err
	}
	return db.Insert(keyBytes, jsonBytes)
}
