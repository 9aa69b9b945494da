package store

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/xerrors"

	"github.com/panicfrog/dm-cache/journal"
	"github.com/panicfrog/dm-cache/nodeval"
	"github.com/panicfrog/dm-cache/pathkey"
	"github.com/panicfrog/dm-cache/shred"
)

var (
	// ErrKeyDecode wraps a failure to decode the caller-supplied key bytes.
	ErrKeyDecode = xerrors.New("store: invalid key")
	// ErrDuplicateRootKey is returned when inserting a root key already known to the store.
	ErrDuplicateRootKey = xerrors.New("store: duplicate root key")
	// ErrNoSuperNode is returned when a non-root key names no existing parent.
	ErrNoSuperNode = xerrors.New("store: no super node")
	// ErrInvalidSuperNodeType is returned when the terminal locator's kind does not match its parent's container kind.
	ErrInvalidSuperNodeType = xerrors.New("store: terminal locator does not match parent container type")
	// ErrRootKeyTooLong is returned when a root key exceeds the journal's single-byte length prefix.
	ErrRootKeyTooLong = xerrors.New("store: root key too long")
	// ErrDocumentTooLarge is returned when jsonBytes exceeds the configured maxDocBytes.
	ErrDocumentTooLarge = xerrors.New("store: document exceeds configured size limit")
)

// metadataKey is the reserved byte string the journal record is stored
// under. It contains no 0x00 byte, while every well-formed encoded path key
// contains at least one (the separator between the ancestor-id list and the
// terminal locator) — so the two spaces can never collide.
var metadataKey = []byte("~~METADATA~~")

// DB is the insertion controller bound to one Backend.
type DB struct {
	mu          sync.RWMutex
	backend     Backend
	meta        *journal.Metadata
	maxDocBytes int
}

// Open loads (or initializes) the metadata record against backend.
// maxDocBytes caps the accepted size of an Insert's jsonBytes payload; zero
// means unbounded, per internal/config.Config.MaxDocumentBytes.
func Open(backend Backend, maxDocBytes int) (*DB, error) {
	db := &DB{backend: backend, maxDocBytes: maxDocBytes}
	raw, err := backend.Get(metadataKey)
	if err != nil {
		if xerrors.Is(err, ErrKeyNotFound) {
			db.meta = journal.New()
			return db, nil
		}
		return nil, xerrors.Errorf("store: open: %w", err)
	}
	meta, err := journal.Decode(raw)
	if err != nil {
		return nil, xerrors.Errorf("store: open: %w", err)
	}
	db.meta = meta
	return db, nil
}

// Insert decodes keyBytes, validates its placement in the existing key
// space, shreds jsonBytes under it, and commits the result atomically.
func (db *DB) Insert(keyBytes, jsonBytes []byte) error {
	if db.maxDocBytes > 0 && len(jsonBytes) > db.maxDocBytes {
		return ErrDocumentTooLarge
	}

	k, err := pathkey.Decode(keyBytes)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrKeyDecode, err)
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	working := db.meta.Clone()

	if err := db.validatePlacement(working, k); err != nil {
		log.Error().Hex("key", keyBytes).Err(err).Msg("docdb insert rejected")
		return err
	}

	entries, lastID, err := shred.Document(working, k, jsonBytes)
	if err != nil {
		log.Error().Hex("key", keyBytes).Err(err).Msg("docdb insert rejected")
		return err
	}
	working.LastID = lastID

	batch, err := db.backend.Batched()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBackend, err)
	}
	for _, e := range entries {
		if err := batch.Set(pathkey.Encode(e.Key), nodeval.Encode(e.Value)); err != nil {
			return fmt.Errorf("%w: %w", ErrBackend, err)
		}
	}
	if err := batch.Set(metadataKey, working.Encode()); err != nil {
		return fmt.Errorf("%w: %w", ErrBackend, err)
	}
	if err := batch.Commit(); err != nil {
		return fmt.Errorf("%w: %w", ErrBackend, err)
	}

	db.meta = working

	log.Info().
		Hex("key", keyBytes).
		Int("nodes", len(entries)).
		Msg("docdb insert committed")
	debugEmissionCounts(keyBytes, entries)

	return nil
}

// validatePlacement enforces §4.6 step 4: root uniqueness, or a well-typed
// existing parent for a non-root key.
func (db *DB) validatePlacement(working *journal.Metadata, k pathkey.Key) error {
	if k.Terminal.Kind == pathkey.KindRoot {
		rootStr := string(pathkey.Encode(k))
		if len(rootStr) > journal.MaxRootKeyLen() {
			return ErrRootKeyTooLong
		}
		if _, exists := working.Roots[rootStr]; exists {
			return ErrDuplicateRootKey
		}
		working.Roots[rootStr] = struct{}{}
		return nil
	}

	if len(k.Ancestors) < 2 {
		return ErrNoSuperNode
	}

	prefix := pathkey.SuperPrefix(k)
	var parentValue nodeval.Value
	found := false
	err := db.backend.Iterate(prefix, func(_, value []byte) bool {
		v, decodeErr := nodeval.Decode(value)
		if decodeErr != nil {
			return false
		}
		parentValue = v
		found = true
		return false
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBackend, err)
	}
	if !found {
		return ErrNoSuperNode
	}

	switch parentValue.Kind {
	case nodeval.KindObject:
		if k.Terminal.Kind != pathkey.KindField {
			return ErrInvalidSuperNodeType
		}
	case nodeval.KindArray:
		if k.Terminal.Kind != pathkey.KindID {
			return ErrInvalidSuperNodeType
		}
	default:
		return ErrInvalidSuperNodeType
	}
	return nil
}

func debugEmissionCounts(keyBytes []byte, entries []shred.Entry) {
	counts := make(map[nodeval.Kind]int)
	for _, e := range entries {
		counts[e.Value.Kind]++
	}
	log.Debug().Hex("key", keyBytes).Interface("kind_counts", counts).Msg("docdb shredder emission")
}
