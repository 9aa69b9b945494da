// Package journal implements the single metadata record tracking the
// schema version, the last-issued node identifier, and the set of known
// document roots. It is rewritten atomically alongside every shredded
// document so that crash recovery never observes a document without its
// corresponding last_id advance, or vice versa.
package journal

import (
	"encoding/binary"

	"golang.org/x/xerrors"
)

// ErrInvalidLength is returned when a buffer is shorter than the fixed
// header or a root record runs past the end of the buffer.
var ErrInvalidLength = xerrors.New("journal: invalid length")

// headerLen is the fixed-width version+last_id+last_timestamp header.
const headerLen = 8 * 3

// maxRootKeyLen is the largest root key the single-byte length prefix can record.
const maxRootKeyLen = 255

// Metadata is the single journal record.
type Metadata struct {
	Version       uint64
	LastID        uint64
	LastTimestamp uint64
	Roots         map[string]struct{}
}

// New returns an empty Metadata for a freshly opened store.
func New() *Metadata {
	return &Metadata{Roots: make(map[string]struct{})}
}

// Clone returns a deep copy suitable for speculative mutation ahead of a commit.
func (m *Metadata) Clone() *Metadata {
	roots := make(map[string]struct{}, len(m.Roots))
	for k := range m.Roots {
		roots[k] = struct{}{}
	}
	return &Metadata{
		Version:       m.Version,
		LastID:        m.LastID,
		LastTimestamp: m.LastTimestamp,
		Roots:         roots,
	}
}

// Encode serializes m as the fixed header followed by len-prefixed root records.
func (m *Metadata) Encode() []byte {
	size := headerLen
	for k := range m.Roots {
		size += 1 + len(k)
	}
	buf := make([]byte, headerLen, size)
	binary.BigEndian.PutUint64(buf[0:8], m.Version)
	binary.BigEndian.PutUint64(buf[8:16], m.LastID)
	binary.BigEndian.PutUint64(buf[16:24], m.LastTimestamp)
	for k := range m.Roots {
		buf = append(buf, byte(len(k)))
		buf = append(buf, k...)
	}
	return buf
}

// Decode parses buf into a Metadata record.
func Decode(buf []byte) (*Metadata, error) {
	if len(buf) < headerLen {
		return nil, ErrInvalidLength
	}
	m := &Metadata{
		Version:       binary.BigEndian.Uint64(buf[0:8]),
		LastID:        binary.BigEndian.Uint64(buf[8:16]),
		LastTimestamp: binary.BigEndian.Uint64(buf[16:24]),
		Roots:         make(map[string]struct{}),
	}
	offset := headerLen
	for offset < len(buf) {
		rootLen := int(buf[offset])
		if offset+1+rootLen > len(buf) {
			return nil, ErrInvalidLength
		}
		root := string(buf[offset+1 : offset+1+rootLen])
		m.Roots[root] = struct{}{}
		offset += 1 + rootLen
	}
	return m, nil
}

// MaxRootKeyLen is the largest root key byte length the journal can record.
func MaxRootKeyLen() int { return maxRootKeyLen }
