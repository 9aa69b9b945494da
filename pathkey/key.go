// Package pathkey implements the path-addressable key layout: an ordered
// list of ancestor node ids, a 0x00 separator, and a terminal locator
// (field name, array index, or root marker). Because every stored id is
// biased by +1 before encoding, no ancestor VarId byte is ever zero, so the
// separator is unambiguously the first zero byte in the buffer. The
// resulting byte order matches tree order: every descendant's key begins
// with the encoded ancestor ids of the node it descends from, and a key's
// super-prefix is its parent's encoded key up to and including the separator.
package pathkey

import (
	"bytes"

	"golang.org/x/xerrors"

	"github.com/panicfrog/dm-cache/varid"
)

// ErrInvalidLength is returned when a key buffer ends before the separator
// or before a complete terminal locator.
var ErrInvalidLength = xerrors.New("pathkey: invalid length")

// Kind discriminates the terminal locator of a Key.
type Kind uint8

const (
	KindField Kind = 0x01
	KindID    Kind = 0x02
	KindRoot  Kind = 0x03
)

const separator = 0x00

// Index is the terminal locator of a Key: an object member name, an array
// element's ordinal position, or the root marker.
type Index struct {
	Kind  Kind
	Field []byte
	ID    uint64
}

// Field builds a Field terminal locator from an object member name.
func Field(name []byte) Index { return Index{Kind: KindField, Field: name} }

// ID builds an Id terminal locator from an array element's ordinal position.
func ID(id uint64) Index { return Index{Kind: KindID, ID: id} }

// Root builds the Root terminal locator.
func Root() Index { return Index{Kind: KindRoot} }

func (ix Index) encode() []byte {
	switch ix.Kind {
	case KindField:
		buf := make([]byte, 0, 1+len(ix.Field))
		buf = append(buf, byte(KindField))
		buf = append(buf, ix.Field...)
		return buf
	case KindID:
		enc := varid.Encode(ix.ID)
		buf := make([]byte, 0, 1+len(enc))
		buf = append(buf, byte(KindID))
		buf = append(buf, enc...)
		return buf
	case KindRoot:
		return []byte{byte(KindRoot)}
	default:
		return nil
	}
}

func decodeIndex(b []byte) (Index, error) {
	if len(b) == 0 {
		return Index{}, ErrInvalidLength
	}
	switch Kind(b[0]) {
	case KindField:
		return Index{Kind: KindField, Field: b[1:]}, nil
	case KindID:
		id, n, err := varid.Decode(b[1:])
		if err != nil {
			return Index{}, xerrors.Errorf("pathkey: %w", err)
		}
		if n != len(b)-1 {
			return Index{}, ErrInvalidLength
		}
		return Index{Kind: KindID, ID: id}, nil
	case KindRoot:
		if len(b) != 1 {
			return Index{}, ErrInvalidLength
		}
		return Index{Kind: KindRoot}, nil
	default:
		return Index{}, ErrInvalidLength
	}
}

// Key is an ordered list of ancestor node ids plus a terminal locator.
type Key struct {
	Ancestors []uint64
	Terminal  Index
}

// SubKey appends id to the ancestor list and replaces the terminal locator,
// without mutating k.
func SubKey(k Key, id uint64, term Index) Key {
	ancestors := make([]uint64, len(k.Ancestors)+1)
	copy(ancestors, k.Ancestors)
	ancestors[len(k.Ancestors)] = id
	return Key{Ancestors: ancestors, Terminal: term}
}

// Encode serializes k per the on-disk key layout.
func Encode(k Key) []byte {
	var buf bytes.Buffer
	for _, id := range k.Ancestors {
		buf.Write(varid.Encode(id + 1))
	}
	buf.WriteByte(separator)
	buf.Write(k.Terminal.encode())
	return buf.Bytes()
}

// Decode parses b into a Key, reading biased ancestor ids until the 0x00
// separator and decoding the remainder as the terminal locator.
func Decode(b []byte) (Key, error) {
	var ancestors []uint64
	rest := b
	for {
		if len(rest) == 0 {
			return Key{}, ErrInvalidLength
		}
		if rest[0] == separator {
			rest = rest[1:]
			break
		}
		biased, n, err := varid.Decode(rest)
		if err != nil {
			return Key{}, xerrors.Errorf("pathkey: %w", err)
		}
		if biased == 0 {
			// a biased id of 0 would mean an original id of -1; no
			// ancestor id of a well-formed key decodes to zero.
			return Key{}, ErrInvalidLength
		}
		ancestors = append(ancestors, biased-1)
		rest = rest[n:]
	}
	term, err := decodeIndex(rest)
	if err != nil {
		return Key{}, err
	}
	return Key{Ancestors: ancestors, Terminal: term}, nil
}

// SuperPrefix returns the byte prefix that opens k's parent's descendant
// range: every ancestor id but the last, followed by the separator.
func SuperPrefix(k Key) []byte {
	var buf bytes.Buffer
	if len(k.Ancestors) > 0 {
		for _, id := range k.Ancestors[:len(k.Ancestors)-1] {
			buf.Write(varid.Encode(id + 1))
		}
	}
	buf.WriteByte(separator)
	return buf.Bytes()
}
