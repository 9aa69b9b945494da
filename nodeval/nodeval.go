// Package nodeval encodes the value stored at a path key: a scalar (null,
// bool, one of three numeric representations, or string) or a container
// marker (array or object). Container markers carry no child list —
// children are discovered separately by range-scanning descendant keys in
// the pathkey space.
package nodeval

import (
	"encoding/binary"
	"math"

	"golang.org/x/xerrors"
)

// ErrInvalidLength is returned when a buffer is too short for its tag's payload.
var ErrInvalidLength = xerrors.New("nodeval: invalid length")

// ErrInvalidType is returned when the leading tag byte is not one of the
// known NodeValue discriminants.
var ErrInvalidType = xerrors.New("nodeval: invalid type")

// Kind is the discriminant byte stored ahead of a node's payload.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindF64
	KindI64
	KindU64
	KindString
	KindArray
	KindObject
)

// Value is the decoded payload stored at a path key.
type Value struct {
	Kind Kind
	B    bool
	F64  float64
	I64  int64
	U64  uint64
	Str  []byte
}

func Null() Value           { return Value{Kind: KindNull} }
func Bool(b bool) Value     { return Value{Kind: KindBool, B: b} }
func F64(f float64) Value   { return Value{Kind: KindF64, F64: f} }
func I64(i int64) Value     { return Value{Kind: KindI64, I64: i} }
func U64(u uint64) Value    { return Value{Kind: KindU64, U64: u} }
func String(s []byte) Value { return Value{Kind: KindString, Str: s} }
func Array() Value          { return Value{Kind: KindArray} }
func Object() Value         { return Value{Kind: KindObject} }

// Encode serializes v as <tag><payload>.
func Encode(v Value) []byte {
	switch v.Kind {
	case KindNull:
		return []byte{byte(KindNull)}
	case KindBool:
		b := byte(0)
		if v.B {
			b = 1
		}
		return []byte{byte(KindBool), b}
	case KindF64:
		buf := make([]byte, 9)
		buf[0] = byte(KindF64)
		binary.BigEndian.PutUint64(buf[1:], math.Float64bits(v.F64))
		return buf
	case KindI64:
		buf := make([]byte, 9)
		buf[0] = byte(KindI64)
		binary.BigEndian.PutUint64(buf[1:], uint64(v.I64))
		return buf
	case KindU64:
		buf := make([]byte, 9)
		buf[0] = byte(KindU64)
		binary.BigEndian.PutUint64(buf[1:], v.U64)
		return buf
	case KindString:
		buf := make([]byte, 1+len(v.Str))
		buf[0] = byte(KindString)
		copy(buf[1:], v.Str)
		return buf
	case KindArray:
		return []byte{byte(KindArray)}
	case KindObject:
		return []byte{byte(KindObject)}
	default:
		return nil
	}
}

// Decode parses a <tag><payload> buffer into a Value.
func Decode(b []byte) (Value, error) {
	if len(b) == 0 {
		return Value{}, ErrInvalidLength
	}
	switch Kind(b[0]) {
	case KindNull:
		return Null(), nil
	case KindBool:
		if len(b) < 2 {
			return Value{}, ErrInvalidLength
		}
		return Bool(b[1] != 0), nil
	case KindF64:
		if len(b) < 9 {
			return Value{}, ErrInvalidLength
		}
		return F64(math.Float64frombits(binary.BigEndian.Uint64(b[1:9]))), nil
	case KindI64:
		if len(b) < 9 {
			return Value{}, ErrInvalidLength
		}
		return I64(int64(binary.BigEndian.Uint64(b[1:9]))), nil
	case KindU64:
		if len(b) < 9 {
			return Value{}, ErrInvalidLength
		}
		return U64(binary.BigEndian.Uint64(b[1:9])), nil
	case KindString:
		return String(b[1:]), nil
	case KindArray:
		return Array(), nil
	case KindObject:
		return Object(), nil
	default:
		return Value{}, ErrInvalidType
	}
}
