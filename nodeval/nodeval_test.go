package nodeval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	cases := []Value{
		Null(),
		Bool(true),
		Bool(false),
		F64(3.14159),
		F64(-0.0),
		I64(-9223372036854775808),
		U64(18446744073709551615),
		String([]byte("hello, world")),
		String([]byte{}),
		Array(),
		Object(),
	}
	for _, v := range cases {
		enc := Encode(v)
		got, err := Decode(enc)
		require.NoError(t, err)
		assert.Equal(t, v.Kind, got.Kind)
		switch v.Kind {
		case KindBool:
			assert.Equal(t, v.B, got.B)
		case KindF64:
			assert.Equal(t, v.F64, got.F64)
		case KindI64:
			assert.Equal(t, v.I64, got.I64)
		case KindU64:
			assert.Equal(t, v.U64, got.U64)
		case KindString:
			assert.Equal(t, v.Str, got.Str)
		}
	}
}

func TestDecodeEmptyBuffer(t *testing.T) {
	_, err := Decode(nil)
	assert.ErrorIs(t, err, ErrInvalidLength)
}

func TestDecodeTruncatedFixedWidthPayload(t *testing.T) {
	enc := Encode(U64(42))
	_, err := Decode(enc[:len(enc)-1])
	assert.ErrorIs(t, err, ErrInvalidLength)

	enc = Encode(Bool(true))
	_, err = Decode(enc[:1])
	assert.ErrorIs(t, err, ErrInvalidLength)
}

func TestDecodeUnknownTag(t *testing.T) {
	_, err := Decode([]byte{0xFF})
	assert.ErrorIs(t, err, ErrInvalidType)
}

func TestU64VsI64VsF64AreDistinctTags(t *testing.T) {
	u := Encode(U64(7))
	i := Encode(I64(7))
	f := Encode(F64(7))
	assert.NotEqual(t, u[0], i[0])
	assert.NotEqual(t, u[0], f[0])
	assert.NotEqual(t, i[0], f[0])
}
