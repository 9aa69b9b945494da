package varid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	values := []uint64{0, 1, 0x7F, 0x80, 0x3FFF, 0x4000, 1 << 35, ^uint64(0)}
	for _, v := range values {
		enc := Encode(v)
		got, n, err := Decode(enc)
		require.NoError(t, err)
		assert.Equal(t, len(enc), n)
		assert.Equal(t, v, got)
	}
}

func TestEncodeSingleByteForSmallValues(t *testing.T) {
	assert.Equal(t, []byte{0x00}, Encode(0))
	assert.Equal(t, []byte{0x7F}, Encode(0x7F))
	assert.Len(t, Encode(0x80), 2)
}

func TestEncodeBoundaryLiteralBytes(t *testing.T) {
	assert.Equal(t, []byte{0x7F}, Encode(127))
	assert.Equal(t, []byte{0x80, 0x01}, Encode(128))
	assert.Equal(t, []byte{0xAC, 0x02}, Encode(300))
}

func TestDecodeTruncatedBuffer(t *testing.T) {
	enc := Encode(1 << 20)
	_, _, err := Decode(enc[:len(enc)-1])
	assert.ErrorIs(t, err, ErrInvalidLength)
}

func TestDecodeMaxLen(t *testing.T) {
	enc := Encode(^uint64(0))
	assert.LessOrEqual(t, len(enc), MaxLen)
	got, n, err := Decode(enc)
	require.NoError(t, err)
	assert.Equal(t, ^uint64(0), got)
	assert.Equal(t, len(enc), n)
}

func TestDecodeOverflow(t *testing.T) {
	buf := make([]byte, MaxLen)
	for i := range buf {
		buf[i] = 0xFF
	}
	_, _, err := Decode(buf)
	assert.ErrorIs(t, err, ErrOverflow)
}

func TestCheckedAdd(t *testing.T) {
	sum, err := CheckedAdd(1, 2)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), sum)

	_, err = CheckedAdd(^uint64(0), 1)
	assert.ErrorIs(t, err, ErrOverflow)
}
