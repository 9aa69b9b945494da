package pathkey

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTripRoot(t *testing.T) {
	k := Key{Terminal: Root()}
	enc := Encode(k)
	got, err := Decode(enc)
	require.NoError(t, err)
	assert.Empty(t, got.Ancestors)
	assert.Equal(t, KindRoot, got.Terminal.Kind)
}

func TestEncodeDecodeRoundTripField(t *testing.T) {
	k := Key{Ancestors: []uint64{1, 2, 3}, Terminal: Field([]byte("name"))}
	enc := Encode(k)
	got, err := Decode(enc)
	require.NoError(t, err)
	assert.Equal(t, k.Ancestors, got.Ancestors)
	assert.Equal(t, KindField, got.Terminal.Kind)
	assert.Equal(t, []byte("name"), got.Terminal.Field)
}

func TestEncodeDecodeRoundTripID(t *testing.T) {
	k := Key{Ancestors: []uint64{42}, Terminal: ID(7)}
	enc := Encode(k)
	got, err := Decode(enc)
	require.NoError(t, err)
	assert.Equal(t, k.Ancestors, got.Ancestors)
	assert.Equal(t, KindID, got.Terminal.Kind)
	assert.Equal(t, uint64(7), got.Terminal.ID)
}

func TestSubKeyDoesNotMutateParent(t *testing.T) {
	parent := Key{Ancestors: []uint64{1}, Terminal: Field([]byte("a"))}
	child := SubKey(parent, 2, Field([]byte("b")))
	assert.Equal(t, []uint64{1}, parent.Ancestors)
	assert.Equal(t, []uint64{1, 2}, child.Ancestors)
}

func TestSuperPrefixMatchesParentKeyBytes(t *testing.T) {
	parent := Key{Ancestors: []uint64{1, 2}, Terminal: Root()}
	child := SubKey(parent, 3, Field([]byte("x")))

	// the parent's own encoded key, minus terminal, is the super prefix of the child.
	parentPrefix := SuperPrefix(child)
	parentKeyForRoot := Key{Ancestors: []uint64{1}, Terminal: Root()}
	_ = parentKeyForRoot

	parentEnc := Encode(parent)
	assert.True(t, len(parentEnc) >= len(parentPrefix))
	assert.Equal(t, parentPrefix, parentEnc[:len(parentPrefix)])
}

func TestNoInteriorZeroByteInPositiveVarId(t *testing.T) {
	k := Key{Ancestors: []uint64{0, 1, 0x7F, 0x80, 1 << 20}, Terminal: Field([]byte("leaf"))}
	enc := Encode(k)
	// find separator: the first zero byte must be the true separator, not an
	// artifact inside a biased ancestor id.
	sepIdx := -1
	for i, b := range enc {
		if b == 0x00 {
			sepIdx = i
			break
		}
	}
	require.NotEqual(t, -1, sepIdx)
	// the separator is followed only by the Field tag byte and the name.
	assert.Equal(t, len(enc)-2-len("leaf"), sepIdx)
	got, err := Decode(enc)
	require.NoError(t, err)
	assert.Equal(t, k.Ancestors, got.Ancestors)
}

func TestDecodeTruncatedBuffer(t *testing.T) {
	_, err := Decode([]byte{0x01})
	assert.ErrorIs(t, err, ErrInvalidLength)
}

func TestDecodeMissingTerminal(t *testing.T) {
	_, err := Decode([]byte{0x00})
	assert.ErrorIs(t, err, ErrInvalidLength)
}
