package callerid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestULaw(t *testing.T) {
	assert.Equal(t, int16(0), ulawToLinear(0xff))
	assert.Equal(t, int16(0), ulawToLinear(0x7f))
	assert.Equal(t, int16(-32124), ulawToLinear(0x00))
	assert.Equal(t, int16(32124), ulawToLinear(0x80))
	assert.Equal(t, int16(-8), ulawToLinear(0x7e))
}

func TestALaw(t *testing.T) {
	assert.Equal(t, int16(8), alawToLinear(0xd5))
	assert.Equal(t, int16(-8), alawToLinear(0x55))
	assert.Equal(t, int16(32256), alawToLinear(0xaa))
	assert.Equal(t, int16(-32256), alawToLinear(0x2a))
}

func TestG711Monotonic(t *testing.T) {
	// Positive codes in order of increasing magnitude.
	var prevU, prevA int16

	for i := range 128 {
		var u = ulawToLinear(byte(0xff - i))
		var a = alawToLinear(byte(i) ^ 0xd5)

		if i > 0 {
			assert.Greater(t, u, prevU, "ulaw %d", i)
			assert.Greater(t, a, prevA, "alaw %d", i)
		}

		prevU, prevA = u, a
	}
}

func TestExpandG711(t *testing.T) {
	assert.Equal(t, []int16{0, -32124}, ExpandG711(CodecULaw, []byte{0xff, 0x00}))
	assert.Equal(t, []int16{8, -8}, ExpandG711(CodecALaw, []byte{0xd5, 0x55}))
}

func TestLookupCodec(t *testing.T) {
	for _, c := range []Codec{CodecLinear, CodecULaw, CodecALaw} {
		var got, err = LookupCodec(c.String())
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}

	var c, err = LookupCodec("PCMU")
	require.NoError(t, err)
	assert.Equal(t, CodecULaw, c)

	_, err = LookupCodec("gsm")
	require.Error(t, err)
}
