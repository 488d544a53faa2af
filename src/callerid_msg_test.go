package callerid

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// SDMF for 5551234 on January 1st at noon.
var sdmfExample = withChecksum(
	0x04, 0x0f,
	'0', '1', '0', '1', '1', '2', '0', '0',
	'5', '5', '5', '1', '2', '3', '4',
)

// withChecksum appends the byte which makes everything add up to 0.
func withChecksum(data ...byte) []byte {
	var sum byte
	for _, b := range data {
		sum += b
	}

	return append(data, -sum)
}

func receiveBytes(t *testing.T, capacity int, data []byte) *Message {
	t.Helper()

	var m = NewMessage(capacity)
	for _, b := range data {
		require.NoError(t, m.PushByte(b))
	}

	return m
}

func TestMessageSDMF(t *testing.T) {
	var m = receiveBytes(t, MAX_MESSAGE_LEN, sdmfExample)

	require.True(t, m.Complete())
	require.NoError(t, m.Validate())
	assert.Equal(t, MessageTypeSDMF, m.Type())
	assert.Equal(t, 15, m.PayloadLength())
	assert.Equal(t, len(sdmfExample), m.Len())

	var f, err = m.NextField()
	require.NoError(t, err)
	assert.Equal(t, FIELD_DATETIME, f.Tag)
	assert.Equal(t, "01011200", f.Value)

	f, err = m.NextField()
	require.NoError(t, err)
	assert.Equal(t, FIELD_PHONE_NUM, f.Tag)
	assert.Equal(t, KindPhoneNumber, f.Kind)
	assert.Equal(t, "5551234", f.Value)

	_, err = m.NextField()
	require.ErrorIs(t, err, io.EOF)

	// Still EOF.
	_, err = m.NextField()
	require.ErrorIs(t, err, io.EOF)
}

func TestMessageSDMFPrivate(t *testing.T) {
	var msg, err = BuildSDMF(MAX_MESSAGE_LEN, "01011200", "P")
	require.NoError(t, err)

	var m = receiveBytes(t, MAX_MESSAGE_LEN, msg.Bytes())

	var fields, ferr = m.Fields()
	require.NoError(t, ferr)
	require.Len(t, fields, 2)
	assert.Equal(t, KindNoNumber, fields[1].Kind)
	assert.Equal(t, FIELD_NO_NUM, fields[1].Tag)
	assert.Equal(t, byte(REASON_PRIVATE), fields[1].Reason())
}

func TestMessageMDMF(t *testing.T) {
	var data = withChecksum(
		0x80, 0x16,
		0x01, 0x08, '0', '1', '0', '1', '1', '2', '0', '0',
		0x07, 0x0a, 'J', 'O', 'H', 'N', ' ', 'S', 'M', 'I', 'T', 'H',
	)

	var m = receiveBytes(t, MAX_MESSAGE_LEN, data)

	var fields, err = m.Fields()
	require.NoError(t, err)
	require.Len(t, fields, 2)
	assert.Equal(t, Field{Kind: KindDateTime, Tag: FIELD_DATETIME, Name: "", Value: "01011200", Data: []byte("01011200")}, fields[0])
	assert.Equal(t, Field{Kind: KindPhoneName, Tag: FIELD_PHONE_NAME, Name: "", Value: "JOHN SMITH", Data: []byte("JOHN SMITH")}, fields[1])
}

func TestMessageChecksumInvariant(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		var payload = rapid.SliceOfN(rapid.Byte(), 0, 255).Draw(t, "payload")
		var msgType = rapid.SampledFrom([]byte{MessageTypeSDMF, MessageTypeMDMF}).Draw(t, "type")

		var data = withChecksum(append([]byte{msgType, byte(len(payload))}, payload...)...)

		var m = NewMessage(MAX_MESSAGE_LEN)
		for _, b := range data {
			if err := m.PushByte(b); err != nil {
				t.Fatalf("PushByte: %v", err)
			}
		}

		if !m.Complete() {
			t.Fatalf("not complete after %d bytes", len(data))
		}

		if err := m.Validate(); err != nil {
			t.Fatalf("Validate: %v", err)
		}

		// Changing any payload byte, or the checksum, is detected.
		var i = rapid.IntRange(2, len(data)-1).Draw(t, "corrupt")
		var delta = rapid.ByteRange(1, 255).Draw(t, "delta")

		var bad = append([]byte(nil), data...)
		bad[i] += delta

		var m2 = NewMessage(MAX_MESSAGE_LEN)
		for _, b := range bad {
			_ = m2.PushByte(b)
		}

		if err := m2.Validate(); !errors.Is(err, ErrChecksum) {
			t.Fatalf("corrupted byte %d: got %v", i, err)
		}
	})
}

func TestMessageBadChecksum(t *testing.T) {
	var data = append([]byte(nil), sdmfExample...)
	data[5] ^= 0x01

	var m = receiveBytes(t, MAX_MESSAGE_LEN, data)

	require.ErrorIs(t, m.Validate(), ErrChecksum)

	var _, err = m.NextField()
	require.ErrorIs(t, err, io.EOF)

	var fields, ferr = m.Fields()
	assert.Nil(t, fields)
	require.ErrorIs(t, ferr, ErrChecksum)
}

func TestMessageBadType(t *testing.T) {
	var m = receiveBytes(t, MAX_MESSAGE_LEN, withChecksum(0x81, 0x01, 0x00))

	require.ErrorIs(t, m.Validate(), ErrMessageType)
	assert.Equal(t, "0x81", MessageTypeName(m.Type()))
}

func TestMessageValidateIdempotent(t *testing.T) {
	var m = receiveBytes(t, MAX_MESSAGE_LEN, sdmfExample)

	require.NoError(t, m.Validate())
	require.NoError(t, m.Validate())

	require.ErrorIs(t, m.PushByte(0x00), ErrFrozen)
	require.NoError(t, m.Validate())
}

func TestMessageOverflow(t *testing.T) {
	var m = receiveBytes(t, MAX_MESSAGE_LEN, sdmfExample)

	var err = m.PushByte(0x55)
	require.ErrorIs(t, err, ErrOverflow)
	assert.Equal(t, len(sdmfExample), m.Len())
}

func TestMessageTruncated(t *testing.T) {
	// Declares 15 bytes of payload, only room for 10 bytes in all.
	var m = NewMessage(10)

	for i, b := range sdmfExample {
		var err = m.PushByte(b)
		if i < 10 {
			require.NoError(t, err)
		} else {
			require.ErrorIs(t, err, ErrOverflow)
		}
	}

	assert.True(t, m.Complete())
	assert.True(t, m.Truncated())
	require.ErrorIs(t, m.Validate(), ErrTruncated)
	assert.Equal(t, 10, m.Len())
}

func TestMessageIncomplete(t *testing.T) {
	var m = NewMessage(MAX_MESSAGE_LEN)
	require.NoError(t, m.PushByte(MessageTypeMDMF))

	assert.False(t, m.Complete())
	require.ErrorIs(t, m.Validate(), ErrTruncated)

	var empty = NewMessage(MAX_MESSAGE_LEN)
	assert.Equal(t, byte(0), empty.Type())
	require.ErrorIs(t, empty.Validate(), ErrTruncated)
}

func TestMessageMalformedRecord(t *testing.T) {
	// Second record claims 9 bytes, only 2 left.
	var m = receiveBytes(t, MAX_MESSAGE_LEN, withChecksum(0x80, 0x08, 0x02, 0x02, '5', '5', 0x07, 0x09, 'A', 'B'))

	var fields, err = m.Fields()
	require.Len(t, fields, 1)
	assert.Equal(t, "55", fields[0].Value)

	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 6, pe.Offset)
	assert.Equal(t, FIELD_PHONE_NAME, pe.Tag)
	assert.Equal(t, 9, pe.Want)
	assert.Equal(t, 2, pe.Have)

	_, err = m.NextField()
	require.ErrorIs(t, err, io.EOF)
}

func TestMessageMDMFMissingLength(t *testing.T) {
	var m = receiveBytes(t, MAX_MESSAGE_LEN, withChecksum(0x80, 0x01, 0x02))

	var _, err = m.NextField()

	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 2, pe.Want)
	assert.Equal(t, 1, pe.Have)
}

func TestMessageSDMFShort(t *testing.T) {
	var m = receiveBytes(t, MAX_MESSAGE_LEN, withChecksum(0x04, 0x03, '1', '2', '3'))

	var _, err = m.NextField()

	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, FIELD_DATETIME, pe.Tag)
}

func TestMessageEmptyMDMF(t *testing.T) {
	var m = receiveBytes(t, MAX_MESSAGE_LEN, []byte{0x80, 0x00, 0x80})

	require.NoError(t, m.Validate())

	var fields, err = m.Fields()
	require.NoError(t, err)
	assert.Empty(t, fields)
}

func TestMessageTypeName(t *testing.T) {
	assert.Equal(t, "SDMF", MessageTypeName(MessageTypeSDMF))
	assert.Equal(t, "MDMF", MessageTypeName(MessageTypeMDMF))
	assert.Equal(t, "0x00", MessageTypeName(0))
}
