package callerid

/*------------------------------------------------------------------
 *
 * Purpose:   	Caller ID message, as it appears on the line.
 *
 * Description:	byte 0		message type, SDMF or MDMF.
 *		byte 1		payload length, L.
 *		bytes 2..L+1	payload.
 *		byte L+2	checksum.  All bytes add up to 0, mod 256.
 *
 *		MDMF payload is a series of tag, length, data records.
 *		SDMF payload is an 8 character date followed by the
 *		number or a single privacy / out of area indicator.
 *
 *		A received message is filled in by PushByte, checked by
 *		Validate, then taken apart by NextField.
 *
 *---------------------------------------------------------------*/

import (
	"errors"
	"fmt"
	"io"
)

const (
	MessageTypeSDMF byte = 0x04
	MessageTypeMDMF byte = 0x80
)

// Header is type and length.  One more byte for the checksum.
const MESSAGE_OVERHEAD = 3

// Big enough for any message.
const MAX_MESSAGE_LEN = 255 + MESSAGE_OVERHEAD

const SDMF_DATETIME_LEN = 8

var (
	ErrOverflow       = errors.New("message buffer overflow")
	ErrChecksum       = errors.New("checksum error")
	ErrMessageType    = errors.New("unknown message type")
	ErrTruncated      = errors.New("message truncated")
	ErrFrozen         = errors.New("message already finalized")
	ErrFieldTooLong   = errors.New("field longer than 255 bytes")
	ErrPayloadTooLong = errors.New("payload longer than 255 bytes")
)

// ParseError is a record which runs past the end of the payload.
// No more records are produced after one of these.
type ParseError struct {
	Offset int       // Of the record within the message.
	Tag    FieldType // 0 if the tag itself was missing.
	Want   int       // Bytes needed.
	Have   int       // Bytes left.
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("malformed %s record at offset %d: need %d bytes, %d left", e.Tag, e.Offset, e.Want, e.Have)
}

type Message struct {
	buf       []byte // Fixed capacity.
	wpos      int    // Bytes received.
	ppos      int    // Parse position.
	total     int    // Expected length, including header and checksum.
	declared  int    // Payload length from byte 1.
	complete  bool
	truncated bool // Declared length didn't fit.
	ended     bool // No more bytes will be accepted.

	checked bool
	valid   error
}

// NewMessage makes an empty message for receiving, which can
// never grow beyond capacity bytes.
func NewMessage(capacity int) *Message {
	Assert(capacity > 0)

	return &Message{ //nolint:exhaustruct
		buf:  make([]byte, capacity),
		ppos: 2,
	}
}

/*-------------------------------------------------------------------
 *
 * Name:        PushByte
 *
 * Purpose:     Add the next received byte.
 *
 * Returns:	ErrOverflow if the message is already complete or the
 *		buffer is full.  The byte is discarded.
 *		ErrFrozen after Validate.
 *
 * Description:	When the length byte arrives the expected total is known.
 *		If that won't fit, the total is cut down to the capacity
 *		and the message will fail validation with ErrTruncated.
 *
 *--------------------------------------------------------------------*/

func (m *Message) PushByte(b byte) error {
	if m.ended {
		return ErrFrozen
	}

	if m.complete || m.wpos >= len(m.buf) {
		m.complete = true
		return fmt.Errorf("%w: capacity %d, expected %d", ErrOverflow, len(m.buf), m.total)
	}

	m.buf[m.wpos] = b
	m.wpos++

	if m.wpos == 2 {
		m.declared = int(b)
		m.total = m.declared + MESSAGE_OVERHEAD

		if m.total > len(m.buf) {
			logger.Warn("message longer than buffer", "declared", m.declared, "capacity", len(m.buf))
			m.total = len(m.buf)
			m.truncated = true
		}
	}

	if m.wpos >= 2 && m.wpos >= m.total {
		m.complete = true
	}

	return nil
}

// Complete is true once the declared length, or the capacity, has been reached.
func (m *Message) Complete() bool {
	return m.complete
}

func (m *Message) Truncated() bool {
	return m.truncated
}

/*-------------------------------------------------------------------
 *
 * Name:        Validate
 *
 * Purpose:     Check the checksum and message type.
 *
 * Returns:	nil, ErrTruncated, ErrMessageType or ErrChecksum.
 *
 * Description:	No more bytes are accepted afterwards so the answer
 *		is always the same if called again.
 *
 *--------------------------------------------------------------------*/

func (m *Message) Validate() error {
	if m.checked {
		return m.valid
	}

	m.checked = true
	m.ended = true
	m.valid = m.validate()

	if m.valid != nil {
		logger.Warn("invalid message", "err", m.valid, "bytes", HexBytes(m.Bytes()))
	}

	return m.valid
}

func (m *Message) validate() error {
	if m.wpos < 2 || m.truncated || m.wpos < m.total {
		return fmt.Errorf("%w: %d of %d bytes", ErrTruncated, m.wpos, m.total)
	}

	if m.buf[0] != MessageTypeSDMF && m.buf[0] != MessageTypeMDMF {
		return fmt.Errorf("%w: 0x%02x", ErrMessageType, m.buf[0])
	}

	var sum byte
	for _, b := range m.buf[:m.wpos] {
		sum += b
	}

	if sum != 0 {
		return fmt.Errorf("%w: sum 0x%02x", ErrChecksum, sum)
	}

	return nil
}

/*-------------------------------------------------------------------
 *
 * Name:        NextField
 *
 * Purpose:     Take the next record out of a valid message.
 *
 * Returns:	io.EOF when there are no more, or the message is invalid.
 *		*ParseError for a record which doesn't fit.  Everything
 *		after that is io.EOF as well.
 *
 * Description:	SDMF is presented the same way as MDMF.  The first record
 *		is always the date.  Then a 'P' or 'O' means no number,
 *		anything else is the number, taking the rest of the payload.
 *
 *--------------------------------------------------------------------*/

func (m *Message) NextField() (Field, error) {
	if m.Validate() != nil {
		return Field{}, io.EOF //nolint:exhaustruct
	}

	var end = m.total - 1 // Checksum position.

	if m.ppos >= end {
		return Field{}, io.EOF //nolint:exhaustruct
	}

	var start = m.ppos
	var tag FieldType
	var length int

	if m.buf[0] == MessageTypeMDMF {
		if end-m.ppos < 2 {
			m.ppos = end
			return Field{}, &ParseError{Offset: start, Tag: 0, Want: 2, Have: end - start} //nolint:exhaustruct
		}

		tag = FieldType(m.buf[m.ppos])
		length = int(m.buf[m.ppos+1])
		m.ppos += 2
	} else {
		switch {
		case m.ppos == 2:
			tag = FIELD_DATETIME
			length = SDMF_DATETIME_LEN
		case m.buf[m.ppos] == REASON_PRIVATE || m.buf[m.ppos] == REASON_UNAVAILABLE:
			tag = FIELD_NO_NUM
			length = 1
		default:
			tag = FIELD_PHONE_NUM
			length = m.declared - SDMF_DATETIME_LEN
		}
	}

	if length < 0 || length > end-m.ppos {
		var have = end - m.ppos
		m.ppos = end
		return Field{}, &ParseError{Offset: start, Tag: tag, Want: length, Have: have}
	}

	var f = newField(tag, m.buf[m.ppos:m.ppos+length])
	m.ppos += length

	return f, nil
}

// Fields collects the remaining records.  On a parse error the records
// before it are returned with the error.
func (m *Message) Fields() ([]Field, error) {
	var fields []Field

	if err := m.Validate(); err != nil {
		return nil, err
	}

	for {
		var f, err = m.NextField()
		if errors.Is(err, io.EOF) {
			return fields, nil
		}

		if err != nil {
			return fields, err
		}

		fields = append(fields, f)
	}
}

// Bytes received, or built, so far.
func (m *Message) Bytes() []byte {
	return m.buf[:m.wpos]
}

func (m *Message) Len() int {
	return m.wpos
}

func (m *Message) Capacity() int {
	return len(m.buf)
}

// Type is the first byte, 0 if nothing has arrived.
func (m *Message) Type() byte {
	if m.wpos == 0 {
		return 0
	}

	return m.buf[0]
}

// PayloadLength is the declared length from byte 1.
func (m *Message) PayloadLength() int {
	return m.declared
}

// MessageTypeName for display.
func MessageTypeName(t byte) string {
	switch t {
	case MessageTypeSDMF:
		return "SDMF"
	case MessageTypeMDMF:
		return "MDMF"
	default:
		return fmt.Sprintf("0x%02x", t)
	}
}
