package callerid

/*------------------------------------------------------------------
 *
 * Purpose:   	Put together a caller ID message for sending.
 *
 * Description:	Records are appended after the two header bytes.
 *		Finalize fills in the length and checksum.
 *
 *		SDMF and MDMF records shouldn't be mixed.  If they are,
 *		the last one added decides the type byte.
 *
 *---------------------------------------------------------------*/

import (
	"fmt"
)

type MessageBuilder struct {
	buf    []byte
	n      int
	frozen bool
}

func NewMessageBuilder(capacity int) *MessageBuilder {
	Assert(capacity >= MESSAGE_OVERHEAD)

	return &MessageBuilder{buf: make([]byte, capacity), n: 2, frozen: false}
}

// room keeps the last byte free for the checksum.
func (mb *MessageBuilder) room(need int) error {
	if mb.frozen {
		return ErrFrozen
	}

	if mb.n+need > len(mb.buf)-1 {
		return fmt.Errorf("%w: %d more bytes, %d free", ErrOverflow, need, len(mb.buf)-1-mb.n)
	}

	return nil
}

// AddSDMF appends the date and number as they are, no tag or length.
func (mb *MessageBuilder) AddSDMF(date string, number string) error {
	if err := mb.room(len(date) + len(number)); err != nil {
		return err
	}

	mb.buf[0] = MessageTypeSDMF
	mb.n += copy(mb.buf[mb.n:], date)
	mb.n += copy(mb.buf[mb.n:], number)

	return nil
}

func (mb *MessageBuilder) AddMDMF(tag FieldType, data []byte) error {
	if len(data) > 255 {
		return fmt.Errorf("%w: %s is %d", ErrFieldTooLong, tag, len(data))
	}

	if err := mb.room(2 + len(data)); err != nil {
		return err
	}

	mb.buf[0] = MessageTypeMDMF
	mb.buf[mb.n] = byte(tag)
	mb.buf[mb.n+1] = byte(len(data))
	mb.n += 2
	mb.n += copy(mb.buf[mb.n:], data)

	return nil
}

/*-------------------------------------------------------------------
 *
 * Name:        Finalize
 *
 * Purpose:     Fill in the length and checksum.
 *
 * Returns:	Complete, valid message ready for the modulator.
 *		The builder can't be used after this.
 *
 *--------------------------------------------------------------------*/

func (mb *MessageBuilder) Finalize() (*Message, error) {
	if mb.frozen {
		return nil, ErrFrozen
	}

	if mb.buf[0] == 0 {
		return nil, fmt.Errorf("%w: nothing added", ErrMessageType)
	}

	var payload = mb.n - 2
	if payload > 255 {
		return nil, fmt.Errorf("%w: %d", ErrPayloadTooLong, payload)
	}

	mb.buf[1] = byte(payload)

	var sum byte
	for _, b := range mb.buf[:mb.n] {
		sum += b
	}

	mb.buf[mb.n] = -sum // (256 - sum) mod 256
	mb.n++
	mb.frozen = true

	var total = mb.n

	return &Message{ //nolint:exhaustruct
		buf:      mb.buf[:total:total],
		wpos:     total,
		ppos:     2,
		total:    total,
		declared: payload,
		complete: true,
		ended:    true,
	}, nil
}

// Len so far, including the header.
func (mb *MessageBuilder) Len() int {
	return mb.n
}
