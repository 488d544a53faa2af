package callerid

import (
	"fmt"
	"strings"
)

// Order of the 8 data bits within each character on the line.
type BitOrder int

const (
	LSBFirst BitOrder = iota // Normal for caller ID.
	MSBFirst
)

func (o BitOrder) String() string {
	if o == MSBFirst {
		return "msb"
	}

	return "lsb"
}

func LookupBitOrder(name string) (BitOrder, error) {
	switch strings.ToLower(name) {
	case "", "lsb", "lsb-first":
		return LSBFirst, nil
	case "msb", "msb-first":
		return MSBFirst, nil
	default:
		return LSBFirst, fmt.Errorf("unknown bit order %q", name)
	}
}

/*
 * Serialize bytes for sending.
 * When framed, each byte gets a start bit (0) in front and a stop bit (1) after.
 */

type bitStream struct {
	data   []byte
	order  BitOrder
	framed bool

	pos int // Current byte.
	bit int // Position within the character, including start and stop.
}

func newBitStream(data []byte, order BitOrder, framed bool) *bitStream {
	return &bitStream{data: data, order: order, framed: framed, pos: 0, bit: 0}
}

// next returns false when there are no more bits.
func (s *bitStream) next() (uint8, bool) {
	if s.pos >= len(s.data) {
		return 0, false
	}

	var b = s.data[s.pos]
	var n = s.bit
	var width = 8

	if s.framed {
		width = 10
	}

	s.bit++
	if s.bit >= width {
		s.bit = 0
		s.pos++
	}

	if s.framed {
		switch n {
		case 0:
			return 0, true
		case 9:
			return 1, true
		default:
			n--
		}
	}

	if s.order == MSBFirst {
		return (b >> (7 - n)) & 1, true
	}

	return (b >> n) & 1, true
}

// remaining bits, for estimates.
func (s *bitStream) remaining() int {
	var width = IfThenElse(s.framed, 10, 8)

	return (len(s.data)-s.pos)*width - s.bit
}
