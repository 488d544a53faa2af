package callerid

/*------------------------------------------------------------------
 *
 * Purpose:   	Asynchronous serial framing of received bits.
 *
 * Description:	Wait for a start bit (0), then collect 8 data bits,
 *		least significant first.  The stop bit is not checked.
 *		It is simply ignored while looking for the next start bit.
 *
 *---------------------------------------------------------------*/

type BitFramer struct {
	have_start bool
	data       byte
	bit_count  int
}

/*-------------------------------------------------------------------
 *
 * Name:        FeedBit
 *
 * Inputs:	bit	- 0 or 1.  Anything non-zero is taken as 1.
 *
 * Returns:	A byte and true after the 8th data bit.
 *
 *--------------------------------------------------------------------*/

func (u *BitFramer) FeedBit(bit uint8) (byte, bool) {
	if !u.have_start {
		if bit == 0 {
			u.have_start = true
			u.data = 0
			u.bit_count = 0
		}

		return 0, false
	}

	u.data >>= 1
	if bit != 0 {
		u.data |= 0x80
	}
	u.bit_count++

	if u.bit_count < 8 {
		return 0, false
	}

	u.have_start = false

	return u.data, true
}

func (u *BitFramer) Reset() {
	*u = BitFramer{} //nolint:exhaustruct
}

// InByte is true between a start bit and the last data bit.
func (u *BitFramer) InByte() bool {
	return u.have_start
}
