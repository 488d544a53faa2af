package callerid

/*------------------------------------------------------------------
 *
 * Purpose:   	Switch the audio onto the telephone line, using a
 *		GPIO output, for as long as caller ID is being sent.
 *		Much like push to talk for a radio.
 *
 *---------------------------------------------------------------*/

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// Keyer is anything which can be turned on before sending and off after.
type Keyer interface {
	Key(on bool) error
}

type LineRelay struct {
	line   *gpiocdev.Line
	invert bool
}

/*-------------------------------------------------------------------
 *
 * Name:	OpenLineRelay
 *
 * Inputs:	chip	- Such as gpiochip0.
 *
 *		offset	- Line number on the chip.
 *
 *		invert	- Active low.
 *
 *---------------------------------------------------------------*/

func OpenLineRelay(chip string, offset int, invert bool) (*LineRelay, error) {
	var idle = IfThenElse(invert, 1, 0)

	var line, err = gpiocdev.RequestLine(chip, offset, gpiocdev.AsOutput(idle), gpiocdev.WithConsumer("callerid"))
	if err != nil {
		return nil, fmt.Errorf("gpio %s line %d: %w", chip, offset, err)
	}

	return &LineRelay{line: line, invert: invert}, nil
}

func (r *LineRelay) Key(on bool) error {
	var v = IfThenElse(on != r.invert, 1, 0)

	if err := r.line.SetValue(v); err != nil {
		return fmt.Errorf("gpio set %d: %w", v, err)
	}

	return nil
}

func (r *LineRelay) Close() error {
	return r.line.Close() //nolint:wrapcheck
}

/*-------------------------------------------------------------------
 *
 * Name:	SendKeyed
 *
 * Purpose:	Key, send everything, unkey.
 *
 * Inputs:	keyer	- May be nil.
 *
 *---------------------------------------------------------------*/

func SendKeyed(m *Modulator, sink SampleSink, keyer Keyer) error {
	if keyer == nil {
		return m.SendAll(sink)
	}

	if err := keyer.Key(true); err != nil {
		return err
	}

	var err = m.SendAll(sink)

	if uerr := keyer.Key(false); uerr != nil && err == nil {
		err = uerr
	}

	return err
}
