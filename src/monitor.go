package callerid

/*------------------------------------------------------------------
 *
 * Purpose:   	Watch a line for caller ID and pass each message on.
 *
 * Description:	Audio comes from an AudioInput: the sound card, a .WAV
 *		file or raw G.711 on stdin.  Each complete message,
 *		valid or not, becomes an Event which goes to every
 *		handler in turn.
 *
 *		A message which stops part way through is reported as
 *		truncated once the carrier has been present for longer
 *		than the largest message could take.
 *
 *---------------------------------------------------------------*/

import (
	"context"
	"encoding/binary"
	"errors"
	"io"
	"time"
)

// Longest time spent in the data state before giving up on a message.
// 258 bytes of 10 bits at 1200 baud is a little over 2 seconds.
const DEFAULT_MESSAGE_TIMEOUT = 4 * time.Second

type EventHandler func(ev Event)

type Monitor struct {
	channel  string
	rx       *Receiver
	handlers []EventHandler

	timeout_samples int
	data_samples    int
	chunk           int

	now func() time.Time

	messages int
	invalid  int
}

func NewMonitor(channel string, rx *Receiver, timeout time.Duration) *Monitor {
	var rate = rx.demod.SampleRate()

	return &Monitor{ //nolint:exhaustruct
		channel:         channel,
		rx:              rx,
		timeout_samples: int(timeout.Seconds() * float64(rate)),
		chunk:           captureFrames(rate),
		now:             time.Now,
	}
}

func (m *Monitor) AddHandler(h EventHandler) {
	m.handlers = append(m.handlers, h)
}

func (m *Monitor) Messages() int {
	return m.messages
}

func (m *Monitor) Invalid() int {
	return m.invalid
}

/*-------------------------------------------------------------------
 *
 * Name:        Process
 *
 * Purpose:     Run a block of audio through the receiver.
 *
 * Returns:	Number of messages finished, valid or not.
 *
 *--------------------------------------------------------------------*/

func (m *Monitor) Process(samples []int16) int {
	var n = 0

	for len(samples) > 0 {
		// A piece at a time so the timeout is noticed.
		var used, done = m.rx.FeedPCM(samples[:min(len(samples), m.chunk)])

		if m.rx.State() == StateData {
			m.data_samples += used
		}

		samples = samples[used:]

		switch {
		case done:
			m.finish()
			n++
		case m.timeout_samples > 0 && m.data_samples > m.timeout_samples:
			if m.rx.Message().Len() > 0 {
				m.finish()
				n++
			} else {
				logger.Debug("carrier without data", "channel", m.channel)
				m.reset()
			}
		}
	}

	return n
}

func (m *Monitor) finish() {
	var fields, err = m.rx.Decode()

	var ev = NewEventFromFields(m.channel, m.now(), m.rx.Message(), fields, err)

	m.messages++
	if !ev.Valid {
		m.invalid++
	}

	for _, h := range m.handlers {
		h(ev)
	}

	m.reset()
}

func (m *Monitor) reset() {
	m.rx.Reset()
	m.data_samples = 0
}

// Run until the input ends or ctx is cancelled.  End of input is not an error.
func (m *Monitor) Run(ctx context.Context, in AudioInput) error {
	for ctx.Err() == nil {
		var samples, err = in.Read()

		m.Process(samples)

		if errors.Is(err, io.EOF) {
			return nil
		}

		if err != nil {
			return err
		}
	}

	return nil
}

// PrintEvent is the handler for showing messages on the terminal.
func PrintEvent(ev Event) {
	dw_printf("\n")

	if ev.Valid {
		text_color_set(DW_COLOR_DECODED)
		dw_printf("[%s] %s %s\n", ev.Channel, ev.Time.Format("15:04:05"), ev.Type)
	} else {
		text_color_set(DW_COLOR_ERROR)
		dw_printf("[%s] %s %s: %s\n", ev.Channel, ev.Time.Format("15:04:05"), ev.Type, ev.Error)
	}

	for _, f := range ev.Fields {
		dw_printf("    %s\n", f)
	}

	text_color_set(DW_COLOR_INFO)
}

/*
 * Inputs other than the sound card.
 */

// pcmInput hands out samples already in memory, a block at a time.
type pcmInput struct {
	samples []int16
	block   int
}

func newPCMInput(samples []int16, block int) *pcmInput {
	return &pcmInput{samples: samples, block: max(block, 1)}
}

func (p *pcmInput) Read() ([]int16, error) {
	if len(p.samples) == 0 {
		return nil, io.EOF
	}

	var n = min(p.block, len(p.samples))
	var s = p.samples[:n]
	p.samples = p.samples[n:]

	return s, nil
}

func (p *pcmInput) Close() error {
	return nil
}

// codecInput reads raw audio, such as a telephony card or a pipe,
// in any of the G.711 codecs.
type codecInput struct {
	r     io.Reader
	codec Codec
	buf   []byte
	out   []int16
}

func newCodecInput(r io.Reader, codec Codec, frames int) *codecInput {
	var width = IfThenElse(codec == CodecLinear, 2, 1)

	return &codecInput{
		r:     r,
		codec: codec,
		buf:   make([]byte, frames*width),
		out:   nil,
	}
}

func (c *codecInput) Read() ([]int16, error) {
	var n, err = io.ReadFull(c.r, c.buf)

	if errors.Is(err, io.ErrUnexpectedEOF) {
		err = io.EOF
	}

	if c.codec == CodecLinear {
		n -= n % 2
		c.out = c.out[:0]

		for i := 0; i < n; i += 2 {
			c.out = append(c.out, int16(binary.LittleEndian.Uint16(c.buf[i:])))
		}

		return c.out, err
	}

	return ExpandG711(c.codec, c.buf[:n]), err
}

func (c *codecInput) Close() error {
	if closer, ok := c.r.(io.Closer); ok {
		return closer.Close()
	}

	return nil
}
