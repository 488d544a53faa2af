package callerid

/*------------------------------------------------------------------
 *
 * Purpose:   	Send a caller ID message as FSK audio.
 *
 * Description:	The sequence on the line is:
 *
 *		- Channel seizure, alternating 0 and 1.
 *		- Mark carrier.
 *		- The message, each byte with start and stop bits.
 *		- A little more mark.
 *
 *		Samples are handed to a sink in blocks.  If the sink
 *		refuses a block nothing more is sent.
 *
 *---------------------------------------------------------------*/

import (
	"errors"
	"fmt"
)

// Fixed point scale for the fractional samples per bit.
const FSK_MOD_FACTOR = 0x10000

// Preferred block size, 20 ms at 8000 samples per second.
const DEFAULT_BLOCK_SAMPLES = 160

var ErrSinkRejected = errors.New("sample sink rejected audio")

// SampleSink receives the audio.  The slice is reused after the call returns.
type SampleSink interface {
	WriteSamples(samples []int16) error
}

type SampleSinkFunc func(samples []int16) error

func (f SampleSinkFunc) WriteSamples(samples []int16) error {
	return f(samples)
}

// SendError reports how much was sent before the sink failed.
type SendError struct {
	Blocks  int // Accepted by the sink.
	Samples int // Accepted by the sink.
	Err     error
}

func (e *SendError) Error() string {
	return fmt.Sprintf("%s after %d blocks (%d samples): %s", ErrSinkRejected, e.Blocks, e.Samples, e.Err)
}

func (e *SendError) Unwrap() []error {
	return []error{ErrSinkRejected, e.Err}
}

type ModulatorConfig struct {
	Standard         ModemStandard
	SampleRate       int
	LevelDB          float64 // dBm0
	SeizeBits        int     // Alternating bits, starting with 0.
	CarrierStartBits int     // Mark before the data.
	CarrierStopBits  int     // Mark after the data.
	BitOrder         BitOrder
}

// DefaultModulatorConfig is for an ordinary on hook caller ID delivery.
func DefaultModulatorConfig() ModulatorConfig {
	return ModulatorConfig{
		Standard:         DEFAULT_STANDARD,
		SampleRate:       DEFAULT_SAMPLES_PER_SEC,
		LevelDB:          -14,
		SeizeBits:        300,
		CarrierStartBits: 180,
		CarrierStopBits:  5,
		BitOrder:         LSBFirst,
	}
}

// CallWaitingModulatorConfig has no channel seizure and a shorter mark.
func CallWaitingModulatorConfig() ModulatorConfig {
	var c = DefaultModulatorConfig()
	c.SeizeBits = 0
	c.CarrierStartBits = 80

	return c
}

func (c ModulatorConfig) Validate() error {
	if !c.Standard.valid() {
		return fmt.Errorf("%w: %d", ErrUnknownStandard, int(c.Standard))
	}

	var p = c.Standard.Parameters()

	if c.SampleRate <= 2*max(p.SpaceFreq, p.MarkFreq) {
		return fmt.Errorf("%w: %d samples/sec can't carry %d Hz", ErrSampleRate, c.SampleRate, max(p.SpaceFreq, p.MarkFreq))
	}

	if p.BaudRate*FSK_MOD_FACTOR/c.SampleRate <= 0 {
		return fmt.Errorf("%w: %d samples/sec is too high for %d baud", ErrSampleRate, c.SampleRate, p.BaudRate)
	}

	if c.SeizeBits < 0 || c.CarrierStartBits < 0 || c.CarrierStopBits < 0 {
		return fmt.Errorf("negative bit count: seize %d, start %d, stop %d", c.SeizeBits, c.CarrierStartBits, c.CarrierStopBits)
	}

	return nil
}

type Modulator struct {
	cfg    ModulatorConfig
	params ModemParameters
	msg    *Message
	dds    *DDS

	bit_factor  int // Fraction of a bit per sample, scaled by FSK_MOD_FACTOR.
	bit_len_acc int // Can go negative.  See GenerateBit.

	buf        []int16
	max_block  int
	bit_max    int // Most samples a single bit can produce.
	blocks     int
	samples    int
	failed     *SendError
	metrics    *Metrics
	data_bytes int
}

/*------------------------------------------------------------------
 *
 * Name:        NewModulator
 *
 * Inputs:      cfg	- Standard, rate, level and preamble lengths.
 *
 *		msg	- Finalized message.  May be nil if only
 *			  SendSeizure and SendCarrier will be used.
 *
 *----------------------------------------------------------------*/

func NewModulator(cfg ModulatorConfig, msg *Message) (*Modulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var p = cfg.Standard.Parameters()

	var m = &Modulator{ //nolint:exhaustruct
		cfg:        cfg,
		params:     p,
		msg:        msg,
		dds:        NewDDS(p, cfg.SampleRate, cfg.LevelDB),
		bit_factor: p.BaudRate * FSK_MOD_FACTOR / cfg.SampleRate,
		bit_max:    cfg.SampleRate/p.BaudRate + 2,
	}

	m.max_block = max(DEFAULT_BLOCK_SAMPLES, m.bit_max)
	m.buf = make([]int16, 0, m.max_block)

	return m, nil
}

func (m *Modulator) SetMetrics(metrics *Metrics) {
	m.metrics = metrics
}

/*-------------------------------------------------------------------
 *
 * Name:        GenerateBit
 *
 * Purpose:     Append the samples for one bit to the current block.
 *
 * Description:	bit_len_acc gains bit_factor every sample.  Crossing
 *		FSK_MOD_FACTOR ends the bit.  The remainder carries over
 *		so the average is exactly sample rate / baud.
 *
 *--------------------------------------------------------------------*/

func (m *Modulator) GenerateBit(bit uint8) {
	for {
		m.bit_len_acc += m.bit_factor
		if m.bit_len_acc >= FSK_MOD_FACTOR {
			m.bit_len_acc -= FSK_MOD_FACTOR + m.bit_factor
			break
		}

		m.buf = append(m.buf, m.dds.Sample(bit))
	}
}

// sendBit flushes first if the bit might not fit in the block.
func (m *Modulator) sendBit(sink SampleSink, bit uint8) error {
	if len(m.buf)+m.bit_max > m.max_block {
		if err := m.flush(sink); err != nil {
			return err
		}
	}

	m.GenerateBit(bit)

	return nil
}

func (m *Modulator) flush(sink SampleSink) error {
	if m.failed != nil {
		return m.failed
	}

	if len(m.buf) == 0 {
		return nil
	}

	if err := sink.WriteSamples(m.buf); err != nil {
		m.failed = &SendError{Blocks: m.blocks, Samples: m.samples, Err: err}
		m.buf = m.buf[:0]
		logger.Warn("transmit aborted", "blocks", m.blocks, "samples", m.samples, "err", err)
		m.metrics.transmitFailed()

		return m.failed
	}

	m.blocks++
	m.samples += len(m.buf)
	m.metrics.transmitBlock(len(m.buf))
	m.buf = m.buf[:0]

	return nil
}

func (m *Modulator) sendBits(sink SampleSink, next func() (uint8, bool)) error {
	if m.failed != nil {
		return m.failed
	}

	for {
		var bit, ok = next()
		if !ok {
			break
		}

		if err := m.sendBit(sink, bit); err != nil {
			return err
		}
	}

	return m.flush(sink)
}

// SendSeizure sends the alternating pattern, starting with 0.
func (m *Modulator) SendSeizure(sink SampleSink) error {
	var i = 0

	return m.sendBits(sink, func() (uint8, bool) {
		if i >= m.cfg.SeizeBits {
			return 0, false
		}
		i++

		return uint8((i - 1) & 1), true
	})
}

// SendCarrier sends n mark bits.
func (m *Modulator) SendCarrier(sink SampleSink, n int) error {
	var i = 0

	return m.sendBits(sink, func() (uint8, bool) {
		if i >= n {
			return 0, false
		}
		i++

		return 1, true
	})
}

// SendData sends the message with start and stop bits.
func (m *Modulator) SendData(sink SampleSink) error {
	Assert(m.msg != nil)

	var bs = newBitStream(m.msg.Bytes(), m.cfg.BitOrder, true)

	var err = m.sendBits(sink, bs.next)
	if err == nil {
		m.data_bytes += m.msg.Len()
	}

	return err
}

/*-------------------------------------------------------------------
 *
 * Name:        SendAll
 *
 * Purpose:     Seizure, carrier, data, carrier.
 *
 * Returns:	nil or *SendError.
 *
 *--------------------------------------------------------------------*/

func (m *Modulator) SendAll(sink SampleSink) error {
	if err := m.SendSeizure(sink); err != nil {
		return err
	}

	if err := m.SendCarrier(sink, m.cfg.CarrierStartBits); err != nil {
		return err
	}

	if err := m.SendData(sink); err != nil {
		return err
	}

	if err := m.SendCarrier(sink, m.cfg.CarrierStopBits); err != nil {
		return err
	}

	logger.Info("caller id sent", "standard", m.cfg.Standard, "bytes", m.data_bytes, "samples", m.samples)

	return nil
}

// EstimateSamples is an upper bound on what SendAll will produce.
func (m *Modulator) EstimateSamples() int {
	var bits = m.cfg.SeizeBits + m.cfg.CarrierStartBits + m.cfg.CarrierStopBits
	if m.msg != nil {
		bits += m.msg.Len() * 10
	}

	return bits * (m.cfg.SampleRate/m.params.BaudRate + 1)
}

// Blocks accepted by the sink so far.
func (m *Modulator) Blocks() int {
	return m.blocks
}

// Samples accepted by the sink so far.
func (m *Modulator) Samples() int {
	return m.samples
}

func (m *Modulator) Config() ModulatorConfig {
	return m.cfg
}
