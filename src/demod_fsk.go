package callerid

/*------------------------------------------------------------------
 *
 * Purpose:   	Demodulator for the two tone FSK used for caller ID.
 *
 * Input:	Audio samples, normalized to -1.0 .. +1.0.
 *
 * Outputs:	One bit per baud interval.   After the channel seizure
 *		and mark carrier have been recognized the bits are
 *		flagged as data, ready for the UART.
 *
 * Description:	Keep a window of the most recent samples covering one
 *		cycle of the mark frequency.  Correlate it with sine and
 *		cosine of each tone.  Whichever tone has more energy wins.
 *
 *		This is much simpler than the AFSK demodulator for packet
 *		radio.  There are no filters, AGC or PLL.  A transition
 *		simply puts the sampling point back to the middle of the cell.
 *
 *---------------------------------------------------------------*/

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

var ErrSampleRate = errors.New("unsuitable sample rate")

// LineBit is produced once per baud interval.
type LineBit struct {
	Value uint8 // 1 for mark, 0 for space.
	Data  bool  // Received after acquisition; give it to the UART.
}

type Demodulator struct {
	D demodulator_state_s
}

/*------------------------------------------------------------------
 *
 * Name:        NewDemodulator
 *
 * Purpose:     Initialization for an FSK demodulator.
 *
 * Inputs:   	standard	- Tones and baud rate.
 *
 *		samples_per_sec	- Must stay the same for the life of
 *				  the demodulator.
 *
 * Description:	If the sample rate is high, only every nth sample is used,
 *		keeping at least MIN_SAMPLES_PER_CYCLE per mark cycle.
 *		Otherwise the amount of work per sample would grow with
 *		the square of the sample rate for no benefit.
 *
 *----------------------------------------------------------------*/

func NewDemodulator(standard ModemStandard, samples_per_sec int) (*Demodulator, error) {
	if !standard.valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownStandard, int(standard))
	}

	var p = standard.Parameters()

	var downsample = 1
	if samples_per_sec/p.MarkFreq > MIN_SAMPLES_PER_CYCLE {
		downsample = samples_per_sec / p.MarkFreq / MIN_SAMPLES_PER_CYCLE
	}

	// Don't decimate below what the space tone needs.
	for downsample > 1 && samples_per_sec/downsample <= 2*p.SpaceFreq {
		downsample--
	}

	var effective_rate = float64(samples_per_sec) / float64(downsample)

	if effective_rate <= 2*float64(p.SpaceFreq) {
		return nil, fmt.Errorf("%w: %d samples/sec can't carry %d Hz", ErrSampleRate, samples_per_sec, p.SpaceFreq)
	}

	var corrsize = int(effective_rate) / p.MarkFreq
	if corrsize < 2 {
		return nil, fmt.Errorf("%w: %d samples/sec is too low for %d Hz", ErrSampleRate, samples_per_sec, p.MarkFreq)
	}

	var d = new(Demodulator)
	var D = &d.D

	D.standard = standard
	D.samples_per_sec = samples_per_sec
	D.downsample = downsample
	D.downsample_cnt = 1
	D.corrsize = corrsize
	D.celladj = float64(p.BaudRate) / effective_rate

	var phi_mark = 2. * math.Pi * float64(p.MarkFreq) / effective_rate
	var phi_space = 2. * math.Pi * float64(p.SpaceFreq) / effective_rate

	for k := range numCorrelates {
		D.correlates[k] = make([]float64, corrsize)
	}

	for j := range corrsize {
		D.correlates[corrMarkSin][j] = math.Sin(phi_mark * float64(j))
		D.correlates[corrMarkCos][j] = math.Cos(phi_mark * float64(j))
		D.correlates[corrSpaceSin][j] = math.Sin(phi_space * float64(j))
		D.correlates[corrSpaceCos][j] = math.Cos(phi_space * float64(j))
	}

	D.ring = make([]float64, 2*corrsize)

	logger.Debug("demodulator created", "standard", standard, "rate", samples_per_sec,
		"downsample", downsample, "window", corrsize, "celladj", D.celladj)

	return d, nil
}

/*-------------------------------------------------------------------
 *
 * Name:        FeedSample
 *
 * Purpose:     Process one audio sample.
 *
 * Inputs:	normalized_sample	- Range of -1.0 .. +1.0.
 *
 * Returns:	A bit and true at the end of each baud interval.
 *		false the rest of the time.
 *
 *--------------------------------------------------------------------*/

func (d *Demodulator) FeedSample(normalized_sample float64) (LineBit, bool) {
	var D = &d.D

	if D.downsample > 1 {
		D.downsample_cnt--
		if D.downsample_cnt > 0 {
			return LineBit{}, false
		}
		D.downsample_cnt = D.downsample
	}

	/* Replace the oldest sample. */

	D.ring[D.ringstart] = normalized_sample
	D.ring[D.ringstart+D.corrsize] = normalized_sample
	D.ringstart++
	if D.ringstart >= D.corrsize {
		D.ringstart = 0
	}

	var window = D.ring[D.ringstart : D.ringstart+D.corrsize]

	var ms = floats.Dot(window, D.correlates[corrMarkSin])
	var mc = floats.Dot(window, D.correlates[corrMarkCos])
	var ss = floats.Dot(window, D.correlates[corrSpaceSin])
	var sc = floats.Dot(window, D.correlates[corrSpaceCos])

	D.previous_bit = D.current_bit
	D.current_bit = IfThenElse[uint8](ms*ms+mc*mc > ss*ss+sc*sc, 1, 0)

	/* A transition tells us where the cell boundary is. */

	if D.previous_bit != D.current_bit {
		D.cellpos = 0.5
	}

	D.cellpos += D.celladj

	if D.cellpos <= 1.0 {
		return LineBit{}, false
	}

	D.cellpos -= 1.0

	var lb = LineBit{Value: D.current_bit, Data: D.state == StateData}

	d.acquire(D.current_bit)

	return lb, true
}

/*-------------------------------------------------------------------
 *
 * Name:        acquire
 *
 * Purpose:     Recognize channel seizure then the mark carrier.
 *
 * Description:	A bit which doesn't match simply starts the count over.
 *		There is no way back to an earlier state, other than Reset.
 *
 *--------------------------------------------------------------------*/

func (d *Demodulator) acquire(bit uint8) {
	var D = &d.D

	switch D.state {
	case StateSeekSeize:
		if bit != D.last_bit {
			D.consecutive++
		} else {
			D.consecutive = 0
		}

		if D.consecutive >= ACQUISITION_BITS {
			D.state = StateSeekCarrier
			D.consecutive = 0
			logger.Debug("channel seizure detected")
		}

	case StateSeekCarrier:
		if bit == 1 {
			D.consecutive++
		} else {
			D.consecutive = 0
		}

		if D.consecutive >= ACQUISITION_BITS {
			D.state = StateData
			D.consecutive = 0
			logger.Debug("carrier detected")
		}

	case StateData:
	}

	D.last_bit = bit
}

func (d *Demodulator) State() AcquisitionState {
	return d.D.state
}

// Reset goes back to looking for channel seizure.  Sample history and
// bit timing are kept.
func (d *Demodulator) Reset() {
	d.D.state = StateSeekSeize
	d.D.consecutive = 0
}

func (d *Demodulator) Standard() ModemStandard {
	return d.D.standard
}

func (d *Demodulator) SampleRate() int {
	return d.D.samples_per_sec
}

// WindowSize is the correlation window after downsampling.
func (d *Demodulator) WindowSize() int {
	return d.D.corrsize
}

func (d *Demodulator) Downsample() int {
	return d.D.downsample
}
