package callerid

/*
 * Demodulator state.
 * Different copy is required for each channel being processed concurrently.
 */

type AcquisitionState int

const (
	StateSeekSeize   AcquisitionState = iota // Waiting for alternating channel seizure bits.
	StateSeekCarrier                         // Waiting for steady mark.
	StateData                                // Bits go to the UART.
)

func (s AcquisitionState) String() string {
	switch s {
	case StateSeekSeize:
		return "seek-seize"
	case StateSeekCarrier:
		return "seek-carrier"
	case StateData:
		return "data"
	default:
		return "unknown"
	}
}

// Consecutive matching bits needed to move to the next state.
const ACQUISITION_BITS = 15

// Correlate four reference waves: sin, cos of mark then sin, cos of space.
const (
	corrMarkSin = iota
	corrMarkCos
	corrSpaceSin
	corrSpaceCos
	numCorrelates
)

// Downsample until there are no more than this many samples per mark cycle.
const MIN_SAMPLES_PER_CYCLE = 6

type demodulator_state_s struct {
	/*
	 * These are set once during initialization.
	 */
	standard        ModemStandard
	samples_per_sec int

	downsample     int // Only every nth sample is used.
	downsample_cnt int // Counts down to next sample used.

	corrsize   int // Correlation window, in samples after downsampling.
	correlates [numCorrelates][]float64

	celladj float64 // Cell position advance per sample used.

	/*
	 * Ring buffer of recent samples.
	 * Each sample is stored twice, corrsize apart, so the most
	 * recent corrsize samples are always contiguous.
	 */
	ring      []float64
	ringstart int // Position of the oldest sample.

	/*
	 * Bit timing recovery.
	 */
	cellpos      float64
	previous_bit uint8 // Raw bit from previous sample.
	current_bit  uint8

	/*
	 * Acquisition.
	 */
	state       AcquisitionState
	last_bit    uint8 // Previous bit at the baud rate.
	consecutive int
}
