package callerid

/*------------------------------------------------------------------
 *
 * Purpose:     Direct digital synthesis of the mark and space tones.
 *
 * Description:	A 32 bit phase accumulator wraps around once per cycle.
 *		The upper 8 bits index a sine table.  Switching tones only
 *		changes the increment so there is no phase discontinuity.
 *
 *---------------------------------------------------------------*/

import (
	"math"
)

const TICKS_PER_CYCLE = (256.0 * 256.0 * 256.0 * 256.0)

// Full scale sine wave, in dBm0.  3.14 for a digital milliwatt plus 3.02
// for the peak to RMS ratio.
const DBM0_MAX_POWER = (3.14 + 3.02)

type DDS struct {
	tone_phase  uint32    // Upper bits are used as index into sine table.
	change      [2]uint32 // Phase increment per sample for space, mark.
	sine_table  [256]int16
	amplitude   float64
	sample_rate int
}

/*------------------------------------------------------------------
 *
 * Name:        NewDDS
 *
 * Inputs:      p		- Tone frequencies.
 *
 *		samples_per_sec
 *
 *		db_level	- Output level in dBm0.  Something around
 *				  -14 is typical for caller ID.
 *
 *----------------------------------------------------------------*/

func NewDDS(p ModemParameters, samples_per_sec int, db_level float64) *DDS {
	Assert(samples_per_sec > 0)

	var d = &DDS{ //nolint:exhaustruct
		amplitude:   dbToAmplitude(db_level),
		sample_rate: samples_per_sec,
	}

	d.change[0] = uint32((float64(p.SpaceFreq) * TICKS_PER_CYCLE / float64(samples_per_sec)) + 0.5)
	d.change[1] = uint32((float64(p.MarkFreq) * TICKS_PER_CYCLE / float64(samples_per_sec)) + 0.5)

	var clipped = false

	for j := range 256 {
		var a = (float64(j) / 256.0) * (2.0 * math.Pi)
		var s = int(math.Round(math.Sin(a) * d.amplitude))

		/* 16 bit sound sample must fit in range of -32768 .. +32767. */

		if s < -32768 {
			s = -32768
			clipped = true
		} else if s > 32767 {
			s = 32767
			clipped = true
		}

		d.sine_table[j] = int16(s)
	}

	if clipped {
		logger.Warn("excessive amplitude is being clipped", "db", db_level)
	}

	return d
}

// dbToAmplitude gives the peak sample value for a level in dBm0.
func dbToAmplitude(db_level float64) float64 {
	return math.Pow(10.0, (db_level-DBM0_MAX_POWER)/20.0) * 32767.0 * math.Sqrt2
}

// Sample advances the phase and returns the next sample of the mark (1)
// or space (0) tone.
func (d *DDS) Sample(bit uint8) int16 {
	d.tone_phase += d.change[bit&1]

	return d.sine_table[d.tone_phase>>24]
}

// Amplitude is the peak value before clipping.
func (d *DDS) Amplitude() float64 {
	return d.amplitude
}
