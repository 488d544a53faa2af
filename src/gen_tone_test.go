package callerid

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDbToAmplitude(t *testing.T) {
	// Full scale sine is +6.16 dBm0.
	assert.InDelta(t, 32767*math.Sqrt2, dbToAmplitude(DBM0_MAX_POWER), 0.001)
	assert.InDelta(t, 4549.4, dbToAmplitude(-14), 0.5)
}

func TestDDSFrequency(t *testing.T) {
	var p = Bell202.Parameters()
	var d = NewDDS(p, 8000, -14)

	// Count rising zero crossings over one second of each tone.
	for _, tc := range []struct {
		bit  uint8
		freq int
	}{{bit: 1, freq: p.MarkFreq}, {bit: 0, freq: p.SpaceFreq}} {
		var crossings = 0
		var prev = d.Sample(tc.bit)

		for range 7999 {
			var s = d.Sample(tc.bit)
			if prev < 0 && s >= 0 {
				crossings++
			}
			prev = s
		}

		assert.InDelta(t, tc.freq, crossings, 2, "bit %d", tc.bit)
	}
}

func TestDDSPhaseContinuous(t *testing.T) {
	var d = NewDDS(Bell202.Parameters(), 48000, -14)

	var prev = d.Sample(1)
	var maxStep = 0.0

	for i := range 4800 {
		var s = d.Sample(uint8((i / 40) & 1))
		maxStep = max(maxStep, math.Abs(float64(s)-float64(prev)))
		prev = s
	}

	// The space tone at 48000 changes by at most amplitude * 2 pi * 2200 / 48000
	// per sample, plus one table step.
	var limit = d.Amplitude()*2*math.Pi*2200/48000 + d.Amplitude()*2*math.Pi/256
	assert.Less(t, maxStep, limit)
}

func TestDDSClipping(t *testing.T) {
	var d = NewDDS(Bell202.Parameters(), 8000, 10)

	for i := range 64 {
		var s = d.Sample(uint8(i & 1))
		assert.LessOrEqual(t, int(s), 32767)
		assert.GreaterOrEqual(t, int(s), -32768)
	}

	assert.Greater(t, d.Amplitude(), 32767.0)
}
