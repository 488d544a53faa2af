package callerid

import (
	"errors"
	"math"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type blockRecorder struct {
	blocks  []int
	samples []int16
	fail_at int // Block number to refuse, 0 for never.
}

var errTestSink = errors.New("sink full")

func (r *blockRecorder) WriteSamples(samples []int16) error {
	if r.fail_at > 0 && len(r.blocks)+1 == r.fail_at {
		return errTestSink
	}

	r.blocks = append(r.blocks, len(samples))
	r.samples = append(r.samples, samples...)

	return nil
}

func testMessage(t *testing.T) *Message {
	t.Helper()

	var msg, err = BuildMDMF(MAX_MESSAGE_LEN, "01011200", "5551234", "JOHN SMITH")
	require.NoError(t, err)

	return msg
}

func TestModulatorConfigValidate(t *testing.T) {
	require.NoError(t, DefaultModulatorConfig().Validate())
	require.NoError(t, CallWaitingModulatorConfig().Validate())

	var c = DefaultModulatorConfig()
	c.SampleRate = 4000
	require.ErrorIs(t, c.Validate(), ErrSampleRate)

	c = DefaultModulatorConfig()
	c.Standard = ModemStandard(7)
	require.ErrorIs(t, c.Validate(), ErrUnknownStandard)

	c = DefaultModulatorConfig()
	c.SeizeBits = -1
	require.Error(t, c.Validate())
}

func TestCallWaitingModulatorConfig(t *testing.T) {
	var c = CallWaitingModulatorConfig()
	assert.Equal(t, 0, c.SeizeBits)
	assert.Equal(t, 80, c.CarrierStartBits)
	assert.Equal(t, 5, c.CarrierStopBits)
}

func TestModulatorBlocks(t *testing.T) {
	for _, rate := range []int{8000, 11025, 16000, 48000} {
		var cfg = DefaultModulatorConfig()
		cfg.SampleRate = rate

		var msg = testMessage(t)
		var m, err = NewModulator(cfg, msg)
		require.NoError(t, err)

		var r blockRecorder
		require.NoError(t, m.SendAll(&r))

		var limit = max(DEFAULT_BLOCK_SAMPLES, rate/1200+2)
		for _, n := range r.blocks {
			assert.Positive(t, n)
			assert.LessOrEqual(t, n, limit, "rate %d", rate)
		}

		assert.Equal(t, len(r.blocks), m.Blocks())
		assert.Equal(t, len(r.samples), m.Samples())
		assert.LessOrEqual(t, m.Samples(), m.EstimateSamples())

		// On average, exactly sample rate / baud per bit.
		var bits = cfg.SeizeBits + cfg.CarrierStartBits + 10*msg.Len() + cfg.CarrierStopBits
		var expected = float64(bits) * float64(rate) / 1200.0
		assert.InDelta(t, expected, float64(m.Samples()), expected*0.001+4, "rate %d", rate)
	}
}

func TestModulatorLevel(t *testing.T) {
	var cfg = DefaultModulatorConfig()
	var m, err = NewModulator(cfg, nil)
	require.NoError(t, err)

	var r blockRecorder
	require.NoError(t, m.SendCarrier(&r, 1200))

	var peak = 0
	for _, s := range r.samples {
		peak = max(peak, int(math.Abs(float64(s))))
	}

	var want = math.Pow(10, (-14-DBM0_MAX_POWER)/20) * 32767 * math.Sqrt2
	assert.InDelta(t, want, float64(peak), want*0.01)
}

func TestModulatorSeizureStartsWithSpace(t *testing.T) {
	var cfg = DefaultModulatorConfig()
	cfg.SeizeBits = 2

	var m, err = NewModulator(cfg, nil)
	require.NoError(t, err)

	var r blockRecorder
	require.NoError(t, m.SendSeizure(&r))

	var want = NewDDS(Bell202.Parameters(), 8000, cfg.LevelDB)

	// The first bit is the space tone.
	for i := range 6 {
		assert.Equal(t, want.Sample(0), r.samples[i])
	}

	// Then mark.
	assert.Equal(t, want.Sample(1), r.samples[6])
}

func TestModulatorSinkFailure(t *testing.T) {
	var reg = prometheus.NewRegistry()
	var metrics = NewMetrics(reg)

	var m, err = NewModulator(DefaultModulatorConfig(), testMessage(t))
	require.NoError(t, err)
	m.SetMetrics(metrics)

	var r = blockRecorder{fail_at: 3}

	var sendErr = m.SendAll(&r)
	require.ErrorIs(t, sendErr, ErrSinkRejected)
	require.ErrorIs(t, sendErr, errTestSink)

	var se *SendError
	require.ErrorAs(t, sendErr, &se)
	assert.Equal(t, 2, se.Blocks)
	assert.Equal(t, len(r.samples), se.Samples)
	assert.Len(t, r.blocks, 2)

	// Nothing more goes to the sink.
	require.ErrorIs(t, m.SendCarrier(&r, 100), errTestSink)
	require.ErrorIs(t, m.SendData(&r), errTestSink)
	assert.Len(t, r.blocks, 2)

	assert.InDelta(t, 1, testutil.ToFloat64(metrics.transmitFailures), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(metrics.transmitBlocks), 0)
	assert.InDelta(t, float64(len(r.samples)), testutil.ToFloat64(metrics.transmitSamples), 0)
}

func TestModulatorNothingToSend(t *testing.T) {
	var cfg = DefaultModulatorConfig()
	cfg.SeizeBits = 0

	var m, err = NewModulator(cfg, nil)
	require.NoError(t, err)

	var r blockRecorder
	require.NoError(t, m.SendSeizure(&r))
	require.NoError(t, m.SendCarrier(&r, 0))
	assert.Empty(t, r.blocks)
}
