package callerid

import (
	"encoding/binary"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// transmit gives the audio for a whole message with the default preamble.
func transmit(t *testing.T, standard ModemStandard, rate int, msg *Message) []int16 {
	t.Helper()

	var cfg = DefaultModulatorConfig()
	cfg.Standard = standard
	cfg.SampleRate = rate

	var m, err = NewModulator(cfg, msg)
	require.NoError(t, err)

	var out []int16
	require.NoError(t, m.SendAll(SampleSinkFunc(func(samples []int16) error {
		out = append(out, samples...)
		return nil
	})))

	return out
}

func TestRoundTripSDMF(t *testing.T) {
	var msg, err = BuildSDMF(MAX_MESSAGE_LEN, "01011200", "5551234")
	require.NoError(t, err)

	for _, rate := range []int{8000, 16000, 48000} {
		var rx, rerr = NewReceiver(Bell202, rate, MAX_MESSAGE_LEN)
		require.NoError(t, rerr)

		var audio = transmit(t, Bell202, rate, msg)

		var used, done = rx.FeedPCM(audio)
		require.True(t, done, "rate %d", rate)
		assert.Less(t, used, len(audio))
		assert.Equal(t, StateData, rx.State())

		var fields, ferr = rx.Decode()
		require.NoError(t, ferr)
		require.Len(t, fields, 2)
		assert.Equal(t, `DateTime "01011200"`, fields[0].String())
		assert.Equal(t, `PhoneNumber "5551234"`, fields[1].String())
		assert.Equal(t, msg.Bytes(), rx.Message().Bytes())
	}
}

func TestRoundTripMDMF(t *testing.T) {
	var mb = NewMessageBuilder(MAX_MESSAGE_LEN)
	require.NoError(t, mb.AddMDMF(FIELD_DATETIME, []byte("01011200")))
	require.NoError(t, mb.AddMDMF(FIELD_PHONE_NAME, []byte("JOHN SMITH")))

	var msg, err = mb.Finalize()
	require.NoError(t, err)

	for _, rate := range []int{8000, 16000, 48000} {
		var rx, rerr = NewReceiver(Bell202, rate, MAX_MESSAGE_LEN)
		require.NoError(t, rerr)

		var _, done = rx.FeedPCM(transmit(t, Bell202, rate, msg))
		require.True(t, done, "rate %d", rate)

		var c, cerr = CallerIDFromMessage(rx.Message())
		require.NoError(t, cerr)
		assert.Equal(t, "01011200", c.Date)
		assert.Equal(t, "JOHN SMITH", c.Name)
	}
}

func TestRoundTripV23(t *testing.T) {
	var msg, err = NewCallerIDMessage(MAX_MESSAGE_LEN, testTime, "0123456789", "")
	require.NoError(t, err)

	var rx, rerr = NewReceiver(V23Forward2, 8000, MAX_MESSAGE_LEN)
	require.NoError(t, rerr)

	var _, done = rx.FeedPCM(transmit(t, V23Forward2, 8000, msg))
	require.True(t, done)

	var fields, ferr = rx.Decode()
	require.NoError(t, ferr)
	assert.Equal(t, "0123456789", CallerIDFromFields(fields).Number)
}

func TestReceiverTwoMessages(t *testing.T) {
	var msg, err = BuildSDMF(MAX_MESSAGE_LEN, "01011200", "5551234")
	require.NoError(t, err)

	var audio = transmit(t, Bell202, 8000, msg)
	var gap = make([]int16, 4000)

	var stream = append(append(append([]int16(nil), audio...), gap...), audio...)

	var rx, _ = NewReceiver(Bell202, 8000, MAX_MESSAGE_LEN)

	var n = decodeSamples(rx, stream, func(m *Message, fields []Field, err error) {
		require.NoError(t, err)
		assert.Equal(t, msg.Bytes(), m.Bytes())
	})

	assert.Equal(t, 2, n)
}

func TestReceiverG711(t *testing.T) {
	var msg, err = BuildMDMF(MAX_MESSAGE_LEN, "01011200", "5551234", "JOHN SMITH")
	require.NoError(t, err)

	var audio = transmit(t, Bell202, 8000, msg)

	var ulaw = make([]byte, len(audio))
	for i, s := range audio {
		ulaw[i] = linearToULaw(s)
	}

	var rx, _ = NewReceiver(Bell202, 8000, MAX_MESSAGE_LEN)
	var used, done = rx.FeedG711(CodecULaw, ulaw)
	require.True(t, done)
	assert.Less(t, used, len(ulaw))

	var c, cerr = CallerIDFromMessage(rx.Message())
	require.NoError(t, cerr)
	assert.Equal(t, "5551234", c.Number)

	var linear = make([]byte, 2*len(audio))
	for i, s := range audio {
		binary.LittleEndian.PutUint16(linear[2*i:], uint16(s))
	}

	rx.Reset()
	used, done = rx.FeedG711(CodecLinear, linear)
	require.True(t, done)
	assert.Equal(t, 0, used%2)

	var fields, ferr = rx.Decode()
	require.NoError(t, ferr)
	assert.Len(t, fields, 3)
}

func TestReceiverSilence(t *testing.T) {
	var rx, _ = NewReceiver(Bell202, 8000, MAX_MESSAGE_LEN)

	var used, done = rx.FeedPCM(make([]int16, 8000))
	assert.Equal(t, 8000, used)
	assert.False(t, done)
	assert.False(t, rx.Done())
	assert.Equal(t, StateSeekSeize, rx.State())

	var _, err = rx.Result()
	require.ErrorIs(t, err, ErrTruncated)
}

func TestReceiverCapacity(t *testing.T) {
	var msg, err = BuildMDMF(MAX_MESSAGE_LEN, "01011200", "5551234", "JOHN SMITH")
	require.NoError(t, err)

	var rx, _ = NewReceiver(Bell202, 8000, 10)

	var _, done = rx.FeedPCM(transmit(t, Bell202, 8000, msg))
	require.True(t, done)
	assert.Equal(t, 10, rx.Message().Len())

	var _, derr = rx.Decode()
	require.ErrorIs(t, derr, ErrTruncated)
}

func TestReceiverMetrics(t *testing.T) {
	var reg = prometheus.NewRegistry()
	var metrics = NewMetrics(reg)

	var msg, err = BuildMDMF(MAX_MESSAGE_LEN, "01011200", "5551234", "JOHN SMITH")
	require.NoError(t, err)

	var rx, _ = NewReceiver(Bell202, 8000, MAX_MESSAGE_LEN)
	rx.SetMetrics(metrics)

	rx.FeedPCM(transmit(t, Bell202, 8000, msg))

	var _, derr = rx.Decode()
	require.NoError(t, derr)

	// Counted once, however many times it's asked.
	_, _ = rx.Decode()

	assert.InDelta(t, float64(msg.Len()), testutil.ToFloat64(metrics.bytesReceived), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.acquisitions), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.messages.WithLabelValues("MDMF")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.fields.WithLabelValues("phone_name")), 0)

	rx.Reset()
	rx.FeedPCM(make([]int16, 100))
	_, _ = rx.Result()
	_, _ = rx.Result()
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.invalid.WithLabelValues("truncated")), 0)
}

// linearToULaw is the usual G.711 encoder, only needed to make test input.
func linearToULaw(s int16) byte {
	const clip = 32635

	var x = int(s)
	var sign byte

	if x < 0 {
		x = -x
		sign = 0x80
	}

	x = min(x, clip) + ulawBias

	var exp = 7
	for mask := 0x4000; x&mask == 0 && exp > 0; mask >>= 1 {
		exp--
	}

	var mant = (x >> (exp + 3)) & 0x0f

	return ^(sign | byte(exp<<4) | byte(mant))
}
