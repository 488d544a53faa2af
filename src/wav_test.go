package callerid

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWavRoundTrip16(t *testing.T) {
	var path = filepath.Join(t.TempDir(), "x.wav")

	var w, err = newWavWriter(path, 16000, 16)
	require.NoError(t, err)

	var samples = []int16{0, 1, -1, 32767, -32768, 1234}
	require.NoError(t, w.WriteSamples(samples[:3]))
	require.NoError(t, w.WriteSamples(samples[3:]))
	require.NoError(t, w.Close())

	var info, serr = os.Stat(path)
	require.NoError(t, serr)
	assert.Equal(t, int64(44+2*len(samples)), info.Size())

	var a, rerr = readWav(path)
	require.NoError(t, rerr)
	assert.Equal(t, 16000, a.samples_per_sec)
	assert.Equal(t, 16, a.bits_per_sample)
	assert.Equal(t, samples, a.samples)
}

func TestWavRoundTrip8(t *testing.T) {
	var path = filepath.Join(t.TempDir(), "x.wav")

	var w, err = newWavWriter(path, 8000, 8)
	require.NoError(t, err)

	require.NoError(t, w.WriteSamples([]int16{0, 256, -256, 32767, -32768}))
	require.NoError(t, w.Close())

	var a, rerr = readWav(path)
	require.NoError(t, rerr)
	assert.Equal(t, 8, a.bits_per_sample)
	assert.Equal(t, []int16{0, 256, -256, 32512, -32768}, a.samples)
}

func TestWavLarge(t *testing.T) {
	var path = filepath.Join(t.TempDir(), "x.wav")

	var samples = make([]int16, 3*wavReadChunk+17)
	for i := range samples {
		samples[i] = int16(i)
	}

	var w, err = newWavWriter(path, 8000, 16)
	require.NoError(t, err)
	require.NoError(t, w.WriteSamples(samples))
	require.NoError(t, w.Close())

	var a, rerr = readWav(path)
	require.NoError(t, rerr)
	assert.Equal(t, samples, a.samples)
}

func TestReadWavErrors(t *testing.T) {
	var _, err = readWav(filepath.Join(t.TempDir(), "missing.wav"))
	require.Error(t, err)

	var path = filepath.Join(t.TempDir(), "junk.wav")
	require.NoError(t, os.WriteFile(path, []byte("this is not a wav file at all, not even close"), 0o600))

	_, err = readWav(path)
	require.Error(t, err)
}
