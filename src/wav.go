package callerid

/*------------------------------------------------------------------
 *
 * Purpose:     Read and write .WAV files for the test tools.
 *
 *---------------------------------------------------------------*/

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mjibson/go-dsp/wav"
)

type wav_header struct { /* .WAV file header. */
	riff            [4]byte /* "RIFF" */
	filesize        int32   /* file length - 8 */
	wave            [4]byte /* "WAVE" */
	fmt             [4]byte /* "fmt " */
	fmtsize         int32   /* 16. */
	wformattag      int16   /* 1 for PCM. */
	nchannels       int16   /* 1 for mono, 2 for stereo. */
	nsamplespersec  int32   /* sampling freq, Hz. */
	navgbytespersec int32   /* = nblockalign * nsamplespersec. */
	nblockalign     int16   /* = wbitspersample / 8 * nchannels. */
	wbitspersample  int16   /* 16 or 8. */
	data            [4]byte /* "data" */
	datasize        int32   /* number of bytes following. */
}

// wavWriter is a SampleSink writing a mono file.
type wavWriter struct {
	f          *os.File
	out        *bufio.Writer
	header     wav_header
	byte_count int
}

/*------------------------------------------------------------------
 *
 * Name:        newWavWriter
 *
 * Purpose:     Write the file header.  Don't know length yet.
 *
 * Inputs:	bits_per_sample	- 8 or 16.
 *
 *----------------------------------------------------------------*/

func newWavWriter(fname string, samples_per_sec int, bits_per_sample int) (*wavWriter, error) {
	Assert(bits_per_sample == 8 || bits_per_sample == 16)

	var f, err = os.Create(fname) //nolint:gosec // We expect to write to a user-supplied file from CLI
	if err != nil {
		return nil, fmt.Errorf("couldn't open %s for write: %w", fname, err)
	}

	var w = &wavWriter{f: f} //nolint:exhaustruct
	var h = &w.header

	h.riff = [4]byte{'R', 'I', 'F', 'F'}
	h.wave = [4]byte{'W', 'A', 'V', 'E'}
	h.fmt = [4]byte{'f', 'm', 't', ' '}
	h.fmtsize = 16   // Always 16.
	h.wformattag = 1 // 1 for PCM.
	h.nchannels = 1
	h.nsamplespersec = int32(samples_per_sec) //nolint:gosec
	h.wbitspersample = int16(bits_per_sample) //nolint:gosec
	h.nblockalign = h.wbitspersample / 8 * h.nchannels
	h.navgbytespersec = int32(h.nblockalign) * h.nsamplespersec
	h.data = [4]byte{'d', 'a', 't', 'a'}

	if err := binary.Write(f, binary.LittleEndian, w.header); err != nil {
		f.Close()
		return nil, fmt.Errorf("couldn't write header to %s: %w", fname, err)
	}

	w.out = bufio.NewWriter(f)

	return w, nil
}

// WriteSamples converts to 8 bit unsigned if needed.
func (w *wavWriter) WriteSamples(samples []int16) error {
	for _, s := range samples {
		var err error

		if w.header.wbitspersample == 8 {
			err = w.out.WriteByte(byte((int(s) + 32768) >> 8))
			w.byte_count++
		} else {
			err = binary.Write(w.out, binary.LittleEndian, s)
			w.byte_count += 2
		}

		if err != nil {
			return fmt.Errorf("write %s: %w", w.f.Name(), err)
		}
	}

	return nil
}

// Close goes back to the beginning of the file and fills in the sizes.
func (w *wavWriter) Close() error {
	defer w.f.Close()

	w.header.filesize = int32(w.byte_count + binary.Size(w.header) - 8) //nolint:gosec
	w.header.datasize = int32(w.byte_count)                              //nolint:gosec

	if err := w.out.Flush(); err != nil {
		return fmt.Errorf("write %s: %w", w.f.Name(), err)
	}

	if _, err := w.f.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("couldn't seek in audio file: %w", err)
	}

	if err := binary.Write(w.f, binary.LittleEndian, w.header); err != nil {
		return fmt.Errorf("couldn't write header to audio file: %w", err)
	}

	return nil
}

// wavAudio is what readWav found.
type wavAudio struct {
	samples_per_sec int
	bits_per_sample int
	samples         []int16
}

const wavReadChunk = 1024

/*------------------------------------------------------------------
 *
 * Name:        readWav
 *
 * Purpose:     Read a mono 8 or 16 bit PCM file.
 *
 * Returns:	Samples scaled to 16 bits.
 *
 *----------------------------------------------------------------*/

func readWav(fname string) (*wavAudio, error) {
	var f, err = os.Open(fname) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("couldn't open %s: %w", fname, err)
	}
	defer f.Close()

	var w, werr = wav.New(f)
	if werr != nil {
		return nil, fmt.Errorf("%s is not a usable .WAV file: %w", fname, werr)
	}

	if w.Header.NumChannels != 1 {
		return nil, fmt.Errorf("%s: %d channels, only mono is supported", fname, w.Header.NumChannels)
	}

	if w.Header.BitsPerSample != 8 && w.Header.BitsPerSample != 16 {
		return nil, fmt.Errorf("%s: %d bits per sample, only 8 and 16 are supported", fname, w.Header.BitsPerSample)
	}

	var a = &wavAudio{
		samples_per_sec: int(w.Header.SampleRate),
		bits_per_sample: int(w.Header.BitsPerSample),
		samples:         make([]int16, 0, w.Samples),
	}

	for remaining := w.Samples; remaining > 0; {
		var n = min(wavReadChunk, remaining)

		var data, rerr = w.ReadSamples(n)
		if errors.Is(rerr, io.EOF) || errors.Is(rerr, io.ErrUnexpectedEOF) {
			break
		}

		if rerr != nil {
			return nil, fmt.Errorf("read %s: %w", fname, rerr)
		}

		switch s := data.(type) {
		case []int16:
			a.samples = append(a.samples, s...)
		case []uint8:
			for _, b := range s {
				a.samples = append(a.samples, int16((int(b)-128)<<8)) //nolint:gosec
			}
		case []float32:
			for _, v := range s {
				a.samples = append(a.samples, int16(max(-1, min(1, v))*32767))
			}
		default:
			return nil, fmt.Errorf("%s: unexpected sample type %T", fname, data)
		}

		remaining -= n
	}

	return a, nil
}
