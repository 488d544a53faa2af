// Package soundcard captures and plays mono 16 bit audio with PortAudio.
package soundcard

import (
	"fmt"

	"github.com/gordonklaus/portaudio"
)

type Capture struct {
	stream *portaudio.Stream
	buf    []int16
}

// OpenCapture starts the default input device.
func OpenCapture(samplesPerSec int, frames int) (*Capture, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("portaudio: %w", err)
	}

	var c = &Capture{stream: nil, buf: make([]int16, frames)}

	var stream, err = portaudio.OpenDefaultStream(1, 0, float64(samplesPerSec), frames, c.buf)
	if err != nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("open input stream at %d samples/sec: %w", samplesPerSec, err)
	}

	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return nil, fmt.Errorf("start input stream: %w", err)
	}

	c.stream = stream

	return c, nil
}

// Read blocks until a buffer is full.  The slice is reused.
func (c *Capture) Read() ([]int16, error) {
	if err := c.stream.Read(); err != nil {
		return nil, fmt.Errorf("audio input: %w", err)
	}

	return c.buf, nil
}

func (c *Capture) Close() error {
	c.stream.Stop()
	var err = c.stream.Close()
	portaudio.Terminate()

	return err //nolint:wrapcheck
}

type Playback struct {
	stream *portaudio.Stream
	buf    []int16
	n      int
}

const playbackFrames = 256

// OpenPlayback starts the default output device.
func OpenPlayback(samplesPerSec int) (*Playback, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("portaudio: %w", err)
	}

	var p = &Playback{stream: nil, buf: make([]int16, playbackFrames), n: 0}

	var stream, err = portaudio.OpenDefaultStream(0, 1, float64(samplesPerSec), playbackFrames, p.buf)
	if err != nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("open output stream at %d samples/sec: %w", samplesPerSec, err)
	}

	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return nil, fmt.Errorf("start output stream: %w", err)
	}

	p.stream = stream

	return p, nil
}

// WriteSamples blocks while the device catches up.
func (p *Playback) WriteSamples(samples []int16) error {
	for len(samples) > 0 {
		var k = copy(p.buf[p.n:], samples)
		p.n += k
		samples = samples[k:]

		if p.n == len(p.buf) {
			if err := p.stream.Write(); err != nil {
				return fmt.Errorf("audio output: %w", err)
			}
			p.n = 0
		}
	}

	return nil
}

// Close pads the last buffer with silence.
func (p *Playback) Close() error {
	var err error

	if p.n > 0 {
		clear(p.buf[p.n:])
		err = p.stream.Write()
		p.n = 0
	}

	p.stream.Stop()

	if cerr := p.stream.Close(); err == nil {
		err = cerr
	}

	portaudio.Terminate()

	return err //nolint:wrapcheck
}
