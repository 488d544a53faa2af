package callerid

/*------------------------------------------------------------------
 *
 * Purpose:   	Interface to audio device commonly called a "sound card" for
 *		historical reasons.
 *
 * Description:	The actual device code lives in the soundcard package so
 *		this package, and its tests, don't need the audio library.
 *		The command line tools plug it in by setting CaptureOpener
 *		and PlaybackOpener.
 *
 *---------------------------------------------------------------*/

import (
	"errors"
)

var ErrNoAudioDevice = errors.New("no audio device support in this program")

// AudioInput supplies mono 16 bit samples.  The slice returned is only
// valid until the next Read.
type AudioInput interface {
	Read() ([]int16, error)
	Close() error
}

type AudioOutput interface {
	SampleSink
	Close() error
}

var CaptureOpener = func(samples_per_sec int, frames int) (AudioInput, error) {
	return nil, ErrNoAudioDevice
}

var PlaybackOpener = func(samples_per_sec int) (AudioOutput, error) {
	return nil, ErrNoAudioDevice
}

// Frames per read from the sound card, 20 ms.
func captureFrames(samples_per_sec int) int {
	return max(samples_per_sec/50, 64)
}
