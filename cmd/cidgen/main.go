/* Generate caller ID audio for testing */
package main

import (
	callerid "github.com/doismellburning/callerid/src"
	"github.com/doismellburning/callerid/src/soundcard"
)

func main() {
	callerid.PlaybackOpener = func(samplesPerSec int) (callerid.AudioOutput, error) {
		var p, err = soundcard.OpenPlayback(samplesPerSec)
		if err != nil {
			return nil, err
		}

		return p, nil
	}

	callerid.CidGenMain()
}
