/* Caller ID monitor */
package main

import (
	callerid "github.com/doismellburning/callerid/src"
	"github.com/doismellburning/callerid/src/soundcard"
)

func main() {
	callerid.CaptureOpener = func(samplesPerSec int, frames int) (callerid.AudioInput, error) {
		var c, err = soundcard.OpenCapture(samplesPerSec, frames)
		if err != nil {
			return nil, err
		}

		return c, nil
	}

	callerid.CidMonMain()
}
