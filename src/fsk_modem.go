package callerid

/*------------------------------------------------------------------
 *
 * Purpose:	Tone and speed definitions for the FSK modems we know.
 *
 * Description:	Only the numbers differ.  The same demodulator and
 *		modulator are used for all of them.
 *
 *---------------------------------------------------------------*/

import (
	"errors"
	"fmt"
	"strings"
)

type ModemStandard int

const (
	V23Forward1 ModemStandard = iota
	V23Forward2
	V23Backward
	Bell202
)

// The standard used for North American caller ID.
const DEFAULT_STANDARD = Bell202

const DEFAULT_SAMPLES_PER_SEC = 8000 /* Typical for a telephone channel. */

type ModemParameters struct {
	SpaceFreq int // Hz, data 0
	MarkFreq  int // Hz, data 1
	BaudRate  int
}

var ErrUnknownStandard = errors.New("unknown modem standard")

var modemDefinitions = [...]ModemParameters{
	V23Forward1: {SpaceFreq: 1700, MarkFreq: 1300, BaudRate: 600},
	V23Forward2: {SpaceFreq: 2100, MarkFreq: 1300, BaudRate: 1200},
	V23Backward: {SpaceFreq: 450, MarkFreq: 390, BaudRate: 75},
	Bell202:     {SpaceFreq: 2200, MarkFreq: 1200, BaudRate: 1200},
}

var modemNames = [...]string{
	V23Forward1: "v23-forward-1",
	V23Forward2: "v23-forward-2",
	V23Backward: "v23-backward",
	Bell202:     "bell202",
}

func (s ModemStandard) valid() bool {
	return s >= 0 && int(s) < len(modemDefinitions)
}

// Parameters returns a copy so the table can't be modified.
func (s ModemStandard) Parameters() ModemParameters {
	Assert(s.valid())

	return modemDefinitions[s]
}

func (s ModemStandard) String() string {
	if !s.valid() {
		return fmt.Sprintf("ModemStandard(%d)", int(s))
	}

	return modemNames[s]
}

// LookupStandard ignores case.  "bell-202" is accepted as well as "bell202".
func LookupStandard(name string) (ModemStandard, error) {
	var n = strings.ToLower(strings.TrimSpace(name))
	if n == "bell-202" {
		n = "bell202"
	}

	for s, known := range modemNames {
		if n == known {
			return ModemStandard(s), nil
		}
	}

	return 0, fmt.Errorf("%w: %q", ErrUnknownStandard, name)
}

func StandardNames() []string {
	return append([]string(nil), modemNames[:]...)
}
