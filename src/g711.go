package callerid

/*
 * G.711 companded samples, as found on most telephone channels,
 * expanded to 16 bit linear.
 */

import (
	"fmt"
	"strings"
)

type Codec int

const (
	CodecLinear Codec = iota // 16 bit signed, native byte order.
	CodecULaw
	CodecALaw
)

func (c Codec) String() string {
	switch c {
	case CodecLinear:
		return "linear"
	case CodecULaw:
		return "ulaw"
	case CodecALaw:
		return "alaw"
	default:
		return fmt.Sprintf("Codec(%d)", int(c))
	}
}

func LookupCodec(name string) (Codec, error) {
	switch strings.ToLower(name) {
	case "", "linear", "slin", "pcm":
		return CodecLinear, nil
	case "ulaw", "mulaw", "pcmu":
		return CodecULaw, nil
	case "alaw", "pcma":
		return CodecALaw, nil
	default:
		return CodecLinear, fmt.Errorf("unknown codec %q", name)
	}
}

const ulawBias = 0x84

func ulawToLinear(u byte) int16 {
	u = ^u

	var t = (int(u&0x0f) << 3) + ulawBias
	t <<= (u & 0x70) >> 4

	if u&0x80 != 0 {
		return int16(ulawBias - t)
	}

	return int16(t - ulawBias)
}

func alawToLinear(a byte) int16 {
	a ^= 0x55

	var t = int(a&0x0f) << 4
	var seg = (a & 0x70) >> 4

	switch seg {
	case 0:
		t += 8
	case 1:
		t += 0x108
	default:
		t += 0x108
		t <<= seg - 1
	}

	if a&0x80 != 0 {
		return int16(t)
	}

	return int16(-t)
}

// ExpandG711 converts companded bytes to linear samples.
func ExpandG711(codec Codec, in []byte) []int16 {
	var out = make([]int16, len(in))

	switch codec {
	case CodecULaw:
		for i, b := range in {
			out[i] = ulawToLinear(b)
		}
	case CodecALaw:
		for i, b := range in {
			out[i] = alawToLinear(b)
		}
	case CodecLinear:
		Assert(false)
	}

	return out
}
