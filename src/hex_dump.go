package callerid

import (
	"fmt"
	"strings"
)

// hexDump prints 16 bytes per line with the printable characters alongside.
func hexDump(p []byte) {
	var offset = 0

	for len(p) > 0 {
		var n = min(len(p), 16)

		dw_printf("  %03x: ", offset)

		for i := range 16 {
			if i < n {
				dw_printf(" %02x", p[i])
			} else {
				dw_printf("   ")
			}
		}

		dw_printf("  %s\n", printable(p[:n]))

		p = p[n:]
		offset += n
	}
}

func printable(p []byte) string {
	var sb strings.Builder

	for _, c := range p {
		if c >= 0x20 && c <= 0x7E {
			sb.WriteByte(c)
		} else {
			sb.WriteByte('.')
		}
	}

	return sb.String()
}

// HexBytes gives "[04 0f 30 31]".
func HexBytes(p []byte) string {
	var parts = make([]string, len(p))
	for i, c := range p {
		parts[i] = fmt.Sprintf("%02x", c)
	}

	return "[" + strings.Join(parts, " ") + "]"
}

// FormatBits shows bytes as they go on the line, one group per byte.
// Framed adds the start and stop bits: "0 00100000 1".
func FormatBits(p []byte, order BitOrder, framed bool) string {
	var bs = newBitStream(p, order, framed)
	var sb strings.Builder
	var width = IfThenElse(framed, 10, 8)
	var i = 0

	for {
		var bit, ok = bs.next()
		if !ok {
			break
		}

		var pos = i % width

		if pos == 0 && i > 0 {
			sb.WriteString("  ")
		}

		if framed && (pos == 1 || pos == 9) {
			sb.WriteByte(' ')
		}

		sb.WriteByte('0' + bit)
		i++
	}

	return sb.String()
}
