package callerid

// A lightweight reimplementation of Dire Wolf's textcolor.c

import (
	"fmt"
)

type dw_color_e int

const (
	DW_COLOR_INFO    dw_color_e = iota /* black */
	DW_COLOR_ERROR                     /* red */
	DW_COLOR_REC                       /* green */
	DW_COLOR_DECODED                   /* blue */
	DW_COLOR_XMIT                      /* magenta */
	DW_COLOR_DEBUG                     /* dark_green */
)

var _text_color_level int

// ANSI escape sequences, same choices as the original.
// Level 1 is for a light background, level 2 is for dark.
var _text_color_light = map[dw_color_e]string{
	DW_COLOR_INFO:    "\x1b[0;30m",
	DW_COLOR_ERROR:   "\x1b[1;31m",
	DW_COLOR_REC:     "\x1b[1;32m",
	DW_COLOR_DECODED: "\x1b[1;34m",
	DW_COLOR_XMIT:    "\x1b[1;35m",
	DW_COLOR_DEBUG:   "\x1b[0;32m",
}

var _text_color_dark = map[dw_color_e]string{
	DW_COLOR_INFO:    "\x1b[0;37m",
	DW_COLOR_ERROR:   "\x1b[1;31m",
	DW_COLOR_REC:     "\x1b[1;32m",
	DW_COLOR_DECODED: "\x1b[1;36m",
	DW_COLOR_XMIT:    "\x1b[1;35m",
	DW_COLOR_DEBUG:   "\x1b[0;32m",
}

func text_color_init(level int) {
	_text_color_level = level
}

// TextColorInit is for the command line tools.  0 disables colours.
func TextColorInit(level int) {
	text_color_init(level)
}

func text_color_set(c dw_color_e) {
	switch _text_color_level {
	case 0:
		return
	case 1:
		fmt.Print(_text_color_light[c])
	default:
		fmt.Print(_text_color_dark[c])
	}
}
