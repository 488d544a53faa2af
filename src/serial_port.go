package callerid

/*------------------------------------------------------------------
 *
 * Purpose:   	Interface to serial port, hiding operating system differences.
 *
 *---------------------------------------------------------------*/

import (
	"fmt"

	"github.com/pkg/term"
)

/*-------------------------------------------------------------------
 *
 * Name:	SerialPortOpen
 *
 * Purpose:	Open serial port for sending modem style reports.
 *
 * Inputs:	devicename	- Usually like /dev/ttyS0 or /dev/ttyUSB0.
 *				  Could be /dev/rfcomm0 for Bluetooth.
 *
 *		baud		- Speed.  1200, 4800, 9600 bps, etc.
 *				  If 0, leave it alone.
 *
 *---------------------------------------------------------------*/

func SerialPortOpen(devicename string, baud int) (*term.Term, error) {
	var fd, err = term.Open(devicename, term.RawMode)
	if err != nil {
		return nil, fmt.Errorf("could not open serial port %s: %w", devicename, err)
	}

	switch baud {
	case 0: /* Leave it alone. */
	case 1200, 2400, 4800, 9600, 19200, 38400, 57600, 115200:
		err = fd.SetSpeed(baud)
	default:
		text_color_set(DW_COLOR_ERROR)
		dw_printf("SerialPortOpen: Unsupported speed %d.  Using 9600.\n", baud)
		err = fd.SetSpeed(9600)
	}

	if err != nil {
		fd.Close()
		return nil, fmt.Errorf("serial port %s speed: %w", devicename, err)
	}

	return fd, nil
}
