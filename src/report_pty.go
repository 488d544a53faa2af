package callerid

/*------------------------------------------------------------------
 *
 * Purpose:   	Provide modem style caller ID reports on a pseudo
 *		terminal, for applications which expect to read them from
 *		a serial port.  Linux only.
 *
 *---------------------------------------------------------------*/

import (
	"errors"
	"fmt"
	"os"

	"github.com/creack/pty"
	"golang.org/x/sys/unix"
)

/*
 * The device name is not the same every time.
 * A symlink means the application configuration
 * does not need to change when the pseudo terminal name changes.
 */
const TMP_CALLERID_SYMLINK = "/tmp/callerid"

type PseudoTerminal struct {
	master  *os.File
	slave   *os.File
	symlink string
}

func OpenPseudoTerminal(symlink string) (*PseudoTerminal, error) {
	var ptmx, pts, err = pty.Open()
	if err != nil {
		return nil, fmt.Errorf("could not create pseudo terminal: %w", err)
	}

	/*
	 * If no one is reading from the other end, the buffer space
	 * would eventually fill up and the write would block.
	 * Non-blocking lets us discard instead.
	 */
	if err := unix.SetNonblock(int(ptmx.Fd()), true); err != nil { //nolint:gosec
		ptmx.Close()
		pts.Close()
		return nil, fmt.Errorf("can't set pseudo terminal to nonblocking: %w", err)
	}

	var p = &PseudoTerminal{master: ptmx, slave: pts, symlink: ""}

	text_color_set(DW_COLOR_INFO)
	dw_printf("Caller ID reports are available on %s\n", pts.Name())

	if symlink != "" {
		os.Remove(symlink)

		if err := os.Symlink(pts.Name(), symlink); err != nil {
			text_color_set(DW_COLOR_ERROR)
			dw_printf("Failed to create symlink %s: %s\n", symlink, err)
		} else {
			dw_printf("Created symlink %s -> %s\n", symlink, pts.Name())
			p.symlink = symlink
		}
	}

	return p, nil
}

func (p *PseudoTerminal) Name() string {
	return p.slave.Name()
}

// Write discards the data, without error, when no one is listening.
func (p *PseudoTerminal) Write(data []byte) (int, error) {
	var n, err = p.master.Write(data)

	if errors.Is(err, unix.EAGAIN) {
		logger.Debug("discarding report because no one is listening", "pty", p.Name())
		return len(data), nil
	}

	return n, err //nolint:wrapcheck
}

func (p *PseudoTerminal) Close() error {
	if p.symlink != "" {
		os.Remove(p.symlink)
	}

	return errors.Join(p.master.Close(), p.slave.Close())
}
