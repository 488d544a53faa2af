package callerid

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// Diagnostics from the modem and codec.  User facing output from the
// tools still goes through dw_printf.
var logger = log.NewWithOptions(os.Stderr, log.Options{ //nolint:exhaustruct
	Prefix:          "callerid",
	ReportTimestamp: true,
	Level:           log.WarnLevel,
})

// SetLogLevel accepts debug, info, warn, error or fatal.
func SetLogLevel(name string) error {
	var level, err = log.ParseLevel(name)
	if err != nil {
		return fmt.Errorf("log level %q: %w", name, err)
	}

	logger.SetLevel(level)

	return nil
}

func SetLogOutput(w io.Writer) {
	logger.SetOutput(w)
}
