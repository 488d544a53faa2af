package callerid

/*------------------------------------------------------------------
 *
 * Purpose:   	Present received caller ID the way a voice modem does
 *		after AT+VCID=1, for older applications which expect it.
 *
 * Description:	Looks like this, each line ending with CR LF:
 *
 *			DATE = 1018
 *			TIME = 1432
 *			NMBR = 5551234
 *			NAME = JOHN SMITH
 *
 *		A private or unavailable number or name shows as P or O.
 *		A message which can't be understood is shown in
 *		hexadecimal as MESG.
 *
 *---------------------------------------------------------------*/

import (
	"fmt"
	"io"
	"strings"
)

func FormatModemReport(ev Event) string {
	var sb strings.Builder

	if !ev.Valid {
		fmt.Fprintf(&sb, "MESG = %s\r\n\r\n", strings.ToUpper(ev.Raw))
		return sb.String()
	}

	var c = ev.CallerID

	if len(c.Date) == SDMF_DATETIME_LEN {
		fmt.Fprintf(&sb, "DATE = %s\r\n", c.Date[:4])
		fmt.Fprintf(&sb, "TIME = %s\r\n", c.Date[4:])
	}

	switch {
	case c.NumberPrivacy != 0:
		fmt.Fprintf(&sb, "NMBR = %c\r\n", c.NumberPrivacy)
	case c.Number != "":
		fmt.Fprintf(&sb, "NMBR = %s\r\n", c.Number)
	}

	switch {
	case c.NamePrivacy != 0:
		fmt.Fprintf(&sb, "NAME = %c\r\n", c.NamePrivacy)
	case c.Name != "" && !(c.NumberPrivacy != 0 && c.Name == reasonText(c.NumberPrivacy)):
		// Not when it's only the number's privacy text.
		fmt.Fprintf(&sb, "NAME = %s\r\n", c.Name)
	}

	sb.WriteString("\r\n")

	return sb.String()
}

// ModemReporter writes reports to a serial port, pseudo terminal or anything else.
type ModemReporter struct {
	w    io.Writer
	name string
}

func NewModemReporter(name string, w io.Writer) *ModemReporter {
	return &ModemReporter{w: w, name: name}
}

func (r *ModemReporter) Report(ev Event) error {
	var s = FormatModemReport(ev)

	var n, err = io.WriteString(r.w, s)
	if err != nil {
		return fmt.Errorf("report to %s: %w", r.name, err)
	}

	if n != len(s) {
		return fmt.Errorf("report to %s: %w", r.name, io.ErrShortWrite)
	}

	return nil
}
