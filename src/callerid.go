package callerid

/*------------------------------------------------------------------
 *
 * Purpose:   	What the telephony layer wants to know about a call,
 *		taken from the message records, and the reverse.
 *
 *---------------------------------------------------------------*/

import (
	"strings"
	"time"

	"github.com/lestrrat-go/strftime"
)

const (
	PRIVATE_TEXT     = "private"
	UNAVAILABLE_TEXT = "unknown"
)

// MMDDHHMM, local time.
const DATETIME_FORMAT = "%m%d%H%M"

type CallerID struct {
	Number        string            `json:"phone_num,omitempty"`
	Name          string            `json:"phone_name,omitempty"`
	Date          string            `json:"datetime,omitempty"`
	NumberPrivacy byte              `json:"-"` // 'P', 'O' or 0.
	NamePrivacy   byte              `json:"-"`
	Extra         map[string]string `json:"extra,omitempty"`
}

func reasonText(reason byte) string {
	return IfThenElse(reason == REASON_PRIVATE, PRIVATE_TEXT, UNAVAILABLE_TEXT)
}

// cleanString replaces anything that isn't printable ASCII with a space.
func cleanString(s string) string {
	var b = []byte(s)
	for i, c := range b {
		if c < 32 || c > 127 {
			b[i] = ' '
		}
	}

	return string(b)
}

// Apply adds one record.  Later records replace earlier ones.
func (c *CallerID) Apply(f Field) {
	switch f.Kind {
	case KindDateTime:
		c.Date = cleanString(f.Value)
	case KindPhoneNumber:
		c.Number = cleanString(f.Value)
	case KindPhoneName:
		c.Name = cleanString(f.Value)
	case KindNoNumber:
		c.NumberPrivacy = f.Reason()
		c.Number = reasonText(c.NumberPrivacy)
		c.Name = c.Number
	case KindNoName:
		c.NamePrivacy = f.Reason()
		c.Name = reasonText(c.NamePrivacy)
	case KindNameValue:
		if c.Extra == nil {
			c.Extra = make(map[string]string)
		}
		c.Extra[cleanString(f.Name)] = cleanString(f.Value)
	case KindOther:
		if f.Tag == FIELD_DDN {
			c.Number = cleanString(string(f.Data))
		}
	}
}

/*-------------------------------------------------------------------
 *
 * Name:        CallerIDFromMessage
 *
 * Purpose:     Go through all remaining records of a message.
 *
 * Returns:	Whatever was found before any error.
 *
 *--------------------------------------------------------------------*/

func CallerIDFromMessage(msg *Message) (CallerID, error) {
	var fields, err = msg.Fields()

	return CallerIDFromFields(fields), err
}

func CallerIDFromFields(fields []Field) CallerID {
	var c CallerID

	for _, f := range fields {
		c.Apply(f)
	}

	return c
}

// privacyReason decides whether a value stands for "no number".
// Empty, "P" and "O" do.
func privacyReason(value string) (byte, bool) {
	switch strings.ToUpper(value) {
	case "":
		return REASON_UNAVAILABLE, true
	case "P":
		return REASON_PRIVATE, true
	case "O":
		return REASON_UNAVAILABLE, true
	default:
		return 0, false
	}
}

/*-------------------------------------------------------------------
 *
 * Name:        BuildMDMF
 *
 * Purpose:     MDMF message as sent to an analog phone.
 *
 * Inputs:	capacity	- Largest message allowed.
 *
 *		date		- MMDDHHMM.
 *
 *		number, name	- Empty, "P" or "O" sends NO_NUM or NO_NAME.
 *
 *--------------------------------------------------------------------*/

func BuildMDMF(capacity int, date string, number string, name string) (*Message, error) {
	var mb = NewMessageBuilder(capacity)

	if err := mb.AddMDMF(FIELD_DATETIME, []byte(date)); err != nil {
		return nil, err
	}

	var err error

	if reason, absent := privacyReason(number); absent {
		err = mb.AddMDMF(FIELD_NO_NUM, []byte{reason})
	} else {
		err = mb.AddMDMF(FIELD_PHONE_NUM, []byte(number))
	}

	if err != nil {
		return nil, err
	}

	if reason, absent := privacyReason(name); absent {
		err = mb.AddMDMF(FIELD_NO_NAME, []byte{reason})
	} else {
		err = mb.AddMDMF(FIELD_PHONE_NAME, []byte(name))
	}

	if err != nil {
		return nil, err
	}

	return mb.Finalize()
}

// BuildSDMF has only the date and number.  A missing number is sent as "O".
func BuildSDMF(capacity int, date string, number string) (*Message, error) {
	var mb = NewMessageBuilder(capacity)

	if reason, absent := privacyReason(number); absent {
		number = string(reason)
	}

	if err := mb.AddSDMF(date, number); err != nil {
		return nil, err
	}

	return mb.Finalize()
}

// FormatDate gives MMDDHHMM.
func FormatDate(t time.Time) string {
	var date, err = strftime.Format(DATETIME_FORMAT, t)
	Assert(err == nil)

	return date
}

// NewCallerIDMessage is BuildMDMF dated now.
func NewCallerIDMessage(capacity int, now time.Time, number string, name string) (*Message, error) {
	return BuildMDMF(capacity, FormatDate(now), number, name)
}

func NewSDMFMessage(capacity int, now time.Time, number string) (*Message, error) {
	return BuildSDMF(capacity, FormatDate(now), number)
}
