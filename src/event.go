package callerid

import (
	"encoding/hex"
	"time"

	"github.com/google/uuid"
)

// Event is one received message, as logged and published.
type Event struct {
	ID       string    `json:"id"`
	Time     time.Time `json:"time"`
	Channel  string    `json:"channel,omitempty"`
	Type     string    `json:"type"`
	CallerID CallerID  `json:"caller_id"`
	Fields   []string  `json:"fields,omitempty"`
	Valid    bool      `json:"valid"`
	Error    string    `json:"error,omitempty"`
	Raw      string    `json:"raw"` // Hexadecimal.
}

// NewEvent validates msg and takes out the remaining records.
func NewEvent(channel string, now time.Time, msg *Message) Event {
	var fields, err = msg.Fields()

	return NewEventFromFields(channel, now, msg, fields, err)
}

// NewEventFromFields is for when the records have already been taken out.
func NewEventFromFields(channel string, now time.Time, msg *Message, fields []Field, err error) Event {
	var ev = Event{ //nolint:exhaustruct
		ID:       uuid.NewString(),
		Time:     now,
		Channel:  channel,
		Type:     MessageTypeName(msg.Type()),
		CallerID: CallerIDFromFields(fields),
		Valid:    err == nil,
		Raw:      hex.EncodeToString(msg.Bytes()),
	}

	for _, f := range fields {
		ev.Fields = append(ev.Fields, f.String())
	}

	if err != nil {
		ev.Error = err.Error()
	}

	return ev
}
