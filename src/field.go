package callerid

import (
	"fmt"
	"strings"
)

// Record tags in an MDMF message.
type FieldType uint8

const (
	FIELD_DATETIME   FieldType = 1  // MMDDHHMM, 8 bytes.
	FIELD_PHONE_NUM  FieldType = 2  // Calling line number.
	FIELD_DDN        FieldType = 3  // Dialable directory number.
	FIELD_NO_NUM     FieldType = 4  // Number absent, 1 byte reason.
	FIELD_PHONE_NAME FieldType = 7  // Calling name.
	FIELD_NO_NAME    FieldType = 8  // Name absent, 1 byte reason.
	FIELD_ALT_ROUTE  FieldType = 9  // Alternate route.
	FIELD_NAME_VALUE FieldType = 10 // name:value pair.
)

// Reason bytes for FIELD_NO_NUM and FIELD_NO_NAME.
const (
	REASON_PRIVATE     = 'P'
	REASON_UNAVAILABLE = 'O' // Out of area.
)

var fieldTypeNames = map[FieldType]string{
	FIELD_DATETIME:   "datetime",
	FIELD_PHONE_NUM:  "phone_num",
	FIELD_DDN:        "ddn",
	FIELD_NO_NUM:     "no_num",
	FIELD_PHONE_NAME: "phone_name",
	FIELD_NO_NAME:    "no_name",
	FIELD_ALT_ROUTE:  "alt_route",
	FIELD_NAME_VALUE: "name_value",
}

func (t FieldType) String() string {
	if n, ok := fieldTypeNames[t]; ok {
		return n
	}

	return fmt.Sprintf("tag_%d", uint8(t))
}

type FieldKind int

const (
	KindOther FieldKind = iota
	KindDateTime
	KindPhoneNumber
	KindPhoneName
	KindNoNumber
	KindNoName
	KindNameValue
)

func (k FieldKind) String() string {
	switch k {
	case KindDateTime:
		return "DateTime"
	case KindPhoneNumber:
		return "PhoneNumber"
	case KindPhoneName:
		return "PhoneName"
	case KindNoNumber:
		return "NoNumber"
	case KindNoName:
		return "NoName"
	case KindNameValue:
		return "NameValue"
	case KindOther:
		return "Other"
	default:
		return fmt.Sprintf("FieldKind(%d)", int(k))
	}
}

// Field is one record taken from a message.
//
// Value holds the text for DateTime, PhoneNumber, PhoneName and the value
// part of NameValue.  Name is only used by NameValue.  Data is always the
// raw record contents.  For SDMF messages Tag is the equivalent MDMF tag.
type Field struct {
	Kind  FieldKind
	Tag   FieldType
	Name  string
	Value string
	Data  []byte
}

func newField(tag FieldType, data []byte) Field {
	var f = Field{ //nolint:exhaustruct
		Tag:  tag,
		Data: append([]byte(nil), data...),
	}

	switch tag {
	case FIELD_DATETIME:
		f.Kind = KindDateTime
		f.Value = string(data)
	case FIELD_PHONE_NUM:
		f.Kind = KindPhoneNumber
		f.Value = string(data)
	case FIELD_PHONE_NAME:
		f.Kind = KindPhoneName
		f.Value = string(data)
	case FIELD_NO_NUM:
		f.Kind = KindNoNumber
	case FIELD_NO_NAME:
		f.Kind = KindNoName
	case FIELD_NAME_VALUE:
		f.Kind = KindNameValue
		// Split at the first colon.  Without one the whole thing is the name.
		var name, value, _ = strings.Cut(string(data), ":")
		f.Name = name
		f.Value = value
	case FIELD_DDN, FIELD_ALT_ROUTE:
		f.Kind = KindOther
	default:
		f.Kind = KindOther
	}

	return f
}

// Reason is the 'P' or 'O' byte of a NoNumber or NoName record, 0 otherwise.
func (f Field) Reason() byte {
	if (f.Kind == KindNoNumber || f.Kind == KindNoName) && len(f.Data) > 0 {
		return f.Data[0]
	}

	return 0
}

func (f Field) String() string {
	switch f.Kind {
	case KindDateTime, KindPhoneNumber, KindPhoneName:
		return fmt.Sprintf("%s %q", f.Kind, f.Value)
	case KindNoNumber, KindNoName:
		return fmt.Sprintf("%s %q", f.Kind, string(f.Data))
	case KindNameValue:
		return fmt.Sprintf("%s %q=%q", f.Kind, f.Name, f.Value)
	case KindOther:
		return fmt.Sprintf("%s %s %s", f.Kind, f.Tag, HexBytes(f.Data))
	default:
		return f.Kind.String()
	}
}
