package callerid

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewField(t *testing.T) {
	var tests = []struct {
		tag   FieldType
		data  string
		kind  FieldKind
		name  string
		value string
		str   string
	}{
		{tag: FIELD_DATETIME, data: "01011200", kind: KindDateTime, value: "01011200", str: `DateTime "01011200"`},
		{tag: FIELD_PHONE_NUM, data: "5551234", kind: KindPhoneNumber, value: "5551234", str: `PhoneNumber "5551234"`},
		{tag: FIELD_PHONE_NAME, data: "JOHN SMITH", kind: KindPhoneName, value: "JOHN SMITH", str: `PhoneName "JOHN SMITH"`},
		{tag: FIELD_NO_NUM, data: "P", kind: KindNoNumber, str: `NoNumber "P"`},
		{tag: FIELD_NO_NAME, data: "O", kind: KindNoName, str: `NoName "O"`},
		{tag: FIELD_NAME_VALUE, data: "line:2:a", kind: KindNameValue, name: "line", value: "2:a", str: `NameValue "line"="2:a"`},
		{tag: FIELD_NAME_VALUE, data: "flag", kind: KindNameValue, name: "flag", value: "", str: `NameValue "flag"=""`},
		{tag: FIELD_DDN, data: "123", kind: KindOther, str: "Other ddn [31 32 33]"},
		{tag: FieldType(0x42), data: "\x01", kind: KindOther, str: "Other tag_66 [01]"},
	}

	for _, tc := range tests {
		var f = newField(tc.tag, []byte(tc.data))

		assert.Equal(t, tc.kind, f.Kind, "%s", tc.tag)
		assert.Equal(t, tc.tag, f.Tag)
		assert.Equal(t, tc.name, f.Name)
		assert.Equal(t, tc.value, f.Value)
		assert.Equal(t, []byte(tc.data), f.Data)
		assert.Equal(t, tc.str, f.String())
	}
}

func TestFieldReason(t *testing.T) {
	assert.Equal(t, byte('P'), newField(FIELD_NO_NUM, []byte("P")).Reason())
	assert.Equal(t, byte('O'), newField(FIELD_NO_NAME, []byte("O")).Reason())
	assert.Equal(t, byte(0), newField(FIELD_NO_NAME, nil).Reason())
	assert.Equal(t, byte(0), newField(FIELD_PHONE_NUM, []byte("P")).Reason())
}

func TestFieldDataIsCopied(t *testing.T) {
	var data = []byte("5551234")
	var f = newField(FIELD_PHONE_NUM, data)

	data[0] = 'X'
	assert.Equal(t, []byte("5551234"), f.Data)
}

func TestFieldTypeString(t *testing.T) {
	assert.Equal(t, "phone_num", FIELD_PHONE_NUM.String())
	assert.Equal(t, "tag_200", FieldType(200).String())
}
