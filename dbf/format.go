package dbf

import (
	"bytes"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
)

// Row is one logical record before formatting: field name -> raw value.
// Fields a row kind does not use are simply left out and render as spaces.
type Row map[string]interface{}

// EncodeText converts a string to the single-byte Latin-1 bytes the legacy
// reader expects. Characters outside the charmap become '?' instead of
// failing the export.
func EncodeText(s string) []byte {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		b, ok := charmap.ISO8859_1.EncodeRune(r)
		if !ok {
			b = '?'
		}
		out = append(out, b)
	}
	return out
}

// DecodeText converts Latin-1 bytes back to a string.
func DecodeText(b []byte) string {
	var sb strings.Builder
	for _, c := range b {
		sb.WriteRune(charmap.ISO8859_1.DecodeByte(c))
	}
	return sb.String()
}

// FormatValue renders a single value into exactly fd.Length bytes. It never
// fails: overflow is truncated (Character from the right, Numeric from the
// left, keeping the least-significant digits) and absent values render as
// spaces. The legacy reader treats an all-space numeric field as null, not
// zero, so missing numbers must not be written as 0.
func FormatValue(value interface{}, fd FieldDescriptor) []byte {
	if value == nil {
		return bytes.Repeat([]byte{' '}, fd.Length)
	}

	switch fd.Type {
	case TypeNumeric:
		return formatNumeric(value, fd)
	case TypeDate:
		return formatDate(value, fd)
	default:
		return formatCharacter(value, fd)
	}
}

func formatCharacter(value interface{}, fd FieldDescriptor) []byte {
	var s string
	switch v := value.(type) {
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		s = fmt.Sprint(v)
	}

	encoded := EncodeText(s)
	return fit(encoded, fd.Length)
}

func formatNumeric(value interface{}, fd FieldDescriptor) []byte {
	d, ok := toDecimal(value)
	if !ok {
		return bytes.Repeat([]byte{' '}, fd.Length)
	}

	formatted := []byte(d.StringFixed(int32(fd.Decimals)))
	if len(formatted) < fd.Length {
		padding := bytes.Repeat([]byte{' '}, fd.Length-len(formatted))
		return append(padding, formatted...)
	}
	// Too wide: keep the least-significant end.
	return formatted[len(formatted)-fd.Length:]
}

func formatDate(value interface{}, fd FieldDescriptor) []byte {
	s, _ := value.(string)
	if s == "" {
		return bytes.Repeat([]byte{' '}, fd.Length)
	}
	// Dates are YYYYMMDD digit strings; never reformatted here.
	return fit([]byte(s), fd.Length)
}

// fit right-pads b with spaces up to length, or truncates its tail.
func fit(b []byte, length int) []byte {
	if len(b) > length {
		return b[:length]
	}
	if len(b) < length {
		return append(b, bytes.Repeat([]byte{' '}, length-len(b))...)
	}
	return b
}

func toDecimal(value interface{}) (decimal.Decimal, bool) {
	switch v := value.(type) {
	case decimal.Decimal:
		return v, true
	case int:
		return decimal.NewFromInt(int64(v)), true
	case int64:
		return decimal.NewFromInt(v), true
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return decimal.Decimal{}, false
		}
		return decimal.NewFromFloat(v), true
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return decimal.Decimal{}, false
		}
		d, err := decimal.NewFromString(trimmed)
		if err != nil {
			return decimal.Decimal{}, false
		}
		return d, true
	default:
		return decimal.Decimal{}, false
	}
}

// FormatRecord renders a row into one fixed-length record: the "not
// deleted" marker byte followed by every field in schema order.
func FormatRecord(row Row, fields []FieldDescriptor) []byte {
	record := make([]byte, 0, RecordLength(fields))
	record = append(record, ' ')
	for _, fd := range fields {
		record = append(record, FormatValue(row[fd.Name], fd)...)
	}
	return record
}
