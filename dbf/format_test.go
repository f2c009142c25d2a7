package dbf

import (
	"bytes"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatCharacter(t *testing.T) {
	fd := FieldDescriptor{Name: "CODPRO", Type: TypeCharacter, Length: 8}

	assert.Equal(t, []byte("12345   "), FormatValue("12345", fd))
	assert.Equal(t, []byte("12345678"), FormatValue("123456789012", fd), "overflow keeps the leading bytes")
	assert.Equal(t, bytes.Repeat([]byte{' '}, 8), FormatValue(nil, fd))
	assert.Equal(t, []byte("ABCDEFGH"), FormatValue("ABCDEFGH", fd))
}

func TestFormatCharacterLatin1(t *testing.T) {
	fd := FieldDescriptor{Name: "CRM", Type: TypeCharacter, Length: 6}

	got := FormatValue("AÇÃO", fd)
	assert.Equal(t, []byte{'A', 0xC7, 0xC3, 'O', ' ', ' '}, got)

	// Characters outside Latin-1 degrade to '?' instead of failing.
	got = FormatValue("A日B", fd)
	assert.Equal(t, []byte{'A', '?', 'B', ' ', ' ', ' '}, got)
}

func TestFormatNumeric(t *testing.T) {
	fd := FieldDescriptor{Name: "PRECO", Type: TypeNumeric, Length: 11, Decimals: 2}

	assert.Equal(t, []byte("      10.00"), FormatValue(decimal.NewFromInt(10), fd))
	assert.Equal(t, []byte("       7.50"), FormatValue(decimal.RequireFromString("7.5"), fd))
	assert.Equal(t, []byte("      -1.25"), FormatValue(decimal.RequireFromString("-1.25"), fd))
	assert.Equal(t, []byte("          0"), FormatValue(0, FieldDescriptor{Type: TypeNumeric, Length: 11}))

	// Absent, empty and non-finite values are null, never zero.
	spaces := bytes.Repeat([]byte{' '}, 11)
	assert.Equal(t, spaces, FormatValue(nil, fd))
	assert.Equal(t, spaces, FormatValue("", fd))
	assert.Equal(t, spaces, FormatValue("  ", fd))
	assert.Equal(t, spaces, FormatValue("abc", fd))
}

func TestFormatNumericOverflowKeepsLeastSignificantDigits(t *testing.T) {
	fd := FieldDescriptor{Name: "PRECO", Type: TypeNumeric, Length: 8, Decimals: 2}

	// "123456789.99" is 12 bytes; the leading digits are dropped.
	got := FormatValue(decimal.RequireFromString("123456789.99"), fd)
	assert.Equal(t, []byte("56789.99"), got)
}

func TestFormatDate(t *testing.T) {
	fd := FieldDescriptor{Name: "DATA", Type: TypeDate, Length: 8}

	assert.Equal(t, []byte("20240131"), FormatValue("20240131", fd))
	assert.Equal(t, bytes.Repeat([]byte{' '}, 8), FormatValue(nil, fd))
	assert.Equal(t, bytes.Repeat([]byte{' '}, 8), FormatValue("", fd))
	assert.Equal(t, []byte("20240131"), FormatValue("2024013100", fd), "overlong input is cut to the field")
}

func TestFormatValueAlwaysExactWidth(t *testing.T) {
	samples := []interface{}{nil, "", "X", "a very long value that overflows everything", 0, 1, 900000, decimal.RequireFromString("12345.678"), "20240131"}
	for _, fd := range PreSaleFields {
		for _, v := range samples {
			assert.Len(t, FormatValue(v, fd), fd.Length, "field %s value %v", fd.Name, v)
		}
	}
}

func TestFormatRecord(t *testing.T) {
	row := Row{
		FieldOperator:    3,
		FieldProductCode: "12345",
		FieldQuantity:    2,
		FieldPrice:       decimal.NewFromInt(10),
	}

	record := FormatRecord(row, PreSaleFields)
	require.Len(t, record, RecordLength(PreSaleFields))
	assert.Equal(t, byte(' '), record[0], "first byte is the not-deleted marker")

	// OPERADOR is the first field, right after the deletion flag.
	assert.Equal(t, []byte("   3"), record[1:5])
}

func TestEncodeDecodeText(t *testing.T) {
	assert.Equal(t, "FARMÁCIA", DecodeText(EncodeText("FARMÁCIA")))
	assert.Equal(t, "???", DecodeText(EncodeText("日本語")))
}
