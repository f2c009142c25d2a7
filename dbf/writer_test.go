package dbf

import (
	"encoding/binary"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecords(t *testing.T) [][]byte {
	t.Helper()
	rows := []Row{
		{FieldOperator: 1, FieldTotal: decimal.NewFromInt(20), FieldDate: "20240131", FieldTime: "10:30:00"},
		{FieldOperator: 1, FieldProductCode: "12345", FieldQuantity: 2, FieldPrice: decimal.NewFromInt(10)},
		{FieldOperator: 1, FieldPaymentFlag: "N"},
	}
	records := make([][]byte, 0, len(rows))
	for _, row := range rows {
		records = append(records, FormatRecord(row, PreSaleFields))
	}
	return records
}

func TestAssembleHeaderInvariants(t *testing.T) {
	now := time.Date(2024, time.January, 31, 10, 30, 0, 0, time.Local)
	records := sampleRecords(t)

	data, err := Assemble(PreSaleFields, records, now)
	require.NoError(t, err)

	headerLen := HeaderLength(PreSaleFields)
	recordLen := RecordLength(PreSaleFields)

	assert.Equal(t, 32+32*len(PreSaleFields)+1, headerLen)
	assert.Equal(t, headerLen+len(records)*recordLen+1, len(data))

	assert.Equal(t, byte(0x03), data[0])
	assert.Equal(t, byte(124), data[1], "year is offset from 1900")
	assert.Equal(t, byte(1), data[2])
	assert.Equal(t, byte(31), data[3])

	assert.Equal(t, uint32(len(records)), binary.LittleEndian.Uint32(data[4:8]))
	assert.Equal(t, uint16(headerLen), binary.LittleEndian.Uint16(data[8:10]))
	assert.Equal(t, uint16(recordLen), binary.LittleEndian.Uint16(data[10:12]))

	assert.Equal(t, byte(0x0D), data[headerLen-1], "header terminator")
	assert.Equal(t, byte(0x1A), data[len(data)-1], "end-of-file marker")
}

func TestAssembleFieldDescriptorBlocks(t *testing.T) {
	data, err := Assemble(PreSaleFields, nil, time.Now())
	require.NoError(t, err)

	for i, fd := range PreSaleFields {
		block := data[32+32*i : 32+32*(i+1)]
		name := block[:11]
		assert.Equal(t, fd.Name, string(name[:len(fd.Name)]))
		for _, b := range name[len(fd.Name):] {
			assert.Equal(t, byte(0), b, "field name is null padded")
		}
		assert.Equal(t, byte(fd.Type), block[11])
		assert.Equal(t, byte(fd.Length), block[16])
		assert.Equal(t, byte(fd.Decimals), block[17])
	}
}

func TestAssembleRejectsWrongRecordLength(t *testing.T) {
	_, err := Assemble(PreSaleFields, [][]byte{make([]byte, 10)}, time.Now())
	require.Error(t, err)

	_, err = Assemble(nil, nil, time.Now())
	require.Error(t, err)
}

func TestRoundTrip(t *testing.T) {
	records := sampleRecords(t)
	data, err := Assemble(PreSaleFields, records, time.Now())
	require.NoError(t, err)

	parsed, err := Parse(data)
	require.NoError(t, err)
	require.Equal(t, len(records), parsed.RecordCount)
	require.Equal(t, PreSaleFields, parsed.Fields)

	// Re-slicing the buffer recovers every formatted field byte-for-byte.
	for i, rec := range records {
		offset := 1
		for _, fd := range PreSaleFields {
			want := rec[offset : offset+fd.Length]
			assert.Equal(t, want, parsed.FieldBytes(i, fd.Name), "record %d field %s", i, fd.Name)
			offset += fd.Length
		}
	}

	assert.Equal(t, "12345", parsed.Value(1, FieldProductCode))
	assert.Equal(t, "10.00", parsed.Value(1, FieldPrice))
	assert.Equal(t, "20.00", parsed.Value(0, FieldTotal))
	assert.Equal(t, "", parsed.Value(0, FieldProductCode), "absent fields decode to empty")
}

func TestParseRejectsGarbage(t *testing.T) {
	_, err := Parse([]byte{0x01, 0x02})
	require.Error(t, err)

	data, err := Assemble(PreSaleFields, sampleRecords(t), time.Now())
	require.NoError(t, err)

	_, err = Parse(data[:len(data)-10])
	require.Error(t, err)
}
