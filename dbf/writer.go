package dbf

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"time"
)

const (
	versionByte     = 0x03 // dBase III, no memo
	headerTerm      = 0x0D
	fileTerm        = 0x1A
	deletedFlagSize = 1
)

// Assemble builds the complete binary table: 32-byte file header, one
// 32-byte descriptor per field, the header terminator, every record and
// the end-of-file marker. Records must already be formatted to the exact
// record length (FormatRecord output).
func Assemble(fields []FieldDescriptor, records [][]byte, now time.Time) ([]byte, error) {
	if len(fields) == 0 {
		return nil, fmt.Errorf("dbf: empty field schema")
	}

	recordLen := RecordLength(fields)
	headerLen := HeaderLength(fields)

	for i, rec := range records {
		if len(rec) != recordLen {
			return nil, fmt.Errorf("dbf: record %d is %d bytes, layout requires %d", i, len(rec), recordLen)
		}
	}

	buffer := new(bytes.Buffer)
	buffer.Grow(headerLen + len(records)*recordLen + 1)

	// File header (32 bytes).
	buffer.WriteByte(versionByte)
	buffer.WriteByte(byte(now.Year() - 1900))
	buffer.WriteByte(byte(now.Month()))
	buffer.WriteByte(byte(now.Day()))

	var u32 [4]byte
	binary.LittleEndian.PutUint32(u32[:], uint32(len(records)))
	buffer.Write(u32[:])

	var u16 [2]byte
	binary.LittleEndian.PutUint16(u16[:], uint16(headerLen))
	buffer.Write(u16[:])
	binary.LittleEndian.PutUint16(u16[:], uint16(recordLen))
	buffer.Write(u16[:])

	buffer.Write(make([]byte, 20)) // reserved

	// One descriptor block (32 bytes) per field.
	for _, fd := range fields {
		name := make([]byte, 11)
		copy(name, fd.Name)
		buffer.Write(name)
		buffer.WriteByte(byte(fd.Type))
		buffer.Write(make([]byte, 4)) // reserved
		buffer.WriteByte(byte(fd.Length))
		buffer.WriteByte(byte(fd.Decimals))
		buffer.Write(make([]byte, 14)) // reserved
	}

	buffer.WriteByte(headerTerm)

	for _, rec := range records {
		buffer.Write(rec)
	}

	buffer.WriteByte(fileTerm)

	return buffer.Bytes(), nil
}
