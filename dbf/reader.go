package dbf

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// File is a parsed table: the descriptors recovered from the header and
// the raw field bytes of every record.
type File struct {
	Fields      []FieldDescriptor
	RecordCount int

	// records[i][j] holds the untrimmed bytes of field j in record i.
	records [][][]byte
}

// Parse re-slices an assembled buffer back into per-field byte values.
// It is the inverse of Assemble and is used to inspect generated files.
func Parse(data []byte) (*File, error) {
	if len(data) < 32 {
		return nil, fmt.Errorf("dbf: buffer too short for header (%d bytes)", len(data))
	}
	if data[0] != versionByte {
		return nil, fmt.Errorf("dbf: unsupported version byte 0x%02X", data[0])
	}

	recordCount := int(binary.LittleEndian.Uint32(data[4:8]))
	headerLen := int(binary.LittleEndian.Uint16(data[8:10]))
	recordLen := int(binary.LittleEndian.Uint16(data[10:12]))

	fieldCount := (headerLen - 32 - 1) / 32
	if fieldCount <= 0 || headerLen != 32+32*fieldCount+1 {
		return nil, fmt.Errorf("dbf: inconsistent header length %d", headerLen)
	}
	if len(data) < headerLen {
		return nil, fmt.Errorf("dbf: buffer shorter than declared header (%d < %d)", len(data), headerLen)
	}
	if data[headerLen-1] != headerTerm {
		return nil, fmt.Errorf("dbf: missing header terminator")
	}

	fields := make([]FieldDescriptor, 0, fieldCount)
	fieldsLen := 0
	for i := 0; i < fieldCount; i++ {
		block := data[32+32*i : 32+32*(i+1)]
		name := string(bytes.TrimRight(block[:11], "\x00"))
		fd := FieldDescriptor{
			Name:     name,
			Type:     FieldType(block[11]),
			Length:   int(block[16]),
			Decimals: int(block[17]),
		}
		fields = append(fields, fd)
		fieldsLen += fd.Length
	}
	if recordLen != deletedFlagSize+fieldsLen {
		return nil, fmt.Errorf("dbf: record length %d does not match field widths %d", recordLen, fieldsLen+1)
	}

	want := headerLen + recordCount*recordLen + 1
	if len(data) < want {
		return nil, fmt.Errorf("dbf: truncated file (%d bytes, want %d)", len(data), want)
	}

	records := make([][][]byte, 0, recordCount)
	for i := 0; i < recordCount; i++ {
		rec := data[headerLen+i*recordLen : headerLen+(i+1)*recordLen]
		fieldBytes := make([][]byte, 0, fieldCount)
		offset := deletedFlagSize
		for _, fd := range fields {
			fieldBytes = append(fieldBytes, rec[offset:offset+fd.Length])
			offset += fd.Length
		}
		records = append(records, fieldBytes)
	}

	return &File{Fields: fields, RecordCount: recordCount, records: records}, nil
}

// FieldBytes returns the raw fixed-width bytes of a field, or nil when the
// record index or field name does not exist.
func (f *File) FieldBytes(record int, name string) []byte {
	if record < 0 || record >= len(f.records) {
		return nil
	}
	for i, fd := range f.Fields {
		if fd.Name == name {
			return f.records[record][i]
		}
	}
	return nil
}

// Value returns a field decoded to a trimmed string, the way the legacy
// reader consumes it. Missing fields come back empty.
func (f *File) Value(record int, name string) string {
	raw := f.FieldBytes(record, name)
	if raw == nil {
		return ""
	}
	return DecodeText(bytes.Trim(raw, "\x00 "))
}
