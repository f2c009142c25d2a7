package presale

import (
	"fmt"
	"time"

	"pdvfarma/dbf"
	"pdvfarma/model"
)

// SequenceAllocator hands out the persisted pre-sale file number. The
// sqlite-backed implementation lives in the database package; tests plug
// in their own.
type SequenceAllocator interface {
	Next() (number int, filename string, err error)
}

// ExportResult is a finished interchange file ready to be offered for
// download and handed to the receipt printer.
type ExportResult struct {
	Number      int
	Filename    string
	Data        []byte
	RecordCount int
	GeneratedAt time.Time
}

// Exporter compiles a cart into the legacy binary file and names it. The
// sequence number is only consumed after the compile and the assembly
// have both succeeded, so a rejected cart never burns a number.
type Exporter struct {
	Sequence SequenceAllocator
	Now      func() time.Time
}

func (e *Exporter) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

// Export runs the whole pipeline: validate and compile the rows, format
// and assemble the buffer, then allocate the file number.
func (e *Exporter) Export(cart model.PreSaleCart) (*ExportResult, error) {
	now := e.now()

	rows, err := Compile(cart, now)
	if err != nil {
		return nil, err
	}

	records := make([][]byte, 0, len(rows))
	for _, row := range rows {
		records = append(records, dbf.FormatRecord(row, dbf.PreSaleFields))
	}

	data, err := dbf.Assemble(dbf.PreSaleFields, records, now)
	if err != nil {
		return nil, fmt.Errorf("failed to assemble pre-sale file: %w", err)
	}

	number, filename, err := e.Sequence.Next()
	if err != nil {
		return nil, fmt.Errorf("failed to allocate pre-sale number: %w", err)
	}

	return &ExportResult{
		Number:      number,
		Filename:    filename,
		Data:        data,
		RecordCount: len(records),
		GeneratedAt: now,
	}, nil
}
