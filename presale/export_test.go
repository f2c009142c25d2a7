package presale

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdvfarma/dbf"
)

// fakeAllocator counts every consumed number, so tests can prove a failed
// compile never burns one.
type fakeAllocator struct {
	next  int
	calls int
	err   error
}

func (f *fakeAllocator) Next() (int, string, error) {
	if f.err != nil {
		return 0, "", f.err
	}
	f.calls++
	n := f.next
	f.next++
	return n, fmt.Sprintf("C%06d.DBF", n), nil
}

func TestExportBasicSale(t *testing.T) {
	seq := &fakeAllocator{next: 900000}
	exporter := &Exporter{
		Sequence: seq,
		Now:      func() time.Time { return compileTime },
	}

	result, err := exporter.Export(basicCart())
	require.NoError(t, err)

	assert.Equal(t, 900000, result.Number)
	assert.Equal(t, "C900000.DBF", result.Filename)
	assert.Equal(t, 3, result.RecordCount)
	assert.Equal(t, 1, seq.calls)

	parsed, err := dbf.Parse(result.Data)
	require.NoError(t, err)
	assert.Equal(t, 3, parsed.RecordCount)
	assert.Equal(t, "20.00", parsed.Value(0, dbf.FieldTotal))

	// Total file length follows the header/record arithmetic.
	want := dbf.HeaderLength(dbf.PreSaleFields) + 3*dbf.RecordLength(dbf.PreSaleFields) + 1
	assert.Equal(t, want, len(result.Data))
}

func TestExportFailedCompileBurnsNoNumber(t *testing.T) {
	seq := &fakeAllocator{next: 900000}
	exporter := &Exporter{Sequence: seq}

	cart := basicCart()
	cart.Lines[0].Controlled = true // no prescription attached

	_, err := exporter.Export(cart)
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
	assert.Zero(t, seq.calls, "validation failures must not consume a sequence number")
}

func TestExportStorageFailure(t *testing.T) {
	exporter := &Exporter{Sequence: &fakeAllocator{err: fmt.Errorf("storage unavailable")}}

	_, err := exporter.Export(basicCart())
	require.Error(t, err)
	assert.False(t, IsValidationError(err))
}

func TestExportFilenamesStrictlyIncrease(t *testing.T) {
	seq := &fakeAllocator{next: 900000}
	exporter := &Exporter{Sequence: seq}

	first, err := exporter.Export(basicCart())
	require.NoError(t, err)
	second, err := exporter.Export(basicCart())
	require.NoError(t, err)

	assert.Equal(t, "C900000.DBF", first.Filename)
	assert.Equal(t, "C900001.DBF", second.Filename)
	assert.Less(t, first.Number, second.Number)
}

func TestRenderReceipt(t *testing.T) {
	cart := basicCart()
	exporter := &Exporter{
		Sequence: &fakeAllocator{next: 900123},
		Now:      func() time.Time { return compileTime },
	}
	result, err := exporter.Export(cart)
	require.NoError(t, err)

	receipt := string(RenderReceipt(result, cart))
	assert.Contains(t, receipt, "No. 900123")
	assert.Contains(t, receipt, "12345")
	assert.Contains(t, receipt, "20.00")
	assert.Contains(t, receipt, "OPERADOR: 1 - CAIXA")
}
