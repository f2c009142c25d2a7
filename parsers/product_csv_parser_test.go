package parsers

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProductCSV(t *testing.T) {
	csv := "CODIGO,BARRAS,DESCRICAO,PRECO,PRECO_DESC,PROMO_QTDE,PROMO_PRECO,CONTROLADO,ESTOQUE\n" +
		"12345,7891234567890,DIPIRONA 500MG,\"10,00\",\"9,50\",3,\"7,00\",N,120\n" +
		"67890,,RIVOTRIL 2MG,\"35,90\",\"35,90\",0,0,S,8\n" +
		",,SEM CODIGO,\"1,00\",,,,N,0\n"

	products, err := ParseProductCSV(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, products, 2, "the row without a code is skipped")

	first := products[0]
	assert.Equal(t, "12345", first.ProductCode)
	assert.Equal(t, "7891234567890", first.Barcode)
	assert.Equal(t, "10.00", first.ListPrice.StringFixed(2))
	assert.Equal(t, "9.50", first.DiscountPrice.StringFixed(2))
	assert.Equal(t, 3, first.PromotionThreshold)
	assert.Equal(t, "7.00", first.PromotionPrice.StringFixed(2))
	assert.False(t, first.Controlled)
	assert.Equal(t, 120, first.StockQuantity)

	assert.True(t, products[1].Controlled)
}

func TestParseProductCSVWithBOM(t *testing.T) {
	csv := "\xEF\xBB\xBFCODIGO,DESCRICAO,PRECO\n111,PRODUTO A,\"5,25\"\n"

	products, err := ParseProductCSV(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "5.25", products[0].ListPrice.StringFixed(2))
}

func TestParseProductCSVMissingHeader(t *testing.T) {
	_, err := ParseProductCSV(strings.NewReader("CODIGO,DESCRICAO\n1,X\n"))
	require.Error(t, err)

	_, err = ParseProductCSV(strings.NewReader(""))
	require.Error(t, err)
}
