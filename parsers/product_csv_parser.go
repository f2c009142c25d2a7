package parsers

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"pdvfarma/model"
)

// ParseProductCSV reads the product master CSV exported from the head
// office system. Required columns: CODIGO, DESCRICAO, PRECO. Optional:
// BARRAS, PRECO_FAB, PRECO_DESC, PROMO_QTDE, PROMO_PRECO, CONTROLADO,
// ESTOQUE. Bad lines are logged and skipped, not fatal.
func ParseProductCSV(r io.Reader) ([]model.Product, error) {
	reader := csv.NewReader(SkipBOM(r))
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("CSV file is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	colIndex, err := getColIndex(header, []string{"CODIGO", "DESCRICAO", "PRECO"})
	if err != nil {
		return nil, err
	}

	get := func(rec []string, name string) string {
		idx, ok := colIndex[name]
		if !ok || idx >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[idx])
	}
	getDecimal := func(rec []string, name string) decimal.Decimal {
		s := get(rec, name)
		if s == "" {
			return decimal.Zero
		}
		// Head office exports use a comma decimal separator.
		d, err := decimal.NewFromString(strings.ReplaceAll(s, ",", "."))
		if err != nil {
			return decimal.Zero
		}
		return d
	}
	getInt := func(rec []string, name string) int {
		n, _ := strconv.Atoi(get(rec, name))
		return n
	}

	var products []model.Product
	line := 1
	for {
		line++
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Printf("WARN: CSV line %d read error (skipped): %v", line, err)
			continue
		}

		code := get(rec, "CODIGO")
		name := get(rec, "DESCRICAO")
		if code == "" || name == "" {
			log.Printf("WARN: CSV line %d has no code or description (skipped)", line)
			continue
		}

		controlled := get(rec, "CONTROLADO")
		products = append(products, model.Product{
			ProductCode:        code,
			Barcode:            get(rec, "BARRAS"),
			ProductName:        name,
			ListPrice:          getDecimal(rec, "PRECO"),
			FactoryPrice:       getDecimal(rec, "PRECO_FAB"),
			DiscountPrice:      getDecimal(rec, "PRECO_DESC"),
			PromotionThreshold: getInt(rec, "PROMO_QTDE"),
			PromotionPrice:     getDecimal(rec, "PROMO_PRECO"),
			Controlled:         controlled == "S" || controlled == "1",
			StockQuantity:      getInt(rec, "ESTOQUE"),
		})
	}

	return products, nil
}
