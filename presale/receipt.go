package presale

import (
	"bytes"
	"fmt"
	"strings"

	"pdvfarma/model"
)

const receiptWidth = 40

// RenderReceipt produces the plain-text slip printed after a successful
// export. Failures on the printing side never roll the export back, so
// this function works purely from the already-exported data.
func RenderReceipt(result *ExportResult, cart model.PreSaleCart) []byte {
	var buf bytes.Buffer

	center := func(s string) {
		if len(s) >= receiptWidth {
			buf.WriteString(s + "\r\n")
			return
		}
		pad := (receiptWidth - len(s)) / 2
		buf.WriteString(strings.Repeat(" ", pad) + s + "\r\n")
	}
	rule := func() { buf.WriteString(strings.Repeat("-", receiptWidth) + "\r\n") }

	center("PRE-VENDA")
	center(fmt.Sprintf("No. %06d", result.Number))
	rule()
	buf.WriteString(fmt.Sprintf("DATA: %s  HORA: %s\r\n",
		result.GeneratedAt.Format("02/01/2006"), result.GeneratedAt.Format("15:04:05")))
	buf.WriteString(fmt.Sprintf("OPERADOR: %d - %s\r\n", cart.Operator.ID, cart.Operator.Name))
	if cart.Customer != nil {
		buf.WriteString(fmt.Sprintf("CLIENTE: %s\r\n", cart.Customer.Name))
	}
	rule()

	for _, line := range cart.Lines {
		buf.WriteString(fmt.Sprintf("%-13s %s\r\n", line.ProductCode, clip(line.ProductName, receiptWidth-14)))
		marker := " "
		switch {
		case line.TokenApplied:
			marker = "*"
		case line.PromotionApplied:
			marker = "P"
		}
		buf.WriteString(fmt.Sprintf("  %4d x %10s %s %12s\r\n",
			line.Quantity, line.FinalPrice.StringFixed(2), marker, line.LineTotal().StringFixed(2)))
	}

	rule()
	buf.WriteString(fmt.Sprintf("%-20s %19s\r\n", "TOTAL", cart.Total().StringFixed(2)))
	rule()
	center("APRESENTE ESTE CUPOM NO CAIXA")

	return buf.Bytes()
}

func clip(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
