package presale

import "pdvfarma/model"

// Reprice recomputes a line's effective list price, final price and the
// promotion/token markers. It must run every time the quantity changes,
// not only when the line is inserted, or a quantity edit could keep a
// promotion price the line no longer qualifies for.
func Reprice(line *model.CartLine) {
	list := line.ListPrice
	if list.IsZero() {
		list = line.ListPriceFallback
	}
	line.EffectiveListPrice = list

	final := line.DiscountPrice
	line.PromotionApplied = false
	if line.PromotionThreshold > 0 && line.PromotionPrice.IsPositive() && line.Quantity >= line.PromotionThreshold {
		final = line.PromotionPrice
		line.PromotionApplied = true
	}

	// A validated override token wins over both list and promotion price.
	if line.TokenApplied {
		final = line.TokenPrice
	}

	line.FinalPrice = final
}

// NewCartLine builds a cart line from a product master row and prices it.
func NewCartLine(p model.Product, quantity int) model.CartLine {
	line := model.CartLine{
		ProductCode:        p.ProductCode,
		ProductName:        p.ProductName,
		Quantity:           quantity,
		ListPrice:          p.ListPrice,
		ListPriceFallback:  p.FactoryPrice,
		DiscountPrice:      p.DiscountPrice,
		PromotionThreshold: p.PromotionThreshold,
		PromotionPrice:     p.PromotionPrice,
		Controlled:         p.Controlled,
	}
	Reprice(&line)
	return line
}
