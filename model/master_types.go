package model

import "github.com/shopspring/decimal"

// Product is one row of the local product master used to build cart lines.
type Product struct {
	ProductCode        string          `db:"product_code" json:"productCode"`
	Barcode            string          `db:"barcode" json:"barcode"`
	ProductName        string          `db:"product_name" json:"productName"`
	ListPrice          decimal.Decimal `db:"list_price" json:"listPrice"`
	FactoryPrice       decimal.Decimal `db:"factory_price" json:"factoryPrice"`
	DiscountPrice      decimal.Decimal `db:"discount_price" json:"discountPrice"`
	PromotionThreshold int             `db:"promotion_threshold" json:"promotionThreshold"`
	PromotionPrice     decimal.Decimal `db:"promotion_price" json:"promotionPrice"`
	Controlled         bool            `db:"controlled" json:"controlled"`
	StockQuantity      int             `db:"stock_quantity" json:"stockQuantity"`
}

// PriceToken is a validated override code that forces a line's unit price.
type PriceToken struct {
	Code        string          `db:"code" json:"code"`
	ProductCode string          `db:"product_code" json:"productCode"`
	Price       decimal.Decimal `db:"price" json:"price"`
	Used        bool            `db:"used" json:"used"`
}
