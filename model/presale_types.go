package model

import "github.com/shopspring/decimal"

// Operator is the employee running the pre-sale terminal.
type Operator struct {
	ID   int    `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// Customer carries the identity and contact data duplicated into the
// interchange file. TaxID may be empty when the customer has no record.
type Customer struct {
	Code         string `db:"customer_code" json:"code"`
	Name         string `db:"customer_name" json:"name"`
	TaxID        string `db:"tax_id" json:"taxId"`
	GovernmentID string `db:"government_id" json:"governmentId"`
	Phone        string `db:"phone" json:"phone"`
	Street       string `db:"street" json:"street"`
	Number       string `db:"number" json:"number"`
	Complement   string `db:"complement" json:"complement"`
	Neighborhood string `db:"neighborhood" json:"neighborhood"`
	City         string `db:"city" json:"city"`
}

// PrescriptionInfo holds the controlled-substance capture for one line.
// Dates are YYYYMMDD digit strings.
type PrescriptionInfo struct {
	Date                  string `json:"date"`
	PhysicianRegistration string `json:"physicianRegistration"`
	PhysicianState        string `json:"physicianState"`
	LotNumber             string `json:"lotNumber"`
	LotExpiry             string `json:"lotExpiry"`
}

type FulfillmentMode string

const (
	FulfillmentNone     FulfillmentMode = ""
	FulfillmentPickup   FulfillmentMode = "pickup"
	FulfillmentDelivery FulfillmentMode = "delivery"
)

// FulfillmentInfo assigns a line to be sourced from another store, or to a
// delivery slot.
type FulfillmentInfo struct {
	Mode               FulfillmentMode `json:"mode"`
	StoreID            int             `json:"storeId"`
	AllowsDeliverySlot bool            `json:"allowsDeliverySlot"`
	DeliveryDate       string          `json:"deliveryDate"` // YYYYMMDD
	DeliveryTime       string          `json:"deliveryTime"` // HH:MM
	VoidOnArrival      bool            `json:"voidOnArrival"`
}

// CartLine is one product in the pre-sale. FinalPrice is recomputed from
// the promotion and token data every time the quantity changes.
type CartLine struct {
	ProductCode        string            `json:"productCode"`
	ProductName        string            `json:"productName"`
	Quantity           int               `json:"quantity"`
	ListPrice          decimal.Decimal   `json:"listPrice"`
	ListPriceFallback  decimal.Decimal   `json:"listPriceFallback"`
	DiscountPrice      decimal.Decimal   `json:"discountPrice"`
	FinalPrice         decimal.Decimal   `json:"finalPrice"`
	EffectiveListPrice decimal.Decimal   `json:"effectiveListPrice"`
	PromotionThreshold int               `json:"promotionThreshold"`
	PromotionPrice     decimal.Decimal   `json:"promotionPrice"`
	PromotionApplied   bool              `json:"promotionApplied"`
	TokenPrice         decimal.Decimal   `json:"tokenPrice"`
	TokenApplied       bool              `json:"tokenApplied"`
	Controlled         bool              `json:"controlled"`
	Prescription       *PrescriptionInfo `json:"prescription,omitempty"`
	Fulfillment        *FulfillmentInfo  `json:"fulfillment,omitempty"`
}

// LineTotal is quantity times the final unit price.
func (l CartLine) LineTotal() decimal.Decimal {
	return l.FinalPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// PreSaleCart is the in-memory draft transaction consumed by the export
// driver. The physician fields are the window-level fallback used by
// controlled lines that carry no per-line prescription.
type PreSaleCart struct {
	Operator              Operator   `json:"operator"`
	Customer              *Customer  `json:"customer,omitempty"`
	Lines                 []CartLine `json:"lines"`
	PrescriptionDate      string     `json:"prescriptionDate"` // YYYYMMDD
	PhysicianRegistration string     `json:"physicianRegistration"`
	PhysicianState        string     `json:"physicianState"`
}

// Total sums quantity times final price across every line.
func (c PreSaleCart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, line := range c.Lines {
		total = total.Add(line.LineTotal())
	}
	return total
}
