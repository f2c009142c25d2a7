package presale

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdvfarma/dbf"
	"pdvfarma/model"
)

var compileTime = time.Date(2024, time.January, 31, 10, 30, 0, 0, time.Local)

func basicCart() model.PreSaleCart {
	return model.PreSaleCart{
		Operator: model.Operator{ID: 1, Name: "CAIXA"},
		Lines: []model.CartLine{
			func() model.CartLine {
				l := model.CartLine{
					ProductCode:   "12345",
					ProductName:   "DIPIRONA 500MG",
					Quantity:      2,
					ListPrice:     dec("10.00"),
					DiscountPrice: dec("10.00"),
				}
				Reprice(&l)
				return l
			}(),
		},
	}
}

// compileToFile runs the full compile → format → assemble → parse chain so
// assertions read fields back the way the legacy consumer would.
func compileToFile(t *testing.T, cart model.PreSaleCart) *dbf.File {
	t.Helper()
	rows, err := Compile(cart, compileTime)
	require.NoError(t, err)

	records := make([][]byte, 0, len(rows))
	for _, row := range rows {
		records = append(records, dbf.FormatRecord(row, dbf.PreSaleFields))
	}
	data, err := dbf.Assemble(dbf.PreSaleFields, records, compileTime)
	require.NoError(t, err)

	parsed, err := dbf.Parse(data)
	require.NoError(t, err)
	return parsed
}

func TestCompileBasicSale(t *testing.T) {
	parsed := compileToFile(t, basicCart())

	// Header, one item, footer. No customer means no contact rows.
	require.Equal(t, 3, parsed.RecordCount)

	assert.Equal(t, "1", parsed.Value(0, dbf.FieldOperator))
	assert.Equal(t, "20.00", parsed.Value(0, dbf.FieldTotal))
	assert.Equal(t, "N", parsed.Value(0, dbf.FieldPaymentFlag))
	assert.Equal(t, "20240131", parsed.Value(0, dbf.FieldDate))
	assert.Equal(t, "10:30:00", parsed.Value(0, dbf.FieldTime))

	assert.Equal(t, []byte("      10.00"), parsed.FieldBytes(1, dbf.FieldPrice))
	assert.Equal(t, "10.00", parsed.Value(1, dbf.FieldPrice))
	assert.Equal(t, "12345", parsed.Value(1, dbf.FieldProductCode))
	assert.Equal(t, "2", parsed.Value(1, dbf.FieldQuantity))
	assert.Equal(t, "0", parsed.Value(1, dbf.FieldBackorder))
	assert.Equal(t, "N", parsed.Value(1, dbf.FieldVoidOnArrival))

	assert.Equal(t, "1", parsed.Value(2, dbf.FieldOperator))
	assert.Equal(t, "N", parsed.Value(2, dbf.FieldPaymentFlag))
	assert.Equal(t, "", parsed.Value(2, dbf.FieldProductCode))
}

func TestCompilePromotionPrice(t *testing.T) {
	cart := basicCart()
	line := model.CartLine{
		ProductCode:        "777",
		Quantity:           3,
		ListPrice:          dec("9.00"),
		DiscountPrice:      dec("9.00"),
		PromotionThreshold: 3,
		PromotionPrice:     dec("7.00"),
	}
	Reprice(&line)
	require.True(t, line.PromotionApplied)
	cart.Lines = []model.CartLine{line}

	parsed := compileToFile(t, cart)
	assert.Equal(t, "7.00", parsed.Value(1, dbf.FieldPrice))
	assert.Equal(t, "21.00", parsed.Value(0, dbf.FieldTotal))
}

func TestCompileTokenSetsPaymentFlag(t *testing.T) {
	cart := basicCart()
	cart.Lines[0].TokenPrice = dec("8.88")
	cart.Lines[0].TokenApplied = true
	Reprice(&cart.Lines[0])

	parsed := compileToFile(t, cart)
	assert.Equal(t, "S", parsed.Value(0, dbf.FieldPaymentFlag))
	assert.Equal(t, "8.88", parsed.Value(1, dbf.FieldPrice))
	assert.Equal(t, "N", parsed.Value(2, dbf.FieldPaymentFlag), "footer flag is cleared")
}

func TestCompileValidation(t *testing.T) {
	cart := basicCart()
	cart.Operator = model.Operator{}
	_, err := Compile(cart, compileTime)
	require.Error(t, err)
	assert.True(t, IsValidationError(err))

	cart = basicCart()
	cart.Lines = nil
	_, err = Compile(cart, compileTime)
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
}

func TestCompileControlledSubstanceGate(t *testing.T) {
	cart := basicCart()
	cart.Lines[0].Controlled = true

	_, err := Compile(cart, compileTime)
	require.Error(t, err, "controlled line without prescription must abort the export")
	assert.True(t, IsValidationError(err))

	cart.Lines[0].Prescription = &model.PrescriptionInfo{
		Date:                  "20240130",
		PhysicianRegistration: "CRM/PR 12345",
		PhysicianState:        "PR",
		LotNumber:             "L2024A",
		LotExpiry:             "20251231",
	}
	parsed := compileToFile(t, cart)
	assert.Equal(t, "CRM/PR 12345", parsed.Value(1, dbf.FieldFreeText))
	assert.Equal(t, "PR", parsed.Value(1, dbf.FieldPhysicianUF))
	assert.Equal(t, "20240130", parsed.Value(1, dbf.FieldRxDate))
	assert.Equal(t, "L2024A", parsed.Value(1, dbf.FieldLotNumber))
	assert.Equal(t, "20251231", parsed.Value(1, dbf.FieldLotExpiry))
}

func TestCompileControlledUsesCartDefaults(t *testing.T) {
	cart := basicCart()
	cart.Lines[0].Controlled = true
	cart.PrescriptionDate = "20240129"
	cart.PhysicianRegistration = "CRM/SP 999"
	cart.PhysicianState = "SP"

	parsed := compileToFile(t, cart)
	assert.Equal(t, "CRM/SP 999", parsed.Value(1, dbf.FieldFreeText))
	assert.Equal(t, "SP", parsed.Value(1, dbf.FieldPhysicianUF))
	assert.Equal(t, "20240129", parsed.Value(1, dbf.FieldRxDate))
	assert.Equal(t, "", parsed.Value(1, dbf.FieldLotNumber))
}

func TestCompileCustomerRows(t *testing.T) {
	cart := basicCart()
	cart.Customer = &model.Customer{
		Code:         "CL0001",
		Name:         "JOÃO DA SILVA",
		TaxID:        "12345678901",
		GovernmentID: "998877",
		Phone:        "41 99999-0000",
		Street:       "RUA DAS FLORES",
		Number:       "120",
		Complement:   "",
		Neighborhood: "CENTRO",
		City:         "CURITIBA",
	}

	parsed := compileToFile(t, cart)
	// Header + item + footer + the seven fixed contact slots.
	require.Equal(t, 10, parsed.RecordCount)

	// Header overloads the CRM column with the customer name and repeats
	// the identity fields; item rows repeat them too.
	assert.Equal(t, "JOÃO DA SILVA", parsed.Value(0, dbf.FieldFreeText))
	assert.Equal(t, "12345678901", parsed.Value(0, dbf.FieldTaxID))
	assert.Equal(t, "12345678901", parsed.Value(1, dbf.FieldTaxID))
	assert.Equal(t, "41 99999-0000", parsed.Value(1, dbf.FieldPhone))
	assert.Equal(t, "998877", parsed.Value(1, dbf.FieldGovernmentID))

	wantSlots := []string{
		"JOÃO DA SILVA",
		"41 99999-0000",
		"RUA DAS FLORES 120",
		"CENTRO",
		"CURITIBA",
		"12345678901",
		"",
	}
	for i, want := range wantSlots {
		record := 3 + i
		assert.Equal(t, want, parsed.Value(record, dbf.FieldFreeText), "slot %d value", i+1)
		assert.Equal(t, strconv.Itoa(i+1), parsed.Value(record, dbf.FieldContactSlot), "slot index")
	}
}

func TestCompileFulfillment(t *testing.T) {
	cart := basicCart()
	cart.Lines[0].Fulfillment = &model.FulfillmentInfo{
		Mode:          model.FulfillmentPickup,
		StoreID:       42,
		VoidOnArrival: true,
	}

	parsed := compileToFile(t, cart)
	assert.Equal(t, "R", parsed.Value(1, dbf.FieldPickupFlag))
	assert.Equal(t, "42", parsed.Value(1, dbf.FieldPickupStore))
	assert.Equal(t, "S", parsed.Value(1, dbf.FieldVoidOnArrival))
	assert.Equal(t, "", parsed.Value(2, dbf.FieldDeliveryDate))
}

func TestCompileDeliverySlotOnFooter(t *testing.T) {
	cart := basicCart()
	cart.Lines[0].Fulfillment = &model.FulfillmentInfo{
		Mode:               model.FulfillmentDelivery,
		AllowsDeliverySlot: true,
		DeliveryDate:       "20240201",
		DeliveryTime:       "14:00",
	}

	parsed := compileToFile(t, cart)
	assert.Equal(t, "E", parsed.Value(1, dbf.FieldPickupFlag))
	assert.Equal(t, "", parsed.Value(1, dbf.FieldPickupStore), "delivery carries no originating store")
	assert.Equal(t, "20240201", parsed.Value(2, dbf.FieldDeliveryDate))
	assert.Equal(t, "14:00", parsed.Value(2, dbf.FieldDeliveryTime))
}
