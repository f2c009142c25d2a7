package presale

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"pdvfarma/dbf"
	"pdvfarma/model"
)

// The footer row always carries operator 1, regardless of who ran the
// sale. The legacy POS engine uses that fixed id to detect the trailer.
const footerOperatorID = 1

// contactSlotCount is the fixed number of customer-contact rows appended
// when a customer is attached. Slot order is part of the file contract.
const contactSlotCount = 7

// ValidationError marks input problems detected before any byte is
// written. The cart and the sequence counter stay untouched so the
// operator can correct the pre-sale and retry.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string { return e.msg }

func validationf(format string, args ...interface{}) error {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}

// IsValidationError reports whether err is a pre-sale validation failure.
func IsValidationError(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

var presaleFieldNames = func() map[string]struct{} {
	names := make(map[string]struct{}, len(dbf.PreSaleFields))
	for _, fd := range dbf.PreSaleFields {
		names[fd.Name] = struct{}{}
	}
	return names
}()

// emit assigns one logical field, guarding against drift between the
// compiler and the frozen schema.
func emit(row dbf.Row, field string, value interface{}) {
	if _, ok := presaleFieldNames[field]; !ok {
		panic(fmt.Sprintf("presale: field %q is not part of the pre-sale layout", field))
	}
	row[field] = value
}

// Compile turns one cart into the ordered logical rows of the interchange
// file: one header, one item row per cart line, one footer and, when a
// customer is attached, the seven fixed contact rows.
func Compile(cart model.PreSaleCart, now time.Time) ([]dbf.Row, error) {
	if cart.Operator.ID <= 0 {
		return nil, validationf("no operator selected for the pre-sale")
	}
	if len(cart.Lines) == 0 {
		return nil, validationf("the pre-sale has no items")
	}

	date := now.Format("20060102")
	clock := now.Format("15:04:05")

	rows := make([]dbf.Row, 0, len(cart.Lines)+2+contactSlotCount)
	rows = append(rows, headerRow(cart, date, clock))

	for i, line := range cart.Lines {
		row, err := itemRow(cart, line, i, date, clock)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}

	rows = append(rows, footerRow(cart, date, clock))

	if cart.Customer != nil {
		rows = append(rows, contactRows(*cart.Customer)...)
	}

	return rows, nil
}

func headerRow(cart model.PreSaleCart, date, clock string) dbf.Row {
	row := dbf.Row{}
	emit(row, dbf.FieldOperator, cart.Operator.ID)
	emit(row, dbf.FieldDate, date)
	emit(row, dbf.FieldTime, clock)
	emit(row, dbf.FieldTotal, cart.Total())

	flag := "N"
	for _, line := range cart.Lines {
		if line.TokenApplied {
			flag = "S"
			break
		}
	}
	emit(row, dbf.FieldPaymentFlag, flag)

	if cart.Customer != nil {
		// Legacy overload: the header carries the customer name in the
		// CRM column. The reader depends on it; do not "fix" this.
		emit(row, dbf.FieldFreeText, cart.Customer.Name)
		emit(row, dbf.FieldTaxID, cart.Customer.TaxID)
		emit(row, dbf.FieldPhone, cart.Customer.Phone)
		emit(row, dbf.FieldGovernmentID, cart.Customer.GovernmentID)
	}

	return row
}

// resolvePrescription picks the per-line capture when present, falling
// back to the window-level physician data for the remaining lines of the
// same prescription.
func resolvePrescription(cart model.PreSaleCart, line model.CartLine) *model.PrescriptionInfo {
	if line.Prescription != nil {
		return line.Prescription
	}
	if cart.PhysicianRegistration == "" && cart.PrescriptionDate == "" {
		return nil
	}
	return &model.PrescriptionInfo{
		Date:                  cart.PrescriptionDate,
		PhysicianRegistration: cart.PhysicianRegistration,
		PhysicianState:        cart.PhysicianState,
	}
}

func itemRow(cart model.PreSaleCart, line model.CartLine, index int, date, clock string) (dbf.Row, error) {
	if line.Quantity < 1 {
		return nil, validationf("item %d (%s): quantity must be at least 1", index+1, line.ProductCode)
	}

	row := dbf.Row{}
	emit(row, dbf.FieldOperator, cart.Operator.ID)
	emit(row, dbf.FieldProductCode, line.ProductCode)
	emit(row, dbf.FieldQuantity, line.Quantity)
	emit(row, dbf.FieldPrice, line.FinalPrice)
	emit(row, dbf.FieldDate, date)
	emit(row, dbf.FieldTime, clock)
	emit(row, dbf.FieldBackorder, 0)

	if line.Controlled {
		rx := resolvePrescription(cart, line)
		if rx == nil {
			return nil, validationf("item %d (%s) is a controlled substance without prescription data", index+1, line.ProductCode)
		}
		emit(row, dbf.FieldFreeText, rx.PhysicianRegistration)
		emit(row, dbf.FieldPhysicianUF, rx.PhysicianState)
		emit(row, dbf.FieldRxDate, rx.Date)
		emit(row, dbf.FieldLotNumber, rx.LotNumber)
		emit(row, dbf.FieldLotExpiry, rx.LotExpiry)
	}

	if cart.Customer != nil {
		emit(row, dbf.FieldTaxID, cart.Customer.TaxID)
		emit(row, dbf.FieldPhone, cart.Customer.Phone)
		emit(row, dbf.FieldGovernmentID, cart.Customer.GovernmentID)
	}

	voidOnArrival := "N"
	if f := line.Fulfillment; f != nil {
		switch f.Mode {
		case model.FulfillmentPickup:
			emit(row, dbf.FieldPickupFlag, "R")
			emit(row, dbf.FieldPickupStore, f.StoreID)
		case model.FulfillmentDelivery:
			emit(row, dbf.FieldPickupFlag, "E")
		}
		if f.VoidOnArrival {
			voidOnArrival = "S"
		}
	}
	emit(row, dbf.FieldVoidOnArrival, voidOnArrival)

	return row, nil
}

func footerRow(cart model.PreSaleCart, date, clock string) dbf.Row {
	row := dbf.Row{}
	emit(row, dbf.FieldOperator, footerOperatorID)
	emit(row, dbf.FieldDate, date)
	emit(row, dbf.FieldTime, clock)
	emit(row, dbf.FieldPaymentFlag, "N")

	for _, line := range cart.Lines {
		f := line.Fulfillment
		if f != nil && f.AllowsDeliverySlot && f.DeliveryDate != "" {
			emit(row, dbf.FieldDeliveryDate, f.DeliveryDate)
			emit(row, dbf.FieldDeliveryTime, f.DeliveryTime)
			break
		}
	}

	return row
}

// joinAddress concatenates street, number and complement with single
// spaces, skipping empty parts.
func joinAddress(c model.Customer) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{c.Street, c.Number, c.Complement} {
		if strings.TrimSpace(p) != "" {
			parts = append(parts, strings.TrimSpace(p))
		}
	}
	return strings.Join(parts, " ")
}

func contactRows(c model.Customer) []dbf.Row {
	// Slot order is fixed: name, phone, address, neighborhood, city,
	// tax id and a reserved empty slot. SEQCON is 1-based.
	values := [contactSlotCount]string{
		c.Name,
		c.Phone,
		joinAddress(c),
		c.Neighborhood,
		c.City,
		c.TaxID,
		"",
	}

	rows := make([]dbf.Row, 0, contactSlotCount)
	for i, value := range values {
		row := dbf.Row{}
		emit(row, dbf.FieldContactSlot, i+1)
		if value != "" {
			emit(row, dbf.FieldFreeText, value)
		}
		rows = append(rows, row)
	}
	return rows
}
