package presale

import (
	"fmt"
	"sync"

	"pdvfarma/model"
)

// CartStore holds the single in-flight pre-sale for this terminal. The
// export is one synchronous critical section; the mutex only protects the
// cart against overlapping HTTP requests.
type CartStore struct {
	mu   sync.RWMutex
	cart model.PreSaleCart
}

func NewCartStore() *CartStore {
	return &CartStore{}
}

// Snapshot returns a deep-enough copy for compiling: the line slice is
// cloned so the export works on a stable view.
func (s *CartStore) Snapshot() model.PreSaleCart {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneCart(s.cart)
}

func cloneCart(c model.PreSaleCart) model.PreSaleCart {
	clone := c
	clone.Lines = make([]model.CartLine, len(c.Lines))
	copy(clone.Lines, c.Lines)
	if c.Customer != nil {
		customer := *c.Customer
		clone.Customer = &customer
	}
	return clone
}

// Clear resets the cart after a successful export.
func (s *CartStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart = model.PreSaleCart{}
}

func (s *CartStore) SetOperator(op model.Operator) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.Operator = op
}

func (s *CartStore) SetCustomer(c *model.Customer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.Customer = c
}

// SetPrescriptionDefaults stores the window-level physician data used by
// controlled lines without a per-line prescription.
func (s *CartStore) SetPrescriptionDefaults(date, registration, state string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.PrescriptionDate = date
	s.cart.PhysicianRegistration = registration
	s.cart.PhysicianState = state
}

// AddLine appends a priced line and returns its index.
func (s *CartStore) AddLine(line model.CartLine) (int, error) {
	if line.Quantity < 1 {
		return 0, fmt.Errorf("quantity must be at least 1")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.Lines = append(s.cart.Lines, line)
	return len(s.cart.Lines) - 1, nil
}

// UpdateQuantity changes a line's quantity and reprices it.
func (s *CartStore) UpdateQuantity(index, quantity int) error {
	if quantity < 1 {
		return fmt.Errorf("quantity must be at least 1")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.cart.Lines) {
		return fmt.Errorf("line %d does not exist", index)
	}
	s.cart.Lines[index].Quantity = quantity
	Reprice(&s.cart.Lines[index])
	return nil
}

// RemoveLine drops one line, keeping cart order.
func (s *CartStore) RemoveLine(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.cart.Lines) {
		return fmt.Errorf("line %d does not exist", index)
	}
	s.cart.Lines = append(s.cart.Lines[:index], s.cart.Lines[index+1:]...)
	return nil
}

// SetLinePrescription attaches controlled-substance capture to one line.
func (s *CartStore) SetLinePrescription(index int, rx model.PrescriptionInfo) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.cart.Lines) {
		return fmt.Errorf("line %d does not exist", index)
	}
	s.cart.Lines[index].Prescription = &rx
	return nil
}

// SetLineFulfillment assigns a line to another store or a delivery slot.
func (s *CartStore) SetLineFulfillment(index int, f model.FulfillmentInfo) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.cart.Lines) {
		return fmt.Errorf("line %d does not exist", index)
	}
	s.cart.Lines[index].Fulfillment = &f
	return nil
}

// ApplyToken forces a line's unit price from a validated override token.
func (s *CartStore) ApplyToken(index int, token model.PriceToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.cart.Lines) {
		return fmt.Errorf("line %d does not exist", index)
	}
	line := &s.cart.Lines[index]
	if token.ProductCode != "" && token.ProductCode != line.ProductCode {
		return fmt.Errorf("token %s is not valid for product %s", token.Code, line.ProductCode)
	}
	line.TokenPrice = token.Price
	line.TokenApplied = true
	Reprice(line)
	return nil
}
