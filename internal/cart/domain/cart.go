package domain

import (
	"github.com/shopspring/decimal"
)

// LineItem is one aggregated cart entry for a barcode value.
// Subtotal is always UnitPrice * Quantity; it is recomputed on every
// quantity change and never mutated independently.
type LineItem struct {
	Code        string
	Name        string
	Description string
	UnitPrice   decimal.Decimal
	Quantity    int32
	Subtotal    decimal.Decimal
}

// Cart holds the ordered line items of one sale. Order is first-scan order;
// at most one line item exists per code.
type Cart struct {
	ID    string
	Items []LineItem
}

// Add merges one unit of the given product into the cart: an existing line
// for the code gets its quantity bumped, otherwise a new line is appended.
func (c *Cart) Add(code, name, description string, unitPrice decimal.Decimal) LineItem {
	for i := range c.Items {
		if c.Items[i].Code != code {
			continue
		}
		c.Items[i].Quantity++
		c.Items[i].Subtotal = c.Items[i].UnitPrice.Mul(decimal.NewFromInt32(c.Items[i].Quantity))
		return c.Items[i]
	}

	item := LineItem{
		Code:        code,
		Name:        name,
		Description: description,
		UnitPrice:   unitPrice,
		Quantity:    1,
		Subtotal:    unitPrice,
	}
	c.Items = append(c.Items, item)
	return item
}

// Remove drops the line item for the code outright, regardless of quantity.
// Reports whether a line was removed.
func (c *Cart) Remove(code string) bool {
	for i := range c.Items {
		if c.Items[i].Code == code {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return true
		}
	}
	return false
}

func (c *Cart) Clear() {
	c.Items = nil
}

// Total derives the cart total from the current line items.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, it := range c.Items {
		total = total.Add(it.Subtotal)
	}
	return total
}
