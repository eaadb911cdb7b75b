package model

import (
	"fmt"
	"math"
	"strings"
)

// DefaultLowStockThreshold is the stock level at or below which a product is flagged.
const DefaultLowStockThreshold = 5

// Product is one stock line in the inventory.
type Product struct {
	ID       int     `json:"id" yaml:"id"`
	Name     string  `json:"name" yaml:"name"`
	Category string  `json:"category" yaml:"category"`
	Price    float64 `json:"price" yaml:"price"`
	Quantity int     `json:"quantity" yaml:"quantity"`
}

// NewProduct returns a product without an id; the store assigns one on add.
func NewProduct(name, category string, price float64, quantity int) Product {
	return Product{
		Name:     strings.TrimSpace(name),
		Category: strings.TrimSpace(category),
		Price:    price,
		Quantity: quantity,
	}
}

func (p Product) Key() int { return p.ID }

func (p Product) WithKey(id int) Product {
	p.ID = id
	return p
}

func (p Product) Validate() error {
	if err := text("name", p.Name); err != nil {
		return err
	}
	if err := text("category", p.Category); err != nil {
		return err
	}
	if math.IsNaN(p.Price) || math.IsInf(p.Price, 0) {
		return invalid("price", "not a finite number")
	}
	if p.Price < 0 {
		return invalid("price", "cannot be negative (got %.2f)", p.Price)
	}
	if p.Quantity < 0 {
		return invalid("quantity", "cannot be negative (got %d)", p.Quantity)
	}
	return nil
}

// Value is the stock value of the line.
func (p Product) Value() float64 { return p.Price * float64(p.Quantity) }

// LowStock reports a positive stock level at or below threshold.
func (p Product) LowStock(threshold int) bool {
	return p.Quantity > 0 && p.Quantity <= threshold
}

func (p Product) OutOfStock() bool { return p.Quantity == 0 }

func (p Product) String() string {
	return fmt.Sprintf("Product{id=%d, name=%q, category=%q, price=%.2f, qty=%d}",
		p.ID, p.Name, p.Category, p.Price, p.Quantity)
}

// ProductPatch carries the fields an update should change. Nil fields are left alone.
type ProductPatch struct {
	Name     *string
	Category *string
	Price    *float64
	Quantity *int
}

func (pp ProductPatch) Apply(p Product) Product {
	if pp.Name != nil {
		p.Name = strings.TrimSpace(*pp.Name)
	}
	if pp.Category != nil {
		p.Category = strings.TrimSpace(*pp.Category)
	}
	if pp.Price != nil {
		p.Price = *pp.Price
	}
	if pp.Quantity != nil {
		p.Quantity = *pp.Quantity
	}
	return p
}

// Empty reports whether the patch would change nothing.
func (pp ProductPatch) Empty() bool {
	return pp.Name == nil && pp.Category == nil && pp.Price == nil && pp.Quantity == nil
}

// AdjustQuantity returns a patch moving p's stock by delta, or a validation
// error if the result would go negative.
func AdjustQuantity(p Product, delta int) (ProductPatch, error) {
	q := p.Quantity + delta
	if q < 0 {
		return ProductPatch{}, invalid("quantity",
			"adjustment would make stock negative (current: %d, delta: %d)", p.Quantity, delta)
	}
	return ProductPatch{Quantity: &q}, nil
}
