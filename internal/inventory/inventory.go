// Package inventory holds the read-side queries and reports over products.
package inventory

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/idilsaglam/tally/internal/model"
)

var ErrDuplicateName = errors.New("a product with that name already exists")

// SortKey orders a product listing.
type SortKey string

const (
	SortInsertion SortKey = ""
	SortName      SortKey = "name"
	SortPrice     SortKey = "price"
	SortQuantity  SortKey = "quantity"
	SortValue     SortKey = "value"
)

// ParseSortKey accepts the names above; an empty string means insertion order.
func ParseSortKey(s string) (SortKey, error) {
	k := SortKey(strings.ToLower(strings.TrimSpace(s)))
	switch k {
	case SortInsertion, SortName, SortPrice, SortQuantity, SortValue:
		return k, nil
	}
	return "", fmt.Errorf("unknown sort %q (want name, price, quantity or value)", s)
}

// Sorted returns a copy of products ordered by key. Value sorts highest first;
// the others ascend. Ties keep insertion order.
func Sorted(products []model.Product, key SortKey) []model.Product {
	out := slices.Clone(products)
	switch key {
	case SortName:
		slices.SortStableFunc(out, func(a, b model.Product) int { return strings.Compare(a.Name, b.Name) })
	case SortPrice:
		slices.SortStableFunc(out, func(a, b model.Product) int { return cmp.Compare(a.Price, b.Price) })
	case SortQuantity:
		slices.SortStableFunc(out, func(a, b model.Product) int { return cmp.Compare(a.Quantity, b.Quantity) })
	case SortValue:
		slices.SortStableFunc(out, func(a, b model.Product) int { return cmp.Compare(b.Value(), a.Value()) })
	}
	return out
}

// NameContains matches products whose name holds keyword, ignoring case.
func NameContains(keyword string) func(model.Product) bool {
	kw := strings.ToLower(strings.TrimSpace(keyword))
	return func(p model.Product) bool { return strings.Contains(strings.ToLower(p.Name), kw) }
}

// CategoryContains matches products whose category holds keyword, ignoring case.
func CategoryContains(keyword string) func(model.Product) bool {
	kw := strings.ToLower(strings.TrimSpace(keyword))
	return func(p model.Product) bool { return strings.Contains(strings.ToLower(p.Category), kw) }
}

// NeedsRestock matches low-stock and out-of-stock products.
func NeedsRestock(threshold int) func(model.Product) bool {
	return func(p model.Product) bool { return p.OutOfStock() || p.LowStock(threshold) }
}

// CheckUniqueName fails if another product (different id) already uses name,
// compared case-insensitively.
func CheckUniqueName(products []model.Product, id int, name string) error {
	name = strings.TrimSpace(name)
	for _, p := range products {
		if p.ID != id && strings.EqualFold(p.Name, name) {
			return fmt.Errorf("%q: %w", name, ErrDuplicateName)
		}
	}
	return nil
}

// Status is the stock label shown next to a product.
func Status(p model.Product, threshold int) string {
	switch {
	case p.OutOfStock():
		return "OUT OF STOCK"
	case p.LowStock(threshold):
		return "LOW"
	default:
		return "OK"
	}
}

// CategoryTotals is one line of the summary breakdown.
type CategoryTotals struct {
	Category string
	Products int
	Value    float64
}

// Summary aggregates the whole inventory.
type Summary struct {
	Products   int
	Items      int
	Value      float64
	LowStock   int
	OutOfStock int
	// Categories appear in order of first occurrence.
	Categories []CategoryTotals
}

func Summarize(products []model.Product, threshold int) Summary {
	s := Summary{Products: len(products)}
	index := map[string]int{}
	for _, p := range products {
		s.Items += p.Quantity
		s.Value += p.Value()
		if p.LowStock(threshold) {
			s.LowStock++
		}
		if p.OutOfStock() {
			s.OutOfStock++
		}
		i, ok := index[p.Category]
		if !ok {
			i = len(s.Categories)
			index[p.Category] = i
			s.Categories = append(s.Categories, CategoryTotals{Category: p.Category})
		}
		s.Categories[i].Products++
		s.Categories[i].Value += p.Value()
	}
	return s
}
