package menu

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/idilsaglam/tally/internal/inventory"
	"github.com/idilsaglam/tally/internal/manager"
	"github.com/idilsaglam/tally/internal/model"
	"github.com/idilsaglam/tally/internal/store"
	"github.com/idilsaglam/tally/internal/ui"
)

type inventoryMenu struct {
	m         *manager.Manager[model.Product]
	threshold int
	p         *Prompter
	out       io.Writer
}

// RunInventory runs the inventory menu over m until exit or end of input.
// Products with threshold units or fewer are reported as low stock.
func RunInventory(m *manager.Manager[model.Product], threshold int, in io.Reader, out io.Writer) error {
	v := &inventoryMenu{m: m, threshold: threshold, p: NewPrompter(in, out), out: out}
	menu := &Menu{
		Title: "Inventory Manager",
		Options: []Option{
			{1, "View all products", v.list},
			{2, "Search by name", v.search("name", inventory.NameContains)},
			{3, "Search by category", v.search("category", inventory.CategoryContains)},
			{4, "Add new product", v.add},
			{5, "Remove product", v.remove},
			{6, "Update product", v.update},
			{7, "Adjust stock (+ or -)", v.adjust},
			{8, "Low stock alerts", v.lowStock},
			{9, "Inventory summary", v.summary},
			{10, "Save", v.save},
			{11, "Reload from disk", v.reload},
		},
		OnExit:   v.exit,
		prompter: v.p,
		out:      out,
	}
	return menu.Run()
}

func (v *inventoryMenu) list() error {
	key, err := ask(v.p, "Sort by name, price, quantity or value (blank keeps added order): ", inventory.ParseSortKey)
	if err != nil {
		return err
	}
	v.print("All products", inventory.Sorted(v.m.List(nil), key))
	return nil
}

func (v *inventoryMenu) search(field string, match func(string) func(model.Product) bool) func() error {
	return func() error {
		kw, err := v.p.AskString("Search " + field + ": ")
		if err != nil {
			return err
		}
		v.print(fmt.Sprintf("Products with %s matching %q", field, kw), v.m.List(match(kw)))
		return nil
	}
}

func (v *inventoryMenu) add() error {
	name, err := v.p.AskString("Name: ")
	if err != nil {
		return err
	}
	if err := inventory.CheckUniqueName(v.m.List(nil), 0, name); err != nil {
		return err
	}
	category, err := v.p.AskString("Category: ")
	if err != nil {
		return err
	}
	price, err := v.p.AskFloat("Price: ")
	if err != nil {
		return err
	}
	qty, err := v.p.AskInt("Quantity: ")
	if err != nil {
		return err
	}
	p := model.NewProduct(name, category, price, qty)
	id, err := v.m.Add(p)
	if id != 0 {
		ui.OK(v.out, "Added: "+p.WithKey(id).String())
	}
	return err
}

// find asks for an id and looks it up, reporting a miss.
func (v *inventoryMenu) find(prompt string) (model.Product, bool, error) {
	id, err := v.p.AskInt(prompt)
	if err != nil {
		return model.Product{}, false, err
	}
	p, ok := v.m.Find(id)
	if !ok {
		notFound(v.out, "product", id)
	}
	return p, ok, nil
}

func (v *inventoryMenu) remove() error {
	p, ok, err := v.find("Product id to remove: ")
	if err != nil || !ok {
		return err
	}
	fmt.Fprintf(v.out, "  Removing: %s (ID %d)\n", p.Name, p.ID)
	yes, err := v.p.Confirm("Confirm (yes/no)? ")
	if err != nil {
		return err
	}
	if !yes {
		fmt.Fprintln(v.out, "  Cancelled.")
		return nil
	}
	_, err = v.m.Remove(p.ID)
	ui.OK(v.out, "Removed.")
	return err
}

func (v *inventoryMenu) update() error {
	p, ok, err := v.find("Product id to update: ")
	if err != nil || !ok {
		return err
	}
	fmt.Fprintln(v.out, "  "+ui.Dim("Current: "+p.String()))
	fmt.Fprintln(v.out, "  "+ui.Dim(fmt.Sprintf("Leave text blank or enter %d for numbers to keep a field.", Keep)))

	var patch model.ProductPatch
	if patch.Name, err = v.p.OptionalString("Name: "); err != nil {
		return err
	}
	if patch.Category, err = v.p.OptionalString("Category: "); err != nil {
		return err
	}
	if patch.Price, err = v.p.OptionalFloat("Price: "); err != nil {
		return err
	}
	if patch.Quantity, err = v.p.OptionalInt("Quantity: "); err != nil {
		return err
	}
	if patch.Empty() {
		ui.Warn(v.out, "nothing to change")
		return nil
	}
	if patch.Name != nil {
		if err := inventory.CheckUniqueName(v.m.List(nil), p.ID, *patch.Name); err != nil {
			return err
		}
	}
	return v.apply(p.ID, patch, "Product updated.")
}

func (v *inventoryMenu) adjust() error {
	p, ok, err := v.find("Product id: ")
	if err != nil || !ok {
		return err
	}
	delta, err := v.p.AskInt(fmt.Sprintf("Change for %s, now %d (+/-): ", p.Name, p.Quantity))
	if err != nil {
		return err
	}
	patch, err := model.AdjustQuantity(p, delta)
	if err != nil {
		return err
	}
	return v.apply(p.ID, patch, fmt.Sprintf("Stock for %s is now %d.", p.Name, *patch.Quantity))
}

func (v *inventoryMenu) apply(id int, patch model.ProductPatch, done string) error {
	err := v.m.Update(id, patch)
	var saveErr *manager.SaveError
	switch {
	case errors.Is(err, store.ErrNotFound):
		notFound(v.out, "product", id)
		return nil
	case err == nil, errors.As(err, &saveErr):
		ui.OK(v.out, done)
	}
	return err
}

func (v *inventoryMenu) lowStock() error {
	v.print(fmt.Sprintf("Low stock (%d units or fewer)", v.threshold), v.m.List(inventory.NeedsRestock(v.threshold)))
	return nil
}

func (v *inventoryMenu) summary() error {
	s := inventory.Summarize(v.m.List(nil), v.threshold)
	lines := []string{
		ui.C(ui.Current().Title, "Inventory summary"),
		"",
		fmt.Sprintf("Products:       %d", s.Products),
		fmt.Sprintf("Units in stock: %d", s.Items),
		fmt.Sprintf("Total value:    %.2f", s.Value),
		fmt.Sprintf("Low stock:      %d", s.LowStock),
		fmt.Sprintf("Out of stock:   %d", s.OutOfStock),
	}
	if len(s.Categories) > 0 {
		lines = append(lines, "", "By category:")
		for _, c := range s.Categories {
			lines = append(lines, fmt.Sprintf("  %-14s %3d  %12.2f", c.Category, c.Products, c.Value))
		}
	}
	ui.Panel(v.out, lines)
	return nil
}

func (v *inventoryMenu) print(title string, products []model.Product) {
	fmt.Fprintln(v.out, "\n  "+ui.C(ui.Current().Title, title))
	if len(products) == 0 {
		fmt.Fprintln(v.out, "  "+ui.Dim("(no products)"))
		return
	}
	ProductTable(v.out, products, v.threshold)
}

// ProductTable prints products with their stock value and status.
func ProductTable(w io.Writer, products []model.Product, threshold int) {
	rows := make([][]string, len(products))
	for i, p := range products {
		status := ui.StockLabel(inventory.Status(p, threshold), p.OutOfStock(), p.LowStock(threshold))
		rows[i] = []string{
			strconv.Itoa(p.ID), p.Name, p.Category,
			fmt.Sprintf("%.2f", p.Price), strconv.Itoa(p.Quantity), fmt.Sprintf("%.2f", p.Value()),
			status,
		}
	}
	ui.Table(w, []string{"ID", "Name", "Category", "Price", "Qty", "Value", "Status"}, rows, 0, 3, 4, 5)
}

func (v *inventoryMenu) save() error { return save(v.p, v.out, v.m, "products") }

func (v *inventoryMenu) reload() error {
	if v.m.Dirty() {
		ok, err := v.p.Confirm("Discard unsaved changes and reload (yes/no)? ")
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(v.out, "  Cancelled.")
			return nil
		}
	}
	return load(v.out, v.m, "products")
}

func (v *inventoryMenu) exit() {
	if v.m.Dirty() {
		ui.Warn(v.out, "you have unsaved changes; they were not written to disk")
	}
	fmt.Fprintln(v.out, "  Inventory Manager closed. Goodbye!")
}
