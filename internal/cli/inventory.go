package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/tally/internal/inventory"
	"github.com/idilsaglam/tally/internal/menu"
	"github.com/idilsaglam/tally/internal/model"
	"github.com/idilsaglam/tally/internal/ui"
)

func (a *app) inventoryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "inventory",
		Aliases: []string{"inv", "i"},
		Short:   "Inventory menu",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, closeFn, err := a.openInventory()
			if m == nil {
				return err
			}
			defer func() { _ = closeFn() }()
			if err != nil {
				a.loadFailed(err)
			}
			return endSession(m, menu.RunInventory(m, a.cfg.Inventory.LowStockThreshold, a.in, a.out))
		},
	}
	cmd.AddCommand(a.inventoryListCommand())
	return cmd
}

func (a *app) inventoryListCommand() *cobra.Command {
	var (
		sortBy string
		low    bool
	)
	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "Print products as a table",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := inventory.ParseSortKey(sortBy)
			if err != nil {
				return fmt.Errorf("--sort: %w", err)
			}
			m, closeFn, err := a.openInventory()
			if err != nil {
				return err
			}
			defer func() { _ = closeFn() }()

			threshold := a.cfg.Inventory.LowStockThreshold
			var keep func(model.Product) bool
			if low {
				keep = inventory.NeedsRestock(threshold)
			}
			products := inventory.Sorted(m.List(keep), key)
			if len(products) == 0 {
				fmt.Fprintln(a.out, ui.Dim("no products"))
				return nil
			}
			menu.ProductTable(a.out, products, threshold)

			s := inventory.Summarize(m.List(nil), threshold)
			fmt.Fprintln(a.out, ui.Dim(fmt.Sprintf("  %d products, %d units, value %.2f, %d low, %d out of stock",
				s.Products, s.Items, s.Value, s.LowStock, s.OutOfStock)))
			return nil
		},
	}
	cmd.Flags().StringVar(&sortBy, "sort", "", "name, price, quantity or value (default: order added)")
	cmd.Flags().BoolVar(&low, "low", false, "only products that need restocking")
	return cmd
}
