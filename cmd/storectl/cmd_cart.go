package main

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"Palaniappa/internal/cart"
)

func (a *app) openCart() (*cart.Cart, error) {
	st, err := cart.NewFileStorage(a.cfg.CartDir)
	if err != nil {
		return nil, err
	}
	return cart.NewWithKey(st, a.cartKey, a.log), nil
}

// storectl cart add|show|update|rm|clear
func (a *app) cartCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "cart",
		Short: "Work with the local shopping cart",
	}

	var (
		qty  int
		size string
	)
	add := &cobra.Command{
		Use:   "add <productId>",
		Short: "Fetch a product from the catalog service and add it to the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := cart.NewCatalogClient(a.cfg.CatalogURL).GetProduct(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			crt, err := a.openCart()
			if err != nil {
				return err
			}
			if err := crt.AddToCart(p, qty, size); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added %s (%s), cart now holds %d items\n", p.Name, cart.ItemID(p.ID, size), crt.GetTotalItems())
			return nil
		},
	}
	add.Flags().IntVar(&qty, "qty", 1, "quantity")
	add.Flags().StringVar(&size, "size", "", "selected size")

	show := &cobra.Command{
		Use:   "show",
		Short: "Print cart lines and totals in both currencies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			crt, err := a.openCart()
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "ITEM\tNAME\tSIZE\tQTY\tINR\tBHD")
			for _, it := range crt.Items() {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\n", it.ID, it.Product.Name, it.SelectedSize, it.Quantity, it.Product.PriceInr, it.Product.PriceBhd)
			}
			fmt.Fprintf(w, "TOTAL\t\t\t%d\t%s\t%s\n",
				crt.GetTotalItems(),
				crt.GetTotalPrice(cart.CurrencyINR).StringFixed(2),
				crt.GetTotalPrice(cart.CurrencyBHD).StringFixed(3),
			)
			return w.Flush()
		},
	}

	update := &cobra.Command{
		Use:   "update <itemId> <quantity>",
		Short: "Set a line's quantity; zero removes it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("quantity: %w", err)
			}
			crt, err := a.openCart()
			if err != nil {
				return err
			}
			return crt.UpdateQuantity(args[0], n)
		},
	}

	rm := &cobra.Command{
		Use:   "rm <itemId>",
		Short: "Remove a line from the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			crt, err := a.openCart()
			if err != nil {
				return err
			}
			return crt.RemoveFromCart(args[0])
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Empty the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			crt, err := a.openCart()
			if err != nil {
				return err
			}
			return crt.ClearCart()
		},
	}

	c.AddCommand(add, show, update, rm, clearCmd)
	return c
}
