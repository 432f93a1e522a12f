package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"Palaniappa/internal/catalog"
	"Palaniappa/internal/schema"
)

// storectl products list|search
func (a *app) productsCmd() *cobra.Command {
	products := &cobra.Command{
		Use:   "products",
		Short: "Browse the catalog",
	}

	var (
		category    string
		featured    bool
		newArrivals bool
		query       string
		price       string
		sortBy      string
	)
	list := &cobra.Command{
		Use:   "list",
		Short: "List products, optionally filtered and sorted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			band, err := catalog.ParsePriceBand(price)
			if err != nil {
				return err
			}
			order, err := catalog.ParseSortOption(sortBy)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			s, closeFn, err := a.products(ctx)
			if err != nil {
				return err
			}
			defer closeFn()

			var ps []schema.Product
			switch {
			case category != "":
				ps, err = s.GetProductsByCategory(ctx, category)
			case featured:
				ps, err = s.GetFeaturedProducts(ctx)
			case newArrivals:
				ps, err = s.GetNewArrivals(ctx)
			default:
				ps, err = s.GetAllProducts(ctx)
			}
			if err != nil {
				return err
			}

			if query != "" || price != "" || sortBy != "" {
				ps = catalog.ListOptions{Query: query, Price: band, Sort: order}.Apply(ps)
			}
			return printProducts(cmd.OutOrStdout(), ps)
		},
	}
	list.Flags().StringVar(&category, "category", "", "only this category")
	list.Flags().BoolVar(&featured, "featured", false, "only featured products")
	list.Flags().BoolVar(&newArrivals, "new-arrivals", false, "only new arrivals")
	list.Flags().StringVarP(&query, "query", "q", "", "name or description contains")
	list.Flags().StringVar(&price, "price", "", "price band: all, low, medium, high")
	list.Flags().StringVar(&sortBy, "sort", "", "featured, price-low, price-high, newest")
	list.MarkFlagsMutuallyExclusive("category", "featured", "new-arrivals")

	search := &cobra.Command{
		Use:   "search <query>",
		Short: "Case-insensitive search over name, description and category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, closeFn, err := a.products(ctx)
			if err != nil {
				return err
			}
			defer closeFn()

			ps, err := s.SearchProducts(ctx, args[0])
			if err != nil {
				return err
			}
			return printProducts(cmd.OutOrStdout(), ps)
		},
	}

	products.AddCommand(list, search)
	return products
}

func printProducts(out io.Writer, ps []schema.Product) error {
	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tCATEGORY\tINR\tBHD\tSTOCK")
	for _, p := range ps {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\n", p.ID, p.Name, p.Category, p.PriceInr, p.PriceBhd, p.StockQuantity)
	}
	return w.Flush()
}
