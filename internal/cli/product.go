package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/ordpad/internal/catalog"
)

// NewProductCommand creates the product command group.
func NewProductCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "product",
		Short: "Manage the product catalog",
		Long: `Register, remove and list catalog products.

Products have a name and a price. Prices use a dot as the decimal
separator and must be greater than zero.`,
	}

	cmd.AddCommand(newProductAddCommand(rootOpts))
	cmd.AddCommand(newProductRmCommand(rootOpts))
	cmd.AddCommand(newProductLsCommand(rootOpts))

	return cmd
}

func newProductAddCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "add <name> <price>",
		Short: "Register a product",
		Long: `Register a product in the catalog.

Example:
  ordpad product add Pastel 8.50
  ordpad product add "Caldo de cana" 3`,
		Args:          exactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, opts, func(ctx context.Context, s *session, f *OutputFormatter) error {
				return runProductAdd(ctx, s, f, args[0], args[1])
			})
		},
	}
}

func runProductAdd(ctx context.Context, s *session, f *OutputFormatter, name, price string) error {
	p, err := s.state.AddProduct(ctx, name, price)
	if err != nil {
		var verr *catalog.ValidationError
		if errors.As(err, &verr) {
			return f.Fail(ExitFailure, ErrCodeValidation, verr.Error(), map[string]string{"field": verr.Field})
		}
		return f.Fail(ExitFailure, ErrCodeGeneric, err.Error(), nil)
	}
	if err := checkSaved(s, f); err != nil {
		return err
	}

	return f.Result(productView(p, s.money), func(w io.Writer) {
		fmt.Fprintf(w, "Added product #%d: %s (%s)\n", p.ID, p.Name, s.money.Format(p.Price))
	})
}

func newProductRmCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Remove a product from the catalog",
		Long: `Remove a product from the catalog.

Order lines for the product are kept; remove them with "ordpad order rm".`,
		Args:          exactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, opts, func(ctx context.Context, s *session, f *OutputFormatter) error {
				return runProductRm(ctx, s, f, args[0])
			})
		},
	}
}

func runProductRm(ctx context.Context, s *session, f *OutputFormatter, arg string) error {
	id, err := parseID(arg)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeGeneric, err.Error(), nil)
	}

	p, ok := s.state.Product(id)
	if !ok || !s.state.RemoveProduct(ctx, id) {
		return f.Fail(ExitFailure, ErrCodeNotFound, fmt.Sprintf("no product with id %d", id), nil)
	}
	if err := checkSaved(s, f); err != nil {
		return err
	}

	return f.Result(productView(p, s.money), func(w io.Writer) {
		fmt.Fprintf(w, "Removed product #%d: %s\n", p.ID, p.Name)
	})
}

func newProductLsCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "ls",
		Aliases:       []string{"list"},
		Short:         "List catalog products",
		Args:          exactArgs(0),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, opts, func(_ context.Context, s *session, f *OutputFormatter) error {
				products := s.state.Products()
				return f.Result(catalogView(products, s.money), func(w io.Writer) {
					renderCatalog(w, products, s.money)
				})
			})
		},
	}
}
