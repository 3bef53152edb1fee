package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/roach88/ordpad/internal/order"
)

// NewOrderCommand creates the order command group.
func NewOrderCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "order",
		Short: "Build the current order",
		Long: `Pick catalog products into the current order and adjust quantities.

Lines keep the name and price the product had when it was picked, so
removing or re-registering a product does not change an existing line.`,
	}

	cmd.AddCommand(newOrderAddCommand(rootOpts))
	cmd.AddCommand(newOrderSetCommand(rootOpts))
	cmd.AddCommand(newOrderRmCommand(rootOpts))
	cmd.AddCommand(newOrderClearCommand(rootOpts))
	cmd.AddCommand(newOrderShowCommand(rootOpts))

	return cmd
}

func newOrderAddCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "add <product-id>",
		Short: "Add one unit of a product to the order",
		Long: `Add one unit of a catalog product to the order.

Picking a product that is already in the order increases its quantity.

Example:
  ordpad order add 1`,
		Args:          exactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, opts, func(ctx context.Context, s *session, f *OutputFormatter) error {
				return runOrderAdd(ctx, s, f, args[0])
			})
		},
	}
}

func runOrderAdd(ctx context.Context, s *session, f *OutputFormatter, arg string) error {
	id, err := parseID(arg)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeGeneric, err.Error(), nil)
	}
	if _, ok := s.state.Product(id); !ok {
		return f.Fail(ExitFailure, ErrCodeNotFound, fmt.Sprintf("no product with id %d", id), nil)
	}
	if !s.state.AddToOrder(ctx, id) {
		return f.Fail(ExitFailure, ErrCodeValidation, quantityLimitMessage(id), map[string]string{"field": "quantity"})
	}
	if err := checkSaved(s, f); err != nil {
		return err
	}
	line, _ := s.state.Line(id)
	return reportOrder(s, f, func(w io.Writer) {
		fmt.Fprintf(w, "Added %s (quantity %d)\n", line.Name, line.Quantity)
	})
}

func newOrderSetCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "set <product-id> <quantity>",
		Short: "Set the quantity of an order line",
		Long: `Set the quantity of an order line.

A quantity of zero or less removes the line. A line holds at most 9999
units.`,
		Args:          exactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, opts, func(ctx context.Context, s *session, f *OutputFormatter) error {
				return runOrderSet(ctx, s, f, args[0], args[1])
			})
		},
	}
}

func runOrderSet(ctx context.Context, s *session, f *OutputFormatter, idArg, qtyArg string) error {
	id, err := parseID(idArg)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeGeneric, err.Error(), nil)
	}
	qty, err := strconv.Atoi(qtyArg)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeGeneric, fmt.Sprintf("invalid quantity %q: must be an integer", qtyArg), nil)
	}
	if qty > order.MaxQuantity {
		return f.Fail(ExitFailure, ErrCodeValidation,
			fmt.Sprintf("invalid quantity: must be at most %d", order.MaxQuantity), map[string]string{"field": "quantity"})
	}

	line, ok := s.state.Line(id)
	if !ok {
		return f.Fail(ExitFailure, ErrCodeNotFound, fmt.Sprintf("no order line for product %d", id), nil)
	}
	s.state.SetQuantity(ctx, id, qty)
	if err := checkSaved(s, f); err != nil {
		return err
	}

	return reportOrder(s, f, func(w io.Writer) {
		if qty <= 0 {
			fmt.Fprintf(w, "Removed %s from the order\n", line.Name)
			return
		}
		fmt.Fprintf(w, "Set %s to quantity %d\n", line.Name, qty)
	})
}

func newOrderRmCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "rm <product-id>",
		Short:         "Remove a line from the order",
		Args:          exactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, opts, func(ctx context.Context, s *session, f *OutputFormatter) error {
				return runOrderRm(ctx, s, f, args[0])
			})
		},
	}
}

func runOrderRm(ctx context.Context, s *session, f *OutputFormatter, arg string) error {
	id, err := parseID(arg)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeGeneric, err.Error(), nil)
	}
	line, ok := s.state.Line(id)
	if !ok || !s.state.RemoveFromOrder(ctx, id) {
		return f.Fail(ExitFailure, ErrCodeNotFound, fmt.Sprintf("no order line for product %d", id), nil)
	}
	if err := checkSaved(s, f); err != nil {
		return err
	}
	return reportOrder(s, f, func(w io.Writer) {
		fmt.Fprintf(w, "Removed %s from the order\n", line.Name)
	})
}

func newOrderClearCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "clear",
		Short:         "Remove every line from the order",
		Args:          exactArgs(0),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, opts, func(ctx context.Context, s *session, f *OutputFormatter) error {
				cleared := s.state.ClearOrder(ctx)
				if err := checkSaved(s, f); err != nil {
					return err
				}
				return reportOrder(s, f, func(w io.Writer) {
					if cleared {
						fmt.Fprintln(w, "Order cleared")
						return
					}
					fmt.Fprintln(w, "Order is already empty")
				})
			})
		},
	}
}

func newOrderShowCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "show",
		Short:         "Show the current order and its total",
		Args:          exactArgs(0),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, opts, func(_ context.Context, s *session, f *OutputFormatter) error {
				return f.Result(orderView(s.state.Lines(), s.state.Total(), s.money), func(w io.Writer) {
					renderOrder(w, s.state.Lines(), s.state.Total(), s.money)
				})
			})
		},
	}
}

func quantityLimitMessage(id int64) string {
	return fmt.Sprintf("product %d is already at the maximum quantity of %d", id, order.MaxQuantity)
}

// reportOrder outputs the whole order as JSON, or the one-line summary
// followed by the total as text.
func reportOrder(s *session, f *OutputFormatter, summary func(w io.Writer)) error {
	return f.Result(orderView(s.state.Lines(), s.state.Total(), s.money), func(w io.Writer) {
		summary(w)
		fmt.Fprintf(w, "Total: %s\n", s.money.Format(s.state.Total()))
	})
}
