package cli

import (
	"fmt"

	"github.com/Lekhanh23/flowershop-frontend-sub000/internal/models/order"
	"github.com/spf13/cobra"
)

// ListOptions holds flags for the list command.
type ListOptions struct {
	*RootOptions
	Status string
	Page   int
	Limit  int
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List orders",
		Long: `List a page of orders, optionally only those with one status.

Example:
  orderctl list --status shipped --page 2 --limit 50`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listOrders(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Status, "status", "", "only orders with this status")
	cmd.Flags().IntVar(&opts.Page, "page", order.DefaultPage, "page number, starting at 1")
	cmd.Flags().IntVar(&opts.Limit, "limit", order.DefaultLimit, fmt.Sprintf("page size, at most %d", order.MaxLimit))

	return cmd
}

func listOrders(cmd *cobra.Command, opts *ListOptions) error {
	// Same validation as the server applies.
	f, err := order.ParseFilter(order.Filter{
		Status: order.Status(opts.Status),
		Page:   opts.Page,
		Limit:  opts.Limit,
	}.Query())
	if err != nil {
		return err
	}

	api, cred, err := opts.session(cmd.Context())
	if err != nil {
		return err
	}

	orders, err := api.ListOrders(cmd.Context(), cred, f)
	if err != nil {
		return fmt.Errorf("list orders: %w", err)
	}

	if opts.Format == "json" {
		return writeJSON(cmd.OutOrStdout(), orders)
	}
	return writeOrders(cmd.OutOrStdout(), opts.config.Notice.Language, orders)
}
