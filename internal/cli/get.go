package cli

import (
	"github.com/Lekhanh23/flowershop-frontend-sub000/internal/models/order"
	"github.com/spf13/cobra"
)

// NewGetCommand creates the get command.
func NewGetCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get <order-id>",
		Short: "Show one order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := order.ParseID(args[0])
			if err != nil {
				return err
			}

			api, cred, err := rootOpts.session(cmd.Context())
			if err != nil {
				return err
			}

			o, err := api.GetOrder(cmd.Context(), cred, id)
			if err != nil {
				return err
			}

			if rootOpts.Format == "json" {
				return writeJSON(cmd.OutOrStdout(), o)
			}
			return writeOrders(cmd.OutOrStdout(), rootOpts.config.Notice.Language, []*order.Order{o})
		},
	}
}
