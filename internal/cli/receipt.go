package cli

import (
	"fmt"

	"github.com/sangkips/duka-pos/internal/domain/entity"
	"github.com/sangkips/duka-pos/internal/infrastructure/broadcast"
	"github.com/sangkips/duka-pos/pkg/utils"
	"github.com/spf13/cobra"
)

var receiptPrint bool

var receiptCmd = &cobra.Command{
	Use:   "receipt <sale-id>",
	Short: "Show, and optionally reprint, the receipt of a sale",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		shop, err := app.shop(ctx, shopRef)
		if err != nil {
			return err
		}
		saleID, err := utils.ParseUUID(args[0])
		if err != nil {
			return invalidFlag("sale-id", args[0])
		}

		var receipt *entity.Receipt
		if receiptPrint {
			receipt, err = app.receipts.PrintSale(ctx, shop.ID, saleID)
		} else {
			receipt, err = app.receipts.BuildReceipt(ctx, shop.ID, saleID)
		}
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), receipt)
	},
}

var printerCmd = &cobra.Command{
	Use:   "printer",
	Short: "Show the configured receipt printer",
	RunE: func(cmd *cobra.Command, args []string) error {
		return printJSON(cmd.OutOrStdout(), app.receipts.GetStatus())
	},
}

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Stream sale completed events for a shop until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if app.redis == nil {
			return fmt.Errorf("events need redis: set REDIS_ENABLED=true")
		}
		shop, err := app.shop(ctx, shopRef)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		return broadcast.Subscribe(ctx, app.redis.Redis, shop.ID, func(env broadcast.Envelope) {
			_ = printJSON(out, env)
		})
	},
}

func init() {
	receiptCmd.Flags().BoolVar(&receiptPrint, "print", false, "send the receipt to the configured printer")

	rootCmd.AddCommand(receiptCmd, printerCmd, eventsCmd)
}
