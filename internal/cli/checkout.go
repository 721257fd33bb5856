package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/duka-pos/internal/application/service"
	"github.com/sangkips/duka-pos/pkg/apperror"
	"github.com/sangkips/duka-pos/pkg/utils"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var (
	checkoutItems    []string
	checkoutPayment  string
	checkoutCustomer string
	checkoutPhone    string
	checkoutSession  string
)

var checkoutCmd = &cobra.Command{
	Use:   "checkout",
	Short: "Ring up a sale against the open register",
	Example: `  pos checkout --item P-001:2 --item P-002:4 --payment cash
  pos checkout --item 6f1c...:1.5:10 --payment mpesa --customer "Amina" --phone 0712345678`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		shop, err := app.shop(ctx, shopRef)
		if err != nil {
			return err
		}
		user, err := app.user(ctx, shop, userRef)
		if err != nil {
			return err
		}

		input := &service.CheckoutInput{
			ShopID:        shop.ID,
			UserID:        user.ID,
			PaymentMethod: checkoutPayment,
			CustomerName:  checkoutCustomer,
			CustomerPhone: checkoutPhone,
		}
		if checkoutSession != "" {
			id, err := utils.ParseUUID(checkoutSession)
			if err != nil {
				return invalidFlag("session", checkoutSession)
			}
			input.RegisterSessionID = &id
		}
		for _, raw := range checkoutItems {
			item, err := parseItem(ctx, shop.ID, raw)
			if err != nil {
				return err
			}
			input.Items = append(input.Items, item)
		}

		sale, err := app.checkout.Checkout(ctx, input)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), sale)
	},
}

// parseItem reads "product:quantity[:discount]" where product is an id or a product code
func parseItem(ctx context.Context, shopID uuid.UUID, raw string) (service.CartLineInput, error) {
	ref, qty, discount, err := splitItem(raw)
	if err != nil {
		return service.CartLineInput{}, err
	}
	id, err := app.productID(ctx, shopID, ref)
	if err != nil {
		return service.CartLineInput{}, err
	}
	return service.CartLineInput{ProductID: id, Quantity: qty, DiscountPercent: discount}, nil
}

func splitItem(raw string) (string, decimal.Decimal, decimal.Decimal, error) {
	parts := strings.Split(strings.TrimSpace(raw), ":")
	if len(parts) < 2 || len(parts) > 3 || parts[0] == "" {
		return "", decimal.Zero, decimal.Zero, invalidFlag("item", raw)
	}
	qty, err := decimal.NewFromString(parts[1])
	if err != nil {
		return "", decimal.Zero, decimal.Zero, invalidFlag("item", raw)
	}
	discount := decimal.Zero
	if len(parts) == 3 {
		if discount, err = decimal.NewFromString(parts[2]); err != nil {
			return "", decimal.Zero, decimal.Zero, invalidFlag("item", raw)
		}
	}
	return parts[0], qty, discount, nil
}

func invalidFlag(name, value string) error {
	return apperror.NewInvalidInputError(fmt.Sprintf("invalid --%s value %q", name, value))
}

func init() {
	checkoutCmd.Flags().StringArrayVar(&checkoutItems, "item", nil, "cart line as product:quantity[:discount_percent], repeatable")
	checkoutCmd.Flags().StringVar(&checkoutPayment, "payment", "cash", "payment method (cash, mpesa, card, transfer, mobile, pay_on_delivery)")
	checkoutCmd.Flags().StringVar(&checkoutCustomer, "customer", "", "customer name")
	checkoutCmd.Flags().StringVar(&checkoutPhone, "phone", "", "customer phone")
	checkoutCmd.Flags().StringVar(&checkoutSession, "session", "", "register session the till believes is open")

	rootCmd.AddCommand(checkoutCmd)
}
