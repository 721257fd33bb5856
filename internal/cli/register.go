package cli

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/duka-pos/internal/application/service"
	"github.com/sangkips/duka-pos/internal/domain/entity"
	"github.com/sangkips/duka-pos/pkg/pagination"
	"github.com/sangkips/duka-pos/pkg/utils"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var (
	registerCash    string
	registerNotes   string
	registerSession string
	listPage        int
	listPerPage     int
	salesPayment    string
	salesFrom       string
	salesTo         string
)

// dateLayout is the layout of the --from and --to flags
const dateLayout = "2006-01-02"

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Open, close and inspect register sessions",
}

var registerOpenCmd = &cobra.Command{
	Use:   "open",
	Short: "Open the shop's register with a float",
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
		cash, err := decimal.NewFromString(registerCash)
		if err != nil {
			return invalidFlag("cash", registerCash)
		}

		session, err := app.register.Open(ctx, &service.OpenRegisterInput{
			ShopID:      shop.ID,
			UserID:      user.ID,
			OpeningCash: cash,
			Notes:       registerNotes,
		})
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), session)
	},
}

var registerCloseCmd = &cobra.Command{
	Use:   "close",
	Short: "Count the drawer and close the register",
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
		cash, err := decimal.NewFromString(registerCash)
		if err != nil {
			return invalidFlag("cash", registerCash)
		}
		sessionID, err := sessionFor(ctx, shop)
		if err != nil {
			return err
		}

		session, err := app.register.Close(ctx, &service.CloseRegisterInput{
			ShopID:      shop.ID,
			SessionID:   sessionID,
			UserID:      user.ID,
			ClosingCash: cash,
			Notes:       registerNotes,
		})
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), session)
	},
}

var registerCurrentCmd = &cobra.Command{
	Use:   "current",
	Short: "Show the open register session",
	RunE: func(cmd *cobra.Command, args []string) error {
		shop, err := app.shop(cmd.Context(), shopRef)
		if err != nil {
			return err
		}
		session, err := app.register.Current(cmd.Context(), shop.ID)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), session)
	},
}

var registerSummaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show takings by payment method and the expected cash",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		shop, err := app.shop(ctx, shopRef)
		if err != nil {
			return err
		}
		sessionID, err := sessionFor(ctx, shop)
		if err != nil {
			return err
		}
		summary, err := app.register.Summary(ctx, shop.ID, sessionID)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), summary)
	},
}

var registerSalesCmd = &cobra.Command{
	Use:   "sales",
	Short: "List the sales of a session, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		shop, err := app.shop(ctx, shopRef)
		if err != nil {
			return err
		}
		sessionID, err := sessionFor(ctx, shop)
		if err != nil {
			return err
		}
		filter := &service.SaleFilter{
			PaymentMethod: salesPayment,
			Pagination:    &pagination.PaginationParams{Page: listPage, PerPage: listPerPage},
		}
		if salesFrom != "" {
			from, err := time.ParseInLocation(dateLayout, salesFrom, time.Local)
			if err != nil {
				return invalidFlag("from", salesFrom)
			}
			filter.From = &from
		}
		if salesTo != "" {
			day, err := time.ParseInLocation(dateLayout, salesTo, time.Local)
			if err != nil {
				return invalidFlag("to", salesTo)
			}
			// --to includes the whole day
			to := day.AddDate(0, 0, 1).Add(-time.Nanosecond)
			filter.To = &to
		}
		page, err := app.register.ListSales(ctx, shop.ID, sessionID, filter)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), page)
	},
}

var registerHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "List the shop's register sessions, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		shop, err := app.shop(cmd.Context(), shopRef)
		if err != nil {
			return err
		}
		page, err := app.register.ListSessions(cmd.Context(), shop.ID, &pagination.PaginationParams{Page: listPage, PerPage: listPerPage})
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), page)
	},
}

// sessionFor returns --session when given, otherwise the shop's open session
func sessionFor(ctx context.Context, shop *entity.Shop) (uuid.UUID, error) {
	if registerSession != "" {
		id, err := utils.ParseUUID(registerSession)
		if err != nil {
			return uuid.Nil, invalidFlag("session", registerSession)
		}
		return id, nil
	}
	session, err := app.register.Current(ctx, shop.ID)
	if err != nil {
		return uuid.Nil, err
	}
	return session.ID, nil
}

func init() {
	registerOpenCmd.Flags().StringVar(&registerCash, "cash", "0", "opening cash in the drawer")
	registerOpenCmd.Flags().StringVar(&registerNotes, "notes", "", "free-text notes")

	registerCloseCmd.Flags().StringVar(&registerCash, "cash", "0", "counted cash in the drawer")
	registerCloseCmd.Flags().StringVar(&registerNotes, "notes", "", "free-text notes")

	for _, c := range []*cobra.Command{registerCloseCmd, registerSummaryCmd, registerSalesCmd} {
		c.Flags().StringVar(&registerSession, "session", "", "register session id (defaults to the open session)")
	}
	registerSalesCmd.Flags().StringVar(&salesPayment, "payment", "", "only sales tendered with this payment method")
	registerSalesCmd.Flags().StringVar(&salesFrom, "from", "", "only sales on or after this date (YYYY-MM-DD)")
	registerSalesCmd.Flags().StringVar(&salesTo, "to", "", "only sales on or before this date (YYYY-MM-DD)")
	for _, c := range []*cobra.Command{registerSalesCmd, registerHistoryCmd} {
		c.Flags().IntVar(&listPage, "page", 1, "page number")
		c.Flags().IntVar(&listPerPage, "per-page", pagination.DefaultPerPage, "items per page")
	}

	registerCmd.AddCommand(registerOpenCmd, registerCloseCmd, registerCurrentCmd, registerSummaryCmd, registerSalesCmd, registerHistoryCmd)
	rootCmd.AddCommand(registerCmd)
}
