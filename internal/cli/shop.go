package cli

import (
	"github.com/sangkips/duka-pos/internal/application/service"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

const resetValue = "default"

var (
	settingsCurrency string
	settingsTimezone string
	settingsFooter   string
	settingsStep     string
)

var shopCmd = &cobra.Command{
	Use:   "shop",
	Short: "Inspect and configure the shop",
}

var shopSettingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show the shop's settings, or change them with flags",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		shop, err := app.shop(ctx, shopRef)
		if err != nil {
			return err
		}

		flags := cmd.Flags()
		input := &service.UpdateSettingsInput{ShopID: shop.ID}
		changed := false
		if flags.Changed("currency") {
			input.Currency, changed = &settingsCurrency, true
		}
		if flags.Changed("timezone") {
			input.Timezone, changed = &settingsTimezone, true
		}
		if flags.Changed("footer") {
			input.ReceiptFooter, changed = &settingsFooter, true
		}
		if flags.Changed("combo-rounding-step") {
			changed = true
			if settingsStep == resetValue {
				input.ResetComboRoundingStep = true
			} else {
				step, err := decimal.NewFromString(settingsStep)
				if err != nil {
					return invalidFlag("combo-rounding-step", settingsStep)
				}
				input.ComboRoundingStep = &step
			}
		}

		if !changed {
			settings, err := app.settings.GetSettings(ctx, shop.ID)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), settings)
		}
		settings, err := app.settings.UpdateSettings(ctx, input)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), settings)
	},
}

func init() {
	shopSettingsCmd.Flags().StringVar(&settingsCurrency, "currency", "", "three letter currency code")
	shopSettingsCmd.Flags().StringVar(&settingsTimezone, "timezone", "", "IANA time zone")
	shopSettingsCmd.Flags().StringVar(&settingsFooter, "footer", "", "receipt footer line")
	shopSettingsCmd.Flags().StringVar(&settingsStep, "combo-rounding-step", "", `round combo lines up to this step, 0 to disable, "default" to follow the server setting`)

	shopCmd.AddCommand(shopSettingsCmd)
	rootCmd.AddCommand(shopCmd)
}
