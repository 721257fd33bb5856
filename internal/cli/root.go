// Package cli is the command-line surface of the point-of-sale core.
package cli

import (
	"context"
	"encoding/json"
	"io"
	"time"

	"github.com/sangkips/duka-pos/internal/config"
	"github.com/sangkips/duka-pos/internal/infrastructure/database"
	"github.com/spf13/cobra"
)

var version = "0.1.0"

// shutdownGrace is added to the task timeout when draining background work on exit
const shutdownGrace = 5 * time.Second

var (
	cfg *config.Config
	app *App

	shopRef string
	userRef string
)

var rootCmd = &cobra.Command{
	Use:   "pos",
	Short: "duka-pos - register sessions and checkout for retail shops",
	Long: `duka-pos runs the checkout and register-session core of a retail point of sale.

Open a register, ring up sales against it, print receipts and close the
register with a cash reconciliation. Configuration is read from the
environment and an optional .env file.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		a, err := NewApp(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		app = a
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if app == nil {
			return nil
		}
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Dispatch.TaskTimeout+shutdownGrace)
		defer cancel()
		return app.Close(ctx)
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		return database.AutoMigrate(app.db)
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create a demo shop with a cashier, products and a VAT rate",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := database.AutoMigrate(app.db); err != nil {
			return err
		}
		res, err := app.seed(cmd.Context())
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), res)
	},
}

// Execute runs the command tree with the loaded configuration
func Execute(ctx context.Context, c *config.Config) error {
	cfg = c
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&shopRef, "shop", database.DemoShopSlug, "shop id or slug")
	rootCmd.PersistentFlags().StringVar(&userRef, "user", "cashier", "user id or username")

	rootCmd.AddCommand(migrateCmd, seedCmd)
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
