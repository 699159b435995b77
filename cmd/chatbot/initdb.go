package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/katakuxiko/agentchat/internal/store"
)

var initDBCmd = &cobra.Command{
	Use:   "init-db",
	Short: "Create and seed the sales database",
	Long: `init-db drops the sales tables, recreates them and loads the sample
rows. Running it again resets the database to the same state.`,
	Args: cobra.NoArgs,
	RunE: runInitDB,
}

func init() {
	rootCmd.AddCommand(initDBCmd)
}

func runInitDB(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	db, err := store.OpenSalesDB(cmd.Context(), cfg.SalesDBDriver, salesDSN(cfg, false))
	if err != nil {
		return err
	}
	defer db.Close()

	n, err := store.Setup(cmd.Context(), db.DB(), db.Driver())
	if err != nil {
		return err
	}
	logger.Info().Str("driver", db.Driver()).Int("sales_records", n).Msg("sales database ready")
	fmt.Fprintf(cmd.OutOrStdout(), "inserted %d sales records\n", n)
	return nil
}
