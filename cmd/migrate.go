package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/stsysd/niwa/db"
	"github.com/stsysd/niwa/store"
	"go.uber.org/zap"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
			return fmt.Errorf("failed to create data directory: %w", err)
		}
		conn, err := store.Open(cfg.DataDir)
		if err != nil {
			return err
		}
		defer conn.Close()

		if err := db.Migrate(conn); err != nil {
			return err
		}
		version, err := db.Version(conn)
		if err != nil {
			return err
		}
		logger.Info("migrations applied", zap.String("dataDir", cfg.DataDir), zap.Int64("version", version))
		fmt.Fprintf(cmd.OutOrStdout(), "schema version %d\n", version)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
