package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/poxaedu/credtech/pkg/config"
	"github.com/poxaedu/credtech/pkg/database"
	"github.com/poxaedu/credtech/pkg/logger"
)

// migrateCmd represents the migrate command
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Cria o schema e as tabelas do warehouse",
	Long: `Aplica o schema credtech com as tabelas silver, gold, clusters e
indicadores. Idempotente: tabelas existentes são preservadas.

Example:
  go run ./cmd/credtech migrate`,
	RunE: runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	fmt.Println("=== CredTech Migrate ===")

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.New(cfg)

	db, err := database.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	if err := db.Migrate(context.Background()); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}

	log.Info("Schema applied")
	fmt.Println("✅ Schema credtech criado/atualizado")
	return nil
}
