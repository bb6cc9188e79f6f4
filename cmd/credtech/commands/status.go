package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/poxaedu/credtech/pkg/config"
	"github.com/poxaedu/credtech/pkg/database"
	"github.com/poxaedu/credtech/pkg/logger"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Mostra o estado das tabelas do warehouse",
	Long: `Exibe, por tabela, a contagem de linhas e o mês mais recente.

Útil para conferir o resultado de um ETL ou diagnosticar dashboards
vazios sem abrir o banco na mão.

Example:
  go run ./cmd/credtech status`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

// statusTables maps each warehouse table to its month column (empty when
// the table has no temporal axis).
var statusTables = []struct {
	name        string
	monthColumn string
}{
	{"silver_scr_operacoes", "data_base"},
	{"ft_scr_agregado_mensal", "data_base"},
	{"ft_scr_segmentos_clusters", "data_base"},
	{"dim_cluster_profiles", ""},
	{"ft_indicadores_economicos_mensal", "mes"},
}

func runStatus(cmd *cobra.Command, args []string) error {
	fmt.Println("=== CredTech Status ===")

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

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Ping(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	PrintSection("Tabelas do schema credtech")
	fmt.Printf("  %-34s %12s  %s\n", "Tabela", "Linhas", "Último mês")

	for _, table := range statusTables {
		var count int64
		query := fmt.Sprintf(`SELECT COUNT(*) FROM credtech.%s`, table.name)
		if err := db.Pool.QueryRow(ctx, query).Scan(&count); err != nil {
			log.WithError(err).WithField("table", table.name).Warn("Count failed")
			fmt.Printf("  %-34s %12s  %s\n", table.name, "erro", "-")
			continue
		}

		latest := "-"
		if table.monthColumn != "" && count > 0 {
			var max *time.Time
			query = fmt.Sprintf(`SELECT MAX(%s) FROM credtech.%s`, table.monthColumn, table.name)
			if err := db.Pool.QueryRow(ctx, query).Scan(&max); err == nil && max != nil {
				latest = max.Format("2006-01")
			}
		}
		fmt.Printf("  %-34s %12d  %s\n", table.name, count, latest)
	}

	return nil
}
