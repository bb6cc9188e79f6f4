package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/poxaedu/credtech/internal/etl"
	"github.com/poxaedu/credtech/internal/external/bcb"
	"github.com/poxaedu/credtech/internal/s1_cleaning"
	"github.com/poxaedu/credtech/internal/s2_aggregation"
	"github.com/poxaedu/credtech/pkg/config"
	"github.com/poxaedu/credtech/pkg/database"
	"github.com/poxaedu/credtech/pkg/logger"
	"github.com/poxaedu/credtech/pkg/redis"
)

// etlCmd represents the etl command
var etlCmd = &cobra.Command{
	Use:   "etl",
	Short: "Executa o pipeline mensal (bronze -> silver -> gold)",
	Long: `Processa os extratos mensais do SCR.data:

- Limpeza e coerção de tipos (camada silver)
- Agregação por segmento e recálculo de KPIs (camada gold)
- Substituição atômica por mês (reexecutar nunca duplica)

Meses sem extrato são pulados com aviso; o lote continua.

Example:
  go run ./cmd/credtech etl --inicio 2024-01 --fim 2025-05`,
	RunE: runETL,
}

// etlCatalogoCmd compares local extracts with the BCB open-data portal.
var etlCatalogoCmd = &cobra.Command{
	Use:   "catalogo",
	Short: "Compara extratos locais com os publicados pelo BCB",
	RunE:  runETLCatalogo,
}

var (
	etlInicio string
	etlFim    string
)

func init() {
	rootCmd.AddCommand(etlCmd)
	etlCmd.AddCommand(etlCatalogoCmd)

	etlCmd.Flags().StringVar(&etlInicio, "inicio", "", "primeiro mês (YYYY-MM)")
	etlCmd.Flags().StringVar(&etlFim, "fim", "", "último mês (YYYY-MM)")
	etlCmd.MarkFlagRequired("inicio")
	etlCmd.MarkFlagRequired("fim")
}

func runETL(cmd *cobra.Command, args []string) error {
	fmt.Println("=== CredTech ETL ===")

	start, err := time.Parse("2006-01", etlInicio)
	if err != nil {
		return fmt.Errorf("parse --inicio: %w", err)
	}
	end, err := time.Parse("2006-01", etlFim)
	if err != nil {
		return fmt.Errorf("parse --fim: %w", err)
	}
	if end.Before(start) {
		return fmt.Errorf("--fim %s is before --inicio %s", etlFim, etlInicio)
	}

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

	runner := etl.NewRunner(
		s1_cleaning.NewCleaner(log),
		s2_aggregation.NewAggregator(log),
		s1_cleaning.NewRepository(db.Pool),
		s2_aggregation.NewRepository(db.Pool),
		cfg.Pipeline,
		log,
	)

	summary, err := runner.Run(context.Background(), start, end)
	if err != nil {
		return fmt.Errorf("run pipeline: %w", err)
	}

	PrintRunSummary(summary)
	return nil
}

func runETLCatalogo(cmd *cobra.Command, args []string) error {
	fmt.Println("=== CredTech ETL: catálogo do portal ===")

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.New(cfg)

	rdb, err := redis.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer rdb.Close()

	client := bcb.NewClient(cfg, log).WithSharedRateLimit(rdb)
	entries, err := client.FetchCatalog(context.Background())
	if err != nil {
		return fmt.Errorf("fetch portal catalog: %w", err)
	}
	if len(entries) == 0 {
		fmt.Println("Nenhum extrato publicado encontrado no portal.")
		return nil
	}

	runner := etl.NewRunner(nil, nil, nil, nil, cfg.Pipeline, log)
	fmt.Printf("\n%-10s %-12s %s\n", "Mês", "Local", "URL")
	for _, entry := range entries {
		local := "ausente"
		if _, err := os.Stat(runner.ExtractPath(entry.Month)); err == nil {
			local = "disponível"
		}
		fmt.Printf("%-10s %-12s %s\n", entry.Month.Format("2006-01"), local, entry.URL)
	}
	return nil
}
