package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/poxaedu/credtech/internal/external/bcb"
	"github.com/poxaedu/credtech/internal/s4_indicators"
	"github.com/poxaedu/credtech/pkg/config"
	"github.com/poxaedu/credtech/pkg/database"
	"github.com/poxaedu/credtech/pkg/logger"
	"github.com/poxaedu/credtech/pkg/redis"
)

// indicatorsCmd represents the indicators command
var indicatorsCmd = &cobra.Command{
	Use:   "indicadores",
	Short: "Atualiza os indicadores macroeconômicos (séries SGS)",
	Long: `Busca as séries do SGS (Selic, IPCA, inadimplência PF, endividamento,
desemprego) na API do Banco Central, consolida por mês (última observação)
com forward fill e substitui ft_indicadores_economicos_mensal.

Example:
  go run ./cmd/credtech indicadores --inicio 2024-01 --fim 2025-05`,
	RunE: runIndicators,
}

var (
	indInicio string
	indFim    string
)

func init() {
	rootCmd.AddCommand(indicatorsCmd)

	indicatorsCmd.Flags().StringVar(&indInicio, "inicio", "", "primeiro mês (YYYY-MM), padrão: 24 meses atrás")
	indicatorsCmd.Flags().StringVar(&indFim, "fim", "", "último mês (YYYY-MM), padrão: mês atual")
}

func runIndicators(cmd *cobra.Command, args []string) error {
	fmt.Println("=== CredTech Indicadores SGS ===")

	end := time.Now()
	start := end.AddDate(-2, 0, 0)
	var err error
	if indInicio != "" {
		if start, err = time.Parse("2006-01", indInicio); err != nil {
			return fmt.Errorf("parse --inicio: %w", err)
		}
	}
	if indFim != "" {
		if end, err = time.Parse("2006-01", indFim); err != nil {
			return fmt.Errorf("parse --fim: %w", err)
		}
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

	rdb, err := redis.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer rdb.Close()

	stage := s4_indicators.NewStage(
		bcb.NewClient(cfg, log).WithSharedRateLimit(rdb),
		s4_indicators.NewRepository(db.Pool),
		log,
	)

	if err := stage.Run(context.Background(), start, end); err != nil {
		return fmt.Errorf("run indicators: %w", err)
	}

	fmt.Printf("✅ Indicadores atualizados (%s a %s)\n", start.Format("2006-01"), end.Format("2006-01"))
	return nil
}
