package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/poxaedu/credtech/internal/etl"
	"github.com/poxaedu/credtech/internal/external/bcb"
	"github.com/poxaedu/credtech/internal/s1_cleaning"
	"github.com/poxaedu/credtech/internal/s2_aggregation"
	"github.com/poxaedu/credtech/internal/s3_clustering"
	"github.com/poxaedu/credtech/internal/s4_indicators"
	"github.com/poxaedu/credtech/internal/scheduler"
	"github.com/poxaedu/credtech/internal/scheduler/jobs"
	"github.com/poxaedu/credtech/pkg/config"
	"github.com/poxaedu/credtech/pkg/database"
	"github.com/poxaedu/credtech/pkg/logger"
	"github.com/poxaedu/credtech/pkg/redis"
)

// schedulerCmd represents the scheduler command
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Inicia o agendador de jobs mensais",
	Long: `Inicia o agendador com os jobs do pipeline:

- scr_monthly_etl    : dia 5 de cada mês, reprocessa os últimos 3 meses
- segment_clustering : dia 6 de cada mês, reclusteriza a gold
- sgs_indicators     : toda segunda, atualiza os indicadores do SGS

Example:
  go run ./cmd/credtech scheduler`,
	RunE: runScheduler,
}

func init() {
	rootCmd.AddCommand(schedulerCmd)
}

func runScheduler(cmd *cobra.Command, args []string) error {
	fmt.Println("=== CredTech Scheduler ===")

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

	goldRepo := s2_aggregation.NewRepository(db.Pool)

	runner := etl.NewRunner(
		s1_cleaning.NewCleaner(log),
		s2_aggregation.NewAggregator(log),
		s1_cleaning.NewRepository(db.Pool),
		goldRepo,
		cfg.Pipeline,
		log,
	)
	clusteringStage := s3_clustering.NewStage(goldRepo, s3_clustering.NewRepository(db.Pool), cfg.Clustering, log)
	indicatorsStage := s4_indicators.NewStage(bcb.NewClient(cfg, log).WithSharedRateLimit(rdb), s4_indicators.NewRepository(db.Pool), log)

	sched := scheduler.New(log)
	for _, job := range []scheduler.Job{
		jobs.NewETLJob(runner, log),
		jobs.NewClusteringJob(clusteringStage, log),
		jobs.NewIndicatorsJob(indicatorsStage, log),
	} {
		if err := sched.AddJob(job); err != nil {
			return fmt.Errorf("register job %s: %w", job.Name(), err)
		}
	}

	sched.Start()
	fmt.Println("\n✅ Scheduler running. Press Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	sched.Stop()
	return nil
}
