package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/poxaedu/credtech/internal/api"
	"github.com/poxaedu/credtech/internal/api/handlers"
	"github.com/poxaedu/credtech/pkg/config"
	"github.com/poxaedu/credtech/pkg/database"
	"github.com/poxaedu/credtech/pkg/logger"
	"github.com/poxaedu/credtech/pkg/redis"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Inicia o servidor da API de consultas",
	Long: `Inicia o servidor HTTP com as consultas do dashboard.

Endpoints:
  GET /health                      - Health check
  GET /api/kpi/resumo              - Resumo do último mês
  GET /api/visao-geral/uf          - Visão geral por UF
  GET /api/segmentos/{dimensao}    - Agregado por dimensão
  GET /api/tendencia               - Tendência mensal + indicadores
  GET /api/clusters/inadimplencia  - Inadimplência média por cluster
  GET /api/clusters/perfis         - Perfis dos clusters
  GET /api/top-riscos              - Top combinações de risco

Example:
  go run ./cmd/credtech api
  go run ./cmd/credtech api --port 8091`,
	RunE: runAPIServer,
}

var (
	apiPort string
)

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "porta do servidor (padrão: PORT do ambiente)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	fmt.Println("=== CredTech API Server ===")

	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if apiPort != "" {
		cfg.Port = apiPort
	}

	// 2. Initialize logger
	log := logger.New(cfg)

	// 3. Connect to database
	db, err := database.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	log.Info("Connected to database")

	// 4. Redis cache (opcional: desabilitado vira passagem direta)
	redisClient, err := redis.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer redisClient.Close()
	cache := redis.NewCache(redisClient, "credtech")

	// 5. Create handlers and router
	router := api.NewRouter(
		handlers.NewSegmentsHandler(db.Pool, cache, log),
		handlers.NewClustersHandler(db.Pool, cache, log),
		handlers.NewTemporalHandler(db.Pool, cache, log),
		log,
	)

	// 6. Start server with graceful shutdown
	server := api.New(cfg, log, router)
	go func() {
		if err := server.Start(); err != nil {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	fmt.Printf("\n✅ Server running on http://localhost:%s\n", cfg.Port)
	fmt.Println("Press Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
