package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	configFile string
	env        string
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "credtech",
	Short: "CredTech - análise de risco de crédito sobre o SCR.data",
	Long: `CredTech CLI

Pipeline analítico sobre os dados abertos do SCR (Banco Central):
limpeza dos extratos mensais, agregação por segmento, recálculo de KPIs,
clusterização K-Means e indicadores macroeconômicos do SGS.

Usage:
  go run ./cmd/credtech [command]

Examples:
  go run ./cmd/credtech migrate
  go run ./cmd/credtech etl --inicio 2024-01 --fim 2025-05
  go run ./cmd/credtech cluster
  go run ./cmd/credtech api`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is .env)")
	rootCmd.PersistentFlags().StringVar(&env, "env", "development", "environment (development|staging|production)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
