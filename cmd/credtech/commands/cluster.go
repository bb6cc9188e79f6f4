package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/poxaedu/credtech/internal/s2_aggregation"
	"github.com/poxaedu/credtech/internal/s3_clustering"
	"github.com/poxaedu/credtech/pkg/config"
	"github.com/poxaedu/credtech/pkg/database"
	"github.com/poxaedu/credtech/pkg/logger"
)

// clusterCmd represents the cluster command
var clusterCmd = &cobra.Command{
	Use:   "cluster",
	Short: "Clusteriza os segmentos da camada gold (K-Means)",
	Long: `Executa a clusterização dos segmentos:

- Carrega todos os segmentos de ft_scr_agregado_mensal
- Padroniza as quatro features numéricas e aplica K-Means (semente fixa)
- Substitui ft_scr_segmentos_clusters e dim_cluster_profiles juntos,
  na mesma transação

Example:
  go run ./cmd/credtech cluster`,
	RunE: runCluster,
}

func init() {
	rootCmd.AddCommand(clusterCmd)
}

func runCluster(cmd *cobra.Command, args []string) error {
	fmt.Println("=== CredTech Clustering ===")

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

	stage := s3_clustering.NewStage(
		s2_aggregation.NewRepository(db.Pool),
		s3_clustering.NewRepository(db.Pool),
		cfg.Clustering,
		log,
	)

	result, err := stage.Run(context.Background())
	if err != nil {
		return fmt.Errorf("run clustering: %w", err)
	}

	PrintSection("Perfis dos clusters")
	for _, p := range result.Profiles {
		fmt.Printf("  Cluster %d: carteira %.0f  inadimplência %.2f%%  perfil %s/%s/%s\n",
			p.ClusterID, p.TotalCarteiraAtiva, p.TaxaInadimplenciaFinal*100,
			p.UF, p.Cliente, p.Porte)
	}
	fmt.Printf("\n✅ %d segmentos clusterizados (%d descartados por nulos)\n",
		len(result.Assignments), result.Dropped)
	return nil
}
