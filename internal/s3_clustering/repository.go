package s3_clustering

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/poxaedu/credtech/internal/contracts"
)

// clusteringLockID serializes concurrent clustering runs via advisory lock.
const clusteringLockID = 74001

// Repository persists clustering output: assignments plus profiles,
// replaced together in one transaction.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new Repository instance
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Column order segue as listas congeladas do contrato; os CopyFrom abaixo
// dependem dessa ordem.
var clusterColumns = append(append([]string{
	"data_base", "uf", "cliente", "modalidade", "ocupacao",
	"cnae_secao", "cnae_subclasse", "porte",
}, contracts.ClusterFeatures...), "cluster_id")

var profileColumns = append(
	append([]string{"cluster_id"}, contracts.ClusterFeatures...),
	contracts.ClusterCategoricals...,
)

// ReplaceAll rewrites both clustering tables from one result.
// Atribuições e perfis nunca podem vir de execuções diferentes: tudo na
// mesma transação, sob advisory lock.
func (r *Repository) ReplaceAll(ctx context.Context, result *contracts.ClusterResult) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin clustering replace: %w", err)
	}
	defer tx.Rollback(ctx)

	var locked bool
	if err := tx.QueryRow(ctx, `SELECT pg_try_advisory_xact_lock($1)`, clusteringLockID).Scan(&locked); err != nil {
		return fmt.Errorf("acquire clustering lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("clustering already running")
	}

	if _, err := tx.Exec(ctx, `DELETE FROM credtech.ft_scr_segmentos_clusters`); err != nil {
		return fmt.Errorf("clear cluster assignments: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM credtech.dim_cluster_profiles`); err != nil {
		return fmt.Errorf("clear cluster profiles: %w", err)
	}

	_, err = tx.CopyFrom(ctx,
		pgx.Identifier{"credtech", "ft_scr_segmentos_clusters"},
		clusterColumns,
		pgx.CopyFromSlice(len(result.Assignments), func(i int) ([]interface{}, error) {
			a := &result.Assignments[i]
			return []interface{}{
				a.Segment.Key.DataBase, a.Segment.Key.UF, a.Segment.Key.Cliente,
				a.Segment.Key.Modalidade, a.Segment.Key.Ocupacao,
				a.Segment.Key.CnaeSecao, a.Segment.Key.CnaeSubclasse, a.Segment.Key.Porte,
				a.Segment.TotalCarteiraAtiva,
				a.Segment.TaxaInadimplenciaFinal,
				a.Segment.PercAtivoProblematicoFinal,
				a.Segment.ContagemSubsegmentos, a.ClusterID,
			}, nil
		}),
	)
	if err != nil {
		return fmt.Errorf("copy cluster assignments: %w", err)
	}

	_, err = tx.CopyFrom(ctx,
		pgx.Identifier{"credtech", "dim_cluster_profiles"},
		profileColumns,
		pgx.CopyFromSlice(len(result.Profiles), func(i int) ([]interface{}, error) {
			p := &result.Profiles[i]
			return []interface{}{
				p.ClusterID,
				p.TotalCarteiraAtiva, p.TaxaInadimplenciaFinal,
				p.PercAtivoProblematicoFinal, p.ContagemSubsegmentos,
				p.UF, p.Cliente, p.Modalidade, p.Ocupacao, p.Porte,
				p.CnaeSecao, p.CnaeSubclasse,
			}, nil
		}),
	)
	if err != nil {
		return fmt.Errorf("copy cluster profiles: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit clustering replace: %w", err)
	}
	return nil
}
