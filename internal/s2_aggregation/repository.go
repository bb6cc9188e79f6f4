package s2_aggregation

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/poxaedu/credtech/internal/contracts"
)

// Repository persists gold segments and reads them back for downstream stages.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new Repository instance
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

var goldColumns = []string{
	"data_base", "uf", "cliente", "modalidade", "ocupacao",
	"cnae_secao", "cnae_subclasse", "porte",
	"total_carteira_ativa_segmento", "total_vencido_15d_segmento",
	"total_inadimplida_arrastada_segmento", "total_ativo_problematico_segmento",
	"media_taxa_inadimplencia_original", "media_perc_ativo_problematico_original",
	"contagem_clientes_unicos_segmento", "contagem_subsegmentos",
	"taxa_inadimplencia_final_segmento", "perc_ativo_problematico_final_segmento",
}

// ReplaceMonth replaces one month's gold segments atomically.
// Delete + CopyFrom na mesma transação: reexecutar o mês substitui, nunca acumula.
func (r *Repository) ReplaceMonth(ctx context.Context, month time.Time, segments []contracts.Segment) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin gold replace: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`DELETE FROM credtech.ft_scr_agregado_mensal
		 WHERE date_trunc('month', data_base) = date_trunc('month', $1::date)`,
		month,
	)
	if err != nil {
		return fmt.Errorf("delete gold month: %w", err)
	}

	_, err = tx.CopyFrom(ctx,
		pgx.Identifier{"credtech", "ft_scr_agregado_mensal"},
		goldColumns,
		pgx.CopyFromSlice(len(segments), func(i int) ([]interface{}, error) {
			seg := &segments[i]
			return []interface{}{
				seg.Key.DataBase, seg.Key.UF, seg.Key.Cliente, seg.Key.Modalidade,
				seg.Key.Ocupacao, seg.Key.CnaeSecao, seg.Key.CnaeSubclasse, seg.Key.Porte,
				seg.TotalCarteiraAtiva, seg.TotalVencido15D,
				seg.TotalInadimplidaArrastada, seg.TotalAtivoProblematico,
				seg.MediaTaxaInadimplenciaOriginal, seg.MediaPercAtivoProblematicoOriginal,
				seg.ContagemClientesUnicos, seg.ContagemSubsegmentos,
				seg.TaxaInadimplenciaFinal, seg.PercAtivoProblematicoFinal,
			}, nil
		}),
	)
	if err != nil {
		return fmt.Errorf("copy gold segments: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit gold replace: %w", err)
	}
	return nil
}

// LoadSegments reads every gold segment, ordered by the full key.
// Usado pela etapa de clusterização: a ordem estável garante reprodutibilidade.
func (r *Repository) LoadSegments(ctx context.Context) ([]contracts.Segment, error) {
	rows, err := r.db.Query(ctx, `
		SELECT data_base, uf, cliente, modalidade, ocupacao,
		       cnae_secao, cnae_subclasse, porte,
		       total_carteira_ativa_segmento, total_vencido_15d_segmento,
		       total_inadimplida_arrastada_segmento, total_ativo_problematico_segmento,
		       media_taxa_inadimplencia_original, media_perc_ativo_problematico_original,
		       contagem_clientes_unicos_segmento, contagem_subsegmentos,
		       taxa_inadimplencia_final_segmento, perc_ativo_problematico_final_segmento
		FROM credtech.ft_scr_agregado_mensal
		ORDER BY data_base, uf, cliente, modalidade, ocupacao,
		         cnae_secao, cnae_subclasse, porte`)
	if err != nil {
		return nil, fmt.Errorf("query gold segments: %w", err)
	}
	defer rows.Close()

	segments := make([]contracts.Segment, 0, 4096)
	for rows.Next() {
		var seg contracts.Segment
		err := rows.Scan(
			&seg.Key.DataBase, &seg.Key.UF, &seg.Key.Cliente, &seg.Key.Modalidade,
			&seg.Key.Ocupacao, &seg.Key.CnaeSecao, &seg.Key.CnaeSubclasse, &seg.Key.Porte,
			&seg.TotalCarteiraAtiva, &seg.TotalVencido15D,
			&seg.TotalInadimplidaArrastada, &seg.TotalAtivoProblematico,
			&seg.MediaTaxaInadimplenciaOriginal, &seg.MediaPercAtivoProblematicoOriginal,
			&seg.ContagemClientesUnicos, &seg.ContagemSubsegmentos,
			&seg.TaxaInadimplenciaFinal, &seg.PercAtivoProblematicoFinal,
		)
		if err != nil {
			return nil, fmt.Errorf("scan gold segment: %w", err)
		}
		segments = append(segments, seg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate gold segments: %w", err)
	}
	return segments, nil
}

// Months returns the distinct reference months present in the gold layer.
func (r *Repository) Months(ctx context.Context) ([]time.Time, error) {
	rows, err := r.db.Query(ctx,
		`SELECT DISTINCT data_base FROM credtech.ft_scr_agregado_mensal ORDER BY data_base`)
	if err != nil {
		return nil, fmt.Errorf("query gold months: %w", err)
	}
	defer rows.Close()

	months := make([]time.Time, 0, 24)
	for rows.Next() {
		var m time.Time
		if err := rows.Scan(&m); err != nil {
			return nil, fmt.Errorf("scan gold month: %w", err)
		}
		months = append(months, m)
	}
	return months, rows.Err()
}
