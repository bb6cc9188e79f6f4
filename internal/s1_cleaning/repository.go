package s1_cleaning

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/poxaedu/credtech/internal/contracts"
)

// Repository persists cleaned records into the silver layer.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new Repository instance
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

var silverColumns = []string{
	"data_base", "uf", "tcb", "sr", "cliente", "ocupacao", "cnae_secao",
	"cnae_subclasse", "porte", "modalidade", "origem", "indexador",
	"numero_de_operacoes",
	"a_vencer_ate_90_dias", "a_vencer_de_91_ate_360_dias",
	"a_vencer_de_361_ate_1080_dias", "a_vencer_de_1081_ate_1800_dias",
	"a_vencer_de_1801_ate_5400_dias", "a_vencer_acima_de_5400_dias",
	"vencido_acima_de_15_dias", "carteira_ativa",
	"carteira_inadimplida_arrastada", "ativo_problematico",
	"taxa_inadimplencia_segmento", "perc_ativo_problematico",
}

// ReplaceMonth replaces one month's silver partition atomically.
// Delete + CopyFrom na mesma transação: reexecutar o mês é idempotente.
func (r *Repository) ReplaceMonth(ctx context.Context, month time.Time, records []contracts.CleanedRecord) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin silver replace: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`DELETE FROM credtech.silver_scr_operacoes
		 WHERE date_trunc('month', data_base) = date_trunc('month', $1::date)`,
		month,
	)
	if err != nil {
		return fmt.Errorf("delete silver month: %w", err)
	}

	_, err = tx.CopyFrom(ctx,
		pgx.Identifier{"credtech", "silver_scr_operacoes"},
		silverColumns,
		pgx.CopyFromSlice(len(records), func(i int) ([]interface{}, error) {
			rec := &records[i]
			return []interface{}{
				rec.DataBase, rec.UF, rec.TCB, rec.SR, rec.Cliente,
				rec.Ocupacao, rec.CnaeSecao, rec.CnaeSubclasse, rec.Porte,
				rec.Modalidade, rec.Origem, rec.Indexador,
				rec.NumeroDeOperacoes,
				nullable(rec.AVencerAte90Dias),
				nullable(rec.AVencerDe91Ate360Dias),
				nullable(rec.AVencerDe361Ate1080Dias),
				nullable(rec.AVencerDe1081Ate1800Dias),
				nullable(rec.AVencerDe1801Ate5400Dias),
				nullable(rec.AVencerAcimaDe5400Dias),
				nullable(rec.VencidoAcimaDe15Dias),
				nullable(rec.CarteiraAtiva),
				nullable(rec.CarteiraInadimplidaArrastada),
				nullable(rec.AtivoProblematico),
				rec.TaxaInadimplencia,
				rec.PercAtivoProblematico,
			}, nil
		}),
	)
	if err != nil {
		return fmt.Errorf("copy silver rows: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit silver replace: %w", err)
	}
	return nil
}

// CountMonth returns the number of silver rows stored for a month.
func (r *Repository) CountMonth(ctx context.Context, month time.Time) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM credtech.silver_scr_operacoes
		 WHERE date_trunc('month', data_base) = date_trunc('month', $1::date)`,
		month,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count silver month: %w", err)
	}
	return count, nil
}

// nullable maps NaN to SQL NULL, keeping the record-level null visible.
func nullable(v float64) interface{} {
	if math.IsNaN(v) {
		return nil
	}
	return v
}
