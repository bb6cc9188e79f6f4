package s4_indicators

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// indicatorColumns is the column order of ft_indicadores_economicos_mensal
// after mes. Deve casar com bcb.TrackedSeries.
var indicatorColumns = []string{
	"taxa_selic_meta",
	"ipca_inflacao",
	"inadimplencia_pf",
	"endividamento_familias",
	"taxa_desemprego",
}

// Repository persists the consolidated monthly indicator table.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new Repository instance
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// ReplaceAll rewrites the whole indicator table from the given rows.
// Tabela pequena (uma linha por mês): substituição completa é mais simples
// e garante consistência do forward fill entre meses.
func (r *Repository) ReplaceAll(ctx context.Context, rows []Row) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin indicators replace: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM credtech.ft_indicadores_economicos_mensal`); err != nil {
		return fmt.Errorf("clear indicators: %w", err)
	}

	columns := append([]string{"mes"}, indicatorColumns...)
	_, err = tx.CopyFrom(ctx,
		pgx.Identifier{"credtech", "ft_indicadores_economicos_mensal"},
		columns,
		pgx.CopyFromSlice(len(rows), func(i int) ([]interface{}, error) {
			row := &rows[i]
			out := make([]interface{}, 0, len(columns))
			out = append(out, row.Mes)
			for _, col := range indicatorColumns {
				if v := row.Values[col]; v != nil {
					out = append(out, *v)
				} else {
					out = append(out, nil)
				}
			}
			return out, nil
		}),
	)
	if err != nil {
		return fmt.Errorf("copy indicators: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit indicators replace: %w", err)
	}
	return nil
}
