package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/poxaedu/credtech/pkg/logger"
	"github.com/poxaedu/credtech/pkg/redis"
)

// TemporalHandler serves the monthly trend of the default rate joined with
// the macro indicators.
type TemporalHandler struct {
	pool   *pgxpool.Pool
	cache  *redis.Cache
	logger *logger.Logger
}

// NewTemporalHandler creates a new temporal handler
func NewTemporalHandler(pool *pgxpool.Pool, cache *redis.Cache, log *logger.Logger) *TemporalHandler {
	return &TemporalHandler{pool: pool, cache: cache, logger: log}
}

// TrendRow is one month of the joined trend. Indicadores ausentes no mês
// ficam nulos no JSON, nunca zerados.
type TrendRow struct {
	Mes                   string   `json:"mes"`
	TaxaInadimplencia     float64  `json:"taxa_inadimplencia_media"`
	TaxaSelicMeta         *float64 `json:"taxa_selic_meta"`
	IpcaInflacao          *float64 `json:"ipca_inflacao"`
	InadimplenciaPF       *float64 `json:"inadimplencia_pf"`
	EndividamentoFamilias *float64 `json:"endividamento_familias"`
	TaxaDesemprego        *float64 `json:"taxa_desemprego"`
}

// TrendResponse wraps trend rows with availability.
type TrendResponse struct {
	Available bool       `json:"available"`
	Dados     []TrendRow `json:"dados,omitempty"`
}

// GetTendencia returns the monthly default-rate trend left-joined with the
// macro indicator table.
// GET /api/tendencia
func (h *TemporalHandler) GetTendencia(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var resp TrendResponse
	err := h.cache.GetOrSet(ctx, redis.QueryKey("tendencia", nil), &resp, redis.TTLQuery, func() (interface{}, error) {
		return h.queryTrend(ctx)
	})
	if err != nil {
		h.logger.WithError(err).Error("Failed to load temporal trend")
		respondError(w, http.StatusInternalServerError, "Failed to load temporal trend")
		return
	}

	respondJSON(w, http.StatusOK, resp)
}

func (h *TemporalHandler) queryTrend(ctx context.Context) (*TrendResponse, error) {
	rows, err := h.pool.Query(ctx, `
		WITH scr_mensal AS (
			SELECT
				date_trunc('month', data_base)::date AS mes,
				AVG(taxa_inadimplencia_final_segmento) AS taxa_inadimplencia_media
			FROM credtech.ft_scr_agregado_mensal
			GROUP BY 1
		)
		SELECT
			s.mes, s.taxa_inadimplencia_media,
			i.taxa_selic_meta, i.ipca_inflacao, i.inadimplencia_pf,
			i.endividamento_familias, i.taxa_desemprego
		FROM scr_mensal s
		LEFT JOIN credtech.ft_indicadores_economicos_mensal i ON i.mes = s.mes
		ORDER BY s.mes`)
	if err != nil {
		return nil, fmt.Errorf("query temporal trend: %w", err)
	}
	defer rows.Close()

	resp := &TrendResponse{}
	for rows.Next() {
		var mes time.Time
		var row TrendRow
		err := rows.Scan(&mes, &row.TaxaInadimplencia,
			&row.TaxaSelicMeta, &row.IpcaInflacao, &row.InadimplenciaPF,
			&row.EndividamentoFamilias, &row.TaxaDesemprego)
		if err != nil {
			return nil, fmt.Errorf("scan trend row: %w", err)
		}
		row.Mes = mes.Format("2006-01")
		resp.Dados = append(resp.Dados, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate trend rows: %w", err)
	}

	resp.Available = len(resp.Dados) > 0
	return resp, nil
}
