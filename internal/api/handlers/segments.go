package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/poxaedu/credtech/pkg/logger"
	"github.com/poxaedu/credtech/pkg/redis"
)

// segmentDimensions are the gold columns accepted as analysis dimensions.
// Lista fechada: o nome entra na query SQL.
var segmentDimensions = map[string]bool{
	"uf": true, "cliente": true, "modalidade": true, "ocupacao": true,
	"porte": true, "cnae_secao": true, "cnae_subclasse": true,
}

// SegmentsHandler serves aggregated views over ft_scr_agregado_mensal
// ⭐ SSOT: consultas do dashboard sobre a gold somente aqui
type SegmentsHandler struct {
	pool   *pgxpool.Pool
	cache  *redis.Cache
	logger *logger.Logger
}

// NewSegmentsHandler creates a new segments handler
func NewSegmentsHandler(pool *pgxpool.Pool, cache *redis.Cache, log *logger.Logger) *SegmentsHandler {
	return &SegmentsHandler{pool: pool, cache: cache, logger: log}
}

// ResumoResponse is the latest-month KPI summary.
type ResumoResponse struct {
	Available             bool    `json:"available"`
	MesReferencia         string  `json:"mes_referencia,omitempty"`
	TotalCarteiraAtiva    float64 `json:"total_carteira_ativa"`
	TaxaInadimplencia     float64 `json:"taxa_inadimplencia_ponderada"`
	PercAtivoProblematico float64 `json:"perc_ativo_problematico_ponderado"`
	Segmentos             int64   `json:"segmentos"`
}

// GetResumo returns the KPI summary for the most recent reference month.
// GET /api/kpi/resumo
func (h *SegmentsHandler) GetResumo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var resp ResumoResponse
	err := h.cache.GetOrSet(ctx, redis.QueryKey("kpi_resumo", nil), &resp, redis.TTLQuery, func() (interface{}, error) {
		return h.queryResumo(ctx)
	})
	if err != nil {
		h.logger.WithError(err).Error("Failed to load KPI summary")
		respondError(w, http.StatusInternalServerError, "Failed to load KPI summary")
		return
	}

	respondJSON(w, http.StatusOK, resp)
}

func (h *SegmentsHandler) queryResumo(ctx context.Context) (*ResumoResponse, error) {
	var mes *time.Time
	if err := h.pool.QueryRow(ctx,
		`SELECT MAX(data_base) FROM credtech.ft_scr_agregado_mensal`).Scan(&mes); err != nil {
		return nil, fmt.Errorf("query latest month: %w", err)
	}
	if mes == nil {
		// Gold vazia: resposta explícita, nunca zeros disfarçados
		return &ResumoResponse{Available: false}, nil
	}

	resp := &ResumoResponse{Available: true, MesReferencia: mes.Format("2006-01")}
	err := h.pool.QueryRow(ctx, `
		SELECT
			COALESCE(SUM(total_carteira_ativa_segmento), 0),
			COALESCE(SUM(taxa_inadimplencia_final_segmento * total_carteira_ativa_segmento)
				/ NULLIF(SUM(total_carteira_ativa_segmento), 0), 0),
			COALESCE(SUM(perc_ativo_problematico_final_segmento * total_carteira_ativa_segmento)
				/ NULLIF(SUM(total_carteira_ativa_segmento), 0), 0),
			COUNT(*)
		FROM credtech.ft_scr_agregado_mensal
		WHERE data_base = $1`, *mes,
	).Scan(&resp.TotalCarteiraAtiva, &resp.TaxaInadimplencia, &resp.PercAtivoProblematico, &resp.Segmentos)
	if err != nil {
		return nil, fmt.Errorf("query kpi summary: %w", err)
	}
	return resp, nil
}

// DimensionRow is one aggregated row of a per-dimension query.
type DimensionRow struct {
	Valor               string  `json:"valor"`
	TaxaInadimplencia   float64 `json:"taxa_inadimplencia_media"`
	VolumeCarteiraTotal float64 `json:"volume_carteira_total"`
}

// DimensionResponse wraps per-dimension rows with availability.
type DimensionResponse struct {
	Available bool           `json:"available"`
	Dimensao  string         `json:"dimensao,omitempty"`
	Dados     []DimensionRow `json:"dados,omitempty"`
}

// GetVisaoGeralUF returns per-UF weighted default rate and volume.
// GET /api/visao-geral/uf
func (h *SegmentsHandler) GetVisaoGeralUF(w http.ResponseWriter, r *http.Request) {
	h.serveDimension(w, r, "uf")
}

// GetPorSegmento aggregates by one whitelisted dimension.
// GET /api/segmentos/{dimensao}
func (h *SegmentsHandler) GetPorSegmento(w http.ResponseWriter, r *http.Request) {
	dim := mux.Vars(r)["dimensao"]
	if !segmentDimensions[dim] {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("Invalid dimension %q", dim))
		return
	}
	h.serveDimension(w, r, dim)
}

func (h *SegmentsHandler) serveDimension(w http.ResponseWriter, r *http.Request, dim string) {
	ctx := r.Context()

	var resp DimensionResponse
	key := redis.QueryKey("segmentos", map[string]string{"dimensao": dim})
	err := h.cache.GetOrSet(ctx, key, &resp, redis.TTLQuery, func() (interface{}, error) {
		return h.queryDimension(ctx, dim)
	})
	if err != nil {
		h.logger.WithError(err).WithField("dimensao", dim).Error("Failed to load dimension aggregates")
		respondError(w, http.StatusInternalServerError, "Failed to load dimension aggregates")
		return
	}

	respondJSON(w, http.StatusOK, resp)
}

func (h *SegmentsHandler) queryDimension(ctx context.Context, dim string) (*DimensionResponse, error) {
	// dim vem da lista fechada segmentDimensions, nunca do cliente direto
	query := fmt.Sprintf(`
		SELECT
			%s,
			COALESCE(SUM(taxa_inadimplencia_final_segmento * total_carteira_ativa_segmento)
				/ NULLIF(SUM(total_carteira_ativa_segmento), 0), 0),
			SUM(total_carteira_ativa_segmento)
		FROM credtech.ft_scr_agregado_mensal
		GROUP BY %s
		ORDER BY %s`, dim, dim, dim)

	rows, err := h.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query dimension %s: %w", dim, err)
	}
	defer rows.Close()

	resp := &DimensionResponse{Dimensao: dim}
	for rows.Next() {
		var row DimensionRow
		if err := rows.Scan(&row.Valor, &row.TaxaInadimplencia, &row.VolumeCarteiraTotal); err != nil {
			return nil, fmt.Errorf("scan dimension row: %w", err)
		}
		resp.Dados = append(resp.Dados, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate dimension rows: %w", err)
	}

	resp.Available = len(resp.Dados) > 0
	return resp, nil
}

// TopRiscoRow is one cliente-modalidade-porte combination ranked by risk.
type TopRiscoRow struct {
	Combinacao        string  `json:"combinacao_risco"`
	TaxaInadimplencia float64 `json:"taxa_inadimplencia_media"`
}

// TopRiscosResponse wraps the risk ranking with availability.
type TopRiscosResponse struct {
	Available bool          `json:"available"`
	Dados     []TopRiscoRow `json:"dados,omitempty"`
}

// GetTopRiscos returns the N riskiest cliente-modalidade-porte combinations.
// GET /api/top-riscos?limit=20
func (h *SegmentsHandler) GetTopRiscos(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 100 {
			respondError(w, http.StatusBadRequest, "limit must be between 1 and 100")
			return
		}
		limit = parsed
	}

	var resp TopRiscosResponse
	key := redis.QueryKey("top_riscos", map[string]string{"limit": strconv.Itoa(limit)})
	err := h.cache.GetOrSet(ctx, key, &resp, redis.TTLQuery, func() (interface{}, error) {
		return h.queryTopRiscos(ctx, limit)
	})
	if err != nil {
		h.logger.WithError(err).Error("Failed to load top risk combinations")
		respondError(w, http.StatusInternalServerError, "Failed to load top risk combinations")
		return
	}

	respondJSON(w, http.StatusOK, resp)
}

func (h *SegmentsHandler) queryTopRiscos(ctx context.Context, limit int) (*TopRiscosResponse, error) {
	rows, err := h.pool.Query(ctx, `
		SELECT
			CONCAT(cliente, ' - ', modalidade, ' - ', porte),
			AVG(taxa_inadimplencia_final_segmento)
		FROM credtech.ft_scr_segmentos_clusters
		GROUP BY cliente, modalidade, porte
		ORDER BY 2 DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("query top risks: %w", err)
	}
	defer rows.Close()

	resp := &TopRiscosResponse{}
	for rows.Next() {
		var row TopRiscoRow
		if err := rows.Scan(&row.Combinacao, &row.TaxaInadimplencia); err != nil {
			return nil, fmt.Errorf("scan top risk row: %w", err)
		}
		resp.Dados = append(resp.Dados, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate top risk rows: %w", err)
	}

	resp.Available = len(resp.Dados) > 0
	return resp, nil
}
