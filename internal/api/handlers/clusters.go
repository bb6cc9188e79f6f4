package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/poxaedu/credtech/pkg/logger"
	"github.com/poxaedu/credtech/pkg/redis"
)

// ClustersHandler serves views over the clustering output tables.
type ClustersHandler struct {
	pool   *pgxpool.Pool
	cache  *redis.Cache
	logger *logger.Logger
}

// NewClustersHandler creates a new clusters handler
func NewClustersHandler(pool *pgxpool.Pool, cache *redis.Cache, log *logger.Logger) *ClustersHandler {
	return &ClustersHandler{pool: pool, cache: cache, logger: log}
}

// ClusterRateRow is one cluster's average default rate.
type ClusterRateRow struct {
	ClusterID         int     `json:"cluster_id"`
	TaxaInadimplencia float64 `json:"taxa_inadimplencia_media"`
	Segmentos         int64   `json:"segmentos"`
}

// ClusterRatesResponse wraps per-cluster rates with availability.
type ClusterRatesResponse struct {
	Available bool             `json:"available"`
	Dados     []ClusterRateRow `json:"dados,omitempty"`
}

// GetInadimplencia returns the average default rate per cluster.
// GET /api/clusters/inadimplencia
func (h *ClustersHandler) GetInadimplencia(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var resp ClusterRatesResponse
	err := h.cache.GetOrSet(ctx, redis.QueryKey("clusters_inadimplencia", nil), &resp, redis.TTLQuery, func() (interface{}, error) {
		return h.queryRates(ctx)
	})
	if err != nil {
		h.logger.WithError(err).Error("Failed to load cluster default rates")
		respondError(w, http.StatusInternalServerError, "Failed to load cluster default rates")
		return
	}

	respondJSON(w, http.StatusOK, resp)
}

func (h *ClustersHandler) queryRates(ctx context.Context) (*ClusterRatesResponse, error) {
	rows, err := h.pool.Query(ctx, `
		SELECT cluster_id, AVG(taxa_inadimplencia_final_segmento), COUNT(*)
		FROM credtech.ft_scr_segmentos_clusters
		GROUP BY cluster_id
		ORDER BY cluster_id`)
	if err != nil {
		return nil, fmt.Errorf("query cluster rates: %w", err)
	}
	defer rows.Close()

	resp := &ClusterRatesResponse{}
	for rows.Next() {
		var row ClusterRateRow
		if err := rows.Scan(&row.ClusterID, &row.TaxaInadimplencia, &row.Segmentos); err != nil {
			return nil, fmt.Errorf("scan cluster rate row: %w", err)
		}
		resp.Dados = append(resp.Dados, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cluster rate rows: %w", err)
	}

	resp.Available = len(resp.Dados) > 0
	return resp, nil
}

// ProfileRow is one cluster profile: numeric centroid in original units
// plus the categorical mode of its members.
type ProfileRow struct {
	ClusterID                  int     `json:"cluster_id"`
	TotalCarteiraAtiva         float64 `json:"total_carteira_ativa_segmento"`
	TaxaInadimplenciaFinal     float64 `json:"taxa_inadimplencia_final_segmento"`
	PercAtivoProblematicoFinal float64 `json:"perc_ativo_problematico_final_segmento"`
	ContagemSubsegmentos       float64 `json:"contagem_subsegmentos"`
	UF                         string  `json:"uf"`
	Cliente                    string  `json:"cliente"`
	Modalidade                 string  `json:"modalidade"`
	Ocupacao                   string  `json:"ocupacao"`
	Porte                      string  `json:"porte"`
	CnaeSecao                  string  `json:"cnae_secao"`
	CnaeSubclasse              string  `json:"cnae_subclasse"`
}

// ProfilesResponse wraps cluster profiles with availability.
type ProfilesResponse struct {
	Available bool         `json:"available"`
	Dados     []ProfileRow `json:"dados,omitempty"`
}

// GetPerfis returns every cluster profile.
// GET /api/clusters/perfis
func (h *ClustersHandler) GetPerfis(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var resp ProfilesResponse
	err := h.cache.GetOrSet(ctx, redis.QueryKey("clusters_perfis", nil), &resp, redis.TTLDaily, func() (interface{}, error) {
		return h.queryProfiles(ctx)
	})
	if err != nil {
		h.logger.WithError(err).Error("Failed to load cluster profiles")
		respondError(w, http.StatusInternalServerError, "Failed to load cluster profiles")
		return
	}

	respondJSON(w, http.StatusOK, resp)
}

func (h *ClustersHandler) queryProfiles(ctx context.Context) (*ProfilesResponse, error) {
	rows, err := h.pool.Query(ctx, `
		SELECT cluster_id,
		       total_carteira_ativa_segmento, taxa_inadimplencia_final_segmento,
		       perc_ativo_problematico_final_segmento, contagem_subsegmentos,
		       uf, cliente, modalidade, ocupacao, porte, cnae_secao, cnae_subclasse
		FROM credtech.dim_cluster_profiles
		ORDER BY cluster_id`)
	if err != nil {
		return nil, fmt.Errorf("query cluster profiles: %w", err)
	}
	defer rows.Close()

	resp := &ProfilesResponse{}
	for rows.Next() {
		var row ProfileRow
		err := rows.Scan(&row.ClusterID,
			&row.TotalCarteiraAtiva, &row.TaxaInadimplenciaFinal,
			&row.PercAtivoProblematicoFinal, &row.ContagemSubsegmentos,
			&row.UF, &row.Cliente, &row.Modalidade, &row.Ocupacao,
			&row.Porte, &row.CnaeSecao, &row.CnaeSubclasse)
		if err != nil {
			return nil, fmt.Errorf("scan cluster profile: %w", err)
		}
		resp.Dados = append(resp.Dados, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cluster profiles: %w", err)
	}

	resp.Available = len(resp.Dados) > 0
	return resp, nil
}
