package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/poxaedu/credtech/internal/api/handlers"
	"github.com/poxaedu/credtech/pkg/logger"
)

// NewRouter creates and configures the HTTP router
// ⭐ SSOT: o roteamento é definido somente nesta função
func NewRouter(segments *handlers.SegmentsHandler, clusters *handlers.ClustersHandler, temporal *handlers.TemporalHandler, log *logger.Logger) http.Handler {
	r := mux.NewRouter()

	// Health check
	r.HandleFunc("/health", healthCheckHandler).Methods("GET")

	// API v1
	api := r.PathPrefix("/api").Subrouter()

	// Segment analytics (ft_scr_agregado_mensal)
	api.HandleFunc("/kpi/resumo", segments.GetResumo).Methods("GET")
	api.HandleFunc("/visao-geral/uf", segments.GetVisaoGeralUF).Methods("GET")
	api.HandleFunc("/segmentos/{dimensao}", segments.GetPorSegmento).Methods("GET")
	api.HandleFunc("/top-riscos", segments.GetTopRiscos).Methods("GET")

	// Cluster analytics (ft_scr_segmentos_clusters + dim_cluster_profiles)
	api.HandleFunc("/clusters/inadimplencia", clusters.GetInadimplencia).Methods("GET")
	api.HandleFunc("/clusters/perfis", clusters.GetPerfis).Methods("GET")

	// Temporal trend joined with macro indicators
	api.HandleFunc("/tendencia", temporal.GetTendencia).Methods("GET")

	// Apply middleware
	r.Use(loggingMiddleware(log))
	r.Use(recoveryMiddleware(log))

	return r
}

// healthCheckHandler returns server health status
func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "ok",
		"service": "credtech-api",
	})
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			next.ServeHTTP(w, r)

			log.WithFields(map[string]interface{}{
				"method":   r.Method,
				"path":     r.URL.Path,
				"duration": time.Since(start),
			}).Debug("HTTP request")
		})
	}
}

// recoveryMiddleware recovers from panics
func recoveryMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.WithFields(map[string]interface{}{
						"error": err,
						"path":  r.URL.Path,
					}).Error("Panic recovered")

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					json.NewEncoder(w).Encode(map[string]string{
						"error": "Internal server error",
					})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
