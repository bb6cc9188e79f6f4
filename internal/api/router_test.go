package api

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/poxaedu/credtech/internal/api/handlers"
	"github.com/poxaedu/credtech/pkg/logger"
)

func testRouter() http.Handler {
	log := logger.NewWithWriter(io.Discard)
	return NewRouter(
		handlers.NewSegmentsHandler(nil, nil, log),
		handlers.NewClustersHandler(nil, nil, log),
		handlers.NewTemporalHandler(nil, nil, log),
		log,
	)
}

func TestHealthCheck(t *testing.T) {
	rec := httptest.NewRecorder()
	testRouter().ServeHTTP(rec, httptest.NewRequest("GET", "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status"`)
}

func TestGetPorSegmento_InvalidDimension(t *testing.T) {
	rec := httptest.NewRecorder()
	// Dimensão fora da lista fechada é rejeitada antes de tocar o banco
	testRouter().ServeHTTP(rec, httptest.NewRequest("GET", "/api/segmentos/senha", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid dimension")
}

func TestGetTopRiscos_InvalidLimit(t *testing.T) {
	rec := httptest.NewRecorder()
	testRouter().ServeHTTP(rec, httptest.NewRequest("GET", "/api/top-riscos?limit=0", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUnknownRoute(t *testing.T) {
	rec := httptest.NewRecorder()
	testRouter().ServeHTTP(rec, httptest.NewRequest("GET", "/api/nao-existe", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
