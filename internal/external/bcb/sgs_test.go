package bcb

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poxaedu/credtech/pkg/config"
	"github.com/poxaedu/credtech/pkg/logger"
)

func testClient(serverURL string) *Client {
	cfg := &config.Config{}
	cfg.BCB.SGSBaseURL = serverURL
	cfg.BCB.SCRPortalURL = serverURL
	cfg.BCB.RatePerSec = 100
	return NewClient(cfg, logger.NewWithWriter(io.Discard))
}

func TestFetchSeries(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "bcdata.sgs.432")
		assert.Equal(t, "json", r.URL.Query().Get("formato"))
		w.Write([]byte(`[
			{"data":"01/06/2024","valor":"10.50"},
			{"data":"01/05/2024","valor":"10,75"},
			{"data":"01/07/2024","valor":""}
		]`))
	}))
	defer server.Close()

	obs, err := testClient(server.URL).FetchSeries(context.Background(),
		Series{Code: 432, Column: "taxa_selic_meta"},
		time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 7, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	// Entrada vazia pulada, restantes ordenadas por data
	require.Len(t, obs, 2)
	assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), obs[0].Date)
	assert.InDelta(t, 10.75, obs[0].Value, 1e-9)
	assert.InDelta(t, 10.50, obs[1].Value, 1e-9)
}

func TestFetchSeries_BadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err := testClient(server.URL).FetchSeries(context.Background(),
		TrackedSeries[0], time.Now().AddDate(0, -1, 0), time.Now())
	require.Error(t, err)
}

func TestParseSGSValue(t *testing.T) {
	tests := []struct {
		input  string
		want   float64
		wantOK bool
	}{
		{"10.5", 10.5, true},
		{"10,5", 10.5, true},
		{"1.234,56", 1234.56, true},
		{"7", 7, true},
		{"", 0, false},
		{"n/d", 0, false},
	}

	for _, tt := range tests {
		got, ok := parseSGSValue(tt.input)
		assert.Equal(t, tt.wantOK, ok, "input %q", tt.input)
		if tt.wantOK {
			assert.InDelta(t, tt.want, got, 1e-9, "input %q", tt.input)
		}
	}
}

func TestFetchCatalog(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body>
			<a href="/docs/planilha_202406.csv">junho</a>
			<a href="/docs/planilha_202405.csv">maio</a>
			<a href="/docs/notas_metodologicas.pdf">notas</a>
			<a href="/docs/planilha_202406.csv">junho de novo</a>
		</body></html>`))
	}))
	defer server.Close()

	entries, err := testClient(server.URL).FetchCatalog(context.Background())
	require.NoError(t, err)

	require.Len(t, entries, 2)
	assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), entries[0].Month)
	assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), entries[1].Month)
	assert.Equal(t, "/docs/planilha_202405.csv", entries[0].URL)
}
