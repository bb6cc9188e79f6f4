package bcb

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Series identifies one SGS time series and the indicator column it feeds.
type Series struct {
	Code   int
	Column string
}

// TrackedSeries are the macro indicators consumed by the dashboards.
// Códigos do SGS do Banco Central; a coluna é o nome na tabela gold.
var TrackedSeries = []Series{
	{Code: 432, Column: "taxa_selic_meta"},
	{Code: 13522, Column: "ipca_inflacao"},
	{Code: 21082, Column: "inadimplencia_pf"},
	{Code: 19882, Column: "endividamento_familias"},
	{Code: 24369, Column: "taxa_desemprego"},
}

// Observation is one dated value of an SGS series.
type Observation struct {
	Date  time.Time
	Value float64
}

// sgsEntry mirrors the SGS JSON payload: [{"data":"01/05/2024","valor":"10.5"}]
type sgsEntry struct {
	Data  string `json:"data"`
	Valor string `json:"valor"`
}

// FetchSeries downloads one SGS series for the given period, sorted by date.
// Entradas com valor vazio ou não numérico são puladas, não zeradas.
func (c *Client) FetchSeries(ctx context.Context, series Series, start, end time.Time) ([]Observation, error) {
	url := fmt.Sprintf("%s/bcdata.sgs.%d/dados?formato=json&dataInicial=%s&dataFinal=%s",
		strings.TrimRight(c.cfg.SGSBaseURL, "/"), series.Code,
		start.Format("02/01/2006"), end.Format("02/01/2006"))

	body, err := c.fetch(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetch sgs %d: %w", series.Code, err)
	}

	var entries []sgsEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("decode sgs %d: %w", series.Code, err)
	}

	observations := make([]Observation, 0, len(entries))
	skipped := 0
	for _, e := range entries {
		date, err := time.Parse("02/01/2006", strings.TrimSpace(e.Data))
		if err != nil {
			skipped++
			continue
		}
		value, ok := parseSGSValue(e.Valor)
		if !ok {
			skipped++
			continue
		}
		observations = append(observations, Observation{Date: date, Value: value})
	}

	sort.Slice(observations, func(i, j int) bool {
		return observations[i].Date.Before(observations[j].Date)
	})

	if skipped > 0 {
		c.logger.WithFields(map[string]interface{}{
			"series":  series.Code,
			"skipped": skipped,
		}).Warn("SGS entries skipped for bad date or value")
	}
	return observations, nil
}

// parseSGSValue accepts both dot and comma decimal notation.
func parseSGSValue(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
