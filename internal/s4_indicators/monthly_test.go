package s4_indicators

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poxaedu/credtech/internal/external/bcb"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func month(y int, m time.Month) time.Time {
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
}

func TestBuildMonthly_LastObservationWins(t *testing.T) {
	rows := BuildMonthly(map[string][]bcb.Observation{
		"taxa_selic_meta": {
			{Date: day(2024, 5, 8), Value: 10.75},
			{Date: day(2024, 5, 31), Value: 10.50},
		},
	})

	require.Len(t, rows, 1)
	assert.Equal(t, month(2024, 5), rows[0].Mes)
	require.NotNil(t, rows[0].Values["taxa_selic_meta"])
	assert.InDelta(t, 10.50, *rows[0].Values["taxa_selic_meta"], 1e-9)
}

func TestBuildMonthly_ForwardFill(t *testing.T) {
	rows := BuildMonthly(map[string][]bcb.Observation{
		"taxa_selic_meta": {
			{Date: day(2024, 5, 1), Value: 10.5},
			// junho sem observação
			{Date: day(2024, 7, 1), Value: 10.0},
		},
		"ipca_inflacao": {
			{Date: day(2024, 5, 10), Value: 3.9},
			{Date: day(2024, 6, 10), Value: 4.2},
			{Date: day(2024, 7, 10), Value: 4.5},
		},
	})

	require.Len(t, rows, 3)

	// Maio e julho observados; junho herda o valor de maio
	assert.InDelta(t, 10.5, *rows[0].Values["taxa_selic_meta"], 1e-9)
	assert.InDelta(t, 10.5, *rows[1].Values["taxa_selic_meta"], 1e-9)
	assert.InDelta(t, 10.0, *rows[2].Values["taxa_selic_meta"], 1e-9)
	assert.InDelta(t, 4.2, *rows[1].Values["ipca_inflacao"], 1e-9)
}

func TestBuildMonthly_LeadingGapStaysNull(t *testing.T) {
	rows := BuildMonthly(map[string][]bcb.Observation{
		"taxa_selic_meta": {
			{Date: day(2024, 5, 1), Value: 10.5},
			{Date: day(2024, 6, 1), Value: 10.5},
		},
		"taxa_desemprego": {
			// Só começa em junho: maio permanece nulo
			{Date: day(2024, 6, 15), Value: 7.1},
		},
	})

	require.Len(t, rows, 2)
	assert.Nil(t, rows[0].Values["taxa_desemprego"])
	require.NotNil(t, rows[1].Values["taxa_desemprego"])
	assert.InDelta(t, 7.1, *rows[1].Values["taxa_desemprego"], 1e-9)
}

func TestBuildMonthly_Empty(t *testing.T) {
	assert.Empty(t, BuildMonthly(nil))
	assert.Empty(t, BuildMonthly(map[string][]bcb.Observation{"taxa_selic_meta": nil}))
}

func TestBuildMonthly_MonthAxisIsUnionOfSeries(t *testing.T) {
	rows := BuildMonthly(map[string][]bcb.Observation{
		"taxa_selic_meta": {{Date: day(2024, 5, 1), Value: 10.5}},
		"ipca_inflacao":   {{Date: day(2024, 8, 10), Value: 4.0}},
	})

	require.Len(t, rows, 2)
	assert.Equal(t, month(2024, 5), rows[0].Mes)
	assert.Equal(t, month(2024, 8), rows[1].Mes)
	// Selic em agosto herda maio via forward fill
	require.NotNil(t, rows[1].Values["taxa_selic_meta"])
	assert.InDelta(t, 10.5, *rows[1].Values["taxa_selic_meta"], 1e-9)
}
