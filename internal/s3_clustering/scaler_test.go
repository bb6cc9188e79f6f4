package s3_clustering

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStandardScaler_FitTransform(t *testing.T) {
	rows := [][]float64{
		{1, 100},
		{2, 200},
		{3, 300},
	}

	scaler := &StandardScaler{}
	require.NoError(t, scaler.Fit(rows))
	scaled := scaler.Transform(rows)

	// Média zero por coluna
	for d := 0; d < 2; d++ {
		sum := 0.0
		for _, row := range scaled {
			sum += row[d]
		}
		assert.InDelta(t, 0, sum, 1e-12)
	}

	// Desvio populacional de {1,2,3} é sqrt(2/3)
	assert.InDelta(t, -1.22474487, scaled[0][0], 1e-6)
	assert.InDelta(t, 0, scaled[1][0], 1e-12)
	assert.InDelta(t, 1.22474487, scaled[2][0], 1e-6)
}

func TestStandardScaler_ConstantColumn(t *testing.T) {
	rows := [][]float64{
		{5, 1},
		{5, 2},
	}

	scaler := &StandardScaler{}
	require.NoError(t, scaler.Fit(rows))
	scaled := scaler.Transform(rows)

	// Coluna constante não divide por zero: vira 0
	assert.Zero(t, scaled[0][0])
	assert.Zero(t, scaled[1][0])
}

func TestStandardScaler_InverseTransformRoundTrip(t *testing.T) {
	rows := [][]float64{
		{10, 0.02, 5},
		{20, 0.15, 9},
		{30, 0.40, 2},
	}

	scaler := &StandardScaler{}
	require.NoError(t, scaler.Fit(rows))
	scaled := scaler.Transform(rows)

	for i, row := range rows {
		back := scaler.InverseTransform(scaled[i])
		for d := range row {
			assert.InDelta(t, row[d], back[d], 1e-9)
		}
	}
}

func TestStandardScaler_EmptyInput(t *testing.T) {
	scaler := &StandardScaler{}
	assert.Error(t, scaler.Fit(nil))
}
