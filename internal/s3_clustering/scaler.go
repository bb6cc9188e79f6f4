package s3_clustering

import (
	"fmt"

	"gonum.org/v1/gonum/stat"
)

// StandardScaler standardizes each feature column to zero mean and unit
// variance, and can map centroids back to original units.
// Desvio padrão populacional, não amostral: é o que o perfil dos clusters
// espera na transformação inversa.
type StandardScaler struct {
	means []float64
	stds  []float64
}

// Fit computes per-column mean and population standard deviation.
// Colunas constantes recebem desvio 1 para não dividir por zero.
func (s *StandardScaler) Fit(rows [][]float64) error {
	if len(rows) == 0 {
		return fmt.Errorf("fit scaler: no rows")
	}
	dims := len(rows[0])
	s.means = make([]float64, dims)
	s.stds = make([]float64, dims)

	col := make([]float64, len(rows))
	for d := 0; d < dims; d++ {
		for i, row := range rows {
			col[i] = row[d]
		}
		s.means[d] = stat.Mean(col, nil)
		s.stds[d] = stat.PopStdDev(col, nil)
		if s.stds[d] == 0 {
			s.stds[d] = 1
		}
	}
	return nil
}

// Transform returns standardized copies of the rows.
func (s *StandardScaler) Transform(rows [][]float64) [][]float64 {
	out := make([][]float64, len(rows))
	for i, row := range rows {
		scaled := make([]float64, len(row))
		for d, v := range row {
			scaled[d] = (v - s.means[d]) / s.stds[d]
		}
		out[i] = scaled
	}
	return out
}

// InverseTransform maps one standardized point back to original units.
func (s *StandardScaler) InverseTransform(point []float64) []float64 {
	out := make([]float64, len(point))
	for d, v := range point {
		out[d] = v*s.stds[d] + s.means[d]
	}
	return out
}
