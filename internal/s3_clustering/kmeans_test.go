package s3_clustering

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// wellSeparated are three obvious groups in 2D.
func wellSeparated() [][]float64 {
	return [][]float64{
		{0, 0}, {0.1, 0}, {0, 0.1},
		{10, 10}, {10.1, 10}, {10, 10.1},
		{-10, 10}, {-10.1, 10}, {-10, 10.1},
	}
}

func TestKMeans_SeparatesObviousGroups(t *testing.T) {
	points := wellSeparated()
	labels, centroids, err := NewKMeans(3, 300, 10, 42).Fit(points)
	require.NoError(t, err)
	require.Len(t, labels, len(points))
	require.Len(t, centroids, 3)

	// Cada grupo de 3 pontos deve cair no mesmo cluster
	for g := 0; g < 3; g++ {
		base := labels[g*3]
		assert.Equal(t, base, labels[g*3+1])
		assert.Equal(t, base, labels[g*3+2])
	}

	// E os três grupos em clusters distintos
	assert.NotEqual(t, labels[0], labels[3])
	assert.NotEqual(t, labels[0], labels[6])
	assert.NotEqual(t, labels[3], labels[6])
}

func TestKMeans_DeterministicForSameSeed(t *testing.T) {
	points := wellSeparated()

	first, _, err := NewKMeans(3, 300, 10, 42).Fit(points)
	require.NoError(t, err)
	second, _, err := NewKMeans(3, 300, 10, 42).Fit(points)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestKMeans_LabelsWithinRange(t *testing.T) {
	labels, _, err := NewKMeans(4, 300, 10, 42).Fit([][]float64{
		{1, 1}, {2, 2}, {3, 3}, {4, 4}, {5, 5}, {100, 100},
	})
	require.NoError(t, err)

	seen := make(map[int]bool)
	for _, l := range labels {
		assert.GreaterOrEqual(t, l, 0)
		assert.Less(t, l, 4)
		seen[l] = true
	}
	// Nenhum cluster termina vazio
	assert.Len(t, seen, 4)
}

func TestKMeans_FewerPointsThanK(t *testing.T) {
	_, _, err := NewKMeans(4, 300, 10, 42).Fit([][]float64{{1, 1}, {2, 2}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "k=4")
}

func TestKMeans_IdenticalPoints(t *testing.T) {
	points := [][]float64{{1, 1}, {1, 1}, {1, 1}, {1, 1}}
	labels, _, err := NewKMeans(2, 300, 3, 42).Fit(points)
	require.NoError(t, err)
	assert.Len(t, labels, 4)
}
