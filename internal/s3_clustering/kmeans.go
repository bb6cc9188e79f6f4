package s3_clustering

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
)

// KMeans is a seeded k-means++ implementation. Same seed and same input
// (ordem incluída) produzem sempre a mesma partição.
type KMeans struct {
	K       int
	MaxIter int
	NInit   int
	rng     *rand.Rand
}

// NewKMeans creates a KMeans with its own seeded random source.
func NewKMeans(k, maxIter, nInit int, seed int64) *KMeans {
	return &KMeans{
		K:       k,
		MaxIter: maxIter,
		NInit:   nInit,
		rng:     rand.New(rand.NewSource(seed)),
	}
}

// Fit clusters the points and returns per-point labels in [0,K) plus the
// final centroids. Runs NInit restarts and keeps the lowest-inertia result.
func (m *KMeans) Fit(points [][]float64) ([]int, [][]float64, error) {
	if len(points) < m.K {
		return nil, nil, fmt.Errorf("kmeans: %d points for k=%d", len(points), m.K)
	}

	bestInertia := math.Inf(1)
	var bestLabels []int
	var bestCentroids [][]float64

	for run := 0; run < m.NInit; run++ {
		labels, centroids, inertia := m.singleRun(points)
		if inertia < bestInertia {
			bestInertia = inertia
			bestLabels = labels
			bestCentroids = centroids
		}
	}
	return bestLabels, bestCentroids, nil
}

// singleRun does one k-means++ init followed by Lloyd iterations.
func (m *KMeans) singleRun(points [][]float64) ([]int, [][]float64, float64) {
	centroids := m.seedCentroids(points)
	labels := make([]int, len(points))
	dims := len(points[0])

	for iter := 0; iter < m.MaxIter; iter++ {
		changed := false
		for i, p := range points {
			best := nearestCentroid(p, centroids)
			if best != labels[i] {
				labels[i] = best
				changed = true
			}
		}

		// Recalcula centróides como média dos membros
		counts := make([]int, m.K)
		next := make([][]float64, m.K)
		for c := range next {
			next[c] = make([]float64, dims)
		}
		for i, p := range points {
			counts[labels[i]]++
			floats.Add(next[labels[i]], p)
		}
		for c := range next {
			if counts[c] == 0 {
				// Cluster vazio: rouba o ponto mais distante do seu centróide
				far := m.farthestPoint(points, labels, centroids)
				labels[far] = c
				copy(next[c], points[far])
				counts[c] = 1
				changed = true
				continue
			}
			floats.Scale(1/float64(counts[c]), next[c])
		}
		centroids = next

		if !changed && iter > 0 {
			break
		}
	}

	return labels, centroids, inertia(points, labels, centroids)
}

// seedCentroids picks initial centroids with the k-means++ scheme.
func (m *KMeans) seedCentroids(points [][]float64) [][]float64 {
	centroids := make([][]float64, 0, m.K)
	first := points[m.rng.Intn(len(points))]
	centroids = append(centroids, clonePoint(first))

	dist := make([]float64, len(points))
	for len(centroids) < m.K {
		total := 0.0
		for i, p := range points {
			d := floats.Distance(p, centroids[nearestCentroid(p, centroids)], 2)
			dist[i] = d * d
			total += dist[i]
		}

		if total == 0 {
			// Todos os pontos coincidem com algum centróide
			centroids = append(centroids, clonePoint(points[m.rng.Intn(len(points))]))
			continue
		}

		target := m.rng.Float64() * total
		cum := 0.0
		chosen := len(points) - 1
		for i, d := range dist {
			cum += d
			if cum >= target {
				chosen = i
				break
			}
		}
		centroids = append(centroids, clonePoint(points[chosen]))
	}
	return centroids
}

// farthestPoint finds the point farthest from its assigned centroid.
func (m *KMeans) farthestPoint(points [][]float64, labels []int, centroids [][]float64) int {
	worst, worstDist := 0, -1.0
	for i, p := range points {
		d := floats.Distance(p, centroids[labels[i]], 2)
		if d > worstDist {
			worst, worstDist = i, d
		}
	}
	return worst
}

// nearestCentroid returns the index of the closest centroid to p.
func nearestCentroid(p []float64, centroids [][]float64) int {
	best, bestDist := 0, math.Inf(1)
	for c, centroid := range centroids {
		if d := floats.Distance(p, centroid, 2); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

// inertia is the sum of squared distances from each point to its centroid.
func inertia(points [][]float64, labels []int, centroids [][]float64) float64 {
	total := 0.0
	for i, p := range points {
		d := floats.Distance(p, centroids[labels[i]], 2)
		total += d * d
	}
	return total
}

func clonePoint(p []float64) []float64 {
	out := make([]float64, len(p))
	copy(out, p)
	return out
}
