package s3_clustering

import (
	"context"
	"fmt"
	"math"

	"github.com/poxaedu/credtech/internal/contracts"
	"github.com/poxaedu/credtech/pkg/config"
	"github.com/poxaedu/credtech/pkg/logger"
)

// Stage runs the full clustering pass over the gold layer: load segments,
// standardize the numeric features, cluster, profile, persist.
// ⭐ SSOT: orquestração da clusterização acontece somente aqui
type Stage struct {
	reader contracts.SegmentReader
	writer *Repository
	cfg    config.ClusteringConfig
	logger *logger.Logger
}

// NewStage creates a new clustering Stage instance
func NewStage(reader contracts.SegmentReader, writer *Repository, cfg config.ClusteringConfig, log *logger.Logger) *Stage {
	return &Stage{reader: reader, writer: writer, cfg: cfg, logger: log}
}

// Run executes clustering over every gold segment and atomically replaces
// the assignment and profile tables.
// Falha rápida quando a gold está vazia ou tem menos segmentos que K.
func (s *Stage) Run(ctx context.Context) (*contracts.ClusterResult, error) {
	segments, err := s.reader.LoadSegments(ctx)
	if err != nil {
		return nil, fmt.Errorf("load segments for clustering: %w", err)
	}
	if len(segments) == 0 {
		return nil, fmt.Errorf("clustering: gold layer is empty")
	}

	result, err := s.Cluster(segments)
	if err != nil {
		return nil, err
	}

	if err := s.writer.ReplaceAll(ctx, result); err != nil {
		return nil, fmt.Errorf("persist clustering result: %w", err)
	}

	s.logger.WithFields(map[string]interface{}{
		"segments": len(result.Assignments),
		"dropped":  result.Dropped,
		"clusters": s.cfg.K,
	}).Info("Clustering complete")

	return result, nil
}

// Cluster runs the in-memory part of the stage over already-loaded segments.
func (s *Stage) Cluster(segments []contracts.Segment) (*contracts.ClusterResult, error) {
	kept, rows, dropped := featureMatrix(segments)
	if dropped > 0 {
		s.logger.WithFields(map[string]interface{}{
			"dropped": dropped,
		}).Warn("Segments with null features excluded from clustering")
	}
	if len(kept) < s.cfg.K {
		return nil, fmt.Errorf("clustering: %d usable segments for k=%d", len(kept), s.cfg.K)
	}

	scaler := &StandardScaler{}
	if err := scaler.Fit(rows); err != nil {
		return nil, err
	}
	scaled := scaler.Transform(rows)

	km := NewKMeans(s.cfg.K, s.cfg.MaxIter, s.cfg.NInit, s.cfg.Seed)
	labels, centroids, err := km.Fit(scaled)
	if err != nil {
		return nil, err
	}

	assignments := make([]contracts.ClusterAssignment, len(kept))
	for i, seg := range kept {
		assignments[i] = contracts.ClusterAssignment{Segment: seg, ClusterID: labels[i]}
	}

	return &contracts.ClusterResult{
		Assignments: assignments,
		Profiles:    buildProfiles(s.cfg.K, centroids, scaler, assignments),
		Dropped:     dropped,
	}, nil
}

// featureMatrix extracts the numeric feature rows, dropping segments with
// any null (NaN) feature. A ordem dos segmentos de entrada é preservada.
func featureMatrix(segments []contracts.Segment) ([]contracts.Segment, [][]float64, int) {
	kept := make([]contracts.Segment, 0, len(segments))
	rows := make([][]float64, 0, len(segments))
	dropped := 0

	for _, seg := range segments {
		row := []float64{
			seg.TotalCarteiraAtiva,
			seg.TaxaInadimplenciaFinal,
			seg.PercAtivoProblematicoFinal,
			float64(seg.ContagemSubsegmentos),
		}
		if hasNaN(row) {
			dropped++
			continue
		}
		kept = append(kept, seg)
		rows = append(rows, row)
	}
	return kept, rows, dropped
}

func hasNaN(row []float64) bool {
	for _, v := range row {
		if math.IsNaN(v) {
			return true
		}
	}
	return false
}
