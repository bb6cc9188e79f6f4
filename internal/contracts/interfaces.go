package contracts

import (
	"context"
	"time"
)

// RowCleaner parses one raw monthly extract into cleaned records (bronze -> silver)
// ⭐ SSOT: interface da etapa de limpeza
type RowCleaner interface {
	CleanFile(ctx context.Context, path string, month time.Time) ([]CleanedRecord, *CleaningReport, error)
}

// SegmentAggregator groups cleaned records into gold segments (silver -> gold)
// ⭐ SSOT: interface da etapa de agregação
type SegmentAggregator interface {
	Aggregate(records []CleanedRecord) []Segment
}

// KPIRecalculator derives the final segment KPIs from the aggregated sums
type KPIRecalculator interface {
	Recalculate(seg *Segment)
}

// Clusterer runs the full clustering stage over gold segments
type Clusterer interface {
	Run(ctx context.Context) (*ClusterResult, error)
}

// SegmentWriter persists gold segments, replacing one month atomically.
// Reexecutar o mesmo mês substitui, nunca acumula.
type SegmentWriter interface {
	ReplaceMonth(ctx context.Context, month time.Time, segments []Segment) error
}

// SegmentReader loads gold segments back for downstream stages.
type SegmentReader interface {
	LoadSegments(ctx context.Context) ([]Segment, error)
}
