package jobs

import (
	"context"
	"fmt"

	"github.com/poxaedu/credtech/internal/contracts"
	"github.com/poxaedu/credtech/pkg/logger"
)

// ClusteringJob refreshes cluster assignments and profiles after the
// monthly ETL lands.
type ClusteringJob struct {
	stage  contracts.Clusterer
	logger *logger.Logger
}

// NewClusteringJob creates a new clustering job
func NewClusteringJob(stage contracts.Clusterer, log *logger.Logger) *ClusteringJob {
	return &ClusteringJob{stage: stage, logger: log}
}

// Name returns the job name
func (j *ClusteringJob) Name() string {
	return "segment_clustering"
}

// Schedule runs on the 6th of each month, the day after the ETL job.
func (j *ClusteringJob) Schedule() string {
	return "0 0 3 6 * *"
}

// Run executes the clustering stage
func (j *ClusteringJob) Run(ctx context.Context) error {
	result, err := j.stage.Run(ctx)
	if err != nil {
		return fmt.Errorf("scheduled clustering run: %w", err)
	}

	j.logger.WithFields(map[string]interface{}{
		"segments": len(result.Assignments),
		"dropped":  result.Dropped,
	}).Info("Scheduled clustering finished")
	return nil
}
