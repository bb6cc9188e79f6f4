// Package jobs contains the scheduled pipeline jobs.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/poxaedu/credtech/internal/etl"
	"github.com/poxaedu/credtech/pkg/logger"
)

// ETLJob reprocesses the recent months of SCR.data extracts.
// ⭐ SSOT: o agendamento do ETL mensal está somente neste Job
type ETLJob struct {
	runner *etl.Runner
	logger *logger.Logger
}

// NewETLJob creates a new ETL job
func NewETLJob(runner *etl.Runner, log *logger.Logger) *ETLJob {
	return &ETLJob{runner: runner, logger: log}
}

// Name returns the job name
func (j *ETLJob) Name() string {
	return "scr_monthly_etl"
}

// Schedule runs on the 5th of each month, after the BCB usually publishes.
func (j *ETLJob) Schedule() string {
	return "0 0 3 5 * *"
}

// Run reprocesses the last three months. Extratos ainda não publicados são
// pulados pelo runner; meses republicados são substituídos.
func (j *ETLJob) Run(ctx context.Context) error {
	end := time.Now().AddDate(0, -1, 0)
	start := end.AddDate(0, -2, 0)

	summary, err := j.runner.Run(ctx, start, end)
	if err != nil {
		return fmt.Errorf("scheduled etl run: %w", err)
	}

	j.logger.WithFields(map[string]interface{}{
		"months":  len(summary.Months),
		"skipped": summary.SkippedCount(),
	}).Info("Scheduled ETL finished")
	return nil
}
