package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/poxaedu/credtech/internal/s4_indicators"
	"github.com/poxaedu/credtech/pkg/logger"
)

// IndicatorsJob rebuilds the monthly macro indicator table from the SGS API.
type IndicatorsJob struct {
	stage  *s4_indicators.Stage
	logger *logger.Logger
}

// NewIndicatorsJob creates a new indicators job
func NewIndicatorsJob(stage *s4_indicators.Stage, log *logger.Logger) *IndicatorsJob {
	return &IndicatorsJob{stage: stage, logger: log}
}

// Name returns the job name
func (j *IndicatorsJob) Name() string {
	return "sgs_indicators"
}

// Schedule runs weekly: as séries SGS atualizam em dias diferentes do mês.
func (j *IndicatorsJob) Schedule() string {
	return "0 0 4 * * 1"
}

// Run rebuilds the last two years of indicators.
func (j *IndicatorsJob) Run(ctx context.Context) error {
	end := time.Now()
	start := end.AddDate(-2, 0, 0)

	if err := j.stage.Run(ctx, start, end); err != nil {
		return fmt.Errorf("scheduled indicators run: %w", err)
	}
	return nil
}
