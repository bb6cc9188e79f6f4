package contracts

import "time"

// CleaningReport summarizes one month's bronze -> silver run. Every lossy
// decision (null amounts, coerced operation counts) is counted here so the
// pipeline can log it; nada é descartado silenciosamente.
type CleaningReport struct {
	Month        time.Time
	RowsRead     int
	RowsCleaned  int
	NullAmounts  map[string]int // column -> unparsable count
	CoercedOps   int            // numero_de_operacoes forçado para 0
	SentinelOps  int            // "<= 15" mapeado para 15
	InvalidDates int
}

// NewCleaningReport creates an empty report for a month.
func NewCleaningReport(month time.Time) *CleaningReport {
	return &CleaningReport{
		Month:       month,
		NullAmounts: make(map[string]int),
	}
}

// TotalNullAmounts returns the number of unparsable amount fields across
// all columns.
func (r *CleaningReport) TotalNullAmounts() int {
	total := 0
	for _, n := range r.NullAmounts {
		total += n
	}
	return total
}

// MonthResult records the outcome of one month inside a multi-month run.
type MonthResult struct {
	Month    time.Time     `json:"month"`
	Skipped  bool          `json:"skipped"`
	Error    string        `json:"error,omitempty"`
	Segments int           `json:"segments"`
	Rows     int           `json:"rows"`
	Duration time.Duration `json:"duration"`
}

// RunSummary aggregates the outcome of a multi-month pipeline run.
// Erros de entrada pulam o mês e nunca derrubam o lote inteiro.
type RunSummary struct {
	Months  []MonthResult `json:"months"`
	Started time.Time     `json:"started"`
}

// SkippedCount returns how many months were skipped.
func (s *RunSummary) SkippedCount() int {
	skipped := 0
	for _, m := range s.Months {
		if m.Skipped {
			skipped++
		}
	}
	return skipped
}
