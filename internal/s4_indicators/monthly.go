// Package s4_indicators consolidates the Banco Central SGS macro series
// into one monthly indicator table used by the temporal dashboards.
package s4_indicators

import (
	"sort"
	"time"

	"github.com/poxaedu/credtech/internal/external/bcb"
)

// Row is one month of consolidated indicators. Séries sem valor no mês
// ficam nulas até o forward fill; nulas no início do período permanecem.
type Row struct {
	Mes    time.Time
	Values map[string]*float64
}

// BuildMonthly consolidates per-series observations into monthly rows:
// last observation wins within a month, gaps are forward filled.
// A união dos meses de todas as séries define o eixo temporal.
func BuildMonthly(bySeries map[string][]bcb.Observation) []Row {
	monthly := make(map[time.Time]map[string]float64)
	for column, observations := range bySeries {
		for _, obs := range observations {
			month := truncateMonth(obs.Date)
			if monthly[month] == nil {
				monthly[month] = make(map[string]float64)
			}
			// Observações chegam ordenadas: a última do mês prevalece
			monthly[month][column] = obs.Value
		}
	}

	months := make([]time.Time, 0, len(monthly))
	for month := range monthly {
		months = append(months, month)
	}
	sort.Slice(months, func(i, j int) bool { return months[i].Before(months[j]) })

	rows := make([]Row, 0, len(months))
	last := make(map[string]float64)
	filled := make(map[string]bool)
	for _, month := range months {
		values := make(map[string]*float64, len(bySeries))
		for column := range bySeries {
			if v, ok := monthly[month][column]; ok {
				last[column] = v
				filled[column] = true
			}
			if filled[column] {
				v := last[column]
				values[column] = &v
			} else {
				values[column] = nil
			}
		}
		rows = append(rows, Row{Mes: month, Values: values})
	}
	return rows
}

func truncateMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
