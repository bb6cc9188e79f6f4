package s2_aggregation

import (
	"math"
	"sort"

	"github.com/poxaedu/credtech/internal/contracts"
	"github.com/poxaedu/credtech/pkg/logger"
)

// accumulator holds the running sums for one segment key.
type accumulator struct {
	carteiraAtiva        float64
	vencido15d           float64
	inadimplidaArrastada float64
	ativoProblematico    float64

	somaTaxaInadimplencia     float64
	somaPercAtivoProblematico float64

	clientes map[string]struct{}
	rows     int64
}

// Aggregator groups cleaned records into gold segments (silver -> gold)
// ⭐ SSOT: toda a agregação por segmento acontece aqui
type Aggregator struct {
	logger *logger.Logger
	kpi    contracts.KPIRecalculator
}

// NewAggregator creates a new Aggregator instance
func NewAggregator(log *logger.Logger) *Aggregator {
	return &Aggregator{logger: log, kpi: NewKPIRecalculator(log)}
}

// Aggregate groups records by the 8-field segment key, sums the amount
// columns and recalculates the final KPIs from the sums.
// Valores NaN contam como 0 na soma; a linha nunca é descartada.
// Output order is deterministic regardless of input order.
func (a *Aggregator) Aggregate(records []contracts.CleanedRecord) []contracts.Segment {
	groups := make(map[contracts.SegmentKey]*accumulator)

	for i := range records {
		rec := &records[i]
		key := contracts.KeyOf(rec)

		acc, ok := groups[key]
		if !ok {
			acc = &accumulator{clientes: make(map[string]struct{})}
			groups[key] = acc
		}

		acc.carteiraAtiva += nanToZero(rec.CarteiraAtiva)
		acc.vencido15d += nanToZero(rec.VencidoAcimaDe15Dias)
		acc.inadimplidaArrastada += nanToZero(rec.CarteiraInadimplidaArrastada)
		acc.ativoProblematico += nanToZero(rec.AtivoProblematico)

		acc.somaTaxaInadimplencia += rec.TaxaInadimplencia
		acc.somaPercAtivoProblematico += rec.PercAtivoProblematico

		acc.clientes[rec.Cliente] = struct{}{}
		acc.rows++
	}

	segments := make([]contracts.Segment, 0, len(groups))
	for key, acc := range groups {
		seg := contracts.Segment{
			Key:                       key,
			TotalCarteiraAtiva:        acc.carteiraAtiva,
			TotalVencido15D:           acc.vencido15d,
			TotalInadimplidaArrastada: acc.inadimplidaArrastada,
			TotalAtivoProblematico:    acc.ativoProblematico,

			MediaTaxaInadimplenciaOriginal:     acc.somaTaxaInadimplencia / float64(acc.rows),
			MediaPercAtivoProblematicoOriginal: acc.somaPercAtivoProblematico / float64(acc.rows),

			ContagemClientesUnicos: int64(len(acc.clientes)),
			ContagemSubsegmentos:   acc.rows,
		}
		a.kpi.Recalculate(&seg)
		segments = append(segments, seg)
	}

	sortSegments(segments)

	a.logger.WithFields(map[string]interface{}{
		"rows":     len(records),
		"segments": len(segments),
	}).Info("Aggregation complete")

	return segments
}

// sortSegments orders segments by the full key so output is reproducible.
func sortSegments(segments []contracts.Segment) {
	sort.Slice(segments, func(i, j int) bool {
		a, b := &segments[i].Key, &segments[j].Key
		if !a.DataBase.Equal(b.DataBase) {
			return a.DataBase.Before(b.DataBase)
		}
		if a.UF != b.UF {
			return a.UF < b.UF
		}
		if a.Cliente != b.Cliente {
			return a.Cliente < b.Cliente
		}
		if a.Modalidade != b.Modalidade {
			return a.Modalidade < b.Modalidade
		}
		if a.Ocupacao != b.Ocupacao {
			return a.Ocupacao < b.Ocupacao
		}
		if a.CnaeSecao != b.CnaeSecao {
			return a.CnaeSecao < b.CnaeSecao
		}
		if a.CnaeSubclasse != b.CnaeSubclasse {
			return a.CnaeSubclasse < b.CnaeSubclasse
		}
		return a.Porte < b.Porte
	})
}

func nanToZero(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return v
}
