package s2_aggregation

import (
	"github.com/poxaedu/credtech/internal/contracts"
	"github.com/poxaedu/credtech/pkg/logger"
)

// clampTolerance is how far a recalculated KPI may exceed [0,1] before the
// clamp is considered a data problem worth a warning.
const clampTolerance = 1e-9

// KPIRecalculator derives the final segment KPIs from the aggregated sums.
// Nunca média das razões por linha: os KPIs oficiais vêm sempre das somas.
// ⭐ SSOT: definição dos KPIs finais do segmento
type KPIRecalculator struct {
	logger *logger.Logger
}

// NewKPIRecalculator creates a new KPIRecalculator instance
func NewKPIRecalculator(log *logger.Logger) *KPIRecalculator {
	return &KPIRecalculator{logger: log}
}

// Recalculate fills TaxaInadimplenciaFinal and PercAtivoProblematicoFinal.
// Carteira zero ou negativa produz 0; o resultado é limitado a [0,1].
func (k *KPIRecalculator) Recalculate(seg *contracts.Segment) {
	if seg.TotalCarteiraAtiva > 0 {
		seg.TaxaInadimplenciaFinal = (seg.TotalVencido15D + seg.TotalInadimplidaArrastada) / seg.TotalCarteiraAtiva
		seg.PercAtivoProblematicoFinal = seg.TotalAtivoProblematico / seg.TotalCarteiraAtiva
	} else {
		seg.TaxaInadimplenciaFinal = 0
		seg.PercAtivoProblematicoFinal = 0
	}

	seg.TaxaInadimplenciaFinal = k.clamp(seg, "taxa_inadimplencia_final_segmento", seg.TaxaInadimplenciaFinal)
	seg.PercAtivoProblematicoFinal = k.clamp(seg, "perc_ativo_problematico_final_segmento", seg.PercAtivoProblematicoFinal)
}

// clamp limits v to [0,1], warning when the clamp actually moved the value.
func (k *KPIRecalculator) clamp(seg *contracts.Segment, kpi string, v float64) float64 {
	clamped := v
	if clamped < 0 {
		clamped = 0
	}
	if clamped > 1 {
		clamped = 1
	}

	if v-clamped > clampTolerance || clamped-v > clampTolerance {
		k.logger.WithFields(map[string]interface{}{
			"kpi":      kpi,
			"uf":       seg.Key.UF,
			"cliente":  seg.Key.Cliente,
			"original": v,
		}).Warn("KPI clamped to [0,1]")
	}
	return clamped
}
