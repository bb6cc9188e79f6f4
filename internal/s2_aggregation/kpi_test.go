package s2_aggregation

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/poxaedu/credtech/internal/contracts"
	"github.com/poxaedu/credtech/pkg/logger"
)

func TestRecalculate(t *testing.T) {
	tests := []struct {
		name         string
		carteira     float64
		vencido      float64
		arrastada    float64
		problematico float64
		wantTaxa     float64
		wantPerc     float64
	}{
		{"normal segment", 10000, 150, 50, 300, 0.02, 0.03},
		{"zero balance", 0, 100, 100, 100, 0, 0},
		{"negative balance", -500, 100, 0, 100, 0, 0},
		{"ratio above one clamps", 100, 200, 0, 300, 1, 1},
		{"fully delinquent", 1000, 600, 400, 1000, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seg := contracts.Segment{
				TotalCarteiraAtiva:        tt.carteira,
				TotalVencido15D:           tt.vencido,
				TotalInadimplidaArrastada: tt.arrastada,
				TotalAtivoProblematico:    tt.problematico,
			}
			NewKPIRecalculator(logger.NewWithWriter(io.Discard)).Recalculate(&seg)

			assert.InDelta(t, tt.wantTaxa, seg.TaxaInadimplenciaFinal, 1e-12)
			assert.InDelta(t, tt.wantPerc, seg.PercAtivoProblematicoFinal, 1e-12)
			assert.GreaterOrEqual(t, seg.TaxaInadimplenciaFinal, 0.0)
			assert.LessOrEqual(t, seg.TaxaInadimplenciaFinal, 1.0)
		})
	}
}

func TestRecalculate_ClampEmitsWarning(t *testing.T) {
	var buf bytes.Buffer
	seg := contracts.Segment{
		Key:                       contracts.SegmentKey{UF: "SP", Cliente: "PF"},
		TotalCarteiraAtiva:        100,
		TotalVencido15D:           200,
		TotalAtivoProblematico:    0,
		TotalInadimplidaArrastada: 0,
	}
	NewKPIRecalculator(logger.NewWithWriter(&buf)).Recalculate(&seg)

	assert.Equal(t, 1.0, seg.TaxaInadimplenciaFinal)
	assert.Contains(t, buf.String(), "KPI clamped")
	assert.Contains(t, buf.String(), "taxa_inadimplencia_final_segmento")
}

func TestRecalculate_NoWarningWithinBounds(t *testing.T) {
	var buf bytes.Buffer
	seg := contracts.Segment{
		TotalCarteiraAtiva:     10000,
		TotalVencido15D:        150,
		TotalAtivoProblematico: 300,
	}
	NewKPIRecalculator(logger.NewWithWriter(&buf)).Recalculate(&seg)

	assert.InDelta(t, 0.015, seg.TaxaInadimplenciaFinal, 1e-12)
	assert.Empty(t, buf.String())
}
