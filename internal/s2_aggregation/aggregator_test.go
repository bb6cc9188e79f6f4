package s2_aggregation

import (
	"io"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poxaedu/credtech/internal/contracts"
	"github.com/poxaedu/credtech/pkg/logger"
)

func testAggregator() *Aggregator {
	return NewAggregator(logger.NewWithWriter(io.Discard))
}

func baseRecord(carteira, vencido, arrastada, problematico float64) contracts.CleanedRecord {
	rec := contracts.CleanedRecord{
		DataBase:                     time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		UF:                           "SP",
		Cliente:                      "PF",
		Modalidade:                   "Cartão de crédito",
		Ocupacao:                     "Assalariado",
		CnaeSecao:                    "-",
		CnaeSubclasse:                "-",
		Porte:                        "PF - Sem porte",
		CarteiraAtiva:                carteira,
		VencidoAcimaDe15Dias:         vencido,
		CarteiraInadimplidaArrastada: arrastada,
		AtivoProblematico:            problematico,
	}
	rec.ComputeRatios()
	return rec
}

// Dois subsegmentos com carteiras muito diferentes: o KPI final vem das
// somas (ponderado), não da média das razões por linha.
func TestAggregate_KPIFromSumsNotMeanOfRatios(t *testing.T) {
	records := []contracts.CleanedRecord{
		baseRecord(1_000_000, 10_000, 0, 0), // taxa 1%
		baseRecord(1_000, 500, 0, 0),        // taxa 50%
	}

	segments := testAggregator().Aggregate(records)
	require.Len(t, segments, 1)
	seg := segments[0]

	// (10000 + 500) / 1001000
	assert.InDelta(t, 10500.0/1001000.0, seg.TaxaInadimplenciaFinal, 1e-12)
	// A média das razões seria ~25,5%, bem diferente do KPI ponderado
	assert.InDelta(t, (0.01+0.5)/2, seg.MediaTaxaInadimplenciaOriginal, 1e-12)
	assert.Greater(t, math.Abs(seg.MediaTaxaInadimplenciaOriginal-seg.TaxaInadimplenciaFinal), 0.2)

	assert.Equal(t, int64(2), seg.ContagemSubsegmentos)
	assert.Equal(t, int64(1), seg.ContagemClientesUnicos)
}

// Três subsegmentos do mesmo segmento, números redondos de ponta a ponta.
func TestAggregate_ThreeRowSegment(t *testing.T) {
	records := []contracts.CleanedRecord{
		baseRecord(100, 5, 0, 0),
		baseRecord(200, 0, 0, 0),
		baseRecord(300, 30, 0, 0),
	}

	segments := testAggregator().Aggregate(records)
	require.Len(t, segments, 1)
	seg := segments[0]

	assert.InDelta(t, 600.0, seg.TotalCarteiraAtiva, 1e-9)
	assert.InDelta(t, 35.0, seg.TotalVencido15D, 1e-9)
	assert.InDelta(t, 35.0/600.0, seg.TaxaInadimplenciaFinal, 1e-12)
	assert.InDelta(t, 0.0583, seg.TaxaInadimplenciaFinal, 1e-4)
	assert.Equal(t, int64(3), seg.ContagemSubsegmentos)
}

func TestAggregate_ZeroBalanceSegment(t *testing.T) {
	records := []contracts.CleanedRecord{
		baseRecord(0, 300, 100, 50),
	}

	segments := testAggregator().Aggregate(records)
	require.Len(t, segments, 1)

	assert.Zero(t, segments[0].TaxaInadimplenciaFinal)
	assert.Zero(t, segments[0].PercAtivoProblematicoFinal)
	assert.InDelta(t, 300.0, segments[0].TotalVencido15D, 1e-9)
}

func TestAggregate_ClampAboveOne(t *testing.T) {
	// Vencido maior que a carteira: razão bruta > 1, KPI limitado a 1
	records := []contracts.CleanedRecord{
		baseRecord(100, 150, 0, 250),
	}

	segments := testAggregator().Aggregate(records)
	require.Len(t, segments, 1)

	assert.InDelta(t, 1.0, segments[0].TaxaInadimplenciaFinal, 1e-12)
	assert.InDelta(t, 1.0, segments[0].PercAtivoProblematicoFinal, 1e-12)
}

func TestAggregate_NaNAmountsCountAsZero(t *testing.T) {
	withNaN := baseRecord(1000, 100, 0, 0)
	withNaN.AtivoProblematico = math.NaN()

	records := []contracts.CleanedRecord{
		withNaN,
		baseRecord(1000, 100, 0, 200),
	}

	segments := testAggregator().Aggregate(records)
	require.Len(t, segments, 1)
	seg := segments[0]

	assert.InDelta(t, 2000.0, seg.TotalCarteiraAtiva, 1e-9)
	assert.InDelta(t, 200.0, seg.TotalAtivoProblematico, 1e-9)
	assert.False(t, math.IsNaN(seg.PercAtivoProblematicoFinal))
}

func TestAggregate_GroupsByFullKey(t *testing.T) {
	rj := baseRecord(500, 50, 0, 0)
	rj.UF = "RJ"

	segments := testAggregator().Aggregate([]contracts.CleanedRecord{
		baseRecord(1000, 100, 0, 0),
		rj,
	})
	require.Len(t, segments, 2)

	// Ordenação determinística pela chave: RJ antes de SP
	assert.Equal(t, "RJ", segments[0].Key.UF)
	assert.Equal(t, "SP", segments[1].Key.UF)
}

func TestAggregate_DeterministicAcrossInputOrder(t *testing.T) {
	rj := baseRecord(500, 50, 0, 25)
	rj.UF = "RJ"
	mg := baseRecord(800, 20, 10, 40)
	mg.UF = "MG"

	forward := testAggregator().Aggregate([]contracts.CleanedRecord{
		baseRecord(1000, 100, 0, 0), rj, mg,
	})
	reversed := testAggregator().Aggregate([]contracts.CleanedRecord{
		mg, rj, baseRecord(1000, 100, 0, 0),
	})

	assert.Equal(t, forward, reversed)
}

func TestAggregate_Empty(t *testing.T) {
	segments := testAggregator().Aggregate(nil)
	assert.Empty(t, segments)
}
