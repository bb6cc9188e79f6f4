package etl

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poxaedu/credtech/internal/contracts"
	"github.com/poxaedu/credtech/internal/s1_cleaning"
	"github.com/poxaedu/credtech/internal/s2_aggregation"
	"github.com/poxaedu/credtech/pkg/config"
	"github.com/poxaedu/credtech/pkg/logger"
)

const extractHeader = "data_base;uf;tcb;sr;cliente;ocupacao;cnae_secao;cnae_subclasse;porte;modalidade;origem;indexador;numero_de_operacoes;a_vencer_ate_90_dias;a_vencer_de_91_ate_360_dias;a_vencer_de_361_ate_1080_dias;a_vencer_de_1081_ate_1800_dias;a_vencer_de_1801_ate_5400_dias;a_vencer_acima_de_5400_dias;vencido_acima_de_15_dias;carteira_ativa;carteira_inadimplida_arrastada;ativo_problematico"

type memorySilver struct {
	months map[string][]contracts.CleanedRecord
}

func (m *memorySilver) ReplaceMonth(_ context.Context, month time.Time, records []contracts.CleanedRecord) error {
	if m.months == nil {
		m.months = make(map[string][]contracts.CleanedRecord)
	}
	m.months[month.Format("2006-01")] = records
	return nil
}

type memoryGold struct {
	months map[string][]contracts.Segment
}

func (m *memoryGold) ReplaceMonth(_ context.Context, month time.Time, segments []contracts.Segment) error {
	if m.months == nil {
		m.months = make(map[string][]contracts.Segment)
	}
	m.months[month.Format("2006-01")] = segments
	return nil
}

func writeExtract(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
}

func testRunner(t *testing.T, dir string) (*Runner, *memorySilver, *memoryGold) {
	t.Helper()
	log := logger.NewWithWriter(io.Discard)
	silver := &memorySilver{}
	gold := &memoryGold{}
	runner := NewRunner(
		s1_cleaning.NewCleaner(log),
		s2_aggregation.NewAggregator(log),
		silver, gold,
		config.PipelineConfig{RawSCRDir: dir},
		log,
	)
	return runner, silver, gold
}

func month(y int, m time.Month) time.Time {
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
}

func TestRun_ProcessesEachMonth(t *testing.T) {
	dir := t.TempDir()
	row := "2024-05-01;SP;Bancário;S;PF;Assalariado;-;-;PF - Sem porte;Cartão de crédito;Recursos livres;Pré-fixado;42;0,00;0,00;0,00;0,00;0,00;0,00;100,00;1.000,00;0,00;150,00"
	writeExtract(t, dir, "planilha_202405.csv", extractHeader+"\n"+row)
	writeExtract(t, dir, "planilha_202406.csv", extractHeader+"\n"+row)

	runner, silver, gold := testRunner(t, dir)
	summary, err := runner.Run(context.Background(), month(2024, 5), month(2024, 6))
	require.NoError(t, err)

	require.Len(t, summary.Months, 2)
	assert.Zero(t, summary.SkippedCount())
	assert.Len(t, silver.months["2024-05"], 1)
	assert.Len(t, gold.months["2024-06"], 1)
	assert.Equal(t, 1, summary.Months[0].Rows)
	assert.Equal(t, 1, summary.Months[0].Segments)
}

func TestRun_MissingExtractSkipsMonth(t *testing.T) {
	dir := t.TempDir()
	row := "2024-05-01;SP;Bancário;S;PF;Assalariado;-;-;PF - Sem porte;Cartão de crédito;Recursos livres;Pré-fixado;42;0,00;0,00;0,00;0,00;0,00;0,00;0,00;1.000,00;0,00;0,00"
	writeExtract(t, dir, "planilha_202405.csv", extractHeader+"\n"+row)
	// junho ausente
	writeExtract(t, dir, "planilha_202407.csv", extractHeader+"\n"+row)

	runner, _, gold := testRunner(t, dir)
	summary, err := runner.Run(context.Background(), month(2024, 5), month(2024, 7))
	require.NoError(t, err)

	require.Len(t, summary.Months, 3)
	assert.Equal(t, 1, summary.SkippedCount())
	assert.True(t, summary.Months[1].Skipped)
	assert.Contains(t, summary.Months[1].Error, "extract not found")

	// Os meses vizinhos foram processados normalmente
	assert.Contains(t, gold.months, "2024-05")
	assert.Contains(t, gold.months, "2024-07")
	assert.NotContains(t, gold.months, "2024-06")
}

func TestRun_BadSchemaSkipsMonth(t *testing.T) {
	dir := t.TempDir()
	writeExtract(t, dir, "planilha_202405.csv", "colunas;erradas\n1;2")

	runner, _, gold := testRunner(t, dir)
	summary, err := runner.Run(context.Background(), month(2024, 5), month(2024, 5))
	require.NoError(t, err)

	require.Len(t, summary.Months, 1)
	assert.True(t, summary.Months[0].Skipped)
	assert.Contains(t, summary.Months[0].Error, "schema mismatch")
	assert.Empty(t, gold.months)
}

func TestExtractPath(t *testing.T) {
	runner, _, _ := testRunner(t, "raw_data/scr")
	assert.Equal(t,
		filepath.Join("raw_data/scr", "planilha_202405.csv"),
		runner.ExtractPath(month(2024, 5)))
}
