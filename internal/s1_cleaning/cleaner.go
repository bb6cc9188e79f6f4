package s1_cleaning

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"time"

	"github.com/poxaedu/credtech/internal/contracts"
	"github.com/poxaedu/credtech/pkg/logger"
)

// requiredColumns are the essential SCR.data columns, by header name.
// Um extrato sem qualquer uma delas é descartado como schema inválido.
var requiredColumns = []string{
	"data_base", "uf", "tcb", "sr", "cliente", "ocupacao", "cnae_secao",
	"cnae_subclasse", "porte", "modalidade", "origem", "indexador",
	"numero_de_operacoes",
	"a_vencer_ate_90_dias", "a_vencer_de_91_ate_360_dias",
	"a_vencer_de_361_ate_1080_dias", "a_vencer_de_1081_ate_1800_dias",
	"a_vencer_de_1801_ate_5400_dias", "a_vencer_acima_de_5400_dias",
	"vencido_acima_de_15_dias", "carteira_ativa",
	"carteira_inadimplida_arrastada", "ativo_problematico",
}

// Cleaner parses raw monthly SCR extracts into cleaned records (bronze -> silver)
// ⭐ SSOT: toda coerção de tipos do SCR.data acontece aqui
type Cleaner struct {
	logger *logger.Logger
}

// NewCleaner creates a new Cleaner instance
func NewCleaner(log *logger.Logger) *Cleaner {
	return &Cleaner{logger: log}
}

// CleanFile reads one raw extract (';' separated, ',' decimals) and returns
// the cleaned records plus a report of every lossy decision taken.
// Erros de arquivo inteiro (ausente, schema) são fatais para o mês, não
// para o lote: o chamador loga e segue para o próximo mês.
func (c *Cleaner) CleanFile(ctx context.Context, path string, month time.Time) ([]contracts.CleanedRecord, *contracts.CleaningReport, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open extract: %w", err)
	}
	defer f.Close()

	records, report, err := c.clean(ctx, f, month)
	if err != nil {
		return nil, nil, fmt.Errorf("clean %s: %w", path, err)
	}

	c.logger.WithFields(map[string]interface{}{
		"month":        month.Format("2006-01"),
		"rows_read":    report.RowsRead,
		"rows_cleaned": report.RowsCleaned,
		"null_amounts": report.TotalNullAmounts(),
		"sentinel_ops": report.SentinelOps,
	}).Info("Extract cleaned")

	if report.TotalNullAmounts() > 0 {
		// Campos nulos entram como NULL na silver e como 0 nas somas
		c.logger.WithFields(map[string]interface{}{
			"month":   month.Format("2006-01"),
			"columns": report.NullAmounts,
		}).Warn("Unparsable amount fields kept as null")
	}

	return records, report, nil
}

// clean does the actual parsing from any reader.
func (c *Cleaner) clean(ctx context.Context, r io.Reader, month time.Time) ([]contracts.CleanedRecord, *contracts.CleaningReport, error) {
	reader := csv.NewReader(r)
	reader.Comma = ';'
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("read header: %w", err)
	}

	cols, err := indexColumns(header)
	if err != nil {
		return nil, nil, err
	}

	report := contracts.NewCleaningReport(month)
	records := make([]contracts.CleanedRecord, 0, 1024)

	for {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}

		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("read row %d: %w", report.RowsRead+2, err)
		}
		report.RowsRead++

		rec := c.cleanRaw(rawRecord(row, cols), month, report)
		records = append(records, rec)
		report.RowsCleaned++
	}

	return records, report, nil
}

// rawRecord lifts one CSV row into the raw string record, by header name.
func rawRecord(row []string, cols map[string]int) contracts.RawRecord {
	get := func(name string) string { return row[cols[name]] }

	return contracts.RawRecord{
		DataBase:          get("data_base"),
		UF:                get("uf"),
		TCB:               get("tcb"),
		SR:                get("sr"),
		Cliente:           get("cliente"),
		Ocupacao:          get("ocupacao"),
		CnaeSecao:         get("cnae_secao"),
		CnaeSubclasse:     get("cnae_subclasse"),
		Porte:             get("porte"),
		Modalidade:        get("modalidade"),
		Origem:            get("origem"),
		Indexador:         get("indexador"),
		NumeroDeOperacoes: get("numero_de_operacoes"),

		AVencerAte90Dias:             get("a_vencer_ate_90_dias"),
		AVencerDe91Ate360Dias:        get("a_vencer_de_91_ate_360_dias"),
		AVencerDe361Ate1080Dias:      get("a_vencer_de_361_ate_1080_dias"),
		AVencerDe1081Ate1800Dias:     get("a_vencer_de_1081_ate_1800_dias"),
		AVencerDe1801Ate5400Dias:     get("a_vencer_de_1801_ate_5400_dias"),
		AVencerAcimaDe5400Dias:       get("a_vencer_acima_de_5400_dias"),
		VencidoAcimaDe15Dias:         get("vencido_acima_de_15_dias"),
		CarteiraAtiva:                get("carteira_ativa"),
		CarteiraInadimplidaArrastada: get("carteira_inadimplida_arrastada"),
		AtivoProblematico:            get("ativo_problematico"),
	}
}

// cleanRaw coerces one RawRecord into a CleanedRecord.
func (c *Cleaner) cleanRaw(raw contracts.RawRecord, month time.Time, report *contracts.CleaningReport) contracts.CleanedRecord {
	rec := contracts.CleanedRecord{
		UF:            strings.TrimSpace(raw.UF),
		TCB:           strings.TrimSpace(raw.TCB),
		SR:            strings.TrimSpace(raw.SR),
		Cliente:       strings.TrimSpace(raw.Cliente),
		Ocupacao:      strings.TrimSpace(raw.Ocupacao),
		CnaeSecao:     strings.TrimSpace(raw.CnaeSecao),
		CnaeSubclasse: strings.TrimSpace(raw.CnaeSubclasse),
		Porte:         strings.TrimSpace(raw.Porte),
		Modalidade:    strings.TrimSpace(raw.Modalidade),
		Origem:        strings.TrimSpace(raw.Origem),
		Indexador:     strings.TrimSpace(raw.Indexador),
	}

	// Data truncada para meia-noite. Inválida ou fora do mês de referência
	// cai no próprio mês: a substituição por mês só apaga a partição do
	// arquivo, então uma data de outro mês acumularia a cada reexecução.
	if date, ok := parseDate(raw.DataBase); ok && sameMonth(date, month) {
		rec.DataBase = date
	} else {
		report.InvalidDates++
		rec.DataBase = month
	}

	ops, sentinel, coerced := parseOperationCount(raw.NumeroDeOperacoes)
	rec.NumeroDeOperacoes = ops
	if sentinel {
		report.SentinelOps++
	}
	if coerced {
		report.CoercedOps++
	}

	amounts := []struct {
		column string
		value  string
		dest   *float64
	}{
		{"a_vencer_ate_90_dias", raw.AVencerAte90Dias, &rec.AVencerAte90Dias},
		{"a_vencer_de_91_ate_360_dias", raw.AVencerDe91Ate360Dias, &rec.AVencerDe91Ate360Dias},
		{"a_vencer_de_361_ate_1080_dias", raw.AVencerDe361Ate1080Dias, &rec.AVencerDe361Ate1080Dias},
		{"a_vencer_de_1081_ate_1800_dias", raw.AVencerDe1081Ate1800Dias, &rec.AVencerDe1081Ate1800Dias},
		{"a_vencer_de_1801_ate_5400_dias", raw.AVencerDe1801Ate5400Dias, &rec.AVencerDe1801Ate5400Dias},
		{"a_vencer_acima_de_5400_dias", raw.AVencerAcimaDe5400Dias, &rec.AVencerAcimaDe5400Dias},
		{"vencido_acima_de_15_dias", raw.VencidoAcimaDe15Dias, &rec.VencidoAcimaDe15Dias},
		{"carteira_ativa", raw.CarteiraAtiva, &rec.CarteiraAtiva},
		{"carteira_inadimplida_arrastada", raw.CarteiraInadimplidaArrastada, &rec.CarteiraInadimplidaArrastada},
		{"ativo_problematico", raw.AtivoProblematico, &rec.AtivoProblematico},
	}
	for _, a := range amounts {
		v := parseAmount(a.value)
		*a.dest = v
		if math.IsNaN(v) {
			report.NullAmounts[a.column]++
		}
	}

	rec.ComputeRatios()
	return rec
}

func sameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}

// indexColumns maps required column names to their position in the header.
func indexColumns(header []string) (map[string]int, error) {
	positions := make(map[string]int, len(header))
	for i, name := range header {
		positions[strings.TrimSpace(strings.ToLower(name))] = i
	}

	cols := make(map[string]int, len(requiredColumns))
	missing := make([]string, 0)
	for _, name := range requiredColumns {
		idx, ok := positions[name]
		if !ok {
			missing = append(missing, name)
			continue
		}
		cols[name] = idx
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("schema mismatch, missing columns: %s", strings.Join(missing, ", "))
	}
	return cols, nil
}
