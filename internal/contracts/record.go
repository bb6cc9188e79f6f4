package contracts

import (
	"math"
	"time"
)

// RawRecord is one SCR.data operation snapshot exactly as read from a monthly
// extract: every field is still a string (arquivos usam ';' e vírgula decimal).
type RawRecord struct {
	DataBase      string
	UF            string
	TCB           string
	SR            string
	Cliente       string
	Ocupacao      string
	CnaeSecao     string
	CnaeSubclasse string
	Porte         string
	Modalidade    string
	Origem        string
	Indexador     string

	NumeroDeOperacoes string

	AVencerAte90Dias             string
	AVencerDe91Ate360Dias        string
	AVencerDe361Ate1080Dias      string
	AVencerDe1081Ate1800Dias     string
	AVencerDe1801Ate5400Dias     string
	AVencerAcimaDe5400Dias       string
	VencidoAcimaDe15Dias         string
	CarteiraAtiva                string
	CarteiraInadimplidaArrastada string
	AtivoProblematico            string
}

// CleanedRecord is a RawRecord after type coercion, plus the two row-level
// risk ratios. Amount fields that failed to parse carry NaN (NULL na silver);
// the record itself is never dropped for a bad amount.
// Imutável após a limpeza: consumido apenas pelo agregador.
type CleanedRecord struct {
	DataBase      time.Time
	UF            string
	TCB           string
	SR            string
	Cliente       string
	Ocupacao      string
	CnaeSecao     string
	CnaeSubclasse string
	Porte         string
	Modalidade    string
	Origem        string
	Indexador     string

	NumeroDeOperacoes int32

	AVencerAte90Dias         float64
	AVencerDe91Ate360Dias    float64
	AVencerDe361Ate1080Dias  float64
	AVencerDe1081Ate1800Dias float64
	AVencerDe1801Ate5400Dias float64
	AVencerAcimaDe5400Dias   float64
	VencidoAcimaDe15Dias     float64
	CarteiraAtiva            float64
	CarteiraInadimplidaArrastada float64
	AtivoProblematico        float64

	// Métricas de risco por linha (diagnósticas, não são o KPI final)
	TaxaInadimplencia     float64
	PercAtivoProblematico float64
}

// ComputeRatios fills the two row-level ratios from the amount fields,
// guarding division by zero and NaN balances.
func (r *CleanedRecord) ComputeRatios() {
	r.TaxaInadimplencia = guardedRatio(nanToZero(r.VencidoAcimaDe15Dias)+nanToZero(r.CarteiraInadimplidaArrastada), r.CarteiraAtiva)
	r.PercAtivoProblematico = guardedRatio(nanToZero(r.AtivoProblematico), r.CarteiraAtiva)
}

// guardedRatio returns num/den when den is a positive finite number, else 0.
func guardedRatio(num, den float64) float64 {
	if math.IsNaN(den) || den <= 0 {
		return 0
	}
	ratio := num / den
	if math.IsNaN(ratio) || math.IsInf(ratio, 0) {
		return 0
	}
	return ratio
}

func nanToZero(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return v
}
