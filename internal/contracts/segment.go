package contracts

import "time"

// SegmentKey is the fixed 8-field grouping key of the gold layer.
// A ordem e o conjunto dos campos são contrato: mudam os nomes das colunas
// consumidas por todo SQL do dashboard.
// ⭐ SSOT: a chave de segmento é definida somente aqui
type SegmentKey struct {
	DataBase      time.Time
	UF            string
	Cliente       string
	Modalidade    string
	Ocupacao      string
	CnaeSecao     string
	CnaeSubclasse string
	Porte         string
}

// KeyOf extracts the segment key from a cleaned record.
func KeyOf(r *CleanedRecord) SegmentKey {
	return SegmentKey{
		DataBase:      r.DataBase,
		UF:            r.UF,
		Cliente:       r.Cliente,
		Modalidade:    r.Modalidade,
		Ocupacao:      r.Ocupacao,
		CnaeSecao:     r.CnaeSecao,
		CnaeSubclasse: r.CnaeSubclasse,
		Porte:         r.Porte,
	}
}

// Segment is one gold-layer row: the aggregation of all cleaned records
// sharing a SegmentKey for one reference month, plus the recalculated KPIs.
//
// Os campos Media* são as médias das taxas por linha, mantidos apenas como
// métrica histórica/diagnóstica. Os KPIs oficiais são os campos *Final,
// sempre recalculados a partir das somas (nunca média de razões).
type Segment struct {
	Key SegmentKey

	TotalCarteiraAtiva        float64
	TotalVencido15D           float64
	TotalInadimplidaArrastada float64
	TotalAtivoProblematico    float64

	MediaTaxaInadimplenciaOriginal     float64
	MediaPercAtivoProblematicoOriginal float64

	ContagemClientesUnicos int64
	ContagemSubsegmentos   int64

	// KPIs finais, em [0,1]
	TaxaInadimplenciaFinal     float64
	PercAtivoProblematicoFinal float64
}
