package contracts

// ClusterFeatures is the frozen list of numeric features used by k-means,
// in column order. Alterar esta lista invalida a comparabilidade entre
// execuções: trate como contrato, não como configuração.
var ClusterFeatures = []string{
	"total_carteira_ativa_segmento",
	"taxa_inadimplencia_final_segmento",
	"perc_ativo_problematico_final_segmento",
	"contagem_subsegmentos",
}

// ClusterCategoricals is the frozen list of categorical fields profiled
// per cluster (moda por cluster).
var ClusterCategoricals = []string{
	"uf",
	"cliente",
	"modalidade",
	"ocupacao",
	"porte",
	"cnae_secao",
	"cnae_subclasse",
}

// ClusterAssignment binds one segment to a cluster id in [0, K).
// Reescrito por inteiro a cada execução, nunca incrementalmente.
type ClusterAssignment struct {
	Segment   Segment
	ClusterID int
}

// ClusterProfile describes one cluster: the centroid of each numeric feature
// back in original (unstandardized) units, and the most frequent value of
// each categorical field among member segments.
type ClusterProfile struct {
	ClusterID int

	// Numeric centroid, same order as ClusterFeatures
	TotalCarteiraAtiva         float64
	TaxaInadimplenciaFinal     float64
	PercAtivoProblematicoFinal float64
	ContagemSubsegmentos       float64

	// Categorical modes, same order as ClusterCategoricals
	UF            string
	Cliente       string
	Modalidade    string
	Ocupacao      string
	Porte         string
	CnaeSecao     string
	CnaeSubclasse string
}

// ClusterResult is the full output of one clustering run. Assignments and
// profiles are only comparable when produced together: misturar execuções
// diferentes é inválido porque a padronização depende do conjunto de entrada.
type ClusterResult struct {
	Assignments []ClusterAssignment
	Profiles    []ClusterProfile
	Dropped     int // segments removed for null features
}
