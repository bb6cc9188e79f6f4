package s3_clustering

import (
	"github.com/poxaedu/credtech/internal/contracts"
)

// modeCounter tracks value frequencies preserving first-encountered order
// for tie-breaking.
type modeCounter struct {
	counts map[string]int
	order  []string
}

func newModeCounter() *modeCounter {
	return &modeCounter{counts: make(map[string]int)}
}

func (c *modeCounter) add(v string) {
	if _, seen := c.counts[v]; !seen {
		c.order = append(c.order, v)
	}
	c.counts[v]++
}

// mode returns the most frequent value. Empate resolve pela primeira
// ocorrência na entrada, mantendo o resultado determinístico.
func (c *modeCounter) mode() string {
	best, bestCount := "", -1
	for _, v := range c.order {
		if c.counts[v] > bestCount {
			best, bestCount = v, c.counts[v]
		}
	}
	return best
}

// buildProfiles computes one ClusterProfile per cluster: numeric centroids
// mapped back to original units plus the categorical mode of the members.
func buildProfiles(k int, centroids [][]float64, scaler *StandardScaler, assignments []contracts.ClusterAssignment) []contracts.ClusterProfile {
	type categoricals struct {
		uf, cliente, modalidade, ocupacao, porte, cnaeSecao, cnaeSubclasse *modeCounter
	}
	modes := make([]categoricals, k)
	for c := range modes {
		modes[c] = categoricals{
			uf: newModeCounter(), cliente: newModeCounter(),
			modalidade: newModeCounter(), ocupacao: newModeCounter(),
			porte: newModeCounter(), cnaeSecao: newModeCounter(),
			cnaeSubclasse: newModeCounter(),
		}
	}

	for _, a := range assignments {
		m := &modes[a.ClusterID]
		m.uf.add(a.Segment.Key.UF)
		m.cliente.add(a.Segment.Key.Cliente)
		m.modalidade.add(a.Segment.Key.Modalidade)
		m.ocupacao.add(a.Segment.Key.Ocupacao)
		m.porte.add(a.Segment.Key.Porte)
		m.cnaeSecao.add(a.Segment.Key.CnaeSecao)
		m.cnaeSubclasse.add(a.Segment.Key.CnaeSubclasse)
	}

	profiles := make([]contracts.ClusterProfile, k)
	for c := 0; c < k; c++ {
		original := scaler.InverseTransform(centroids[c])
		m := &modes[c]
		profiles[c] = contracts.ClusterProfile{
			ClusterID: c,

			TotalCarteiraAtiva:         original[0],
			TaxaInadimplenciaFinal:     original[1],
			PercAtivoProblematicoFinal: original[2],
			ContagemSubsegmentos:       original[3],

			UF:            m.uf.mode(),
			Cliente:       m.cliente.mode(),
			Modalidade:    m.modalidade.mode(),
			Ocupacao:      m.ocupacao.mode(),
			Porte:         m.porte.mode(),
			CnaeSecao:     m.cnaeSecao.mode(),
			CnaeSubclasse: m.cnaeSubclasse.mode(),
		}
	}
	return profiles
}
