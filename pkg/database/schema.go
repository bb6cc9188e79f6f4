package database

import (
	"context"
	"fmt"
)

// Migrate creates the warehouse schema and tables if they do not exist.
// Os nomes das colunas da gold são contrato público dos dashboards: não renomear.
func (db *DB) Migrate(ctx context.Context) error {
	for i, stmt := range schemaStatements {
		if _, err := db.Pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema statement %d: %w", i, err)
		}
	}
	return nil
}

var schemaStatements = []string{
	`CREATE SCHEMA IF NOT EXISTS credtech`,

	// Camada silver: operações limpas, substituídas por mês
	`CREATE TABLE IF NOT EXISTS credtech.silver_scr_operacoes (
		data_base                    DATE NOT NULL,
		uf                           VARCHAR(2) NOT NULL,
		tcb                          VARCHAR(64) NOT NULL,
		sr                           VARCHAR(64) NOT NULL,
		cliente                      VARCHAR(8) NOT NULL,
		ocupacao                     VARCHAR(128) NOT NULL,
		cnae_secao                   VARCHAR(128) NOT NULL,
		cnae_subclasse               VARCHAR(255) NOT NULL,
		porte                        VARCHAR(64) NOT NULL,
		modalidade                   VARCHAR(128) NOT NULL,
		origem                       VARCHAR(64) NOT NULL,
		indexador                    VARCHAR(64) NOT NULL,
		numero_de_operacoes          INTEGER NOT NULL,
		a_vencer_ate_90_dias         DOUBLE PRECISION,
		a_vencer_de_91_ate_360_dias  DOUBLE PRECISION,
		a_vencer_de_361_ate_1080_dias  DOUBLE PRECISION,
		a_vencer_de_1081_ate_1800_dias DOUBLE PRECISION,
		a_vencer_de_1801_ate_5400_dias DOUBLE PRECISION,
		a_vencer_acima_de_5400_dias  DOUBLE PRECISION,
		vencido_acima_de_15_dias     DOUBLE PRECISION,
		carteira_ativa               DOUBLE PRECISION,
		carteira_inadimplida_arrastada DOUBLE PRECISION,
		ativo_problematico           DOUBLE PRECISION,
		taxa_inadimplencia_segmento  DOUBLE PRECISION NOT NULL,
		perc_ativo_problematico      DOUBLE PRECISION NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_silver_scr_data_base
		ON credtech.silver_scr_operacoes (data_base)`,

	// Camada gold: um registro por segmento por mês
	`CREATE TABLE IF NOT EXISTS credtech.ft_scr_agregado_mensal (
		data_base                              DATE NOT NULL,
		uf                                     VARCHAR(2) NOT NULL,
		cliente                                VARCHAR(8) NOT NULL,
		modalidade                             VARCHAR(128) NOT NULL,
		ocupacao                               VARCHAR(128) NOT NULL,
		cnae_secao                             VARCHAR(128) NOT NULL,
		cnae_subclasse                         VARCHAR(255) NOT NULL,
		porte                                  VARCHAR(64) NOT NULL,
		total_carteira_ativa_segmento          DOUBLE PRECISION NOT NULL,
		total_vencido_15d_segmento             DOUBLE PRECISION NOT NULL,
		total_inadimplida_arrastada_segmento   DOUBLE PRECISION NOT NULL,
		total_ativo_problematico_segmento      DOUBLE PRECISION NOT NULL,
		media_taxa_inadimplencia_original      DOUBLE PRECISION NOT NULL,
		media_perc_ativo_problematico_original DOUBLE PRECISION NOT NULL,
		contagem_clientes_unicos_segmento      BIGINT NOT NULL,
		contagem_subsegmentos                  BIGINT NOT NULL,
		taxa_inadimplencia_final_segmento      DECIMAL(10,8) NOT NULL,
		perc_ativo_problematico_final_segmento DECIMAL(10,8) NOT NULL,
		PRIMARY KEY (data_base, uf, cliente, modalidade, ocupacao, cnae_secao, cnae_subclasse, porte)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_ft_scr_agregado_uf
		ON credtech.ft_scr_agregado_mensal (uf, data_base)`,

	// Resultado da clusterização: chave do segmento + cluster_id
	`CREATE TABLE IF NOT EXISTS credtech.ft_scr_segmentos_clusters (
		data_base                              DATE NOT NULL,
		uf                                     VARCHAR(2) NOT NULL,
		cliente                                VARCHAR(8) NOT NULL,
		modalidade                             VARCHAR(128) NOT NULL,
		ocupacao                               VARCHAR(128) NOT NULL,
		cnae_secao                             VARCHAR(128) NOT NULL,
		cnae_subclasse                         VARCHAR(255) NOT NULL,
		porte                                  VARCHAR(64) NOT NULL,
		total_carteira_ativa_segmento          DOUBLE PRECISION NOT NULL,
		taxa_inadimplencia_final_segmento      DECIMAL(10,8) NOT NULL,
		perc_ativo_problematico_final_segmento DECIMAL(10,8) NOT NULL,
		contagem_subsegmentos                  BIGINT NOT NULL,
		cluster_id                             INTEGER NOT NULL,
		PRIMARY KEY (data_base, uf, cliente, modalidade, ocupacao, cnae_secao, cnae_subclasse, porte)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_ft_scr_clusters_id
		ON credtech.ft_scr_segmentos_clusters (cluster_id)`,

	// Perfis dos clusters: centróides em unidades originais + moda das categóricas
	`CREATE TABLE IF NOT EXISTS credtech.dim_cluster_profiles (
		cluster_id                             INTEGER PRIMARY KEY,
		total_carteira_ativa_segmento          DOUBLE PRECISION NOT NULL,
		taxa_inadimplencia_final_segmento      DOUBLE PRECISION NOT NULL,
		perc_ativo_problematico_final_segmento DOUBLE PRECISION NOT NULL,
		contagem_subsegmentos                  DOUBLE PRECISION NOT NULL,
		uf                                     VARCHAR(2) NOT NULL,
		cliente                                VARCHAR(8) NOT NULL,
		modalidade                             VARCHAR(128) NOT NULL,
		ocupacao                               VARCHAR(128) NOT NULL,
		porte                                  VARCHAR(64) NOT NULL,
		cnae_secao                             VARCHAR(128) NOT NULL,
		cnae_subclasse                         VARCHAR(255) NOT NULL
	)`,

	// Indicadores macroeconômicos mensais (séries SGS)
	`CREATE TABLE IF NOT EXISTS credtech.ft_indicadores_economicos_mensal (
		mes                     DATE PRIMARY KEY,
		taxa_selic_meta         DOUBLE PRECISION,
		ipca_inflacao           DOUBLE PRECISION,
		inadimplencia_pf        DOUBLE PRECISION,
		endividamento_familias  DOUBLE PRECISION,
		taxa_desemprego         DOUBLE PRECISION
	)`,
}
