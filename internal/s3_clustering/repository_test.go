package s3_clustering

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poxaedu/credtech/internal/contracts"
)

func TestClusterColumnsFollowContract(t *testing.T) {
	require.Len(t, clusterColumns, 8+len(contracts.ClusterFeatures)+1)
	assert.Equal(t, contracts.ClusterFeatures, clusterColumns[8:8+len(contracts.ClusterFeatures)])
	assert.Equal(t, "cluster_id", clusterColumns[len(clusterColumns)-1])
}

func TestProfileColumnsFollowContract(t *testing.T) {
	require.Len(t, profileColumns, 1+len(contracts.ClusterFeatures)+len(contracts.ClusterCategoricals))
	assert.Equal(t, "cluster_id", profileColumns[0])
	assert.Equal(t, contracts.ClusterFeatures, profileColumns[1:1+len(contracts.ClusterFeatures)])
	assert.Equal(t, contracts.ClusterCategoricals, profileColumns[1+len(contracts.ClusterFeatures):])
}
