package cost

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEstimateUSD(t *testing.T) {
	require.InDelta(t, 0.00015+0.0006, EstimateUSD("gpt-4o-mini", 1000, 1000), 1e-12)
	require.Zero(t, EstimateUSD("llama3", 5000, 5000))
	require.Zero(t, EstimateUSD("gpt-4o", 0, 0))
}

func TestEstimateUSD_DatedSnapshotUsesLongestBase(t *testing.T) {
	// must resolve to gpt-4o-mini, not gpt-4o
	require.Equal(t,
		EstimateUSD("gpt-4o-mini", 2000, 500),
		EstimateUSD("gpt-4o-mini-2024-07-18", 2000, 500),
	)
}
