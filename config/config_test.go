package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultMatchesSpec(t *testing.T) {
	d := Default()
	assert.Equal(t, 10, d.Compressor.SampleCount)
	assert.Equal(t, 64, d.Compressor.SampleSize)
	assert.Equal(t, 3, d.Compressor.MaxCascade)
	assert.Equal(t, 8, d.BitPacked.UnpackChunkThreshold)
	assert.Equal(t, 128, d.Patches.SparseVsMapThreshold)
	assert.Equal(t, 0.1, d.Filter.SelectivityQuantile)
	assert.Equal(t, 0.2, d.Flat.DensityThreshold)
}

func TestLoadOverridesPartially(t *testing.T) {
	cfg, err := Load([]byte(`
[compressor]
max_cascade = 5

[filter]
selectivity_quantile = 0.05
`))
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Compressor.MaxCascade)
	assert.Equal(t, 10, cfg.Compressor.SampleCount)
	assert.Equal(t, 0.05, cfg.Filter.SelectivityQuantile)
	assert.Equal(t, 0.2, cfg.Flat.DensityThreshold)
}

func TestLoadInvalidToml(t *testing.T) {
	_, err := Load([]byte("not = [valid"))
	require.Error(t, err)
}
