package config_test

import (
	"testing"

	"github.com/clement/freqsample/internal/config"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := config.New()
	require.Equal(t, config.DefaultSampleSize, cfg.SampleSize)
	require.Equal(t, config.DefaultTopK, cfg.TopK)
	require.Equal(t, int64(config.DefaultSplitSize), cfg.SplitSize)
	require.Equal(t, config.FormatTable, cfg.OutputFormat)
	require.Positive(t, cfg.Workers)
}

func TestValidateAcceptsDefaults(t *testing.T) {
	cfg := config.New()
	require.NoError(t, cfg.Validate())
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"zero sample size", func(c *config.Config) { c.SampleSize = 0 }},
		{"negative sample size", func(c *config.Config) { c.SampleSize = -1 }},
		{"zero top-k", func(c *config.Config) { c.TopK = 0 }},
		{"top-k above sample size", func(c *config.Config) { c.SampleSize = 5; c.TopK = 6 }},
		{"negative field index", func(c *config.Config) { c.Fields = []int{0, -2} }},
		{"zero split size", func(c *config.Config) { c.SplitSize = 0 }},
		{"zero workers", func(c *config.Config) { c.Workers = 0 }},
		{"unknown format", func(c *config.Config) { c.OutputFormat = "xml" }},
		{"parquet without path", func(c *config.Config) { c.OutputFormat = config.FormatParquet; c.OutputFile = "" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.New()
			tc.mutate(cfg)
			require.Error(t, cfg.Validate())
		})
	}
}

func TestValidateDerivesSeed(t *testing.T) {
	cfg := config.New()
	require.NoError(t, cfg.Validate())
	require.NotZero(t, cfg.Seed)

	cfg = config.New()
	cfg.Seed = 99
	require.NoError(t, cfg.Validate())
	require.Equal(t, int64(99), cfg.Seed)
}
