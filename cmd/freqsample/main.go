package main

import (
	"fmt"
	"math/rand"
	"os"

	"github.com/clement/freqsample/internal/config"
	"github.com/clement/freqsample/internal/extract"
	"github.com/clement/freqsample/internal/pipeline"
	"github.com/clement/freqsample/internal/report"
	"github.com/clement/freqsample/internal/sample"
	"github.com/clement/freqsample/internal/sampler"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var (
	cfg = config.New()
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "freqsample",
		Short: "Estimate frequency distributions over line-delimited records",
		Long: `Freqsample draws a bounded uniform random sample of the records in a
line-delimited stream (whole lines, or selected fields of each line) and
reports the most frequent sampled values as an estimate of the true frequency
distribution, without ever holding more than the sample in memory.

Reading from stdin consumes the stream sequentially. Reading from a file
processes line-aligned chunks in parallel and merges the per-chunk samples.`,
		RunE:          run,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Flags
	rootCmd.Flags().IntVarP(&cfg.SampleSize, "num-samples", "n", cfg.SampleSize, "Reservoir sample size per key")
	rootCmd.Flags().IntVarP(&cfg.TopK, "num-results", "k", cfg.TopK, "Top values displayed per key")
	rootCmd.Flags().IntSliceVarP(&cfg.Fields, "field-index", "f", nil, "Field to sample, indexed from 0 (repeatable)")
	rootCmd.Flags().StringVarP(&cfg.Separator, "field-separator", "s", "", "Field separator (default: runs of whitespace)")
	rootCmd.Flags().StringVarP(&cfg.InputFile, "input-file", "i", "", "Input file (default: read stdin)")
	rootCmd.Flags().StringVarP(&cfg.OutputFormat, "output-format", "o", cfg.OutputFormat, "Output format: table, json or parquet")
	rootCmd.Flags().Int64VarP(&cfg.SplitSize, "split-size", "c", cfg.SplitSize, "Approximate chunk size in bytes for parallel file processing")
	rootCmd.Flags().IntVar(&cfg.Workers, "workers", cfg.Workers, "Number of parallel chunk workers")
	rootCmd.Flags().StringVar(&cfg.OutputFile, "output-file", cfg.OutputFile, "Destination path for parquet output")
	rootCmd.Flags().Int64Var(&cfg.Seed, "seed", 0, "Base random seed for reproducible sampling (0 = time-based)")

	if err := rootCmd.Execute(); err != nil {
		pterm.Error.Printfln("%v", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	ex := extract.New(cfg.Fields, cfg.Separator)

	var (
		set *sample.Set
		err error
	)
	if cfg.InputFile == "" {
		rng := rand.New(rand.NewSource(cfg.Seed))
		set, err = sampler.Run(os.Stdin, ex, cfg.SampleSize, rng)
	} else {
		set, err = pipeline.New(cfg, ex).Run()
	}
	if err != nil {
		return err
	}

	fields := report.Build(set, ex.Keys(), cfg.TopK)

	switch cfg.OutputFormat {
	case config.FormatJSON:
		return report.RenderJSON(os.Stdout, fields)
	case config.FormatParquet:
		if err := report.WriteParquet(fields, cfg.OutputFile); err != nil {
			return fmt.Errorf("write parquet: %w", err)
		}
		pterm.Success.Printfln("Wrote %s", cfg.OutputFile)
		return nil
	default:
		return report.RenderTable(os.Stdout, fields, len(cfg.Fields) > 0)
	}
}
