package config

import (
	"fmt"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
)

const (
	// Default values
	DefaultSampleSize = 1000
	DefaultTopK       = 10
	DefaultSplitSize  = 32 * 1024 * 1024
	DefaultOutputFile = "freqsample.parquet"

	// Chunks smaller than this are not worth a worker dispatch.
	MinSplitSize = 64 * 1024

	// Output formats
	FormatTable   = "table"
	FormatJSON    = "json"
	FormatParquet = "parquet"
)

// Config holds all configuration for one sampling run.
type Config struct {
	SampleSize   int    // reservoir capacity per key
	TopK         int    // values displayed per key
	Fields       []int  // 0-based field indexes to sample; empty = whole lines
	Separator    string // literal field separator; empty = whitespace runs
	InputFile    string // input path; empty = stdin
	OutputFormat string
	OutputFile   string // destination for parquet output
	SplitSize    int64  // approximate chunk size for parallel file processing
	Workers      int    // parallelism hint
	Seed         int64  // base RNG seed; 0 = derive from current time
}

// New creates a Config with default values.
func New() *Config {
	return &Config{
		SampleSize:   DefaultSampleSize,
		TopK:         DefaultTopK,
		OutputFormat: FormatTable,
		OutputFile:   DefaultOutputFile,
		SplitSize:    DefaultSplitSize,
		Workers:      DefaultWorkers(),
	}
}

// Validate checks the configuration and sets derived values.
func (c *Config) Validate() error {
	if c.SampleSize <= 0 {
		return fmt.Errorf("num-samples must be positive, got %d", c.SampleSize)
	}
	if c.TopK <= 0 {
		return fmt.Errorf("num-results must be positive, got %d", c.TopK)
	}
	if c.TopK > c.SampleSize {
		return fmt.Errorf("num-results (%d) must be <= num-samples (%d)", c.TopK, c.SampleSize)
	}
	for _, idx := range c.Fields {
		if idx < 0 {
			return fmt.Errorf("field index must be >= 0, got %d", idx)
		}
	}
	if c.SplitSize <= 0 {
		return fmt.Errorf("split-size must be positive, got %d", c.SplitSize)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("workers must be positive, got %d", c.Workers)
	}

	switch c.OutputFormat {
	case FormatTable, FormatJSON, FormatParquet:
	default:
		return fmt.Errorf("unknown output format %q (expected %s, %s or %s)",
			c.OutputFormat, FormatTable, FormatJSON, FormatParquet)
	}
	if c.OutputFormat == FormatParquet && c.OutputFile == "" {
		return fmt.Errorf("output-file must be set for parquet output")
	}

	if c.Seed == 0 {
		c.Seed = time.Now().UnixNano()
	}
	return nil
}

// DefaultWorkers returns the logical CPU count, falling back to
// runtime.NumCPU when the system query fails.
func DefaultWorkers() int {
	n, err := cpu.Counts(true)
	if err != nil || n < 1 {
		return runtime.NumCPU()
	}
	return n
}

// String returns a human-readable representation of the config.
func (c *Config) String() string {
	input := c.InputFile
	if input == "" {
		input = "stdin"
	}
	return fmt.Sprintf(
		"Input: %s, Samples: %d, Results: %d, Fields: %v, Workers: %d, SplitSize: %d",
		input, c.SampleSize, c.TopK, c.Fields, c.Workers, c.SplitSize,
	)
}
