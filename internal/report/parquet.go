package report

import (
	"os"

	"github.com/parquet-go/parquet-go"
)

// ResultRow represents a single row in the output parquet file: one ranked
// value for one sampling key.
type ResultRow struct {
	Key            string  `parquet:"key"`
	Value          string  `parquet:"value"`
	Frequency      float64 `parquet:"frequency"`
	EstimatedCount float64 `parquet:"estimated_count"`
}

// WriteParquet writes the ranked results to a parquet file, one row per
// (key, value). EstimatedCount scales the in-sample frequency by the key's
// total observed record count.
func WriteParquet(fields []Field, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := parquet.NewGenericWriter[ResultRow](file)

	const batchSize = 1000
	rows := make([]ResultRow, 0, batchSize)

	flush := func() error {
		if len(rows) == 0 {
			return nil
		}
		if _, err := writer.Write(rows); err != nil {
			return err
		}
		rows = rows[:0]
		return nil
	}

	for _, f := range fields {
		for _, v := range f.Values {
			rows = append(rows, ResultRow{
				Key:            f.Key,
				Value:          v.Value,
				Frequency:      v.Frequency,
				EstimatedCount: v.Frequency * float64(f.Count),
			})
			if len(rows) >= batchSize {
				if err := flush(); err != nil {
					return err
				}
			}
		}
	}
	if err := flush(); err != nil {
		return err
	}

	return writer.Close()
}
