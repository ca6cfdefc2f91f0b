package report

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/clement/freqsample/internal/sample"
	"github.com/pterm/pterm"
)

// Value is one sampled value with its in-sample frequency.
type Value struct {
	Value     string  `json:"value"`
	Frequency float64 `json:"frequency"`
}

// Field is the ranked result for one sampling key: the top values by
// in-sample frequency, the total number of records observed, and how many
// records were missing the field.
type Field struct {
	Key     string  `json:"key"`
	Count   int64   `json:"count"`
	Missing int64   `json:"missing,omitempty"`
	Values  []Value `json:"values"`
}

// Build ranks each key's sample by value frequency and crops to the topK most
// frequent values. Keys are reported in the given order; a key that never
// received a value still appears, with an empty value list.
func Build(set *sample.Set, keys []string, topK int) []Field {
	fields := make([]Field, 0, len(keys))
	for _, key := range keys {
		field := Field{Key: key, Missing: set.Missing(key)}
		if r := set.Reservoir(key); r != nil {
			field.Count = r.Count()
			field.Values = topValues(r.Values(), topK)
		}
		fields = append(fields, field)
	}
	return fields
}

// topValues computes the frequency of each distinct value within the sample
// and returns the topK values, most frequent first, ties broken by value.
func topValues(values []string, topK int) []Value {
	if len(values) == 0 {
		return nil
	}

	counts := make(map[string]int)
	for _, v := range values {
		counts[v]++
	}

	ranked := make([]Value, 0, len(counts))
	total := float64(len(values))
	for v, c := range counts {
		ranked = append(ranked, Value{Value: v, Frequency: float64(c) / total})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Frequency != ranked[j].Frequency {
			return ranked[i].Frequency > ranked[j].Frequency
		}
		return ranked[i].Value < ranked[j].Value
	})

	if topK < len(ranked) {
		ranked = ranked[:topK]
	}
	return ranked
}

// RenderTable writes the results as a table with one (frequency, value)
// column pair per key. The header row naming each key is included only when
// requested (it is noise when sampling whole lines under a single key). A
// footer row reports missing-field counts when any are non-zero.
func RenderTable(w io.Writer, fields []Field, withHeader bool) error {
	var data pterm.TableData

	if withHeader {
		header := make([]string, 0, 2*len(fields))
		for _, f := range fields {
			header = append(header, f.Key, "")
		}
		data = append(data, header)
	}

	rows := 0
	for _, f := range fields {
		if len(f.Values) > rows {
			rows = len(f.Values)
		}
	}
	for i := 0; i < rows; i++ {
		row := make([]string, 0, 2*len(fields))
		for _, f := range fields {
			if i < len(f.Values) {
				row = append(row, fmt.Sprintf("%.5f", f.Values[i].Frequency), f.Values[i].Value)
			} else {
				row = append(row, "", "")
			}
		}
		data = append(data, row)
	}

	anyMissing := false
	for _, f := range fields {
		if f.Missing > 0 {
			anyMissing = true
			break
		}
	}
	if anyMissing {
		footer := make([]string, 0, 2*len(fields))
		for _, f := range fields {
			if f.Missing > 0 {
				footer = append(footer, fmt.Sprintf("%d", f.Missing), "<no value>")
			} else {
				footer = append(footer, "", "")
			}
		}
		data = append(data, make([]string, 2*len(fields)), footer)
	}

	// Nothing sampled and nothing missing: render nothing.
	if len(data) == 0 {
		return nil
	}
	return pterm.DefaultTable.
		WithHasHeader(withHeader).
		WithWriter(w).
		WithData(data).
		Render()
}

// jsonOut is the top-level JSON document.
type jsonOut struct {
	Fields []Field `json:"fields"`
}

// RenderJSON writes the results as pretty-printed JSON.
func RenderJSON(w io.Writer, fields []Field) error {
	out, err := json.MarshalIndent(jsonOut{Fields: fields}, "", "  ")
	if err != nil {
		return err
	}
	if _, err := w.Write(out); err != nil {
		return err
	}
	_, err = w.Write([]byte("\n"))
	return err
}
