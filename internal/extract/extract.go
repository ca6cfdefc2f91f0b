package extract

import (
	"fmt"
	"strings"
)

// LineKey is the sampling key used when no field indexes are configured and
// whole lines are sampled.
const LineKey = "line"

// FieldKey returns the sampling key for a 0-based field index.
func FieldKey(index int) string {
	return fmt.Sprintf("field %d", index)
}

// Extractor turns raw input lines into (key, value) sampling records. With no
// field indexes configured, each line yields one record under LineKey.
// Otherwise each line yields one record per configured field, splitting on
// the separator (runs of Unicode whitespace when the separator is empty);
// a field index beyond the line's field count is reported as a miss.
type Extractor struct {
	fields    []int
	separator string
	keys      []string
}

// New creates an extractor for the given field indexes and separator.
func New(fields []int, separator string) *Extractor {
	e := &Extractor{
		fields:    fields,
		separator: separator,
	}
	if len(fields) == 0 {
		e.keys = []string{LineKey}
		return e
	}
	e.keys = make([]string, len(fields))
	for i, idx := range fields {
		e.keys[i] = FieldKey(idx)
	}
	return e
}

// Keys returns the sampling keys in configured order: LineKey alone, or one
// key per requested field.
func (e *Extractor) Keys() []string {
	keys := make([]string, len(e.keys))
	copy(keys, e.keys)
	return keys
}

// Line extracts records from one input line, invoking emit for each
// (key, value) pair and miss for each field the line does not have.
func (e *Extractor) Line(line string, emit func(key, value string), miss func(key string)) {
	if len(e.fields) == 0 {
		emit(LineKey, line)
		return
	}

	var parts []string
	if e.separator == "" {
		parts = strings.Fields(line)
	} else {
		parts = strings.Split(line, e.separator)
	}

	for i, idx := range e.fields {
		if idx >= len(parts) {
			miss(e.keys[i])
			continue
		}
		emit(e.keys[i], parts[idx])
	}
}
