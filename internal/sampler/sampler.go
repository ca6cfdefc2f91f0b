package sampler

import (
	"bufio"
	"fmt"
	"io"
	"math/rand"

	"github.com/clement/freqsample/internal/extract"
	"github.com/clement/freqsample/internal/sample"
)

// Maximum length of a single input line.
const maxLineBytes = 4 * 1024 * 1024

// Run reads line-delimited records from r until EOF, feeding each extracted
// (key, value) pair into a keyed reservoir set of the given capacity. The
// returned set is finalized. Used both for whole-stdin consumption and for
// one line-aligned chunk of a file (via an io.SectionReader).
func Run(r io.Reader, ex *extract.Extractor, capacity int, rng *rand.Rand) (*sample.Set, error) {
	set := sample.NewSet(capacity, rng)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)
	for scanner.Scan() {
		ex.Line(scanner.Text(), set.Offer, set.Miss)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	set.Freeze()
	return set, nil
}
