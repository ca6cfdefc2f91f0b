package pipeline

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"os"
	"sync"

	"github.com/clement/freqsample/internal/config"
	"github.com/clement/freqsample/internal/extract"
	"github.com/clement/freqsample/internal/sample"
	"github.com/clement/freqsample/internal/sampler"
	"github.com/clement/freqsample/internal/splitter"
)

// Pipeline samples a seekable file by running one stream sampler per
// line-aligned chunk in parallel, then folding the per-chunk sample sets
// together pairwise. Chunk workers share no mutable state: each owns its
// chunk, its sample set and its random generator. Any chunk error aborts the
// whole run; a partial result would silently bias every reservoir's count.
type Pipeline struct {
	cfg *config.Config
	ex  *extract.Extractor
}

// New creates a pipeline for the configured input file.
func New(cfg *config.Config, ex *extract.Extractor) *Pipeline {
	return &Pipeline{cfg: cfg, ex: ex}
}

// Run processes the input file and returns the merged sample set.
func (p *Pipeline) Run() (*sample.Set, error) {
	f, err := os.Open(p.cfg.InputFile)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat input: %w", err)
	}
	size := info.Size()

	splits, err := splitter.Split(f, size, p.splitSize(size))
	if err != nil {
		return nil, fmt.Errorf("split input: %w", err)
	}

	// Degenerate case: one chunk needs no workers and no merge.
	if len(splits) == 1 {
		return sampler.Run(
			io.NewSectionReader(f, splits[0].Start, splits[0].Len()),
			p.ex, p.cfg.SampleSize, p.rand(0),
		)
	}

	sets, err := p.sampleChunks(f, splits)
	if err != nil {
		return nil, err
	}
	return p.reduce(sets), nil
}

// splitSize picks the chunk size: the configured size, shrunk so every worker
// gets at least one chunk on mid-sized files, but never below MinSplitSize so
// tiny files are not over-split.
func (p *Pipeline) splitSize(total int64) int64 {
	s := p.cfg.SplitSize
	if perWorker := total / int64(p.cfg.Workers); perWorker < s {
		s = perWorker
	}
	if s < config.MinSplitSize {
		s = config.MinSplitSize
	}
	return s
}

// sampleChunks runs one stream sampler per chunk on a bounded worker pool.
// It returns only after every worker has finished, so all chunk results are
// in place before any merging starts.
func (p *Pipeline) sampleChunks(f *os.File, splits []splitter.Range) ([]*sample.Set, error) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	jobs := make(chan int, len(splits))
	errs := make(chan error, len(splits))
	sets := make([]*sample.Set, len(splits))

	workers := p.cfg.Workers
	if workers > len(splits) {
		workers = len(splits)
	}

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				select {
				case <-ctx.Done():
					return
				default:
				}

				chunk := splits[i]
				set, err := sampler.Run(
					io.NewSectionReader(f, chunk.Start, chunk.Len()),
					p.ex, p.cfg.SampleSize, p.rand(int64(i)),
				)
				if err != nil {
					errs <- fmt.Errorf("chunk %d [%d,%d): %w", i, chunk.Start, chunk.End, err)
					cancel()
					return
				}
				sets[i] = set
			}
		}()
	}

	for i := range splits {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	select {
	case err := <-errs:
		return nil, err
	default:
	}
	return sets, nil
}

// reduce folds the per-chunk sets into one with a balanced pairwise merge
// tree. Merges within a level are independent and run concurrently; merge
// order does not affect the sampling law.
func (p *Pipeline) reduce(sets []*sample.Set) *sample.Set {
	level := int64(0)
	for len(sets) > 1 {
		level++
		next := make([]*sample.Set, (len(sets)+1)/2)

		var wg sync.WaitGroup
		for i := 0; i+1 < len(sets); i += 2 {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				rng := p.rand(level<<20 | int64(i))
				next[i/2] = sample.MergeSets(sets[i], sets[i+1], rng)
			}(i)
		}
		if len(sets)%2 == 1 {
			next[len(next)-1] = sets[len(sets)-1]
		}
		wg.Wait()

		sets = next
	}
	return sets[0]
}

// rand derives an independent generator for one chunk or merge step, so
// concurrent workers never share generator state.
func (p *Pipeline) rand(stream int64) *rand.Rand {
	return rand.New(rand.NewSource(p.cfg.Seed ^ (stream+1)*0x61c8864680b583eb))
}
