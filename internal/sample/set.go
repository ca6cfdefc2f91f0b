package sample

import (
	"math/rand"
	"sort"
)

// Set maintains one reservoir per key, created lazily the first time a key is
// seen. All reservoirs share one capacity, fixed for the lifetime of the set.
// It also tracks, per key, how many records could not contribute a value
// (for example a line with fewer fields than requested).
type Set struct {
	capacity   int
	rng        *rand.Rand
	reservoirs map[string]*Reservoir
	missing    map[string]int64
}

// NewSet creates an empty keyed reservoir set with the given per-key capacity.
func NewSet(capacity int, rng *rand.Rand) *Set {
	return &Set{
		capacity:   capacity,
		rng:        rng,
		reservoirs: make(map[string]*Reservoir),
		missing:    make(map[string]int64),
	}
}

// Offer routes a value to its key's reservoir, creating it on first sight.
func (s *Set) Offer(key, value string) {
	r, ok := s.reservoirs[key]
	if !ok {
		r = NewReservoir(s.capacity, s.rng)
		s.reservoirs[key] = r
	}
	r.Add(value)
}

// Miss records that a record carried no value for the key.
func (s *Set) Miss(key string) {
	s.missing[key]++
}

// Reservoir returns the key's reservoir, or nil if the key was never offered.
func (s *Set) Reservoir(key string) *Reservoir {
	return s.reservoirs[key]
}

// Missing returns the number of missed records for the key.
func (s *Set) Missing(key string) int64 {
	return s.missing[key]
}

// Keys returns all keys with a reservoir or a miss count, sorted.
func (s *Set) Keys() []string {
	keys := make([]string, 0, len(s.reservoirs))
	for k := range s.reservoirs {
		keys = append(keys, k)
	}
	for k := range s.missing {
		if _, ok := s.reservoirs[k]; !ok {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

// Freeze finalizes every reservoir in the set.
func (s *Set) Freeze() {
	for _, r := range s.reservoirs {
		r.Freeze()
	}
}

// MergeSets combines two sets built over disjoint partitions of the input.
// Keys present on both sides get their reservoirs merged; a key seen by only
// one side passes through with its count and slots untouched. Miss counts
// add. Neither input is mutated, but the result may share reservoirs with
// single-sided keys, so inputs should be discarded after merging.
func MergeSets(a, b *Set, rng *rand.Rand) *Set {
	out := NewSet(a.capacity, rng)

	for k, ra := range a.reservoirs {
		if rb, ok := b.reservoirs[k]; ok {
			out.reservoirs[k] = Merge(ra, rb, rng)
		} else {
			out.reservoirs[k] = ra
		}
	}
	for k, rb := range b.reservoirs {
		if _, ok := a.reservoirs[k]; !ok {
			out.reservoirs[k] = rb
		}
	}

	for k, n := range a.missing {
		out.missing[k] += n
	}
	for k, n := range b.missing {
		out.missing[k] += n
	}
	return out
}
