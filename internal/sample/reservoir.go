package sample

import (
	"fmt"
	"math"
	"math/rand"
)

// Reservoir maintains a fixed-capacity uniform random sample of the values
// offered to it, plus the total number of values observed. After any number
// of offers, each observed value is present with probability capacity/count.
type Reservoir struct {
	capacity int
	values   []string
	count    int64
	frozen   bool

	// Skip-ahead state (algorithm L), valid once the reservoir is full.
	// threshold tracks the running acceptance weight; skip is the number of
	// upcoming values to pass over before the next replacement candidate.
	threshold float64
	skip      int64

	rng *rand.Rand
}

// NewReservoir creates an empty reservoir with the given capacity, drawing
// randomness from rng. The generator must not be shared across goroutines.
func NewReservoir(capacity int, rng *rand.Rand) *Reservoir {
	if capacity <= 0 {
		panic(fmt.Sprintf("sample: reservoir capacity must be positive, got %d", capacity))
	}
	return &Reservoir{
		capacity:  capacity,
		values:    make([]string, 0, capacity),
		threshold: 1,
		rng:       rng,
	}
}

// Add offers a value to the reservoir. While fewer than capacity values have
// been seen, every value is kept. Afterwards values are admitted with
// probability capacity/count, evicting a uniformly chosen slot. Long runs of
// non-admitted values are skipped in O(1) per value: the distance to the next
// candidate is drawn up front (algorithm L), so no random draw happens for
// skipped values. The inclusion law is identical to drawing per value.
func (r *Reservoir) Add(value string) {
	if r.frozen {
		panic("sample: Add on finalized reservoir")
	}
	r.count++

	if len(r.values) < r.capacity {
		r.values = append(r.values, value)
		if len(r.values) == r.capacity {
			r.advance()
		}
		return
	}

	if r.skip > 0 {
		r.skip--
		return
	}
	r.values[r.rng.Intn(r.capacity)] = value
	r.advance()
}

// advance draws the next skip distance. Uses 1-Float64() so the uniform
// variate is in (0, 1] and the logarithms stay finite.
func (r *Reservoir) advance() {
	r.threshold *= math.Exp(math.Log(1-r.rng.Float64()) / float64(r.capacity))
	r.skip = int64(math.Floor(math.Log(1-r.rng.Float64()) / math.Log(1-r.threshold)))
}

// offer applies the classic one-draw-per-value replacement rule. Merging uses
// it instead of Add because it depends only on count, not on skip state.
func (r *Reservoir) offer(value string) {
	if r.frozen {
		panic("sample: offer on finalized reservoir")
	}
	r.count++
	if len(r.values) < r.capacity {
		r.values = append(r.values, value)
		return
	}
	if j := r.rng.Int63n(r.count); j < int64(r.capacity) {
		r.values[j] = value
	}
}

// Values returns a copy of the current sample.
func (r *Reservoir) Values() []string {
	out := make([]string, len(r.values))
	copy(out, r.values)
	return out
}

// Count returns the total number of values observed.
func (r *Reservoir) Count() int64 {
	return r.count
}

// Size returns the number of occupied slots, min(count, capacity).
func (r *Reservoir) Size() int {
	return len(r.values)
}

// Capacity returns the fixed slot capacity.
func (r *Reservoir) Capacity() int {
	return r.capacity
}

// Freeze marks the reservoir read-only. Further offers panic.
func (r *Reservoir) Freeze() {
	r.frozen = true
}

// clone copies slots and count into a fresh mutable reservoir owned by rng.
// Skip state is not carried over; clones are only fed through offer.
func (r *Reservoir) clone(rng *rand.Rand) *Reservoir {
	c := &Reservoir{
		capacity:  r.capacity,
		values:    make([]string, len(r.values), r.capacity),
		count:     r.count,
		threshold: 1,
		rng:       rng,
	}
	copy(c.values, r.values)
	return c
}

// Merge combines two reservoirs built over disjoint partitions of the same
// stream into one reservoir that is a valid uniform sample of the union,
// without mutating either input. The result observes countA+countB values and
// is returned finalized. Each input slot is replayed against the other side:
// a side still in exact mode (count <= capacity) contributes its slots as
// plain unit-weight offers, while a side in sampling mode contributes each
// slot as the representative of count/size raw values, admitted with
// probability capacity*weight/runningTotal. Merging reservoirs of different
// capacities is a contract violation and panics.
func Merge(a, b *Reservoir, rng *rand.Rand) *Reservoir {
	if a.capacity != b.capacity {
		panic(fmt.Sprintf("sample: merging reservoirs of different capacities (%d vs %d)", a.capacity, b.capacity))
	}

	var acc *Reservoir
	switch {
	case b.count <= int64(b.capacity):
		acc = a.clone(rng)
		for _, v := range b.values {
			acc.offer(v)
		}
	case a.count <= int64(a.capacity):
		acc = b.clone(rng)
		for _, v := range a.values {
			acc.offer(v)
		}
	default:
		// Both sides are summaries. Replay the lighter one into the heavier
		// so per-slot weights stay as small as possible.
		dst, src := a, b
		if a.count < b.count {
			dst, src = b, a
		}
		acc = dst.clone(rng)
		weight := float64(src.count) / float64(len(src.values))
		scaled := float64(acc.capacity) * weight
		total := float64(acc.count)
		for _, v := range src.values {
			total += weight
			if rng.Float64()*total < scaled {
				acc.values[rng.Intn(acc.capacity)] = v
			}
		}
		acc.count += src.count
	}

	acc.Freeze()
	return acc
}
