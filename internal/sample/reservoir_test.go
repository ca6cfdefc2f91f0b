package sample_test

import (
	"math/rand"
	"strconv"
	"testing"

	"github.com/clement/freqsample/internal/sample"
	"github.com/stretchr/testify/require"
)

func TestReservoirRejectsNonPositiveCapacity(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	require.Panics(t, func() { sample.NewReservoir(0, rng) })
	require.Panics(t, func() { sample.NewReservoir(-3, rng) })
}

func TestReservoirEmpty(t *testing.T) {
	r := sample.NewReservoir(15, rand.New(rand.NewSource(1)))
	require.Equal(t, int64(0), r.Count())
	require.Equal(t, 0, r.Size())
	require.Empty(t, r.Values())
}

func TestReservoirBelowCapacityKeepsEverything(t *testing.T) {
	r := sample.NewReservoir(10, rand.New(rand.NewSource(7)))
	for _, v := range []string{"a", "b", "c"} {
		r.Add(v)
	}
	require.Equal(t, int64(3), r.Count())
	require.ElementsMatch(t, []string{"a", "b", "c"}, r.Values())
}

func TestReservoirCountConservation(t *testing.T) {
	const k = 25
	r := sample.NewReservoir(k, rand.New(rand.NewSource(3)))
	for i := 0; i < 1000; i++ {
		r.Add(strconv.Itoa(i))
		want := i + 1
		if want > k {
			want = k
		}
		require.Equal(t, int64(i+1), r.Count())
		require.Equal(t, want, r.Size())
	}
}

func TestReservoirCapacityOne(t *testing.T) {
	// k=1 holds exactly one value, uniform over everything seen.
	const trials = 50000
	rng := rand.New(rand.NewSource(11))
	hits := make(map[string]int)
	for trial := 0; trial < trials; trial++ {
		r := sample.NewReservoir(1, rng)
		for _, v := range []string{"x", "y", "z", "w"} {
			r.Add(v)
		}
		require.Equal(t, 1, r.Size())
		hits[r.Values()[0]]++
	}
	for _, v := range []string{"x", "y", "z", "w"} {
		require.InDelta(t, 0.25, float64(hits[v])/trials, 0.02)
	}
}

// Offering A..E to a capacity-2 reservoir must leave each value present with
// probability 2/5 regardless of arrival position.
func TestReservoirInclusionProbability(t *testing.T) {
	const trials = 100000
	values := []string{"A", "B", "C", "D", "E"}

	rng := rand.New(rand.NewSource(42))
	hits := make(map[string]int)
	for trial := 0; trial < trials; trial++ {
		r := sample.NewReservoir(2, rng)
		for _, v := range values {
			r.Add(v)
		}
		require.Equal(t, 2, r.Size())
		require.Equal(t, int64(5), r.Count())
		for _, v := range r.Values() {
			hits[v]++
		}
	}

	for _, v := range values {
		require.InDelta(t, 0.4, float64(hits[v])/trials, 0.01)
	}
}

// A long stream through the skip-ahead path must still sample uniformly:
// the sample mean converges to the population mean.
func TestReservoirLongStreamUnbiased(t *testing.T) {
	const (
		population = 200000
		k          = 2000
	)
	r := sample.NewReservoir(k, rand.New(rand.NewSource(17167)))
	popSum := 0.0
	for i := 0; i < population; i++ {
		r.Add(strconv.Itoa(i))
		popSum += float64(i)
	}
	require.Equal(t, k, r.Size())
	require.Equal(t, int64(population), r.Count())

	sampleSum := 0.0
	for _, v := range r.Values() {
		f, err := strconv.ParseFloat(v, 64)
		require.NoError(t, err)
		sampleSum += f
	}
	require.InEpsilon(t, popSum/population, sampleSum/float64(k), 0.05)
}

func TestReservoirAddAfterFreezePanics(t *testing.T) {
	r := sample.NewReservoir(4, rand.New(rand.NewSource(5)))
	r.Add("a")
	r.Freeze()
	require.Panics(t, func() { r.Add("b") })
}
