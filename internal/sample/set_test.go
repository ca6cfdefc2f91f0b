package sample_test

import (
	"math/rand"
	"testing"

	"github.com/clement/freqsample/internal/sample"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestSetLazyCreation(t *testing.T) {
	s := sample.NewSet(4, rand.New(rand.NewSource(1)))
	require.Nil(t, s.Reservoir("method"))

	s.Offer("method", "GET")
	r := s.Reservoir("method")
	require.NotNil(t, r)
	require.Equal(t, int64(1), r.Count())
	require.Equal(t, 4, r.Capacity())

	s.Offer("method", "POST")
	require.Equal(t, int64(2), s.Reservoir("method").Count())
}

func TestSetKeysSorted(t *testing.T) {
	s := sample.NewSet(2, rand.New(rand.NewSource(2)))
	s.Offer("field 2", "x")
	s.Offer("field 0", "y")
	s.Miss("field 5")

	if diff := cmp.Diff([]string{"field 0", "field 2", "field 5"}, s.Keys()); diff != "" {
		t.Fatalf("keys mismatch (-want +got):\n%s", diff)
	}
}

func TestSetMissCounts(t *testing.T) {
	s := sample.NewSet(2, rand.New(rand.NewSource(3)))
	require.Equal(t, int64(0), s.Missing("field 9"))
	s.Miss("field 9")
	s.Miss("field 9")
	require.Equal(t, int64(2), s.Missing("field 9"))
}

func TestSetFreeze(t *testing.T) {
	s := sample.NewSet(2, rand.New(rand.NewSource(4)))
	s.Offer("k", "v")
	s.Freeze()
	require.Panics(t, func() { s.Offer("k", "w") })
}

func TestMergeSets(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	a := sample.NewSet(10, rng)
	b := sample.NewSet(10, rng)

	for i := 0; i < 6; i++ {
		a.Offer("shared", "a")
		b.Offer("shared", "b")
	}
	a.Offer("only-a", "x")
	a.Miss("field 3")
	b.Miss("field 3")
	b.Miss("field 7")

	out := sample.MergeSets(a, b, rng)

	shared := out.Reservoir("shared")
	require.NotNil(t, shared)
	require.Equal(t, int64(12), shared.Count())
	require.Equal(t, 10, shared.Size())

	// A key seen by one side only passes through with count and slots untouched.
	only := out.Reservoir("only-a")
	require.NotNil(t, only)
	require.Equal(t, int64(1), only.Count())
	require.Equal(t, []string{"x"}, only.Values())

	require.Equal(t, int64(2), out.Missing("field 3"))
	require.Equal(t, int64(1), out.Missing("field 7"))
	require.Nil(t, out.Reservoir("absent"))
}
