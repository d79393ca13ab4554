package rng

import (
	"testing"
)

func TestDeterministicSequence(t *testing.T) {
	t.Parallel()

	a := New(42)
	b := New(42)
	for i := 0; i < 100; i++ {
		av, bv := a.Float64(), b.Float64()
		if av != bv {
			t.Fatalf("sequences diverged at step %d: %v != %v", i, av, bv)
		}
	}
}

func TestOutputRange(t *testing.T) {
	t.Parallel()

	r := New(7)
	for i := 0; i < 1000; i++ {
		v := r.Float64()
		if v < 0 || v >= 1 {
			t.Fatalf("value %v out of [0,1) at step %d", v, i)
		}
	}
}

func TestZeroSeedCoercedToOne(t *testing.T) {
	t.Parallel()

	zero := New(0)
	one := New(1)
	for i := 0; i < 10; i++ {
		if zero.Float64() != one.Float64() {
			t.Fatal("seed 0 should behave as seed 1")
		}
	}
}

func TestSmallSeedsDiffer(t *testing.T) {
	t.Parallel()

	if New(1).Float64() == New(2).Float64() {
		t.Fatal("seeds 1 and 2 should produce different first outputs")
	}
}

func TestShuffleIsPermutation(t *testing.T) {
	t.Parallel()

	src := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	out := New(99).Shuffle(src)

	if len(out) != len(src) {
		t.Fatalf("expected %d elements, got %d", len(src), len(out))
	}
	seen := make(map[int]bool)
	for _, v := range out {
		if seen[v] {
			t.Fatalf("duplicate value %d in shuffle output", v)
		}
		seen[v] = true
	}
	for _, v := range src {
		if !seen[v] {
			t.Fatalf("value %d missing from shuffle output", v)
		}
	}
}

func TestShuffleDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	src := []int{1, 2, 3, 4, 5}
	New(3).Shuffle(src)
	for i, v := range src {
		if v != i+1 {
			t.Fatalf("input mutated at index %d: %d", i, v)
		}
	}
}

func TestSampleUnique(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name            string
		min, max, count int
	}{
		{"b column", 1, 15, 5},
		{"n column", 31, 45, 4},
		{"o column", 61, 75, 5},
		{"full range", 1, 10, 10},
		{"single", 5, 5, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := New(11).SampleUnique(tt.min, tt.max, tt.count)
			if len(s) != tt.count {
				t.Fatalf("expected %d values, got %d", tt.count, len(s))
			}
			seen := make(map[int]bool)
			for i, v := range s {
				if v < tt.min || v > tt.max {
					t.Errorf("value %d outside [%d,%d]", v, tt.min, tt.max)
				}
				if seen[v] {
					t.Errorf("duplicate value %d", v)
				}
				seen[v] = true
				if i > 0 && s[i-1] >= v {
					t.Errorf("values not ascending: %v", s)
				}
			}
		})
	}
}
