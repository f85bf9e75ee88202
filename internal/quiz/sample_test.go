package quiz

import (
	"math/rand"
	"testing"
)

func bankOf(n int) []Question {
	qs := make([]Question, n)
	for i := range qs {
		qs[i] = Question{ID: string(rune('a' + i))}
	}
	return qs
}

func TestSampleSize(t *testing.T) {
	qs := bankOf(10)
	for _, k := range []int{0, 1, 5, 10, 25} {
		got := Sample(qs, k, rand.New(rand.NewSource(1)))
		want := k
		if want > len(qs) {
			want = len(qs)
		}
		if len(got) != want {
			t.Errorf("Sample(k=%d) returned %d questions, want %d", k, len(got), want)
		}
	}
}

func TestSampleDistinct(t *testing.T) {
	qs := bankOf(20)
	got := Sample(qs, 20, rand.New(rand.NewSource(7)))
	seen := map[string]bool{}
	for _, q := range got {
		if seen[q.ID] {
			t.Fatalf("duplicate question %q in sample", q.ID)
		}
		seen[q.ID] = true
	}
}

func TestSampleDeterministicPerSeed(t *testing.T) {
	qs := bankOf(15)
	a := Sample(qs, 10, rand.New(rand.NewSource(42)))
	b := Sample(qs, 10, rand.New(rand.NewSource(42)))
	for i := range a {
		if a[i].ID != b[i].ID {
			t.Fatalf("same seed produced different orders at %d: %q vs %q", i, a[i].ID, b[i].ID)
		}
	}
}

func TestSampleDoesNotMutateInput(t *testing.T) {
	qs := bankOf(8)
	Sample(qs, 8, rand.New(rand.NewSource(3)))
	for i, q := range qs {
		if q.ID != string(rune('a'+i)) {
			t.Fatalf("input reordered at %d", i)
		}
	}
}

func TestSampleNilRNG(t *testing.T) {
	if got := Sample(bankOf(5), 3, nil); len(got) != 3 {
		t.Fatalf("nil rng sample len = %d, want 3", len(got))
	}
}
