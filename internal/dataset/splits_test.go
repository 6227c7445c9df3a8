package dataset

import (
	"errors"
	"fmt"
	"math/rand"
	"reflect"
	"testing"
)

func makeIDs(n int) []string {
	ids := make([]string, n)
	for i := range ids {
		ids[i] = fmt.Sprintf("map_%04d", i)
	}
	return ids
}

func TestAssignSplits_Deterministic(t *testing.T) {
	ids := makeIDs(100)

	a, err := AssignSplits(ids, DefaultSplitRatios(), 42)
	if err != nil {
		t.Fatalf("AssignSplits: %v", err)
	}
	b, err := AssignSplits(ids, DefaultSplitRatios(), 42)
	if err != nil {
		t.Fatalf("AssignSplits: %v", err)
	}

	if !reflect.DeepEqual(a.Train, b.Train) || !reflect.DeepEqual(a.Val, b.Val) || !reflect.DeepEqual(a.Test, b.Test) {
		t.Error("identical inputs produced different partitions")
	}
}

func TestAssignSplits_InputOrderIrrelevant(t *testing.T) {
	ids := makeIDs(200)
	shuffledInput := make([]string, len(ids))
	copy(shuffledInput, ids)
	rand.New(rand.NewSource(7)).Shuffle(len(shuffledInput), func(i, j int) {
		shuffledInput[i], shuffledInput[j] = shuffledInput[j], shuffledInput[i]
	})

	a, _ := AssignSplits(ids, DefaultSplitRatios(), 42)
	b, _ := AssignSplits(shuffledInput, DefaultSplitRatios(), 42)

	if !reflect.DeepEqual(a.Train, b.Train) || !reflect.DeepEqual(a.Val, b.Val) || !reflect.DeepEqual(a.Test, b.Test) {
		t.Error("partition depends on input enumeration order")
	}
}

func TestAssignSplits_DifferentSeedsDiffer(t *testing.T) {
	ids := makeIDs(100)
	a, _ := AssignSplits(ids, DefaultSplitRatios(), 1)
	b, _ := AssignSplits(ids, DefaultSplitRatios(), 2)

	if reflect.DeepEqual(a.Train, b.Train) {
		t.Error("different seeds produced the same train split")
	}
}

func TestAssignSplits_DisjointAndComplete(t *testing.T) {
	for _, n := range []int{0, 1, 2, 3, 10, 97, 1000} {
		ids := makeIDs(n)
		a, err := AssignSplits(ids, DefaultSplitRatios(), 42)
		if err != nil {
			t.Fatalf("n=%d: %v", n, err)
		}

		seen := make(map[string]int, n)
		for _, id := range a.Train {
			seen[id]++
		}
		for _, id := range a.Val {
			seen[id]++
		}
		for _, id := range a.Test {
			seen[id]++
		}

		if len(seen) != n {
			t.Errorf("n=%d: union has %d ids", n, len(seen))
		}
		for id, count := range seen {
			if count != 1 {
				t.Errorf("n=%d: id %s appears in %d splits", n, id, count)
			}
		}
	}
}

func TestAssignSplits_ProportionalSizes(t *testing.T) {
	ids := makeIDs(1000)
	ratios := SplitRatios{Train: 0.7, Val: 0.15, Test: 0.15}

	for run := 0; run < 3; run++ {
		a, err := AssignSplits(ids, ratios, 42)
		if err != nil {
			t.Fatalf("AssignSplits: %v", err)
		}
		if len(a.Train) != 700 || len(a.Val) != 150 || len(a.Test) != 150 {
			t.Fatalf("run %d: sizes = %d/%d/%d, want 700/150/150",
				run, len(a.Train), len(a.Val), len(a.Test))
		}
	}
}

func TestAssignSplits_InvalidRatios(t *testing.T) {
	tests := []SplitRatios{
		{Train: 0.5, Val: 0.1, Test: 0.1},
		{Train: 0.9, Val: 0.2, Test: 0.1},
		{Train: 1.2, Val: -0.1, Test: -0.1},
	}
	for _, ratios := range tests {
		if _, err := AssignSplits(makeIDs(10), ratios, 42); !errors.Is(err, ErrInvalidRatios) {
			t.Errorf("ratios %+v: expected ErrInvalidRatios, got %v", ratios, err)
		}
	}
}

func TestAssignSplits_RatioEpsilon(t *testing.T) {
	// Off by well under the epsilon: accepted.
	ratios := SplitRatios{Train: 0.8, Val: 0.1, Test: 0.10000001}
	if _, err := AssignSplits(makeIDs(10), ratios, 42); err != nil {
		t.Errorf("epsilon-close ratios rejected: %v", err)
	}
}

func TestAssignSplits_TinyDatasetEmptySplits(t *testing.T) {
	a, err := AssignSplits(makeIDs(2), DefaultSplitRatios(), 42)
	if err != nil {
		t.Fatalf("AssignSplits: %v", err)
	}

	// 2 ids at 0.8/0.1/0.1: train gets 1, val 0, test the remainder.
	empty := a.EmptySplits()
	if len(empty) == 0 {
		t.Error("expected at least one empty split for 2 samples")
	}
	for _, name := range empty {
		if name != "val" && name != "test" && name != "train" {
			t.Errorf("unexpected split name %q", name)
		}
	}
}

func TestSplitRatios_Validate(t *testing.T) {
	if err := DefaultSplitRatios().Validate(); err != nil {
		t.Errorf("default ratios invalid: %v", err)
	}
	if err := (SplitRatios{Train: 1}).Validate(); err != nil {
		t.Errorf("train-only ratios invalid: %v", err)
	}
	if err := (SplitRatios{}).Validate(); err == nil {
		t.Error("zero ratios should be invalid")
	}
}
