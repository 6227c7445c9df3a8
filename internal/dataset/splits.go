package dataset

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sort"
)

// ErrInvalidRatios reports split ratios that cannot form a partition.
var ErrInvalidRatios = errors.New("invalid split ratios")

// ratioEpsilon is the tolerance when checking that ratios sum to 1.0.
const ratioEpsilon = 1e-4

// SplitRatios holds the train/val/test proportions of a dataset.
type SplitRatios struct {
	Train float64 `json:"train" yaml:"train"`
	Val   float64 `json:"val" yaml:"val"`
	Test  float64 `json:"test" yaml:"test"`
}

// DefaultSplitRatios returns the standard 0.8/0.1/0.1 partition.
func DefaultSplitRatios() SplitRatios {
	return SplitRatios{Train: 0.8, Val: 0.1, Test: 0.1}
}

// Validate checks that each ratio is non-negative and that they sum to 1.0
// within a small epsilon.
func (r SplitRatios) Validate() error {
	if r.Train < 0 || r.Val < 0 || r.Test < 0 {
		return fmt.Errorf("%w: negative ratio in %+v", ErrInvalidRatios, r)
	}
	sum := r.Train + r.Val + r.Test
	if math.Abs(sum-1.0) > ratioEpsilon {
		return fmt.Errorf("%w: ratios must sum to 1.0, got %g", ErrInvalidRatios, sum)
	}
	return nil
}

// SplitAssignment is a deterministic partition of sample ids, tagged with
// the seed and ratios that produced it.
type SplitAssignment struct {
	Seed   int64
	Ratios SplitRatios
	Train  []string
	Val    []string
	Test   []string
}

// AssignSplits partitions sample ids into train/val/test. The result is a
// pure function of the sorted id set, the seed, and the ratios: the input
// is sorted before a seeded shuffle, so enumeration order never leaks into
// the partition and re-runs yield identical output across machines.
func AssignSplits(ids []string, ratios SplitRatios, seed int64) (*SplitAssignment, error) {
	if err := ratios.Validate(); err != nil {
		return nil, err
	}

	shuffled := make([]string, len(ids))
	copy(shuffled, ids)
	sort.Strings(shuffled)

	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	n := len(shuffled)
	trainEnd := int(float64(n) * ratios.Train)
	valEnd := trainEnd + int(float64(n)*ratios.Val)

	return &SplitAssignment{
		Seed:   seed,
		Ratios: ratios,
		Train:  shuffled[:trainEnd],
		Val:    shuffled[trainEnd:valEnd],
		Test:   shuffled[valEnd:],
	}, nil
}

// EmptySplits returns the names of splits that received no samples despite
// a non-zero ratio. With very small datasets this is legitimate, so it is
// reported rather than treated as an error.
func (a *SplitAssignment) EmptySplits() []string {
	var empty []string
	if a.Ratios.Train > 0 && len(a.Train) == 0 {
		empty = append(empty, "train")
	}
	if a.Ratios.Val > 0 && len(a.Val) == 0 {
		empty = append(empty, "val")
	}
	if a.Ratios.Test > 0 && len(a.Test) == 0 {
		empty = append(empty, "test")
	}
	return empty
}
