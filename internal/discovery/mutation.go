package discovery

import (
	"math/rand"

	"xcskit/internal/rule"
	"xcskit/internal/symbol"
	"xcskit/internal/xcserr"
)

// Mutator perturbs a single condition position. Implementations are
// representation-specific.
type Mutator interface {
	MutatePosition(rng *rand.Rand, condition rule.Condition, i int, stateValue float64) error
}

// BoundConstants bound the interval mutations of the real-valued
// representations.
type BoundConstants struct {
	// MaxMutationChange is the half-width of the uniform perturbation
	// applied to each allele.
	MaxMutationChange float64
	MinValue          float64
	MaxValue          float64
	// Truncate clamps mutated ordered-bound alleles back into
	// [MinValue, MaxValue].
	Truncate bool
}

func DefaultBoundConstants() BoundConstants {
	return BoundConstants{
		MaxMutationChange: 0.1,
		MinValue:          0,
		MaxValue:          1,
		Truncate:          true,
	}
}

func (b BoundConstants) validate() error {
	if b.MaxMutationChange < 0 {
		return xcserr.OutOfRange("max mutation change", 0, 1e18, b.MaxMutationChange)
	}
	if b.MinValue > b.MaxValue {
		return xcserr.OutOfRange("min value", -1e18, b.MaxValue, b.MinValue)
	}
	return nil
}

// perturb returns value shifted by a uniform draw from
// [-maxChange, maxChange).
func (b BoundConstants) perturb(rng *rand.Rand, value float64) float64 {
	return value + (rng.Float64()*2-1)*b.MaxMutationChange
}

func clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// WildcardMutator toggles a position between the wildcard and the exact
// state value, the classic ternary-alphabet mutation.
type WildcardMutator struct{}

func (WildcardMutator) MutatePosition(_ *rand.Rand, condition rule.Condition, i int, stateValue float64) error {
	if _, ok := condition.At(i).(symbol.Wildcard); ok {
		value, err := symbol.NewValue(stateValue)
		if err != nil {
			return err
		}
		return condition.SetAt(i, value)
	}
	return condition.SetAt(i, symbol.Wildcard{})
}

// CenterSpreadMutator perturbs the center and spread of an interval
// symbol. The center is clamped into [MinValue, MaxValue] and the spread
// is kept non-negative.
type CenterSpreadMutator struct {
	Bounds BoundConstants
}

func (m CenterSpreadMutator) MutatePosition(rng *rand.Rand, condition rule.Condition, i int, _ float64) error {
	cs, ok := condition.At(i).(symbol.CenterSpread)
	if !ok {
		return xcserr.WrongType("symbol", "center-spread")
	}
	center := clamp(m.Bounds.perturb(rng, cs.Center), m.Bounds.MinValue, m.Bounds.MaxValue)
	spread := m.Bounds.perturb(rng, cs.Spread)
	if spread < 0 {
		spread = 0
	}
	mutated, err := symbol.NewCenterSpread(center, spread)
	if err != nil {
		return err
	}
	return condition.SetAt(i, mutated)
}

// OrderedBoundMutator perturbs lower and upper alleles independently,
// optionally clamping them into range; the constructor restores bound
// order.
type OrderedBoundMutator struct {
	Bounds BoundConstants
}

func (m OrderedBoundMutator) MutatePosition(rng *rand.Rand, condition rule.Condition, i int, _ float64) error {
	ob, ok := condition.At(i).(symbol.OrderedBound)
	if !ok {
		return xcserr.WrongType("symbol", "ordered-bound")
	}
	lower := m.Bounds.perturb(rng, ob.Lower())
	upper := m.Bounds.perturb(rng, ob.Upper())
	if m.Bounds.Truncate {
		lower = clamp(lower, m.Bounds.MinValue, m.Bounds.MaxValue)
		upper = clamp(upper, m.Bounds.MinValue, m.Bounds.MaxValue)
	}
	return condition.SetAt(i, symbol.NewOrderedBound(lower, upper))
}

// swapBoundAlleles exchanges the lower and upper alleles of ordered-bound
// symbols independently, each with probability 1/2, restoring bound order
// through the constructor.
func swapBoundAlleles(rng *rand.Rand, c1, c2 rule.Condition, from, to int) (bool, error) {
	swapped := false
	for i := from; i <= to; i++ {
		ob1, ok := c1.At(i).(symbol.OrderedBound)
		if !ok {
			return swapped, xcserr.WrongType("symbol", "ordered-bound")
		}
		ob2, ok := c2.At(i).(symbol.OrderedBound)
		if !ok {
			return swapped, xcserr.WrongType("symbol", "ordered-bound")
		}
		lower1, upper1 := ob1.Lower(), ob1.Upper()
		lower2, upper2 := ob2.Lower(), ob2.Upper()
		if rng.Float64() < 0.5 {
			lower1, lower2 = lower2, lower1
			swapped = true
		}
		if rng.Float64() < 0.5 {
			upper1, upper2 = upper2, upper1
			swapped = true
		}
		if err := c1.SetAt(i, symbol.NewOrderedBound(lower1, upper1)); err != nil {
			return swapped, err
		}
		if err := c2.SetAt(i, symbol.NewOrderedBound(lower2, upper2)); err != nil {
			return swapped, err
		}
	}
	return swapped, nil
}
