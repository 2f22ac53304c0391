package symbol

import (
	"fmt"
	"math"

	"xcskit/internal/xcserr"
)

// Bound is a symbol matching every value inside a closed interval.
// Two bound symbols compare by interval containment regardless of their
// concrete form.
type Bound interface {
	Symbol
	Lower() float64
	Upper() float64
}

// compareBounds ranks a bound symbol's interval against another symbol.
func compareBounds(s Bound, other Symbol) (Generality, error) {
	switch o := other.(type) {
	case nil:
		return Undecidable, xcserr.Nil("other")
	case Wildcard:
		return LessGeneral, nil
	case Bound:
		if s.Lower() == o.Lower() && s.Upper() == o.Upper() {
			return Equal, nil
		}
		if s.Lower() <= o.Lower() && s.Upper() >= o.Upper() {
			return MoreGeneral, nil
		}
		if s.Lower() >= o.Lower() && s.Upper() <= o.Upper() {
			return LessGeneral, nil
		}
		return Undecidable, nil
	default:
		return Undecidable, fmt.Errorf("%w: bound vs %T", xcserr.ErrIncomparable, other)
	}
}

func boundsEqual(s Bound, other Symbol) bool {
	o, ok := other.(Bound)
	return ok && o.Lower() == s.Lower() && o.Upper() == s.Upper()
}

// CenterSpread is a bound symbol defined by a center point and a
// non-negative spread around it.
type CenterSpread struct {
	Center float64
	Spread float64
}

func NewCenterSpread(center, spread float64) (CenterSpread, error) {
	if spread < 0 {
		return CenterSpread{}, xcserr.OutOfRange("spread", 0, math.Inf(1), spread)
	}
	return CenterSpread{Center: center, Spread: spread}, nil
}

func (s CenterSpread) Lower() float64 { return s.Center - s.Spread }
func (s CenterSpread) Upper() float64 { return s.Center + s.Spread }

func (s CenterSpread) Matches(value float64) bool {
	return s.Lower() <= value && value <= s.Upper()
}

func (s CenterSpread) Compare(other Symbol) (Generality, error) {
	return compareBounds(s, other)
}

func (s CenterSpread) Clone() Symbol { return s }

func (s CenterSpread) Equal(other Symbol) bool {
	return boundsEqual(s, other)
}

func (s CenterSpread) String() string {
	return fmt.Sprintf("(%.2f - %.2f)", s.Lower(), s.Upper())
}

// OrderedBound is a bound symbol defined by explicit lower and upper
// values. The constructor restores order if the bounds arrive inverted,
// which happens after mutation perturbs them independently.
type OrderedBound struct {
	low  float64
	high float64
}

func NewOrderedBound(lower, upper float64) OrderedBound {
	if lower > upper {
		lower, upper = upper, lower
	}
	return OrderedBound{low: lower, high: upper}
}

func (s OrderedBound) Lower() float64 { return s.low }
func (s OrderedBound) Upper() float64 { return s.high }

func (s OrderedBound) Matches(value float64) bool {
	return s.low <= value && value <= s.high
}

func (s OrderedBound) Compare(other Symbol) (Generality, error) {
	return compareBounds(s, other)
}

func (s OrderedBound) Clone() Symbol { return s }

func (s OrderedBound) Equal(other Symbol) bool {
	return boundsEqual(s, other)
}

func (s OrderedBound) String() string {
	return fmt.Sprintf("(%.2f - %.2f)", s.low, s.high)
}
