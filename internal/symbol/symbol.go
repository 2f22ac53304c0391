// Package symbol implements the matching units a rule condition is built
// from: exact values, wildcards and bounded intervals over scalar inputs.
package symbol

import (
	"fmt"
	"math"

	"xcskit/internal/xcserr"
)

// WildcardChar is the textual representation of a wildcard position.
const WildcardChar = "#"

// Generality is the outcome of comparing two symbols.
type Generality int

const (
	LessGeneral Generality = iota
	Equal
	MoreGeneral
	Undecidable
)

func (g Generality) String() string {
	switch g {
	case LessGeneral:
		return "less-general"
	case Equal:
		return "equal"
	case MoreGeneral:
		return "more-general"
	case Undecidable:
		return "undecidable"
	default:
		return fmt.Sprintf("generality(%d)", int(g))
	}
}

// Symbol is the smallest element of a condition. It matches scalar input
// values and can be compared for generality against another symbol.
type Symbol interface {
	// Matches reports whether this symbol accepts the given input value.
	Matches(value float64) bool
	// Compare ranks this symbol's generality against other. Comparing
	// symbols of mismatched representations returns ErrIncomparable.
	Compare(other Symbol) (Generality, error)
	// Clone returns an independent copy.
	Clone() Symbol
	// Equal reports structural equality.
	Equal(other Symbol) bool
	String() string
}

// Wildcard matches every well-defined input value.
type Wildcard struct{}

func (Wildcard) Matches(value float64) bool {
	return !math.IsNaN(value)
}

func (Wildcard) Compare(other Symbol) (Generality, error) {
	if other == nil {
		return Undecidable, xcserr.Nil("other")
	}
	if _, ok := other.(Wildcard); ok {
		return Equal, nil
	}
	return MoreGeneral, nil
}

func (Wildcard) Clone() Symbol { return Wildcard{} }

func (Wildcard) Equal(other Symbol) bool {
	_, ok := other.(Wildcard)
	return ok
}

func (Wildcard) String() string { return WildcardChar }

// Value matches exactly one input value.
type Value struct {
	V float64
}

func NewValue(v float64) (Value, error) {
	if math.IsNaN(v) {
		return Value{}, xcserr.OutOfRange("value", math.Inf(-1), math.Inf(1), v)
	}
	return Value{V: v}, nil
}

func (s Value) Matches(value float64) bool {
	return s.V == value
}

func (s Value) Compare(other Symbol) (Generality, error) {
	switch o := other.(type) {
	case nil:
		return Undecidable, xcserr.Nil("other")
	case Wildcard:
		return LessGeneral, nil
	case Value:
		if s.V == o.V {
			return Equal, nil
		}
		return Undecidable, nil
	default:
		return Undecidable, fmt.Errorf("%w: value vs %T", xcserr.ErrIncomparable, other)
	}
}

func (s Value) Clone() Symbol { return s }

func (s Value) Equal(other Symbol) bool {
	o, ok := other.(Value)
	return ok && o.V == s.V
}

func (s Value) String() string { return fmt.Sprintf("%v", s.V) }
