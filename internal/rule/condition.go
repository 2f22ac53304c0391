// Package rule holds the data model of the learning engine: states,
// conditions, classifiers and ordered classifier sets.
package rule

import (
	"fmt"
	"strings"

	"xcskit/internal/symbol"
	"xcskit/internal/xcserr"
)

// State is an ordered sequence of scalar input values.
type State []float64

func (s State) Clone() State {
	return append(State(nil), s...)
}

// Condition is a fixed-length ordered sequence of symbols. It matches a
// state iff every positional symbol matches the corresponding value.
type Condition struct {
	symbols []symbol.Symbol
}

func NewCondition(symbols []symbol.Symbol) (Condition, error) {
	if len(symbols) == 0 {
		return Condition{}, xcserr.Empty("symbols")
	}
	for i, s := range symbols {
		if s == nil {
			return Condition{}, xcserr.Nil(fmt.Sprintf("symbols[%d]", i))
		}
	}
	return Condition{symbols: symbols}, nil
}

func (c Condition) Len() int { return len(c.symbols) }

// At returns the symbol at position i.
func (c Condition) At(i int) symbol.Symbol { return c.symbols[i] }

// SetAt replaces the symbol at position i. The replacement must not be nil.
func (c Condition) SetAt(i int, s symbol.Symbol) error {
	if s == nil {
		return xcserr.Nil("symbol")
	}
	c.symbols[i] = s
	return nil
}

// Same reports whether both conditions share the same backing symbol
// slice, i.e. mutating one mutates the other.
func (c Condition) Same(other Condition) bool {
	return len(c.symbols) > 0 && len(other.symbols) > 0 && &c.symbols[0] == &other.symbols[0]
}

// Matches reports whether every positional symbol accepts the
// corresponding state value. The lengths must agree.
func (c Condition) Matches(state State) (bool, error) {
	if len(state) != len(c.symbols) {
		return false, xcserr.OutOfRange("state length", float64(len(c.symbols)), float64(len(c.symbols)), float64(len(state)))
	}
	for i, sym := range c.symbols {
		if !sym.Matches(state[i]) {
			return false, nil
		}
	}
	return true, nil
}

// IsMoreGeneral reports whether this condition is strictly more general
// than other: position-wise every symbol of other is equal or strictly
// less general, with at least one strict generalization. Equal conditions
// are not more general than each other.
func (c Condition) IsMoreGeneral(other Condition) (bool, error) {
	if len(other.symbols) != len(c.symbols) {
		return false, xcserr.OutOfRange("condition length", float64(len(c.symbols)), float64(len(c.symbols)), float64(len(other.symbols)))
	}
	strict := false
	for i, sym := range c.symbols {
		g, err := sym.Compare(other.symbols[i])
		if err != nil {
			return false, err
		}
		switch g {
		case symbol.Equal:
		case symbol.MoreGeneral:
			strict = true
		default:
			return false, nil
		}
	}
	return strict, nil
}

// Clone returns a deep copy. The copy owns its symbols exclusively.
func (c Condition) Clone() Condition {
	symbols := make([]symbol.Symbol, len(c.symbols))
	for i, s := range c.symbols {
		symbols[i] = s.Clone()
	}
	return Condition{symbols: symbols}
}

func (c Condition) Equal(other Condition) bool {
	if len(other.symbols) != len(c.symbols) {
		return false
	}
	for i, s := range c.symbols {
		if !s.Equal(other.symbols[i]) {
			return false
		}
	}
	return true
}

func (c Condition) String() string {
	parts := make([]string, len(c.symbols))
	for i, s := range c.symbols {
		parts[i] = s.String()
	}
	return "[" + strings.Join(parts, "|") + "]"
}
