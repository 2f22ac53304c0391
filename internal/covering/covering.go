// Package covering synthesizes classifiers on demand for states and
// actions the population does not cover yet.
package covering

import (
	"math"
	"math/rand"

	"xcskit/internal/rule"
	"xcskit/internal/symbol"
	"xcskit/internal/xcserr"
)

// Component creates one matching classifier for a state/action pair.
type Component interface {
	Cover(state rule.State, action int) (*rule.Classifier, error)
}

// Wildcards covers a state with exact-value symbols, each having a
// configured probability of becoming a wildcard instead.
type Wildcards struct {
	wildcardProbability float64
	constants           rule.Constants
	rng                 *rand.Rand
}

func NewWildcards(wildcardProbability float64, constants rule.Constants, rng *rand.Rand) (*Wildcards, error) {
	if wildcardProbability < 0 || wildcardProbability > 1 {
		return nil, xcserr.OutOfRange("wildcard probability", 0, 1, wildcardProbability)
	}
	if rng == nil {
		return nil, xcserr.Nil("rng")
	}
	return &Wildcards{wildcardProbability: wildcardProbability, constants: constants, rng: rng}, nil
}

func (c *Wildcards) Cover(state rule.State, action int) (*rule.Classifier, error) {
	symbols, err := coverSymbols(state, func(value float64) (symbol.Symbol, error) {
		if c.rng.Float64() < c.wildcardProbability {
			return symbol.Wildcard{}, nil
		}
		return symbol.NewValue(value)
	})
	if err != nil {
		return nil, err
	}
	condition, err := rule.NewCondition(symbols)
	if err != nil {
		return nil, err
	}
	return rule.NewClassifier(condition, action, c.constants)
}

// CenterSpread covers a state with interval symbols centered on the
// observed values, each with a random spread up to maxSpread.
type CenterSpread struct {
	maxSpread float64
	constants rule.Constants
	rng       *rand.Rand
}

func NewCenterSpread(maxSpread float64, constants rule.Constants, rng *rand.Rand) (*CenterSpread, error) {
	if maxSpread < 0 {
		return nil, xcserr.OutOfRange("max spread", 0, math.Inf(1), maxSpread)
	}
	if rng == nil {
		return nil, xcserr.Nil("rng")
	}
	return &CenterSpread{maxSpread: maxSpread, constants: constants, rng: rng}, nil
}

func (c *CenterSpread) Cover(state rule.State, action int) (*rule.Classifier, error) {
	symbols, err := coverSymbols(state, func(value float64) (symbol.Symbol, error) {
		return symbol.NewCenterSpread(value, c.rng.Float64()*c.maxSpread)
	})
	if err != nil {
		return nil, err
	}
	condition, err := rule.NewCondition(symbols)
	if err != nil {
		return nil, err
	}
	return rule.NewClassifier(condition, action, c.constants)
}

// OrderedBound covers a state with explicit lower/upper interval symbols
// drawn around the observed values, optionally truncated to a value range.
type OrderedBound struct {
	maxSpread float64
	minValue  float64
	maxValue  float64
	truncate  bool
	constants rule.Constants
	rng       *rand.Rand
}

func NewOrderedBound(maxSpread, minValue, maxValue float64, truncate bool, constants rule.Constants, rng *rand.Rand) (*OrderedBound, error) {
	if maxSpread < 0 {
		return nil, xcserr.OutOfRange("max spread", 0, math.Inf(1), maxSpread)
	}
	if truncate && minValue > maxValue {
		return nil, xcserr.OutOfRange("min value", math.Inf(-1), maxValue, minValue)
	}
	if rng == nil {
		return nil, xcserr.Nil("rng")
	}
	return &OrderedBound{
		maxSpread: maxSpread,
		minValue:  minValue,
		maxValue:  maxValue,
		truncate:  truncate,
		constants: constants,
		rng:       rng,
	}, nil
}

func (c *OrderedBound) Cover(state rule.State, action int) (*rule.Classifier, error) {
	symbols, err := coverSymbols(state, func(value float64) (symbol.Symbol, error) {
		lowerMin := value - c.maxSpread
		upperMax := value + c.maxSpread
		if c.truncate {
			lowerMin = math.Max(lowerMin, c.minValue)
			upperMax = math.Min(upperMax, c.maxValue)
		}
		lower := lowerMin + c.rng.Float64()*(value-lowerMin)
		upper := value + c.rng.Float64()*(upperMax-value)
		return symbol.NewOrderedBound(lower, upper), nil
	})
	if err != nil {
		return nil, err
	}
	condition, err := rule.NewCondition(symbols)
	if err != nil {
		return nil, err
	}
	return rule.NewClassifier(condition, action, c.constants)
}

func coverSymbols(state rule.State, create func(value float64) (symbol.Symbol, error)) ([]symbol.Symbol, error) {
	if len(state) == 0 {
		return nil, xcserr.Empty("state")
	}
	symbols := make([]symbol.Symbol, len(state))
	for i, value := range state {
		s, err := create(value)
		if err != nil {
			return nil, err
		}
		symbols[i] = s
	}
	return symbols, nil
}
