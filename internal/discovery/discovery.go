// Package discovery implements the genetic algorithm that breeds new
// classifiers from an action set: fitness-proportionate parent selection,
// crossover, mutation and the elapsed-time gate that throttles it.
package discovery

import (
	"errors"
	"math/rand"

	"xcskit/internal/rule"
	"xcskit/internal/selection"
	"xcskit/internal/xcserr"
)

var (
	ErrSameCondition  = errors.New("cannot swap a condition with itself")
	ErrLengthMismatch = errors.New("condition lengths differ")
	ErrInvertedRange  = errors.New("swap range is inverted")
)

// Component discovers new classifiers from an existing set in a state.
// The returned children are not inserted anywhere; that is the caller's
// responsibility.
type Component interface {
	Discover(timestamp int, state rule.State, actionSet rule.Set) (rule.Set, error)
}

// CrossoverMethod selects how symbol material is exchanged between the
// two children.
type CrossoverMethod int

const (
	// UniformCrossover swaps each position independently with probability 1/2.
	UniformCrossover CrossoverMethod = iota
	// OnePointCrossover swaps everything from a random position to the end.
	OnePointCrossover
	// TwoPointCrossover swaps an inclusive random sub-range.
	TwoPointCrossover
)

// Constants are the GA hyperparameters.
type Constants struct {
	MutationRate         float64
	MutateAction         bool
	FitnessReduction     float64
	CrossoverProbability float64
	// GAThreshold is the minimum numerosity-weighted average time since
	// the GA last ran on a niche.
	GAThreshold float64
	Crossover   CrossoverMethod
}

func DefaultConstants() Constants {
	return Constants{
		MutationRate:         0.03,
		MutateAction:         false,
		FitnessReduction:     0.1,
		CrossoverProbability: 0.5,
		GAThreshold:          25,
		Crossover:            TwoPointCrossover,
	}
}

func (c Constants) validate() error {
	if c.MutationRate < 0 || c.MutationRate > 1 {
		return xcserr.OutOfRange("mutation rate", 0, 1, c.MutationRate)
	}
	if c.FitnessReduction < 0 || c.FitnessReduction > 1 {
		return xcserr.OutOfRange("fitness reduction", 0, 1, c.FitnessReduction)
	}
	if c.CrossoverProbability < 0 || c.CrossoverProbability > 1 {
		return xcserr.OutOfRange("crossover probability", 0, 1, c.CrossoverProbability)
	}
	if c.GAThreshold < 0 {
		return xcserr.OutOfRange("ga threshold", 0, 1e18, c.GAThreshold)
	}
	switch c.Crossover {
	case UniformCrossover, OnePointCrossover, TwoPointCrossover:
	default:
		return xcserr.OutOfRange("crossover method", float64(UniformCrossover), float64(TwoPointCrossover), float64(c.Crossover))
	}
	return nil
}

// swapFunc exchanges symbol material between two conditions over an
// inclusive index range and reports whether anything changed.
type swapFunc func(rng *rand.Rand, c1, c2 rule.Condition, from, to int) (bool, error)

// GeneticAlgorithm is the standard XCS discovery component. The mutator
// and swap hooks vary with the symbol representation.
type GeneticAlgorithm struct {
	selection        selection.Strategy
	availableActions []int
	constants        Constants
	mutator          Mutator
	swap             swapFunc
	rng              *rand.Rand
}

// NewGeneticAlgorithm builds the GA for the discrete wildcard/value
// representation.
func NewGeneticAlgorithm(availableActions []int, strategy selection.Strategy, constants Constants, rng *rand.Rand) (*GeneticAlgorithm, error) {
	return newGA(availableActions, strategy, constants, WildcardMutator{}, swapWholeSymbols, rng)
}

// NewCenterSpreadGA builds the GA variant for center/spread interval
// symbols.
func NewCenterSpreadGA(availableActions []int, strategy selection.Strategy, constants Constants, bounds BoundConstants, rng *rand.Rand) (*GeneticAlgorithm, error) {
	if err := bounds.validate(); err != nil {
		return nil, err
	}
	return newGA(availableActions, strategy, constants, CenterSpreadMutator{Bounds: bounds}, swapWholeSymbols, rng)
}

// NewOrderedBoundGA builds the GA variant for explicit lower/upper
// interval symbols. Crossover swaps lower and upper alleles independently
// and restores bound order afterwards.
func NewOrderedBoundGA(availableActions []int, strategy selection.Strategy, constants Constants, bounds BoundConstants, rng *rand.Rand) (*GeneticAlgorithm, error) {
	if err := bounds.validate(); err != nil {
		return nil, err
	}
	return newGA(availableActions, strategy, constants, OrderedBoundMutator{Bounds: bounds}, swapBoundAlleles, rng)
}

func newGA(availableActions []int, strategy selection.Strategy, constants Constants, mutator Mutator, swap swapFunc, rng *rand.Rand) (*GeneticAlgorithm, error) {
	if len(availableActions) == 0 {
		return nil, xcserr.Empty("available actions")
	}
	if strategy == nil {
		return nil, xcserr.Nil("selection strategy")
	}
	if rng == nil {
		return nil, xcserr.Nil("rng")
	}
	if err := constants.validate(); err != nil {
		return nil, err
	}
	return &GeneticAlgorithm{
		selection:        strategy,
		availableActions: append([]int(nil), availableActions...),
		constants:        constants,
		mutator:          mutator,
		swap:             swap,
		rng:              rng,
	}, nil
}

// Discover breeds two children from the action set, unless the timing
// gate decides the niche was served recently. A gated-off call returns an
// empty set.
func (g *GeneticAlgorithm) Discover(timestamp int, state rule.State, actionSet rule.Set) (rule.Set, error) {
	if len(state) == 0 {
		return nil, xcserr.Empty("state")
	}
	if len(actionSet) == 0 {
		return nil, xcserr.Empty("action set")
	}

	if !g.shouldRun(timestamp, actionSet) {
		return rule.Set{}, nil
	}

	parent1, err := g.chooseParent(actionSet)
	if err != nil {
		return nil, err
	}
	parent2, err := g.chooseParent(actionSet)
	if err != nil {
		return nil, err
	}

	child1 := generateChild(parent1, timestamp)
	child2 := generateChild(parent2, timestamp)

	if err := g.crossover(child1, child2); err != nil {
		return nil, err
	}
	if err := g.mutate(child1, state); err != nil {
		return nil, err
	}
	if err := g.mutate(child2, state); err != nil {
		return nil, err
	}

	for _, cl := range actionSet {
		cl.GATimestamp = timestamp
		cl.GATagged = true
	}

	return rule.Set{child1, child2}, nil
}

// shouldRun checks the numerosity-weighted average of the last-GA tags
// against the threshold. Rules created outside the GA are tagged with the
// current timestamp on first encounter.
func (g *GeneticAlgorithm) shouldRun(timestamp int, actionSet rule.Set) bool {
	numerositySum := float64(actionSet.NumerositySum())
	average := 0.0
	for _, cl := range actionSet {
		if !cl.GATagged {
			cl.GATimestamp = timestamp
			cl.GATagged = true
		}
		average += float64(cl.GATimestamp) / numerositySum * float64(cl.Numerosity)
	}
	return float64(timestamp)-average >= g.constants.GAThreshold
}

func (g *GeneticAlgorithm) chooseParent(actionSet rule.Set) (*rule.Classifier, error) {
	index, err := g.selection.SelectIndex(g.rng, len(actionSet), func(i int) float64 {
		return actionSet[i].Fitness
	})
	if err != nil {
		return nil, err
	}
	return actionSet[index], nil
}

// generateChild clones the parent's condition and action and resets the
// learned statistics: the macro-fitness is split per logical copy and the
// child starts with no experience of its own.
func generateChild(parent *rule.Classifier, timestamp int) *rule.Classifier {
	return &rule.Classifier{
		Condition:     parent.Condition.Clone(),
		Action:        parent.Action,
		Fitness:       parent.Fitness / float64(parent.Numerosity),
		Prediction:    parent.Prediction,
		Epsilon:       parent.Epsilon,
		Numerosity:    1,
		Experience:    0,
		ActionSetSize: 1,
		GATimestamp:   timestamp,
		GATagged:      true,
	}
}

func (g *GeneticAlgorithm) crossover(child1, child2 *rule.Classifier) error {
	didCrossover := false

	if g.rng.Float64() < g.constants.CrossoverProbability {
		swapped, err := g.applyCrossover(child1, child2)
		if err != nil {
			return err
		}
		didCrossover = swapped
	}

	if didCrossover {
		prediction := (child1.Prediction + child2.Prediction) / 2
		epsilon := (child1.Epsilon + child2.Epsilon) / 2
		fitness := (child1.Fitness + child2.Fitness) / 2
		child1.Prediction, child2.Prediction = prediction, prediction
		child1.Epsilon, child2.Epsilon = epsilon, epsilon
		child1.Fitness, child2.Fitness = fitness, fitness
	}

	child1.Fitness *= g.constants.FitnessReduction
	child2.Fitness *= g.constants.FitnessReduction
	return nil
}

func (g *GeneticAlgorithm) applyCrossover(child1, child2 *rule.Classifier) (bool, error) {
	length := child1.Condition.Len()
	switch g.constants.Crossover {
	case UniformCrossover:
		swapped := false
		for i := 0; i < length; i++ {
			if g.rng.Float64() >= 0.5 {
				didSwap, err := g.swapSymbols(child1.Condition, child2.Condition, i, i)
				if err != nil {
					return false, err
				}
				swapped = swapped || didSwap
			}
		}
		return swapped, nil
	case OnePointCrossover:
		from := g.rng.Intn(length)
		return g.swapSymbols(child1.Condition, child2.Condition, from, length-1)
	case TwoPointCrossover:
		from := g.rng.Intn(length)
		to := g.rng.Intn(length)
		if from > to {
			from, to = to, from
		}
		return g.swapSymbols(child1.Condition, child2.Condition, from, to)
	default:
		return false, xcserr.OutOfRange("crossover method", float64(UniformCrossover), float64(TwoPointCrossover), float64(g.constants.Crossover))
	}
}

// swapSymbols validates the swap contract before delegating to the
// representation-specific exchange.
func (g *GeneticAlgorithm) swapSymbols(c1, c2 rule.Condition, from, to int) (bool, error) {
	if c1.Len() == 0 {
		return false, xcserr.Empty("condition1")
	}
	if c2.Len() == 0 {
		return false, xcserr.Empty("condition2")
	}
	if c1.Len() != c2.Len() {
		return false, ErrLengthMismatch
	}
	if c1.Same(c2) {
		return false, ErrSameCondition
	}
	if from < 0 || from >= c1.Len() {
		return false, xcserr.OutOfRange("from index", 0, float64(c1.Len()-1), float64(from))
	}
	if to < 0 || to >= c1.Len() {
		return false, xcserr.OutOfRange("to index", 0, float64(c1.Len()-1), float64(to))
	}
	if from > to {
		return false, ErrInvertedRange
	}
	return g.swap(g.rng, c1, c2, from, to)
}

func (g *GeneticAlgorithm) mutate(cl *rule.Classifier, state rule.State) error {
	for i := 0; i < cl.Condition.Len(); i++ {
		if g.rng.Float64() < g.constants.MutationRate {
			if err := g.mutator.MutatePosition(g.rng, cl.Condition, i, state[i]); err != nil {
				return err
			}
		}
	}

	if g.constants.MutateAction {
		candidates := make([]int, 0, len(g.availableActions))
		for _, action := range g.availableActions {
			if action != cl.Action {
				candidates = append(candidates, action)
			}
		}
		if len(candidates) > 0 {
			cl.Action = candidates[g.rng.Intn(len(candidates))]
		}
	}
	return nil
}

// swapWholeSymbols exchanges complete symbols position by position.
func swapWholeSymbols(_ *rand.Rand, c1, c2 rule.Condition, from, to int) (bool, error) {
	swapped := false
	for i := from; i <= to; i++ {
		s1, s2 := c1.At(i), c2.At(i)
		if err := c1.SetAt(i, s2); err != nil {
			return swapped, err
		}
		if err := c2.SetAt(i, s1); err != nil {
			return swapped, err
		}
		swapped = true
	}
	return swapped, nil
}
