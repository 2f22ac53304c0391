// Package learning updates classifier statistics from received rewards:
// Widrow-Hoff tracking of prediction, error and action-set size, followed
// by accuracy-based fitness sharing across the set.
package learning

import (
	"math"

	"xcskit/internal/rule"
	"xcskit/internal/xcserr"
)

// Component folds a reward into every classifier of an action set.
type Component interface {
	UpdateSet(actionSet rule.Set, reward float64) error
}

// Constants are the reinforcement hyperparameters.
type Constants struct {
	// Beta is the learning rate once a rule has seen at least 1/Beta
	// updates; younger rules average over their whole history.
	Beta float64
	// EpsilonZero is the error level below which a rule counts as
	// fully accurate.
	EpsilonZero float64
	// Alpha scales the accuracy of rules whose error exceeds EpsilonZero.
	Alpha float64
	// Nu is the exponent of the accuracy power law.
	Nu float64
}

func DefaultConstants() Constants {
	return Constants{
		Beta:        0.2,
		EpsilonZero: math.Nextafter(1, 2) - 1,
		Alpha:       0.1,
		Nu:          5,
	}
}

func (c Constants) validate() error {
	if c.Beta <= 0 || c.Beta > 1 {
		return xcserr.OutOfRange("beta", 0, 1, c.Beta)
	}
	if c.EpsilonZero <= 0 {
		return xcserr.OutOfRange("epsilon zero", 0, 1e18, c.EpsilonZero)
	}
	if c.Alpha <= 0 || c.Alpha > 1 {
		return xcserr.OutOfRange("alpha", 0, 1, c.Alpha)
	}
	if c.Nu <= 0 {
		return xcserr.OutOfRange("nu", 0, 1e18, c.Nu)
	}
	return nil
}

// QLearning is the standard XCS reinforcement component.
type QLearning struct {
	constants Constants
}

func NewQLearning(constants Constants) (*QLearning, error) {
	if err := constants.validate(); err != nil {
		return nil, err
	}
	return &QLearning{constants: constants}, nil
}

// UpdateSet applies one reinforcement step to every classifier in the
// action set and then redistributes fitness by relative accuracy.
func (q *QLearning) UpdateSet(actionSet rule.Set, reward float64) error {
	if len(actionSet) == 0 {
		return xcserr.Empty("action set")
	}

	numerositySum := float64(actionSet.NumerositySum())
	for _, cl := range actionSet {
		cl.Experience++
		step := q.constants.Beta
		if float64(cl.Experience) < 1/q.constants.Beta {
			step = 1 / float64(cl.Experience)
		}
		cl.Epsilon += step * (math.Abs(reward-cl.Prediction) - cl.Epsilon)
		cl.Prediction += step * (reward - cl.Prediction)
		cl.ActionSetSize += step * (numerositySum - cl.ActionSetSize)
	}

	q.shareFitness(actionSet)
	return nil
}

// shareFitness converts per-rule accuracy into fitness relative to the
// accuracy mass of the whole set.
func (q *QLearning) shareFitness(actionSet rule.Set) {
	accuracies := make([]float64, len(actionSet))
	accuracySum := 0.0
	for i, cl := range actionSet {
		accuracies[i] = q.accuracy(cl)
		accuracySum += accuracies[i] * float64(cl.Numerosity)
	}
	if accuracySum <= 0 {
		return
	}
	for i, cl := range actionSet {
		share := accuracies[i] * float64(cl.Numerosity) / accuracySum
		cl.Fitness += q.constants.Beta * (share - cl.Fitness)
	}
}

func (q *QLearning) accuracy(cl *rule.Classifier) float64 {
	if cl.Experience == 0 {
		return 0
	}
	if cl.Epsilon <= q.constants.EpsilonZero {
		return 1
	}
	return q.constants.Alpha * math.Pow(cl.Epsilon/q.constants.EpsilonZero, -q.constants.Nu)
}
