package rule

import (
	"fmt"
	"math"
)

// machine epsilon, the initial value the original hyperparameter tables
// use for fitness, prediction and error estimates
var initEstimate = math.Nextafter(1, 2) - 1

// Constants holds the initial statistic values for new classifiers.
type Constants struct {
	FitnessInit    float64
	PredictionInit float64
	EpsilonInit    float64
}

func DefaultConstants() Constants {
	return Constants{
		FitnessInit:    initEstimate,
		PredictionInit: initEstimate,
		EpsilonInit:    initEstimate,
	}
}

// Classifier is a condition->action rule carrying learned statistics.
// The condition/action pair is fixed after discovery or covering creates
// the rule; the statistics are mutated in place by learning updates,
// subsumption merges and deletion.
type Classifier struct {
	Condition Condition
	Action    int

	Fitness       float64
	Prediction    float64
	Epsilon       float64
	Numerosity    int
	Experience    int
	ActionSetSize float64

	// GATimestamp records when the genetic algorithm last ran on an
	// action set this rule belonged to. GATagged marks rules created
	// outside the GA that have not been encountered by it yet.
	GATimestamp int
	GATagged    bool
}

// NewClassifier creates a rule with default statistics.
func NewClassifier(condition Condition, action int, constants Constants) (*Classifier, error) {
	if condition.Len() == 0 {
		return nil, fmt.Errorf("new classifier: %w", errEmptyCondition)
	}
	return &Classifier{
		Condition:     condition,
		Action:        action,
		Fitness:       constants.FitnessInit,
		Prediction:    constants.PredictionInit,
		Epsilon:       constants.EpsilonInit,
		Numerosity:    1,
		ActionSetSize: 1,
	}, nil
}

// Subsumes reports whether this rule proposes the same action and has a
// strictly more general condition than other. Equal conditions do not
// subsume.
func (c *Classifier) Subsumes(other *Classifier) (bool, error) {
	if other == nil {
		return false, errNilClassifier
	}
	if c.Action != other.Action {
		return false, nil
	}
	return c.Condition.IsMoreGeneral(other.Condition)
}

// Clone deep-copies the rule, including its condition symbols.
func (c *Classifier) Clone() *Classifier {
	clone := *c
	clone.Condition = c.Condition.Clone()
	return &clone
}

func (c *Classifier) String() string {
	return fmt.Sprintf("%s : %d, F:%.4f, P:%.4f, E:%.4f, N:%d, exp:%d",
		c.Condition, c.Action, c.Fitness, c.Prediction, c.Epsilon, c.Numerosity, c.Experience)
}
