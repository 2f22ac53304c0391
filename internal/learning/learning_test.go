package learning

import (
	"errors"
	"math"
	"testing"

	"xcskit/internal/rule"
	"xcskit/internal/symbol"
	"xcskit/internal/xcserr"
)

func testClassifier(t *testing.T) *rule.Classifier {
	t.Helper()
	value, err := symbol.NewValue(1)
	if err != nil {
		t.Fatalf("new value: %v", err)
	}
	cond, err := rule.NewCondition([]symbol.Symbol{value})
	if err != nil {
		t.Fatalf("new condition: %v", err)
	}
	cl, err := rule.NewClassifier(cond, 0, rule.DefaultConstants())
	if err != nil {
		t.Fatalf("new classifier: %v", err)
	}
	cl.Fitness = 0
	cl.Prediction = 0
	cl.Epsilon = 0
	return cl
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestNewQLearningValidation(t *testing.T) {
	for _, tc := range []struct {
		name   string
		mutate func(*Constants)
	}{
		{"zero beta", func(c *Constants) { c.Beta = 0 }},
		{"beta above one", func(c *Constants) { c.Beta = 1.5 }},
		{"zero epsilon zero", func(c *Constants) { c.EpsilonZero = 0 }},
		{"zero alpha", func(c *Constants) { c.Alpha = 0 }},
		{"zero nu", func(c *Constants) { c.Nu = 0 }},
	} {
		constants := DefaultConstants()
		tc.mutate(&constants)
		if _, err := NewQLearning(constants); !errors.Is(err, xcserr.ErrOutOfRange) {
			t.Fatalf("%s: expected ErrOutOfRange, got %v", tc.name, err)
		}
	}
}

func TestUpdateSetEmpty(t *testing.T) {
	q, err := NewQLearning(DefaultConstants())
	if err != nil {
		t.Fatalf("new qlearning: %v", err)
	}
	if err := q.UpdateSet(rule.Set{}, 1); !errors.Is(err, xcserr.ErrEmptyCollection) {
		t.Fatalf("expected ErrEmptyCollection, got %v", err)
	}
}

func TestUpdateSetAveragesEarlyHistory(t *testing.T) {
	q, err := NewQLearning(DefaultConstants())
	if err != nil {
		t.Fatalf("new qlearning: %v", err)
	}
	cl := testClassifier(t)
	set := rule.Set{cl}

	// first update averages over a history of one: the estimates jump
	// straight to the observed values
	if err := q.UpdateSet(set, 100); err != nil {
		t.Fatalf("update: %v", err)
	}
	if cl.Experience != 1 {
		t.Fatalf("expected experience 1, got %d", cl.Experience)
	}
	if !almostEqual(cl.Prediction, 100) || !almostEqual(cl.Epsilon, 100) {
		t.Fatalf("expected prediction/error 100/100, got %v/%v", cl.Prediction, cl.Epsilon)
	}
	// a lone rule always receives the full fitness share
	if !almostEqual(cl.Fitness, 0.2) {
		t.Fatalf("expected fitness 0.2, got %v", cl.Fitness)
	}

	// second identical reward halves the error, prediction is settled
	if err := q.UpdateSet(set, 100); err != nil {
		t.Fatalf("update: %v", err)
	}
	if !almostEqual(cl.Prediction, 100) || !almostEqual(cl.Epsilon, 50) {
		t.Fatalf("expected prediction/error 100/50, got %v/%v", cl.Prediction, cl.Epsilon)
	}
}

func TestUpdateSetSwitchesToFixedLearningRate(t *testing.T) {
	q, err := NewQLearning(DefaultConstants())
	if err != nil {
		t.Fatalf("new qlearning: %v", err)
	}
	cl := testClassifier(t)
	set := rule.Set{cl}

	for i := 0; i < 6; i++ {
		if err := q.UpdateSet(set, 100); err != nil {
			t.Fatalf("update %d: %v", i, err)
		}
	}

	// 1, 1/2, 1/3, 1/4 averaging steps then two fixed beta=0.2 steps:
	// 100 -> 50 -> 100/3 -> 25 -> 20 -> 16
	if !almostEqual(cl.Epsilon, 16) {
		t.Fatalf("expected error 16 after six identical rewards, got %v", cl.Epsilon)
	}
	if !almostEqual(cl.Prediction, 100) {
		t.Fatalf("prediction should stay settled at 100, got %v", cl.Prediction)
	}
}

func TestUpdateSetTracksActionSetSize(t *testing.T) {
	q, err := NewQLearning(DefaultConstants())
	if err != nil {
		t.Fatalf("new qlearning: %v", err)
	}
	cl := testClassifier(t)
	cl.Numerosity = 3
	set := rule.Set{cl}

	if err := q.UpdateSet(set, 0); err != nil {
		t.Fatalf("update: %v", err)
	}
	if !almostEqual(cl.ActionSetSize, 3) {
		t.Fatalf("expected action set size 3, got %v", cl.ActionSetSize)
	}
}

func TestFitnessSharingFavorsAccurateRules(t *testing.T) {
	constants := Constants{Beta: 0.2, EpsilonZero: 10, Alpha: 0.1, Nu: 1}
	q, err := NewQLearning(constants)
	if err != nil {
		t.Fatalf("new qlearning: %v", err)
	}

	accurate := testClassifier(t)
	accurate.Experience = 10
	accurate.Prediction = 100
	accurate.Epsilon = 0

	inaccurate := testClassifier(t)
	inaccurate.Experience = 10
	inaccurate.Prediction = 0
	inaccurate.Epsilon = 100

	if err := q.UpdateSet(rule.Set{accurate, inaccurate}, 100); err != nil {
		t.Fatalf("update: %v", err)
	}

	// accuracies 1 and 0.1*(100/10)^-1 = 0.01 share a beta-sized step
	if !almostEqual(accurate.Fitness, 0.2*(1/1.01)) {
		t.Fatalf("expected accurate fitness %v, got %v", 0.2*(1/1.01), accurate.Fitness)
	}
	if !almostEqual(inaccurate.Fitness, 0.2*(0.01/1.01)) {
		t.Fatalf("expected inaccurate fitness %v, got %v", 0.2*(0.01/1.01), inaccurate.Fitness)
	}
}

func TestShareFitnessSkipsZeroAccuracyMass(t *testing.T) {
	q, err := NewQLearning(DefaultConstants())
	if err != nil {
		t.Fatalf("new qlearning: %v", err)
	}

	cl := testClassifier(t)
	cl.Fitness = 0.4
	// experience zero means zero accuracy; fitness must not move
	q.shareFitness(rule.Set{cl})
	if cl.Fitness != 0.4 {
		t.Fatalf("fitness must be untouched, got %v", cl.Fitness)
	}
}
