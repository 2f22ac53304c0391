package training

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"testing"

	"xcskit/internal/covering"
	"xcskit/internal/discovery"
	"xcskit/internal/engine"
	"xcskit/internal/environment"
	"xcskit/internal/learning"
	"xcskit/internal/performance"
	"xcskit/internal/population"
	"xcskit/internal/rule"
	"xcskit/internal/selection"
	"xcskit/internal/subsumption"
	"xcskit/internal/xcserr"
)

func newTestEngine(t *testing.T, rng *rand.Rand) *engine.XCS {
	t.Helper()

	pop, err := population.New(200, subsumption.DefaultExperiencePrecision(), selection.RouletteWheel{}, population.DefaultConstants(), rng)
	if err != nil {
		t.Fatalf("new population: %v", err)
	}
	cov, err := covering.NewWildcards(0.33, rule.DefaultConstants(), rng)
	if err != nil {
		t.Fatalf("new covering: %v", err)
	}
	perf, err := performance.New(cov, []int{0, 1}, 2, rng)
	if err != nil {
		t.Fatalf("new performance: %v", err)
	}
	ga, err := discovery.NewGeneticAlgorithm([]int{0, 1}, selection.RouletteWheel{}, discovery.DefaultConstants(), rng)
	if err != nil {
		t.Fatalf("new ga: %v", err)
	}
	q, err := learning.NewQLearning(learning.DefaultConstants())
	if err != nil {
		t.Fatalf("new qlearning: %v", err)
	}

	xcs, err := engine.New(engine.Config{
		Population:  pop,
		Performance: perf,
		Discovery:   ga,
		Learning:    q,
		Criteria:    subsumption.DefaultExperiencePrecision(),
		Gamma:       0.71,
	})
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return xcs
}

func TestNewTrainerValidation(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	if _, err := NewTrainer(1.5, rng); !errors.Is(err, xcserr.ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange, got %v", err)
	}
	if _, err := NewTrainer(0.5, nil); !errors.Is(err, xcserr.ErrNilValue) {
		t.Fatalf("expected ErrNilValue, got %v", err)
	}
}

func TestTrainReturnsOneRewardPerIteration(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	xcs := newTestEngine(t, rng)
	env, err := environment.Resolve("multiplexer-6", rng)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	trainer, err := NewTrainer(0.5, rng)
	if err != nil {
		t.Fatalf("new trainer: %v", err)
	}

	rewards, err := trainer.Train(context.Background(), xcs, env, 50)
	if err != nil {
		t.Fatalf("train: %v", err)
	}
	if len(rewards) != 50 {
		t.Fatalf("expected 50 rewards, got %d", len(rewards))
	}
	for i, reward := range rewards {
		if reward != 0 && reward != 1000 {
			t.Fatalf("iteration %d: multiplexer rewards are 0 or 1000, got %v", i, reward)
		}
	}
	if xcs.AwaitingReward() {
		t.Fatal("training must leave no pending step")
	}
	if pop := xcs.Population(); pop.Len() == 0 {
		t.Fatal("covering must have filled the population")
	}
}

func TestTrainValidation(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	xcs := newTestEngine(t, rng)
	env, err := environment.Resolve("multiplexer-6", rng)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	trainer, err := NewTrainer(0.5, rng)
	if err != nil {
		t.Fatalf("new trainer: %v", err)
	}

	ctx := context.Background()
	if _, err := trainer.Train(ctx, nil, env, 1); !errors.Is(err, xcserr.ErrNilValue) {
		t.Fatalf("expected ErrNilValue for engine, got %v", err)
	}
	if _, err := trainer.Train(ctx, xcs, nil, 1); !errors.Is(err, xcserr.ErrNilValue) {
		t.Fatalf("expected ErrNilValue for environment, got %v", err)
	}
	if _, err := trainer.Train(ctx, xcs, env, 0); !errors.Is(err, xcserr.ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange for iterations, got %v", err)
	}
}

func TestTrainStopsOnCancelledContext(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	xcs := newTestEngine(t, rng)
	env, err := environment.Resolve("multiplexer-6", rng)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	trainer, err := NewTrainer(0.5, rng)
	if err != nil {
		t.Fatalf("new trainer: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	rewards, err := trainer.Train(ctx, xcs, env, 100)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(rewards) != 0 {
		t.Fatalf("no iterations expected after cancellation, got %d", len(rewards))
	}
}

func TestEvaluateDoesNotCommitSteps(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	xcs := newTestEngine(t, rng)
	env, err := environment.Resolve("multiplexer-6", rng)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	trainer, err := NewTrainer(0.5, rng)
	if err != nil {
		t.Fatalf("new trainer: %v", err)
	}

	rewards, err := trainer.Evaluate(context.Background(), xcs, env, 10)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if len(rewards) != 10 {
		t.Fatalf("expected 10 rewards, got %d", len(rewards))
	}
	if xcs.Timestamp() != 0 {
		t.Fatalf("evaluation must not advance the learning clock, got %d", xcs.Timestamp())
	}
}

func TestScoreComputesTheConfusionRatios(t *testing.T) {
	predicted := []int{1, 1, 0, 1, 0, 0}
	expected := []int{1, 0, 0, 1, 1, 0}

	m, err := Score(predicted, expected, 1)
	if err != nil {
		t.Fatalf("score: %v", err)
	}

	// 2 true positives, 1 false positive, 1 false negative, 4 correct
	if math.Abs(m.Accuracy-4.0/6.0) > 1e-9 {
		t.Fatalf("expected accuracy 4/6, got %v", m.Accuracy)
	}
	if math.Abs(m.Precision-2.0/3.0) > 1e-9 {
		t.Fatalf("expected precision 2/3, got %v", m.Precision)
	}
	if math.Abs(m.Recall-2.0/3.0) > 1e-9 {
		t.Fatalf("expected recall 2/3, got %v", m.Recall)
	}
	if math.Abs(m.F1-2.0/3.0) > 1e-9 {
		t.Fatalf("expected f1 2/3, got %v", m.F1)
	}
}

func TestScoreHandlesEmptyDenominators(t *testing.T) {
	m, err := Score([]int{0, 0}, []int{0, 0}, 1)
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	if m.Accuracy != 1 || m.Precision != 0 || m.Recall != 0 || m.F1 != 0 {
		t.Fatalf("expected accuracy 1 and zero positive-class ratios, got %+v", m)
	}
}

func TestScoreValidation(t *testing.T) {
	if _, err := Score(nil, nil, 1); !errors.Is(err, xcserr.ErrEmptyCollection) {
		t.Fatalf("expected ErrEmptyCollection, got %v", err)
	}
	if _, err := Score([]int{1}, []int{1, 0}, 1); !errors.Is(err, xcserr.ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange, got %v", err)
	}
}
