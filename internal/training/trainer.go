// Package training drives an engine against an environment and measures
// the outcome.
package training

import (
	"context"
	"math/rand"

	"xcskit/internal/engine"
	"xcskit/internal/environment"
	"xcskit/internal/xcserr"
)

// Trainer runs explore/exploit problem instances against an environment.
type Trainer struct {
	exploreProbability float64
	rng                *rand.Rand
}

func NewTrainer(exploreProbability float64, rng *rand.Rand) (*Trainer, error) {
	if exploreProbability < 0 || exploreProbability > 1 {
		return nil, xcserr.OutOfRange("explore probability", 0, 1, exploreProbability)
	}
	if rng == nil {
		return nil, xcserr.Nil("rng")
	}
	return &Trainer{exploreProbability: exploreProbability, rng: rng}, nil
}

// Train runs the given number of problem instances, learning throughout,
// and returns the total reward earned by each instance. Each instance
// explores or exploits as a whole, decided by the explore probability.
func (t *Trainer) Train(ctx context.Context, xcs *engine.XCS, env environment.Environment, iterations int) ([]float64, error) {
	if xcs == nil {
		return nil, xcserr.Nil("engine")
	}
	if env == nil {
		return nil, xcserr.Nil("environment")
	}
	if iterations < 1 {
		return nil, xcserr.OutOfRange("iterations", 1, 1e18, float64(iterations))
	}

	rewards := make([]float64, 0, iterations)
	for i := 0; i < iterations; i++ {
		if err := ctx.Err(); err != nil {
			return rewards, err
		}
		isExplore := t.rng.Float64() < t.exploreProbability
		total, err := t.runProblem(xcs, env, isExplore)
		if err != nil {
			return rewards, err
		}
		rewards = append(rewards, total)
	}
	return rewards, nil
}

// Evaluate measures greedy performance over the given number of problem
// instances without reinforcing any rule. Covering may still occur.
func (t *Trainer) Evaluate(ctx context.Context, xcs *engine.XCS, env environment.Environment, iterations int) ([]float64, error) {
	if xcs == nil {
		return nil, xcserr.Nil("engine")
	}
	if env == nil {
		return nil, xcserr.Nil("environment")
	}
	if iterations < 1 {
		return nil, xcserr.OutOfRange("iterations", 1, 1e18, float64(iterations))
	}

	rewards := make([]float64, 0, iterations)
	for i := 0; i < iterations; i++ {
		if err := ctx.Err(); err != nil {
			return rewards, err
		}
		env.Reset()
		total := 0.0
		for !env.EndOfProblem() {
			action, _, err := xcs.Query(env.State())
			if err != nil {
				return rewards, err
			}
			reward, err := env.ExecuteAction(action)
			if err != nil {
				return rewards, err
			}
			total += reward
		}
		rewards = append(rewards, total)
	}
	return rewards, nil
}

func (t *Trainer) runProblem(xcs *engine.XCS, env environment.Environment, isExplore bool) (float64, error) {
	env.Reset()
	total := 0.0
	for !env.EndOfProblem() {
		action, err := xcs.Run(env.State(), isExplore)
		if err != nil {
			return total, err
		}
		reward, err := env.ExecuteAction(action)
		if err != nil {
			return total, err
		}
		total += reward
		if err := xcs.Reward(reward, env.EndOfProblem()); err != nil {
			return total, err
		}
	}
	return total, nil
}
