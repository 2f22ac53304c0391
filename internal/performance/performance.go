// Package performance forms match sets for incoming states and selects
// an action from the fitness-weighted predictions of the matching rules.
package performance

import (
	"math/rand"

	"xcskit/internal/covering"
	"xcskit/internal/population"
	"xcskit/internal/rule"
	"xcskit/internal/xcserr"
)

// denominator floor for the prediction array when every matching rule
// still carries zero fitness
const fitnessFloor = 1e-12

// Component builds match sets and chooses actions.
type Component struct {
	covering         covering.Component
	availableActions []int
	minDiffActions   int
	rng              *rand.Rand
}

func New(cov covering.Component, availableActions []int, minDiffActions int, rng *rand.Rand) (*Component, error) {
	if cov == nil {
		return nil, xcserr.Nil("covering component")
	}
	if len(availableActions) == 0 {
		return nil, xcserr.Empty("available actions")
	}
	if minDiffActions < 0 || minDiffActions > len(availableActions) {
		return nil, xcserr.OutOfRange("min diff actions", 0, float64(len(availableActions)), float64(minDiffActions))
	}
	if rng == nil {
		return nil, xcserr.Nil("rng")
	}
	return &Component{
		covering:         cov,
		availableActions: append([]int(nil), availableActions...),
		minDiffActions:   minDiffActions,
		rng:              rng,
	}, nil
}

// GenerateMatchSet collects every classifier matching the state. When
// fewer distinct actions are present than the configured threshold,
// covering fills in the missing actions one at a time, inserting each new
// rule into both the population and the match set. Missing actions are
// tried in random order.
func (c *Component) GenerateMatchSet(pop *population.Population, state rule.State) (rule.Set, error) {
	if pop == nil {
		return nil, xcserr.Nil("population")
	}
	if len(state) == 0 {
		return nil, xcserr.Empty("state")
	}

	matchSet := make(rule.Set, 0)
	for _, cl := range pop.Members() {
		matches, err := cl.Condition.Matches(state)
		if err != nil {
			return nil, err
		}
		if matches {
			matchSet = append(matchSet, cl)
		}
	}

	if c.minDiffActions <= 0 {
		return matchSet, nil
	}

	present := make(map[int]struct{}, len(matchSet))
	for _, cl := range matchSet {
		present[cl.Action] = struct{}{}
	}

	missing := make([]int, 0, len(c.availableActions))
	for _, action := range c.availableActions {
		if _, ok := present[action]; !ok {
			missing = append(missing, action)
		}
	}
	c.rng.Shuffle(len(missing), func(i, j int) {
		missing[i], missing[j] = missing[j], missing[i]
	})

	for _, action := range missing {
		if len(present) >= c.minDiffActions {
			break
		}
		covered, err := c.covering.Cover(state, action)
		if err != nil {
			return nil, err
		}
		if err := pop.Insert(covered, false); err != nil {
			return nil, err
		}
		matchSet = append(matchSet, covered)
		present[action] = struct{}{}
	}

	return matchSet, nil
}

// ChooseAction picks an action from the match set and returns it together
// with its predicted payoff. Exploring picks uniformly among the present
// actions; exploiting picks the best fitness-weighted mean prediction,
// ties broken toward the lowest action.
func (c *Component) ChooseAction(matchSet rule.Set, isExplore bool) (int, float64, error) {
	if len(matchSet) == 0 {
		return 0, 0, xcserr.Empty("match set")
	}

	actions := matchSet.Actions()
	predictions := make(map[int]float64, len(actions))
	for _, action := range actions {
		weighted := 0.0
		fitnessSum := 0.0
		for _, cl := range matchSet {
			if cl.Action != action {
				continue
			}
			weighted += cl.Prediction * cl.Fitness
			fitnessSum += cl.Fitness
		}
		if fitnessSum < fitnessFloor {
			fitnessSum = fitnessFloor
		}
		predictions[action] = weighted / fitnessSum
	}

	if isExplore {
		action := actions[c.rng.Intn(len(actions))]
		return action, predictions[action], nil
	}

	best := actions[0]
	for _, action := range actions[1:] {
		if predictions[action] > predictions[best] {
			best = action
		}
	}
	return best, predictions[best], nil
}
