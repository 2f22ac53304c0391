// Package engine drives the full classifier-system loop. An XCS instance
// alternates between Run, which matches a state and commits to an action,
// and Reward, which credits the committed action set and triggers rule
// discovery. Multi-step problems chain steps with a discounted one-step
// backup.
package engine

import (
	"xcskit/internal/discovery"
	"xcskit/internal/learning"
	"xcskit/internal/performance"
	"xcskit/internal/population"
	"xcskit/internal/rule"
	"xcskit/internal/subsumption"
	"xcskit/internal/xcserr"
)

// Config wires the engine from its components. All references are
// required; the engine owns none of them.
type Config struct {
	Population  *population.Population
	Performance *performance.Component
	Discovery   discovery.Component
	Learning    learning.Component
	Criteria    subsumption.Criteria
	// Gamma discounts the successor payoff folded into the previous
	// step's credit.
	Gamma float64
	// DoActionSetSubsumption condenses each credited action set under
	// its most general accurate member.
	DoActionSetSubsumption bool
	// DoDiscoverySubsumption lets population insertion absorb GA
	// children into more general accurate rules.
	DoDiscoverySubsumption bool
}

func (c Config) validate() error {
	if c.Population == nil {
		return xcserr.Nil("population")
	}
	if c.Performance == nil {
		return xcserr.Nil("performance component")
	}
	if c.Discovery == nil {
		return xcserr.Nil("discovery component")
	}
	if c.Learning == nil {
		return xcserr.Nil("learning component")
	}
	if c.Criteria == nil {
		return xcserr.Nil("subsumption criteria")
	}
	if c.Gamma < 0 || c.Gamma > 1 {
		return xcserr.OutOfRange("gamma", 0, 1, c.Gamma)
	}
	return nil
}

// step is one committed decision awaiting (or carrying) its reward.
type step struct {
	state          rule.State
	actionSet      rule.Set
	action         int
	isExplore      bool
	receivedReward float64
}

// XCS is the learning engine. It is not safe for concurrent use; every
// call must come from one goroutine.
type XCS struct {
	cfg       Config
	timestamp int
	current   *step
	previous  *step
}

func New(cfg Config) (*XCS, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &XCS{cfg: cfg}, nil
}

// Timestamp is the number of Run calls performed so far.
func (e *XCS) Timestamp() int { return e.timestamp }

// Population exposes the rule population the engine learns into.
func (e *XCS) Population() *population.Population { return e.cfg.Population }

// AwaitingReward reports whether the last Run has not been rewarded yet.
func (e *XCS) AwaitingReward() bool { return e.current != nil }

// Run matches the state against the population, covering as needed, and
// commits to an action. The caller must deliver the outcome through
// Reward before running again.
func (e *XCS) Run(state rule.State, isExplore bool) (int, error) {
	if e.current != nil {
		return 0, xcserr.Protocol("run called while a reward is pending")
	}
	e.timestamp++

	matchSet, err := e.cfg.Performance.GenerateMatchSet(e.cfg.Population, state)
	if err != nil {
		return 0, err
	}
	action, _, err := e.cfg.Performance.ChooseAction(matchSet, isExplore)
	if err != nil {
		return 0, err
	}
	e.current = &step{
		state:     state.Clone(),
		actionSet: matchSet.FilterByAction(action),
		action:    action,
		isExplore: isExplore,
	}
	return action, nil
}

// Query returns the engine's best action for a state without committing
// to it. Covering may still add rules to the population, but no
// statistics change and no reward is expected.
func (e *XCS) Query(state rule.State) (int, float64, error) {
	matchSet, err := e.cfg.Performance.GenerateMatchSet(e.cfg.Population, state)
	if err != nil {
		return 0, 0, err
	}
	return e.cfg.Performance.ChooseAction(matchSet, false)
}

// Reward delivers the payoff for the pending step. The step before it,
// if any, is credited with its own reward plus the discounted current
// value. When endOfProblem is true the pending step is credited
// immediately and the chain resets; otherwise the step is carried until
// the next Reward supplies its successor value.
func (e *XCS) Reward(value float64, endOfProblem bool) error {
	if e.current == nil {
		return xcserr.Protocol("reward called without a pending run")
	}

	if e.previous != nil {
		payoff := e.previous.receivedReward + e.cfg.Gamma*value
		if err := e.credit(e.previous, payoff); err != nil {
			return err
		}
		e.previous = nil
	}

	if endOfProblem {
		if err := e.credit(e.current, value); err != nil {
			return err
		}
		e.current = nil
		return nil
	}

	e.current.receivedReward = value
	e.previous = e.current
	e.current = nil
	return nil
}

// credit reinforces a step's action set, optionally condenses it, and on
// explore steps lets the GA breed from it.
func (e *XCS) credit(s *step, payoff float64) error {
	if err := e.cfg.Learning.UpdateSet(s.actionSet, payoff); err != nil {
		return err
	}
	if e.cfg.DoActionSetSubsumption {
		if err := e.subsumeActionSet(&s.actionSet); err != nil {
			return err
		}
	}
	if !s.isExplore {
		return nil
	}
	children, err := e.cfg.Discovery.Discover(e.timestamp, s.state, s.actionSet)
	if err != nil {
		return err
	}
	for _, child := range children {
		if err := e.cfg.Population.Insert(child, e.cfg.DoDiscoverySubsumption); err != nil {
			return err
		}
	}
	return nil
}

// subsumeActionSet folds the set's members into its most general member
// that satisfies the subsumption criteria. Ties on generality keep the
// first candidate found.
func (e *XCS) subsumeActionSet(actionSet *rule.Set) error {
	var subsumer *rule.Classifier
	for _, cl := range *actionSet {
		ok, err := e.cfg.Criteria.CanSubsume(cl)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		if subsumer == nil {
			subsumer = cl
			continue
		}
		more, err := cl.Condition.IsMoreGeneral(subsumer.Condition)
		if err != nil {
			return err
		}
		if more {
			subsumer = cl
		}
	}
	if subsumer == nil {
		return nil
	}

	var absorbed []*rule.Classifier
	for _, cl := range *actionSet {
		if cl == subsumer {
			continue
		}
		more, err := subsumer.Condition.IsMoreGeneral(cl.Condition)
		if err != nil {
			return err
		}
		if more {
			absorbed = append(absorbed, cl)
		}
	}
	for _, cl := range absorbed {
		subsumer.Numerosity += cl.Numerosity
		e.cfg.Population.Remove(cl)
		actionSet.Remove(cl)
	}
	return nil
}
