// Package population owns the live classifiers of an XCS instance and
// enforces its capacity invariant: the summed numerosity never exceeds
// the configured maximum after any mutating operation completes.
package population

import (
	"math"
	"math/rand"

	"xcskit/internal/rule"
	"xcskit/internal/selection"
	"xcskit/internal/subsumption"
	"xcskit/internal/xcserr"
)

// Constants tune the deletion vote.
type Constants struct {
	// ThetaDel is the minimum experience before a classifier's fitness
	// weighs into its deletion probability.
	ThetaDel int
	// Delta is the fraction of the population mean fitness below which a
	// classifier's fitness increases its deletion vote.
	Delta float64
}

func DefaultConstants() Constants {
	return Constants{ThetaDel: 25, Delta: 0.1}
}

// Population is the ordered multiset of live classifiers.
type Population struct {
	maxSize   int
	criteria  subsumption.Criteria
	deletion  selection.Strategy
	constants Constants
	rng       *rand.Rand

	members rule.Set
}

func New(maxSize int, criteria subsumption.Criteria, deletion selection.Strategy, constants Constants, rng *rand.Rand) (*Population, error) {
	if maxSize <= 0 {
		return nil, xcserr.OutOfRange("max size", 1, math.Inf(1), float64(maxSize))
	}
	if criteria == nil {
		return nil, xcserr.Nil("subsumption criteria")
	}
	if deletion == nil {
		return nil, xcserr.Nil("deletion strategy")
	}
	if rng == nil {
		return nil, xcserr.Nil("rng")
	}
	if constants.Delta <= 0 {
		return nil, xcserr.OutOfRange("delta", math.SmallestNonzeroFloat64, math.Inf(1), constants.Delta)
	}
	if constants.ThetaDel < 0 {
		return nil, xcserr.OutOfRange("theta del", 0, math.Inf(1), float64(constants.ThetaDel))
	}
	return &Population{
		maxSize:   maxSize,
		criteria:  criteria,
		deletion:  deletion,
		constants: constants,
		rng:       rng,
	}, nil
}

func (p *Population) MaxSize() int { return p.maxSize }

func (p *Population) Len() int { return len(p.members) }

func (p *Population) NumerositySum() int { return p.members.NumerositySum() }

// Members returns the live records. The slice must be treated as
// read-only; the population stays the owner.
func (p *Population) Members() rule.Set { return p.members }

// Insert adds a classifier, trimming first if the capacity would be
// exceeded. An existing record with equal condition and action absorbs
// the numerosity instead; with doSubsumption, an eligible more general
// record may absorb it as well. Only as a last resort is a new record
// appended.
func (p *Population) Insert(cl *rule.Classifier, doSubsumption bool) error {
	if cl == nil {
		return xcserr.Nil("classifier")
	}
	if cl.Numerosity > p.maxSize {
		return xcserr.OutOfRange("classifier numerosity", 1, float64(p.maxSize), float64(cl.Numerosity))
	}

	if p.NumerositySum()+cl.Numerosity > p.maxSize {
		if err := p.Trim(p.maxSize - cl.Numerosity); err != nil {
			return err
		}
	}

	for _, member := range p.members {
		if member.Action == cl.Action && member.Condition.Equal(cl.Condition) {
			member.Numerosity += cl.Numerosity
			return nil
		}
	}

	if doSubsumption {
		for _, member := range p.members {
			subsumes, err := member.Subsumes(cl)
			if err != nil {
				return err
			}
			if !subsumes {
				continue
			}
			can, err := p.criteria.CanSubsume(member)
			if err != nil {
				return err
			}
			if can {
				member.Numerosity += cl.Numerosity
				return nil
			}
		}
	}

	p.members = append(p.members, cl)
	return nil
}

// Trim deletes rules until the summed numerosity is at most desiredSize.
// Growing the population is not a trim: desiredSize above the capacity is
// a precondition violation.
func (p *Population) Trim(desiredSize int) error {
	if desiredSize > p.maxSize || desiredSize < 0 {
		return xcserr.OutOfRange("desired size", 0, float64(p.maxSize), float64(desiredSize))
	}

	for p.NumerositySum() > desiredSize {
		numerositySum := float64(p.NumerositySum())
		fitnessSum := 0.0
		for _, cl := range p.members {
			fitnessSum += cl.Fitness
		}
		averageFitness := fitnessSum / numerositySum

		index, err := p.deletion.SelectIndex(p.rng, len(p.members), func(i int) float64 {
			return p.deletionVote(p.members[i], averageFitness)
		})
		if err != nil {
			return err
		}

		victim := p.members[index]
		if victim.Numerosity > 1 {
			victim.Numerosity--
		} else {
			p.members = append(p.members[:index], p.members[index+1:]...)
		}
	}
	return nil
}

// Remove drops the exact record from the population, regardless of its
// numerosity. Used when a subsumer absorbs a whole record.
func (p *Population) Remove(cl *rule.Classifier) bool {
	return p.members.Remove(cl)
}

// deletionVote scores a rule for deletion. Every rule pays for the niche
// space it occupies; rules that are experienced and still clearly below
// the population's mean fitness pay proportionally more. Inexperienced
// rules are protected from the extra penalty.
func (p *Population) deletionVote(cl *rule.Classifier, averageFitness float64) float64 {
	vote := cl.ActionSetSize * float64(cl.Numerosity)
	perRuleFitness := cl.Fitness / float64(cl.Numerosity)
	if cl.Experience > p.constants.ThetaDel && cl.Fitness > 0 && perRuleFitness < p.constants.Delta*averageFitness {
		vote *= averageFitness / perRuleFitness
	}
	return vote
}
