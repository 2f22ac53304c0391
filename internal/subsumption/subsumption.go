// Package subsumption decides whether a classifier is trustworthy enough
// to absorb more specific rules.
package subsumption

import (
	"math"

	"xcskit/internal/rule"
	"xcskit/internal/xcserr"
)

// Criteria gates subsumption merges during learning and discovery.
type Criteria interface {
	CanSubsume(cl *rule.Classifier) (bool, error)
}

// ExperiencePrecision allows a classifier to subsume when it has seen
// enough updates and its prediction error is small enough.
type ExperiencePrecision struct {
	minExperience int
	maxEpsilon    float64
}

func NewExperiencePrecision(minExperience int, maxEpsilon float64) (ExperiencePrecision, error) {
	if minExperience < 0 {
		return ExperiencePrecision{}, xcserr.OutOfRange("min experience", 0, math.Inf(1), float64(minExperience))
	}
	if maxEpsilon < 0 {
		return ExperiencePrecision{}, xcserr.OutOfRange("max epsilon", 0, math.Inf(1), maxEpsilon)
	}
	return ExperiencePrecision{minExperience: minExperience, maxEpsilon: maxEpsilon}, nil
}

// DefaultExperiencePrecision uses the standard thresholds: 25 updates and
// a near-zero prediction error.
func DefaultExperiencePrecision() ExperiencePrecision {
	return ExperiencePrecision{minExperience: 25, maxEpsilon: math.Nextafter(1, 2) - 1}
}

func (c ExperiencePrecision) CanSubsume(cl *rule.Classifier) (bool, error) {
	if cl == nil {
		return false, xcserr.Nil("classifier")
	}
	return cl.Experience >= c.minExperience && cl.Epsilon <= c.maxEpsilon, nil
}
