package rule

import (
	"sort"

	"xcskit/internal/xcserr"
)

var (
	errEmptyCondition = xcserr.Empty("condition")
	errNilClassifier  = xcserr.Nil("classifier")
)

// Set is an ordered collection of classifiers. Match sets and action sets
// are ephemeral Sets; the population wraps one with capacity invariants.
type Set []*Classifier

// NumerositySum is the total number of logical rules the set represents.
func (s Set) NumerositySum() int {
	sum := 0
	for _, cl := range s {
		sum += cl.Numerosity
	}
	return sum
}

// Actions returns the distinct actions present, in ascending order.
func (s Set) Actions() []int {
	seen := make(map[int]struct{}, len(s))
	for _, cl := range s {
		seen[cl.Action] = struct{}{}
	}
	actions := make([]int, 0, len(seen))
	for a := range seen {
		actions = append(actions, a)
	}
	sort.Ints(actions)
	return actions
}

// FilterByAction returns the subset proposing the given action.
func (s Set) FilterByAction(action int) Set {
	out := make(Set, 0, len(s))
	for _, cl := range s {
		if cl.Action == action {
			out = append(out, cl)
		}
	}
	return out
}

// Remove deletes the record identical to cl, preserving order. It reports
// whether anything was removed.
func (s *Set) Remove(cl *Classifier) bool {
	for i, member := range *s {
		if member == cl {
			*s = append((*s)[:i], (*s)[i+1:]...)
			return true
		}
	}
	return false
}
