package rule

import (
	"testing"
)

func TestNewClassifierDefaults(t *testing.T) {
	cl, err := NewClassifier(ternary(t, "1#0"), 1, DefaultConstants())
	if err != nil {
		t.Fatalf("new classifier: %v", err)
	}
	if cl.Numerosity != 1 {
		t.Fatalf("expected numerosity 1, got %d", cl.Numerosity)
	}
	if cl.Experience != 0 {
		t.Fatalf("expected zero experience, got %d", cl.Experience)
	}
	if cl.ActionSetSize != 1 {
		t.Fatalf("expected action set size 1, got %v", cl.ActionSetSize)
	}
	if cl.Fitness <= 0 || cl.Prediction <= 0 || cl.Epsilon <= 0 {
		t.Fatal("initial estimates must be positive")
	}
}

func TestNewClassifierRejectsEmptyCondition(t *testing.T) {
	if _, err := NewClassifier(Condition{}, 0, DefaultConstants()); err == nil {
		t.Fatal("expected error for empty condition")
	}
}

func TestSubsumesRequiresSameActionAndStrictGenerality(t *testing.T) {
	general, _ := NewClassifier(ternary(t, "#1#"), 1, DefaultConstants())
	specific, _ := NewClassifier(ternary(t, "010"), 1, DefaultConstants())
	otherAction, _ := NewClassifier(ternary(t, "010"), 0, DefaultConstants())

	if got, err := general.Subsumes(specific); err != nil || !got {
		t.Fatalf("expected subsumption, got %t (%v)", got, err)
	}
	if got, err := specific.Subsumes(general); err != nil || got {
		t.Fatalf("more specific rule must not subsume, got %t (%v)", got, err)
	}
	if got, err := general.Subsumes(otherAction); err != nil || got {
		t.Fatalf("different action must not subsume, got %t (%v)", got, err)
	}
	if got, err := general.Subsumes(general); err != nil || got {
		t.Fatalf("a rule must not subsume itself, got %t (%v)", got, err)
	}
}

func TestClassifierCloneIsDeep(t *testing.T) {
	original, _ := NewClassifier(ternary(t, "1#0"), 1, DefaultConstants())
	original.Fitness = 0.5
	clone := original.Clone()

	if clone == original {
		t.Fatal("clone must be a distinct record")
	}
	if clone.Fitness != original.Fitness || clone.Action != original.Action {
		t.Fatal("clone should copy statistics")
	}
	if original.Condition.Same(clone.Condition) {
		t.Fatal("clone must not share condition symbols")
	}
}

func TestSetNumerositySumAndActions(t *testing.T) {
	a, _ := NewClassifier(ternary(t, "1#"), 1, DefaultConstants())
	b, _ := NewClassifier(ternary(t, "0#"), 0, DefaultConstants())
	a.Numerosity = 3

	set := Set{a, b}
	if got := set.NumerositySum(); got != 4 {
		t.Fatalf("expected numerosity sum 4, got %d", got)
	}
	actions := set.Actions()
	if len(actions) != 2 || actions[0] != 0 || actions[1] != 1 {
		t.Fatalf("expected actions [0 1], got %v", actions)
	}

	only1 := set.FilterByAction(1)
	if len(only1) != 1 || only1[0] != a {
		t.Fatalf("expected filtered set with one rule, got %v", only1)
	}
}

func TestSetRemoveByIdentity(t *testing.T) {
	a, _ := NewClassifier(ternary(t, "1#"), 1, DefaultConstants())
	b, _ := NewClassifier(ternary(t, "1#"), 1, DefaultConstants())

	set := Set{a, b}
	if !set.Remove(a) {
		t.Fatal("expected removal of a")
	}
	if len(set) != 1 || set[0] != b {
		t.Fatal("only the identical record should be removed")
	}
	if set.Remove(a) {
		t.Fatal("removing twice should report false")
	}
}
