package symbol

import (
	"errors"
	"math"
	"testing"

	"xcskit/internal/xcserr"
)

func TestWildcardMatchesEverythingButNaN(t *testing.T) {
	w := Wildcard{}
	for _, v := range []float64{0, 1, -3.5, math.Inf(1), math.Inf(-1)} {
		if !w.Matches(v) {
			t.Fatalf("wildcard should match %v", v)
		}
	}
	if w.Matches(math.NaN()) {
		t.Fatal("wildcard should not match NaN")
	}
}

func TestValueMatchesExactly(t *testing.T) {
	v, err := NewValue(1.5)
	if err != nil {
		t.Fatalf("new value: %v", err)
	}
	if !v.Matches(1.5) {
		t.Fatal("value should match itself")
	}
	if v.Matches(1.5000001) {
		t.Fatal("value should not match a different input")
	}
	if _, err := NewValue(math.NaN()); err == nil {
		t.Fatal("expected error for NaN value")
	}
}

func TestCompareGenerality(t *testing.T) {
	one, _ := NewValue(1)
	otherOne, _ := NewValue(1)
	two, _ := NewValue(2)

	cases := []struct {
		name string
		a, b Symbol
		want Generality
	}{
		{"wildcard vs wildcard", Wildcard{}, Wildcard{}, Equal},
		{"wildcard vs value", Wildcard{}, one, MoreGeneral},
		{"value vs wildcard", one, Wildcard{}, LessGeneral},
		{"equal values", one, otherOne, Equal},
		{"different values", one, two, Undecidable},
	}
	for _, tc := range cases {
		got, err := tc.a.Compare(tc.b)
		if err != nil {
			t.Fatalf("%s: %v", tc.name, err)
		}
		if got != tc.want {
			t.Fatalf("%s: got %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestValueVsBoundIsIncomparable(t *testing.T) {
	one, _ := NewValue(1)
	cs, _ := NewCenterSpread(1, 1)

	if _, err := one.Compare(cs); !errors.Is(err, xcserr.ErrIncomparable) {
		t.Fatalf("expected ErrIncomparable, got %v", err)
	}
	if _, err := cs.Compare(one); !errors.Is(err, xcserr.ErrIncomparable) {
		t.Fatalf("expected ErrIncomparable, got %v", err)
	}
}

func TestCenterSpreadMatchesClosedInterval(t *testing.T) {
	cs, err := NewCenterSpread(10, 10)
	if err != nil {
		t.Fatalf("new center spread: %v", err)
	}

	for _, v := range []float64{0, 10, 20} {
		if !cs.Matches(v) {
			t.Fatalf("interval [0, 20] should match %v", v)
		}
	}
	for _, v := range []float64{-1, 20.0001, 21} {
		if cs.Matches(v) {
			t.Fatalf("interval [0, 20] should not match %v", v)
		}
	}
}

func TestCenterSpreadRejectsNegativeSpread(t *testing.T) {
	if _, err := NewCenterSpread(0, -0.1); !errors.Is(err, xcserr.ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange, got %v", err)
	}
}

func TestOrderedBoundNormalizesInvertedBounds(t *testing.T) {
	ob := NewOrderedBound(5, 2)
	if ob.Lower() != 2 || ob.Upper() != 5 {
		t.Fatalf("expected [2, 5], got [%v, %v]", ob.Lower(), ob.Upper())
	}
	if !ob.Matches(3) || ob.Matches(6) {
		t.Fatal("normalized interval should match 3 and reject 6")
	}
}

func TestBoundContainmentCompare(t *testing.T) {
	wide := NewOrderedBound(0, 10)
	narrow := NewOrderedBound(2, 8)
	shifted := NewOrderedBound(5, 15)

	if g, _ := wide.Compare(narrow); g != MoreGeneral {
		t.Fatalf("containing interval should be more general, got %v", g)
	}
	if g, _ := narrow.Compare(wide); g != LessGeneral {
		t.Fatalf("contained interval should be less general, got %v", g)
	}
	if g, _ := wide.Compare(shifted); g != Undecidable {
		t.Fatalf("overlapping intervals should be undecidable, got %v", g)
	}
}

func TestBoundFormsCompareByInterval(t *testing.T) {
	cs, _ := NewCenterSpread(1, 1)
	ob := NewOrderedBound(0, 2)

	if g, err := cs.Compare(ob); err != nil || g != Equal {
		t.Fatalf("expected equal intervals across forms, got %v (%v)", g, err)
	}
	if !cs.Equal(ob) || !ob.Equal(cs) {
		t.Fatal("equal intervals should be structurally equal across forms")
	}
}

func TestBoundVsWildcard(t *testing.T) {
	ob := NewOrderedBound(0, 2)
	if g, _ := ob.Compare(Wildcard{}); g != LessGeneral {
		t.Fatalf("bound vs wildcard should be less general, got %v", g)
	}
	if g, _ := (Wildcard{}).Compare(ob); g != MoreGeneral {
		t.Fatalf("wildcard vs bound should be more general, got %v", g)
	}
}
