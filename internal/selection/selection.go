// Package selection provides index-selection strategies shared by GA
// parent choice and population deletion.
package selection

import (
	"math"
	"math/rand"

	"xcskit/internal/xcserr"
)

// Strategy picks one index out of n candidates scored by score.
type Strategy interface {
	SelectIndex(rng *rand.Rand, n int, score func(int) float64) (int, error)
}

// RouletteWheel selects proportionally to score: a single uniform draw is
// scaled by the score total and the first index whose cumulative score
// exceeds the draw point wins. Callers must not invoke it with an
// all-zero score vector.
type RouletteWheel struct{}

func (RouletteWheel) SelectIndex(rng *rand.Rand, n int, score func(int) float64) (int, error) {
	if rng == nil {
		return 0, xcserr.Nil("rng")
	}
	if n <= 0 {
		return 0, xcserr.Empty("candidates")
	}
	total := 0.0
	for i := 0; i < n; i++ {
		total += score(i)
	}
	if total <= 0 {
		return 0, xcserr.OutOfRange("score total", math.SmallestNonzeroFloat64, math.Inf(1), total)
	}
	point := rng.Float64() * total
	acc := 0.0
	for i := 0; i < n; i++ {
		acc += score(i)
		if acc > point {
			return i, nil
		}
	}
	// floating point accumulation can land exactly on the total
	return n - 1, nil
}

// Tournament draws distinct candidates without replacement and keeps the
// best-scoring one seen.
type Tournament struct {
	size int
}

func NewTournament(size int) (Tournament, error) {
	if size < 1 {
		return Tournament{}, xcserr.OutOfRange("tournament size", 1, math.Inf(1), float64(size))
	}
	return Tournament{size: size}, nil
}

func (t Tournament) SelectIndex(rng *rand.Rand, n int, score func(int) float64) (int, error) {
	if rng == nil {
		return 0, xcserr.Nil("rng")
	}
	if n <= 0 {
		return 0, xcserr.Empty("candidates")
	}

	rounds := t.size
	if rounds > n {
		rounds = n
	}

	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}

	bestIndex := -1
	bestScore := 0.0
	for round := 0; round < rounds; round++ {
		pick := rng.Intn(len(indices))
		index := indices[pick]
		if bestIndex < 0 || score(index) > bestScore {
			bestIndex = index
			bestScore = score(index)
		}
		indices = append(indices[:pick], indices[pick+1:]...)
	}
	return bestIndex, nil
}
