package util

import (
	"math"
	"math/rand/v2"
	"time"
)

// Float64Source is satisfied by *rand.Rand.
type Float64Source interface {
	Float64() float64
}

// GenerateRandom returns an integer in [1, max]. The draw is round(u*max) with
// u in [0, 1), and a draw of 0 is lifted to 1, so max == 0 always yields 1.
func GenerateRandom(src Float64Source, max int) (int, error) {
	if max < 0 {
		return 0, ErrNegativeMax
	}
	n := int(math.Round(src.Float64() * float64(max)))
	if n == 0 {
		return 1, nil
	}
	return n, nil
}

// NewRand returns a PCG-backed generator. A zero seed picks one from the clock.
func NewRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	s := uint64(seed)
	return rand.New(rand.NewPCG(s, s^0x9e3779b97f4a7c15))
}
