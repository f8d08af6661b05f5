package service

import (
	"course_seeder/internal/util"
	"math/rand/v2"

	"github.com/brianvoe/gofakeit/v7"
)

// Randomness bundles the fake-value generator and the draw source. With a
// non-zero seed two runs generate the same records apart from timestamps.
type Randomness struct {
	Faker *gofakeit.Faker
	Rand  *rand.Rand
}

func NewRandomness(seed int64) *Randomness {
	return &Randomness{
		Faker: gofakeit.New(uint64(seed)),
		Rand:  util.NewRand(seed),
	}
}
