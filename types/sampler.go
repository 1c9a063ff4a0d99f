package types

import "math/rand"

// Sampler provides uniformly distributed random values in [0, 1). Samplers
// are not safe for concurrent use; each render worker owns its own.
type Sampler interface {
	Get1D() float32
	Get2D() Vec2
}

// RandomSampler wraps a seeded math/rand source.
type RandomSampler struct {
	rng *rand.Rand
}

// Create a new sampler seeded with the given value.
func NewRandomSampler(seed int64) *RandomSampler {
	return &RandomSampler{rng: rand.New(rand.NewSource(seed))}
}

func (s *RandomSampler) Get1D() float32 {
	return s.rng.Float32()
}

func (s *RandomSampler) Get2D() Vec2 {
	return Vec2{s.rng.Float32(), s.rng.Float32()}
}
