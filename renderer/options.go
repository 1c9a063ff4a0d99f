package renderer

import "github.com/achilleasa/polaris-cpu/tracer/integrator"

type Options struct {
	// Number of samples.
	SamplesPerPixel uint32

	// Number of tracer workers. If zero, one worker per cpu is used. The
	// worker count is capped to the frame height.
	NumWorkers uint32

	// The light transport estimator.
	Integrator integrator.Type

	// Path continuation probability for Russian roulette.
	RussianRoulette float32

	// Base seed for the per-band random number generators. Band i is
	// rendered with seed Seed+i.
	Seed int64
}
