package types

import "math"

// Ray defines a ray with an origin and a normalized direction. The inverse
// direction and the per-axis direction signs are precomputed for slab tests.
type Ray struct {
	Origin Vec3
	Dir    Vec3
	DirInv Vec3

	// Set when the matching direction component has its sign bit set. Negative
	// zero counts as negative so the slab test stays consistent with the
	// infinity produced by inverting it.
	DirIsNeg [3]bool

	// Time parameter.
	T float32

	// Valid parametric range.
	TMin, TMax float32
}

// Create a new ray. Callers are expected to pass a normalized direction.
func NewRay(origin, dir Vec3) Ray {
	r := Ray{
		Origin: origin,
		Dir:    dir,
		TMin:   0,
		TMax:   math.MaxFloat32,
	}
	for axis := 0; axis < 3; axis++ {
		r.DirInv[axis] = 1.0 / dir[axis]
		r.DirIsNeg[axis] = math.Signbit(float64(dir[axis]))
	}
	return r
}

// Get the point along the ray at distance t.
func (r *Ray) At(t float32) Vec3 {
	return r.Origin.Add(r.Dir.Mul(t))
}
