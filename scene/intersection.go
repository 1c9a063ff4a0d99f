package scene

import (
	"github.com/achilleasa/polaris-cpu/asset/material"
	"github.com/achilleasa/polaris-cpu/types"
)

// Intersection describes the result of a ray query or a surface sample.
type Intersection struct {
	Happened bool

	// Distance along the ray; +Inf when nothing was hit.
	Distance float32

	// World-space hit position and surface normal.
	Coords types.Vec3
	Normal types.Vec3

	Primitive *Primitive
	Material  *material.Material

	// Radiance emitted at the hit point, if it lies on a light.
	Emit types.Vec3
}

// NoHit returns the sentinel used for ray queries that miss.
func NoHit() Intersection {
	return Intersection{Distance: types.PosInf}
}
