package scene

import (
	"github.com/achilleasa/polaris-cpu/asset/material"
	"github.com/achilleasa/polaris-cpu/types"
)

type PrimitiveType uint32

const (
	MeshPrimitive PrimitiveType = iota
	SpherePrimitive
)

func (t PrimitiveType) String() string {
	switch t {
	case MeshPrimitive:
		return "mesh"
	case SpherePrimitive:
		return "sphere"
	}
	return "unknown"
}

// Defines a scene primitive. Primitives are immutable once the scene is
// compiled.
type Primitive struct {
	// The primitive type.
	Type PrimitiveType

	Name string

	// Geometry; only the field matching Type is populated.
	Mesh   *Mesh
	Sphere Sphere

	// The primitive material. Materials may be shared between primitives.
	Material *material.Material
}

// Create new mesh primitive.
func NewMeshPrimitive(name string, mesh *Mesh, mat *material.Material) *Primitive {
	return &Primitive{
		Type:     MeshPrimitive,
		Name:     name,
		Mesh:     mesh,
		Material: mat,
	}
}

// Create new sphere primitive.
func NewSpherePrimitive(name string, center types.Vec3, radius float32, mat *material.Material) *Primitive {
	return &Primitive{
		Type:     SpherePrimitive,
		Name:     name,
		Sphere:   Sphere{Center: center, Radius: radius},
		Material: mat,
	}
}

func (p *Primitive) BBox() [2]types.Vec3 {
	switch p.Type {
	case MeshPrimitive:
		return p.Mesh.BBox()
	default:
		return p.Sphere.BBox()
	}
}

func (p *Primitive) Center() types.Vec3 {
	bbox := p.BBox()
	return bbox[0].Add(bbox[1]).Mul(0.5)
}

func (p *Primitive) Area() float32 {
	switch p.Type {
	case MeshPrimitive:
		return p.Mesh.Area()
	default:
		return p.Sphere.Area()
	}
}

// HasEmission returns true if the primitive material emits light.
func (p *Primitive) HasEmission() bool {
	return p.Material != nil && p.Material.HasEmission()
}

// Intersect the primitive with a ray. The normal of the returned
// intersection is flipped, if needed, so that it faces the incoming ray.
func (p *Primitive) Intersect(ray *types.Ray) Intersection {
	var hit Intersection
	switch p.Type {
	case MeshPrimitive:
		hit = p.Mesh.Intersect(ray)
	default:
		hit = p.Sphere.Intersect(ray)
	}

	if !hit.Happened {
		return hit
	}

	if hit.Normal.Dot(ray.Dir) > 0 {
		hit.Normal = hit.Normal.Neg()
	}
	p.attach(&hit)
	return hit
}

// Sample a point uniformly distributed over the primitive surface. The
// returned normal is the outward geometric normal at the sampled point.
func (p *Primitive) Sample(sampler types.Sampler) (Intersection, float32) {
	var (
		sample Intersection
		pdf    float32
	)
	switch p.Type {
	case MeshPrimitive:
		sample, pdf = p.Mesh.Sample(sampler)
	default:
		sample, pdf = p.Sphere.Sample(sampler)
	}

	p.attach(&sample)
	return sample, pdf
}

func (p *Primitive) attach(hit *Intersection) {
	hit.Primitive = p
	hit.Material = p.Material
	if p.HasEmission() {
		hit.Emit = p.Material.Emission
	}
}
