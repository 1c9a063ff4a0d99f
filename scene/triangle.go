package scene

import "github.com/achilleasa/polaris-cpu/types"

const triangleDetEpsilon = 1e-8

// Triangle is a single mesh face. Vertices are stored in counter-clockwise
// order; the geometric normal follows the winding.
type Triangle struct {
	V0, V1, V2 types.Vec3

	// Edges V1-V0 and V2-V0.
	E1, E2 types.Vec3

	Normal types.Vec3
	area   float32
}

// Create a new triangle from three vertices.
func NewTriangle(v0, v1, v2 types.Vec3) Triangle {
	e1 := v1.Sub(v0)
	e2 := v2.Sub(v0)
	cross := e1.Cross(e2)

	return Triangle{
		V0:     v0,
		V1:     v1,
		V2:     v2,
		E1:     e1,
		E2:     e2,
		Normal: cross.Normalize(),
		area:   cross.Len() * 0.5,
	}
}

func (t *Triangle) BBox() [2]types.Vec3 {
	return [2]types.Vec3{
		types.MinVec3(t.V0, types.MinVec3(t.V1, t.V2)),
		types.MaxVec3(t.V0, types.MaxVec3(t.V1, t.V2)),
	}
}

func (t *Triangle) Center() types.Vec3 {
	return t.V0.Add(t.V1).Add(t.V2).Mul(1.0 / 3.0)
}

func (t *Triangle) Area() float32 {
	return t.area
}

// Intersect the triangle with a ray using the Moller-Trumbore algorithm.
// Both faces are hit; the returned normal is the geometric normal.
func (t *Triangle) Intersect(ray *types.Ray) Intersection {
	pvec := ray.Dir.Cross(t.E2)
	det := t.E1.Dot(pvec)
	if det > -triangleDetEpsilon && det < triangleDetEpsilon {
		return NoHit()
	}
	invDet := 1 / det

	tvec := ray.Origin.Sub(t.V0)
	u := tvec.Dot(pvec) * invDet
	if u < 0 || u > 1 {
		return NoHit()
	}

	qvec := tvec.Cross(t.E1)
	v := ray.Dir.Dot(qvec) * invDet
	if v < 0 || u+v > 1 {
		return NoHit()
	}

	dist := t.E2.Dot(qvec) * invDet
	if dist <= ray.TMin || dist >= ray.TMax {
		return NoHit()
	}

	return Intersection{
		Happened: true,
		Distance: dist,
		Coords:   ray.At(dist),
		Normal:   t.Normal,
	}
}

// Sample a point uniformly distributed over the triangle surface. The
// returned density is 1/area.
func (t *Triangle) Sample(sampler types.Sampler) (Intersection, float32) {
	u := sampler.Get2D()
	x := types.Sqrt(u[0])
	y := u[1]

	coords := t.V0.Mul(1 - x).Add(t.V1.Mul(x * (1 - y))).Add(t.V2.Mul(x * y))
	if t.area <= 0 {
		return Intersection{Happened: true, Coords: coords, Normal: t.Normal}, 0
	}
	return Intersection{Happened: true, Coords: coords, Normal: t.Normal}, 1 / t.area
}
