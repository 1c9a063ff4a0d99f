package scene

import "github.com/achilleasa/polaris-cpu/types"

// Sphere is an analytic sphere primitive.
type Sphere struct {
	Center types.Vec3
	Radius float32
}

func (s *Sphere) BBox() [2]types.Vec3 {
	r := types.Splat(s.Radius)
	return [2]types.Vec3{s.Center.Sub(r), s.Center.Add(r)}
}

func (s *Sphere) Area() float32 {
	return 4 * types.Pi * s.Radius * s.Radius
}

// Intersect the sphere with a ray, returning the nearest root inside the ray
// range. The returned normal points outwards.
func (s *Sphere) Intersect(ray *types.Ray) Intersection {
	l := ray.Origin.Sub(s.Center)
	a := ray.Dir.Dot(ray.Dir)
	b := 2 * ray.Dir.Dot(l)
	c := l.Dot(l) - s.Radius*s.Radius

	t0, t1, ok := solveQuadratic(a, b, c)
	if !ok {
		return NoHit()
	}

	dist := t0
	if dist <= ray.TMin {
		dist = t1
	}
	if dist <= ray.TMin || dist >= ray.TMax {
		return NoHit()
	}

	coords := ray.At(dist)
	return Intersection{
		Happened: true,
		Distance: dist,
		Coords:   coords,
		Normal:   coords.Sub(s.Center).Normalize(),
	}
}

// Sample a point uniformly distributed over the sphere surface. The returned
// density is 1/area.
func (s *Sphere) Sample(sampler types.Sampler) (Intersection, float32) {
	u := sampler.Get2D()
	z := 1 - 2*u[0]
	r := types.Sqrt(types.Max(0, 1-z*z))
	phi := types.TwoPi * u[1]

	dir := types.XYZ(r*types.Cos(phi), r*types.Sin(phi), z)
	sample := Intersection{
		Happened: true,
		Coords:   s.Center.Add(dir.Mul(s.Radius)),
		Normal:   dir,
	}

	area := s.Area()
	if area <= 0 {
		return sample, 0
	}
	return sample, 1 / area
}

// Solve a*x^2 + b*x + c = 0 returning the roots in ascending order.
func solveQuadratic(a, b, c float32) (float32, float32, bool) {
	discr := b*b - 4*a*c
	if discr < 0 {
		return 0, 0, false
	} else if discr == 0 {
		x := -0.5 * b / a
		return x, x, true
	}

	var q float32
	if b > 0 {
		q = -0.5 * (b + types.Sqrt(discr))
	} else {
		q = -0.5 * (b - types.Sqrt(discr))
	}
	x0, x1 := q/a, c/q
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	return x0, x1, true
}
