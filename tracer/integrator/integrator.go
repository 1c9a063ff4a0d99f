package integrator

import (
	"github.com/achilleasa/polaris-cpu/asset/material"
	"github.com/achilleasa/polaris-cpu/scene"
	"github.com/achilleasa/polaris-cpu/types"
)

const (
	// The default Russian-roulette path continuation probability.
	DefaultRussianRoulette float32 = 0.8

	// Offset applied along the surface normal to the origin of bounce and
	// shadow rays to avoid self-intersections.
	rayOffset float32 = 0.01

	// Minimum absolute tolerance when comparing the distance to a sampled
	// light point with the distance to the first occluder.
	shadowTolerance float32 = 0.001
)

// PathIntegrator estimates the radiance arriving along a ray by combining
// next-event light sampling with recursively sampled indirect bounces that
// are terminated using Russian roulette.
//
// The integrator holds no mutable state; the scene is shared read-only and
// all randomness comes from the caller-supplied sampler so a single
// integrator can be used concurrently by several tracers.
type PathIntegrator struct {
	scene *scene.Scene

	integratorType Type

	// Path continuation probability.
	rr float32
}

// Create a new path integrator for the given scene. Continuation
// probabilities outside the (0, 1] range are replaced by the default.
func New(sc *scene.Scene, integratorType Type, rr float32) *PathIntegrator {
	if !(rr > 0 && rr <= 1) {
		rr = DefaultRussianRoulette
	}

	return &PathIntegrator{
		scene:          sc,
		integratorType: integratorType,
		rr:             rr,
	}
}

// Get the integrator type.
func (in *PathIntegrator) Type() Type {
	return in.integratorType
}

// Get the Russian-roulette continuation probability.
func (in *PathIntegrator) RussianRoulette() float32 {
	return in.rr
}

// Estimate the radiance carried by a primary ray. Each component of the
// returned value is clamped to [0, 1].
func (in *PathIntegrator) Radiance(ray *types.Ray, sampler types.Sampler) types.Vec3 {
	if in.integratorType == DiffuseOnly {
		return in.CastRayDiffuse(ray, 0, sampler)
	}
	return in.CastRay(ray, 0, sampler)
}

// CastRay evaluates the full estimator. Rays that escape the scene return the
// scene background at depth 0 and black otherwise. Rays that hit a light
// return its emission without sampling further.
func (in *PathIntegrator) CastRay(ray *types.Ray, depth int, sampler types.Sampler) types.Vec3 {
	hit := in.scene.Intersect(ray)
	if !hit.Happened {
		if depth == 0 {
			return in.scene.Background
		}
		return types.Vec3{}
	}
	if hit.Primitive.HasEmission() {
		return hit.Emit
	}

	mat := hit.Material
	wo := ray.Dir.Neg()
	n := hit.Normal

	var direct types.Vec3
	if mat.Type != material.BxdfMirror {
		direct = in.sampleDirect(&hit, func(wi types.Vec3) types.Vec3 {
			return mat.Eval(wi, wo, n, true)
		}, sampler)
	}

	var indirect types.Vec3
	if sampler.Get1D() < in.rr {
		wi := mat.Sample(wo, n, sampler).Normalize()
		if n.Dot(wi) > material.Epsilon {
			bounceRay := types.NewRay(hit.Coords.Add(n.Mul(rayOffset)), wi)
			li := in.CastRay(&bounceRay, depth+1, sampler)
			weight := mat.Eval(wi, wo, n, false)
			pdf := mat.Pdf(wi, wo, n)
			if pdf > 0 {
				indirect = li.MulVec(weight).Div(pdf * in.rr)
			}
		}
	}

	return direct.Add(indirect).Clamp(0, 1)
}

// CastRayDiffuse evaluates the surface hit by ray as a lambertian reflector
// with the material's diffuse albedo and scales the result by (1 - metallic).
// Mirror surfaces receive direct lighting like any other surface. Only the
// first vertex is treated this way; indirect bounces are traced with CastRay
// so deeper vertices use their real BRDF.
func (in *PathIntegrator) CastRayDiffuse(ray *types.Ray, depth int, sampler types.Sampler) types.Vec3 {
	hit := in.scene.Intersect(ray)
	if !hit.Happened {
		if depth == 0 {
			return in.scene.Background
		}
		return types.Vec3{}
	}
	if hit.Primitive.HasEmission() {
		return hit.Emit
	}

	mat := hit.Material
	n := hit.Normal
	fr := mat.Kd.Div(types.Pi)

	direct := in.sampleDirect(&hit, func(_ types.Vec3) types.Vec3 {
		return fr
	}, sampler)

	var indirect types.Vec3
	if sampler.Get1D() < in.rr {
		wi := material.SampleUniformHemisphere(n, sampler).Normalize()
		nl := n.Dot(wi)
		if nl > material.Epsilon {
			bounceRay := types.NewRay(hit.Coords.Add(n.Mul(rayOffset)), wi)
			li := in.CastRay(&bounceRay, depth+1, sampler)
			indirect = li.MulVec(fr).Mul(nl / (material.UniformHemispherePdf * in.rr))
		}
	}

	return direct.Add(indirect).Clamp(0, 1).Mul(1 - mat.Metallic)
}

// Sample a point on the scene lights and return its contribution to the
// radiance leaving hit. The brdf callback returns the reflectance for light
// arriving from direction wi.
func (in *PathIntegrator) sampleDirect(hit *scene.Intersection, brdf func(wi types.Vec3) types.Vec3, sampler types.Sampler) types.Vec3 {
	light, pdf := in.scene.SampleLight(sampler)
	if pdf <= 0 || !light.Happened {
		return types.Vec3{}
	}

	origin := hit.Coords.Add(hit.Normal.Mul(rayOffset))
	toLight := light.Coords.Sub(origin)
	dist := toLight.Len()
	if dist <= 0 {
		return types.Vec3{}
	}
	wi := toLight.Div(dist)

	nl := types.Max(0, hit.Normal.Dot(wi))
	nll := types.Max(0, light.Normal.Dot(wi.Neg()))
	if nl == 0 || nll == 0 {
		return types.Vec3{}
	}

	shadowRay := types.NewRay(origin, wi)
	occluder := in.scene.Intersect(&shadowRay)
	if occluder.Happened && dist-occluder.Distance >= types.Max(shadowTolerance, dist*1e-4) {
		return types.Vec3{}
	}

	return light.Emit.MulVec(brdf(wi)).Mul(nl * nll / (pdf * dist * dist))
}
