package material

import (
	"fmt"

	"github.com/achilleasa/polaris-cpu/types"
)

// The density of uniformly sampling a direction over the hemisphere.
const UniformHemispherePdf = 0.5 / types.Pi

// Lower bound for the squared GGX alpha so that perfectly smooth microfacet
// surfaces do not produce a zero-valued distribution denominator.
const minAlpha2 float32 = 1e-6

// Material describes the optical behavior of a surface. Materials are
// immutable once the scene is compiled and are shared by reference between
// primitives.
type Material struct {
	Name string
	Type BxdfType

	// Diffuse albedo and specular tint.
	Kd types.Vec3
	Ks types.Vec3

	Roughness float32
	Metallic  float32
	IOR       float32

	// Emitted radiance; zero for non-emissive surfaces.
	Emission types.Vec3
}

// Create a material of the given type with default parameters.
func New(name string, bxdfType BxdfType) *Material {
	return &Material{
		Name:      name,
		Type:      bxdfType,
		Kd:        DefaultKd,
		Ks:        DefaultKs,
		Roughness: DefaultRoughness,
		Metallic:  DefaultMetallic,
		IOR:       DefaultIOR,
	}
}

// Validate material parameters.
func (m *Material) Validate() error {
	if !m.Type.IsValid() {
		return fmt.Errorf("material %q: unsupported bxdf type", m.Name)
	}
	if m.Roughness < 0 || m.Roughness > 1 {
		return fmt.Errorf("material %q: roughness must be in the [0, 1] range; got %f", m.Name, m.Roughness)
	}
	if m.Metallic < 0 || m.Metallic > 1 {
		return fmt.Errorf("material %q: metallic must be in the [0, 1] range; got %f", m.Name, m.Metallic)
	}
	return nil
}

// HasEmission returns true if the material is a light source.
func (m *Material) HasEmission() bool {
	return m.Emission.Len() > Epsilon
}

// Sample a continuation direction given the outgoing direction wo and the
// surface normal n. Both wo and the returned direction point away from the
// surface.
func (m *Material) Sample(wo, n types.Vec3, sampler types.Sampler) types.Vec3 {
	switch m.Type {
	case BxdfMicroFacet:
		u := sampler.Get2D()
		alpha2 := m.alpha2()
		phi := types.TwoPi * u[0]
		cosTheta2 := (1 - u[1]) / ((alpha2-1)*u[1] + 1)
		cosTheta := types.Sqrt(cosTheta2)
		sinTheta := types.Sqrt(types.Max(0, 1-cosTheta2))
		microNormal := toWorld(types.XYZ(sinTheta*types.Cos(phi), sinTheta*types.Sin(phi), cosTheta), n)
		return wo.Reflect(microNormal)
	case BxdfMirror:
		return wo.Reflect(n)
	}

	return SampleUniformHemisphere(n, sampler)
}

// Pdf returns the density used by the integrator to weight a sampled
// direction wi. Microfacet and mirror surfaces return a constant density of
// 1 because their indirect Eval already accounts for the sampling density; for
// those types the returned value is not a standalone probability density.
func (m *Material) Pdf(wi, wo, n types.Vec3) float32 {
	switch m.Type {
	case BxdfMicroFacet, BxdfMirror:
		return 1
	}

	if wi.Dot(n) > 0 {
		return UniformHemispherePdf
	}
	return 0
}

// Eval returns the reflected radiance weight for light arriving from wi and
// leaving towards wo. Direct light samples use the plain BRDF; indirect samples
// (isDirect == false) use the normalization that matches Sample.
func (m *Material) Eval(wi, wo, n types.Vec3, isDirect bool) types.Vec3 {
	switch m.Type {
	case BxdfMicroFacet:
		return m.evalMicroFacet(wi, wo, n, isDirect)
	case BxdfMirror:
		h := wi.Add(wo).Normalize()
		hv := h.Dot(wo)
		return m.Kd.MulVec(fresnelSchlick(m.Kd, hv, m.Metallic))
	}

	cosAlpha := n.Dot(wi)
	if cosAlpha <= 0 {
		return types.Vec3{}
	}
	return m.Kd.Mul(cosAlpha / types.Pi)
}

func (m *Material) evalMicroFacet(wi, wo, n types.Vec3, isDirect bool) types.Vec3 {
	nl := types.Clamp(wi.Dot(n), 0, 1)
	nv := wo.Dot(n)
	h := wi.Add(wo).Normalize()
	nh := n.Dot(h)
	hv := h.Dot(wo)

	geo := geometrySchlick(nl, nv, m.Roughness)
	fresnel := fresnelSchlick(m.Kd, hv, m.Metallic)
	ggx := distributionGGX(nh, m.alpha2())
	diffuse := fresnel.Mul(nl / types.Pi * (1 - m.Metallic))

	if isDirect {
		return fresnel.Mul(ggx * geo * 0.25).Add(diffuse)
	}

	if nh <= Epsilon || nv <= Epsilon {
		return types.Vec3{}
	}
	pdf := nh * 0.25 / nv * hv * ggx
	out := fresnel.Mul(geo * hv * nv / nh)
	if pdf > Epsilon {
		out = out.Add(diffuse.Div(pdf))
	}
	return out
}

func (m *Material) alpha2() float32 {
	alpha2 := m.Roughness * m.Roughness
	alpha2 *= alpha2
	return types.Max(alpha2, minAlpha2)
}

// SampleUniformHemisphere draws a direction uniformly distributed over the
// hemisphere around n.
func SampleUniformHemisphere(n types.Vec3, sampler types.Sampler) types.Vec3 {
	u := sampler.Get2D()
	theta := types.Acos(1 - u[0])
	phi := types.TwoPi * u[1]
	sinTheta := types.Sin(theta)
	local := types.XYZ(sinTheta*types.Cos(phi), sinTheta*types.Sin(phi), types.Cos(theta))
	return toWorld(local, n)
}

// Transform a direction expressed in the tangent frame of n to world space.
// The tangent is derived from whichever of |n.x| or |n.y| is larger.
func toWorld(local, n types.Vec3) types.Vec3 {
	var c types.Vec3
	if abs(n[0]) > abs(n[1]) {
		invLen := 1 / types.Sqrt(n[0]*n[0]+n[2]*n[2])
		c = types.XYZ(n[2]*invLen, 0, -n[0]*invLen)
	} else {
		invLen := 1 / types.Sqrt(n[1]*n[1]+n[2]*n[2])
		c = types.XYZ(0, n[2]*invLen, -n[1]*invLen)
	}
	b := c.Cross(n)
	return b.Mul(local[0]).Add(c.Mul(local[1])).Add(n.Mul(local[2]))
}

func distributionGGX(nh, alpha2 float32) float32 {
	tmp := nh*nh*(alpha2-1) + 1
	return alpha2 / (types.Pi * tmp * tmp)
}

// Schlick-reduced geometric occlusion, already divided by nl*nv.
func geometrySchlick(nl, nv, roughness float32) float32 {
	tmp := roughness + 1
	k := tmp * tmp * 0.125
	return 1 / ((nl*(1-k) + k) * (nv*(1-k) + k))
}

// Schlick Fresnel approximation with F0 blended between a dielectric 0.04
// and the albedo by the metallic factor.
func fresnelSchlick(albedo types.Vec3, hv, metallic float32) types.Vec3 {
	powed := types.Pow(types.Clamp(1-hv, 0, 1), 5)
	f0 := types.Splat(0.04).Lerp(albedo, metallic)
	return f0.Mul(1 - powed).Add(types.Splat(powed))
}

func abs(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
