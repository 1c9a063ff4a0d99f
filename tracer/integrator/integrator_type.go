package integrator

import "fmt"

// Type selects the light transport estimator used by a PathIntegrator.
type Type uint8

const (
	// Full estimator that evaluates each surface with its own BRDF.
	MonteCarlo Type = iota

	// Treats every surface as lambertian and scales the result by the
	// surface's non-metallic fraction.
	DiffuseOnly
)

// Implements Stringer.
func (t Type) String() string {
	switch t {
	case MonteCarlo:
		return "monteCarlo"
	case DiffuseOnly:
		return "diffuseOnly"
	default:
		return fmt.Sprintf("integrator(%d)", t)
	}
}

// Lookup integrator type by name.
func TypeFromName(name string) (Type, error) {
	switch name {
	case "monteCarlo":
		return MonteCarlo, nil
	case "diffuseOnly":
		return DiffuseOnly, nil
	}

	return MonteCarlo, fmt.Errorf("integrator: unsupported integrator type %q", name)
}
