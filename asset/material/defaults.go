package material

import "github.com/achilleasa/polaris-cpu/types"

// Threshold used by emission checks and by cosine terms that must be
// strictly positive.
const Epsilon float32 = 0.00001

var (
	DefaultType              = BxdfDiffuse
	DefaultRoughness float32 = 0.33
	DefaultMetallic  float32 = 0.5
	DefaultIOR       float32 = 1.5
	DefaultKd                = types.Vec3{0.5, 0.5, 0.5}
	DefaultKs                = types.Vec3{0.0, 0.0, 0.0}
)
