package scene

import "github.com/achilleasa/polaris-cpu/types"

var DefaultCameraEye = types.Vec3{278, 273, -800}

// Camera is a pinhole camera looking down the +Z axis. Screen-space X is
// mirrored so that +X in world space appears on the left of the frame.
type Camera struct {
	// Camera position.
	Eye types.Vec3

	// Vertical field of view in degrees.
	FOV float32
}

// Create a new camera at the default eye position.
func NewCamera(fov float32) *Camera {
	return &Camera{
		Eye: DefaultCameraEye,
		FOV: fov,
	}
}

// Generate the primary ray through the center of pixel (x, y) of a
// frameW x frameH frame.
func (c *Camera) PrimaryRay(x, y, frameW, frameH uint32) types.Ray {
	scale := types.Tan(types.Deg2Rad(c.FOV * 0.5))
	aspect := float32(frameW) / float32(frameH)

	px := (2*(float32(x)+0.5)/float32(frameW) - 1) * aspect * scale
	py := (1 - 2*(float32(y)+0.5)/float32(frameH)) * scale

	return types.NewRay(c.Eye, types.XYZ(-px, py, 1).Normalize())
}
