package renderer

import "errors"

var (
	ErrNoTracers              = errors.New("renderer: no tracers attached")
	ErrSceneNotDefined        = errors.New("renderer: no scene defined")
	ErrCameraNotDefined       = errors.New("renderer: no camera defined")
	ErrInvalidFrameSize       = errors.New("renderer: frame width and height must be positive")
	ErrInvalidSamplesPerPixel = errors.New("renderer: samples per pixel must be positive")
	ErrFrameNotGammaCorrected = errors.New("renderer: frame must be gamma corrected before it can be saved")
)
