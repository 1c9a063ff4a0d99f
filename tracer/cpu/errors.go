package cpu

import "errors"

var (
	ErrNoSceneData  = errors.New("cpu tracer: no scene data")
	ErrInvalidBlock = errors.New("cpu tracer: block output buffer does not match the block dimensions")
)
