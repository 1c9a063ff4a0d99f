package tracer

import (
	"errors"
	"time"

	"github.com/achilleasa/polaris-cpu/types"
)

var (
	ErrTracerClosed = errors.New("tracer: tracer is closed")
)

// A unit of work that is processed by a tracer.
type BlockRequest struct {
	// Frame dimensions.
	FrameW uint32
	FrameH uint32

	// Block start row and height.
	BlockY uint32
	BlockH uint32

	// The number of emitted rays per traced pixel.
	SamplesPerPixel uint32

	// A random seed value for the tracer's random number generator.
	Seed int64

	// The frame rows [BlockY, BlockY+BlockH) in row-major order. The tracer
	// owns this slice until it signals completion.
	Out []types.Vec3

	// A channel to signal on block completion with the number of completed rows.
	DoneChan chan<- uint32

	// A channel to signal if an error occurs.
	ErrChan chan<- error
}

// Tracer statistics.
type Stats struct {
	// The rendered block height
	BlockH uint32

	// The time for rendering this block.
	RenderTime time.Duration
}

type Tracer interface {
	// Get tracer id.
	Id() string

	// Get the tracer's relative computation speed. Schedulers assign rows
	// proportionally to this value.
	Speed() uint32

	// Shutdown the tracer. Pending block requests are rejected with
	// ErrTracerClosed.
	Close()

	// Enqueue block request.
	Enqueue(BlockRequest)

	// Retrieve last block statistics.
	Stats() *Stats
}
