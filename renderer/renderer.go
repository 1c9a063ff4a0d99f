package renderer

import (
	"fmt"
	"runtime"
	"time"

	"github.com/achilleasa/polaris-cpu/log"
	"github.com/achilleasa/polaris-cpu/scene"
	"github.com/achilleasa/polaris-cpu/tracer"
	"github.com/achilleasa/polaris-cpu/tracer/cpu"
	"github.com/achilleasa/polaris-cpu/tracer/integrator"
)

type Renderer interface {
	// Render frame and run the post-processing pipeline.
	Render() error

	// Get the last rendered frame.
	Frame() *Frame

	// Shutdown renderer and any attached tracer.
	Close()

	// Get render statistics.
	Stats() FrameStats
}

// The default renderer splits each frame into row bands, renders each band
// on a separate cpu tracer and joins on all of them before running the
// post-processing pipeline. Tracers write directly into disjoint slices of
// the frame so no locking is needed.
type defaultRenderer struct {
	logger log.Logger

	// The scene to render. It is never modified while tracers are running.
	scene *scene.Scene

	// The list of attached tracers and the scheduler that assigns bands
	// to them.
	tracers          []tracer.Tracer
	scheduler        tracer.BlockScheduler
	blockAssignments []uint32

	// Stages applied to the frame after all tracers complete.
	pipeline []PostProcessStage

	options Options

	frame *Frame
	stats FrameStats
}

// Create a new renderer for the scene using the specified block scheduler and
// post-processing pipeline.
func NewDefault(sc *scene.Scene, scheduler tracer.BlockScheduler, pipeline []PostProcessStage, opts Options) (Renderer, error) {
	if sc == nil || sc.Bvh == nil {
		return nil, ErrSceneNotDefined
	}
	if sc.Camera == nil {
		return nil, ErrCameraNotDefined
	}
	if sc.FrameW == 0 || sc.FrameH == 0 {
		return nil, ErrInvalidFrameSize
	}
	if opts.SamplesPerPixel == 0 {
		return nil, ErrInvalidSamplesPerPixel
	}

	r := &defaultRenderer{
		logger:    log.New("renderer"),
		scene:     sc,
		scheduler: scheduler,
		pipeline:  pipeline,
		options:   opts,
	}

	numWorkers := opts.NumWorkers
	if numWorkers == 0 {
		numWorkers = uint32(runtime.NumCPU())
	}
	if numWorkers > sc.FrameH {
		numWorkers = sc.FrameH
	}

	in := integrator.New(sc, opts.Integrator, opts.RussianRoulette)
	r.options.RussianRoulette = in.RussianRoulette()

	for index := uint32(0); index < numWorkers; index++ {
		tr, err := cpu.NewTracer(fmt.Sprintf("cpu-%02d", index), sc, in)
		if err != nil {
			r.logger.Warningf("skipping tracer %d due to init error: %s", index, err.Error())
			continue
		}
		r.tracers = append(r.tracers, tr)
	}

	if len(r.tracers) == 0 {
		return nil, ErrNoTracers
	}

	r.logger.Noticef(
		"attached %d tracers (integrator: %s, spp: %d, rr: %.2f)",
		len(r.tracers), in.Type(), opts.SamplesPerPixel, in.RussianRoulette(),
	)
	return r, nil
}

// Shutdown renderer and any attached tracer.
func (r *defaultRenderer) Close() {
	for _, tr := range r.tracers {
		tr.Close()
	}
	r.tracers = nil
}

// Get the last rendered frame.
func (r *defaultRenderer) Frame() *Frame {
	return r.frame
}

// Get last frame stats.
func (r *defaultRenderer) Stats() FrameStats {
	return r.stats
}

// Render frame and run the post-processing pipeline.
func (r *defaultRenderer) Render() error {
	if len(r.tracers) == 0 {
		return ErrNoTracers
	}

	start := time.Now()
	frameW, frameH := r.scene.FrameW, r.scene.FrameH
	r.frame = NewFrame(frameW, frameH)
	r.blockAssignments = r.scheduler.Schedule(r.tracers, frameH)

	doneChan := make(chan uint32, len(r.tracers))
	errChan := make(chan error, len(r.tracers))

	var blockY uint32
	pending := 0
	for index, tr := range r.tracers {
		blockH := r.blockAssignments[index]
		if blockH == 0 {
			continue
		}

		r.logger.Debugf("assigning rows [%d, %d) to tracer %s", blockY, blockY+blockH, tr.Id())
		tr.Enqueue(tracer.BlockRequest{
			FrameW:          frameW,
			FrameH:          frameH,
			BlockY:          blockY,
			BlockH:          blockH,
			SamplesPerPixel: r.options.SamplesPerPixel,
			Seed:            r.options.Seed + int64(index),
			Out:             r.frame.Rows(blockY, blockH),
			DoneChan:        doneChan,
			ErrChan:         errChan,
		})

		blockY += blockH
		pending++
	}

	// Wait for all tracers to finish
	var completedRows uint32
	for ; pending > 0; pending-- {
		select {
		case rows := <-doneChan:
			completedRows += rows
			r.logger.Infof("rendered %d/%d rows (%.0f%%)", completedRows, frameH, 100*float32(completedRows)/float32(frameH))
		case err := <-errChan:
			return err
		}
	}
	renderTime := time.Since(start)
	r.logger.Noticef("rendered %dx%d frame at %d spp in %s", frameW, frameH, r.options.SamplesPerPixel, renderTime)

	r.updateStats(renderTime)

	// Run post-processing stages
	for _, stage := range r.pipeline {
		stageTime, err := stage(r.frame)
		if err != nil {
			return err
		}
		r.logger.Debugf("post-processing stage completed in %s", stageTime)
	}

	r.stats.RenderTime = time.Since(start)
	return nil
}

func (r *defaultRenderer) updateStats(renderTime time.Duration) {
	frameH := r.scene.FrameH
	r.stats = FrameStats{
		Tracers:    make([]TracerStat, 0, len(r.tracers)),
		RenderTime: renderTime,
	}

	var blockY uint32
	for index, tr := range r.tracers {
		blockH := r.blockAssignments[index]
		stat := TracerStat{
			Id:           tr.Id(),
			BlockY:       blockY,
			BlockH:       blockH,
			FramePercent: 100 * float32(blockH) / float32(frameH),
		}
		if blockH > 0 {
			stat.RenderTime = tr.Stats().RenderTime
		}
		r.stats.Tracers = append(r.stats.Tracers, stat)
		blockY += blockH
	}
}
