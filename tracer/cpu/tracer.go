package cpu

import (
	"fmt"
	"sync"
	"time"

	"github.com/achilleasa/polaris-cpu/log"
	"github.com/achilleasa/polaris-cpu/scene"
	"github.com/achilleasa/polaris-cpu/tracer"
	"github.com/achilleasa/polaris-cpu/tracer/integrator"
	"github.com/achilleasa/polaris-cpu/types"
)

type cpuTracer struct {
	logger log.Logger

	sync.Mutex
	wg sync.WaitGroup

	// The tracer id.
	id string

	// The scene shared by all tracers; it is never modified while
	// rendering.
	sceneData *scene.Scene

	// The radiance estimator.
	integrator *integrator.PathIntegrator

	// A channel for receiving block requests from the renderer.
	blockReqChan chan tracer.BlockRequest

	// Closed to signal the worker to exit.
	closeChan chan struct{}
	closeOnce sync.Once

	// Statistics for last rendered block.
	stats tracer.Stats
}

// Create a new cpu tracer and start its worker go-routine.
func NewTracer(id string, sc *scene.Scene, in *integrator.PathIntegrator) (tracer.Tracer, error) {
	if sc == nil || in == nil {
		return nil, ErrNoSceneData
	}

	tr := &cpuTracer{
		logger:       log.New(fmt.Sprintf("cpu tracer (%s)", id)),
		id:           id,
		sceneData:    sc,
		integrator:   in,
		blockReqChan: make(chan tracer.BlockRequest),
		closeChan:    make(chan struct{}),
	}

	tr.startWorker()
	return tr, nil
}

// Get tracer id.
func (tr *cpuTracer) Id() string {
	return tr.id
}

// All cpu tracers share the same hardware so they report the same speed.
func (tr *cpuTracer) Speed() uint32 {
	return 1
}

// Shutdown the tracer and wait for its worker to exit.
func (tr *cpuTracer) Close() {
	tr.closeOnce.Do(func() {
		close(tr.closeChan)
	})
	tr.wg.Wait()
}

// Enqueue block request. The call blocks until the worker picks up the
// request. Requests sent to a closed tracer fail with ErrTracerClosed.
func (tr *cpuTracer) Enqueue(blockReq tracer.BlockRequest) {
	select {
	case tr.blockReqChan <- blockReq:
	case <-tr.closeChan:
		blockReq.ErrChan <- tracer.ErrTracerClosed
	}
}

// Retrieve last block statistics.
func (tr *cpuTracer) Stats() *tracer.Stats {
	tr.Lock()
	defer tr.Unlock()

	stats := tr.stats
	return &stats
}

// Spawn a go-routine to process block render requests.
func (tr *cpuTracer) startWorker() {
	readyChan := make(chan struct{})
	tr.wg.Add(1)
	go func() {
		defer tr.wg.Done()
		var blockReq tracer.BlockRequest
		close(readyChan)
		for {
			select {
			case blockReq = <-tr.blockReqChan:
				startTime := time.Now()

				// Render block and reply with our completion status
				err := tr.renderBlock(&blockReq)
				if err != nil {
					blockReq.ErrChan <- err
					continue
				}

				// Update stats
				tr.Lock()
				tr.stats.BlockH = blockReq.BlockH
				tr.stats.RenderTime = time.Since(startTime)
				tr.Unlock()

				tr.logger.Debugf("rendered rows [%d, %d) in %s", blockReq.BlockY, blockReq.BlockY+blockReq.BlockH, time.Since(startTime))
				blockReq.DoneChan <- blockReq.BlockH
			case <-tr.closeChan:
				return
			}
		}
	}()

	// Wait for go-routine to start
	<-readyChan
}

// Render block. Each pixel is set to the average of SamplesPerPixel radiance
// estimates for the primary ray through its center.
func (tr *cpuTracer) renderBlock(blockReq *tracer.BlockRequest) error {
	if blockReq.SamplesPerPixel == 0 || blockReq.BlockY+blockReq.BlockH > blockReq.FrameH {
		return ErrInvalidBlock
	}
	if uint64(len(blockReq.Out)) != uint64(blockReq.BlockH)*uint64(blockReq.FrameW) {
		return ErrInvalidBlock
	}

	camera := tr.sceneData.Camera
	sampler := types.NewRandomSampler(blockReq.Seed)
	invSpp := 1 / float32(blockReq.SamplesPerPixel)

	var x, y, s uint32
	for y = 0; y < blockReq.BlockH; y++ {
		row := blockReq.Out[y*blockReq.FrameW : (y+1)*blockReq.FrameW]
		for x = 0; x < blockReq.FrameW; x++ {
			var accum types.Vec3
			for s = 0; s < blockReq.SamplesPerPixel; s++ {
				ray := camera.PrimaryRay(x, blockReq.BlockY+y, blockReq.FrameW, blockReq.FrameH)
				accum = accum.Add(tr.integrator.Radiance(&ray, sampler))
			}
			row[x] = accum.Mul(invSpp)
		}
	}

	return nil
}
