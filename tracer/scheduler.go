package tracer

// The BlockScheduler interface is implemented by all block scheduling algorithms.
type BlockScheduler interface {
	// Split frame into contiguous row bands and assign them to the pool of
	// tracers. The returned slice contains the band height for each tracer
	// in the input list; band heights always add up to frameH.
	Schedule(tracers []Tracer, frameH uint32) []uint32
}

// The naive scheduler splits the frame statically based on each tracer's
// speed estimate. Tracers with equal speeds get equally sized bands.
type naiveScheduler struct{}

// Create a new naive scheduler instance.
func NaiveScheduler() BlockScheduler {
	return &naiveScheduler{}
}

// Assign rows to each tracer proportionally to its speed. Rows lost to
// rounding are handed out one at a time starting from the first tracer so
// that every frame row is rendered.
func (sch *naiveScheduler) Schedule(tracers []Tracer, frameH uint32) []uint32 {
	blockAssignment := make([]uint32, len(tracers))
	if len(tracers) == 0 {
		return blockAssignment
	}

	var totalSpeed uint64
	for _, tr := range tracers {
		totalSpeed += uint64(tr.Speed())
	}

	var scheduledRows uint32
	for idx, tr := range tracers {
		if totalSpeed == 0 {
			blockAssignment[idx] = frameH / uint32(len(tracers))
		} else {
			blockAssignment[idx] = uint32(uint64(frameH) * uint64(tr.Speed()) / totalSpeed)
		}
		scheduledRows += blockAssignment[idx]
	}

	for idx := 0; scheduledRows < frameH; idx = (idx + 1) % len(tracers) {
		blockAssignment[idx]++
		scheduledRows++
	}

	return blockAssignment
}
