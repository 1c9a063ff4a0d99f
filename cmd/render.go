package cmd

import (
	"bytes"
	"fmt"
	"runtime"
	"strconv"
	"time"

	"github.com/achilleasa/polaris-cpu/renderer"
	"github.com/achilleasa/polaris-cpu/scene"
	"github.com/achilleasa/polaris-cpu/tracer"
	"github.com/achilleasa/polaris-cpu/tracer/integrator"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// The number of samples per pixel used when none (or an invalid value) is
// specified on the command line.
const DefaultSamplesPerPixel uint32 = 8

// Render a still frame.
func RenderFrame(ctx *cli.Context) error {
	setupLogging(ctx)

	spp := parseSamplesPerPixel(ctx.Args().First())

	integratorType, err := integrator.TypeFromName(ctx.String("integrator"))
	if err != nil {
		return err
	}

	rr := float32(ctx.Float64("rr"))
	if !(rr > 0 && rr <= 1) {
		return fmt.Errorf("invalid russian roulette probability %v; expected a value in the (0, 1] range", ctx.Float64("rr"))
	}

	numWorkers := ctx.Int("workers")
	if numWorkers < 1 {
		numWorkers = runtime.NumCPU()
	}

	seed := time.Now().UnixNano()
	if ctx.IsSet("seed") {
		seed = ctx.Int64("seed")
	}

	imgFile := ctx.String("out")
	if imgFile == "" {
		imgFile = fmt.Sprintf("SPP%d.ppm", spp)
	}

	// Load scene
	sc, err := loadScene(ctx.String("scene"))
	if err != nil {
		return err
	}
	if err = applySceneOverrides(sc, ctx.Int("width"), ctx.Int("height"), ctx.Float64("fov")); err != nil {
		return err
	}

	opts := renderer.Options{
		SamplesPerPixel: spp,
		NumWorkers:      uint32(numWorkers),
		Integrator:      integratorType,
		RussianRoulette: rr,
		Seed:            seed,
	}

	// Create renderer
	r, err := renderer.NewDefault(sc, tracer.NaiveScheduler(), renderer.DefaultPipeline(imgFile), opts)
	if err != nil {
		return err
	}
	defer r.Close()

	err = r.Render()
	if err != nil {
		return err
	}
	logger.Noticef("wrote frame to %s", imgFile)

	// Display stats
	displayFrameStats(r.Stats())

	return nil
}

// Parse the samples per pixel argument. Missing, non-numeric or
// non-positive values fall back to DefaultSamplesPerPixel.
func parseSamplesPerPixel(arg string) uint32 {
	if arg == "" {
		return DefaultSamplesPerPixel
	}

	spp, err := strconv.ParseInt(arg, 10, 32)
	if err != nil || spp <= 0 {
		logger.Warningf("invalid samples per pixel value %q; using %d", arg, DefaultSamplesPerPixel)
		return DefaultSamplesPerPixel
	}
	return uint32(spp)
}

// Override the scene frame dimensions and camera field of view. Zero values
// keep the scene settings.
func applySceneOverrides(sc *scene.Scene, width, height int, fov float64) error {
	if width < 0 || height < 0 {
		return renderer.ErrInvalidFrameSize
	}
	if width > 0 {
		sc.FrameW = uint32(width)
	}
	if height > 0 {
		sc.FrameH = uint32(height)
	}

	if fov != 0 {
		if fov < 0 || fov >= 180 {
			return fmt.Errorf("invalid camera fov %v; expected a value in the (0, 180) range", fov)
		}
		sc.Camera.FOV = float32(fov)
	}
	return nil
}

func displayFrameStats(stats renderer.FrameStats) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Tracer", "Rows", "Block height", "% of frame", "Render time"})
	for _, stat := range stats.Tracers {
		table.Append([]string{
			stat.Id,
			fmt.Sprintf("%d-%d", stat.BlockY, stat.BlockY+stat.BlockH),
			fmt.Sprintf("%d", stat.BlockH),
			fmt.Sprintf("%02.1f %%", stat.FramePercent),
			stat.RenderTime.String(),
		})
	}
	table.SetFooter([]string{"", "", "", "TOTAL", stats.RenderTime.String()})

	table.Render()
	logger.Noticef("frame statistics\n%s", buf.String())
}
