package main

import (
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/achilleasa/polaris-cpu/cmd"
	"github.com/achilleasa/polaris-cpu/log"
	"github.com/achilleasa/polaris-cpu/tracer/integrator"
	"github.com/urfave/cli"
)

func main() {
	if err := run(os.Args); err != nil {
		log.New("polaris").Error(err.Error())
		os.Exit(1)
	}
}

func run(args []string) error {
	app := newApp()
	return app.Run(positionalSamplesPerPixel(app, args))
}

func newApp() *cli.App {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "polaris-cpu"
	app.Usage = "render scenes using cpu path tracing"
	app.Version = "0.0.1"
	app.ArgsUsage = "[spp]"
	app.Description = `
Render a scene into an image file. The optional spp argument sets the number of
samples per pixel (default: 8). When no scene file is specified, the builtin
Cornell box scene is rendered.`
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
		cli.IntFlag{
			Name:  "workers",
			Value: runtime.NumCPU(),
			Usage: "number of tracer workers",
		},
		cli.StringFlag{
			Name:  "scene",
			Usage: "wavefront obj scene file or http(s) URL; defaults to the builtin cornell box",
		},
		cli.IntFlag{
			Name:  "width",
			Usage: "frame width; 0 keeps the scene setting",
		},
		cli.IntFlag{
			Name:  "height",
			Usage: "frame height; 0 keeps the scene setting",
		},
		cli.Float64Flag{
			Name:  "fov",
			Usage: "camera vertical field of view in degrees; 0 keeps the scene setting",
		},
		cli.StringFlag{
			Name:  "out, o",
			Usage: "image filename for the rendered frame; .png files are PNG encoded, everything else is written as PPM (default: SPP<spp>.ppm)",
		},
		cli.StringFlag{
			Name:  "integrator",
			Value: integrator.MonteCarlo.String(),
			Usage: "integrator to use (monteCarlo or diffuseOnly)",
		},
		cli.Int64Flag{
			Name:  "seed",
			Usage: "random seed; each band uses seed + band index (default: current time)",
		},
		cli.Float64Flag{
			Name:  "rr",
			Value: float64(integrator.DefaultRussianRoulette),
			Usage: "russian roulette path continuation probability",
		},
	}
	app.Action = cmd.RenderFrame
	app.Commands = []cli.Command{
		{
			Name:  "info",
			Usage: "print scene statistics",
			Description: `
Parse and compile a scene and display information about its geometry, lights
and camera.`,
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "scene",
					Usage: "wavefront obj scene file or http(s) URL; defaults to the builtin cornell box",
				},
			},
			Action: cmd.ShowSceneInfo,
		},
	}

	return app
}

// The flag parser treats a trailing negative spp value such as "-4" as an
// unknown flag. Insert a "--" terminator in front of it so it reaches the
// render action as a positional argument, unless it is the value of a flag
// like --seed.
func positionalSamplesPerPixel(app *cli.App, args []string) []string {
	if len(args) < 2 {
		return args
	}

	last := len(args) - 1
	if v, err := strconv.Atoi(args[last]); err != nil || v >= 0 {
		return args
	}
	for _, arg := range args[1:last] {
		if arg == "--" {
			return args
		}
	}
	if last > 1 && flagTakesValue(app.Flags, args[last-1]) {
		return args
	}

	out := make([]string, 0, len(args)+1)
	out = append(out, args[:last]...)
	return append(out, "--", args[last])
}

func flagTakesValue(flags []cli.Flag, arg string) bool {
	if !strings.HasPrefix(arg, "-") || strings.Contains(arg, "=") {
		return false
	}
	name := strings.TrimLeft(arg, "-")

	for _, flag := range flags {
		if _, isBool := flag.(cli.BoolFlag); isBool {
			continue
		}
		for _, flagName := range strings.Split(flag.GetName(), ",") {
			if strings.TrimSpace(flagName) == name {
				return true
			}
		}
	}
	return false
}
