package cmd

import (
	"github.com/achilleasa/polaris-cpu/asset/compiler"
	"github.com/achilleasa/polaris-cpu/asset/scene/builtin"
	"github.com/achilleasa/polaris-cpu/asset/scene/reader"
	"github.com/achilleasa/polaris-cpu/scene"
	"github.com/urfave/cli"
)

// Display compiled scene info.
func ShowSceneInfo(ctx *cli.Context) error {
	setupLogging(ctx)

	sc, err := loadScene(ctx.String("scene"))
	if err != nil {
		return err
	}

	// Display compiled scene info
	logger.Noticef("scene information:\n%s", sc.Stats())

	return nil
}

// Load and compile the scene at sceneFile. If sceneFile is empty, the builtin
// Cornell box is used.
func loadScene(sceneFile string) (*scene.Scene, error) {
	if sceneFile == "" {
		logger.Notice("using builtin cornell box scene")
		return compiler.Compile(builtin.CornellBox())
	}

	logger.Noticef("parsing and compiling scene: %s", sceneFile)
	return reader.ReadScene(sceneFile)
}
