package reader

import (
	"fmt"
	"strings"

	"github.com/achilleasa/polaris-cpu/asset"
	"github.com/achilleasa/polaris-cpu/asset/compiler"
	"github.com/achilleasa/polaris-cpu/asset/compiler/input"
	"github.com/achilleasa/polaris-cpu/scene"
)

// The Reader interface is implemented by all scene readers.
type Reader interface {
	// Read scene definition from a resource.
	Read(*asset.Resource) (*input.Scene, error)
}

// Read a scene from a local file or an http/https URL and compile it into a
// render-ready scene.
func ReadScene(filename string) (*scene.Scene, error) {
	res, err := asset.NewResource(filename, nil)
	if err != nil {
		return nil, err
	}
	defer res.Close()

	// Select reader based on file extension
	var reader Reader
	if strings.HasSuffix(strings.ToLower(filename), ".obj") {
		reader = newWavefrontReader()
	} else {
		return nil, fmt.Errorf("readScene: unsupported file format")
	}

	rawScene, err := reader.Read(res)
	if err != nil {
		return nil, err
	}
	return compiler.Compile(rawScene)
}
