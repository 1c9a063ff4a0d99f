package compiler

import (
	"errors"
	"fmt"
	"time"

	"github.com/achilleasa/polaris-cpu/asset/compiler/bvh"
	"github.com/achilleasa/polaris-cpu/asset/compiler/input"
	"github.com/achilleasa/polaris-cpu/asset/material"
	"github.com/achilleasa/polaris-cpu/log"
	"github.com/achilleasa/polaris-cpu/scene"
)

var (
	ErrInvalidFrameSize = errors.New("compiler: frame width and height must be positive")
	ErrInvalidFOV       = errors.New("compiler: camera fov must be in the (0, 180) range")
)

type sceneCompiler struct {
	parsedScene    *input.Scene
	optimizedScene *scene.Scene
	logger         log.Logger
}

// Compile a scene representation parsed by a scene reader into a render-ready
// scene. Each mesh gets its own triangle BVH and a top-level BVH is built
// over all scene primitives.
func Compile(parsedScene *input.Scene) (*scene.Scene, error) {
	compiler := &sceneCompiler{
		parsedScene:    parsedScene,
		optimizedScene: &scene.Scene{},
		logger:         log.New("scene compiler"),
	}

	start := time.Now()
	compiler.logger.Info("compiling scene")

	var err error
	err = compiler.setupFrame()
	if err != nil {
		return nil, err
	}

	err = compiler.convertMaterials()
	if err != nil {
		return nil, err
	}

	err = compiler.partitionGeometry()
	if err != nil {
		return nil, err
	}

	compiler.logger.Infof("compiled scene in %d ms", time.Since(start).Nanoseconds()/1e6)
	return compiler.optimizedScene, nil
}

func (sc *sceneCompiler) setupFrame() error {
	ps := sc.parsedScene
	if ps.FrameW == 0 || ps.FrameH == 0 {
		return ErrInvalidFrameSize
	}

	camera := ps.Camera
	if camera == nil {
		camera = &input.Camera{FOV: input.DefaultFOV, Eye: input.DefaultEye}
	}
	if camera.FOV <= 0 || camera.FOV >= 180 {
		return ErrInvalidFOV
	}

	sc.optimizedScene.FrameW = ps.FrameW
	sc.optimizedScene.FrameH = ps.FrameH
	sc.optimizedScene.Background = ps.Background
	sc.optimizedScene.Camera = &scene.Camera{
		Eye: camera.Eye,
		FOV: camera.FOV,
	}
	return nil
}

func (sc *sceneCompiler) convertMaterials() error {
	sc.optimizedScene.Materials = make([]*material.Material, len(sc.parsedScene.Materials))
	for index, pm := range sc.parsedScene.Materials {
		mat := &material.Material{
			Name:      pm.Name,
			Type:      material.BxdfTypeFromName(pm.Type),
			Kd:        pm.Kd,
			Ks:        pm.Ks,
			Emission:  pm.Ke,
			Roughness: pm.Roughness,
			Metallic:  pm.Metallic,
			IOR:       pm.IOR,
		}
		if err := mat.Validate(); err != nil {
			return fmt.Errorf("compiler: %v", err)
		}

		sc.optimizedScene.Materials[index] = mat
	}
	return nil
}

func (sc *sceneCompiler) lookupMaterial(index int) (*material.Material, error) {
	if index < 0 || index >= len(sc.optimizedScene.Materials) {
		return nil, fmt.Errorf("compiler: material index %d out of range", index)
	}
	return sc.optimizedScene.Materials[index], nil
}

// Generate a two-level BVH tree for the scene. A BVH is built for the
// triangles of each mesh and the top-level tree partitions the scene
// primitives. Only emissive primitives contribute to the top-level node areas
// so that area-proportional sampling selects points on lights.
func (sc *sceneCompiler) partitionGeometry() error {
	start := time.Now()

	primitives := make([]*scene.Primitive, 0, len(sc.parsedScene.Meshes)+len(sc.parsedScene.Spheres))
	for _, pm := range sc.parsedScene.Meshes {
		meshPrims, err := sc.compileMesh(pm)
		if err != nil {
			return err
		}
		primitives = append(primitives, meshPrims...)
	}

	for index, ps := range sc.parsedScene.Spheres {
		if ps.Radius <= 0 {
			return fmt.Errorf("compiler: sphere %d has non-positive radius %f", index, ps.Radius)
		}
		mat, err := sc.lookupMaterial(ps.MaterialIndex)
		if err != nil {
			return err
		}
		name := ps.Name
		if name == "" {
			name = fmt.Sprintf("sphere_%d", index)
		}
		primitives = append(primitives, scene.NewSpherePrimitive(name, ps.Center, ps.Radius, mat))
	}

	sc.logger.Infof("building scene BVH tree (%d primitives)", len(primitives))
	volList := make([]bvh.BoundedVolume, len(primitives))
	items := make([]scene.BvhItem, len(primitives))
	var emissives int
	for index, prim := range primitives {
		volList[index] = emitterVolume{prim}
		items[index] = prim
		if prim.HasEmission() {
			emissives++
		}
	}

	sc.optimizedScene.Primitives = primitives
	sc.optimizedScene.Bvh = scene.NewBvh(bvh.Build(volList), items)

	if emissives == 0 {
		sc.logger.Warning("scene does not contain any emissive primitives; direct lighting is disabled")
	}
	sc.logger.Infof("partitioned geometry in %d ms (%d emissive primitives, emissive area %.2f)", time.Since(start).Nanoseconds()/1e6, emissives, sc.optimizedScene.Bvh.Area())
	return nil
}

// Convert a parsed mesh into one scene primitive per referenced material.
func (sc *sceneCompiler) compileMesh(pm *input.Mesh) ([]*scene.Primitive, error) {
	var (
		order      []int
		byMaterial = make(map[int][]scene.Triangle)
	)
	for _, prim := range pm.Primitives {
		if _, exists := byMaterial[prim.MaterialIndex]; !exists {
			order = append(order, prim.MaterialIndex)
		}
		byMaterial[prim.MaterialIndex] = append(
			byMaterial[prim.MaterialIndex],
			scene.NewTriangle(prim.Vertices[0], prim.Vertices[1], prim.Vertices[2]),
		)
	}

	prims := make([]*scene.Primitive, 0, len(order))
	for _, matIndex := range order {
		mat, err := sc.lookupMaterial(matIndex)
		if err != nil {
			return nil, fmt.Errorf("compiler: mesh %q: %v", pm.Name, err)
		}

		triangles := byMaterial[matIndex]
		volList := make([]bvh.BoundedVolume, len(triangles))
		for index := range triangles {
			volList[index] = &triangles[index]
		}

		name := pm.Name
		if len(order) > 1 {
			name = fmt.Sprintf("%s/%s", pm.Name, mat.Name)
		}
		sc.logger.Debugf("building BVH for mesh %q (%d triangles)", name, len(triangles))
		prims = append(prims, scene.NewMeshPrimitive(name, scene.NewMesh(triangles, bvh.Build(volList)), mat))
	}
	return prims, nil
}

// Wraps a primitive so that only emissive primitives report a sampling area.
type emitterVolume struct {
	*scene.Primitive
}

func (v emitterVolume) Area() float32 {
	if !v.HasEmission() {
		return 0
	}
	return v.Primitive.Area()
}
