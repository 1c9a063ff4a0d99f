package reader

import (
	"bufio"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/achilleasa/polaris-cpu/asset"
	"github.com/achilleasa/polaris-cpu/asset/compiler/input"
	"github.com/achilleasa/polaris-cpu/asset/material"
	"github.com/achilleasa/polaris-cpu/log"
	"github.com/achilleasa/polaris-cpu/types"
)

type wavefrontMaterial struct {
	Name string

	// Explicit surface type (mat_type); inferred from the other
	// parameters when empty.
	Type string

	// Diffuse/Albedo color.
	Kd types.Vec3

	// Specular color.
	Ks types.Vec3

	// Emissive color and scaler.
	Ke       types.Vec3
	KeScaler float32

	// Index of refraction.
	Ni float32

	// Microfacet roughness (Pr) and metallic (Pm) factors; negative when
	// not specified.
	Pr float32
	Pm float32

	// True if this material is used by at least one primitive.
	Used bool
}

func newWavefrontMaterial(name string) *wavefrontMaterial {
	return &wavefrontMaterial{
		Name:     name,
		Kd:       material.DefaultKd,
		KeScaler: 1,
		Ni:       material.DefaultIOR,
		Pr:       -1,
		Pm:       -1,
	}
}

// Select the surface type for this material. Materials that specify a
// roughness or metallic factor use the microfacet model, specular materials
// without one are treated as mirrors and everything else is diffuse.
func (wf *wavefrontMaterial) bxdfType() material.BxdfType {
	if wf.Type != "" {
		return material.BxdfTypeFromName(wf.Type)
	}

	switch {
	case wf.Pr >= 0 || wf.Pm >= 0:
		return material.BxdfMicroFacet
	case wf.Ks.MaxComponent() > 0:
		return material.BxdfMirror
	}
	return material.BxdfDiffuse
}

// Convert to the compiler input representation.
func (wf *wavefrontMaterial) toInput() *input.Material {
	mat := &input.Material{
		Name:      wf.Name,
		Type:      wf.bxdfType().String(),
		Kd:        wf.Kd,
		Ks:        wf.Ks,
		Ke:        wf.Ke.Mul(wf.KeScaler),
		Roughness: material.DefaultRoughness,
		Metallic:  material.DefaultMetallic,
		IOR:       wf.Ni,
		Used:      wf.Used,
	}
	if wf.Pr >= 0 {
		mat.Roughness = wf.Pr
	}
	if wf.Pm >= 0 {
		mat.Metallic = wf.Pm
	}
	return mat
}

type wavefrontSceneReader struct {
	logger log.Logger

	// The parsed scene.
	rawScene *input.Scene

	// A map of material names to parsed wavefront materials
	matNameToIndex map[string]int

	// Currently selected material.
	curMaterial *wavefrontMaterial

	// Parsed wavefront materials.
	materials []*wavefrontMaterial

	// List of vertices.
	vertexList []types.Vec3

	// An error stack that provides additional error information when
	// scene files include other files (models, mat libs e.t.c)
	errStack []string
}

// Create a new text scene reader.
func newWavefrontReader() *wavefrontSceneReader {
	return &wavefrontSceneReader{
		logger:         log.New("wavefront scene reader"),
		rawScene:       input.NewScene(),
		matNameToIndex: make(map[string]int, 0),
		vertexList:     make([]types.Vec3, 0),
		errStack:       make([]string, 0),
	}
}

// Read scene definition.
func (r *wavefrontSceneReader) Read(sceneRes *asset.Resource) (*input.Scene, error) {
	r.logger.Noticef(`parsing scene from "%s"`, sceneRes.Path())
	start := time.Now()

	err := r.parse(sceneRes)
	if err != nil {
		return nil, err
	}

	// Prune unused materials
	r.processMaterials()

	r.logger.Noticef(
		"parsed scene in %d ms (%d meshes, %d spheres, %d materials)",
		time.Since(start).Nanoseconds()/1e6,
		len(r.rawScene.Meshes), len(r.rawScene.Spheres), len(r.rawScene.Materials),
	)
	return r.rawScene, nil
}

// Generate scene materials for material entries that are in use and update the
// material indices for all parsed primitives.
func (r *wavefrontSceneReader) processMaterials() {
	wfMaterialToSceneMaterial := make(map[int]int, 0)
	pruned := 0
	for wfIndex, wfMat := range r.materials {
		if !wfMat.Used {
			r.logger.Infof("skipping unused material %q", wfMat.Name)
			pruned++
			continue
		}

		r.rawScene.Materials = append(r.rawScene.Materials, wfMat.toInput())
		wfMaterialToSceneMaterial[wfIndex] = len(r.rawScene.Materials) - 1
	}

	for _, mesh := range r.rawScene.Meshes {
		for _, prim := range mesh.Primitives {
			prim.MaterialIndex = wfMaterialToSceneMaterial[prim.MaterialIndex]
		}
	}
	for _, sphere := range r.rawScene.Spheres {
		sphere.MaterialIndex = wfMaterialToSceneMaterial[sphere.MaterialIndex]
	}

	if pruned > 0 {
		r.logger.Noticef("pruned %d unused materials", pruned)
	}
}

// Generate an error message that also includes any data in the error stack.
func (r *wavefrontSceneReader) emitError(file string, line int, msgFormat string, args ...interface{}) error {
	msg := fmt.Sprintf(msgFormat, args...)

	var errMsg string
	if file != "" {
		errMsg = strings.Trim(
			fmt.Sprintf("[%s: %d] error: %s\n%s", file, line, msg, strings.Join(r.errStack, "\n")),
			"\n",
		)
	} else {
		errMsg = strings.Trim(
			fmt.Sprintf("error: %s\n%s", msg, strings.Join(r.errStack, "\n")),
			"\n",
		)
	}

	return errors.New(errMsg)
}

// Push a frame to the error stack.
func (r *wavefrontSceneReader) pushFrame(msg string) {
	r.errStack = append([]string{msg}, r.errStack...)
}

// Pop a frame from the error stack.
func (r *wavefrontSceneReader) popFrame() {
	r.errStack = r.errStack[1:]
}

// Create and select a default material for surfaces not using one.
func (r *wavefrontSceneReader) defaultMaterial() *wavefrontMaterial {
	matName := ""

	// Search for material in referenced list
	matIndex, exists := r.matNameToIndex[matName]
	if !exists {
		mat := newWavefrontMaterial(matName)
		mat.Kd = types.Vec3{0.7, 0.7, 0.7}
		r.materials = append(r.materials, mat)
		matIndex = len(r.materials) - 1
		r.matNameToIndex[matName] = matIndex
	}
	r.curMaterial = r.materials[matIndex]
	return r.curMaterial
}

// Get the index of the active material, selecting the default material if
// none is active, and flag it as used.
func (r *wavefrontSceneReader) useCurrentMaterial() int {
	if r.curMaterial == nil {
		r.curMaterial = r.defaultMaterial()
	}
	r.curMaterial.Used = true
	return r.matNameToIndex[r.curMaterial.Name]
}

// Parse wavefront object scene format.
func (r *wavefrontSceneReader) parse(res *asset.Resource) error {
	var lineNum int = 0
	var err error

	// The main obj file may include (call) several other object files. Each
	// object file contains 1-based indices (when they are positive). By
	// tracking the current vertex offset we can apply it while parsing faces
	// to select the correct coordinates.
	relVertexOffset := len(r.vertexList)

	scanner := bufio.NewScanner(res)
	for scanner.Scan() {
		lineNum++
		lineTokens := strings.Fields(scanner.Text())
		if len(lineTokens) == 0 || strings.HasPrefix(lineTokens[0], "#") {
			continue
		}

		switch lineTokens[0] {
		case "call", "mtllib":
			if len(lineTokens) != 2 {
				return r.emitError(res.Path(), lineNum, `unsupported syntax for "%s"; expected 1 argument; got %d`, lineTokens[0], len(lineTokens)-1)
			}

			r.pushFrame(fmt.Sprintf("referenced from %s:%d [%s]", res.Path(), lineNum, lineTokens[0]))

			incRes, err := asset.NewResource(lineTokens[1], res)
			if err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err.Error())
			}

			switch lineTokens[0] {
			case "call":
				err = r.parse(incRes)
			case "mtllib":
				err = r.parseMaterials(incRes)
			}
			incRes.Close()

			if err != nil {
				return err
			}
			r.popFrame()
		case "usemtl":
			if len(lineTokens) != 2 {
				return r.emitError(res.Path(), lineNum, `unsupported syntax for "usemtl"; expected 1 argument; got %d`, len(lineTokens)-1)
			}

			// Lookup material
			matName := lineTokens[1]
			matIndex, exists := r.matNameToIndex[matName]
			if !exists {
				return r.emitError(res.Path(), lineNum, `undefined material with name "%s"`, matName)
			}

			// Activate material
			r.curMaterial = r.materials[matIndex]
		case "v":
			v, err := parseVec3(lineTokens)
			if err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err.Error())
			}
			r.vertexList = append(r.vertexList, v)
		case "vn", "vt", "s", "l":
			// Shading normals, texture coordinates, smoothing groups and
			// lines do not affect rendering.
		case "g", "o":
			if len(lineTokens) < 2 {
				return r.emitError(res.Path(), lineNum, `unsupported syntax for "%s"; expected 1 argument for object name; got %d`, lineTokens[0], len(lineTokens)-1)
			}

			r.verifyLastParsedMesh()
			r.rawScene.Meshes = append(r.rawScene.Meshes, input.NewMesh(lineTokens[1]))
		case "f":
			primList, err := r.parseFace(lineTokens, relVertexOffset)
			if err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err.Error())
			}

			// If no object has been defined create a default one
			if len(r.rawScene.Meshes) == 0 {
				r.rawScene.Meshes = append(r.rawScene.Meshes, input.NewMesh("default"))
			}

			meshIndex := len(r.rawScene.Meshes) - 1
			r.rawScene.Meshes[meshIndex].Primitives = append(r.rawScene.Meshes[meshIndex].Primitives, primList...)
		case "sphere":
			sphere, err := r.parseSphere(lineTokens)
			if err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err.Error())
			}
			r.rawScene.Spheres = append(r.rawScene.Spheres, sphere)
		case "camera_fov":
			r.rawScene.Camera.FOV, err = parseFloat32(lineTokens)
			if err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err.Error())
			}
		case "camera_eye":
			r.rawScene.Camera.Eye, err = parseVec3(lineTokens)
			if err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err.Error())
			}
		case "background":
			r.rawScene.Background, err = parseVec3(lineTokens)
			if err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err.Error())
			}
		case "frame_size":
			r.rawScene.FrameW, r.rawScene.FrameH, err = parseFrameSize(lineTokens)
			if err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err.Error())
			}
		default:
			r.logger.Debugf("%s:%d: ignoring unsupported keyword %q", res.Path(), lineNum, lineTokens[0])
		}
	}

	if err = scanner.Err(); err != nil {
		return r.emitError(res.Path(), lineNum, "%s", err.Error())
	}

	r.verifyLastParsedMesh()
	return nil
}

// Drop the last parsed mesh if it contains no primitives.
func (r *wavefrontSceneReader) verifyLastParsedMesh() {
	lastMeshIndex := len(r.rawScene.Meshes) - 1
	if lastMeshIndex >= 0 && len(r.rawScene.Meshes[lastMeshIndex].Primitives) == 0 {
		r.logger.Warningf(`dropping mesh "%s" as it contains no polygons`, r.rawScene.Meshes[lastMeshIndex].Name)
		r.rawScene.Meshes = r.rawScene.Meshes[:lastMeshIndex]
	}
}

// Parse sphere definition. Definitions use the following format:
// sphere cX cY cZ radius
// The sphere uses the active material.
func (r *wavefrontSceneReader) parseSphere(lineTokens []string) (*input.Sphere, error) {
	if len(lineTokens) != 5 {
		return nil, fmt.Errorf(`unsupported syntax for "sphere"; expected 4 arguments: cX cY cZ radius; got %d`, len(lineTokens)-1)
	}

	center, err := parseVec3(lineTokens[:4])
	if err != nil {
		return nil, err
	}
	radius, err := strconv.ParseFloat(lineTokens[4], 32)
	if err != nil {
		return nil, err
	}
	if radius <= 0 {
		return nil, fmt.Errorf("sphere radius must be positive; got %s", lineTokens[4])
	}

	return &input.Sphere{
		Name:          fmt.Sprintf("sphere_%d", len(r.rawScene.Spheres)),
		Center:        center,
		Radius:        float32(radius),
		MaterialIndex: r.useCurrentMaterial(),
	}, nil
}

// Parse face definition. Each face definitions consists of 3 or more
// arguments, one for each vertex. Each one of the vertex arguments is
// comprised of 1, 2 or 3 args separated by a slash character. The following
// formats are supported:
// - vertexIndex
// - vertexIndex/uvIndex
// - vertexIndex//normalIndex
// - vertexIndex/uvIndex/normalIndex
//
// Only the vertex index is used. Indices start from 1 and may be negative to
// indicate an offset off the end of the vertex list. Polygons with more than 3
// vertices are split into a triangle fan around the first vertex.
func (r *wavefrontSceneReader) parseFace(lineTokens []string, relVertexOffset int) ([]*input.Primitive, error) {
	if len(lineTokens) < 4 {
		return nil, fmt.Errorf(`unsupported syntax for "f"; expected at least 3 arguments; got %d`, len(lineTokens)-1)
	}

	vertices := make([]types.Vec3, len(lineTokens)-1)
	expIndices := 0
	for arg := 0; arg < len(vertices); arg++ {
		vTokens := strings.Split(lineTokens[arg+1], "/")

		// The first arg defines the format for the following args
		if arg == 0 {
			expIndices = len(vTokens)
		} else if len(vTokens) != expIndices {
			return nil, fmt.Errorf("expected each face argument to contain %d indices; arg %d contains %d indices", expIndices, arg, len(vTokens))
		}

		// Faces must at least define a vertex coord
		if vTokens[0] == "" {
			return nil, fmt.Errorf("face argument %d does not include a vertex index", arg)
		}

		vOffset, err := selectFaceCoordIndex(vTokens[0], len(r.vertexList), relVertexOffset)
		if err != nil {
			return nil, fmt.Errorf("could not parse vertex coord for face argument %d: %s", arg, err.Error())
		}
		vertices[arg] = r.vertexList[vOffset]
	}

	matIndex := r.useCurrentMaterial()
	primitives := make([]*input.Primitive, 0, len(vertices)-2)
	for index := 1; index < len(vertices)-1; index++ {
		primitives = append(primitives, &input.Primitive{
			Vertices:      [3]types.Vec3{vertices[0], vertices[index], vertices[index+1]},
			MaterialIndex: matIndex,
		})
	}

	return primitives, nil
}

// Parse a wavefront material library.
func (r *wavefrontSceneReader) parseMaterials(res *asset.Resource) error {
	var lineNum int = 0
	var err error

	r.logger.Infof(`parsing material library "%s"`, res.Path())

	scanner := bufio.NewScanner(res)

	var curMaterial *wavefrontMaterial = nil
	var matName string = ""

	for scanner.Scan() {
		lineNum++
		lineTokens := strings.Fields(scanner.Text())
		if len(lineTokens) == 0 || strings.HasPrefix(lineTokens[0], "#") {
			continue
		}

		switch lineTokens[0] {
		case "newmtl":
			if len(lineTokens) != 2 {
				return r.emitError(res.Path(), lineNum, `unsupported syntax for "newmtl"; expected 1 argument; got %d`, len(lineTokens)-1)
			}

			matName = lineTokens[1]
			if _, exists := r.matNameToIndex[matName]; exists {
				return r.emitError(res.Path(), lineNum, `material "%s" already defined`, matName)
			}

			// Allocate new material and add it to library
			curMaterial = newWavefrontMaterial(matName)
			r.materials = append(r.materials, curMaterial)
			r.matNameToIndex[matName] = len(r.materials) - 1
		default:
			if curMaterial == nil {
				return r.emitError(res.Path(), lineNum, `got "%s" without a "newmtl"`, lineTokens[0])
			}

			switch lineTokens[0] {
			case "include":
				if len(lineTokens) < 2 {
					return r.emitError(res.Path(), lineNum, `unsupported syntax for "%s"; expected 1 argument; got %d`, lineTokens[0], len(lineTokens)-1)
				}

				baseMaterialIndex, exists := r.matNameToIndex[lineTokens[1]]
				if !exists {
					return r.emitError(res.Path(), lineNum, `could not include unknown material "%s"`, lineTokens[1])
				}

				// Overwrite material but keep the original name
				*curMaterial = *r.materials[baseMaterialIndex]
				curMaterial.Name = matName
				curMaterial.Used = false
			case "Kd", "Ks", "Ke":
				var target *types.Vec3
				switch lineTokens[0] {
				case "Kd":
					target = &curMaterial.Kd
				case "Ks":
					target = &curMaterial.Ks
				case "Ke":
					target = &curMaterial.Ke
				}

				*target, err = parseVec3(lineTokens)
			case "Ni":
				curMaterial.Ni, err = parseFloat32(lineTokens)
			case "Pr":
				curMaterial.Pr, err = parseFloat32(lineTokens)
			case "Pm":
				curMaterial.Pm, err = parseFloat32(lineTokens)
			case "KeScaler":
				curMaterial.KeScaler, err = parseFloat32(lineTokens)
			case "mat_type":
				if len(lineTokens) != 2 {
					return r.emitError(res.Path(), lineNum, `unsupported syntax for "%s"; expected 1 argument; got %d`, lineTokens[0], len(lineTokens)-1)
				}
				if !material.BxdfTypeFromName(lineTokens[1]).IsValid() {
					return r.emitError(res.Path(), lineNum, `unsupported material type "%s"`, lineTokens[1])
				}
				curMaterial.Type = lineTokens[1]
			}

			// Report any errors
			if err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err.Error())
			}
		}
	}

	return scanner.Err()
}

// Given an index for a face coord type (vertex, normal, tex) calculate the
// proper offset into the coord list. Wavefront format can also use negative
// indices to reference elements from the end of the coord list.
func selectFaceCoordIndex(indexToken string, coordListLen int, relOffset int) (int, error) {
	index, err := strconv.ParseInt(indexToken, 10, 32)
	if err != nil {
		return -1, err
	}

	var vOffset int = 0
	if index < 0 {
		vOffset = coordListLen + int(index)
	} else {
		vOffset = relOffset + int(index-1)
	}
	if vOffset < 0 || vOffset >= coordListLen {
		return -1, fmt.Errorf("index out of bounds")
	}
	return vOffset, nil
}

// Parse a frame size row.
func parseFrameSize(lineTokens []string) (uint32, uint32, error) {
	if len(lineTokens) != 3 {
		return 0, 0, fmt.Errorf(`unsupported syntax for "%s"; expected 2 arguments; got %d`, lineTokens[0], len(lineTokens)-1)
	}

	var dims [2]uint32
	for tokIdx := 1; tokIdx <= 2; tokIdx++ {
		v, err := strconv.ParseUint(lineTokens[tokIdx], 10, 32)
		if err != nil {
			return 0, 0, err
		}
		if v == 0 {
			return 0, 0, fmt.Errorf("frame dimensions must be positive")
		}
		dims[tokIdx-1] = uint32(v)
	}
	return dims[0], dims[1], nil
}

// Parse a float scalar value.
func parseFloat32(lineTokens []string) (float32, error) {
	if len(lineTokens) < 2 {
		return 0, fmt.Errorf(`unsupported syntax for "%s"; expected 1 argument; got %d`, lineTokens[0], len(lineTokens)-1)
	}

	val, err := strconv.ParseFloat(lineTokens[1], 32)
	if err != nil {
		return 0, err
	}

	return float32(val), nil
}

// Parse a Vec3 row.
func parseVec3(lineTokens []string) (types.Vec3, error) {
	if len(lineTokens) < 4 {
		return types.Vec3{}, fmt.Errorf(`unsupported syntax for "%s"; expected 3 arguments; got %d`, lineTokens[0], len(lineTokens)-1)
	}

	v := types.Vec3{}
	for tokIdx := 1; tokIdx <= 3; tokIdx++ {
		coord, err := strconv.ParseFloat(lineTokens[tokIdx], 32)
		if err != nil {
			return v, err
		}
		v[tokIdx-1] = float32(coord)
	}
	return v, nil
}
