package input

import (
	"math"

	"github.com/achilleasa/polaris-cpu/types"
)

type Material struct {
	Name string

	// Surface type name (diffuse, microFacet or mirror).
	Type string

	Kd types.Vec3
	Ks types.Vec3
	Ke types.Vec3

	Roughness float32
	Metallic  float32
	IOR       float32

	// True if material is referenced by scene geometry.
	Used bool
}

// A triangle primitive
type Primitive struct {
	Vertices      [3]types.Vec3
	MaterialIndex int
}

// Get the primitive AABB.
func (prim *Primitive) BBox() [2]types.Vec3 {
	return [2]types.Vec3{
		types.MinVec3(prim.Vertices[0], types.MinVec3(prim.Vertices[1], prim.Vertices[2])),
		types.MaxVec3(prim.Vertices[0], types.MaxVec3(prim.Vertices[1], prim.Vertices[2])),
	}
}

// A mesh is constructed by a list of primitive.
type Mesh struct {
	Name       string
	Primitives []*Primitive
}

// Create a new mesh.
func NewMesh(name string) *Mesh {
	return &Mesh{
		Name:       name,
		Primitives: make([]*Primitive, 0),
	}
}

// Append a triangle to the mesh.
func (m *Mesh) AddTriangle(v0, v1, v2 types.Vec3, materialIndex int) {
	m.Primitives = append(m.Primitives, &Primitive{
		Vertices:      [3]types.Vec3{v0, v1, v2},
		MaterialIndex: materialIndex,
	})
}

// Append a planar quad to the mesh as two triangles sharing the v0-v2 edge.
func (m *Mesh) AddQuad(v0, v1, v2, v3 types.Vec3, materialIndex int) {
	m.AddTriangle(v0, v1, v2, materialIndex)
	m.AddTriangle(v0, v2, v3, materialIndex)
}

// Get mesh bounding box.
func (m *Mesh) BBox() [2]types.Vec3 {
	bbox := [2]types.Vec3{
		{math.MaxFloat32, math.MaxFloat32, math.MaxFloat32},
		{-math.MaxFloat32, -math.MaxFloat32, -math.MaxFloat32},
	}

	for _, prim := range m.Primitives {
		primBBox := prim.BBox()
		bbox[0] = types.MinVec3(bbox[0], primBBox[0])
		bbox[1] = types.MaxVec3(bbox[1], primBBox[1])
	}

	return bbox
}

// An analytic sphere.
type Sphere struct {
	Name          string
	Center        types.Vec3
	Radius        float32
	MaterialIndex int
}

// Camera settings.
type Camera struct {
	FOV float32
	Eye types.Vec3
}

// The scene contains all elements that are processed by the scene compiler.
type Scene struct {
	Meshes    []*Mesh
	Spheres   []*Sphere
	Materials []*Material
	Camera    *Camera

	FrameW     uint32
	FrameH     uint32
	Background types.Vec3
}

var (
	DefaultFrameW     uint32 = 784
	DefaultFrameH     uint32 = 784
	DefaultFOV        float32 = 40
	DefaultEye                = types.Vec3{278, 273, -800}
	DefaultBackground         = types.Vec3{0.235294, 0.67451, 0.843137}
)

// Create a new scene.
func NewScene() *Scene {
	return &Scene{
		Meshes:    make([]*Mesh, 0),
		Spheres:   make([]*Sphere, 0),
		Materials: make([]*Material, 0),
		Camera: &Camera{
			FOV: DefaultFOV,
			Eye: DefaultEye,
		},
		FrameW:     DefaultFrameW,
		FrameH:     DefaultFrameH,
		Background: DefaultBackground,
	}
}
