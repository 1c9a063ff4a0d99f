package scene

import "github.com/achilleasa/polaris-cpu/types"

// Mesh is a triangle list with its own BVH.
type Mesh struct {
	Triangles []Triangle
	bvh       *Bvh
}

// Create a mesh from a list of triangles and the nodes of a BVH built over
// them. Leaf item indices refer to positions in the triangle list.
func NewMesh(triangles []Triangle, nodes []BvhNode) *Mesh {
	items := make([]BvhItem, len(triangles))
	for index := range triangles {
		items[index] = &triangles[index]
	}

	return &Mesh{
		Triangles: triangles,
		bvh:       NewBvh(nodes, items),
	}
}

func (m *Mesh) BBox() [2]types.Vec3 {
	return m.bvh.BBox()
}

// Get the total triangle area.
func (m *Mesh) Area() float32 {
	return m.bvh.Area()
}

// Get the mesh BVH.
func (m *Mesh) Bvh() *Bvh {
	return m.bvh
}

func (m *Mesh) Intersect(ray *types.Ray) Intersection {
	return m.bvh.Intersect(ray)
}

func (m *Mesh) Sample(sampler types.Sampler) (Intersection, float32) {
	return m.bvh.Sample(sampler)
}
