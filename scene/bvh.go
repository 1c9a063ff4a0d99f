package scene

import "github.com/achilleasa/polaris-cpu/types"

// BvhItem is implemented by anything that can be stored in a BVH leaf.
type BvhItem interface {
	Intersect(ray *types.Ray) Intersection
	Sample(sampler types.Sampler) (Intersection, float32)
}

// BvhNode is a node of a BVH stored in a flat node list. A node either
// references exactly one item (leaf) or exactly two child nodes; unused
// indices are set to -1.
type BvhNode struct {
	Min types.Vec3
	Max types.Vec3

	// Cumulative area of the sampleable items below this node.
	Area float32

	Left  int32
	Right int32
	Item  int32
}

// Set the node bounding box.
func (n *BvhNode) SetBBox(bbox [2]types.Vec3) {
	n.Min = bbox[0]
	n.Max = bbox[1]
}

// Set the left and right child node indices. This turns the node into an
// internal node.
func (n *BvhNode) SetChildNodes(left, right uint32) {
	n.Left = int32(left)
	n.Right = int32(right)
	n.Item = -1
}

// Set the item index. This turns the node into a leaf.
func (n *BvhNode) SetItem(index uint32) {
	n.Left = -1
	n.Right = -1
	n.Item = int32(index)
}

// Returns true if this is a leaf node.
func (n *BvhNode) IsLeaf() bool {
	return n.Item >= 0
}

// Get the node bounding box.
func (n *BvhNode) BBox() [2]types.Vec3 {
	return [2]types.Vec3{n.Min, n.Max}
}

// Test whether a ray intersects the node bounding box. The near and far slab
// planes are selected by the precomputed direction signs; infinite inverse
// direction components are handled by IEEE arithmetic and NaN results (ray
// origin on a slab plane) fail the comparisons and are ignored.
func (n *BvhNode) intersects(ray *types.Ray) bool {
	bounds := [2]types.Vec3{n.Min, n.Max}
	tEnter := ray.TMin
	tExit := ray.TMax

	for axis := 0; axis < 3; axis++ {
		near, far := 0, 1
		if ray.DirIsNeg[axis] {
			near, far = 1, 0
		}

		t0 := (bounds[near][axis] - ray.Origin[axis]) * ray.DirInv[axis]
		t1 := (bounds[far][axis] - ray.Origin[axis]) * ray.DirInv[axis]
		if t0 > tEnter {
			tEnter = t0
		}
		if t1 < tExit {
			tExit = t1
		}
	}

	return tEnter <= tExit
}

// Bvh is a bounding volume hierarchy over a list of items. The root node is
// stored at index 0. A Bvh is read-only once created and may be queried
// concurrently.
type Bvh struct {
	Nodes []BvhNode
	items []BvhItem
}

// Create a Bvh from a node list and the items its leafs refer to.
func NewBvh(nodes []BvhNode, items []BvhItem) *Bvh {
	return &Bvh{
		Nodes: nodes,
		items: items,
	}
}

// Get the number of items referenced by the tree leafs.
func (b *Bvh) ItemCount() int {
	return len(b.items)
}

// Get the total sampleable area.
func (b *Bvh) Area() float32 {
	if len(b.Nodes) == 0 {
		return 0
	}
	return b.Nodes[0].Area
}

// Get the bounding box of the entire tree.
func (b *Bvh) BBox() [2]types.Vec3 {
	if len(b.Nodes) == 0 {
		return [2]types.Vec3{}
	}
	return b.Nodes[0].BBox()
}

// Find the nearest intersection of ray with the items in the tree.
func (b *Bvh) Intersect(ray *types.Ray) Intersection {
	if len(b.Nodes) == 0 {
		return NoHit()
	}
	return b.intersectNode(0, ray)
}

func (b *Bvh) intersectNode(index int32, ray *types.Ray) Intersection {
	node := &b.Nodes[index]
	if !node.intersects(ray) {
		return NoHit()
	}

	if node.IsLeaf() {
		return b.items[node.Item].Intersect(ray)
	}

	leftHit := b.intersectNode(node.Left, ray)
	rightHit := b.intersectNode(node.Right, ray)
	if leftHit.Happened && leftHit.Distance < rightHit.Distance {
		return leftHit
	}
	return rightHit
}

// Sample a point on the items in the tree with probability proportional to
// their area. The returned density is expressed with respect to the total
// tree area. Trees without sampleable area return a zero density.
func (b *Bvh) Sample(sampler types.Sampler) (Intersection, float32) {
	totalArea := b.Area()
	if totalArea <= 0 {
		return NoHit(), 0
	}

	// u stays uniform over [0, totalArea); any remap skews light selection
	// away from the area fractions.
	u := sampler.Get1D() * totalArea
	sample, pdf := b.sampleNode(0, u, sampler)
	return sample, pdf / totalArea
}

func (b *Bvh) sampleNode(index int32, u float32, sampler types.Sampler) (Intersection, float32) {
	node := &b.Nodes[index]
	if node.IsLeaf() {
		sample, pdf := b.items[node.Item].Sample(sampler)
		return sample, pdf * node.Area
	}

	leftArea := b.Nodes[node.Left].Area
	if u < leftArea || b.Nodes[node.Right].Area <= 0 {
		return b.sampleNode(node.Left, u, sampler)
	}
	return b.sampleNode(node.Right, u-leftArea, sampler)
}
