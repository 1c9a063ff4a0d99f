package bvh

import (
	"math"
	"sort"
	"time"

	"github.com/achilleasa/polaris-cpu/log"
	"github.com/achilleasa/polaris-cpu/scene"
	"github.com/achilleasa/polaris-cpu/types"
)

// The BoundedVolume interface is implemented by all meshes/primitives that can
// be partitioned by the bvh builder.
type BoundedVolume interface {
	BBox() [2]types.Vec3
	Center() types.Vec3

	// The area that the volume contributes to area-proportional sampling.
	Area() float32
}

type stats struct {
	totalItems int
	nodes      int
	leafs      int
	maxDepth   int
}

type builder struct {
	logger log.Logger

	items []BoundedVolume

	// Bvh nodes stored as a contiguous list
	nodes []scene.BvhNode

	stats stats
}

// Construct a BVH from a set of bounded volumes and return its nodes; the root
// is stored at index 0 and leaf item indices refer to positions in workList.
//
// Each leaf holds exactly one item. Larger sets are split at the median of
// their centroids along the axis where the centroid bounds have the largest
// extent, which keeps the tree depth at O(log n) regardless of how the items
// are clustered. An empty work list yields an empty node list.
func Build(workList []BoundedVolume) []scene.BvhNode {
	b := &builder{
		logger: log.New("bvh builder"),
		items:  workList,
		nodes:  make([]scene.BvhNode, 0, 2*len(workList)),
		stats: stats{
			totalItems: len(workList),
		},
	}

	if len(workList) == 0 {
		return b.nodes
	}

	indices := make([]int, len(workList))
	for index := range indices {
		indices[index] = index
	}

	start := time.Now()
	b.partition(indices, 0)
	b.logger.Debugf(
		"BVH tree build time: %d ms, items: %d, maxDepth: %d, nodes: %d, leafs: %d",
		time.Since(start).Nanoseconds()/1e6,
		b.stats.totalItems, b.stats.maxDepth, b.stats.nodes, b.stats.leafs,
	)
	return b.nodes
}

// Partition worklist and return node index.
func (b *builder) partition(workList []int, depth int) uint32 {
	if depth > b.stats.maxDepth {
		b.stats.maxDepth = depth
	}

	if len(workList) == 1 {
		return b.createLeaf(workList[0])
	}

	var leftWorkList, rightWorkList []int
	if len(workList) == 2 {
		leftWorkList, rightWorkList = workList[:1], workList[1:]
	} else {
		centroidMin := types.Vec3{math.MaxFloat32, math.MaxFloat32, math.MaxFloat32}
		centroidMax := types.Vec3{-math.MaxFloat32, -math.MaxFloat32, -math.MaxFloat32}
		for _, itemIndex := range workList {
			center := b.items[itemIndex].Center()
			centroidMin = types.MinVec3(centroidMin, center)
			centroidMax = types.MaxVec3(centroidMax, center)
		}

		axis := centroidMax.Sub(centroidMin).MaxDimension()
		sort.SliceStable(workList, func(i, j int) bool {
			return b.items[workList[i]].Center()[axis] < b.items[workList[j]].Center()[axis]
		})

		mid := len(workList) / 2
		leftWorkList, rightWorkList = workList[:mid], workList[mid:]
	}

	// Add node to list
	nodeIndex := len(b.nodes)
	b.nodes = append(b.nodes, scene.BvhNode{})
	b.stats.nodes++

	// Partition children and update node indices
	leftNodeIndex := b.partition(leftWorkList, depth+1)
	rightNodeIndex := b.partition(rightWorkList, depth+1)

	left, right := &b.nodes[leftNodeIndex], &b.nodes[rightNodeIndex]
	node := &b.nodes[nodeIndex]
	node.SetBBox([2]types.Vec3{
		types.MinVec3(left.Min, right.Min),
		types.MaxVec3(left.Max, right.Max),
	})
	node.Area = left.Area + right.Area
	node.SetChildNodes(leftNodeIndex, rightNodeIndex)

	return uint32(nodeIndex)
}

// Create a leaf for the item with the given index. Returns the index to the
// node in the bvh node array.
func (b *builder) createLeaf(itemIndex int) uint32 {
	item := b.items[itemIndex]

	node := scene.BvhNode{Area: item.Area()}
	node.SetBBox(item.BBox())
	node.SetItem(uint32(itemIndex))

	nodeIndex := len(b.nodes)
	b.nodes = append(b.nodes, node)
	b.stats.nodes++
	b.stats.leafs++

	return uint32(nodeIndex)
}
