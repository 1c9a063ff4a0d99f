package bvh

import (
	"math"
	"math/rand"
	"testing"

	"github.com/achilleasa/polaris-cpu/asset/material"
	"github.com/achilleasa/polaris-cpu/scene"
	"github.com/achilleasa/polaris-cpu/types"
)

func TestBuildEmptyList(t *testing.T) {
	nodes := Build(nil)
	if len(nodes) != 0 {
		t.Fatalf("expected empty node list; got %d nodes", len(nodes))
	}

	tree := scene.NewBvh(nodes, nil)
	ray := types.NewRay(types.XYZ(0, 0, 0), types.XYZ(0, 0, 1))
	if hit := tree.Intersect(&ray); hit.Happened || !math.IsInf(float64(hit.Distance), 1) {
		t.Fatalf("expected no hit sentinel; got %+v", hit)
	}

	_, pdf := tree.Sample(types.NewRandomSampler(1))
	if pdf != 0 {
		t.Fatalf("expected zero density for an empty tree; got %f", pdf)
	}
}

func TestBuildStructure(t *testing.T) {
	specs := []int{1, 2, 3, 4, 7, 64, 101}

	for _, itemCount := range specs {
		triangles := randomTriangles(itemCount, int64(itemCount))
		nodes := Build(triangleVolumes(triangles))

		if expCount := 2*itemCount - 1; len(nodes) != expCount {
			t.Fatalf("[%d items] expected %d nodes; got %d", itemCount, expCount, len(nodes))
		}

		seen := make(map[int32]bool)
		for index, node := range nodes {
			if node.IsLeaf() {
				if node.Left != -1 || node.Right != -1 {
					t.Fatalf("[%d items] leaf node %d must not have children", itemCount, index)
				}
				if seen[node.Item] {
					t.Fatalf("[%d items] item %d referenced by more than one leaf", itemCount, node.Item)
				}
				seen[node.Item] = true
				continue
			}

			if node.Left <= 0 || node.Right <= 0 || int(node.Left) >= len(nodes) || int(node.Right) >= len(nodes) {
				t.Fatalf("[%d items] internal node %d has invalid children (%d, %d)", itemCount, index, node.Left, node.Right)
			}
		}

		if len(seen) != itemCount {
			t.Fatalf("[%d items] expected every item to be referenced by a leaf; got %d", itemCount, len(seen))
		}
	}
}

func TestBuildDepthIsBalanced(t *testing.T) {
	// Heavily clustered input must still produce a balanced tree.
	triangles := make([]scene.Triangle, 0, 256)
	for i := 0; i < 255; i++ {
		offset := float32(i) * 1e-3
		triangles = append(triangles, scene.NewTriangle(types.XYZ(offset, 0, 0), types.XYZ(offset+1, 0, 0), types.XYZ(offset, 1, 0)))
	}
	triangles = append(triangles, scene.NewTriangle(types.XYZ(1000, 0, 0), types.XYZ(1001, 0, 0), types.XYZ(1000, 1, 0)))

	nodes := Build(triangleVolumes(triangles))

	var maxDepth func(index int32, depth int) int
	maxDepth = func(index int32, depth int) int {
		node := nodes[index]
		if node.IsLeaf() {
			return depth
		}
		l := maxDepth(node.Left, depth+1)
		r := maxDepth(node.Right, depth+1)
		if l > r {
			return l
		}
		return r
	}

	if depth := maxDepth(0, 0); depth != 8 {
		t.Fatalf("expected tree depth 8 for 256 items; got %d", depth)
	}
}

func TestBoundingInvariant(t *testing.T) {
	triangles := randomTriangles(200, 42)
	volumes := triangleVolumes(triangles)
	nodes := Build(volumes)

	for index, node := range nodes {
		var children [][2]types.Vec3
		if node.IsLeaf() {
			children = append(children, volumes[node.Item].BBox())
		} else {
			children = append(children, nodes[node.Left].BBox(), nodes[node.Right].BBox())
		}

		for _, bbox := range children {
			for axis := 0; axis < 3; axis++ {
				if bbox[0][axis] < node.Min[axis] || bbox[1][axis] > node.Max[axis] {
					t.Fatalf("node %d bbox [%v, %v] does not contain child bbox [%v, %v]", index, node.Min, node.Max, bbox[0], bbox[1])
				}
			}
		}

		if !node.IsLeaf() {
			expArea := nodes[node.Left].Area + nodes[node.Right].Area
			if node.Area != expArea {
				t.Fatalf("node %d: expected area %f to equal the sum of its children; got %f", index, expArea, node.Area)
			}
		}
	}
}

func TestIntersectMatchesLinearSearch(t *testing.T) {
	triangles := randomTriangles(300, 7)
	nodes := Build(triangleVolumes(triangles))

	items := make([]scene.BvhItem, len(triangles))
	for index := range triangles {
		items[index] = &triangles[index]
	}
	tree := scene.NewBvh(nodes, items)

	rng := rand.New(rand.NewSource(99))
	var hits int
	for i := 0; i < 2000; i++ {
		origin := types.XYZ(rng.Float32()*120-60, rng.Float32()*120-60, rng.Float32()*120-60)
		target := types.XYZ(rng.Float32()*100-50, rng.Float32()*100-50, rng.Float32()*100-50)
		ray := types.NewRay(origin, target.Sub(origin).Normalize())

		expDist := types.PosInf
		for index := range triangles {
			if hit := triangles[index].Intersect(&ray); hit.Happened && hit.Distance < expDist {
				expDist = hit.Distance
			}
		}

		hit := tree.Intersect(&ray)
		if math.IsInf(float64(expDist), 1) {
			if hit.Happened {
				t.Fatalf("[ray %d] expected no hit; got hit at distance %f", i, hit.Distance)
			}
			continue
		}

		hits++
		if !hit.Happened || hit.Distance != expDist {
			t.Fatalf("[ray %d] expected hit at distance %f; got %+v", i, expDist, hit)
		}
	}

	if hits == 0 {
		t.Fatal("expected at least one ray to hit the test geometry")
	}
}

func TestIntersectFromInsidePrimitiveBounds(t *testing.T) {
	mat := material.New("white", material.BxdfDiffuse)

	var prims []*scene.Primitive
	for x := 0; x < 4; x++ {
		for z := 0; z < 4; z++ {
			radius := 1 + float32(x+z)*0.25
			center := types.XYZ(float32(x)*10, 0, float32(z)*10)
			prims = append(prims, scene.NewSpherePrimitive("sphere", center, radius, mat))
		}
	}

	volumes := make([]BoundedVolume, len(prims))
	items := make([]scene.BvhItem, len(prims))
	for index, prim := range prims {
		volumes[index] = prim
		items[index] = prim
	}
	tree := scene.NewBvh(Build(volumes), items)

	dirs := []types.Vec3{
		types.XYZ(1, 0, 0), types.XYZ(-1, 0, 0),
		types.XYZ(0, 1, 0), types.XYZ(0, -1, 0),
		types.XYZ(0, 0, 1), types.XYZ(0, 0, -1),
		types.XYZ(1, 1, 1).Normalize(),
	}
	for index, prim := range prims {
		for _, dir := range dirs {
			ray := types.NewRay(prim.Sphere.Center, dir)
			hit := tree.Intersect(&ray)
			if !hit.Happened || hit.Primitive != prim {
				t.Fatalf("[prim %d] expected ray along %v to hit its own sphere; got %+v", index, dir, hit)
			}
			if math.Abs(float64(hit.Distance-prim.Sphere.Radius)) > 1e-4 {
				t.Fatalf("[prim %d] expected hit distance %f; got %f", index, prim.Sphere.Radius, hit.Distance)
			}
			if hit.Normal.Dot(dir) > 0 {
				t.Fatalf("[prim %d] expected normal to face the incoming ray; got %v", index, hit.Normal)
			}
		}
	}
}

func TestSampleAreaDensity(t *testing.T) {
	triangles := []scene.Triangle{
		scene.NewTriangle(types.XYZ(0, 0, 0), types.XYZ(1, 0, 0), types.XYZ(0, 1, 0)),
		scene.NewTriangle(types.XYZ(5, 0, 0), types.XYZ(9, 0, 0), types.XYZ(5, 2, 0)),
		scene.NewTriangle(types.XYZ(0, 5, 0), types.XYZ(3, 5, 0), types.XYZ(0, 8, 0)),
	}
	mesh := scene.NewMesh(triangles, Build(triangleVolumes(triangles)))

	expArea := float32(0.5 + 4 + 4.5)
	if mesh.Area() != expArea {
		t.Fatalf("expected mesh area %f; got %f", expArea, mesh.Area())
	}

	sampler := types.NewRandomSampler(3)
	for i := 0; i < 1000; i++ {
		_, pdf := mesh.Sample(sampler)
		if math.Abs(float64(pdf-1/expArea)) > 1e-6 {
			t.Fatalf("expected uniform density %f; got %f", 1/expArea, pdf)
		}
	}
}

func triangleVolumes(triangles []scene.Triangle) []BoundedVolume {
	volumes := make([]BoundedVolume, len(triangles))
	for index := range triangles {
		volumes[index] = &triangles[index]
	}
	return volumes
}

func randomTriangles(count int, seed int64) []scene.Triangle {
	rng := rand.New(rand.NewSource(seed))
	triangles := make([]scene.Triangle, count)
	for index := range triangles {
		center := types.XYZ(rng.Float32()*100-50, rng.Float32()*100-50, rng.Float32()*100-50)
		jitter := func() types.Vec3 {
			return types.XYZ(rng.Float32()*10-5, rng.Float32()*10-5, rng.Float32()*10-5)
		}
		triangles[index] = scene.NewTriangle(center.Add(jitter()), center.Add(jitter()), center.Add(jitter()))
	}
	return triangles
}
