package scene

import (
	"bytes"
	"fmt"

	"github.com/achilleasa/polaris-cpu/asset/material"
	"github.com/achilleasa/polaris-cpu/types"
	"github.com/olekukonko/tablewriter"
)

// Scene is the render-ready scene representation. It is built once before
// rendering starts and is read-only afterwards, so it can be shared by all
// render workers without locking.
type Scene struct {
	Primitives []*Primitive
	Materials  []*material.Material

	// BVH over Primitives. Node areas only account for emissive primitives.
	Bvh *Bvh

	Camera *Camera

	// Output frame dimensions.
	FrameW uint32
	FrameH uint32

	// Color returned for camera rays that escape the scene.
	Background types.Vec3
}

// Find the nearest primitive intersected by ray.
func (sc *Scene) Intersect(ray *types.Ray) Intersection {
	return sc.Bvh.Intersect(ray)
}

// Sample a point on the union of emissive surfaces with probability
// proportional to area. A zero density is returned when the scene has no
// lights.
func (sc *Scene) SampleLight(sampler types.Sampler) (Intersection, float32) {
	return sc.Bvh.Sample(sampler)
}

// Get the total emissive surface area.
func (sc *Scene) EmissiveArea() float32 {
	return sc.Bvh.Area()
}

// Build a tabular representation of scene statistics.
func (sc *Scene) Stats() string {
	var (
		meshes, spheres, emissives, triangles int
		emissiveArea                          float32
	)
	for _, prim := range sc.Primitives {
		switch prim.Type {
		case MeshPrimitive:
			meshes++
			triangles += len(prim.Mesh.Triangles)
		case SpherePrimitive:
			spheres++
		}
		if prim.HasEmission() {
			emissives++
			emissiveArea += prim.Area()
		}
	}

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Asset Type", "Asset", "Value"})
	table.Append([]string{"Geometry", "Meshes", fmt.Sprint(meshes)})
	table.Append([]string{"", "Triangles", fmt.Sprint(triangles)})
	table.Append([]string{"", "Spheres", fmt.Sprint(spheres)})
	table.Append([]string{"", "BVH nodes", fmt.Sprint(len(sc.Bvh.Nodes))})
	table.Append([]string{" ", " ", " "})
	table.Append([]string{"Lights", "Emissives", fmt.Sprint(emissives)})
	table.Append([]string{"", "Emissive area", fmt.Sprintf("%.2f", emissiveArea)})
	table.Append([]string{" ", " ", " "})
	table.Append([]string{"Materials", "Count", fmt.Sprint(len(sc.Materials))})
	table.Append([]string{" ", " ", " "})
	table.Append([]string{"Camera", "Eye", fmt.Sprintf("(%.1f, %.1f, %.1f)", sc.Camera.Eye[0], sc.Camera.Eye[1], sc.Camera.Eye[2])})
	table.Append([]string{"", "FOV", fmt.Sprintf("%.1f", sc.Camera.FOV)})
	table.Append([]string{"", "Frame", fmt.Sprintf("%dx%d", sc.FrameW, sc.FrameH)})
	table.SetFooter([]string{"Total", "Primitives", fmt.Sprint(len(sc.Primitives))})

	table.Render()
	return buf.String()
}
