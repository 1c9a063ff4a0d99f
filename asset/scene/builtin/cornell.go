package builtin

import (
	"github.com/achilleasa/polaris-cpu/asset/compiler/input"
	"github.com/achilleasa/polaris-cpu/types"
)

const (
	cornellRoughness float32 = 0.33
	cornellMetallic  float32 = 0.5
)

type quad [4]types.Vec3

// CornellBox builds the classic Cornell box: a white room with a red left
// wall, a green right wall, a ceiling light, two boxes and a sphere. All
// surfaces use the microfacet model.
func CornellBox() *input.Scene {
	sc := input.NewScene()

	const (
		matRed = iota
		matGreen
		matWhite
		matLight
		matObject
	)
	sc.Materials = []*input.Material{
		microFacet("red", types.XYZ(0.63, 0.065, 0.05)),
		microFacet("green", types.XYZ(0.14, 0.45, 0.091)),
		microFacet("white", types.XYZ(0.725, 0.71, 0.68)),
		microFacet("light", types.Splat(0.65)),
		microFacet("object", types.Splat(0.78)),
	}
	sc.Materials[matLight].Ke = types.XYZ(0.747+0.058, 0.747+0.258, 0.747).Mul(8).
		Add(types.XYZ(0.740+0.287, 0.740+0.160, 0.740).Mul(15.6)).
		Add(types.XYZ(0.737+0.642, 0.737+0.159, 0.737).Mul(18.4))

	addMesh(sc, "floor", matWhite,
		quad{{552.8, 0, 0}, {0, 0, 0}, {0, 0, 559.2}, {549.6, 0, 559.2}},
		quad{{556, 548.8, 0}, {556, 548.8, 559.2}, {0, 548.8, 559.2}, {0, 548.8, 0}},
		quad{{549.6, 0, 559.2}, {0, 0, 559.2}, {0, 548.8, 559.2}, {556, 548.8, 559.2}},
	)
	addMesh(sc, "left", matRed,
		quad{{552.8, 0, 0}, {549.6, 0, 559.2}, {556, 548.8, 559.2}, {556, 548.8, 0}},
	)
	addMesh(sc, "right", matGreen,
		quad{{0, 0, 559.2}, {0, 0, 0}, {0, 548.8, 0}, {0, 548.8, 559.2}},
	)

	// Emitters are one-sided; the winding makes the light face the floor.
	addMesh(sc, "light", matLight,
		quad{{343, 548.7, 227}, {343, 548.7, 332}, {213, 548.7, 332}, {213, 548.7, 227}},
	)

	addMesh(sc, "shortbox", matObject,
		quad{{130, 165, 65}, {82, 165, 225}, {240, 165, 272}, {290, 165, 114}},
		quad{{290, 0, 114}, {290, 165, 114}, {240, 165, 272}, {240, 0, 272}},
		quad{{130, 0, 65}, {130, 165, 65}, {290, 165, 114}, {290, 0, 114}},
		quad{{82, 0, 225}, {82, 165, 225}, {130, 165, 65}, {130, 0, 65}},
		quad{{240, 0, 272}, {240, 165, 272}, {82, 165, 225}, {82, 0, 225}},
	)
	addMesh(sc, "tallbox", matObject,
		quad{{423, 330, 247}, {265, 330, 296}, {314, 330, 456}, {472, 330, 406}},
		quad{{423, 0, 247}, {423, 330, 247}, {472, 330, 406}, {472, 0, 406}},
		quad{{472, 0, 406}, {472, 330, 406}, {314, 330, 456}, {314, 0, 456}},
		quad{{314, 0, 456}, {314, 330, 456}, {265, 330, 296}, {265, 0, 296}},
		quad{{265, 0, 296}, {265, 330, 296}, {423, 330, 247}, {423, 0, 247}},
	)

	sc.Spheres = append(sc.Spheres, &input.Sphere{
		Name:          "sphere",
		Center:        types.XYZ(174.5, 230, 170),
		Radius:        60,
		MaterialIndex: matObject,
	})

	for _, mat := range sc.Materials {
		mat.Used = true
	}
	return sc
}

func microFacet(name string, kd types.Vec3) *input.Material {
	return &input.Material{
		Name:      name,
		Type:      "microFacet",
		Kd:        kd,
		Roughness: cornellRoughness,
		Metallic:  cornellMetallic,
		IOR:       1.5,
	}
}

func addMesh(sc *input.Scene, name string, matIndex int, quads ...quad) {
	mesh := input.NewMesh(name)
	for _, q := range quads {
		mesh.AddQuad(q[0], q[1], q[2], q[3], matIndex)
	}
	sc.Meshes = append(sc.Meshes, mesh)
}
