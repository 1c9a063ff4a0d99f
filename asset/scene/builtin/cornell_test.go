package builtin

import (
	"math"
	"testing"

	"github.com/achilleasa/polaris-cpu/asset/compiler"
	"github.com/achilleasa/polaris-cpu/types"
)

func TestCornellBoxCompiles(t *testing.T) {
	sc, err := compiler.Compile(CornellBox())
	if err != nil {
		t.Fatal(err)
	}

	if sc.FrameW != 784 || sc.FrameH != 784 {
		t.Fatalf("expected 784x784 frame; got %dx%d", sc.FrameW, sc.FrameH)
	}

	var emissives int
	for _, prim := range sc.Primitives {
		if prim.HasEmission() {
			emissives++
		}
	}
	if emissives != 1 {
		t.Fatalf("expected a single light; got %d", emissives)
	}

	if area := sc.EmissiveArea(); math.Abs(float64(area-13650)) > 0.5 {
		t.Fatalf("expected light area 13650; got %f", area)
	}
}

func TestCornellLightFacesFloor(t *testing.T) {
	sc, err := compiler.Compile(CornellBox())
	if err != nil {
		t.Fatal(err)
	}

	sampler := types.NewRandomSampler(5)
	for i := 0; i < 100; i++ {
		sample, pdf := sc.SampleLight(sampler)
		if pdf <= 0 {
			t.Fatalf("expected positive light density; got %f", pdf)
		}
		if sample.Normal.Dot(types.XYZ(0, -1, 0)) < 0.999 {
			t.Fatalf("expected light normal to point down; got %v", sample.Normal)
		}
		if sample.Emit.MaxComponent() <= 0 {
			t.Fatalf("expected light sample to carry emission; got %v", sample.Emit)
		}
	}
}

func TestCornellRaysHitGeometry(t *testing.T) {
	sc, err := compiler.Compile(CornellBox())
	if err != nil {
		t.Fatal(err)
	}

	ray := sc.Camera.PrimaryRay(sc.FrameW/2, sc.FrameH/2, sc.FrameW, sc.FrameH)
	if hit := sc.Intersect(&ray); !hit.Happened {
		t.Fatal("expected center camera ray to hit the scene")
	}

	// A ray above the boxes and below the ceiling hits the back wall.
	ray = types.NewRay(types.XYZ(278, 400, -800), types.XYZ(0, 0, 1))
	hit := sc.Intersect(&ray)
	if !hit.Happened {
		t.Fatal("expected ray to hit the back wall")
	}
	if math.Abs(float64(hit.Coords[2]-559.2)) > 0.5 {
		t.Fatalf("expected ray to hit the back wall at z=559.2; got %v", hit.Coords)
	}
	if hit.Normal[2] >= 0 {
		t.Fatalf("expected hit normal to face the camera; got %v", hit.Normal)
	}
}
