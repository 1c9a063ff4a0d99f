package reader

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/achilleasa/polaris-cpu/asset"
	"github.com/achilleasa/polaris-cpu/types"
)

func TestParseFloat32(t *testing.T) {
	type spec struct {
		input  []string
		expVal float32
		expErr bool
	}

	specs := []spec{
		{[]string{"Ni", "1.5"}, 1.5, false},
		{[]string{"Ni", "-0.25", "ignored"}, -0.25, false},
		{[]string{"Ni"}, 0, true},
		{[]string{"Ni", "abc"}, 0, true},
	}

	for index, s := range specs {
		v, err := parseFloat32(s.input)
		if s.expErr != (err != nil) {
			t.Errorf("[spec %d] expected error to be %t; got %v", index, s.expErr, err)
			continue
		}
		if v != s.expVal {
			t.Errorf("[spec %d] expected value %f; got %f", index, s.expVal, v)
		}
	}
}

func TestParseVec3(t *testing.T) {
	type spec struct {
		input  []string
		expVal types.Vec3
		expErr bool
	}

	specs := []spec{
		{[]string{"v", "1", "2", "3"}, types.XYZ(1, 2, 3), false},
		{[]string{"v", "-1e2", "0.5", "0"}, types.XYZ(-100, 0.5, 0), false},
		{[]string{"v", "1", "2"}, types.Vec3{}, true},
		{[]string{"v", "1", "b", "3"}, types.Vec3{}, true},
	}

	for index, s := range specs {
		v, err := parseVec3(s.input)
		if s.expErr != (err != nil) {
			t.Errorf("[spec %d] expected error to be %t; got %v", index, s.expErr, err)
			continue
		}
		if !s.expErr && v != s.expVal {
			t.Errorf("[spec %d] expected value %v; got %v", index, s.expVal, v)
		}
	}
}

func TestParseFrameSize(t *testing.T) {
	w, h, err := parseFrameSize([]string{"frame_size", "640", "480"})
	if err != nil {
		t.Fatal(err)
	}
	if w != 640 || h != 480 {
		t.Fatalf("expected 640x480; got %dx%d", w, h)
	}

	for _, tokens := range [][]string{
		{"frame_size", "640"},
		{"frame_size", "0", "480"},
		{"frame_size", "-1", "480"},
	} {
		if _, _, err = parseFrameSize(tokens); err == nil {
			t.Errorf("expected an error parsing %v", tokens)
		}
	}
}

func TestSelectFaceCoordinate(t *testing.T) {
	type spec struct {
		index     string
		listLen   int
		relOffset int
		expIndex  int
		expErr    bool
	}

	specs := []spec{
		{"1", 3, 0, 0, false},
		{"3", 3, 0, 2, false},
		{"-1", 3, 0, 2, false},
		{"-3", 3, 0, 0, false},
		{"1", 5, 2, 2, false},
		{"4", 3, 0, -1, true},
		{"-4", 3, 0, -1, true},
		{"0", 3, 0, -1, true},
		{"x", 3, 0, -1, true},
	}

	for index, s := range specs {
		vIndex, err := selectFaceCoordIndex(s.index, s.listLen, s.relOffset)
		if s.expErr != (err != nil) {
			t.Errorf("[spec %d] expected error to be %t; got %v", index, s.expErr, err)
			continue
		}
		if vIndex != s.expIndex {
			t.Errorf("[spec %d] expected index %d; got %d", index, s.expIndex, vIndex)
		}
	}
}

func TestParseFaces(t *testing.T) {
	payload := `
# a unit quad, a triangle and a pentagon
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
v 2 2 2
o shapes
f 1 2 3 4
f 1/1 2/2 5/5
f -5//1 -4//1 -3//1 -2//1 -1//1
`
	r := newWavefrontReader()
	sc, err := r.Read(mockResource(payload))
	if err != nil {
		t.Fatal(err)
	}

	if len(sc.Meshes) != 1 || sc.Meshes[0].Name != "shapes" {
		t.Fatalf("expected a single mesh named shapes; got %d meshes", len(sc.Meshes))
	}

	// quad: 2, triangle: 1, pentagon: 3
	prims := sc.Meshes[0].Primitives
	if len(prims) != 6 {
		t.Fatalf("expected 6 triangles; got %d", len(prims))
	}

	expQuad := [][3]types.Vec3{
		{types.XYZ(0, 0, 0), types.XYZ(1, 0, 0), types.XYZ(1, 1, 0)},
		{types.XYZ(0, 0, 0), types.XYZ(1, 1, 0), types.XYZ(0, 1, 0)},
	}
	for index, exp := range expQuad {
		if prims[index].Vertices != exp {
			t.Errorf("expected quad triangle %d to be %v; got %v", index, exp, prims[index].Vertices)
		}
	}
	if prims[2].Vertices[2] != types.XYZ(2, 2, 2) {
		t.Errorf("expected triangle to use vertex 5; got %v", prims[2].Vertices)
	}

	// Fan triangles share the first vertex
	for index := 3; index < 6; index++ {
		if prims[index].Vertices[0] != types.XYZ(0, 0, 0) {
			t.Errorf("expected fan triangle %d to start at the first vertex; got %v", index, prims[index].Vertices)
		}
	}

	// Faces without a material use the default one
	if len(sc.Materials) != 1 || sc.Materials[0].Type != "diffuse" {
		t.Fatalf("expected a single default diffuse material; got %d", len(sc.Materials))
	}
	if sc.Materials[0].Kd != types.XYZ(0.7, 0.7, 0.7) {
		t.Fatalf("expected default material albedo 0.7; got %v", sc.Materials[0].Kd)
	}
}

func TestParseFaceErrors(t *testing.T) {
	specs := []struct {
		payload string
		expErr  string
	}{
		{"v 0 0 0\nv 1 0 0\nf 1 2", `unsupported syntax for "f"; expected at least 3 arguments; got 2`},
		{"v 0 0 0\nv 1 0 0\nv 1 1 0\nf 1 2 4", "could not parse vertex coord for face argument 2: index out of bounds"},
		{"v 0 0 0\nv 1 0 0\nv 1 1 0\nf 1/1 2 3", "expected each face argument to contain 2 indices; arg 1 contains 1 indices"},
		{"v 0 0 0\nv 1 0 0\nv 1 1 0\nf /1 2 3", "face argument 0 does not include a vertex index"},
		{"usemtl missing", `undefined material with name "missing"`},
		{"sphere 0 0 0", `unsupported syntax for "sphere"; expected 4 arguments: cX cY cZ radius; got 3`},
		{"sphere 0 0 0 -1", "sphere radius must be positive; got -1"},
	}

	for index, s := range specs {
		_, err := newWavefrontReader().Read(mockResource(s.payload))
		if err == nil || !strings.Contains(err.Error(), s.expErr) {
			t.Errorf("[spec %d] expected error containing %q; got %v", index, s.expErr, err)
		}
	}
}

func TestParseSceneExtensions(t *testing.T) {
	payload := `
camera_fov 55
camera_eye 1 2 3
frame_size 320 200
background 0.1 0.2 0.3
sphere 0 1 0 2.5
`
	sc, err := newWavefrontReader().Read(mockResource(payload))
	if err != nil {
		t.Fatal(err)
	}

	if sc.Camera.FOV != 55 {
		t.Errorf("expected camera fov 55; got %f", sc.Camera.FOV)
	}
	if sc.Camera.Eye != types.XYZ(1, 2, 3) {
		t.Errorf("expected camera eye (1, 2, 3); got %v", sc.Camera.Eye)
	}
	if sc.FrameW != 320 || sc.FrameH != 200 {
		t.Errorf("expected frame size 320x200; got %dx%d", sc.FrameW, sc.FrameH)
	}
	if sc.Background != types.XYZ(0.1, 0.2, 0.3) {
		t.Errorf("expected background (0.1, 0.2, 0.3); got %v", sc.Background)
	}
	if len(sc.Spheres) != 1 || sc.Spheres[0].Radius != 2.5 || sc.Spheres[0].Center != types.XYZ(0, 1, 0) {
		t.Fatalf("expected a single sphere at (0, 1, 0) with radius 2.5; got %d spheres", len(sc.Spheres))
	}
}

func TestParseMaterialLibrary(t *testing.T) {
	dir := t.TempDir()
	mtl := `
newmtl light
Kd 0 0 0
Ke 1 1 1
KeScaler 4

newmtl chrome
Ks 1 1 1

newmtl plastic
Kd 0.2 0.4 0.6
Pr 0.25
Pm 0.1
Ni 1.33

newmtl plasticCopy
include plastic
mat_type diffuse

newmtl unused
Kd 1 1 1
`
	obj := `
mtllib scene.mtl
v 0 0 0
v 1 0 0
v 0 1 0
g light
usemtl light
f 1 2 3
g mirror
usemtl chrome
f 1 2 3
usemtl plastic
sphere 0 0 5 1
usemtl plasticCopy
sphere 0 0 9 1
`
	if err := os.WriteFile(filepath.Join(dir, "scene.mtl"), []byte(mtl), 0644); err != nil {
		t.Fatal(err)
	}
	objFile := filepath.Join(dir, "scene.obj")
	if err := os.WriteFile(objFile, []byte(obj), 0644); err != nil {
		t.Fatal(err)
	}

	res, err := asset.NewResource(objFile, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer res.Close()

	sc, err := newWavefrontReader().Read(res)
	if err != nil {
		t.Fatal(err)
	}

	if len(sc.Materials) != 4 {
		t.Fatalf("expected unused material to be pruned leaving 4 materials; got %d", len(sc.Materials))
	}

	light := sc.Materials[0]
	if light.Name != "light" || light.Ke != types.XYZ(4, 4, 4) || light.Type != "diffuse" {
		t.Errorf("expected diffuse light with scaled emission 4; got %+v", light)
	}

	chrome := sc.Materials[1]
	if chrome.Type != "mirror" {
		t.Errorf("expected specular material without roughness to be a mirror; got %s", chrome.Type)
	}

	plastic := sc.Materials[2]
	if plastic.Type != "microFacet" || plastic.Roughness != 0.25 || plastic.Metallic != 0.1 || plastic.IOR != 1.33 {
		t.Errorf("expected microfacet material with roughness 0.25, metallic 0.1 and ior 1.33; got %+v", plastic)
	}

	plasticCopy := sc.Materials[3]
	if plasticCopy.Name != "plasticCopy" || plasticCopy.Type != "diffuse" || plasticCopy.Kd != plastic.Kd {
		t.Errorf("expected included material to inherit albedo and override type; got %+v", plasticCopy)
	}

	// Material indices must be remapped after pruning
	if sc.Meshes[1].Primitives[0].MaterialIndex != 1 {
		t.Errorf("expected mirror mesh to reference material 1; got %d", sc.Meshes[1].Primitives[0].MaterialIndex)
	}
	if sc.Spheres[0].MaterialIndex != 2 || sc.Spheres[1].MaterialIndex != 3 {
		t.Errorf("expected spheres to reference materials 2 and 3; got %d and %d", sc.Spheres[0].MaterialIndex, sc.Spheres[1].MaterialIndex)
	}
}

func TestParseMaterialErrors(t *testing.T) {
	specs := []struct {
		mtl    string
		expErr string
	}{
		{"Kd 1 1 1", `got "Kd" without a "newmtl"`},
		{"newmtl a\nnewmtl a", `material "a" already defined`},
		{"newmtl a\ninclude b", `could not include unknown material "b"`},
		{"newmtl a\nmat_type velvet", `unsupported material type "velvet"`},
		{"newmtl a\nKd 1 1", `unsupported syntax for "Kd"; expected 3 arguments; got 2`},
	}

	for index, s := range specs {
		dir := t.TempDir()
		if err := os.WriteFile(filepath.Join(dir, "lib.mtl"), []byte(s.mtl), 0644); err != nil {
			t.Fatal(err)
		}
		objFile := filepath.Join(dir, "scene.obj")
		if err := os.WriteFile(objFile, []byte("mtllib lib.mtl\n"), 0644); err != nil {
			t.Fatal(err)
		}

		res, err := asset.NewResource(objFile, nil)
		if err != nil {
			t.Fatal(err)
		}
		_, err = newWavefrontReader().Read(res)
		res.Close()

		if err == nil || !strings.Contains(err.Error(), s.expErr) {
			t.Errorf("[spec %d] expected error containing %q; got %v", index, s.expErr, err)
			continue
		}
		if !strings.Contains(err.Error(), "referenced from") {
			t.Errorf("[spec %d] expected error to include the include stack; got %v", index, err)
		}
	}
}

func TestEmptyMeshesAreDropped(t *testing.T) {
	payload := `
v 0 0 0
v 1 0 0
v 0 1 0
g empty
g full
f 1 2 3
g trailing
`
	sc, err := newWavefrontReader().Read(mockResource(payload))
	if err != nil {
		t.Fatal(err)
	}
	if len(sc.Meshes) != 1 || sc.Meshes[0].Name != "full" {
		t.Fatalf("expected only the non-empty mesh to be kept; got %d meshes", len(sc.Meshes))
	}
}

func TestReadSceneCompiles(t *testing.T) {
	dir := t.TempDir()
	objFile := filepath.Join(dir, "tri.obj")
	payload := "frame_size 16 8\nv 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n"
	if err := os.WriteFile(objFile, []byte(payload), 0644); err != nil {
		t.Fatal(err)
	}

	sc, err := ReadScene(objFile)
	if err != nil {
		t.Fatal(err)
	}
	if sc.FrameW != 16 || sc.FrameH != 8 || len(sc.Primitives) != 1 {
		t.Fatalf("expected a 16x8 scene with one primitive; got %dx%d with %d", sc.FrameW, sc.FrameH, len(sc.Primitives))
	}

	if _, err = ReadScene(filepath.Join(dir, "scene.zip")); err == nil {
		t.Fatal("expected an error for an unsupported scene format")
	}
}

func mockResource(payload string) *asset.Resource {
	return asset.NewResourceFromStream("embedded", strings.NewReader(payload))
}
