package scenelower

import (
	"strings"
	"testing"

	"github.com/kr/pretty"

	"github.com/hatoo/rene-sub000/dsl"
)

const minimalScene = `
Film "image" "integer xresolution" [200] "integer yresolution" [100]
Camera "perspective" "float fov" [60]
Sampler "random" "integer pixelsamples" [8]
WorldBegin
AttributeBegin
  Material "matte" "rgb Kd" [0.8 0.2 0.2]
  Translate 0 0 5
  Shape "sphere" "float radius" [1]
AttributeEnd
WorldEnd
`

func parseLowered(t *testing.T, src string) *LoweredScene {
	t.Helper()
	parsed, err := dsl.Parse(src)
	if err != nil {
		t.Fatalf("dsl.Parse: %v", err)
	}
	lowered, err := NewLowerer(nil, nil).Lower(parsed)
	if err != nil {
		t.Fatalf("Lower: %v", err)
	}
	return lowered
}

func TestLowerMinimalScene(t *testing.T) {
	scene := parseLowered(t, minimalScene)

	if scene.Film.XResolution != 200 || scene.Film.YResolution != 100 {
		t.Errorf("Film = %+v", scene.Film)
	}
	if scene.SamplesPerPixel != 8 {
		t.Errorf("SamplesPerPixel = %d, want 8", scene.SamplesPerPixel)
	}
	if len(scene.Instances) != 1 {
		t.Fatalf("Instances = %d, want 1", len(scene.Instances))
	}
	inst := scene.Instances[0]
	if inst.Kind != InstanceSphere {
		t.Errorf("Kind = %v, want InstanceSphere\nlowered scene: %# v", inst.Kind, pretty.Formatter(scene))
	}
	if inst.MaterialIndex < 0 || inst.MaterialIndex >= len(scene.Materials) {
		t.Errorf("MaterialIndex = %d out of range\nlowered scene: %# v", inst.MaterialIndex, pretty.Formatter(scene))
	}
	if inst.AreaLightIndex != 0 {
		t.Errorf("AreaLightIndex = %d, want 0 (null sentinel)\nlowered scene: %# v", inst.AreaLightIndex, pretty.Formatter(scene))
	}
}

func TestLowerShapeWithoutMaterialErrors(t *testing.T) {
	const src = `
WorldBegin
Shape "sphere" "float radius" [1]
WorldEnd
`
	parsed, err := dsl.Parse(src)
	if err != nil {
		t.Fatalf("dsl.Parse: %v", err)
	}
	_, err = NewLowerer(nil, nil).Lower(parsed)
	if err == nil {
		t.Fatal("expected an error for a shape with no bound material")
	}
	if !strings.Contains(err.Error(), "no material bound") {
		t.Errorf("error = %v, want mention of no material bound", err)
	}
}

func TestTriangleMeshMalformedIndicesReportsLengthMismatch(t *testing.T) {
	const src = `
WorldBegin
Material "matte" "rgb Kd" [1 1 1]
Shape "trianglemesh" "point P" [0 0 0  1 0 0  0 1 0] "integer indices" [0 1]
WorldEnd
`
	parsed, err := dsl.Parse(src)
	if err != nil {
		t.Fatalf("dsl.Parse: %v", err)
	}
	_, err = NewLowerer(nil, nil).Lower(parsed)
	if err == nil {
		t.Fatal("expected an error for an indices list whose length isn't a multiple of 3")
	}
	if !strings.Contains(err.Error(), "length mismatch") {
		t.Errorf("error = %v, want it to contain \"length mismatch\"", err)
	}
}

func TestAttributeBlockScopingDoesNotLeak(t *testing.T) {
	const src = `
WorldBegin
AttributeBegin
  Material "matte" "rgb Kd" [1 1 1]
  Shape "sphere" "float radius" [1]
AttributeEnd
Shape "sphere" "float radius" [1]
WorldEnd
`
	parsed, err := dsl.Parse(src)
	if err != nil {
		t.Fatalf("dsl.Parse: %v", err)
	}
	_, err = NewLowerer(nil, nil).Lower(parsed)
	if err == nil {
		t.Fatal("expected the second, unscoped shape to error with no material bound")
	}
}
