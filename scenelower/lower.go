package scenelower

import (
	"fmt"

	"github.com/chewxy/math32"

	"github.com/hatoo/rene-sub000/dsl"
	"github.com/hatoo/rene-sub000/gpu"
	"github.com/hatoo/rene-sub000/meshio"
	"github.com/hatoo/rene-sub000/rlog"
	"github.com/hatoo/rene-sub000/vmath"
)

// graphicsState is the value-copy snapshot described by the grammar's
// attribute-scope semantics: an AttributeBegin/End pair pushes a copy of
// this on entry and restores it verbatim on exit. Name maps are part of
// the state (not global), so a MakeNamedMaterial declared inside a scope
// is invisible outside it, exactly like the current material index.
type graphicsState struct {
	transform          vmath.Mat4
	materialIndex      int
	areaLightIndex     int
	insideMedium       int
	outsideMedium      int
	reverseOrientation bool
	textures           map[string]int32
	materials          map[string]int32
}

func (s graphicsState) clone() graphicsState {
	tex := make(map[string]int32, len(s.textures))
	for k, v := range s.textures {
		tex[k] = v
	}
	mat := make(map[string]int32, len(s.materials))
	for k, v := range s.materials {
		mat[k] = v
	}
	s.textures = tex
	s.materials = mat
	return s
}

type objectTemplate struct {
	transform vmath.Mat4
	children  []dsl.Directive
}

// Lowerer owns every mutable piece of the lowering pass: the AST is folded
// once, left to right, appending to these flat arrays as it goes.
type Lowerer struct {
	scene LoweredScene

	namedTransforms map[string]vmath.Mat4
	objectTemplates map[string]objectTemplate
	mediumNames     map[string]int32

	meshLoader meshio.MeshLoader
	imageTable *meshio.ImageTable
}

// NewLowerer constructs a Lowerer. meshLoader resolves plymesh/gltfmesh
// shape directives and imageTable resolves "image" textures; either may be
// nil if the scene never uses the corresponding directive.
func NewLowerer(meshLoader meshio.MeshLoader, imageTable *meshio.ImageTable) *Lowerer {
	l := &Lowerer{
		namedTransforms: map[string]vmath.Mat4{},
		objectTemplates: map[string]objectTemplate{},
		mediumNames:     map[string]int32{},
		meshLoader:      meshLoader,
		imageTable:      imageTable,
	}
	// Area-light index 0 is always the null sentinel (spec invariant);
	// insertion order is relied on everywhere else to keep this true.
	l.scene.AreaLights = append(l.scene.AreaLights, gpu.NewNullAreaLight())
	// Medium index 0 is always vacuum, so an instance whose medium was
	// never set defaults to it without a separate "has medium" flag.
	l.scene.Media = append(l.scene.Media, gpu.NewVacuumMedium())
	return l
}

// Lower runs the fold over a parsed Scene and returns the flat result.
func (l *Lowerer) Lower(sc *dsl.Scene) (*LoweredScene, error) {
	worldToCamera := vmath.Mat4Identity()
	fovDeg := float32(90)
	sawLookAt := false

	for _, d := range sc.Header {
		switch d.Kind {
		case dsl.DirFilm:
			l.scene.Film.Filename = getString(d.Args, "filename", "image.png")
			l.scene.Film.XResolution = int(getInt(d.Args, "xresolution", 256))
			l.scene.Film.YResolution = int(getInt(d.Args, "yresolution", 256))
		case dsl.DirCamera:
			fovDeg = getFloat(d.Args, "fov", 90)
		case dsl.DirSampler:
			l.scene.SamplesPerPixel = int(getInt(d.Args, "pixelsamples", 16))
		case dsl.DirIntegrator, dsl.DirPixelFilter:
			rlog.Logger().Info("directive ignored by the CPU backend", "directive", d.Name)
		case dsl.DirLookAt:
			eye, target, up := d.LookAt[0], d.LookAt[1], d.LookAt[2]
			if !sawLookAt {
				worldToCamera = worldToCamera.Mul(vmath.Mat4LookAt(eye, target, up))
				sawLookAt = true
			}
		case dsl.DirTransform:
			worldToCamera = d.Matrix
		case dsl.DirConcatTransform:
			worldToCamera = worldToCamera.Mul(d.Matrix)
		case dsl.DirTranslate:
			worldToCamera = worldToCamera.Mul(vmath.Mat4Translation(d.Axis))
		case dsl.DirScale:
			worldToCamera = worldToCamera.Mul(vmath.Mat4Scale(d.Axis))
		case dsl.DirRotate:
			worldToCamera = worldToCamera.Mul(vmath.Mat4RotationAxis(d.Axis, degToRad(d.Angle)))
		case dsl.DirIdentity:
			worldToCamera = vmath.Mat4Identity()
		}
	}

	aspect := float32(l.scene.Film.XResolution) / float32(l.scene.Film.YResolution)
	fov := degToRad(fovDeg)
	if l.scene.Film.YResolution > l.scene.Film.XResolution {
		fov = 2 * math32.Atan(math32.Tan(fov*0.5)/float32(l.scene.Film.XResolution)*float32(l.scene.Film.YResolution))
	}
	l.scene.Camera.FOV = fov
	l.scene.Camera.Projection = vmath.Mat4Perspective(fov, aspect, 0.01, 1000).Inverse()
	l.scene.Camera.CameraToWorld = worldToCamera.Inverse()

	state := graphicsState{
		transform:     vmath.Mat4Identity(),
		materialIndex: -1,
		textures:      map[string]int32{},
		materials:     map[string]int32{},
	}
	if err := l.lowerBlock(state, sc.World); err != nil {
		return nil, err
	}
	return &l.scene, nil
}

func (l *Lowerer) lowerBlock(state graphicsState, stmts []dsl.Directive) error {
	for _, d := range stmts {
		var err error
		state, err = l.lowerStatement(state, d)
		if err != nil {
			return err
		}
	}
	return nil
}

// lowerStatement applies one directive to state, returning the (possibly
// updated) state the fold continues with. An Attribute block recurses with
// its own copy and does not let the inner mutation escape, matching
// append_world's state.clone() pattern; a Transform block lets every inner
// change escape except the transform, which it restores.
func (l *Lowerer) lowerStatement(state graphicsState, d dsl.Directive) (graphicsState, error) {
	switch d.Kind {
	case dsl.DirAttributeBlock:
		if err := l.lowerBlock(state.clone(), d.Children); err != nil {
			return state, err
		}
		return state, nil
	case dsl.DirTransformBlock:
		inner := state
		for _, c := range d.Children {
			var err error
			if inner, err = l.lowerStatement(inner, c); err != nil {
				return state, err
			}
		}
		inner.transform = state.transform
		return inner, nil
	case dsl.DirObjectBlock:
		l.objectTemplates[d.Name] = objectTemplate{transform: state.transform, children: d.Children}
		return state, nil
	case dsl.DirObjectInstance:
		tmpl, ok := l.objectTemplates[d.Name]
		if !ok {
			return state, fmt.Errorf("unknown object instance %q", d.Name)
		}
		inner := state.clone()
		inner.transform = state.transform.Mul(tmpl.transform)
		if err := l.lowerBlock(inner, tmpl.children); err != nil {
			return state, err
		}
		return state, nil
	case dsl.DirIdentity:
		state.transform = vmath.Mat4Identity()
	case dsl.DirTransform:
		state.transform = d.Matrix
	case dsl.DirConcatTransform:
		state.transform = state.transform.Mul(d.Matrix)
	case dsl.DirTranslate:
		state.transform = state.transform.Mul(vmath.Mat4Translation(d.Axis))
	case dsl.DirScale:
		state.transform = state.transform.Mul(vmath.Mat4Scale(d.Axis))
	case dsl.DirRotate:
		state.transform = state.transform.Mul(vmath.Mat4RotationAxis(d.Axis, degToRad(d.Angle)))
	case dsl.DirCoordinateSystem:
		l.namedTransforms[d.Name] = state.transform
	case dsl.DirCoordSysTransform:
		m, ok := l.namedTransforms[d.Name]
		if !ok {
			return state, fmt.Errorf("unknown coordinate system %q", d.Name)
		}
		state.transform = m
	case dsl.DirReverseOrientation:
		state.reverseOrientation = !state.reverseOrientation
	case dsl.DirNamedMaterial:
		idx, ok := state.materials[d.Name]
		if !ok {
			return state, fmt.Errorf("unknown material %s", d.Name)
		}
		state.materialIndex = int(idx)
	case dsl.DirMaterial:
		mat, err := l.buildMaterial(state, d)
		if err != nil {
			return state, err
		}
		state.materialIndex = len(l.scene.Materials)
		l.scene.Materials = append(l.scene.Materials, mat)
	case dsl.DirMakeNamedMaterial:
		mat, err := l.buildNamedMaterial(state, d)
		if err != nil {
			return state, err
		}
		idx := int32(len(l.scene.Materials))
		l.scene.Materials = append(l.scene.Materials, mat)
		state.materials[d.Name] = idx
		state.materialIndex = int(idx)
	case dsl.DirMakeNamedMedium:
		med := l.buildMedium(d.Args)
		idx := int32(len(l.scene.Media))
		l.scene.Media = append(l.scene.Media, med)
		l.mediumNames[d.Name] = idx
	case dsl.DirMediumInterface:
		insideIdx, err := l.resolveMedium(d.InsideMedium)
		if err != nil {
			return state, err
		}
		outsideIdx, err := l.resolveMedium(d.OutsideMedium)
		if err != nil {
			return state, err
		}
		state.insideMedium = insideIdx
		state.outsideMedium = outsideIdx
	case dsl.DirTexture:
		idx, err := l.buildTexture(state, d)
		if err != nil {
			return state, err
		}
		state.textures[d.Name] = idx
	case dsl.DirLightSource:
		if err := l.buildLight(state, d); err != nil {
			return state, err
		}
	case dsl.DirAreaLightSource:
		idx, err := l.buildAreaLight(d)
		if err != nil {
			return state, err
		}
		state.areaLightIndex = idx
	case dsl.DirShape:
		if err := l.buildShape(state, d); err != nil {
			return state, err
		}
	}
	return state, nil
}

func (l *Lowerer) resolveMedium(name string) (int, error) {
	if name == "" {
		return 0, nil
	}
	idx, ok := l.mediumNames[name]
	if !ok {
		return 0, fmt.Errorf("unknown medium %q", name)
	}
	return int(idx), nil
}

func degToRad(deg float32) float32 { return deg * math32.Pi / 180 }
