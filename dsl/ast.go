package dsl

import "github.com/hatoo/rene-sub000/vmath"

// ValueKind tags the shape of a parsed argument value. Argument parsing
// mirrors the PBRT-style "type name" header convention: the declared type
// decides both the literal grammar used and which Value field is populated.
type ValueKind int

const (
	ValueFloat ValueKind = iota
	ValueBool
	ValueInteger
	ValueRGB
	ValueBlackBody
	ValuePoint
	ValueNormal
	ValueString
	ValueTexture
	ValueSpectrum
)

// Value holds one parsed argument's data. Only the field matching Kind is
// meaningful; this is a parse-time convenience type, not a GPU-resident
// union, so it favors readability over a packed layout.
type Value struct {
	Kind    ValueKind
	Floats  []float32
	Bools   []bool
	Ints    []int32
	Strings []string
	RGB     vmath.Vec3 // ValueRGB, resolved ValueBlackBody
}

// Float1 returns the first float, or def if the value holds none.
func (v Value) Float1(def float32) float32 {
	if len(v.Floats) == 0 {
		return def
	}
	return v.Floats[0]
}

// Int1 returns the first integer, or def if the value holds none.
func (v Value) Int1(def int32) int32 {
	if len(v.Ints) == 0 {
		return def
	}
	return v.Ints[0]
}

// Bool1 returns the first bool, or def if the value holds none.
func (v Value) Bool1(def bool) bool {
	if len(v.Bools) == 0 {
		return def
	}
	return v.Bools[0]
}

// Str1 returns the first string, or def if the value holds none.
func (v Value) Str1(def string) string {
	if len(v.Strings) == 0 {
		return def
	}
	return v.Strings[0]
}

// Argument is one "type name" value pair inside a directive's parameter list.
type Argument struct {
	Name  string
	Value Value
}

// ArgList is the parameter list shared by every directive that takes one;
// it provides named lookup the way a pbrt object's parameter set does.
type ArgList []Argument

// Get returns the named argument's value and whether it was present.
func (a ArgList) Get(name string) (Value, bool) {
	for _, arg := range a {
		if arg.Name == name {
			return arg.Value, true
		}
	}
	return Value{}, false
}

// DirectiveKind tags a header- or world-block statement.
type DirectiveKind int

const (
	DirIdentity DirectiveKind = iota
	DirTransform
	DirConcatTransform
	DirLookAt
	DirRotate
	DirScale
	DirTranslate
	DirCoordinateSystem
	DirCoordSysTransform
	DirCamera
	DirSampler
	DirIntegrator
	DirPixelFilter
	DirFilm
	DirAttributeBlock
	DirTransformBlock
	DirObjectBlock
	DirObjectInstance
	DirLightSource
	DirAreaLightSource
	DirMaterial
	DirMakeNamedMaterial
	DirNamedMaterial
	DirMakeNamedMedium
	DirMediumInterface
	DirTexture
	DirShape
	DirReverseOrientation
	DirWorldBegin
	DirWorldEnd
)

// Directive is one statement of a lowered-to-flat-tree parse: either a
// leaf (transform/material/shape/...) or a block that owns a nested
// statement list (Attribute/TransformBegin/ObjectBegin scopes).
type Directive struct {
	Kind DirectiveKind

	Matrix vmath.Mat4      // DirTransform, DirConcatTransform
	LookAt [3]vmath.Vec3   // DirLookAt: eye, target, up
	Axis   vmath.Vec3      // DirRotate, DirScale, DirTranslate
	Angle  float32         // DirRotate

	Name string // CoordinateSystem/CoordSysTransform name, object name,
	// material name, texture name, LightSource/shape/material type string

	TextureValueType string // DirTexture's declared value type ("float"/"spectrum")
	TextureTypeName  string // DirTexture's implementation type ("constant"/"checkerboard"/...)

	Args ArgList

	// MediumInterface
	InsideMedium, OutsideMedium string

	Children []Directive // DirAttributeBlock, DirTransformBlock, DirObjectBlock
}
