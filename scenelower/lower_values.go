package scenelower

import (
	"fmt"

	"github.com/chewxy/math32"

	"github.com/hatoo/rene-sub000/dsl"
	"github.com/hatoo/rene-sub000/vmath"
)

func sqrt32(x float32) float32 { return math32.Sqrt(x) }

func getString(args dsl.ArgList, name, def string) string {
	v, ok := args.Get(name)
	if !ok {
		return def
	}
	return v.Str1(def)
}

func getFloat(args dsl.ArgList, name string, def float32) float32 {
	v, ok := args.Get(name)
	if !ok {
		return def
	}
	return v.Float1(def)
}

func getInt(args dsl.ArgList, name string, def int32) int32 {
	v, ok := args.Get(name)
	if !ok {
		return def
	}
	return v.Int1(def)
}

func getBool(args dsl.ArgList, name string, def bool) bool {
	v, ok := args.Get(name)
	if !ok {
		return def
	}
	return v.Bool1(def)
}

func getFloatList(args dsl.ArgList, name string) []float32 {
	v, ok := args.Get(name)
	if !ok {
		return nil
	}
	return v.Floats
}

func getIntList(args dsl.ArgList, name string) []int32 {
	v, ok := args.Get(name)
	if !ok {
		return nil
	}
	return v.Ints
}

// getPointList reads a point/normal-valued argument's raw floats and
// groups them into Vec3s, three at a time. The multiple-of-3 length check
// lives here rather than at parse time (a malformed "P"/"N" list is a
// lowering-stage concern, not a lexical one): a count that isn't a
// multiple of 3 is a length mismatch and fails with that wording, matching
// the diagnostic contract scene authors rely on when a list is truncated.
func getPointList(args dsl.ArgList, name string) ([]vmath.Vec3, error) {
	v, ok := args.Get(name)
	if !ok {
		return nil, nil
	}
	if len(v.Floats)%3 != 0 {
		return nil, fmt.Errorf("%q: length mismatch, point/normal list has %d components, not a multiple of 3", name, len(v.Floats))
	}
	pts := make([]vmath.Vec3, len(v.Floats)/3)
	for i := range pts {
		pts[i] = vmath.Vec3{X: v.Floats[3*i], Y: v.Floats[3*i+1], Z: v.Floats[3*i+2]}
	}
	return pts, nil
}

func getRGB(args dsl.ArgList, name string, def [3]float32) [3]float32 {
	v, ok := args.Get(name)
	if !ok {
		return def
	}
	switch v.Kind {
	case dsl.ValueRGB, dsl.ValueBlackBody:
		return [3]float32{v.RGB.X, v.RGB.Y, v.RGB.Z}
	case dsl.ValueFloat:
		f := v.Float1(def[0])
		return [3]float32{f, f, f}
	default:
		return def
	}
}
