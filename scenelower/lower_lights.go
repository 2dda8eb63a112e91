package scenelower

import (
	"fmt"

	"github.com/hatoo/rene-sub000/dsl"
	"github.com/hatoo/rene-sub000/gpu"
	"github.com/hatoo/rene-sub000/vmath"
)

// buildLight handles a LightSource directive. "distant" and "infinite" are
// the two variants the analytic Light union supports; an infinite light's
// optional "mapname" would name an environment texture file, which is
// resolved through the same image table as "image" textures. state carries
// the current-transformation-matrix at the point the directive appears, so
// a Rotate/Transform preceding "infinite" reorients its environment map.
func (l *Lowerer) buildLight(state graphicsState, d dsl.Directive) error {
	switch d.Name {
	case "distant":
		from, err := getVec3(d.Args, "from", [3]float32{0, 0, 0})
		if err != nil {
			return fmt.Errorf("distant light: %w", err)
		}
		to, err := getVec3(d.Args, "to", [3]float32{0, 0, 1})
		if err != nil {
			return fmt.Errorf("distant light: %w", err)
		}
		dir := [3]float32{from[0] - to[0], from[1] - to[1], from[2] - to[2]}
		dir = normalize3(dir)
		radiance := getRGB(d.Args, "L", [3]float32{1, 1, 1})
		scale := getFloat(d.Args, "scale", 1)
		radiance = scale3(radiance, scale)
		l.scene.Lights = append(l.scene.Lights, gpu.NewDistantLight(dir, radiance))
		return nil
	case "infinite":
		envTex := int32(-1)
		mapname := getString(d.Args, "mapname", "")
		if mapname != "" {
			if l.imageTable == nil {
				return fmt.Errorf("infinite light: no image table configured for mapname")
			}
			idx := l.imageTable.Intern(mapname)
			l.scene.Textures = append(l.scene.Textures, gpu.NewImageTexture(idx))
			envTex = int32(len(l.scene.Textures) - 1)
		} else {
			radiance := getRGB(d.Args, "L", [3]float32{1, 1, 1})
			l.scene.Textures = append(l.scene.Textures, gpu.NewSolidTexture(radiance[0], radiance[1], radiance[2]))
			envTex = int32(len(l.scene.Textures) - 1)
		}
		worldToLight := state.transform.Inverse()
		l.scene.Lights = append(l.scene.Lights, gpu.NewInfiniteLight(envTex, mat4ToArray(worldToLight)))
		return nil
	default:
		return fmt.Errorf("unknown light type %q", d.Name)
	}
}

// buildAreaLight handles an AreaLightSource directive and returns the new
// area-light index to install as the scoped current area-light.
func (l *Lowerer) buildAreaLight(d dsl.Directive) (int, error) {
	if d.Name != "diffuse" {
		return 0, fmt.Errorf("unknown area light type %q", d.Name)
	}
	radiance := getRGB(d.Args, "L", [3]float32{1, 1, 1})
	twoSided := getBool(d.Args, "twosided", false)
	l.scene.AreaLights = append(l.scene.AreaLights, gpu.NewDiffuseAreaLight(radiance, twoSided))
	return len(l.scene.AreaLights) - 1, nil
}

// buildMedium handles a MakeNamedMedium directive's parameters.
func (l *Lowerer) buildMedium(args dsl.ArgList) gpu.Medium {
	typeName := getString(args, "type", "homogeneous")
	if typeName != "homogeneous" {
		// Only homogeneous participating media are modeled; anything else
		// falls back to vacuum rather than guessing at unsupported physics.
		return gpu.NewVacuumMedium()
	}
	sigmaA := getRGB(args, "sigma_a", [3]float32{1, 1, 1})
	sigmaS := getRGB(args, "sigma_s", [3]float32{1, 1, 1})
	scale := getFloat(args, "scale", 1)
	g := getFloat(args, "g", 0)
	return gpu.NewHomogeneousMedium(scale3(sigmaA, scale), scale3(sigmaS, scale), g)
}

func getVec3(args dsl.ArgList, name string, def [3]float32) ([3]float32, error) {
	v, ok := args.Get(name)
	if !ok {
		return def, nil
	}
	if len(v.Floats)%3 != 0 {
		return def, fmt.Errorf("%q: length mismatch, point/normal list has %d components, not a multiple of 3", name, len(v.Floats))
	}
	if len(v.Floats) == 0 {
		return def, nil
	}
	return [3]float32{v.Floats[0], v.Floats[1], v.Floats[2]}, nil
}

func normalize3(v [3]float32) [3]float32 {
	l := float32(0)
	for _, c := range v {
		l += c * c
	}
	if l == 0 {
		return v
	}
	l = sqrt32(l)
	return [3]float32{v[0] / l, v[1] / l, v[2] / l}
}

func scale3(v [3]float32, s float32) [3]float32 {
	return [3]float32{v[0] * s, v[1] * s, v[2] * s}
}

// mat4ToArray flattens a Mat4 row-major, matching gpu.Light.WorldToLight's
// stated layout.
func mat4ToArray(m vmath.Mat4) [16]float32 {
	return [16]float32{
		m[0][0], m[0][1], m[0][2], m[0][3],
		m[1][0], m[1][1], m[1][2], m[1][3],
		m[2][0], m[2][1], m[2][2], m[2][3],
		m[3][0], m[3][1], m[3][2], m[3][3],
	}
}
