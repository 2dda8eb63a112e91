package scenelower

import (
	"fmt"

	"github.com/hatoo/rene-sub000/dsl"
	"github.com/hatoo/rene-sub000/gpu"
)

// resolveTextureArg resolves an argument that may be given either as a
// named "texture" reference or as an inline rgb/float/blackbody value: a
// named reference is looked up in state's texture map (an error if it was
// never declared), anything else is pushed as a new solid texture. This
// mirrors the Matte lowering pattern of resolving an albedo parameter to
// either an existing texture index or a freshly minted solid one.
func (l *Lowerer) resolveTextureArg(state graphicsState, args dsl.ArgList, name string, def [3]float32) (int32, error) {
	v, ok := args.Get(name)
	if !ok {
		l.scene.Textures = append(l.scene.Textures, gpu.NewSolidTexture(def[0], def[1], def[2]))
		return int32(len(l.scene.Textures) - 1), nil
	}
	if v.Kind == dsl.ValueTexture {
		texName := v.Str1("")
		idx, ok := state.textures[texName]
		if !ok {
			return 0, fmt.Errorf("texture %q not found", texName)
		}
		return idx, nil
	}
	rgb := getRGB(args, name, def)
	l.scene.Textures = append(l.scene.Textures, gpu.NewSolidTexture(rgb[0], rgb[1], rgb[2]))
	return int32(len(l.scene.Textures) - 1), nil
}

// buildTexture handles a Texture directive: "constant" pushes a solid
// texture from its "value" parameter, "checkerboard"/"mix" pushes a
// checker referencing two child texture-or-color parameters (tex1/tex2),
// "image" interns a filename with the shared image table, deferring actual
// decoding until first sample.
func (l *Lowerer) buildTexture(state graphicsState, d dsl.Directive) (int32, error) {
	switch d.TextureTypeName {
	case "constant":
		rgb := getRGB(d.Args, "value", [3]float32{1, 1, 1})
		l.scene.Textures = append(l.scene.Textures, gpu.NewSolidTexture(rgb[0], rgb[1], rgb[2]))
		return int32(len(l.scene.Textures) - 1), nil
	case "checkerboard", "mix":
		tex1, err := l.resolveTextureArg(state, d.Args, "tex1", [3]float32{1, 1, 1})
		if err != nil {
			return 0, err
		}
		tex2, err := l.resolveTextureArg(state, d.Args, "tex2", [3]float32{0, 0, 0})
		if err != nil {
			return 0, err
		}
		uScale := getFloat(d.Args, "uscale", 1)
		vScale := getFloat(d.Args, "vscale", 1)
		l.scene.Textures = append(l.scene.Textures, gpu.NewCheckerTexture(tex1, tex2, uScale, vScale))
		return int32(len(l.scene.Textures) - 1), nil
	case "imagemap", "image":
		if l.imageTable == nil {
			return 0, fmt.Errorf("texture %q: no image table configured for image textures", d.Name)
		}
		filename := getString(d.Args, "filename", "")
		idx := l.imageTable.Intern(filename)
		l.scene.Textures = append(l.scene.Textures, gpu.NewImageTexture(idx))
		return int32(len(l.scene.Textures) - 1), nil
	default:
		return 0, fmt.Errorf("unknown texture type %q", d.TextureTypeName)
	}
}

// buildMaterial resolves a Material/MakeNamedMaterial directive's "type"
// and parameters into a gpu.Material. typeName comes from d.Name for
// Material and from the "type" string parameter for MakeNamedMaterial.
func (l *Lowerer) buildMaterial(state graphicsState, d dsl.Directive) (gpu.Material, error) {
	return l.buildMaterialOfType(state, d.Name, d.Args)
}

func (l *Lowerer) buildNamedMaterial(state graphicsState, d dsl.Directive) (gpu.Material, error) {
	typeName := getString(d.Args, "type", "matte")
	return l.buildMaterialOfType(state, typeName, d.Args)
}

func (l *Lowerer) buildMaterialOfType(state graphicsState, typeName string, args dsl.ArgList) (gpu.Material, error) {
	switch typeName {
	case "matte":
		albedo, err := l.resolveTextureArg(state, args, "Kd", [3]float32{0.5, 0.5, 0.5})
		if err != nil {
			return gpu.Material{}, err
		}
		return gpu.NewMatteMaterial(albedo), nil
	case "glass":
		return gpu.NewGlassMaterial(getFloat(args, "eta", 1.5)), nil
	case "mirror":
		return gpu.NewMirrorMaterial(), nil
	case "metal":
		eta := getRGB(args, "eta", [3]float32{0.2, 0.92, 1.1})
		k := getRGB(args, "k", [3]float32{3.9, 2.45, 2.14})
		rough := getFloat(args, "roughness", 0.01)
		return gpu.NewMetalMaterial(eta, k, rough), nil
	case "plastic":
		diffuse, err := l.resolveTextureArg(state, args, "Kd", [3]float32{0.25, 0.25, 0.25})
		if err != nil {
			return gpu.Material{}, err
		}
		specular, err := l.resolveTextureArg(state, args, "Ks", [3]float32{0.25, 0.25, 0.25})
		if err != nil {
			return gpu.Material{}, err
		}
		rough := getFloat(args, "roughness", 0.1)
		return gpu.NewPlasticMaterial(diffuse, specular, rough), nil
	case "substrate":
		diffuse, err := l.resolveTextureArg(state, args, "Kd", [3]float32{0.5, 0.5, 0.5})
		if err != nil {
			return gpu.Material{}, err
		}
		specular, err := l.resolveTextureArg(state, args, "Ks", [3]float32{0.5, 0.5, 0.5})
		if err != nil {
			return gpu.Material{}, err
		}
		rough := getFloat(args, "roughness", 0.1)
		return gpu.NewSubstrateMaterial(diffuse, specular, rough), nil
	case "uber":
		diffuse, err := l.resolveTextureArg(state, args, "Kd", [3]float32{0.5, 0.5, 0.5})
		if err != nil {
			return gpu.Material{}, err
		}
		rough := getFloat(args, "roughness", 0.1)
		ior := getFloat(args, "index", 1.5)
		return gpu.NewUberMaterial(diffuse, rough, ior), nil
	default:
		return gpu.Material{}, fmt.Errorf("unknown material type %q", typeName)
	}
}
