package dsl

import (
	"fmt"

	"github.com/hatoo/rene-sub000/vmath"
)

// Scene is the full parsed file: header directives (camera/sampler/film/
// integrator setup issued before WorldBegin) followed by the world block.
type Scene struct {
	Header []Directive
	World  []Directive
}

// Parse lexes and parses already Include-expanded scene source.
func Parse(src string) (*Scene, error) {
	p := &parser{lex: newLexer(src)}
	scene := &Scene{}
	for {
		d, ok, err := p.parseHeaderDirective()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		scene.Header = append(scene.Header, d)
	}
	world, err := p.parseBlock(true)
	if err != nil {
		return nil, err
	}
	scene.World = world
	return scene, nil
}

type parser struct {
	lex *lexer
}

func (p *parser) errorf(t token, format string, args ...interface{}) error {
	return &ParseError{Line: t.line, Col: t.col, Msg: fmt.Sprintf(format, args...)}
}

// parseHeaderDirective consumes one header-section statement. It returns
// ok=false without consuming anything once WorldBegin (or EOF) is reached.
func (p *parser) parseHeaderDirective() (Directive, bool, error) {
	t, err := p.lex.peek()
	if err != nil {
		return Directive{}, false, err
	}
	if t.kind == tokEOF {
		return Directive{}, false, nil
	}
	if t.kind != tokIdent {
		return Directive{}, false, p.errorf(t, "expected directive name, found %q", t.text)
	}
	switch t.text {
	case "WorldBegin":
		return Directive{}, false, nil
	case "Camera":
		return p.parseSceneObject(DirCamera)
	case "Sampler":
		return p.parseSceneObject(DirSampler)
	case "Integrator":
		return p.parseSceneObject(DirIntegrator)
	case "PixelFilter":
		return p.parseSceneObject(DirPixelFilter)
	case "Film":
		return p.parseSceneObject(DirFilm)
	default:
		d, err := p.parseCommonDirective(t)
		if err != nil {
			return Directive{}, false, err
		}
		return d, true, nil
	}
}

// parseBlock parses a sequence of world-section statements, stopping at
// the matching End keyword (Attribute/TransformBegin/ObjectBegin scopes)
// or at EOF when isTop is true (top-level world block, ended by WorldEnd).
func (p *parser) parseBlock(isTop bool) ([]Directive, error) {
	if isTop {
		if _, err := p.expectIdent("WorldBegin"); err != nil {
			return nil, err
		}
	}
	var stmts []Directive
	for {
		t, err := p.lex.peek()
		if err != nil {
			return nil, err
		}
		if t.kind == tokEOF {
			if isTop {
				return stmts, nil
			}
			return nil, p.errorf(t, "unexpected end of file inside block")
		}
		if t.kind != tokIdent {
			return nil, p.errorf(t, "expected directive, found %q", t.text)
		}
		switch t.text {
		case "WorldEnd":
			if !isTop {
				return nil, p.errorf(t, "unmatched WorldEnd")
			}
			p.lex.next()
			return stmts, nil
		case "AttributeEnd", "TransformEnd", "ObjectEnd":
			if isTop {
				return nil, p.errorf(t, "unmatched %s", t.text)
			}
			return stmts, nil
		case "AttributeBegin":
			p.lex.next()
			children, err := p.parseBlock(false)
			if err != nil {
				return nil, err
			}
			if _, err := p.expectIdent("AttributeEnd"); err != nil {
				return nil, err
			}
			stmts = append(stmts, Directive{Kind: DirAttributeBlock, Children: children})
		case "TransformBegin":
			p.lex.next()
			children, err := p.parseBlock(false)
			if err != nil {
				return nil, err
			}
			if _, err := p.expectIdent("TransformEnd"); err != nil {
				return nil, err
			}
			stmts = append(stmts, Directive{Kind: DirTransformBlock, Children: children})
		case "ObjectBegin":
			p.lex.next()
			name, err := p.expectString()
			if err != nil {
				return nil, err
			}
			children, err := p.parseBlock(false)
			if err != nil {
				return nil, err
			}
			if _, err := p.expectIdent("ObjectEnd"); err != nil {
				return nil, err
			}
			stmts = append(stmts, Directive{Kind: DirObjectBlock, Name: name, Children: children})
		case "ObjectInstance":
			p.lex.next()
			name, err := p.expectString()
			if err != nil {
				return nil, err
			}
			stmts = append(stmts, Directive{Kind: DirObjectInstance, Name: name})
		case "LightSource":
			d, err := p.parseWorldObject(DirLightSource)
			if err != nil {
				return nil, err
			}
			stmts = append(stmts, d)
		case "AreaLightSource":
			d, err := p.parseWorldObject(DirAreaLightSource)
			if err != nil {
				return nil, err
			}
			stmts = append(stmts, d)
		case "Material":
			d, err := p.parseWorldObject(DirMaterial)
			if err != nil {
				return nil, err
			}
			stmts = append(stmts, d)
		case "MakeNamedMaterial":
			p.lex.next()
			name, err := p.expectString()
			if err != nil {
				return nil, err
			}
			args, err := p.parseArgList()
			if err != nil {
				return nil, err
			}
			stmts = append(stmts, Directive{Kind: DirMakeNamedMaterial, Name: name, Args: args})
		case "NamedMaterial":
			p.lex.next()
			name, err := p.expectString()
			if err != nil {
				return nil, err
			}
			stmts = append(stmts, Directive{Kind: DirNamedMaterial, Name: name})
		case "MakeNamedMedium":
			p.lex.next()
			name, err := p.expectString()
			if err != nil {
				return nil, err
			}
			args, err := p.parseArgList()
			if err != nil {
				return nil, err
			}
			stmts = append(stmts, Directive{Kind: DirMakeNamedMedium, Name: name, Args: args})
		case "MediumInterface":
			p.lex.next()
			inside, err := p.expectString()
			if err != nil {
				return nil, err
			}
			outside, err := p.tryString()
			if err != nil {
				return nil, err
			}
			stmts = append(stmts, Directive{Kind: DirMediumInterface, InsideMedium: inside, OutsideMedium: outside})
		case "Texture":
			p.lex.next()
			name, err := p.expectString()
			if err != nil {
				return nil, err
			}
			valueType, err := p.expectString()
			if err != nil {
				return nil, err
			}
			typeName, err := p.expectString()
			if err != nil {
				return nil, err
			}
			args, err := p.parseArgList()
			if err != nil {
				return nil, err
			}
			stmts = append(stmts, Directive{
				Kind: DirTexture, Name: name, TextureValueType: valueType,
				TextureTypeName: typeName, Args: args,
			})
		case "Shape":
			d, err := p.parseWorldObject(DirShape)
			if err != nil {
				return nil, err
			}
			stmts = append(stmts, d)
		case "ReverseOrientation":
			p.lex.next()
			stmts = append(stmts, Directive{Kind: DirReverseOrientation})
		default:
			d, err := p.parseCommonDirective(t)
			if err != nil {
				return nil, err
			}
			stmts = append(stmts, d)
		}
	}
}

// parseCommonDirective handles the transform directives legal in both the
// header and every world scope.
func (p *parser) parseCommonDirective(t token) (Directive, error) {
	switch t.text {
	case "Identity":
		p.lex.next()
		return Directive{Kind: DirIdentity}, nil
	case "Transform":
		p.lex.next()
		m, err := p.parseMatrixBracket()
		if err != nil {
			return Directive{}, err
		}
		return Directive{Kind: DirTransform, Matrix: m}, nil
	case "ConcatTransform":
		p.lex.next()
		m, err := p.parseMatrixBracket()
		if err != nil {
			return Directive{}, err
		}
		return Directive{Kind: DirConcatTransform, Matrix: m}, nil
	case "LookAt":
		p.lex.next()
		eye, err := p.parseVec3()
		if err != nil {
			return Directive{}, err
		}
		target, err := p.parseVec3()
		if err != nil {
			return Directive{}, err
		}
		up, err := p.parseVec3()
		if err != nil {
			return Directive{}, err
		}
		return Directive{Kind: DirLookAt, LookAt: [3]vmath.Vec3{eye, target, up}}, nil
	case "Rotate":
		p.lex.next()
		angle, err := p.parseNumber()
		if err != nil {
			return Directive{}, err
		}
		axis, err := p.parseVec3()
		if err != nil {
			return Directive{}, err
		}
		return Directive{Kind: DirRotate, Angle: angle, Axis: axis}, nil
	case "Scale":
		p.lex.next()
		v, err := p.parseVec3()
		if err != nil {
			return Directive{}, err
		}
		return Directive{Kind: DirScale, Axis: v}, nil
	case "Translate":
		p.lex.next()
		v, err := p.parseVec3()
		if err != nil {
			return Directive{}, err
		}
		return Directive{Kind: DirTranslate, Axis: v}, nil
	case "CoordinateSystem":
		p.lex.next()
		name, err := p.expectString()
		if err != nil {
			return Directive{}, err
		}
		return Directive{Kind: DirCoordinateSystem, Name: name}, nil
	case "CoordSysTransform":
		p.lex.next()
		name, err := p.expectString()
		if err != nil {
			return Directive{}, err
		}
		return Directive{Kind: DirCoordSysTransform, Name: name}, nil
	default:
		return Directive{}, p.errorf(t, "unknown directive %q", t.text)
	}
}

func (p *parser) parseSceneObject(kind DirectiveKind) (Directive, bool, error) {
	p.lex.next() // directive keyword
	typeName, err := p.expectString()
	if err != nil {
		return Directive{}, false, err
	}
	args, err := p.parseArgList()
	if err != nil {
		return Directive{}, false, err
	}
	return Directive{Kind: kind, Name: typeName, Args: args}, true, nil
}

func (p *parser) parseWorldObject(kind DirectiveKind) (Directive, error) {
	p.lex.next() // directive keyword
	typeName, err := p.expectString()
	if err != nil {
		return Directive{}, err
	}
	args, err := p.parseArgList()
	if err != nil {
		return Directive{}, err
	}
	return Directive{Kind: kind, Name: typeName, Args: args}, nil
}

func (p *parser) parseArgList() (ArgList, error) {
	var args ArgList
	for {
		t, err := p.lex.peek()
		if err != nil {
			return nil, err
		}
		if t.kind != tokString {
			return args, nil
		}
		arg, err := p.parseArgument()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
}

func (p *parser) parseArgument() (Argument, error) {
	t, err := p.lex.next()
	if err != nil {
		return Argument{}, err
	}
	if t.kind != tokString {
		return Argument{}, p.errorf(t, "expected string, found %q", t.text)
	}
	kind, name, err := p.splitArgumentHeader(t)
	if err != nil {
		return Argument{}, err
	}
	val, err := p.parseValue(kind)
	if err != nil {
		return Argument{}, err
	}
	return Argument{Name: name, Value: val}, nil
}

func (p *parser) splitArgumentHeader(t token) (ValueKind, string, error) {
	header := t.text
	for i := 0; i < len(header); i++ {
		if header[i] == ' ' {
			typeWord, name := header[:i], header[i+1:]
			kind, ok := argumentTypeKinds[typeWord]
			if !ok {
				return 0, "", p.errorf(t, "unknown argument type %q", typeWord)
			}
			return kind, name, nil
		}
	}
	return 0, "", p.errorf(t, "malformed argument header %q", header)
}

var argumentTypeKinds = map[string]ValueKind{
	"float":     ValueFloat,
	"bool":      ValueBool,
	"integer":   ValueInteger,
	"rgb":       ValueRGB,
	"color":     ValueRGB,
	"blackbody": ValueBlackBody,
	"point":     ValuePoint,
	"normal":    ValueNormal,
	"string":    ValueString,
	"texture":   ValueTexture,
	"spectrum":  ValueSpectrum,
}
