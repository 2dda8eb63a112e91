package dsl

import (
	"fmt"

	"github.com/hatoo/rene-sub000/blackbody"
	"github.com/hatoo/rene-sub000/vmath"
)

func (p *parser) expectString() (string, error) {
	t, err := p.lex.next()
	if err != nil {
		return "", err
	}
	if t.kind != tokString {
		return "", p.errorf(t, "expected string, found %q", t.text)
	}
	return t.text, nil
}

// tryString consumes a string token if present, returning "" otherwise
// (used for MediumInterface's optional outside-medium name).
func (p *parser) tryString() (string, error) {
	t, err := p.lex.peek()
	if err != nil {
		return "", err
	}
	if t.kind != tokString {
		return "", nil
	}
	p.lex.next()
	return t.text, nil
}

func (p *parser) expectIdent(want string) (token, error) {
	t, err := p.lex.next()
	if err != nil {
		return token{}, err
	}
	if t.kind != tokIdent || t.text != want {
		return token{}, p.errorf(t, "expected %q, found %q", want, t.text)
	}
	return t, nil
}

func (p *parser) parseNumber() (float32, error) {
	t, err := p.lex.next()
	if err != nil {
		return 0, err
	}
	if t.kind != tokNumber {
		return 0, p.errorf(t, "expected number, found %q", t.text)
	}
	return t.number, nil
}

func (p *parser) parseVec3() (vmath.Vec3, error) {
	x, err := p.parseNumber()
	if err != nil {
		return vmath.Vec3{}, err
	}
	y, err := p.parseNumber()
	if err != nil {
		return vmath.Vec3{}, err
	}
	z, err := p.parseNumber()
	if err != nil {
		return vmath.Vec3{}, err
	}
	return vmath.Vec3{X: x, Y: y, Z: z}, nil
}

func (p *parser) parseMatrixBracket() (vmath.Mat4, error) {
	if _, err := p.expectBracket(tokLBracket); err != nil {
		return vmath.Mat4{}, err
	}
	var cols [4][4]float32
	for c := 0; c < 4; c++ {
		for r := 0; r < 4; r++ {
			v, err := p.parseNumber()
			if err != nil {
				return vmath.Mat4{}, err
			}
			cols[c][r] = v
		}
	}
	if _, err := p.expectBracket(tokRBracket); err != nil {
		return vmath.Mat4{}, err
	}
	// The DSL lists a transform column-major (4 columns of 4); Mat4 here
	// is indexed [row][col], so transpose on the way in.
	var m vmath.Mat4
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			m[r][c] = cols[c][r]
		}
	}
	return m, nil
}

func (p *parser) expectBracket(kind tokenKind) (token, error) {
	t, err := p.lex.next()
	if err != nil {
		return token{}, err
	}
	if t.kind != kind {
		want := "["
		if kind == tokRBracket {
			want = "]"
		}
		return token{}, p.errorf(t, "expected %q, found %q", want, t.text)
	}
	return t, nil
}

// parseValue dispatches on the argument's declared type word, handling
// both the bracketed-list and bare-scalar forms the grammar allows for
// float/bool/integer/string/texture.
func (p *parser) parseValue(kind ValueKind) (Value, error) {
	switch kind {
	case ValueFloat:
		floats, err := p.parseFloatList()
		return Value{Kind: kind, Floats: floats}, err
	case ValueBool:
		bools, err := p.parseBoolList()
		return Value{Kind: kind, Bools: bools}, err
	case ValueInteger:
		ints, err := p.parseIntList()
		return Value{Kind: kind, Ints: ints}, err
	case ValueString, ValueTexture:
		strs, err := p.parseStringList()
		return Value{Kind: kind, Strings: strs}, err
	case ValueSpectrum:
		s, err := p.expectString()
		return Value{Kind: kind, Strings: []string{s}}, err
	case ValueRGB:
		floats, tok, err := p.parseBracketedFloatsTok()
		if err != nil {
			return Value{}, err
		}
		if len(floats) < 3 {
			return Value{}, p.errorf(tok, "rgb value needs 3 components, got %d", len(floats))
		}
		return Value{Kind: kind, Floats: floats, RGB: vmath.Vec3{X: floats[0], Y: floats[1], Z: floats[2]}}, nil
	case ValueBlackBody:
		floats, err := p.parseBracketedFloats()
		if err != nil {
			return Value{}, err
		}
		rgb := vmath.Vec3{}
		for i := 0; i+1 < len(floats); i += 2 {
			temp, scale := floats[i], floats[i+1]
			rgb = rgb.Add(blackbody.TemperatureToRGB(temp).Mul(scale))
		}
		return Value{Kind: kind, Floats: floats, RGB: rgb}, nil
	case ValuePoint, ValueNormal:
		// The multiple-of-3 length check is deferred to the lowering
		// stage (scenelower's getPointList/getVec3): it's the consumer of
		// a specific "P"/"N"/"from"/"to" argument that knows what a
		// malformed count means, not the parser.
		floats, err := p.parseBracketedFloats()
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: kind, Floats: floats}, nil
	default:
		return Value{}, fmt.Errorf("unhandled value kind %d", kind)
	}
}

func (p *parser) parseFloatList() ([]float32, error) {
	t, err := p.lex.peek()
	if err != nil {
		return nil, err
	}
	if t.kind == tokLBracket {
		return p.parseBracketedFloats()
	}
	v, err := p.parseNumber()
	if err != nil {
		return nil, err
	}
	return []float32{v}, nil
}

func (p *parser) parseBracketedFloats() ([]float32, error) {
	floats, _, err := p.parseBracketedFloatsTok()
	return floats, err
}

// parseBracketedFloatsTok is parseBracketedFloats, additionally returning
// the opening bracket's token so a caller validating the resulting length
// (rgb's 3-component requirement) can report a *ParseError pinned to where
// the list started.
func (p *parser) parseBracketedFloatsTok() ([]float32, token, error) {
	lbracket, err := p.expectBracket(tokLBracket)
	if err != nil {
		return nil, token{}, err
	}
	var out []float32
	for {
		t, err := p.lex.peek()
		if err != nil {
			return nil, token{}, err
		}
		if t.kind == tokRBracket {
			p.lex.next()
			return out, lbracket, nil
		}
		v, err := p.parseNumber()
		if err != nil {
			return nil, token{}, err
		}
		out = append(out, v)
	}
}

func (p *parser) parseIntList() ([]int32, error) {
	t, err := p.lex.peek()
	if err != nil {
		return nil, err
	}
	if t.kind != tokLBracket {
		v, err := p.parseNumber()
		if err != nil {
			return nil, err
		}
		return []int32{int32(v)}, nil
	}
	p.lex.next()
	var out []int32
	for {
		t, err := p.lex.peek()
		if err != nil {
			return nil, err
		}
		if t.kind == tokRBracket {
			p.lex.next()
			return out, nil
		}
		v, err := p.parseNumber()
		if err != nil {
			return nil, err
		}
		out = append(out, int32(v))
	}
}

func (p *parser) parseBoolList() ([]bool, error) {
	parseOne := func() (bool, error) {
		t, err := p.lex.next()
		if err != nil {
			return false, err
		}
		if t.kind != tokIdent || (t.text != "true" && t.text != "false") {
			return false, p.errorf(t, "expected true/false, found %q", t.text)
		}
		return t.text == "true", nil
	}
	t, err := p.lex.peek()
	if err != nil {
		return nil, err
	}
	if t.kind != tokLBracket {
		v, err := parseOne()
		if err != nil {
			return nil, err
		}
		return []bool{v}, nil
	}
	p.lex.next()
	var out []bool
	for {
		t, err := p.lex.peek()
		if err != nil {
			return nil, err
		}
		if t.kind == tokRBracket {
			p.lex.next()
			return out, nil
		}
		v, err := parseOne()
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
}

func (p *parser) parseStringList() ([]string, error) {
	t, err := p.lex.peek()
	if err != nil {
		return nil, err
	}
	if t.kind != tokLBracket {
		s, err := p.expectString()
		if err != nil {
			return nil, err
		}
		return []string{s}, nil
	}
	p.lex.next()
	var out []string
	for {
		t, err := p.lex.peek()
		if err != nil {
			return nil, err
		}
		if t.kind == tokRBracket {
			p.lex.next()
			return out, nil
		}
		s, err := p.expectString()
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
}
