package parser

import (
	"strings"

	"shaderxc/types"
)

// resolveTypeName maps a type spelling (e.g. "float", "float3",
// "float4x4", "sampler2D", or a previously declared struct name) to
// its canonical *types.Type, or nil if name does not name a type.
// Type names are ordinary identifiers in this grammar (there is no
// reserved "float"/"int" keyword), so the parser must consult this
// table wherever a declarator's base type is expected.
func (p *Parser) resolveTypeName(name string) *types.Type {
	u := p.tree.Universe
	switch name {
	case "void":
		return u.Void
	case "sampler1D":
		return u.Sampler1D
	case "sampler2D":
		return u.Sampler2D
	case "sampler3D":
		return u.Sampler3D
	case "samplerCUBE":
		return u.SamplerCube
	case "sampler1DShadow":
		return u.Sampler1DCmp
	case "sampler2DShadow":
		return u.Sampler2DCmp
	case "samplerCUBEShadow":
		return u.SamplerCubeCmp
	}
	if t, ok := p.structTypes[name]; ok {
		return t
	}

	var prefixes = [...]struct {
		prefix string
		kind   types.Kind
	}{
		{"bool", types.KindBool},
		{"float", types.KindFloat32},
		{"half", types.KindFloat16},
		{"uint", types.KindUInt32},
		{"int", types.KindInt32},
	}
	for _, pr := range prefixes {
		if !strings.HasPrefix(name, pr.prefix) {
			continue
		}
		rest := name[len(pr.prefix):]
		switch {
		case rest == "":
			return u.Scalar(pr.kind)
		case len(rest) == 1 && rest[0] >= '1' && rest[0] <= '4':
			return u.GetVectorType(pr.kind, int(rest[0]-'0'))
		case len(rest) == 3 && rest[1] == 'x' &&
			rest[0] >= '1' && rest[0] <= '4' && rest[2] >= '1' && rest[2] <= '4':
			return u.GetMatrixType(pr.kind, int(rest[0]-'0'), int(rest[2]-'0'))
		}
	}
	return nil
}

// isTypeName reports whether name resolves to a type, without
// allocating a lookup result the caller would discard.
func (p *Parser) isTypeName(name string) bool {
	return p.resolveTypeName(name) != nil
}
