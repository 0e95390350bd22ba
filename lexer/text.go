package lexer

import (
	"strconv"

	"shaderxc/token"
)

// TokenText renders tok's textual spelling, used by the preprocessor
// for token-pasting (`##`) and for re-emitting macro bodies. For
// punctuation/operator/keyword kinds this is simply the Kind's
// spelling; for identifiers and string literals it is the interned
// payload; for numeric literals it is the literal's numeric spelling
// and for boolean literals it is "true" or "false".
func TokenText(tok token.Token, interner *Interner) string {
	switch tok.Kind {
	case token.Ident, token.IdentNoReplace:
		return interner.String(tok.PayloadOff, tok.PayloadLen)
	case token.StringLit:
		return `"` + interner.String(tok.PayloadOff, tok.PayloadLen) + `"`
	case token.IntLit:
		return strconv.FormatInt(int64(tok.IntVal), 10)
	case token.FloatLit:
		return strconv.FormatFloat(tok.FloatVal, 'g', -1, 64)
	case token.BoolLit:
		if tok.BoolVal {
			return "true"
		}
		return "false"
	default:
		return tok.Kind.String()
	}
}
