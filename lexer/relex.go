package lexer

import (
	"fmt"

	"shaderxc/token"
)

// RelexPasted concatenates the textual forms of two adjacent tokens
// produced by a `##` token-pasting operator and re-lexes the result as
// a single token. It is an error for the pasted text to lex as
// anything other than exactly one token before EOF.
func RelexPasted(text string, loc token.Location, interner *Interner) (token.Token, error) {
	lex := New(text, loc.FileIndex, interner)
	toks, errs := lex.Scan()
	if len(errs) > 0 {
		return token.Token{}, fmt.Errorf("invalid token paste %q: %w", text, errs[0])
	}
	if len(toks) != 2 || toks[1].Kind != token.EOF {
		return token.Token{}, fmt.Errorf("token paste %q did not form a single token", text)
	}
	result := toks[0]
	result.Loc = loc
	return result, nil
}
