package preprocessor

import (
	"shaderxc/diag"
	"shaderxc/lexer"
	"shaderxc/token"
)

// substituteAndRescan is the recursive core of macro expansion:
// re-scan the substitution for further expansion, but a macro name
// already on the active expansion stack is marked with a temporary
// no-replace kind so it does not re-expand. hideset holds the names
// currently being expanded on this call path;
// an identifier found in hideset is emitted as token.IdentNoReplace
// instead of being expanded again.
func (p *Preprocessor) substituteAndRescan(body []token.Token, hideset map[string]bool) []token.Token {
	var out []token.Token
	i := 0
	for i < len(body) {
		tok := body[i]
		if tok.Kind == token.Ident {
			name := p.text(tok)
			if hideset[name] {
				cp := tok
				cp.Kind = token.IdentNoReplace
				out = append(out, cp)
				i++
				continue
			}
			if m, ok := p.macros[name]; ok {
				if m.FunctionLike {
					if i+1 < len(body) && body[i+1].Kind == token.LParen {
						args, next := collectArgs(body, i+1)
						out = append(out, p.expandFunctionMacro(m, args, hideset)...)
						i = next
						continue
					}
					// Not immediately followed by '(': leave unexpanded.
					out = append(out, tok)
					i++
					continue
				}
				out = append(out, p.expandObjectMacro(m, hideset)...)
				i++
				continue
			}
		}
		out = append(out, tok)
		i++
	}
	return out
}

func (p *Preprocessor) expandObjectMacro(m *Macro, hideset map[string]bool) []token.Token {
	pasted := p.pasteTokens(append([]token.Token{}, m.Body...))
	next := cloneHideset(hideset)
	next[m.Name] = true
	return p.substituteAndRescan(pasted, next)
}

func (p *Preprocessor) expandFunctionMacro(m *Macro, rawArgs [][]token.Token, hideset map[string]bool) []token.Token {
	if len(rawArgs) != len(m.Params) {
		p.diags.Add(diag.Preprocessor, m.DefinedAt, "macro %q expects %d argument(s), got %d", m.Name, len(m.Params), len(rawArgs))
	}
	for len(rawArgs) < len(m.Params) {
		rawArgs = append(rawArgs, nil)
	}

	paramIndex := make(map[string]int, len(m.Params))
	for i, name := range m.Params {
		paramIndex[name] = i
	}

	expandedArgs := make([][]token.Token, len(rawArgs))
	for i, a := range rawArgs {
		expandedArgs[i] = p.substituteAndRescan(a, map[string]bool{})
	}

	pre := p.substituteParams(m.Body, paramIndex, rawArgs, expandedArgs)
	pasted := p.pasteTokens(pre)

	next := cloneHideset(hideset)
	next[m.Name] = true
	return p.substituteAndRescan(pasted, next)
}

// substituteParams replaces parameter references in body with their
// argument tokens: the raw (unexpanded) argument when adjacent to a
// `##` paste operator, the fully macro-expanded argument otherwise.
func (p *Preprocessor) substituteParams(body []token.Token, paramIndex map[string]int, rawArgs, expandedArgs [][]token.Token) []token.Token {
	var out []token.Token
	for i, tok := range body {
		if tok.Kind == token.Ident {
			if pi, ok := paramIndex[p.text(tok)]; ok {
				adjacentPaste := (i > 0 && body[i-1].Kind == token.DoubleHash) ||
					(i+1 < len(body) && body[i+1].Kind == token.DoubleHash)
				if adjacentPaste {
					out = append(out, rawArgs[pi]...)
				} else {
					out = append(out, expandedArgs[pi]...)
				}
				continue
			}
		}
		out = append(out, tok)
	}
	return out
}

// pasteTokens performs `##` token-pasting passes left to right,
// re-lexing each concatenation into a single token. Chained pastes
// (`a##b##c`) fold iteratively: once a##b becomes
// one token, it is immediately eligible to paste with c.
func (p *Preprocessor) pasteTokens(in []token.Token) []token.Token {
	for i := 0; i+1 < len(in); {
		if in[i+1].Kind != token.DoubleHash {
			i++
			continue
		}
		if i+2 >= len(in) {
			p.diags.Add(diag.Preprocessor, in[i+1].Loc, "'##' has no right-hand operand")
			in = append(in[:i+1], in[i+2:]...)
			continue
		}
		lhs, rhs := in[i], in[i+2]
		text := lexer.TokenText(lhs, p.interner) + lexer.TokenText(rhs, p.interner)
		merged, err := lexer.RelexPasted(text, lhs.Loc, p.interner)
		if err != nil {
			p.diags.Add(diag.Preprocessor, lhs.Loc, "invalid token paste %q: %v", text, err)
			in = append(in[:i+1], in[i+3:]...)
			continue
		}
		in[i] = merged
		in = append(in[:i+1], in[i+3:]...)
	}
	return in
}

// collectArgs parses a function-like macro invocation's argument list
// starting at body[lparenIdx] (which must be '('), balancing nested
// parentheses and treating only depth-1 commas as argument separators.
// It returns the arguments and the index just past the matching ')'.
func collectArgs(body []token.Token, lparenIdx int) ([][]token.Token, int) {
	depth := 1
	i := lparenIdx + 1
	start := i
	var args [][]token.Token
	for i < len(body) {
		switch body[i].Kind {
		case token.LParen:
			depth++
		case token.RParen:
			depth--
			if depth == 0 {
				seg := body[start:i]
				if len(args) > 0 || len(seg) > 0 {
					args = append(args, seg)
				}
				return args, i + 1
			}
		case token.Comma:
			if depth == 1 {
				args = append(args, body[start:i])
				start = i + 1
			}
		}
		i++
	}
	return args, i
}
