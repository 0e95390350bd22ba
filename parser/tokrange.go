package parser

import "shaderxc/token"

// matchParen finds the index of the ')' matching toks[openIdx] (which
// must be '('), scanning only paren nesting (bracket/brace nesting is
// irrelevant to paren matching since the grammar never lets a paren
// pair cross a statement boundary).
func matchParen(toks []token.Token, openIdx int) (int, bool) {
	depth := 0
	for i := openIdx; i < len(toks); i++ {
		switch toks[i].Kind {
		case token.LParen:
			depth++
		case token.RParen:
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return -1, false
}

// splitArgs splits a call's argument token range at depth-0 commas
// (depth tracked over both parens and brackets, so nested calls and
// index expressions inside an argument are not mistaken for separators).
func splitArgs(toks []token.Token) [][]token.Token {
	if len(toks) == 0 {
		return nil
	}
	var args [][]token.Token
	depth := 0
	start := 0
	for i, tok := range toks {
		switch tok.Kind {
		case token.LParen, token.LBracket:
			depth++
		case token.RParen, token.RBracket:
			depth--
		case token.Comma:
			if depth == 0 {
				args = append(args, toks[start:i])
				start = i + 1
			}
		}
	}
	args = append(args, toks[start:])
	return args
}

// readExpressionTokens consumes tokens from the cursor up to the next
// depth-0 terminator (';', a depth-0 ',' when stopAtComma, or a
// depth-0 closing bracket/paren/brace), without consuming the
// terminator itself, and returns the consumed slice as a self-contained
// expression snapshot for parseExprRange.
func (p *Parser) readExpressionTokens(stopAtComma bool) []token.Token {
	start := p.pos
	depth := 0
loop:
	for !p.atEnd() {
		switch p.peek().Kind {
		case token.LParen, token.LBracket:
			depth++
		case token.RParen, token.RBracket:
			if depth == 0 {
				break loop
			}
			depth--
		case token.Comma:
			if depth == 0 && stopAtComma {
				break loop
			}
		case token.Semicolon, token.RBrace:
			if depth == 0 {
				break loop
			}
		}
		p.advance()
	}
	return p.toks[start:p.pos]
}
