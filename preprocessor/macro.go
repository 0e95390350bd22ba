package preprocessor

import "shaderxc/token"

// Macro is a registered #define: its name, parameter list (if
// function-like), replacement body, and definition site.
type Macro struct {
	Name         string
	FunctionLike bool
	Params       []string
	Body         []token.Token
	DefinedAt    token.Location
}

func cloneHideset(h map[string]bool) map[string]bool {
	out := make(map[string]bool, len(h)+1)
	for k, v := range h {
		out[k] = v
	}
	return out
}
