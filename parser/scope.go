package parser

import "shaderxc/ast"

// scope is one lexical block's name -> declaration map. Scopes nest in
// a stack; Lookup walks from the innermost scope outward, and
// declaring a name that already exists in an enclosing scope links the
// new VarDecl's PrevScopeDecl to the shadowed one, forming a scope
// chain for shadowing lookups that needs the *specific* previous
// declaration, not just a flat current-scope map.
type scope struct {
	names map[string]ast.NodeID
}

type scopeStack struct {
	scopes []*scope
}

func newScopeStack() *scopeStack {
	s := &scopeStack{}
	s.push()
	return s
}

func (s *scopeStack) push() {
	s.scopes = append(s.scopes, &scope{names: make(map[string]ast.NodeID)})
}

func (s *scopeStack) pop() {
	s.scopes = s.scopes[:len(s.scopes)-1]
}

// lookup searches from the innermost scope outward and returns the
// nearest visible declaration of name.
func (s *scopeStack) lookup(name string) (ast.NodeID, bool) {
	for i := len(s.scopes) - 1; i >= 0; i-- {
		if id, ok := s.scopes[i].names[name]; ok {
			return id, true
		}
	}
	return ast.NoNode, false
}

// declare registers decl under name in the current (innermost) scope,
// returning the previously visible declaration of the same name (if
// any) so the caller can set decl's PrevScopeDecl link.
func (s *scopeStack) declare(name string, decl ast.NodeID) (prev ast.NodeID, hadPrev bool) {
	prev, hadPrev = s.lookup(name)
	s.scopes[len(s.scopes)-1].names[name] = decl
	return prev, hadPrev
}
