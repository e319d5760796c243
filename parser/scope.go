package parser

import (
	"cc/container"
	"cc/types"
)

// binding is what a scope or the global table maps a name to: its type,
// plus the storage the identifier binding of spec.md §3 describes — a
// stack offset for locals/parameters, or a symbolic label for globals.
type binding struct {
	Type   *types.Type
	Global bool
	Offset int
	Label  string
}

// scope holds the bindings introduced directly within one compound
// statement. Redeclaration within the same scope is checked against this
// map alone; shadowing an outer scope's name is always legal, per spec.md
// §9's "Scope chain" redesign.
type scope struct {
	vars  *container.OrderedMap // name -> *binding
	decls *container.OrderedMap // name -> *ast.Declaration, for Compound.Locals
}

func newScope() *scope {
	return &scope{vars: container.NewOrderedMap(), decls: container.NewOrderedMap()}
}

// pushScope enters a fresh, empty scope (a new compound statement).
func (p *Parser) pushScope() {
	p.scopes = append(p.scopes, newScope())
}

// popScope leaves the innermost scope.
func (p *Parser) popScope() {
	p.scopes = p.scopes[:len(p.scopes)-1]
}

func (p *Parser) currentScope() *scope {
	return p.scopes[len(p.scopes)-1]
}

// declareLocal allocates a stack offset for name within the current
// function and binds it in the innermost scope. Offsets are allocated from
// a single function-wide counter shared by every nested scope (spec.md §9:
// "Local offsets are allocated from a function-wide counter so that nested
// scopes share the frame layout"), and always negative relative to rbp.
// Each slot is the declared type's size rounded up to a multiple of 8 bytes
// (minimum 8), so every offset is 8-byte aligned, which covers the natural
// alignment of every type in this subset.
func (p *Parser) declareLocal(name string, t *types.Type, line, column int) (*binding, error) {
	cur := p.currentScope()
	if cur.vars.Has(name) {
		return nil, parseErr(line, column, "redeclaration of %q in this scope", name)
	}
	size := types.SizeOf(t)
	if size < 8 {
		size = 8
	}
	size = (size + 7) &^ 7
	p.funcOffset -= size
	b := &binding{Type: t, Offset: p.funcOffset}
	cur.vars.Put(name, b)
	if p.funcOffset < p.minOffset {
		p.minOffset = p.funcOffset
	}
	return b, nil
}

// declareGlobal binds name in the global table. Redeclaration of a global
// is also an error.
func (p *Parser) declareGlobal(name string, t *types.Type, line, column int) (*binding, error) {
	if p.globals.Has(name) {
		return nil, parseErr(line, column, "redeclaration of global %q", name)
	}
	b := &binding{Type: t, Global: true, Label: name}
	p.globals.Put(name, b)
	return b, nil
}

// resolve looks an identifier up from the innermost scope outward, falling
// back to the global table, per spec.md §4.4's "Identifier resolution
// walks from innermost outward."
func (p *Parser) resolve(name string) (*binding, bool) {
	for i := len(p.scopes) - 1; i >= 0; i-- {
		if v, ok := p.scopes[i].vars.Get(name); ok {
			return v.(*binding), true
		}
	}
	if v, ok := p.globals.Get(name); ok {
		return v.(*binding), true
	}
	return nil, false
}
