package codegen

// scope holds what is visible while lowering a single function body. A new
// one is built for every function and dropped once the function is done, so
// parameters never leak from one function into another.
type scope struct {
	fn   FuncBuilder
	self Signature
	vars map[string]Value
}

func newScope(fn FuncBuilder, name string, params []string) *scope {
	s := &scope{
		fn:   fn,
		self: Signature{Name: name, Arity: len(params), Defined: true},
		vars: make(map[string]Value, len(params)),
	}
	for i, param := range params {
		s.vars[param] = fn.Param(i)
	}
	return s
}

func (s *scope) lookup(name string) (Value, bool) {
	v, ok := s.vars[name]
	return v, ok
}
