// Package codegen lowers Kaleidoscope syntax trees into a backend IR module.
package codegen

import (
	"fmt"
	"io"
	"log"
	"maps"
	"slices"

	"go.creack.net/kaleido/ast"
)

// Value is an IR value handed out by a FuncBuilder.
type Value interface {
	Ident() string
}

// Module is the compilation unit lowering writes into. Every function takes
// and returns doubles.
type Module interface {
	// Declare adds a body-less function, or keeps the existing function of
	// that name.
	Declare(name string, params []string) error
	// Stage starts a function outside of the module. Nothing is visible in
	// the module until Commit.
	Stage(name string, params []string) FuncBuilder
	// Commit verifies a staged function and adds it to the module, replacing
	// any function of the same name.
	Commit(fn FuncBuilder) error
	String() string
}

// FuncBuilder emits the instructions of a staged function body.
type FuncBuilder interface {
	Param(i int) Value
	Const(v float64) Value
	FAdd(x, y Value) (Value, error)
	FSub(x, y Value) (Value, error)
	FMul(x, y Value) (Value, error)
	Call(callee string, args []Value) (Value, error)
	Ret(v Value) error
}

// Signature is an entry of the global function table.
type Signature struct {
	Name    string
	Arity   int
	Defined bool // False for extern declarations.
}

// Context is the state shared by every top-level statement of a run.
type Context struct {
	mod   Module
	funcs map[string]Signature
	anon  int

	log *log.Logger
}

// NewContext creates a lowering context writing into mod.
// A nil logger discards the verbose trace.
func NewContext(mod Module, logger *log.Logger) *Context {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Context{
		mod:   mod,
		funcs: map[string]Signature{},
		log:   logger,
	}
}

// Lookup returns the signature registered for name.
func (c *Context) Lookup(name string) (Signature, bool) {
	sig, ok := c.funcs[name]
	return sig, ok
}

// Functions returns the global function table sorted by name.
func (c *Context) Functions() []Signature {
	out := make([]Signature, 0, len(c.funcs))
	for _, name := range slices.Sorted(maps.Keys(c.funcs)) {
		out = append(out, c.funcs[name])
	}
	return out
}

// Lower lowers one top-level statement and returns the name of the IR
// function it declared or defined. On error the module and the function
// table are left as they were.
func (c *Context) Lower(decl ast.Decl) (string, error) {
	switch d := decl.(type) {
	case *ast.Prototype:
		if err := c.lowerPrototype(d); err != nil {
			return "", fmt.Errorf("extern %q: %w", d.Name, err)
		}
		return d.Name, nil
	case *ast.Function:
		return c.lowerFunction(d)
	default:
		panic(fmt.Errorf("unsupported declaration type %T", d))
	}
}

// checkArity rejects a prototype whose arity differs from an existing entry
// of the same name.
func (c *Context) checkArity(proto *ast.Prototype) error {
	sig, ok := c.funcs[proto.Name]
	if !ok || sig.Arity == len(proto.Params) {
		return nil
	}
	return &SemanticError{
		Name:   proto.Name,
		Err:    ErrRedeclared,
		Detail: fmt.Sprintf("%d parameters, previously %d", len(proto.Params), sig.Arity),
	}
}

// lowerPrototype declares an extern function. An extern following a
// definition of the same name keeps the definition.
func (c *Context) lowerPrototype(proto *ast.Prototype) error {
	if err := c.checkArity(proto); err != nil {
		return err
	}
	if err := c.mod.Declare(proto.Name, proto.Params); err != nil {
		return backendError("declare", err)
	}
	if _, ok := c.funcs[proto.Name]; !ok {
		c.funcs[proto.Name] = Signature{Name: proto.Name, Arity: len(proto.Params)}
	}
	c.log.Printf("Declared function %s.", proto.Dump())
	return nil
}

// lowerFunction builds the function into a staging handle and commits it to
// the module only once the body lowered and verified. A failed attempt is
// simply dropped.
func (c *Context) lowerFunction(fn *ast.Function) (string, error) {
	name, display := fn.Proto.Name, fmt.Sprintf("function %q", fn.Proto.Name)
	if fn.Proto.IsAnonymous() {
		c.anon++
		name, display = fmt.Sprintf("__anon_expr%d", c.anon), "top-level expression"
	} else if err := c.checkArity(fn.Proto); err != nil {
		return "", fmt.Errorf("%s: %w", display, err)
	}

	s := newScope(c.mod.Stage(name, fn.Proto.Params), name, fn.Proto.Params)

	body, err := c.lowerExpr(s, fn.Body)
	if err != nil {
		return "", fmt.Errorf("%s: %w", display, err)
	}
	if err := s.fn.Ret(body); err != nil {
		return "", fmt.Errorf("%s: %w", display, backendError("ret", err))
	}
	if err := c.mod.Commit(s.fn); err != nil {
		return "", fmt.Errorf("%s: %w", display, backendError("verify", err))
	}

	if !fn.Proto.IsAnonymous() {
		c.funcs[name] = Signature{Name: name, Arity: len(fn.Proto.Params), Defined: true}
	}
	c.log.Printf("Defined function %s.", name)
	return name, nil
}
