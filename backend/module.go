// Package backend implements the codegen IR module on top of llir/llvm and
// hands the result to the LLVM toolchain for object emission.
package backend

import (
	"errors"
	"fmt"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"go.creack.net/kaleido/codegen"
)

var errForeignFunc = errors.New("function was not staged by this module")

// Module is an LLVM IR module where every function maps doubles to a double.
type Module struct {
	m     *ir.Module
	funcs map[string]*ir.Func
}

// NewModule creates an empty module.
func NewModule(name string) *Module {
	m := ir.NewModule()
	m.SourceFilename = name
	return &Module{
		m:     m,
		funcs: map[string]*ir.Func{},
	}
}

// SetTargetTriple records the target the module is compiled for.
func (m *Module) SetTargetTriple(triple string) { m.m.TargetTriple = triple }

// String renders the module as LLVM IR assembly.
func (m *Module) String() string { return m.m.String() }

// Func returns the function called name.
func (m *Module) Func(name string) (*ir.Func, bool) {
	f, ok := m.funcs[name]
	return f, ok
}

// Funcs returns the module functions in declaration order.
func (m *Module) Funcs() []*ir.Func { return m.m.Funcs }

func newParams(names []string) []*ir.Param {
	params := make([]*ir.Param, 0, len(names))
	for _, name := range names {
		params = append(params, ir.NewParam(name, types.Double))
	}
	return params
}

// Declare adds a body-less function. An existing function of the same name,
// declared or defined, is kept as long as the arity matches.
func (m *Module) Declare(name string, params []string) error {
	if f, ok := m.funcs[name]; ok {
		if len(f.Params) != len(params) {
			return fmt.Errorf("function %q already has %d parameters", name, len(f.Params))
		}
		return nil
	}
	m.funcs[name] = m.m.NewFunc(name, types.Double, newParams(params)...)
	return nil
}

// Stage starts a function body detached from the module. The entry block is
// left unnamed so that it gets a numeric ID, which can't clash with a
// parameter name.
func (m *Module) Stage(name string, params []string) codegen.FuncBuilder {
	f := ir.NewFunc(name, types.Double, newParams(params)...)
	return &Func{
		mod:   m,
		f:     f,
		entry: f.NewBlock(""),
	}
}

// Commit verifies a staged function and links it into the module in place
// of any function of the same name.
func (m *Module) Commit(fb codegen.FuncBuilder) error {
	fn, ok := fb.(*Func)
	if !ok || fn.mod != m {
		return errForeignFunc
	}
	if fn.committed {
		return fmt.Errorf("function %q already committed", fn.f.Name())
	}
	if err := Verify(fn.f, m.resolver(fn.f)); err != nil {
		return err
	}

	name := fn.f.Name()
	fn.f.Parent = m.m
	if old, ok := m.funcs[name]; ok {
		for i, f := range m.m.Funcs {
			if f == old {
				m.m.Funcs[i] = fn.f
				break
			}
		}
	} else {
		m.m.Funcs = append(m.m.Funcs, fn.f)
	}
	m.funcs[name] = fn.f
	fn.committed = true
	return nil
}

// Verify checks every function of the module.
func (m *Module) Verify() error {
	for _, f := range m.m.Funcs {
		if err := Verify(f, m.resolver(f)); err != nil {
			return err
		}
	}
	return nil
}

// resolver looks up call targets in the module, or self for recursive calls.
func (m *Module) resolver(self *ir.Func) func(string) *ir.Func {
	return func(name string) *ir.Func {
		if name == self.Name() {
			return self
		}
		return m.funcs[name]
	}
}

// Func is the staging handle of a function body. It is discarded, not
// rolled back, when lowering fails.
type Func struct {
	mod       *Module
	f         *ir.Func
	entry     *ir.Block
	committed bool
}

func (fn *Func) Param(i int) codegen.Value { return fn.f.Params[i] }

func (fn *Func) Const(v float64) codegen.Value { return constant.NewFloat(types.Double, v) }

func (fn *Func) FAdd(x, y codegen.Value) (codegen.Value, error) {
	a, b, err := operands(x, y)
	if err != nil {
		return nil, fmt.Errorf("fadd: %w", err)
	}
	return fn.entry.NewFAdd(a, b), nil
}

func (fn *Func) FSub(x, y codegen.Value) (codegen.Value, error) {
	a, b, err := operands(x, y)
	if err != nil {
		return nil, fmt.Errorf("fsub: %w", err)
	}
	return fn.entry.NewFSub(a, b), nil
}

func (fn *Func) FMul(x, y codegen.Value) (codegen.Value, error) {
	a, b, err := operands(x, y)
	if err != nil {
		return nil, fmt.Errorf("fmul: %w", err)
	}
	return fn.entry.NewFMul(a, b), nil
}

// Call emits a call to a function of the module, or to the function being
// built.
func (fn *Func) Call(callee string, args []codegen.Value) (codegen.Value, error) {
	target := fn.mod.resolver(fn.f)(callee)
	if target == nil {
		return nil, fmt.Errorf("call: no function %q in module", callee)
	}
	if len(target.Params) != len(args) {
		return nil, fmt.Errorf("call %q: expected %d arguments, got %d", callee, len(target.Params), len(args))
	}
	vals := make([]value.Value, 0, len(args))
	for i, arg := range args {
		v, err := double(arg)
		if err != nil {
			return nil, fmt.Errorf("call %q: argument %d: %w", callee, i, err)
		}
		vals = append(vals, v)
	}
	return fn.entry.NewCall(target, vals...), nil
}

// Ret terminates the function body.
func (fn *Func) Ret(v codegen.Value) error {
	if fn.entry.Term != nil {
		return fmt.Errorf("ret: block %q already terminated", fn.entry.Name())
	}
	x, err := double(v)
	if err != nil {
		return fmt.Errorf("ret: %w", err)
	}
	fn.entry.NewRet(x)
	return nil
}

func double(v codegen.Value) (value.Value, error) {
	x, ok := v.(value.Value)
	if !ok {
		return nil, fmt.Errorf("foreign value %T", v)
	}
	if !x.Type().Equal(types.Double) {
		return nil, fmt.Errorf("operand %s is %s, not double", x.Ident(), x.Type())
	}
	return x, nil
}

func operands(x, y codegen.Value) (value.Value, value.Value, error) {
	a, err := double(x)
	if err != nil {
		return nil, nil, err
	}
	b, err := double(y)
	if err != nil {
		return nil, nil, err
	}
	return a, b, nil
}
