package backend

import (
	"fmt"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// VerifyError reports a structurally malformed function.
type VerifyError struct {
	Func string
	Msg  string
}

func (e *VerifyError) Error() string {
	return fmt.Sprintf("verify %q: %s", e.Func, e.Msg)
}

// Verify checks that f is well formed: double signature, unique local names,
// every block terminated by a double return, double operands everywhere, and
// calls that resolve with a matching arity. Declarations only have their
// signature checked.
func Verify(f *ir.Func, resolve func(name string) *ir.Func) error {
	fail := func(format string, args ...any) error {
		return &VerifyError{Func: f.Name(), Msg: fmt.Sprintf(format, args...)}
	}

	if !f.Sig.RetType.Equal(types.Double) {
		return fail("return type %s, want double", f.Sig.RetType)
	}
	if len(f.Sig.Params) != len(f.Params) {
		return fail("signature has %d parameters, function has %d", len(f.Sig.Params), len(f.Params))
	}
	for i, p := range f.Params {
		if !p.Typ.Equal(types.Double) {
			return fail("parameter %d is %s, want double", i, p.Typ)
		}
	}

	if name, ok := duplicateLocal(f); ok {
		return fail("local %%%s defined more than once", name)
	}

	for _, b := range f.Blocks {
		for _, inst := range b.Insts {
			if err := verifyInst(inst, resolve); err != nil {
				return fail("block %q: %s", b.Name(), err)
			}
		}
		switch term := b.Term.(type) {
		case nil:
			return fail("block %q is not terminated", b.Name())
		case *ir.TermRet:
			if term.X == nil || !term.X.Type().Equal(types.Double) {
				return fail("block %q does not return a double", b.Name())
			}
		default:
			return fail("block %q: unexpected terminator %T", b.Name(), term)
		}
	}
	return nil
}

// local is a named value of a function body: parameter, block or instruction.
type local interface {
	Name() string
	IsUnnamed() bool
}

// duplicateLocal returns the first local name used twice in f. Unnamed
// locals are numbered when the function is printed and never clash.
func duplicateLocal(f *ir.Func) (string, bool) {
	seen := map[string]bool{}
	check := func(l local) bool {
		if l.IsUnnamed() {
			return false
		}
		if seen[l.Name()] {
			return true
		}
		seen[l.Name()] = true
		return false
	}

	for _, p := range f.Params {
		if check(p) {
			return p.Name(), true
		}
	}
	for _, b := range f.Blocks {
		if check(b) {
			return b.Name(), true
		}
		for _, inst := range b.Insts {
			if l, ok := inst.(local); ok && check(l) {
				return l.Name(), true
			}
		}
	}
	return "", false
}

func verifyInst(inst ir.Instruction, resolve func(name string) *ir.Func) error {
	switch inst := inst.(type) {
	case *ir.InstFAdd:
		return checkDoubles("fadd", inst.X, inst.Y)
	case *ir.InstFSub:
		return checkDoubles("fsub", inst.X, inst.Y)
	case *ir.InstFMul:
		return checkDoubles("fmul", inst.X, inst.Y)
	case *ir.InstCall:
		callee, ok := inst.Callee.(*ir.Func)
		if !ok {
			return fmt.Errorf("indirect call to %s", inst.Callee.Ident())
		}
		target := resolve(callee.Name())
		if target == nil {
			return fmt.Errorf("call to undefined function %s", callee.Ident())
		}
		if len(target.Params) != len(inst.Args) {
			return fmt.Errorf("call to %s with %d arguments, want %d", callee.Ident(), len(inst.Args), len(target.Params))
		}
		return checkDoubles("call "+callee.Ident(), inst.Args...)
	default:
		return fmt.Errorf("unexpected instruction %T", inst)
	}
}

func checkDoubles(op string, vals ...value.Value) error {
	for _, v := range vals {
		if v == nil || !v.Type().Equal(types.Double) {
			return fmt.Errorf("%s: operand is not a double", op)
		}
	}
	return nil
}
