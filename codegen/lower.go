package codegen

import (
	"fmt"

	"go.creack.net/kaleido/ast"
)

func (c *Context) lowerExpr(s *scope, expr ast.Expr) (Value, error) {
	switch e := expr.(type) {
	case *ast.NumberExpr:
		return s.fn.Const(e.Value), nil
	case *ast.VariableExpr:
		v, ok := s.lookup(e.Name)
		if !ok {
			return nil, &SemanticError{Name: e.Name, Err: ErrUnknownVariable}
		}
		return v, nil
	case *ast.BinaryExpr:
		return c.lowerBinaryExpr(s, e)
	case *ast.CallExpr:
		return c.lowerCallExpr(s, e)
	default:
		panic(fmt.Errorf("unsupported expression type %T", e))
	}
}

func (c *Context) lowerBinaryExpr(s *scope, e *ast.BinaryExpr) (Value, error) {
	lhs, err := c.lowerExpr(s, e.Left)
	if err != nil {
		return nil, err
	}
	rhs, err := c.lowerExpr(s, e.Right)
	if err != nil {
		return nil, err
	}

	var v Value
	switch e.Op() {
	case "+":
		v, err = s.fn.FAdd(lhs, rhs)
	case "-":
		v, err = s.fn.FSub(lhs, rhs)
	case "*":
		v, err = s.fn.FMul(lhs, rhs)
	default:
		// Includes '/': it parses, but there is no division instruction.
		return nil, &CodegenError{Op: fmt.Sprintf("%q at %s", e.Op(), e.Operator.Pos), Err: ErrUnsupportedOperator}
	}
	if err != nil {
		return nil, backendError(e.Op(), err)
	}
	return v, nil
}

func (c *Context) lowerCallExpr(s *scope, e *ast.CallExpr) (Value, error) {
	sig, ok := c.funcs[e.Callee]
	if e.Callee == s.self.Name {
		sig, ok = s.self, true
	}
	if !ok {
		return nil, &SemanticError{Name: e.Callee, Err: ErrUnknownFunction}
	}
	if sig.Arity != len(e.Args) {
		return nil, &SemanticError{
			Name:   e.Callee,
			Err:    ErrArgCount,
			Detail: fmt.Sprintf("expected %d arguments, got %d", sig.Arity, len(e.Args)),
		}
	}

	args := make([]Value, 0, len(e.Args))
	for _, arg := range e.Args {
		v, err := c.lowerExpr(s, arg)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}

	v, err := s.fn.Call(e.Callee, args)
	if err != nil {
		return nil, backendError("call "+e.Callee, err)
	}
	return v, nil
}
