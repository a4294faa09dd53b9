package codegen

import (
	"errors"
	"fmt"
)

// Semantic errors.
var (
	ErrUnknownVariable = errors.New("unknown variable")
	ErrUnknownFunction = errors.New("unknown function")
	ErrArgCount        = errors.New("argument count mismatch")
	ErrRedeclared      = errors.New("function redeclared with a different arity")
)

// Code generation errors.
var (
	ErrUnsupportedOperator = errors.New("unsupported operator")
	ErrBackend             = errors.New("backend failure")
)

// SemanticError reports a name that does not resolve, or resolves to
// something of the wrong shape.
type SemanticError struct {
	Name   string // Offending identifier.
	Err    error
	Detail string
}

func (e *SemanticError) Error() string {
	msg := fmt.Sprintf("%s %q", e.Err, e.Name)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

func (e *SemanticError) Unwrap() error { return e.Err }

// CodegenError reports an operation the backend can't or won't perform.
type CodegenError struct {
	Op  string // Operator or backend operation.
	Err error
}

func (e *CodegenError) Error() string {
	return fmt.Sprintf("codegen %s: %s", e.Op, e.Err)
}

func (e *CodegenError) Unwrap() error { return e.Err }

func backendError(op string, err error) error {
	return &CodegenError{Op: op, Err: fmt.Errorf("%w: %w", ErrBackend, err)}
}
