package ast

import (
	"fmt"
	"strconv"
	"strings"

	"go.creack.net/kaleido/lexer"
)

// Expr is a Kaleidoscope expression. The set of implementations is closed:
// NumberExpr, VariableExpr, BinaryExpr and CallExpr.
type Expr interface {
	Dump() string
	expr()
}

// NumberExpr is a numeric literal.
type NumberExpr struct {
	Value float64
}

func (*NumberExpr) expr() {}

func (n *NumberExpr) Dump() string {
	return strconv.FormatFloat(n.Value, 'g', -1, 64)
}

// VariableExpr references a parameter of the enclosing function.
type VariableExpr struct {
	Name string
}

func (*VariableExpr) expr() {}

func (v *VariableExpr) Dump() string { return v.Name }

// BinaryExpr applies a single character operator to two operands.
type BinaryExpr struct {
	Left     Expr
	Operator lexer.Token
	Right    Expr
}

func (*BinaryExpr) expr() {}

// Op returns the operator lexeme, e.g. "+".
func (b *BinaryExpr) Op() string { return b.Operator.Value }

func (b *BinaryExpr) Dump() string {
	return fmt.Sprintf("(%s %s %s)", b.Op(), b.Left.Dump(), b.Right.Dump())
}

// CallExpr calls a declared function. Arguments are evaluated left to right.
type CallExpr struct {
	Callee string
	Args   []Expr
}

func (*CallExpr) expr() {}

func (c *CallExpr) Dump() string {
	var sb strings.Builder
	sb.WriteString("(call ")
	sb.WriteString(c.Callee)
	for _, arg := range c.Args {
		sb.WriteByte(' ')
		sb.WriteString(arg.Dump())
	}
	sb.WriteByte(')')
	return sb.String()
}
