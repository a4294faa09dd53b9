// Package ast defines the syntax tree of the Kaleidoscope language.
package ast

import (
	"fmt"
	"strings"
)

// Grammar:
//
//	top       : definition | external | expr | ';'
//	definition: 'def' prototype expr
//	external  : 'extern' prototype
//	prototype : identifier '(' (identifier (',' identifier)*)? ')'
//	expr      : primary (binop primary)*
//	primary   : number | identifier | identifier '(' (expr (',' expr)*)? ')' | '(' expr ')'

// Decl is a top-level statement: either a bare prototype (extern) or a
// function definition.
type Decl interface {
	Dump() string
	decl()
}

// Prototype is a function's name and parameter names, without a body.
// An empty name denotes the wrapper of a top-level expression.
type Prototype struct {
	Name   string
	Params []string
}

func (*Prototype) decl() {}

// IsAnonymous reports whether p wraps a top-level expression.
func (p *Prototype) IsAnonymous() bool { return p.Name == "" }

func (p *Prototype) Dump() string {
	return fmt.Sprintf("%s(%s)", p.Name, strings.Join(p.Params, " "))
}

// Function is a function definition.
type Function struct {
	Proto *Prototype
	Body  Expr
}

func (*Function) decl() {}

func (f *Function) Dump() string {
	return fmt.Sprintf("(def %s %s)", f.Proto.Dump(), f.Body.Dump())
}

// Program is a sequence of top-level statements.
type Program struct {
	Decls []Decl
}

func (p Program) Dump() string {
	result := ""
	for _, d := range p.Decls {
		result += fmt.Sprintf("%s\n", d.Dump())
	}
	return result
}
