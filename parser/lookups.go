package parser

import "go.creack.net/kaleido/lexer"

type precedence int

// precNone is returned for anything that is not a binary operator. It is
// lower than the threshold of a top-level expression.
const precNone precedence = -1

const (
	precAdditive       precedence = 10
	precMultiplicative precedence = 20
)

var binopPrecedence = map[string]precedence{
	"+": precAdditive,
	"-": precAdditive,
	"*": precMultiplicative,
	"/": precMultiplicative,
}

// tokenPrecedence returns the binding strength of tok as a binary operator.
func tokenPrecedence(tok lexer.Token) precedence {
	if tok.Type != lexer.TokCharacter {
		return precNone
	}
	if prec, ok := binopPrecedence[tok.Value]; ok {
		return prec
	}
	return precNone
}
