package parser

import (
	"go.creack.net/kaleido/ast"
	"go.creack.net/kaleido/lexer"
)

// parseExpr parses a primary expression followed by any chain of binary operators.
func parseExpr(p *Parser) ast.Expr {
	lhs := parsePrimaryExpr(p)
	return parseBinaryExpr(p, 0, lhs)
}

// parseBinaryExpr climbs precedence levels. Only operators binding strictly
// tighter than exprPrec are consumed, so equal precedence associates left.
func parseBinaryExpr(p *Parser, exprPrec precedence, lhs ast.Expr) ast.Expr {
	for {
		prec := tokenPrecedence(p.curToken)
		if prec <= exprPrec {
			return lhs
		}

		operator := p.curToken
		p.nextToken()

		rhs := parsePrimaryExpr(p)

		// If the next operator binds tighter, it takes rhs as its left operand.
		if nextPrec := tokenPrecedence(p.curToken); nextPrec > prec {
			rhs = parseBinaryExpr(p, prec, rhs)
		}

		lhs = &ast.BinaryExpr{
			Left:     lhs,
			Operator: operator,
			Right:    rhs,
		}
		p.log.Printf("Parsed binary expression %s.", lhs.Dump())
	}
}

func parsePrimaryExpr(p *Parser) ast.Expr {
	switch {
	case p.curToken.Type == lexer.TokNumber:
		val := p.curToken.Number
		p.nextToken()
		return &ast.NumberExpr{
			Value: val,
		}
	case p.curToken.Type == lexer.TokIdentifier:
		return parseIdentifierExpr(p)
	case p.curToken.Is("("):
		return parseGroupingExpr(p)
	default:
		p.unexpected("expression")
		return nil
	}
}

func parseGroupingExpr(p *Parser) ast.Expr {
	p.nextToken() // Consume '('.
	expr := parseExpr(p)
	p.expectChar(")", "to close parenthesized expression")
	p.nextToken()
	return expr
}

// parseIdentifierExpr parses a variable reference or, when the identifier is
// immediately followed by '(', a call.
func parseIdentifierExpr(p *Parser) ast.Expr {
	name := p.curToken.Value
	p.nextToken()

	if !p.curToken.Is("(") {
		return &ast.VariableExpr{
			Name: name,
		}
	}
	p.nextToken() // Consume '('.

	call := &ast.CallExpr{Callee: name}
	if !p.curToken.Is(")") {
		for {
			call.Args = append(call.Args, parseExpr(p))
			if p.curToken.Is(")") {
				break
			}
			p.expectChar(",", "or ')' in argument list of "+name)
			p.nextToken()
		}
	}
	p.nextToken() // Consume ')'.

	p.log.Printf("Parsed call %s.", call.Dump())
	return call
}
