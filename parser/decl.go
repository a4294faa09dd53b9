package parser

import (
	"slices"

	"go.creack.net/kaleido/ast"
	"go.creack.net/kaleido/lexer"
)

// parsePrototype parses `name '(' (param (',' param)*)? ')'`.
func parsePrototype(p *Parser) *ast.Prototype {
	p.expect(lexer.TokIdentifier, "function name in prototype")
	proto := &ast.Prototype{Name: p.curToken.Value}
	p.nextToken()

	p.expectChar("(", "in prototype of "+proto.Name)
	p.nextToken()

	if p.curToken.Type == lexer.TokIdentifier {
		for {
			param := p.curToken.Value
			if slices.Contains(proto.Params, param) {
				p.errorf("duplicate parameter %q in prototype of %s", param, proto.Name)
			}
			proto.Params = append(proto.Params, param)
			p.nextToken()

			if !p.curToken.Is(",") {
				break
			}
			p.nextToken()
			p.expect(lexer.TokIdentifier, "parameter name after ','")
		}
	}

	p.expectChar(")", "to close prototype of "+proto.Name)
	p.nextToken()
	return proto
}

// parseDefinition parses `'def' prototype expr`.
func parseDefinition(p *Parser) *ast.Function {
	p.nextToken() // Consume 'def'.
	proto := parsePrototype(p)
	body := parseExpr(p)
	p.log.Printf("Parsed function definition %s.", proto.Name)
	return &ast.Function{
		Proto: proto,
		Body:  body,
	}
}

// parseExtern parses `'extern' prototype`.
func parseExtern(p *Parser) *ast.Prototype {
	p.nextToken() // Consume 'extern'.
	proto := parsePrototype(p)
	p.log.Printf("Parsed extern %s.", proto.Name)
	return proto
}

// parseTopLevelExpr wraps a bare expression into an anonymous function.
func parseTopLevelExpr(p *Parser) *ast.Function {
	body := parseExpr(p)
	p.log.Printf("Parsed top-level expression.")
	return &ast.Function{
		Proto: &ast.Prototype{},
		Body:  body,
	}
}
