// Package parser turns Kaleidoscope tokens into syntax trees, one top-level
// statement at a time.
package parser

import (
	"errors"
	"fmt"
	"io"
	"log"

	"go.creack.net/kaleido/ast"
	"go.creack.net/kaleido/lexer"
)

// Error is a grammar violation. It aborts the current top-level statement.
type Error struct {
	Pos lexer.Pos
	Tok lexer.Token
	Msg string
}

func (e *Error) Error() string {
	return fmt.Sprintf("parse error at %s: %s, got %s", e.Pos, e.Msg, describe(e.Tok))
}

func describe(tok lexer.Token) string {
	switch tok.Type {
	case lexer.TokEOF:
		return "end of input"
	case lexer.TokNumber:
		return "number " + tok.Value
	case lexer.TokCharacter:
		return fmt.Sprintf("%q", tok.Value)
	case lexer.TokDef, lexer.TokExtern:
		return "keyword " + tok.Value
	}
	return fmt.Sprintf("%s %q", tok.Type, tok.Value)
}

type Parser struct {
	lex *lexer.Lexer
	log *log.Logger

	curToken lexer.Token
}

// New creates a parser reading from lex and primes the one token lookahead.
// A nil logger discards the verbose trace.
func New(lex *lexer.Lexer, logger *log.Logger) *Parser {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	p := &Parser{
		lex: lex,
		log: logger,
	}
	p.nextToken()
	return p
}

// Reset feeds a new input chunk to the underlying lexer.
func (p *Parser) Reset(input string) {
	p.lex.Reset(input)
	p.nextToken()
}

// Parse parses every statement of lex, stopping at the first error.
func Parse(lex *lexer.Lexer) (ast.Program, error) {
	var prog ast.Program

	p := New(lex, nil)
	for {
		decl, err := p.Next()
		if errors.Is(err, io.EOF) {
			return prog, nil
		}
		if err != nil {
			return prog, err
		}
		prog.Decls = append(prog.Decls, decl)
	}
}

// Next parses the next top-level statement. Lone ';' separators are skipped.
// It returns io.EOF once the input is exhausted, a *lexer.Error or an *Error
// when the statement is malformed. After an error the parser is left where
// the failure occurred; see Skip.
func (p *Parser) Next() (decl ast.Decl, err error) {
	defer p.recover(&err)

	for {
		switch {
		case p.curToken.Type == lexer.TokEOF:
			return nil, io.EOF
		case p.curToken.Type == lexer.TokError:
			tok := p.curToken
			p.nextToken()
			return nil, tok.Err()
		case p.curToken.Is(";"):
			p.nextToken()
		case p.curToken.Type == lexer.TokDef:
			return parseDefinition(p), nil
		case p.curToken.Type == lexer.TokExtern:
			return parseExtern(p), nil
		default:
			return parseTopLevelExpr(p), nil
		}
	}
}

// AtEOF reports whether the input is exhausted.
func (p *Parser) AtEOF() bool {
	return p.curToken.Type == lexer.TokEOF
}

// Skip discards tokens up to the start of what looks like the next statement:
// a ';' separator, a keyword, or the end of input.
func (p *Parser) Skip() {
	for !p.curToken.Type.IsOneOf(lexer.TokEOF, lexer.TokDef, lexer.TokExtern) && !p.curToken.Is(";") {
		p.nextToken()
	}
}

func (p *Parser) recover(errp *error) {
	r := recover()
	if r == nil {
		return
	}
	switch e := r.(type) {
	case *Error:
		*errp = e
	case *lexer.Error:
		*errp = e
	default:
		panic(r)
	}
}

func (p *Parser) nextToken() {
	p.curToken = p.lex.NextToken()
	p.log.Printf("Read token %s.", p.curToken)
}

func (p *Parser) errorf(format string, args ...any) {
	panic(&Error{
		Pos: p.curToken.Pos,
		Tok: p.curToken,
		Msg: fmt.Sprintf(format, args...),
	})
}

// unexpected aborts on the current token. A lexical error surfaces as such
// rather than as a grammar violation.
func (p *Parser) unexpected(what string) {
	if err := p.curToken.Err(); err != nil {
		p.nextToken()
		panic(err)
	}
	p.errorf("expected %s", what)
}

// expect checks if the current token is of the expected type.
func (p *Parser) expect(kind lexer.TokenType, what string) lexer.Token {
	if p.curToken.Type != kind {
		p.unexpected(what)
	}
	return p.curToken
}

// expectChar checks if the current token is the given punctuation.
func (p *Parser) expectChar(char, context string) lexer.Token {
	if !p.curToken.Is(char) {
		p.unexpected(fmt.Sprintf("%q %s", char, context))
	}
	return p.curToken
}
