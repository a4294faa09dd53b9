// Package lexer provides the lexical analyzer for the Kaleidoscope language.
package lexer

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const eof rune = -1

type Lexer struct {
	input string

	curToken Token

	pos       int // Current position in input.
	width     int // Width of the last rune read, 0 at end of input.
	line      int // Current line in input.
	lineStart int // Position of the first byte of the current line.

	start    int // Position of the start of the current token.
	startPos Pos // Line/column where the current token started.
}

// New creates a new Lexer for the given input.
func New(input string) *Lexer {
	l := &Lexer{}
	l.Reset(input)
	return l
}

// Reset swaps in a new input chunk, e.g. the next line of an interactive
// session. Any unconsumed input of the previous chunk is dropped.
func (l *Lexer) Reset(input string) {
	*l = Lexer{
		input:    input,
		line:     1,
		startPos: Pos{Line: 1, Col: 1},
	}
}

// NextToken consumes the input up to the end of the next token and returns it.
// Once the input is exhausted it keeps returning TokEOF.
func (l *Lexer) NextToken() Token {
	l.curToken = Token{Type: TokEOF, Value: "EOF", Pos: l.position()}
	state := lexText
	for {
		state = state(l)
		if state == nil {
			return l.curToken
		}
	}
}

func (l *Lexer) next() rune {
	if l.pos >= len(l.input) {
		l.width = 0
		return eof
	}
	r, n := utf8.DecodeRuneInString(l.input[l.pos:])
	l.width = n
	l.pos += n
	if r == '\n' {
		l.line++
		l.lineStart = l.pos
	}
	return r
}

// backup steps back one rune. Can only be called once per call of next.
func (l *Lexer) backup() {
	if l.width == 0 {
		return
	}
	l.pos -= l.width
	if l.input[l.pos] == '\n' {
		l.line--
		l.lineStart = strings.LastIndexByte(l.input[:l.pos], '\n') + 1
	}
	l.width = 0
}

func (l *Lexer) peek() rune {
	r := l.next()
	l.backup()
	return r
}

func (l *Lexer) accept(valid string) bool {
	if strings.ContainsRune(valid, l.next()) {
		return true
	}
	l.backup()
	return false
}

func (l *Lexer) acceptFunc(valid func(rune) bool) bool {
	accepted := false
	for r := l.next(); r != eof && valid(r); r = l.next() {
		accepted = true
	}
	l.backup()
	return accepted
}

func (l *Lexer) position() Pos {
	return Pos{Line: l.line, Col: utf8.RuneCountInString(l.input[l.lineStart:l.pos]) + 1}
}

func (l *Lexer) thisToken(tt TokenType) Token {
	t := Token{
		Type:  tt,
		Value: l.input[l.start:l.pos],
		Pos:   l.startPos,
	}
	l.ignore()
	return t
}

func (l *Lexer) emitToken(t Token) stateFn {
	l.curToken = t
	return nil
}

func (l *Lexer) emit(tt TokenType) stateFn {
	return l.emitToken(l.thisToken(tt))
}

func (l *Lexer) ignore() {
	l.start = l.pos
	l.startPos = l.position()
}

func (l *Lexer) errorf(pos Pos, format string, args ...any) stateFn {
	l.curToken = Token{
		Type:  TokError,
		Value: fmt.Sprintf(format, args...),
		Pos:   pos,
	}
	l.ignore()
	return nil
}
