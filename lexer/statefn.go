package lexer

import (
	"errors"
	"strconv"
	"unicode"
)

const commentChar = '#'

type stateFn func(*Lexer) stateFn

func lexText(l *Lexer) stateFn {
	l.acceptFunc(unicode.IsSpace)
	l.ignore()

	switch r := l.peek(); {
	case r == eof:
		return l.emit(TokEOF)
	case isLetter(r):
		return lexIdentifier
	case unicode.IsDigit(r):
		return lexNumber
	case r == commentChar:
		return lexComment
	default:
		// Anything else is its own token: punctuation, operators, or
		// characters the parser will reject.
		l.next()
		return l.emit(TokCharacter)
	}
}

// lexComment drops everything up to and including the end of the line.
func lexComment(l *Lexer) stateFn {
	for {
		switch l.next() {
		case eof, '\n', '\r':
			l.ignore()
			return lexText
		}
	}
}

func lexIdentifier(l *Lexer) stateFn {
	l.acceptFunc(isAlphaNumeric)
	tok := l.thisToken(TokIdentifier)
	if kw, ok := keywords[tok.Value]; ok {
		tok.Type = kw
	}
	return l.emitToken(tok)
}

// lexNumber scans a run of digits with at most one decimal point.
func lexNumber(l *Lexer) stateFn {
	l.acceptFunc(unicode.IsDigit)
	if l.accept(".") {
		l.acceptFunc(unicode.IsDigit)
	}
	tok := l.thisToken(TokNumber)
	n, err := strconv.ParseFloat(tok.Value, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return l.errorf(tok.Pos, "number %.16q out of range", tok.Value)
		}
		return l.errorf(tok.Pos, "malformed number %q", tok.Value)
	}
	tok.Number = n
	return l.emitToken(tok)
}

func isLetter(r rune) bool {
	return ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z')
}

func isAlphaNumeric(r rune) bool {
	return isLetter(r) || ('0' <= r && r <= '9')
}
