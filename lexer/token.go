package lexer

import (
	"fmt"
	"slices"
	"strconv"
)

// TokenType is the type of token.
type TokenType int

// Token types as constants.
const (
	TokError TokenType = iota
	TokEOF

	// Keywords.
	TokDef
	TokExtern

	// Identifiers + literals.
	TokIdentifier
	TokNumber

	// Any other single character: punctuation and operators.
	TokCharacter

	// End of tokens.
	FinalToken
)

// String returns the string representation of the token type.
func (tt TokenType) String() string {
	return tokenTypeStrings[tt]
}

// Map of token types to their string representation for debugging.
var tokenTypeStrings = map[TokenType]string{
	TokError: "ERROR",
	TokEOF:   "EOF",

	TokDef:    "DEF",
	TokExtern: "EXTERN",

	TokIdentifier: "IDENTIFIER",
	TokNumber:     "NUMBER",

	TokCharacter: "CHARACTER",
}

var keywords = map[string]TokenType{
	"def":    TokDef,
	"extern": TokExtern,
}

func (tt TokenType) IsOneOf(t ...TokenType) bool {
	return slices.Contains(t, tt)
}

// Pos is a 1-based line and column in the current input chunk.
type Pos struct {
	Line int
	Col  int
}

func (p Pos) String() string { return fmt.Sprintf("%d:%d", p.Line, p.Col) }

// Token represents a lexical token.
//
// Value holds the identifier, keyword or character lexeme (or the error
// message for TokError). Number is only meaningful for TokNumber.
type Token struct {
	Type   TokenType
	Value  string
	Number float64

	Pos Pos
}

// Is reports whether t is the given single character token.
func (t Token) Is(char string) bool {
	return t.Type == TokCharacter && t.Value == char
}

func (t Token) String() string {
	switch t.Type {
	case TokEOF:
		return "EOF"
	case TokError:
		return fmt.Sprintf("ERROR [%s]: %s", t.Pos, t.Value)
	case TokNumber:
		return fmt.Sprintf("%s[%s]: %s", t.Type, t.Pos, strconv.FormatFloat(t.Number, 'g', -1, 64))
	}
	if len(t.Value) > 16 {
		return fmt.Sprintf("%s[%s]: %.16q", t.Type, t.Pos, t.Value)
	}
	return fmt.Sprintf("%s[%s]: %q", t.Type, t.Pos, t.Value)
}

// Error is a lexical error, e.g. a malformed numeric literal.
type Error struct {
	Pos Pos
	Msg string
}

func (e *Error) Error() string {
	return fmt.Sprintf("lex error at %s: %s", e.Pos, e.Msg)
}

// Err returns the lexical error carried by a TokError token, nil otherwise.
func (t Token) Err() error {
	if t.Type != TokError {
		return nil
	}
	return &Error{Pos: t.Pos, Msg: t.Value}
}
