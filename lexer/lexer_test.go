package lexer

import (
	"errors"
	"strings"
	"testing"
)

// Helper function to test the lexer
func testLexer(t *testing.T, input string, expectedTokens []Token) {
	t.Helper()

	l := New(input)
	var tokens []Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == TokEOF {
			break
		}
		if len(tokens) > 2*len(expectedTokens)+10 {
			t.Fatalf("lexer did not reach EOF, got %v", tokens)
		}
	}
	if len(tokens) != len(expectedTokens) {
		t.Fatalf("Expected %d tokens, got %d: %v", len(expectedTokens), len(tokens), tokens)
	}
	for i, expectedToken := range expectedTokens {
		token := tokens[i]

		if token.Type != expectedToken.Type {
			t.Fatalf("tests[%d] - wrong type. expected=%q (%s), got=%q (%s)",
				i, expectedToken.Type, expectedToken, token.Type, token)
		}

		switch token.Type {
		case TokNumber:
			if token.Number != expectedToken.Number {
				t.Fatalf("tests[%d] - wrong number. expected=%v (%s), got=%v (%s)",
					i, expectedToken.Number, expectedToken, token.Number, token)
			}
		case TokEOF:
		default:
			if token.Value != expectedToken.Value {
				t.Fatalf("tests[%d] - wrong value. expected=%q (%s), got=%q (%s)",
					i, expectedToken.Value, expectedToken, token.Value, token)
			}
		}
	}
}

func TestTokenTypeString(t *testing.T) {
	if len(tokenTypeStrings) != int(FinalToken) {
		t.Fatalf("Expected %d token types in tokenTypeStrings, got %d", FinalToken, len(tokenTypeStrings))
	}
}

func TestLexerCallWithComment(t *testing.T) {
	input := "1.5 + foo(2, 3) # c\n"
	expectedTokens := []Token{
		{Type: TokNumber, Number: 1.5},
		{Type: TokCharacter, Value: "+"},
		{Type: TokIdentifier, Value: "foo"},
		{Type: TokCharacter, Value: "("},
		{Type: TokNumber, Number: 2},
		{Type: TokCharacter, Value: ","},
		{Type: TokNumber, Number: 3},
		{Type: TokCharacter, Value: ")"},
		{Type: TokEOF},
	}

	testLexer(t, input, expectedTokens)
}

func TestLexerKeywords(t *testing.T) {
	input := "def extern define externs Def"
	expectedTokens := []Token{
		{Type: TokDef, Value: "def"},
		{Type: TokExtern, Value: "extern"},
		{Type: TokIdentifier, Value: "define"},
		{Type: TokIdentifier, Value: "externs"},
		{Type: TokIdentifier, Value: "Def"},
		{Type: TokEOF},
	}

	testLexer(t, input, expectedTokens)
}

func TestLexerDefinition(t *testing.T) {
	input := "def avg(x, y) (x + y) * 0.5;"
	expectedTokens := []Token{
		{Type: TokDef, Value: "def"},
		{Type: TokIdentifier, Value: "avg"},
		{Type: TokCharacter, Value: "("},
		{Type: TokIdentifier, Value: "x"},
		{Type: TokCharacter, Value: ","},
		{Type: TokIdentifier, Value: "y"},
		{Type: TokCharacter, Value: ")"},
		{Type: TokCharacter, Value: "("},
		{Type: TokIdentifier, Value: "x"},
		{Type: TokCharacter, Value: "+"},
		{Type: TokIdentifier, Value: "y"},
		{Type: TokCharacter, Value: ")"},
		{Type: TokCharacter, Value: "*"},
		{Type: TokNumber, Number: 0.5},
		{Type: TokCharacter, Value: ";"},
		{Type: TokEOF},
	}

	testLexer(t, input, expectedTokens)
}

func TestLexerCases(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []Token
	}{
		{
			name:     "Empty input",
			input:    "",
			expected: []Token{{Type: TokEOF}},
		},
		{
			name:     "Only whitespace",
			input:    "   \t   \n  \r\n ",
			expected: []Token{{Type: TokEOF}},
		},
		{
			name:     "Only comment",
			input:    "# nothing to see",
			expected: []Token{{Type: TokEOF}},
		},
		{
			name:  "Comment ended by carriage return",
			input: "# note\rx",
			expected: []Token{
				{Type: TokIdentifier, Value: "x"},
				{Type: TokEOF},
			},
		},
		{
			name:  "Consecutive comments",
			input: "# one\n# two\n42",
			expected: []Token{
				{Type: TokNumber, Number: 42},
				{Type: TokEOF},
			},
		},
		{
			name:  "Identifier with digits",
			input: "x1y2 a0",
			expected: []Token{
				{Type: TokIdentifier, Value: "x1y2"},
				{Type: TokIdentifier, Value: "a0"},
				{Type: TokEOF},
			},
		},
		{
			name:  "Underscore is a character",
			input: "a_b",
			expected: []Token{
				{Type: TokIdentifier, Value: "a"},
				{Type: TokCharacter, Value: "_"},
				{Type: TokIdentifier, Value: "b"},
				{Type: TokEOF},
			},
		},
		{
			name:  "Digits then letters",
			input: "12ab",
			expected: []Token{
				{Type: TokNumber, Number: 12},
				{Type: TokIdentifier, Value: "ab"},
				{Type: TokEOF},
			},
		},
		{
			name:  "Trailing decimal point",
			input: "3.",
			expected: []Token{
				{Type: TokNumber, Number: 3},
				{Type: TokEOF},
			},
		},
		{
			name:  "At most one decimal point",
			input: "1.2.3",
			expected: []Token{
				{Type: TokNumber, Number: 1.2},
				{Type: TokCharacter, Value: "."},
				{Type: TokNumber, Number: 3},
				{Type: TokEOF},
			},
		},
		{
			name:  "Leading decimal point",
			input: ".5",
			expected: []Token{
				{Type: TokCharacter, Value: "."},
				{Type: TokNumber, Number: 5},
				{Type: TokEOF},
			},
		},
		{
			name:  "Non ascii letter",
			input: "a ä+b 0.3 0.33#abc\ndef",
			expected: []Token{
				{Type: TokIdentifier, Value: "a"},
				{Type: TokCharacter, Value: "ä"},
				{Type: TokCharacter, Value: "+"},
				{Type: TokIdentifier, Value: "b"},
				{Type: TokNumber, Number: 0.3},
				{Type: TokNumber, Number: 0.33},
				{Type: TokDef, Value: "def"},
				{Type: TokEOF},
			},
		},
		{
			name:  "Operators",
			input: "a+b-c*d/e<f",
			expected: []Token{
				{Type: TokIdentifier, Value: "a"},
				{Type: TokCharacter, Value: "+"},
				{Type: TokIdentifier, Value: "b"},
				{Type: TokCharacter, Value: "-"},
				{Type: TokIdentifier, Value: "c"},
				{Type: TokCharacter, Value: "*"},
				{Type: TokIdentifier, Value: "d"},
				{Type: TokCharacter, Value: "/"},
				{Type: TokIdentifier, Value: "e"},
				{Type: TokCharacter, Value: "<"},
				{Type: TokIdentifier, Value: "f"},
				{Type: TokEOF},
			},
		},
		{
			name:  "Non ascii digits",
			input: "١٢ x",
			expected: []Token{
				{Type: TokError, Value: `malformed number "١٢"`},
				{Type: TokIdentifier, Value: "x"},
				{Type: TokEOF},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testLexer(t, tt.input, tt.expected)
		})
	}
}

func TestLexerNumberOutOfRange(t *testing.T) {
	lex := New(strings.Repeat("9", 400))
	tok := lex.NextToken()
	if tok.Type != TokError {
		t.Fatalf("expected TokError, got %s", tok)
	}
	var lexErr *Error
	if err := tok.Err(); !errors.As(err, &lexErr) {
		t.Fatalf("expected *Error, got %T (%v)", err, err)
	}
	if !strings.Contains(lexErr.Msg, "out of range") {
		t.Fatalf("unexpected error message %q", lexErr.Msg)
	}
	if tok := lex.NextToken(); tok.Type != TokEOF {
		t.Fatalf("expected EOF after error, got %s", tok)
	}
}

func TestLexerEOFIsSticky(t *testing.T) {
	lex := New("x")
	lex.NextToken()
	for range 3 {
		if tok := lex.NextToken(); tok.Type != TokEOF {
			t.Fatalf("expected EOF, got %s", tok)
		}
	}
}

func TestLexerReset(t *testing.T) {
	lex := New("def foo")
	if tok := lex.NextToken(); tok.Type != TokDef {
		t.Fatalf("expected DEF, got %s", tok)
	}

	// Swapping the buffer drops what was left of the previous one.
	lex.Reset("extern")
	if tok := lex.NextToken(); tok.Type != TokExtern {
		t.Fatalf("expected EXTERN, got %s", tok)
	}
	if tok := lex.NextToken(); tok.Type != TokEOF {
		t.Fatalf("expected EOF, got %s", tok)
	}
}

func TestTokenPos(t *testing.T) {
	lex := New("a\n  bc # x\n\täd")
	want := []Pos{
		{Line: 1, Col: 1},
		{Line: 2, Col: 3},
		{Line: 3, Col: 2},
		{Line: 3, Col: 3},
		{Line: 3, Col: 4},
	}
	for i, pos := range want {
		tok := lex.NextToken()
		if tok.Pos != pos {
			t.Fatalf("tests[%d] - wrong position for %s: expected %s", i, tok, pos)
		}
	}
}
