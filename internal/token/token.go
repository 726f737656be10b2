// Package token defines the grammar tokens consumed by the parser and a
// single-token lookahead cursor over them.
package token

import (
	"fmt"
	"io"

	"github.com/mcncl/jsonshape/internal/lexer"
)

// Kind is the closed set of grammar tokens.
type Kind uint8

const (
	ObjectOpen Kind = iota + 1
	ObjectClose
	ArrayOpen
	ArrayClose
	Colon
	Comma
	String
	Number
	Boolean
	Null
)

func (k Kind) String() string {
	switch k {
	case ObjectOpen:
		return "ObjectOpen"
	case ObjectClose:
		return "ObjectClose"
	case ArrayOpen:
		return "ArrayOpen"
	case ArrayClose:
		return "ArrayClose"
	case Colon:
		return "Colon"
	case Comma:
		return "Comma"
	case String:
		return "String"
	case Number:
		return "Number"
	case Boolean:
		return "Boolean"
	case Null:
		return "Null"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Token is a grammar token. Text is set only for String and Number, and holds
// the literal exactly as written (strings keep their quotes).
type Token struct {
	Kind Kind
	Text string
	Pos  lexer.Position
}

// String returns the token for diagnostics, e.g. `String("a")` or `Comma`.
func (t Token) String() string {
	if t.Text == "" {
		return t.Kind.String()
	}
	return fmt.Sprintf("%s(%s)", t.Kind, t.Text)
}

// FromLexeme normalizes a lexer lexeme into a grammar token.
// true and false both become Boolean.
func FromLexeme(lx lexer.Lexeme) (Token, error) {
	tok := Token{Pos: lx.Pos}
	switch lx.Kind {
	case lexer.KindBeginObject:
		tok.Kind = ObjectOpen
	case lexer.KindEndObject:
		tok.Kind = ObjectClose
	case lexer.KindBeginArray:
		tok.Kind = ArrayOpen
	case lexer.KindEndArray:
		tok.Kind = ArrayClose
	case lexer.KindNameSeparator:
		tok.Kind = Colon
	case lexer.KindValueSeparator:
		tok.Kind = Comma
	case lexer.KindString:
		tok.Kind = String
		tok.Text = lx.Text
	case lexer.KindNumber:
		tok.Kind = Number
		tok.Text = lx.Text
	case lexer.KindTrue, lexer.KindFalse:
		tok.Kind = Boolean
	case lexer.KindNull:
		tok.Kind = Null
	default:
		return Token{}, fmt.Errorf("unknown lexeme kind %s at %s", lx.Kind, lx.Pos)
	}
	return tok, nil
}

// Source produces tokens one at a time, returning io.EOF at the end.
type Source interface {
	Next() (Token, error)
}

// LexerSource adapts a lexer to a token Source.
type LexerSource struct {
	Lexer *lexer.Lexer
}

// Next implements Source.
func (s LexerSource) Next() (Token, error) {
	lx, err := s.Lexer.Next()
	if err != nil {
		return Token{}, err
	}
	return FromLexeme(lx)
}

// Cursor provides one token of lookahead over a Source.
type Cursor struct {
	src    Source
	peeked bool
	tok    Token
	err    error
	count  int
}

// NewCursor creates a cursor over src.
func NewCursor(src Source) *Cursor {
	return &Cursor{src: src}
}

// Peek returns the next token without consuming it.
func (c *Cursor) Peek() (Token, error) {
	if !c.peeked {
		c.tok, c.err = c.src.Next()
		c.peeked = true
	}
	return c.tok, c.err
}

// Advance consumes and returns the next token. Errors, including io.EOF,
// are not consumed and are returned again on the next call.
func (c *Cursor) Advance() (Token, error) {
	tok, err := c.Peek()
	if err != nil {
		return Token{}, err
	}
	c.peeked = false
	c.count++
	return tok, nil
}

// Expect consumes the next token if it has the given kind.
func (c *Cursor) Expect(kind Kind) (bool, error) {
	tok, err := c.Peek()
	if err == io.EOF {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if tok.Kind != kind {
		return false, nil
	}
	_, err = c.Advance()
	return err == nil, err
}

// Consumed returns the number of tokens consumed so far.
func (c *Cursor) Consumed() int {
	return c.count
}
