// Package lexer splits a JSON byte stream into primitive lexemes.
//
// The lexer only knows the lexical rules of JSON: string escapes, number
// syntax and the three keyword literals. It does not check that lexemes appear
// in a grammatical order; that is the parser's job. String and number lexemes
// carry their exact source text, strings including the surrounding quotes.
package lexer

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// DefaultBufferSize is the read buffer used when none is configured.
const DefaultBufferSize = 64 * 1024

// Kind identifies a lexeme.
type Kind uint8

const (
	KindBeginObject Kind = iota + 1
	KindEndObject
	KindBeginArray
	KindEndArray
	KindNameSeparator
	KindValueSeparator
	KindString
	KindNumber
	KindTrue
	KindFalse
	KindNull
)

// String returns the lexeme kind name.
func (k Kind) String() string {
	switch k {
	case KindBeginObject:
		return "{"
	case KindEndObject:
		return "}"
	case KindBeginArray:
		return "["
	case KindEndArray:
		return "]"
	case KindNameSeparator:
		return ":"
	case KindValueSeparator:
		return ","
	case KindString:
		return "STRING"
	case KindNumber:
		return "NUMBER"
	case KindTrue:
		return "true"
	case KindFalse:
		return "false"
	case KindNull:
		return "null"
	default:
		return "UNKNOWN"
	}
}

// Position is a location in the input.
type Position struct {
	Offset int // byte offset, 0-based
	Line   int // 1-based
	Column int // 1-based, in bytes
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Lexeme is a single lexical unit.
type Lexeme struct {
	Kind Kind
	Text string
	Pos  Position
}

// SyntaxError reports input that cannot be split into JSON lexemes.
type SyntaxError struct {
	Msg string
	Pos Position
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s at %s", e.Msg, e.Pos)
}

// Lexer pulls bytes from a reader on demand and produces lexemes.
type Lexer struct {
	r   *bufio.Reader
	pos Position
	err error // sticky non-EOF read error
}

// New creates a lexer reading from r through a buffer of bufSize bytes.
// A non-positive bufSize selects DefaultBufferSize.
func New(r io.Reader, bufSize int) *Lexer {
	if bufSize <= 0 {
		bufSize = DefaultBufferSize
	}
	return &Lexer{
		r:   bufio.NewReaderSize(r, bufSize),
		pos: Position{Line: 1, Column: 1},
	}
}

// Next returns the next lexeme. It returns io.EOF once the input is
// exhausted, a *SyntaxError for invalid input, or the underlying read error.
func (l *Lexer) Next() (Lexeme, error) {
	if err := l.skipWhitespace(); err != nil {
		return Lexeme{}, err
	}

	start := l.pos
	b, err := l.peekByte()
	if err != nil {
		return Lexeme{}, err
	}

	switch b {
	case '{':
		return l.single(KindBeginObject, start), nil
	case '}':
		return l.single(KindEndObject, start), nil
	case '[':
		return l.single(KindBeginArray, start), nil
	case ']':
		return l.single(KindEndArray, start), nil
	case ':':
		return l.single(KindNameSeparator, start), nil
	case ',':
		return l.single(KindValueSeparator, start), nil
	case '"':
		return l.scanString(start)
	case 't', 'f', 'n':
		return l.scanLiteral(start)
	}

	if b == '-' || isDigit(b) {
		return l.scanNumber(start)
	}

	_, _ = l.readByte()
	return Lexeme{}, &SyntaxError{Msg: fmt.Sprintf("invalid character %q", b), Pos: start}
}

func (l *Lexer) single(kind Kind, start Position) Lexeme {
	_, _ = l.readByte()
	return Lexeme{Kind: kind, Pos: start}
}

func (l *Lexer) skipWhitespace() error {
	for {
		b, err := l.peekByte()
		if err != nil {
			return err
		}
		switch b {
		case ' ', '\t', '\n', '\r':
			_, _ = l.readByte()
		default:
			return nil
		}
	}
}

// scanString consumes a string literal and returns it with its quotes.
func (l *Lexer) scanString(start Position) (Lexeme, error) {
	var sb strings.Builder
	l.take(&sb) // opening quote

	for {
		at := l.pos
		b, err := l.readByte()
		if err == io.EOF {
			return Lexeme{}, &SyntaxError{Msg: "unterminated string", Pos: start}
		}
		if err != nil {
			return Lexeme{}, err
		}
		sb.WriteByte(b)

		switch {
		case b == '"':
			text := sb.String()
			if !utf8.ValidString(text) {
				return Lexeme{}, &SyntaxError{Msg: "invalid UTF-8 in string", Pos: start}
			}
			return Lexeme{Kind: KindString, Text: text, Pos: start}, nil
		case b < 0x20:
			return Lexeme{}, &SyntaxError{Msg: fmt.Sprintf("invalid control character %q in string", b), Pos: at}
		case b == '\\':
			if err := l.scanEscape(&sb, at); err != nil {
				return Lexeme{}, err
			}
		}
	}
}

func (l *Lexer) scanEscape(sb *strings.Builder, at Position) error {
	b, err := l.readByte()
	if err == io.EOF {
		return &SyntaxError{Msg: "unterminated escape sequence", Pos: at}
	}
	if err != nil {
		return err
	}
	sb.WriteByte(b)

	switch b {
	case '"', '\\', '/', 'b', 'f', 'n', 'r', 't':
		return nil
	case 'u':
		for i := 0; i < 4; i++ {
			h, err := l.readByte()
			if err != nil && err != io.EOF {
				return err
			}
			if err == io.EOF || !isHex(h) {
				return &SyntaxError{Msg: "invalid unicode escape", Pos: at}
			}
			sb.WriteByte(h)
		}
		return nil
	default:
		return &SyntaxError{Msg: fmt.Sprintf("invalid escape character %q", b), Pos: at}
	}
}

// scanNumber consumes a number literal:
// -? (0 | [1-9][0-9]*) (. [0-9]+)? ([eE] [+-]? [0-9]+)?
func (l *Lexer) scanNumber(start Position) (Lexeme, error) {
	var sb strings.Builder

	if b, err := l.peekByte(); err == nil && b == '-' {
		l.take(&sb)
	}

	b, err := l.peekByte()
	switch {
	case err == nil && b == '0':
		l.take(&sb)
	case err == nil && isDigit(b):
		l.takeDigits(&sb)
	case err != nil && err != io.EOF:
		return Lexeme{}, err
	default:
		return Lexeme{}, &SyntaxError{Msg: "invalid number: expected digit", Pos: start}
	}

	if b, err := l.peekByte(); err == nil && b == '.' {
		l.take(&sb)
		if l.takeDigits(&sb) == 0 {
			return Lexeme{}, &SyntaxError{Msg: "invalid number: expected digit after decimal point", Pos: start}
		}
	}

	if b, err := l.peekByte(); err == nil && (b == 'e' || b == 'E') {
		l.take(&sb)
		if b, err := l.peekByte(); err == nil && (b == '+' || b == '-') {
			l.take(&sb)
		}
		if l.takeDigits(&sb) == 0 {
			return Lexeme{}, &SyntaxError{Msg: "invalid number: expected digit in exponent", Pos: start}
		}
	}

	if l.err != nil {
		return Lexeme{}, l.err
	}
	return Lexeme{Kind: KindNumber, Text: sb.String(), Pos: start}, nil
}

func (l *Lexer) scanLiteral(start Position) (Lexeme, error) {
	var sb strings.Builder
	for {
		b, err := l.peekByte()
		if err != nil || b < 'a' || b > 'z' {
			break
		}
		l.take(&sb)
	}
	if l.err != nil {
		return Lexeme{}, l.err
	}

	switch word := sb.String(); word {
	case "true":
		return Lexeme{Kind: KindTrue, Pos: start}, nil
	case "false":
		return Lexeme{Kind: KindFalse, Pos: start}, nil
	case "null":
		return Lexeme{Kind: KindNull, Pos: start}, nil
	default:
		return Lexeme{}, &SyntaxError{Msg: fmt.Sprintf("invalid literal %q", word), Pos: start}
	}
}

func (l *Lexer) take(sb *strings.Builder) {
	b, err := l.readByte()
	if err == nil {
		sb.WriteByte(b)
	}
}

func (l *Lexer) takeDigits(sb *strings.Builder) int {
	n := 0
	for {
		b, err := l.peekByte()
		if err != nil || !isDigit(b) {
			return n
		}
		l.take(sb)
		n++
	}
}

func (l *Lexer) peekByte() (byte, error) {
	if l.err != nil {
		return 0, l.err
	}
	bs, err := l.r.Peek(1)
	if err != nil {
		if err != io.EOF {
			l.err = err
		}
		return 0, err
	}
	return bs[0], nil
}

func (l *Lexer) readByte() (byte, error) {
	if l.err != nil {
		return 0, l.err
	}
	b, err := l.r.ReadByte()
	if err != nil {
		if err != io.EOF {
			l.err = err
		}
		return 0, err
	}
	l.pos.Offset++
	if b == '\n' {
		l.pos.Line++
		l.pos.Column = 1
	} else {
		l.pos.Column++
	}
	return b, nil
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func isHex(b byte) bool {
	return isDigit(b) || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}
