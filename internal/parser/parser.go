// Package parser builds a schema.Value from a JSON token stream, merging
// array elements as they are read.
package parser

import (
	stderrors "errors" // Standard errors package
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/mcncl/jsonshape/internal/config"
	"github.com/mcncl/jsonshape/internal/errors" // Custom errors package
	"github.com/mcncl/jsonshape/internal/lexer"
	"github.com/mcncl/jsonshape/internal/schema"
	"github.com/mcncl/jsonshape/internal/token"
)

// Parser infers a schema from a single JSON document.
type Parser struct {
	maxDepth   int
	bufferSize int
	logger     log.Logger
}

// NewParser creates a Parser with default limits and no logging.
func NewParser() *Parser {
	return NewParserWithConfig(config.NewConfig(), log.NewNopLogger())
}

// NewParserWithConfig creates a Parser using the limits in cfg.
func NewParserWithConfig(cfg *config.Config, logger log.Logger) *Parser {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &Parser{
		maxDepth:   cfg.Parser.MaxDepth,
		bufferSize: cfg.Input.BufferSize,
		logger:     logger,
	}
}

// Parse reads exactly one JSON document from reader and returns its schema.
func (p *Parser) Parse(reader io.Reader) (schema.Value, error) {
	c := token.NewCursor(token.LexerSource{Lexer: lexer.New(reader, p.bufferSize)})

	if _, err := c.Peek(); err != nil {
		if stderrors.Is(err, io.EOF) {
			return schema.Value{}, errors.NewInputError("input is empty or contains only whitespace", errors.ErrEmptyInput)
		}
		return schema.Value{}, wrapTokenError(err)
	}

	value, err := p.parseValue(c, 1)
	if err != nil {
		return schema.Value{}, err
	}

	// Only whitespace may follow the root value.
	tok, err := c.Peek()
	switch {
	case err == nil:
		return schema.Value{}, errors.NewGrammarError(
			fmt.Sprintf("unexpected %s after the root value at %s", tok, tok.Pos),
			errors.ErrTrailingData,
		)
	case !stderrors.Is(err, io.EOF):
		return schema.Value{}, wrapTokenError(err)
	}

	level.Debug(p.logger).Log("msg", "parsed document", "tokens", c.Consumed(), "nodes", value.Size(), "root", value.Kind)
	return value, nil
}

func (p *Parser) parseValue(c *token.Cursor, depth int) (schema.Value, error) {
	tok, err := c.Advance()
	if err != nil {
		return schema.Value{}, wrapTokenError(err)
	}

	value, err := schema.FromToken(tok)
	if err != nil {
		return schema.Value{}, unexpected("a value", tok)
	}

	switch value.Kind {
	case schema.Object, schema.Array:
		if depth > p.maxDepth {
			return schema.Value{}, errors.NewGrammarError(
				fmt.Sprintf("nesting deeper than %d at %s", p.maxDepth, tok.Pos),
				errors.ErrMaxDepth,
			)
		}
	}

	switch value.Kind {
	case schema.Object:
		err = p.parseObject(c, &value, depth)
	case schema.Array:
		err = p.parseArray(c, &value, depth)
	}
	if err != nil {
		return schema.Value{}, err
	}
	return value, nil
}

// parseObject fills value with the members following an ObjectOpen.
func (p *Parser) parseObject(c *token.Cursor, value *schema.Value, depth int) error {
	closed, err := c.Expect(token.ObjectClose)
	if err != nil {
		return wrapTokenError(err)
	}
	if closed {
		return nil
	}

	for {
		tok, err := c.Advance()
		if err != nil {
			return wrapTokenError(err)
		}
		if tok.Kind != token.String {
			return unexpected("a string key", tok)
		}

		key := tok.Text[1 : len(tok.Text)-1]
		if _, dup := value.Fields[key]; dup {
			return errors.NewGrammarError(
				fmt.Sprintf("duplicate key %s at %s", tok.Text, tok.Pos),
				errors.ErrDuplicateKey,
			)
		}

		tok, err = c.Advance()
		if err != nil {
			return wrapTokenError(err)
		}
		if tok.Kind != token.Colon {
			return unexpected("Colon", tok)
		}

		child, err := p.parseValue(c, depth+1)
		if err != nil {
			return err
		}
		value.Fields[key] = schema.Field{Alternatives: []schema.Value{child}}

		tok, err = c.Advance()
		if err != nil {
			return wrapTokenError(err)
		}
		switch tok.Kind {
		case token.Comma:
			continue
		case token.ObjectClose:
			return nil
		default:
			return unexpected("Comma or ObjectClose", tok)
		}
	}
}

// parseArray fills value with the elements following an ArrayOpen. Each
// element is merged into the running alternatives as soon as it is read.
func (p *Parser) parseArray(c *token.Cursor, value *schema.Value, depth int) error {
	closed, err := c.Expect(token.ArrayClose)
	if err != nil {
		return wrapTokenError(err)
	}
	if closed {
		return nil
	}

	n := 0
	for {
		child, err := p.parseValue(c, depth+1)
		if err != nil {
			return err
		}
		n++
		value.Elements = schema.Reconcile(value.Elements, child)

		tok, err := c.Advance()
		if err != nil {
			return wrapTokenError(err)
		}
		switch tok.Kind {
		case token.Comma:
			continue
		case token.ArrayClose:
			value.MinLen, value.MaxLen = n, n
			return nil
		default:
			return unexpected("Comma or ArrayClose", tok)
		}
	}
}

func unexpected(want string, tok token.Token) error {
	return errors.NewGrammarError(
		fmt.Sprintf("expected %s, found %s at %s", want, tok, tok.Pos),
		errors.ErrUnexpectedToken,
	)
}

// wrapTokenError classifies an error coming out of the token cursor.
func wrapTokenError(err error) error {
	if stderrors.Is(err, io.EOF) {
		return errors.NewGrammarError("unterminated structure", errors.ErrUnexpectedEOF)
	}
	var syntaxErr *lexer.SyntaxError
	if stderrors.As(err, &syntaxErr) {
		return errors.NewLexicalError("invalid JSON token", syntaxErr)
	}
	return errors.NewInputError("failed to read input", err)
}

// Parse infers the schema of the JSON document in reader using default limits.
func Parse(reader io.Reader) (schema.Value, error) {
	return NewParser().Parse(reader)
}

// ParseString parses JSON from a string
func ParseString(jsonString string) (schema.Value, error) {
	return NewParser().ParseString(jsonString)
}

// ParseFile parses JSON from a file path
func ParseFile(filePath string) (schema.Value, error) {
	return NewParser().ParseFile(filePath)
}

// ParseString parses JSON from a string
func (p *Parser) ParseString(jsonString string) (schema.Value, error) {
	return p.Parse(strings.NewReader(jsonString))
}

// ParseFile parses JSON from a file path
func (p *Parser) ParseFile(filePath string) (schema.Value, error) {
	if strings.TrimSpace(filePath) == "" {
		return schema.Value{}, errors.NewInputError("file path is empty", errors.ErrInvalidFilePath)
	}
	file, err := os.Open(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return schema.Value{}, errors.NewInputError(
				fmt.Sprintf("file '%s' not found", filePath),
				errors.ErrFileNotFound,
			)
		}
		return schema.Value{}, errors.NewInputError(
			fmt.Sprintf("failed to open file '%s'", filePath),
			err,
		)
	}
	defer func() {
		if err := file.Close(); err != nil {
			level.Warn(p.logger).Log("msg", "error closing file", "file", filePath, "err", err)
		}
	}()

	value, err := p.Parse(file)
	if err != nil {
		var appErr *errors.AppError
		if stderrors.As(err, &appErr) && appErr.Type == errors.ErrorTypeInput && !stderrors.Is(err, errors.ErrEmptyInput) {
			appErr.Message = fmt.Sprintf("%s '%s'", appErr.Message, filePath)
		}
		return schema.Value{}, err
	}
	return value, nil
}
