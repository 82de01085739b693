package parser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Gatchang-nyawargak/inventory-rdbms/pkg/types"
)

// Lexing failures, carried inside a LexError.
var (
	ErrUnterminatedLiteral = errors.New("unterminated string literal")
	ErrUnknownToken        = errors.New("unknown token")
)

// LexError reports malformed input at a byte position. It unwraps both to
// the syntax error category and to the specific lexing sentinel.
type LexError struct {
	Position int
	Detail   string
	Err      error
}

func (e *LexError) Error() string {
	return fmt.Sprintf("%v at position %d: %s", e.Err, e.Position, e.Detail)
}

func (e *LexError) Unwrap() []error { return []error{types.ErrSyntax, e.Err} }

// lexer walks the query text one byte at a time. The grammar is ASCII;
// multibyte characters only ever appear inside string literals, where they
// pass through untouched.
type lexer struct {
	input        string
	position     int
	readPosition int
	ch           byte
}

func newLexer(input string) *lexer {
	l := &lexer{input: input}
	l.readChar()
	return l
}

func (l *lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPosition]
	}
	l.position = l.readPosition
	l.readPosition++
}

func (l *lexer) peekChar() byte {
	if l.readPosition >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition]
}

// Tokenize lexes the whole query, appending a final EOF token.
func Tokenize(input string) ([]Token, error) {
	l := newLexer(input)
	var tokens []Token
	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Type == TokenEOF {
			return tokens, nil
		}
	}
}

func (l *lexer) next() (Token, error) {
	l.skipWhitespace()
	pos := l.position

	switch {
	case l.ch == 0:
		return Token{Type: TokenEOF, Pos: pos}, nil
	case l.ch == ',':
		l.readChar()
		return Token{Type: TokenComma, Literal: ",", Pos: pos}, nil
	case l.ch == '(':
		l.readChar()
		return Token{Type: TokenLParen, Literal: "(", Pos: pos}, nil
	case l.ch == ')':
		l.readChar()
		return Token{Type: TokenRParen, Literal: ")", Pos: pos}, nil
	case l.ch == '.':
		l.readChar()
		return Token{Type: TokenDot, Literal: ".", Pos: pos}, nil
	case l.ch == '*':
		l.readChar()
		return Token{Type: TokenStar, Literal: "*", Pos: pos}, nil
	case l.ch == ';':
		l.readChar()
		return Token{Type: TokenSemicolon, Literal: ";", Pos: pos}, nil
	case l.ch == '\'' || l.ch == '"':
		return l.readString()
	case isOperatorChar(l.ch):
		return l.readOperator()
	case l.ch == '-' && isDigit(l.peekChar()):
		return l.readNumber()
	case isDigit(l.ch):
		return l.readNumber()
	case isIdentStart(l.ch):
		return l.readWord(), nil
	default:
		ch := l.ch
		return Token{}, &LexError{
			Position: pos,
			Detail:   fmt.Sprintf("unexpected character %q", string(ch)),
			Err:      ErrUnknownToken,
		}
	}
}

func (l *lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
		l.readChar()
	}
}

// readString consumes a quoted literal. A doubled quote inside the literal
// is an escaped quote character.
func (l *lexer) readString() (Token, error) {
	pos := l.position
	quote := l.ch
	l.readChar()

	var b strings.Builder
	for {
		switch l.ch {
		case 0:
			return Token{}, &LexError{
				Position: pos,
				Detail:   "missing closing quote",
				Err:      ErrUnterminatedLiteral,
			}
		case quote:
			if l.peekChar() == quote {
				b.WriteByte(quote)
				l.readChar()
				l.readChar()
				continue
			}
			l.readChar()
			return Token{Type: TokenString, Literal: b.String(), Pos: pos}, nil
		default:
			b.WriteByte(l.ch)
			l.readChar()
		}
	}
}

func (l *lexer) readNumber() (Token, error) {
	pos := l.position
	if l.ch == '-' {
		l.readChar()
	}
	for isDigit(l.ch) {
		l.readChar()
	}
	tokenType := TokenInt
	if l.ch == '.' && isDigit(l.peekChar()) {
		tokenType = TokenFloat
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	if isIdentStart(l.ch) {
		return Token{}, &LexError{
			Position: pos,
			Detail:   fmt.Sprintf("malformed number %q", l.input[pos:l.readPosition]),
			Err:      ErrUnknownToken,
		}
	}
	return Token{Type: tokenType, Literal: l.input[pos:l.position], Pos: pos}, nil
}

func (l *lexer) readOperator() (Token, error) {
	pos := l.position
	for isOperatorChar(l.ch) {
		l.readChar()
	}
	op := l.input[pos:l.position]
	switch op {
	case "=", ">", "<", ">=", "<=", "!=":
		return Token{Type: TokenOperator, Literal: op, Pos: pos}, nil
	default:
		return Token{}, &LexError{
			Position: pos,
			Detail:   fmt.Sprintf("unrecognized operator %q", op),
			Err:      ErrUnknownToken,
		}
	}
}

// readWord consumes an identifier and classifies it as a keyword when it
// matches a reserved word, case-insensitively.
func (l *lexer) readWord() Token {
	pos := l.position
	for isIdentPart(l.ch) {
		l.readChar()
	}
	word := l.input[pos:l.position]
	upper := strings.ToUpper(word)
	if keywords[upper] {
		return Token{Type: TokenKeyword, Literal: upper, Pos: pos}
	}
	return Token{Type: TokenIdent, Literal: word, Pos: pos}
}

func isDigit(ch byte) bool { return ch >= '0' && ch <= '9' }

func isIdentStart(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isIdentPart(ch byte) bool { return isIdentStart(ch) || isDigit(ch) }

func isOperatorChar(ch byte) bool {
	return ch == '=' || ch == '<' || ch == '>' || ch == '!'
}
