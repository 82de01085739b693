package parser

import "fmt"

// TokenType classifies a lexed token.
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenIdent
	TokenKeyword
	TokenString
	TokenInt
	TokenFloat
	TokenOperator
	TokenComma
	TokenLParen
	TokenRParen
	TokenDot
	TokenStar
	TokenSemicolon
)

// Token is one lexed unit. Pos is the byte offset of the token's first
// character in the query text. Keyword literals are canonical uppercase;
// identifier and literal tokens keep their source spelling (strings without
// their quotes).
type Token struct {
	Type    TokenType
	Literal string
	Pos     int
}

// keywords is the set of reserved words, matched case-insensitively.
var keywords = map[string]bool{
	"CREATE": true, "TABLE": true, "INSERT": true, "INTO": true,
	"VALUES": true, "SELECT": true, "FROM": true, "WHERE": true,
	"UPDATE": true, "SET": true, "DELETE": true, "JOIN": true, "ON": true,
	"PRIMARY": true, "KEY": true, "UNIQUE": true, "NOT": true, "NULL": true,
	"TRUE": true, "FALSE": true, "SHOW": true, "TABLES": true,
	"DESCRIBE": true, "INT": true, "VARCHAR": true, "FLOAT": true,
	"BOOLEAN": true, "DATETIME": true,
}

// describe renders a token for syntax error messages.
func describe(t Token) string {
	switch t.Type {
	case TokenEOF:
		return "end of input"
	case TokenIdent:
		return fmt.Sprintf("identifier %q", t.Literal)
	case TokenKeyword:
		return fmt.Sprintf("keyword %s", t.Literal)
	case TokenString:
		return fmt.Sprintf("string %q", t.Literal)
	case TokenInt, TokenFloat:
		return fmt.Sprintf("number %s", t.Literal)
	default:
		return fmt.Sprintf("%q", t.Literal)
	}
}
