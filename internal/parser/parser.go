// Package parser turns query text into typed AST statements. Lexing and
// parsing are pure text-to-structure transformations with no side effects;
// schema validation belongs to the executor and storage engine.
package parser

import (
	"strconv"

	"github.com/Gatchang-nyawargak/inventory-rdbms/pkg/types"
)

// Parser is a token-cursor recursive-descent parser for one statement.
type Parser struct {
	tokens []Token
	pos    int
}

// Parse lexes and parses a single statement. An optional trailing semicolon
// is accepted; anything after it is a syntax error.
func Parse(query string) (Statement, error) {
	tokens, err := Tokenize(query)
	if err != nil {
		return nil, err
	}
	p := &Parser{tokens: tokens}

	stmt, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	if p.cur().Type == TokenSemicolon {
		p.advance()
	}
	if p.cur().Type != TokenEOF {
		return nil, p.errExpected("end of statement")
	}
	return stmt, nil
}

func (p *Parser) parseStatement() (Statement, error) {
	tok := p.cur()
	if tok.Type != TokenKeyword {
		return nil, p.errExpected("a statement keyword")
	}
	switch tok.Literal {
	case "CREATE":
		p.advance()
		if _, err := p.expectKeyword("TABLE"); err != nil {
			return nil, err
		}
		return p.parseCreateTable()
	case "INSERT":
		p.advance()
		if _, err := p.expectKeyword("INTO"); err != nil {
			return nil, err
		}
		return p.parseInsert()
	case "SELECT":
		p.advance()
		return p.parseSelect()
	case "UPDATE":
		p.advance()
		return p.parseUpdate()
	case "DELETE":
		p.advance()
		if _, err := p.expectKeyword("FROM"); err != nil {
			return nil, err
		}
		return p.parseDelete()
	case "SHOW":
		p.advance()
		if _, err := p.expectKeyword("TABLES"); err != nil {
			return nil, err
		}
		return &ShowTablesStatement{}, nil
	case "DESCRIBE":
		p.advance()
		name, err := p.expectIdent("table name")
		if err != nil {
			return nil, err
		}
		return &DescribeStatement{Table: name}, nil
	default:
		return nil, p.errExpected("CREATE, INSERT, SELECT, UPDATE, DELETE, SHOW, or DESCRIBE")
	}
}

// Cursor helpers.

func (p *Parser) cur() Token { return p.tokens[p.pos] }

func (p *Parser) advance() Token {
	tok := p.tokens[p.pos]
	if tok.Type != TokenEOF {
		p.pos++
	}
	return tok
}

// matchKeyword consumes the next token if it is the given keyword.
func (p *Parser) matchKeyword(kw string) bool {
	if p.cur().Type == TokenKeyword && p.cur().Literal == kw {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) expectKeyword(kw string) (Token, error) {
	if p.cur().Type != TokenKeyword || p.cur().Literal != kw {
		return Token{}, p.errExpected("keyword " + kw)
	}
	return p.advance(), nil
}

func (p *Parser) expect(tt TokenType, what string) (Token, error) {
	if p.cur().Type != tt {
		return Token{}, p.errExpected(what)
	}
	return p.advance(), nil
}

func (p *Parser) expectIdent(what string) (string, error) {
	tok, err := p.expect(TokenIdent, what)
	if err != nil {
		return "", err
	}
	return tok.Literal, nil
}

func (p *Parser) errExpected(expected string) error {
	return p.errExpectedAt(p.cur(), expected)
}

func (p *Parser) errExpectedAt(tok Token, expected string) error {
	return &types.SyntaxError{
		Position: tok.Pos,
		Expected: expected,
		Found:    describe(tok),
	}
}

// parseLiteral converts a literal token into a Value. A bare numeral
// without a decimal point is an Integer, with one a Float; quoted text is
// Text; NULL, TRUE, and FALSE are keywords.
func (p *Parser) parseLiteral() (types.Value, error) {
	tok := p.cur()
	switch tok.Type {
	case TokenInt:
		i, err := strconv.ParseInt(tok.Literal, 10, 64)
		if err != nil {
			return types.Value{}, p.errExpected("an integer literal")
		}
		p.advance()
		return types.NewInteger(i), nil
	case TokenFloat:
		f, err := strconv.ParseFloat(tok.Literal, 64)
		if err != nil {
			return types.Value{}, p.errExpected("a float literal")
		}
		p.advance()
		return types.NewFloat(f), nil
	case TokenString:
		p.advance()
		return types.NewText(tok.Literal), nil
	case TokenKeyword:
		switch tok.Literal {
		case "NULL":
			p.advance()
			return types.Null(), nil
		case "TRUE":
			p.advance()
			return types.NewBoolean(true), nil
		case "FALSE":
			p.advance()
			return types.NewBoolean(false), nil
		}
	}
	return types.Value{}, p.errExpected("a literal value")
}

// parseColumnRef parses an optionally table-qualified column reference and
// returns it in its written form ("col" or "table.col").
func (p *Parser) parseColumnRef() (string, error) {
	name, err := p.expectIdent("a column reference")
	if err != nil {
		return "", err
	}
	if p.cur().Type == TokenDot {
		p.advance()
		col, err := p.expectIdent("a column name after '.'")
		if err != nil {
			return "", err
		}
		return name + "." + col, nil
	}
	return name, nil
}

// parseWhere parses the optional WHERE clause: exactly one comparison, no
// boolean composition.
func (p *Parser) parseWhere() (*types.Predicate, error) {
	if !p.matchKeyword("WHERE") {
		return nil, nil
	}
	col, err := p.parseColumnRef()
	if err != nil {
		return nil, err
	}
	opTok, err := p.expect(TokenOperator, "a comparison operator")
	if err != nil {
		return nil, err
	}
	val, err := p.parseLiteral()
	if err != nil {
		return nil, err
	}
	return &types.Predicate{
		Column: col,
		Op:     types.Operator(opTok.Literal),
		Value:  val,
	}, nil
}
