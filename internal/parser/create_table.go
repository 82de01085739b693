package parser

import (
	"strconv"

	"github.com/Gatchang-nyawargak/inventory-rdbms/pkg/types"
)

// parseCreateTable parses the remainder of
// CREATE TABLE name (col type [constraint...], ...).
func (p *Parser) parseCreateTable() (Statement, error) {
	name, err := p.expectIdent("table name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenLParen, "'('"); err != nil {
		return nil, err
	}

	var columns []types.Column
	for {
		col, err := p.parseColumnDef()
		if err != nil {
			return nil, err
		}
		columns = append(columns, col)

		if p.cur().Type == TokenComma {
			p.advance()
			continue
		}
		break
	}

	if _, err := p.expect(TokenRParen, "')' or ','"); err != nil {
		return nil, err
	}
	return &CreateTableStatement{Table: name, Columns: columns}, nil
}

func (p *Parser) parseColumnDef() (types.Column, error) {
	name, err := p.expectIdent("column name")
	if err != nil {
		return types.Column{}, err
	}
	dt, err := p.parseDataType()
	if err != nil {
		return types.Column{}, err
	}

	col := types.Column{Name: name, Type: dt}
	for {
		switch {
		case p.matchKeyword("PRIMARY"):
			if _, err := p.expectKeyword("KEY"); err != nil {
				return types.Column{}, err
			}
			col.PrimaryKey = true
			// A primary key is implicitly NOT NULL.
			col.NotNull = true
		case p.matchKeyword("UNIQUE"):
			col.Unique = true
		case p.matchKeyword("NOT"):
			if _, err := p.expectKeyword("NULL"); err != nil {
				return types.Column{}, err
			}
			col.NotNull = true
		default:
			return col, nil
		}
	}
}

func (p *Parser) parseDataType() (types.DataType, error) {
	tok := p.cur()
	if tok.Type != TokenKeyword {
		return types.DataType{}, p.errExpected("a column type")
	}
	switch tok.Literal {
	case "INT":
		p.advance()
		return types.DataType{Name: types.TypeInt}, nil
	case "FLOAT":
		p.advance()
		return types.DataType{Name: types.TypeFloat}, nil
	case "BOOLEAN":
		p.advance()
		return types.DataType{Name: types.TypeBoolean}, nil
	case "DATETIME":
		p.advance()
		return types.DataType{Name: types.TypeDateTime}, nil
	case "VARCHAR":
		p.advance()
		if _, err := p.expect(TokenLParen, "'(' after VARCHAR"); err != nil {
			return types.DataType{}, err
		}
		lenTok, err := p.expect(TokenInt, "a length")
		if err != nil {
			return types.DataType{}, err
		}
		n, err := strconv.Atoi(lenTok.Literal)
		if err != nil || n <= 0 {
			return types.DataType{}, &types.SyntaxError{
				Position: lenTok.Pos,
				Expected: "a positive VARCHAR length",
				Found:    lenTok.Literal,
			}
		}
		if _, err := p.expect(TokenRParen, "')'"); err != nil {
			return types.DataType{}, err
		}
		return types.DataType{Name: types.TypeVarChar, Length: n}, nil
	default:
		return types.DataType{}, p.errExpected("a column type (INT, VARCHAR, FLOAT, BOOLEAN, DATETIME)")
	}
}
