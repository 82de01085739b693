package parser

import "github.com/Gatchang-nyawargak/inventory-rdbms/pkg/types"

// parseInsert parses the remainder of
// INSERT INTO name [(col, ...)] VALUES (literal, ...).
func (p *Parser) parseInsert() (Statement, error) {
	name, err := p.expectIdent("table name")
	if err != nil {
		return nil, err
	}

	var columns []string
	if p.cur().Type == TokenLParen {
		p.advance()
		for {
			col, err := p.expectIdent("column name")
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
	}

	if _, err := p.expectKeyword("VALUES"); err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenLParen, "'('"); err != nil {
		return nil, err
	}

	var values []types.Value
	for {
		val, err := p.parseLiteral()
		if err != nil {
			return nil, err
		}
		values = append(values, val)
		if p.cur().Type == TokenComma {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(TokenRParen, "')' or ','"); err != nil {
		return nil, err
	}

	return &InsertStatement{Table: name, Columns: columns, Values: values}, nil
}
