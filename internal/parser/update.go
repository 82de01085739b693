package parser

// parseUpdate parses the remainder of
// UPDATE name SET col = literal [, col = literal ...] [WHERE ...].
func (p *Parser) parseUpdate() (Statement, error) {
	name, err := p.expectIdent("table name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expectKeyword("SET"); err != nil {
		return nil, err
	}

	var set []Assignment
	for {
		col, err := p.expectIdent("column name")
		if err != nil {
			return nil, err
		}
		opTok, err := p.expect(TokenOperator, "'='")
		if err != nil {
			return nil, err
		}
		if opTok.Literal != "=" {
			return nil, p.errExpectedAt(opTok, "'=' in assignment")
		}
		val, err := p.parseLiteral()
		if err != nil {
			return nil, err
		}
		set = append(set, Assignment{Column: col, Value: val})

		if p.cur().Type == TokenComma {
			p.advance()
			continue
		}
		break
	}

	where, err := p.parseWhere()
	if err != nil {
		return nil, err
	}
	return &UpdateStatement{Table: name, Set: set, Where: where}, nil
}
