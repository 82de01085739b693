package parser

// parseSelect parses the remainder of
// SELECT cols|* FROM name [JOIN name2 ON ref = ref] [WHERE ref op literal].
func (p *Parser) parseSelect() (Statement, error) {
	stmt := &SelectStatement{}

	if p.cur().Type == TokenStar {
		p.advance()
	} else {
		for {
			ref, err := p.parseColumnRef()
			if err != nil {
				return nil, err
			}
			stmt.Columns = append(stmt.Columns, ref)
			if p.cur().Type == TokenComma {
				p.advance()
				continue
			}
			break
		}
	}

	if _, err := p.expectKeyword("FROM"); err != nil {
		return nil, err
	}
	table, err := p.expectIdent("table name")
	if err != nil {
		return nil, err
	}
	stmt.Table = table

	if p.matchKeyword("JOIN") {
		join, err := p.parseJoin()
		if err != nil {
			return nil, err
		}
		stmt.Join = join
	}

	where, err := p.parseWhere()
	if err != nil {
		return nil, err
	}
	stmt.Where = where
	return stmt, nil
}

// parseJoin parses table ON ref = ref after the JOIN keyword. Only equality
// join conditions are accepted.
func (p *Parser) parseJoin() (*JoinClause, error) {
	table, err := p.expectIdent("table name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expectKeyword("ON"); err != nil {
		return nil, err
	}
	left, err := p.parseColumnRef()
	if err != nil {
		return nil, err
	}
	opTok, err := p.expect(TokenOperator, "'='")
	if err != nil {
		return nil, err
	}
	if opTok.Literal != "=" {
		return nil, p.errExpectedAt(opTok, "'=' in join condition")
	}
	right, err := p.parseColumnRef()
	if err != nil {
		return nil, err
	}
	return &JoinClause{Table: table, LeftRef: left, RightRef: right}, nil
}
