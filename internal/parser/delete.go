package parser

// parseDelete parses the remainder of DELETE FROM name [WHERE ...]. A
// missing WHERE clause deletes every row; that is deliberate, not an error.
func (p *Parser) parseDelete() (Statement, error) {
	name, err := p.expectIdent("table name")
	if err != nil {
		return nil, err
	}
	where, err := p.parseWhere()
	if err != nil {
		return nil, err
	}
	return &DeleteStatement{Table: name, Where: where}, nil
}
