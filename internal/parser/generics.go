package parser

import (
	"github.com/smartoctopus/wave/internal/ast"
	"github.com/smartoctopus/wave/internal/lexer"
)

// parseGenericHeader parses the generic declaration header supplement
// (`<T, U> [where T: Trait, U: Trait2]`), assuming the cursor is at
// `<`. This surface syntax is this repository's own addition: the
// language grammar has no generic syntax at all, only the
// GENERIC/GENERIC_ONE node kinds and their extra payloads (§4.2); see
// DESIGN.md for the open-question resolution.
func (p *parser) parseGenericHeader() ast.Index {
	lt := p.advance() // '<'
	mark := p.builder.ScratchMark()
	count := 0
	p.skipNewlines()
	for !p.check(lexer.GT) && !p.atEnd() {
		tok, _ := p.expect(lexer.IDENTIFIER, "type parameter name")
		p.builder.PushScratch(ast.Node{Kind: ast.Identifier, Token: tok, Data: ast.Data{}})
		count++
		p.skipNewlines()
		if !p.match(lexer.COMMA) {
			break
		}
		p.skipNewlines()
	}
	p.expect(lexer.GT, "<T, U>")
	typeParamsStart, typeParamsEnd := p.builder.CommitScratch(mark)

	whereStart, whereEnd := p.parseWhereClause()

	if count <= 1 {
		var param ast.Index = ast.NoIndex
		if count == 1 {
			param = typeParamsStart
		}
		extraIdx := p.builder.Nodes.Extra.PushGenericOne(ast.GenericOne{
			TypeParam: param, WhereStart: whereStart, WhereEnd: whereEnd,
		})
		return p.builder.AddNode(ast.GenericOne, lt, ast.Data{Lhs: extraIdx})
	}

	extraIdx := p.builder.Nodes.Extra.PushGeneric(ast.Generic{
		TypeParamsStart: typeParamsStart, TypeParamsEnd: typeParamsEnd,
		WhereStart: whereStart, WhereEnd: whereEnd,
	})
	return p.builder.AddNode(ast.Generic, lt, ast.Data{Lhs: extraIdx})
}

// parseWhereClause parses an optional `where T: Trait, U: Trait2`
// clause, returning the committed (start, end) range of Field-shaped
// constraint nodes (name, bound), or (0, 0) if there is none.
func (p *parser) parseWhereClause() (start, end ast.Index) {
	if !p.match(lexer.WHERE) {
		return 0, 0
	}
	mark := p.builder.ScratchMark()
	p.skipNewlines()
	for p.check(lexer.IDENTIFIER) {
		nameTok := p.advance()
		p.expect(lexer.COLON, "T: Trait")
		bound := p.parseType()
		p.builder.PushScratch(ast.Node{Kind: ast.Field, Token: nameTok, Data: ast.Data{Lhs: bound}})
		p.skipNewlines()
		if !p.match(lexer.COMMA) {
			break
		}
		p.skipNewlines()
	}
	return p.builder.CommitScratch(mark)
}
