package parser

import (
	"github.com/smartoctopus/wave/internal/ast"
	"github.com/smartoctopus/wave/internal/lexer"
)

// parseStructLit parses `struct { name: T = E, ... }`, assuming the
// cursor is at `struct`. Field separator is `,` with newlines
// permitted around it; a trailing separator before `}` is tolerated.
// The result is STRUCT_TWO when there are at most two fields (per §3's
// _TWO specialization) and STRUCT otherwise.
func (p *parser) parseStructLit() ast.Index {
	structTok := p.advance()
	p.expect(lexer.LBRACE, "struct {\n    name: T,\n}")
	mark := p.builder.ScratchMark()
	p.skipNewlines()

	count := 0
	for !p.check(lexer.RBRACE) && !p.atEnd() {
		p.parseField()
		count++
		p.skipNewlines()
		if !p.match(lexer.COMMA) {
			p.skipNewlines()
			continue
		}
		p.skipNewlines()
	}
	p.expect(lexer.RBRACE, "missing closing '}'")

	return p.commitAggregate(mark, count, structTok, ast.StructTwo, ast.Struct)
}

// parseField parses one struct field: `name: T`, `name: T = E`, or the
// shorthand `name := E`, and pushes its Field node onto the scratch
// stack.
func (p *parser) parseField() {
	nameTok, _ := p.expect(lexer.IDENTIFIER, "name: T")
	var typ, init ast.Index = ast.NoIndex, ast.NoIndex

	switch {
	case p.match(lexer.COLONEQ):
		init = p.parseExpr()
	case p.match(lexer.COLON):
		typ = p.parseType()
		if p.match(lexer.EQ) {
			init = p.parseExpr()
		}
	default:
		p.errorAtCurrent("expected ':' or ':=' after field name", "struct fields need a type or an initializer", "name: T\nname := E")
	}

	p.builder.PushScratch(ast.Node{Kind: ast.Field, Token: nameTok, Data: ast.Data{Lhs: typ, Rhs: init}})
}

// parseEnumLit parses `enum { variant, variant = E, variant(T, ...),
// variant(a: T, ...) }`, assuming the cursor is at `enum`. Variant
// separators accept both `,` and a bare newline (§4.3's accept-both
// resolution of the ambiguous-separator open question).
func (p *parser) parseEnumLit() ast.Index {
	enumTok := p.advance()
	p.expect(lexer.LBRACE, "enum {\n    variant,\n}")
	mark := p.builder.ScratchMark()
	p.skipNewlines()

	count := 0
	for !p.check(lexer.RBRACE) && !p.atEnd() {
		p.parseVariant()
		count++
		p.match(lexer.COMMA)
		p.skipNewlines()
	}
	p.expect(lexer.RBRACE, "missing closing '}'")

	return p.commitAggregate(mark, count, enumTok, ast.EnumTwo, ast.Enum)
}

// parseVariant parses one enum variant and pushes it onto the scratch
// stack as one of VariantSimple (`name` or `name = E`), VariantUnnamed
// (`name(T, ...)`), or VariantNamed (`name(a: T, ...)`).
func (p *parser) parseVariant() {
	nameTok, _ := p.expect(lexer.IDENTIFIER, "variant name")

	if p.match(lexer.EQ) {
		value := p.parseExpr()
		p.builder.PushScratch(ast.Node{Kind: ast.VariantSimple, Token: nameTok, Data: ast.Data{Lhs: value, Rhs: ast.NoIndex}})
		return
	}

	if !p.check(lexer.LPAREN) {
		p.builder.PushScratch(ast.Node{Kind: ast.VariantSimple, Token: nameTok, Data: ast.Data{Lhs: ast.NoIndex, Rhs: ast.NoIndex}})
		return
	}

	p.advance() // '('
	mark := p.builder.ScratchMark()
	named := false
	count := 0
	p.skipNewlines()
	for !p.check(lexer.RPAREN) && !p.atEnd() {
		if p.check(lexer.IDENTIFIER) && p.peekIsColon() {
			named = true
			fieldName := p.advance()
			p.advance() // ':'
			typ := p.parseType()
			p.builder.PushScratch(ast.Node{Kind: ast.Field, Token: fieldName, Data: ast.Data{Lhs: typ, Rhs: ast.NoIndex}})
		} else {
			typ := p.parseType()
			p.builder.PushScratch(ast.Node{Kind: ast.Field, Token: p.builder.Nodes.Token(typ), Data: ast.Data{Lhs: typ, Rhs: ast.NoIndex}})
		}
		count++
		p.skipNewlines()
		if !p.match(lexer.COMMA) {
			break
		}
		p.skipNewlines()
	}
	p.expect(lexer.RPAREN, "missing closing ')'")

	start, end := p.builder.CommitScratch(mark)
	kind := ast.VariantUnnamed
	if named {
		kind = ast.VariantNamed
	}
	p.builder.PushScratch(ast.Node{Kind: kind, Token: nameTok, Data: ast.Data{Lhs: start, Rhs: end}})
	_ = count
}

// commitAggregate closes out a struct or enum body: it commits the
// scratch children collected since mark and builds either the _TWO
// specialization (count <= 2, children referenced directly by Data) or
// the general N-ary form (a (start, end) range), per §3's invariant for
// two-children variants.
func (p *parser) commitAggregate(mark, count int, anchor ast.TokenIndex, twoKind, manyKind ast.Kind) ast.Index {
	start, end := p.builder.CommitScratch(mark)

	if count <= 2 {
		var lhs, rhs ast.Index = ast.NoIndex, ast.NoIndex
		if count >= 1 {
			lhs = start
		}
		if count == 2 {
			rhs = start + 1
		}
		return p.builder.AddNode(twoKind, anchor, ast.Data{Lhs: lhs, Rhs: rhs})
	}

	return p.builder.AddNode(manyKind, anchor, ast.Data{Lhs: start, Rhs: end})
}
