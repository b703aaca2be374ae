package parser

import (
	"github.com/smartoctopus/wave/internal/ast"
	"github.com/smartoctopus/wave/internal/lexer"
)

// parseType parses the restricted type sublanguage: prefix reference
// forms (&T, &mut T, &own T), array types ([N]T), map types ([map K]V), and
// otherwise falls back to a general expression (an identifier, a
// generic instantiation, or anything else the grammar allows in type
// position).
func (p *parser) parseType() ast.Index {
	switch {
	case p.check(lexer.AMP):
		return p.parseRefType()
	case p.check(lexer.LBRACKET):
		return p.parseBracketType()
	default:
		return p.parseExprPrecedence(precUnary)
	}
}

// parseRefType parses `&T`, `&mut T`, or `&own T`.
func (p *parser) parseRefType() ast.Index {
	amp := p.advance()
	switch {
	case p.match(lexer.MUT):
		inner := p.parseType()
		return p.builder.AddNode(ast.RefMutType, amp, ast.Data{Lhs: inner})
	case p.match(lexer.OWN):
		inner := p.parseType()
		return p.builder.AddNode(ast.RefOwnType, amp, ast.Data{Lhs: inner})
	default:
		inner := p.parseType()
		return p.builder.AddNode(ast.RefType, amp, ast.Data{Lhs: inner})
	}
}

// parseBracketType parses `[N]T` (array type) or `[map K]V` (map type).
// `[` followed by the `map` keyword means MapType; anything else is
// ArrayType with the bracketed expression as its size, so a bare
// `[K]V` is read as an array type, not a map type.
func (p *parser) parseBracketType() ast.Index {
	lbracket := p.advance()
	p.skipNewlines()

	if p.match(lexer.MAP) {
		key := p.parseType()
		p.expect(lexer.RBRACKET, "[map K]V")
		val := p.parseType()
		return p.builder.AddNode(ast.MapType, lbracket, ast.Data{Lhs: key, Rhs: val})
	}

	size := p.parseExpr()
	p.skipNewlines()
	p.expect(lexer.RBRACKET, "[N]T")
	elem := p.parseType()
	return p.builder.AddNode(ast.ArrayType, lbracket, ast.Data{Lhs: size, Rhs: elem})
}
