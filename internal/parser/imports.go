package parser

import (
	"github.com/smartoctopus/wave/internal/ast"
	"github.com/smartoctopus/wave/internal/lexer"
)

// parseImportDecl parses `import name [as alias]`,
// `import name { a, b, c } [as alias]`, or `import name { ... } [as
// alias]`, assuming the cursor is at `import`.
func (p *parser) parseImportDecl() ast.Index {
	p.advance() // 'import'
	return p.parseImportLike(false)
}

// parseForeignDecl parses `foreign import ...` (identical grammar to a
// plain import, yielding the foreign-flavoured node kinds) or a bare
// `foreign { decls }` block, assuming the cursor is at `foreign`.
func (p *parser) parseForeignDecl() ast.Index {
	foreignTok := p.advance() // 'foreign'

	if p.match(lexer.IMPORT) {
		return p.parseImportLike(true)
	}

	return p.parseForeignBlock(foreignTok)
}

// parseForeignBlock parses the body of a bare `foreign { decls }`
// block into a Foreign node whose Data is the (start, end) range of
// its committed declaration children, reusing the same scratch
// discipline as a statement block.
func (p *parser) parseForeignBlock(foreignTok ast.TokenIndex) ast.Index {
	p.expect(lexer.LBRACE, "foreign {\n    name :: (x: int) -> int \"C\"\n}")
	mark := p.builder.ScratchMark()
	p.skipNewlines()
	for !p.check(lexer.RBRACE) && !p.atEnd() {
		d := p.parseDecl()
		if d != ast.NoIndex {
			p.builder.PushScratch(ast.Node{Kind: p.builder.Nodes.Kind(d), Token: p.builder.Nodes.Token(d), Data: p.builder.Nodes.NodeData(d)})
		}
		p.skipNewlines()
	}
	p.expect(lexer.RBRACE, "missing closing '}'")
	start, end := p.builder.CommitScratch(mark)
	return p.builder.AddNode(ast.Foreign, foreignTok, ast.Data{Lhs: start, Rhs: end})
}

// parseImportLike parses the shared import grammar after `import` (or
// `foreign import`) has been consumed, producing Import/ImportComplex
// or ForeignImport/ForeignImportComplex depending on foreign.
//
// The plain forms (Import/ForeignImport) anchor at the module path
// token and store the alias token index (or 0) directly in Data.Lhs —
// an alias is just a token, not a subtree, so there is no need to
// allocate a node for it. The complex forms additionally store a Range
// node over the imported symbols' Identifier nodes in Data.Rhs
// (NoIndex for the `{ ... }` wildcard form, which imports everything).
func (p *parser) parseImportLike(foreign bool) ast.Index {
	pathTok, _ := p.expect(lexer.IDENTIFIER, "import name")

	if !p.check(lexer.LBRACE) {
		alias := p.parseOptionalAlias()
		kind := ast.Import
		if foreign {
			kind = ast.ForeignImport
		}
		return p.builder.AddNode(kind, pathTok, ast.Data{Lhs: ast.Index(alias), Rhs: ast.NoIndex})
	}

	lbrace := p.advance()
	symbols := p.parseImportSymbols(lbrace)
	alias := p.parseOptionalAlias()

	kind := ast.ImportComplex
	if foreign {
		kind = ast.ForeignImportComplex
	}
	return p.builder.AddNode(kind, pathTok, ast.Data{Lhs: ast.Index(alias), Rhs: symbols})
}

// parseImportSymbols parses the `{ a, b, c }` or `{ ... }` symbol list
// following an import path's `{`, and returns the Range node over the
// committed Identifier nodes, or NoIndex for the wildcard `{ ... }`
// form.
func (p *parser) parseImportSymbols(lbrace ast.TokenIndex) ast.Index {
	if p.match(lexer.ELLIPSIS) {
		p.skipNewlines()
		p.expect(lexer.RBRACE, "import name { ... }")
		return ast.NoIndex
	}

	mark := p.builder.ScratchMark()
	p.skipNewlines()
	for !p.check(lexer.RBRACE) && !p.atEnd() {
		symTok, _ := p.expect(lexer.IDENTIFIER, "symbol name")
		p.builder.PushScratch(ast.Node{Kind: ast.Identifier, Token: symTok, Data: ast.Data{}})
		p.skipNewlines()
		if !p.match(lexer.COMMA) {
			break
		}
		p.skipNewlines()
	}
	p.expect(lexer.RBRACE, "missing closing '}'")

	start, end := p.builder.CommitScratch(mark)
	return p.wrapRange(lbrace, start, end)
}

// parseOptionalAlias parses a trailing `as alias` and returns the
// alias's token index, or 0 if there is none.
func (p *parser) parseOptionalAlias() ast.TokenIndex {
	if !p.match(lexer.AS) {
		return 0
	}
	tok, _ := p.expect(lexer.IDENTIFIER, "as alias")
	return tok
}
