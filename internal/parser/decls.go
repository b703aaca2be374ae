package parser

import (
	"github.com/smartoctopus/wave/internal/ast"
	"github.com/smartoctopus/wave/internal/lexer"
)

// parseDecls parses every top-level declaration until EOF, applying
// panic-mode recovery (§4.3 policy 1) when a declaration cannot be
// parsed at all.
func (p *parser) parseDecls() []ast.Index {
	var decls []ast.Index
	p.skipNewlines()
	for !p.atEnd() {
		d := p.parseDecl()
		if d != ast.NoIndex {
			decls = append(decls, d)
		}
		p.skipNewlines()
	}
	return decls
}

// parseDecl dispatches on the current token to one of the top-level
// declaration forms. On failure it resynchronizes to the next plausible
// declaration boundary and retries once, per §4.3 policy 1.
func (p *parser) parseDecl() ast.Index {
	switch {
	case p.check(lexer.IMPORT):
		return p.parseImportDecl()
	case p.check(lexer.FOREIGN):
		return p.parseForeignDecl()
	case p.check(lexer.WHEN):
		return p.parseWhenDecl()
	case p.check(lexer.USING):
		return p.parseUsingDecl()
	case p.check(lexer.AT):
		return p.parseMacroDecl()
	case p.check(lexer.IDENTIFIER) && p.bindingFollows():
		return p.parseBindingDecl()
	}

	p.errorAtCurrent(
		"expected a declaration",
		"expected 'import', 'foreign', 'when', 'using', '@', or a binding here",
		"name :: expr\nname := expr\nname : T = expr",
	)
	p.addInvalid()
	return p.recoverToDeclBoundary()
}

// bindingFollows reports whether the identifier at the cursor begins a
// `name ::`, `name :=`, or `name :` binding, by peeking one token ahead
// without consuming anything.
func (p *parser) bindingFollows() bool {
	if p.cursor+1 >= len(p.kinds) {
		return false
	}
	switch p.kinds[p.cursor+1] {
	case lexer.COLONCOLON, lexer.COLONEQ, lexer.COLON:
		return true
	default:
		return false
	}
}

// recoverToDeclBoundary skips tokens until a plausible next declaration
// starter (foreign, import, when, using, @, or `identifier` followed by
// a binding operator) or EOF, per §4.3 policy 1, then parses one more
// declaration from there. Returns NoIndex if recovery reached EOF
// without finding anything to parse.
func (p *parser) recoverToDeclBoundary() ast.Index {
	for !p.atEnd() {
		switch {
		case p.check(lexer.IMPORT), p.check(lexer.FOREIGN), p.check(lexer.WHEN),
			p.check(lexer.USING), p.check(lexer.AT):
			return p.parseDecl()
		case p.check(lexer.IDENTIFIER) && p.bindingFollows():
			return p.parseDecl()
		}
		p.advance()
	}
	return ast.NoIndex
}

// parseBindingDecl parses `name :: expr`, `name := expr`, `name : T :
// expr`, or `name : T = expr` into a Const or Var node.
func (p *parser) parseBindingDecl() ast.Index {
	nameTok := p.advance()

	if p.match(lexer.COLONCOLON) {
		p.skipNewlines()

		// Generic declaration header supplement: `name :: <T, U> ::
		// struct { ... }`. A generic-bearing const has no separate `: T`
		// annotation, so Lhs is free to carry the header node index
		// instead of NoIndex.
		if p.check(lexer.LT) {
			header := p.parseGenericHeader()
			p.skipNewlines()
			p.expect(lexer.COLONCOLON, "name :: <T> :: expr")
			p.skipNewlines()
			expr := p.parseBindingValue()
			return p.builder.AddNode(ast.Const, nameTok, ast.Data{Lhs: header, Rhs: expr})
		}

		expr := p.parseBindingValue()
		return p.builder.AddNode(ast.Const, nameTok, ast.Data{Lhs: ast.NoIndex, Rhs: expr})
	}

	if p.match(lexer.COLONEQ) {
		p.skipNewlines()
		expr := p.parseExpr()
		return p.builder.AddNode(ast.Var, nameTok, ast.Data{Lhs: ast.NoIndex, Rhs: expr})
	}

	// `name : T :` (const) or `name : T =` (var)
	p.advance() // ':'
	typ := p.parseType()

	if p.match(lexer.COLON) {
		p.skipNewlines()
		expr := p.parseBindingValue()
		return p.builder.AddNode(ast.Const, nameTok, ast.Data{Lhs: typ, Rhs: expr})
	}

	if _, ok := p.expect(lexer.EQ, "name : T = expr"); !ok {
		return p.builder.AddNode(ast.Var, nameTok, ast.Data{Lhs: typ, Rhs: ast.NoIndex})
	}
	p.skipNewlines()
	expr := p.parseExpr()
	return p.builder.AddNode(ast.Var, nameTok, ast.Data{Lhs: typ, Rhs: expr})
}

// parseBindingValue parses the right-hand side of a `::` binding. Most
// const bindings are ordinary expressions, but struct/enum/function
// literals are the common case and parse through the same primary
// machinery as any other expression.
func (p *parser) parseBindingValue() ast.Index {
	return p.parseExpr()
}

// parseWhenDecl parses `when cond { decls } [else { decls }]`. A `when`
// block shares If's (cond, then, else) shape with the statement-level
// `if`; the only difference is that its branches hold declarations
// instead of statements, so it reuses the If/IfSimple node kinds and
// extra payload rather than inventing a parallel WHEN kind.
func (p *parser) parseWhenDecl() ast.Index {
	whenTok := p.advance()
	cond := p.parseExpr()
	p.skipNewlines()

	then := p.parseDeclBlock()

	p.skipNewlines()
	if !p.check(lexer.ELSE) {
		return p.builder.AddNode(ast.IfSimple, whenTok, ast.Data{Lhs: cond, Rhs: then})
	}
	p.advance()
	p.skipNewlines()

	var elseBranch ast.Index
	if p.check(lexer.WHEN) {
		elseBranch = p.parseWhenDecl()
	} else {
		elseBranch = p.parseDeclBlock()
	}

	extraIdx := p.builder.Nodes.Extra.PushIf(ast.If{Then: then, Else: elseBranch})
	return p.builder.AddNode(ast.If, whenTok, ast.Data{Lhs: extraIdx, Rhs: cond})
}

// parseDeclBlock parses a brace-delimited list of declarations into a
// Block node, reusing Block rather than inventing a declaration-list
// kind: a when-branch's body is structurally identical to a statement
// block, just restricted to declaration-shaped contents.
func (p *parser) parseDeclBlock() ast.Index {
	lbrace, _ := p.expect(lexer.LBRACE, "when cond {\n    name :: expr\n}")
	mark := p.builder.ScratchMark()
	p.skipNewlines()
	for !p.check(lexer.RBRACE) && !p.atEnd() {
		d := p.parseDecl()
		if d != ast.NoIndex {
			n := ast.Node{Kind: p.builder.Nodes.Kind(d), Token: p.builder.Nodes.Token(d), Data: p.builder.Nodes.NodeData(d)}
			p.builder.PushScratch(n)
		}
		p.skipNewlines()
	}
	p.expect(lexer.RBRACE, "missing closing '}'")
	start, end := p.builder.CommitScratch(mark)
	return p.builder.AddNode(ast.Block, lbrace, ast.Data{Lhs: start, Rhs: end})
}

// parseUsingDecl parses a top-level `using` declaration. `using name` is
// UsingSimple; `using name: T` is UsingType; any other expression after
// `using` is UsingExpr.
func (p *parser) parseUsingDecl() ast.Index {
	usingTok := p.advance()

	if p.check(lexer.IDENTIFIER) && p.peekIsColon() {
		nameTok := p.advance()
		p.advance() // ':'
		typ := p.parseType()
		return p.builder.AddNode(ast.UsingType, nameTok, ast.Data{Lhs: typ})
	}

	if p.check(lexer.IDENTIFIER) && p.peekEndsDecl() {
		nameTok := p.advance()
		return p.builder.AddNode(ast.UsingSimple, nameTok, ast.Data{})
	}

	expr := p.parseExpr()
	return p.builder.AddNode(ast.UsingExpr, usingTok, ast.Data{Lhs: expr})
}

// peekIsColon reports whether the token after the cursor is a bare ':'.
func (p *parser) peekIsColon() bool {
	return p.cursor+1 < len(p.kinds) && p.kinds[p.cursor+1] == lexer.COLON
}

// peekEndsDecl reports whether the token after the cursor plausibly
// terminates a bare `using name` declaration (newline, semicolon, or
// EOF).
func (p *parser) peekEndsDecl() bool {
	if p.cursor+1 >= len(p.kinds) {
		return true
	}
	switch p.kinds[p.cursor+1] {
	case lexer.NEWLINE, lexer.EOF, lexer.SEMICOLON:
		return true
	default:
		return false
	}
}

// parseMacroDecl parses a top-level `@name(args...)` macro-call
// declaration into a Comptime node: Data.Lhs is the macro name's
// Identifier node, Data.Rhs is the Range node over its committed
// argument expressions (NoIndex if called with no arguments).
func (p *parser) parseMacroDecl() ast.Index {
	at := p.advance()
	nameTok, _ := p.expect(lexer.IDENTIFIER, "@name(arg1, arg2)")
	name := p.builder.AddNode(ast.Identifier, nameTok, ast.Data{})

	args := p.parseCallArgs()
	return p.builder.AddNode(ast.Comptime, at, ast.Data{Lhs: name, Rhs: args})
}

// parseCallArgs parses a parenthesized, comma-separated argument list
// and returns the Range node over the committed Arg entries, or
// NoIndex if there are no arguments or '(' is missing (in which case
// nothing is consumed, per §4.3's local-synthesis policy).
func (p *parser) parseCallArgs() ast.Index {
	if !p.check(lexer.LPAREN) {
		p.errorAtCurrent(
			"expected '(' to start an argument list, found "+p.current().String(),
			"expected '(' here",
			"@name(arg1, arg2)",
		)
		return ast.NoIndex
	}
	anchor := p.currentToken()
	start, end, _ := p.parseArgList()
	return p.wrapRange(anchor, start, end)
}
