package parser

import (
	"github.com/smartoctopus/wave/internal/ast"
	"github.com/smartoctopus/wave/internal/lexer"
)

// parseBlock parses a brace-delimited list of statements into a Block
// node, assuming the cursor is at `{`.
func (p *parser) parseBlock() ast.Index {
	lbrace, _ := p.expect(lexer.LBRACE, "{ ... }")
	mark := p.builder.ScratchMark()
	p.skipNewlines()
	for !p.check(lexer.RBRACE) && !p.atEnd() {
		stmt := p.parseStmt()
		p.builder.PushScratch(ast.Node{Kind: p.builder.Nodes.Kind(stmt), Token: p.builder.Nodes.Token(stmt), Data: p.builder.Nodes.NodeData(stmt)})
		p.skipNewlines()
	}
	p.expect(lexer.RBRACE, "missing closing '}'")
	start, end := p.builder.CommitScratch(mark)
	return p.builder.AddNode(ast.Block, lbrace, ast.Data{Lhs: start, Rhs: end})
}

// parseStmt parses one statement: a local binding, control flow,
// `defer`/`return`/`break`/`continue`, `using`, a nested block, or a
// bare expression statement.
func (p *parser) parseStmt() ast.Index {
	switch {
	case p.check(lexer.IDENTIFIER) && p.bindingFollows():
		return p.parseBindingDecl()
	case p.check(lexer.IF):
		return p.parseIfStmt()
	case p.check(lexer.FOR):
		return p.parseForStmt()
	case p.check(lexer.MATCH):
		return p.parseMatchStmt()
	case p.check(lexer.DEFER):
		return p.parseDeferStmt()
	case p.check(lexer.RETURN):
		return p.parseReturnStmt()
	case p.check(lexer.BREAK):
		return p.parseBreakStmt()
	case p.check(lexer.CONTINUE):
		return p.parseContinueStmt()
	case p.check(lexer.USING):
		return p.parseUsingDecl()
	case p.check(lexer.LBRACE):
		return p.parseBlock()
	default:
		return p.parseExpr()
	}
}

// parseIfStmt parses `if cond { then }` (IfSimple) or
// `if cond { then } else { else }` / `if cond { then } else if ...`
// (If, via the shared extra payload for else-if chains).
func (p *parser) parseIfStmt() ast.Index {
	ifTok := p.advance()
	cond := p.parseExpr()
	p.skipNewlines()
	then := p.parseBlock()

	p.skipNewlines()
	if !p.check(lexer.ELSE) {
		return p.builder.AddNode(ast.IfSimple, ifTok, ast.Data{Lhs: cond, Rhs: then})
	}
	p.advance()
	p.skipNewlines()

	var elseBranch ast.Index
	if p.check(lexer.IF) {
		elseBranch = p.parseIfStmt()
	} else {
		elseBranch = p.parseBlock()
	}

	extraIdx := p.builder.Nodes.Extra.PushIf(ast.If{Then: then, Else: elseBranch})
	return p.builder.AddNode(ast.If, ifTok, ast.Data{Lhs: extraIdx, Rhs: cond})
}

// parseForStmt parses `for cond { body }`, where cond is an ordinary
// expression — `for x in items { ... }` falls out of this naturally
// because `x in items` parses as a single InExpr via precedence
// climbing (see exprs.go). A bare `for { body }` (infinite loop) is
// also accepted: cond is NoIndex.
func (p *parser) parseForStmt() ast.Index {
	forTok := p.advance()

	var cond ast.Index = ast.NoIndex
	if !p.check(lexer.LBRACE) {
		cond = p.parseExpr()
	}
	p.skipNewlines()
	body := p.parseBlock()
	return p.builder.AddNode(ast.For, forTok, ast.Data{Lhs: cond, Rhs: body})
}

// parseMatchStmt parses `match scrutinee { pattern => body, ... }` in
// statement position.
func (p *parser) parseMatchStmt() ast.Index {
	matchTok, scrutinee, cases := p.parseMatchCommon()
	return p.builder.AddNode(ast.Match, matchTok, ast.Data{Lhs: scrutinee, Rhs: cases})
}

// parseDeferStmt parses `defer expr`.
func (p *parser) parseDeferStmt() ast.Index {
	tok := p.advance()
	expr := p.parseExpr()
	return p.builder.AddNode(ast.Defer, tok, ast.Data{Lhs: expr})
}

// parseReturnStmt parses `return` or `return expr`. A bare `return` is
// recognized by the statement terminating immediately (newline,
// semicolon, or closing brace).
func (p *parser) parseReturnStmt() ast.Index {
	tok := p.advance()
	if p.atStmtEnd() {
		return p.builder.AddNode(ast.Return, tok, ast.Data{Lhs: ast.NoIndex})
	}
	expr := p.parseExpr()
	return p.builder.AddNode(ast.Return, tok, ast.Data{Lhs: expr})
}

// atStmtEnd reports whether the cursor sits at a statement terminator:
// newline, semicolon, closing brace, or EOF.
func (p *parser) atStmtEnd() bool {
	switch p.current() {
	case lexer.NEWLINE, lexer.SEMICOLON, lexer.RBRACE, lexer.EOF:
		return true
	default:
		return false
	}
}

// parseBreakStmt parses `break` or `break label`.
func (p *parser) parseBreakStmt() ast.Index {
	tok := p.advance()
	var label ast.Index = ast.NoIndex
	if p.check(lexer.IDENTIFIER) {
		label = ast.Index(p.advance())
	}
	return p.builder.AddNode(ast.Break, tok, ast.Data{Lhs: label})
}

// parseContinueStmt parses `continue` or `continue label`.
func (p *parser) parseContinueStmt() ast.Index {
	tok := p.advance()
	var label ast.Index = ast.NoIndex
	if p.check(lexer.IDENTIFIER) {
		label = ast.Index(p.advance())
	}
	return p.builder.AddNode(ast.Continue, tok, ast.Data{Lhs: label})
}
