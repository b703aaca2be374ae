package parser

import (
	"github.com/smartoctopus/wave/internal/ast"
	"github.com/smartoctopus/wave/internal/lexer"
)

// tryParseFuncLit attempts the speculative parenthesized-expression vs.
// function-literal disambiguation described in §4.3: reserve two
// placeholder nodes (the Func node and its prototype node) before
// descending into the parameter list, so that if this turns out to be a
// function literal, the Func node's id still precedes its children's.
// If looksLikeParamList decides the tokens after `(` do not begin a
// parameter list, both reservations are popped (in reverse order, since
// PopNode only ever removes the tail) and the cursor is restored so the
// caller can reinterpret `(` as the start of a parenthesized
// expression instead. Once committed, there is no later rollback.
func (p *parser) tryParseFuncLit() (ast.Index, bool) {
	savedCursor := p.cursor
	savedDiags := len(p.diags)

	result := p.builder.ReserveNode()
	proto := p.builder.ReserveNode()
	lparen := p.advance() // '('

	if !p.looksLikeParamList() {
		p.builder.PopNode(proto)
		p.builder.PopNode(result)
		p.cursor = savedCursor
		p.diags = p.diags[:savedDiags]
		return ast.NoIndex, false
	}

	fn := p.finishFuncLit(lparen, result, proto)
	return fn, true
}

// looksLikeParamList peeks past the '(' (already consumed) to decide
// whether this is a parameter list without consuming anything beyond
// what a plain lookahead needs: an immediate ')' is a zero-param
// function, and `... name` or `identifier :` are parameter shapes.
// Anything else (an operator, a literal, a bare identifier followed by
// anything but ':') means "parenthesized expression".
func (p *parser) looksLikeParamList() bool {
	p.skipNewlines()
	if p.check(lexer.RPAREN) {
		return true
	}
	if p.check(lexer.ELLIPSIS) {
		return true
	}
	if !p.check(lexer.IDENTIFIER) {
		return false
	}
	return p.cursor+1 < len(p.kinds) && p.kinds[p.cursor+1] == lexer.COLON
}

// finishFuncLit parses the remainder of a function literal
// `(params) -> R "cc" { body }` or `(params) => expr` once
// looksLikeParamList has committed to this production. lparen has
// already been consumed; result and proto are the two reservations
// tryParseFuncLit made before descending here.
func (p *parser) finishFuncLit(lparen ast.TokenIndex, result, proto ast.Index) ast.Index {
	mark := p.builder.ScratchMark()
	count := 0
	p.skipNewlines()
	for !p.check(lexer.RPAREN) && !p.atEnd() {
		p.parseParam()
		count++
		p.skipNewlines()
		if !p.match(lexer.COMMA) {
			break
		}
		p.skipNewlines()
	}
	p.expect(lexer.RPAREN, "missing closing ')'")
	start, end := p.builder.CommitScratch(mark)

	var returnType ast.Index = ast.NoIndex
	if p.match(lexer.ARROW) {
		returnType = p.parseType()
	}

	var callingConv ast.TokenIndex
	hasCallingConv := false
	if p.check(lexer.STRING) {
		callingConv = p.advance()
		hasCallingConv = true
	}

	p.setFuncProto(proto, lparen, count, start, end, callingConv, hasCallingConv, returnType)

	p.skipNewlines()

	// A calling-convention string with neither '=>' nor '{' following
	// marks a foreign prototype: it has no body (the call sits inside a
	// `foreign { ... }` block, or as a bare `foreign import`-adjacent
	// declaration). Every other function requires a body.
	body := ast.NoIndex
	switch {
	case p.check(lexer.FATARROW):
		p.advance()
		body = p.parseExpr()
	case p.check(lexer.LBRACE):
		body = p.parseBlock()
	case !hasCallingConv:
		p.errorAtCurrent(
			"expected a function body",
			"expected '=>' or '{' here",
			"(params) => expr\n(params) { stmts }",
		)
	}

	p.builder.SetNode(result, ast.Func, lparen, ast.Data{Lhs: proto, Rhs: body})
	return result
}

// setFuncProto stores a function prototype's extra payload and
// finalizes the reserved proto node as FUNC_PROTO_ONE (zero or one
// parameter) or FUNC_PROTO (two or more).
func (p *parser) setFuncProto(proto ast.Index, anchor ast.TokenIndex, count int, start, end ast.Index, callingConv ast.TokenIndex, hasCallingConv bool, result ast.Index) {
	if count <= 1 {
		var param ast.Index = ast.NoIndex
		if count == 1 {
			param = start
		}
		extraIdx := p.builder.Nodes.Extra.PushFuncProtoOne(ast.FuncProtoOne{
			Param: param, CallingConv: callingConv, HasCallingConv: hasCallingConv, Result: result,
		})
		p.builder.SetNode(proto, ast.FuncProtoOne, anchor, ast.Data{Lhs: extraIdx})
		return
	}

	extraIdx := p.builder.Nodes.Extra.PushFuncProto(ast.FuncProto{
		ParamsStart: start, ParamsEnd: end, CallingConv: callingConv, HasCallingConv: hasCallingConv, Result: result,
	})
	p.builder.SetNode(proto, ast.FuncProto, anchor, ast.Data{Lhs: extraIdx})
}

// parseParam parses one function parameter: `name: T [= default]`, or a
// leading `...name: T` variadic parameter (only meaningful as the first
// parameter), and pushes it onto the scratch stack.
func (p *parser) parseParam() {
	if p.check(lexer.ELLIPSIS) {
		ellipsis := p.advance()
		p.expect(lexer.IDENTIFIER, "...name: T")
		var typ ast.Index = ast.NoIndex
		if p.match(lexer.COLON) {
			typ = p.parseType()
		}
		p.builder.PushScratch(ast.Node{Kind: ast.Vararg, Token: ellipsis, Data: ast.Data{Lhs: typ}})
		return
	}

	nameTok, _ := p.expect(lexer.IDENTIFIER, "name: T")
	var typ, def ast.Index = ast.NoIndex, ast.NoIndex
	if p.match(lexer.COLON) {
		typ = p.parseType()
	}
	if p.match(lexer.EQ) {
		def = p.parseExpr()
	}
	p.builder.PushScratch(ast.Node{Kind: ast.Param, Token: nameTok, Data: ast.Data{Lhs: typ, Rhs: def}})
}
