package parser

import (
	"github.com/smartoctopus/wave/internal/ast"
	"github.com/smartoctopus/wave/internal/lexer"
)

// Precedence levels, lowest to highest, per §4.3's table. AS sits above
// FACTOR and below UNARY: `as` binds tighter than arithmetic but looser
// than a prefix operator, so `-x as T` parses as `(-x) as T`.
const (
	precNone = iota
	precPipe
	precOr
	precLogicalOr
	precLogicalAnd
	precComparison
	precTerm
	precFactor
	precAs
	precUnary
	precCall
)

// binaryOp describes one infix operator: the AST kind it produces and
// the minimum precedence a caller must be below to consume it.
type binaryOp struct {
	kind ast.Kind
	prec int
}

// binaryOps maps a token kind to its binary-operator entry. IN shares
// OR's precedence tier: the grammar has no dedicated row for it, and
// `in` appears only as the membership test inside a `for` header
// (`for x in items`), which is itself just an ordinary expression
// parsed at the statement's call site.
var binaryOps = map[lexer.TokenKind]binaryOp{
	lexer.PIPEGT:  {ast.PipeExpr, precPipe},
	lexer.OR:      {ast.OrExpr, precOr},
	lexer.IN:      {ast.InExpr, precOr},
	lexer.OROR:    {ast.LogicalOrExpr, precLogicalOr},
	lexer.ANDAND:  {ast.LogicalAndExpr, precLogicalAnd},
	lexer.EQEQ:    {ast.EqExpr, precComparison},
	lexer.BANGEQ:  {ast.NeExpr, precComparison},
	lexer.LT:      {ast.LtExpr, precComparison},
	lexer.GT:      {ast.GtExpr, precComparison},
	lexer.LTEQ:    {ast.LeExpr, precComparison},
	lexer.GTEQ:    {ast.GeExpr, precComparison},
	lexer.PLUS:    {ast.AddExpr, precTerm},
	lexer.MINUS:   {ast.SubExpr, precTerm},
	lexer.CARET:   {ast.BitXorExpr, precTerm},
	lexer.PIPE:    {ast.BitOrExpr, precTerm},
	lexer.STAR:    {ast.MulExpr, precFactor},
	lexer.SLASH:   {ast.DivExpr, precFactor},
	lexer.PERCENT: {ast.ModExpr, precFactor},
	lexer.AMP:     {ast.BitAndExpr, precFactor},
	lexer.LTLT:    {ast.ShlExpr, precFactor},
	lexer.GTGT:    {ast.ShrExpr, precFactor},
}

// parseExpr parses a full expression at the lowest precedence.
func (p *parser) parseExpr() ast.Index {
	return p.parseExprPrecedence(precPipe)
}

// parseExprPrecedence implements precedence climbing: parse a left-hand
// side (a unary/primary/postfix chain), then repeatedly consume any
// infix operator whose precedence is >= min, recursing into the
// right-hand side at precedence+1 so that same-precedence operators
// associate left. `as` is handled specially since its right-hand side
// is a type, not an expression.
func (p *parser) parseExprPrecedence(min int) ast.Index {
	left := p.parseUnary()

	for {
		if p.check(lexer.AS) && precAs >= min {
			asTok := p.advance()
			p.skipNewlines()
			right := p.parseType()
			left = p.builder.AddNode(ast.AsExpr, asTok, ast.Data{Lhs: left, Rhs: right})
			continue
		}

		op, ok := binaryOps[p.current()]
		if !ok || op.prec < min {
			break
		}

		opTok := p.advance()
		p.skipNewlines()
		right := p.parseExprPrecedence(op.prec + 1)
		left = p.builder.AddNode(op.kind, opTok, ast.Data{Lhs: left, Rhs: right})
	}

	return left
}

// parseUnary parses a prefix operator chain (`+ - ! ~ & &mut *`) applied
// to a postfix expression, at UNARY precedence. `&` is upgraded to
// REF_MUT_EXPR when immediately followed by `mut`.
func (p *parser) parseUnary() ast.Index {
	unaryKind, ok := map[lexer.TokenKind]ast.Kind{
		lexer.PLUS:        ast.PosExpr,
		lexer.MINUS:       ast.NegExpr,
		lexer.EXCLAMATION: ast.NotExpr,
		lexer.TILDE:       ast.BitNotExpr,
		lexer.STAR:        ast.DerefExpr,
	}[p.current()]

	if ok {
		tok := p.advance()
		operand := p.parseExprPrecedence(precUnary)
		return p.builder.AddNode(unaryKind, tok, ast.Data{Lhs: operand})
	}

	if p.check(lexer.AMP) {
		tok := p.advance()
		if p.match(lexer.MUT) {
			operand := p.parseExprPrecedence(precUnary)
			return p.builder.AddNode(ast.RefMutExpr, tok, ast.Data{Lhs: operand})
		}
		operand := p.parseExprPrecedence(precUnary)
		return p.builder.AddNode(ast.RefExpr, tok, ast.Data{Lhs: operand})
	}

	return p.parsePostfix()
}

// parsePostfix parses a primary expression followed by any run of
// field-access, call, index, and @comptime postfix operators (CALL
// precedence).
func (p *parser) parsePostfix() ast.Index {
	expr := p.parsePrimary()

	for {
		switch {
		case p.check(lexer.DOT):
			dot := p.advance()
			field, _ := p.expect(lexer.IDENTIFIER, "expr.field")
			expr = p.builder.AddNode(ast.FieldAccess, dot, ast.Data{Lhs: expr, Rhs: ast.Index(field)})
		case p.check(lexer.LPAREN):
			expr = p.parseCall(expr)
		case p.check(lexer.COLONCOLON) && p.peekIsLt():
			expr = p.parseGenericCall(expr)
		case p.check(lexer.LBRACKET):
			lbracket := p.advance()
			index := p.parseExpr()
			p.expect(lexer.RBRACKET, "expr[index]")
			expr = p.builder.AddNode(ast.ArrayAccess, lbracket, ast.Data{Lhs: expr, Rhs: index})
		case p.check(lexer.AT):
			expr = p.parseComptimePostfix(expr)
		default:
			return expr
		}
	}
}

// peekIsLt reports whether the token after the cursor is '<', used to
// disambiguate `name::<T>(...)` generic calls from the `name::` start
// of nothing meaningful in expression position (the binding operator
// is only valid at declaration position, where this is never reached).
func (p *parser) peekIsLt() bool {
	return p.cursor+1 < len(p.kinds) && p.kinds[p.cursor+1] == lexer.LT
}

// parseComptimePostfix parses the `@comptime(...)` postfix directive
// applied to callee.
func (p *parser) parseComptimePostfix(callee ast.Index) ast.Index {
	at := p.advance()
	p.expect(lexer.IDENTIFIER, "@comptime(...)")
	args := p.parseCallArgs()
	return p.builder.AddNode(ast.Comptime, at, ast.Data{Lhs: callee, Rhs: args})
}

// parseArgList parses a parenthesized, comma-separated list of Arg
// nodes and returns the committed (start, end) range plus the count,
// assuming the cursor is at '('.
func (p *parser) parseArgList() (start, end ast.Index, count int) {
	p.advance() // '('
	mark := p.builder.ScratchMark()
	p.skipNewlines()
	for !p.check(lexer.RPAREN) && !p.atEnd() {
		arg := p.parseExpr()
		p.builder.PushScratch(ast.Node{Kind: ast.Arg, Token: p.builder.Nodes.Token(arg), Data: ast.Data{Lhs: arg}})
		count++
		p.skipNewlines()
		if !p.match(lexer.COMMA) {
			break
		}
		p.skipNewlines()
	}
	p.expect(lexer.RPAREN, "missing closing ')'")
	start, end = p.builder.CommitScratch(mark)
	return
}

// parseCall parses a call's argument list and builds CALL_TWO (0 or 1
// arguments, packed directly into Data alongside the callee) or CALL
// (2+ arguments, referenced through a Range node) — since Data has
// only two fields and one of them is always the callee, CALL_TWO's
// "save an indirection" specialization applies to the single-argument
// case rather than the pair case STRUCT_TWO/ENUM_TWO use; see
// DESIGN.md for this resolution.
func (p *parser) parseCall(callee ast.Index) ast.Index {
	lparen := p.currentToken()
	start, end, count := p.parseArgList()

	if count <= 1 {
		var arg ast.Index = ast.NoIndex
		if count == 1 {
			arg = start
		}
		return p.builder.AddNode(ast.CallTwo, lparen, ast.Data{Lhs: callee, Rhs: arg})
	}

	return p.builder.AddNode(ast.Call, lparen, ast.Data{Lhs: callee, Rhs: p.wrapRange(lparen, start, end)})
}

// parseGenericCall parses `callee::<T, U>(args)`. The type-argument list
// and the argument list are each wrapped in their own Range node, and a
// third Range node pairs those two together, since Data can only name
// two things directly and this node needs three (callee, type args,
// args).
func (p *parser) parseGenericCall(callee ast.Index) ast.Index {
	colons := p.advance() // '::'
	p.advance()            // '<'
	mark := p.builder.ScratchMark()
	p.skipNewlines()
	for !p.check(lexer.GT) && !p.atEnd() {
		t := p.parseType()
		p.builder.PushScratch(ast.Node{Kind: p.builder.Nodes.Kind(t), Token: p.builder.Nodes.Token(t), Data: p.builder.Nodes.NodeData(t)})
		p.skipNewlines()
		if !p.match(lexer.COMMA) {
			break
		}
		p.skipNewlines()
	}
	p.expect(lexer.GT, "::<T, U>")
	typeArgsStart, typeArgsEnd := p.builder.CommitScratch(mark)
	typeArgsRange := p.wrapRange(colons, typeArgsStart, typeArgsEnd)

	var argsRange ast.Index = ast.NoIndex
	if p.check(lexer.LPAREN) {
		start, end, _ := p.parseArgList()
		argsRange = p.wrapRange(colons, start, end)
	}

	pair := p.builder.AddNode(ast.Range, colons, ast.Data{Lhs: typeArgsRange, Rhs: argsRange})
	return p.builder.AddNode(ast.CallGeneric, colons, ast.Data{Lhs: callee, Rhs: pair})
}

// wrapRange builds a Range node over the committed (start, end) slice,
// anchored at anchor, so a node with only two Data fields can still
// reference both a scalar child and a sibling list (used by CALL's
// argument list, import symbol lists, and match case lists).
func (p *parser) wrapRange(anchor ast.TokenIndex, start, end ast.Index) ast.Index {
	if start == end {
		return ast.NoIndex
	}
	return p.builder.AddNode(ast.Range, anchor, ast.Data{Lhs: start, Rhs: end})
}

// parsePrimary parses the primary expression forms: identifiers,
// literals, parenthesized expressions / function literals, aggregate
// literals, array/map literals, new allocation, and if/match used as
// expressions.
func (p *parser) parsePrimary() ast.Index {
	switch p.current() {
	case lexer.IDENTIFIER:
		tok := p.advance()
		return p.builder.AddNode(ast.Identifier, tok, ast.Data{})
	case lexer.INT:
		tok := p.advance()
		return p.builder.AddNode(ast.Int, tok, ast.Data{})
	case lexer.FLOAT:
		tok := p.advance()
		return p.builder.AddNode(ast.Float, tok, ast.Data{})
	case lexer.CHAR:
		tok := p.advance()
		return p.builder.AddNode(ast.Char, tok, ast.Data{})
	case lexer.STRING:
		tok := p.advance()
		return p.builder.AddNode(ast.String, tok, ast.Data{})
	case lexer.MULTILINE_STRING:
		tok := p.advance()
		return p.builder.AddNode(ast.MultilineString, tok, ast.Data{})
	case lexer.LPAREN:
		if fn, ok := p.tryParseFuncLit(); ok {
			return fn
		}
		return p.parseGroupedExpr()
	case lexer.STRUCT:
		return p.parseStructLit()
	case lexer.ENUM:
		return p.parseEnumLit()
	case lexer.LBRACKET:
		return p.parseArrayOrMapLiteral()
	case lexer.IF:
		return p.parseIfExpr()
	case lexer.MATCH:
		return p.parseMatchExpr()
	case lexer.NEW:
		return p.parseNewExpr()
	case lexer.LBRACE:
		return p.parseBlock()
	}

	p.errorAtCurrent(
		"expected an expression, found "+p.current().String(),
		"expected an expression here",
		"",
	)
	return p.addInvalid()
}

// parseGroupedExpr parses `(expr)` once tryParseFuncLit has determined
// this is not a function literal.
func (p *parser) parseGroupedExpr() ast.Index {
	p.advance() // '('
	p.skipNewlines()
	expr := p.parseExpr()
	p.skipNewlines()
	p.expect(lexer.RPAREN, "missing closing ')'")
	return expr
}

// parseArrayOrMapLiteral parses `[e1, e2, ...]` (ArrayLiteral) or
// `[k1: v1, k2: v2, ...]` (MapLiteral), disambiguated by whether the
// first entry is followed by ':'.
func (p *parser) parseArrayOrMapLiteral() ast.Index {
	lbracket := p.advance()
	mark := p.builder.ScratchMark()
	p.skipNewlines()

	isMap := false
	first := true
	for !p.check(lexer.RBRACKET) && !p.atEnd() {
		key := p.parseExpr()
		if first {
			isMap = p.check(lexer.COLON)
			first = false
		}
		if isMap {
			p.expect(lexer.COLON, "[k1: v1, k2: v2]")
			val := p.parseExpr()
			p.builder.PushScratch(ast.Node{Kind: ast.Range, Token: p.builder.Nodes.Token(key), Data: ast.Data{Lhs: key, Rhs: val}})
		} else {
			p.builder.PushScratch(ast.Node{Kind: p.builder.Nodes.Kind(key), Token: p.builder.Nodes.Token(key), Data: p.builder.Nodes.NodeData(key)})
		}
		p.skipNewlines()
		if !p.match(lexer.COMMA) {
			break
		}
		p.skipNewlines()
	}
	p.expect(lexer.RBRACKET, "missing closing ']'")

	start, end := p.builder.CommitScratch(mark)
	kind := ast.ArrayLiteral
	if isMap {
		kind = ast.MapLiteral
	}
	return p.builder.AddNode(kind, lbracket, ast.Data{Lhs: start, Rhs: end})
}

// parseIfExpr parses `if cond { thenExpr } else { elseExpr }` in
// expression position. Unlike the statement-level if, the expression
// form always requires an else branch since it must yield a value in
// both arms.
func (p *parser) parseIfExpr() ast.Index {
	ifTok := p.advance()
	cond := p.parseExpr()
	p.skipNewlines()
	then := p.parseBlock()
	p.skipNewlines()
	p.expect(lexer.ELSE, "if cond { a } else { b }")
	p.skipNewlines()

	var elseBranch ast.Index
	if p.check(lexer.IF) {
		elseBranch = p.parseIfExpr()
	} else {
		elseBranch = p.parseBlock()
	}

	extraIdx := p.builder.Nodes.Extra.PushIf(ast.If{Then: then, Else: elseBranch})
	return p.builder.AddNode(ast.IfExpr, ifTok, ast.Data{Lhs: extraIdx, Rhs: cond})
}

// parseMatchExpr parses `match scrutinee { pattern => body, ... }` in
// expression position.
func (p *parser) parseMatchExpr() ast.Index {
	matchTok, scrutinee, cases := p.parseMatchCommon()
	return p.builder.AddNode(ast.MatchExpr, matchTok, ast.Data{Lhs: scrutinee, Rhs: cases})
}

// parseMatchCommon parses the `match scrutinee { pattern => body, ... }`
// shape shared by the statement and expression forms, returning the
// anchor token, the scrutinee node, and the Range node over the
// committed MatchCase entries.
func (p *parser) parseMatchCommon() (ast.TokenIndex, ast.Index, ast.Index) {
	matchTok := p.advance()
	scrutinee := p.parseExpr()
	p.skipNewlines()
	p.expect(lexer.LBRACE, "match expr {\n    pattern => body,\n}")

	mark := p.builder.ScratchMark()
	p.skipNewlines()
	for !p.check(lexer.RBRACE) && !p.atEnd() {
		pattern := p.parseExpr()
		p.skipNewlines()
		p.expect(lexer.FATARROW, "pattern => body")
		p.skipNewlines()
		body := p.parseExpr()
		p.builder.PushScratch(ast.Node{Kind: ast.MatchCase, Token: p.builder.Nodes.Token(pattern), Data: ast.Data{Lhs: pattern, Rhs: body}})
		p.skipNewlines()
		if !p.match(lexer.COMMA) {
			p.skipNewlines()
			continue
		}
		p.skipNewlines()
	}
	p.expect(lexer.RBRACE, "missing closing '}'")

	start, end := p.builder.CommitScratch(mark)
	cases := p.wrapRange(matchTok, start, end)
	return matchTok, scrutinee, cases
}

// parseNewExpr parses the four `new` allocation forms: `new T`
// (NewSimple), `new(allocator) T` (NewAllocator), `new T[n]`
// (NewLength), and `new(allocator) T[n]` (NewComplex).
func (p *parser) parseNewExpr() ast.Index {
	newTok := p.advance()

	var allocator ast.Index = ast.NoIndex
	if p.match(lexer.LPAREN) {
		allocator = p.parseExpr()
		p.expect(lexer.RPAREN, "new(allocator) T")
	}

	typ := p.parseType()

	// parseType's postfix chain has already read a trailing `[n]` as an
	// index expression on the type; split it back into type and length.
	var length ast.Index = ast.NoIndex
	if p.builder.Nodes.Kind(typ) == ast.ArrayAccess {
		data := p.builder.Nodes.NodeData(typ)
		typ, length = data.Lhs, data.Rhs
	} else if p.match(lexer.LBRACKET) {
		length = p.parseExpr()
		p.expect(lexer.RBRACKET, "new T[n]")
	}

	switch {
	case allocator == ast.NoIndex && length == ast.NoIndex:
		return p.builder.AddNode(ast.NewSimple, newTok, ast.Data{Lhs: typ})
	case allocator != ast.NoIndex && length == ast.NoIndex:
		return p.builder.AddNode(ast.NewAllocator, newTok, ast.Data{Lhs: allocator, Rhs: typ})
	case allocator == ast.NoIndex && length != ast.NoIndex:
		return p.builder.AddNode(ast.NewLength, newTok, ast.Data{Lhs: typ, Rhs: length})
	default:
		pair := p.builder.AddNode(ast.Range, newTok, ast.Data{Lhs: typ, Rhs: length})
		return p.builder.AddNode(ast.NewComplex, newTok, ast.Data{Lhs: allocator, Rhs: pair})
	}
}
