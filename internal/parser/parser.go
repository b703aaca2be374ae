// Package parser turns a lexed token stream into an ast.Ast: a
// recursive-descent parser for declarations, statements, and types, with
// precedence climbing for expressions.
package parser

import (
	"github.com/smartoctopus/wave/internal/ast"
	"github.com/smartoctopus/wave/internal/diag"
	"github.com/smartoctopus/wave/internal/lexer"
	"github.com/smartoctopus/wave/internal/vfs"
)

// parser holds all mutable state for a single parse. Nothing here is
// shared across parses; Parse constructs one per call.
type parser struct {
	fileID vfs.FileID
	source string

	kinds  []lexer.TokenKind
	starts []uint32

	cursor int

	builder *ast.Builder
	diags   []diag.Diagnostic
}

// Parse lexes source and parses it into a complete Ast. It never
// panics on malformed source: syntax errors become diagnostics and
// INVALID subtrees, and parsing always finishes and returns a
// traversable tree. The diagnostics from lexing and parsing are not
// returned; ParseWithDiagnostics returns them.
func Parse(fileID vfs.FileID, source string) ast.Ast {
	lexed := lexer.Lex(fileID, source)

	p := &parser{
		fileID:  fileID,
		source:  source,
		kinds:   lexed.Kinds,
		starts:  lexed.Starts,
		builder: ast.NewBuilder(),
		diags:   append([]diag.Diagnostic{}, lexed.Diagnostics...),
	}

	decls := p.parseDecls()

	return ast.Ast{
		Nodes: p.builder.Nodes,
		Decls: decls,
	}
}

// ParseWithDiagnostics lexes and parses source exactly as Parse does and
// also returns the diagnostics accumulated along the way, lexing
// diagnostics first. Parse does not return diagnostics directly because
// Ast has no field for them.
func ParseWithDiagnostics(fileID vfs.FileID, source string) (ast.Ast, []diag.Diagnostic) {
	lexed := lexer.Lex(fileID, source)

	p := &parser{
		fileID:  fileID,
		source:  source,
		kinds:   lexed.Kinds,
		starts:  lexed.Starts,
		builder: ast.NewBuilder(),
		diags:   append([]diag.Diagnostic{}, lexed.Diagnostics...),
	}

	decls := p.parseDecls()

	return ast.Ast{Nodes: p.builder.Nodes, Decls: decls}, p.diags
}

func (p *parser) current() lexer.TokenKind {
	return p.kinds[p.cursor]
}

func (p *parser) currentToken() ast.TokenIndex {
	return ast.TokenIndex(p.cursor)
}

func (p *parser) currentStart() uint32 {
	return p.starts[p.cursor]
}

func (p *parser) atEnd() bool {
	return p.current() == lexer.EOF
}

// advance consumes and returns the current token's index, then moves
// the cursor forward (unless already at EOF).
func (p *parser) advance() ast.TokenIndex {
	i := p.currentToken()
	if p.kinds[p.cursor] != lexer.EOF {
		p.cursor++
	}
	return i
}

// check reports whether the current token is kind, without consuming
// it.
func (p *parser) check(kind lexer.TokenKind) bool {
	return p.current() == kind
}

// match consumes the current token and returns true if it is kind,
// otherwise leaves the cursor untouched and returns false.
func (p *parser) match(kind lexer.TokenKind) bool {
	if !p.check(kind) {
		return false
	}
	p.advance()
	return true
}

// skipNewlines consumes any run of NEWLINE tokens at the cursor. Called
// at the specific grammar points where newlines must be transparent:
// inside ( ) and [ ], and after a binary operator or comma.
func (p *parser) skipNewlines() {
	for p.check(lexer.NEWLINE) {
		p.advance()
	}
}

// tokenLength returns the source byte length of the token at ti.
func (p *parser) tokenLength(ti ast.TokenIndex) int {
	return lexer.TokenLength(p.kinds[ti], p.source, p.starts[ti])
}

// tokenSpan returns the Span covering the single token at ti.
func (p *parser) tokenSpan(ti ast.TokenIndex) diag.Span {
	start := p.starts[ti]
	return diag.Span{FileID: p.fileID, Start: start, End: start + uint32(p.tokenLength(ti))}
}

// spanBetween returns the Span from the start of token `from` to the
// end of token `to`, inclusive. Used for multi-token constructs like an
// entire declaration or expression.
func (p *parser) spanBetween(from, to ast.TokenIndex) diag.Span {
	start := p.starts[from]
	end := p.starts[to] + uint32(p.tokenLength(to))
	return diag.Span{FileID: p.fileID, Start: start, End: end}
}

// errorAt records a syntactic error anchored at token ti.
func (p *parser) errorAt(ti ast.TokenIndex, message, label, hint string) {
	p.diags = append(p.diags, diag.Error(p.tokenSpan(ti), message, label, hint))
}

// errorAtCurrent records a syntactic error anchored at the current
// (not yet consumed) token.
func (p *parser) errorAtCurrent(message, label, hint string) {
	p.errorAt(p.currentToken(), message, label, hint)
}

// expect consumes the current token if it is kind; otherwise it emits a
// diagnostic naming what was expected and what was found, and treats the
// token as though it were present (local synthesis): it does not
// consume anything and parsing continues from the same token. This
// matches §4.3's "local synthesis" recovery policy: the parser never
// discards the node being built over a single missing delimiter.
func (p *parser) expect(kind lexer.TokenKind, hint string) (ast.TokenIndex, bool) {
	if p.check(kind) {
		return p.advance(), true
	}
	p.errorAtCurrent(
		"expected "+kind.String()+", found "+p.current().String(),
		"expected "+kind.String()+" here",
		hint,
	)
	return p.currentToken(), false
}

// addInvalid appends an Invalid node anchored at the current token, used
// as the result of a production that could not be completed.
func (p *parser) addInvalid() ast.Index {
	return p.builder.AddNode(ast.Invalid, p.currentToken(), ast.Data{})
}
