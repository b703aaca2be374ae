// Package printer renders a parsed Ast back out as canonical
// S-expression text. It is a read-only collaborator, not part of the
// front-end's correctness surface: it exists because a handful of
// tests pin its exact output format for operator-precedence fixtures
// (`(def name (op lhs rhs))`).
package printer

import (
	"strconv"
	"strings"

	"github.com/smartoctopus/wave/internal/ast"
	"github.com/smartoctopus/wave/internal/lexer"
)

// unarySpelling maps a unary expression Kind to its token spelling.
// Kept local to the printer rather than in internal/ast/kind.go: unlike
// binaryOpSpelling, nothing outside this package needs it.
var unarySpelling = map[ast.Kind]string{
	ast.PosExpr:    "+",
	ast.NegExpr:    "-",
	ast.NotExpr:    "!",
	ast.BitNotExpr: "~",
	ast.DerefExpr:  "*",
	ast.RefExpr:    "&",
}

// Printer renders nodes from a single Ast as S-expression text. It
// holds the lexed token stream so identifier and literal nodes can
// recover their source spelling from their anchor token.
type Printer struct {
	tree  *ast.Ast
	lexed *lexer.LexedSrc
}

// New returns a Printer over tree, whose token text is recovered from
// lexed (the same LexedSrc the tree was parsed from).
func New(tree *ast.Ast, lexed *lexer.LexedSrc) *Printer {
	return &Printer{tree: tree, lexed: lexed}
}

// Print renders every top-level declaration, one per line, in source
// order.
func (p *Printer) Print() string {
	var b strings.Builder
	for i, d := range p.tree.Decls {
		if i > 0 {
			b.WriteByte('\n')
		}
		p.writeDecl(&b, d)
	}
	return b.String()
}

// PrintNode renders a single node (and its subtree) in isolation,
// without the `(def name ...)` wrapper Print adds for top-level
// bindings.
func (p *Printer) PrintNode(n ast.Index) string {
	var b strings.Builder
	p.writeExpr(&b, n)
	return b.String()
}

func (p *Printer) writeDecl(b *strings.Builder, n ast.Index) {
	switch p.tree.Nodes.Kind(n) {
	case ast.Const, ast.Var:
		data := p.tree.Nodes.NodeData(n)
		b.WriteString("(def ")
		b.WriteString(p.tokenText(p.tree.Nodes.Token(n)))
		b.WriteByte(' ')
		p.writeExpr(b, data.Rhs)
		b.WriteByte(')')
	default:
		p.writeExpr(b, n)
	}
}

// writeExpr recursively renders n as `atom` or `(op child...)`.
func (p *Printer) writeExpr(b *strings.Builder, n ast.Index) {
	if n == ast.NoIndex {
		b.WriteString("nil")
		return
	}

	kind := p.tree.Nodes.Kind(n)
	data := p.tree.Nodes.NodeData(n)
	tok := p.tree.Nodes.Token(n)

	if spelling, ok := kind.Spelling(); ok && kind.IsBinary() {
		b.WriteByte('(')
		b.WriteString(spelling)
		b.WriteByte(' ')
		p.writeExpr(b, data.Lhs)
		b.WriteByte(' ')
		p.writeExpr(b, data.Rhs)
		b.WriteByte(')')
		return
	}

	if spelling, ok := unarySpelling[kind]; ok {
		b.WriteByte('(')
		b.WriteString(spelling)
		b.WriteByte(' ')
		p.writeExpr(b, data.Lhs)
		b.WriteByte(')')
		return
	}

	switch kind {
	case ast.Identifier, ast.Int, ast.Float, ast.Char, ast.String, ast.MultilineString:
		b.WriteString(p.tokenText(tok))
	case ast.Arg:
		p.writeExpr(b, data.Lhs)
	case ast.FieldAccess:
		b.WriteString("(. ")
		p.writeExpr(b, data.Lhs)
		b.WriteByte(' ')
		b.WriteString(p.tokenText(ast.TokenIndex(data.Rhs)))
		b.WriteByte(')')
	case ast.ArrayAccess:
		b.WriteString("(index ")
		p.writeExpr(b, data.Lhs)
		b.WriteByte(' ')
		p.writeExpr(b, data.Rhs)
		b.WriteByte(')')
	case ast.CallTwo:
		b.WriteString("(call ")
		p.writeExpr(b, data.Lhs)
		if data.Rhs != ast.NoIndex {
			b.WriteByte(' ')
			p.writeExpr(b, data.Rhs)
		}
		b.WriteByte(')')
	case ast.Call:
		b.WriteString("(call ")
		p.writeExpr(b, data.Lhs)
		p.writeRange(b, data.Rhs)
		b.WriteByte(')')
	default:
		b.WriteByte('(')
		b.WriteString(kind.String())
		b.WriteByte(')')
	}
}

// writeRange renders every node in the (start, end) range held by the
// Range node at n, each preceded by a space, or nothing if n is
// NoIndex.
func (p *Printer) writeRange(b *strings.Builder, n ast.Index) {
	if n == ast.NoIndex {
		return
	}
	data := p.tree.Nodes.NodeData(n)
	for i := data.Lhs; i < data.Rhs; i++ {
		b.WriteByte(' ')
		p.writeExpr(b, i)
	}
}

// tokenText recovers the verbatim source spelling of the token at ti.
func (p *Printer) tokenText(ti ast.TokenIndex) string {
	start := p.lexed.Starts[ti]
	kind := p.lexed.Kinds[ti]
	length := lexer.TokenLength(kind, p.lexed.Source, start)
	return p.lexed.Source[start : int(start)+length]
}

// quoted is a small helper kept for the rare case a future caller wants
// a double-quoted rendering of a string literal's decoded text rather
// than its raw source spelling.
func quoted(s string) string {
	return strconv.Quote(s)
}
