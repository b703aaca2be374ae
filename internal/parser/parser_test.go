package parser_test

import (
	"testing"

	"github.com/go-test/deep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartoctopus/wave/internal/ast"
	"github.com/smartoctopus/wave/internal/lexer"
	"github.com/smartoctopus/wave/internal/parser"
	"github.com/smartoctopus/wave/internal/printer"
)

// 1. Empty source.
func TestParseEmptySource(t *testing.T) {
	tree := parser.Parse(0, "")
	require.Equal(t, []ast.Kind{ast.Invalid, ast.Root}, tree.Nodes.List.Kind)
	require.Empty(t, tree.Decls)
}

func TestParseEmptySourceHasNoDiagnostics(t *testing.T) {
	_, diags := parser.ParseWithDiagnostics(0, "")
	require.Empty(t, diags)
}

// 2. Zero-param function.
func TestParseZeroParamFunction(t *testing.T) {
	tree := parser.Parse(0, "main :: () {\n}")
	require.Len(t, tree.Decls, 1)

	decl := tree.Decls[0]
	require.Equal(t, ast.Const, tree.Nodes.Kind(decl))

	fn := tree.Nodes.NodeData(decl).Rhs
	require.Equal(t, ast.Func, tree.Nodes.Kind(fn))

	fnData := tree.Nodes.NodeData(fn)
	proto := fnData.Lhs
	body := fnData.Rhs

	require.Equal(t, ast.FuncProtoOne, tree.Nodes.Kind(proto))
	protoPayload := tree.Nodes.FuncProtoOne(proto)
	assert.Equal(t, ast.NoIndex, protoPayload.Param)
	assert.False(t, protoPayload.HasCallingConv)
	assert.Equal(t, ast.NoIndex, protoPayload.Result)

	require.Equal(t, ast.Block, tree.Nodes.Kind(body))
	bodyData := tree.Nodes.NodeData(body)
	assert.Equal(t, bodyData.Lhs, bodyData.Rhs, "empty block has an empty child range")
}

// 3. Struct with two fields.
func TestParseStructWithTwoFields(t *testing.T) {
	tree := parser.Parse(0, "foo :: struct { bar: int,\n baz: [5]int\n}")
	require.Len(t, tree.Decls, 1)

	decl := tree.Decls[0]
	require.Equal(t, ast.Const, tree.Nodes.Kind(decl))

	strct := tree.Nodes.NodeData(decl).Rhs
	require.Equal(t, ast.StructTwo, tree.Nodes.Kind(strct))

	data := tree.Nodes.NodeData(strct)
	first, second := data.Lhs, data.Rhs
	require.Equal(t, ast.Field, tree.Nodes.Kind(first))
	require.Equal(t, ast.Field, tree.Nodes.Kind(second))

	firstType := tree.Nodes.NodeData(first).Lhs
	require.Equal(t, ast.Identifier, tree.Nodes.Kind(firstType))

	secondType := tree.Nodes.NodeData(second).Lhs
	require.Equal(t, ast.ArrayType, tree.Nodes.Kind(secondType))

	arrData := tree.Nodes.NodeData(secondType)
	require.Equal(t, ast.Int, tree.Nodes.Kind(arrData.Lhs))
	require.Equal(t, ast.Identifier, tree.Nodes.Kind(arrData.Rhs))
}

// 4. Import with symbol list.
func TestParseImportWithSymbolList(t *testing.T) {
	tree := parser.Parse(0, "import foo { baz, fizzbuzz } as bar")
	require.Len(t, tree.Decls, 1)

	decl := tree.Decls[0]
	require.Equal(t, ast.ImportComplex, tree.Nodes.Kind(decl))

	data := tree.Nodes.NodeData(decl)
	require.Equal(t, ast.Range, tree.Nodes.Kind(data.Rhs))

	rangeData := tree.Nodes.NodeData(data.Rhs)
	require.Equal(t, rangeData.Lhs+2, rangeData.Rhs, "range spans exactly two siblings")
	assert.Equal(t, ast.Identifier, tree.Nodes.Kind(rangeData.Lhs))
	assert.Equal(t, ast.Identifier, tree.Nodes.Kind(rangeData.Lhs+1))
}

// 5. Operator precedence, via the printer.
func TestParsePrintsOperatorPrecedence(t *testing.T) {
	src := "hello :: 2 * 1 - 2 * 3"
	lexed := lexer.Lex(0, src)
	tree := parser.Parse(0, src)

	got := printer.New(&tree, &lexed).Print()
	assert.Equal(t, "(def hello (- (* 2 1) (* 2 3)))", got)
}

// 6. Enum with simple variant.
func TestParseEnumWithSimpleVariant(t *testing.T) {
	tree := parser.Parse(0, "foo :: enum { hello = 1 }")
	require.Len(t, tree.Decls, 1)

	decl := tree.Decls[0]
	enm := tree.Nodes.NodeData(decl).Rhs
	require.Equal(t, ast.EnumTwo, tree.Nodes.Kind(enm))

	data := tree.Nodes.NodeData(enm)
	require.Equal(t, ast.NoIndex, data.Rhs, "one variant leaves rhs empty")
	require.Equal(t, ast.VariantSimple, tree.Nodes.Kind(data.Lhs))

	payload := tree.Nodes.NodeData(data.Lhs).Lhs
	require.Equal(t, ast.Int, tree.Nodes.Kind(payload))
}

func TestParseDeterministic(t *testing.T) {
	// go-test/deep over testify.Equal here: a NodeList mismatch between
	// two full Ast values is a nested slice-of-struct diff, and deep's
	// field-path output ("Nodes.List.Kind[14]: FUNC != BLOCK") points at
	// the offending node directly instead of dumping both trees.
	src := "main :: () {\n  x := 1 + 2\n  return x\n}"
	first := parser.Parse(0, src)
	second := parser.Parse(0, src)
	if diffs := deep.Equal(first, second); len(diffs) != 0 {
		t.Fatalf("repeated parse of the same source diverged: %v", diffs)
	}
}

func TestParseBinaryExpressionShape(t *testing.T) {
	tree := parser.Parse(0, "x :: 1 + 2")
	decl := tree.Decls[0]
	add := tree.Nodes.NodeData(decl).Rhs
	require.Equal(t, ast.AddExpr, tree.Nodes.Kind(add))

	data := tree.Nodes.NodeData(add)
	require.Equal(t, ast.Int, tree.Nodes.Kind(data.Lhs))
	require.Equal(t, ast.Int, tree.Nodes.Kind(data.Rhs))
}

func TestParseStructTrailingCommaIsIdentical(t *testing.T) {
	withComma := parser.Parse(0, "foo :: struct { bar: int, }")
	withoutComma := parser.Parse(0, "foo :: struct { bar: int }")
	if diffs := deep.Equal(withComma, withoutComma); len(diffs) != 0 {
		t.Fatalf("trailing comma changed the parsed tree: %v", diffs)
	}
}

func TestParseFunctionLiteralVsParenthesizedExpr(t *testing.T) {
	tree := parser.Parse(0, "x :: (1 + 2) * 3")
	decl := tree.Decls[0]
	mul := tree.Nodes.NodeData(decl).Rhs
	require.Equal(t, ast.MulExpr, tree.Nodes.Kind(mul))

	lhs := tree.Nodes.NodeData(mul).Lhs
	require.Equal(t, ast.AddExpr, tree.Nodes.Kind(lhs), "grouped expression, not reinterpreted as a func literal")
}

func TestParseFunctionLiteralWithParams(t *testing.T) {
	tree := parser.Parse(0, "add :: (a: int, b: int) -> int => a + b")
	decl := tree.Decls[0]
	fn := tree.Nodes.NodeData(decl).Rhs
	require.Equal(t, ast.Func, tree.Nodes.Kind(fn))

	proto := tree.Nodes.NodeData(fn).Lhs
	require.Equal(t, ast.FuncProto, tree.Nodes.Kind(proto))
	payload := tree.Nodes.FuncProto(proto)
	assert.Equal(t, payload.ParamsStart+2, payload.ParamsEnd, "two params")
	assert.Equal(t, ast.Identifier, tree.Nodes.Kind(payload.Result))

	body := tree.Nodes.NodeData(fn).Rhs
	require.Equal(t, ast.AddExpr, tree.Nodes.Kind(body))
}

func TestParseUnterminatedStringEmitsOneDiagnostic(t *testing.T) {
	_, diags := parser.ParseWithDiagnostics(0, `x :: "unterminated`)
	count := 0
	for range diags {
		count++
	}
	assert.Equal(t, 1, count)
}

func TestParseDeclRecoversAfterGarbageToken(t *testing.T) {
	tree, diags := parser.ParseWithDiagnostics(0, ") main :: () {\n}")
	require.NotEmpty(t, diags)
	require.Len(t, tree.Decls, 1)
	require.Equal(t, ast.Const, tree.Nodes.Kind(tree.Decls[0]))
}

func TestParseIfExpressionRequiresElse(t *testing.T) {
	tree := parser.Parse(0, "x :: if y { 1 } else { 2 }")
	decl := tree.Decls[0]
	ifExpr := tree.Nodes.NodeData(decl).Rhs
	require.Equal(t, ast.IfExpr, tree.Nodes.Kind(ifExpr))

	payload := tree.Nodes.If(ifExpr)
	require.Equal(t, ast.Block, tree.Nodes.Kind(payload.Then))
	require.Equal(t, ast.Block, tree.Nodes.Kind(payload.Else))

	_, diags := parser.ParseWithDiagnostics(0, "x :: if y { 1 }")
	require.NotEmpty(t, diags, "an if expression without else is diagnosed")
}

func TestParseMatchExpression(t *testing.T) {
	tree := parser.Parse(0, "x :: match y {\n  1 => 2,\n  3 => 4,\n}")
	decl := tree.Decls[0]
	matchExpr := tree.Nodes.NodeData(decl).Rhs
	require.Equal(t, ast.MatchExpr, tree.Nodes.Kind(matchExpr))

	data := tree.Nodes.NodeData(matchExpr)
	require.Equal(t, ast.Identifier, tree.Nodes.Kind(data.Lhs))
	require.Equal(t, ast.Range, tree.Nodes.Kind(data.Rhs))

	cases := tree.Nodes.NodeData(data.Rhs)
	assert.Equal(t, ast.MatchCase, tree.Nodes.Kind(cases.Lhs))
}

func TestParseGenericDeclarationHeader(t *testing.T) {
	tree := parser.Parse(0, "Pair :: <T, U> :: struct { a: T, b: U }")
	decl := tree.Decls[0]
	require.Equal(t, ast.Const, tree.Nodes.Kind(decl))

	header := tree.Nodes.NodeData(decl).Lhs
	require.Equal(t, ast.Generic, tree.Nodes.Kind(header))

	payload := tree.Nodes.Generic(header)
	assert.Equal(t, payload.TypeParamsStart+2, payload.TypeParamsEnd, "two type params")

	body := tree.Nodes.NodeData(decl).Rhs
	require.Equal(t, ast.StructTwo, tree.Nodes.Kind(body))
}

func TestParseUsingDecl(t *testing.T) {
	tree := parser.Parse(0, "using std")
	decl := tree.Decls[0]
	assert.Equal(t, ast.UsingSimple, tree.Nodes.Kind(decl))
}

func TestParseForeignImport(t *testing.T) {
	tree := parser.Parse(0, "foreign import libc")
	decl := tree.Decls[0]
	assert.Equal(t, ast.ForeignImport, tree.Nodes.Kind(decl))
}

func TestParseForeignBlock(t *testing.T) {
	tree := parser.Parse(0, "foreign {\n  puts :: (s: &int) -> int \"C\"\n}")
	decl := tree.Decls[0]
	require.Equal(t, ast.Foreign, tree.Nodes.Kind(decl))

	data := tree.Nodes.NodeData(decl)
	require.NotEqual(t, data.Lhs, data.Rhs)
	require.Equal(t, ast.Const, tree.Nodes.Kind(data.Lhs))
}
