package ast_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/smartoctopus/wave/internal/ast"
)

func TestNewBuilderPlantsSentinelAndRoot(t *testing.T) {
	b := ast.NewBuilder()
	require.Equal(t, 2, b.Len())
	require.Equal(t, ast.Invalid, b.Nodes.Kind(0))
	require.Equal(t, ast.Root, b.Nodes.Kind(1))
}

func TestAddNodeAppendsAndReturnsItsIndex(t *testing.T) {
	b := ast.NewBuilder()
	i := b.AddNode(ast.Identifier, 5, ast.Data{})
	require.Equal(t, ast.Index(2), i)
	require.Equal(t, ast.Identifier, b.Nodes.Kind(i))
	require.Equal(t, ast.TokenIndex(5), b.Nodes.Token(i))
}

func TestReserveThenSetKeepsParentBelowChild(t *testing.T) {
	b := ast.NewBuilder()
	parent := b.ReserveNode()
	child := b.AddNode(ast.Int, 0, ast.Data{})
	b.SetNode(parent, ast.Return, 0, ast.Data{Lhs: child})

	require.Less(t, parent, child)
	require.Equal(t, ast.Return, b.Nodes.Kind(parent))
	require.Equal(t, child, b.Nodes.NodeData(parent).Lhs)
}

func TestPopNodePanicsIfNotTail(t *testing.T) {
	b := ast.NewBuilder()
	first := b.ReserveNode()
	b.AddNode(ast.Int, 0, ast.Data{})

	require.Panics(t, func() { b.PopNode(first) })
}

func TestPopNodeRemovesTheTail(t *testing.T) {
	b := ast.NewBuilder()
	before := b.Len()
	i := b.AddNode(ast.Int, 0, ast.Data{})
	b.PopNode(i)
	require.Equal(t, before, b.Len())
}

func TestSpeculativeRollbackPattern(t *testing.T) {
	// Mirrors the function-literal vs. parenthesized-expression
	// ambiguity: reserve two placeholders, try to build on them, and
	// if that fails, pop them back off in reverse order.
	b := ast.NewBuilder()
	before := b.Len()

	result := b.ReserveNode()
	proto := b.ReserveNode()

	paramListFailed := true
	if paramListFailed {
		b.PopNode(proto)
		b.PopNode(result)
	}

	require.Equal(t, before, b.Len())
}

func TestCommitScratchOnEmptyAggregateYieldsZeroRange(t *testing.T) {
	b := ast.NewBuilder()
	mark := b.ScratchMark()
	start, end := b.CommitScratch(mark)
	require.Equal(t, ast.Index(0), start)
	require.Equal(t, ast.Index(0), end)
}

func TestCommitScratchPlacesChildrenContiguously(t *testing.T) {
	b := ast.NewBuilder()
	mark := b.ScratchMark()

	b.PushScratch(ast.Node{Kind: ast.Field, Token: 1})
	b.PushScratch(ast.Node{Kind: ast.Field, Token: 3})
	b.PushScratch(ast.Node{Kind: ast.Field, Token: 5})

	start, end := b.CommitScratch(mark)
	require.Equal(t, ast.Index(3), end-start)

	for i := start; i < end; i++ {
		require.Equal(t, ast.Field, b.Nodes.Kind(i))
	}
	require.Equal(t, ast.TokenIndex(1), b.Nodes.Token(start))
	require.Equal(t, ast.TokenIndex(5), b.Nodes.Token(end-1))
}

func TestNestedScratchFramesDoNotInterfere(t *testing.T) {
	b := ast.NewBuilder()

	outerMark := b.ScratchMark()
	b.PushScratch(ast.Node{Kind: ast.Param, Token: 1})

	innerMark := b.ScratchMark()
	b.PushScratch(ast.Node{Kind: ast.Int, Token: 2})
	innerStart, innerEnd := b.CommitScratch(innerMark)
	require.Equal(t, ast.Index(1), innerEnd-innerStart)

	b.PushScratch(ast.Node{Kind: ast.Param, Token: 3})
	outerStart, outerEnd := b.CommitScratch(outerMark)
	require.Equal(t, ast.Index(2), outerEnd-outerStart)
}

func TestTwoFieldAggregateDataIsStartStartPlusOne(t *testing.T) {
	b := ast.NewBuilder()
	mark := b.ScratchMark()
	b.PushScratch(ast.Node{Kind: ast.Field, Token: 1})
	b.PushScratch(ast.Node{Kind: ast.Field, Token: 2})
	start, end := b.CommitScratch(mark)

	data := ast.Data{Lhs: start, Rhs: start + 1}
	require.Equal(t, end, data.Rhs+1)
}

func TestExtraSideTablesRoundTrip(t *testing.T) {
	b := ast.NewBuilder()

	param := b.AddNode(ast.Param, 0, ast.Data{})
	result := b.AddNode(ast.Identifier, 0, ast.Data{})
	protoIdx := b.Nodes.Extra.PushFuncProtoOne(ast.FuncProtoOne{Param: param, Result: result})
	fn := b.AddNode(ast.FuncProtoOne, 0, ast.Data{Lhs: protoIdx})

	got := b.Nodes.FuncProtoOne(fn)
	require.Equal(t, param, got.Param)
	require.Equal(t, result, got.Result)
	require.False(t, got.HasCallingConv)
}

func TestKindStringAndSpelling(t *testing.T) {
	require.Equal(t, "ROOT", ast.Root.String())
	require.Equal(t, "FUNC_PROTO_ONE", ast.FuncProtoOne.String())

	spelling, ok := ast.MulExpr.Spelling()
	require.True(t, ok)
	require.Equal(t, "*", spelling)

	_, ok = ast.Block.Spelling()
	require.False(t, ok)
}

func TestEveryChildIndexIsInRange(t *testing.T) {
	b := ast.NewBuilder()
	a := b.AddNode(ast.Int, 0, ast.Data{})
	sum := b.AddNode(ast.AddExpr, 0, ast.Data{Lhs: a, Rhs: a})

	data := b.Nodes.NodeData(sum)
	require.Less(t, int(data.Lhs), b.Len())
	require.Less(t, int(data.Rhs), b.Len())
}
