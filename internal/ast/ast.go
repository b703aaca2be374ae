// Package ast defines the structure-of-arrays abstract syntax tree
// produced by the parser: node kind, anchor token, and payload are kept
// in three parallel slices indexed by Index rather than as a tree of
// pointers, so that sibling ranges are contiguous and cheap to slice.
package ast

// Index identifies a node by position in the parallel kind/token/data
// arrays. Index 0 is the reserved "none" sentinel; a freshly zeroed
// Index therefore always means "absent" rather than "node zero".
type Index uint32

// NoIndex is the zero value of Index, the "none" sentinel.
const NoIndex Index = 0

// TokenIndex identifies a token in a LexedSrc's parallel kind/start
// arrays. It is a distinct type from Index purely for readability: the
// two integer spaces are never interchangeable.
type TokenIndex uint32

// Data is a node's 64-bit payload, reinterpreted according to its
// node's Kind. Most kinds use it as a (Lhs, Rhs) pair of child indices;
// range-shaped aggregates use it as a contiguous (start, start+len)
// slice of the main node array; a handful of kinds store an index into
// one of the typed extra side tables in Lhs (If and IfExpr keep their
// condition in Rhs; the others leave Rhs unused).
//
// A tagged union would UB-invite if this were a byte buffer, as the
// original C implementation used; two explicit fields give the same
// packing with real type safety; see DESIGN.md for the tradeoff.
type Data struct {
	Lhs Index
	Rhs Index
}

// Range views Data as a contiguous (start, end) slice of the main node
// array, used by every aggregate kind that did not earn a _TWO
// specialization: Struct, Enum, Block, Import's symbol list, and so on.
func (d Data) Range() (start, end Index) { return d.Lhs, d.Rhs }

// FuncProtoOne is the extra payload for a function prototype with at
// most one parameter: the parameter node id, and the calling-convention
// string's token index (0 meaning "no calling convention").
type FuncProtoOne struct {
	Param      Index
	CallingConv TokenIndex
	HasCallingConv bool
	Result     Index // return type node, NoIndex if absent
}

// FuncProto is the extra payload for a function prototype with two or
// more parameters: the (start, end) range of Param nodes plus the same
// calling-convention and result fields as FuncProtoOne.
type FuncProto struct {
	ParamsStart, ParamsEnd Index
	CallingConv            TokenIndex
	HasCallingConv         bool
	Result                 Index
}

// GenericOne is the extra payload for a generic header with a single
// type parameter: the type parameter's node id and the (start, end)
// range of `where` clause nodes (empty range if there is no `where`).
type GenericOne struct {
	TypeParam        Index
	WhereStart, WhereEnd Index
}

// Generic is the extra payload for a generic header with two or more
// type parameters.
type Generic struct {
	TypeParamsStart, TypeParamsEnd Index
	WhereStart, WhereEnd           Index
}

// If is the extra payload for the two-branch If node: the "then" block
// and the "else" block (which may itself be another If, for `else if`
// chains).
type If struct {
	Then Index
	Else Index
}

// Extra is the collection of typed side tables that stand in for the
// original design's single untyped byte buffer. A node whose Kind needs
// one of these stores its record's index in Data.Lhs.
type Extra struct {
	FuncProtoOnes []FuncProtoOne
	FuncProtos    []FuncProto
	GenericOnes   []GenericOne
	Generics      []Generic
	Ifs           []If
}

// PushFuncProtoOne appends p and returns its index for storage in a
// node's Data.Lhs.
func (e *Extra) PushFuncProtoOne(p FuncProtoOne) Index {
	e.FuncProtoOnes = append(e.FuncProtoOnes, p)
	return Index(len(e.FuncProtoOnes) - 1)
}

// PushFuncProto appends p and returns its index.
func (e *Extra) PushFuncProto(p FuncProto) Index {
	e.FuncProtos = append(e.FuncProtos, p)
	return Index(len(e.FuncProtos) - 1)
}

// PushGenericOne appends g and returns its index.
func (e *Extra) PushGenericOne(g GenericOne) Index {
	e.GenericOnes = append(e.GenericOnes, g)
	return Index(len(e.GenericOnes) - 1)
}

// PushGeneric appends g and returns its index.
func (e *Extra) PushGeneric(g Generic) Index {
	e.Generics = append(e.Generics, g)
	return Index(len(e.Generics) - 1)
}

// PushIf appends f and returns its index.
func (e *Extra) PushIf(f If) Index {
	e.Ifs = append(e.Ifs, f)
	return Index(len(e.Ifs) - 1)
}

// NodeList is the parallel-array storage for every node: kind[i],
// token[i], and data[i] together describe node i.
type NodeList struct {
	Kind  []Kind
	Token []TokenIndex
	Data  []Data
}

// Len returns the number of nodes, including the index-0 sentinel.
func (n *NodeList) Len() int { return len(n.Kind) }

// Ast is the parser's tree output: the node arrays, the extra side
// tables, and the list of top-level declaration node ids. It does not
// hold diagnostics; parser.ParseWithDiagnostics returns those as a
// separate slice beside the Ast. It owns everything
// reachable from it; there are no pointers into it from outside and no
// pointers out of it except integer indices, so it can be discarded as
// a unit.
type Ast struct {
	Nodes Nodes
	Decls []Index
}

// Nodes bundles NodeList with its Extra side tables, since the two are
// never meaningfully separated: reading a node whose Data references
// Extra requires both.
type Nodes struct {
	List  NodeList
	Extra Extra
}

// Kind returns the kind of node i.
func (n *Nodes) Kind(i Index) Kind { return n.List.Kind[i] }

// Token returns the anchor token index of node i.
func (n *Nodes) Token(i Index) TokenIndex { return n.List.Token[i] }

// NodeData returns the payload of node i.
func (n *Nodes) NodeData(i Index) Data { return n.List.Data[i] }

// FuncProtoOne looks up the FuncProtoOne record a FUNC_PROTO_ONE node's
// Data.Lhs refers to.
func (n *Nodes) FuncProtoOne(i Index) FuncProtoOne {
	return n.Extra.FuncProtoOnes[n.List.Data[i].Lhs]
}

// FuncProto looks up the FuncProto record a FUNC_PROTO node's Data.Lhs
// refers to.
func (n *Nodes) FuncProto(i Index) FuncProto {
	return n.Extra.FuncProtos[n.List.Data[i].Lhs]
}

// GenericOne looks up the GenericOne record a GENERIC_ONE node's
// Data.Lhs refers to.
func (n *Nodes) GenericOne(i Index) GenericOne {
	return n.Extra.GenericOnes[n.List.Data[i].Lhs]
}

// Generic looks up the Generic record a GENERIC node's Data.Lhs refers
// to.
func (n *Nodes) Generic(i Index) Generic {
	return n.Extra.Generics[n.List.Data[i].Lhs]
}

// If looks up the If record an IF node's Data.Lhs refers to.
func (n *Nodes) If(i Index) If {
	return n.Extra.Ifs[n.List.Data[i].Lhs]
}
