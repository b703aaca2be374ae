package ast

import "fmt"

// Node is an uncommitted (kind, token, data) triple: the value form of
// what eventually becomes a row in NodeList once placed at an index.
// Builder.PushScratch/CommitScratch move children around as Node values
// before they occupy their final, contiguous ids.
type Node struct {
	Kind  Kind
	Token TokenIndex
	Data  Data
}

// Builder accumulates a Nodes tree plus the parser's scratch stack. The
// parser owns exactly one Builder per parse.
//
// Reserve-then-set keeps a parent's id below its children's: reserve a
// placeholder before descending into children, then set it once the
// children's own ids are known. Scratch buffering keeps a run of
// children contiguous: children are collected as Node values off to the
// side, then copied into the main array back-to-back only once the
// aggregate closes, so the resulting (start, end) range is a valid
// slice of NodeList rather than a scatter of unrelated ids.
type Builder struct {
	Nodes   Nodes
	scratch []Node
}

// NewBuilder returns a Builder whose node 0 is the Invalid sentinel and
// whose node 1 is Root, per the AST's id invariants.
func NewBuilder() *Builder {
	b := &Builder{}
	b.AddNode(Invalid, 0, Data{})
	b.AddNode(Root, 0, Data{})
	return b
}

// AddNode appends a finished node and returns its index.
func (b *Builder) AddNode(kind Kind, token TokenIndex, data Data) Index {
	list := &b.Nodes.List
	list.Kind = append(list.Kind, kind)
	list.Token = append(list.Token, token)
	list.Data = append(list.Data, data)
	return Index(len(list.Kind) - 1)
}

// ReserveNode appends an Invalid placeholder and returns its index. The
// caller must later call SetNode with the same index once the node's
// real contents (which may reference children parsed in between) are
// known.
func (b *Builder) ReserveNode() Index {
	return b.AddNode(Invalid, 0, Data{})
}

// SetNode overwrites a previously reserved node in place. Index i must
// have come from ReserveNode; SetNode does not itself check that i was
// never finalized, matching the original discipline where the parser is
// trusted not to double-set.
func (b *Builder) SetNode(i Index, kind Kind, token TokenIndex, data Data) {
	list := &b.Nodes.List
	if int(i) >= len(list.Kind) {
		panic(fmt.Sprintf("internal compiler error: SetNode index %d out of range (len=%d)", i, len(list.Kind)))
	}
	list.Kind[i] = kind
	list.Token[i] = token
	list.Data[i] = data
}

// PopNode removes the trailing node. It panics if i is not the current
// tail index: popping anything else would shift every id above it,
// breaking every reference already taken to those nodes. This is the
// only undo mechanism the parser has, used solely for the function
// literal vs. parenthesized expression rollback.
func (b *Builder) PopNode(i Index) {
	list := &b.Nodes.List
	last := Index(len(list.Kind) - 1)
	if i != last {
		panic(fmt.Sprintf("internal compiler error: popping node %d which is not the tail node %d", i, last))
	}
	list.Kind = list.Kind[:last]
	list.Token = list.Token[:last]
	list.Data = list.Data[:last]
}

// Len returns the current number of nodes, including the sentinel and
// root.
func (b *Builder) Len() int { return b.Nodes.List.Len() }

// ScratchMark returns the current scratch stack depth, to be passed back
// to CommitScratch once the bracketed construct collecting children
// closes.
func (b *Builder) ScratchMark() int { return len(b.scratch) }

// PushScratch buffers a child node value without yet assigning it a
// final index.
func (b *Builder) PushScratch(n Node) {
	b.scratch = append(b.scratch, n)
}

// CommitScratch moves every scratch entry pushed since mark into the
// main node array, contiguously, and returns the resulting (start, end)
// range suitable for storage in an aggregate's Data. An aggregate with
// no children commits an empty range (0, 0), per the sentinel
// convention for empty aggregates.
func (b *Builder) CommitScratch(mark int) (start, end Index) {
	pending := b.scratch[mark:]
	if len(pending) == 0 {
		b.scratch = b.scratch[:mark]
		return 0, 0
	}

	start = Index(b.Len())
	for _, n := range pending {
		b.AddNode(n.Kind, n.Token, n.Data)
	}
	end = Index(b.Len())

	b.scratch = b.scratch[:mark]
	return start, end
}
