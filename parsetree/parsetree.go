// Package parsetree defines the parse-tree node type shared by both
// parsing engines: a mutable node, owned exclusively by the parser that
// created it until its enclosing alternative commits (the tree is kept) or
// backtracks (it is discarded). Clone gives backtracking a cheap way to
// try an alternative without mutating the parent's copy.
package parsetree

import (
	"fmt"
	"strings"
)

// Node is a parse-tree node: a name (the nonterminal or terminal type),
// an optional matched value (set on terminal nodes), and ordered children.
type Node struct {
	Name     string
	Value    []byte
	Children []*Node
}

// NewNonterminal creates an empty node for a nonterminal about to be
// descended into.
func NewNonterminal(name string) *Node {
	return &Node{Name: name}
}

// NewTerminal creates a leaf node carrying the matched token value.
func NewTerminal(name string, value []byte) *Node {
	return &Node{Name: name, Value: value}
}

// AddChild appends child to n's children in order.
func (n *Node) AddChild(child *Node) {
	n.Children = append(n.Children, child)
}

// IsLeaf reports whether n has no children (a terminal, or an empty
// nonterminal produced by a zero-width match).
func (n *Node) IsLeaf() bool {
	return len(n.Children) == 0
}

// Clone deep-copies n and its entire subtree. Used before attempting a
// speculative alternative: the clone is mutated freely, and on success
// replaces the original; on failure it is simply discarded.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	clone := &Node{
		Name:     n.Name,
		Value:    append([]byte{}, n.Value...),
		Children: make([]*Node, len(n.Children)),
	}
	for i, c := range n.Children {
		clone.Children[i] = c.Clone()
	}
	return clone
}

// String renders n as an indented tree, for diagnostics and test failures.
func (n *Node) String() string {
	var b strings.Builder
	n.write(&b, 0)
	return b.String()
}

func (n *Node) write(b *strings.Builder, depth int) {
	b.WriteString(strings.Repeat("  ", depth))
	if n.Value != nil {
		fmt.Fprintf(b, "%s(%q)\n", n.Name, n.Value)
		return
	}
	fmt.Fprintf(b, "%s\n", n.Name)
	for _, c := range n.Children {
		c.write(b, depth+1)
	}
}
