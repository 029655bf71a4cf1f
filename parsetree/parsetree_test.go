package parsetree

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCloneIsDeepAndIndependent(t *testing.T) {
	root := NewNonterminal("expr")
	root.AddChild(NewTerminal("num", []byte("1")))

	clone := root.Clone()
	clone.AddChild(NewTerminal("num", []byte("2")))

	assert.Len(t, root.Children, 1, "original mutated")
	assert.Len(t, clone.Children, 2)
}

func TestCloneOfNilIsNil(t *testing.T) {
	var n *Node
	assert.Nil(t, n.Clone())
}

func TestIsLeaf(t *testing.T) {
	leaf := NewTerminal("num", []byte("1"))
	assert.True(t, leaf.IsLeaf())
	parent := NewNonterminal("expr")
	parent.AddChild(leaf)
	assert.False(t, parent.IsLeaf())
}

func TestStringRendersValueForTerminals(t *testing.T) {
	n := NewTerminal("plus", []byte("+"))
	assert.Equal(t, "plus(\"+\")\n", n.String())
}
