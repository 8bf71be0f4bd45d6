package blocktree

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCollectOrphans(t *testing.T) {
	t.Run("sweeps unreachable chains", func(t *testing.T) {
		tree := Tree{
			"root":  layoutBlock("keep"),
			"keep":  columnsBlock([]string{"k1"}, nil),
			"k1":    textBlock("k1"),
			"lost":  containerBlock("lost1"),
			"lost1": textBlock("l"),
		}

		next, removed := CollectOrphans(tree)
		assert.Equal(t, []string{"lost", "lost1"}, removed)
		assert.ElementsMatch(t, []string{"root", "keep", "k1"}, next.IDs())
		assert.Len(t, tree, 5, "input must not change")
	})

	t.Run("nothing to collect returns the same tree", func(t *testing.T) {
		tree := Tree{"root": layoutBlock("t"), "t": textBlock("t")}
		next, removed := CollectOrphans(tree)
		assert.Empty(t, removed)
		assert.True(t, SameTree(tree, next))
	})

	t.Run("missing root keeps everything", func(t *testing.T) {
		tree := Tree{"a": textBlock("a"), "b": textBlock("b")}
		next, removed := CollectOrphans(tree)
		assert.Empty(t, removed)
		assert.True(t, SameTree(tree, next))
	})

	t.Run("fallback root id", func(t *testing.T) {
		tree := Tree{"root": containerBlock("a"), "a": textBlock("a"), "b": textBlock("b")}
		next, removed := CollectOrphans(tree)
		assert.Equal(t, []string{"b"}, removed)
		assert.Len(t, next, 2)
	})
}
