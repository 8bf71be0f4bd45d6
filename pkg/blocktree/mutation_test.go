package blocktree

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngine_AppendChild(t *testing.T) {
	engine := NewEngine(NewSequenceGenerator("block"))

	t.Run("append to empty layout", func(t *testing.T) {
		tree := Tree{"root": layoutBlock()}
		child := textBlock("Hi")

		next, id, err := engine.AppendChild(tree, Slot{ParentID: "root"}, child)
		require.NoError(t, err)

		assert.Equal(t, []string{id}, ChildrenOf(next["root"]))
		assert.Equal(t, "Hi", textOf(next[id]))
		assert.Empty(t, ChildrenOf(tree["root"]), "input tree must not change")
		assert.Len(t, tree, 1)
	})

	t.Run("appends as last element", func(t *testing.T) {
		tree := Tree{"root": layoutBlock("a", "b"), "a": textBlock("a"), "b": textBlock("b")}

		next, id, err := engine.AppendChild(tree, Slot{ParentID: "root"}, textBlock("c"))
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b", id}, ChildrenOf(next["root"]))
		require.NoError(t, Validate(next))
	})

	t.Run("append into a column", func(t *testing.T) {
		tree := Tree{"root": layoutBlock("cols"), "cols": columnsBlock(nil, nil, nil)}

		next, id, err := engine.AppendChild(tree, Slot{ParentID: "cols", Column: 2}, textBlock("x"))
		require.NoError(t, err)

		col2, ok := ColumnChildren(next["cols"], 2)
		require.True(t, ok)
		assert.Equal(t, []string{id}, col2)
		col0, _ := ColumnChildren(next["cols"], 0)
		assert.Empty(t, col0)
	})

	errorCases := []struct {
		name   string
		tree   Tree
		slot   Slot
		child  Block
		target error
	}{
		{
			name:   "missing parent",
			tree:   Tree{"root": layoutBlock()},
			slot:   Slot{ParentID: "nope"},
			child:  textBlock("x"),
			target: ErrNotFound,
		},
		{
			name:   "leaf parent",
			tree:   Tree{"root": layoutBlock("t"), "t": textBlock("t")},
			slot:   Slot{ParentID: "t"},
			child:  textBlock("x"),
			target: ErrInvalidParent,
		},
		{
			name:   "column out of range",
			tree:   Tree{"root": layoutBlock("cols"), "cols": columnsBlock(nil, nil)},
			slot:   Slot{ParentID: "cols", Column: 2},
			child:  textBlock("x"),
			target: ErrInvalidParent,
		},
		{
			name:   "second layout",
			tree:   Tree{"root": layoutBlock()},
			slot:   Slot{ParentID: "root"},
			child:  layoutBlock(),
			target: ErrInvalidBlock,
		},
		{
			name:   "nil data",
			tree:   Tree{"root": layoutBlock()},
			slot:   Slot{ParentID: "root"},
			child:  Block{},
			target: ErrInvalidBlock,
		},
		{
			name:   "new container with children",
			tree:   Tree{"root": layoutBlock("t"), "t": textBlock("t")},
			slot:   Slot{ParentID: "root"},
			child:  containerBlock("t"),
			target: ErrInvalidBlock,
		},
	}

	for _, tc := range errorCases {
		t.Run(tc.name, func(t *testing.T) {
			next, id, err := engine.AppendChild(tc.tree, tc.slot, tc.child)
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.target)
			assert.Empty(t, id)
			assert.True(t, SameTree(tc.tree, next), "failed operation must return the input tree")
		})
	}
}

func TestEngine_InsertChildAt(t *testing.T) {
	engine := NewEngine(NewSequenceGenerator("block"))
	base := Tree{
		"root": layoutBlock("a", "b"),
		"a":    textBlock("a"),
		"b":    textBlock("b"),
	}

	testCases := []struct {
		name     string
		index    int
		position int
	}{
		{name: "front", index: 0, position: 0},
		{name: "middle", index: 1, position: 1},
		{name: "end", index: 2, position: 2},
		{name: "negative clamps to front", index: -5, position: 0},
		{name: "past end clamps to end", index: 99, position: 2},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			next, id, err := engine.InsertChildAt(base, Slot{ParentID: "root"}, tc.index, textBlock("new"))
			require.NoError(t, err)

			children := ChildrenOf(next["root"])
			require.Len(t, children, 3)
			assert.Equal(t, id, children[tc.position])
			assert.Equal(t, []string{"a", "b"}, ChildrenOf(base["root"]))
		})
	}
}

func TestUpdateBlock(t *testing.T) {
	tree := Tree{
		"root": layoutBlock("c"),
		"c":    containerBlock("t"),
		"t":    textBlock("old"),
	}

	t.Run("replaces props", func(t *testing.T) {
		next, err := UpdateBlock(tree, "t", textBlock("new"))
		require.NoError(t, err)
		assert.Equal(t, "new", textOf(next["t"]))
		assert.Equal(t, "old", textOf(tree["t"]))
	})

	t.Run("keeps children of containers", func(t *testing.T) {
		color := "#000000"
		update := Block{Data: &ContainerData{Style: &Style{BackgroundColor: &color}}}

		next, err := UpdateBlock(tree, "c", update)
		require.NoError(t, err)
		assert.Equal(t, []string{"t"}, ChildrenOf(next["c"]))
		assert.Equal(t, &color, next["c"].Data.(*ContainerData).Style.BackgroundColor)
		require.NoError(t, Validate(next))
	})

	t.Run("rejects variant change", func(t *testing.T) {
		_, err := UpdateBlock(tree, "t", containerBlock())
		assert.ErrorIs(t, err, ErrInvalidBlock)
	})

	t.Run("missing block", func(t *testing.T) {
		_, err := UpdateBlock(tree, "ghost", textBlock("x"))
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("columns count change keeps existing columns", func(t *testing.T) {
		cols := Tree{
			"root": layoutBlock("cols"),
			"cols": columnsBlock([]string{"a"}, nil),
			"a":    textBlock("a"),
		}
		wider := Block{Data: &ColumnsContainerData{Props: ColumnsContainerProps{
			Columns: []Column{{}, {}, {}},
		}}}

		next, err := UpdateBlock(cols, "cols", wider)
		require.NoError(t, err)
		first, _ := ColumnChildren(next["cols"], 0)
		third, ok := ColumnChildren(next["cols"], 2)
		require.True(t, ok)
		assert.Equal(t, []string{"a"}, first)
		assert.Empty(t, third)

		narrower := Block{Data: &ColumnsContainerData{Props: ColumnsContainerProps{Columns: []Column{{}}}}}
		_, err = UpdateBlock(next, "cols", Block{Data: &ColumnsContainerData{}})
		assert.ErrorIs(t, err, ErrInvalidBlock)
		_, err = UpdateBlock(next, "cols", narrower)
		assert.NoError(t, err, "dropping empty trailing columns is allowed")
	})
}

func TestMoveChild(t *testing.T) {
	tree := Tree{
		"root": layoutBlock("a", "b", "c"),
		"a":    textBlock("a"),
		"b":    textBlock("b"),
		"c":    textBlock("c"),
	}

	t.Run("up swaps with previous sibling", func(t *testing.T) {
		next, err := MoveChild(tree, "b", DirectionUp)
		require.NoError(t, err)
		assert.Equal(t, []string{"b", "a", "c"}, ChildrenOf(next["root"]))
		assert.Equal(t, []string{"a", "b", "c"}, ChildrenOf(tree["root"]))
	})

	t.Run("down swaps with next sibling", func(t *testing.T) {
		next, err := MoveChild(tree, "b", DirectionDown)
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "c", "b"}, ChildrenOf(next["root"]))
	})

	t.Run("first child up is a no-op", func(t *testing.T) {
		next, err := MoveChild(tree, "a", DirectionUp)
		require.NoError(t, err)
		assert.Equal(t, tree, next)
		assert.True(t, SameTree(tree, next))
	})

	t.Run("last child down is a no-op", func(t *testing.T) {
		next, err := MoveChild(tree, "c", DirectionDown)
		require.NoError(t, err)
		assert.Equal(t, tree, next)
	})

	t.Run("within a column", func(t *testing.T) {
		cols := Tree{
			"root": layoutBlock("cols"),
			"cols": columnsBlock([]string{"x"}, []string{"y", "z"}),
			"x":    textBlock("x"),
			"y":    textBlock("y"),
			"z":    textBlock("z"),
		}
		next, err := MoveChild(cols, "z", DirectionUp)
		require.NoError(t, err)

		second, _ := ColumnChildren(next["cols"], 1)
		first, _ := ColumnChildren(next["cols"], 0)
		assert.Equal(t, []string{"z", "y"}, second)
		assert.Equal(t, []string{"x"}, first)
	})

	t.Run("within a container", func(t *testing.T) {
		nested := Tree{
			"root": layoutBlock("c"),
			"c":    containerBlock("x", "y"),
			"x":    textBlock("x"),
			"y":    textBlock("y"),
		}
		next, err := MoveChild(nested, "x", DirectionDown)
		require.NoError(t, err)
		assert.Equal(t, []string{"y", "x"}, ChildrenOf(next["c"]))
	})

	t.Run("missing block", func(t *testing.T) {
		_, err := MoveChild(tree, "ghost", DirectionUp)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("unknown direction", func(t *testing.T) {
		_, err := MoveChild(tree, "a", Direction("sideways"))
		assert.Error(t, err)
	})
}

func TestDeleteSubtreeRoot(t *testing.T) {
	tree := Tree{
		"root": layoutBlock("c", "t1"),
		"c":    containerBlock("t2"),
		"t1":   textBlock("1"),
		"t2":   textBlock("2"),
	}

	t.Run("removes entry and every reference", func(t *testing.T) {
		next, err := DeleteSubtreeRoot(tree, "t1")
		require.NoError(t, err)

		_, present := next["t1"]
		assert.False(t, present)
		for id, b := range next {
			assert.NotContains(t, referencedIDs(b), "t1", "block %s still references t1", id)
		}
		assert.Contains(t, tree, "t1")
	})

	t.Run("leaves descendants as orphans", func(t *testing.T) {
		next, err := DeleteSubtreeRoot(tree, "c")
		require.NoError(t, err)

		assert.Equal(t, []string{"t1"}, ChildrenOf(next["root"]))
		assert.Contains(t, next, "t2")
		require.NoError(t, Validate(next))

		cleaned, removed := CollectOrphans(next)
		assert.Equal(t, []string{"t2"}, removed)
		assert.NotContains(t, cleaned, "t2")
	})

	t.Run("removes from columns", func(t *testing.T) {
		cols := Tree{
			"root": layoutBlock("cols"),
			"cols": columnsBlock([]string{"x", "y"}, []string{"z"}),
			"x":    textBlock("x"),
			"y":    textBlock("y"),
			"z":    textBlock("z"),
		}
		next, err := DeleteSubtreeRoot(cols, "x")
		require.NoError(t, err)
		first, _ := ColumnChildren(next["cols"], 0)
		assert.Equal(t, []string{"y"}, first)
	})

	t.Run("root layout is refused", func(t *testing.T) {
		_, err := DeleteSubtreeRoot(tree, "root")
		assert.ErrorIs(t, err, ErrInvalidBlock)
	})

	t.Run("missing block", func(t *testing.T) {
		_, err := DeleteSubtreeRoot(tree, "ghost")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

// TestMutations_PreserveInvariants drives random edit sequences and checks
// that every intermediate tree satisfies Validate.
func TestMutations_PreserveInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	engine := NewEngine(NewSequenceGenerator("p"))
	component := Tree{
		"L": layoutBlock("B"),
		"B": containerBlock("C"),
		"C": textBlock("c"),
	}

	for run := 0; run < 20; run++ {
		tree := EmptyDocument()
		for step := 0; step < 60; step++ {
			ids := tree.IDs()
			target := ids[rng.Intn(len(ids))]

			var next Tree
			var err error
			switch rng.Intn(6) {
			case 0:
				next, _, err = engine.AppendChild(tree, Slot{ParentID: target}, textBlock(fmt.Sprint(step)))
			case 1:
				next, _, err = engine.InsertChildAt(tree, Slot{ParentID: target, Column: rng.Intn(3)}, rng.Intn(4)-1, containerBlock())
			case 2:
				cols, _ := DefaultBlock(TypeColumnsContainer)
				next, _, err = engine.AppendChild(tree, Slot{ParentID: target}, cols)
			case 3:
				next, _, err = engine.GraftSubtree(tree, Slot{ParentID: target, Column: rng.Intn(3)}, rng.Intn(3), component, "L")
			case 4:
				dir := DirectionUp
				if rng.Intn(2) == 0 {
					dir = DirectionDown
				}
				next, err = MoveChild(tree, target, dir)
			case 5:
				next, err = DeleteSubtreeRoot(tree, target)
			}

			if err != nil {
				assert.True(t, SameTree(tree, next), "failed edit must return the input tree")
				continue
			}
			require.NoError(t, Validate(next), "run %d step %d", run, step)
			tree = next
		}
	}
}
