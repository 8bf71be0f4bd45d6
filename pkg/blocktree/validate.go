package blocktree

import "fmt"

// Validate checks the tree invariants: every referenced id exists, no block
// has two parents, the layout block is never a child, at most one layout
// exists and the structure is acyclic. Violations wrap ErrCorrupt.
func Validate(t Tree) error {
	parents := make(map[string]string, len(t))
	layouts := 0

	for _, id := range t.IDs() {
		b := t[id]
		if b.Data == nil {
			return fmt.Errorf("%w: block %q has no data", ErrCorrupt, id)
		}
		if b.Type() == TypeEmailLayout {
			layouts++
			if layouts > 1 {
				return fmt.Errorf("%w: more than one layout block", ErrCorrupt)
			}
		}
		for _, child := range referencedIDs(b) {
			cb, ok := t[child]
			if !ok {
				return fmt.Errorf("%w: block %q references missing block %q", ErrCorrupt, id, child)
			}
			if cb.Type() == TypeEmailLayout {
				return fmt.Errorf("%w: layout block %q is referenced as a child of %q", ErrCorrupt, child, id)
			}
			if prev, dup := parents[child]; dup {
				return fmt.Errorf("%w: block %q is referenced by both %q and %q", ErrCorrupt, child, prev, id)
			}
			parents[child] = id
		}
	}

	return checkAcyclic(t, parents)
}

// checkAcyclic walks up the parent chain of every block. With a single parent
// per block, a cycle is the only way to revisit a block on the way up.
func checkAcyclic(t Tree, parents map[string]string) error {
	cleared := make(map[string]bool, len(t))
	for _, id := range t.IDs() {
		onPath := map[string]bool{}
		cur := id
		for {
			if cleared[cur] {
				break
			}
			if onPath[cur] {
				return fmt.Errorf("%w: block %q is its own descendant", ErrCorrupt, cur)
			}
			onPath[cur] = true
			parent, ok := parents[cur]
			if !ok {
				break
			}
			cur = parent
		}
		for p := range onPath {
			cleared[p] = true
		}
	}
	return nil
}
