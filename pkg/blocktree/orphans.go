package blocktree

// CollectOrphans removes every block that is not reachable from the root
// (mark from ResolveRootID, sweep the rest) and returns the removed ids in
// lexical order. A tree without its root is returned as is: with nothing to
// mark from, every block would look unreachable.
func CollectOrphans(t Tree) (Tree, []string) {
	root := ResolveRootID(t)
	if _, ok := t[root]; !ok {
		return t, nil
	}

	marked := Reachable(t, root)
	if len(marked) == len(t) {
		return t, nil
	}

	next := make(Tree, len(marked))
	for id := range marked {
		next[id] = t[id]
	}
	return next, RemovedIDs(t, next)
}
