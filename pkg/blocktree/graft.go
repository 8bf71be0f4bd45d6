package blocktree

import (
	"fmt"
	"sort"
)

// GraftSubtree copies every block of source into t under fresh identifiers and
// splices the copy of sourceRootID into slot at index (clamped). Children
// references inside the copy are rewritten through the old -> new mapping;
// a reference with no mapping is kept as is and must resolve in t.
//
// A layout-rooted source becomes a Container so the target keeps one layout.
func (e *Engine) GraftSubtree(t Tree, slot Slot, index int, source Tree, sourceRootID string) (Tree, string, error) {
	if _, ok := source[sourceRootID]; !ok {
		return t, "", fmt.Errorf("%w: component root %q", ErrNotFound, sourceRootID)
	}
	parent, lists, err := resolveSlot(t, slot)
	if err != nil {
		return t, "", err
	}

	idMap := make(map[string]string, len(source))
	taken := make(map[string]struct{}, len(source))
	for _, old := range source.IDs() {
		id, err := e.freshID(t, taken)
		if err != nil {
			return t, "", err
		}
		idMap[old] = id
		taken[id] = struct{}{}
	}

	next := t.Clone()
	for old, b := range source {
		if b.Data == nil {
			return t, "", fmt.Errorf("%w: component block %q has no data", ErrCorrupt, old)
		}
		data := remap(b.Data.clone(), idMap)
		if data.blockType() == TypeEmailLayout {
			if old != sourceRootID {
				return t, "", fmt.Errorf("%w: component holds a nested layout %q", ErrCorrupt, old)
			}
			data = layoutAsContainer(data.(*EmailLayoutData))
		}
		next[idMap[old]] = Block{Data: data}
	}

	newRoot := idMap[sourceRootID]
	col := columnOf(parent, slot)
	if index < 0 {
		index = 0
	}
	lists[col] = insertAt(lists[col], index, newRoot)
	next[slot.ParentID] = Block{Data: parent.WithChildLists(lists)}

	if err := Validate(next); err != nil {
		return t, "", err
	}
	return next, newRoot, nil
}

func remap(data BlockData, idMap map[string]string) BlockData {
	holder, ok := data.(ChildrenHolder)
	if !ok {
		return data
	}
	lists := holder.ChildLists()
	for _, list := range lists {
		for i, id := range list {
			if mapped, ok := idMap[id]; ok {
				list[i] = mapped
			}
		}
	}
	return normalize(holder.WithChildLists(lists))
}

func layoutAsContainer(layout *EmailLayoutData) BlockData {
	var style *Style
	if layout.CanvasColor != nil || layout.TextColor != nil || layout.FontFamily != nil {
		style = &Style{
			BackgroundColor: layout.CanvasColor,
			Color:           layout.TextColor,
			FontFamily:      layout.FontFamily,
		}
	}
	return &ContainerData{
		Style: style,
		Props: ContainerProps{ChildrenIDs: copyIDs(layout.ChildrenIDs)},
	}
}

// ExtractSubtree collects blockID and everything reachable from it, breadth
// first, into a self-contained tree.
func ExtractSubtree(t Tree, blockID string) (Tree, error) {
	if _, ok := t[blockID]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, blockID)
	}

	out := Tree{}
	visited := map[string]bool{blockID: true}
	queue := []string{blockID}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		b, ok := t[id]
		if !ok {
			return nil, fmt.Errorf("%w: missing block %q under %q", ErrCorrupt, id, blockID)
		}
		out[id] = b
		for _, child := range referencedIDs(b) {
			if visited[child] {
				continue
			}
			visited[child] = true
			queue = append(queue, child)
		}
	}
	return out, nil
}

// ComponentRootID picks the block a saved component is grafted from: the
// layout when present, otherwise the unreferenced block. Several unreferenced
// blocks resolve to the smallest id.
func ComponentRootID(t Tree) (string, error) {
	if len(t) == 0 {
		return "", fmt.Errorf("%w: empty component", ErrCorrupt)
	}
	for _, id := range t.IDs() {
		if t[id].Type() == TypeEmailLayout {
			return id, nil
		}
	}

	referenced := map[string]bool{}
	for _, b := range t {
		for _, child := range referencedIDs(b) {
			referenced[child] = true
		}
	}
	var roots []string
	for id := range t {
		if !referenced[id] {
			roots = append(roots, id)
		}
	}
	if len(roots) == 0 {
		return "", fmt.Errorf("%w: component has no root", ErrCorrupt)
	}
	sort.Strings(roots)
	return roots[0], nil
}
