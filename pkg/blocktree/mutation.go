package blocktree

import "fmt"

// Slot names a children list: the parent block and, for columns containers,
// the column index. Column is ignored for single-list parents.
type Slot struct {
	ParentID string `json:"parent_id"`
	Column   int    `json:"column,omitempty"`
}

// Direction is the way MoveChild swaps a block with its sibling
type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
)

// maxIDAttempts bounds the retries when a generator returns a taken id
const maxIDAttempts = 8

// Engine performs the structural edits that allocate identifiers. Every
// operation returns a new Tree and leaves its input untouched; on error the
// input is returned unchanged.
type Engine struct {
	ids IDGenerator
}

// NewEngine returns an Engine drawing ids from ids, or from DefaultIDGenerator when nil
func NewEngine(ids IDGenerator) *Engine {
	if ids == nil {
		ids = DefaultIDGenerator
	}
	return &Engine{ids: ids}
}

// AppendChild stores child under a fresh id and appends that id to the slot
func (e *Engine) AppendChild(t Tree, slot Slot, child Block) (Tree, string, error) {
	return e.insert(t, slot, -1, child)
}

// InsertChildAt is AppendChild with the id spliced at index, clamped to [0, len]
func (e *Engine) InsertChildAt(t Tree, slot Slot, index int, child Block) (Tree, string, error) {
	if index < 0 {
		index = 0
	}
	return e.insert(t, slot, index, child)
}

func (e *Engine) insert(t Tree, slot Slot, index int, child Block) (Tree, string, error) {
	if child.Data == nil {
		return t, "", fmt.Errorf("%w: new block has no data", ErrInvalidBlock)
	}
	if child.Type() == TypeEmailLayout {
		return t, "", fmt.Errorf("%w: a document holds a single layout block", ErrInvalidBlock)
	}
	if len(referencedIDs(child)) > 0 {
		return t, "", fmt.Errorf("%w: a new block cannot reference existing children", ErrInvalidBlock)
	}

	parent, lists, err := resolveSlot(t, slot)
	if err != nil {
		return t, "", err
	}

	id, err := e.freshID(t, nil)
	if err != nil {
		return t, "", err
	}

	col := columnOf(parent, slot)
	if index < 0 {
		index = len(lists[col])
	}
	lists[col] = insertAt(lists[col], index, id)

	next := t.Clone()
	next[id] = Block{Data: normalize(child.Data.clone())}
	next[slot.ParentID] = Block{Data: parent.WithChildLists(lists)}
	return next, id, nil
}

// freshID draws ids until one is unused by t and by taken
func (e *Engine) freshID(t Tree, taken map[string]struct{}) (string, error) {
	for i := 0; i < maxIDAttempts; i++ {
		id := e.ids.Next()
		if _, used := t[id]; used {
			continue
		}
		if _, used := taken[id]; used {
			continue
		}
		return id, nil
	}
	return "", fmt.Errorf("id generator kept returning identifiers already in use")
}

// resolveSlot returns the parent holder and copies of its children lists
func resolveSlot(t Tree, slot Slot) (ChildrenHolder, [][]string, error) {
	b, ok := t[slot.ParentID]
	if !ok {
		return nil, nil, fmt.Errorf("%w: parent %q", ErrNotFound, slot.ParentID)
	}
	holder, ok := b.Data.(ChildrenHolder)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %q is a %s block", ErrInvalidParent, slot.ParentID, b.Type())
	}
	lists := holder.ChildLists()
	if b.Type() == TypeColumnsContainer && (slot.Column < 0 || slot.Column >= len(lists)) {
		return nil, nil, fmt.Errorf("%w: column %d of %q does not exist", ErrInvalidParent, slot.Column, slot.ParentID)
	}
	if len(lists) == 0 {
		return nil, nil, fmt.Errorf("%w: %q has no children list", ErrInvalidParent, slot.ParentID)
	}
	return holder, lists, nil
}

func columnOf(parent ChildrenHolder, slot Slot) int {
	if parent.blockType() == TypeColumnsContainer {
		return slot.Column
	}
	return 0
}

func insertAt(ids []string, index int, id string) []string {
	if index > len(ids) {
		index = len(ids)
	}
	out := make([]string, 0, len(ids)+1)
	out = append(out, ids[:index]...)
	out = append(out, id)
	return append(out, ids[index:]...)
}

// UpdateBlock replaces the style and props of an existing block. The variant
// cannot change and the stored children lists are kept.
func UpdateBlock(t Tree, id string, b Block) (Tree, error) {
	cur, ok := t[id]
	if !ok {
		return t, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	if b.Data == nil {
		return t, fmt.Errorf("%w: block has no data", ErrInvalidBlock)
	}
	if b.Type() != cur.Type() {
		return t, fmt.Errorf("%w: cannot change %q from %s to %s", ErrInvalidBlock, id, cur.Type(), b.Type())
	}

	data := b.Data.clone()
	if holder, ok := data.(ChildrenHolder); ok {
		lists := cur.Data.(ChildrenHolder).ChildLists()
		if nextLists := holder.ChildLists(); len(nextLists) < len(lists) {
			for _, dropped := range lists[len(nextLists):] {
				if len(dropped) > 0 {
					return t, fmt.Errorf("%w: cannot drop a non-empty column of %q", ErrInvalidBlock, id)
				}
			}
		}
		data = holder.WithChildLists(lists)
	}

	next := t.Clone()
	next[id] = Block{Data: normalize(data)}
	return next, nil
}

// MoveChild swaps blockID with its neighbour in every children list that
// references it. Moving the first child up or the last child down is a no-op
// and returns t itself.
func MoveChild(t Tree, blockID string, dir Direction) (Tree, error) {
	if _, ok := t[blockID]; !ok {
		return t, fmt.Errorf("%w: %q", ErrNotFound, blockID)
	}
	step := 0
	switch dir {
	case DirectionUp:
		step = -1
	case DirectionDown:
		step = 1
	default:
		return t, fmt.Errorf("%w: unknown direction %q", ErrInvalidBlock, dir)
	}

	var next Tree
	for _, pid := range t.IDs() {
		holder, ok := t[pid].Data.(ChildrenHolder)
		if !ok {
			continue
		}
		lists := holder.ChildLists()
		changed := false
		for li, list := range lists {
			i := indexOf(list, blockID)
			if i < 0 {
				continue
			}
			j := i + step
			if j < 0 || j >= len(list) {
				continue
			}
			list[i], list[j] = list[j], list[i]
			lists[li] = list
			changed = true
		}
		if changed {
			if next == nil {
				next = t.Clone()
			}
			next[pid] = Block{Data: holder.WithChildLists(lists)}
		}
	}

	if next == nil {
		return t, nil
	}
	return next, nil
}

// DeleteSubtreeRoot removes blockID from every children list and drops its
// entry. Former descendants stay in the map, unreachable, until CollectOrphans
// runs. The layout root cannot be deleted.
func DeleteSubtreeRoot(t Tree, blockID string) (Tree, error) {
	b, ok := t[blockID]
	if !ok {
		return t, fmt.Errorf("%w: %q", ErrNotFound, blockID)
	}
	if b.Type() == TypeEmailLayout {
		return t, fmt.Errorf("%w: the layout block cannot be deleted", ErrInvalidBlock)
	}

	next := t.Clone()
	delete(next, blockID)

	for _, pid := range next.IDs() {
		holder, ok := next[pid].Data.(ChildrenHolder)
		if !ok {
			continue
		}
		lists := holder.ChildLists()
		changed := false
		for li, list := range lists {
			if indexOf(list, blockID) < 0 {
				continue
			}
			kept := make([]string, 0, len(list))
			for _, id := range list {
				if id != blockID {
					kept = append(kept, id)
				}
			}
			lists[li] = kept
			changed = true
		}
		if changed {
			next[pid] = Block{Data: holder.WithChildLists(lists)}
		}
	}
	return next, nil
}
