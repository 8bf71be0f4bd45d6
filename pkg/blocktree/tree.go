package blocktree

import (
	"reflect"
	"sort"
)

// RootFallbackID is the conventional root id used when no layout block exists
const RootFallbackID = "root"

// Tree is the flat id -> block document. Map order carries no meaning;
// structure is encoded only through children lists.
type Tree map[string]Block

// Get returns the block stored under id
func (t Tree) Get(id string) (Block, bool) {
	b, ok := t[id]
	return b, ok
}

// Clone returns a shallow copy. Blocks are immutable values, so sharing them
// between the copy and the original is safe.
func (t Tree) Clone() Tree {
	out := make(Tree, len(t)+1)
	for id, b := range t {
		out[id] = b
	}
	return out
}

// IDs returns the ids of the tree in lexical order
func (t Tree) IDs() []string {
	ids := make([]string, 0, len(t))
	for id := range t {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Merge returns a copy of t where every entry of patch overwrites or adds
// the corresponding key. Keys absent from patch are untouched.
func (t Tree) Merge(patch Tree) Tree {
	out := t.Clone()
	for id, b := range patch {
		out[id] = b
	}
	return out
}

// ResolveRootID returns the id of the layout block, or RootFallbackID when the
// tree has none. When several layouts exist (a corrupt tree) the smallest id wins.
func ResolveRootID(t Tree) string {
	for _, id := range t.IDs() {
		if t[id].Type() == TypeEmailLayout {
			return id
		}
	}
	return RootFallbackID
}

// SameTree reports whether a and b are the same map value
func SameTree(a, b Tree) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return reflect.ValueOf(a).Pointer() == reflect.ValueOf(b).Pointer()
}

// ChangedEntries returns the entries of after that are new or differ from
// before. Removed keys are not represented; use a wholesale replace for those.
func ChangedEntries(before, after Tree) Tree {
	patch := Tree{}
	for id, b := range after {
		if prev, ok := before[id]; !ok || prev != b {
			patch[id] = b
		}
	}
	return patch
}

// RemovedIDs returns the keys of before that are missing from after, sorted
func RemovedIDs(before, after Tree) []string {
	var removed []string
	for id := range before {
		if _, ok := after[id]; !ok {
			removed = append(removed, id)
		}
	}
	sort.Strings(removed)
	return removed
}

// ParentOf returns the id of the block whose children lists reference id,
// with the column index for columns containers.
func ParentOf(t Tree, id string) (Slot, bool) {
	for _, pid := range t.IDs() {
		holder, ok := t[pid].Data.(ChildrenHolder)
		if !ok {
			continue
		}
		for col, list := range holder.ChildLists() {
			if indexOf(list, id) >= 0 {
				return Slot{ParentID: pid, Column: col}, true
			}
		}
	}
	return Slot{}, false
}

// Reachable returns the set of ids reachable from rootID, rootID included.
// References to missing blocks are skipped.
func Reachable(t Tree, rootID string) map[string]struct{} {
	seen := map[string]struct{}{}
	if _, ok := t[rootID]; !ok {
		return seen
	}
	queue := []string{rootID}
	seen[rootID] = struct{}{}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, child := range referencedIDs(t[id]) {
			if _, done := seen[child]; done {
				continue
			}
			if _, ok := t[child]; !ok {
				continue
			}
			seen[child] = struct{}{}
			queue = append(queue, child)
		}
	}
	return seen
}

func indexOf(ids []string, id string) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}
