package editor

import "github.com/Notifuse/emailbuilder/pkg/blocktree"

// CurrentBlock returns the selected block, if any and if it still exists
func CurrentBlock(st State) (blocktree.Block, bool) {
	if st.SelectedBlockID == "" {
		return blocktree.Block{}, false
	}
	b, ok := st.Document[st.SelectedBlockID]
	return b, ok
}

// RootID resolves the root of the current document
func RootID(st State) string {
	return blocktree.ResolveRootID(st.Document)
}

// CanExport reports whether the document may be imported or downloaded as JSON
func CanExport(st State) bool {
	return !st.IsPreviewMode
}

func (s *Store) CurrentBlock() (blocktree.Block, bool) {
	return CurrentBlock(s.Snapshot())
}

func (s *Store) RootID() string {
	return RootID(s.Snapshot())
}
