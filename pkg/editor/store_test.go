package editor

import (
	"sync"
	"testing"

	"github.com/Notifuse/emailbuilder/pkg/blocktree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func text(s string) blocktree.Block {
	return blocktree.NewBlock(&blocktree.TextData{Props: blocktree.TextProps{Text: &s}})
}

func TestNewStore_Defaults(t *testing.T) {
	s := NewStore()
	st := s.Snapshot()

	assert.Equal(t, MainTabEditor, st.SelectedMainTab)
	assert.Equal(t, SidebarTabStyles, st.SelectedSidebarTab)
	assert.Equal(t, ScreenSizeDesktop, st.SelectedScreenSize)
	assert.True(t, st.InspectorDrawerOpen)
	assert.True(t, st.SamplesDrawerOpen)
	assert.False(t, st.IsPreviewMode)
	assert.Empty(t, st.SelectedBlockID)
	assert.Equal(t, blocktree.RootFallbackID, s.RootID())
	require.NoError(t, blocktree.Validate(st.Document))

	doc := blocktree.Tree{"main": blocktree.NewBlock(&blocktree.EmailLayoutData{})}
	assert.Equal(t, "main", NewStore(WithDocument(doc)).RootID())
}

func TestStore_SetDocumentMerges(t *testing.T) {
	s := NewStore()
	before := s.Document()
	root := before["root"]

	s.SetDocument(blocktree.Tree{"a": text("a")})
	s.SetDocument(blocktree.Tree{"b": text("b")})

	doc := s.Document()
	assert.Len(t, doc, 3)
	assert.True(t, doc["root"] == root, "untouched keys keep their block")
	assert.Len(t, before, 1, "previous document value is not modified")
	assert.Equal(t, uint64(2), s.Snapshot().Revision)

	s.ReplaceDocument(blocktree.Tree{"root": root})
	assert.Len(t, s.Document(), 1, "replace removes keys")
}

func TestStore_Selection(t *testing.T) {
	s := NewStore()
	s.SetInspectorDrawerOpen(false)

	s.SetSelectedBlockID("block-1")
	st := s.Snapshot()
	assert.Equal(t, "block-1", st.SelectedBlockID)
	assert.Equal(t, SidebarTabBlockConfiguration, st.SelectedSidebarTab)
	assert.True(t, st.InspectorDrawerOpen)

	_, ok := s.CurrentBlock()
	assert.False(t, ok, "selected id without a block")

	s.SetDocument(blocktree.Tree{"block-1": text("x")})
	b, ok := s.CurrentBlock()
	require.True(t, ok)
	assert.Equal(t, blocktree.TypeText, b.Type())

	s.SetSelectedBlockID("")
	st = s.Snapshot()
	assert.Empty(t, st.SelectedBlockID)
	assert.Equal(t, SidebarTabStyles, st.SelectedSidebarTab)
}

func TestStore_ResetDocument(t *testing.T) {
	s := NewStore()
	s.SetSelectedBlockID("x")

	s.ResetDocument(blocktree.EmptyDocument())
	st := s.Snapshot()
	assert.Empty(t, st.SelectedBlockID)
	assert.Equal(t, SidebarTabStyles, st.SelectedSidebarTab)
}

func TestStore_EnumSettersFallBack(t *testing.T) {
	s := NewStore()

	s.SetSelectedMainTab(MainTabJSON)
	s.SetSelectedScreenSize(ScreenSizeMobile)
	s.SetSelectedSidebarTab(SidebarTabBlockConfiguration)
	st := s.Snapshot()
	assert.Equal(t, MainTabJSON, st.SelectedMainTab)
	assert.Equal(t, ScreenSizeMobile, st.SelectedScreenSize)
	assert.Equal(t, SidebarTabBlockConfiguration, st.SelectedSidebarTab)

	s.SetSelectedMainTab("code")
	s.SetSelectedScreenSize("tablet")
	s.SetSelectedSidebarTab("")
	st = s.Snapshot()
	assert.Equal(t, DefaultMainTab, st.SelectedMainTab)
	assert.Equal(t, DefaultScreenSize, st.SelectedScreenSize)
	assert.Equal(t, DefaultSidebarTab, st.SelectedSidebarTab)

	s.SetSamplesDrawerOpen(false)
	assert.False(t, s.Snapshot().SamplesDrawerOpen)
}

func TestStore_PreviewTransitionsAreAtomic(t *testing.T) {
	s := NewStore()
	loaded := blocktree.Tree{"root": blocktree.NewBlock(&blocktree.EmailLayoutData{}), "t": text("loaded")}

	type view struct {
		preview bool
		foreign bool
	}
	var seen []view
	unsubscribe := Subscribe(s,
		func(st State) view {
			_, foreign := st.Document["t"]
			return view{preview: st.IsPreviewMode, foreign: foreign}
		},
		Equal[view],
		func(v view) { seen = append(seen, v) },
	)
	defer unsubscribe()

	s.EnterPreviewWithDocument(loaded, "tpl-1")
	assert.True(t, s.PreviewMode())
	st := s.Snapshot()
	assert.Equal(t, "tpl-1", st.CurrentTemplateID)
	assert.False(t, st.IsEditMode)
	assert.False(t, CanExport(st))

	s.ExitPreviewToEditMode()
	st = s.Snapshot()
	assert.False(t, st.IsPreviewMode)
	assert.True(t, st.IsEditMode)
	assert.True(t, CanExport(st))
	assert.True(t, blocktree.SameTree(loaded, st.Document))

	assert.Equal(t, []view{{preview: true, foreign: true}, {preview: false, foreign: true}}, seen)
}

func TestStore_SetDocumentAndSelect(t *testing.T) {
	s := NewStore()
	var transitions int
	unsubscribe := Subscribe(s,
		func(st State) [2]string {
			_, ok := st.Document["new"]
			present := ""
			if ok {
				present = "new"
			}
			return [2]string{present, st.SelectedBlockID}
		},
		Equal[[2]string],
		func(v [2]string) {
			transitions++
			assert.Equal(t, [2]string{"new", "new"}, v, "block and selection arrive together")
		},
	)
	defer unsubscribe()

	s.SetDocumentAndSelect(blocktree.Tree{"new": text("n")}, "new")
	assert.Equal(t, 1, transitions)
}

func TestStore_CurrentTemplate(t *testing.T) {
	s := NewStore()
	s.SetCurrentTemplate("tpl-9")
	st := s.Snapshot()
	assert.Equal(t, "tpl-9", st.CurrentTemplateID)
	assert.True(t, st.IsEditMode)

	s.SetCurrentTemplate("")
	assert.False(t, s.Snapshot().IsEditMode)
}

func TestStore_ConcurrentWriters(t *testing.T) {
	s := NewStore()
	var notified sync.WaitGroup
	var mu sync.Mutex
	var last blocktree.Tree
	unsubscribe := s.SubscribeDocument(func(doc blocktree.Tree) {
		mu.Lock()
		last = doc
		mu.Unlock()
	})
	defer unsubscribe()

	const writers = 16
	notified.Add(writers)
	for i := 0; i < writers; i++ {
		go func(i int) {
			defer notified.Done()
			s.SetDocument(blocktree.Tree{string(rune('a' + i)): text("x")})
		}(i)
	}
	notified.Wait()

	doc := s.Document()
	assert.Len(t, doc, writers+1)
	assert.Equal(t, uint64(writers), s.Snapshot().Revision)

	mu.Lock()
	defer mu.Unlock()
	assert.True(t, blocktree.SameTree(doc, last), "subscribers end on the latest document")
}
