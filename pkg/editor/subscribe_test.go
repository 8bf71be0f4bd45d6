package editor

import (
	"testing"

	"github.com/Notifuse/emailbuilder/pkg/blocktree"
	"github.com/Notifuse/emailbuilder/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscribe_FiresOnlyOnChange(t *testing.T) {
	s := NewStore()

	var tabs []MainTab
	unsubscribe := Subscribe(s, func(st State) MainTab { return st.SelectedMainTab }, Equal[MainTab], func(tab MainTab) {
		tabs = append(tabs, tab)
	})

	s.SetSelectedScreenSize(ScreenSizeMobile)
	s.SetSelectedMainTab(MainTabEditor)
	s.SetSelectedMainTab(MainTabHTML)
	s.SetSelectedMainTab(MainTabHTML)
	s.SetSelectedMainTab(MainTabPreview)

	assert.Equal(t, []MainTab{MainTabHTML, MainTabPreview}, tabs)

	unsubscribe()
	unsubscribe()
	s.SetSelectedMainTab(MainTabJSON)
	assert.Len(t, tabs, 2)
}

func TestSubscribeBlock_IgnoresUnrelatedEdits(t *testing.T) {
	s := NewStore(WithDocument(blocktree.Tree{
		"root": blocktree.NewBlock(&blocktree.EmailLayoutData{ChildrenIDs: []string{"a", "b"}}),
		"a":    text("a"),
		"b":    text("b"),
	}))

	var calls []bool
	unsubscribe := s.SubscribeBlock("a", func(_ blocktree.Block, ok bool) {
		calls = append(calls, ok)
	})
	defer unsubscribe()

	s.SetDocument(blocktree.Tree{"b": text("b2")})
	s.SetSelectedBlockID("b")
	assert.Empty(t, calls)

	s.SetDocument(blocktree.Tree{"a": text("a2")})
	assert.Equal(t, []bool{true}, calls)

	next, err := blocktree.DeleteSubtreeRoot(s.Document(), "a")
	assert.NoError(t, err)
	s.ResetDocument(next)
	assert.Equal(t, []bool{true, false}, calls)
}

func TestSubscribeDocument_EveryWrite(t *testing.T) {
	s := NewStore()
	count := 0
	unsubscribe := s.SubscribeDocument(func(blocktree.Tree) { count++ })
	defer unsubscribe()

	s.SetSelectedMainTab(MainTabHTML)
	assert.Equal(t, 0, count)

	s.SetDocument(blocktree.Tree{})
	s.ReplaceDocument(s.Document())
	assert.Equal(t, 1, count, "replacing with the same map is not a change")
}

func TestSubscribe_ReentrantSetter(t *testing.T) {
	s := NewStore()

	unsubscribe := Subscribe(s, func(st State) string { return st.SelectedBlockID }, Equal[string], func(id string) {
		if id != "" {
			s.SetSelectedMainTab(MainTabEditor)
			s.SetSelectedScreenSize(ScreenSizeMobile)
		}
	})
	defer unsubscribe()

	var sizes []ScreenSize
	unsubscribeSize := Subscribe(s, func(st State) ScreenSize { return st.SelectedScreenSize }, Equal[ScreenSize], func(size ScreenSize) {
		sizes = append(sizes, size)
	})
	defer unsubscribeSize()

	s.SetSelectedBlockID("x")

	assert.Equal(t, ScreenSizeMobile, s.Snapshot().SelectedScreenSize)
	assert.Equal(t, []ScreenSize{ScreenSizeMobile}, sizes, "write from a callback is delivered before the outer setter returns")
}

func TestSubscribe_PanickingSubscriberDoesNotStopDelivery(t *testing.T) {
	log := logger.NewTestLogger(t)
	s := NewStore(WithLogger(log))

	calls := 0
	unsubscribe := Subscribe(s, func(st State) ScreenSize { return st.SelectedScreenSize }, Equal[ScreenSize], func(ScreenSize) {
		calls++
		if calls == 1 {
			panic("boom")
		}
	})
	defer unsubscribe()

	var sizes []ScreenSize
	unsubscribeSize := Subscribe(s, func(st State) ScreenSize { return st.SelectedScreenSize }, Equal[ScreenSize], func(size ScreenSize) {
		sizes = append(sizes, size)
	})
	defer unsubscribeSize()

	assert.NotPanics(t, func() { s.SetSelectedScreenSize(ScreenSizeMobile) })
	assert.Equal(t, []ScreenSize{ScreenSizeMobile}, sizes, "later subscribers still see the write")

	s.SetSelectedScreenSize(ScreenSizeDesktop)
	assert.Equal(t, []ScreenSize{ScreenSizeMobile, ScreenSizeDesktop}, sizes)
	assert.Equal(t, 2, calls)

	entry, ok := log.Find("error", "Store subscriber panicked")
	require.True(t, ok)
	assert.Equal(t, "boom", entry.Fields["panic"])
}
