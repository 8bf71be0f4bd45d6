package editor

import (
	"fmt"
	"sort"
	"sync"

	"github.com/Notifuse/emailbuilder/pkg/blocktree"
	"github.com/Notifuse/emailbuilder/pkg/logger"
)

// State is a snapshot of one editor. Document is shared with the store and
// must be treated as read-only; write through the Store setters instead.
type State struct {
	Document            blocktree.Tree `json:"document"`
	SelectedBlockID     string         `json:"selected_block_id,omitempty"`
	IsPreviewMode       bool           `json:"is_preview_mode"`
	IsEditMode          bool           `json:"is_edit_mode"`
	CurrentTemplateID   string         `json:"current_template_id,omitempty"`
	SelectedMainTab     MainTab        `json:"selected_main_tab"`
	SelectedSidebarTab  SidebarTab     `json:"selected_sidebar_tab"`
	SelectedScreenSize  ScreenSize     `json:"selected_screen_size"`
	InspectorDrawerOpen bool           `json:"inspector_drawer_open"`
	SamplesDrawerOpen   bool           `json:"samples_drawer_open"`
	Revision            uint64         `json:"revision"`
}

// Store holds the state of one editor. Writes are serialized by a mutex and
// are visible to the next read as soon as the setter returns. Subscribers are
// notified after the lock is released.
type Store struct {
	mu     sync.Mutex
	state  State
	logger logger.Logger

	subs        map[uint64]*subscription
	nextSubID   uint64
	dirty       bool
	dispatching bool

	requests map[string]uint64
	nextSeq  uint64
}

// StoreOption configures a Store
type StoreOption func(*Store)

// WithDocument sets the initial document
func WithDocument(doc blocktree.Tree) StoreOption {
	return func(s *Store) {
		s.state.Document = doc
	}
}

// WithLogger sets the logger used to report discarded request results and
// panicking subscribers
func WithLogger(l logger.Logger) StoreOption {
	return func(s *Store) {
		s.logger = l
	}
}

// NewStore creates a store holding the empty document and the default view
func NewStore(opts ...StoreOption) *Store {
	s := &Store{
		state: State{
			Document:            blocktree.EmptyDocument(),
			SelectedMainTab:     DefaultMainTab,
			SelectedSidebarTab:  DefaultSidebarTab,
			SelectedScreenSize:  DefaultScreenSize,
			InspectorDrawerOpen: true,
			SamplesDrawerOpen:   true,
		},
		subs:     make(map[uint64]*subscription),
		requests: make(map[string]uint64),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.NewLogger()
	}
	return s
}

// Snapshot returns a copy of the current state
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Store) Document() blocktree.Tree {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Document
}

// SetDocument merges patch into the document: keys present in patch replace
// the stored blocks, absent keys stay. It cannot remove a key.
func (s *Store) SetDocument(patch blocktree.Tree) {
	s.update(func(st *State) {
		st.Document = st.Document.Merge(patch)
	})
}

// ReplaceDocument installs doc wholesale and leaves the rest of the state alone
func (s *Store) ReplaceDocument(doc blocktree.Tree) {
	s.update(func(st *State) {
		st.Document = doc
	})
}

// ResetDocument installs doc wholesale, clears the selection and returns the
// inspector to the styles tab.
func (s *Store) ResetDocument(doc blocktree.Tree) {
	s.update(func(st *State) {
		st.Document = doc
		st.SelectedBlockID = ""
		st.SelectedSidebarTab = SidebarTabStyles
	})
}

// SetDocumentAndSelect merges patch and selects id in a single transition
func (s *Store) SetDocumentAndSelect(patch blocktree.Tree, id string) {
	s.update(func(st *State) {
		st.Document = st.Document.Merge(patch)
		selectBlock(st, id)
	})
}

func (s *Store) SelectedBlockID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.SelectedBlockID
}

// SetSelectedBlockID selects a block, or clears the selection when id is "".
// Selecting opens the inspector on the block configuration tab.
func (s *Store) SetSelectedBlockID(id string) {
	s.update(func(st *State) {
		selectBlock(st, id)
	})
}

func selectBlock(st *State, id string) {
	st.SelectedBlockID = id
	if id == "" {
		st.SelectedSidebarTab = SidebarTabStyles
		return
	}
	st.SelectedSidebarTab = SidebarTabBlockConfiguration
	st.InspectorDrawerOpen = true
}

func (s *Store) PreviewMode() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.IsPreviewMode
}

// EnterPreviewWithDocument swaps in doc and turns preview mode on in one
// transition, so no subscriber sees the foreign document outside preview.
func (s *Store) EnterPreviewWithDocument(doc blocktree.Tree, templateID string) {
	s.update(func(st *State) {
		enterPreview(st, doc, templateID)
	})
}

func enterPreview(st *State, doc blocktree.Tree, templateID string) {
	st.Document = doc
	st.IsPreviewMode = true
	st.IsEditMode = false
	st.CurrentTemplateID = templateID
	st.SelectedBlockID = ""
	st.SelectedSidebarTab = SidebarTabStyles
}

// ExitPreviewToEditMode keeps the previewed document and makes it editable
func (s *Store) ExitPreviewToEditMode() {
	s.update(func(st *State) {
		st.IsPreviewMode = false
		st.IsEditMode = true
	})
}

// SetCurrentTemplate records the template the document is saved to
func (s *Store) SetCurrentTemplate(templateID string) {
	s.update(func(st *State) {
		st.CurrentTemplateID = templateID
		st.IsEditMode = templateID != ""
	})
}

// SetSelectedMainTab falls back to DefaultMainTab for unknown values
func (s *Store) SetSelectedMainTab(tab MainTab) {
	if !tab.Valid() {
		tab = DefaultMainTab
	}
	s.update(func(st *State) {
		st.SelectedMainTab = tab
	})
}

// SetSelectedSidebarTab falls back to DefaultSidebarTab for unknown values
func (s *Store) SetSelectedSidebarTab(tab SidebarTab) {
	if !tab.Valid() {
		tab = DefaultSidebarTab
	}
	s.update(func(st *State) {
		st.SelectedSidebarTab = tab
	})
}

// SetSelectedScreenSize falls back to DefaultScreenSize for unknown values
func (s *Store) SetSelectedScreenSize(size ScreenSize) {
	if !size.Valid() {
		size = DefaultScreenSize
	}
	s.update(func(st *State) {
		st.SelectedScreenSize = size
	})
}

func (s *Store) SetInspectorDrawerOpen(open bool) {
	s.update(func(st *State) {
		st.InspectorDrawerOpen = open
	})
}

func (s *Store) SetSamplesDrawerOpen(open bool) {
	s.update(func(st *State) {
		st.SamplesDrawerOpen = open
	})
}

// update applies fn under the lock, bumps the revision and notifies subscribers
func (s *Store) update(fn func(*State)) {
	s.mu.Lock()
	fn(&s.state)
	s.state.Revision++
	s.dispatchLocked()
}

// dispatchLocked must be called with s.mu held and releases it. Only one
// goroutine delivers notifications at a time; writes that land meanwhile set
// dirty and are picked up by the running loop, which always delivers the
// latest state.
func (s *Store) dispatchLocked() {
	s.dirty = true
	if s.dispatching {
		s.mu.Unlock()
		return
	}
	s.dispatching = true

	for s.dirty {
		s.dirty = false
		st := s.state
		subs := s.sortedSubsLocked()
		s.mu.Unlock()

		for _, sub := range subs {
			s.deliver(sub, st)
		}

		s.mu.Lock()
	}

	s.dispatching = false
	s.mu.Unlock()
}

// deliver runs one subscriber. A panic in its callback is reported and does
// not stop delivery to the remaining subscribers.
func (s *Store) deliver(sub *subscription, st State) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		s.logger.WithFields(map[string]interface{}{
			"revision": st.Revision,
			"panic":    fmt.Sprint(r),
		}).Error("Store subscriber panicked")
	}()
	sub.deliver(st)
}

func (s *Store) sortedSubsLocked() []*subscription {
	ids := make([]uint64, 0, len(s.subs))
	for id := range s.subs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	subs := make([]*subscription, len(ids))
	for i, id := range ids {
		subs[i] = s.subs[id]
	}
	return subs
}
