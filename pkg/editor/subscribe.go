package editor

import (
	"sync"
	"sync/atomic"

	"github.com/Notifuse/emailbuilder/pkg/blocktree"
)

type subscription struct {
	active  atomic.Bool
	mu      sync.Mutex
	deliver func(State)
}

// Subscribe registers onChange for the slice of state picked by selector.
// onChange runs only when equal reports that the selected value differs from
// the last value seen by this subscription; it never runs for the value
// current at subscription time. The returned function unsubscribes and is
// safe to call more than once.
func Subscribe[T any](s *Store, selector func(State) T, equal func(a, b T) bool, onChange func(T)) func() {
	sub := &subscription{}
	sub.active.Store(true)

	s.mu.Lock()
	last := selector(s.state)
	sub.deliver = func(st State) {
		sub.mu.Lock()
		defer sub.mu.Unlock()
		if !sub.active.Load() {
			return
		}
		next := selector(st)
		if equal(last, next) {
			return
		}
		last = next
		onChange(next)
	}
	id := s.nextSubID
	s.nextSubID++
	s.subs[id] = sub
	s.mu.Unlock()

	return func() {
		sub.active.Store(false)
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// Equal compares comparable values with ==. For blocks this is reference
// equality, since every edit allocates new block data.
func Equal[T comparable](a, b T) bool {
	return a == b
}

// SameDocument compares documents by identity: any write produces a new map
func SameDocument(a, b blocktree.Tree) bool {
	return blocktree.SameTree(a, b)
}

// SubscribeDocument notifies onChange whenever the document is replaced or patched
func (s *Store) SubscribeDocument(onChange func(blocktree.Tree)) func() {
	return Subscribe(s, func(st State) blocktree.Tree { return st.Document }, SameDocument, onChange)
}

// SubscribeBlock notifies onChange when the block stored under id changes,
// appears or disappears. Edits to other blocks do not trigger it.
func (s *Store) SubscribeBlock(id string, onChange func(blocktree.Block, bool)) func() {
	type entry struct {
		block blocktree.Block
		ok    bool
	}
	return Subscribe(s,
		func(st State) entry {
			b, ok := st.Document[id]
			return entry{block: b, ok: ok}
		},
		Equal[entry],
		func(e entry) { onChange(e.block, e.ok) },
	)
}
