package editor

import "github.com/Notifuse/emailbuilder/pkg/blocktree"

// Ticket identifies one in-flight external request (a template load, a save).
// Starting a new request under the same key supersedes older tickets.
type Ticket struct {
	Key string
	Seq uint64
}

// BeginRequest issues the ticket for a new request under key
func (s *Store) BeginRequest(key string) Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSeq++
	s.requests[key] = s.nextSeq
	return Ticket{Key: key, Seq: s.nextSeq}
}

// IsCurrent reports whether t is still the latest ticket for its key
func (s *Store) IsCurrent(t Ticket) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests[t.Key] == t.Seq
}

// ApplyIfCurrent applies fn as one transition when t has not been superseded
// and retires the ticket. A stale or already used ticket is discarded and
// false is returned. fn must replace State.Document rather than modify it.
func (s *Store) ApplyIfCurrent(t Ticket, fn func(*State)) bool {
	s.mu.Lock()
	if s.requests[t.Key] != t.Seq {
		s.mu.Unlock()
		s.logger.WithFields(map[string]interface{}{
			"request": t.Key,
			"seq":     t.Seq,
		}).Debug("Discarding result of superseded request")
		return false
	}
	delete(s.requests, t.Key)
	fn(&s.state)
	s.state.Revision++
	s.dispatchLocked()
	return true
}

// CancelRequest retires t without applying anything. It is a no-op for a
// superseded ticket.
func (s *Store) CancelRequest(t Ticket) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.requests[t.Key] == t.Seq {
		delete(s.requests, t.Key)
	}
}

// PreviewLoaded is the transition applied when a template load completes
func PreviewLoaded(doc blocktree.Tree, templateID string) func(*State) {
	return func(st *State) {
		enterPreview(st, doc, templateID)
	}
}
