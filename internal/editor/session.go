package editor

import (
	"log/slog"
	"slices"
	"sync"

	"github.com/trackforge/trackedit/internal/search"
	"github.com/trackforge/trackedit/internal/track"
	"github.com/trackforge/trackedit/internal/transform"
)

// Session serialises access to one Track and holds the current selection.
// Every method locks; the core packages it wraps are not safe for concurrent use.
type Session struct {
	mu sync.Mutex

	track     *track.Track
	search    *search.Engine
	transform *transform.Engine
	logger    *slog.Logger

	selection     []track.ID
	dirty         bool
	maxDuplicates int
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// MaxDuplicates caps the number of copies a single duplicate request may make.
// Zero means unlimited.
func MaxDuplicates(n int) SessionOption {
	return func(s *Session) {
		s.maxDuplicates = n
	}
}

// NewSession opens an editing session on t.
func NewSession(t *track.Track, logger *slog.Logger, opts ...SessionOption) *Session {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Session{
		track:     t,
		search:    search.New(logger),
		transform: transform.New(t, logger),
		logger:    logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// View runs fn with the track locked. fn must not keep the pointer.
func (s *Session) View(fn func(t *track.Track)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.track)
}

// Name returns the track name.
func (s *Session) Name() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.track.Name
}

// Dirty reports whether anything changed since the session was opened or
// last marked clean.
func (s *Session) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}

// MarkClean resets the dirty flag, typically after a save.
func (s *Session) MarkClean() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dirty = false
}

// Selection returns the current selection.
func (s *Session) Selection() []track.ID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.selection)
}

// Select replaces the selection. Unknown IDs are dropped.
func (s *Session) Select(ids []track.ID) []track.ID {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection = s.selection[:0]
	for _, id := range ids {
		if s.track.Object(id) != nil {
			s.selection = append(s.selection, id)
		}
	}
	return slices.Clone(s.selection)
}

// SelectAll selects every object in the track.
func (s *Session) SelectAll() []track.ID {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection = s.track.All()
	return slices.Clone(s.selection)
}

// Search filters every object of the track, marks the matches and makes them
// the selection.
func (s *Session) Search(filters []search.Filter) []track.ID {
	s.mu.Lock()
	defer s.mu.Unlock()
	matched := s.search.Search(s.track, s.track.All(), filters)
	s.search.Mark(s.track, matched)
	s.selection = matched
	return slices.Clone(matched)
}

// Transform applies op to the selection.
func (s *Session) Transform(op transform.Op, v transform.Value, target transform.Target, byPercent bool) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := s.transform.Apply(s.selection, op, v, target, byPercent)
	if n > 0 {
		s.dirty = true
	}
	return n
}

// Duplicate copies every selected object n times and selects the copies.
// Requests above the configured cap are clamped.
func (s *Session) Duplicate(n int) []track.ID {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.maxDuplicates > 0 && n*len(s.selection) > s.maxDuplicates {
		clamped := s.maxDuplicates / max(len(s.selection), 1)
		s.logger.Warn("duplicate count clamped", "requested", n, "count", clamped, "selection", len(s.selection))
		n = clamped
	}
	dups := s.track.MassDuplicate(s.selection, n)
	if len(dups) > 0 {
		s.dirty = true
		s.selection = dups
	}
	return slices.Clone(dups)
}

// Delete removes the selected objects and clears the selection.
func (s *Session) Delete() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, id := range s.selection {
		if s.track.Delete(id) {
			n++
		}
	}
	s.selection = nil
	if n > 0 {
		s.dirty = true
	}
	return n
}

// SetGateNo numbers a gate. See (*track.Track).SetGateNo.
func (s *Session) SetGateNo(id track.ID, n int32, renumber bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	ok := s.track.SetGateNo(id, n, renumber)
	s.dirty = s.dirty || ok
	return ok
}

// SetStart sets or clears the start flag.
func (s *Session) SetStart(id track.ID, on bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	ok := s.track.SetStart(id, on)
	s.dirty = s.dirty || ok
	return ok
}

// SetFinish sets or clears the finish flag.
func (s *Session) SetFinish(id track.ID, on bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	ok := s.track.SetFinish(id, on)
	s.dirty = s.dirty || ok
	return ok
}

// Counts returns the track's counts.
func (s *Session) Counts() track.Counts {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.track.Counts()
}

// LogAttrs describes the session for log records.
func (s *Session) LogAttrs() []slog.Attr {
	s.mu.Lock()
	defer s.mu.Unlock()
	return []slog.Attr{
		slog.String("track", s.track.Name),
		slog.Int("selected", len(s.selection)),
		slog.Bool("dirty", s.dirty),
	}
}
