// Package selection tracks which loaded list rows are selected for bulk actions.
package selection

import "sync"

// Set is the selection state of one list view. The zero value is not usable, use New.
// Selected ids are always a subset of the loaded row ids. It is safe for concurrent use.
type Set[K comparable] struct {
	mu       sync.RWMutex
	rows     []K
	loaded   map[K]struct{}
	selected map[K]struct{}
}

// New creates an empty selection with no loaded rows.
func New[K comparable]() *Set[K] {
	return &Set[K]{
		loaded:   map[K]struct{}{},
		selected: map[K]struct{}{},
	}
}

// SetRows replaces the loaded row ids and clears the selection. Duplicate ids
// are kept once, in first-seen order.
func (s *Set[K]) SetRows(ids []K) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rows = make([]K, 0, len(ids))
	s.loaded = make(map[K]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := s.loaded[id]; ok {
			continue
		}
		s.loaded[id] = struct{}{}
		s.rows = append(s.rows, id)
	}
	s.selected = map[K]struct{}{}
}

// SelectOne marks id as selected. Ids that are not loaded are ignored.
func (s *Set[K]) SelectOne(id K) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.loaded[id]; ok {
		s.selected[id] = struct{}{}
	}
}

// DeselectOne unmarks id. It is a no-op when id is not selected.
func (s *Set[K]) DeselectOne(id K) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.selected, id)
}

// Toggle flips the selection of id.
func (s *Set[K]) Toggle(id K) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.selected[id]; ok {
		delete(s.selected, id)
		return
	}
	if _, ok := s.loaded[id]; ok {
		s.selected[id] = struct{}{}
	}
}

// SelectAll selects every loaded row.
func (s *Set[K]) SelectAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = make(map[K]struct{}, len(s.rows))
	for _, id := range s.rows {
		s.selected[id] = struct{}{}
	}
}

// DeselectAll clears the selection.
func (s *Set[K]) DeselectAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = map[K]struct{}{}
}

// IsSelected reports whether id is selected.
func (s *Set[K]) IsSelected(id K) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.selected[id]
	return ok
}

// SelectedAll reports whether every loaded row is selected. It is false when nothing is loaded.
func (s *Set[K]) SelectedAll() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rows) > 0 && len(s.selected) == len(s.rows)
}

// SelectedAny reports whether at least one row is selected.
func (s *Set[K]) SelectedAny() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.selected) > 0
}

// Selected returns the selected ids in row order.
func (s *Set[K]) Selected() []K {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]K, 0, len(s.selected))
	for _, id := range s.rows {
		if _, ok := s.selected[id]; ok {
			out = append(out, id)
		}
	}
	return out
}

// Len returns the number of selected ids.
func (s *Set[K]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.selected)
}
