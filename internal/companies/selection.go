package companies

import "sync"

// Selection is the set of bulk-selected company ids. It is independent of
// the visible page: membership survives paging and filtering until Empty
// or ToggleAll clears it. Safe for concurrent use.
type Selection struct {
	mu    sync.Mutex
	order []string
	ids   map[string]struct{}
}

// NewSelection returns an empty selection.
func NewSelection() *Selection {
	return &Selection{ids: map[string]struct{}{}}
}

// Toggle flips membership of id.
func (s *Selection) Toggle(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.ids[id]; ok {
		s.removeLocked(id)
		return
	}
	s.ids[id] = struct{}{}
	s.order = append(s.order, id)
}

// ToggleAll clears the selection when it already covers every id in all,
// and otherwise replaces it with exactly all.
func (s *Selection) ToggleAll(all []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.coversLocked(all) {
		s.resetLocked()
		return
	}
	s.resetLocked()
	for _, id := range all {
		if _, ok := s.ids[id]; ok {
			continue
		}
		s.ids[id] = struct{}{}
		s.order = append(s.order, id)
	}
}

// Empty clears the selection.
func (s *Selection) Empty() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked()
}

// Contains reports whether id is selected.
func (s *Selection) Contains(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.ids[id]
	return ok
}

// Len returns the number of selected ids.
func (s *Selection) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.order)
}

// IDs returns the selected ids in the order they were selected.
func (s *Selection) IDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

func (s *Selection) coversLocked(all []string) bool {
	for _, id := range all {
		if _, ok := s.ids[id]; !ok {
			return false
		}
	}
	return true
}

func (s *Selection) removeLocked(id string) {
	delete(s.ids, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			return
		}
	}
}

func (s *Selection) resetLocked() {
	s.ids = map[string]struct{}{}
	s.order = nil
}
