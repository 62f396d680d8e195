package survey

import "sync"

// Store is the in-memory survey store. Surveys are copied on the way
// in and out so callers never share mutable state with the store.
type Store struct {
	mu      sync.RWMutex
	surveys map[string]*Survey
	order   []string
}

func NewStore() *Store {
	return &Store{
		surveys: make(map[string]*Survey),
	}
}

// Create saves a new survey.
func (st *Store) Create(s *Survey) {
	st.mu.Lock()
	defer st.mu.Unlock()

	st.surveys[s.ID] = s.Clone()
	st.order = append(st.order, s.ID)
}

// Get returns the survey with the given id.
func (st *Store) Get(id string) (*Survey, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()

	s, ok := st.surveys[id]
	if !ok {
		return nil, false
	}
	return s.Clone(), true
}

// List returns surveys in insertion order. Deleted surveys are
// skipped unless skipDeleted is false.
func (st *Store) List(skipDeleted bool) []*Survey {
	st.mu.RLock()
	defer st.mu.RUnlock()

	result := make([]*Survey, 0, len(st.order))
	for _, id := range st.order {
		s := st.surveys[id]
		if skipDeleted && s.Status == StatusDeleted {
			continue
		}
		result = append(result, s.Clone())
	}
	return result
}

// Update replaces a stored survey. It reports false when the survey
// does not exist.
func (st *Store) Update(s *Survey) bool {
	st.mu.Lock()
	defer st.mu.Unlock()

	if _, ok := st.surveys[s.ID]; !ok {
		return false
	}
	st.surveys[s.ID] = s.Clone()
	return true
}
