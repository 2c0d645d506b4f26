package booking

import "sync"

// professionalLocks serializes booking mutations per professional so that two
// clients racing for the same slot resolve to exactly one success.
type professionalLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func (s *professionalLocks) lock(professionalID string) func() {
	s.mu.Lock()
	if s.locks == nil {
		s.locks = make(map[string]*sync.Mutex)
	}
	l, exists := s.locks[professionalID]
	if !exists {
		l = &sync.Mutex{}
		s.locks[professionalID] = l
	}
	s.mu.Unlock()

	l.Lock()
	return l.Unlock
}
