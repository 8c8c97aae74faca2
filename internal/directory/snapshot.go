package directory

// Snapshot is the immutable set of login identifiers present in the
// directory at the start of a run. All classification calls of one run must
// share the same snapshot. Matching is exact and case-sensitive.
type Snapshot struct {
	logins map[string]struct{}
}

// NewSnapshot builds a snapshot from a list of logins, collapsing duplicates.
func NewSnapshot(logins []string) *Snapshot {
	s := &Snapshot{logins: make(map[string]struct{}, len(logins))}
	for _, l := range logins {
		s.logins[l] = struct{}{}
	}
	return s
}

// Contains reports whether the login is present in the directory.
func (s *Snapshot) Contains(login string) bool {
	if s == nil {
		return false
	}
	_, ok := s.logins[login]
	return ok
}

// Size returns the number of distinct logins in the snapshot.
func (s *Snapshot) Size() int {
	if s == nil {
		return 0
	}
	return len(s.logins)
}

// Empty reports whether the snapshot carries no logins. An empty snapshot
// means directory data is unavailable, not that the directory has no users;
// destructive classifications must treat it as a skip signal.
func (s *Snapshot) Empty() bool {
	return s.Size() == 0
}
