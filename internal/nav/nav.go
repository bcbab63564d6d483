package nav

// State is the identifier cursor plus the example cursor within the loaded
// puzzle. Loads are issued by the caller; State only computes targets and
// records what was committed.
type State struct {
	ids      []string
	puzzle   int
	example  int
	trainLen int
}

func New(ids []string) State {
	s := State{puzzle: -1}
	s.ids = append([]string(nil), ids...)
	return s
}

func (s *State) Identifiers() []string { return append([]string(nil), s.ids...) }

func (s *State) Len() int { return len(s.ids) }

// PuzzleIndex is -1 until the first successful load.
func (s *State) PuzzleIndex() int { return s.puzzle }

func (s *State) ExampleIndex() int { return s.example }

// Loaded reports whether a document has been committed.
func (s *State) Loaded() bool { return s.trainLen > 0 }

// Current returns the committed identifier.
func (s *State) Current() (string, bool) {
	if s.puzzle < 0 || s.puzzle >= len(s.ids) {
		return "", false
	}
	return s.ids[s.puzzle], true
}

// Lookup returns the position of id in the identifier list.
func (s *State) Lookup(id string) (int, bool) {
	for i, v := range s.ids {
		if v == id {
			return i, true
		}
	}
	return -1, false
}

// AdvanceExample moves the example cursor with wraparound. It is a no-op
// while nothing is loaded.
func (s *State) AdvanceExample(delta int) bool {
	if !s.Loaded() {
		return false
	}
	next := ((s.example+delta)%s.trainLen + s.trainLen) % s.trainLen
	changed := next != s.example
	s.example = next
	return changed
}

// AdvancePuzzle computes the neighbouring identifier with wraparound. The
// cursor itself moves only when the caller commits a successful load.
func (s *State) AdvancePuzzle(delta int) (int, string, bool) {
	n := len(s.ids)
	if n == 0 {
		return -1, "", false
	}
	next := s.puzzle + delta
	switch {
	case next < 0:
		next = n - 1
	case next >= n:
		next = 0
	}
	return next, s.ids[next], true
}

// JumpTo resolves id to an index. Unknown identifiers are ignored.
func (s *State) JumpTo(id string) (int, bool) {
	return s.Lookup(id)
}

// Commit records a successful load of the puzzle at index.
func (s *State) Commit(index, trainLen int) bool {
	if index < 0 || index >= len(s.ids) || trainLen <= 0 {
		return false
	}
	s.puzzle = index
	s.trainLen = trainLen
	s.example = 0
	return true
}

// SetIdentifiers replaces the identifier list, keeping the committed puzzle
// by identifier. When the committed puzzle disappeared from the list its
// examples stay navigable but the identifier cursor resets to -1.
func (s *State) SetIdentifiers(ids []string) {
	current, ok := s.Current()
	s.ids = append([]string(nil), ids...)
	if !ok {
		return
	}
	if i, found := s.Lookup(current); found {
		s.puzzle = i
		return
	}
	s.puzzle = -1
}
