package nav

// History is the addressable location: the current token plus a
// back/forward stack, the way a browser tracks a page fragment.
type History struct {
	entries []string
	pos     int
}

func NewHistory() *History {
	return &History{pos: -1}
}

// Location returns the current token.
func (h *History) Location() (string, bool) {
	if h.pos < 0 || h.pos >= len(h.entries) {
		return "", false
	}
	return h.entries[h.pos], true
}

// Push records token as the current location after a successful load. It
// never emits a change, and pushing the current token again is a no-op so
// a load driven by Back or Forward does not fork the stack.
func (h *History) Push(token string) {
	if cur, ok := h.Location(); ok && cur == token {
		return
	}
	h.entries = append(h.entries[:h.pos+1], token)
	h.pos = len(h.entries) - 1
}

// Back moves one entry back and returns the token now current.
func (h *History) Back() (string, bool) {
	if h.pos <= 0 {
		return "", false
	}
	h.pos--
	return h.entries[h.pos], true
}

func (h *History) Forward() (string, bool) {
	if h.pos+1 >= len(h.entries) {
		return "", false
	}
	h.pos++
	return h.entries[h.pos], true
}

// Mark returns the current position so a failed step can be undone.
func (h *History) Mark() int { return h.pos }

// Rewind returns to a position taken with Mark.
func (h *History) Rewind(mark int) {
	if mark >= -1 && mark < len(h.entries) {
		h.pos = mark
	}
}

func (h *History) CanBack() bool    { return h.pos > 0 }
func (h *History) CanForward() bool { return h.pos+1 < len(h.entries) }

func (h *History) Len() int { return len(h.entries) }
