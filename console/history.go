package console

// History is the list of entered command lines with a navigation cursor.
// Adding a line moves the cursor past the end, so Previous returns it.
type History struct {
	lines []string
	index int
}

// Add appends line, ignoring empty lines, and resets the cursor.
func (h *History) Add(line string) {
	if line != "" {
		h.lines = append(h.lines, line)
	}
	h.index = len(h.lines)
}

// Previous moves the cursor back and returns that line. It stays on the
// first line once reached.
func (h *History) Previous() string {
	if len(h.lines) == 0 {
		return ""
	}
	if h.index-1 < 0 {
		return h.lines[0]
	}
	h.index--
	return h.lines[h.index]
}

// Next moves the cursor forward and returns that line. It stays on the last
// line once reached.
func (h *History) Next() string {
	if len(h.lines) == 0 {
		return ""
	}
	if h.index+1 > len(h.lines)-1 {
		return h.lines[len(h.lines)-1]
	}
	h.index++
	return h.lines[h.index]
}

// Len returns the number of lines.
func (h *History) Len() int { return len(h.lines) }

// Lines returns a copy of the lines, oldest first.
func (h *History) Lines() []string { return append([]string(nil), h.lines...) }

// Clear drops every line.
func (h *History) Clear() {
	h.lines = nil
	h.index = 0
}
