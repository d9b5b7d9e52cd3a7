package app

// Answers maps a question index to the selected option. It does not validate
// indices or option values; Session guards the index range.
type Answers map[int]string

// Record stores option for index, replacing any earlier selection.
func (a Answers) Record(index int, option string) {
	a[index] = option
}

// IsAnswered reports whether index has a selection.
func (a Answers) IsAnswered(index int) bool {
	_, ok := a[index]
	return ok
}

// Get returns the selection for index.
func (a Answers) Get(index int) (string, bool) {
	option, ok := a[index]
	return option, ok
}

func (a Answers) Len() int {
	return len(a)
}

// Clear removes every selection.
func (a Answers) Clear() {
	for k := range a {
		delete(a, k)
	}
}

// Snapshot returns a copy safe to hand outside the session lock.
func (a Answers) Snapshot() map[int]string {
	out := make(map[int]string, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}
