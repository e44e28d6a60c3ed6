package discovery

import "sync"

// Attempt is one upstream call tried during discovery.
type Attempt struct {
	URL    string `json:"url"`
	Status int    `json:"status"`
	Note   string `json:"note,omitempty"`
}

// AttemptLog collects failed attempts for diagnostics.
type AttemptLog struct {
	mu      sync.Mutex
	entries []Attempt
}

func (l *AttemptLog) add(a Attempt) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, a)
}

// Entries returns a copy of the log.
func (l *AttemptLog) Entries() []Attempt {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Attempt, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len reports how many attempts were logged.
func (l *AttemptLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
