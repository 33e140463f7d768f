package assist

// ContextStore is a fixed-size rolling window of recent exchanges. The oldest
// entry is evicted when appending past capacity. It is not synchronized; the
// event loop serializes all access through its single-pass discipline.
type ContextStore struct {
	entries []ContextEntry
	cap     int
}

const defaultContextCapacity = 8

func NewContextStore(capacity int) *ContextStore {
	if capacity <= 0 {
		capacity = defaultContextCapacity
	}
	return &ContextStore{
		entries: make([]ContextEntry, 0, capacity),
		cap:     capacity,
	}
}

func (s *ContextStore) Append(e ContextEntry) {
	s.entries = append(s.entries, e)
	if len(s.entries) > s.cap {
		s.entries = s.entries[len(s.entries)-s.cap:]
	}
}

// Recent returns a copy of the last k entries, most recent last.
func (s *ContextStore) Recent(k int) []ContextEntry {
	if k <= 0 || len(s.entries) == 0 {
		return nil
	}
	if k > len(s.entries) {
		k = len(s.entries)
	}
	out := make([]ContextEntry, k)
	copy(out, s.entries[len(s.entries)-k:])
	return out
}

func (s *ContextStore) Len() int { return len(s.entries) }

func (s *ContextStore) Clear() { s.entries = s.entries[:0] }
