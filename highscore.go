package nsearch

import "sort"

// candidate is a (sequence id, hit counter) pair tracked by a
// highscoreSet, mirroring original_source's std::multiset<Candidate>
// ordered by counter.
type candidate struct {
	sid     int32
	counter int32
}

// highscoreSet is a bounded ordered multiset of candidates keyed by
// counter, per spec.md §9's design note: a map for per-sequence-id
// lookup combined with an ordered container, giving O(log n) lookup and
// O(n) re-insertion for the small capacities (maxAccepts+maxRejects)
// this is used at. Entries are kept sorted ascending by counter, so the
// lowest-scoring candidate is always at index 0 and eviction is O(n).
type highscoreSet struct {
	capacity int
	entries  []candidate
	index    map[int32]int // sid -> position in entries
}

// newHighscoreSet returns a highscoreSet bounded to capacity entries.
func newHighscoreSet(capacity int) *highscoreSet {
	return &highscoreSet{
		capacity: capacity,
		index:    make(map[int32]int, capacity+1),
	}
}

// reset empties the set for reuse across queries, without reallocating
// its backing storage.
func (h *highscoreSet) reset() {
	h.entries = h.entries[:0]
	for k := range h.index {
		delete(h.index, k)
	}
}

// candidateLess orders entries ascending by counter, and descending by
// sid within a tied counter, so that descending() (which reverses the
// slice) yields counter-descending order with sid ascending as the
// tiebreaker, per spec.md §5's ordering guarantee.
func candidateLess(a, b candidate) bool {
	if a.counter != b.counter {
		return a.counter < b.counter
	}
	return a.sid > b.sid
}

// bump raises sid's counter to counter, re-inserting it into sorted
// position and removing its previous entry (if any). If the set grows
// past capacity, the lowest-counter candidate is evicted.
func (h *highscoreSet) bump(sid int32, counter int32) {
	if pos, ok := h.index[sid]; ok {
		h.removeAt(pos)
	}

	c := candidate{sid: sid, counter: counter}
	i := sort.Search(len(h.entries), func(i int) bool {
		return !candidateLess(h.entries[i], c)
	})
	h.entries = append(h.entries, candidate{})
	copy(h.entries[i+1:], h.entries[i:])
	h.entries[i] = c
	h.reindexFrom(i)

	if len(h.entries) > h.capacity {
		h.removeAt(0)
	}
}

func (h *highscoreSet) removeAt(i int) {
	sid := h.entries[i].sid
	delete(h.index, sid)
	h.entries = append(h.entries[:i], h.entries[i+1:]...)
	h.reindexFrom(i)
}

func (h *highscoreSet) reindexFrom(i int) {
	for ; i < len(h.entries); i++ {
		h.index[h.entries[i].sid] = i
	}
}

// len returns the number of tracked candidates.
func (h *highscoreSet) len() int { return len(h.entries) }

// descending returns candidates in descending-counter order (highest
// first), the iteration order spec.md §4.6 step 2 requires.
func (h *highscoreSet) descending() []candidate {
	out := make([]candidate, len(h.entries))
	for i, c := range h.entries {
		out[len(out)-1-i] = c
	}
	return out
}
