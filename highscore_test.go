package nsearch

import "testing"

func TestHighscoreSetDescendingOrderWithTiebreak(t *testing.T) {
	h := newHighscoreSet(10)
	h.bump(1, 5)
	h.bump(2, 5) // tied counter with sid 1
	h.bump(3, 10)

	got := h.descending()
	want := []candidate{
		{sid: 3, counter: 10},
		{sid: 1, counter: 5}, // ascending sid among the counter=5 tie
		{sid: 2, counter: 5},
	}
	if len(got) != len(want) {
		t.Fatalf("descending() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("descending()[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestHighscoreSetRebumpMovesEntry(t *testing.T) {
	h := newHighscoreSet(10)
	h.bump(1, 1)
	h.bump(2, 2)
	h.bump(1, 5) // sid 1's counter increases past sid 2's

	got := h.descending()
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %v", got)
	}
	if got[0].sid != 1 || got[0].counter != 5 {
		t.Errorf("descending()[0] = %+v, want sid=1 counter=5", got[0])
	}
}

func TestHighscoreSetEvictsLowestOnOverflow(t *testing.T) {
	h := newHighscoreSet(2)
	h.bump(1, 1)
	h.bump(2, 2)
	h.bump(3, 3) // should evict sid 1 (lowest counter)

	if h.len() != 2 {
		t.Fatalf("len() = %d, want 2", h.len())
	}
	got := h.descending()
	for _, c := range got {
		if c.sid == 1 {
			t.Errorf("sid 1 should have been evicted, got %v", got)
		}
	}
}

func TestHighscoreSetResetClearsEntries(t *testing.T) {
	h := newHighscoreSet(5)
	h.bump(1, 1)
	h.bump(2, 2)
	h.reset()
	if h.len() != 0 {
		t.Errorf("len() after reset = %d, want 0", h.len())
	}
	h.bump(7, 1)
	if h.len() != 1 || h.descending()[0].sid != 7 {
		t.Error("highscoreSet did not behave correctly after reset")
	}
}
