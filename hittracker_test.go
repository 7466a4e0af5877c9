package nsearch

import "testing"

func TestHitTrackerMergesAbuttingHitsOnADiagonal(t *testing.T) {
	ht := NewHitTracker()
	// Three 3-mer hits on the same diagonal (qpos-tpos == -5): the
	// second overlaps the first by 2 and the third abuts the second, so
	// they should merge into a single seed covering qpos 0..6 (length 7).
	ht.AddHit(0, 5, 3)
	ht.AddHit(1, 6, 3)
	ht.AddHit(4, 9, 3)

	seeds := ht.Seeds()
	if len(seeds) != 1 {
		t.Fatalf("got %d seeds, want 1 merged seed: %v", len(seeds), seeds)
	}
	want := Seed{QPos: 0, TPos: 5, Length: 7}
	if seeds[0] != want {
		t.Errorf("merged seed = %+v, want %+v", seeds[0], want)
	}
}

func TestHitTrackerKeepsDistantHitsSeparate(t *testing.T) {
	ht := NewHitTracker()
	ht.AddHit(0, 0, 3)
	ht.AddHit(20, 20, 3) // same diagonal, but far away: no merge
	ht.AddHit(0, 10, 3)  // different diagonal entirely

	seeds := ht.Seeds()
	if len(seeds) != 3 {
		t.Fatalf("got %d seeds, want 3: %v", len(seeds), seeds)
	}
	// Seeds are sorted by QPos ascending, ties by TPos.
	if seeds[0].QPos != 0 || seeds[0].TPos != 0 {
		t.Errorf("seeds[0] = %+v, want QPos=0 TPos=0", seeds[0])
	}
	if seeds[1].QPos != 0 || seeds[1].TPos != 10 {
		t.Errorf("seeds[1] = %+v, want QPos=0 TPos=10", seeds[1])
	}
	if seeds[2].QPos != 20 {
		t.Errorf("seeds[2] = %+v, want QPos=20", seeds[2])
	}
}

func TestHitTrackerResetClearsState(t *testing.T) {
	ht := NewHitTracker()
	ht.AddHit(0, 0, 3)
	ht.Reset()
	if len(ht.Seeds()) != 0 {
		t.Error("expected no seeds after Reset")
	}
	// A diagonal touched before Reset must not leak stale hits into a
	// later merge decision.
	ht.AddHit(10, 10, 3)
	seeds := ht.Seeds()
	if len(seeds) != 1 || seeds[0].QPos != 10 {
		t.Errorf("seeds after reuse = %v, want a single seed at QPos=10", seeds)
	}
}
