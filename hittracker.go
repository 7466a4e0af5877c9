package nsearch

import "sort"

// Seed is a k-mer hit, or a merged run of overlapping/abutting hits
// along a single diagonal: (qpos, tpos, length).
type Seed struct {
	QPos, TPos, Length int
}

// HitTracker collects (qpos, tpos, length) seed hits and merges entries
// that fall on the same diagonal (qpos - tpos constant) and overlap or
// abut into a single longer seed, per spec.md §4.5 and §9's
// duplicate-seed-emission note. It is reused across candidates within
// one Engine.
type HitTracker struct {
	byDiagonal map[int][]Seed
	dirty      []int // diagonals touched since the last reset, for cheap clearing
}

// NewHitTracker returns an empty HitTracker.
func NewHitTracker() *HitTracker {
	return &HitTracker{byDiagonal: make(map[int][]Seed)}
}

// Reset clears the tracker for reuse against the next candidate.
func (h *HitTracker) Reset() {
	for _, d := range h.dirty {
		delete(h.byDiagonal, d)
	}
	h.dirty = h.dirty[:0]
}

// AddHit records a k-mer hit at (qpos, tpos) of the given length,
// merging it into the last seed on its diagonal if they overlap or
// abut. Callers must present hits for a fixed diagonal in non-decreasing
// qpos order, which holds because query k-mers are enumerated in
// position-ascending order (spec.md §4.6 step 1).
func (h *HitTracker) AddHit(qpos, tpos, length int) {
	diag := qpos - tpos
	list, ok := h.byDiagonal[diag]
	if !ok {
		h.dirty = append(h.dirty, diag)
	}
	if n := len(list); n > 0 {
		last := &list[n-1]
		if qpos <= last.QPos+last.Length {
			if end := qpos + length; end > last.QPos+last.Length {
				last.Length = end - last.QPos
			}
			return
		}
	}
	h.byDiagonal[diag] = append(list, Seed{QPos: qpos, TPos: tpos, Length: length})
}

// Seeds returns the merged seeds sorted by QPos ascending, ties broken
// by TPos.
func (h *HitTracker) Seeds() []Seed {
	var out []Seed
	for _, list := range h.byDiagonal {
		out = append(out, list...)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].QPos != out[j].QPos {
			return out[i].QPos < out[j].QPos
		}
		return out[i].TPos < out[j].TPos
	})
	return out
}
