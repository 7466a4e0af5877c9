package nsearch

import (
	"math"
	"sort"
)

// Hit is one accepted query/target alignment returned by an Engine.
type Hit struct {
	Query    Sequence
	TargetID int
	Target   Sequence
	Cigar    Cigar
	Score    int
	Identity float64
}

// hsp is a high-scoring segment pair: an extended seed, with inclusive
// endpoints in both sequences and its own CIGAR. Grounded on
// original_source's Database.h HSP class.
type hsp struct {
	a1, a2 int
	b1, b2 int
	cigar  Cigar
}

func (h hsp) length() int {
	da, db := h.a2-h.a1, h.b2-h.b1
	if da > db {
		return da + 1
	}
	return db + 1
}

func (h hsp) isOverlapping(other hsp) bool {
	return (h.a1 <= other.a2 && other.a1 <= h.a2) ||
		(h.b1 <= other.b2 && other.b1 <= h.b2)
}

// distanceTo mirrors original_source's HSP::DistanceTo, including its
// asymmetric treatment of the b axis (the else branch measures against
// other.b2 rather than other.b1).
func (h hsp) distanceTo(other hsp) float64 {
	var x, y int
	if h.a1 > other.a2 {
		x = h.a1 - other.a2
	} else {
		x = other.a1 - h.a2
	}
	if h.b1 > other.b2 {
		y = h.b1 - other.b2
	} else {
		y = other.b2 - h.b2
	}
	return math.Sqrt(float64(x*x + y*y))
}

// Engine runs queries against an immutable Database, owning every
// mutable scratch buffer the search pipeline needs: the hit counter,
// bounded highscore set, per-candidate HitTracker, and the two
// aligners. None of this state is safe to share across goroutines;
// callers run one Engine per worker, all pointing at the same
// Database (spec.md §5). Grounded on the teacher's per-worker scratch
// ownership in reduced_compression.go, generalized from a compression
// worker's arena to a search worker's buffers.
type Engine struct {
	alphabet Alphabet
	conf     DBConf

	hits    []int32
	touched []int32

	highscores *highscoreSet
	hitTracker *HitTracker
	extend     *ExtendAligner
	banded     *BandedAligner

	hspBuf []hsp

	// CandidatesProcessed counts how many highscore candidates the most
	// recent Query call examined via tryCandidate. Bounded by
	// MaxAccepts+MaxRejects regardless of how many sequences in the
	// database share a k-mer with the query, since highscoreSet itself
	// never holds more than that many entries.
	CandidatesProcessed int
}

// NewEngine returns an Engine configured for alphabet and conf, with
// empty scratch buffers grown lazily on first use.
func NewEngine(alphabet Alphabet, conf DBConf) *Engine {
	return &Engine{
		alphabet:   alphabet,
		conf:       conf,
		highscores: newHighscoreSet(conf.MaxAccepts + conf.MaxRejects),
		hitTracker: NewHitTracker(),
		extend:     NewExtendAligner(alphabet, conf),
		banded:     NewBandedAligner(alphabet, conf),
	}
}

func (e *Engine) ensureHits(n int) {
	if len(e.hits) >= n {
		return
	}
	grown := make([]int32, n)
	copy(grown, e.hits)
	e.hits = grown
}

func (e *Engine) resetHits() {
	for _, sid := range e.touched {
		e.hits[sid] = 0
	}
	e.touched = e.touched[:0]
}

// Query runs the full candidate-highscoring, HSP-construction,
// chain-join and stitching pipeline of spec.md §4.6 for one query
// against db, returning accepted hits in descending-counter order.
func (e *Engine) Query(db *Database, query Sequence, minIdentity float64) []Hit {
	e.ensureHits(len(db.Sequences))
	e.resetHits()
	e.highscores.reset()
	e.CandidatesProcessed = 0

	minHSPLength := e.conf.minHSPLength(query.Len())

	// Step 1: candidate highscoring.
	it := NewKmerIterator(e.alphabet, query.Symbols, db.KmerLength)
	for {
		_, kmer, ok := it.Next()
		if !ok {
			break
		}
		for _, sid := range db.sequenceIDsForKmer(kmer) {
			if e.hits[sid] == 0 {
				e.touched = append(e.touched, sid)
			}
			e.hits[sid]++
			e.highscores.bump(sid, e.hits[sid])
		}
	}

	var out []Hit
	numHits, numRejects := 0, 0

	for _, cand := range e.highscores.descending() {
		seqIdx := int(cand.sid)
		target := db.Sequences[seqIdx]

		e.CandidatesProcessed++
		accepted, hit := e.tryCandidate(db, query, target, seqIdx, minHSPLength, minIdentity)
		if accepted {
			numHits++
			out = append(out, hit)
			if numHits >= e.conf.MaxAccepts {
				break
			}
		} else {
			numRejects++
			if numRejects >= e.conf.MaxRejects {
				break
			}
		}
	}

	return out
}

// tryCandidate runs step 2 of the pipeline for a single candidate
// target: seed re-enumeration, HSP construction, greedy chaining, and
// final stitched alignment, reporting whether the result clears
// minIdentity.
func (e *Engine) tryCandidate(db *Database, query, target Sequence, targetID int, minHSPLength int, minIdentity float64) (bool, Hit) {
	e.hitTracker.Reset()

	targetKmers := db.kmersForSequence(targetID)

	// The slice skips windows holding ambiguous symbols, so each entry's
	// sequence position is taken from the iterator rather than its index.
	targetPositions := make([]int, 0, len(targetKmers))
	tit := NewKmerIterator(e.alphabet, target.Symbols, db.KmerLength)
	for {
		tpos, _, ok := tit.Next()
		if !ok {
			break
		}
		targetPositions = append(targetPositions, tpos)
	}

	it := NewKmerIterator(e.alphabet, query.Symbols, db.KmerLength)
	for {
		qpos, kmer, ok := it.Next()
		if !ok {
			break
		}
		for i, tk := range targetKmers {
			if int(tk) == kmer {
				e.hitTracker.AddHit(qpos, targetPositions[i], db.KmerLength)
			}
		}
	}

	e.hspBuf = e.hspBuf[:0]
	for _, seed := range e.hitTracker.Seeds() {
		a1, a2 := seed.QPos, seed.QPos+seed.Length-1
		b1, b2 := seed.TPos, seed.TPos+seed.Length-1

		_, leftA, leftB, leftCigar := e.extend.Extend(query, target, a1, b1, Backward, true)
		if !leftCigar.Empty() {
			a1, b1 = leftA, leftB
		}

		_, rightA, rightB, rightCigar := e.extend.Extend(query, target, a2+1, b2+1, Forward, true)
		if !rightCigar.Empty() {
			a2, b2 = rightA, rightB
		}

		h := hsp{a1: a1, a2: a2, b1: b1, b2: b2}
		if h.length() < minHSPLength {
			continue
		}

		middle := NewCigar()
		for s1, s2 := seed.QPos, seed.TPos; s1 < seed.QPos+seed.Length && s2 < seed.TPos+seed.Length; s1, s2 = s1+1, s2+1 {
			if e.alphabet.Match(query.Symbols[s1], target.Symbols[s2]) {
				middle.Add(CigarMatch)
			} else {
				middle.Add(CigarMismatch)
			}
		}
		h.cigar = Plus(Plus(leftCigar, middle), rightCigar)
		e.hspBuf = append(e.hspBuf, h)
	}

	if len(e.hspBuf) == 0 {
		return false, Hit{}
	}

	sort.Slice(e.hspBuf, func(i, j int) bool {
		return e.hspBuf[i].length() > e.hspBuf[j].length()
	})

	maxJoinDistance := float64(e.conf.MaxHSPJoinDistance)
	var chain []hsp
	for _, candidate := range e.hspBuf {
		overlaps := false
		for _, c := range chain {
			// A member that lies before the candidate on one axis and after
			// it on the other would break co-monotonic stitching.
			crossed := (candidate.a1 < c.a1) != (candidate.b1 < c.b1)
			if candidate.isOverlapping(c) || crossed {
				overlaps = true
				break
			}
		}
		if overlaps {
			continue
		}

		joinable := len(chain) == 0
		if !joinable {
			for _, c := range chain {
				if candidate.distanceTo(c) <= maxJoinDistance {
					joinable = true
					break
				}
			}
		}
		if joinable {
			chain = append(chain, candidate)
		}
	}

	if len(chain) == 0 {
		return false, Hit{}
	}

	// The chain members are mutually non-overlapping and co-monotonic
	// by construction (isOverlapping and the crossed-order check are
	// applied against every existing member before a join), so sorting
	// by qStart gives the stitching order.
	sort.Slice(chain, func(i, j int) bool { return chain[i].a1 < chain[j].a1 })

	alignment := NewCigar()
	first := chain[0]
	_, leadCigar := e.banded.Align(query, target, first.a1, first.b1, 0, 0, Backward, true)
	alignment.Append(leadCigar)

	for i := 0; i < len(chain)-1; i++ {
		current, next := chain[i], chain[i+1]
		alignment.Append(current.cigar)
		_, gapCigar := e.banded.Align(query, target, current.a2+1, current.b2+1, next.a1, next.b1, Forward, true)
		alignment.Append(gapCigar)
	}

	last := chain[len(chain)-1]
	alignment.Append(last.cigar)
	_, tailCigar := e.banded.Align(query, target, last.a2+1, last.b2+1, query.Len(), target.Len(), Forward, true)
	alignment.Append(tailCigar)

	identity := calculateIdentity(alignment)
	if identity < minIdentity {
		return false, Hit{}
	}

	return true, Hit{
		Query:    query,
		TargetID: targetID,
		Target:   target,
		Cigar:    alignment,
		Score:    scoreCigar(alignment, e.conf),
		Identity: identity,
	}
}

// calculateIdentity computes matches/columns from cigar, excluding a
// single leading and trailing indel run if present, per spec.md §4.6
// step 5 and original_source's Database::CalculateIdentity.
func calculateIdentity(cigar Cigar) float64 {
	entries := cigar.Entries()
	var cols, matches int
	for i, en := range entries {
		if i == 0 && (en.Op == CigarInsertion || en.Op == CigarDeletion) {
			continue
		}
		if i == len(entries)-1 && (en.Op == CigarInsertion || en.Op == CigarDeletion) {
			continue
		}
		cols += en.Count
		if en.Op == CigarMatch {
			matches += en.Count
		}
	}
	if cols == 0 {
		return 0
	}
	return float64(matches) / float64(cols)
}

// scoreCigar recomputes the affine-gap score of a final stitched
// alignment from its CIGAR, treating a leading or trailing indel run
// as terminal and any other indel run as interior, matching the cost
// model the banded aligner used to build it.
func scoreCigar(cigar Cigar, conf DBConf) int {
	entries := cigar.Entries()
	score := 0
	for i, en := range entries {
		switch en.Op {
		case CigarMatch:
			score += en.Count * conf.MatchScore
		case CigarMismatch:
			score += en.Count * conf.MismatchScore
		case CigarInsertion, CigarDeletion:
			terminal := i == 0 || i == len(entries)-1
			if terminal {
				score += conf.BandedTerminalGapOpen + en.Count*conf.BandedTerminalGapExtend
			} else {
				score += conf.BandedInteriorGapOpen + en.Count*conf.BandedInteriorGapExtend
			}
		}
	}
	return score
}
