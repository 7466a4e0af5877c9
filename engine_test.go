package nsearch

import (
	"fmt"
	"strings"
	"testing"
)

func TestEngineQueryFindsExactMatch(t *testing.T) {
	conf := DefaultDNAConf
	conf.KmerLength = 4
	conf.DefaultMinHSPLength = 8
	conf.MaxAccepts = 1
	conf.MaxRejects = 8

	sequences := []Sequence{
		NewSequence("target0", []byte("GGGGACGTACGTACGTGGGG")),
		NewSequence("unrelated", []byte("TTTTTTTTTTTTTTTTTTTT")),
	}
	db, err := NewDatabase(DNA, conf.KmerLength, sequences, nil)
	if err != nil {
		t.Fatalf("NewDatabase: %v", err)
	}

	engine := NewEngine(DNA, conf)
	query := NewSequence("query", []byte("ACGTACGTACGT"))

	hits := engine.Query(db, query, 0.9)
	if len(hits) != 1 {
		t.Fatalf("got %d hits, want 1: %v", len(hits), hits)
	}
	hit := hits[0]
	if hit.TargetID != 0 {
		t.Errorf("TargetID = %d, want 0", hit.TargetID)
	}
	if hit.Identity < 0.99 {
		t.Errorf("Identity = %f, want ~1.0 for an exact substring match", hit.Identity)
	}
}

func TestEngineQueryRejectsBelowMinIdentity(t *testing.T) {
	conf := DefaultDNAConf
	conf.KmerLength = 4
	conf.DefaultMinHSPLength = 8

	sequences := []Sequence{
		NewSequence("target0", []byte("GGGGACGTACGTACGTGGGG")),
	}
	db, err := NewDatabase(DNA, conf.KmerLength, sequences, nil)
	if err != nil {
		t.Fatalf("NewDatabase: %v", err)
	}

	engine := NewEngine(DNA, conf)
	query := NewSequence("query", []byte("ACGTACGTACGT"))

	hits := engine.Query(db, query, 1.01) // unreachable threshold
	if len(hits) != 0 {
		t.Errorf("got %d hits, want 0 when minIdentity is unreachable", len(hits))
	}
}

func TestEngineReusesScratchAcrossQueries(t *testing.T) {
	conf := DefaultDNAConf
	conf.KmerLength = 4
	conf.DefaultMinHSPLength = 8

	sequences := []Sequence{
		NewSequence("target0", []byte("GGGGACGTACGTACGTGGGG")),
	}
	db, err := NewDatabase(DNA, conf.KmerLength, sequences, nil)
	if err != nil {
		t.Fatalf("NewDatabase: %v", err)
	}

	engine := NewEngine(DNA, conf)
	query := NewSequence("query", []byte("ACGTACGTACGT"))

	first := engine.Query(db, query, 0.9)
	second := engine.Query(db, query, 0.9)
	if len(first) != len(second) {
		t.Fatalf("query results differ across repeated calls on the same engine: %v vs %v", first, second)
	}
	for i := range first {
		if first[i].TargetID != second[i].TargetID || first[i].Score != second[i].Score {
			t.Errorf("hit %d differs across calls: %+v vs %+v", i, first[i], second[i])
		}
	}
}

// HSP chain ordering is governed by isOverlapping/distanceTo and a
// crossed-order check, not a total order; these cases exercise pairs whose qStart values are equal
// and whose tStart values differ, the situation where a lexicographic
// comparator and the original's &&-based one would disagree.
func TestHSPOverlapAndDistanceWithEqualQStart(t *testing.T) {
	a := hsp{a1: 10, a2: 20, b1: 5, b2: 15}
	b := hsp{a1: 10, a2: 20, b1: 30, b2: 40}

	if !a.isOverlapping(b) {
		t.Error("HSPs sharing a1..a2 should be reported as overlapping on the query axis")
	}

	c := hsp{a1: 50, a2: 60, b1: 45, b2: 55}
	if c.isOverlapping(a) {
		t.Error("HSPs with disjoint query and target ranges should not overlap")
	}
	if d := c.distanceTo(a); d <= 0 {
		t.Errorf("distanceTo should be positive for disjoint HSPs, got %f", d)
	}
}

func TestCalculateIdentityExcludesTerminalIndels(t *testing.T) {
	c := NewCigar()
	c.AddN(CigarInsertion, 2) // leading overhang, excluded
	c.AddN(CigarMatch, 8)
	c.AddN(CigarMismatch, 2)
	c.AddN(CigarDeletion, 1) // trailing overhang, excluded

	got := calculateIdentity(c)
	want := 8.0 / 10.0
	if got != want {
		t.Errorf("calculateIdentity = %f, want %f", got, want)
	}
}

// Every target here is an identical copy of the query and shares all
// of its k-mers, so the highscore set is offered far more candidates
// than maxAccepts+maxRejects allows; an unreachable
// minIdentity forces every one of them to be rejected. The pipeline
// must give up after maxRejects rejections rather than walking the
// whole candidate pool.
func TestEngineQueryBoundsCandidatesProcessedByAcceptsPlusRejects(t *testing.T) {
	conf := DefaultDNAConf
	conf.KmerLength = 4
	conf.DefaultMinHSPLength = 8
	conf.MaxAccepts = 2
	conf.MaxRejects = 5

	const numCandidates = 50
	sequences := make([]Sequence, numCandidates)
	for i := range sequences {
		sequences[i] = NewSequence(fmt.Sprintf("target%d", i), []byte("ACGTACGTACGTACGT"))
	}
	db, err := NewDatabase(DNA, conf.KmerLength, sequences, nil)
	if err != nil {
		t.Fatalf("NewDatabase: %v", err)
	}

	engine := NewEngine(DNA, conf)
	query := NewSequence("query", []byte("ACGTACGTACGTACGT"))

	hits := engine.Query(db, query, 1.5) // unreachable identity: every candidate is rejected
	if len(hits) != 0 {
		t.Fatalf("got %d hits, want 0 when minIdentity is unreachable", len(hits))
	}

	bound := conf.MaxAccepts + conf.MaxRejects
	if engine.CandidatesProcessed > bound {
		t.Errorf("CandidatesProcessed = %d, want at most maxAccepts+maxRejects = %d", engine.CandidatesProcessed, bound)
	}
	if engine.CandidatesProcessed >= numCandidates {
		t.Errorf("CandidatesProcessed = %d, want fewer than the %d plausible candidates in the database", engine.CandidatesProcessed, numCandidates)
	}
}

func TestEngineQueryIdenticalSixteenBaseSequenceYieldsFullMatch(t *testing.T) {
	conf := DefaultDNAConf
	sequences := []Sequence{NewSequence("target0", []byte("ACGTACGTACGTACGT"))}
	db, err := NewDatabase(DNA, conf.KmerLength, sequences, nil)
	if err != nil {
		t.Fatalf("NewDatabase: %v", err)
	}

	engine := NewEngine(DNA, conf)
	query := NewSequence("query", []byte("ACGTACGTACGTACGT"))

	hits := engine.Query(db, query, 0.8)
	if len(hits) != 1 {
		t.Fatalf("got %d hits, want 1: %v", len(hits), hits)
	}
	hit := hits[0]
	if hit.Identity < 0.999 {
		t.Errorf("Identity = %f, want ~1.0", hit.Identity)
	}
	if got := hit.Cigar.String(); got != "16M" {
		t.Errorf("CIGAR = %q, want %q", got, "16M")
	}
}

func TestEngineQuerySingleMismatchSplitsCigarAroundIt(t *testing.T) {
	conf := DefaultDNAConf
	sequences := []Sequence{NewSequence("target0", []byte("ACGTACGTTCGTACGT"))} // mismatch at position 9
	db, err := NewDatabase(DNA, conf.KmerLength, sequences, nil)
	if err != nil {
		t.Fatalf("NewDatabase: %v", err)
	}

	engine := NewEngine(DNA, conf)
	query := NewSequence("query", []byte("ACGTACGTACGTACGT"))

	hits := engine.Query(db, query, 0.8)
	if len(hits) != 1 {
		t.Fatalf("got %d hits, want 1: %v", len(hits), hits)
	}
	hit := hits[0]
	wantIdentity := 15.0 / 16.0
	if diff := hit.Identity - wantIdentity; diff < -1e-9 || diff > 1e-9 {
		t.Errorf("Identity = %f, want %f", hit.Identity, wantIdentity)
	}
	if got := hit.Cigar.String(); got != "8M1X7M" {
		t.Errorf("CIGAR = %q, want %q", got, "8M1X7M")
	}
}

func TestEngineQuerySingleTargetInsertionProducesOneDeletionRun(t *testing.T) {
	conf := DefaultDNAConf
	sequences := []Sequence{NewSequence("target0", []byte("ACGTACGTAACGTACGT"))} // insertion at position 9
	db, err := NewDatabase(DNA, conf.KmerLength, sequences, nil)
	if err != nil {
		t.Fatalf("NewDatabase: %v", err)
	}

	engine := NewEngine(DNA, conf)
	query := NewSequence("query", []byte("ACGTACGTACGTACGT"))

	hits := engine.Query(db, query, 0.8)
	if len(hits) != 1 {
		t.Fatalf("got %d hits, want 1: %v", len(hits), hits)
	}
	hit := hits[0]
	wantIdentity := 16.0 / 17.0
	if diff := hit.Identity - wantIdentity; diff < -0.02 || diff > 0.02 {
		t.Errorf("Identity = %f, want ~%f", hit.Identity, wantIdentity)
	}

	var deletionRuns int
	for _, en := range hit.Cigar.Entries() {
		if en.Op == CigarDeletion {
			deletionRuns++
			if en.Count != 1 {
				t.Errorf("deletion run has count %d, want 1: %v", en.Count, hit.Cigar.Entries())
			}
		}
	}
	if deletionRuns != 1 {
		t.Errorf("got %d deletion runs, want exactly 1: %v", deletionRuns, hit.Cigar.Entries())
	}
}

func TestEngineQueryNoSharedKmerYieldsNoHits(t *testing.T) {
	conf := DefaultDNAConf
	sequences := []Sequence{NewSequence("target0", []byte("CCCCCCCC"))}
	db, err := NewDatabase(DNA, conf.KmerLength, sequences, nil)
	if err != nil {
		t.Fatalf("NewDatabase: %v", err)
	}

	engine := NewEngine(DNA, conf)
	query := NewSequence("query", []byte("AAAAAAAA"))

	hits := engine.Query(db, query, 0.5)
	if len(hits) != 0 {
		t.Errorf("got %d hits, want 0 when query and target share no 8-mer", len(hits))
	}
}

// The seeds start at the first ACGT of the target, and the backward
// extension has no query left to consume, so the leading NNN flank is
// left to the lead banded stitch, which emits it as a terminal
// deletion run. The forward extension matches the trailing NNN as
// wildcards and runs out of target one symbol before the query ends,
// so the tail stitch emits a terminal insertion run.
// calculateIdentity must exclude both.
func TestEngineQueryExcludesTerminalAmbiguousFlanksFromIdentity(t *testing.T) {
	conf := DefaultDNAConf
	sequences := []Sequence{NewSequence("target0", []byte("NNNACGTACGTACGTACGTNNN"))}
	db, err := NewDatabase(DNA, conf.KmerLength, sequences, nil)
	if err != nil {
		t.Fatalf("NewDatabase: %v", err)
	}

	engine := NewEngine(DNA, conf)
	query := NewSequence("query", []byte("ACGTACGTACGTACGTACGT"))

	hits := engine.Query(db, query, 0.8)
	if len(hits) != 1 {
		t.Fatalf("got %d hits, want 1: %v", len(hits), hits)
	}
	hit := hits[0]
	if hit.Identity < 0.999 {
		t.Errorf("Identity = %f, want ~1.0 once the N flanks are excluded as terminal indel runs", hit.Identity)
	}

	entries := hit.Cigar.Entries()
	if len(entries) < 2 {
		t.Fatalf("CIGAR has too few runs to carry leading and trailing indels: %v", entries)
	}
	first, last := entries[0], entries[len(entries)-1]
	isIndel := func(op CigarOp) bool { return op == CigarInsertion || op == CigarDeletion }
	if !isIndel(first.Op) || !isIndel(last.Op) {
		t.Errorf("expected a leading and a trailing terminal indel run, got %v", entries)
	}
}

// Ten of a hundred targets are exact copies of the query and so tie on
// their initial k-mer counter; the other ninety share no k-mer with it
// at all. With maxAccepts capped below the number of qualifying
// candidates, the engine must stop at exactly maxAccepts hits, drawn
// in descending-counter (here, tied-counter-ascending-sid) order.
func TestEngineQueryCapsHitsAtMaxAcceptsInDescendingOrder(t *testing.T) {
	conf := DefaultDNAConf
	conf.MaxAccepts = 5
	conf.MaxRejects = 8

	const numGood = 10
	const numTotal = 100
	sequences := make([]Sequence, numTotal)
	for i := 0; i < numGood; i++ {
		sequences[i] = NewSequence(fmt.Sprintf("target%d", i), []byte("ACGTACGTACGTACGTACGT"))
	}
	for i := numGood; i < numTotal; i++ {
		sequences[i] = NewSequence(fmt.Sprintf("target%d", i), []byte(strings.Repeat("T", 20)))
	}
	db, err := NewDatabase(DNA, conf.KmerLength, sequences, nil)
	if err != nil {
		t.Fatalf("NewDatabase: %v", err)
	}

	engine := NewEngine(DNA, conf)
	query := NewSequence("query", []byte("ACGTACGTACGTACGTACGT"))

	hits := engine.Query(db, query, 0.9)
	if len(hits) != conf.MaxAccepts {
		t.Fatalf("got %d hits, want exactly maxAccepts = %d: %v", len(hits), conf.MaxAccepts, hits)
	}
	for i, hit := range hits {
		if hit.TargetID != i {
			t.Errorf("hits[%d].TargetID = %d, want %d (tied candidates break ascending by sid)", i, hit.TargetID, i)
		}
		if hit.Identity < 0.9 {
			t.Errorf("hits[%d].Identity = %f, want >= 0.9", i, hit.Identity)
		}
	}
}

func TestScoreCigarTreatsOnlyEndsAsTerminal(t *testing.T) {
	conf := DefaultDNAConf
	c := NewCigar()
	c.AddN(CigarInsertion, 1) // terminal (first run)
	c.AddN(CigarMatch, 4)
	c.AddN(CigarDeletion, 1) // interior (not first or last run)
	c.AddN(CigarMatch, 4)

	want := conf.BandedTerminalGapOpen + conf.BandedTerminalGapExtend +
		8*conf.MatchScore +
		conf.BandedInteriorGapOpen + conf.BandedInteriorGapExtend
	if got := scoreCigar(c, conf); got != want {
		t.Errorf("scoreCigar = %d, want %d", got, want)
	}
}
