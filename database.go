package nsearch

// DBConf carries the scoring and index-construction parameters used by
// a Database and the Engines built against it. Defaults follow
// spec.md §6. Modeled on the teacher's DBConf (dbconf.go) — a small,
// value-typed configuration struct with a DefaultDBConf — generalized
// from cablastp's compression thresholds to nsearch's aligner scoring.
type DBConf struct {
	KmerLength int

	MatchScore    int
	MismatchScore int

	ExtendGapOpen   int
	ExtendGapExtend int
	XDrop           int

	BandedBandwidth           int
	BandedInteriorGapOpen     int
	BandedInteriorGapExtend   int
	BandedTerminalGapOpen     int
	BandedTerminalGapExtend   int

	DefaultMinHSPLength int
	MaxHSPJoinDistance  int

	MaxAccepts int
	MaxRejects int
}

// DefaultDNAConf mirrors spec.md §6's default scoring parameters for DNA.
var DefaultDNAConf = DBConf{
	KmerLength: 8,

	MatchScore:    2,
	MismatchScore: -4,

	ExtendGapOpen:   -20,
	ExtendGapExtend: -2,
	XDrop:           32,

	BandedBandwidth:         16,
	BandedInteriorGapOpen:   -20,
	BandedInteriorGapExtend: -2,
	BandedTerminalGapOpen:   -2,
	BandedTerminalGapExtend: -1,

	DefaultMinHSPLength: 16,
	MaxHSPJoinDistance:  16,

	MaxAccepts: 1,
	MaxRejects: 8,
}

// minHSPLength returns min(DefaultMinHSPLength, queryLength/2) per spec.md §4.6.
func (c DBConf) minHSPLength(queryLength int) int {
	m := queryLength / 2
	if c.DefaultMinHSPLength < m {
		return c.DefaultMinHSPLength
	}
	return m
}

// Database is the k-mer inverted index over a reference collection: two
// flat, pointer-free arrays (spec.md §3) built once and thereafter
// read-only and safe to share across any number of concurrent Engines.
type Database struct {
	Alphabet   Alphabet
	KmerLength int
	Sequences  []Sequence

	// sequenceIdsOffset[k], sequenceIdsCount[k] slice into sequenceIds,
	// listing distinct sequence ids containing kmer k, ascending.
	sequenceIdsOffset []int32
	sequenceIdsCount  []int32
	sequenceIds       []int32

	// kmerOffset[s], kmerCount[s] slice into kmers, listing every kmer
	// (in sequence order, with duplicates) occurring in sequence s.
	kmerOffset []int32
	kmerCount  []int32
	kmers      []int32
}

// NewDatabase builds the two inverted arrays described in spec.md §3
// over sequences, following the two-pass algorithm of spec.md §4.2 (and
// original_source's Database constructor: a stats pass computing
// per-kmer counts via a per-sequence dedupe scratch array, then a fill
// pass populating the flat arrays from prefix-summed offsets).
//
// progress, if non-nil, is called at least every 500 sequences and on
// completion, with kind StatsCollection then Indexing.
func NewDatabase(alphabet Alphabet, kmerLength int, sequences []Sequence, progress ProgressFunc) (*Database, error) {
	if kmerLength <= 0 || pow(alphabet.Size(), kmerLength) <= 0 {
		return nil, wrapErrorf(ErrConfiguration, "kmer length %d is invalid for this alphabet", kmerLength)
	}
	numKmers := NumKmers(alphabet, kmerLength)
	if alphabet.Size() == 4 && kmerLength > 15 {
		return nil, wrapErrorf(ErrConfiguration, "DNA kmer length %d exceeds the maximum of 15 for 2-bit encoding", kmerLength)
	}

	db := &Database{
		Alphabet:   alphabet,
		KmerLength: kmerLength,
		Sequences:  sequences,
	}

	uniqueCount := make([]int32, numKmers)
	lastSeenSeqID := make([]int32, numKmers)
	for i := range lastSeenSeqID {
		lastSeenSeqID[i] = -1
	}

	totalKmers := 0
	report := func(kind ProgressKind, i, n int) {
		if progress != nil && (i%500 == 0 || i == n) {
			progress(kind, i, n)
		}
	}

	// Pass 1: stats.
	for sid, seq := range sequences {
		it := NewKmerIterator(alphabet, seq.Symbols, kmerLength)
		for {
			_, kmer, ok := it.Next()
			if !ok {
				break
			}
			totalKmers++
			if lastSeenSeqID[kmer] != int32(sid) {
				lastSeenSeqID[kmer] = int32(sid)
				uniqueCount[kmer]++
			}
		}
		report(StatsCollection, sid+1, len(sequences))
	}
	report(StatsCollection, len(sequences), len(sequences))

	// Exclusive prefix sum -> sequenceIdsOffset.
	db.sequenceIdsOffset = make([]int32, numKmers)
	db.sequenceIdsCount = make([]int32, numKmers)
	var running int32
	for k := 0; k < numKmers; k++ {
		db.sequenceIdsOffset[k] = running
		running += uniqueCount[k]
	}
	db.sequenceIds = make([]int32, running)

	db.kmerOffset = make([]int32, len(sequences))
	db.kmerCount = make([]int32, len(sequences))
	db.kmers = make([]int32, totalKmers)

	for i := range lastSeenSeqID {
		lastSeenSeqID[i] = -1
	}

	// Pass 2: fill.
	kmerTail := 0
	for sid, seq := range sequences {
		db.kmerOffset[sid] = int32(kmerTail)
		it := NewKmerIterator(alphabet, seq.Symbols, kmerLength)
		for {
			_, kmer, ok := it.Next()
			if !ok {
				break
			}
			db.kmers[kmerTail] = int32(kmer)
			kmerTail++
			db.kmerCount[sid]++

			if lastSeenSeqID[kmer] != int32(sid) {
				lastSeenSeqID[kmer] = int32(sid)
				slot := db.sequenceIdsOffset[kmer] + db.sequenceIdsCount[kmer]
				db.sequenceIds[slot] = int32(sid)
				db.sequenceIdsCount[kmer]++
			}
		}
		report(Indexing, sid+1, len(sequences))
	}
	report(Indexing, len(sequences), len(sequences))

	return db, nil
}

// sequenceIDsForKmer returns the (ascending, deduplicated) sequence ids
// containing kmer.
func (db *Database) sequenceIDsForKmer(kmer int) []int32 {
	off := db.sequenceIdsOffset[kmer]
	n := db.sequenceIdsCount[kmer]
	return db.sequenceIds[off : off+n]
}

// kmersForSequence returns the (in order, with duplicates) kmers
// occurring in sequence sid. Windows holding an ambiguous symbol are
// not stored, so an index within the returned slice equals the
// occurrence's position in the sequence only when no earlier window
// was skipped.
func (db *Database) kmersForSequence(sid int) []int32 {
	off := db.kmerOffset[sid]
	n := db.kmerCount[sid]
	return db.kmers[off : off+n]
}
