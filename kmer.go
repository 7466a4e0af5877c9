package nsearch

// KmerIterator lazily enumerates (position, encoded-kmer) pairs over a
// sequence for a given k-mer length. It is single-pass and
// non-restartable. Windows containing an ambiguous symbol are skipped;
// the iterator resynchronizes once kmerLength consecutive valid symbols
// have been seen again.
type KmerIterator struct {
	alphabet   Alphabet
	symbols    []byte
	kmerLength int
	base       int

	pos      int // next symbol index to consume
	valid    int // count of consecutive valid (non-ambiguous) symbols seen
	kmer     int // rolling encoded value of the last kmerLength valid symbols
	windowAt int // sequence position of the first symbol in the current window
}

// NewKmerIterator returns an iterator over seq's k-mers of the given
// length, using alphabet to validate and encode symbols.
func NewKmerIterator(alphabet Alphabet, seq []byte, kmerLength int) *KmerIterator {
	return &KmerIterator{
		alphabet:   alphabet,
		symbols:    seq,
		kmerLength: kmerLength,
		base:       alphabet.Size(),
	}
}

// Next returns the next (position, kmer) pair and true, or (0, 0, false)
// once the sequence is exhausted.
func (it *KmerIterator) Next() (pos int, kmer int, ok bool) {
	for it.pos < len(it.symbols) {
		sym := it.symbols[it.pos]
		idx := it.pos
		it.pos++

		if it.alphabet.IsAmbiguous(sym) {
			it.valid = 0
			it.kmer = 0
			continue
		}

		code := it.alphabet.Encode(sym)
		if it.valid < it.kmerLength {
			it.kmer = it.kmer*it.base + code
			it.valid++
			if it.valid == it.kmerLength {
				it.windowAt = idx - it.kmerLength + 1
				return it.windowAt, it.kmer, true
			}
			continue
		}

		// Slide the window by one symbol: drop the highest-order digit,
		// shift, and bring in the new one.
		highOrder := pow(it.base, it.kmerLength-1)
		it.kmer = (it.kmer%highOrder)*it.base + code
		it.windowAt = idx - it.kmerLength + 1
		return it.windowAt, it.kmer, true
	}
	return 0, 0, false
}

// pow returns base^exp for non-negative integer exp.
func pow(base, exp int) int {
	result := 1
	for i := 0; i < exp; i++ {
		result *= base
	}
	return result
}

// NumKmers returns the size of the k-mer namespace [0, U) for alphabet
// and the given k-mer length, i.e. U = alphabet.Size()^kmerLength.
func NumKmers(alphabet Alphabet, kmerLength int) int {
	return pow(alphabet.Size(), kmerLength)
}
