package nsearch

// Sequence is an immutable, identified symbol string with optional
// per-symbol quality scores. Once constructed it is never mutated; it
// is owned by whatever constructed it, typically the Database or a
// per-query read buffer.
type Sequence struct {
	Identifier string
	Symbols    []byte
	Quality    []byte // optional, len(Quality) == len(Symbols) or 0
}

// NewSequence builds a Sequence with no quality information.
func NewSequence(identifier string, symbols []byte) Sequence {
	return Sequence{Identifier: identifier, Symbols: symbols}
}

// NewQualitySequence builds a Sequence carrying per-symbol quality
// scores, as produced by a FASTQ reader.
func NewQualitySequence(identifier string, symbols, quality []byte) Sequence {
	return Sequence{Identifier: identifier, Symbols: symbols, Quality: quality}
}

// Len returns the number of symbols in the sequence.
func (s Sequence) Len() int { return len(s.Symbols) }

// At returns the symbol at position i.
func (s Sequence) At(i int) byte { return s.Symbols[i] }
