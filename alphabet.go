package nsearch

// Alphabet describes a symbol set over which sequences, k-mers and
// alignments are defined. Match is not pure equality: ambiguity codes
// (e.g. DNA's 'N') match permissively.
type Alphabet interface {
	// Match reports whether two symbols are considered equivalent for
	// scoring and identity purposes.
	Match(a, b byte) bool

	// IsAmbiguous reports whether a symbol is an ambiguity code, which
	// invalidates any k-mer window containing it.
	IsAmbiguous(a byte) bool

	// Encode returns the small non-negative integer used to pack a into
	// a k-mer, or -1 if a cannot be encoded (ambiguous or invalid).
	Encode(a byte) int

	// Size is the number of distinct encodable symbols, i.e. the base
	// of the k-mer numbering system.
	Size() int
}

// dnaAlphabet is the nucleotide alphabet {A,C,G,T} with 'N' (and other
// IUPAC ambiguity codes) treated as a wildcard that matches anything but
// cannot itself be encoded into a k-mer.
type dnaAlphabet struct{}

// DNA is the default nucleotide alphabet.
var DNA Alphabet = dnaAlphabet{}

var dnaCode = [256]int8{}

func init() {
	for i := range dnaCode {
		dnaCode[i] = -1
	}
	dnaCode['A'] = 0
	dnaCode['C'] = 1
	dnaCode['G'] = 2
	dnaCode['T'] = 3
	dnaCode['a'] = 0
	dnaCode['c'] = 1
	dnaCode['g'] = 2
	dnaCode['t'] = 3
}

func (dnaAlphabet) Match(a, b byte) bool {
	a, b = upper(a), upper(b)
	if a == b {
		return true
	}
	if (dnaAlphabet{}).IsAmbiguous(a) || (dnaAlphabet{}).IsAmbiguous(b) {
		// Ambiguity codes (N and friends) are wildcards.
		return true
	}
	return false
}

func (dnaAlphabet) IsAmbiguous(a byte) bool {
	return dnaCode[upper(a)] < 0
}

func (dnaAlphabet) Encode(a byte) int {
	return int(dnaCode[upper(a)])
}

func (dnaAlphabet) Size() int { return 4 }

// proteinAlphabet is the 20 standard amino-acid alphabet. Ambiguity/unusual
// codes (B, J, O, U, X, Z, ...) are wildcards, following the same
// match-permissively rule as DNA's N.
type proteinAlphabet struct{}

// Protein is the default amino-acid alphabet.
var Protein Alphabet = proteinAlphabet{}

const proteinResidues = "ACDEFGHIKLMNPQRSTVWY"

var proteinCode = [256]int8{}

func init() {
	for i := range proteinCode {
		proteinCode[i] = -1
	}
	for i := 0; i < len(proteinResidues); i++ {
		proteinCode[proteinResidues[i]] = int8(i)
	}
}

func (proteinAlphabet) Match(a, b byte) bool {
	a, b = upper(a), upper(b)
	if a == b {
		return true
	}
	if (proteinAlphabet{}).IsAmbiguous(a) || (proteinAlphabet{}).IsAmbiguous(b) {
		return true
	}
	return false
}

func (proteinAlphabet) IsAmbiguous(a byte) bool {
	return proteinCode[upper(a)] < 0
}

func (proteinAlphabet) Encode(a byte) int {
	return int(proteinCode[upper(a)])
}

func (proteinAlphabet) Size() int { return len(proteinResidues) }

func upper(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - ('a' - 'A')
	}
	return b
}
