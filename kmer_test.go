package nsearch

import "testing"

func TestKmerIteratorBasic(t *testing.T) {
	// "ACGT" with kmerLength 2: AC, CG, GT -> 0001, 0110, 1011 in binary
	// (two bits per symbol), i.e. 1, 6, 11.
	it := NewKmerIterator(DNA, []byte("ACGT"), 2)

	type want struct{ pos, kmer int }
	wants := []want{
		{0, 0*4 + 1}, // AC
		{1, 1*4 + 2}, // CG
		{2, 2*4 + 3}, // GT
	}
	for i, w := range wants {
		pos, kmer, ok := it.Next()
		if !ok {
			t.Fatalf("iteration %d: expected a kmer, got none", i)
		}
		if pos != w.pos || kmer != w.kmer {
			t.Errorf("iteration %d: got (pos=%d, kmer=%d), want (pos=%d, kmer=%d)", i, pos, kmer, w.pos, w.kmer)
		}
	}
	if _, _, ok := it.Next(); ok {
		t.Error("expected iterator to be exhausted")
	}
}

func TestKmerIteratorResyncsAfterAmbiguous(t *testing.T) {
	// "ACNGT" with kmerLength 2: AC is valid; the N invalidates the
	// CN/NG windows; the iterator should resume once 2 valid symbols
	// follow the N, at GT.
	it := NewKmerIterator(DNA, []byte("ACNGT"), 2)

	pos, kmer, ok := it.Next()
	if !ok {
		t.Fatal("expected the AC kmer before the ambiguous symbol")
	}
	if pos != 0 || kmer != DNA.Encode('A')*4+DNA.Encode('C') {
		t.Errorf("got (pos=%d, kmer=%d), want the AC window at pos 0", pos, kmer)
	}

	pos, kmer, ok = it.Next()
	if !ok {
		t.Fatal("expected one kmer after the ambiguous symbol")
	}
	if pos != 3 {
		t.Errorf("pos = %d, want 3 (the GT window)", pos)
	}
	wantKmer := DNA.Encode('G')*4 + DNA.Encode('T')
	if kmer != wantKmer {
		t.Errorf("kmer = %d, want %d", kmer, wantKmer)
	}
	if _, _, ok := it.Next(); ok {
		t.Error("expected iterator to be exhausted")
	}
}

func TestNumKmers(t *testing.T) {
	if got := NumKmers(DNA, 3); got != 64 {
		t.Errorf("NumKmers(DNA, 3) = %d, want 64", got)
	}
	if got := NumKmers(Protein, 2); got != 400 {
		t.Errorf("NumKmers(Protein, 2) = %d, want 400", got)
	}
}
