package main

import (
	"fmt"
	"os"

	bioalphabet "github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/io/seqio"
	"github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/seq/linear"

	"github.com/ndaniels/nsearch"
)

// moleculeAlphabets maps a CLI molecule name to the biogo template
// alphabet used to parse FASTA records and the core nsearch.Alphabet
// used to search them.
func moleculeAlphabets(molecule string) (bioalphabet.Alphabet, nsearch.Alphabet, error) {
	switch molecule {
	case "dna":
		return bioalphabet.DNA, nsearch.DNA, nil
	case "protein":
		return bioalphabet.Protein, nsearch.Protein, nil
	default:
		return nil, nil, fmt.Errorf("unknown molecule %q, want dna or protein", molecule)
	}
}

// readFastaFile reads every record in path into nsearch.Sequence
// values, using template to decode FASTA residues into the right
// alphabet. Grounded on kortschak-loopy's fasta.NewReader(f,
// linear.NewSeq("", nil, alphabet.DNA)) + seqio.Scanner idiom.
func readFastaFile(path string, template bioalphabet.Alphabet, progress func(processed int)) ([]nsearch.Sequence, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := fasta.NewReader(f, linear.NewSeq("", nil, template))
	scanner := seqio.NewScanner(reader)

	var out []nsearch.Sequence
	for scanner.Next() {
		rec := scanner.Seq().(*linear.Seq)
		symbols := make([]byte, len(rec.Seq))
		for i, l := range rec.Seq {
			symbols[i] = byte(l)
		}
		out = append(out, nsearch.NewSequence(rec.Name(), symbols))
		if progress != nil {
			progress(len(out))
		}
	}
	if err := scanner.Error(); err != nil {
		return nil, err
	}
	return out, nil
}
