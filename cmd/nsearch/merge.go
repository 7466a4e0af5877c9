package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	bioalphabet "github.com/biogo/biogo/alphabet"

	"github.com/ndaniels/nsearch"
)

// minOverlap is the shortest overlap merge will accept between a
// forward read's suffix and a reverse read's (reverse-complemented)
// prefix. Below this, two unrelated reads overlap by chance too often
// to trust.
const minOverlap = 10

func init() {
	mergeCmd := &cobra.Command{
		Use:   "merge",
		Short: "merge overlapping paired-end reads into single sequences",
		RunE:  runMerge,
	}
	mergeCmd.Flags().String("forward", "", "forward-read FASTA file")
	mergeCmd.Flags().String("reverse", "", "reverse-read FASTA file")
	mergeCmd.Flags().String("out", "", "merged-output FASTA file")
	for _, name := range []string{"forward", "reverse", "out"} {
		_ = mergeCmd.MarkFlagRequired(name)
	}
	rootCmd.AddCommand(mergeCmd)
}

// runMerge is a standalone paired-end overlap merger: it is not part
// of the search pipeline and shares none of its scoring machinery,
// only the FASTA reader and Sequence type.
func runMerge(cmd *cobra.Command, args []string) error {
	forwardPath, _ := cmd.Flags().GetString("forward")
	reversePath, _ := cmd.Flags().GetString("reverse")
	outPath, _ := cmd.Flags().GetString("out")

	forwardReads, err := readFastaFile(forwardPath, bioalphabet.DNA, nil)
	if err != nil {
		return err
	}
	reverseReads, err := readFastaFile(reversePath, bioalphabet.DNA, nil)
	if err != nil {
		return err
	}
	if len(forwardReads) != len(reverseReads) {
		return fmt.Errorf("forward file has %d reads, reverse file has %d", len(forwardReads), len(reverseReads))
	}
	log.Infof("merging %d read pairs", len(forwardReads))

	out, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer out.Close()

	numProcessed, numMerged := 0, 0
	var totalMergedLength int

	for i, fwd := range forwardReads {
		numProcessed++
		rev := reverseComplement(reverseReads[i])

		merged, ok := overlapMerge(fwd, rev)
		if !ok {
			continue
		}
		numMerged++
		totalMergedLength += merged.Len()

		fmt.Fprintf(out, ">%s\n%s\n", merged.Identifier, merged.Symbols)
	}

	meanLength := 0.0
	if numMerged > 0 {
		meanLength = float64(totalMergedLength) / float64(numMerged)
	}
	fmt.Printf("\nSummary:\n")
	fmt.Printf("%10d Pairs\n", numProcessed)
	fmt.Printf("%10d Merged (%.1f%%)\n", numMerged, 100.0*float64(numMerged)/float64(numProcessed))
	fmt.Printf("%10.1f Mean merged length\n", meanLength)

	return nil
}

// overlapMerge looks for the longest suffix of fwd that exactly
// matches a prefix of rev, of at least minOverlap symbols, and joins
// them at that overlap. It reports ok=false if no such overlap exists.
func overlapMerge(fwd, rev nsearch.Sequence) (nsearch.Sequence, bool) {
	maxOverlap := len(fwd.Symbols)
	if len(rev.Symbols) < maxOverlap {
		maxOverlap = len(rev.Symbols)
	}

	for overlap := maxOverlap; overlap >= minOverlap; overlap-- {
		suffix := fwd.Symbols[len(fwd.Symbols)-overlap:]
		prefix := rev.Symbols[:overlap]
		if bytesEqualFold(suffix, prefix) {
			merged := make([]byte, 0, len(fwd.Symbols)+len(rev.Symbols)-overlap)
			merged = append(merged, fwd.Symbols...)
			merged = append(merged, rev.Symbols[overlap:]...)
			return nsearch.NewSequence(fwd.Identifier, merged), true
		}
	}
	return nsearch.Sequence{}, false
}

func bytesEqualFold(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if nsearch.DNA.Encode(a[i]) != nsearch.DNA.Encode(b[i]) {
			return false
		}
	}
	return true
}

func reverseComplement(seq nsearch.Sequence) nsearch.Sequence {
	out := make([]byte, len(seq.Symbols))
	for i, sym := range seq.Symbols {
		out[len(out)-1-i] = complementBase(sym)
	}
	return nsearch.NewSequence(seq.Identifier, out)
}

func complementBase(b byte) byte {
	switch b {
	case 'A', 'a':
		return 'T'
	case 'T', 't':
		return 'A'
	case 'C', 'c':
		return 'G'
	case 'G', 'g':
		return 'C'
	default:
		return 'N'
	}
}
