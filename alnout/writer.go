// Package alnout writes the blast-like "alnout" alignment report
// described in spec.md §6: one block per accepted hit, with a header,
// a triple-line query/bar/target pane, and a trailing column/identity
// summary. Grounded on original_source's Database.h PrintWholeAlignment,
// generalized from a stdout printer into a Writer wrapping an io.Writer,
// the way the teacher's rw.go wraps CompressedSeq output in a type
// holding its own *os.File / bufio.Writer.
package alnout

import (
	"bufio"
	"fmt"
	"io"

	"github.com/ndaniels/nsearch"
)

// Writer serializes nsearch.Hit values to the alnout text format.
type Writer struct {
	w *bufio.Writer
}

// NewWriter wraps w in a buffered writer; WriteHit flushes after each
// block, and Flush writes out anything still buffered.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// Flush writes any buffered output to the underlying writer.
func (wr *Writer) Flush() error {
	return wr.w.Flush()
}

// WriteHit renders one accepted hit as an alnout block.
//
// Terminal indel runs are stripped from the displayed pane (and from
// the 1-based start columns) but remain part of hit.Cigar's structural
// representation; this mirrors PrintWholeAlignment's handling of a
// leading/trailing DELETION or INSERTION entry.
func (wr *Writer) WriteHit(hit nsearch.Hit) error {
	cigar := hit.Cigar
	entries := append([]nsearch.CigarEntry(nil), cigar.Entries()...)

	queryStart, targetStart := 0, 0
	if len(entries) > 0 {
		first := entries[0]
		switch first.Op {
		case nsearch.CigarDeletion:
			targetStart = first.Count
			entries = entries[1:]
		case nsearch.CigarInsertion:
			queryStart = first.Count
			entries = entries[1:]
		}
	}
	if len(entries) > 0 {
		last := entries[len(entries)-1]
		switch last.Op {
		case nsearch.CigarDeletion, nsearch.CigarInsertion:
			entries = entries[:len(entries)-1]
		}
	}

	var q, a, t []byte
	numMatches, numCols := 0, 0
	qi, ti := queryStart, targetStart

	for _, e := range entries {
		for i := 0; i < e.Count; i++ {
			switch e.Op {
			case nsearch.CigarInsertion:
				t = append(t, '-')
				q = append(q, hit.Query.Symbols[qi])
				a = append(a, ' ')
				qi++
			case nsearch.CigarDeletion:
				q = append(q, '-')
				t = append(t, hit.Target.Symbols[ti])
				a = append(a, ' ')
				ti++
			case nsearch.CigarMatch:
				q = append(q, hit.Query.Symbols[qi])
				t = append(t, hit.Target.Symbols[ti])
				a = append(a, '|')
				numMatches++
				qi++
				ti++
			case nsearch.CigarMismatch:
				q = append(q, hit.Query.Symbols[qi])
				t = append(t, hit.Target.Symbols[ti])
				a = append(a, ' ')
				qi++
				ti++
			}
			numCols++
		}
	}

	identity := 0.0
	if numCols > 0 {
		identity = 100.0 * float64(numMatches) / float64(numCols)
	}

	bw := wr.w
	fmt.Fprintln(bw)
	fmt.Fprintf(bw, "Query            >%s\n", hit.Query.Identifier)
	fmt.Fprintln(bw)
	fmt.Fprintf(bw, "%15d %s %d\n", queryStart+1, q, qi)
	fmt.Fprintf(bw, "%16s%s\n", "", a)
	fmt.Fprintf(bw, "%15d %s %d\n", targetStart+1, t, ti)
	fmt.Fprintln(bw)
	fmt.Fprintf(bw, "Target           >%s\n", hit.Target.Identifier)
	fmt.Fprintln(bw)
	fmt.Fprintf(bw, "%d cols, %d ids (%.1f%%)\n", numCols, numMatches, identity)
	fmt.Fprintln(bw)
	fmt.Fprintln(bw, "==================================================")

	return bw.Flush()
}
