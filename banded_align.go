package nsearch

// bandedGap tracks the best score ending in a gap at some column (for
// vertical gaps) or the current column (for the single horizontal gap),
// along with whether that gap is terminal, since terminal and interior
// gaps carry different open/extend costs (spec.md §4.4). Ported from
// original_source's BandedAlign.h Gap class.
type bandedGap struct {
	score      int
	isTerminal bool

	terminalOpenPlusExtend int
	terminalExtend         int
	interiorOpenPlusExtend int
	interiorExtend         int
}

func newBandedGap(conf DBConf) bandedGap {
	g := bandedGap{
		terminalOpenPlusExtend: conf.BandedTerminalGapOpen + conf.BandedTerminalGapExtend,
		terminalExtend:         conf.BandedTerminalGapExtend,
		interiorOpenPlusExtend: conf.BandedInteriorGapOpen + conf.BandedInteriorGapExtend,
		interiorExtend:         conf.BandedInteriorGapExtend,
	}
	g.reset()
	return g
}

func (g *bandedGap) reset() {
	g.score = minScore
	g.isTerminal = false
}

func (g *bandedGap) extendScore() int {
	if g.isTerminal {
		return g.terminalExtend
	}
	return g.interiorExtend
}

func (g *bandedGap) extend(length int) {
	g.score += length * g.extendScore()
}

func (g *bandedGap) openOrExtend(score int, terminal bool, length int) {
	var openPlusExtend int
	if terminal {
		openPlusExtend = g.terminalOpenPlusExtend
	} else {
		openPlusExtend = g.interiorOpenPlusExtend
	}
	newGapScore := score + length*openPlusExtend

	g.extend(1)

	if newGapScore > g.score {
		g.score = newGapScore
		g.isTerminal = terminal
	}
}

// BandedAligner performs banded affine-gap global alignment between two
// anchored endpoints, distinguishing terminal from interior gap costs
// (spec.md §4.4). It owns its scratch score row, per-column vertical-gap
// state, and traceback-operations matrix, grown on demand and reused
// within one Engine.
type BandedAligner struct {
	alphabet Alphabet
	conf     DBConf

	scores       []int
	verticalGaps []bandedGap
	operations   []byte
	opsWidth     int
}

// NewBandedAligner returns a BandedAligner configured per conf.
func NewBandedAligner(alphabet Alphabet, conf DBConf) *BandedAligner {
	return &BandedAligner{alphabet: alphabet, conf: conf}
}

func (b *BandedAligner) ensure(width, height int) {
	if cap(b.scores) < width {
		b.scores = make([]int, width*3/2+1)
		b.verticalGaps = make([]bandedGap, width*3/2+1)
	}
	b.scores = b.scores[:width]
	b.verticalGaps = b.verticalGaps[:width]
	for i := range b.verticalGaps {
		b.verticalGaps[i] = newBandedGap(b.conf)
	}
	for i := range b.scores {
		b.scores[i] = minScore
	}

	if cap(b.operations) < width*height {
		b.operations = make([]byte, width*height*3/2+1)
	}
	b.operations = b.operations[:width*height]
	b.opsWidth = width
}

// Align aligns query[startA..endA] against target[startB..endB]
// (direction-aware; under Backward the indices are descending) within a
// diagonal band of half-width conf.BandedBandwidth around the submatrix
// main diagonal. If endA/endB are negative, they default to the
// sequence's far end in the direction of travel. Returns the alignment
// score and, if wantCigar, the CIGAR oriented in the direction of the
// original sequence.
func (b *BandedAligner) Align(query, target Sequence, startA, startB, endA, endB int, dir Direction, wantCigar bool) (score int, cigar Cigar) {
	conf := b.conf
	lenA, lenB := len(query.Symbols), len(target.Symbols)

	if endA < 0 {
		if dir == Forward {
			endA = lenA
		} else {
			endA = 0
		}
	}
	if endB < 0 {
		if dir == Forward {
			endB = lenB
		} else {
			endB = 0
		}
	}

	width := abs(endA-startA) + 1
	height := abs(endB-startB) + 1

	b.ensure(width, height)

	bw := conf.BandedBandwidth

	fromBeginningA := startA == 0 || startA == lenA
	fromBeginningB := startB == 0 || startB == lenB
	fromEndA := endA == 0 || endA == lenA
	fromEndB := endB == 0 || endB == lenB

	b.scores[0] = 0
	b.verticalGaps[0].openOrExtend(b.scores[0], fromBeginningB, 1)

	horizontalGap := newBandedGap(conf)

	x := 1
	for ; x < width; x++ {
		if x > bw && height > 1 {
			break
		}
		horizontalGap.openOrExtend(b.scores[x-1], fromBeginningA, 1)
		b.scores[x] = horizontalGap.score
		if wantCigar {
			b.operations[x] = 'D'
		}
	}
	if x < width {
		b.scores[x] = minScore
		b.verticalGaps[x].reset()
	}

	// lastRowRightBoundPlus1 and lastRowY track, across the row loop
	// below, the exit values the original C++ implementation reads off
	// its shared x/y loop variables after the loop: the column one past
	// the last column computed in the last processed row, and the row
	// index at which the loop stopped (by running out of rows, or by
	// the band collapsing).
	lastRowRightBoundPlus1 := x
	lastRowY := 1

	center := 1
	for y := 1; y < height; y++ {
		lastRowY = y
		var score int

		leftBound := center - bw
		if leftBound < 0 {
			leftBound = 0
		}
		if leftBound > width-1 {
			leftBound = width - 1
		}
		rightBound := center + bw
		if rightBound > width-1 {
			rightBound = width - 1
		}

		diagScore := minScore
		if leftBound > 0 {
			diagScore = b.scores[leftBound-1]
			b.scores[leftBound-1] = minScore
			b.verticalGaps[leftBound-1].reset()
		}

		horizontalGap.reset()
		var match bool
		for x := leftBound; x <= rightBound; x++ {
			var aIdx, bIdx int
			if x > 0 {
				if dir == Forward {
					aIdx = startA + x - 1
					bIdx = startB + y - 1
				} else {
					aIdx = startA - x
					bIdx = startB - y
				}
				match = b.alphabet.Match(query.Symbols[aIdx], target.Symbols[bIdx])
				if match {
					score = diagScore + conf.MatchScore
				} else {
					score = diagScore + conf.MismatchScore
				}
			} else {
				score = minScore
			}

			if score < horizontalGap.score {
				score = horizontalGap.score
			}
			vg := &b.verticalGaps[x]
			if score < vg.score {
				score = vg.score
			}

			diagScore = b.scores[x]
			b.scores[x] = score

			if wantCigar {
				var op byte
				switch {
				case score == horizontalGap.score:
					op = 'D'
				case score == vg.score:
					op = 'I'
				default:
					if match {
						op = 'M'
					} else {
						op = 'X'
					}
				}
				b.operations[y*b.opsWidth+x] = op
			}

			isTerminalA := (x == 0 || x == width-1) && fromEndA
			isTerminalB := (y == 0 || y == height-1) && fromEndB

			horizontalGap.openOrExtend(score, isTerminalB, 1)
			vg.openOrExtend(score, isTerminalA, 1)
		}

		lastRowRightBoundPlus1 = rightBound + 1

		if rightBound+1 < width {
			b.scores[rightBound+1] = minScore
			b.verticalGaps[rightBound+1].reset()
		}

		if rightBound == leftBound {
			break
		}
		center++
		lastRowY = y + 1
	}

	finalScore := b.scores[lastRowRightBoundPlus1-1]
	emulatedFrom := height
	if lastRowRightBoundPlus1 == width && lastRowY < height-1 {
		// The band collapsed onto the last column before the last row:
		// emulate the remaining vertical moves at the last column over the
		// rows not yet processed. The vertical gap already reaches row
		// lastRowY+1, so it is extended to row height-1.
		vg := &b.verticalGaps[width-1]
		vg.extend(height - 2 - lastRowY)
		finalScore = vg.score
		emulatedFrom = lastRowY + 1
	}

	if wantCigar {
		cigar = NewCigar()
		cx, cy := width-1, height-1
		// Emulated rows have no recorded operations: they are vertical
		// moves (gaps in the query).
		for ; cy >= emulatedFrom; cy-- {
			cigar.Add(CigarDeletion)
		}
		for cx != 0 || cy != 0 {
			op := CigarOp(0)
			switch b.operations[cy*b.opsWidth+cx] {
			case 'D':
				op = CigarInsertion
				cx--
			case 'I':
				op = CigarDeletion
				cy--
			case 'M':
				op = CigarMatch
				cx--
				cy--
			case 'X':
				op = CigarMismatch
				cx--
				cy--
			}
			cigar.Add(op)
		}
		if dir == Forward {
			cigar = cigar.Reverse()
		}
	} else {
		cigar = NewCigar()
	}

	return finalScore, cigar
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
